package model

import "time"

type TicketType string

const (
	TicketLesson30 TicketType = "lesson30"
	TicketLesson50 TicketType = "lesson50"
	TicketMental   TicketType = "mental"
	TicketRental   TicketType = "rental"
)

var TicketTypes = []TicketType{TicketLesson30, TicketLesson50, TicketMental, TicketRental}

func (t TicketType) Valid() bool {
	switch t {
	case TicketLesson30, TicketLesson50, TicketMental, TicketRental:
		return true
	}
	return false
}

// Field is the bson path of the balance counter inside a member document.
func (t TicketType) Field() string {
	return "balances." + string(t)
}

type Balances struct {
	Lesson30 int `json:"lesson30" bson:"lesson30"`
	Lesson50 int `json:"lesson50" bson:"lesson50"`
	Mental   int `json:"mental" bson:"mental"`
	Rental   int `json:"rental" bson:"rental"`
}

func (b Balances) Get(t TicketType) int {
	switch t {
	case TicketLesson30:
		return b.Lesson30
	case TicketLesson50:
		return b.Lesson50
	case TicketMental:
		return b.Mental
	case TicketRental:
		return b.Rental
	}
	return 0
}

func (b *Balances) Add(t TicketType, n int) {
	switch t {
	case TicketLesson30:
		b.Lesson30 += n
	case TicketLesson50:
		b.Lesson50 += n
	case TicketMental:
		b.Mental += n
	case TicketRental:
		b.Rental += n
	}
}

type MembershipWindow struct {
	Start time.Time `json:"start" bson:"start"`
	End   time.Time `json:"end" bson:"end"`
}

type Member struct {
	ID         string           `json:"id" bson:"_id"`
	Name       string           `json:"name" bson:"name"`
	Membership MembershipWindow `json:"membership" bson:"membership"`
	Balances   Balances         `json:"balances" bson:"balances"`
	UpdatedAt  time.Time        `json:"updated_at" bson:"updated_at"`
}

type LedgerReason string

const (
	ReasonBooking       LedgerReason = "booking"
	ReasonCancellation  LedgerReason = "cancellation_refund"
	ReasonCatalogCredit LedgerReason = "catalog_credit"
)

// LedgerEntry journals one balance mutation. Delta is negative for debits.
type LedgerEntry struct {
	ID           string       `json:"id" bson:"_id"`
	MemberID     string       `json:"member_id" bson:"member_id"`
	Ticket       TicketType   `json:"ticket" bson:"ticket"`
	Delta        int          `json:"delta" bson:"delta"`
	BalanceAfter int          `json:"balance_after" bson:"balance_after"`
	Reason       LedgerReason `json:"reason" bson:"reason"`
	RefID        string       `json:"ref_id,omitempty" bson:"ref_id,omitempty"`
	CreatedAt    time.Time    `json:"created_at" bson:"created_at"`
}

type CreditRequest struct {
	Ticket   TicketType `json:"ticket" validate:"required,oneof=lesson30 lesson50 mental rental"`
	Quantity int        `json:"quantity" validate:"required,min=1,max=500"`
	RefID    string     `json:"ref_id,omitempty" validate:"max=128"`
}
