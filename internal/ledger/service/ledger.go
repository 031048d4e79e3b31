package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	ledgererrors "studiodesk/internal/ledger/errors"
	"studiodesk/internal/ledger/repository"
	"studiodesk/pkg/clock"
	"studiodesk/pkg/db"
	apperrors "studiodesk/pkg/errors"
	"studiodesk/pkg/logger"
	"studiodesk/pkg/metrics"
	"studiodesk/pkg/model"
	"studiodesk/pkg/validation"

	"github.com/google/uuid"
)

// LedgerService owns member ticket balances. Debit and Credit join the
// caller's transaction when ctx carries one.
type LedgerService interface {
	Debit(ctx context.Context, memberID string, ticket model.TicketType, n int, refID string) (int, error)
	Credit(ctx context.Context, memberID string, ticket model.TicketType, n int, reason model.LedgerReason, refID string) (int, error)
	GetMember(ctx context.Context, memberID string) (*model.Member, error)
	Balances(ctx context.Context, actor model.Actor, memberID string) (*model.Member, error)
	Journal(ctx context.Context, actor model.Actor, memberID string, limit int, offset int64) ([]*model.LedgerEntry, int64, error)
	Grant(ctx context.Context, actor model.Actor, memberID string, req *model.CreditRequest) (*model.LedgerEntry, error)
}

type ledgerService struct {
	members   repository.MemberRepository
	journal   repository.JournalRepository
	txManager db.TransactionManager
	validator *validation.Validator
	clock     clock.Clock
	log       *logger.Logger
}

func NewLedgerService(
	members repository.MemberRepository,
	journal repository.JournalRepository,
	txManager db.TransactionManager,
	validator *validation.Validator,
	clk clock.Clock,
	log *logger.Logger,
) LedgerService {
	return &ledgerService{
		members:   members,
		journal:   journal,
		txManager: txManager,
		validator: validator,
		clock:     clk,
		log:       log.Component("ledger"),
	}
}

func (s *ledgerService) Debit(ctx context.Context, memberID string, ticket model.TicketType, n int, refID string) (int, error) {
	if n <= 0 {
		return 0, invalidQuantity()
	}
	entry, err := s.move(ctx, memberID, ticket, -n, model.ReasonBooking, refID)
	if err != nil {
		return 0, err
	}
	return entry.BalanceAfter, nil
}

func (s *ledgerService) Credit(ctx context.Context, memberID string, ticket model.TicketType, n int, reason model.LedgerReason, refID string) (int, error) {
	if n <= 0 {
		return 0, invalidQuantity()
	}
	entry, err := s.move(ctx, memberID, ticket, n, reason, refID)
	if err != nil {
		return 0, err
	}
	return entry.BalanceAfter, nil
}

func (s *ledgerService) move(ctx context.Context, memberID string, ticket model.TicketType, delta int, reason model.LedgerReason, refID string) (*model.LedgerEntry, error) {
	if !ticket.Valid() {
		return nil, apperrors.Wrap(ledgererrors.ErrInvalidTicket, apperrors.CodeInvalidInput,
			fmt.Sprintf("unknown ticket type %q", ticket), http.StatusBadRequest)
	}

	var entry *model.LedgerEntry
	err := s.txManager.ExecuteTransaction(ctx, func(txCtx context.Context) error {
		balance, err := s.members.AdjustBalance(txCtx, memberID, ticket, delta)
		if err != nil {
			return s.mapError(err, memberID, ticket)
		}

		entry = &model.LedgerEntry{
			ID:           uuid.NewString(),
			MemberID:     memberID,
			Ticket:       ticket,
			Delta:        delta,
			BalanceAfter: balance,
			Reason:       reason,
			RefID:        refID,
			CreatedAt:    s.clock.Now(),
		}
		if err := s.journal.Append(txCtx, entry); err != nil {
			return apperrors.Internal("Failed to record ledger entry", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.LedgerMovements.WithLabelValues(string(ticket), string(reason)).Add(float64(abs(delta)))
	s.log.Info("Ticket balance changed",
		"member_id", memberID,
		"ticket", ticket,
		"delta", delta,
		"balance", entry.BalanceAfter,
		"reason", reason,
		"ref_id", refID,
	)
	return entry, nil
}

func (s *ledgerService) mapError(err error, memberID string, ticket model.TicketType) error {
	switch {
	case errors.Is(err, ledgererrors.ErrMemberNotFound):
		return apperrors.NotFoundWithID("Member", memberID)
	case errors.Is(err, ledgererrors.ErrInsufficientBalance):
		return apperrors.InsufficientBalance(err, fmt.Sprintf("No %s tickets left", ticket)).
			WithDetails(map[string]any{"member_id": memberID, "ticket": ticket})
	}
	return apperrors.Internal("Failed to update ticket balance", err)
}

func (s *ledgerService) GetMember(ctx context.Context, memberID string) (*model.Member, error) {
	if memberID == "" {
		return nil, apperrors.InvalidInput("Member ID cannot be empty")
	}
	member, err := s.members.FindByID(ctx, memberID)
	if err != nil {
		if errors.Is(err, ledgererrors.ErrMemberNotFound) {
			return nil, apperrors.NotFoundWithID("Member", memberID)
		}
		return nil, apperrors.Internal("Failed to retrieve member", err)
	}
	return member, nil
}

func (s *ledgerService) Balances(ctx context.Context, actor model.Actor, memberID string) (*model.Member, error) {
	if err := authorizeView(actor, memberID); err != nil {
		return nil, err
	}
	return s.GetMember(ctx, memberID)
}

func (s *ledgerService) Journal(ctx context.Context, actor model.Actor, memberID string, limit int, offset int64) ([]*model.LedgerEntry, int64, error) {
	if err := authorizeView(actor, memberID); err != nil {
		return nil, 0, err
	}
	if _, err := s.GetMember(ctx, memberID); err != nil {
		return nil, 0, err
	}

	count, err := s.journal.CountByMember(ctx, memberID)
	if err != nil {
		return nil, 0, apperrors.Internal("Failed to count ledger entries", err)
	}
	entries, err := s.journal.FindByMember(ctx, memberID, limit, offset)
	if err != nil {
		return nil, 0, apperrors.Internal("Failed to retrieve ledger entries", err)
	}
	return entries, count, nil
}

func (s *ledgerService) Grant(ctx context.Context, actor model.Actor, memberID string, req *model.CreditRequest) (*model.LedgerEntry, error) {
	if actor.Role != model.RoleAdmin {
		return nil, apperrors.Forbidden("Only administrators can grant tickets")
	}
	if err := s.validator.Struct(req); err != nil {
		var fieldErrs validation.Errors
		if errors.As(err, &fieldErrs) {
			return nil, apperrors.Validation("Invalid credit request", fieldErrs.Details())
		}
		return nil, apperrors.Validation("Invalid credit request", map[string]any{"error": err.Error()})
	}

	return s.move(ctx, memberID, req.Ticket, req.Quantity, model.ReasonCatalogCredit, req.RefID)
}

// Members see their own ledger; staff see any.
func authorizeView(actor model.Actor, memberID string) error {
	if actor.Role.IsStaff() || actor.ID == memberID {
		return nil
	}
	return apperrors.Forbidden("Members can only view their own tickets")
}

func invalidQuantity() error {
	return apperrors.Wrap(ledgererrors.ErrInvalidQuantity, apperrors.CodeInvalidInput,
		"ticket quantity must be positive", http.StatusBadRequest)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
