// Package seed loads members, professionals and users from a JSON file so a
// fresh backend has someone to book for.
package seed

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	ledgerrepo "studiodesk/internal/ledger/repository"
	rosterrepo "studiodesk/internal/roster/repository"
	rosterservice "studiodesk/internal/roster/service"
	"studiodesk/pkg/logger"
	"studiodesk/pkg/model"
	"studiodesk/pkg/sanitizer"
	"studiodesk/pkg/validation"
)

type User struct {
	ID       string     `json:"id" validate:"required,max=64"`
	Name     string     `json:"name" validate:"max=100"`
	Role     model.Role `json:"role" validate:"required,oneof=member instructor mental_coach admin"`
	Password string     `json:"password,omitempty" validate:"omitempty,min=8,max=72"`
}

type Member struct {
	ID         string                 `json:"id" validate:"required,max=64"`
	Name       string                 `json:"name" validate:"max=100"`
	Membership model.MembershipWindow `json:"membership"`
	Balances   model.Balances         `json:"balances"`
}

type Professional struct {
	ID             string                 `json:"id" validate:"required,max=64"`
	Name           string                 `json:"name" validate:"max=100"`
	Kind           model.ProfessionalKind `json:"kind" validate:"required,oneof=instructor mental_coach"`
	WeeklyDaysOff  []int                  `json:"weekly_days_off" validate:"dive,min=0,max=6"`
	OneTimeDaysOff []string               `json:"one_time_days_off" validate:"dive,datetime=2006-01-02"`
}

type File struct {
	Members       []Member       `json:"members" validate:"dive"`
	Professionals []Professional `json:"professionals" validate:"dive"`
	Users         []User         `json:"users" validate:"dive"`
}

type Repositories struct {
	Members       ledgerrepo.MemberRepository
	Professionals rosterrepo.ProfessionalRepository
	Users         rosterrepo.UserRepository
}

func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse seed file %s: %w", path, err)
	}
	f.normalize()
	if err := validation.New().Struct(&f); err != nil {
		return nil, fmt.Errorf("invalid seed file %s: %w", path, err)
	}
	for _, u := range f.Users {
		if u.Role == model.RoleAdmin && u.Password == "" {
			return nil, fmt.Errorf("invalid seed file %s: admin %s has no password", path, u.ID)
		}
	}
	return &f, nil
}

func (f *File) normalize() {
	for i := range f.Members {
		f.Members[i].ID = sanitizer.NormalizeID(f.Members[i].ID)
		f.Members[i].Name = sanitizer.NormalizeName(f.Members[i].Name)
	}
	for i := range f.Professionals {
		p := &f.Professionals[i]
		p.ID = sanitizer.NormalizeID(p.ID)
		p.Name = sanitizer.NormalizeName(p.Name)
		if len(p.OneTimeDaysOff) > 0 {
			p.OneTimeDaysOff = sanitizer.NormalizeIDs(p.OneTimeDaysOff)
		}
	}
	for i := range f.Users {
		f.Users[i].ID = sanitizer.NormalizeID(f.Users[i].ID)
		f.Users[i].Name = sanitizer.NormalizeName(f.Users[i].Name)
	}
}

// Apply upserts everything in f. Passwords are stored as bcrypt hashes.
func Apply(ctx context.Context, f *File, repos Repositories, log *logger.Logger) error {
	now := time.Now().UTC()

	for _, m := range f.Members {
		if err := repos.Members.Upsert(ctx, &model.Member{
			ID:         m.ID,
			Name:       m.Name,
			Membership: m.Membership,
			Balances:   m.Balances,
			UpdatedAt:  now,
		}); err != nil {
			return fmt.Errorf("failed to seed member %s: %w", m.ID, err)
		}
	}

	for _, p := range f.Professionals {
		if err := repos.Professionals.Upsert(ctx, &model.Professional{
			ID:             p.ID,
			Name:           p.Name,
			Kind:           p.Kind,
			WeeklyDaysOff:  p.WeeklyDaysOff,
			OneTimeDaysOff: p.OneTimeDaysOff,
		}); err != nil {
			return fmt.Errorf("failed to seed professional %s: %w", p.ID, err)
		}
	}

	for _, u := range f.Users {
		user := &model.User{ID: u.ID, Name: u.Name, Role: u.Role, CreatedAt: now}
		if u.Password != "" {
			hash, err := rosterservice.HashPassword(u.Password)
			if err != nil {
				return fmt.Errorf("failed to hash password for %s: %w", u.ID, err)
			}
			user.PasswordHash = hash
		}
		if err := repos.Users.Upsert(ctx, user); err != nil {
			return fmt.Errorf("failed to seed user %s: %w", u.ID, err)
		}
	}

	log.Info("Seed data applied",
		"members", len(f.Members),
		"professionals", len(f.Professionals),
		"users", len(f.Users),
	)
	return nil
}
