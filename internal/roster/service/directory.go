package service

import (
	"context"
	"errors"

	rostererrors "studiodesk/internal/roster/errors"
	"studiodesk/internal/roster/repository"
	apperrors "studiodesk/pkg/errors"
	"studiodesk/pkg/logger"
	"studiodesk/pkg/model"

	"golang.org/x/crypto/bcrypt"
)

// Directory answers who the people behind a reservation are. It is read-only
// apart from seeding.
type Directory interface {
	GetProfessional(ctx context.Context, id string) (*model.Professional, error)
	GetUser(ctx context.Context, id string) (*model.User, error)
	GetAllAdmins(ctx context.Context) ([]*model.User, error)
	AllUserIDs(ctx context.Context) ([]string, error)
	VerifyAdminPassword(ctx context.Context, adminID, password string) error
}

type directory struct {
	professionals repository.ProfessionalRepository
	users         repository.UserRepository
	log           *logger.Logger
}

func NewDirectory(professionals repository.ProfessionalRepository, users repository.UserRepository, log *logger.Logger) Directory {
	return &directory{
		professionals: professionals,
		users:         users,
		log:           log.Component("directory"),
	}
}

func (d *directory) GetProfessional(ctx context.Context, id string) (*model.Professional, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Professional ID cannot be empty")
	}
	p, err := d.professionals.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, rostererrors.ErrProfessionalNotFound) {
			return nil, apperrors.NotFoundWithID("Professional", id)
		}
		return nil, apperrors.Internal("Failed to retrieve professional", err)
	}
	return p, nil
}

func (d *directory) GetUser(ctx context.Context, id string) (*model.User, error) {
	u, err := d.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, rostererrors.ErrUserNotFound) {
			return nil, apperrors.NotFoundWithID("User", id)
		}
		return nil, apperrors.Internal("Failed to retrieve user", err)
	}
	return u, nil
}

func (d *directory) GetAllAdmins(ctx context.Context) ([]*model.User, error) {
	admins, err := d.users.FindByRole(ctx, model.RoleAdmin)
	if err != nil {
		return nil, apperrors.Internal("Failed to list administrators", err)
	}
	return admins, nil
}

func (d *directory) AllUserIDs(ctx context.Context) ([]string, error) {
	ids, err := d.users.FindAllIDs(ctx)
	if err != nil {
		return nil, apperrors.Internal("Failed to list users", err)
	}
	return ids, nil
}

// VerifyAdminPassword checks password against the acting admin's own stored
// hash. Every failure, including an unknown admin, is reported the same way.
func (d *directory) VerifyAdminPassword(ctx context.Context, adminID, password string) error {
	if password == "" {
		return apperrors.InvalidAdminPassword(rostererrors.ErrPasswordMismatch, "Admin password is required")
	}

	u, err := d.users.FindByID(ctx, adminID)
	if err != nil && !errors.Is(err, rostererrors.ErrUserNotFound) {
		return apperrors.Internal("Failed to verify admin password", err)
	}
	if u == nil || u.Role != model.RoleAdmin || u.PasswordHash == "" {
		d.log.Warn("Admin password check for unknown admin", "admin_id", adminID)
		return apperrors.InvalidAdminPassword(rostererrors.ErrPasswordMismatch, "Invalid admin password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		d.log.Warn("Admin password mismatch", "admin_id", adminID)
		return apperrors.InvalidAdminPassword(rostererrors.ErrPasswordMismatch, "Invalid admin password")
	}
	return nil
}

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
