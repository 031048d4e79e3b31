package repository

import (
	"context"

	rostererrors "studiodesk/internal/roster/errors"
	"studiodesk/pkg/db/memory"
	"studiodesk/pkg/model"
)

type memoryProfessionalRepository struct {
	store         *memory.Store
	professionals *memory.Collection[model.Professional]
}

func NewMemoryProfessionalRepository(store *memory.Store) ProfessionalRepository {
	return &memoryProfessionalRepository{
		store:         store,
		professionals: memory.NewCollection[model.Professional](store),
	}
}

func (r *memoryProfessionalRepository) FindByID(ctx context.Context, id string) (*model.Professional, error) {
	var out *model.Professional
	err := r.store.Do(ctx, func() error {
		p, ok := r.professionals.Get(id)
		if !ok {
			return rostererrors.ErrProfessionalNotFound
		}
		out = &p
		return nil
	})
	return out, err
}

func (r *memoryProfessionalRepository) Upsert(ctx context.Context, professional *model.Professional) error {
	return r.store.Do(ctx, func() error {
		r.professionals.Put(professional.ID, *professional)
		return nil
	})
}

type memoryUserRepository struct {
	store *memory.Store
	users *memory.Collection[model.User]
}

func NewMemoryUserRepository(store *memory.Store) UserRepository {
	return &memoryUserRepository{
		store: store,
		users: memory.NewCollection[model.User](store),
	}
}

func (r *memoryUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	var out *model.User
	err := r.store.Do(ctx, func() error {
		u, ok := r.users.Get(id)
		if !ok {
			return rostererrors.ErrUserNotFound
		}
		out = &u
		return nil
	})
	return out, err
}

func (r *memoryUserRepository) FindByRole(ctx context.Context, role model.Role) ([]*model.User, error) {
	var out []*model.User
	err := r.store.Do(ctx, func() error {
		for _, u := range r.users.Filter(func(u model.User) bool { return u.Role == role }) {
			out = append(out, &u)
		}
		return nil
	})
	return out, err
}

func (r *memoryUserRepository) FindAllIDs(ctx context.Context) ([]string, error) {
	var ids []string
	err := r.store.Do(ctx, func() error {
		for _, u := range r.users.Filter(nil) {
			ids = append(ids, u.ID)
		}
		return nil
	})
	return ids, err
}

func (r *memoryUserRepository) Upsert(ctx context.Context, user *model.User) error {
	return r.store.Do(ctx, func() error {
		r.users.Put(user.ID, *user)
		return nil
	})
}
