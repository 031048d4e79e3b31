package repository

import (
	"context"
	"sort"
	"time"

	reservationerrors "studiodesk/internal/reservations/errors"
	"studiodesk/pkg/db"
	"studiodesk/pkg/db/memory"
	"studiodesk/pkg/model"
)

type memoryReservationRepository struct {
	store        *memory.Store
	reservations *memory.Collection[model.Reservation]
}

func NewMemoryReservationRepository(store *memory.Store) ReservationRepository {
	return &memoryReservationRepository{
		store:        store,
		reservations: memory.NewCollection[model.Reservation](store),
	}
}

func (r *memoryReservationRepository) Create(ctx context.Context, reservation *model.Reservation) error {
	return r.store.Do(ctx, func() error {
		reservation.UpdatedAt = reservation.CreatedAt
		return r.reservations.Insert(reservation.ID, *reservation)
	})
}

func (r *memoryReservationRepository) FindByID(ctx context.Context, id string) (*model.Reservation, error) {
	var out *model.Reservation
	err := r.store.Do(ctx, func() error {
		res, ok := r.reservations.Get(id)
		if !ok {
			return reservationerrors.ErrNotFound
		}
		out = &res
		return nil
	})
	return out, err
}

func matches(f model.ReservationFilter, res model.Reservation) bool {
	switch {
	case f.MemberID != "" && res.MemberID != f.MemberID:
		return false
	case f.ResourceID != "" && res.ResourceID != f.ResourceID:
		return false
	case f.Kind != "" && res.Kind != f.Kind:
		return false
	case f.Status != "" && res.Status != f.Status:
		return false
	case !f.IncludeHidden && res.Hidden:
		return false
	case !f.From.IsZero() && res.StartTime.Before(f.From):
		return false
	case !f.To.IsZero() && !res.StartTime.Before(f.To):
		return false
	}
	return true
}

func (r *memoryReservationRepository) selectSorted(match func(model.Reservation) bool) []model.Reservation {
	out := r.reservations.Filter(match)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].StartTime.Before(out[j].StartTime)
	})
	return out
}

func pointers(docs []model.Reservation) []*model.Reservation {
	out := make([]*model.Reservation, 0, len(docs))
	for i := range docs {
		out = append(out, &docs[i])
	}
	return out
}

func (r *memoryReservationRepository) Find(ctx context.Context, f model.ReservationFilter) ([]*model.Reservation, error) {
	var out []*model.Reservation
	err := r.store.Do(ctx, func() error {
		found := r.selectSorted(func(res model.Reservation) bool { return matches(f, res) })
		out = pointers(db.Page(found, f.Limit, f.Offset))
		return nil
	})
	return out, err
}

func (r *memoryReservationRepository) Count(ctx context.Context, f model.ReservationFilter) (int64, error) {
	var count int64
	err := r.store.Do(ctx, func() error {
		count = int64(len(r.reservations.Filter(func(res model.Reservation) bool { return matches(f, res) })))
		return nil
	})
	return count, err
}

func (r *memoryReservationRepository) FindScheduledOverlapping(ctx context.Context, resourceID string, start, end time.Time) ([]*model.Reservation, error) {
	var out []*model.Reservation
	err := r.store.Do(ctx, func() error {
		out = pointers(r.selectSorted(func(res model.Reservation) bool {
			return res.ResourceID == resourceID && res.Status == model.StatusScheduled && res.Overlaps(start, end)
		}))
		return nil
	})
	return out, err
}

func (r *memoryReservationRepository) FindScheduledByMemberOverlapping(ctx context.Context, memberID string, start, end time.Time) ([]*model.Reservation, error) {
	var out []*model.Reservation
	err := r.store.Do(ctx, func() error {
		out = pointers(r.selectSorted(func(res model.Reservation) bool {
			return res.MemberID == memberID && res.Status == model.StatusScheduled && res.Overlaps(start, end)
		}))
		return nil
	})
	return out, err
}

func (r *memoryReservationRepository) CountScheduledByMemberKind(ctx context.Context, memberID string, kind model.ReservationKind, from, to time.Time) (int64, error) {
	var count int64
	err := r.store.Do(ctx, func() error {
		count = int64(len(r.reservations.Filter(func(res model.Reservation) bool {
			return res.MemberID == memberID &&
				res.Kind == kind &&
				res.Status == model.StatusScheduled &&
				!res.StartTime.Before(from) &&
				res.StartTime.Before(to)
		})))
		return nil
	})
	return count, err
}

func (r *memoryReservationRepository) UpdateStatus(ctx context.Context, id string, status model.ReservationStatus, now time.Time) error {
	return r.store.Do(ctx, func() error {
		res, ok := r.reservations.Get(id)
		if !ok {
			return reservationerrors.ErrNotFound
		}
		if res.Status != model.StatusScheduled {
			return reservationerrors.ErrNotScheduled
		}
		res.Status = status
		res.UpdatedAt = now
		r.reservations.Put(id, res)
		return nil
	})
}

func (r *memoryReservationRepository) DeleteScheduled(ctx context.Context, id string) error {
	return r.store.Do(ctx, func() error {
		res, ok := r.reservations.Get(id)
		if !ok {
			return reservationerrors.ErrNotFound
		}
		if res.Status != model.StatusScheduled {
			return reservationerrors.ErrNotScheduled
		}
		r.reservations.Delete(id)
		return nil
	})
}

func (r *memoryReservationRepository) Hide(ctx context.Context, id string, now time.Time) error {
	return r.store.Do(ctx, func() error {
		res, ok := r.reservations.Get(id)
		if !ok {
			return reservationerrors.ErrNotFound
		}
		res.Hidden = true
		res.UpdatedAt = now
		r.reservations.Put(id, res)
		return nil
	})
}

func (r *memoryReservationRepository) SweepExpired(ctx context.Context, now time.Time) (map[model.ReservationStatus]int64, error) {
	moved := map[model.ReservationStatus]int64{}
	err := r.store.Do(ctx, func() error {
		expired := r.reservations.Filter(func(res model.Reservation) bool {
			return res.Status == model.StatusScheduled && !res.EndTime.After(now)
		})
		for _, res := range expired {
			res.Status = model.StatusAbsent
			if res.Kind == model.KindTrainingRoom {
				res.Status = model.StatusAttended
			}
			res.UpdatedAt = now
			r.reservations.Put(res.ID, res)
			moved[res.Status]++
		}
		return nil
	})
	return moved, err
}
