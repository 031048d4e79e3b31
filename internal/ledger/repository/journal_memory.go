package repository

import (
	"context"
	"sort"

	"studiodesk/pkg/db"
	"studiodesk/pkg/db/memory"
	"studiodesk/pkg/model"
)

type memoryJournalRepository struct {
	store   *memory.Store
	entries *memory.Collection[model.LedgerEntry]
}

func NewMemoryJournalRepository(store *memory.Store) JournalRepository {
	return &memoryJournalRepository{
		store:   store,
		entries: memory.NewCollection[model.LedgerEntry](store),
	}
}

func (r *memoryJournalRepository) Append(ctx context.Context, entry *model.LedgerEntry) error {
	return r.store.Do(ctx, func() error {
		return r.entries.Insert(entry.ID, *entry)
	})
}

func (r *memoryJournalRepository) FindByMember(ctx context.Context, memberID string, limit int, offset int64) ([]*model.LedgerEntry, error) {
	var out []*model.LedgerEntry
	err := r.store.Do(ctx, func() error {
		matches := r.entries.Filter(func(e model.LedgerEntry) bool {
			return e.MemberID == memberID
		})
		sort.SliceStable(matches, func(i, j int) bool {
			return matches[i].CreatedAt.After(matches[j].CreatedAt)
		})
		for _, e := range db.Page(matches, limit, offset) {
			out = append(out, &e)
		}
		return nil
	})
	return out, err
}

func (r *memoryJournalRepository) CountByMember(ctx context.Context, memberID string) (int64, error) {
	var count int64
	err := r.store.Do(ctx, func() error {
		count = int64(len(r.entries.Filter(func(e model.LedgerEntry) bool {
			return e.MemberID == memberID
		})))
		return nil
	})
	return count, err
}
