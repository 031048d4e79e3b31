package memory

import (
	"context"
	"errors"
	"sync"
	"testing"

	"studiodesk/pkg/db"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type doc struct {
	ID    string
	Value int
}

func TestCollection_InsertDuplicate(t *testing.T) {
	s := NewStore()
	c := NewCollection[doc](s)
	ctx := context.Background()

	err := s.Do(ctx, func() error { return c.Insert("a", doc{ID: "a"}) })
	require.NoError(t, err)

	err = s.Do(ctx, func() error { return c.Insert("a", doc{ID: "a"}) })
	assert.ErrorIs(t, err, db.ErrDuplicateKey)
}

func TestExecuteTransaction_RollsBackOnError(t *testing.T) {
	s := NewStore()
	c := NewCollection[doc](s)
	ctx := context.Background()
	require.NoError(t, s.Do(ctx, func() error { c.Put("a", doc{ID: "a", Value: 1}); return nil }))

	boom := errors.New("boom")
	err := s.ExecuteTransaction(ctx, func(txCtx context.Context) error {
		if err := s.Do(txCtx, func() error {
			c.Put("a", doc{ID: "a", Value: 2})
			return c.Insert("b", doc{ID: "b"})
		}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	_ = s.Do(ctx, func() error {
		got, _ := c.Get("a")
		assert.Equal(t, 1, got.Value)
		_, ok := c.Get("b")
		assert.False(t, ok)
		return nil
	})
}

func TestExecuteTransaction_NestedJoinsOuter(t *testing.T) {
	s := NewStore()
	c := NewCollection[doc](s)
	ctx := context.Background()

	err := s.ExecuteTransaction(ctx, func(txCtx context.Context) error {
		return s.ExecuteTransaction(txCtx, func(inner context.Context) error {
			return s.Do(inner, func() error { return c.Insert("x", doc{ID: "x"}) })
		})
	})
	require.NoError(t, err)

	_ = s.Do(ctx, func() error {
		assert.Equal(t, 1, c.Len())
		return nil
	})
}

func TestExecuteTransaction_Serializes(t *testing.T) {
	s := NewStore()
	c := NewCollection[doc](s)
	ctx := context.Background()
	require.NoError(t, s.Do(ctx, func() error { c.Put("n", doc{ID: "n"}); return nil }))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.ExecuteTransaction(ctx, func(txCtx context.Context) error {
				return s.Do(txCtx, func() error {
					d, _ := c.Get("n")
					d.Value++
					c.Put("n", d)
					return nil
				})
			})
		}()
	}
	wg.Wait()

	_ = s.Do(ctx, func() error {
		d, _ := c.Get("n")
		assert.Equal(t, 50, d.Value)
		return nil
	})
}

func TestFilter_OrderedByKey(t *testing.T) {
	s := NewStore()
	c := NewCollection[doc](s)
	ctx := context.Background()

	_ = s.Do(ctx, func() error {
		c.Put("c", doc{ID: "c", Value: 3})
		c.Put("a", doc{ID: "a", Value: 1})
		c.Put("b", doc{ID: "b", Value: 2})

		got := c.Filter(func(d doc) bool { return d.Value > 1 })
		require.Len(t, got, 2)
		assert.Equal(t, "b", got[0].ID)
		assert.Equal(t, "c", got[1].ID)
		return nil
	})
}
