// Package memory is an in-process storage backend. Every operation and every
// transaction is serialized on a single store mutex; a failed transaction
// restores a snapshot of all registered collections.
package memory

import (
	"context"
	"maps"
	"sort"
	"sync"

	"studiodesk/pkg/db"
)

type txKey struct{}

type Store struct {
	mu          sync.Mutex
	collections []snapshotter
}

type snapshotter interface {
	snapshot() (restore func())
}

func NewStore() *Store {
	return &Store{}
}

func (s *Store) inTx(ctx context.Context) bool {
	owner, _ := ctx.Value(txKey{}).(*Store)
	return owner == s
}

// Do runs fn with exclusive access to the store. Inside a transaction the
// lock is already held by the caller.
func (s *Store) Do(ctx context.Context, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.inTx(ctx) {
		return fn()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn()
}

func (s *Store) ExecuteTransaction(ctx context.Context, fn db.TxFunc) error {
	if s.inTx(ctx) {
		return fn(ctx)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	restores := make([]func(), 0, len(s.collections))
	for _, c := range s.collections {
		restores = append(restores, c.snapshot())
	}

	if err := fn(context.WithValue(ctx, txKey{}, s)); err != nil {
		for _, restore := range restores {
			restore()
		}
		return err
	}
	return nil
}

// TransactionManager exposes the store's transactions through the shared
// contract.
func (s *Store) TransactionManager() db.TransactionManager {
	return s
}

// Collection is a keyed document set. It must only be touched inside
// Store.Do or a transaction.
type Collection[T any] struct {
	docs map[string]T
}

func NewCollection[T any](s *Store) *Collection[T] {
	c := &Collection[T]{docs: make(map[string]T)}
	s.mu.Lock()
	s.collections = append(s.collections, c)
	s.mu.Unlock()
	return c
}

func (c *Collection[T]) snapshot() func() {
	saved := maps.Clone(c.docs)
	return func() { c.docs = saved }
}

func (c *Collection[T]) Get(id string) (T, bool) {
	doc, ok := c.docs[id]
	return doc, ok
}

func (c *Collection[T]) Insert(id string, doc T) error {
	if _, ok := c.docs[id]; ok {
		return db.ErrDuplicateKey
	}
	c.docs[id] = doc
	return nil
}

func (c *Collection[T]) Put(id string, doc T) {
	c.docs[id] = doc
}

func (c *Collection[T]) Delete(id string) bool {
	if _, ok := c.docs[id]; !ok {
		return false
	}
	delete(c.docs, id)
	return true
}

// Filter returns the matching documents ordered by key.
func (c *Collection[T]) Filter(match func(T) bool) []T {
	keys := make([]string, 0, len(c.docs))
	for k := range c.docs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var out []T
	for _, k := range keys {
		if doc := c.docs[k]; match == nil || match(doc) {
			out = append(out, doc)
		}
	}
	return out
}

func (c *Collection[T]) Len() int {
	return len(c.docs)
}
