// Package db defines the storage-neutral transaction contract shared by the
// Mongo and in-memory backends.
package db

import (
	"context"
	"errors"
)

// TxFunc runs inside a transaction. Repositories must be called with the
// ctx it receives so their work joins the transaction.
type TxFunc func(ctx context.Context) error

type TransactionManager interface {
	ExecuteTransaction(ctx context.Context, fn TxFunc) error
}

var (
	ErrNotFound     = errors.New("document not found")
	ErrDuplicateKey = errors.New("duplicate key")
)
