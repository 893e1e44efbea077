package repository

// Package repository contains data access layer abstractions.
// Implementations can live in subpackages (e.g., postgres) inside this directory.

import (
	"context"
	"database/sql"
	"errors"
)

// ErrTxInProgress is returned by Begin when the unit of work is already bound
// to a live transaction. Nested transactions are not supported.
var ErrTxInProgress = errors.New("transaction already in progress")

// DBTX is the subset of database operations shared by *sql.DB and *sql.Tx.
// Repositories are written against it so the same code runs inside and
// outside a transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Tx is a handle to an open transaction. Commit and Rollback release the
// underlying resources and are safe to call after the transaction has already
// finished (the second call is a no-op).
//
// A Tx is owned exclusively by the operation that began it and must not be
// handed to unrelated operations.
type Tx interface {
	Commit() error
	Rollback() error
}

// NoopTx is the transaction handle for stores that do not support
// transactions (e.g., an in-memory test store). Commit and Rollback do
// nothing so business logic stays store-agnostic.
type NoopTx struct{}

func (NoopTx) Commit() error   { return nil }
func (NoopTx) Rollback() error { return nil }

// UnitOfWork gives the service layer one accessor per repository, all bound
// to the same underlying connection so writes across repositories can share a
// transaction.
//
// Begin opens a transaction and returns a transaction-scoped UnitOfWork whose
// repositories all run inside it, together with the Tx handle that commits or
// rolls it back. The receiving UnitOfWork itself stays bound to the plain
// connection for non-transactional callers.
type UnitOfWork interface {
	Documents() DocumentRepository
	DocumentTypes() DocumentTypeRepository
	Metadata() DocumentMetadataRepository
	Users() UserRepository

	Begin(ctx context.Context) (Tx, UnitOfWork, error)
}

// PageQuery holds limit/offset pagination parameters.
type PageQuery struct {
	Limit  int
	Offset int
}

// PageResult is a generic pagination result wrapper.
// T is typically a model type.
type PageResult[T any] struct {
	Items []T
	Total int
}
