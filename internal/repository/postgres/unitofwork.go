package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"docvault/internal/repository"
)

// UnitOfWork is the PostgreSQL implementation of repository.UnitOfWork.
// One instance is bound to one connection scope: either the shared *sql.DB or
// a single live *sql.Tx produced by Begin. Repositories are constructed
// eagerly against that scope, so every repository obtained from the same
// UnitOfWork participates in the same transaction, and the pool-scoped
// instance is immutable after construction and safe to share across
// concurrent requests. A transaction-scoped instance is owned by the
// operation that began it.
type UnitOfWork struct {
	db   *sql.DB // nil when transaction-scoped
	conn repository.DBTX

	documents *DocumentPostgres
	types     *DocumentTypePostgres
	metadata  *MetadataPostgres
	users     *UserPostgres
}

// NewUnitOfWork creates a UnitOfWork bound to the shared connection pool.
func NewUnitOfWork(db *sql.DB) *UnitOfWork {
	return newUnitOfWork(db, db)
}

func newUnitOfWork(db *sql.DB, conn repository.DBTX) *UnitOfWork {
	return &UnitOfWork{
		db:        db,
		conn:      conn,
		documents: NewDocumentPostgres(conn),
		types:     NewDocumentTypePostgres(conn),
		metadata:  NewMetadataPostgres(conn),
		users:     NewUserPostgres(conn),
	}
}

var _ repository.UnitOfWork = (*UnitOfWork)(nil)

func (u *UnitOfWork) Documents() repository.DocumentRepository { return u.documents }

func (u *UnitOfWork) DocumentTypes() repository.DocumentTypeRepository { return u.types }

func (u *UnitOfWork) Metadata() repository.DocumentMetadataRepository { return u.metadata }

func (u *UnitOfWork) Users() repository.UserRepository { return u.users }

// Begin opens a database transaction and returns a transaction-scoped
// UnitOfWork together with its handle. The receiver stays bound to the pool.
func (u *UnitOfWork) Begin(ctx context.Context) (repository.Tx, repository.UnitOfWork, error) {
	if u.db == nil {
		return nil, nil, repository.ErrTxInProgress
	}
	tx, err := u.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("begin transaction: %w", err)
	}
	return &sqlTx{tx: tx}, newUnitOfWork(nil, tx), nil
}

// sqlTx wraps *sql.Tx so that the second Commit/Rollback call is a no-op and
// a rollback after commit never surfaces sql.ErrTxDone.
type sqlTx struct {
	tx   *sql.Tx
	done bool
}

func (t *sqlTx) Commit() error {
	if t.done {
		return nil
	}
	t.done = true
	if err := t.tx.Commit(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return err
	}
	return nil
}

func (t *sqlTx) Rollback() error {
	if t.done {
		return nil
	}
	t.done = true
	if err := t.tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return err
	}
	return nil
}
