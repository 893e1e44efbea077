package service

import (
	"context"
	"fmt"
	"log/slog"

	"docvault/internal/repository"
)

// runInTx is the single choke point for multi-repository writes: it begins a
// transaction, runs fn against a transaction-scoped unit of work, commits on
// success, and rolls back on any error. Rollback failures are logged but
// never returned, so they cannot mask the error that triggered the rollback.
func runInTx(ctx context.Context, uow repository.UnitOfWork, logger *slog.Logger, errContext string, fn func(uow repository.UnitOfWork) error) error {
	tx, txUow, err := uow.Begin(ctx)
	if err != nil {
		logger.Error("begin transaction failed", "op", errContext, "error", err)
		return fmt.Errorf("%s: begin transaction: %w", errContext, err)
	}

	if err := fn(txUow); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			logger.Error("rollback failed", "op", errContext, "error", rbErr)
		}
		logger.Error("operation rolled back", "op", errContext, "error", err)
		return err
	}

	if err := tx.Commit(); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			logger.Error("rollback failed", "op", errContext, "error", rbErr)
		}
		logger.Error("commit failed", "op", errContext, "error", err)
		return fmt.Errorf("%s: commit: %w", errContext, err)
	}
	return nil
}

// runInTxValue is the value-returning variant of runInTx.
func runInTxValue[T any](ctx context.Context, uow repository.UnitOfWork, logger *slog.Logger, errContext string, fn func(uow repository.UnitOfWork) (T, error)) (T, error) {
	var out T
	err := runInTx(ctx, uow, logger, errContext, func(txUow repository.UnitOfWork) error {
		var fnErr error
		out, fnErr = fn(txUow)
		return fnErr
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}
