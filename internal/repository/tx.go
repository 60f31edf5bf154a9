package repository

import (
	"context"
	"database/sql"
	"fmt"
)

// execTx runs fn inside a transaction, committing on success and rolling
// back on error or panic. Multi-table flows (account deletion anonymizes
// reservations before removing the user row) go through here so a failure
// between statements cannot leave the tables half-updated.
func execTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (rollback: %v)", err, rbErr)
		}
		return err
	}
	return tx.Commit()
}
