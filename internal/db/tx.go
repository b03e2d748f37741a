package db

import (
	"context"
	"database/sql"
)

// MakeTx is a function that creates a db transaction
type MakeTx = func(ctx context.Context) (tx *Queries, discard, commit func() error, err error)

func NewMakeTx(dbtx *sql.DB) MakeTx {
	return func(ctx context.Context) (tx *Queries, discard, commit func() error, err error) {
		sqltx, err := dbtx.BeginTx(ctx, nil)
		if err != nil {
			return nil, nil, nil, err
		}
		txqry := New(sqltx)
		return txqry,
			func() error {
				return sqltx.Rollback()
			},
			func() error {
				return sqltx.Commit()
			},
			nil
	}
}

// Migrate creates every table that does not exist yet.
func Migrate(ctx context.Context, dbtx DBTX) error {
	_, err := dbtx.ExecContext(ctx, Schema)
	return err
}
