// Package repository defines the data access layer for venues, artists and
// shows, plus error types reused across repositories.  These sentinel values
// let handlers tell a missing record apart from a persistence failure.
package repository

import (
	"context"
	"errors"

	"github.com/jmoiron/sqlx"
)

// ErrConflict is returned when a delete cannot be performed because of
// dependent records, such as deleting a venue that still has shows.
// Handlers report it as a failed operation.
var ErrConflict = errors.New("conflict")

// ErrVenueNotFound is returned when a venue cannot be found in the DB.
var ErrVenueNotFound = errors.New("venue not found")

// ErrArtistNotFound is returned when an artist cannot be found in the DB.
var ErrArtistNotFound = errors.New("artist not found")

// inTx runs fn inside a transaction.  The transaction is committed when fn
// returns nil and rolled back otherwise (including on panic), so callers
// never leave partial writes behind.
func inTx(ctx context.Context, db *sqlx.DB, fn func(tx *sqlx.Tx) error) (err error) {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		err = tx.Commit()
	}()
	return fn(tx)
}
