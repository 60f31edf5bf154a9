package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/iliyamo/marina-reservation/internal/model"
)

// boatLayout records the column variants of the boats table. Listing and
// adding require id, owner, name and length; edit and delete tolerate a
// missing owner column by degrading to boat-id-only scoping.
type boatLayout struct {
	id      string
	owner   string // "" when no owner column could be resolved
	name    string
	length  string
	created string
}

// BoatRepo provides the boat CRUD backing the account page. Every
// operation is scoped to the requesting user's id where the schema
// allows it.
type BoatRepo struct {
	DB     *sql.DB
	Log    logrus.FieldLogger
	layout layoutCache[boatLayout]
}

func NewBoatRepo(db *sql.DB, log logrus.FieldLogger) *BoatRepo {
	r := &BoatRepo{DB: db, Log: log}
	r.layout.resolve = r.resolveLayout
	return r
}

func (r *BoatRepo) resolveLayout(ctx context.Context) (*boatLayout, error) {
	cols, err := tableColumns(ctx, r.DB, "boats")
	if err != nil {
		return nil, err
	}
	var l boatLayout
	l.id, _ = cols.pick("boat_id", "id")
	l.owner, _ = cols.pick("user_id", "userid")
	l.name, _ = cols.pick("boat_name", "name")
	l.length, _ = cols.pick("boat_length", "length_ft", "length")
	l.created, _ = cols.pick("date_created", "created_at")
	if l.id == "" || l.name == "" || l.length == "" {
		return nil, fmt.Errorf("boats table: %w: need id, name and length columns", ErrSchemaIncompatible)
	}
	return &l, nil
}

// ListByOwner returns the user's boats in creation order. An absent or
// incompatible boats table yields an empty list so the account page
// still renders.
func (r *BoatRepo) ListByOwner(ctx context.Context, ownerID uint64) ([]model.Boat, error) {
	l, err := r.layout.get(ctx)
	if err != nil {
		return nil, nil
	}
	if l.owner == "" {
		// Without an owner column the rows cannot be attributed; showing
		// everyone's boats would be worse than showing none.
		return nil, nil
	}

	q := "SELECT " + l.id + "," + l.name + "," + l.length + " FROM boats WHERE " + l.owner + "=? ORDER BY " + l.id
	rows, err := r.DB.QueryContext(ctx, q, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Boat
	for rows.Next() {
		b := model.Boat{UserID: ownerID}
		if err := rows.Scan(&b.ID, &b.Name, &b.LengthFt); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// Add inserts a boat for ownerID, rejecting an exact duplicate of an
// existing (owner, name, length) row.
func (r *BoatRepo) Add(ctx context.Context, ownerID uint64, name string, lengthFt int) error {
	l, err := r.layout.get(ctx)
	if err != nil {
		return err
	}
	if l.owner == "" {
		return fmt.Errorf("boats table: %w: no owner column", ErrSchemaIncompatible)
	}

	// No database constraint enforces this, so a concurrent submission can
	// still slip through between check and insert.
	var n int
	err = r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM boats WHERE "+l.owner+"=? AND "+l.name+"=? AND "+l.length+"=?",
		ownerID, name, lengthFt).Scan(&n)
	if err != nil {
		return err
	}
	if n > 0 {
		return ErrDuplicateBoat
	}

	cols := []string{l.owner, l.name, l.length}
	args := []any{ownerID, name, lengthFt}
	if l.created != "" {
		cols = append(cols, l.created)
		args = append(args, time.Now().UTC())
	}
	_, err = r.DB.ExecContext(ctx,
		"INSERT INTO boats ("+strings.Join(cols, ",")+") VALUES ("+placeholders(len(cols))+")",
		args...)
	return err
}

// Update renames or resizes a boat. The statement is scoped by boat id
// AND owner id when the owner column exists. When it does not, scoping
// degrades to the boat id alone, a known authorization weakness of the
// legacy schema (any signed-in user could hit another user's row), kept
// for compatibility and logged whenever it engages.
func (r *BoatRepo) Update(ctx context.Context, ownerID, boatID uint64, name string, lengthFt int) error {
	l, err := r.layout.get(ctx)
	if err != nil {
		return err
	}

	q := "UPDATE boats SET " + l.name + "=?," + l.length + "=? WHERE " + l.id + "=?"
	args := []any{name, lengthFt, boatID}
	if l.owner != "" {
		q += " AND " + l.owner + "=?"
		args = append(args, ownerID)
	} else {
		r.warnOwnerFallback(boatID)
	}

	res, err := r.DB.ExecContext(ctx, q, args...)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		if !r.exists(ctx, l, ownerID, boatID) {
			return ErrNotFound
		}
	}
	return nil
}

// Delete removes a boat, with the same owner-column fallback as Update.
func (r *BoatRepo) Delete(ctx context.Context, ownerID, boatID uint64) error {
	l, err := r.layout.get(ctx)
	if err != nil {
		return err
	}

	q := "DELETE FROM boats WHERE " + l.id + "=?"
	args := []any{boatID}
	if l.owner != "" {
		q += " AND " + l.owner + "=?"
		args = append(args, ownerID)
	} else {
		r.warnOwnerFallback(boatID)
	}

	res, err := r.DB.ExecContext(ctx, q, args...)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *BoatRepo) exists(ctx context.Context, l *boatLayout, ownerID, boatID uint64) bool {
	q := "SELECT COUNT(*) FROM boats WHERE " + l.id + "=?"
	args := []any{boatID}
	if l.owner != "" {
		q += " AND " + l.owner + "=?"
		args = append(args, ownerID)
	}
	var n int
	if err := r.DB.QueryRowContext(ctx, q, args...).Scan(&n); err != nil {
		return false
	}
	return n > 0
}

func (r *BoatRepo) warnOwnerFallback(boatID uint64) {
	if r.Log != nil {
		r.Log.WithField("boat_id", boatID).
			Warn("boats table has no owner column; mutation scoped by boat id only")
	}
}
