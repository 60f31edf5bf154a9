package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/iliyamo/marina-reservation/internal/model"
)

// AnonymizedEmail is the marker written over reservations.user_email when
// the owning account is deleted. The booking record survives for the
// marina's books; the personally identifying linkage does not.
const AnonymizedEmail = "deleted-user@marina.invalid"

// reservationLayout records the column variants of the reservations
// table. Only the email column is mandatory; display columns and the
// start date degrade to empty values.
type reservationLayout struct {
	email    string
	title    string
	location string
	status   string
	start    string
	created  string
}

// ReservationRepo reads bookings for the account page and rewrites their
// ownership marker on account deletion. No create or update path exists
// in this core.
type ReservationRepo struct {
	DB     *sql.DB
	layout layoutCache[reservationLayout]
}

func NewReservationRepo(db *sql.DB) *ReservationRepo {
	r := &ReservationRepo{DB: db}
	r.layout.resolve = r.resolveLayout
	return r
}

func (r *ReservationRepo) resolveLayout(ctx context.Context) (*reservationLayout, error) {
	cols, err := tableColumns(ctx, r.DB, "reservations")
	if err != nil {
		return nil, err
	}
	var l reservationLayout
	if l.email, _ = cols.pick("user_email", "email"); l.email == "" {
		return nil, fmt.Errorf("reservations table: %w: no email column", ErrSchemaIncompatible)
	}
	l.title, _ = cols.pick("title", "reservation_name")
	l.location, _ = cols.pick("location", "slip_number", "slot")
	l.status, _ = cols.pick("status", "state")
	l.start, _ = cols.pick("start_date")
	l.created, _ = cols.pick("created_at")
	return &l, nil
}

// ListByEmail returns the user's bookings ordered by start date, falling
// back to creation order when the deployment has no start_date column.
// A missing or incompatible reservations table yields an empty list so
// the account page still renders.
func (r *ReservationRepo) ListByEmail(ctx context.Context, email string) ([]model.Reservation, error) {
	l, err := r.layout.get(ctx)
	if err != nil {
		if errors.Is(err, ErrSchemaIncompatible) {
			return nil, nil
		}
		// A missing table is a schema mismatch, not a page failure.
		return nil, nil
	}

	var cols []string
	type field struct {
		col  string
		dest func(res *model.Reservation) *string
	}
	fields := []field{
		{l.title, func(res *model.Reservation) *string { return &res.Title }},
		{l.location, func(res *model.Reservation) *string { return &res.Location }},
		{l.status, func(res *model.Reservation) *string { return &res.Status }},
		{l.start, func(res *model.Reservation) *string { return &res.StartDate }},
	}
	present := fields[:0]
	for _, f := range fields {
		if f.col != "" {
			present = append(present, f)
			cols = append(cols, f.col)
		}
	}
	if len(cols) == 0 {
		return nil, nil
	}

	order := l.start
	if order == "" {
		order = l.created
	}
	q := "SELECT " + strings.Join(cols, ",") + " FROM reservations WHERE " + l.email + "=?"
	if order != "" {
		q += " ORDER BY " + order
	}

	rows, err := r.DB.QueryContext(ctx, q, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Reservation
	for rows.Next() {
		res := model.Reservation{Email: email}
		dest := make([]any, len(present))
		raw := make([]sql.NullString, len(present))
		for i := range present {
			dest[i] = &raw[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		for i, f := range present {
			*f.dest(&res) = raw[i].String
		}
		out = append(out, res)
	}
	return out, rows.Err()
}

// anonymizeTx rewrites every reservation referencing email so the rows
// survive account deletion without a personal linkage. Runs inside the
// caller's transaction; see UserRepo.DeleteAccount.
func (r *ReservationRepo) anonymizeTx(ctx context.Context, tx *sql.Tx, email string) (int64, error) {
	l, err := r.layout.get(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrSchemaIncompatible, err)
	}
	res, err := tx.ExecContext(ctx,
		"UPDATE reservations SET "+l.email+"=? WHERE "+l.email+"=?",
		AnonymizedEmail, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
