package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/iliyamo/marina-reservation/internal/model"
	"github.com/iliyamo/marina-reservation/internal/utils"
)

// userLayout records which column-name variants this deployment's users
// table declares. Email and the password hash are mandatory; everything
// else degrades: a missing id column falls back to email keying, and the
// display name is either a first/last split or a single combined column.
type userLayout struct {
	id       string // "" when no id-like column exists
	email    string
	hash     string
	first    string // split schema; set together with last
	last     string
	combined string // single-column schema
	phone    string
	created  string
}

// UserRepo is the credential store. All statements are built from the
// sniffed layout so the same code runs against any of the legacy
// deployments.
type UserRepo struct {
	DB     *sql.DB
	layout layoutCache[userLayout]
}

func NewUserRepo(db *sql.DB) *UserRepo {
	r := &UserRepo{DB: db}
	r.layout.resolve = r.resolveLayout
	return r
}

func (r *UserRepo) resolveLayout(ctx context.Context) (*userLayout, error) {
	cols, err := tableColumns(ctx, r.DB, "users")
	if err != nil {
		return nil, err
	}
	var l userLayout
	if l.email, _ = cols.pick("email"); l.email == "" {
		return nil, fmt.Errorf("users table: %w: no email column", ErrSchemaIncompatible)
	}
	if l.hash, _ = cols.pick("password_hash", "password", "passwd"); l.hash == "" {
		return nil, fmt.Errorf("users table: %w: no password column", ErrSchemaIncompatible)
	}
	l.id, _ = cols.pick("id", "user_id", "uid")
	if cols.has("first_name") && cols.has("last_name") {
		l.first, _ = cols.pick("first_name")
		l.last, _ = cols.pick("last_name")
	} else {
		l.combined, _ = cols.pick("username", "name")
	}
	l.phone, _ = cols.pick("phone")
	l.created, _ = cols.pick("created_at")
	return &l, nil
}

// createUsersSQL is the canonical layout used when the table is created
// lazily. Only the development seed path ever runs this DDL.
const createUsersSQL = `CREATE TABLE IF NOT EXISTS users (
	id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
	email VARCHAR(255) NOT NULL UNIQUE,
	password_hash VARCHAR(255) NOT NULL,
	first_name VARCHAR(100) NOT NULL DEFAULT '',
	last_name VARCHAR(100) NOT NULL DEFAULT '',
	phone VARCHAR(32) NOT NULL DEFAULT '',
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
)`

// DemoEmail and DemoPassword identify the development seed account.
const (
	DemoEmail    = "demo@marina.local"
	DemoPassword = "marina"
)

// EnsureSeed lazily creates the users table and inserts the demo account
// when the table is empty. This is a development convenience gated by
// configuration, never a production behavior.
func (r *UserRepo) EnsureSeed(ctx context.Context, bcryptCost int) error {
	if _, err := tableColumns(ctx, r.DB, "users"); err != nil {
		if _, err := r.DB.ExecContext(ctx, createUsersSQL); err != nil {
			return fmt.Errorf("create users table: %w", err)
		}
		r.layout.invalidate()
	}
	var n int
	if err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	_, err := r.Create(ctx, model.User{
		Email:     DemoEmail,
		FirstName: "Demo",
		LastName:  "Sailor",
		Phone:     "206-555-0199",
	}, DemoPassword, bcryptCost)
	if err != nil && !errors.Is(err, ErrEmailExists) {
		return err
	}
	return nil
}

// Create hashes the password and inserts a new user, writing only the
// columns this schema declares. Returns the new row id, or zero when the
// table has no id-like column.
func (r *UserRepo) Create(ctx context.Context, u model.User, password string, bcryptCost int) (uint64, error) {
	l, err := r.layout.get(ctx)
	if err != nil {
		return 0, err
	}
	hash, err := utils.HashPassword(password, bcryptCost)
	if err != nil {
		return 0, err
	}

	cols := []string{l.email, l.hash}
	args := []any{strings.ToLower(strings.TrimSpace(u.Email)), hash}
	if l.first != "" {
		cols = append(cols, l.first, l.last)
		args = append(args, u.FirstName, u.LastName)
	} else if l.combined != "" {
		cols = append(cols, l.combined)
		args = append(args, strings.TrimSpace(u.FirstName+" "+u.LastName))
	}
	if l.phone != "" {
		cols = append(cols, l.phone)
		args = append(args, u.Phone)
	}

	q := "INSERT INTO users (" + strings.Join(cols, ",") + ") VALUES (" + placeholders(len(cols)) + ")"
	res, err := r.DB.ExecContext(ctx, q, args...)
	if err != nil {
		if isDuplicateKey(err) {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	if l.id == "" {
		return 0, nil
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	l, err := r.layout.get(ctx)
	if err != nil {
		return model.User{}, err
	}
	return r.getWhere(ctx, l, l.email, strings.ToLower(strings.TrimSpace(email)))
}

// GetByID fetches a user by its numeric id. Returns ErrSchemaIncompatible
// when the table has no id-like column.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	l, err := r.layout.get(ctx)
	if err != nil {
		return model.User{}, err
	}
	if l.id == "" {
		return model.User{}, fmt.Errorf("users table: %w: no id column", ErrSchemaIncompatible)
	}
	return r.getWhere(ctx, l, l.id, id)
}

func (r *UserRepo) getWhere(ctx context.Context, l *userLayout, col string, val any) (model.User, error) {
	sel := []string{l.email, l.hash}
	if l.id != "" {
		sel = append([]string{l.id}, sel...)
	}
	if l.first != "" {
		sel = append(sel, l.first, l.last)
	} else if l.combined != "" {
		sel = append(sel, l.combined)
	}
	if l.phone != "" {
		sel = append(sel, l.phone)
	}

	q := "SELECT " + strings.Join(sel, ",") + " FROM users WHERE " + col + "=? LIMIT 1"

	var u model.User
	dest := []any{&u.Email, &u.PasswordHash}
	if l.id != "" {
		dest = append([]any{&u.ID}, dest...)
	}
	if l.first != "" {
		dest = append(dest, &u.FirstName, &u.LastName)
	} else if l.combined != "" {
		dest = append(dest, &u.Username)
	}
	if l.phone != "" {
		dest = append(dest, &u.Phone)
	}
	if err := r.DB.QueryRowContext(ctx, q, val).Scan(dest...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, ErrNotFound
		}
		return model.User{}, err
	}
	return u, nil
}

// UpdateProfile merges the given profile fields into the stored row,
// writing only columns this schema declares. A non-empty newHash replaces
// the password. The row is targeted by the detected id column, falling
// back to matching by the previous email when no id column exists.
func (r *UserRepo) UpdateProfile(ctx context.Context, current model.User, updated model.User, newHash string) error {
	l, err := r.layout.get(ctx)
	if err != nil {
		return err
	}

	sets := []string{l.email + "=?"}
	args := []any{strings.ToLower(strings.TrimSpace(updated.Email))}
	if l.first != "" {
		sets = append(sets, l.first+"=?", l.last+"=?")
		args = append(args, updated.FirstName, updated.LastName)
	} else if l.combined != "" {
		sets = append(sets, l.combined+"=?")
		args = append(args, strings.TrimSpace(updated.FirstName+" "+updated.LastName))
	}
	if l.phone != "" {
		sets = append(sets, l.phone+"=?")
		args = append(args, updated.Phone)
	}
	if newHash != "" {
		sets = append(sets, l.hash+"=?")
		args = append(args, newHash)
	}

	q := "UPDATE users SET " + strings.Join(sets, ",")
	if l.id != "" && current.ID != 0 {
		q += " WHERE " + l.id + "=?"
		args = append(args, current.ID)
	} else {
		q += " WHERE " + l.email + "=?"
		args = append(args, current.Email)
	}

	res, err := r.DB.ExecContext(ctx, q, args...)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrEmailExists
		}
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		// MySQL also reports 0 when nothing changed, so verify the row
		// is really gone before claiming not-found.
		if _, err := r.getWhere(ctx, l, l.email, strings.ToLower(strings.TrimSpace(updated.Email))); err != nil {
			return ErrNotFound
		}
	}
	return nil
}

// DeleteAccount removes the user row and anonymizes any reservations
// referencing the user's email, in a single transaction so a failure
// cannot leave the two tables half-updated. Returns the number of
// reservation rows rewritten.
func (r *UserRepo) DeleteAccount(ctx context.Context, reservations *ReservationRepo, u model.User) (int64, error) {
	l, err := r.layout.get(ctx)
	if err != nil {
		return 0, err
	}

	var anonymized int64
	err = execTx(ctx, r.DB, func(tx *sql.Tx) error {
		n, err := reservations.anonymizeTx(ctx, tx, u.Email)
		if err != nil && !errors.Is(err, ErrSchemaIncompatible) {
			return err
		}
		anonymized = n

		q := "DELETE FROM users WHERE " + l.email + "=?"
		args := []any{u.Email}
		if l.id != "" && u.ID != 0 {
			q = "DELETE FROM users WHERE " + l.id + "=?"
			args = []any{u.ID}
		}
		res, err := tx.ExecContext(ctx, q, args...)
		if err != nil {
			return err
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return ErrNotFound
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return anonymized, nil
}

// placeholders returns n comma-joined "?" marks.
func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}
