package handler_test

import (
	"database/sql"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"

	"github.com/iliyamo/marina-reservation/internal/config"
	"github.com/iliyamo/marina-reservation/internal/handler"
	"github.com/iliyamo/marina-reservation/internal/middleware"
	"github.com/iliyamo/marina-reservation/internal/repository"
	"github.com/iliyamo/marina-reservation/internal/router"
	"github.com/iliyamo/marina-reservation/internal/session"
)

// testApp wires the real router, handlers and repositories over an
// in-memory SQLite database and the in-process session store, so these
// tests exercise the same code paths as production minus the drivers.
type testApp struct {
	e        *echo.Echo
	db       *sql.DB
	sessions session.Store
	users    *repository.UserRepo
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	for _, ddl := range []string{
		`CREATE TABLE users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			first_name TEXT NOT NULL DEFAULT '',
			last_name TEXT NOT NULL DEFAULT '',
			phone TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE boats (
			boat_id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER NOT NULL,
			boat_name TEXT NOT NULL,
			boat_length INTEGER NOT NULL,
			date_created TIMESTAMP
		)`,
		`CREATE TABLE reservations (
			user_email TEXT NOT NULL,
			title TEXT,
			location TEXT,
			status TEXT,
			start_date TEXT,
			created_at TEXT
		)`,
	} {
		_, err := db.Exec(ddl)
		require.NoError(t, err)
	}

	log := logrus.New()
	log.SetOutput(io.Discard)

	cfg := config.Config{
		Env:             "test",
		BcryptCost:      bcrypt.MinCost,
		SessionTTLMin:   60,
		RememberSecret:  "test-remember-secret",
		RememberTTLDays: 7,
	}

	sessions := session.NewMemoryStore(time.Hour)
	users := repository.NewUserRepo(db)
	boats := repository.NewBoatRepo(db, log)
	reservations := repository.NewReservationRepo(db)

	e := echo.New()
	router.RegisterRoutes(e,
		handler.NewAuthHandler(cfg, users, sessions, log),
		handler.NewAccountHandler(cfg, users, boats, reservations, sessions, log),
		middleware.Identity(sessions, users, cfg.RememberSecret),
		middleware.RateLimit(config.RateLimitConfig{}, nil), // disabled in tests
	)

	return &testApp{e: e, db: db, sessions: sessions, users: users}
}

func (a *testApp) postForm(path string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	return rec
}

func (a *testApp) get(path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	return rec
}

// cookieNamed pulls a cookie out of a recorded response, nil when absent.
func cookieNamed(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == name {
			return ck
		}
	}
	return nil
}

// register + login helpers shared across tests.

func registerAlice(t *testing.T, a *testApp) {
	t.Helper()
	rec := a.postForm("/register", url.Values{
		"first_name":       {"Alice"},
		"last_name":        {"Adams"},
		"email":            {"alice@example.com"},
		"phone":            {"2065551234"},
		"password":         {"Passw0rd1"},
		"confirm_password": {"Passw0rd1"},
	})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/login?registered=1", rec.Header().Get("Location"))
}

func loginAlice(t *testing.T, a *testApp) *http.Cookie {
	t.Helper()
	rec := a.postForm("/login", url.Values{
		"email":    {"alice@example.com"},
		"password": {"Passw0rd1"},
	})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/account?logged=1", rec.Header().Get("Location"))
	ck := cookieNamed(rec, session.CookieName)
	require.NotNil(t, ck, "login must set a session cookie")
	return ck
}
