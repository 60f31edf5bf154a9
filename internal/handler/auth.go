package handler

import (
	"context" // context with cancellation for DB calls
	"errors"  // sentinel error matching
	"strings" // string manipulation utilities
	"time"    // timeouts for DB calls and event timestamps

	"github.com/labstack/echo/v4" // Echo framework for HTTP routing
	"github.com/sirupsen/logrus"  // structured logging

	"github.com/iliyamo/marina-reservation/internal/config"                  // app configuration
	"github.com/iliyamo/marina-reservation/internal/model"                   // row types
	"github.com/iliyamo/marina-reservation/internal/queue"                   // account event payloads
	"github.com/iliyamo/marina-reservation/internal/repository"              // DB repositories
	queue_publisher "github.com/iliyamo/marina-reservation/internal/service" // account event publisher
	"github.com/iliyamo/marina-reservation/internal/session"                 // session store
	"github.com/iliyamo/marina-reservation/internal/utils"                   // hashing, phone and token helpers
)

// AuthHandler bundles dependencies for the login, logout and
// registration form endpoints.
type AuthHandler struct {
	Cfg      config.Config
	Users    *repository.UserRepo
	Sessions session.Store
	Log      logrus.FieldLogger
}

func NewAuthHandler(cfg config.Config, u *repository.UserRepo, s session.Store, log logrus.FieldLogger) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: u, Sessions: s, Log: log}
}

// Login handles the login form post. Empty fields, an unknown email and
// a wrong password all redirect back with the same generic message so
// the response does not reveal which part was wrong. On success the
// session id is rotated (anti-fixation) before the identity is stored.
func (h *AuthHandler) Login(c echo.Context) error {
	email := strings.ToLower(strings.TrimSpace(c.FormValue("email")))
	password := c.FormValue("password")

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	// Development-only convenience: make sure a credential table with one
	// demo account exists so a fresh checkout is immediately usable.
	if h.Cfg.DevSeed {
		if err := h.Users.EnsureSeed(ctx, h.Cfg.BcryptCost); err != nil {
			h.Log.WithError(err).Warn("demo seed failed")
		}
	}

	if email == "" || password == "" {
		return redirectError(c, "/login", "invalid credentials")
	}

	u, err := h.Users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return redirectError(c, "/login", "invalid credentials")
		}
		h.Log.WithError(err).Error("login: user lookup failed")
		return redirectError(c, "/login", "service unavailable")
	}
	if !utils.VerifyPassword(u.PasswordHash, password) {
		return redirectError(c, "/login", "invalid credentials")
	}

	// Rotate: never reuse a session id that existed before authentication.
	if old := contextString(c, "session_id"); old != "" {
		_ = h.Sessions.Destroy(ctx, old)
	}
	id, err := h.Sessions.Create(ctx, session.Data{
		UserID:      sessionUserValue(u),
		DisplayName: u.DisplayName(),
	})
	if err != nil {
		h.Log.WithError(err).Error("login: session create failed")
		return redirectError(c, "/login", "service unavailable")
	}
	setSessionCookie(c, id)

	// Optional long-lived token, only when the feature is configured and
	// the schema gave this user a numeric id to name in the claims.
	if c.FormValue("remember") == "1" && h.Cfg.RememberSecret != "" && u.ID != 0 {
		if tok, err := utils.NewRememberToken(h.Cfg.RememberSecret, u.ID, h.Cfg.RememberTTLDays); err == nil {
			setRememberCookie(c, tok.Token, tok.Exp)
		}
	}

	return seeOther(c, "/account?logged=1")
}

// Logout destroys the server session, expires both cookies and sends the
// browser back to the landing page.
func (h *AuthHandler) Logout(c echo.Context) error {
	if id := contextString(c, "session_id"); id != "" {
		_ = h.Sessions.Destroy(c.Request().Context(), id)
	}
	clearAuthCookies(c)
	return seeOther(c, "/")
}

// Register handles the registration form post. The password comparison
// happens before any hashing; phone normalization is applied before the
// insert; a duplicate email surfaces as the generic "already registered"
// message regardless of which constraint variant the schema enforces it
// with. Insertion is the terminal step, so no rollback path exists.
func (h *AuthHandler) Register(c echo.Context) error {
	first := strings.TrimSpace(c.FormValue("first_name"))
	last := strings.TrimSpace(c.FormValue("last_name"))
	email := strings.ToLower(strings.TrimSpace(c.FormValue("email")))
	phone := strings.TrimSpace(c.FormValue("phone"))
	password := c.FormValue("password")
	confirm := c.FormValue("confirm_password")

	if email == "" || password == "" {
		return redirectError(c, "/register", "email and password are required")
	}
	if password != confirm {
		return redirectError(c, "/register", "passwords do not match")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u := model.User{
		Email:     email,
		FirstName: first,
		LastName:  last,
		Phone:     utils.NormalizePhone(phone),
	}
	id, err := h.Users.Create(ctx, u, password, h.Cfg.BcryptCost)
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return redirectError(c, "/register", "email already registered")
		}
		h.Log.WithError(err).Error("register: insert failed")
		return redirectError(c, "/register", "service unavailable")
	}

	// Best-effort audit event; the account exists whether or not the
	// broker hears about it.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = queue_publisher.PublishAccountRegistered(ctx, queue.AccountRegisteredEvent{
			UserID:      id,
			Email:       email,
			DisplayName: u.DisplayName(),
			CreatedAt:   time.Now().UTC().Format(time.RFC3339),
		})
	}()

	return seeOther(c, "/login?registered=1")
}
