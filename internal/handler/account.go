package handler // handler package contains the account page handlers

import (
	"context"  // request-scoped timeouts for DB calls
	"errors"   // sentinel error matching
	"net/http" // status codes for the render path
	"strconv"  // form field and id parsing
	"strings"  // trimming utilities
	"time"     // DB timeouts and event timestamps

	"github.com/labstack/echo/v4" // echo is the web framework used for handlers
	"github.com/sirupsen/logrus"  // structured logging

	"github.com/iliyamo/marina-reservation/internal/config"                  // app configuration
	"github.com/iliyamo/marina-reservation/internal/model"                   // row types
	"github.com/iliyamo/marina-reservation/internal/queue"                   // account event payloads
	"github.com/iliyamo/marina-reservation/internal/repository"              // repository holds the data access layer
	queue_publisher "github.com/iliyamo/marina-reservation/internal/service" // account event publisher
	"github.com/iliyamo/marina-reservation/internal/session"                 // session store
	"github.com/iliyamo/marina-reservation/internal/utils"                   // password verification and phone formatting
)

// AccountHandler implements the account management page: profile edit,
// password change, boat CRUD and account deletion. A request is routed by
// its discriminator fields (boat_action, account_action, change_password);
// every mutation except the initial add-boat requires the current password
// to verify against the freshly loaded row.
type AccountHandler struct {
	Cfg          config.Config
	Users        *repository.UserRepo
	Boats        *repository.BoatRepo
	Reservations *repository.ReservationRepo
	Sessions     session.Store
	Log          logrus.FieldLogger
}

func NewAccountHandler(cfg config.Config, u *repository.UserRepo, b *repository.BoatRepo, r *repository.ReservationRepo, s session.Store, log logrus.FieldLogger) *AccountHandler {
	if u == nil || b == nil || r == nil || s == nil {
		panic("nil dependency passed to NewAccountHandler")
	}
	return &AccountHandler{Cfg: cfg, Users: u, Boats: b, Reservations: r, Sessions: s, Log: log}
}

// currentUser resolves the session identity to a fresh user row. Legacy
// sessions sometimes stored the email where the numeric id belongs; that
// is tolerated with a one-time lookup-and-normalize that rewrites the
// session in place. The bool result reports whether a signed-in user was
// resolved at all.
func (h *AccountHandler) currentUser(ctx context.Context, c echo.Context) (model.User, bool) {
	val := contextString(c, "user_id")
	if val == "" {
		return model.User{}, false
	}

	if id, err := strconv.ParseUint(val, 10, 64); err == nil && id != 0 {
		u, err := h.Users.GetByID(ctx, id)
		if err != nil {
			return model.User{}, false
		}
		return u, true
	}

	// Not numeric: treat the stored value as an email.
	u, err := h.Users.GetByEmail(ctx, val)
	if err != nil {
		return model.User{}, false
	}
	if u.ID != 0 {
		if sid := contextString(c, "session_id"); sid != "" {
			_ = h.Sessions.Update(ctx, sid, session.Data{
				UserID:      strconv.FormatUint(u.ID, 10),
				DisplayName: u.DisplayName(),
			})
		}
	}
	return u, true
}

// ----- render path -----

type boatView struct {
	ID       uint64 `json:"id"`
	Name     string `json:"name"`
	LengthFt int    `json:"length_ft"`
}

type reservationView struct {
	Title     string `json:"title"`
	Location  string `json:"location"`
	Status    string `json:"status"`
	StartDate string `json:"start_date"`
}

type accountView struct {
	Email        string            `json:"email"`
	FirstName    string            `json:"first_name"`
	LastName     string            `json:"last_name"`
	DisplayName  string            `json:"display_name"`
	Phone        string            `json:"phone"`
	Boats        []boatView        `json:"boats"`
	Reservations []reservationView `json:"reservations"`
	Saved        bool              `json:"saved,omitempty"`
	PasswordErr  bool              `json:"password_error,omitempty"`
	Error        string            `json:"error,omitempty"`
}

// Show handles GET /account (and the reload after every mutation). The
// page renderer is an external collaborator; this returns the view model.
// A boats or reservations table whose columns cannot be resolved degrades
// to an empty list rather than failing the page.
func (h *AccountHandler) Show(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, ok := h.currentUser(ctx, c)
	if !ok {
		return seeOther(c, "/login")
	}

	first, last := u.FirstName, u.LastName
	if first == "" && u.Username != "" {
		// Combined-name schema: split on the first space for the two
		// edit fields; everything after it belongs to the last name.
		if i := strings.IndexByte(u.Username, ' '); i > 0 {
			first, last = u.Username[:i], u.Username[i+1:]
		} else {
			first = u.Username
		}
	}

	view := accountView{
		Email:       u.Email,
		FirstName:   first,
		LastName:    last,
		DisplayName: u.DisplayName(),
		Phone:       utils.FormatPhoneDisplay(u.Phone),
		Saved:       c.QueryParam("saved") == "1",
		PasswordErr: c.QueryParam("pwerr") == "1",
		Error:       c.QueryParam("error"),
	}

	boats, err := h.Boats.ListByOwner(ctx, u.ID)
	if err != nil {
		h.Log.WithError(err).Error("account: list boats failed")
	}
	for _, b := range boats {
		view.Boats = append(view.Boats, boatView{ID: b.ID, Name: b.Name, LengthFt: b.LengthFt})
	}

	reservations, err := h.Reservations.ListByEmail(ctx, u.Email)
	if err != nil {
		h.Log.WithError(err).Error("account: list reservations failed")
	}
	for _, res := range reservations {
		view.Reservations = append(view.Reservations, reservationView{
			Title:     res.Title,
			Location:  res.Location,
			Status:    res.Status,
			StartDate: res.StartDate,
		})
	}

	return c.JSON(http.StatusOK, view)
}

// ----- mutation path -----

// Submit handles POST /account and dispatches on the discriminator
// fields. Add-boat is exempt from the current-password check; every
// other mutation verifies the submitted current password against the
// freshly loaded row and redirects with pwerr=1 on mismatch, so the page
// can keep the form open with the user's in-progress input.
func (h *AccountHandler) Submit(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, ok := h.currentUser(ctx, c)
	if !ok {
		return seeOther(c, "/login")
	}

	boatAction := strings.TrimSpace(c.FormValue("boat_action"))       // "", add, edit, delete
	accountAction := strings.TrimSpace(c.FormValue("account_action")) // "", delete

	if boatAction == "add" {
		return h.addBoat(ctx, c, u)
	}

	// Everything past this point mutates the account or an existing boat
	// and therefore re-authenticates with the current password.
	if !utils.VerifyPassword(u.PasswordHash, c.FormValue("current_password")) {
		return seeOther(c, "/account?pwerr=1")
	}

	switch {
	case boatAction == "edit":
		return h.editBoat(ctx, c, u)
	case boatAction == "delete":
		return h.deleteBoat(ctx, c, u)
	case accountAction == "delete":
		return h.deleteAccount(ctx, c, u)
	default:
		return h.updateProfile(ctx, c, u)
	}
}

func (h *AccountHandler) addBoat(ctx context.Context, c echo.Context, u model.User) error {
	name := strings.TrimSpace(c.FormValue("boat_name"))              // the boat's display name
	length, _ := strconv.Atoi(strings.TrimSpace(c.FormValue("boat_length"))) // whole feet
	if name == "" || length <= 0 {
		return redirectError(c, "/account", "boat name and length are required")
	}
	if err := h.Boats.Add(ctx, u.ID, name, length); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateBoat):
			return redirectError(c, "/account", "boat already registered")
		case errors.Is(err, repository.ErrSchemaIncompatible):
			return redirectError(c, "/account", "boats are not available")
		}
		h.Log.WithError(err).Error("account: add boat failed")
		return redirectError(c, "/account", "service unavailable")
	}
	return seeOther(c, "/account?saved=1")
}

func (h *AccountHandler) editBoat(ctx context.Context, c echo.Context, u model.User) error {
	boatID, err := strconv.ParseUint(strings.TrimSpace(c.FormValue("boat_id")), 10, 64)
	if err != nil || boatID == 0 {
		return redirectError(c, "/account", "invalid boat")
	}
	name := strings.TrimSpace(c.FormValue("boat_name"))
	length, _ := strconv.Atoi(strings.TrimSpace(c.FormValue("boat_length")))
	if name == "" || length <= 0 {
		return redirectError(c, "/account", "boat name and length are required")
	}
	if err := h.Boats.Update(ctx, u.ID, boatID, name, length); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return redirectError(c, "/account", "boat not found")
		}
		h.Log.WithError(err).Error("account: edit boat failed")
		return redirectError(c, "/account", "service unavailable")
	}
	return seeOther(c, "/account?saved=1")
}

func (h *AccountHandler) deleteBoat(ctx context.Context, c echo.Context, u model.User) error {
	boatID, err := strconv.ParseUint(strings.TrimSpace(c.FormValue("boat_id")), 10, 64)
	if err != nil || boatID == 0 {
		return redirectError(c, "/account", "invalid boat")
	}
	if err := h.Boats.Delete(ctx, u.ID, boatID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return redirectError(c, "/account", "boat not found")
		}
		h.Log.WithError(err).Error("account: delete boat failed")
		return redirectError(c, "/account", "service unavailable")
	}
	return seeOther(c, "/account?saved=1")
}

func (h *AccountHandler) updateProfile(ctx context.Context, c echo.Context, u model.User) error {
	updated := model.User{
		Email:     strings.ToLower(strings.TrimSpace(c.FormValue("email"))),
		FirstName: strings.TrimSpace(c.FormValue("first_name")),
		LastName:  strings.TrimSpace(c.FormValue("last_name")),
		Phone:     utils.NormalizePhone(strings.TrimSpace(c.FormValue("phone"))),
	}
	if updated.Email == "" {
		updated.Email = u.Email // the email field is the only mandatory one; keep the old value when cleared
	}

	// The password only changes when a non-empty new password was supplied
	// and its confirmation matches; an empty field means "leave it alone".
	newHash := ""
	if newPw := c.FormValue("new_password"); newPw != "" {
		if newPw != c.FormValue("confirm_password") {
			return redirectError(c, "/account", "passwords do not match")
		}
		hash, err := utils.HashPassword(newPw, h.Cfg.BcryptCost)
		if err != nil {
			h.Log.WithError(err).Error("account: hash new password failed")
			return redirectError(c, "/account", "service unavailable")
		}
		newHash = hash
	} else if c.FormValue("change_password") == "1" {
		return redirectError(c, "/account", "new password is required")
	}

	if err := h.Users.UpdateProfile(ctx, u, updated, newHash); err != nil {
		switch {
		case errors.Is(err, repository.ErrEmailExists):
			return redirectError(c, "/account", "email already registered")
		case errors.Is(err, repository.ErrNotFound):
			return redirectError(c, "/account", "account not found")
		}
		h.Log.WithError(err).Error("account: profile update failed")
		return redirectError(c, "/account", "service unavailable")
	}

	// Keep the session's display name in step with the stored row.
	if sid := contextString(c, "session_id"); sid != "" {
		refreshed := u
		refreshed.Email = updated.Email
		refreshed.FirstName = updated.FirstName
		refreshed.LastName = updated.LastName
		if refreshed.FirstName == "" {
			refreshed.Username = u.Username
		}
		_ = h.Sessions.Update(ctx, sid, session.Data{
			UserID:      sessionUserValue(refreshed),
			DisplayName: refreshed.DisplayName(),
		})
	}

	return seeOther(c, "/account?saved=1")
}

func (h *AccountHandler) deleteAccount(ctx context.Context, c echo.Context, u model.User) error {
	anonymized, err := h.Users.DeleteAccount(ctx, h.Reservations, u)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return redirectError(c, "/account", "account not found")
		}
		h.Log.WithError(err).Error("account: delete failed")
		return redirectError(c, "/account", "service unavailable")
	}

	// The browser is signed out everywhere this session reaches: server
	// session gone, both cookies expired.
	if sid := contextString(c, "session_id"); sid != "" {
		_ = h.Sessions.Destroy(ctx, sid)
	}
	clearAuthCookies(c)

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = queue_publisher.PublishAccountDeleted(ctx, queue.AccountDeletedEvent{
			UserID:                 u.ID,
			AnonymizedReservations: anonymized,
			DeletedAt:              time.Now().UTC().Format(time.RFC3339),
		})
	}()

	return seeOther(c, "/?account_deleted=1")
}
