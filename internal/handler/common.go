package handler // handler defines http handlers

import (
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/marina-reservation/internal/model"
	"github.com/iliyamo/marina-reservation/internal/session"
)

// seeOther issues the redirect-after-post response. Every successful
// mutation goes through here so a browser refresh repeats a GET, not the
// mutation.
func seeOther(c echo.Context, target string) error {
	return c.Redirect(http.StatusSeeOther, target)
}

// redirectError redirects to path with a user-facing message in the
// error query parameter.
func redirectError(c echo.Context, path, msg string) error {
	return seeOther(c, path+"?error="+url.QueryEscape(msg))
}

// setSessionCookie hands a freshly minted session id to the browser.
func setSessionCookie(c echo.Context, id string) {
	c.SetCookie(&http.Cookie{
		Name:     session.CookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// setRememberCookie stores the signed remember-me token until exp.
func setRememberCookie(c echo.Context, token string, exp time.Time) {
	c.SetCookie(&http.Cookie{
		Name:     session.RememberCookieName,
		Value:    token,
		Path:     "/",
		Expires:  exp,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// clearAuthCookies expires both the session and remember-me cookies.
// Used on logout and after account deletion.
func clearAuthCookies(c echo.Context) {
	for _, name := range []string{session.CookieName, session.RememberCookieName} {
		c.SetCookie(&http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			Expires:  time.Unix(0, 0),
			MaxAge:   -1,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
}

// sessionUserValue is what goes into the session as the user key: the
// numeric id when the schema has one, otherwise the email. The account
// gate tolerates either.
func sessionUserValue(u model.User) string {
	if u.ID != 0 {
		return strconv.FormatUint(u.ID, 10)
	}
	return u.Email
}

// contextString reads a string value the identity middleware stored on
// the request context; absent or differently typed values yield "".
func contextString(c echo.Context, key string) string {
	if v, ok := c.Get(key).(string); ok {
		return v
	}
	return ""
}
