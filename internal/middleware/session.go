package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
    "net/http"               // cookie construction for re-minted sessions
    "strconv"               // formatting the user id recovered from a remember token

    "github.com/labstack/echo/v4" // Echo framework used for defining middleware and handlers

    "github.com/iliyamo/marina-reservation/internal/repository" // user lookups when re-minting from a remember token
    "github.com/iliyamo/marina-reservation/internal/session"    // server-held session store
    "github.com/iliyamo/marina-reservation/internal/utils"      // remember-me token parsing
)

// Identity returns an Echo middleware that resolves the browser's session
// cookie into the authenticated identity and stores it in the request
// context.  Handlers read it via `c.Get("user_id")` and
// `c.Get("display_name")`; an unauthenticated request simply carries no
// identity and it is up to each handler to decide whether that matters.
// When the opaque session is gone but a valid remember-me token is
// presented, a fresh session is minted so the user stays signed in.
func Identity(store session.Store, users *repository.UserRepo, rememberSecret string) echo.MiddlewareFunc {
    // The outer function returns a middleware function.  Echo executes this
    // once when registering the middleware.
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        // The returned handler is invoked for each incoming HTTP request.
        return func(c echo.Context) error {
            // Try the opaque session cookie first.  A missing cookie is the
            // common anonymous case and is not an error.
            if ck, err := c.Cookie(session.CookieName); err == nil && ck.Value != "" {
                d, ok, err := store.Get(c.Request().Context(), ck.Value)
                if err == nil && ok {
                    // Expose the resolved identity to handlers via context.
                    c.Set("session_id", ck.Value)
                    c.Set("user_id", d.UserID)
                    c.Set("display_name", d.DisplayName)
                    return next(c)
                }
            }

            // No live session.  If the browser still holds a valid
            // remember-me token, re-establish a server session from it.
            if rememberSecret == "" {
                return next(c)
            }
            ck, err := c.Cookie(session.RememberCookieName)
            if err != nil || ck.Value == "" {
                return next(c)
            }
            uid, err := utils.ParseRememberToken(rememberSecret, ck.Value)
            if err != nil {
                return next(c)
            }
            // The token only names a user id; load the row to rebuild the
            // display name.  A deleted account invalidates the token.
            u, err := users.GetByID(c.Request().Context(), uid)
            if err != nil {
                return next(c)
            }
            d := session.Data{
                UserID:      strconv.FormatUint(u.ID, 10),
                DisplayName: u.DisplayName(),
            }
            id, err := store.Create(c.Request().Context(), d)
            if err != nil {
                return next(c)
            }
            // Hand the new session id back to the browser alongside the
            // resolved identity for this request.
            c.SetCookie(&http.Cookie{
                Name:     session.CookieName,
                Value:    id,
                Path:     "/",
                HttpOnly: true,
                SameSite: http.SameSiteLaxMode,
            })
            c.Set("session_id", id)
            c.Set("user_id", d.UserID)
            c.Set("display_name", d.DisplayName)
            return next(c)
        }
    }
}
