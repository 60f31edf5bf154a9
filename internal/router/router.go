package router // package router defines how HTTP routes are registered for the site

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/iliyamo/marina-reservation/internal/handler" // import the handlers that implement page logic
)

// RegisterRoutes registers every endpoint of the site on the provided
// Echo instance.  The identity middleware runs on all routes so each
// handler receives the authenticated user (when any) through the request
// context instead of reading ambient state; the rate limiter guards only
// the two anonymous credential form posts.
func RegisterRoutes(e *echo.Echo, a *handler.AuthHandler, acc *handler.AccountHandler, identity echo.MiddlewareFunc, limiter echo.MiddlewareFunc) {
	// Resolve the session cookie into request context everywhere.  Pages
	// that do not care about identity simply ignore it.
	e.Use(identity)

	// Health endpoint for load balancers and monitoring systems.
	e.GET("/healthz", handler.Health)

	// Landing page view model: navigation state plus the post-deletion flag.
	e.GET("/", handler.Landing)

	// Credential form posts.  Both are anonymous and both are the natural
	// target of brute force, so the token-bucket limiter wraps them.
	e.POST("/login", a.Login, limiter)
	e.POST("/register", a.Register, limiter)

	// Logout needs the resolved session id and nothing else.
	e.POST("/logout", a.Logout)

	// The account page: GET renders (or redirects to /login when no
	// session identity resolved), POST dispatches on the discriminator
	// fields.  Authorization is checked inside the handlers because an
	// unauthenticated hit must redirect, not 401.
	e.GET("/account", acc.Show)
	e.POST("/account", acc.Submit)
}
