package handler // declare the package name; contains HTTP handlers

import (
	"net/http" // net/http provides status codes and response helpers

	"github.com/labstack/echo/v4" // echo is the web framework used for this project
)

// Landing handles GET / for the static landing and registration pages.
// The markup itself is served elsewhere; this returns the only dynamic
// bits those pages need: whether a user is signed in (to pick the
// navigation links) and the post-deletion confirmation flag.
func Landing(c echo.Context) error {
	name := contextString(c, "display_name")
	return c.JSON(http.StatusOK, echo.Map{
		"authenticated":   name != "",
		"display_name":    name,
		"account_deleted": c.QueryParam("account_deleted") == "1",
	})
}

// Health is a simple health-check endpoint used by load balancers and
// monitoring systems to verify that the service is running.
func Health(c echo.Context) error {
	return c.String(http.StatusOK, "ok") // write "ok" with a 200 OK status
}
