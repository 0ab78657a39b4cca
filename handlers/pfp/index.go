package pfp

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Index answers any unrouted GET or HEAD with a pointer to the real endpoint.
func Index(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"message": "Welcome to the Facebook PFP API!",
		"usage":   "/api/pfp?url=<facebook-profile-url>&redirect=1",
	})
}
