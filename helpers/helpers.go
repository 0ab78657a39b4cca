package helpers

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

var validate = newValidator()

// newValidator reports fields by their query tag so messages name the
// parameter the caller actually sent.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("query"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

// JSONError writes {"error":"<text>"} with the provided HTTP code.
// Accepts string, error, or any type (it will be fmt.Sprintf'd).
func JSONError(c echo.Context, code int, err any) error {
	var msg string
	switch v := err.(type) {
	case nil:
		msg = http.StatusText(code)
	case string:
		if v == "" {
			msg = http.StatusText(code)
		} else {
			msg = v
		}
	case error:
		if v.Error() == "" {
			msg = http.StatusText(code)
		} else {
			msg = v.Error()
		}
	default:
		msg = fmt.Sprintf("%v", v)
	}
	return c.JSON(code, map[string]string{"error": msg})
}

// BindAndValidate binds query/path/body values into req and validates it.
// Failures come back as a 400 *echo.HTTPError for the error handler to render.
func BindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request")
	}

	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, validationMessage(err))
	}

	return nil
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "missing or invalid fields"
	}

	fe := verrs[0]
	if fe.Tag() == "required" {
		return "Missing required query param: " + fe.Field()
	}
	return fmt.Sprintf("Invalid query param: %s", fe.Field())
}
