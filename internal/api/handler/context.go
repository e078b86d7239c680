package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/envios-ar/shipping-tracker/internal/api/middleware"
	"github.com/envios-ar/shipping-tracker/internal/core/ports"
)

const anonymousSource = "anonymous"

// requestSource names who issued a mutation: the JWT subject when auth is
// enabled, otherwise anonymousSource.
func requestSource(c echo.Context) string {
	if s := middleware.Subject(c); s != "" {
		return s
	}
	return anonymousSource
}

// respond writes a successful Result with status, or hands the failure to the
// HTTP error handler.
func respond[T any](c echo.Context, status int, res ports.Result[T], payload func(T) any) error {
	if !res.Succeeded {
		return res.Err
	}
	return c.JSON(status, envelope{Succeeded: true, Message: res.Message, Payload: payload(res.Payload)})
}

// bindAndValidate decodes the body into req and runs the struct validator.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}
