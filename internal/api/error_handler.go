package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/envios-ar/shipping-tracker/internal/core/domain"
	"github.com/envios-ar/shipping-tracker/internal/core/ports"
)

// errorResponse is the envelope for all API errors; payload is always null.
type errorResponse struct {
	Succeeded bool   `json:"succeeded"`
	Message   string `json:"message"`
	Payload   any    `json:"payload"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps domain error kinds to their HTTP status codes.
//   - Logs infrastructure errors without leaking details to the client.
//   - Renders the {succeeded, message, payload} envelope.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, errorResponse{Message: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, auth, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if he.Internal != nil {
			log.Warn().Err(he.Internal).Str("path", c.Path()).Msg("request failed")
		}
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	res := ports.Fail[any](err)
	code := statusForKind(res.Kind)
	if code >= http.StatusInternalServerError {
		log.Error().
			Err(err).
			Str("method", c.Request().Method).
			Str("path", c.Path()).
			Str("kind", string(res.Kind)).
			Msg("request failed")
	}
	return code, res.Message
}

func statusForKind(kind domain.ErrorKind) int {
	switch kind {
	case domain.KindValidation:
		return http.StatusBadRequest
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindConflict:
		return http.StatusConflict
	case domain.KindIllegalTransition:
		return http.StatusUnprocessableEntity
	case domain.KindUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
