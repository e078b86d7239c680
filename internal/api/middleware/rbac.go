package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// roleRank orders roles by privilege. Unknown roles rank zero.
var roleRank = map[string]int{
	RoleOperator: 1,
	RoleAdmin:    2,
}

// RequireRole lets a request through when its role ranks at least minimum,
// so admins pass operator routes. It must run after Auth.
func RequireRole(minimum string) echo.MiddlewareFunc {
	need := roleRank[minimum]
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if rank := roleRank[Role(c)]; rank == 0 || rank < need {
				return echo.NewHTTPError(http.StatusForbidden, "forbidden")
			}
			return next(c)
		}
	}
}

// Role returns the authenticated role, or "" on unauthenticated routes.
func Role(c echo.Context) string {
	r, _ := c.Get(ctxRole).(string)
	return r
}
