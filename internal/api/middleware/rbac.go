package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/resumeforge/resume-api/internal/core/access"
	"github.com/resumeforge/resume-api/internal/core/domain"
)

// Require gates a route on the caller holding at least one of roles. It
// answers with domain.ErrUnauthenticated for anonymous callers and
// domain.ErrForbidden otherwise; the error handler turns these into 401 and
// 403. With no roles the route is public.
func Require(policy access.Evaluator, roles ...domain.Role) echo.MiddlewareFunc {
	if policy == nil {
		policy = access.Default
	}
	required := domain.NewRoleSet(roles...)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			d := policy.Evaluate(access.Request{
				Principal: PrincipalFrom(c),
				Required:  required,
			})
			if err := d.Err(); err != nil {
				return err
			}
			return next(c)
		}
	}
}
