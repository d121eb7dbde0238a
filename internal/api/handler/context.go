package handler

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/resumeforge/resume-api/internal/api/middleware"
	"github.com/resumeforge/resume-api/internal/core/domain"
)

// principal returns the caller attached by the Authenticate middleware, or
// nil for anonymous requests. Services decide what anonymous may do.
func principal(c echo.Context) *domain.Principal {
	return middleware.PrincipalFrom(c)
}

// pathID parses a positive integer path parameter.
func pathID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.NewValidationError(name, name+" must be a positive integer")
	}
	return id, nil
}

// bindAndValidate decodes the request body into req and validates it.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return domain.NewValidationError("body", "invalid payload")
	}
	return c.Validate(req)
}
