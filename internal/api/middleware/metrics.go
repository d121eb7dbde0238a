package middleware

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/resumeforge/resume-api/internal/pkg/metrics"
)

// Metrics records request latency by route pattern. Errors are rendered here
// through the echo error handler so the observed status is the one sent.
// Unmatched routes share the "unmatched" label.
func Metrics() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			if err := next(c); err != nil {
				c.Error(err)
			}

			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			metrics.HTTPRequestDuration.
				WithLabelValues(c.Request().Method, route, strconv.Itoa(c.Response().Status)).
				Observe(time.Since(start).Seconds())
			return nil
		}
	}
}
