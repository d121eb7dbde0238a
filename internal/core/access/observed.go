package access

import (
	"errors"

	"github.com/resumeforge/resume-api/internal/core/domain"
	"github.com/resumeforge/resume-api/internal/pkg/metrics"
)

// Observed wraps next and counts every decision it returns.
func Observed(next Evaluator) Evaluator {
	return PolicyFunc(func(req Request) Decision {
		d := next.Evaluate(req)
		metrics.AccessDecisionsTotal.WithLabelValues(outcomeLabel(d), reasonLabel(d.Reason)).Inc()
		return d
	})
}

func outcomeLabel(d Decision) string {
	if d.Allowed {
		return "allow"
	}
	return "deny"
}

func reasonLabel(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, domain.ErrUnauthenticated):
		return "unauthenticated"
	case errors.Is(err, domain.ErrForbidden):
		return "forbidden"
	default:
		return "other"
	}
}
