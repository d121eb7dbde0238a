package service

import (
	"errors"
	"time"

	"github.com/resumeforge/resume-api/internal/core/access"
	"github.com/resumeforge/resume-api/internal/core/domain"
	"github.com/resumeforge/resume-api/internal/core/ports"
)

var (
	requireUser  = domain.NewRoleSet(domain.RoleUser)
	requireAdmin = domain.NewRoleSet(domain.RoleAdmin)
)

// guard evaluates access requests and audits forbidden outcomes.
type guard struct {
	policy access.Evaluator
	audit  ports.AuditSink
}

func newGuard(policy access.Evaluator, audit ports.AuditSink) guard {
	if policy == nil {
		policy = access.Default
	}
	if audit == nil {
		audit = discardAudit{}
	}
	return guard{policy: policy, audit: audit}
}

func (g guard) check(p *domain.Principal, required domain.RoleSet, res *access.Resource, action access.Action, resourceID int64) error {
	d := g.policy.Evaluate(access.Request{Principal: p, Required: required, Resource: res, Action: action})
	if d.Allowed {
		return nil
	}
	if errors.Is(d.Reason, domain.ErrForbidden) {
		g.audit.Publish(domain.AuditEvent{
			Kind:       domain.AuditAccessDenied,
			Subject:    p.Username,
			UserID:     p.ID,
			ResourceID: resourceID,
			Outcome:    domain.OutcomeFailure,
			Reason:     action.String(),
			At:         time.Now().UTC(),
		})
	}
	return d.Reason
}

type discardAudit struct{}

func (discardAudit) Publish(domain.AuditEvent) {}
