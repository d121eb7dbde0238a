package ports

import (
	"context"

	"github.com/resumeforge/resume-api/internal/core/domain"
)

// AuditRepository persists audit events.
type AuditRepository interface {
	Insert(ctx context.Context, event *domain.AuditEvent) error
}

// AuditService records a single audit event.
type AuditService interface {
	Record(ctx context.Context, event domain.AuditEvent) error
}

// AuditSink accepts audit events for asynchronous recording. Publish must
// not block the caller.
type AuditSink interface {
	Publish(event domain.AuditEvent)
}
