package domain

import "time"

// AuditKind classifies security-relevant events.
type AuditKind string

const (
	AuditSignIn       AuditKind = "signin"
	AuditSignUp       AuditKind = "signup"
	AuditAccessDenied AuditKind = "access_denied"
	AuditPublish      AuditKind = "publish"
	AuditUnpublish    AuditKind = "unpublish"
	AuditPassword     AuditKind = "password_change"
	AuditUserDeleted  AuditKind = "user_deleted"
)

const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// AuditEvent is an append-only record of a security decision or action.
// Subject is the username (or the attempted one for failed sign-ins) and is
// also the dispatcher shard key, so events for one subject stay ordered.
type AuditEvent struct {
	ID         string    `json:"id"`
	Kind       AuditKind `json:"kind"`
	Subject    string    `json:"subject"`
	UserID     int64     `json:"userId,omitempty"`
	ResourceID int64     `json:"resourceId,omitempty"`
	Outcome    string    `json:"outcome"`
	Reason     string    `json:"reason,omitempty"`
	At         time.Time `json:"at"`
}
