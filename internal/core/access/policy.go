// Package access holds the authorization policy. Evaluate is a pure function
// of its input; callers load resource facts from storage before asking.
package access

import (
	"github.com/resumeforge/resume-api/internal/core/domain"
)

type Action uint8

const (
	ActionRead Action = iota
	ActionWrite
)

func (a Action) String() string {
	if a == ActionWrite {
		return "write"
	}
	return "read"
}

// Resource carries the authoritative facts about a target resource. OwnerID
// is meaningful only when Owned is set.
type Resource struct {
	OwnerID int64
	Owned   bool
	Public  bool
}

// OwnedBy describes a resource with a known owner.
func OwnedBy(ownerID int64, public bool) *Resource {
	return &Resource{OwnerID: ownerID, Owned: true, Public: public}
}

// Request is one authorization question. A nil Principal means anonymous;
// a nil Resource means the operation targets no particular resource.
type Request struct {
	Principal *domain.Principal
	Required  domain.RoleSet
	Resource  *Resource
	Action    Action
}

// Decision is the verdict for a Request. Reason is nil when Allowed.
type Decision struct {
	Allowed bool
	Reason  error
}

// Err returns nil for an allow and the deny reason otherwise.
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	return d.Reason
}

var allow = Decision{Allowed: true}

func deny(reason error) Decision { return Decision{Reason: reason} }

// Evaluate applies the role and ownership policy:
//
//  1. no required roles: allow
//  2. anonymous: deny Unauthenticated
//  3. ADMIN: allow, including every USER gate and any ownership check
//  4. no role in common with Required: deny Forbidden
//  5. no resource: allow
//  6. owned resource: allow the owner, deny Forbidden to anyone else
//  7. unowned public resource and read action: allow
//  8. otherwise deny Forbidden
func Evaluate(req Request) Decision {
	if req.Required.IsEmpty() {
		return allow
	}
	p := req.Principal
	if p == nil {
		return deny(domain.ErrUnauthenticated)
	}
	if p.IsAdmin() {
		return allow
	}
	if !p.Roles.Intersects(req.Required) {
		return deny(domain.ErrForbidden)
	}

	res := req.Resource
	if res == nil {
		return allow
	}
	if res.Owned {
		if res.OwnerID == p.ID {
			return allow
		}
		return deny(domain.ErrForbidden)
	}
	if res.Public && req.Action == ActionRead {
		return allow
	}
	return deny(domain.ErrForbidden)
}

// Evaluator adapts Evaluate to an interface so callers can observe
// decisions.
type Evaluator interface {
	Evaluate(req Request) Decision
}

// PolicyFunc is an Evaluator backed by a plain function.
type PolicyFunc func(Request) Decision

func (f PolicyFunc) Evaluate(req Request) Decision { return f(req) }

// Default is the production policy.
var Default Evaluator = PolicyFunc(Evaluate)
