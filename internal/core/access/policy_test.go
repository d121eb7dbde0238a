package access

import (
	"errors"
	"fmt"
	"testing"

	"github.com/resumeforge/resume-api/internal/core/domain"
)

var (
	userOnly  = domain.NewRoleSet(domain.RoleUser)
	adminOnly = domain.NewRoleSet(domain.RoleAdmin)
)

// expected restates the policy table independently of Evaluate's control flow.
func expected(present, roleMatch, admin, owner, public bool, action Action) error {
	switch {
	case !present:
		return domain.ErrUnauthenticated
	case admin:
		return nil
	case !roleMatch:
		return domain.ErrForbidden
	case owner:
		return nil
	default:
		// An owned resource is never opened up by its public flag.
		return domain.ErrForbidden
	}
}

func TestEvaluate_DecisionMatrix(t *testing.T) {
	const self, other = int64(1), int64(2)
	bools := []bool{false, true}

	for _, present := range bools {
		for _, roleMatch := range bools {
			for _, admin := range bools {
				for _, owner := range bools {
					for _, public := range bools {
						for _, action := range []Action{ActionRead, ActionWrite} {
							name := fmt.Sprintf("present=%t/match=%t/admin=%t/owner=%t/public=%t/%s",
								present, roleMatch, admin, owner, public, action)

							// Required is USER-gated when the principal's role should
							// match and ADMIN-only otherwise; a non-admin USER principal
							// never matches ADMIN-only.
							required := userOnly
							if !roleMatch {
								required = adminOnly
							}

							var p *domain.Principal
							if present {
								roles := userOnly
								if admin {
									roles = roles.Add(domain.RoleAdmin)
								}
								p = &domain.Principal{ID: self, Username: "alice", Roles: roles}
							}

							ownerID := other
							if owner {
								ownerID = self
							}

							got := Evaluate(Request{
								Principal: p,
								Required:  required,
								Resource:  OwnedBy(ownerID, public),
								Action:    action,
							})

							want := expected(present, roleMatch || admin, admin, owner, public, action)
							if want == nil {
								if !got.Allowed || got.Err() != nil {
									t.Errorf("%s: want allow, got deny(%v)", name, got.Reason)
								}
								continue
							}
							if got.Allowed || !errors.Is(got.Err(), want) {
								t.Errorf("%s: want deny(%v), got %+v", name, want, got)
							}
						}
					}
				}
			}
		}
	}
}

func TestEvaluate_PublicOperation(t *testing.T) {
	d := Evaluate(Request{})
	if !d.Allowed {
		t.Fatalf("operation without required roles must allow anonymous callers")
	}

	d = Evaluate(Request{Resource: OwnedBy(9, false), Action: ActionWrite})
	if !d.Allowed {
		t.Fatalf("public operation must ignore resource facts")
	}
}

func TestEvaluate_NoResource(t *testing.T) {
	p := &domain.Principal{ID: 3, Roles: userOnly}

	if d := Evaluate(Request{Principal: p, Required: userOnly, Action: ActionWrite}); !d.Allowed {
		t.Fatalf("role-only gate should allow matching role, got %v", d.Reason)
	}
	if d := Evaluate(Request{Principal: p, Required: adminOnly}); !errors.Is(d.Err(), domain.ErrForbidden) {
		t.Fatalf("admin-only gate should forbid USER, got %+v", d)
	}
	if d := Evaluate(Request{Required: userOnly}); !errors.Is(d.Err(), domain.ErrUnauthenticated) {
		t.Fatalf("anonymous should be unauthenticated, got %+v", d)
	}
}

func TestEvaluate_PublicOwnedResourceStaysWithOwner(t *testing.T) {
	p := &domain.Principal{ID: 1, Roles: userOnly}
	d := Evaluate(Request{Principal: p, Required: userOnly, Resource: OwnedBy(2, true), Action: ActionRead})
	if d.Allowed || !errors.Is(d.Err(), domain.ErrForbidden) {
		t.Fatalf("non-owner read of a public owned resource should forbid, got %+v", d)
	}
}

func TestEvaluate_UnownedResource(t *testing.T) {
	p := &domain.Principal{ID: 3, Roles: userOnly}

	if d := Evaluate(Request{Principal: p, Required: userOnly, Resource: &Resource{Public: true}}); !d.Allowed {
		t.Fatalf("public unowned read should allow")
	}
	d := Evaluate(Request{Principal: p, Required: userOnly, Resource: &Resource{}, Action: ActionRead})
	if !errors.Is(d.Err(), domain.ErrForbidden) {
		t.Fatalf("private unowned resource should forbid, got %+v", d)
	}
}

func TestEvaluate_ZeroIDPrincipalDoesNotOwnUnownedResource(t *testing.T) {
	p := &domain.Principal{ID: 0, Roles: userOnly}
	d := Evaluate(Request{Principal: p, Required: userOnly, Resource: &Resource{OwnerID: 0}, Action: ActionWrite})
	if d.Allowed {
		t.Fatalf("resource without an owner must not match a zero id")
	}
}

func TestDefaultEvaluator(t *testing.T) {
	p := &domain.Principal{ID: 1, Roles: adminOnly}
	if !Default.Evaluate(Request{Principal: p, Required: userOnly, Resource: OwnedBy(2, false)}).Allowed {
		t.Fatalf("admin should pass USER gate on another user's resource")
	}
}
