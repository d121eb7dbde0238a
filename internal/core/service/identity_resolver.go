package service

import (
	"context"

	"github.com/resumeforge/resume-api/internal/core/domain"
	"github.com/resumeforge/resume-api/internal/core/ports"
)

// IdentityResolver turns a token subject into a Principal carrying the
// user's current roles.
type IdentityResolver struct {
	users ports.UserRepository
}

func NewIdentityResolver(users ports.UserRepository) *IdentityResolver {
	return &IdentityResolver{users: users}
}

// Resolve returns domain.ErrUserNotFound when the subject no longer exists.
func (r *IdentityResolver) Resolve(ctx context.Context, subject string) (*domain.Principal, error) {
	user, err := r.users.FindByUsername(ctx, subject)
	if err != nil {
		return nil, err
	}
	return domain.NewPrincipal(user), nil
}
