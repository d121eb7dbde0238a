package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/resumeforge/resume-api/internal/core/access"
	"github.com/resumeforge/resume-api/internal/core/auth"
	"github.com/resumeforge/resume-api/internal/core/domain"
	"github.com/resumeforge/resume-api/internal/core/ports"
)

// UserService manages accounts on behalf of their owners and administrators.
type UserService struct {
	users   ports.UserRepository
	resumes ports.ResumeRepository
	cache   ports.PublicResumeCache
	hasher  *auth.PasswordHasher
	guard   guard
	log     zerolog.Logger
}

func NewUserService(
	users ports.UserRepository,
	resumes ports.ResumeRepository,
	cache ports.PublicResumeCache,
	hasher *auth.PasswordHasher,
	policy access.Evaluator,
	audit ports.AuditSink,
	log zerolog.Logger,
) *UserService {
	if cache == nil {
		cache = noCache{}
	}
	return &UserService{
		users:   users,
		resumes: resumes,
		cache:   cache,
		hasher:  hasher,
		guard:   newGuard(policy, audit),
		log:     log,
	}
}

func (s *UserService) List(ctx context.Context, p *domain.Principal) ([]*domain.User, error) {
	if err := s.guard.check(p, requireAdmin, nil, access.ActionRead, 0); err != nil {
		return nil, err
	}
	return s.users.List(ctx)
}

func (s *UserService) load(ctx context.Context, p *domain.Principal, id int64, action access.Action) (*domain.User, error) {
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.guard.check(p, requireUser, access.OwnedBy(u.ID, false), action, u.ID); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *UserService) Get(ctx context.Context, p *domain.Principal, id int64) (*domain.User, error) {
	return s.load(ctx, p, id, access.ActionRead)
}

// Update changes profile fields. Role changes require an administrator and
// take effect on the user's next request.
func (s *UserService) Update(ctx context.Context, p *domain.Principal, id int64, in ports.UpdateUserInput) (*domain.User, error) {
	u, err := s.load(ctx, p, id, access.ActionWrite)
	if err != nil {
		return nil, err
	}

	if name := strings.TrimSpace(in.Username); name != "" && name != u.Username {
		taken, err := s.users.ExistsByUsername(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("check username: %w", err)
		}
		if taken {
			return nil, domain.ErrUsernameTaken
		}
		u.Username = name
	}
	if email := strings.TrimSpace(in.Email); email != "" && email != u.Email {
		taken, err := s.users.ExistsByEmail(ctx, email)
		if err != nil {
			return nil, fmt.Errorf("check email: %w", err)
		}
		if taken {
			return nil, domain.ErrEmailTaken
		}
		u.Email = email
	}
	if in.ProfilePhoto != "" {
		u.ProfilePhoto = in.ProfilePhoto
	}
	if in.Roles != nil {
		if !p.IsAdmin() {
			return nil, domain.ErrForbidden
		}
		u.Roles = domain.ParseRoleSet(in.Roles)
	}

	u.UpdatedAt = time.Now().UTC()
	if err := s.users.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// ChangePassword replaces the password after verifying the current one.
func (s *UserService) ChangePassword(ctx context.Context, p *domain.Principal, id int64, current, next string) error {
	u, err := s.load(ctx, p, id, access.ActionWrite)
	if err != nil {
		return err
	}
	if !s.hasher.Verify(current, u.PasswordHash) {
		return domain.ErrPasswordMismatch
	}

	hash, err := s.hasher.Hash(next)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.users.UpdatePassword(ctx, u.ID, hash); err != nil {
		return err
	}

	s.guard.audit.Publish(domain.AuditEvent{
		Kind:    domain.AuditPassword,
		Subject: p.Username,
		UserID:  u.ID,
		Outcome: domain.OutcomeSuccess,
		At:      time.Now().UTC(),
	})
	return nil
}

// Delete removes a user and every resume they own.
func (s *UserService) Delete(ctx context.Context, p *domain.Principal, id int64) error {
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.guard.check(p, requireAdmin, nil, access.ActionWrite, u.ID); err != nil {
		return err
	}

	owned, err := s.resumes.ListByOwner(ctx, u.ID)
	if err != nil {
		return fmt.Errorf("list resumes of user %d: %w", u.ID, err)
	}
	if err := s.resumes.DeleteByOwner(ctx, u.ID); err != nil {
		return fmt.Errorf("delete resumes of user %d: %w", u.ID, err)
	}
	for _, r := range owned {
		if r.PublicURL == "" {
			continue
		}
		if err := s.cache.Invalidate(ctx, r.PublicURL); err != nil {
			s.log.Warn().Err(err).Str("link", r.PublicURL).Msg("public cache invalidation failed")
		}
	}
	if err := s.users.Delete(ctx, u.ID); err != nil {
		return err
	}

	s.log.Info().Int64("user_id", u.ID).Str("by", p.Username).Int("resumes", len(owned)).Msg("user deleted")
	s.guard.audit.Publish(domain.AuditEvent{
		Kind:    domain.AuditUserDeleted,
		Subject: p.Username,
		UserID:  u.ID,
		Outcome: domain.OutcomeSuccess,
		At:      time.Now().UTC(),
	})
	return nil
}
