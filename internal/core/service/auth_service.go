package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/resumeforge/resume-api/internal/core/auth"
	"github.com/resumeforge/resume-api/internal/core/domain"
	"github.com/resumeforge/resume-api/internal/core/ports"
	"github.com/resumeforge/resume-api/internal/pkg/metrics"
)

// AuthService implements sign-in, sign-up and token refresh.
type AuthService struct {
	users  ports.UserRepository
	tokens *auth.TokenCodec
	hasher *auth.PasswordHasher
	audit  ports.AuditSink
	log    zerolog.Logger

	// dummyHash is compared against for unknown usernames so both failure
	// paths cost one bcrypt comparison.
	dummyHash string
}

func NewAuthService(
	users ports.UserRepository,
	tokens *auth.TokenCodec,
	hasher *auth.PasswordHasher,
	audit ports.AuditSink,
	log zerolog.Logger,
) (*AuthService, error) {
	dummy, err := hasher.Hash("unused-sign-in-placeholder")
	if err != nil {
		return nil, fmt.Errorf("prepare dummy hash: %w", err)
	}
	if audit == nil {
		audit = discardAudit{}
	}
	return &AuthService{
		users:     users,
		tokens:    tokens,
		hasher:    hasher,
		audit:     audit,
		log:       log,
		dummyHash: dummy,
	}, nil
}

// SignIn verifies credentials and issues a session token. Unknown users and
// wrong passwords both yield domain.ErrCredentialInvalid.
func (s *AuthService) SignIn(ctx context.Context, username, password string) (*ports.Session, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, s.signInFailed(username, "empty credentials")
	}

	user, err := s.users.FindByUsername(ctx, username)
	if errors.Is(err, domain.ErrUserNotFound) {
		s.hasher.Verify(password, s.dummyHash)
		return nil, s.signInFailed(username, "unknown user")
	}
	if err != nil {
		return nil, fmt.Errorf("sign in: %w", err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, s.signInFailed(username, "bad password")
	}

	session, err := s.issue(user)
	if err != nil {
		return nil, err
	}

	metrics.SignInTotal.WithLabelValues(domain.OutcomeSuccess).Inc()
	s.audit.Publish(domain.AuditEvent{
		Kind:    domain.AuditSignIn,
		Subject: user.Username,
		UserID:  user.ID,
		Outcome: domain.OutcomeSuccess,
		At:      time.Now().UTC(),
	})
	return session, nil
}

func (s *AuthService) signInFailed(username, reason string) error {
	metrics.SignInTotal.WithLabelValues(domain.OutcomeFailure).Inc()
	s.log.Debug().Str("username", username).Str("reason", reason).Msg("sign-in rejected")
	s.audit.Publish(domain.AuditEvent{
		Kind:    domain.AuditSignIn,
		Subject: username,
		Outcome: domain.OutcomeFailure,
		Reason:  reason,
		At:      time.Now().UTC(),
	})
	return domain.ErrCredentialInvalid
}

// SignUp registers a new account. Requested role names other than admin
// spellings map to USER; no roles means USER.
func (s *AuthService) SignUp(ctx context.Context, in ports.SignUpInput) (*domain.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)

	taken, err := s.users.ExistsByUsername(ctx, in.Username)
	if err != nil {
		return nil, fmt.Errorf("check username: %w", err)
	}
	if taken {
		return nil, domain.ErrUsernameTaken
	}

	taken, err = s.users.ExistsByEmail(ctx, in.Email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if taken {
		return nil, domain.ErrEmailTaken
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	created, err := s.users.Create(ctx, &domain.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		Roles:        domain.ParseRoleSet(in.Roles),
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Int64("user_id", created.ID).Str("username", created.Username).Strs("roles", created.Roles.Strings()).Msg("user registered")
	s.audit.Publish(domain.AuditEvent{
		Kind:    domain.AuditSignUp,
		Subject: created.Username,
		UserID:  created.ID,
		Outcome: domain.OutcomeSuccess,
		At:      now,
	})
	return created, nil
}

// Refresh issues a fresh token for an authenticated principal.
func (s *AuthService) Refresh(ctx context.Context, principal *domain.Principal) (*ports.Session, error) {
	if principal == nil {
		return nil, domain.ErrUnauthenticated
	}
	user, err := s.users.FindByID(ctx, principal.ID)
	if errors.Is(err, domain.ErrUserNotFound) {
		return nil, domain.ErrUnauthenticated
	}
	if err != nil {
		return nil, fmt.Errorf("refresh: %w", err)
	}
	return s.issue(user)
}

func (s *AuthService) issue(user *domain.User) (*ports.Session, error) {
	token, claims, err := s.tokens.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &ports.Session{Token: token, ExpiresAt: claims.ExpiresAt, User: user}, nil
}
