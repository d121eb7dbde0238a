package ports

import (
	"context"
	"io"
	"time"

	"github.com/resumeforge/resume-api/internal/core/domain"
)

// SignUpInput is the DTO for account registration.
type SignUpInput struct {
	Username string
	Email    string
	Password string
	Roles    []string
}

// Session is the result of a successful sign-in or refresh.
type Session struct {
	Token     string
	ExpiresAt time.Time
	User      *domain.User
}

type AuthService interface {
	SignIn(ctx context.Context, username, password string) (*Session, error)
	SignUp(ctx context.Context, in SignUpInput) (*domain.User, error)
	Refresh(ctx context.Context, principal *domain.Principal) (*Session, error)
}

// IdentityResolver loads the current principal for a token subject.
type IdentityResolver interface {
	Resolve(ctx context.Context, subject string) (*domain.Principal, error)
}

// UpdateUserInput carries profile changes. Roles is applied only for
// administrators; nil leaves roles untouched.
type UpdateUserInput struct {
	Username     string
	Email        string
	ProfilePhoto string
	Roles        []string
}

type UserService interface {
	List(ctx context.Context, principal *domain.Principal) ([]*domain.User, error)
	Get(ctx context.Context, principal *domain.Principal, id int64) (*domain.User, error)
	Update(ctx context.Context, principal *domain.Principal, id int64, in UpdateUserInput) (*domain.User, error)
	ChangePassword(ctx context.Context, principal *domain.Principal, id int64, current, next string) error
	Delete(ctx context.Context, principal *domain.Principal, id int64) error
}

// ResumeInput is the DTO for create and update. UserID is honoured on create
// for administrators only and ignored on update. A nil Public leaves
// visibility unchanged on update and private on create.
type ResumeInput struct {
	UserID       int64
	Title        string
	PersonalInfo string
	Summary      string
	Educations   []domain.Education
	Experiences  []domain.Experience
	Skills       []domain.Skill
	TemplateName string
	Public       *bool
}

type ResumeService interface {
	ListAll(ctx context.Context, principal *domain.Principal) ([]*domain.Resume, error)
	ListByOwner(ctx context.Context, principal *domain.Principal, userID int64) ([]*domain.Resume, error)
	Get(ctx context.Context, principal *domain.Principal, id int64) (*domain.Resume, error)
	Create(ctx context.Context, principal *domain.Principal, in ResumeInput) (*domain.Resume, error)
	Update(ctx context.Context, principal *domain.Principal, id int64, in ResumeInput) (*domain.Resume, error)
	Delete(ctx context.Context, principal *domain.Principal, id int64) error
	Publish(ctx context.Context, principal *domain.Principal, id int64) (*domain.Resume, error)
	Unpublish(ctx context.Context, principal *domain.Principal, id int64) (*domain.Resume, error)
	RenderPDF(ctx context.Context, principal *domain.Principal, id int64, w io.Writer) (*domain.Resume, error)

	ListPublic(ctx context.Context) ([]*domain.Resume, error)
	GetPublic(ctx context.Context, link string) (*domain.Resume, error)
	RenderPublicPDF(ctx context.Context, link string, w io.Writer) (*domain.Resume, error)

	// CheckAccess reports the decision for principal against a stored
	// resume without acting on it.
	CheckAccess(ctx context.Context, principal *domain.Principal, id int64) (*domain.Resume, AccessReport, error)
}

// AccessReport summarises what a principal may do with one resume.
type AccessReport struct {
	CanRead  bool   `json:"canRead"`
	CanWrite bool   `json:"canWrite"`
	Reason   string `json:"reason,omitempty"`
}
