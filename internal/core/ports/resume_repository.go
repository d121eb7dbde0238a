package ports

import (
	"context"
	"io"

	"github.com/resumeforge/resume-api/internal/core/domain"
)

// PublicLinkStore claims public links atomically.
type PublicLinkStore interface {
	// ClaimPublicLink assigns link to the resume if it has none and returns
	// the link now assigned, which is the existing one when a link was
	// already set. It returns domain.ErrPublicLinkTaken when another resume
	// holds link and domain.ErrResumeNotFound when the resume is missing.
	ClaimPublicLink(ctx context.Context, resumeID int64, link string) (string, error)
}

// ResumeRepository defines persistence for resumes. Lookups that miss return
// domain.ErrResumeNotFound.
type ResumeRepository interface {
	PublicLinkStore

	Create(ctx context.Context, resume *domain.Resume) (*domain.Resume, error)
	FindByID(ctx context.Context, id int64) (*domain.Resume, error)
	FindPublicByLink(ctx context.Context, link string) (*domain.Resume, error)
	ListAll(ctx context.Context) ([]*domain.Resume, error)
	ListByOwner(ctx context.Context, userID int64) ([]*domain.Resume, error)
	ListPublic(ctx context.Context) ([]*domain.Resume, error)
	// Update writes content fields only. Owner, visibility and link are
	// changed through their own operations.
	Update(ctx context.Context, resume *domain.Resume) error
	SetVisibility(ctx context.Context, id int64, public bool) error
	Delete(ctx context.Context, id int64) error
	DeleteByOwner(ctx context.Context, userID int64) error
}

// PublicResumeCache is a read-through cache for anonymous lookups by link.
type PublicResumeCache interface {
	Get(ctx context.Context, link string) (*domain.Resume, bool, error)
	Set(ctx context.Context, resume *domain.Resume) error
	Invalidate(ctx context.Context, link string) error
}

// PDFRenderer writes a printable rendition of a resume.
type PDFRenderer interface {
	Render(w io.Writer, resume *domain.Resume) error
}
