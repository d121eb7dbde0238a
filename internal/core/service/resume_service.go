package service

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/resumeforge/resume-api/internal/core/access"
	"github.com/resumeforge/resume-api/internal/core/domain"
	"github.com/resumeforge/resume-api/internal/core/ports"
)

// ResumeDeps groups the collaborators of ResumeService.
type ResumeDeps struct {
	Resumes  ports.ResumeRepository
	Users    ports.UserRepository
	Links    *PublicLinkAllocator
	Cache    ports.PublicResumeCache
	Renderer ports.PDFRenderer
	Policy   access.Evaluator
	Audit    ports.AuditSink
	Log      zerolog.Logger
}

// ResumeService implements resume CRUD, publishing and export. Every by-id
// operation loads the stored resume before the access check, so a missing
// resume reports not-found ahead of forbidden and ownership always comes
// from storage.
type ResumeService struct {
	resumes  ports.ResumeRepository
	users    ports.UserRepository
	links    *PublicLinkAllocator
	cache    ports.PublicResumeCache
	renderer ports.PDFRenderer
	guard    guard
	audit    ports.AuditSink
	log      zerolog.Logger
}

func NewResumeService(d ResumeDeps) *ResumeService {
	g := newGuard(d.Policy, d.Audit)
	cache := d.Cache
	if cache == nil {
		cache = noCache{}
	}
	return &ResumeService{
		resumes:  d.Resumes,
		users:    d.Users,
		links:    d.Links,
		cache:    cache,
		renderer: d.Renderer,
		guard:    g,
		audit:    g.audit,
		log:      d.Log,
	}
}

func (s *ResumeService) load(ctx context.Context, p *domain.Principal, id int64, action access.Action) (*domain.Resume, error) {
	r, err := s.resumes.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.guard.check(p, requireUser, access.OwnedBy(r.UserID, r.Public), action, r.ID); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *ResumeService) ListAll(ctx context.Context, p *domain.Principal) ([]*domain.Resume, error) {
	if err := s.guard.check(p, requireAdmin, nil, access.ActionRead, 0); err != nil {
		return nil, err
	}
	return s.resumes.ListAll(ctx)
}

func (s *ResumeService) ListByOwner(ctx context.Context, p *domain.Principal, userID int64) ([]*domain.Resume, error) {
	if err := s.guard.check(p, requireUser, access.OwnedBy(userID, false), access.ActionRead, 0); err != nil {
		return nil, err
	}
	return s.resumes.ListByOwner(ctx, userID)
}

func (s *ResumeService) Get(ctx context.Context, p *domain.Principal, id int64) (*domain.Resume, error) {
	return s.load(ctx, p, id, access.ActionRead)
}

// Create stores a new resume. Non-admins always own what they create; an
// administrator may create on behalf of an existing user.
func (s *ResumeService) Create(ctx context.Context, p *domain.Principal, in ports.ResumeInput) (*domain.Resume, error) {
	if err := s.guard.check(p, requireUser, nil, access.ActionWrite, 0); err != nil {
		return nil, err
	}

	owner := p.ID
	if in.UserID != 0 && in.UserID != p.ID && p.IsAdmin() {
		if _, err := s.users.FindByID(ctx, in.UserID); err != nil {
			return nil, err
		}
		owner = in.UserID
	}

	now := time.Now().UTC()
	r := &domain.Resume{UserID: owner, CreatedAt: now}
	applyContent(r, in)
	r.UpdatedAt = now

	created, err := s.resumes.Create(ctx, r)
	if err != nil {
		return nil, fmt.Errorf("create resume: %w", err)
	}
	s.log.Info().Int64("resume_id", created.ID).Int64("user_id", owner).Msg("resume created")

	if in.Public != nil && *in.Public {
		return s.publish(ctx, p, created)
	}
	return created, nil
}

// Update replaces the content of a resume. The stored owner is kept
// regardless of in.UserID.
func (s *ResumeService) Update(ctx context.Context, p *domain.Principal, id int64, in ports.ResumeInput) (*domain.Resume, error) {
	r, err := s.load(ctx, p, id, access.ActionWrite)
	if err != nil {
		return nil, err
	}

	applyContent(r, in)
	r.UpdatedAt = time.Now().UTC()
	if err := s.resumes.Update(ctx, r); err != nil {
		return nil, fmt.Errorf("update resume: %w", err)
	}
	s.invalidate(ctx, r.PublicURL)

	if in.Public != nil && *in.Public != r.Public {
		if *in.Public {
			return s.publish(ctx, p, r)
		}
		return s.unpublish(ctx, p, r)
	}
	return r, nil
}

func (s *ResumeService) Delete(ctx context.Context, p *domain.Principal, id int64) error {
	r, err := s.load(ctx, p, id, access.ActionWrite)
	if err != nil {
		return err
	}
	if err := s.resumes.Delete(ctx, r.ID); err != nil {
		return fmt.Errorf("delete resume: %w", err)
	}
	s.invalidate(ctx, r.PublicURL)
	s.log.Info().Int64("resume_id", r.ID).Str("by", p.Username).Msg("resume deleted")
	return nil
}

// Publish makes the resume visible by link, allocating the link on first use
// and reusing it afterwards.
func (s *ResumeService) Publish(ctx context.Context, p *domain.Principal, id int64) (*domain.Resume, error) {
	r, err := s.load(ctx, p, id, access.ActionWrite)
	if err != nil {
		return nil, err
	}
	return s.publish(ctx, p, r)
}

// Unpublish hides the resume but keeps its link for a later Publish.
func (s *ResumeService) Unpublish(ctx context.Context, p *domain.Principal, id int64) (*domain.Resume, error) {
	r, err := s.load(ctx, p, id, access.ActionWrite)
	if err != nil {
		return nil, err
	}
	return s.unpublish(ctx, p, r)
}

func (s *ResumeService) publish(ctx context.Context, p *domain.Principal, r *domain.Resume) (*domain.Resume, error) {
	link := r.PublicURL
	if link == "" {
		var err error
		if link, err = s.links.Allocate(ctx, r.ID); err != nil {
			return nil, err
		}
	}
	if err := s.resumes.SetVisibility(ctx, r.ID, true); err != nil {
		return nil, fmt.Errorf("publish resume: %w", err)
	}
	r.PublicURL = link
	r.Public = true
	s.invalidate(ctx, link)

	s.audit.Publish(domain.AuditEvent{
		Kind:       domain.AuditPublish,
		Subject:    p.Username,
		UserID:     p.ID,
		ResourceID: r.ID,
		Outcome:    domain.OutcomeSuccess,
		At:         time.Now().UTC(),
	})
	return r, nil
}

func (s *ResumeService) unpublish(ctx context.Context, p *domain.Principal, r *domain.Resume) (*domain.Resume, error) {
	if err := s.resumes.SetVisibility(ctx, r.ID, false); err != nil {
		return nil, fmt.Errorf("unpublish resume: %w", err)
	}
	r.Public = false
	s.invalidate(ctx, r.PublicURL)

	s.audit.Publish(domain.AuditEvent{
		Kind:       domain.AuditUnpublish,
		Subject:    p.Username,
		UserID:     p.ID,
		ResourceID: r.ID,
		Outcome:    domain.OutcomeSuccess,
		At:         time.Now().UTC(),
	})
	return r, nil
}

func (s *ResumeService) RenderPDF(ctx context.Context, p *domain.Principal, id int64, w io.Writer) (*domain.Resume, error) {
	r, err := s.load(ctx, p, id, access.ActionRead)
	if err != nil {
		return nil, err
	}
	if err := s.renderer.Render(w, r); err != nil {
		return nil, fmt.Errorf("render resume %d: %w", r.ID, err)
	}
	return r, nil
}

// ── Anonymous reads ──────────────────────────────────────────────────────────

func (s *ResumeService) ListPublic(ctx context.Context) ([]*domain.Resume, error) {
	return s.resumes.ListPublic(ctx)
}

// GetPublic returns the public resume behind link. Private resumes are
// reported as not found.
func (s *ResumeService) GetPublic(ctx context.Context, link string) (*domain.Resume, error) {
	cached, ok, err := s.cache.Get(ctx, link)
	if err != nil {
		s.log.Warn().Err(err).Str("link", link).Msg("public cache read failed, falling back to store")
	} else if ok {
		return cached, nil
	}

	r, err := s.resumes.FindPublicByLink(ctx, link)
	if err != nil {
		return nil, err
	}
	if !r.Public {
		return nil, domain.ErrResumeNotFound
	}
	if err := s.cache.Set(ctx, r); err != nil {
		s.log.Warn().Err(err).Str("link", link).Msg("public cache write failed")
		return r, nil
	}

	// Mutations write the store before invalidating. Re-reading after the
	// fill means an unpublish that raced the first read either shows up
	// here or evicts the entry itself.
	current, err := s.resumes.FindPublicByLink(ctx, link)
	if err != nil {
		s.invalidate(ctx, link)
		return nil, err
	}
	return current, nil
}

func (s *ResumeService) RenderPublicPDF(ctx context.Context, link string, w io.Writer) (*domain.Resume, error) {
	r, err := s.resumes.FindPublicByLink(ctx, link)
	if err != nil {
		return nil, err
	}
	if err := s.renderer.Render(w, r); err != nil {
		return nil, fmt.Errorf("render public resume %d: %w", r.ID, err)
	}
	return r, nil
}

// CheckAccess evaluates read and write access for p without auditing or
// acting.
func (s *ResumeService) CheckAccess(ctx context.Context, p *domain.Principal, id int64) (*domain.Resume, ports.AccessReport, error) {
	r, err := s.resumes.FindByID(ctx, id)
	if err != nil {
		return nil, ports.AccessReport{}, err
	}

	res := access.OwnedBy(r.UserID, r.Public)
	read := s.guard.policy.Evaluate(access.Request{Principal: p, Required: requireUser, Resource: res, Action: access.ActionRead})
	write := s.guard.policy.Evaluate(access.Request{Principal: p, Required: requireUser, Resource: res, Action: access.ActionWrite})

	report := ports.AccessReport{CanRead: read.Allowed, CanWrite: write.Allowed}
	if reason := write.Err(); reason != nil {
		report.Reason = reason.Error()
	}
	return r, report, nil
}

func (s *ResumeService) invalidate(ctx context.Context, link string) {
	if link == "" {
		return
	}
	if err := s.cache.Invalidate(ctx, link); err != nil {
		s.log.Warn().Err(err).Str("link", link).Msg("public cache invalidation failed")
	}
}

func applyContent(r *domain.Resume, in ports.ResumeInput) {
	r.Title = strings.TrimSpace(in.Title)
	r.PersonalInfo = in.PersonalInfo
	r.Summary = in.Summary
	r.Educations = in.Educations
	r.Experiences = in.Experiences
	r.Skills = in.Skills
	r.TemplateName = strings.TrimSpace(in.TemplateName)
	if r.TemplateName == "" {
		r.TemplateName = domain.DefaultTemplate
	}
}

type noCache struct{}

func (noCache) Get(context.Context, string) (*domain.Resume, bool, error) { return nil, false, nil }
func (noCache) Set(context.Context, *domain.Resume) error                 { return nil }
func (noCache) Invalidate(context.Context, string) error                  { return nil }
