package service

import (
	"context"
	"io"
	"sync"

	"github.com/resumeforge/resume-api/internal/core/auth"
	"github.com/resumeforge/resume-api/internal/core/domain"
)

// ---------------------------------------------------------------------------
// Users
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]*domain.User
	err    error // returned by every call when set
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{byID: make(map[int64]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) seed(u *domain.User) *domain.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u.ID == 0 {
		r.nextID++
		u.ID = r.nextID
	} else if u.ID > r.nextID {
		r.nextID = u.ID
	}
	r.byID[u.ID] = cloneUser(u)
	return u
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.mu.Lock()
	for _, u := range r.byID {
		if u.Username == user.Username {
			r.mu.Unlock()
			return nil, domain.ErrUsernameTaken
		}
		if u.Email == user.Email {
			r.mu.Unlock()
			return nil, domain.ErrEmailTaken
		}
	}
	r.mu.Unlock()
	return cloneUser(r.seed(cloneUser(user))), nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id int64) (*domain.User, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.byID[id]; ok {
		return cloneUser(u), nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if u.Username == username {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	_, err := r.FindByUsername(ctx, username)
	if err == domain.ErrUserNotFound {
		return false, nil
	}
	return err == nil, err
}

func (r *stubUserRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	if r.err != nil {
		return false, r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubUserRepo) List(_ context.Context) ([]*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.User, 0, len(r.byID))
	for _, u := range r.byID {
		out = append(out, cloneUser(u))
	}
	return out, nil
}

func (r *stubUserRepo) Update(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[user.ID]; !ok {
		return domain.ErrUserNotFound
	}
	r.byID[user.ID] = cloneUser(user)
	return nil
}

func (r *stubUserRepo) UpdatePassword(_ context.Context, id int64, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.PasswordHash = hash
	return nil
}

func (r *stubUserRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.byID, id)
	return nil
}

// ---------------------------------------------------------------------------
// Resumes
// ---------------------------------------------------------------------------

type stubResumeRepo struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]*domain.Resume
	claims int
}

func newStubResumeRepo() *stubResumeRepo {
	return &stubResumeRepo{byID: make(map[int64]*domain.Resume)}
}

func cloneResume(r *domain.Resume) *domain.Resume {
	if r == nil {
		return nil
	}
	clone := *r
	return &clone
}

func (s *stubResumeRepo) seed(r *domain.Resume) *domain.Resume {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r.ID == 0 {
		s.nextID++
		r.ID = s.nextID
	} else if r.ID > s.nextID {
		s.nextID = r.ID
	}
	s.byID[r.ID] = cloneResume(r)
	return r
}

func (s *stubResumeRepo) Create(_ context.Context, r *domain.Resume) (*domain.Resume, error) {
	return cloneResume(s.seed(cloneResume(r))), nil
}

func (s *stubResumeRepo) FindByID(_ context.Context, id int64) (*domain.Resume, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r, ok := s.byID[id]; ok {
		return cloneResume(r), nil
	}
	return nil, domain.ErrResumeNotFound
}

func (s *stubResumeRepo) FindPublicByLink(_ context.Context, link string) (*domain.Resume, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.byID {
		if r.PublicURL == link && r.Public {
			return cloneResume(r), nil
		}
	}
	return nil, domain.ErrResumeNotFound
}

func (s *stubResumeRepo) list(keep func(*domain.Resume) bool) []*domain.Resume {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*domain.Resume
	for _, r := range s.byID {
		if keep(r) {
			out = append(out, cloneResume(r))
		}
	}
	return out
}

func (s *stubResumeRepo) ListAll(_ context.Context) ([]*domain.Resume, error) {
	return s.list(func(*domain.Resume) bool { return true }), nil
}

func (s *stubResumeRepo) ListByOwner(_ context.Context, userID int64) ([]*domain.Resume, error) {
	return s.list(func(r *domain.Resume) bool { return r.UserID == userID }), nil
}

func (s *stubResumeRepo) ListPublic(_ context.Context) ([]*domain.Resume, error) {
	return s.list(func(r *domain.Resume) bool { return r.Public }), nil
}

func (s *stubResumeRepo) Update(_ context.Context, r *domain.Resume) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.byID[r.ID]
	if !ok {
		return domain.ErrResumeNotFound
	}
	updated := cloneResume(r)
	updated.UserID = stored.UserID
	updated.Public = stored.Public
	updated.PublicURL = stored.PublicURL
	s.byID[r.ID] = updated
	return nil
}

func (s *stubResumeRepo) SetVisibility(_ context.Context, id int64, public bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.byID[id]
	if !ok {
		return domain.ErrResumeNotFound
	}
	r.Public = public
	return nil
}

func (s *stubResumeRepo) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[id]; !ok {
		return domain.ErrResumeNotFound
	}
	delete(s.byID, id)
	return nil
}

func (s *stubResumeRepo) DeleteByOwner(_ context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, r := range s.byID {
		if r.UserID == userID {
			delete(s.byID, id)
		}
	}
	return nil
}

// ClaimPublicLink is atomic under the mutex, mirroring a conditional update
// guarded by a unique index.
func (s *stubResumeRepo) ClaimPublicLink(_ context.Context, resumeID int64, link string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.claims++
	r, ok := s.byID[resumeID]
	if !ok {
		return "", domain.ErrResumeNotFound
	}
	if r.PublicURL != "" {
		return r.PublicURL, nil
	}
	for _, other := range s.byID {
		if other.PublicURL == link {
			return "", domain.ErrPublicLinkTaken
		}
	}
	r.PublicURL = link
	return link, nil
}

// ---------------------------------------------------------------------------
// Collaborators
// ---------------------------------------------------------------------------

type recordingAudit struct {
	mu     sync.Mutex
	events []domain.AuditEvent
}

func (a *recordingAudit) Publish(e domain.AuditEvent) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.events = append(a.events, e)
}

func (a *recordingAudit) kinds() []domain.AuditKind {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]domain.AuditKind, len(a.events))
	for i, e := range a.events {
		out[i] = e.Kind
	}
	return out
}

type stubCache struct {
	entries     map[string]*domain.Resume
	getErr      error
	invalidated []string
	// beforeSet runs inside Set ahead of the write, to interleave a
	// concurrent mutation.
	beforeSet func()
}

func newStubCache() *stubCache {
	return &stubCache{entries: make(map[string]*domain.Resume)}
}

func (c *stubCache) Get(_ context.Context, link string) (*domain.Resume, bool, error) {
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	r, ok := c.entries[link]
	return cloneResume(r), ok, nil
}

func (c *stubCache) Set(_ context.Context, r *domain.Resume) error {
	if c.beforeSet != nil {
		c.beforeSet()
	}
	c.entries[r.PublicURL] = cloneResume(r)
	return nil
}

func (c *stubCache) Invalidate(_ context.Context, link string) error {
	delete(c.entries, link)
	c.invalidated = append(c.invalidated, link)
	return nil
}

type stubRenderer struct {
	rendered []int64
}

func (r *stubRenderer) Render(w io.Writer, resume *domain.Resume) error {
	r.rendered = append(r.rendered, resume.ID)
	_, err := io.WriteString(w, "%PDF-stub "+resume.Title)
	return err
}

func testHasher() *auth.PasswordHasher { return auth.NewPasswordHasher(4) }

func userPrincipal(id int64, name string) *domain.Principal {
	return &domain.Principal{ID: id, Username: name, Roles: domain.NewRoleSet(domain.RoleUser)}
}

func adminPrincipal(id int64, name string) *domain.Principal {
	return &domain.Principal{ID: id, Username: name, Roles: domain.NewRoleSet(domain.RoleUser, domain.RoleAdmin)}
}
