package handler

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/resumeforge/resume-api/internal/api/middleware"
	"github.com/resumeforge/resume-api/internal/core/domain"
	"github.com/resumeforge/resume-api/internal/core/ports"
)

// ---------------------------------------------------------------------------
// Request helpers
// ---------------------------------------------------------------------------

func newEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

// newContext builds a context for method and target with an optional JSON
// body, path params given as name/value pairs, and an optional principal.
func newContext(e *echo.Echo, method, target, body string, p *domain.Principal, params ...string) (echo.Context, *httptest.ResponseRecorder) {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if len(params) > 0 {
		names := make([]string, 0, len(params)/2)
		values := make([]string, 0, len(params)/2)
		for i := 0; i+1 < len(params); i += 2 {
			names = append(names, params[i])
			values = append(values, params[i+1])
		}
		c.SetParamNames(names...)
		c.SetParamValues(values...)
	}
	if p != nil {
		c.Set(middleware.ContextKeyPrincipal, p)
	}
	return c, rec
}

var (
	userP  = &domain.Principal{ID: 1, Username: "alice", Roles: domain.NewRoleSet(domain.RoleUser)}
	adminP = &domain.Principal{ID: 2, Username: "root", Roles: domain.NewRoleSet(domain.RoleUser, domain.RoleAdmin)}
)

// ---------------------------------------------------------------------------
// Auth service
// ---------------------------------------------------------------------------

type stubAuthService struct {
	signInFn  func(ctx context.Context, username, password string) (*ports.Session, error)
	signUpFn  func(ctx context.Context, in ports.SignUpInput) (*domain.User, error)
	refreshFn func(ctx context.Context, p *domain.Principal) (*ports.Session, error)
}

func (s *stubAuthService) SignIn(ctx context.Context, username, password string) (*ports.Session, error) {
	return s.signInFn(ctx, username, password)
}

func (s *stubAuthService) SignUp(ctx context.Context, in ports.SignUpInput) (*domain.User, error) {
	return s.signUpFn(ctx, in)
}

func (s *stubAuthService) Refresh(ctx context.Context, p *domain.Principal) (*ports.Session, error) {
	return s.refreshFn(ctx, p)
}

// ---------------------------------------------------------------------------
// Resume service
// ---------------------------------------------------------------------------

// stubResumeService embeds the interface so tests only implement what they
// exercise; an unexpected call panics on the nil embedded value.
type stubResumeService struct {
	ports.ResumeService

	getFn         func(ctx context.Context, p *domain.Principal, id int64) (*domain.Resume, error)
	createFn      func(ctx context.Context, p *domain.Principal, in ports.ResumeInput) (*domain.Resume, error)
	updateFn      func(ctx context.Context, p *domain.Principal, id int64, in ports.ResumeInput) (*domain.Resume, error)
	deleteFn      func(ctx context.Context, p *domain.Principal, id int64) error
	publishFn     func(ctx context.Context, p *domain.Principal, id int64) (*domain.Resume, error)
	listByOwnerFn func(ctx context.Context, p *domain.Principal, userID int64) ([]*domain.Resume, error)
	renderFn      func(ctx context.Context, p *domain.Principal, id int64, w io.Writer) (*domain.Resume, error)
	getPublicFn   func(ctx context.Context, link string) (*domain.Resume, error)
	publicPDFFn   func(ctx context.Context, link string, w io.Writer) (*domain.Resume, error)
	listPublicFn  func(ctx context.Context) ([]*domain.Resume, error)
	checkFn       func(ctx context.Context, p *domain.Principal, id int64) (*domain.Resume, ports.AccessReport, error)
}

func (s *stubResumeService) Get(ctx context.Context, p *domain.Principal, id int64) (*domain.Resume, error) {
	return s.getFn(ctx, p, id)
}

func (s *stubResumeService) Create(ctx context.Context, p *domain.Principal, in ports.ResumeInput) (*domain.Resume, error) {
	return s.createFn(ctx, p, in)
}

func (s *stubResumeService) Update(ctx context.Context, p *domain.Principal, id int64, in ports.ResumeInput) (*domain.Resume, error) {
	return s.updateFn(ctx, p, id, in)
}

func (s *stubResumeService) Delete(ctx context.Context, p *domain.Principal, id int64) error {
	return s.deleteFn(ctx, p, id)
}

func (s *stubResumeService) Publish(ctx context.Context, p *domain.Principal, id int64) (*domain.Resume, error) {
	return s.publishFn(ctx, p, id)
}

func (s *stubResumeService) ListByOwner(ctx context.Context, p *domain.Principal, userID int64) ([]*domain.Resume, error) {
	return s.listByOwnerFn(ctx, p, userID)
}

func (s *stubResumeService) RenderPDF(ctx context.Context, p *domain.Principal, id int64, w io.Writer) (*domain.Resume, error) {
	return s.renderFn(ctx, p, id, w)
}

func (s *stubResumeService) GetPublic(ctx context.Context, link string) (*domain.Resume, error) {
	return s.getPublicFn(ctx, link)
}

func (s *stubResumeService) RenderPublicPDF(ctx context.Context, link string, w io.Writer) (*domain.Resume, error) {
	return s.publicPDFFn(ctx, link, w)
}

func (s *stubResumeService) ListPublic(ctx context.Context) ([]*domain.Resume, error) {
	return s.listPublicFn(ctx)
}

func (s *stubResumeService) CheckAccess(ctx context.Context, p *domain.Principal, id int64) (*domain.Resume, ports.AccessReport, error) {
	return s.checkFn(ctx, p, id)
}

// ---------------------------------------------------------------------------
// User service
// ---------------------------------------------------------------------------

type stubUserService struct {
	ports.UserService

	getFn            func(ctx context.Context, p *domain.Principal, id int64) (*domain.User, error)
	updateFn         func(ctx context.Context, p *domain.Principal, id int64, in ports.UpdateUserInput) (*domain.User, error)
	changePasswordFn func(ctx context.Context, p *domain.Principal, id int64, current, next string) error
	deleteFn         func(ctx context.Context, p *domain.Principal, id int64) error
}

func (s *stubUserService) Get(ctx context.Context, p *domain.Principal, id int64) (*domain.User, error) {
	return s.getFn(ctx, p, id)
}

func (s *stubUserService) Update(ctx context.Context, p *domain.Principal, id int64, in ports.UpdateUserInput) (*domain.User, error) {
	return s.updateFn(ctx, p, id, in)
}

func (s *stubUserService) ChangePassword(ctx context.Context, p *domain.Principal, id int64, current, next string) error {
	return s.changePasswordFn(ctx, p, id, current, next)
}

func (s *stubUserService) Delete(ctx context.Context, p *domain.Principal, id int64) error {
	return s.deleteFn(ctx, p, id)
}
