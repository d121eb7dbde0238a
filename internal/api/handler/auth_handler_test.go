package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/resumeforge/resume-api/internal/core/domain"
	"github.com/resumeforge/resume-api/internal/core/ports"
)

func aliceSession() *ports.Session {
	return &ports.Session{
		Token:     "token123",
		ExpiresAt: time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC),
		User: &domain.User{
			ID: 1, Username: "alice", Email: "alice@example.com",
			Roles: domain.NewRoleSet(domain.RoleUser),
		},
	}
}

func TestAuthHandler_SignIn_Success(t *testing.T) {
	e := newEcho()
	stub := &stubAuthService{
		signInFn: func(_ context.Context, username, password string) (*ports.Session, error) {
			if username != "alice" || password != "secret" {
				t.Fatalf("unexpected args: %s %s", username, password)
			}
			return aliceSession(), nil
		},
	}
	h := NewAuthHandler(stub, CookieOptions{MaxAge: 24 * time.Hour})

	c, rec := newContext(e, http.MethodPost, "/api/auth/signin", `{"username":"alice","password":"secret"}`, nil)
	if err := h.SignIn(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["token"] != "token123" || resp["type"] != "Bearer" || resp["username"] != "alice" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
	roles, _ := resp["roles"].([]any)
	if len(roles) != 1 || roles[0] != "ROLE_USER" {
		t.Fatalf("unexpected roles: %+v", resp["roles"])
	}

	cookie := rec.Header().Get("Set-Cookie")
	for _, want := range []string{"jwt=token123", "Path=/", "Max-Age=86400", "HttpOnly", "SameSite=None"} {
		if !strings.Contains(cookie, want) {
			t.Errorf("cookie %q missing %q", cookie, want)
		}
	}
	if strings.Contains(cookie, "Secure") {
		t.Errorf("cookie should not be Secure by default: %q", cookie)
	}
}

func TestAuthHandler_SignIn_SecureCookie(t *testing.T) {
	e := newEcho()
	stub := &stubAuthService{signInFn: func(context.Context, string, string) (*ports.Session, error) {
		return aliceSession(), nil
	}}
	h := NewAuthHandler(stub, CookieOptions{Secure: true})

	c, rec := newContext(e, http.MethodPost, "/api/auth/signin", `{"username":"alice","password":"secret"}`, nil)
	if err := h.SignIn(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !strings.Contains(rec.Header().Get("Set-Cookie"), "Secure") {
		t.Fatalf("expected Secure cookie, got %q", rec.Header().Get("Set-Cookie"))
	}
}

func TestAuthHandler_SignIn_BadCredentials(t *testing.T) {
	e := newEcho()
	stub := &stubAuthService{signInFn: func(context.Context, string, string) (*ports.Session, error) {
		return nil, domain.ErrCredentialInvalid
	}}
	h := NewAuthHandler(stub, CookieOptions{})

	c, rec := newContext(e, http.MethodPost, "/api/auth/signin", `{"username":"alice","password":"nope"}`, nil)
	err := h.SignIn(c)
	if !errors.Is(err, domain.ErrCredentialInvalid) {
		t.Fatalf("expected ErrCredentialInvalid, got %v", err)
	}
	if rec.Header().Get("Set-Cookie") != "" {
		t.Fatal("no cookie should be set on failure")
	}
}

func TestAuthHandler_SignIn_MissingFields(t *testing.T) {
	e := newEcho()
	stub := &stubAuthService{signInFn: func(context.Context, string, string) (*ports.Session, error) {
		t.Fatal("should not be called")
		return nil, nil
	}}
	h := NewAuthHandler(stub, CookieOptions{})

	c, _ := newContext(e, http.MethodPost, "/api/auth/signin", `{"username":"alice"}`, nil)
	var ve *domain.ValidationError
	if err := h.SignIn(c); !errors.As(err, &ve) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, ok := ve.Fields["password"]; !ok {
		t.Fatalf("expected password field error, got %+v", ve.Fields)
	}
}

func TestAuthHandler_SignUp_Success(t *testing.T) {
	e := newEcho()
	stub := &stubAuthService{
		signUpFn: func(_ context.Context, in ports.SignUpInput) (*domain.User, error) {
			if in.Username != "bob" || in.Email != "bob@example.com" || len(in.Roles) != 1 || in.Roles[0] != "admin" {
				t.Fatalf("unexpected input: %+v", in)
			}
			return &domain.User{ID: 3, Username: in.Username, Email: in.Email, Roles: domain.NewRoleSet(domain.RoleAdmin)}, nil
		},
	}
	h := NewAuthHandler(stub, CookieOptions{})

	body := `{"username":"bob","email":"bob@example.com","password":"secret1","role":["admin"]}`
	c, rec := newContext(e, http.MethodPost, "/api/auth/signup", body, nil)
	if err := h.SignUp(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp struct {
		Message string         `json:"message"`
		User    map[string]any `json:"user"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Message != "User registered successfully!" || resp.User["username"] != "bob" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
	if _, leaked := resp.User["passwordHash"]; leaked {
		t.Fatal("password hash must not be serialized")
	}
}

func TestAuthHandler_SignUp_Duplicate(t *testing.T) {
	e := newEcho()
	stub := &stubAuthService{signUpFn: func(context.Context, ports.SignUpInput) (*domain.User, error) {
		return nil, domain.ErrUsernameTaken
	}}
	h := NewAuthHandler(stub, CookieOptions{})

	body := `{"username":"bob","email":"bob@example.com","password":"secret1"}`
	c, _ := newContext(e, http.MethodPost, "/api/auth/signup", body, nil)
	if err := h.SignUp(c); !errors.Is(err, domain.ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}
}

func TestAuthHandler_SignUp_InvalidPayload(t *testing.T) {
	e := newEcho()
	stub := &stubAuthService{signUpFn: func(context.Context, ports.SignUpInput) (*domain.User, error) {
		t.Fatal("should not be called")
		return nil, nil
	}}
	h := NewAuthHandler(stub, CookieOptions{})

	cases := map[string]string{
		"not json":      "not-json",
		"bad email":     `{"username":"bob","email":"nope","password":"secret1"}`,
		"short pass":    `{"username":"bob","email":"bob@example.com","password":"x"}`,
		"short account": `{"username":"b","email":"bob@example.com","password":"secret1"}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			c, _ := newContext(e, http.MethodPost, "/api/auth/signup", body, nil)
			var ve *domain.ValidationError
			if err := h.SignUp(c); !errors.As(err, &ve) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestAuthHandler_Refresh(t *testing.T) {
	e := newEcho()
	stub := &stubAuthService{refreshFn: func(_ context.Context, p *domain.Principal) (*ports.Session, error) {
		if p == nil {
			return nil, domain.ErrUnauthenticated
		}
		return aliceSession(), nil
	}}
	h := NewAuthHandler(stub, CookieOptions{})

	c, rec := newContext(e, http.MethodPost, "/api/auth/refresh", "", userP)
	if err := h.Refresh(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK || !strings.Contains(rec.Header().Get("Set-Cookie"), "jwt=token123") {
		t.Fatalf("unexpected response: %d %q", rec.Code, rec.Header().Get("Set-Cookie"))
	}

	c, _ = newContext(e, http.MethodPost, "/api/auth/refresh", "", nil)
	if err := h.Refresh(c); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestAuthHandler_SignOut_ExpiresCookie(t *testing.T) {
	e := newEcho()
	h := NewAuthHandler(&stubAuthService{}, CookieOptions{})

	c, rec := newContext(e, http.MethodPost, "/api/auth/signout", "", nil)
	if err := h.SignOut(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	cookie := rec.Header().Get("Set-Cookie")
	if !strings.Contains(cookie, "jwt=") || !strings.Contains(cookie, "Max-Age=0") {
		t.Fatalf("expected an expired jwt cookie, got %q", cookie)
	}
}
