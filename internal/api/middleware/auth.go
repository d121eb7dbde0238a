package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/resumeforge/resume-api/internal/core/auth"
	"github.com/resumeforge/resume-api/internal/core/domain"
	"github.com/resumeforge/resume-api/internal/core/ports"
	"github.com/resumeforge/resume-api/internal/pkg/metrics"
)

// CookieName is the cookie that carries the session token for browser clients.
const CookieName = "jwt"

// ContextKeyPrincipal is the echo context key holding the *domain.Principal.
const ContextKeyPrincipal = "principal"

// Source says where a token was found.
type Source string

const (
	SourceNone   Source = ""
	SourceHeader Source = "header"
	SourceCookie Source = "cookie"
)

// TokenValidator is satisfied by *auth.TokenCodec.
type TokenValidator interface {
	Validate(token string) (auth.Claims, error)
}

// ExtractToken returns the bearer token from the Authorization header, falling
// back to the session cookie. The scheme is matched case-insensitively.
func ExtractToken(r *http.Request) (string, Source) {
	if h := r.Header.Get(echo.HeaderAuthorization); h != "" {
		scheme, token, ok := strings.Cut(h, " ")
		if ok && strings.EqualFold(scheme, "bearer") {
			if token = strings.TrimSpace(token); token != "" {
				return token, SourceHeader
			}
		}
	}
	if c, err := r.Cookie(CookieName); err == nil && c.Value != "" {
		return c.Value, SourceCookie
	}
	return "", SourceNone
}

// Authenticate resolves the caller from a session token and attaches the
// principal to both the echo context and the request context. It never
// rejects: an absent or unusable token leaves the request anonymous, and
// route gates decide whether anonymous is acceptable.
func Authenticate(tokens TokenValidator, identities ports.IdentityResolver, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			raw, src := ExtractToken(req)
			if src == SourceNone {
				return next(c)
			}

			p, ok := authenticate(c, raw, src, tokens, identities, log)
			if ok {
				c.Set(ContextKeyPrincipal, p)
				c.SetRequest(req.WithContext(domain.WithPrincipal(req.Context(), p)))
			}
			return next(c)
		}
	}
}

func authenticate(
	c echo.Context,
	raw string,
	src Source,
	tokens TokenValidator,
	identities ports.IdentityResolver,
	log zerolog.Logger,
) (*domain.Principal, bool) {
	claims, err := tokens.Validate(raw)
	if err != nil {
		reason := rejectionReason(err)
		metrics.TokenRejectionsTotal.WithLabelValues(reason).Inc()
		log.Debug().
			Str("reason", reason).
			Str("source", string(src)).
			Str("path", c.Path()).
			Msg("token rejected, continuing anonymously")
		return nil, false
	}

	p, err := identities.Resolve(c.Request().Context(), claims.Subject)
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		metrics.TokenRejectionsTotal.WithLabelValues("unknown_subject").Inc()
		log.Debug().Str("subject", claims.Subject).Msg("token subject no longer exists")
		return nil, false
	case err != nil:
		metrics.TokenRejectionsTotal.WithLabelValues("lookup_error").Inc()
		log.Warn().Err(err).Str("subject", claims.Subject).Msg("identity lookup failed, continuing anonymously")
		return nil, false
	}
	return p, true
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrTokenExpired):
		return "expired"
	case errors.Is(err, domain.ErrTokenBadSignature):
		return "bad_signature"
	default:
		return "malformed"
	}
}

// PrincipalFrom returns the authenticated principal, or nil for anonymous
// requests.
func PrincipalFrom(c echo.Context) *domain.Principal {
	if p, ok := c.Get(ContextKeyPrincipal).(*domain.Principal); ok {
		return p
	}
	return domain.PrincipalFrom(c.Request().Context())
}
