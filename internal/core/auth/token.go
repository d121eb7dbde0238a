package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/resumeforge/resume-api/internal/core/domain"
)

// DefaultTokenTTL is the lifetime of an issued session token.
const DefaultTokenTTL = 24 * time.Hour

// Claims is the decoded, validated payload of a session token.
type Claims struct {
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenCodec issues and validates HS256 session tokens. It holds no mutable
// state after construction and is safe for concurrent use.
type TokenCodec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

type TokenOption func(*TokenCodec)

// WithClock overrides the time source used by Issue and Validate.
func WithClock(now func() time.Time) TokenOption {
	return func(c *TokenCodec) { c.now = now }
}

func NewTokenCodec(secret string, ttl time.Duration, opts ...TokenOption) *TokenCodec {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	c := &TokenCodec{secret: []byte(secret), ttl: ttl, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *TokenCodec) TTL() time.Duration { return c.ttl }

// Issue signs a token for the user's username.
func (c *TokenCodec) Issue(user *domain.User) (string, Claims, error) {
	if user == nil || user.Username == "" {
		return "", Claims{}, errors.New("issue token: empty subject")
	}
	// NumericDate has second precision, so truncate to keep Claims equal to
	// what Validate will decode.
	now := c.now().UTC().Truncate(time.Second)
	rc := jwt.RegisteredClaims{
		Subject:   user.Username,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, rc).SignedString(c.secret)
	if err != nil {
		return "", Claims{}, err
	}
	return signed, Claims{Subject: rc.Subject, IssuedAt: now, ExpiresAt: now.Add(c.ttl)}, nil
}

// Validate checks the token against the codec's clock.
func (c *TokenCodec) Validate(token string) (Claims, error) {
	return c.ValidateAt(token, c.now())
}

// ValidateAt checks signature, structure and expiry as of now. It returns
// domain.ErrTokenMalformed, domain.ErrTokenBadSignature or
// domain.ErrTokenExpired on failure.
func (c *TokenCodec) ValidateAt(token string, now time.Time) (Claims, error) {
	var rc jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(token, &rc, func(*jwt.Token) (any, error) {
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(func() time.Time { return now }),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithStrictDecoding(),
	)
	if err != nil {
		return Claims{}, classify(err)
	}
	if rc.Subject == "" || rc.ExpiresAt == nil {
		return Claims{}, domain.ErrTokenMalformed
	}

	out := Claims{Subject: rc.Subject, ExpiresAt: rc.ExpiresAt.Time}
	if rc.IssuedAt != nil {
		out.IssuedAt = rc.IssuedAt.Time
	}
	return out, nil
}

func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return domain.ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return domain.ErrTokenBadSignature
	default:
		return domain.ErrTokenMalformed
	}
}
