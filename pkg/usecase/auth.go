package usecase

import (
	"context"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/m-mizutani/goerr/v2"
)

// tokenIssuer identifies tokens minted by this service
const tokenIssuer = "themis"

// AuthUseCaseInterface issues and validates API tokens
type AuthUseCaseInterface interface {
	IssueToken(subject string, ttl time.Duration) (string, error)
	ValidateToken(ctx context.Context, raw string) (string, error)
	IsNoAuthn() bool
}

// AuthUseCase signs and verifies bearer tokens with a shared secret
type AuthUseCase struct {
	secret []byte
}

// NewAuthUseCase creates an AuthUseCase with the given signing secret
func NewAuthUseCase(secret []byte) (*AuthUseCase, error) {
	if len(secret) == 0 {
		return nil, goerr.New("signing secret is required")
	}
	return &AuthUseCase{secret: secret}, nil
}

// IssueToken mints a signed token for the subject, valid for ttl
func (uc *AuthUseCase) IssueToken(subject string, ttl time.Duration) (string, error) {
	if subject == "" {
		return "", goerr.New("token subject is required")
	}
	if ttl <= 0 {
		return "", goerr.New("token TTL must be positive", goerr.V("ttl", ttl))
	}

	now := time.Now().UTC()
	token, err := jwt.NewBuilder().
		Issuer(tokenIssuer).
		Subject(subject).
		IssuedAt(now).
		Expiration(now.Add(ttl)).
		Build()
	if err != nil {
		return "", goerr.Wrap(err, "failed to build token")
	}

	signed, err := jwt.Sign(token, jwt.WithKey(jwa.HS256, uc.secret))
	if err != nil {
		return "", goerr.Wrap(err, "failed to sign token")
	}

	return string(signed), nil
}

// ValidateToken verifies a signed token and returns its subject
func (uc *AuthUseCase) ValidateToken(ctx context.Context, raw string) (string, error) {
	if raw == "" {
		return "", goerr.Wrap(ErrTokenInvalid, "token is empty")
	}

	token, err := jwt.Parse([]byte(raw),
		jwt.WithKey(jwa.HS256, uc.secret),
		jwt.WithValidate(true),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithAcceptableSkew(10*time.Second),
	)
	if err != nil {
		return "", goerr.Wrap(ErrTokenInvalid, "token verification failed", goerr.V("cause", err.Error()))
	}

	subject := token.Subject()
	if subject == "" {
		return "", goerr.Wrap(ErrTokenInvalid, "token has no subject")
	}

	return subject, nil
}

// IsNoAuthn reports whether authentication is disabled
func (uc *AuthUseCase) IsNoAuthn() bool {
	return false
}

// NoAuthnUseCase accepts every request without verification.
// It is intended for local development only.
type NoAuthnUseCase struct {
	subject string
}

// NewNoAuthnUseCase creates a NoAuthnUseCase. Every request is attributed
// to the given subject, or "anonymous" when empty.
func NewNoAuthnUseCase(subject string) *NoAuthnUseCase {
	if subject == "" {
		subject = "anonymous"
	}
	return &NoAuthnUseCase{subject: subject}
}

// IssueToken returns a placeholder token. No signing happens without authentication.
func (uc *NoAuthnUseCase) IssueToken(subject string, ttl time.Duration) (string, error) {
	return "", goerr.New("token issuance is unavailable when authentication is disabled")
}

// ValidateToken accepts any token and returns the fixed subject
func (uc *NoAuthnUseCase) ValidateToken(ctx context.Context, raw string) (string, error) {
	return uc.subject, nil
}

// IsNoAuthn reports whether authentication is disabled
func (uc *NoAuthnUseCase) IsNoAuthn() bool {
	return true
}
