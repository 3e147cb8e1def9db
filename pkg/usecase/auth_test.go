package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/themis/pkg/usecase"
)

func TestAuthIssueAndValidate(t *testing.T) {
	ctx := context.Background()
	auth, err := usecase.NewAuthUseCase([]byte("test-signing-secret"))
	gt.NoError(t, err).Required()
	gt.Bool(t, auth.IsNoAuthn()).False()

	token, err := auth.IssueToken("alice", time.Hour)
	gt.NoError(t, err).Required()
	gt.String(t, token).NotEqual("")

	subject, err := auth.ValidateToken(ctx, token)
	gt.NoError(t, err).Required()
	gt.Value(t, subject).Equal("alice")
}

func TestAuthIssueTokenValidation(t *testing.T) {
	auth, err := usecase.NewAuthUseCase([]byte("test-signing-secret"))
	gt.NoError(t, err).Required()

	_, err = auth.IssueToken("", time.Hour)
	gt.Error(t, err)

	_, err = auth.IssueToken("alice", 0)
	gt.Error(t, err)
}

func TestAuthRequiresSecret(t *testing.T) {
	_, err := usecase.NewAuthUseCase(nil)
	gt.Error(t, err)
}

func TestAuthRejectsExpiredToken(t *testing.T) {
	ctx := context.Background()
	secret := []byte("test-signing-secret")
	auth, err := usecase.NewAuthUseCase(secret)
	gt.NoError(t, err).Required()

	// Expired well past the acceptable clock skew
	now := time.Now().UTC()
	expired, err := jwt.NewBuilder().
		Issuer("themis").
		Subject("alice").
		IssuedAt(now.Add(-2 * time.Hour)).
		Expiration(now.Add(-time.Hour)).
		Build()
	gt.NoError(t, err).Required()
	signed, err := jwt.Sign(expired, jwt.WithKey(jwa.HS256, secret))
	gt.NoError(t, err).Required()

	_, err = auth.ValidateToken(ctx, string(signed))
	gt.Error(t, err)
	gt.Bool(t, errors.Is(err, usecase.ErrTokenInvalid)).True()
}

func TestAuthRejectsWrongSecret(t *testing.T) {
	ctx := context.Background()
	issuer, err := usecase.NewAuthUseCase([]byte("secret-one"))
	gt.NoError(t, err).Required()
	verifier, err := usecase.NewAuthUseCase([]byte("secret-two"))
	gt.NoError(t, err).Required()

	token, err := issuer.IssueToken("alice", time.Hour)
	gt.NoError(t, err).Required()

	_, err = verifier.ValidateToken(ctx, token)
	gt.Error(t, err)
	gt.Bool(t, errors.Is(err, usecase.ErrTokenInvalid)).True()
}

func TestAuthRejectsWrongIssuer(t *testing.T) {
	ctx := context.Background()
	secret := []byte("test-signing-secret")
	auth, err := usecase.NewAuthUseCase(secret)
	gt.NoError(t, err).Required()

	now := time.Now().UTC()
	foreign, err := jwt.NewBuilder().
		Issuer("someone-else").
		Subject("alice").
		IssuedAt(now).
		Expiration(now.Add(time.Hour)).
		Build()
	gt.NoError(t, err).Required()
	signed, err := jwt.Sign(foreign, jwt.WithKey(jwa.HS256, secret))
	gt.NoError(t, err).Required()

	_, err = auth.ValidateToken(ctx, string(signed))
	gt.Error(t, err)
	gt.Bool(t, errors.Is(err, usecase.ErrTokenInvalid)).True()
}

func TestAuthRejectsMalformedToken(t *testing.T) {
	ctx := context.Background()
	auth, err := usecase.NewAuthUseCase([]byte("test-signing-secret"))
	gt.NoError(t, err).Required()

	for _, raw := range []string{"", "not-a-token", "a.b.c"} {
		_, err := auth.ValidateToken(ctx, raw)
		gt.Error(t, err)
		gt.Bool(t, errors.Is(err, usecase.ErrTokenInvalid)).True()
	}
}

func TestNoAuthn(t *testing.T) {
	ctx := context.Background()

	t.Run("default subject", func(t *testing.T) {
		auth := usecase.NewNoAuthnUseCase("")
		gt.Bool(t, auth.IsNoAuthn()).True()

		subject, err := auth.ValidateToken(ctx, "anything")
		gt.NoError(t, err).Required()
		gt.Value(t, subject).Equal("anonymous")
	})

	t.Run("fixed subject", func(t *testing.T) {
		auth := usecase.NewNoAuthnUseCase("dev-user")
		subject, err := auth.ValidateToken(ctx, "")
		gt.NoError(t, err).Required()
		gt.Value(t, subject).Equal("dev-user")
	})

	t.Run("token issuance is unavailable", func(t *testing.T) {
		auth := usecase.NewNoAuthnUseCase("")
		_, err := auth.IssueToken("alice", time.Hour)
		gt.Error(t, err)
	})
}
