package config

import (
	"log/slog"

	"github.com/secmon-lab/themis/pkg/usecase"
	"github.com/urfave/cli/v3"
)

// Auth holds configuration for API token verification
type Auth struct {
	tokenSecret   string
	noAuthSubject string
}

func (x *Auth) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "token-secret",
			Usage:       "Shared secret for signing and verifying API tokens (API is open when unset)",
			Category:    "Authentication",
			Sources:     cli.EnvVars("THEMIS_TOKEN_SECRET"),
			Destination: &x.tokenSecret,
		},
		&cli.StringFlag{
			Name:        "no-auth-subject",
			Usage:       "Subject attributed to requests when authentication is disabled",
			Category:    "Authentication",
			Sources:     cli.EnvVars("THEMIS_NO_AUTH_SUBJECT"),
			Destination: &x.noAuthSubject,
		},
	}
}

func (x Auth) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("token-secret.len", len(x.tokenSecret)),
		slog.String("no-auth-subject", x.noAuthSubject),
	)
}

// IsConfigured returns true if a token secret is set
func (x *Auth) IsConfigured() bool {
	return x.tokenSecret != ""
}

// Configure returns the token verifier. Without a secret authentication is
// disabled and every request passes through.
func (x *Auth) Configure() (usecase.AuthUseCaseInterface, error) {
	if !x.IsConfigured() {
		return usecase.NewNoAuthnUseCase(x.noAuthSubject), nil
	}

	return usecase.NewAuthUseCase([]byte(x.tokenSecret))
}
