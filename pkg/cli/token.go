package cli

import (
	"context"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/themis/pkg/cli/config"
	"github.com/urfave/cli/v3"
)

func cmdToken() *cli.Command {
	var subject string
	var ttl string
	var authCfg config.Auth

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "subject",
			Aliases:     []string{"s"},
			Usage:       "Subject the token is issued to (e.g. a service or user name)",
			Required:    true,
			Destination: &subject,
		},
		&cli.StringFlag{
			Name:        "ttl",
			Usage:       "Token lifetime (e.g. 24h, 30d)",
			Value:       "24h",
			Destination: &ttl,
		},
	}

	// Add shared config flags
	flags = append(flags, authCfg.Flags()...)

	return &cli.Command{
		Name:  "token",
		Usage: "Issue an API token signed with the shared secret",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			authUC, err := authCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to configure authentication")
			}
			if authUC.IsNoAuthn() {
				return goerr.New("--token-secret is required to issue tokens")
			}

			lifetime, err := parseDuration(ttl)
			if err != nil {
				return goerr.Wrap(err, "failed to parse token lifetime", goerr.V("ttl", ttl))
			}

			token, err := authUC.IssueToken(subject, lifetime)
			if err != nil {
				return goerr.Wrap(err, "failed to issue token")
			}

			// Print only the token so the output can be piped
			fmt.Println(token)
			return nil
		},
	}
}
