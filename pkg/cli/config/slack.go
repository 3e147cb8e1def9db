package config

import (
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/themis/pkg/service/slack"
	"github.com/urfave/cli/v3"
)

// Slack holds configuration for risk notification delivery
type Slack struct {
	oauthToken string
	channelID  string
}

func (x *Slack) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "slack-oauth-token",
			Usage:       "Slack Bot User OAuth Token for notifications",
			Category:    "Slack",
			Sources:     cli.EnvVars("THEMIS_SLACK_OAUTH_TOKEN"),
			Destination: &x.oauthToken,
		},
		&cli.StringFlag{
			Name:        "slack-channel-id",
			Usage:       "Slack channel ID for high and critical risk notifications",
			Category:    "Slack",
			Sources:     cli.EnvVars("THEMIS_SLACK_CHANNEL_ID"),
			Destination: &x.channelID,
		},
	}
}

func (x Slack) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("oauth-token.len", len(x.oauthToken)),
		slog.String("channel-id", x.channelID),
	)
}

// IsConfigured returns true if both the token and the channel are set
func (x *Slack) IsConfigured() bool {
	return x.oauthToken != "" && x.channelID != ""
}

// Configure creates a Slack notification service from the configured flags.
// Returns nil if not fully configured (notifications will be disabled).
func (x *Slack) Configure() (slack.Service, error) {
	if !x.IsConfigured() {
		if x.oauthToken != "" || x.channelID != "" {
			return nil, goerr.New("both slack-oauth-token and slack-channel-id are required for notifications")
		}
		return nil, nil
	}

	svc, err := slack.New(x.oauthToken, x.channelID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create Slack service")
	}

	return svc, nil
}
