package config_test

import (
	"errors"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/themis/pkg/cli/config"
)

func TestConfigErrors_SentinelIdentification(t *testing.T) {
	tests := []struct {
		name          string
		err           error
		sentinelError error
		wantMatch     bool
	}{
		{
			name:          "ErrConfigNotFound can be identified",
			err:           goerr.Wrap(config.ErrConfigNotFound, "failed to load config"),
			sentinelError: config.ErrConfigNotFound,
			wantMatch:     true,
		},
		{
			name:          "ErrInvalidConfig can be identified",
			err:           goerr.Wrap(config.ErrInvalidConfig, "validation failed"),
			sentinelError: config.ErrInvalidConfig,
			wantMatch:     true,
		},
		{
			name:          "ErrDuplicateID can be identified",
			err:           goerr.Wrap(config.ErrDuplicateID, "found duplicate"),
			sentinelError: config.ErrDuplicateID,
			wantMatch:     true,
		},
		{
			name:          "ErrMissingName can be identified",
			err:           goerr.Wrap(config.ErrMissingName, "no name provided"),
			sentinelError: config.ErrMissingName,
			wantMatch:     true,
		},
		{
			name:          "different sentinels do not match",
			err:           goerr.Wrap(config.ErrDuplicateID, "found duplicate"),
			sentinelError: config.ErrMissingName,
			wantMatch:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.wantMatch {
				gt.Bool(t, errors.Is(tt.err, tt.sentinelError)).True()
			} else {
				gt.Bool(t, errors.Is(tt.err, tt.sentinelError)).False()
			}
		})
	}
}
