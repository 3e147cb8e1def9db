package config_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/themis/pkg/cli/config"
)

func TestGemini_Configure(t *testing.T) {
	t.Run("returns nil client when project ID is empty", func(t *testing.T) {
		cfg := config.NewGeminiForTest("", "us-central1", "gemini-2.5-flash")
		client, err := cfg.Configure(t.Context())
		gt.NoError(t, err)
		gt.Value(t, client).Nil()
	})

	t.Run("returns flags", func(t *testing.T) {
		cfg := config.NewGeminiForTest("", "", "")
		flags := cfg.Flags()
		gt.Value(t, len(flags)).Equal(3)
	})

	t.Run("reports the configured model", func(t *testing.T) {
		cfg := config.NewGeminiForTest("my-project", "us-central1", "gemini-2.5-pro")
		gt.Value(t, cfg.Model()).Equal("gemini-2.5-pro")
	})
}
