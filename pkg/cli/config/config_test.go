package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/themis/pkg/cli/config"
)

func TestLoadAppConfiguration(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{
			name: "valid configuration",
			content: `
[[category]]
id = "deployment"
name = "Deployment"
description = "Release and rollout changes"

[[category]]
id = "infra"
name = "Infrastructure"

[[team]]
id = "platform"
name = "Platform Team"

[[team]]
id = "security"
name = "Security Team"
`,
			wantErr: nil,
		},
		{
			name: "duplicate category ID",
			content: `
[[category]]
id = "deployment"
name = "Deployment"

[[category]]
id = "deployment"
name = "Deployment Again"
`,
			wantErr: config.ErrDuplicateID,
		},
		{
			name: "duplicate team ID",
			content: `
[[team]]
id = "platform"
name = "Platform Team"

[[team]]
id = "platform"
name = "Another Platform Team"
`,
			wantErr: config.ErrDuplicateID,
		},
		{
			name: "category without name",
			content: `
[[category]]
id = "deployment"
`,
			wantErr: config.ErrMissingName,
		},
		{
			name: "team without name",
			content: `
[[team]]
id = "platform"
`,
			wantErr: config.ErrMissingName,
		},
		{
			name:    "missing file",
			content: "",
			wantErr: config.ErrConfigNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			configPath := filepath.Join(tmpDir, "config.toml")

			// Only create file if content is not empty
			if tt.content != "" {
				err := os.WriteFile(configPath, []byte(tt.content), 0644)
				gt.NoError(t, err).Required()
			}

			cfg, err := config.LoadAppConfiguration(configPath)

			if tt.wantErr != nil {
				gt.Value(t, err).NotNil()
				if err != nil {
					gt.Error(t, err).Is(tt.wantErr)
				}
				return
			}

			gt.NoError(t, err).Required()
			gt.Value(t, cfg).NotNil()
		})
	}
}

func TestLoadAppConfiguration_InvalidID(t *testing.T) {
	content := `
[[category]]
id = "has spaces in it"
name = "Broken"
`

	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.toml")
	err := os.WriteFile(configPath, []byte(content), 0644)
	gt.NoError(t, err).Required()

	_, err = config.LoadAppConfiguration(configPath)
	gt.Error(t, err)
}

func TestLoadAppConfiguration_MalformedTOML(t *testing.T) {
	content := `[[category]
id = "broken`

	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.toml")
	err := os.WriteFile(configPath, []byte(content), 0644)
	gt.NoError(t, err).Required()

	_, err = config.LoadAppConfiguration(configPath)
	gt.Error(t, err)
}

func TestToDomainConfig(t *testing.T) {
	content := `
[[category]]
id = "deployment"
name = "Deployment"
description = "Release and rollout changes"

[[team]]
id = "platform"
name = "Platform Team"
`

	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.toml")
	err := os.WriteFile(configPath, []byte(content), 0644)
	gt.NoError(t, err).Required()

	cfg, err := config.LoadAppConfiguration(configPath)
	gt.NoError(t, err).Required()

	domainCfg := cfg.ToDomainConfig()
	gt.Value(t, domainCfg).NotNil()

	category := domainCfg.CategoryByID("deployment")
	gt.Value(t, category).NotNil()
	gt.Value(t, category.Name).Equal("Deployment")
	gt.Value(t, category.Description).Equal("Release and rollout changes")

	team := domainCfg.TeamByID("platform")
	gt.Value(t, team).NotNil()
	gt.Value(t, team.Name).Equal("Platform Team")

	gt.Value(t, domainCfg.CategoryByID("unknown")).Nil()
	gt.Value(t, domainCfg.TeamByID("unknown")).Nil()
}
