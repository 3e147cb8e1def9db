package config

import (
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	domainConfig "github.com/secmon-lab/themis/pkg/domain/model/config"
	"github.com/secmon-lab/themis/pkg/domain/types"
	"github.com/urfave/cli/v3"
)

// AppConfig represents the assessment metadata configuration
type AppConfig struct {
	Categories []Category `toml:"category"`
	Teams      []Team     `toml:"team"`

	configPath string
}

// Category represents a change category configuration
type Category struct {
	ID          string `toml:"id"`
	Name        string `toml:"name"`
	Description string `toml:"description"`
}

// Validate checks if the Category is valid
func (c *Category) Validate() error {
	id := types.CategoryID(c.ID)
	if err := id.Validate(); err != nil {
		return goerr.Wrap(err, "invalid category ID")
	}
	if c.Name == "" {
		return goerr.Wrap(ErrMissingName, "category name is required", goerr.V(CategoryIDKey, c.ID))
	}
	return nil
}

// Team represents a team configuration
type Team struct {
	ID   string `toml:"id"`
	Name string `toml:"name"`
}

// Validate checks if the Team is valid
func (t *Team) Validate() error {
	id := types.TeamID(t.ID)
	if err := id.Validate(); err != nil {
		return goerr.Wrap(err, "invalid team ID")
	}
	if t.Name == "" {
		return goerr.Wrap(ErrMissingName, "team name is required", goerr.V(TeamIDKey, t.ID))
	}
	return nil
}

// Validate checks if the AppConfig is valid
func (a *AppConfig) Validate() error {
	categoryIDs := make(map[string]bool)
	for _, cat := range a.Categories {
		if err := cat.Validate(); err != nil {
			return goerr.Wrap(err, "invalid category")
		}
		if categoryIDs[cat.ID] {
			return goerr.Wrap(ErrDuplicateID, "duplicate category ID", goerr.V(CategoryIDKey, cat.ID))
		}
		categoryIDs[cat.ID] = true
	}

	teamIDs := make(map[string]bool)
	for _, team := range a.Teams {
		if err := team.Validate(); err != nil {
			return goerr.Wrap(err, "invalid team")
		}
		if teamIDs[team.ID] {
			return goerr.Wrap(ErrDuplicateID, "duplicate team ID", goerr.V(TeamIDKey, team.ID))
		}
		teamIDs[team.ID] = true
	}

	return nil
}

// Flags returns CLI flags for the metadata configuration file
func (a *AppConfig) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Usage:       "Path to assessment metadata TOML (categories and teams)",
			Sources:     cli.EnvVars("THEMIS_CONFIG"),
			Destination: &a.configPath,
		},
	}
}

// Configure loads and validates the configuration file. Without a path the
// metadata checks are skipped and nil is returned.
func (a *AppConfig) Configure() (*domainConfig.AssessmentConfig, error) {
	if a.configPath == "" {
		return nil, nil
	}

	loaded, err := LoadAppConfiguration(a.configPath)
	if err != nil {
		return nil, err
	}
	a.Categories = loaded.Categories
	a.Teams = loaded.Teams

	return loaded.ToDomainConfig(), nil
}

// LoadAppConfiguration loads the assessment metadata from a TOML file
func LoadAppConfiguration(path string) (*AppConfig, error) {
	// #nosec G304 - path is expected to be provided by CLI argument
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, goerr.Wrap(ErrConfigNotFound, "failed to read config file", goerr.V(ConfigPathKey, path))
		}
		return nil, goerr.Wrap(err, "failed to read config file", goerr.V(ConfigPathKey, path))
	}

	var config AppConfig
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, goerr.Wrap(err, "failed to parse TOML config", goerr.V(ConfigPathKey, path))
	}

	if err := config.Validate(); err != nil {
		return nil, goerr.Wrap(err, "config validation failed", goerr.V(ConfigPathKey, path))
	}

	return &config, nil
}

// ToDomainConfig converts AppConfig to the domain assessment configuration
func (a *AppConfig) ToDomainConfig() *domainConfig.AssessmentConfig {
	categories := make([]domainConfig.Category, len(a.Categories))
	for i, cat := range a.Categories {
		categories[i] = domainConfig.Category{
			ID:          cat.ID,
			Name:        cat.Name,
			Description: cat.Description,
		}
	}

	teams := make([]domainConfig.Team, len(a.Teams))
	for i, team := range a.Teams {
		teams[i] = domainConfig.Team{
			ID:   team.ID,
			Name: team.Name,
		}
	}

	return &domainConfig.AssessmentConfig{
		Categories: categories,
		Teams:      teams,
	}
}
