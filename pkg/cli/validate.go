package cli

import (
	"context"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/themis/pkg/cli/config"
	"github.com/secmon-lab/themis/pkg/usecase"
	"github.com/secmon-lab/themis/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdValidate() *cli.Command {
	var checkStore bool
	var appCfg config.AppConfig
	var repoCfg config.Repository

	var flags []cli.Flag
	flags = append(flags, appCfg.Flags()...)
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, &cli.BoolFlag{
		Name:        "check-store",
		Usage:       "Also check stored assessment records against the model invariants",
		Destination: &checkStore,
	})

	return &cli.Command{
		Name:    "validate",
		Aliases: []string{"v"},
		Usage:   "Validate the configuration file and optionally the assessment store",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := logging.Default()

			// Step 1: Load and validate the configuration file
			assessmentCfg, err := appCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "configuration validation failed")
			}

			if assessmentCfg == nil {
				logger.Info("No configuration file specified, skipping configuration validation")
			} else {
				logger.Info("Configuration validation passed",
					"categories", len(assessmentCfg.Categories),
					"teams", len(assessmentCfg.Teams),
				)
				for _, cat := range assessmentCfg.Categories {
					logger.Info("Category validated", "id", cat.ID, "name", cat.Name)
				}
				for _, team := range assessmentCfg.Teams {
					logger.Info("Team validated", "id", team.ID, "name", team.Name)
				}
			}

			// Step 2: If requested, check every stored record
			if !checkStore {
				logger.Info("Store check not requested, skipping")
				return nil
			}

			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer func() {
				if err := repo.Close(); err != nil {
					logger.Error("failed to close repository", "error", err.Error())
				}
			}()

			uc := usecase.New(repo)
			result, err := uc.Assessment.ValidateStore(ctx)
			if err != nil {
				return goerr.Wrap(err, "store check failed")
			}

			if !result.OK() {
				for _, issue := range result.Issues {
					logger.Warn("Store issue found",
						"assessment_id", issue.AssessmentID,
						"field", issue.Field,
						"message", issue.Message,
					)
				}
				return fmt.Errorf("store check found %d issue(s) in %d record(s)", len(result.Issues), result.Checked)
			}

			logger.Info("Store check passed", "checked", result.Checked)
			return nil
		},
	}
}
