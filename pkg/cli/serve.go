package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/themis/pkg/cli/config"
	httpctrl "github.com/secmon-lab/themis/pkg/controller/http"
	"github.com/secmon-lab/themis/pkg/service/assessor"
	"github.com/secmon-lab/themis/pkg/service/worker"
	"github.com/secmon-lab/themis/pkg/usecase"
	"github.com/secmon-lab/themis/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

// cacheSweepInterval is how often expired cache entries are evicted.
const cacheSweepInterval = time.Minute

func cmdServe() *cli.Command {
	var addr string
	var cacheTTL string
	var appCfg config.AppConfig
	var repoCfg config.Repository
	var geminiCfg config.Gemini
	var slackCfg config.Slack
	var authCfg config.Auth

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("THEMIS_ADDR"),
			Destination: &addr,
		},
		&cli.StringFlag{
			Name:        "cache-ttl",
			Usage:       "Lifetime of cached assessment results (e.g. 10m, 1h)",
			Value:       "10m",
			Sources:     cli.EnvVars("THEMIS_CACHE_TTL"),
			Destination: &cacheTTL,
		},
	}

	// Add shared config flags
	flags = append(flags, appCfg.Flags()...)
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, geminiCfg.Flags()...)
	flags = append(flags, slackCfg.Flags()...)
	flags = append(flags, authCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			ttl, err := parseDuration(cacheTTL)
			if err != nil {
				return goerr.Wrap(err, "failed to parse cache TTL", goerr.V("cache-ttl", cacheTTL))
			}

			// Load category and team definitions
			assessmentCfg, err := appCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to load assessment configuration")
			}

			// Initialize repository based on backend type
			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer func() {
				if err := repo.Close(); err != nil {
					logging.Default().Error("failed to close repository", "error", err.Error())
				}
			}()

			// Initialize Gemini LLM client (required to draft assessments)
			llmClient, err := geminiCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize Gemini client")
			}
			if llmClient == nil {
				return goerr.New("--gemini-project is required for serve")
			}
			assessorSvc, err := assessor.New(llmClient, assessor.WithModelName(geminiCfg.Model()))
			if err != nil {
				return goerr.Wrap(err, "failed to initialize assessor service")
			}

			// Configure authentication
			authUC, err := authCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to configure authentication")
			}
			if authUC.IsNoAuthn() {
				logging.Default().Warn("API authentication is disabled, set --token-secret to enable")
			} else {
				logging.Default().Info("API token authentication enabled")
			}

			ucOpts := []usecase.Option{
				usecase.WithAssessor(assessorSvc),
				usecase.WithAuth(authUC),
				usecase.WithCacheTTL(ttl),
			}

			if assessmentCfg != nil {
				ucOpts = append(ucOpts, usecase.WithConfig(assessmentCfg))
				logging.Default().Info("Assessment configuration loaded",
					"categories", len(assessmentCfg.Categories),
					"teams", len(assessmentCfg.Teams))
			}

			// Initialize Slack notifier if configured
			notifier, err := slackCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to initialize Slack notifier")
			}
			if notifier != nil {
				ucOpts = append(ucOpts, usecase.WithNotifier(notifier))
				logging.Default().Info("Slack notifications enabled")
			} else {
				logging.Default().Info("Slack not configured, high risk notifications disabled")
			}

			uc := usecase.New(repo, ucOpts...)

			// Start cache sweep worker
			sweepWorker := worker.NewCacheSweepWorker(uc.Assessment, cacheSweepInterval)
			if err := sweepWorker.Start(ctx); err != nil {
				return goerr.Wrap(err, "failed to start cache sweep worker")
			}

			srv, err := httpctrl.New(uc.Assessment, httpctrl.WithAuth(authUC))
			if err != nil {
				return goerr.Wrap(err, "failed to create http server")
			}
			server := &http.Server{
				Addr:              addr,
				Handler:           srv,
				ReadHeaderTimeout: 30 * time.Second,
			}

			// Setup signal handling for graceful shutdown
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

			// Start server in goroutine
			errCh := make(chan error, 1)
			go func() {
				logging.Default().Info("Starting HTTP server", "addr", addr, "cache_ttl", ttl.String())
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- goerr.Wrap(err, "failed to start server")
				}
			}()

			// Wait for shutdown signal or server error
			select {
			case err := <-errCh:
				sweepWorker.Stop()
				return err
			case sig := <-sigCh:
				logging.Default().Info("Received shutdown signal", "signal", sig)

				// Stop the sweep worker before draining connections
				sweepWorker.Stop()

				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()

				if err := server.Shutdown(shutdownCtx); err != nil {
					return goerr.Wrap(err, "failed to shutdown server gracefully")
				}

				logging.Default().Info("Server shutdown completed")
				return nil
			}
		},
	}
}
