package cli

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/themis/pkg/cli/config"
	"github.com/secmon-lab/themis/pkg/domain/model"
	"github.com/secmon-lab/themis/pkg/domain/types"
	"github.com/secmon-lab/themis/pkg/service/assessor"
	"github.com/secmon-lab/themis/pkg/usecase"
	"github.com/secmon-lab/themis/pkg/utils/logging"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"
)

func cmdScan() *cli.Command {
	var repoRef string
	var since string
	var concurrency int
	var appCfg config.AppConfig
	var repoCfg config.Repository
	var geminiCfg config.Gemini
	var githubCfg config.GitHub

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "repo",
			Aliases:     []string{"r"},
			Usage:       "GitHub repository to scan (owner/name)",
			Required:    true,
			Sources:     cli.EnvVars("THEMIS_SCAN_REPO"),
			Destination: &repoRef,
		},
		&cli.StringFlag{
			Name:        "since",
			Usage:       "Scan window (e.g. 24h, 7d, 30d)",
			Value:       "24h",
			Sources:     cli.EnvVars("THEMIS_SCAN_SINCE"),
			Destination: &since,
		},
		&cli.IntFlag{
			Name:        "concurrency",
			Usage:       "Number of pull requests assessed in parallel",
			Value:       4,
			Sources:     cli.EnvVars("THEMIS_SCAN_CONCURRENCY"),
			Destination: &concurrency,
		},
	}

	// Add shared config flags
	flags = append(flags, appCfg.Flags()...)
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, geminiCfg.Flags()...)
	flags = append(flags, githubCfg.Flags()...)

	return &cli.Command{
		Name:  "scan",
		Usage: "Assess all pull requests created in a GitHub repository within a window",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := logging.Default()

			owner, repoName, err := parseRepoRef(repoRef)
			if err != nil {
				return err
			}
			if concurrency < 1 {
				return goerr.New("--concurrency must be at least 1", goerr.V("concurrency", concurrency))
			}

			dur, err := parseDuration(since)
			if err != nil {
				return goerr.Wrap(err, "failed to parse scan window", goerr.V("since", since))
			}
			sinceTime := time.Now().UTC().Add(-dur)

			logger.Info("Scan configuration",
				"repo", repoRef,
				"since", sinceTime,
				"concurrency", concurrency)

			ghSvc, err := githubCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to initialize GitHub client")
			}
			if ghSvc == nil {
				return goerr.New("GitHub App credentials are required for scan (set --github-app-id, --github-app-installation-id and --github-app-private-key)")
			}

			// Load category and team definitions
			assessmentCfg, err := appCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to load assessment configuration")
			}

			// Initialize repository
			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer func() {
				if err := repo.Close(); err != nil {
					logger.Error("failed to close repository", "error", err.Error())
				}
			}()

			// Initialize Gemini LLM client (required)
			llmClient, err := geminiCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize Gemini client")
			}
			if llmClient == nil {
				return goerr.New("--gemini-project is required for scan")
			}
			assessorSvc, err := assessor.New(llmClient, assessor.WithModelName(geminiCfg.Model()))
			if err != nil {
				return goerr.Wrap(err, "failed to initialize assessor service")
			}

			ucOpts := []usecase.Option{usecase.WithAssessor(assessorSvc)}
			if assessmentCfg != nil {
				ucOpts = append(ucOpts, usecase.WithConfig(assessmentCfg))
			}
			uc := usecase.New(repo, ucOpts...)

			// Collect the pull requests first, then assess in parallel
			var proposals []model.Proposal
			for pr, err := range ghSvc.FetchRecentPullRequests(ctx, owner, repoName, sinceTime) {
				if err != nil {
					return goerr.Wrap(err, "failed to list pull requests", goerr.V("repo", repoRef))
				}
				proposals = append(proposals, proposalFromPullRequest(owner, repoName, pr))
			}

			if len(proposals) == 0 {
				logger.Info("No pull requests created in the scan window")
				return nil
			}

			g, gCtx := errgroup.WithContext(ctx)
			sem := make(chan struct{}, concurrency)

			var mu sync.Mutex
			results := make([]*usecase.AssessResult, 0, len(proposals))
			var failed int

			for _, p := range proposals {
				g.Go(func() error {
					select {
					case sem <- struct{}{}:
					case <-gCtx.Done():
						return gCtx.Err()
					}
					defer func() { <-sem }()

					res, err := uc.Assessment.Assess(gCtx, p)
					if err != nil {
						// Per-PR failures do not abort the scan
						logger.Error("failed to assess pull request",
							"ref", p.Source.Ref,
							"error", err.Error())
						mu.Lock()
						failed++
						mu.Unlock()
						return nil
					}

					mu.Lock()
					results = append(results, res)
					mu.Unlock()
					return nil
				})
			}

			if err := g.Wait(); err != nil {
				return goerr.Wrap(err, "scan aborted")
			}

			printScanSummary(repoRef, sinceTime, results)

			if failed > 0 {
				return goerr.New("scan completed with errors", goerr.V("failedCount", failed))
			}
			return nil
		},
	}
}

func parseRepoRef(s string) (owner, repo string, err error) {
	parts := strings.Split(strings.TrimSpace(s), "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", goerr.New("invalid repository, expected owner/name", goerr.V("repo", s))
	}
	return parts[0], parts[1], nil
}

func printScanSummary(repoRef string, since time.Time, results []*usecase.AssessResult) {
	counts := make(map[types.RiskLevel]int)
	cached := 0
	var flagged []*model.Assessment
	for _, res := range results {
		counts[res.Assessment.Classification.Level]++
		if res.CacheHit {
			cached++
		}
		if res.Assessment.Classification.Level.AtLeast(types.RiskLevelHigh) {
			flagged = append(flagged, res.Assessment)
		}
	}

	fmt.Printf("\nScanned %d pull requests in %s since %s (%d cached)\n",
		len(results), repoRef, since.Format(time.RFC3339), cached)

	levels := types.AllRiskLevels()
	for i := len(levels) - 1; i >= 0; i-- {
		level := levels[i]
		// Pad before coloring, the escape codes would break %-8s
		fmt.Printf("  %s %d\n", colorForLevel(level).Sprint(fmt.Sprintf("%-8s", level)), counts[level])
	}

	if len(flagged) > 0 {
		fmt.Println("\nNeeds attention:")
		for _, a := range flagged {
			fmt.Printf("  [%s] %s %s\n",
				colorForLevel(a.Classification.Level).Sprint(string(a.Classification.Level)),
				a.Proposal.Source.Ref,
				a.Proposal.Title)
		}
	}
}

// parseDuration parses a duration string with support for a day suffix
// (e.g. "7d")
func parseDuration(s string) (time.Duration, error) {
	if len(s) > 1 && s[len(s)-1] == 'd' {
		days, err := time.ParseDuration(s[:len(s)-1] + "h")
		if err != nil {
			return 0, err
		}
		return days * 24, nil
	}

	return time.ParseDuration(s)
}
