package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/themis/pkg/cli/config"
	"github.com/secmon-lab/themis/pkg/domain/model"
	"github.com/secmon-lab/themis/pkg/domain/types"
	"github.com/secmon-lab/themis/pkg/service/assessor"
	"github.com/secmon-lab/themis/pkg/service/github"
	"github.com/secmon-lab/themis/pkg/usecase"
	"github.com/secmon-lab/themis/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdAssess() *cli.Command {
	var title string
	var description string
	var descriptionFile string
	var categoryID string
	var teamID string
	var requestedBy string
	var prRef string
	var jsonOutput bool
	var appCfg config.AppConfig
	var repoCfg config.Repository
	var geminiCfg config.Gemini
	var githubCfg config.GitHub

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "title",
			Aliases:     []string{"t"},
			Usage:       "Title of the proposed change",
			Destination: &title,
		},
		&cli.StringFlag{
			Name:        "description",
			Aliases:     []string{"d"},
			Usage:       "Description of the proposed change",
			Destination: &description,
		},
		&cli.StringFlag{
			Name:        "description-file",
			Usage:       "Read the description from a file (ignored when --description is set)",
			Destination: &descriptionFile,
		},
		&cli.StringFlag{
			Name:        "category",
			Usage:       "Category ID declared in the configuration file",
			Destination: &categoryID,
		},
		&cli.StringFlag{
			Name:        "team",
			Usage:       "Team ID declared in the configuration file",
			Destination: &teamID,
		},
		&cli.StringFlag{
			Name:        "requested-by",
			Usage:       "Who requests the change",
			Destination: &requestedBy,
		},
		&cli.StringFlag{
			Name:        "pr",
			Usage:       "Assess a GitHub pull request (owner/repo#N or URL) instead of --title/--description",
			Destination: &prRef,
		},
		&cli.BoolFlag{
			Name:        "json",
			Usage:       "Print the assessment as JSON",
			Destination: &jsonOutput,
		},
	}

	// Add shared config flags
	flags = append(flags, appCfg.Flags()...)
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, geminiCfg.Flags()...)
	flags = append(flags, githubCfg.Flags()...)

	return &cli.Command{
		Name:    "assess",
		Aliases: []string{"a"},
		Usage:   "Assess a single proposed change and print the result",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			var proposal model.Proposal
			if prRef != "" {
				p, err := fetchProposalFromPR(ctx, &githubCfg, prRef)
				if err != nil {
					return err
				}
				proposal = *p
				proposal.CategoryID = types.CategoryID(categoryID)
				proposal.TeamID = types.TeamID(teamID)
				if requestedBy != "" {
					proposal.RequestedBy = requestedBy
				}
			} else {
				p, err := proposalFromFlags(title, description, descriptionFile, categoryID, teamID, requestedBy)
				if err != nil {
					return err
				}
				proposal = *p
			}

			// Load category and team definitions
			assessmentCfg, err := appCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to load assessment configuration")
			}

			// Initialize repository (memory backend by default, so one-shot
			// runs leave no state behind)
			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer func() {
				if err := repo.Close(); err != nil {
					logging.Default().Error("failed to close repository", "error", err.Error())
				}
			}()

			// Initialize Gemini LLM client (required)
			llmClient, err := geminiCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize Gemini client")
			}
			if llmClient == nil {
				return goerr.New("--gemini-project is required for assess")
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

			result, err := uc.Assessment.Assess(ctx, proposal)
			if err != nil {
				return goerr.Wrap(err, "assessment failed")
			}

			if jsonOutput {
				return printAssessmentJSON(result)
			}
			printAssessment(result)
			return nil
		},
	}
}

// proposalFromFlags builds a proposal from the manual assess flags. The
// title is required here so the user gets a flag-level error instead of a
// validation failure from deeper in the pipeline.
func proposalFromFlags(title, description, descriptionFile, categoryID, teamID, requestedBy string) (*model.Proposal, error) {
	if strings.TrimSpace(title) == "" {
		return nil, goerr.New("either --title or --pr is required")
	}

	if description == "" && descriptionFile != "" {
		data, err := os.ReadFile(descriptionFile) // #nosec G304 - path is expected to be provided by CLI argument
		if err != nil {
			return nil, goerr.Wrap(err, "failed to read description file", goerr.V("path", descriptionFile))
		}
		description = string(data)
	}

	return &model.Proposal{
		Title:       title,
		Description: description,
		CategoryID:  types.CategoryID(categoryID),
		TeamID:      types.TeamID(teamID),
		RequestedBy: requestedBy,
		Source: model.Source{
			Kind: model.SourceKindCLI,
		},
	}, nil
}

func fetchProposalFromPR(ctx context.Context, githubCfg *config.GitHub, ref string) (*model.Proposal, error) {
	owner, repoName, number, err := github.ParsePullRequestRef(ref)
	if err != nil {
		return nil, err
	}

	ghSvc, err := githubCfg.Configure()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to initialize GitHub client")
	}
	if ghSvc == nil {
		return nil, goerr.New("GitHub App credentials are required for --pr (set --github-app-id, --github-app-installation-id and --github-app-private-key)")
	}

	pr, err := ghSvc.FetchPullRequest(ctx, owner, repoName, number)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to fetch pull request", goerr.V("ref", ref))
	}

	p := proposalFromPullRequest(owner, repoName, pr)
	return &p, nil
}

// proposalFromPullRequest converts a fetched pull request into a proposal.
// The description carries the PR body plus a change stat line so the
// assessor sees the size and labels of the change. The stats are part of
// the fingerprinted content: a PR that grows new commits is reassessed.
func proposalFromPullRequest(owner, repo string, pr *github.PullRequest) model.Proposal {
	var sb strings.Builder
	if body := strings.TrimSpace(pr.Body); body != "" {
		sb.WriteString(body)
		sb.WriteString("\n\n")
	}
	fmt.Fprintf(&sb, "Base branch: %s. Changed files: %d (+%d/-%d).",
		pr.BaseRef, pr.ChangedFiles, pr.Additions, pr.Deletions)
	if len(pr.Labels) > 0 {
		fmt.Fprintf(&sb, " Labels: %s.", strings.Join(pr.Labels, ", "))
	}

	return model.Proposal{
		Title:       pr.Title,
		Description: sb.String(),
		RequestedBy: pr.Author,
		Source: model.Source{
			Kind: model.SourceKindGitHub,
			Ref:  fmt.Sprintf("%s/%s#%d", owner, repo, pr.Number),
		},
	}
}

func printAssessment(result *usecase.AssessResult) {
	a := result.Assessment

	fmt.Printf("Risk level: %s", colorForLevel(a.Classification.Level).Sprint(strings.ToUpper(string(a.Classification.Level))))
	if result.CacheHit {
		fmt.Print("  (cached)")
	}
	fmt.Println()
	fmt.Println()

	fmt.Printf("Proposal: %s\n", a.Proposal.Title)
	fmt.Printf("Factors:  scope=%s severity=%s human_impact=%s time_sensitivity=%s\n",
		a.Factors.Scope, a.Factors.Severity, a.Factors.HumanImpact, a.Factors.TimeSensitivity)
	if a.Classification.OrgCapTriggered {
		fmt.Println("Guardrail: organization-wide cap applied")
	}
	fmt.Println()

	fmt.Println("Reasoning:")
	for i, line := range a.Trace {
		fmt.Printf("  %d. %s\n", i+1, line)
	}

	if a.Summary != "" {
		fmt.Println()
		fmt.Printf("Summary: %s\n", a.Summary)
	}

	fmt.Println()
	fmt.Printf("Assessment ID: %s (model: %s)\n", a.ID, a.ModelName)
}

type assessOutput struct {
	ID              string    `json:"id"`
	Fingerprint     string    `json:"fingerprint"`
	Title           string    `json:"title"`
	Level           string    `json:"level"`
	OrgCapTriggered bool      `json:"org_cap_triggered"`
	Scope           string    `json:"scope"`
	Severity        string    `json:"severity"`
	HumanImpact     string    `json:"human_impact"`
	TimeSensitivity string    `json:"time_sensitivity"`
	Trace           []string  `json:"trace"`
	Summary         string    `json:"summary,omitempty"`
	ModelName       string    `json:"model_name"`
	CachedFrom      string    `json:"cached_from,omitempty"`
	CacheHit        bool      `json:"cache_hit"`
	CreatedAt       time.Time `json:"created_at"`
}

func printAssessmentJSON(result *usecase.AssessResult) error {
	a := result.Assessment
	out := assessOutput{
		ID:              string(a.ID),
		Fingerprint:     a.Fingerprint,
		Title:           a.Proposal.Title,
		Level:           string(a.Classification.Level),
		OrgCapTriggered: a.Classification.OrgCapTriggered,
		Scope:           string(a.Factors.Scope),
		Severity:        string(a.Factors.Severity),
		HumanImpact:     string(a.Factors.HumanImpact),
		TimeSensitivity: string(a.Factors.TimeSensitivity),
		Trace:           a.Trace,
		Summary:         a.Summary,
		ModelName:       a.ModelName,
		CachedFrom:      string(a.CachedFrom),
		CacheHit:        result.CacheHit,
		CreatedAt:       a.CreatedAt,
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return goerr.Wrap(err, "failed to encode assessment")
	}
	return nil
}

func colorForLevel(level types.RiskLevel) *color.Color {
	switch level {
	case types.RiskLevelCritical:
		return color.New(color.FgRed, color.Bold)
	case types.RiskLevelHigh:
		return color.New(color.FgRed)
	case types.RiskLevelMedium:
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgGreen)
	}
}
