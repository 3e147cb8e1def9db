package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"cloud.google.com/go/storage"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/themis/pkg/cli/config"
	"github.com/secmon-lab/themis/pkg/domain/interfaces"
	"github.com/secmon-lab/themis/pkg/domain/types"
	"github.com/secmon-lab/themis/pkg/usecase"
	"github.com/secmon-lab/themis/pkg/utils/logging"
	"github.com/secmon-lab/themis/pkg/utils/safe"
	"github.com/urfave/cli/v3"
)

func cmdExport() *cli.Command {
	var bucket string
	var object string
	var output string
	var levelFilter string
	var limit int
	var repoCfg config.Repository

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "bucket",
			Usage:       "GCS bucket to upload the JSONL archive to",
			Sources:     cli.EnvVars("THEMIS_EXPORT_BUCKET"),
			Destination: &bucket,
		},
		&cli.StringFlag{
			Name:        "object",
			Usage:       "GCS object name (default: assessments-<timestamp>.jsonl)",
			Sources:     cli.EnvVars("THEMIS_EXPORT_OBJECT"),
			Destination: &object,
		},
		&cli.StringFlag{
			Name:        "output",
			Aliases:     []string{"o"},
			Usage:       "Write to a local file instead of GCS (\"-\" for stdout)",
			Destination: &output,
		},
		&cli.StringFlag{
			Name:        "level",
			Usage:       "Only export assessments with this risk level",
			Destination: &levelFilter,
		},
		&cli.IntFlag{
			Name:        "limit",
			Usage:       "Maximum number of records to export (0 for all)",
			Destination: &limit,
		},
	}

	// Add shared config flags
	flags = append(flags, repoCfg.Flags()...)

	return &cli.Command{
		Name:  "export",
		Usage: "Export assessment records as JSONL",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			if bucket != "" && output != "" {
				return goerr.New("--bucket and --output are mutually exclusive")
			}

			var listOpts []interfaces.ListAssessmentOption
			if levelFilter != "" {
				level, err := types.ParseRiskLevel(levelFilter)
				if err != nil {
					return goerr.Wrap(err, "invalid level filter", goerr.V("level", levelFilter))
				}
				listOpts = append(listOpts, interfaces.WithLevel(level))
			}
			if limit > 0 {
				listOpts = append(listOpts, interfaces.WithLimit(limit))
			}

			// Initialize repository
			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer func() {
				if err := repo.Close(); err != nil {
					logging.Default().Error("failed to close repository", "error", err.Error())
				}
			}()

			uc := usecase.New(repo)

			if bucket != "" {
				return exportToGCS(ctx, uc.Assessment, bucket, object, listOpts)
			}
			return exportToLocal(ctx, uc.Assessment, output, listOpts)
		},
	}
}

func exportToGCS(ctx context.Context, uc *usecase.AssessmentUseCase, bucket, object string, opts []interfaces.ListAssessmentOption) error {
	logger := logging.Default()

	if object == "" {
		object = fmt.Sprintf("assessments-%s.jsonl", time.Now().UTC().Format("20060102-150405"))
	}

	client, err := storage.NewClient(ctx)
	if err != nil {
		return goerr.Wrap(err, "failed to create GCS client")
	}
	defer safe.Close(ctx, client)

	// Canceling the writer context discards a partial upload
	writeCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	w := client.Bucket(bucket).Object(object).NewWriter(writeCtx)
	w.ContentType = "application/x-ndjson"

	count, err := uc.Export(writeCtx, w, opts...)
	if err != nil {
		cancel()
		_ = w.Close()
		return goerr.Wrap(err, "failed to export assessments")
	}

	// The upload commits at Close
	if err := w.Close(); err != nil {
		return goerr.Wrap(err, "failed to finalize GCS object",
			goerr.V("bucket", bucket), goerr.V("object", object))
	}

	logger.Info("Export completed",
		"destination", fmt.Sprintf("gs://%s/%s", bucket, object),
		"count", count)
	return nil
}

func exportToLocal(ctx context.Context, uc *usecase.AssessmentUseCase, output string, opts []interfaces.ListAssessmentOption) error {
	logger := logging.Default()

	var w io.Writer = os.Stdout
	dest := "stdout"
	if output != "" && output != "-" {
		f, err := os.Create(output) // #nosec G304 - path is expected to be provided by CLI argument
		if err != nil {
			return goerr.Wrap(err, "failed to create output file", goerr.V("path", output))
		}
		defer safe.Close(ctx, f)
		w = f
		dest = output
	}

	count, err := uc.Export(ctx, w, opts...)
	if err != nil {
		return goerr.Wrap(err, "failed to export assessments")
	}

	logger.Info("Export completed", "destination", dest, "count", count)
	return nil
}
