package main

import (
	"context"
	"fmt"
	"io"

	"github.com/ludo-technologies/codescan/app"
	"github.com/ludo-technologies/codescan/domain"
	"github.com/ludo-technologies/codescan/internal/config"
	"github.com/ludo-technologies/codescan/service"
	"github.com/spf13/cobra"
)

var (
	qualityFormat      string
	qualityJSON        bool
	qualityOutputPath  string
	qualityConfigPath  string
	qualityDetails     bool
	qualityNoProgress  bool
	qualityConcurrency int
)

func qualityCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quality [path...]",
		Short: "Score overall maintainability",
		Long: `Compute a weighted maintainability index from complexity, duplication,
documentation, naming, structure, and test coverage sub-scores.

Examples:
  codescan quality src/
  codescan quality --details src/
  codescan quality --format json src/`,
		RunE: runQuality,
	}

	cmd.Flags().StringVarP(&qualityFormat, "format", "f", "text",
		"Output format: text, json, yaml, csv")
	cmd.Flags().BoolVar(&qualityJSON, "json", false,
		"Output results as JSON (shorthand for --format json)")
	cmd.Flags().StringVarP(&qualityOutputPath, "output", "o", "",
		"Output file path (default: stdout)")
	cmd.Flags().StringVarP(&qualityConfigPath, "config", "c", "",
		"Path to config file")
	cmd.Flags().BoolVar(&qualityDetails, "details", false,
		"Show per-category score details")
	cmd.Flags().BoolVar(&qualityNoProgress, "no-progress", false,
		"Disable progress display")
	cmd.Flags().IntVar(&qualityConcurrency, "concurrency", 0,
		"Maximum parallel file workers, 0 uses the CPU count")

	return cmd
}

func runQuality(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("no paths specified")
	}

	cfg, err := config.LoadConfigWithTarget(qualityConfigPath, args[0])
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	req := service.QualityRequestFromConfig(cfg)
	req.Paths = args
	req.NoProgress = qualityNoProgress

	// CLI flags win over config file values
	if qualityJSON {
		req.OutputFormat = domain.OutputFormatJSON
	} else if cmd.Flags().Changed("format") {
		req.OutputFormat = domain.OutputFormat(qualityFormat)
	}
	if cmd.Flags().Changed("details") {
		req.ShowDetails = qualityDetails
	}
	if cmd.Flags().Changed("concurrency") {
		req.Concurrency = qualityConcurrency
	}

	showProgress := !req.NoProgress && req.OutputFormat == domain.OutputFormatText && qualityOutputPath == ""
	pm := service.NewProgressManager(showProgress)
	defer pm.Close()

	svc := service.NewQualityService(cfg)
	svc.SetProgressManager(pm)

	uc := app.NewQualityUseCase(svc)
	resp, err := uc.Execute(context.Background(), req)
	if err != nil {
		return err
	}

	formatter := service.NewQualityOutputFormatter()
	return writeReport(qualityOutputPath, func(w io.Writer) error {
		return formatter.Write(resp, req.OutputFormat, w)
	})
}
