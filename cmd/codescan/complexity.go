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
	complexityFormat      string
	complexityJSON        bool
	complexityOutputPath  string
	complexityConfigPath  string
	complexityMin         int
	complexityMax         int
	complexityMedium      int
	complexityHigh        int
	complexitySortBy      string
	complexityTop         int
	complexityDetails     bool
	complexityNoProgress  bool
	complexityConcurrency int
)

func complexityCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "complexity [path...]",
		Short: "Measure per-function complexity",
		Long: `Measure cyclomatic complexity, cognitive complexity, and nesting depth
for every function, and classify each one by risk.

Examples:
  codescan complexity src/
  codescan complexity --min 5 --sort risk src/
  codescan complexity --medium 8 --high 15 src/
  codescan complexity --format csv -o complexity.csv src/`,
		RunE: runComplexity,
	}

	cmd.Flags().StringVarP(&complexityFormat, "format", "f", "text",
		"Output format: text, json, yaml, csv")
	cmd.Flags().BoolVar(&complexityJSON, "json", false,
		"Output results as JSON (shorthand for --format json)")
	cmd.Flags().StringVarP(&complexityOutputPath, "output", "o", "",
		"Output file path (default: stdout)")
	cmd.Flags().StringVarP(&complexityConfigPath, "config", "c", "",
		"Path to config file")
	cmd.Flags().IntVar(&complexityMin, "min", 1,
		"Minimum complexity to report")
	cmd.Flags().IntVar(&complexityMax, "max", 0,
		"Maximum allowed complexity, 0 disables the limit")
	cmd.Flags().IntVar(&complexityMedium, "medium", 10,
		"Cyclomatic complexity above this is medium risk")
	cmd.Flags().IntVar(&complexityHigh, "high", 20,
		"Cyclomatic complexity above this is high risk")
	cmd.Flags().StringVar(&complexitySortBy, "sort", "complexity",
		"Sort results by: complexity, name, risk, location")
	cmd.Flags().IntVar(&complexityTop, "top", 0,
		"Show only the first N functions after sorting, 0 shows all")
	cmd.Flags().BoolVar(&complexityDetails, "details", false,
		"Show per-metric details for each function")
	cmd.Flags().BoolVar(&complexityNoProgress, "no-progress", false,
		"Disable progress display")
	cmd.Flags().IntVar(&complexityConcurrency, "concurrency", 0,
		"Maximum parallel file workers, 0 uses the CPU count")

	return cmd
}

func runComplexity(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("no paths specified")
	}

	cfg, err := config.LoadConfigWithTarget(complexityConfigPath, args[0])
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	req := service.ComplexityRequestFromConfig(cfg)
	req.Paths = args
	req.NoProgress = complexityNoProgress

	// CLI flags win over config file values
	if complexityJSON {
		req.OutputFormat = domain.OutputFormatJSON
	} else if cmd.Flags().Changed("format") {
		req.OutputFormat = domain.OutputFormat(complexityFormat)
	}
	if cmd.Flags().Changed("min") {
		req.MinComplexity = complexityMin
	}
	if cmd.Flags().Changed("max") {
		req.MaxComplexity = complexityMax
	}
	if cmd.Flags().Changed("medium") {
		req.MediumThreshold = complexityMedium
	}
	if cmd.Flags().Changed("high") {
		req.HighThreshold = complexityHigh
	}
	if cmd.Flags().Changed("sort") {
		req.SortBy = domain.SortCriteria(complexitySortBy)
	}
	if cmd.Flags().Changed("top") {
		req.MaxResults = complexityTop
	}
	if cmd.Flags().Changed("details") {
		req.ShowDetails = complexityDetails
	}
	if cmd.Flags().Changed("concurrency") {
		req.Concurrency = complexityConcurrency
	}

	showProgress := !req.NoProgress && req.OutputFormat == domain.OutputFormatText && complexityOutputPath == ""
	pm := service.NewProgressManager(showProgress)
	defer pm.Close()

	uc := app.NewComplexityUseCase(service.NewComplexityServiceWithProgress(&cfg.Complexity, pm))
	resp, err := uc.Execute(context.Background(), *req)
	if err != nil {
		return err
	}

	formatter := service.NewOutputFormatter()
	return writeReport(complexityOutputPath, func(w io.Writer) error {
		return formatter.Write(resp, req.OutputFormat, w)
	})
}
