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
	clonesFormat      string
	clonesJSON        bool
	clonesOutputPath  string
	clonesConfigPath  string
	clonesMinLines    int
	clonesMinTokens   int
	clonesMinNodes    int
	clonesType1       float64
	clonesType2       float64
	clonesType3       float64
	clonesType4       float64
	clonesSortBy      string
	clonesTop         int
	clonesDetails     bool
	clonesNoProgress  bool
	clonesConcurrency int
)

func clonesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clones [path...]",
		Short: "Detect duplicated code across files",
		Long: `Detect duplicated code fragments across files and classify each pair by
similarity: Type 1 (exact), Type 2 (parameterized), Type 3 (near-miss),
and Type 4 (semantic).

Examples:
  codescan clones src/
  codescan clones --min-lines 10 src/
  codescan clones --type3 0.90 --sort size src/
  codescan clones --format json -o clones.json src/`,
		RunE: runClones,
	}

	cmd.Flags().StringVarP(&clonesFormat, "format", "f", "text",
		"Output format: text, json, yaml, csv")
	cmd.Flags().BoolVar(&clonesJSON, "json", false,
		"Output results as JSON (shorthand for --format json)")
	cmd.Flags().StringVarP(&clonesOutputPath, "output", "o", "",
		"Output file path (default: stdout)")
	cmd.Flags().StringVarP(&clonesConfigPath, "config", "c", "",
		"Path to config file")
	cmd.Flags().IntVar(&clonesMinLines, "min-lines", 5,
		"Minimum fragment size in lines")
	cmd.Flags().IntVar(&clonesMinTokens, "min-tokens", 50,
		"Minimum fragment size in tokens")
	cmd.Flags().IntVar(&clonesMinNodes, "min-nodes", 10,
		"Minimum fragment size in AST nodes")
	cmd.Flags().Float64Var(&clonesType1, "type1", 0.98,
		"Similarity threshold for Type 1 clones")
	cmd.Flags().Float64Var(&clonesType2, "type2", 0.95,
		"Similarity threshold for Type 2 clones")
	cmd.Flags().Float64Var(&clonesType3, "type3", 0.85,
		"Similarity threshold for Type 3 clones")
	cmd.Flags().Float64Var(&clonesType4, "type4", 0.70,
		"Similarity threshold for Type 4 clones")
	cmd.Flags().StringVar(&clonesSortBy, "sort", "similarity",
		"Sort results by: similarity, size, location")
	cmd.Flags().IntVar(&clonesTop, "top", 0,
		"Show only the first N pairs after sorting, 0 shows all")
	cmd.Flags().BoolVar(&clonesDetails, "details", false,
		"Show fragment details for each pair")
	cmd.Flags().BoolVar(&clonesNoProgress, "no-progress", false,
		"Disable progress display")
	cmd.Flags().IntVar(&clonesConcurrency, "concurrency", 0,
		"Maximum parallel file workers, 0 uses the CPU count")

	return cmd
}

func runClones(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("no paths specified")
	}

	cfg, err := config.LoadConfigWithTarget(clonesConfigPath, args[0])
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	req := service.CloneRequestFromConfig(cfg)
	req.Paths = args
	req.NoProgress = clonesNoProgress

	// CLI flags win over config file values
	if clonesJSON {
		req.OutputFormat = domain.OutputFormatJSON
	} else if cmd.Flags().Changed("format") {
		req.OutputFormat = domain.OutputFormat(clonesFormat)
	}
	if cmd.Flags().Changed("min-lines") {
		req.MinLines = clonesMinLines
	}
	if cmd.Flags().Changed("min-tokens") {
		req.MinTokens = clonesMinTokens
	}
	if cmd.Flags().Changed("min-nodes") {
		req.MinNodes = clonesMinNodes
	}
	if cmd.Flags().Changed("type1") {
		req.Type1Threshold = clonesType1
	}
	if cmd.Flags().Changed("type2") {
		req.Type2Threshold = clonesType2
	}
	if cmd.Flags().Changed("type3") {
		req.Type3Threshold = clonesType3
	}
	if cmd.Flags().Changed("type4") {
		req.Type4Threshold = clonesType4
	}
	if cmd.Flags().Changed("sort") {
		req.SortBy = domain.SortCriteria(clonesSortBy)
	}
	if cmd.Flags().Changed("top") {
		req.MaxResults = clonesTop
	}
	if cmd.Flags().Changed("details") {
		req.ShowDetails = clonesDetails
	}
	if cmd.Flags().Changed("concurrency") {
		req.Concurrency = clonesConcurrency
	}

	showProgress := !req.NoProgress && req.OutputFormat == domain.OutputFormatText && clonesOutputPath == ""
	pm := service.NewProgressManager(showProgress)
	defer pm.Close()

	svc := service.NewCloneServiceWithDefaults()
	svc.SetProgressManager(pm)

	uc := app.NewCloneUseCase(svc)
	resp, err := uc.Execute(context.Background(), req)
	if err != nil {
		return err
	}

	formatter := service.NewCloneOutputFormatter()
	return writeReport(clonesOutputPath, func(w io.Writer) error {
		return formatter.Write(resp, req.OutputFormat, w)
	})
}
