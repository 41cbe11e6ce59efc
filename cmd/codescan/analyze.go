package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/ludo-technologies/codescan/app"
	"github.com/ludo-technologies/codescan/domain"
	"github.com/ludo-technologies/codescan/internal/config"
	"github.com/ludo-technologies/codescan/service"
	"github.com/spf13/cobra"
)

var (
	analyzeSelect      []string
	analyzeFormat      string
	analyzeJSON        bool
	analyzeOutputPath  string
	analyzeConfigPath  string
	analyzeNoProgress  bool
	analyzeConcurrency int
)

func analyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [path...]",
		Short: "Run all analyses and produce a combined report",
		Long: `Run complexity analysis, clone detection, and maintainability scoring
in one pass and combine the results into a single report.

Examples:
  codescan analyze src/
  codescan analyze --select complexity src/
  codescan analyze --select complexity,clones --json src/
  codescan analyze --format yaml -o report.yaml src/`,
		RunE: runAnalyze,
	}

	cmd.Flags().StringSliceVarP(&analyzeSelect, "select", "s", []string{"complexity", "clones", "quality"},
		"Analyses to run (comma-separated): complexity,clones,quality")
	cmd.Flags().StringVarP(&analyzeFormat, "format", "f", "text",
		"Output format: text, json, yaml")
	cmd.Flags().BoolVar(&analyzeJSON, "json", false,
		"Output results as JSON (shorthand for --format json)")
	cmd.Flags().StringVarP(&analyzeOutputPath, "output", "o", "",
		"Output file path (default: stdout)")
	cmd.Flags().StringVarP(&analyzeConfigPath, "config", "c", "",
		"Path to config file")
	cmd.Flags().BoolVar(&analyzeNoProgress, "no-progress", false,
		"Disable progress display")
	cmd.Flags().IntVar(&analyzeConcurrency, "concurrency", 0,
		"Maximum parallel file workers, 0 uses the CPU count")

	return cmd
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("no paths specified")
	}

	format := domain.OutputFormat(analyzeFormat)
	if analyzeJSON {
		format = domain.OutputFormatJSON
	}
	switch format {
	case domain.OutputFormatText, domain.OutputFormatJSON, domain.OutputFormatYAML:
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}

	cfg, err := config.LoadConfigWithTarget(analyzeConfigPath, args[0])
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	analyzeCfg := app.DefaultAnalyzeConfig()
	analyzeCfg.EnableComplexity = contains(analyzeSelect, "complexity") && cfg.Complexity.Enabled
	analyzeCfg.EnableClones = contains(analyzeSelect, "clones") && cfg.Clones.Enabled
	analyzeCfg.EnableQuality = contains(analyzeSelect, "quality") && cfg.Quality.Enabled
	analyzeCfg.MinComplexity = cfg.Output.MinComplexity
	analyzeCfg.MaxComplexity = cfg.Complexity.MaxComplexity
	analyzeCfg.MediumThreshold = cfg.Complexity.CyclomaticMedium
	analyzeCfg.HighThreshold = cfg.Complexity.CyclomaticHigh
	analyzeCfg.MinLines = cfg.Clones.MinLines
	analyzeCfg.MinTokens = cfg.Clones.MinTokens
	analyzeCfg.MinNodes = cfg.Clones.MinNodes
	analyzeCfg.OutputFormat = format
	analyzeCfg.Recursive = cfg.Analysis.Recursive
	analyzeCfg.IncludePatterns = cfg.Analysis.IncludePatterns
	analyzeCfg.ExcludePatterns = cfg.Analysis.ExcludePatterns
	analyzeCfg.NoProgress = analyzeNoProgress
	analyzeCfg.Concurrency = cfg.Analysis.Concurrency
	if cmd.Flags().Changed("concurrency") {
		analyzeCfg.Concurrency = analyzeConcurrency
	}

	if !analyzeCfg.EnableComplexity && !analyzeCfg.EnableClones && !analyzeCfg.EnableQuality {
		return fmt.Errorf("no analyses selected")
	}

	fileHelper := app.NewFileHelper()
	files, err := fileHelper.CollectSourceFiles(args, analyzeCfg.Recursive,
		analyzeCfg.IncludePatterns, analyzeCfg.ExcludePatterns)
	if err != nil {
		return fmt.Errorf("failed to collect files: %w", err)
	}

	interactive := format == domain.OutputFormatText && analyzeOutputPath == ""
	if interactive {
		fmt.Printf("Analyzing %d files...\n", len(files))
	}

	uc := app.NewAnalyzeUseCase(
		app.NewComplexityUseCase(service.NewComplexityService(&cfg.Complexity)),
		app.NewCloneUseCase(service.NewCloneServiceWithDefaults()),
		app.NewQualityUseCase(service.NewQualityService(cfg)),
	)

	// The combined run has phases with very different speeds, so a single
	// time-based bar tracks overall progress instead of per-file counts.
	pm := service.NewProgressManager(interactive && !analyzeNoProgress)
	defer pm.Close()

	ctx := context.Background()
	var result *app.AnalyzeResult
	if pm.IsInteractive() {
		estimated := estimateAnalysisDuration(len(files),
			analyzeCfg.EnableComplexity, analyzeCfg.EnableClones, analyzeCfg.EnableQuality)
		task := pm.StartTask("Analyzing...", 100)
		done := startTimeBasedProgressUpdater(task, estimated)
		result, err = uc.Execute(ctx, analyzeCfg, args)
		close(done)
		task.Complete()
	} else {
		result, err = uc.Execute(ctx, analyzeCfg, args)
	}
	if err != nil {
		return err
	}

	formatter := service.NewOutputFormatter()
	return writeReport(analyzeOutputPath, func(w io.Writer) error {
		return formatter.WriteAnalyze(result.ToAnalyzeResponse(), format, w)
	})
}

// estimateAnalysisDuration predicts how long the combined run will take from
// the file count and the selected analyses. Clone detection dominates because
// fragment comparison grows faster than linearly.
func estimateAnalysisDuration(fileCount int, complexity, clones, quality bool) time.Duration {
	var estimate time.Duration
	if complexity {
		estimate = time.Duration(fileCount) * 5 * time.Millisecond
	}
	if quality {
		if d := time.Duration(fileCount) * 10 * time.Millisecond; d > estimate {
			estimate = d
		}
	}
	if clones {
		if d := time.Duration(fileCount) * 50 * time.Millisecond; d > estimate {
			estimate = d
		}
	}
	if estimate < 3*time.Second {
		estimate = 3 * time.Second
	}
	return estimate
}

// calculateProgressPercent maps elapsed time onto a 0-99 progress scale.
// The bar reaches 90 at the estimate and then crawls toward 99 so a slow run
// never looks finished before it is.
func calculateProgressPercent(elapsed, estimated time.Duration) int {
	if estimated <= 0 {
		return 0
	}
	if elapsed <= estimated {
		return int(float64(elapsed) / float64(estimated) * 90)
	}
	overtime := elapsed - estimated
	percent := 90 + int(overtime*2/estimated)
	if percent > 99 {
		percent = 99
	}
	return percent
}

// startTimeBasedProgressUpdater advances the task on a timer until the
// returned channel is closed. The caller completes the task itself.
func startTimeBasedProgressUpdater(task domain.TaskProgress, estimated time.Duration) chan struct{} {
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()

		start := time.Now()
		current := 0
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				percent := calculateProgressPercent(time.Since(start), estimated)
				if percent > current {
					task.Increment(percent - current)
					current = percent
				}
				task.Describe(fmt.Sprintf("Analyzing... %d%%", percent))
			}
		}
	}()
	return done
}

// writeReport writes command output to the given path, or stdout when the
// path is empty.
func writeReport(path string, write func(io.Writer) error) error {
	if path == "" {
		return write(os.Stdout)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close output file: %w", err)
	}

	absPath, _ := filepath.Abs(path)
	fmt.Printf("Output saved to: %s\n", absPath)
	return nil
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
