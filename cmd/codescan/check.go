package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/ludo-technologies/codescan/app"
	"github.com/ludo-technologies/codescan/domain"
	"github.com/ludo-technologies/codescan/internal/config"
	"github.com/ludo-technologies/codescan/internal/version"
	"github.com/ludo-technologies/codescan/service"
	"github.com/spf13/cobra"
)

// CheckExitError is a custom error type for check command exit codes
type CheckExitError struct {
	Code    int
	Message string
}

func (e *CheckExitError) Error() string {
	return e.Message
}

var (
	checkMaxComplexity  int
	checkMaxDuplication float64
	checkMinQuality     float64
	checkSelectAnalyses []string
	checkVerbose        bool
	checkJSON           bool
	checkConfigPath     string
)

func checkCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [path...]",
		Short: "Fast quality gate for CI/CD pipelines",
		Long: `Run quality checks against configurable thresholds for CI/CD integration.

Exit codes:
  0 - All checks pass
  1 - Quality threshold(s) violated
  2 - Analysis error (file not found, parse error, etc.)

Examples:
  # Basic check with defaults
  codescan check src/

  # Strict complexity check
  codescan check --max-complexity 10 src/

  # Fail when more than 10% of lines are duplicated
  codescan check --max-duplication 10 src/

  # Require a minimum maintainability index
  codescan check --min-quality 60 src/

  # JSON output for machine parsing
  codescan check --json src/

  # Select specific analyses
  codescan check --select complexity,clones src/`,
		RunE:          runCheck,
		SilenceUsage:  true, // Don't print usage on errors (we handle our own output)
		SilenceErrors: true, // Don't print error messages (we handle our own output)
	}

	cmd.Flags().IntVar(&checkMaxComplexity, "max-complexity", 10,
		"Maximum allowed cyclomatic complexity per function")
	cmd.Flags().Float64Var(&checkMaxDuplication, "max-duplication", 25.0,
		"Maximum allowed duplication percentage")
	cmd.Flags().Float64Var(&checkMinQuality, "min-quality", 0,
		"Minimum required maintainability index (0 = disabled)")
	cmd.Flags().StringSliceVarP(&checkSelectAnalyses, "select", "s",
		[]string{"complexity", "clones", "quality"},
		"Analyses to run: complexity,clones,quality")
	cmd.Flags().BoolVarP(&checkVerbose, "verbose", "v", false,
		"Show detailed output")
	cmd.Flags().BoolVar(&checkJSON, "json", false,
		"Output results as JSON")
	cmd.Flags().StringVarP(&checkConfigPath, "config", "c", "",
		"Path to config file")

	return cmd
}

func runCheck(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return &CheckExitError{Code: 2, Message: "no paths specified"}
	}

	startTime := time.Now()

	// Load configuration
	cfg, err := config.LoadConfigWithTarget(checkConfigPath, args[0])
	if err != nil {
		return &CheckExitError{Code: 2, Message: fmt.Sprintf("failed to load configuration: %v", err)}
	}

	// Apply config values for flags not explicitly set on CLI
	if !cmd.Flags().Changed("max-complexity") && cfg.Complexity.MaxComplexity > 0 {
		checkMaxComplexity = cfg.Complexity.MaxComplexity
	}

	// Collect source files using the exclude patterns from config
	fileHelper := app.NewFileHelper()
	files, err := fileHelper.CollectSourceFiles(args, cfg.Analysis.Recursive,
		cfg.Analysis.IncludePatterns, cfg.Analysis.ExcludePatterns)
	if err != nil {
		return &CheckExitError{Code: 2, Message: fmt.Sprintf("failed to collect files: %v", err)}
	}

	if len(files) == 0 {
		return &CheckExitError{Code: 2, Message: "no supported source files found"}
	}

	// Create progress manager (auto-disabled for JSON output or non-TTY/CI)
	pm := service.NewProgressManager(!checkJSON)
	defer pm.Close()

	// Initialize result
	result := &domain.CheckResult{
		Passed:     true,
		ExitCode:   0,
		Violations: []domain.CheckViolation{},
		Summary: domain.CheckSummary{
			FilesAnalyzed: len(files),
		},
	}

	ctx := context.Background()

	// Run selected analyses
	if contains(checkSelectAnalyses, "complexity") {
		if err := checkComplexity(ctx, files, cfg, result, pm); err != nil {
			return &CheckExitError{Code: 2, Message: err.Error()}
		}
	}

	if contains(checkSelectAnalyses, "clones") {
		if err := checkClones(ctx, files, cfg, result, pm); err != nil {
			return &CheckExitError{Code: 2, Message: err.Error()}
		}
	}

	if contains(checkSelectAnalyses, "quality") {
		if err := checkQuality(ctx, files, cfg, result, pm); err != nil {
			return &CheckExitError{Code: 2, Message: err.Error()}
		}
	}

	return outputCheckResult(result, startTime)
}

func checkComplexity(ctx context.Context, files []string, cfg *config.Config, result *domain.CheckResult, pm domain.ProgressManager) error {
	result.Summary.ComplexityChecked = true

	svc := service.NewComplexityServiceWithProgress(&cfg.Complexity, pm)
	req := domain.ComplexityRequest{
		Paths:           files,
		MediumThreshold: cfg.Complexity.CyclomaticMedium,
		HighThreshold:   cfg.Complexity.CyclomaticHigh,
		SortBy:          domain.SortByComplexity,
	}

	resp, err := svc.Analyze(ctx, req)
	if err != nil {
		return fmt.Errorf("complexity analysis failed: %w", err)
	}

	// Check each function against threshold
	for _, fn := range resp.Functions {
		if fn.Metrics.Cyclomatic > checkMaxComplexity {
			result.Passed = false
			result.Summary.HighComplexityFunctions++
			result.Violations = append(result.Violations, domain.CheckViolation{
				Category:  "complexity",
				Rule:      "max-complexity",
				Severity:  "error",
				Message:   fmt.Sprintf("Function '%s' has complexity %d", fn.Name, fn.Metrics.Cyclomatic),
				Location:  fmt.Sprintf("%s:%d", fn.FilePath, fn.StartLine),
				Actual:    strconv.Itoa(fn.Metrics.Cyclomatic),
				Threshold: strconv.Itoa(checkMaxComplexity),
			})
		}
	}

	return nil
}

func checkClones(ctx context.Context, files []string, cfg *config.Config, result *domain.CheckResult, pm domain.ProgressManager) error {
	result.Summary.ClonesChecked = true

	svc := service.NewCloneServiceWithDefaults()
	svc.SetProgressManager(pm)

	req := service.CloneRequestFromConfig(cfg)
	resp, err := svc.DetectClonesInFiles(ctx, files, req)
	if err != nil {
		return fmt.Errorf("clone detection failed: %w", err)
	}

	result.Summary.ClonePairs = len(resp.ClonePairs)
	duplication := 0.0
	if resp.Statistics != nil {
		duplication = resp.Statistics.DuplicationPercentage
	}
	result.Summary.DuplicationPercentage = duplication

	if duplication > checkMaxDuplication {
		result.Passed = false
		result.Violations = append(result.Violations, domain.CheckViolation{
			Category:  "clones",
			Rule:      "max-duplication",
			Severity:  "error",
			Message:   fmt.Sprintf("Duplication %.1f%% exceeds the allowed maximum", duplication),
			Actual:    fmt.Sprintf("%.1f", duplication),
			Threshold: fmt.Sprintf("%.1f", checkMaxDuplication),
		})

		// Add details for each clone pair in verbose mode
		if checkVerbose {
			for _, pair := range resp.ClonePairs {
				if pair == nil || pair.Clone1 == nil || pair.Clone2 == nil {
					continue
				}
				result.Violations = append(result.Violations, domain.CheckViolation{
					Category: "clones",
					Rule:     "clone-pair",
					Severity: "warning",
					Message:  fmt.Sprintf("%s clone, similarity %.2f", pair.Type.String(), pair.Similarity),
					Location: fmt.Sprintf("%s <-> %s", pair.Clone1.Location.String(), pair.Clone2.Location.String()),
				})
			}
		}
	}

	return nil
}

func checkQuality(ctx context.Context, files []string, cfg *config.Config, result *domain.CheckResult, pm domain.ProgressManager) error {
	result.Summary.QualityChecked = true

	svc := service.NewQualityService(cfg)
	svc.SetProgressManager(pm)

	req := service.QualityRequestFromConfig(cfg)
	req.Paths = files

	resp, err := svc.Assess(ctx, req)
	if err != nil {
		return fmt.Errorf("quality assessment failed: %w", err)
	}

	if resp.Report == nil {
		return nil
	}
	index := resp.Report.OverallIndex
	result.Summary.MaintainabilityIndex = index

	if checkMinQuality > 0 && index < checkMinQuality {
		result.Passed = false
		result.Violations = append(result.Violations, domain.CheckViolation{
			Category:  "quality",
			Rule:      "min-quality",
			Severity:  "error",
			Message:   fmt.Sprintf("Maintainability index %.1f is below the required minimum", index),
			Actual:    fmt.Sprintf("%.1f", index),
			Threshold: fmt.Sprintf("%.1f", checkMinQuality),
		})
	}

	return nil
}

func outputCheckResult(result *domain.CheckResult, startTime time.Time) error {
	result.Duration = time.Since(startTime).Milliseconds()
	result.GeneratedAt = time.Now().Format(time.RFC3339)
	result.Version = version.Version
	result.ExitCode = 0
	if !result.Passed {
		result.ExitCode = 1
	}
	result.Summary.TotalViolations = len(result.Violations)

	if checkJSON {
		return outputCheckJSON(result)
	}

	return outputCheckText(result)
}

func outputCheckText(result *domain.CheckResult) error {
	if result.Passed {
		fmt.Println("PASS: All quality checks passed")
		if checkVerbose {
			fmt.Printf("  Files analyzed: %d\n", result.Summary.FilesAnalyzed)
			fmt.Printf("  Duration: %dms\n", result.Duration)
			if result.Summary.ComplexityChecked {
				fmt.Printf("  Complexity: checked (max: %d)\n", checkMaxComplexity)
			}
			if result.Summary.ClonesChecked {
				fmt.Printf("  Clones: checked (max duplication: %.1f%%)\n", checkMaxDuplication)
			}
			if result.Summary.QualityChecked {
				fmt.Printf("  Quality: checked (min index: %.1f)\n", checkMinQuality)
			}
		}
		return nil
	}

	fmt.Println("FAIL: Quality check failed")
	fmt.Printf("  Violations: %d\n", result.Summary.TotalViolations)

	// Print violations
	for _, v := range result.Violations {
		severity := "ERROR"
		if v.Severity == "warning" {
			severity = "WARN"
		}
		fmt.Printf("  [%s] %s: %s\n", severity, v.Category, v.Message)
		if checkVerbose && v.Location != "" {
			fmt.Printf("         at %s\n", v.Location)
		}
	}

	if checkVerbose {
		fmt.Printf("\nSummary:\n")
		fmt.Printf("  Files: %d\n", result.Summary.FilesAnalyzed)
		if result.Summary.ComplexityChecked {
			fmt.Printf("  High complexity functions: %d\n", result.Summary.HighComplexityFunctions)
		}
		if result.Summary.ClonesChecked {
			fmt.Printf("  Clone pairs: %d (%.1f%% duplication)\n",
				result.Summary.ClonePairs, result.Summary.DuplicationPercentage)
		}
		if result.Summary.QualityChecked {
			fmt.Printf("  Maintainability index: %.1f\n", result.Summary.MaintainabilityIndex)
		}
		fmt.Printf("  Duration: %dms\n", result.Duration)
	}

	return &CheckExitError{Code: 1, Message: ""}
}

func outputCheckJSON(result *domain.CheckResult) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(result); err != nil {
		return &CheckExitError{Code: 2, Message: fmt.Sprintf("failed to encode JSON: %v", err)}
	}

	if !result.Passed {
		return &CheckExitError{Code: 1, Message: ""}
	}
	return nil
}
