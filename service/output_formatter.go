package service

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/ludo-technologies/codescan/domain"
)

// WriteJSON writes data as indented JSON to the writer
func WriteJSON(writer io.Writer, data interface{}) error {
	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// WriteYAML writes data as YAML to the writer
func WriteYAML(writer io.Writer, data interface{}) error {
	encoder := yaml.NewEncoder(writer)
	encoder.SetIndent(2)
	if err := encoder.Encode(data); err != nil {
		return err
	}
	return encoder.Close()
}

// ---------------------------------------------------------------------------
// Complexity output
// ---------------------------------------------------------------------------

// OutputFormatterImpl implements the OutputFormatter interface for
// complexity responses
type OutputFormatterImpl struct{}

// NewOutputFormatter creates a new output formatter
func NewOutputFormatter() *OutputFormatterImpl {
	return &OutputFormatterImpl{}
}

// Format renders the response as a string in the specified format
func (f *OutputFormatterImpl) Format(response *domain.ComplexityResponse, format domain.OutputFormat) (string, error) {
	var buf bytes.Buffer
	if err := f.Write(response, format, &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Write writes the complexity response in the specified format
func (f *OutputFormatterImpl) Write(response *domain.ComplexityResponse, format domain.OutputFormat, writer io.Writer) error {
	switch format {
	case domain.OutputFormatJSON:
		return WriteJSON(writer, response)
	case domain.OutputFormatYAML:
		return WriteYAML(writer, response)
	case domain.OutputFormatCSV:
		return f.writeCSV(response, writer)
	case domain.OutputFormatText:
		return f.writeText(response, writer)
	default:
		return domain.NewUnsupportedFormatError(string(format))
	}
}

// writeCSV writes one row per function
func (f *OutputFormatterImpl) writeCSV(response *domain.ComplexityResponse, writer io.Writer) error {
	w := csv.NewWriter(writer)

	header := []string{"name", "file", "start_line", "end_line", "cyclomatic", "cognitive", "max_nesting", "risk"}
	if err := w.Write(header); err != nil {
		return domain.NewOutputError("failed to write CSV header", err)
	}

	for _, fn := range response.Functions {
		row := []string{
			fn.Name,
			fn.FilePath,
			strconv.Itoa(fn.StartLine),
			strconv.Itoa(fn.EndLine),
			strconv.Itoa(fn.Metrics.Cyclomatic),
			strconv.Itoa(fn.Metrics.Cognitive),
			strconv.Itoa(fn.Metrics.MaxNesting),
			string(fn.RiskLevel),
		}
		if err := w.Write(row); err != nil {
			return domain.NewOutputError("failed to write CSV row", err)
		}
	}

	w.Flush()
	return w.Error()
}

// writeText writes the complexity response as plain text
func (f *OutputFormatterImpl) writeText(response *domain.ComplexityResponse, writer io.Writer) error {
	fmt.Fprintf(writer, "\n=== Complexity Analysis ===\n\n")
	fmt.Fprintf(writer, "Generated: %s\n", response.GeneratedAt)
	fmt.Fprintf(writer, "Version: %s\n\n", response.Version)

	fmt.Fprintf(writer, "Summary:\n")
	fmt.Fprintf(writer, "  Files analyzed: %d of %d\n", response.Summary.FilesAnalyzed, response.Summary.FilesSubmitted)
	fmt.Fprintf(writer, "  Total functions: %d\n", response.Summary.TotalFunctions)
	fmt.Fprintf(writer, "  Average complexity: %.2f\n", response.Summary.AverageComplexity)
	fmt.Fprintf(writer, "  Max complexity: %d\n", response.Summary.MaxComplexity)
	fmt.Fprintf(writer, "  Min complexity: %d\n", response.Summary.MinComplexity)
	fmt.Fprintf(writer, "\n")

	fmt.Fprintf(writer, "Risk Distribution:\n")
	fmt.Fprintf(writer, "  High risk: %d\n", response.Summary.HighRiskFunctions)
	fmt.Fprintf(writer, "  Medium risk: %d\n", response.Summary.MediumRiskFunctions)
	fmt.Fprintf(writer, "  Low risk: %d\n", response.Summary.LowRiskFunctions)
	fmt.Fprintf(writer, "\n")

	if len(response.Functions) > 0 {
		fmt.Fprintf(writer, "Functions:\n")
		for _, fn := range response.Functions {
			riskIndicator := ""
			switch fn.RiskLevel {
			case domain.RiskLevelHigh:
				riskIndicator = " [HIGH]"
			case domain.RiskLevelMedium:
				riskIndicator = " [MEDIUM]"
			}
			fmt.Fprintf(writer, "  %s: cyclomatic %d, cognitive %d, nesting %d%s\n",
				fn.Name, fn.Metrics.Cyclomatic, fn.Metrics.Cognitive, fn.Metrics.MaxNesting, riskIndicator)
			fmt.Fprintf(writer, "    File: %s:%d-%d\n", fn.FilePath, fn.StartLine, fn.EndLine)
		}
	}

	writeSkippedFiles(writer, response.SkippedFiles)
	writeStringList(writer, "Warnings", response.Warnings)
	writeStringList(writer, "Errors", response.Errors)

	return nil
}

// ---------------------------------------------------------------------------
// Clone output
// ---------------------------------------------------------------------------

// CloneOutputFormatterImpl implements the CloneOutputFormatter interface
type CloneOutputFormatterImpl struct{}

// NewCloneOutputFormatter creates a new clone output formatter
func NewCloneOutputFormatter() *CloneOutputFormatterImpl {
	return &CloneOutputFormatterImpl{}
}

// Format renders the response as a string in the specified format
func (f *CloneOutputFormatterImpl) Format(response *domain.CloneResponse, format domain.OutputFormat) (string, error) {
	var buf bytes.Buffer
	if err := f.Write(response, format, &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Write writes the clone response in the specified format
func (f *CloneOutputFormatterImpl) Write(response *domain.CloneResponse, format domain.OutputFormat, writer io.Writer) error {
	switch format {
	case domain.OutputFormatJSON:
		return WriteJSON(writer, response)
	case domain.OutputFormatYAML:
		return WriteYAML(writer, response)
	case domain.OutputFormatCSV:
		return f.writeCSV(response, writer)
	case domain.OutputFormatText:
		return f.writeText(response, writer)
	default:
		return domain.NewUnsupportedFormatError(string(format))
	}
}

// writeCSV writes one row per clone pair
func (f *CloneOutputFormatterImpl) writeCSV(response *domain.CloneResponse, writer io.Writer) error {
	w := csv.NewWriter(writer)

	header := []string{"file1", "start_line1", "end_line1", "file2", "start_line2", "end_line2", "similarity", "type", "confidence"}
	if err := w.Write(header); err != nil {
		return domain.NewOutputError("failed to write CSV header", err)
	}

	for _, pair := range response.ClonePairs {
		if pair.Clone1 == nil || pair.Clone1.Location == nil || pair.Clone2 == nil || pair.Clone2.Location == nil {
			continue
		}
		row := []string{
			pair.Clone1.Location.FilePath,
			strconv.Itoa(pair.Clone1.Location.StartLine),
			strconv.Itoa(pair.Clone1.Location.EndLine),
			pair.Clone2.Location.FilePath,
			strconv.Itoa(pair.Clone2.Location.StartLine),
			strconv.Itoa(pair.Clone2.Location.EndLine),
			fmt.Sprintf("%.4f", pair.Similarity),
			pair.Type.String(),
			fmt.Sprintf("%.4f", pair.Confidence),
		}
		if err := w.Write(row); err != nil {
			return domain.NewOutputError("failed to write CSV row", err)
		}
	}

	w.Flush()
	return w.Error()
}

// writeText writes the clone response as plain text
func (f *CloneOutputFormatterImpl) writeText(response *domain.CloneResponse, writer io.Writer) error {
	fmt.Fprintf(writer, "\n=== Clone Detection ===\n\n")
	fmt.Fprintf(writer, "Generated: %s\n", response.GeneratedAt)
	fmt.Fprintf(writer, "Version: %s\n\n", response.Version)

	stats := response.Statistics
	if stats != nil {
		fmt.Fprintf(writer, "Summary:\n")
		fmt.Fprintf(writer, "  Files analyzed: %d of %d\n", stats.FilesAnalyzed, stats.FilesSubmitted)
		fmt.Fprintf(writer, "  Lines analyzed: %d\n", stats.LinesAnalyzed)
		fmt.Fprintf(writer, "  Clone pairs: %d\n", stats.TotalClonePairs)
		fmt.Fprintf(writer, "  Clone groups: %d\n", stats.TotalCloneGroups)
		fmt.Fprintf(writer, "  Distinct fragments: %d\n", stats.TotalClones)
		fmt.Fprintf(writer, "  Average similarity: %.2f\n", stats.AverageSimilarity)
		fmt.Fprintf(writer, "  Duplication: %.1f%%\n", stats.DuplicationPercentage)
		fmt.Fprintf(writer, "\n")

		if len(stats.ClonesByType) > 0 {
			fmt.Fprintf(writer, "Clones by type:\n")
			for _, ct := range []domain.CloneType{domain.Type1Clone, domain.Type2Clone, domain.Type3Clone, domain.Type4Clone} {
				if n := stats.ClonesByType[ct.String()]; n > 0 {
					fmt.Fprintf(writer, "  %s: %d\n", ct.String(), n)
				}
			}
			fmt.Fprintf(writer, "\n")
		}
	}

	if len(response.CloneGroups) > 0 {
		fmt.Fprintf(writer, "Groups:\n")
		for _, group := range response.CloneGroups {
			fmt.Fprintf(writer, "  Group #%d: %s, similarity %.2f, %d fragments\n",
				group.ID, group.Type.String(), group.Similarity, group.Size)
			for _, clone := range group.Clones {
				if clone.Location != nil {
					fmt.Fprintf(writer, "    - %s\n", clone.Location.String())
				}
			}
		}
		fmt.Fprintf(writer, "\n")
	}

	if len(response.ClonePairs) > 0 {
		fmt.Fprintf(writer, "Pairs:\n")
		for _, pair := range response.ClonePairs {
			if pair.Clone1 == nil || pair.Clone1.Location == nil || pair.Clone2 == nil || pair.Clone2.Location == nil {
				continue
			}
			fmt.Fprintf(writer, "  %s <-> %s\n", pair.Clone1.Location.String(), pair.Clone2.Location.String())
			fmt.Fprintf(writer, "    similarity %.2f, %s, confidence %.2f\n", pair.Similarity, pair.Type.String(), pair.Confidence)
		}
	} else {
		fmt.Fprintf(writer, "No clones found.\n")
	}

	writeSkippedFiles(writer, response.SkippedFiles)
	writeStringList(writer, "Recommendations", response.Recommendations)
	writeStringList(writer, "Warnings", response.Warnings)
	writeStringList(writer, "Errors", response.Errors)

	return nil
}

// ---------------------------------------------------------------------------
// Quality output
// ---------------------------------------------------------------------------

// QualityOutputFormatterImpl implements the QualityOutputFormatter interface
type QualityOutputFormatterImpl struct{}

// NewQualityOutputFormatter creates a new quality output formatter
func NewQualityOutputFormatter() *QualityOutputFormatterImpl {
	return &QualityOutputFormatterImpl{}
}

// Format renders the response as a string in the specified format
func (f *QualityOutputFormatterImpl) Format(response *domain.QualityResponse, format domain.OutputFormat) (string, error) {
	var buf bytes.Buffer
	if err := f.Write(response, format, &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Write writes the quality response in the specified format
func (f *QualityOutputFormatterImpl) Write(response *domain.QualityResponse, format domain.OutputFormat, writer io.Writer) error {
	switch format {
	case domain.OutputFormatJSON:
		return WriteJSON(writer, response)
	case domain.OutputFormatYAML:
		return WriteYAML(writer, response)
	case domain.OutputFormatCSV:
		return f.writeCSV(response, writer)
	case domain.OutputFormatText:
		return f.writeText(response, writer)
	default:
		return domain.NewUnsupportedFormatError(string(format))
	}
}

// writeCSV writes one row per score category plus the overall index
func (f *QualityOutputFormatterImpl) writeCSV(response *domain.QualityResponse, writer io.Writer) error {
	w := csv.NewWriter(writer)

	header := []string{"category", "score", "weight", "contribution"}
	if err := w.Write(header); err != nil {
		return domain.NewOutputError("failed to write CSV header", err)
	}

	report := response.Report
	if report != nil {
		for _, category := range domain.ScoreCategories() {
			row := []string{
				category,
				fmt.Sprintf("%.2f", report.SubScores[category]),
				fmt.Sprintf("%.2f", report.Weights[category]),
				fmt.Sprintf("%.2f", report.Breakdown[category]),
			}
			if err := w.Write(row); err != nil {
				return domain.NewOutputError("failed to write CSV row", err)
			}
		}
		overall := []string{"overall", fmt.Sprintf("%.2f", report.OverallIndex), "", ""}
		if err := w.Write(overall); err != nil {
			return domain.NewOutputError("failed to write CSV row", err)
		}
	}

	w.Flush()
	return w.Error()
}

// writeText writes the quality response as plain text
func (f *QualityOutputFormatterImpl) writeText(response *domain.QualityResponse, writer io.Writer) error {
	fmt.Fprintf(writer, "\n=== Maintainability Report ===\n\n")
	fmt.Fprintf(writer, "Generated: %s\n", response.GeneratedAt)
	fmt.Fprintf(writer, "Version: %s\n\n", response.Version)

	report := response.Report
	if report != nil {
		fmt.Fprintf(writer, "Overall index: %.1f (%s)\n\n", report.OverallIndex, report.Level)

		fmt.Fprintf(writer, "Scores:\n")
		for _, category := range domain.ScoreCategories() {
			fmt.Fprintf(writer, "  %-14s %5.1f  (weight %.2f, contribution %.1f)\n",
				category, report.SubScores[category], report.Weights[category], report.Breakdown[category])
		}
		fmt.Fprintf(writer, "\n")

		writeStringList(writer, "Recommendations", report.Recommendations)
	}

	fmt.Fprintf(writer, "Files analyzed: %d of %d\n", response.FilesAnalyzed, response.FilesSubmitted)

	writeSkippedFiles(writer, response.SkippedFiles)
	writeStringList(writer, "Warnings", response.Warnings)
	writeStringList(writer, "Errors", response.Errors)

	return nil
}

// ---------------------------------------------------------------------------
// Combined analyze output
// ---------------------------------------------------------------------------

// WriteAnalyze writes the combined analysis response in the specified format
func (f *OutputFormatterImpl) WriteAnalyze(response *domain.AnalyzeResponse, format domain.OutputFormat, writer io.Writer) error {
	switch format {
	case domain.OutputFormatJSON:
		return WriteJSON(writer, response)
	case domain.OutputFormatYAML:
		return WriteYAML(writer, response)
	case domain.OutputFormatText:
		return f.writeAnalyzeText(response, writer)
	default:
		return domain.NewUnsupportedFormatError(string(format))
	}
}

// writeAnalyzeText writes the combined report as plain text
func (f *OutputFormatterImpl) writeAnalyzeText(response *domain.AnalyzeResponse, writer io.Writer) error {
	fmt.Fprintf(writer, "\n=== codescan Analysis Report ===\n")
	fmt.Fprintf(writer, "Generated: %s\n", response.GeneratedAt.Format("2006-01-02T15:04:05Z07:00"))
	fmt.Fprintf(writer, "Duration: %dms\n", response.Duration)
	fmt.Fprintf(writer, "Version: %s\n", response.Version)

	if response.Complexity != nil {
		if err := f.writeText(response.Complexity, writer); err != nil {
			return err
		}
	}

	if response.Clones != nil {
		cf := NewCloneOutputFormatter()
		if err := cf.writeText(response.Clones, writer); err != nil {
			return err
		}
	}

	if response.Quality != nil {
		qf := NewQualityOutputFormatter()
		if err := qf.writeText(response.Quality, writer); err != nil {
			return err
		}
	}

	summary := response.Summary
	fmt.Fprintf(writer, "\nOverall:\n")
	fmt.Fprintf(writer, "  Files: %d analyzed, %d skipped\n", summary.AnalyzedFiles, summary.SkippedFiles)
	if summary.QualityEnabled {
		fmt.Fprintf(writer, "  Maintainability: %.1f (%s)\n", summary.MaintainabilityIndex, summary.QualityLevel)
	}

	return nil
}

// ---------------------------------------------------------------------------
// Shared text helpers
// ---------------------------------------------------------------------------

// writeStringList writes a titled bullet list, omitting empty lists
func writeStringList(writer io.Writer, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(writer, "\n%s:\n", title)
	for _, item := range items {
		fmt.Fprintf(writer, "  - %s\n", item)
	}
}

// writeSkippedFiles writes skipped files with their reasons
func writeSkippedFiles(writer io.Writer, skipped []domain.SkippedFile) {
	if len(skipped) == 0 {
		return
	}
	fmt.Fprintf(writer, "\nSkipped files:\n")
	for _, s := range skipped {
		fmt.Fprintf(writer, "  - %s: %s\n", s.Path, s.Reason)
	}
}
