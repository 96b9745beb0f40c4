// Package report records the outcome of a run and writes it as artifacts.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Status is the overall outcome of a run.
type Status string

const (
	// StatusSuccess means the headline was toggled and saved.
	StatusSuccess Status = "success"
	// StatusUnchanged means the toggle produced the same value; nothing was saved.
	StatusUnchanged Status = "unchanged"
	// StatusDryRun means the new value was computed but not written.
	StatusDryRun Status = "dry-run"
	// StatusFailed means the run ended with an error.
	StatusFailed Status = "failed"
)

// Summary describes a single run.
type Summary struct {
	RunID     string        `json:"run_id"`
	RunNumber int           `json:"run_number"`
	Status    Status        `json:"status"`
	StartTime time.Time     `json:"start_time"`
	EndTime   time.Time     `json:"end_time"`
	Duration  time.Duration `json:"duration"`

	WasLoggedIn    bool `json:"was_logged_in"`
	LoginPerformed bool `json:"login_performed"`

	Before string `json:"before"`
	After  string `json:"after"`
	Saved  bool   `json:"saved"`

	// Locators maps a fallback chain name to the XPath that matched.
	Locators map[string]string `json:"locators,omitempty"`

	Error string `json:"error,omitempty"`
}

// NewSummary starts a summary for run number runNumber.
func NewSummary(runNumber int, start time.Time) *Summary {
	return &Summary{
		RunID:     uuid.New().String(),
		RunNumber: runNumber,
		StartTime: start,
		Locators:  make(map[string]string),
	}
}

// Finish stamps the end time and derives the status.
func (s *Summary) Finish(end time.Time, dryRun bool, err error) {
	s.EndTime = end
	s.Duration = end.Sub(s.StartTime)

	switch {
	case err != nil:
		s.Status = StatusFailed
		s.Error = err.Error()
	case dryRun:
		s.Status = StatusDryRun
	case s.Saved:
		s.Status = StatusSuccess
	default:
		s.Status = StatusUnchanged
	}
}

// Writer writes run artifacts into a directory.
type Writer struct {
	outputDir string
}

// NewWriter creates a writer rooted at outputDir.
func NewWriter(outputDir string) *Writer {
	return &Writer{outputDir: outputDir}
}

// WriteAll writes summary.json and summary.md.
func (w *Writer) WriteAll(summary *Summary) error {
	if err := os.MkdirAll(w.outputDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if err := w.WriteJSON(summary); err != nil {
		return err
	}

	return w.WriteMarkdown(summary)
}

// WriteJSON writes the summary as indented JSON.
func (w *Writer) WriteJSON(summary *Summary) error {
	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal run summary: %w", err)
	}

	path := filepath.Join(w.outputDir, "summary.json")
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write run summary JSON: %w", err)
	}
	return nil
}

// WriteMarkdown writes a human-readable summary.
func (w *Writer) WriteMarkdown(summary *Summary) error {
	path := filepath.Join(w.outputDir, "summary.md")
	if err := os.WriteFile(path, []byte(Markdown(summary)), 0600); err != nil {
		return fmt.Errorf("failed to write run summary markdown: %w", err)
	}
	return nil
}

// Markdown renders the summary as Markdown.
func Markdown(summary *Summary) string {
	var md strings.Builder

	md.WriteString("# Headline Run Summary\n\n")
	md.WriteString(fmt.Sprintf("**Run:** #%d (%s)\n\n", summary.RunNumber, summary.RunID))
	md.WriteString(fmt.Sprintf("**Status:** %s\n\n", summary.Status))
	md.WriteString(fmt.Sprintf("**Started:** %s\n\n", summary.StartTime.Format(time.RFC3339)))
	md.WriteString(fmt.Sprintf("**Duration:** %s\n\n", summary.Duration.Round(time.Millisecond)))

	md.WriteString("## Session\n\n")
	md.WriteString(fmt.Sprintf("- Already logged in: %t\n", summary.WasLoggedIn))
	md.WriteString(fmt.Sprintf("- Login performed: %t\n\n", summary.LoginPerformed))

	md.WriteString("## Headline\n\n")
	md.WriteString(fmt.Sprintf("- Before: `%s`\n", summary.Before))
	md.WriteString(fmt.Sprintf("- After: `%s`\n", summary.After))
	md.WriteString(fmt.Sprintf("- Saved: %t\n", summary.Saved))

	if len(summary.Locators) > 0 {
		md.WriteString("\n## Locators\n\n")
		names := make([]string, 0, len(summary.Locators))
		for name := range summary.Locators {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			md.WriteString(fmt.Sprintf("- %s: `%s`\n", name, summary.Locators[name]))
		}
	}

	if summary.Error != "" {
		md.WriteString("\n## Error\n\n")
		md.WriteString(fmt.Sprintf("```\n%s\n```\n", summary.Error))
	}

	return md.String()
}
