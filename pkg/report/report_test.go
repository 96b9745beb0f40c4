package report

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummary_Finish(t *testing.T) {
	start := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)
	end := start.Add(42 * time.Second)

	tests := []struct {
		name   string
		saved  bool
		dryRun bool
		err    error
		want   Status
	}{
		{name: "saved", saved: true, want: StatusSuccess},
		{name: "not saved", want: StatusUnchanged},
		{name: "dry run", dryRun: true, want: StatusDryRun},
		{name: "error wins", saved: true, err: errors.New("boom"), want: StatusFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSummary(3, start)
			s.Saved = tt.saved
			s.Finish(end, tt.dryRun, tt.err)

			assert.Equal(t, tt.want, s.Status)
			assert.Equal(t, 42*time.Second, s.Duration)
			if tt.err != nil {
				assert.Equal(t, "boom", s.Error)
			}
		})
	}
}

func TestNewSummary_UniqueRunIDs(t *testing.T) {
	a := NewSummary(1, time.Now())
	b := NewSummary(1, time.Now())
	assert.NotEmpty(t, a.RunID)
	assert.NotEqual(t, a.RunID, b.RunID)
}

func TestWriter_WriteAll(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "artifacts")
	start := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)

	s := NewSummary(7, start)
	s.WasLoggedIn = true
	s.Before = "Go engineer"
	s.After = "Go engineer."
	s.Saved = true
	s.Locators["edit"] = "//span[@class='edit']"
	s.Finish(start.Add(time.Second), false, nil)

	require.NoError(t, NewWriter(dir).WriteAll(s))

	data, err := os.ReadFile(filepath.Join(dir, "summary.json"))
	require.NoError(t, err)

	var decoded Summary
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, StatusSuccess, decoded.Status)
	assert.Equal(t, 7, decoded.RunNumber)
	assert.Equal(t, "Go engineer.", decoded.After)

	md, err := os.ReadFile(filepath.Join(dir, "summary.md"))
	require.NoError(t, err)
	assert.Contains(t, string(md), "**Status:** success")
	assert.Contains(t, string(md), "- edit: `//span[@class='edit']`")
	assert.NotContains(t, string(md), "## Error")
}

func TestMarkdown_IncludesError(t *testing.T) {
	s := NewSummary(1, time.Now())
	s.Finish(time.Now(), false, errors.New("save button not found"))

	md := Markdown(s)
	assert.Contains(t, md, "## Error")
	assert.Contains(t, md, "save button not found")
	assert.Contains(t, md, "**Status:** failed")
}
