// Package runlog maintains the append-only run counter file.
//
// Each run appends one line of the form:
//
//	Run #N at dd-mm-yy HH:MM:SS
//
// The next N is derived from the last line of the file. A missing, unreadable
// or malformed file restarts the count at 1.
package runlog

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const (
	// TimestampLayout renders as dd-mm-yy HH:MM:SS.
	TimestampLayout = "02-01-06 15:04:05"

	linePrefix = "Run #"
)

// Entry is a single recorded run.
type Entry struct {
	Number int
	Time   time.Time
}

// String formats the entry the way it is written to the file.
func (e Entry) String() string {
	return fmt.Sprintf("%s%d at %s", linePrefix, e.Number, e.Time.Format(TimestampLayout))
}

// Record appends the next run entry to the file at path and returns it.
func Record(path string, now time.Time) (Entry, error) {
	entry := Entry{
		Number: LastNumber(path) + 1,
		Time:   now,
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return entry, fmt.Errorf("failed to create run log directory: %w", err)
		}
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return entry, fmt.Errorf("failed to open run log: %w", err)
	}
	defer file.Close()

	if _, err := file.WriteString(entry.String() + "\n"); err != nil {
		return entry, fmt.Errorf("failed to append run log entry: %w", err)
	}

	return entry, nil
}

// LastNumber returns the run number on the last line of the file, or 0 when
// the file is missing, empty or its last line cannot be parsed.
func LastNumber(path string) int {
	file, err := os.Open(path)
	if err != nil {
		return 0
	}
	defer file.Close()

	var last string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			last = line
		}
	}
	if scanner.Err() != nil {
		return 0
	}

	return parseNumber(last)
}

func parseNumber(line string) int {
	if !strings.HasPrefix(line, linePrefix) {
		return 0
	}

	fields := strings.Fields(line)
	if len(fields) < 2 {
		return 0
	}

	n, err := strconv.Atoi(strings.TrimPrefix(fields[1], "#"))
	if err != nil || n < 0 {
		return 0
	}
	return n
}
