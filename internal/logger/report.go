package logger

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ReportFileName returns the failure report name for a run day, e.g.
// "04_07_2022.txt". A second failure on the same day overwrites the first.
func ReportFileName(day time.Time) string {
	return day.Format("01_02_2006") + ".txt"
}

// WriteFailureReport writes err, its wrapped chain and stack to
// dir/MM_DD_YYYY.txt and returns the file path
func WriteFailureReport(dir string, at time.Time, runID string, err error, stack []byte) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating log directory: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "time: %s\n", at.UTC().Format(time.RFC3339))
	if runID != "" {
		fmt.Fprintf(&b, "run_id: %s\n", runID)
	}
	fmt.Fprintf(&b, "error: %v\n", err)

	b.WriteString("\ncause chain:\n")
	for depth, cur := 0, err; cur != nil; depth, cur = depth+1, errors.Unwrap(cur) {
		fmt.Fprintf(&b, "  %d: %T: %v\n", depth, cur, cur)
	}

	if len(stack) > 0 {
		b.WriteString("\nstack:\n")
		b.Write(stack)
		if !strings.HasSuffix(string(stack), "\n") {
			b.WriteString("\n")
		}
	}

	path := filepath.Join(dir, ReportFileName(at))
	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return "", fmt.Errorf("writing failure report: %w", err)
	}
	return path, nil
}
