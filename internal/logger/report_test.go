package logger

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestReportFileName(t *testing.T) {
	day := time.Date(2022, time.April, 7, 23, 59, 0, 0, time.UTC)
	if got := ReportFileName(day); got != "04_07_2022.txt" {
		t.Errorf("ReportFileName() = %q, want 04_07_2022.txt", got)
	}
}

func TestWriteFailureReport(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	at := time.Date(2022, time.April, 7, 12, 0, 0, 0, time.UTC)

	root := errors.New("table \"#team_batting\" not found")
	err := fmt.Errorf("fetching roster: %w", fmt.Errorf("team NYY: %w", root))

	path, writeErr := WriteFailureReport(dir, at, "run-123", err, []byte("goroutine 1 [running]:\nmain.main()"))
	if writeErr != nil {
		t.Fatalf("WriteFailureReport() error = %v", writeErr)
	}
	if path != filepath.Join(dir, "04_07_2022.txt") {
		t.Errorf("path = %q", path)
	}

	data, readErr := os.ReadFile(path)
	if readErr != nil {
		t.Fatal(readErr)
	}
	report := string(data)

	for _, want := range []string{
		"time: 2022-04-07T12:00:00Z",
		"run_id: run-123",
		"error: fetching roster: team NYY:",
		"  2: *errors.errorString:",
		"stack:\ngoroutine 1 [running]:",
	} {
		if !strings.Contains(report, want) {
			t.Errorf("report missing %q:\n%s", want, report)
		}
	}
}

func TestWriteFailureReport_Overwrites(t *testing.T) {
	dir := t.TempDir()
	at := time.Date(2022, time.April, 7, 12, 0, 0, 0, time.UTC)

	if _, err := WriteFailureReport(dir, at, "", errors.New("first"), nil); err != nil {
		t.Fatal(err)
	}
	path, err := WriteFailureReport(dir, at, "", errors.New("second"), nil)
	if err != nil {
		t.Fatal(err)
	}

	data, _ := os.ReadFile(path)
	if strings.Contains(string(data), "first") || !strings.Contains(string(data), "second") {
		t.Errorf("report should be overwritten:\n%s", data)
	}
	if strings.Contains(string(data), "stack:") {
		t.Error("report without stack should have no stack section")
	}
}
