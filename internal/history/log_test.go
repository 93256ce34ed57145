package history

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestAppendWritesHeaderOnce(t *testing.T) {
	dir := t.TempDir()
	log := New(filepath.Join(dir, "applied.csv"), filepath.Join(dir, "failed.csv"), nil)

	rec := &Record{
		JobID:       "123",
		Title:       "Go Engineer",
		Company:     "Fine Inc",
		Skills:      []string{"Go", "SQL"},
		DateApplied: time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC),
	}

	if err := log.Append(rec); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rec.JobID = "456"
	if err := log.Append(rec); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	file, err := os.Open(filepath.Join(dir, "applied.csv"))
	if err != nil {
		t.Fatalf("open history: %v", err)
	}
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	if err != nil {
		t.Fatalf("read history: %v", err)
	}

	if len(rows) != 3 {
		t.Fatalf("expected header plus two rows, got %d", len(rows))
	}
	if rows[0][0] != "Job ID" || len(rows[0]) != 18 {
		t.Fatalf("unexpected header: %v", rows[0])
	}
	if rows[1][0] != "123" || rows[2][0] != "456" {
		t.Fatalf("unexpected rows: %v", rows[1:])
	}
	if rows[1][7] != "Go, SQL" {
		t.Fatalf("expected joined skills, got %q", rows[1][7])
	}
}

func TestAppliedJobIDsRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "applied.csv")
	log := New(path, filepath.Join(dir, "failed.csv"), nil)

	for _, id := range []string{"1", "2", "3"} {
		if err := log.Append(&Record{JobID: id, DateApplied: time.Now()}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	ids, err := AppliedJobIDs(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ids) != 3 || ids[0] != "1" || ids[2] != "3" {
		t.Fatalf("unexpected ids: %v", ids)
	}
}

func TestAppliedJobIDsMissingFile(t *testing.T) {
	ids, err := AppliedJobIDs(filepath.Join(t.TempDir(), "nope.csv"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ids) != 0 {
		t.Fatalf("expected empty set, got %v", ids)
	}
}

func TestAppendFailed(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "failed.csv")
	log := New(filepath.Join(dir, "applied.csv"), path, nil)

	rec := &FailedRecord{
		JobID:     "9",
		Title:     "Go Engineer",
		Reason:    "stuck in form loop",
		DateTried: time.Now(),
	}
	if err := log.AppendFailed(rec); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("open failed log: %v", err)
	}
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	if err != nil {
		t.Fatalf("read failed log: %v", err)
	}
	if len(rows) != 2 || rows[1][3] != "stuck in form loop" {
		t.Fatalf("unexpected rows: %v", rows)
	}
}
