package history

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "history.db")
	db, err := Open(context.Background(), dbPath)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return NewStore(db)
}

func TestRecordAndRecentRoundtrip(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)
	started := time.Now().Add(-time.Minute)

	rec := RunRecord{
		Pipeline:         "local",
		Outcome:          OutcomeSuccess,
		RequirementsHash: "abc123",
		Started:          started,
		Finished:         started.Add(30 * time.Second),
		Steps: []StepRecord{
			{Name: "venv-create", Status: "succeeded", Duration: 2 * time.Second},
			{Name: "pytest", Status: "succeeded", Duration: 20 * time.Second},
		},
	}
	if err := s.Record(context.Background(), rec); err != nil {
		t.Fatalf("Record: %v", err)
	}

	recs, err := s.Recent(context.Background(), 5)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(recs))
	}
	got := recs[0]
	if got.ID == "" {
		t.Fatal("expected generated run ID")
	}
	if got.Pipeline != "local" || got.Outcome != OutcomeSuccess || got.RequirementsHash != "abc123" {
		t.Fatalf("unexpected run: %+v", got)
	}
	if len(got.Steps) != 2 || got.Steps[0].Name != "venv-create" || got.Steps[1].Name != "pytest" {
		t.Fatalf("unexpected steps: %+v", got.Steps)
	}
	if got.Steps[1].Duration != 20*time.Second {
		t.Fatalf("unexpected duration: %v", got.Steps[1].Duration)
	}
}

func TestRecentOrdersNewestFirst(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)
	base := time.Now().Add(-time.Hour)

	for i, pipeline := range []string{"local", "test", "docker"} {
		rec := RunRecord{
			Pipeline: pipeline,
			Outcome:  OutcomeSuccess,
			Started:  base.Add(time.Duration(i) * time.Minute),
			Finished: base.Add(time.Duration(i)*time.Minute + 10*time.Second),
		}
		if err := s.Record(context.Background(), rec); err != nil {
			t.Fatalf("Record %s: %v", pipeline, err)
		}
	}

	recs, err := s.Recent(context.Background(), 2)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(recs))
	}
	if recs[0].Pipeline != "docker" || recs[1].Pipeline != "test" {
		t.Fatalf("expected newest first, got %s, %s", recs[0].Pipeline, recs[1].Pipeline)
	}
}

func TestLastFingerprintIgnoresFailures(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)
	base := time.Now().Add(-time.Hour)

	runs := []RunRecord{
		{Pipeline: "local", Outcome: OutcomeSuccess, RequirementsHash: "old", Started: base, Finished: base},
		{Pipeline: "local", Outcome: OutcomeFailure, RequirementsHash: "broken", Started: base.Add(time.Minute), Finished: base.Add(time.Minute)},
	}
	for _, rec := range runs {
		if err := s.Record(context.Background(), rec); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	hash, err := s.LastFingerprint(context.Background(), "local")
	if err != nil {
		t.Fatalf("LastFingerprint: %v", err)
	}
	if hash != "old" {
		t.Fatalf("expected fingerprint of last successful run, got %q", hash)
	}
}

func TestLastFingerprintEmptyHistory(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)
	hash, err := s.LastFingerprint(context.Background(), "local")
	if err != nil {
		t.Fatalf("LastFingerprint: %v", err)
	}
	if hash != "" {
		t.Fatalf("expected empty fingerprint, got %q", hash)
	}
}

func TestFingerprintStableAndSensitive(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	manifest := filepath.Join(dir, "requirements.txt")
	if err := os.WriteFile(manifest, []byte("librosa==0.10.1\nnumpy>=1.24\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	h1, err := Fingerprint(manifest)
	if err != nil {
		t.Fatalf("Fingerprint: %v", err)
	}
	h2, err := Fingerprint(manifest)
	if err != nil {
		t.Fatalf("Fingerprint: %v", err)
	}
	if h1 != h2 {
		t.Fatalf("expected stable hash, got %q vs %q", h1, h2)
	}

	if err := os.WriteFile(manifest, []byte("librosa==0.10.2\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	h3, err := Fingerprint(manifest)
	if err != nil {
		t.Fatalf("Fingerprint: %v", err)
	}
	if h3 == h1 {
		t.Fatal("expected hash to change with manifest contents")
	}
}

func TestFingerprintMissingManifest(t *testing.T) {
	t.Parallel()

	if _, err := Fingerprint(filepath.Join(t.TempDir(), "absent.txt")); err == nil {
		t.Fatal("expected error for missing manifest")
	}
}
