package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFlushWritesTextExpositionFormat(t *testing.T) {
	m := New()
	m.StopsIngested.Add(3)
	m.RoutesIngested.Add(1)
	m.PreprocessDuration.Observe(0.05)

	path := filepath.Join(t.TempDir(), "run.metrics.prom")
	if err := m.Flush(path); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	text := string(data)

	for _, want := range []string{
		"transitcat_catalogue_stops_ingested_total 3",
		"transitcat_catalogue_routes_ingested_total 1",
		"transitcat_router_preprocess_duration_seconds_count 1",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("snapshot missing %q, got:\n%s", want, text)
		}
	}
}

func TestFlushOverwritesExistingSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.metrics.prom")
	if err := os.WriteFile(path, []byte("stale content that should be replaced"), 0o644); err != nil {
		t.Fatal(err)
	}

	m := New()
	if err := m.Flush(path); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "stale content") {
		t.Error("expected Flush to truncate the previous snapshot")
	}
}
