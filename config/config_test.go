package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "searchkit.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
alpha: 0.7
personalization_weight: 0.2
retrieval:
  dense_top_k: 100
  timeout: 300ms
ranker:
  kind: gbdt
  path: /models/gbdt.json
events:
  rebuild_interval: 10s
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Alpha != 0.7 {
		t.Fatalf("Alpha = %v, want 0.7", cfg.Alpha)
	}
	if cfg.PersonalizationWeight != 0.2 {
		t.Fatalf("PersonalizationWeight = %v, want 0.2", cfg.PersonalizationWeight)
	}
	if cfg.Retrieval.DenseTopK != 100 {
		t.Fatalf("DenseTopK = %d, want 100", cfg.Retrieval.DenseTopK)
	}
	if cfg.Retrieval.Timeout.Std() != 300*time.Millisecond {
		t.Fatalf("Timeout = %v, want 300ms", cfg.Retrieval.Timeout.Std())
	}
	if cfg.Ranker.Kind != "gbdt" {
		t.Fatalf("Ranker.Kind = %s, want gbdt", cfg.Ranker.Kind)
	}
	if cfg.Events.RebuildInterval.Std() != 10*time.Second {
		t.Fatalf("RebuildInterval = %v, want 10s", cfg.Events.RebuildInterval.Std())
	}
	// unset fields keep defaults
	if cfg.Events.Buffer != Default().Events.Buffer {
		t.Fatalf("Buffer = %d, want default %d", cfg.Events.Buffer, Default().Events.Buffer)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"alpha out of range", "alpha: 1.5\n"},
		{"negative personalization weight", "personalization_weight: -0.1\n"},
		{"malformed yaml", "alpha: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, tt.content)); err == nil {
				t.Fatal("Load() must fail")
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load("/does/not/exist.yaml"); err == nil {
		t.Fatal("Load() must fail on missing file")
	}
}
