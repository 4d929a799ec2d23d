package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rupor-github/gencfg"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	return path
}

func TestLoadConfiguration_NoFile(t *testing.T) {
	cfg, err := LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() with empty path error = %v", err)
	}

	if cfg.Version != 1 {
		t.Errorf("Default config version = %d, want 1", cfg.Version)
	}
	if cfg.Analysis.TreeName != "events" {
		t.Errorf("TreeName = %q, want events", cfg.Analysis.TreeName)
	}
	if cfg.Jets.Algorithm != AlgorithmAntikt {
		t.Errorf("Algorithm = %v, want antikt", cfg.Jets.Algorithm)
	}
	if cfg.Jets.Radius != 0.4 {
		t.Errorf("Radius = %v, want 0.4", cfg.Jets.Radius)
	}
	if cfg.Matching.MaxDeltaR != 0.4 {
		t.Errorf("MaxDeltaR = %v, want 0.4", cfg.Matching.MaxDeltaR)
	}

	var names []string
	for _, job := range cfg.Batch.Jobs {
		names = append(names, job.Name)
	}
	if diff := cmp.Diff([]string{"histos", "dataCut", "dataGenJets"}, names); diff != "" {
		t.Errorf("default jobs mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadConfiguration_JobTemplatesNotExpanded(t *testing.T) {
	cfg, err := LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	job, ok := cfg.Job("dataCut")
	if !ok {
		t.Fatal("dataCut job not found")
	}
	if !strings.Contains(job.Histos, "{{ .Job }}") {
		t.Errorf("histos template was expanded at load time: %q", job.Histos)
	}
	if job.Collection != CollectionPf || !job.Cuts {
		t.Errorf("dataCut = %+v, want pf collection with cuts", job)
	}
	gen, _ := cfg.Job("dataGenJets")
	if gen.Collection != CollectionGen {
		t.Errorf("dataGenJets collection = %v, want gen", gen.Collection)
	}
}

func TestLoadConfiguration_WithFile(t *testing.T) {
	path := writeConfig(t, `version: 1
analysis:
  tree_name: tt
  max_events: 100
jets:
  algorithm: cambridge
  radius: 0.8
  pt_min: 25
  collection: gen
cuts:
  jet_pt_min: 40
  require_all_matched: false
batch:
  parallel: 3
  jobs:
    - name: only
      input: a.root
      histos: a_h.root
      info: a.txt
logging:
  console:
    level: debug
`)

	cfg, err := LoadConfiguration(path)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	if cfg.Analysis.TreeName != "tt" || cfg.Analysis.MaxEvents != 100 {
		t.Errorf("Analysis = %+v", cfg.Analysis)
	}
	want := JetsConfig{Algorithm: AlgorithmCambridge, Radius: 0.8, PtMin: 25, Collection: CollectionGen}
	if diff := cmp.Diff(want, cfg.Jets); diff != "" {
		t.Errorf("Jets mismatch (-want +got):\n%s", diff)
	}
	if cfg.Cuts.JetPtMin != 40 || cfg.Cuts.RequireAllMatched {
		t.Errorf("Cuts = %+v", cfg.Cuts)
	}
	// untouched values keep defaults
	if cfg.Cuts.JetEtaMax != 2.4 {
		t.Errorf("JetEtaMax = %v, want default 2.4", cfg.Cuts.JetEtaMax)
	}
	if cfg.Batch.Parallel != 3 || len(cfg.Batch.Jobs) != 1 {
		t.Errorf("Batch = %+v, want single job with parallel 3", cfg.Batch)
	}
	if cfg.Logging.ConsoleLogger.Level != "debug" {
		t.Errorf("console level = %q, want debug", cfg.Logging.ConsoleLogger.Level)
	}
}

func TestLoadConfiguration_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"invalid yaml", "version: 1\njets:\n  radius: 0.4\n  invalid indent\n"},
		{"unknown field", "version: 1\nunknown_field: value\n"},
		{"wrong version", "version: 2\n"},
		{"bad algorithm", "version: 1\njets:\n  algorithm: siscone\n"},
		{"bad collection", "version: 1\njets:\n  collection: calo\n"},
		{"zero radius", "version: 1\njets:\n  radius: 0\n"},
		{"negative cut", "version: 1\ncuts:\n  jet_pt_min: -1\n"},
		{"zero parallel", "version: 1\nbatch:\n  parallel: 0\n"},
		{"job without input", "version: 1\nbatch:\n  jobs:\n    - name: a\n      histos: a.root\n      info: a.txt\n"},
		{"duplicate job names", `version: 1
batch:
  jobs:
    - name: a
      input: in.root
      histos: a.root
      info: a.txt
    - name: a
      input: in.root
      histos: b.root
      info: b.txt
`},
		{"shared outputs", `version: 1
batch:
  jobs:
    - name: a
      input: in.root
      histos: same.root
      info: a.txt
    - name: b
      input: in.root
      histos: same.root
      info: b.txt
`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadConfiguration(writeConfig(t, tt.content)); err == nil {
				t.Error("Expected error, got nil")
			}
		})
	}
}

func TestLoadConfiguration_NonExistentFile(t *testing.T) {
	if _, err := LoadConfiguration("/nonexistent/config.yaml"); err == nil {
		t.Error("Expected error for nonexistent file")
	}
}

func TestLoadConfiguration_WithOptions(t *testing.T) {
	option := func(opts *gencfg.ProcessingOptions) {}

	cfg, err := LoadConfiguration("", option)
	if err != nil {
		t.Fatalf("LoadConfiguration() with options error = %v", err)
	}
	if cfg == nil {
		t.Fatal("LoadConfiguration() returned nil config")
	}
}

func TestPrepare(t *testing.T) {
	data, err := Prepare()
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	if _, err = unmarshalConfig(data, &Config{}, true); err != nil {
		t.Errorf("Prepared config is not valid: %v", err)
	}
}

func TestDump(t *testing.T) {
	cfg, err := LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	data, err := Dump(cfg)
	if err != nil {
		t.Fatalf("Dump() error = %v", err)
	}
	// enums are written by name
	if !strings.Contains(string(data), "algorithm: antikt") {
		t.Errorf("dumped config does not contain algorithm name:\n%s", data)
	}

	cfg2, err := unmarshalConfig(data, &Config{}, false)
	if err != nil {
		t.Fatalf("Dumped config cannot be loaded: %v", err)
	}
	if diff := cmp.Diff(cfg, cfg2); diff != "" {
		t.Errorf("dump/load mismatch (-want +got):\n%s", diff)
	}
}

func TestEnums(t *testing.T) {
	for _, name := range AlgorithmNames() {
		a, err := ParseAlgorithm(name)
		if err != nil {
			t.Errorf("ParseAlgorithm(%q) error = %v", name, err)
		}
		if a.String() != name {
			t.Errorf("String() = %q, want %q", a.String(), name)
		}
	}
	if _, err := ParseCollection("calo"); !errors.Is(err, ErrInvalidCollection) {
		t.Errorf("ParseCollection(calo) error = %v, want ErrInvalidCollection", err)
	}
	if Collection(7).IsValid() {
		t.Error("Collection(7) reported as valid")
	}
}
