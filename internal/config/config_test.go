package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Version != 1 {
		t.Errorf("Version = %d, want 1", cfg.Version)
	}
	if cfg.LookbackHours != 24 {
		t.Errorf("LookbackHours = %d, want 24", cfg.LookbackHours)
	}
	if cfg.Classifier.Threshold != 0.5 {
		t.Errorf("Classifier.Threshold = %v, want 0.5", cfg.Classifier.Threshold)
	}
	if cfg.GitTimeout != 30*time.Second {
		t.Errorf("GitTimeout = %v, want 30s", cfg.GitTimeout)
	}
	if len(cfg.ExcludeDirs) == 0 {
		t.Error("expected default exclude dirs")
	}
}

func TestLoadFrom_Missing(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}
	// Missing config falls back to defaults.
	if cfg.LookbackHours != 24 {
		t.Errorf("LookbackHours = %d, want default 24", cfg.LookbackHours)
	}
}

func TestLoadFrom_MergesOverDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
scan_root: /code
lookback_hours: 72
classifier:
  threshold: 0.6
  keyword_overrides:
    invoicing: Billing
github:
  enabled: true
  user: someone
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}

	if cfg.ScanRoot != "/code" {
		t.Errorf("ScanRoot = %q, want /code", cfg.ScanRoot)
	}
	if cfg.LookbackHours != 72 {
		t.Errorf("LookbackHours = %d, want 72", cfg.LookbackHours)
	}
	if cfg.Classifier.Threshold != 0.6 {
		t.Errorf("Classifier.Threshold = %v, want 0.6", cfg.Classifier.Threshold)
	}
	if cfg.Classifier.KeywordOverrides["invoicing"] != "Billing" {
		t.Errorf("KeywordOverrides = %v", cfg.Classifier.KeywordOverrides)
	}
	if !cfg.GitHub.Enabled || cfg.GitHub.User != "someone" {
		t.Errorf("GitHub = %+v", cfg.GitHub)
	}
	// Untouched fields keep their defaults.
	if cfg.StalenessDays != 14 {
		t.Errorf("StalenessDays = %d, want default 14", cfg.StalenessDays)
	}
}

func TestLoadFrom_Invalid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("lookback_hours: -4\n"), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	if _, err := LoadFrom(path); err == nil {
		t.Error("expected validation error for negative lookback_hours")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Settings)
		wantErr bool
	}{
		{"defaults are valid", func(s *Settings) {}, false},
		{"zero lookback", func(s *Settings) { s.LookbackHours = 0 }, true},
		{"threshold above one", func(s *Settings) { s.Classifier.Threshold = 1.5 }, true},
		{"negative staleness", func(s *Settings) { s.StalenessDays = -1 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSaveToRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	cfg := Default()
	cfg.ScanRoot = "/work"
	cfg.LookbackHours = 48
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo failed: %v", err)
	}

	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}
	if loaded.ScanRoot != "/work" || loaded.LookbackHours != 48 {
		t.Errorf("round trip mismatch: %+v", loaded)
	}
}

func TestInit(t *testing.T) {
	dir := t.TempDir()
	cwd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd failed: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Chdir failed: %v", err)
	}
	defer os.Chdir(cwd)

	if err := Init(false); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	for _, p := range []string{
		filepath.Join(PulseDir, ConfigFileName),
		filepath.Join(PulseDir, RegistryFileName),
		filepath.Join(PulseDir, "activities"),
	} {
		if _, err := os.Stat(p); err != nil {
			t.Errorf("expected %s to exist: %v", p, err)
		}
	}

	// Second init without force refuses.
	if err := Init(false); err == nil {
		t.Error("expected error on re-init without force")
	}
	if err := Init(true); err != nil {
		t.Errorf("Init(force) failed: %v", err)
	}
}

func TestDataDirOverride(t *testing.T) {
	cfg := Default()
	cfg.DataDir = "/var/lib/pulse"

	if got := cfg.RoadmapPath(); got != "/var/lib/pulse/roadmap.json" {
		t.Errorf("RoadmapPath = %q", got)
	}
	if got := cfg.ActivitiesDir(); got != "/var/lib/pulse/activities" {
		t.Errorf("ActivitiesDir = %q", got)
	}
	if got := cfg.ArchivePath(); got != "/var/lib/pulse/archive.db" {
		t.Errorf("ArchivePath = %q", got)
	}
}
