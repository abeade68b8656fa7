// Package config provides configuration management for pulse.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/randalmurphal/pulse/internal/errors"
	"github.com/randalmurphal/pulse/internal/util"
)

const (
	// ConfigFileName is the default config file name
	ConfigFileName = "config.yaml"
	// RegistryFileName is the user-curated projects registry file name
	RegistryFileName = "projects.yaml"
	// PulseDir is the pulse configuration and data directory
	PulseDir = ".pulse"
)

// ClassifierSettings tunes activity-to-project matching.
type ClassifierSettings struct {
	// Threshold is the minimum accumulated score for an assignment.
	// Activities scoring below it land in the uncategorized bucket.
	Threshold float64 `yaml:"threshold"`

	// HighConfidence marks assignments trustworthy enough for
	// automatic theme-status proposals.
	HighConfidence float64 `yaml:"high_confidence"`

	// KeywordOverrides force-maps a keyword found in activity text to a
	// project name, ahead of alias matching.
	KeywordOverrides map[string]string `yaml:"keyword_overrides,omitempty"`
}

// ClaudeSettings locates Claude Code session transcripts.
type ClaudeSettings struct {
	// ProjectsDir is the transcript root (default ~/.claude/projects).
	ProjectsDir string `yaml:"projects_dir"`
}

// GitHubSettings configures the optional hosted-git collector.
type GitHubSettings struct {
	Enabled bool   `yaml:"enabled"`
	Token   string `yaml:"token,omitempty"`
	User    string `yaml:"user,omitempty"`
}

// Settings represents the pulse configuration document.
type Settings struct {
	// Version is the config file version
	Version int `yaml:"version"`

	// ScanRoot is the directory walked by the filesystem and git
	// collectors and by project discovery.
	ScanRoot string `yaml:"scan_root"`

	// LookbackHours is the default collection window.
	LookbackHours int `yaml:"lookback_hours"`

	// ExcludeDirs are directory names skipped during walks.
	ExcludeDirs []string `yaml:"exclude_dirs,omitempty"`

	// ExcludePatterns are doublestar globs matched against relative paths.
	ExcludePatterns []string `yaml:"exclude_patterns,omitempty"`

	// Extensions are the file extensions of interest to the filesystem
	// collector. Empty means every regular file counts.
	Extensions []string `yaml:"extensions,omitempty"`

	// StalenessDays is how long a theme may go untouched before a
	// stale warning is proposed.
	StalenessDays int `yaml:"staleness_days"`

	// GitTimeout bounds each git subprocess call.
	GitTimeout time.Duration `yaml:"git_timeout"`

	Classifier ClassifierSettings `yaml:"classifier"`
	Claude     ClaudeSettings     `yaml:"claude"`
	GitHub     GitHubSettings     `yaml:"github"`

	// DataDir overrides where pulse keeps its documents
	// (default ~/.pulse).
	DataDir string `yaml:"data_dir,omitempty"`
}

// Default returns the default configuration.
func Default() *Settings {
	home, _ := os.UserHomeDir()
	return &Settings{
		Version:       1,
		ScanRoot:      home,
		LookbackHours: 24,
		ExcludeDirs: []string{
			"node_modules", ".git", ".venv", "venv", "__pycache__",
			".cache", ".Trash", "Library", ".npm", ".cargo",
		},
		ExcludePatterns: []string{
			"**/build/**", "**/dist/**", "**/target/**",
		},
		Extensions: []string{
			".py", ".js", ".ts", ".tsx", ".jsx", ".go", ".rs", ".java",
			".c", ".cpp", ".h", ".rb", ".swift", ".kt",
			".md", ".html", ".css", ".scss", ".yaml", ".yml", ".json",
			".sh", ".sql",
		},
		StalenessDays: 14,
		GitTimeout:    30 * time.Second,
		Classifier: ClassifierSettings{
			Threshold:      0.5,
			HighConfidence: 0.7,
		},
		Claude: ClaudeSettings{
			ProjectsDir: filepath.Join(home, ".claude", "projects"),
		},
	}
}

// Load loads the settings from the default locations, preferring the
// project-local .pulse directory over the home one.
func Load() (*Settings, error) {
	local := filepath.Join(PulseDir, ConfigFileName)
	if _, err := os.Stat(local); err == nil {
		return LoadFrom(local)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return LoadFrom(filepath.Join(home, PulseDir, ConfigFileName))
	}
	return LoadFrom(local)
}

// LoadFrom loads the settings from a specific path. A missing file yields
// the defaults so a fresh checkout works without any setup.
func LoadFrom(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := Default() // Start with defaults
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks fields the collectors depend on.
func (s *Settings) Validate() error {
	if s.LookbackHours <= 0 {
		return fmt.Errorf("invalid configuration: lookback_hours must be positive, got %d", s.LookbackHours)
	}
	if s.Classifier.Threshold < 0 || s.Classifier.Threshold > 1 {
		return fmt.Errorf("invalid configuration: classifier.threshold must be in [0,1], got %v", s.Classifier.Threshold)
	}
	if s.StalenessDays < 0 {
		return fmt.Errorf("invalid configuration: staleness_days must not be negative, got %d", s.StalenessDays)
	}
	return nil
}

// SaveTo saves the settings to a specific path.
func (s *Settings) SaveTo(path string) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return util.AtomicWriteFile(path, data, 0644)
}

// Home returns the directory holding config.yaml and projects.yaml:
// ./.pulse when present, else ~/.pulse.
func Home() string {
	if _, err := os.Stat(PulseDir); err == nil {
		return PulseDir
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, PulseDir)
	}
	return PulseDir
}

// ResolveDataDir returns the directory for persisted documents.
func (s *Settings) ResolveDataDir() string {
	if s.DataDir != "" {
		return s.DataDir
	}
	return Home()
}

// Document path helpers. Everything pulse persists lives under the data dir.

func (s *Settings) RoadmapPath() string {
	return filepath.Join(s.ResolveDataDir(), "roadmap.json")
}

func (s *Settings) RegistryPath() string {
	return filepath.Join(Home(), RegistryFileName)
}

func (s *Settings) ActivitiesDir() string {
	return filepath.Join(s.ResolveDataDir(), "activities")
}

func (s *Settings) SnapshotsPath() string {
	return filepath.Join(s.ResolveDataDir(), "history", "daily_snapshots.json")
}

func (s *Settings) RecapsDir() string {
	return filepath.Join(s.ResolveDataDir(), "recaps")
}

func (s *Settings) DailyDir() string {
	return filepath.Join(s.ResolveDataDir(), "daily")
}

func (s *Settings) WinsDir() string {
	return filepath.Join(s.ResolveDataDir(), "wins")
}

func (s *Settings) ReportsDir() string {
	return filepath.Join(s.ResolveDataDir(), "reports")
}

func (s *Settings) ArchivePath() string {
	return filepath.Join(s.ResolveDataDir(), "archive.db")
}

// Init initializes the pulse directory structure and writes the default
// config and an empty projects registry.
func Init(force bool) error {
	if !force {
		if _, err := os.Stat(PulseDir); err == nil {
			return fmt.Errorf("pulse already initialized (use --force to overwrite)")
		}
	}

	dirs := []string{
		PulseDir,
		filepath.Join(PulseDir, "activities"),
		filepath.Join(PulseDir, "history"),
		filepath.Join(PulseDir, "recaps"),
		filepath.Join(PulseDir, "daily"),
		filepath.Join(PulseDir, "wins"),
		filepath.Join(PulseDir, "reports"),
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	cfg := Default()
	if err := cfg.SaveTo(filepath.Join(PulseDir, ConfigFileName)); err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	registry := filepath.Join(PulseDir, RegistryFileName)
	if _, err := os.Stat(registry); os.IsNotExist(err) || force {
		seed := "# Projects registered here are matched against collected activity.\n" +
			"# See 'pulse discover' for suggestions based on your filesystem.\n" +
			"projects: []\n"
		if err := util.AtomicWriteFileString(registry, seed, 0644); err != nil {
			return fmt.Errorf("write registry: %w", err)
		}
	}

	return nil
}

// RequireInit returns a structured error when pulse has not been initialized.
// Commands that read or write pulse data call this first.
func RequireInit() error {
	if !IsInitialized() {
		return errors.ErrNotInitialized()
	}
	return nil
}

// IsInitialized returns true if pulse is initialized here or in $HOME.
func IsInitialized() bool {
	if _, err := os.Stat(PulseDir); err == nil {
		return true
	}
	if home, err := os.UserHomeDir(); err == nil {
		if _, err := os.Stat(filepath.Join(home, PulseDir)); err == nil {
			return true
		}
	}
	return false
}
