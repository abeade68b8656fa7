package roadmap

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/randalmurphal/pulse/internal/util"
)

// Load reads the roadmap document at path. A missing file yields a fresh
// empty roadmap with a warning; any other failure is an error.
func Load(path string) (*Roadmap, error) {
	var r Roadmap
	if err := util.ReadJSONFile(path, &r); err != nil {
		if os.IsNotExist(err) {
			slog.Warn("roadmap not found, starting empty", "path", path)
			return New(), nil
		}
		return nil, fmt.Errorf("load roadmap: %w", err)
	}
	if r.Projects == nil {
		r.Projects = []*Project{}
	}
	if r.PendingChanges == nil {
		r.PendingChanges = []*ProposedChange{}
	}
	if err := r.Validate(); err != nil {
		return nil, fmt.Errorf("load roadmap: %w", err)
	}
	return &r, nil
}

// Save rewrites the roadmap document wholesale, stamping last_updated.
func (r *Roadmap) Save(path string) error {
	if r.Version == 0 {
		r.Version = 1
	}
	r.LastUpdated = time.Now().UTC()
	if err := util.WriteJSONFile(path, r); err != nil {
		return fmt.Errorf("save roadmap: %w", err)
	}
	return nil
}

// Registry is the user-curated projects seed file (projects.yaml). It holds
// registration data only; themes accumulate in the roadmap document.
type Registry struct {
	Projects []*Project `yaml:"projects"`
}

// LoadRegistry reads the projects registry. Missing files are an empty
// registry, logged as a warning.
func LoadRegistry(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			slog.Warn("projects registry not found", "path", path)
			return &Registry{}, nil
		}
		return nil, fmt.Errorf("read registry: %w", err)
	}
	var reg Registry
	if err := yaml.Unmarshal(data, &reg); err != nil {
		return nil, fmt.Errorf("parse registry: %w", err)
	}
	return &reg, nil
}

// SyncRegistry folds registry entries into the roadmap: unknown projects are
// added, known ones get their registration fields refreshed (themes and
// pending changes are left alone). Returns how many were added and updated.
func (r *Roadmap) SyncRegistry(reg *Registry) (added, updated int) {
	for _, seed := range reg.Projects {
		if seed.Name == "" {
			slog.Warn("skipping registry entry without a name", "id", seed.ID)
			continue
		}
		existing := r.FindProject(seed.Name)
		if existing == nil {
			p := &Project{
				ID:         seed.ID,
				Name:       seed.Name,
				Team:       seed.Team,
				FolderPath: seed.FolderPath,
				Aliases:    seed.Aliases,
				Channels:   seed.Channels,
				Private:    seed.Private,
				Themes:     []*Theme{},
			}
			if p.ID == "" {
				p.ID = Slugify(p.Name)
			}
			r.Projects = append(r.Projects, p)
			added++
			continue
		}
		changed := existing.Team != seed.Team ||
			existing.FolderPath != seed.FolderPath ||
			existing.Private != seed.Private ||
			!equalStrings(existing.Aliases, seed.Aliases) ||
			!equalStrings(existing.Channels, seed.Channels)
		if changed {
			existing.Team = seed.Team
			existing.FolderPath = seed.FolderPath
			existing.Aliases = seed.Aliases
			existing.Channels = seed.Channels
			existing.Private = seed.Private
			updated++
		}
	}
	return added, updated
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
