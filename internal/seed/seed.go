// Package seed installs the sample projects shown on a fresh console. A
// YAML seed file can replace the built-in set.
package seed

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/playautopublish/console-backend/internal/projects/domain"
	"github.com/playautopublish/console-backend/internal/state"
)

// Apply fills an empty store with projects from the YAML file at path, or
// the built-in samples when path is empty. A non-empty store is left
// alone.
func Apply(store *state.Store, path string) error {
	if len(store.Projects()) > 0 {
		return nil
	}

	projects := Default()
	if path != "" {
		loaded, err := loadFile(path)
		if err != nil {
			return err
		}
		projects = loaded
	}

	for _, p := range projects {
		if err := store.AddProject(p); err != nil {
			return fmt.Errorf("seed project %q: %w", p.Name, err)
		}
	}
	return nil
}

type seedFile struct {
	Projects []seedProject `yaml:"projects"`
}

type seedProject struct {
	ID               string  `yaml:"id"`
	Name             string  `yaml:"name"`
	PackageName      string  `yaml:"package_name"`
	Status           string  `yaml:"status"`
	Version          string  `yaml:"version"`
	Track            string  `yaml:"track"`
	Progress         int     `yaml:"progress"`
	Title            string  `yaml:"title"`
	ShortDescription string  `yaml:"short_description"`
	FullDescription  string  `yaml:"full_description"`
	PrivacyPolicyURL *string `yaml:"privacy_policy_url"`
	Category         string  `yaml:"category"`
}

func loadFile(path string) ([]domain.Project, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}

	var f seedFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}

	out := make([]domain.Project, 0, len(f.Projects))
	for _, sp := range f.Projects {
		p := domain.Project{
			ID:          sp.ID,
			Name:        sp.Name,
			PackageName: sp.PackageName,
			Status:      sp.Status,
			Version:     sp.Version,
			Track:       sp.Track,
			LastUpdated: time.Now(),
			Progress:    sp.Progress,
			Assets:      domain.AssetBundle{Screenshots: []domain.ArtifactRef{}},
			Metadata: domain.Metadata{
				Title:            sp.Title,
				ShortDescription: sp.ShortDescription,
				FullDescription:  sp.FullDescription,
				Category:         sp.Category,
			},
			Errors: []domain.ProjectError{},
		}
		if sp.PrivacyPolicyURL != nil {
			p.Metadata.PrivacyPolicyURL = *sp.PrivacyPolicyURL
		}
		if p.ID == "" {
			p.ID = uuid.New().String()
		}
		if p.Status == "" {
			p.Status = domain.StatusDraft
		}
		if p.Track == "" {
			p.Track = domain.TrackInternal
		}
		if !domain.ValidStatus(p.Status) {
			return nil, fmt.Errorf("seed project %q: unknown status %q", p.Name, p.Status)
		}
		if !domain.ValidTrack(p.Track) {
			return nil, fmt.Errorf("seed project %q: unknown track %q", p.Name, p.Track)
		}
		out = append(out, p)
	}
	return out, nil
}

// Default returns the three sample listings a fresh console starts with.
func Default() []domain.Project {
	now := time.Now()
	return []domain.Project{
		{
			ID:          "1",
			Name:        "TaskMaster Pro",
			PackageName: "com.example.taskmaster",
			Status:      domain.StatusPublished,
			Version:     "1.2.3",
			Track:       domain.TrackProduction,
			LastUpdated: now.Add(-2 * 24 * time.Hour),
			Progress:    100,
			Assets:      domain.AssetBundle{Screenshots: []domain.ArtifactRef{}},
			Metadata: domain.Metadata{
				Title:            "TaskMaster Pro",
				ShortDescription: "Professional task management",
				FullDescription:  "A comprehensive task management application",
				PrivacyPolicyURL: "https://example.com/privacy",
				Category:         "Productivity",
			},
			Errors: []domain.ProjectError{},
		},
		{
			ID:          "2",
			Name:        "FoodieHub",
			PackageName: "com.example.foodiehub",
			Status:      domain.StatusProcessing,
			Version:     "2.1.0",
			Track:       domain.TrackBeta,
			LastUpdated: now.Add(-30 * time.Minute),
			Progress:    65,
			Assets:      domain.AssetBundle{Screenshots: []domain.ArtifactRef{}},
			Metadata: domain.Metadata{
				Title:            "FoodieHub",
				ShortDescription: "Discover amazing recipes",
				FullDescription:  "A food discovery and recipe sharing platform",
				PrivacyPolicyURL: "https://example.com/privacy",
				Category:         "Food & Drink",
			},
			Errors: []domain.ProjectError{},
		},
		{
			ID:          "3",
			Name:        "FitTracker",
			PackageName: "com.example.fittracker",
			Status:      domain.StatusError,
			Version:     "1.0.1",
			Track:       domain.TrackInternal,
			LastUpdated: now.Add(-1 * time.Hour),
			Progress:    0,
			Assets:      domain.AssetBundle{Screenshots: []domain.ArtifactRef{}},
			Metadata: domain.Metadata{
				Title:            "FitTracker",
				ShortDescription: "Track your fitness journey",
				FullDescription:  "A comprehensive fitness tracking application",
				PrivacyPolicyURL: "",
				Category:         "Health & Fitness",
			},
			Errors: []domain.ProjectError{{
				ID:          "1",
				Severity:    domain.SeverityError,
				Message:     "Privacy policy URL is required",
				Suggestion:  "Add a valid privacy policy URL",
				AutoFixable: false,
				Fixed:       false,
			}},
		},
	}
}
