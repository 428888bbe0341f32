package service

import (
	"time"

	"github.com/google/uuid"

	"github.com/playautopublish/console-backend/internal/projects/domain"
	"github.com/playautopublish/console-backend/internal/state"
)

// ProjectService owns project lifecycle operations on top of the state
// store: draft creation, typed patch updates, deletion and selection.
type ProjectService struct {
	store *state.Store
}

func NewProjectService(store *state.Store) *ProjectService {
	return &ProjectService{store: store}
}

// CreateDraftRequest carries the optional fields of a new draft; zero
// values fall back to the console defaults.
type CreateDraftRequest struct {
	Name        string
	PackageName string
	Version     string
	Track       string
}

// CreateDraft adds a fresh draft project and selects it, mirroring the
// create-then-open dashboard flow.
func (s *ProjectService) CreateDraft(req CreateDraftRequest) (*domain.Project, error) {
	if req.Name == "" {
		req.Name = "New Project"
	}
	if req.PackageName == "" {
		req.PackageName = "com.example.newapp"
	}
	if req.Version == "" {
		req.Version = "1.0.0"
	}
	if req.Track == "" {
		req.Track = domain.TrackInternal
	}
	if !domain.ValidTrack(req.Track) {
		return nil, domain.ErrInvalidTrack
	}

	p := domain.Project{
		ID:          uuid.New().String(),
		Name:        req.Name,
		PackageName: req.PackageName,
		Status:      domain.StatusDraft,
		Version:     req.Version,
		Track:       req.Track,
		LastUpdated: time.Now(),
		Progress:    0,
		Assets:      domain.AssetBundle{Screenshots: []domain.ArtifactRef{}},
		Metadata: domain.Metadata{
			Title:    req.Name,
			Category: "Productivity",
		},
		Errors:        []domain.ProjectError{},
		Notifications: nil,
	}

	if err := s.store.AddProject(p); err != nil {
		return nil, err
	}
	if err := s.store.SetCurrentProject(p.ID); err != nil {
		return nil, err
	}
	created, err := s.store.Project(p.ID)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (s *ProjectService) Get(id string) (*domain.Project, error) {
	p, err := s.store.Project(id)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *ProjectService) List() []domain.Project {
	return s.store.Projects()
}

// Update applies a typed patch; enum fields are checked before any state
// mutates.
func (s *ProjectService) Update(id string, patch domain.ProjectPatch) (*domain.Project, error) {
	if patch.Status != nil && !domain.ValidStatus(*patch.Status) {
		return nil, domain.ErrInvalidStatus
	}
	if patch.Track != nil && !domain.ValidTrack(*patch.Track) {
		return nil, domain.ErrInvalidTrack
	}
	if patch.LastUpdated == nil {
		now := time.Now()
		patch.LastUpdated = &now
	}
	p, err := s.store.UpdateProject(id, patch)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *ProjectService) Delete(id string) error {
	return s.store.DeleteProject(id)
}

func (s *ProjectService) Select(id string) (*domain.Project, error) {
	if err := s.store.SetCurrentProject(id); err != nil {
		return nil, err
	}
	p, err := s.store.CurrentProject()
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *ProjectService) ClearSelection() {
	s.store.ClearCurrentProject()
}

func (s *ProjectService) Current() (*domain.Project, error) {
	p, err := s.store.CurrentProject()
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// FixError marks an auto-fixable project error as fixed.
func (s *ProjectService) FixError(projectID, errorID string) (*domain.Project, error) {
	p, err := s.store.Project(projectID)
	if err != nil {
		return nil, err
	}

	found := false
	for i := range p.Errors {
		if p.Errors[i].ID != errorID {
			continue
		}
		if !p.Errors[i].AutoFixable {
			return nil, domain.ErrErrorNotFixable
		}
		p.Errors[i].Fixed = true
		found = true
		break
	}
	if !found {
		return nil, domain.ErrErrorNotFound
	}

	updated, err := s.store.UpdateProject(projectID, domain.ProjectPatch{ReplaceErrors: &p.Errors})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}
