// Package uploads is the file intake collaborator: it accepts uploads
// tagged by purpose and attaches them to a project's build-artifact and
// asset fields. File contents are not inspected; refs live only in memory.
package uploads

import (
	"errors"
	"mime/multipart"
	"time"

	"github.com/google/uuid"

	"github.com/playautopublish/console-backend/internal/projects/domain"
	"github.com/playautopublish/console-backend/internal/state"
)

var ErrNoFiles = errors.New("no files provided")

type Intake struct {
	store *state.Store
}

func NewIntake(store *state.Store) *Intake {
	return &Intake{store: store}
}

// Attach records the uploaded files against the project. An aab, icon or
// feature graphic keeps the first file; screenshots replace the whole
// ordered set, matching the drop-zone behavior.
func (in *Intake) Attach(projectID, purpose string, files []*multipart.FileHeader) (*domain.Project, error) {
	if !domain.ValidPurpose(purpose) {
		return nil, domain.ErrInvalidPurpose
	}
	if len(files) == 0 {
		return nil, ErrNoFiles
	}

	refs := make([]domain.ArtifactRef, 0, len(files))
	now := time.Now()
	for _, f := range files {
		refs = append(refs, domain.ArtifactRef{
			ID:          uuid.New().String(),
			FileName:    f.Filename,
			Size:        f.Size,
			ContentType: f.Header.Get("Content-Type"),
			Purpose:     purpose,
			UploadedAt:  now,
		})
	}

	patch := domain.ProjectPatch{LastUpdated: &now}
	switch purpose {
	case domain.PurposeAAB:
		patch.AABFile = &refs[0]
	case domain.PurposeIcon:
		patch.Assets = &domain.AssetsPatch{Icon: &refs[0]}
	case domain.PurposeFeatureGraphic:
		patch.Assets = &domain.AssetsPatch{FeatureGraphic: &refs[0]}
	case domain.PurposeScreenshots:
		patch.Assets = &domain.AssetsPatch{Screenshots: refs}
	}

	p, err := in.store.UpdateProject(projectID, patch)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
