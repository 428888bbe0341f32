package domain

import "time"

// ProjectPatch is a typed partial update. Nil fields are left untouched;
// nested patches merge field-by-field the same way. Screenshot lists are
// replaced wholesale, matching the upload flow.
type ProjectPatch struct {
	Name        *string        `json:"name,omitempty"`
	PackageName *string        `json:"package_name,omitempty"`
	Status      *string        `json:"status,omitempty"`
	Version     *string        `json:"version,omitempty"`
	Track       *string        `json:"track,omitempty"`
	LastUpdated *time.Time     `json:"last_updated,omitempty"`
	Progress    *int           `json:"progress,omitempty"`
	AABFile     *ArtifactRef   `json:"aab_file,omitempty"`
	Assets      *AssetsPatch   `json:"assets,omitempty"`
	Metadata    *MetadataPatch `json:"metadata,omitempty"`

	// AppendErrors adds to the project's error list without replacing it;
	// ReplaceErrors swaps the whole list (used when flipping fixed flags).
	AppendErrors  []ProjectError  `json:"append_errors,omitempty"`
	ReplaceErrors *[]ProjectError `json:"replace_errors,omitempty"`
}

type AssetsPatch struct {
	Icon           *ArtifactRef  `json:"icon,omitempty"`
	FeatureGraphic *ArtifactRef  `json:"feature_graphic,omitempty"`
	Screenshots    []ArtifactRef `json:"screenshots,omitempty"`
}

type MetadataPatch struct {
	Title            *string `json:"title,omitempty"`
	ShortDescription *string `json:"short_description,omitempty"`
	FullDescription  *string `json:"full_description,omitempty"`
	PrivacyPolicyURL *string `json:"privacy_policy_url,omitempty"`
	Category         *string `json:"category,omitempty"`
}

// Apply merges the patch into p.
func (patch ProjectPatch) Apply(p *Project) {
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.PackageName != nil {
		p.PackageName = *patch.PackageName
	}
	if patch.Status != nil {
		p.Status = *patch.Status
	}
	if patch.Version != nil {
		p.Version = *patch.Version
	}
	if patch.Track != nil {
		p.Track = *patch.Track
	}
	if patch.LastUpdated != nil {
		p.LastUpdated = *patch.LastUpdated
	}
	if patch.Progress != nil {
		p.Progress = *patch.Progress
	}
	if patch.AABFile != nil {
		ref := *patch.AABFile
		p.AABFile = &ref
	}
	if patch.Assets != nil {
		if patch.Assets.Icon != nil {
			ref := *patch.Assets.Icon
			p.Assets.Icon = &ref
		}
		if patch.Assets.FeatureGraphic != nil {
			ref := *patch.Assets.FeatureGraphic
			p.Assets.FeatureGraphic = &ref
		}
		if patch.Assets.Screenshots != nil {
			p.Assets.Screenshots = append([]ArtifactRef(nil), patch.Assets.Screenshots...)
		}
	}
	if patch.Metadata != nil {
		if patch.Metadata.Title != nil {
			p.Metadata.Title = *patch.Metadata.Title
		}
		if patch.Metadata.ShortDescription != nil {
			p.Metadata.ShortDescription = *patch.Metadata.ShortDescription
		}
		if patch.Metadata.FullDescription != nil {
			p.Metadata.FullDescription = *patch.Metadata.FullDescription
		}
		if patch.Metadata.PrivacyPolicyURL != nil {
			p.Metadata.PrivacyPolicyURL = *patch.Metadata.PrivacyPolicyURL
		}
		if patch.Metadata.Category != nil {
			p.Metadata.Category = *patch.Metadata.Category
		}
	}
	if patch.ReplaceErrors != nil {
		p.Errors = append([]ProjectError(nil), (*patch.ReplaceErrors)...)
	}
	if len(patch.AppendErrors) > 0 {
		p.Errors = append(p.Errors, patch.AppendErrors...)
	}
}
