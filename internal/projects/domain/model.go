package domain

import (
	"time"

	notifdomain "github.com/playautopublish/console-backend/internal/notifications/domain"
)

// Project status lifecycle
const (
	StatusDraft      = "draft"
	StatusUploading  = "uploading"
	StatusProcessing = "processing"
	StatusTesting    = "testing"
	StatusPublished  = "published"
	StatusError      = "error"
)

// Release tracks, Play-Console style
const (
	TrackInternal   = "internal"
	TrackAlpha      = "alpha"
	TrackBeta       = "beta"
	TrackProduction = "production"
)

// ProjectError severities
const (
	SeverityWarning  = "warning"
	SeverityError    = "error"
	SeverityCritical = "critical"
)

// Artifact purposes accepted by the intake endpoint
const (
	PurposeAAB            = "aab"
	PurposeIcon           = "icon"
	PurposeFeatureGraphic = "feature_graphic"
	PurposeScreenshots    = "screenshots"
)

// Project is one app-publishing unit: a store listing with its build
// artifact, assets, metadata and release state. It is storage-agnostic and
// shared across the state store, services and HTTP layers.
type Project struct {
	ID            string                     `json:"id"`
	Name          string                     `json:"name"`
	PackageName   string                     `json:"package_name"`
	Status        string                     `json:"status"`
	Version       string                     `json:"version"`
	Track         string                     `json:"track"`
	LastUpdated   time.Time                  `json:"last_updated"`
	Progress      int                        `json:"progress"`
	AABFile       *ArtifactRef               `json:"aab_file,omitempty"`
	Assets        AssetBundle                `json:"assets"`
	Metadata      Metadata                   `json:"metadata"`
	Errors        []ProjectError             `json:"errors"`
	Notifications []notifdomain.Notification `json:"notifications"`
}

// AssetBundle groups the store-listing graphics attached to a project.
type AssetBundle struct {
	Icon           *ArtifactRef  `json:"icon,omitempty"`
	FeatureGraphic *ArtifactRef  `json:"feature_graphic,omitempty"`
	Screenshots    []ArtifactRef `json:"screenshots"`
}

// Metadata is the store-listing text for a project.
type Metadata struct {
	Title            string `json:"title"`
	ShortDescription string `json:"short_description"`
	FullDescription  string `json:"full_description"`
	PrivacyPolicyURL string `json:"privacy_policy_url"`
	Category         string `json:"category"`
}

// ProjectError is a validation or pipeline problem surfaced as data on the
// project, never as a fatal failure.
type ProjectError struct {
	ID          string `json:"id"`
	Severity    string `json:"severity"`
	Message     string `json:"message"`
	Suggestion  string `json:"suggestion,omitempty"`
	AutoFixable bool   `json:"auto_fixable"`
	Fixed       bool   `json:"fixed"`
}

// ArtifactRef references an uploaded file. Bytes live only in process
// memory; nothing is written to durable storage.
type ArtifactRef struct {
	ID          string    `json:"id"`
	FileName    string    `json:"file_name"`
	Size        int64     `json:"size"`
	ContentType string    `json:"content_type"`
	Purpose     string    `json:"purpose"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

// ValidStatus reports whether s is a known project status.
func ValidStatus(s string) bool {
	switch s {
	case StatusDraft, StatusUploading, StatusProcessing, StatusTesting, StatusPublished, StatusError:
		return true
	}
	return false
}

// ValidTrack reports whether t is a known release track.
func ValidTrack(t string) bool {
	switch t {
	case TrackInternal, TrackAlpha, TrackBeta, TrackProduction:
		return true
	}
	return false
}

// ValidPurpose reports whether p is a known artifact purpose.
func ValidPurpose(p string) bool {
	switch p {
	case PurposeAAB, PurposeIcon, PurposeFeatureGraphic, PurposeScreenshots:
		return true
	}
	return false
}

// Clone returns a deep copy so store snapshots never alias live state.
func (p Project) Clone() Project {
	out := p
	if p.AABFile != nil {
		ref := *p.AABFile
		out.AABFile = &ref
	}
	if p.Assets.Icon != nil {
		ref := *p.Assets.Icon
		out.Assets.Icon = &ref
	}
	if p.Assets.FeatureGraphic != nil {
		ref := *p.Assets.FeatureGraphic
		out.Assets.FeatureGraphic = &ref
	}
	out.Assets.Screenshots = append([]ArtifactRef(nil), p.Assets.Screenshots...)
	out.Errors = append([]ProjectError(nil), p.Errors...)
	out.Notifications = append([]notifdomain.Notification(nil), p.Notifications...)
	return out
}
