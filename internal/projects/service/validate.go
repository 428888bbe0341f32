package service

import (
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/playautopublish/console-backend/internal/projects/domain"
)

const shortDescriptionLimit = 80

// Validate runs the store-listing checks against a project, attaches the
// resulting errors to it and returns the fresh list. Problems are data, not
// failures: the only error returned is an unknown project id.
func (s *ProjectService) Validate(projectID string) ([]domain.ProjectError, error) {
	p, err := s.store.Project(projectID)
	if err != nil {
		return nil, err
	}

	found := CheckListing(p)
	if _, err := s.store.UpdateProject(projectID, domain.ProjectPatch{ReplaceErrors: &found}); err != nil {
		return nil, err
	}
	return found, nil
}

// CheckListing evaluates the metadata and artifact predicates for a
// project. Pure; used by Validate and by the publish pipeline's policy
// decider.
func CheckListing(p domain.Project) []domain.ProjectError {
	var errs []domain.ProjectError

	add := func(severity, message, suggestion string, autoFixable bool) {
		errs = append(errs, domain.ProjectError{
			ID:          uuid.New().String(),
			Severity:    severity,
			Message:     message,
			Suggestion:  suggestion,
			AutoFixable: autoFixable,
			Fixed:       false,
		})
	}

	if strings.TrimSpace(p.Metadata.Title) == "" {
		add(domain.SeverityError, "App title is required", "Set a title in the store listing metadata", true)
	}
	if len(p.Metadata.ShortDescription) > shortDescriptionLimit {
		add(domain.SeverityError, "Short description exceeds 80 characters", "Trim the short description", true)
	}
	if !ValidPrivacyPolicyURL(p.Metadata.PrivacyPolicyURL) {
		add(domain.SeverityError, "Privacy policy URL is required", "Add a valid privacy policy URL", false)
	}
	if strings.TrimSpace(p.Metadata.Category) == "" {
		add(domain.SeverityWarning, "No category selected", "Pick a store category", true)
	}
	if p.AABFile == nil {
		add(domain.SeverityCritical, "No app bundle uploaded", "Upload a signed AAB before publishing", false)
	}
	if len(p.Assets.Screenshots) < 2 {
		add(domain.SeverityWarning, "Fewer than 2 screenshots uploaded", "Upload 2-8 screenshots", false)
	}

	return errs
}

// ValidPrivacyPolicyURL reports whether raw is a non-empty absolute
// http(s) URL.
func ValidPrivacyPolicyURL(raw string) bool {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false
	}
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
