package domain

import "errors"

var (
	ErrProjectNotFound  = errors.New("project not found")
	ErrDuplicateProject = errors.New("project id already exists")
	ErrNoCurrentProject = errors.New("no project selected")
	ErrInvalidStatus    = errors.New("invalid project status")
	ErrInvalidTrack     = errors.New("invalid release track")
	ErrInvalidPurpose   = errors.New("invalid artifact purpose")
	ErrErrorNotFound    = errors.New("project error not found")
	ErrErrorNotFixable  = errors.New("project error is not auto-fixable")
)
