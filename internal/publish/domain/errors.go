package domain

import "errors"

var (
	ErrRunNotFound   = errors.New("publish run not found")
	ErrRunInProgress = errors.New("a publish run is already in progress for this project")
	ErrPublishing    = errors.New("wizard is locked while publishing")
)
