package batch

import "errors"

// Errors that stop a run before any document is processed.
var (
	ErrNoFolderChosen  = errors.New("no source folder chosen")
	ErrFolderNotFound  = errors.New("source folder not found")
	ErrNoMatchingFiles = errors.New("no matching files found")
)
