package familyrepo

import "errors"

var (
	// ErrNotFound indicates the requested family does not exist.
	ErrNotFound = errors.New("family not found")

	// ErrAlreadyExists indicates a family already exists with the provided ID.
	ErrAlreadyExists = errors.New("family already exists")
)
