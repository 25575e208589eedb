package lookup

import "errors"

// Sentinel errors for the searcher registry.
var (
	ErrNotFound      = errors.New("searcher not found")
	ErrAlreadyExists = errors.New("searcher already registered")
	ErrEmptyName     = errors.New("searcher name is empty")
	ErrEmptyQuery    = errors.New("search query is empty")
)
