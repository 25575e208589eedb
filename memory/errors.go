package memory

import "errors"

// Sentinel errors for store operations.
var (
	ErrKeyNotFound  = errors.New("key not found")
	ErrInvalidKey   = errors.New("invalid key")
	ErrLoadFailed   = errors.New("load failed")
	ErrSaveFailed   = errors.New("save failed")
	ErrDeleteFailed = errors.New("delete failed")
)
