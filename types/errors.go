package types

import "errors"

// Sentinel errors shared by every store implementation
var (
	ErrNotFound        = errors.New("not found")
	ErrDuplicate       = errors.New("duplicate")
	ErrAlreadyResolved = errors.New("request already resolved")
)
