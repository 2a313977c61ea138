package domain

import "errors"

// Sentinel errors for the item domain. Use errors.Is() to check these.
var (
	// ErrNameRequired indicates the item name is missing, not a string, or blank after trimming.
	ErrNameRequired = errors.New("name is required")
)
