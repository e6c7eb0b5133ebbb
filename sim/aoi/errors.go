package aoi

import "errors"

// ErrInvalidArgument marks configuration values rejected at the call boundary.
// The receiver's prior state is left unchanged.
var ErrInvalidArgument = errors.New("invalid argument")
