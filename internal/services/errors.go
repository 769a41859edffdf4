package services

import "errors"

// ErrAssetsNotLoaded means a required trained artifact is absent. Fatal for
// the request, never retried. Recoverable conditions (unknown user, nothing
// to return) are empty results instead, not errors.
var ErrAssetsNotLoaded = errors.New("recommendation assets not loaded")

// ErrUnknownStrategy is returned for a strategy outside the closed set.
var ErrUnknownStrategy = errors.New("unknown recommendation strategy")
