// errors.go defines error values that are reused across multiple
// repositories. These sentinel values let handlers distinguish failure
// scenarios, e.g. translating ErrNoChange into an HTTP 409 response.
package repository

import "errors"

// ErrNoChange indicates an UPDATE attempted to set fields equal to the
// current values. Handlers should translate this into an HTTP 409 response.
var ErrNoChange = errors.New("no change")
