package store

import "errors"

// ErrNotFound is returned when a requested row does not exist or does not
// belong to the requesting user. Handlers map it to HTTP 404.
var ErrNotFound = errors.New("not found")
