package validators

import "errors"

// ErrIllegalArgument is the root of all validation failures. Every error
// returned by this package matches it via [errors.Is]. Validation happens
// synchronously, before any I/O.
var ErrIllegalArgument = errors.New("illegal argument")
