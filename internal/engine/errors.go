package engine

import "errors"

// ErrIllegalMove is returned when a requested destination is not in the
// relevant move set. The rejected call leaves the state untouched.
var ErrIllegalMove = errors.New("illegal move")
