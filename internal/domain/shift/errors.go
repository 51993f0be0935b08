package shift

import "errors"

var (
	ErrShiftNotFound = errors.New("shift policy not found")
)
