package service

import (
	"errors"
	"fmt"
)

// ErrInvalid marks input-shape failures caught before any write. Handlers
// map it to a 400 response.
var ErrInvalid = errors.New("invalid input")

func invalidf(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrInvalid)...)
}
