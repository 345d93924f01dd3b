package physics

import "errors"

var (
	ErrAlreadyMoved = errors.New("move already called this tick")
	ErrDisabled     = errors.New("character controller is disabled")
)
