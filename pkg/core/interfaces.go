package core

import "errors"

var (
	// ErrInvalidConfig marks a scene, material or camera parameter rejected
	// at construction time, before any rendering starts
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrInternal marks a broken renderer invariant. It aborts the render
	// rather than producing a wrong pixel.
	ErrInternal = errors.New("internal error")
)
