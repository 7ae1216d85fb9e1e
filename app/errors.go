package app

import "github.com/iov-one/supersig/errors"

// Reserved codes 100~109
var (
	// ErrNoSuchPath is returned when a message is routed to a path that
	// has no handler registered.
	ErrNoSuchPath = errors.Register(100, "path not registered")

	// ErrDecode is returned when payload bytes are not a valid message.
	ErrDecode = errors.Register(101, "cannot decode message")
)
