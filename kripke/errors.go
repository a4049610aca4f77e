package kripke

import "errors"

var (
	// ErrInvalidWorlds is returned when a structure is built from a value
	// that is neither a sequence nor a mapping of worlds.
	ErrInvalidWorlds = errors.New("kripke: worlds must be a sequence or a mapping of World")

	// ErrWorldNotFound is returned when removing a world that is not present.
	ErrWorldNotFound = errors.New("kripke: world not found")
)
