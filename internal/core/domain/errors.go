package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration covers invalid construction parameters and missing
	// credentials. Fatal at startup, never recovered.
	ErrConfiguration = errors.New("configuration error")

	ErrNotFound          = errors.New("not found")
	ErrUnsupportedFormat = errors.New("unsupported format")
	ErrEmptyDocument     = errors.New("empty document")
	ErrInvalidInput      = errors.New("invalid input")

	// ErrGeneration marks a failed or empty completion. The engine never
	// substitutes a local answer for it.
	ErrGeneration = errors.New("generation failed")

	// ErrNotReady means the index has no documents yet.
	ErrNotReady = errors.New("no documents ingested")

	ErrTemporary = errors.New("temporary failure")
)

// WrapError preserves typed semantic errors with operation context.
func WrapError(kind error, operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", operation, kind, err)
}

func IsKind(err error, kind error) bool {
	return errors.Is(err, kind)
}
