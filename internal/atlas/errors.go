package atlas

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedDocument covers invalid XML and a missing "frames" table.
	ErrMalformedDocument = errors.New("malformed document")
	// ErrMissingField is returned when a frame has neither spelling of a required key.
	ErrMissingField = errors.New("missing required field")
	// ErrMalformedRect is returned for rectangle text that is not four integers.
	ErrMalformedRect = errors.New("malformed rectangle")
)

// InsufficientCanvasError reports a canvas too small for the frames it must hold.
type InsufficientCanvasError struct {
	Required Canvas
	Actual   Canvas
}

func (e *InsufficientCanvasError) Error() string {
	short := e.Shortfall()
	return fmt.Sprintf("atlas: texture size too small: %dx%d, needs at least %dx%d (short by %dx%d)",
		e.Actual.Width, e.Actual.Height, e.Required.Width, e.Required.Height, short.Width, short.Height)
}

// Shortfall is how many pixels each dimension is missing; zero where it fits.
func (e *InsufficientCanvasError) Shortfall() Canvas {
	return Canvas{
		Width:  max(0, e.Required.Width-e.Actual.Width),
		Height: max(0, e.Required.Height-e.Actual.Height),
	}
}
