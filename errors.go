package astroforge

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnsupportedBody is returned when a celestial body has no physical data.
	ErrUnsupportedBody = errors.New("unsupported celestial body")
	// ErrDegenerateOrbit is returned for orbits outside of the closed conic range.
	ErrDegenerateOrbit = errors.New("degenerate orbit")
)

// PhysicsError is fatal to a single simulation: the mission cannot be modeled.
type PhysicsError struct {
	Op  string
	Err error
}

func (e *PhysicsError) Error() string {
	return fmt.Sprintf("physics: %s: %s", e.Op, e.Err)
}

// Unwrap allows errors.Is on the underlying sentinel.
func (e *PhysicsError) Unwrap() error {
	return e.Err
}

func physicsErr(op string, err error) error {
	return &PhysicsError{Op: op, Err: err}
}

// ValidationError describes an out of range or inconsistent mission parameter.
// It never aborts a simulation.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// ValidationErrors groups the failures of a Validate call.
type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	msgs := make([]string, len(v))
	for i, e := range v {
		msgs[i] = e.Error()
	}
	return "invalid mission: " + strings.Join(msgs, "; ")
}

// orNil returns nil for an empty list so that callers can compare against nil.
func (v ValidationErrors) orNil() error {
	if len(v) == 0 {
		return nil
	}
	return v
}
