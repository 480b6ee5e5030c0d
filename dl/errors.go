package dl

import (
	"errors"
	"fmt"
)

var (
	// ErrOpen is wrapped by every handle acquisition failure.
	ErrOpen = errors.New("dynamic module could not be opened")
	// ErrSymbolNotFound is wrapped by every failed lookup.
	ErrSymbolNotFound = errors.New("symbol not found")
	// ErrClosed is returned when a lookup is attempted on a released handle.
	ErrClosed = errors.New("handle is closed")
)

// OpenError describes a failed handle acquisition.
type OpenError struct {
	Path string
	Mode Mode
	Err  error
}

func (e *OpenError) Error() string {
	name := e.Path
	if name == "" {
		name = "<self>"
	}
	if e.Err == nil {
		return fmt.Sprintf("failed to open %s (%s)", name, e.Mode)
	}
	return fmt.Sprintf("failed to open %s (%s): %v", name, e.Mode, e.Err)
}

func (e *OpenError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrOpen}
	}
	return []error{ErrOpen, e.Err}
}

// SymbolError describes a failed resolution of one name.
type SymbolError struct {
	Name string
	Err  error
}

func (e *SymbolError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("failed to resolve %q", e.Name)
	}
	return fmt.Sprintf("failed to resolve %q: %v", e.Name, e.Err)
}

func (e *SymbolError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrSymbolNotFound}
	}
	return []error{ErrSymbolNotFound, e.Err}
}
