// Package dl opens dynamic modules and resolves symbols from them without cgo.
package dl

import (
	"fmt"
	"sync"
)

// Handle is an open reference to a loaded dynamic module. Lookups are scoped to it
// and it must be released with Close.
type Handle struct {
	mu      sync.Mutex
	handle  uintptr
	path    string
	mode    Mode
	lookups []string
}

// OpenSelf acquires a handle to the running process's own image, which includes the
// C runtime it was linked against.
func OpenSelf(mode Mode) (*Handle, error) {
	return Open(selfLibraryPath(), mode)
}

// Open acquires a handle to the module at path. An empty path means the process itself
// on platforms that support the convention.
func Open(path string, mode Mode) (*Handle, error) {
	if !mode.Valid() {
		return nil, &OpenError{Path: path, Mode: mode, Err: fmt.Errorf("invalid mode %d", int(mode))}
	}

	handle, err := loadLibrary(path, mode)
	if err != nil || handle == 0 {
		return nil, &OpenError{Path: path, Mode: mode, Err: err}
	}

	return &Handle{handle: handle, path: path, mode: mode}, nil
}

// Lookup resolves name within the handle's symbol table. The attempt is recorded
// whether or not it succeeds. A zero address is always reported as a failure, and
// the linker's text for it stays pending for LastError.
func (h *Handle) Lookup(name string) Symbol {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.lookups = append(h.lookups, name)

	if h.handle == 0 {
		return Symbol{Name: name, Err: &SymbolError{Name: name, Err: ErrClosed}}
	}

	addr, err := getSymbol(h.handle, name)
	if err != nil || addr == 0 {
		return Symbol{Name: name, Err: &SymbolError{Name: name, Err: err}}
	}
	return Symbol{Name: name, Addr: addr}
}

// Lookups returns the names passed to Lookup, in call order.
func (h *Handle) Lookups() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]string, len(h.lookups))
	copy(out, h.lookups)
	return out
}

// Path returns the module path the handle was opened with.
func (h *Handle) Path() string {
	return h.path
}

// Mode returns the resolution mode the handle was opened with.
func (h *Handle) Mode() Mode {
	return h.mode
}

// IsOpen returns true until Close has been called.
func (h *Handle) IsOpen() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.handle != 0
}

// Close releases the handle. Calling it more than once is a no-op.
// Addresses obtained from the handle must not be used afterwards.
func (h *Handle) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.handle == 0 {
		return nil
	}
	err := closeLibrary(h.handle)
	h.handle = 0
	if err != nil {
		return fmt.Errorf("failed to close %q: %w", h.path, err)
	}
	return nil
}

// LookupDefault resolves name from the process-wide default namespace rather than
// from a handle. It is not recorded in any handle's lookup log.
func LookupDefault(name string) (uintptr, error) {
	addr, err := getDefaultSymbol(name)
	if err != nil || addr == 0 {
		return 0, &SymbolError{Name: name, Err: err}
	}
	return addr, nil
}

// LastErrorPtr returns the dynamic linker's most recent diagnostic as a raw C string
// pointer, or 0 if none is pending. Reading it clears the diagnostic.
//
// The diagnostic is per OS thread: callers that want the text of a failed Lookup
// must hold runtime.LockOSThread across both calls.
func LastErrorPtr() uintptr {
	return lastErrorPtr()
}

// LastError is LastErrorPtr converted to a Go string.
func LastError() string {
	return CstringToGo(LastErrorPtr())
}
