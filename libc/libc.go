// Package libc binds C runtime functions, resolved at runtime through package dl,
// to typed Go function values.
package libc

import (
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/ebitengine/purego"

	"github.com/amikos-tech/pure-dlsym/dl"
)

const (
	SymbolMalloc = "malloc"
	SymbolPrintf = "printf"
	SymbolFree   = "free"
)

// Names lists the functions Bind needs, in the order they are resolved.
var Names = []string{SymbolMalloc, SymbolPrintf, SymbolFree}

// ErrVariadicABI is returned where variadic arguments do not share the register
// convention of fixed arguments, so printf cannot be called through a fixed signature.
var ErrVariadicABI = errors.New("platform passes variadic arguments differently; printf cannot be bound")

// Funcs holds the bound callables. The signatures are declared by hand and are not
// checked against the C definitions.
type Funcs struct {
	// Malloc mirrors void *malloc(size_t).
	Malloc func(size uintptr) uintptr
	// Printf mirrors int printf(const char *, ...) with exactly one pointer-sized argument.
	Printf func(format string, arg uintptr) int32
	// Free mirrors void free(void *).
	Free func(ptr uintptr)
}

// Bind turns the resolved table into callables.
//
// With strict set, entries are bound without checking: an unresolved entry leaves its
// func nil and calling it panics. Otherwise every name in Names must be valid and
// nothing is bound on failure.
func Bind(table *dl.Table, strict bool) (*Funcs, error) {
	if runtime.GOOS == "darwin" && runtime.GOARCH == "arm64" {
		return nil, ErrVariadicABI
	}

	if !strict {
		if err := checkTable(table); err != nil {
			return nil, fmt.Errorf("cannot bind libc: %w", err)
		}
	}

	fns := &Funcs{}
	register(table, SymbolMalloc, &fns.Malloc)
	register(table, SymbolPrintf, &fns.Printf)
	register(table, SymbolFree, &fns.Free)
	return fns, nil
}

func checkTable(table *dl.Table) error {
	var err error
	for _, name := range Names {
		sym, ok := table.Get(name)
		switch {
		case !ok:
			err = errors.Join(err, &dl.SymbolError{Name: name, Err: errors.New("never looked up")})
		case !sym.Valid():
			symErr := sym.Err
			if symErr == nil {
				symErr = &dl.SymbolError{Name: name}
			}
			err = errors.Join(err, symErr)
		}
	}
	return err
}

// register leaves fptr untouched when there is no address; purego refuses a zero cfn.
func register(table *dl.Table, name string, fptr any) {
	sym, _ := table.Get(name)
	if sym.Addr == 0 {
		return
	}
	purego.RegisterFunc(fptr, sym.Addr)
}

var (
	flushFunc func(stream uintptr) int32
	flushErr  error
	flushOnce sync.Once
)

// Flush writes out all buffered C stdio streams. Go exits without running libc's
// atexit handlers, so output written through Printf is lost unless flushed.
func Flush() error {
	flushOnce.Do(func() {
		addr, err := dl.LookupDefault("fflush")
		if err != nil {
			flushErr = fmt.Errorf("cannot flush stdio: %w", err)
			return
		}
		purego.RegisterFunc(&flushFunc, addr)
	})
	if flushErr != nil {
		return flushErr
	}
	if rc := flushFunc(0); rc != 0 {
		return fmt.Errorf("fflush returned %d", rc)
	}
	return nil
}
