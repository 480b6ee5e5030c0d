// Package demo runs the dynamic symbol demonstration: open the C runtime, resolve
// malloc, printf and free by name, and call them through the resolved addresses.
package demo

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/amikos-tech/pure-dlsym/dl"
	"github.com/amikos-tech/pure-dlsym/libc"
)

// Greeting is the format passed to printf. Its single %s receives dlerror().
const Greeting = "Hello, World!\n%s\n"

// Report describes one completed run.
type Report struct {
	Path    string
	Mode    dl.Mode
	Strict  bool
	Symbols []dl.Symbol
	// Lookups is every name looked up on the handle, in order.
	Lookups []string
	// Printed is printf's return value.
	Printed int32
}

// Run performs the demonstration once. Output goes to the process's C stdout.
//
// A handle acquisition failure returns an error wrapping dl.ErrOpen before anything
// is printed. In strict mode a failed lookup is not detected and the invocation that
// follows panics.
func Run(opts ...Option) (_ *Report, err error) {
	cfg, err := resolveConfig(opts...)
	if err != nil {
		return nil, err
	}
	logger := cfg.logger

	// dlerror state is per thread; printf must see what the lookups left behind.
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	var h *dl.Handle
	if cfg.self {
		h, err = dl.OpenSelf(cfg.mode)
	} else {
		h, err = dl.Open(cfg.libraryPath, cfg.mode)
	}
	if err != nil {
		return nil, fmt.Errorf("acquire handle: %w", err)
	}
	level.Debug(logger).Log("msg", "handle acquired", "path", displayPath(h.Path()), "mode", cfg.mode)
	defer func() {
		if closeErr := h.Close(); closeErr != nil {
			err = errors.Join(err, closeErr)
		}
		level.Debug(logger).Log("msg", "handle released", "path", displayPath(h.Path()))
	}()

	table := dl.Resolve(h, libc.Names...)
	logSymbols(logger, table)

	fns, err := libc.Bind(table, cfg.strict)
	if err != nil {
		return nil, err
	}

	printed := fns.Printf(Greeting, dl.LastErrorPtr())
	block := fns.Malloc(cfg.allocSize)
	fns.Free(block)
	level.Debug(logger).Log("msg", "invoked", "printed", printed, "alloc_size", cfg.allocSize)

	if err := libc.Flush(); err != nil {
		return nil, err
	}

	return &Report{
		Path:    h.Path(),
		Mode:    cfg.mode,
		Strict:  cfg.strict,
		Symbols: table.Symbols(),
		Lookups: h.Lookups(),
		Printed: printed,
	}, nil
}

func logSymbols(logger log.Logger, table *dl.Table) {
	for _, sym := range table.Symbols() {
		if sym.Valid() {
			level.Debug(logger).Log("msg", "symbol resolved", "name", sym.Name, "addr", fmt.Sprintf("%#x", sym.Addr))
			continue
		}
		level.Warn(logger).Log("msg", "symbol unresolved", "name", sym.Name, "err", sym.Err)
	}
}

func displayPath(path string) string {
	if path == "" {
		return "<self>"
	}
	return path
}
