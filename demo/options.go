package demo

import (
	"fmt"
	"strings"

	"github.com/go-kit/log"

	"github.com/amikos-tech/pure-dlsym/dl"
)

// DefaultAllocSize is the number of bytes allocated and immediately freed by Run.
const DefaultAllocSize = 3

// Option configures Run.
type Option func(*config) error

type config struct {
	libraryPath string
	self        bool
	mode        dl.Mode
	strict      bool
	allocSize   uintptr
	logger      log.Logger
}

func defaultConfig() *config {
	return &config{
		self:      true,
		mode:      dl.ModeLazy,
		allocSize: DefaultAllocSize,
		logger:    log.NewNopLogger(),
	}
}

// WithLibraryPath opens the module at path instead of the process image.
func WithLibraryPath(path string) Option {
	return func(cfg *config) error {
		path = strings.TrimSpace(path)
		if path == "" {
			return fmt.Errorf("library path cannot be empty")
		}
		cfg.libraryPath = path
		cfg.self = false
		return nil
	}
}

// WithMode selects eager or lazy resolution when the handle is acquired.
func WithMode(mode dl.Mode) Option {
	return func(cfg *config) error {
		if !mode.Valid() {
			return fmt.Errorf("invalid resolution mode %d", int(mode))
		}
		cfg.mode = mode
		return nil
	}
}

// WithStrict skips the resolution checks. A failed lookup then panics at invocation.
func WithStrict(strict bool) Option {
	return func(cfg *config) error {
		cfg.strict = strict
		return nil
	}
}

// WithAllocSize sets the size of the block passed through malloc and free.
func WithAllocSize(size int) Option {
	return func(cfg *config) error {
		if size <= 0 {
			return fmt.Errorf("allocation size must be positive, got %d", size)
		}
		cfg.allocSize = uintptr(size)
		return nil
	}
}

// WithLogger sets the logger used for step-by-step diagnostics.
func WithLogger(logger log.Logger) Option {
	return func(cfg *config) error {
		if logger == nil {
			return fmt.Errorf("logger cannot be nil")
		}
		cfg.logger = logger
		return nil
	}
}

func resolveConfig(opts ...Option) (*config, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}
