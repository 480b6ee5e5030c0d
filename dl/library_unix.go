//go:build !windows

package dl

import (
	"runtime"
	"sync"

	"github.com/ebitengine/purego"
)

var (
	bindOnce    sync.Once
	dlsymFunc   func(handle uintptr, name string) uintptr
	dlerrorFunc func() uintptr
)

// bindDl binds dlsym and dlerror directly. purego.Dlsym reads dlerror itself on
// failure, which would leave nothing for LastErrorPtr to report. Both are bound
// together because every successful dlsym, including the one that binds dlerror,
// resets the pending diagnostic.
func bindDl() {
	bindOnce.Do(func() {
		if sym, err := getDefaultSymbol("dlsym"); err == nil && sym != 0 {
			purego.RegisterFunc(&dlsymFunc, sym)
		}
		if sym, err := getDefaultSymbol("dlerror"); err == nil && sym != 0 {
			purego.RegisterFunc(&dlerrorFunc, sym)
		}
	})
}

// selfLibraryPath is the module name that refers to the running process image.
// glibc and musl treat the empty name like a NULL filename. darwin has no such
// convention for purego, so libSystem (always loaded) stands in for it.
func selfLibraryPath() string {
	if runtime.GOOS == "darwin" {
		return "/usr/lib/libSystem.B.dylib"
	}
	return ""
}

func modeFlags(mode Mode) int {
	if mode == ModeNow {
		return purego.RTLD_NOW | purego.RTLD_GLOBAL
	}
	return purego.RTLD_LAZY | purego.RTLD_GLOBAL
}

func loadLibrary(path string, mode Mode) (uintptr, error) {
	libHandle, err := purego.Dlopen(path, modeFlags(mode))
	if err != nil || libHandle == 0 {
		return 0, err
	}
	return libHandle, nil
}

// getSymbol leaves the dlerror diagnostic of a failed lookup pending, so the
// returned error carries no text of its own.
func getSymbol(handle uintptr, symbol string) (uintptr, error) {
	bindDl()
	if dlsymFunc == nil {
		return purego.Dlsym(handle, symbol)
	}
	return dlsymFunc(handle, symbol), nil
}

func closeLibrary(handle uintptr) error {
	if handle == 0 {
		return nil
	}
	return purego.Dlclose(handle)
}

func getDefaultSymbol(symbol string) (uintptr, error) {
	return purego.Dlsym(purego.RTLD_DEFAULT, symbol)
}

func lastErrorPtr() uintptr {
	bindDl()
	if dlerrorFunc == nil {
		return 0
	}
	return dlerrorFunc()
}
