//go:build windows

package dl

import "golang.org/x/sys/windows"

var msvcrt = windows.NewLazySystemDLL("msvcrt.dll")

// selfLibraryPath names the C runtime DLL. Windows executables do not export
// the C runtime from their own image, so the process handle cannot serve.
func selfLibraryPath() string {
	return "msvcrt.dll"
}

func loadLibrary(path string, _ Mode) (uintptr, error) {
	handle, err := windows.LoadLibrary(path)
	if err != nil || handle == 0 {
		return 0, err
	}
	return uintptr(handle), nil
}

func getSymbol(handle uintptr, symbol string) (uintptr, error) {
	return windows.GetProcAddress(windows.Handle(handle), symbol)
}

func closeLibrary(handle uintptr) error {
	if handle == 0 {
		return nil
	}
	return windows.FreeLibrary(windows.Handle(handle))
}

func getDefaultSymbol(symbol string) (uintptr, error) {
	proc := msvcrt.NewProc(symbol)
	if err := proc.Find(); err != nil {
		return 0, err
	}
	return proc.Addr(), nil
}

// Windows has no dlerror; failures surface through GetLastError on each call.
func lastErrorPtr() uintptr {
	return 0
}
