package dl

import "unsafe"

// minValidAddress is the lowest address treated as a real C string. The first page is
// never mapped, so anything below it is a null-ish pointer and not worth dereferencing.
const minValidAddress = 4096

// CstringToGo converts a C null-terminated string pointer to a Go string.
// Returns an empty string for null and first-page pointers.
func CstringToGo(ptr uintptr) string {
	if ptr < minValidAddress {
		return ""
	}

	// dlerror messages are short; 1MB without a terminator means the pointer is garbage.
	const maxStringLen = 1 << 20
	bytes := unsafe.Slice((*byte)(unsafe.Pointer(ptr)), maxStringLen)

	var length int
	for length < maxStringLen && bytes[length] != 0 {
		length++
	}
	return string(bytes[:length])
}

// GoToCstring converts a Go string to a null-terminated byte slice suitable for passing to C functions.
// Returns the byte slice (which must be kept alive by the caller to prevent GC) and a uintptr to its first byte.
//
// IMPORTANT: The caller MUST keep the returned []byte alive for as long as the C function might access it.
//
//	nameBytes, namePtr := GoToCstring("malloc")
//	addr := cFunction(namePtr) // nameBytes must stay in scope here
func GoToCstring(s string) ([]byte, uintptr) {
	b := append([]byte(s), 0)
	return b, uintptr(unsafe.Pointer(&b[0]))
}
