package dl

// Mode selects when the dynamic linker resolves the symbols referenced by a module.
type Mode int

const (
	// ModeLazy defers each resolution until the symbol is first used.
	ModeLazy Mode = iota
	// ModeNow resolves every referenced symbol when the module is opened.
	ModeNow
)

// String returns the dlopen flag name for the mode.
func (m Mode) String() string {
	switch m {
	case ModeLazy:
		return "RTLD_LAZY"
	case ModeNow:
		return "RTLD_NOW"
	default:
		return "RTLD_UNKNOWN"
	}
}

// Valid reports whether m is one of the defined modes.
func (m Mode) Valid() bool {
	return m == ModeLazy || m == ModeNow
}
