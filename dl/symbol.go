package dl

import "errors"

// Symbol is the outcome of resolving one name: either an address or the reason there is none.
type Symbol struct {
	Name string
	Addr uintptr
	Err  error
}

// Valid reports whether the symbol resolved to a usable address.
func (s Symbol) Valid() bool {
	return s.Err == nil && s.Addr != 0
}

// Table maps names to their resolution results and remembers the lookup order.
type Table struct {
	names   []string
	symbols map[string]Symbol
}

// Resolve looks up every name on h, in order. A failure does not stop the remaining lookups.
func Resolve(h *Handle, names ...string) *Table {
	t := &Table{
		names:   make([]string, 0, len(names)),
		symbols: make(map[string]Symbol, len(names)),
	}
	for _, name := range names {
		t.add(h.Lookup(name))
	}
	return t
}

// NewTable builds a table from already resolved symbols.
func NewTable(symbols ...Symbol) *Table {
	t := &Table{
		names:   make([]string, 0, len(symbols)),
		symbols: make(map[string]Symbol, len(symbols)),
	}
	for _, sym := range symbols {
		t.add(sym)
	}
	return t
}

func (t *Table) add(sym Symbol) {
	if _, ok := t.symbols[sym.Name]; !ok {
		t.names = append(t.names, sym.Name)
	}
	t.symbols[sym.Name] = sym
}

// Get returns the result for name. ok is false if name was never resolved.
func (t *Table) Get(name string) (Symbol, bool) {
	sym, ok := t.symbols[name]
	return sym, ok
}

// Names returns the resolved names in lookup order.
func (t *Table) Names() []string {
	out := make([]string, len(t.names))
	copy(out, t.names)
	return out
}

// Symbols returns the results in lookup order.
func (t *Table) Symbols() []Symbol {
	out := make([]Symbol, 0, len(t.names))
	for _, name := range t.names {
		out = append(out, t.symbols[name])
	}
	return out
}

// Len returns the number of distinct names in the table.
func (t *Table) Len() int {
	return len(t.names)
}

// Err joins the errors of every unresolved entry. It is nil when all entries are valid.
func (t *Table) Err() error {
	var err error
	for _, name := range t.names {
		sym := t.symbols[name]
		if sym.Valid() {
			continue
		}
		symErr := sym.Err
		if symErr == nil {
			symErr = &SymbolError{Name: name}
		}
		err = errors.Join(err, symErr)
	}
	return err
}
