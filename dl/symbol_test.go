package dl

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestSymbolValid(t *testing.T) {
	tests := []struct {
		name string
		sym  Symbol
		want bool
	}{
		{"resolved", Symbol{Name: "malloc", Addr: 0x1000}, true},
		{"zero address", Symbol{Name: "malloc"}, false},
		{"error with address", Symbol{Name: "malloc", Addr: 0x1000, Err: errors.New("boom")}, false},
		{"error only", Symbol{Name: "malloc", Err: &SymbolError{Name: "malloc"}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.sym.Valid(); got != tt.want {
				t.Errorf("Valid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTableKeepsLookupOrder(t *testing.T) {
	table := NewTable(
		Symbol{Name: "malloc", Addr: 0x10},
		Symbol{Name: "printf", Addr: 0x20},
		Symbol{Name: "free", Addr: 0x30},
	)

	want := []string{"malloc", "printf", "free"}
	if got := table.Names(); !reflect.DeepEqual(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}
	if table.Len() != 3 {
		t.Errorf("Len() = %d, want 3", table.Len())
	}
	for i, sym := range table.Symbols() {
		if sym.Name != want[i] {
			t.Errorf("Symbols()[%d].Name = %q, want %q", i, sym.Name, want[i])
		}
	}
	if err := table.Err(); err != nil {
		t.Errorf("expected nil error for fully resolved table, got %v", err)
	}
}

func TestTableGet(t *testing.T) {
	table := NewTable(Symbol{Name: "free", Addr: 0x30})

	sym, ok := table.Get("free")
	if !ok || sym.Addr != 0x30 {
		t.Errorf("Get(free) = %+v, %v", sym, ok)
	}
	if _, ok := table.Get("printf"); ok {
		t.Error("expected printf to be absent")
	}
}

func TestTableDuplicateNameReplacesResult(t *testing.T) {
	table := NewTable(
		Symbol{Name: "malloc", Err: &SymbolError{Name: "malloc"}},
		Symbol{Name: "malloc", Addr: 0x10},
	)

	if table.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", table.Len())
	}
	if err := table.Err(); err != nil {
		t.Errorf("expected later result to win, got %v", err)
	}
}

func TestTableErrJoinsEveryFailure(t *testing.T) {
	table := NewTable(
		Symbol{Name: "malloc", Addr: 0x10},
		Symbol{Name: "printf", Err: &SymbolError{Name: "printf", Err: errors.New("undefined symbol: printf")}},
		Symbol{Name: "free"},
	)

	err := table.Err()
	if err == nil {
		t.Fatal("expected error for unresolved entries")
	}
	if !errors.Is(err, ErrSymbolNotFound) {
		t.Errorf("expected ErrSymbolNotFound, got %v", err)
	}
	msg := err.Error()
	for _, name := range []string{`"printf"`, `"free"`} {
		if !strings.Contains(msg, name) {
			t.Errorf("expected error to mention %s, got %q", name, msg)
		}
	}
	if strings.Contains(msg, `"malloc"`) {
		t.Errorf("resolved symbol should not appear in error: %q", msg)
	}
}

func TestOpenErrorUnwrap(t *testing.T) {
	cause := errors.New("cannot open shared object file")
	err := error(&OpenError{Path: "/nonexistent/libc.so", Mode: ModeLazy, Err: cause})

	if !errors.Is(err, ErrOpen) {
		t.Error("expected errors.Is(err, ErrOpen)")
	}
	if !errors.Is(err, cause) {
		t.Error("expected errors.Is(err, cause)")
	}

	var openErr *OpenError
	if !errors.As(err, &openErr) || openErr.Path != "/nonexistent/libc.so" {
		t.Errorf("errors.As failed or wrong path: %+v", openErr)
	}

	selfErr := &OpenError{Mode: ModeNow}
	if !strings.Contains(selfErr.Error(), "<self>") || !strings.Contains(selfErr.Error(), "RTLD_NOW") {
		t.Errorf("unexpected message %q", selfErr.Error())
	}
}

func TestModeString(t *testing.T) {
	tests := []struct {
		mode  Mode
		want  string
		valid bool
	}{
		{ModeLazy, "RTLD_LAZY", true},
		{ModeNow, "RTLD_NOW", true},
		{Mode(7), "RTLD_UNKNOWN", false},
	}

	for _, tt := range tests {
		if got := tt.mode.String(); got != tt.want {
			t.Errorf("Mode(%d).String() = %q, want %q", int(tt.mode), got, tt.want)
		}
		if got := tt.mode.Valid(); got != tt.valid {
			t.Errorf("Mode(%d).Valid() = %v, want %v", int(tt.mode), got, tt.valid)
		}
	}
}
