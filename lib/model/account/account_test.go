package account

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestGet(t *testing.T) {
	reg := NewRegistry()

	acc, err := reg.Get("Assets:Investments:Cash")

	if err != nil {
		t.Fatalf("reg.Get() returned error %v, want nil", err)
	}
	if got, want := acc.Type(), ASSETS; got != want {
		t.Errorf("acc.Type() = %v, want %v", got, want)
	}
	if got, want := acc.Segment(), "Cash"; got != want {
		t.Errorf("acc.Segment() = %q, want %q", got, want)
	}
	if got, want := acc.Level(), 3; got != want {
		t.Errorf("acc.Level() = %d, want %d", got, want)
	}
	if !acc.IsAL() || acc.IsIE() {
		t.Errorf("acc.IsAL() = %t, acc.IsIE() = %t, want true, false", acc.IsAL(), acc.IsIE())
	}
}

func TestGetInterns(t *testing.T) {
	reg := NewRegistry()
	a1, err := reg.Get("Income:PnL")
	if err != nil {
		t.Fatalf("reg.Get() returned error %v, want nil", err)
	}
	a2, err := reg.Get("Income:PnL")
	if err != nil {
		t.Fatalf("reg.Get() returned error %v, want nil", err)
	}
	if a1 != a2 {
		t.Fatalf("reg.Get() returned different pointers for the same name")
	}
}

func TestGetInvalid(t *testing.T) {
	reg := NewRegistry()
	for _, name := range []string{
		"Cash",
		"Foobar:Cash",
		"Assets:",
		"Assets:In come",
	} {
		t.Run(name, func(t *testing.T) {
			if _, err := reg.Get(name); err == nil {
				t.Fatalf("reg.Get(%q) returned nil, want an error", name)
			}
		})
	}
}

func TestAncestors(t *testing.T) {
	reg := NewRegistry()
	acc, err := reg.Get("Assets:Investments:Cash")
	if err != nil {
		t.Fatalf("reg.Get() returned error %v, want nil", err)
	}
	var got []string
	for _, a := range reg.Ancestors(acc) {
		got = append(got, a.Name())
	}
	want := []string{"Assets", "Assets:Investments", "Assets:Investments:Cash"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("reg.Ancestors() returned unexpected diff (-want/+got)\n%s\n", diff)
	}
}
