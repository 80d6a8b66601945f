package swap

import "testing"

func TestEstimateOutput(t *testing.T) {
	tests := []struct {
		raw     string
		amount  float64
		display string
		ok      bool
	}{
		{"100", 100, "97.0000", true},
		{"1", 1, "0.9700", true},
		{"0.5", 0.5, "0.4850", true},
		{" 10 ", 10, "9.7000", true},
		{"1000000", 1000000, "970000.0000", true},
		{"", 0, "", false},
		{"   ", 0, "", false},
		{"abc", 0, "", false},
		{"12x", 0, "", false},
		{"0", 0, "", false},
		{"-5", 0, "", false},
	}

	for _, tt := range tests {
		amount, display, ok := EstimateOutput(tt.raw)
		if amount != tt.amount || display != tt.display || ok != tt.ok {
			t.Errorf("EstimateOutput(%q) = (%v, %q, %v), want (%v, %q, %v)",
				tt.raw, amount, display, ok, tt.amount, tt.display, tt.ok)
		}
	}
}

func TestRegistry_AddressAndNativeFallback(t *testing.T) {
	r := DefaultRegistry()

	if addr, ok := r.Address("USDF"); !ok || addr != "#19" {
		t.Errorf("USDF: got (%q, %v), want (#19, true)", addr, ok)
	}
	for _, symbol := range []string{"CVX", "CVM", "GBPF", "EURF", "XAU"} {
		if _, ok := r.Address(symbol); ok {
			t.Errorf("%s must have no address", symbol)
		}
		if !r.Has(symbol) {
			t.Errorf("%s must be registered", symbol)
		}
	}
	if r.Has("DOGE") {
		t.Error("unknown symbol must not be registered")
	}

	if !IsNative("CVX") || !IsNative("CVM") {
		t.Error("CVX and CVM are native aliases")
	}
	if IsNative("USDF") {
		t.Error("USDF is not native")
	}
}

func TestRegistry_Filter(t *testing.T) {
	r := DefaultRegistry()

	filtered := r.Filter([]string{"USDF", "CVX", "NOPE"})
	got := filtered.Symbols()
	if len(got) != 2 || got[0] != "CVX" || got[1] != "USDF" {
		t.Errorf("expected [CVX USDF] in declaration order, got %v", got)
	}
	if addr, ok := filtered.Address("USDF"); !ok || addr != "#19" {
		t.Error("filtering must keep addresses")
	}

	if r.Filter(nil) != r {
		t.Error("empty filter must return the receiver")
	}
	if r.Filter([]string{"NOPE"}) != r {
		t.Error("filter matching nothing must return the receiver")
	}
}

func TestRegistry_SymbolsKeepDeclarationOrder(t *testing.T) {
	want := []string{"CVX", "CVM", "USDF", "GBPF", "EURF", "XAU"}
	got := DefaultRegistry().Symbols()
	if len(got) != len(want) {
		t.Fatalf("got %d symbols, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("symbol %d: got %s, want %s", i, got[i], want[i])
		}
	}
}
