package swap

// Token registry: a fixed symbol -> optional on-chain address mapping,
// read-only at run time. Symbols without an address deliberately fall back
// to the native-currency balance; that placeholder policy is part of the
// behavior, not an oversight.

// Native currency aliases. Both denote the chain's base asset.
var nativeAliases = map[string]bool{
	"CVX": true,
	"CVM": true,
}

// IsNative reports whether a symbol denotes the native currency.
func IsNative(symbol string) bool {
	return nativeAliases[symbol]
}

type Registry struct {
	entries map[string]string
	order   []string
}

// DefaultRegistry returns the built-in token table. USDF is the only
// symbol with a deployed exchange market; the remaining fiat placeholders
// carry no address yet.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.add("CVX", "")
	r.add("CVM", "")
	r.add("USDF", "#19")
	r.add("GBPF", "")
	r.add("EURF", "")
	r.add("XAU", "")
	return r
}

func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]string)}
}

func (r *Registry) add(symbol, address string) {
	if _, exists := r.entries[symbol]; !exists {
		r.order = append(r.order, symbol)
	}
	r.entries[symbol] = address
}

// Address returns the on-chain address for a symbol. The second return is
// false when the symbol has no address (or is unknown), in which case
// callers use the native balance.
func (r *Registry) Address(symbol string) (string, bool) {
	addr, exists := r.entries[symbol]
	if !exists || addr == "" {
		return "", false
	}
	return addr, true
}

// Has reports whether a symbol is part of the registry at all.
func (r *Registry) Has(symbol string) bool {
	_, exists := r.entries[symbol]
	return exists
}

// Filter returns a registry restricted to the given symbols, keeping the
// original declaration order. Unknown symbols are skipped; an empty list
// returns the receiver unchanged.
func (r *Registry) Filter(symbols []string) *Registry {
	if len(symbols) == 0 {
		return r
	}
	keep := make(map[string]bool, len(symbols))
	for _, s := range symbols {
		keep[s] = true
	}
	out := NewRegistry()
	for _, symbol := range r.order {
		if keep[symbol] {
			out.add(symbol, r.entries[symbol])
		}
	}
	if len(out.order) == 0 {
		return r
	}
	return out
}

// Symbols lists the registered symbols in declaration order.
func (r *Registry) Symbols() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}
