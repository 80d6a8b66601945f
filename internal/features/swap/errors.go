package swap

import "fmt"

// UnsupportedSwapError marks a token pair the exchange wiring cannot
// serve yet. Token-to-token routing is explicitly unimplemented and must
// fail loudly rather than silently doing nothing.
type UnsupportedSwapError struct {
	FromToken string
	ToToken   string
	Reason    string
}

func (e *UnsupportedSwapError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("unsupported swap %s -> %s: %s", e.FromToken, e.ToToken, e.Reason)
	}
	return fmt.Sprintf("unsupported swap %s -> %s", e.FromToken, e.ToToken)
}

// InvalidAmountError rejects non-numeric, zero or negative input amounts.
type InvalidAmountError struct {
	Raw string
}

func (e *InvalidAmountError) Error() string {
	return fmt.Sprintf("invalid amount %q: must be a positive number", e.Raw)
}
