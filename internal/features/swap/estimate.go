package swap

import (
	"fmt"
	"strconv"
	"strings"
)

// SlippageFactor is the fixed 3% haircut applied when estimating swap
// output. It is a placeholder, not derived from market data.
const SlippageFactor = 0.97

// EstimateOutput computes the displayed output amount for a raw input
// string. It returns the parsed input, the formatted estimate and whether
// the input was usable; unusable input (non-numeric, empty, zero,
// negative) yields ok=false and the caller clears the output field.
func EstimateOutput(raw string) (amount float64, display string, ok bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, "", false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v <= 0 {
		return 0, "", false
	}
	return v, fmt.Sprintf("%.4f", v*SlippageFactor), true
}
