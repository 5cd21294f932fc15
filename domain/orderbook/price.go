package orderbook

import (
	"errors"
	"fmt"
	"math"
	"strconv"
)

// Prices travel as decimal strings at the edges ("10.05") and as
// fixed-point int64 cents everywhere inside. Parsing rounds to the
// nearest cent, it never truncates.

var ErrBadPrice = errors.New("invalid price")

// ParsePrice converts a decimal dollar string to cents.
func ParsePrice(s string) (int64, error) {
	d, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrBadPrice, s)
	}
	if math.IsNaN(d) || math.IsInf(d, 0) || d <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrBadPrice, s)
	}
	return int64(math.Round(d * 100)), nil
}

// FormatPrice renders cents as a decimal dollar string.
func FormatPrice(p int64) string {
	return fmt.Sprintf("%.2f", float64(p)/100.0)
}
