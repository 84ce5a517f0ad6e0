package util

import (
	"fmt"
	"strconv"
	"strings"
)

// ParsePercent parses a percent value that may carry a trailing '%'
// (Alpha Vantage encodes "1.23%"). The result is a percent number,
// i.e. 1.23 means +1.23%.
func ParsePercent(s string) (float64, error) {
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "%"))
	if s == "" {
		return 0, fmt.Errorf("empty percent value")
	}
	return strconv.ParseFloat(s, 64)
}
