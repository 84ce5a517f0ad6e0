package util

import (
	"fmt"
	"strconv"
	"time"
)

// FormatMarketCap renders a market capitalization in dollars using T/B/M
// suffix tiers with two decimals. Values below one million fall back to a
// comma-grouped integer.
func FormatMarketCap(v float64) string {
	switch {
	case v >= 1e12:
		return fmt.Sprintf("$%.2fT", v/1e12)
	case v >= 1e9:
		return fmt.Sprintf("$%.2fB", v/1e9)
	case v >= 1e6:
		return fmt.Sprintf("$%.2fM", v/1e6)
	default:
		return "$" + GroupInt(int64(v))
	}
}

// GroupInt renders n with comma thousands separators.
func GroupInt(n int64) string {
	neg := n < 0
	if neg {
		n = -n
	}
	s := strconv.FormatInt(n, 10)
	for i := len(s) - 3; i > 0; i -= 3 {
		s = s[:i] + "," + s[i:]
	}
	if neg {
		return "-" + s
	}
	return s
}

// FormatNewsDate renders an epoch-seconds publish timestamp as
// "Jan 2, 2006, 15:04" in the server's local time zone.
func FormatNewsDate(epoch int64) string {
	return time.Unix(epoch, 0).Local().Format("Jan 2, 2006, 15:04")
}
