package model

import (
	"fmt"
	"strconv"
)

// FormatLimit renders a count-like field, mapping the Unlimited sentinel
// to the infinity sign.
func FormatLimit(n int64) string {
	if n == Unlimited {
		return "∞"
	}
	return strconv.FormatInt(n, 10)
}

// FormatHours renders a duration in hours, mapping Unlimited to the word
// "unlimited".
func FormatHours(h int64) string {
	if h == Unlimited {
		return "unlimited"
	}
	return fmt.Sprintf("%dh", h)
}

// FormatSigned renders a balance delta with an explicit sign.
func FormatSigned(n int64) string {
	if n >= 0 {
		return "+" + strconv.FormatInt(n, 10)
	}
	return strconv.FormatInt(n, 10)
}
