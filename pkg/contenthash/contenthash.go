// Package contenthash computes the short change-detection hash stored with
// every exported icon variant. It is not a cryptographic hash.
package contenthash

import (
	"fmt"
	"unicode/utf16"
)

// Sum returns the hash of s: h = h*31 + unit over the UTF-16 code units of s,
// wrapping as a signed 32-bit integer, rendered as the lowercase hex of |h|
// left-padded to 8 characters. Sum("") is "00000000".
func Sum(s string) string {
	var h int32
	for _, unit := range utf16.Encode([]rune(s)) {
		h = (h << 5) - h + int32(unit)
	}

	abs := int64(h)
	if abs < 0 {
		abs = -abs
	}
	return fmt.Sprintf("%08x", abs)
}
