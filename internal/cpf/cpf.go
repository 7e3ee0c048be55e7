// Package cpf validates and normalizes the 11-digit dealer tax identifier.
// Normalization strips only formatting characters (whitespace, dots,
// hyphens); validation checks the two trailing check digits with the
// standard modulo-11 weighted sum.
package cpf

import "regexp"

var maskChars = regexp.MustCompile(`[\s.-]`)

// Normalize removes whitespace, dots and hyphens from raw. Any other
// character is left in place and will fail validation.
func Normalize(raw string) string {
	return maskChars.ReplaceAllString(raw, "")
}

// IsValid reports whether raw is a well-formed identifier after
// normalization. It never panics; any malformed input yields false.
func IsValid(raw string) bool {
	n := Normalize(raw)
	if len(n) != 11 {
		return false
	}

	digits := make([]int, 11)
	repeated := true
	for i := 0; i < 11; i++ {
		c := n[i]
		if c < '0' || c > '9' {
			return false
		}
		digits[i] = int(c - '0')
		if digits[i] != digits[0] {
			repeated = false
		}
	}
	// The ten degenerate all-same-digit strings carry valid check digits
	// but are not real identifiers.
	if repeated {
		return false
	}

	if checkDigit(digits[:9], 10) != digits[9] {
		return false
	}
	return checkDigit(digits[:10], 11) == digits[10]
}

// checkDigit computes one verification digit over the given prefix. The
// first weight is firstWeight and decreases by one per position; a remainder
// of 10 or 11 maps to 0.
func checkDigit(prefix []int, firstWeight int) int {
	sum := 0
	for i, d := range prefix {
		sum += d * (firstWeight - i)
	}
	rest := (sum * 10) % 11
	if rest >= 10 {
		rest = 0
	}
	return rest
}
