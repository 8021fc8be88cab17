// Package random produces fixed-length random strings used as synthetic test
// data. Uniform distribution is all callers rely on; values are not secrets,
// so math/rand is good enough.
package random

import (
	"math/rand"
	"strings"
)

const (
	digits    = "0123456789"
	lowercase = "abcdefghijklmnopqrstuvwxyz"
)

// Digits returns n random decimal digits.
func Digits(n int) string {
	return withChars(n, digits)
}

// Lowercase returns n random lowercase letters.
func Lowercase(n int) string {
	return withChars(n, lowercase)
}

// Capitalized returns a random lowercase word of length n with the first
// letter uppercased.
func Capitalized(n int) string {
	if n == 0 {
		return ""
	}
	w := Lowercase(n)
	return strings.ToUpper(w[:1]) + w[1:]
}

// CapitalizedRange returns a capitalized word with a length drawn uniformly
// from [min, max].
func CapitalizedRange(min, max int) string {
	return Capitalized(IntBetween(min, max))
}

// IntBetween returns a random integer in [min, max].
func IntBetween(min, max int) int {
	return min + rand.Intn(max-min+1)
}

// Pick returns a random element of items.
func Pick(items []string) string {
	return items[rand.Intn(len(items))]
}

func withChars(n int, chars string) string {
	var b strings.Builder
	b.Grow(n)
	for i := 0; i < n; i++ {
		b.WriteByte(chars[rand.Intn(len(chars))])
	}
	return b.String()
}
