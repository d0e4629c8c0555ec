package demo

import "math/rand/v2"

const (
	OwnerPrefix = "demo-owner"
	ListPrefix  = "demo-list"
	TaskPrefix  = "demo-todo"

	idAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
	idLength   = 7
)

// IDFunc returns a new id for the given prefix.
type IDFunc func(prefix string) string

// RandomID returns "{prefix}-" followed by seven random base36 characters.
func RandomID(prefix string) string {
	b := make([]byte, idLength)
	for i := range b {
		b[i] = idAlphabet[rand.IntN(len(idAlphabet))]
	}
	return prefix + "-" + string(b)
}

// SequentialIDs returns an [IDFunc] that numbers ids per prefix starting at 1.
// Useful for deterministic fixtures.
func SequentialIDs() IDFunc {
	counters := map[string]int{}
	return func(prefix string) string {
		counters[prefix]++
		return prefix + "-" + itoa36(counters[prefix])
	}
}

func itoa36(n int) string {
	if n == 0 {
		return "0"
	}
	var b []byte
	for n > 0 {
		b = append([]byte{idAlphabet[n%36]}, b...)
		n /= 36
	}
	return string(b)
}
