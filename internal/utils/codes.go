package utils

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"time"
)

const bookingAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// RentalNumber returns a "YYYY-NNNN" number for a rental created at t.
// Numbers are random, so callers retry on a unique-key violation.
func RentalNumber(t time.Time) string {
	return fmt.Sprintf("%d-%04d", t.Year(), rand.IntN(10000))
}

// BookingCode returns a code of two blocks of five uppercase letters or digits, e.g. "K3Z9A-0PQ7M".
func BookingCode() string {
	var b strings.Builder
	b.Grow(11)
	for i := 0; i < 10; i++ {
		if i == 5 {
			b.WriteByte('-')
		}
		b.WriteByte(bookingAlphabet[rand.IntN(len(bookingAlphabet))])
	}
	return b.String()
}
