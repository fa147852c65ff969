// Package secret generates the short numeric codes used by the demo: the
// rotating 3-digit card verification value and request identifiers. The
// codes are display values, not security controls, so math/rand is enough.
package secret

import (
	"fmt"
	"math/rand"
)

// Rotator produces a fresh 3-digit secret on every call. Values are uniform
// over 000-999 and independent of each other; collisions with a previous
// secret are allowed.
type Rotator struct{}

func NewRotator() *Rotator {
	return &Rotator{}
}

func (r *Rotator) Next() string {
	return fmt.Sprintf("%03d", rand.Intn(1000))
}

// Digits returns a random numeric string of the given length, leading zeros
// included.
func Digits(length int) string {
	buf := make([]byte, length)
	for i := range buf {
		buf[i] = byte('0' + rand.Intn(10))
	}
	return string(buf)
}
