// Package expiry validates the MM/YY expiry printed on the demo card.
package expiry

import "fmt"

// ValidateMMYY checks that s has the form "MM/YY" with a month in 01..12.
func ValidateMMYY(s string) error {
	if len(s) != 5 || s[2] != '/' {
		return fmt.Errorf("expiry must be MM/YY")
	}
	for _, i := range []int{0, 1, 3, 4} {
		if s[i] < '0' || s[i] > '9' {
			return fmt.Errorf("expiry must be digits: MM/YY")
		}
	}
	mm := int(s[0]-'0')*10 + int(s[1]-'0')
	if mm < 1 || mm > 12 {
		return fmt.Errorf("expiry month must be 01..12")
	}
	return nil
}
