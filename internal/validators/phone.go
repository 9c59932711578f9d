package validators

import "strings"

// NormalizePhone keeps only the digits of phone, so "(11) 99999-0000" and
// "11999990000" identify the same client. A leading "+" is dropped too.
func NormalizePhone(phone string) string {
	var b strings.Builder
	b.Grow(len(phone))
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
