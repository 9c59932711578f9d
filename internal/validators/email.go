package validators

import (
	"net"
	"strings"
)

// NormalizeEmail trims and lowercases an address. It does not validate it.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// IsEmailDomainValid reports whether the domain of email resolves to a mail
// exchanger or, failing that, to any address. It performs DNS lookups.
func IsEmailDomainValid(email string) bool {
	return isEmailDomainValid(email, net.LookupMX, net.LookupIP)
}

func isEmailDomainValid(
	email string,
	lookupMX func(string) ([]*net.MX, error),
	lookupIP func(string) ([]net.IP, error),
) bool {
	at := strings.LastIndex(email, "@")
	if at <= 0 || at == len(email)-1 {
		return false
	}

	domain := email[at+1:]

	if mx, err := lookupMX(domain); err == nil && len(mx) > 0 {
		return true
	}

	if ips, err := lookupIP(domain); err == nil && len(ips) > 0 {
		return true
	}

	return false
}
