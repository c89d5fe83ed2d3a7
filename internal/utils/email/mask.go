package email

import (
	"strings"
)

// Mask obscures the local part of an address for display, keeping the first
// character and the full domain: "jane@example.com" -> "j***@example.com".
// Addresses without an '@' are masked entirely.
func Mask(address string) string {
	at := strings.Index(address, "@")
	if at <= 0 {
		return "***"
	}
	return address[:1] + "***" + address[at:]
}
