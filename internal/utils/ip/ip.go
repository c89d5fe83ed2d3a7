package ip

import (
	"net"
	"net/http"
	"strings"
)

// UnknownAddress is reported when neither forwarding headers nor the
// transport peer yield a usable address.
const UnknownAddress = "Unknown"

// ClientAddress resolves the caller's IP: the first hop of X-Forwarded-For
// when present, else the transport-level peer address, else "Unknown".
func ClientAddress(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first := forwarded
		if idx := strings.Index(forwarded, ","); idx >= 0 {
			first = forwarded[:idx]
		}
		if first = strings.TrimSpace(first); first != "" {
			return first
		}
	}

	if r.RemoteAddr != "" {
		host, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			return r.RemoteAddr
		}
		if host != "" {
			return host
		}
	}

	return UnknownAddress
}
