package device

import (
	"strings"

	"github.com/mssola/user_agent"
)

// Metadata describes the client software seen on a request.
type Metadata struct {
	Browser         string
	OperatingSystem string
}

// FromUserAgent parses browser and operating-system names out of a User-Agent
// header. Used as a fallback when the client does not self-report device
// metadata on MFA verification.
func FromUserAgent(userAgentString string) Metadata {
	if strings.TrimSpace(userAgentString) == "" {
		return Metadata{}
	}

	ua := user_agent.New(userAgentString)
	browser, version := ua.Browser()
	if version != "" {
		browser = browser + " " + version
	}

	osName := ua.OS()
	if idx := strings.Index(osName, " "); idx > 0 {
		osName = osName[:idx]
	}

	return Metadata{
		Browser:         browser,
		OperatingSystem: osName,
	}
}
