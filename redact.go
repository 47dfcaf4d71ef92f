package client

import (
	"regexp"
	"strings"
)

const redacted = "[REDACTED]"

var accessTokenQueryPattern = regexp.MustCompile(`([?&]access_token=)[^&\s]+`)

// redactString removes the access token, and any access_token query
// parameter, from text that may end up in an error or a log line.
func redactString(value, token string) string {
	if value == "" {
		return value
	}

	value = accessTokenQueryPattern.ReplaceAllString(value, "${1}"+redacted)
	if strings.TrimSpace(token) == "" {
		return value
	}

	return strings.ReplaceAll(value, token, redacted)
}
