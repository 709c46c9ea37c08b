package logger

import (
	"strings"
)

// sensitive query parameter names; a match redacts the whole query string
var sensitiveParams = []string{
	"password",
	"token",
	"secret",
	"auth",
}

// SanitizeQueryString reports whether a raw query string carries sensitive
// parameters and must be redacted from request logs. Search terms and filter
// values are fine to log; credentials and tokens are not.
func SanitizeQueryString(rawQuery string) bool {
	query := strings.ToLower(rawQuery)
	for _, param := range sensitiveParams {
		if strings.Contains(query, param) {
			return true
		}
	}
	return false
}
