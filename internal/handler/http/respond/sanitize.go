package respond

import (
	"regexp"
)

var (
	// Bearer tokens (JWTs in Authorization headers leaking into errors)
	bearerTokenPattern = regexp.MustCompile(`(?i)bearer\s+[A-Za-z0-9._-]+`)

	// Database passwords inside DSNs
	dbPasswordPattern = regexp.MustCompile(`://([^:/@]+):([^@]+)@`)

	// Webhook URLs carry tokens in their paths; keep only the host
	webhookURLPattern = regexp.MustCompile(`(https?://[^/\s]+)/[^\s"']+`)
)

// SanitizeError returns the error message with credentials masked so it
// can be logged safely.
func SanitizeError(err error) string {
	if err == nil {
		return ""
	}

	msg := err.Error()

	msg = bearerTokenPattern.ReplaceAllString(msg, "Bearer ****")
	// Mask DSN passwords before URL paths so credentials never survive
	msg = dbPasswordPattern.ReplaceAllString(msg, "://$1:****@")
	msg = webhookURLPattern.ReplaceAllString(msg, "$1/****")

	return msg
}
