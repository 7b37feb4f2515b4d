// Package sanitize scrubs secrets from text that vaultpick shows or logs,
// such as the stderr of the password manager CLI.
package sanitize

import "regexp"

// Pattern represents a compiled regex pattern for secret detection
type Pattern struct {
	Name        string
	Regex       *regexp.Regexp
	Replacement string
}

// secretPatterns are applied in order; earlier, more specific patterns win.
var secretPatterns = []Pattern{
	{
		Name:        "Session variable",
		Regex:       regexp.MustCompile(`\b(OP_SESSION_?\w*)=\S+`),
		Replacement: "${1}=[REDACTED]",
	},
	{
		Name:        "Session flag",
		Regex:       regexp.MustCompile(`(--session[= ])\S+`),
		Replacement: "${1}[REDACTED]",
	},
	{
		Name:        "Service account token",
		Regex:       regexp.MustCompile(`ops_[A-Za-z0-9_-]{20,}`),
		Replacement: "[SERVICE_ACCOUNT_TOKEN_REDACTED]",
	},
	{
		Name:        "TOTP secret",
		Regex:       regexp.MustCompile(`(?i)(otpauth://\S*?[?&]secret=)[A-Z2-7=]+`),
		Replacement: "${1}[REDACTED]",
	},
	{
		Name:        "JWT Token",
		Regex:       regexp.MustCompile(`eyJ[A-Za-z0-9_-]+\.eyJ[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+`),
		Replacement: "[JWT_REDACTED]",
	},
	{
		Name:        "Private Key Block",
		Regex:       regexp.MustCompile(`-----BEGIN [A-Z ]+-----[\s\S]+?-----END [A-Z ]+-----`),
		Replacement: "[PRIVATE_KEY_REDACTED]",
	},
	{
		Name:        "Generic Secret",
		Regex:       regexp.MustCompile(`(?i)(password|token|secret|api_key)\s*[=:]\s*\S+`),
		Replacement: "${1}=[REDACTED]",
	},
	{
		Name:        "Bearer Token",
		Regex:       regexp.MustCompile(`(?i)bearer\s+[A-Za-z0-9_.-]{20,}`),
		Replacement: "Bearer [REDACTED]",
	},
}

// GetSecretPatterns returns the default secret patterns.
func GetSecretPatterns() []Pattern {
	return secretPatterns
}
