// Package redact strips secrets from strings before they are logged: session
// tokens, password hashes, credentials embedded in connection strings and
// DSNs, email addresses, file paths and SQL fragments.
package redact

import (
	"regexp"
)

// Placeholders substituted for redacted content.
const (
	RedactionPlaceholder          = "[REDACTED]"
	RedactedPathPlaceholder       = "[REDACTED_PATH]"
	RedactedCredentialPlaceholder = "[REDACTED_CREDENTIAL]"
	RedactedKeyPlaceholder        = "[REDACTED_KEY]"
	RedactedTokenPlaceholder      = "[REDACTED_TOKEN]"
	RedactedJWTPlaceholder        = "[REDACTED_JWT]"
	RedactedHashPlaceholder       = "[REDACTED_HASH]"
	RedactedEmailPlaceholder      = "[REDACTED_EMAIL]"
	RedactedSQLPlaceholder        = "[REDACTED_SQL]"
)

type rule struct {
	pattern     *regexp.Regexp
	replacement string
}

// rules run in order. Earlier rules consume text that later, broader rules
// would otherwise mangle: a bcrypt hash contains slashes, a DSN contains an @.
var rules = []rule{
	// Userinfo of any URL: postgres://user:pass@, https://key@sentry.
	{regexp.MustCompile(`(?i)\b[a-z][a-z0-9+.-]*://[^/@\s]+@`), RedactedCredentialPlaceholder},
	{regexp.MustCompile(`\$2[aby]?\$\d{2}\$[./A-Za-z0-9]{53}`), RedactedHashPlaceholder},
	{regexp.MustCompile(`(?i)(bearer\s+)[A-Za-z0-9_\-.~+/=]+`), "${1}" + RedactedTokenPlaceholder},
	{regexp.MustCompile(`eyJ[a-zA-Z0-9_-]+\.eyJ[a-zA-Z0-9_-]+\.[a-zA-Z0-9_-]+`), RedactedJWTPlaceholder},
	{regexp.MustCompile(`(?i)(password|passwd|pwd)([=:\s]?['"]?)[^'"&\s]{3,}`), RedactedCredentialPlaceholder},
	{
		regexp.MustCompile(`(?i)(api[_-]?key|token|secret|key|access|auth)(['"\s:=]+)[A-Za-z0-9_\-.~+/]{8,}`),
		RedactedKeyPlaceholder,
	},
	{regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`), RedactedEmailPlaceholder},
	{regexp.MustCompile(`(/[\w.-]+){2,}`), RedactedPathPlaceholder},
	{regexp.MustCompile(`(?:goroutine \d+|panic:)[\s\S]*?(\n\t.*)+`), "[STACK_TRACE_REDACTED]"},
	{
		regexp.MustCompile(
			`(?i)(SELECT|INSERT|UPDATE|DELETE|CREATE|ALTER|DROP|GRANT)[\s\w,*()]+(?:FROM|INTO|SET|TABLE|DATABASE|SCHEMA|VIEW)(?:[\s\w,*()='"$]+)?`,
		),
		RedactedSQLPlaceholder,
	},
}

// String redacts sensitive information from the input string
func String(input string) string {
	if input == "" {
		return input
	}

	result := input
	for _, r := range rules {
		result = r.pattern.ReplaceAllString(result, r.replacement)
	}
	return result
}

// Error redacts sensitive information from an error's Error() output
func Error(err error) string {
	if err == nil {
		return ""
	}

	return String(err.Error())
}
