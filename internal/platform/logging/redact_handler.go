package logging

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/m-mizutani/masq"
)

// sensitiveHeaders carry credentials and never reach the log (lowercase).
var sensitiveHeaders = map[string]bool{
	"authorization":       true,
	"proxy-authorization": true,
	"x-api-key":           true,
	"cookie":              true,
	"set-cookie":          true,
}

// IsSensitiveHeader reports whether the named HTTP header must be redacted.
func IsSensitiveHeader(name string) bool {
	return sensitiveHeaders[strings.ToLower(name)]
}

// Field names whose values are always masked. Leads and contacts carry
// customer email and phone; both the slog key and the struct field spelling
// are listed so slog.Any(lead) is covered too.
var (
	secretFields = []string{"password", "secret", "token", "dsn", "DSN"}
	piiFields    = []string{"email", "Email", "phone", "Phone"}
	fieldPrefix  = []string{"secret_", "api_key"}
)

// Values that look like credentials regardless of the key they are logged
// under.
var valuePatterns = []*regexp.Regexp{
	// Bearer tokens.
	regexp.MustCompile(`(?i)bearer\s+[a-zA-Z0-9\-._~+/]+=*`),
	// JWTs; 10+ chars per segment keeps version strings out.
	regexp.MustCompile(`[a-zA-Z0-9\-_]{10,}\.[a-zA-Z0-9\-_]{10,}\.[a-zA-Z0-9\-_]{10,}`),
	// Inline api_key=... / apikey: ...
	regexp.MustCompile(`(?i)(api[_\-]?key|apikey)\s*[:=]\s*\S+`),
	// Store and broker URLs with user:password@ (store.dsn, broker.url).
	regexp.MustCompile(`(?i)\b(postgres(ql)?|amqps?)://[^:/@\s]+:[^@\s]+@`),
	// libpq key/value connection strings.
	regexp.MustCompile(`(?i)\bpassword=\S+`),
}

// newRedactAttr builds the masq ReplaceAttr used by New.
func newRedactAttr() func([]string, slog.Attr) slog.Attr {
	opts := make([]masq.Option, 0, len(sensitiveHeaders)+len(secretFields)+len(piiFields)+len(fieldPrefix)+len(valuePatterns))

	for name := range sensitiveHeaders {
		opts = append(opts, masq.WithFieldName(name))
	}
	for _, group := range [][]string{secretFields, piiFields} {
		for _, name := range group {
			opts = append(opts, masq.WithFieldName(name))
		}
	}
	for _, prefix := range fieldPrefix {
		opts = append(opts, masq.WithFieldPrefix(prefix))
	}
	for _, re := range valuePatterns {
		opts = append(opts, masq.WithRegex(re))
	}

	return masq.New(opts...)
}
