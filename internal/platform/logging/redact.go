package logging

import (
	"log/slog"
	"regexp"

	"github.com/m-mizutani/masq"
)

var (
	// Authorization header values, including the webhook sink's bearer token.
	authHeaderPattern = regexp.MustCompile(`(?i)^(bearer|basic)\s+\S+$`)

	jwtPattern = regexp.MustCompile(`^eyJ[A-Za-z0-9_-]*\.eyJ[A-Za-z0-9_-]*\.[A-Za-z0-9_-]*$`)
)

// RedactOptions lists what the handlers mask: credential-like field names,
// any field starting with "secret", and authorization-shaped values.
func RedactOptions() []masq.Option {
	opts := []masq.Option{
		masq.WithFieldPrefix("secret"),
		masq.WithRegex(authHeaderPattern),
		masq.WithRegex(jwtPattern),
	}

	for _, name := range []string{
		"token", "Token", "password", "apiKey", "api_key",
		"authorization", "Authorization", "cookie", "credentials",
	} {
		opts = append(opts, masq.WithFieldName(name))
	}

	return opts
}

// NewReplaceAttr returns a slog ReplaceAttr that applies RedactOptions plus
// extra.
func NewReplaceAttr(extra ...masq.Option) func(groups []string, a slog.Attr) slog.Attr {
	return masq.New(append(RedactOptions(), extra...)...)
}
