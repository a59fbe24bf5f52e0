package ethrpc

import "net/url"

// Redact keeps the scheme and host of an endpoint and masks the path, query
// and user info, where providers put API keys.
func Redact(raw string) string {
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Host == "" {
		return "***"
	}
	redacted := parsed.Scheme + "://" + parsed.Host
	if (parsed.Path != "" && parsed.Path != "/") || parsed.RawQuery != "" || parsed.User != nil {
		redacted += "/***"
	}
	return redacted
}
