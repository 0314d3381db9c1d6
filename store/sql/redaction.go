package sqlstore

import (
	"net/url"
	"strings"
)

const redactedValue = "[REDACTED]"

// RedactURL strips credentials out of a connection URL before it is written
// to durable storage. Values that do not parse as URLs are scrubbed by key
// token instead so a raw DSN never leaks a password either.
func RedactURL(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}

	parsed, err := url.Parse(trimmed)
	if err != nil || parsed.Scheme == "" {
		return redactDSN(trimmed)
	}

	if parsed.User != nil {
		if _, hasPassword := parsed.User.Password(); hasPassword {
			parsed.User = url.UserPassword(parsed.User.Username(), redactedValue)
		}
	}

	query := parsed.Query()
	dirty := false
	for key := range query {
		if isSensitiveKey(key) {
			query.Set(key, redactedValue)
			dirty = true
		}
	}
	if dirty {
		parsed.RawQuery = query.Encode()
	}

	out := parsed.String()
	// url.String encodes the placeholder brackets; restore them for readability.
	return strings.ReplaceAll(out, url.QueryEscape(redactedValue), redactedValue)
}

// redactDSN handles key=value style connection strings such as the lib/pq
// space-separated form.
func redactDSN(raw string) string {
	fields := strings.Fields(raw)
	changed := false
	for i, field := range fields {
		key, _, ok := strings.Cut(field, "=")
		if !ok {
			continue
		}
		if isSensitiveKey(key) {
			fields[i] = key + "=" + redactedValue
			changed = true
		}
	}
	if !changed {
		return raw
	}
	return strings.Join(fields, " ")
}

func isSensitiveKey(key string) bool {
	key = strings.ToLower(strings.TrimSpace(key))
	if key == "" {
		return false
	}
	sensitiveTokens := []string{
		"password",
		"passwd",
		"secret",
		"token",
		"api_key",
		"apikey",
		"access_key",
		"credential",
	}
	for _, token := range sensitiveTokens {
		if strings.Contains(key, token) {
			return true
		}
	}
	return false
}
