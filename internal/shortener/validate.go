package shortener

import (
	"regexp"
	"unicode/utf8"
)

var urlPattern = regexp.MustCompile(`(?i)^https?://` +
	`(?:(?:[A-Z0-9](?:[A-Z0-9-]{0,61}[A-Z0-9])?\.)+[A-Z]{2,6}\.?` + // domain
	`|localhost` +
	`|\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3})` + // ipv4
	`(?::\d+)?` +
	`(?:/?|[/?]\S+)$`)

// IsValid reports whether url is an http(s) URL with a hostname, localhost or
// IPv4 authority and at most MaxURLLength characters. It is a syntactic check only.
func IsValid(url string) bool {
	if utf8.RuneCountInString(url) > MaxURLLength {
		return false
	}

	return urlPattern.MatchString(url)
}
