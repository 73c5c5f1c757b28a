package shortener

import (
	"regexp"
	"strings"
)

const defaultScheme = "https"

var schemePrefix = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9+.\-]*://`)

// Normalize canonicalizes a URL so that equivalent inputs share one stored form.
//
// A missing scheme defaults to https. Scheme and host are lowercased, the
// default port for the scheme is dropped, a bare "/" path becomes empty and
// the fragment is discarded. Everything else is kept byte for byte.
func Normalize(raw string) string {
	if !schemePrefix.MatchString(raw) {
		raw = defaultScheme + "://" + raw
	}

	sep := strings.Index(raw, "://")
	scheme := strings.ToLower(raw[:sep])
	rest := raw[sep+len("://"):]

	if i := strings.IndexByte(rest, '#'); i >= 0 {
		rest = rest[:i]
	}

	authority, tail := rest, ""
	if i := strings.IndexAny(rest, "/?"); i >= 0 {
		authority, tail = rest[:i], rest[i:]
	}

	path, query := tail, ""
	if i := strings.IndexByte(tail, '?'); i >= 0 {
		path, query = tail[:i], tail[i+1:]
	}

	if path == "/" {
		path = ""
	}

	var b strings.Builder

	b.Grow(len(raw))
	b.WriteString(scheme)
	b.WriteString("://")
	b.WriteString(normalizeAuthority(scheme, authority))
	b.WriteString(path)

	if query != "" {
		b.WriteByte('?')
		b.WriteString(query)
	}

	return b.String()
}

func normalizeAuthority(scheme, authority string) string {
	userInfo, hostPort := "", authority
	if i := strings.LastIndexByte(authority, '@'); i >= 0 {
		userInfo, hostPort = authority[:i+1], authority[i+1:]
	}

	hostPort = strings.ToLower(hostPort)

	switch {
	case scheme == "http" && strings.HasSuffix(hostPort, ":80"):
		hostPort = strings.TrimSuffix(hostPort, ":80")
	case scheme == "https" && strings.HasSuffix(hostPort, ":443"):
		hostPort = strings.TrimSuffix(hostPort, ":443")
	}

	return userInfo + hostPort
}
