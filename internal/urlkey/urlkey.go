// Package urlkey provides a canonical key for bookmark URLs so that equivalent
// spellings of one address map to a single bookmark.
package urlkey

import (
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"strings"
)

const prefix = "url:"

// Normalize returns a canonical form of rawURL: scheme and host lower-cased, default
// ports, fragment and a trailing slash on the path removed. Unparseable input is
// returned trimmed but otherwise unchanged.
func Normalize(rawURL string) string {
	trimmed := strings.TrimSpace(rawURL)
	u, err := url.Parse(trimmed)
	if err != nil {
		return trimmed
	}
	u.Scheme = strings.ToLower(u.Scheme)
	host := strings.ToLower(u.Host)
	switch {
	case u.Scheme == "http" && strings.HasSuffix(host, ":80"):
		host = strings.TrimSuffix(host, ":80")
	case u.Scheme == "https" && strings.HasSuffix(host, ":443"):
		host = strings.TrimSuffix(host, ":443")
	}
	u.Host = host
	u.Fragment = ""
	u.RawFragment = ""
	u.Path = strings.TrimSuffix(u.Path, "/")
	u.RawPath = strings.TrimSuffix(u.RawPath, "/")
	return u.String()
}

// Key returns a stable key for rawURL. Equivalent URLs (see Normalize) yield the same key.
func Key(rawURL string) string {
	hash := sha256.Sum256([]byte(Normalize(rawURL)))
	return prefix + hex.EncodeToString(hash[:])
}
