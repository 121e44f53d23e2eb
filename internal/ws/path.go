package ws

import (
	"net/url"
	"strings"
)

// EncodeContentsPath escapes a path inside a bundle for use in contents
// URLs. Each segment is escaped separately so the slashes survive:
// "a/b?c/d e" → "a/b%3Fc/d%20e".
func EncodeContentsPath(path string) string {
	if path == "" {
		return ""
	}
	segs := strings.Split(path, "/")
	for i, s := range segs {
		segs[i] = url.PathEscape(s)
	}
	return strings.Join(segs, "/")
}
