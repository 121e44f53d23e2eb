package ws

import (
	"regexp"
	"strings"
)

// Archive extensions the blob endpoint can unpack server-side. Order matters:
// the compound extensions must match before their suffixes.
var archiveExts = []string{".tar.gz", ".tgz", ".tar.bz2", ".zip", ".gz"}

// GetArchiveExt returns the archive extension of name, or "".
func GetArchiveExt(name string) string {
	for _, ext := range archiveExts {
		if strings.HasSuffix(name, ext) {
			return ext
		}
	}
	return ""
}

// PathIsArchive reports whether name ends in a supported archive extension.
func PathIsArchive(name string) bool { return GetArchiveExt(name) != "" }

// StripArchiveExt removes a trailing archive extension, if any.
func StripArchiveExt(name string) string {
	return strings.TrimSuffix(name, GetArchiveExt(name))
}

var (
	invalidNameChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)
	dashRuns         = regexp.MustCompile(`-+`)
	validNameStart   = regexp.MustCompile(`^[A-Za-z_]`)
)

// CreateDefaultBundleName derives a valid bundle name from an uploaded file
// name: one trailing archive extension is stripped, disallowed characters
// collapse to single dashes, a leading non-letter gets an underscore prefix,
// and overly long names shorten to first15..last15.
func CreateDefaultBundleName(name string) string {
	name = StripArchiveExt(name)
	name = invalidNameChars.ReplaceAllString(name, "-")
	name = dashRuns.ReplaceAllString(name, "-")
	if name != "" && !validNameStart.MatchString(name) {
		name = "_" + name
	}
	return ShortenName(name, 32)
}

// ShortenName keeps names at or under maxLen by replacing the middle with
// "..": first 15 characters, "..", last 15 characters.
func ShortenName(name string, maxLen int) string {
	if len(name) <= maxLen {
		return name
	}
	return name[:15] + ".." + name[len(name)-15:]
}

// DefaultBundleMetadata is the metadata payload for a freshly uploaded file.
// name is used verbatim; derive it with CreateDefaultBundleName when starting
// from a filename, since re-sanitizing would strip a second archive extension
// from names like "foo.gz.gz".
func DefaultBundleMetadata(name string) map[string]any {
	return map[string]any{
		"name":        name,
		"description": "",
		"license":     "",
		"source_url":  "",
		"tags":        []string{},
	}
}
