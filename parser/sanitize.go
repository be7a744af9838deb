package parser

import (
	"net/url"
	"path"
	"regexp"
	"strings"
)

var unsafeFilenameChars = regexp.MustCompile(`[\\/*?:"<>|\s]`)

// SanitizeFilename replaces path separators, reserved characters and whitespace with "_".
// The result never names the current or parent directory.
func SanitizeFilename(name string) string {
	cleaned := unsafeFilenameChars.ReplaceAllString(strings.TrimSpace(name), "_")
	switch cleaned {
	case "", ".", "..":
		return "_"
	}
	return cleaned
}

// AssetFileName derives a local filename from the basename of a URL's path.
func AssetFileName(rawURL string) string {
	p := rawURL
	if u, err := url.Parse(rawURL); err == nil {
		p = u.Path
	}
	p = strings.ReplaceAll(p, `\`, "/")
	return SanitizeFilename(path.Base(p))
}
