package util

import (
	"errors"
	"path"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ErrInvalidFileName is returned for upload names that cannot be stored safely.
var ErrInvalidFileName = errors.New("invalid file name")

// MaxFileNameLen bounds the sanitized name, in bytes, so storage keys stay short.
const MaxFileNameLen = 120

// SanitizeFileName turns an uploaded resume name into a storage-safe key suffix. Path
// separators become underscores and control characters are dropped. Names longer than
// MaxFileNameLen are cut from the stem so the extension survives. Traversal patterns
// are rejected.
func SanitizeFileName(name string) (string, error) {
	if strings.Contains(name, "..") {
		return "", ErrInvalidFileName
	}
	s := strings.Map(func(r rune) rune {
		switch {
		case r == '/' || r == '\\':
			return '_'
		case unicode.IsControl(r) || r == utf8.RuneError:
			return -1
		}
		return r
	}, strings.TrimSpace(name))
	s = strings.TrimSpace(s)
	if s == "" {
		return "", ErrInvalidFileName
	}
	if len(s) <= MaxFileNameLen {
		return s, nil
	}
	ext := path.Ext(s)
	if len(ext) > 16 {
		ext = ""
	}
	stem := s[:MaxFileNameLen-len(ext)]
	for !utf8.ValidString(stem) {
		stem = stem[:len(stem)-1]
	}
	return stem + ext, nil
}
