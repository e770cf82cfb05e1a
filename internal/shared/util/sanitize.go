package util

import (
	"errors"
	"strings"
	"unicode"
)

const maxFileNameLen = 200

var ErrInvalidFileName = errors.New("invalid file name")

// SanitizeFileName flattens path separators, drops control characters and
// rejects traversal patterns. The result is at most 200 bytes.
func SanitizeFileName(name string) (string, error) {
	if strings.Contains(name, "..") {
		return "", ErrInvalidFileName
	}
	s := strings.Map(func(r rune) rune {
		switch {
		case r == '/' || r == '\\':
			return '_'
		case unicode.IsControl(r):
			return -1
		}
		return r
	}, strings.TrimSpace(name))
	if s == "" {
		return "", ErrInvalidFileName
	}
	if len(s) > maxFileNameLen {
		s = strings.ToValidUTF8(s[:maxFileNameLen], "")
	}
	return s, nil
}
