package util

import (
	"errors"
	"path"
	"strings"
	"unicode"
)

// maxFileNameLen bounds stored names. Telegram passes the uploader's file name through
// untouched, so it can be arbitrarily long.
const maxFileNameLen = 128

var ErrInvalidFileName = errors.New("invalid file name")

// SanitizeFileName flattens path separators, drops control characters and shortens long
// names while keeping the extension. Traversal patterns are rejected.
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
	}, name)
	s = strings.TrimSpace(s)
	if s == "" {
		return "", ErrInvalidFileName
	}
	if len(s) > maxFileNameLen {
		ext := path.Ext(s)
		if len(ext) > 16 {
			ext = ""
		}
		s = truncate(strings.TrimSuffix(s, ext), maxFileNameLen-len(ext)) + ext
	}
	return s, nil
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	end := 0
	for i, r := range s {
		size := len(string(r))
		if i+size > n {
			break
		}
		end = i + size
	}
	return s[:end]
}
