package util

import (
	"errors"
	"strings"
)

// ErrUnsafeFileName is returned for names that are empty or carry
// traversal patterns.
var ErrUnsafeFileName = errors.New("invalid file name")

// SanitizeFileName flattens path separators so a client-supplied name can
// be used as a single object-key segment.
func SanitizeFileName(name string) (string, error) {
	if strings.Contains(name, "..") {
		return "", ErrUnsafeFileName
	}
	s := strings.TrimSpace(name)
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	if s == "" {
		return "", ErrUnsafeFileName
	}
	return s, nil
}
