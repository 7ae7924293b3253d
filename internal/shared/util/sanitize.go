package util

import (
	"errors"
	"strings"
)

// SanitizeFileName flattens path separators and collapses whitespace runs to
// single spaces. Traversal patterns are rejected outright.
func SanitizeFileName(name string) (string, error) {
	if strings.Contains(name, "..") {
		return "", errors.New("invalid file name")
	}
	s := strings.ReplaceAll(name, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.Join(strings.Fields(s), " ")
	if s == "" {
		return "", errors.New("invalid file name")
	}
	return s, nil
}
