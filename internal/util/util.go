// Package util provides some basic filename helpers.
package util

import (
	"path/filepath"
	"strings"
)

// Ext returns the extension of path including the leading dot, or "" if there is none.
// Only the final path element is considered.
func Ext(path string) string {
	return filepath.Ext(filepath.Base(path))
}

// HasExt reports whether path ends in one of exts. The comparison ignores case.
func HasExt(path string, exts ...string) bool {
	ext := Ext(path)
	if len(ext) <= 1 {
		return false
	}
	for _, e := range exts {
		if strings.EqualFold(ext, e) {
			return true
		}
	}
	return false
}

// JoinExts renders exts for use in messages, e.g. ".bmp, .dib".
func JoinExts(exts []string) string {
	return strings.Join(exts, ", ")
}
