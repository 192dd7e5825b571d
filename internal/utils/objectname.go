// Package utils provides small, generic helper functions used across
// different layers of the application. These utilities are independent
// of domain or business logic.
package utils

import (
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// whitespaceRE matches runs of whitespace for object-name sanitization.
var whitespaceRE = regexp.MustCompile(`\s+`)

// SanitizeObjectBase normalizes a string for use as the base of a storage
// object name: trims, collapses whitespace runs to single underscores, and
// strips path separators so user input cannot traverse key prefixes.
//
// Example:
//
//	SanitizeObjectBase("  Sunday   Service ") // "Sunday_Service"
func SanitizeObjectBase(s string) string {
	s = whitespaceRE.ReplaceAllString(strings.TrimSpace(s), "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	return s
}

// ObjectName derives a storage object name from a high-resolution timestamp
// and a sanitized base, preserving the extension of the original filename.
// The millisecond timestamp prefix makes names unique enough in practice and
// keeps bucket listings in upload order.
//
// Example:
//
//	ObjectName(t, "Sunday Service", "service.mp4") // "1722470400000_Sunday_Service.mp4"
func ObjectName(now time.Time, base, origFilename string) string {
	ext := filepath.Ext(origFilename)
	b := SanitizeObjectBase(base)
	b = strings.TrimSuffix(b, ext)
	return strconv.FormatInt(now.UnixMilli(), 10) + "_" + b + ext
}
