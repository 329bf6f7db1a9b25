package util

import (
	"fmt"
	"strings"
)

var sizeUnits = []struct {
	suffix string
	bytes  int64
}{
	{"GB", 1 << 30},
	{"MB", 1 << 20},
	{"KB", 1 << 10},
	{"B", 1},
}

// ParseSize parses a human-readable size ("512MB", "25mb", "1024") into
// bytes. Units are binary. defaultBytes is returned for empty or malformed
// input.
func ParseSize(s string, defaultBytes int64) int64 {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return defaultBytes
	}

	multiplier := int64(1)
	for _, u := range sizeUnits {
		if strings.HasSuffix(s, u.suffix) {
			multiplier = u.bytes
			s = strings.TrimSpace(strings.TrimSuffix(s, u.suffix))
			break
		}
	}

	var val int64
	if n, err := fmt.Sscanf(s, "%d", &val); err != nil || n != 1 || val < 0 || fmt.Sprint(val) != s {
		return defaultBytes
	}
	return val * multiplier
}

// FormatBytes renders n with one decimal in the largest fitting binary unit.
func FormatBytes(n int64) string {
	for _, u := range sizeUnits[:3] {
		if n >= u.bytes {
			return fmt.Sprintf("%.1f%s", float64(n)/float64(u.bytes), u.suffix)
		}
	}
	return fmt.Sprintf("%dB", n)
}

// MaskSecret hides all but the first visiblePrefix characters of s.
// Values no longer than visiblePrefix are fully masked.
func MaskSecret(s string, visiblePrefix int) string {
	if len(s) <= visiblePrefix {
		return "***"
	}
	return s[:visiblePrefix] + "***"
}
