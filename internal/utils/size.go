package utils

import (
	"fmt"
	"strings"
)

// FormatFileSize converts a byte length into a human-readable lower-case unit string.
// Values below one kilobyte render as exact byte counts.
func FormatFileSize(sizeBytes int64) string {
	if sizeBytes < 0 {
		return "0b"
	}
	unitSuffixes := []string{"b", "kb", "mb", "gb", "tb", "pb"}
	scaledValue := float64(sizeBytes)
	unitIndex := 0
	for scaledValue >= 1024 && unitIndex < len(unitSuffixes)-1 {
		scaledValue /= 1024
		unitIndex++
	}
	if unitIndex == 0 {
		return fmt.Sprintf("%db", sizeBytes)
	}
	if scaledValue < 10 {
		formattedValue := strings.TrimSuffix(fmt.Sprintf("%.1f", scaledValue), ".0")
		return formattedValue + unitSuffixes[unitIndex]
	}
	return fmt.Sprintf("%.0f%s", scaledValue, unitSuffixes[unitIndex])
}
