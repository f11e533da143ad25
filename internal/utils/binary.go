package utils

import (
	"unicode/utf8"
)

// BinarySniffLength is the maximum number of bytes inspected when classifying
// a file as binary.
const BinarySniffLength = 8000

// IsBinary reports whether the provided byte slice appears to contain binary data.
// Content is considered binary when it holds a NUL byte or is not valid UTF-8.
func IsBinary(data []byte) bool {
	if len(data) == 0 {
		return false
	}
	for _, byteValue := range data {
		if byteValue == 0 {
			return true
		}
	}
	return !utf8.Valid(data)
}
