// Package types defines the cross-package data structures used by the repodigest CLI.
package types

const (
	// RecordKindText marks a file whose decoded content is part of the digest body.
	RecordKindText = "text"
	// RecordKindBinary marks a file whose content was replaced with a placeholder
	// because it was classified as binary or could not be decoded.
	RecordKindBinary = "binary"
	// RecordKindUnreadable marks a file that could not be opened or read.
	RecordKindUnreadable = "unreadable"
	// RecordKindOversize marks a file skipped because it exceeds the size limit.
	RecordKindOversize = "oversize"
)

// Warning kinds recorded during a digest run. Warnings never abort the run.
const (
	WarningKindPatternParse    = "pattern-parse"
	WarningKindEntryUnreadable = "entry-unreadable"
	WarningKindDecodeFallback  = "decode-fallback"
)

// Warning records a non-fatal condition encountered while building a digest.
type Warning struct {
	Kind   string
	Path   string
	Detail string
}

// FileRecord is the per-file unit handed from the content reader to the formatter.
// Content holds decoded text for RecordKindText records and is empty otherwise.
type FileRecord struct {
	RelativePath string
	Kind         string
	Content      string
	LineCount    int
	SizeBytes    int64
}
