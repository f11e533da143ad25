// Package utils contains general helper functions shared across the repodigest tool.
package utils

// Well-known file and directory names consulted during traversal.
const (
	// IgnoreFileName is the name of the tool's own ignore file.
	IgnoreFileName = ".ignore"
	// GitIgnoreFileName is the name of the Git ignore file.
	GitIgnoreFileName = ".gitignore"
	// GitDirectoryName is the name of the Git repository metadata directory.
	GitDirectoryName = ".git"
)

// DeduplicatePatterns removes duplicate patterns from a slice while preserving order.
// The first occurrence of each unique pattern is kept.
func DeduplicatePatterns(patterns []string) []string {
	encounteredPatterns := make(map[string]struct{}, len(patterns))
	result := make([]string, 0, len(patterns))
	for _, patternValue := range patterns {
		if _, exists := encounteredPatterns[patternValue]; !exists {
			encounteredPatterns[patternValue] = struct{}{}
			result = append(result, patternValue)
		}
	}
	return result
}

// JoinRelative appends childName to a slash-separated parent path relative to the
// traversal root. The root itself is represented by an empty string.
func JoinRelative(parentRelativePath, childName string) string {
	if parentRelativePath == "" {
		return childName
	}
	return parentRelativePath + "/" + childName
}
