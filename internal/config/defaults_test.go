package config

import (
	"slices"
	"testing"

	"github.com/erayyap/repodigest/internal/utils"
)

// TestDefaultIgnorePatternsReturnsCopy verifies callers cannot mutate the
// shared default list.
func TestDefaultIgnorePatternsReturnsCopy(testingHandle *testing.T) {
	firstCopy := DefaultIgnorePatterns()
	firstCopy[0] = "mutated/"

	secondCopy := DefaultIgnorePatterns()
	if secondCopy[0] == "mutated/" {
		testingHandle.Fatalf("mutating a returned copy leaked into the defaults")
	}
}

// TestDefaultIgnorePatternsCoverWellKnownDirectories verifies the built-in
// list excludes version control metadata, dependency directories, and the
// tool's own output file.
func TestDefaultIgnorePatternsCoverWellKnownDirectories(testingHandle *testing.T) {
	patterns := DefaultIgnorePatterns()

	expectedPatterns := []string{
		utils.GitDirectoryName + "/",
		"node_modules/",
		"build/",
		"__pycache__/",
		DefaultOutputFileName,
	}
	for _, expectedPattern := range expectedPatterns {
		if !slices.Contains(patterns, expectedPattern) {
			testingHandle.Errorf("default patterns should contain %q: %v", expectedPattern, patterns)
		}
	}
}
