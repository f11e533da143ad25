package digest

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/erayyap/repodigest/internal/types"
	"github.com/erayyap/repodigest/internal/utils"
)

// writeTestFile creates a file with the specified content, failing the test on error.
func writeTestFile(testingHandle *testing.T, filePath string, content []byte) {
	testingHandle.Helper()
	if makeDirError := os.MkdirAll(filepath.Dir(filePath), 0o755); makeDirError != nil {
		testingHandle.Fatalf("failed to create parent directory for %s: %v", filePath, makeDirError)
	}
	if writeError := os.WriteFile(filePath, content, 0o644); writeError != nil {
		testingHandle.Fatalf("failed to write %s: %v", filePath, writeError)
	}
}

// TestBuildAppliesGitignore verifies the end-to-end pipeline: pattern
// exclusion, ordered records, and the exact header total.
func TestBuildAppliesGitignore(testingHandle *testing.T) {
	rootDirectory := testingHandle.TempDir()
	writeTestFile(testingHandle, filepath.Join(rootDirectory, utils.GitIgnoreFileName), []byte("*.log\n"))
	writeTestFile(testingHandle, filepath.Join(rootDirectory, "main.go"), []byte("package main\n"))
	writeTestFile(testingHandle, filepath.Join(rootDirectory, "debug.log"), []byte("noise\n"))

	buildResult, buildError := Build(rootDirectory, Options{UseGitignore: true})
	if buildError != nil {
		testingHandle.Fatalf("Build failed: %v", buildError)
	}

	expectedPaths := []string{utils.GitIgnoreFileName, "main.go"}
	if !reflect.DeepEqual(buildResult.RelativePaths, expectedPaths) {
		testingHandle.Fatalf("relative paths: got %v want %v", buildResult.RelativePaths, expectedPaths)
	}
	if buildResult.Output.TotalLineCount != 2 {
		testingHandle.Fatalf("total line count: got %d want 2", buildResult.Output.TotalLineCount)
	}

	renderedText := buildResult.Output.RenderString()
	if !strings.HasPrefix(renderedText, "[2 lines]\n") {
		testingHandle.Errorf("digest should start with the line count header, got %q", renderedText)
	}
	if strings.Contains(renderedText, "debug.log") {
		testingHandle.Errorf("excluded file leaked into the digest:\n%s", renderedText)
	}
	if !strings.Contains(renderedText, "=== main.go ===\npackage main\n=== main.go ===\n") {
		testingHandle.Errorf("main.go block missing or malformed:\n%s", renderedText)
	}
}

// TestBuildIsByteStable verifies that two builds over an unchanged tree
// render byte-identical artifacts.
func TestBuildIsByteStable(testingHandle *testing.T) {
	rootDirectory := testingHandle.TempDir()
	writeTestFile(testingHandle, filepath.Join(rootDirectory, "b.txt"), []byte("b\n"))
	writeTestFile(testingHandle, filepath.Join(rootDirectory, "a", "nested.txt"), []byte("n\n"))
	writeTestFile(testingHandle, filepath.Join(rootDirectory, "data.bin"), []byte{0x00, 0x01, 0x02})

	firstResult, firstError := Build(rootDirectory, Options{})
	if firstError != nil {
		testingHandle.Fatalf("first build failed: %v", firstError)
	}
	secondResult, secondError := Build(rootDirectory, Options{})
	if secondError != nil {
		testingHandle.Fatalf("second build failed: %v", secondError)
	}
	if firstResult.Output.RenderString() != secondResult.Output.RenderString() {
		testingHandle.Fatalf("repeated builds disagree:\n%s\nvs:\n%s",
			firstResult.Output.RenderString(), secondResult.Output.RenderString())
	}
}

// TestBuildBinaryPlaceholder verifies that a binary file renders as a sized
// placeholder and contributes zero lines.
func TestBuildBinaryPlaceholder(testingHandle *testing.T) {
	rootDirectory := testingHandle.TempDir()
	writeTestFile(testingHandle, filepath.Join(rootDirectory, "data.bin"), []byte{0x7F, 0x45, 0x00, 0x46})
	writeTestFile(testingHandle, filepath.Join(rootDirectory, "readme.txt"), []byte("hello\n"))

	buildResult, buildError := Build(rootDirectory, Options{})
	if buildError != nil {
		testingHandle.Fatalf("Build failed: %v", buildError)
	}
	if buildResult.Output.TotalLineCount != 1 {
		testingHandle.Fatalf("total line count: got %d want 1", buildResult.Output.TotalLineCount)
	}
	renderedText := buildResult.Output.RenderString()
	if !strings.Contains(renderedText, "=== data.bin ===\n[binary content omitted: 4b]\n=== data.bin ===\n") {
		testingHandle.Errorf("binary placeholder block missing:\n%s", renderedText)
	}
}

// TestBuildDefaultExclusions verifies that the built-in default patterns
// exclude tool directories without any rule files present.
func TestBuildDefaultExclusions(testingHandle *testing.T) {
	rootDirectory := testingHandle.TempDir()
	writeTestFile(testingHandle, filepath.Join(rootDirectory, ".git", "HEAD"), []byte("ref: refs/heads/main\n"))
	writeTestFile(testingHandle, filepath.Join(rootDirectory, "node_modules", "pkg", "index.js"), []byte("x\n"))
	writeTestFile(testingHandle, filepath.Join(rootDirectory, "app.go"), []byte("package app\n"))

	buildResult, buildError := Build(rootDirectory, Options{})
	if buildError != nil {
		testingHandle.Fatalf("Build failed: %v", buildError)
	}
	if !reflect.DeepEqual(buildResult.RelativePaths, []string{"app.go"}) {
		testingHandle.Fatalf("relative paths: got %v want [app.go]", buildResult.RelativePaths)
	}
}

// TestBuildExcludePatternsLayering verifies that command line exclusions
// apply everywhere but repository rule files can re-include.
func TestBuildExcludePatternsLayering(testingHandle *testing.T) {
	rootDirectory := testingHandle.TempDir()
	writeTestFile(testingHandle, filepath.Join(rootDirectory, "draft.md"), []byte("d\n"))
	writeTestFile(testingHandle, filepath.Join(rootDirectory, "keep.md"), []byte("k\n"))
	writeTestFile(testingHandle, filepath.Join(rootDirectory, "main.go"), []byte("package main\n"))

	excludedResult, excludedError := Build(rootDirectory, Options{ExcludePatterns: []string{"*.md"}})
	if excludedError != nil {
		testingHandle.Fatalf("Build failed: %v", excludedError)
	}
	if !reflect.DeepEqual(excludedResult.RelativePaths, []string{"main.go"}) {
		testingHandle.Fatalf("excluded build paths: got %v want [main.go]", excludedResult.RelativePaths)
	}

	writeTestFile(testingHandle, filepath.Join(rootDirectory, utils.GitIgnoreFileName), []byte("!keep.md\n"))
	reincludedResult, reincludedError := Build(rootDirectory, Options{
		UseGitignore:    true,
		ExcludePatterns: []string{"*.md"},
	})
	if reincludedError != nil {
		testingHandle.Fatalf("Build failed: %v", reincludedError)
	}
	expectedPaths := []string{utils.GitIgnoreFileName, "keep.md", "main.go"}
	if !reflect.DeepEqual(reincludedResult.RelativePaths, expectedPaths) {
		testingHandle.Fatalf("re-included build paths: got %v want %v", reincludedResult.RelativePaths, expectedPaths)
	}
}

// TestBuildIncludePatterns verifies the include allowlist restricts the
// digest to matching files and applies after every exclusion rule.
func TestBuildIncludePatterns(testingHandle *testing.T) {
	rootDirectory := testingHandle.TempDir()
	writeTestFile(testingHandle, filepath.Join(rootDirectory, utils.GitIgnoreFileName), []byte("*.gen.go\n"))
	writeTestFile(testingHandle, filepath.Join(rootDirectory, "main.go"), []byte("package main\n"))
	writeTestFile(testingHandle, filepath.Join(rootDirectory, "api.gen.go"), []byte("g\n"))
	writeTestFile(testingHandle, filepath.Join(rootDirectory, "notes.md"), []byte("n\n"))
	writeTestFile(testingHandle, filepath.Join(rootDirectory, "pkg", "util.go"), []byte("package pkg\n"))

	buildResult, buildError := Build(rootDirectory, Options{
		UseGitignore:    true,
		IncludePatterns: []string{"*.go"},
	})
	if buildError != nil {
		testingHandle.Fatalf("Build failed: %v", buildError)
	}

	// api.gen.go matches the include pattern but stays excluded by the
	// repository rule; notes.md and the rule file match no include pattern.
	expectedPaths := []string{"main.go", "pkg/util.go"}
	if !reflect.DeepEqual(buildResult.RelativePaths, expectedPaths) {
		testingHandle.Fatalf("relative paths: got %v want %v", buildResult.RelativePaths, expectedPaths)
	}
}

// TestBuildNestedScopes verifies per-directory rule files scoped to their
// subtrees.
func TestBuildNestedScopes(testingHandle *testing.T) {
	rootDirectory := testingHandle.TempDir()
	writeTestFile(testingHandle, filepath.Join(rootDirectory, "pkg", "sub", utils.GitIgnoreFileName), []byte("*.gen.go\n"))
	writeTestFile(testingHandle, filepath.Join(rootDirectory, "pkg", "sub", "api.gen.go"), []byte("g\n"))
	writeTestFile(testingHandle, filepath.Join(rootDirectory, "pkg", "sub", "api.go"), []byte("a\n"))
	writeTestFile(testingHandle, filepath.Join(rootDirectory, "root.gen.go"), []byte("r\n"))

	buildResult, buildError := Build(rootDirectory, Options{UseGitignore: true})
	if buildError != nil {
		testingHandle.Fatalf("Build failed: %v", buildError)
	}
	expectedPaths := []string{
		"pkg/sub/" + utils.GitIgnoreFileName,
		"pkg/sub/api.go",
		"root.gen.go",
	}
	if !reflect.DeepEqual(buildResult.RelativePaths, expectedPaths) {
		testingHandle.Fatalf("relative paths: got %v want %v", buildResult.RelativePaths, expectedPaths)
	}
}

// TestBuildRecordsWarnings verifies that read degradations surface as
// warnings on the result without failing the build.
func TestBuildRecordsWarnings(testingHandle *testing.T) {
	rootDirectory := testingHandle.TempDir()
	mixedContent := append([]byte(strings.Repeat("a", utils.BinarySniffLength+10)), 0xFF, 0xFE)
	writeTestFile(testingHandle, filepath.Join(rootDirectory, "mixed.txt"), mixedContent)
	writeTestFile(testingHandle, filepath.Join(rootDirectory, "ok.txt"), []byte("fine\n"))

	buildResult, buildError := Build(rootDirectory, Options{})
	if buildError != nil {
		testingHandle.Fatalf("Build failed: %v", buildError)
	}
	if len(buildResult.Warnings) != 1 || buildResult.Warnings[0].Kind != types.WarningKindDecodeFallback {
		testingHandle.Fatalf("expected one decode fallback warning, got %+v", buildResult.Warnings)
	}
	if !reflect.DeepEqual(buildResult.RelativePaths, []string{"mixed.txt", "ok.txt"}) {
		testingHandle.Fatalf("relative paths: got %v want [mixed.txt ok.txt]", buildResult.RelativePaths)
	}
}
