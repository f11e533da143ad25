// Package digest ties the walker, reader, and formatter into the pipeline
// that produces the repository digest artifact.
package digest

import (
	"go.uber.org/zap"

	"github.com/erayyap/repodigest/internal/config"
	"github.com/erayyap/repodigest/internal/ignore"
	"github.com/erayyap/repodigest/internal/reader"
	"github.com/erayyap/repodigest/internal/types"
	"github.com/erayyap/repodigest/internal/walker"
)

// Options configures a digest build.
type Options struct {
	// UseGitignore and UseIgnoreFile control which pattern source files are
	// discovered during traversal.
	UseGitignore  bool
	UseIgnoreFile bool
	// ExcludePatterns are additional gitignore-syntax rules, layered above
	// the built-in defaults but below repository-declared pattern files.
	ExcludePatterns []string
	// IncludePatterns, when non-empty, restrict the digest to files matching
	// at least one pattern, applied after every exclusion rule.
	IncludePatterns []string
	// SizeLimitBytes caps individual file size; zero selects the reader
	// default, negative disables the cap.
	SizeLimitBytes int64
	Logger         *zap.Logger
}

// Result is the outcome of a digest build: the assembled artifact, the
// ordered relative paths it covers, and every warning recorded on the way.
type Result struct {
	Output        Output
	RelativePaths []string
	Warnings      []types.Warning
}

// Build walks rootPath, reads every included file, and assembles the digest.
// Only root-level inaccessibility returns an error; all per-entry failures
// surface as warnings on the result.
func Build(rootPath string, options Options) (*Result, error) {
	var recordedWarnings []types.Warning

	defaultRuleSet, defaultWarnings := ignore.CompilePatterns(config.DefaultIgnorePatterns(), config.DefaultRuleSourceName)
	recordedWarnings = append(recordedWarnings, defaultWarnings...)

	exclusionRuleSet, exclusionWarnings := ignore.CompilePatterns(options.ExcludePatterns, config.ExclusionFlagSourceName)
	recordedWarnings = append(recordedWarnings, exclusionWarnings...)

	inclusionRuleSet, inclusionWarnings := ignore.CompilePatterns(options.IncludePatterns, config.InclusionFlagSourceName)
	recordedWarnings = append(recordedWarnings, inclusionWarnings...)

	fileReader := reader.New(options.SizeLimitBytes, options.Logger)

	var fileRecords []types.FileRecord
	var relativePaths []string

	walkWarnings, walkError := walker.Walk(rootPath, walker.Options{
		UseGitignore:  options.UseGitignore,
		UseIgnoreFile: options.UseIgnoreFile,
		BaseRules:     ignore.NewStack(defaultRuleSet, exclusionRuleSet),
		IncludeRules:  inclusionRuleSet,
		Logger:        options.Logger,
	}, func(includedEntry walker.Entry) error {
		fileRecord, readWarning := fileReader.Read(includedEntry.AbsolutePath, includedEntry.RelativePath)
		if readWarning != nil {
			recordedWarnings = append(recordedWarnings, *readWarning)
		}
		fileRecords = append(fileRecords, fileRecord)
		relativePaths = append(relativePaths, fileRecord.RelativePath)
		return nil
	})
	recordedWarnings = append(recordedWarnings, walkWarnings...)
	if walkError != nil {
		return nil, walkError
	}

	return &Result{
		Output:        NewOutput(fileRecords),
		RelativePaths: relativePaths,
		Warnings:      recordedWarnings,
	}, nil
}
