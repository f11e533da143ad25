// Package config provides the built-in default ignore rules and loads the
// optional application configuration file.
package config

// DefaultRuleSourceName labels built-in rules in warnings and rule provenance.
const DefaultRuleSourceName = "builtin-defaults"

// ExclusionFlagSourceName labels exclusion rules supplied through command line flags.
const ExclusionFlagSourceName = "command-line"

// InclusionFlagSourceName labels include patterns supplied through command line flags.
const InclusionFlagSourceName = "command-line-include"

// DefaultOutputFileName is the conventional digest output file, excluded by
// default so a digest never ingests a previous run's artifact.
const DefaultOutputFileName = "repodigest.txt"

// defaultIgnorePatterns is the built-in lowest-precedence rule list: version
// control metadata, dependency and build artifact directories, editor state,
// and the tool's own output file. Repository-declared patterns always
// override these, including through negation.
var defaultIgnorePatterns = []string{
	".git/",
	".hg/",
	".svn/",
	"__pycache__/",
	".pytest_cache/",
	".mypy_cache/",
	"node_modules/",
	"bower_components/",
	".vscode/",
	".idea/",
	"build/",
	"dist/",
	"target/",
	"out/",
	"venv/",
	".venv/",
	DefaultOutputFileName,
}

// DefaultIgnorePatterns returns a fresh copy of the built-in ignore pattern
// list so callers cannot mutate the shared defaults.
func DefaultIgnorePatterns() []string {
	patterns := make([]string, len(defaultIgnorePatterns))
	copy(patterns, defaultIgnorePatterns)
	return patterns
}
