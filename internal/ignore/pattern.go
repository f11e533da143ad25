// Package ignore compiles gitignore-style patterns into immutable rules and
// evaluates candidate paths against layered rule sets. Within a rule set the
// last matching rule wins; a leading "!" negates, a trailing "/" restricts a
// rule to directories, and a leading "/" anchors a rule to its scope root.
package ignore

import (
	"strconv"
	"strings"

	"github.com/erayyap/repodigest/internal/types"
)

// Rule is a single compiled ignore pattern. Rules are immutable once compiled
// and are evaluated in declaration order.
type Rule struct {
	// Pattern is the raw pattern text as written in the source.
	Pattern string
	// SourcePath names the pattern source file; built-in and flag-provided
	// rules carry a synthetic name instead.
	SourcePath string
	// SourceLine is the 1-indexed line of origin within SourcePath.
	SourceLine int
	// Negated marks a re-inclusion rule (leading "!").
	Negated bool
	// DirectoryOnly restricts the rule to directories (trailing "/").
	DirectoryOnly bool
	// Anchored pins the rule to its scope root (leading "/" or an inner "/").
	Anchored bool
	// Specificity is the number of path segments in the compiled pattern.
	Specificity int

	segments []patternSegment
}

// patternSegment is one slash-delimited part of a compiled pattern.
type patternSegment struct {
	text       string
	wildcard   bool
	doubleStar bool
}

// parseRuleLine compiles a single pattern line. It returns a nil rule for
// blank lines and comments, and a warning for lines that cannot produce a
// usable rule.
func parseRuleLine(lineText string, lineNumber int, sourcePath string) (*Rule, *types.Warning) {
	lineText = trimUnescapedTrailingWhitespace(lineText)
	if lineText == "" {
		return nil, nil
	}
	if strings.HasPrefix(lineText, "#") {
		return nil, nil
	}

	rawPattern := lineText

	negated := false
	if strings.HasPrefix(lineText, `\!`) {
		lineText = lineText[1:]
	} else if strings.HasPrefix(lineText, "!") {
		negated = true
		lineText = lineText[1:]
	}
	if strings.HasPrefix(lineText, `\#`) {
		lineText = lineText[1:]
	}

	directoryOnly := false
	if strings.HasSuffix(lineText, "/") {
		directoryOnly = true
		lineText = strings.TrimSuffix(lineText, "/")
	}

	if lineText == "" {
		return nil, &types.Warning{
			Kind:   types.WarningKindPatternParse,
			Path:   sourcePath,
			Detail: patternWarningDetail(rawPattern, lineNumber, "pattern is empty after processing"),
		}
	}

	if countTrailingBackslashes(lineText)%2 == 1 {
		return nil, &types.Warning{
			Kind:   types.WarningKindPatternParse,
			Path:   sourcePath,
			Detail: patternWarningDetail(rawPattern, lineNumber, "trailing backslash never matches"),
		}
	}

	anchored := false
	if strings.HasPrefix(lineText, "/") {
		anchored = true
		lineText = lineText[1:]
		if lineText == "" {
			return nil, &types.Warning{
				Kind:   types.WarningKindPatternParse,
				Path:   sourcePath,
				Detail: patternWarningDetail(rawPattern, lineNumber, "pattern is empty after removing leading slash"),
			}
		}
	} else if strings.Contains(lineText, "/") && !strings.HasPrefix(lineText, "**/") {
		anchored = true
	}

	compiledSegments := parsePatternSegments(lineText)
	if len(compiledSegments) == 0 {
		return nil, &types.Warning{
			Kind:   types.WarningKindPatternParse,
			Path:   sourcePath,
			Detail: patternWarningDetail(rawPattern, lineNumber, "pattern has no usable segments"),
		}
	}

	return &Rule{
		Pattern:       rawPattern,
		SourcePath:    sourcePath,
		SourceLine:    lineNumber,
		Negated:       negated,
		DirectoryOnly: directoryOnly,
		Anchored:      anchored,
		Specificity:   len(compiledSegments),
		segments:      compiledSegments,
	}, nil
}

// parsePatternSegments splits a pattern by "/" and classifies each segment.
// Empty segments produced by doubled slashes are dropped.
func parsePatternSegments(patternText string) []patternSegment {
	rawParts := strings.Split(patternText, "/")
	compiledSegments := make([]patternSegment, 0, len(rawParts))
	for _, rawPart := range rawParts {
		if rawPart == "" {
			continue
		}
		if rawPart == "**" {
			compiledSegments = append(compiledSegments, patternSegment{doubleStar: true})
			continue
		}
		compiledSegments = append(compiledSegments, patternSegment{
			text:     rawPart,
			wildcard: strings.ContainsAny(rawPart, `*?[\`),
		})
	}
	return compiledSegments
}

// trimUnescapedTrailingWhitespace strips trailing spaces and tabs unless the
// final space is escaped with a backslash, matching gitignore behavior.
func trimUnescapedTrailingWhitespace(lineText string) string {
	contentEnd := len(lineText)
	for contentEnd > 0 && (lineText[contentEnd-1] == ' ' || lineText[contentEnd-1] == '\t') {
		contentEnd--
	}
	if contentEnd == len(lineText) {
		return lineText
	}
	if countTrailingBackslashes(lineText[:contentEnd])%2 == 1 && lineText[contentEnd] == ' ' {
		// The backslash escapes the first trailing space; keep the space,
		// drop the escape.
		return lineText[:contentEnd-1] + " "
	}
	return lineText[:contentEnd]
}

// countTrailingBackslashes counts consecutive backslashes at the end of text.
func countTrailingBackslashes(text string) int {
	backslashCount := 0
	for index := len(text) - 1; index >= 0 && text[index] == '\\'; index-- {
		backslashCount++
	}
	return backslashCount
}

func patternWarningDetail(rawPattern string, lineNumber int, message string) string {
	return "line " + strconv.Itoa(lineNumber) + " (" + rawPattern + "): " + message
}
