package ignore

import (
	"path"
	"strings"
)

// matches reports whether the rule applies to the candidate path, given as
// slash-separated segments relative to the rule's scope directory.
//
// A directory-only rule matched against a file falls back to prefix matching:
// the rule matches when the file lives inside a directory the pattern names.
// This keeps independent evaluation of deep paths consistent with the walker's
// subtree pruning.
func (rule *Rule) matches(pathSegments []string, isDirectory bool) bool {
	if len(pathSegments) == 0 {
		return false
	}

	prefixMatch := rule.DirectoryOnly && !isDirectory

	if rule.Anchored {
		if prefixMatch {
			return matchSegmentsPrefix(rule.segments, pathSegments)
		}
		return matchSegmentsExact(rule.segments, pathSegments)
	}

	// Floating rules may match starting at any depth.
	maxStartIndex := len(pathSegments) - len(rule.segments)
	if prefixMatch {
		maxStartIndex = len(pathSegments) - 1
	}
	for startIndex := 0; startIndex <= maxStartIndex; startIndex++ {
		if prefixMatch {
			if matchSegmentsPrefix(rule.segments, pathSegments[startIndex:]) {
				return true
			}
		} else if matchSegmentsExact(rule.segments, pathSegments[startIndex:]) {
			return true
		}
	}

	// A leading ** can absorb zero segments, so a pattern longer than the
	// remaining path may still match.
	if len(rule.segments) > 0 && rule.segments[0].doubleStar {
		if prefixMatch {
			return matchSegmentsPrefix(rule.segments, pathSegments)
		}
		return matchSegmentsExact(rule.segments, pathSegments)
	}

	return false
}

// matchSegmentsExact matches pattern segments against the whole path.
func matchSegmentsExact(patternSegments []patternSegment, pathSegments []string) bool {
	if len(patternSegments) == 0 {
		return len(pathSegments) == 0
	}

	currentSegment := patternSegments[0]
	if currentSegment.doubleStar {
		for skipCount := 0; skipCount <= len(pathSegments); skipCount++ {
			if matchSegmentsExact(patternSegments[1:], pathSegments[skipCount:]) {
				return true
			}
		}
		return false
	}

	if len(pathSegments) == 0 {
		return false
	}
	if !matchSingleSegment(currentSegment, pathSegments[0]) {
		return false
	}
	return matchSegmentsExact(patternSegments[1:], pathSegments[1:])
}

// matchSegmentsPrefix matches pattern segments as a strict prefix of the path:
// the path must continue past the pattern, placing it inside the matched
// directory.
func matchSegmentsPrefix(patternSegments []patternSegment, pathSegments []string) bool {
	if len(patternSegments) == 0 {
		return len(pathSegments) > 0
	}

	currentSegment := patternSegments[0]
	if currentSegment.doubleStar {
		for skipCount := 0; skipCount <= len(pathSegments); skipCount++ {
			if matchSegmentsPrefix(patternSegments[1:], pathSegments[skipCount:]) {
				return true
			}
		}
		return false
	}

	if len(pathSegments) == 0 {
		return false
	}
	if !matchSingleSegment(currentSegment, pathSegments[0]) {
		return false
	}
	return matchSegmentsPrefix(patternSegments[1:], pathSegments[1:])
}

// matchSingleSegment matches one pattern segment against one path segment.
// Wildcard segments use path.Match semantics (*, ?, character classes and
// backslash escapes); malformed wildcard segments never match.
func matchSingleSegment(currentSegment patternSegment, pathSegmentText string) bool {
	if currentSegment.doubleStar {
		return true
	}
	if !currentSegment.wildcard {
		return currentSegment.text == pathSegmentText
	}
	matched, matchError := path.Match(currentSegment.text, pathSegmentText)
	return matchError == nil && matched
}

// splitPath splits a slash-separated relative path into segments, dropping
// empty parts from doubled or trailing slashes.
func splitPath(relativePath string) []string {
	if relativePath == "" || relativePath == "." {
		return nil
	}
	rawParts := strings.Split(relativePath, "/")
	pathSegments := make([]string, 0, len(rawParts))
	for _, rawPart := range rawParts {
		if rawPart != "" && rawPart != "." {
			pathSegments = append(pathSegments, rawPart)
		}
	}
	return pathSegments
}
