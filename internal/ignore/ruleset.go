package ignore

import (
	"path/filepath"
	"strings"
)

// RuleSet is an ordered sequence of rules applying within the scope of one
// directory. Rules discovered in a subdirectory apply only to that subtree.
type RuleSet struct {
	// ScopeDirectory is the slash-separated path of the directory the rules
	// were discovered in, relative to the traversal root. The root scope and
	// built-in rules use an empty string.
	ScopeDirectory string
	Rules          []Rule
}

// IsEmpty reports whether the set contains no rules.
func (ruleSet RuleSet) IsEmpty() bool {
	return len(ruleSet.Rules) == 0
}

// MatchesAny reports whether any rule in the set matches the candidate path.
// The set acts as an allowlist here: rule order and negation flags carry no
// meaning, a single match suffices.
func (ruleSet RuleSet) MatchesAny(relativePath string, isDirectory bool) bool {
	pathSegments := splitPath(normalizeRelativePath(relativePath))
	scopedSegments, inScope := scopeRelativeSegments(ruleSet.ScopeDirectory, pathSegments)
	if !inScope || len(scopedSegments) == 0 {
		return false
	}
	for ruleIndex := range ruleSet.Rules {
		if ruleSet.Rules[ruleIndex].matches(scopedSegments, isDirectory) {
			return true
		}
	}
	return false
}

// Stack is an ordered collection of rule sets from outermost (lowest
// precedence, built-in defaults) to innermost scope. Stacks are extended by
// copy, never mutated in place, so parent frames can share them safely during
// traversal.
type Stack []RuleSet

// NewStack builds a stack from the provided rule sets, skipping empty ones.
func NewStack(ruleSets ...RuleSet) Stack {
	stack := make(Stack, 0, len(ruleSets))
	for _, ruleSet := range ruleSets {
		if !ruleSet.IsEmpty() {
			stack = append(stack, ruleSet)
		}
	}
	return stack
}

// Extend returns a new stack with ruleSet layered on top of the receiver.
// The receiver is left untouched.
func (stack Stack) Extend(ruleSet RuleSet) Stack {
	if ruleSet.IsEmpty() {
		return stack
	}
	extendedStack := make(Stack, len(stack), len(stack)+1)
	copy(extendedStack, stack)
	return append(extendedStack, ruleSet)
}

// Excluded reports whether the candidate path is excluded by the stack.
// Sets are evaluated outermost to innermost and rules within a set in
// declaration order; the last matching rule decides, with negated rules
// re-including the path.
func (stack Stack) Excluded(relativePath string, isDirectory bool) bool {
	return stack.excludedSegments(splitPath(normalizeRelativePath(relativePath)), isDirectory)
}

// PathExcluded reports whether the candidate path, or any ancestor directory
// of it, is excluded. This is the traversal-independent form of Excluded: a
// file beneath an excluded directory is excluded regardless of its own rules,
// mirroring the walker's subtree pruning.
func (stack Stack) PathExcluded(relativePath string, isDirectory bool) bool {
	pathSegments := splitPath(normalizeRelativePath(relativePath))
	for ancestorDepth := 1; ancestorDepth < len(pathSegments); ancestorDepth++ {
		if stack.excludedSegments(pathSegments[:ancestorDepth], true) {
			return true
		}
	}
	return stack.excludedSegments(pathSegments, isDirectory)
}

func (stack Stack) excludedSegments(pathSegments []string, isDirectory bool) bool {
	if len(pathSegments) == 0 {
		return false
	}
	excluded := false
	for setIndex := range stack {
		ruleSet := &stack[setIndex]
		scopedSegments, inScope := scopeRelativeSegments(ruleSet.ScopeDirectory, pathSegments)
		if !inScope || len(scopedSegments) == 0 {
			continue
		}
		for ruleIndex := range ruleSet.Rules {
			rule := &ruleSet.Rules[ruleIndex]
			if rule.matches(scopedSegments, isDirectory) {
				excluded = !rule.Negated
			}
		}
	}
	return excluded
}

// scopeRelativeSegments strips the scope directory prefix from the candidate
// segments. Candidates outside the scope, and the scope directory itself,
// report inScope accordingly so the caller can skip the set.
func scopeRelativeSegments(scopeDirectory string, pathSegments []string) (scoped []string, inScope bool) {
	if scopeDirectory == "" {
		return pathSegments, true
	}
	scopeSegments := splitPath(scopeDirectory)
	if len(pathSegments) < len(scopeSegments) {
		return nil, false
	}
	for segmentIndex, scopeSegment := range scopeSegments {
		if pathSegments[segmentIndex] != scopeSegment {
			return nil, false
		}
	}
	return pathSegments[len(scopeSegments):], true
}

// normalizeRelativePath converts a candidate path to slash-separated form and
// removes leading "./" and trailing slash noise.
func normalizeRelativePath(relativePath string) string {
	normalizedPath := filepath.ToSlash(relativePath)
	for strings.HasPrefix(normalizedPath, "./") {
		normalizedPath = normalizedPath[2:]
	}
	return strings.TrimSuffix(normalizedPath, "/")
}
