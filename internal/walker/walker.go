// Package walker performs the deterministic, pattern-filtered traversal of a
// repository tree. Directories and files are visited in lexicographic order at
// each level, excluded subtrees are pruned before any I/O beneath them, and
// per-entry failures are recorded as warnings without aborting the walk.
package walker

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/erayyap/repodigest/internal/ignore"
	"github.com/erayyap/repodigest/internal/types"
	"github.com/erayyap/repodigest/internal/utils"
)

var (
	// ErrRootNotFound reports that the traversal root does not exist or is
	// not a directory.
	ErrRootNotFound = errors.New("root directory not found")
	// ErrRootNotReadable reports that the traversal root exists but cannot
	// be read.
	ErrRootNotReadable = errors.New("root directory not readable")
)

// Entry is one included file produced by the walk.
type Entry struct {
	AbsolutePath string
	// RelativePath is slash-separated and relative to the traversal root.
	RelativePath string
}

// VisitFunc receives included file entries in traversal order. Returning an
// error stops the walk and propagates the error to the caller.
type VisitFunc func(Entry) error

// Options configures a walk.
type Options struct {
	// UseGitignore enables loading .gitignore files found in each directory.
	UseGitignore bool
	// UseIgnoreFile enables loading .ignore files found in each directory.
	UseIgnoreFile bool
	// BaseRules is the pre-layered rule stack applied beneath every
	// discovered pattern source: built-in defaults first, then command line
	// exclusions. Repository rule files layer on top and therefore override.
	BaseRules ignore.Stack
	// IncludeRules, when non-empty, restricts the visited files to those
	// matching at least one rule. Directories are still traversed so deep
	// matches stay reachable.
	IncludeRules ignore.RuleSet
	Logger       *zap.Logger
}

// workFrame is one pending traversal item on the explicit work stack.
type workFrame struct {
	absolutePath string
	relativePath string
	isDirectory  bool
	rules        ignore.Stack
}

// Walk traverses rootPath depth-first and calls visit for every included
// file. It returns the warnings recorded along the way. Only root-level
// inaccessibility is fatal.
func Walk(rootPath string, options Options, visit VisitFunc) ([]types.Warning, error) {
	rootInformation, rootStatError := os.Stat(rootPath)
	if rootStatError != nil {
		if os.IsNotExist(rootStatError) {
			return nil, fmt.Errorf("%w: %s", ErrRootNotFound, rootPath)
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrRootNotReadable, rootPath, rootStatError)
	}
	if !rootInformation.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrRootNotFound, rootPath)
	}

	absoluteRoot, absoluteError := filepath.Abs(rootPath)
	if absoluteError != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrRootNotReadable, rootPath, absoluteError)
	}

	var recordedWarnings []types.Warning
	recordWarning := func(warning types.Warning) {
		recordedWarnings = append(recordedWarnings, warning)
		if options.Logger != nil {
			options.Logger.Warn(warning.Kind, zap.String("path", warning.Path), zap.String("detail", warning.Detail))
		}
	}

	// Explicit work stack instead of recursion: keeps call depth bounded on
	// deep trees and makes the visit order independent of stack frames.
	frames := []workFrame{{
		absolutePath: absoluteRoot,
		relativePath: "",
		isDirectory:  true,
		rules:        options.BaseRules,
	}}
	isRootFrame := true

	for len(frames) > 0 {
		currentFrame := frames[len(frames)-1]
		frames = frames[:len(frames)-1]

		if !currentFrame.isDirectory {
			if visitError := visit(Entry{
				AbsolutePath: currentFrame.absolutePath,
				RelativePath: currentFrame.relativePath,
			}); visitError != nil {
				return recordedWarnings, visitError
			}
			continue
		}

		directoryEntries, readError := os.ReadDir(currentFrame.absolutePath)
		if readError != nil {
			if isRootFrame {
				return recordedWarnings, fmt.Errorf("%w: %s: %v", ErrRootNotReadable, rootPath, readError)
			}
			recordWarning(types.Warning{
				Kind:   types.WarningKindEntryUnreadable,
				Path:   currentFrame.relativePath,
				Detail: readError.Error(),
			})
			continue
		}
		isRootFrame = false

		directoryRules := currentFrame.rules.Extend(loadDirectoryRules(currentFrame, options, recordWarning))

		childFrames := make([]workFrame, 0, len(directoryEntries))
		for _, directoryEntry := range directoryEntries {
			childFrame, include := classifyEntry(currentFrame, directoryEntry, directoryRules, recordWarning)
			if !include {
				continue
			}
			if !childFrame.isDirectory && !options.IncludeRules.IsEmpty() &&
				!options.IncludeRules.MatchesAny(childFrame.relativePath, false) {
				continue
			}
			childFrames = append(childFrames, childFrame)
		}

		// os.ReadDir returns entries sorted by name; pushing them in reverse
		// onto the LIFO stack preserves lexicographic depth-first order.
		for childIndex := len(childFrames) - 1; childIndex >= 0; childIndex-- {
			frames = append(frames, childFrames[childIndex])
		}
	}

	return recordedWarnings, nil
}

// loadDirectoryRules reads the pattern source files present in the frame's
// directory and combines them into one rule set scoped to that directory.
// Rules from .gitignore come first so the tool's own .ignore file overrides.
func loadDirectoryRules(currentFrame workFrame, options Options, recordWarning func(types.Warning)) ignore.RuleSet {
	combinedSet := ignore.RuleSet{ScopeDirectory: currentFrame.relativePath}

	appendSource := func(fileName string) {
		sourcePath := filepath.Join(currentFrame.absolutePath, fileName)
		loadedSet, parseWarnings, loadError := ignore.LoadRuleFile(sourcePath, currentFrame.relativePath)
		if loadError != nil {
			recordWarning(types.Warning{
				Kind:   types.WarningKindPatternParse,
				Path:   utils.JoinRelative(currentFrame.relativePath, fileName),
				Detail: loadError.Error(),
			})
			return
		}
		for _, parseWarning := range parseWarnings {
			recordWarning(parseWarning)
		}
		combinedSet.Rules = append(combinedSet.Rules, loadedSet.Rules...)
	}

	if options.UseGitignore {
		appendSource(utils.GitIgnoreFileName)
	}
	if options.UseIgnoreFile {
		appendSource(utils.IgnoreFileName)
	}
	return combinedSet
}

// classifyEntry resolves one directory entry into a work frame, applying
// symlink policy and the rule stack. Excluded directories are pruned here,
// before any I/O beneath them.
func classifyEntry(
	parentFrame workFrame,
	directoryEntry fs.DirEntry,
	directoryRules ignore.Stack,
	recordWarning func(types.Warning),
) (workFrame, bool) {
	entryName := directoryEntry.Name()
	entryAbsolutePath := filepath.Join(parentFrame.absolutePath, entryName)
	entryRelativePath := utils.JoinRelative(parentFrame.relativePath, entryName)

	isDirectory := directoryEntry.IsDir()
	if directoryEntry.Type()&fs.ModeSymlink != 0 {
		targetInformation, targetStatError := os.Stat(entryAbsolutePath)
		if targetStatError != nil {
			recordWarning(types.Warning{
				Kind:   types.WarningKindEntryUnreadable,
				Path:   entryRelativePath,
				Detail: targetStatError.Error(),
			})
			return workFrame{}, false
		}
		if targetInformation.IsDir() {
			// Symlinked directories are never descended into; following them
			// could escape the root tree or loop.
			return workFrame{}, false
		}
		isDirectory = false
	}

	if directoryRules.Excluded(entryRelativePath, isDirectory) {
		return workFrame{}, false
	}

	return workFrame{
		absolutePath: entryAbsolutePath,
		relativePath: entryRelativePath,
		isDirectory:  isDirectory,
		rules:        directoryRules,
	}, true
}
