package ignore

import (
	"bytes"
	"os"
	"strings"

	"github.com/erayyap/repodigest/internal/types"
)

// CompileLines compiles the lines of a pattern source into a rule set scoped
// to scopeDirectory. Malformed lines are skipped and reported as warnings.
func CompileLines(sourceLines []string, sourcePath string, scopeDirectory string) (RuleSet, []types.Warning) {
	compiledRules := make([]Rule, 0, len(sourceLines))
	var parseWarnings []types.Warning
	for lineIndex, lineText := range sourceLines {
		compiledRule, parseWarning := parseRuleLine(lineText, lineIndex+1, sourcePath)
		if parseWarning != nil {
			parseWarnings = append(parseWarnings, *parseWarning)
		}
		if compiledRule != nil {
			compiledRules = append(compiledRules, *compiledRule)
		}
	}
	return RuleSet{ScopeDirectory: scopeDirectory, Rules: compiledRules}, parseWarnings
}

// CompilePatterns compiles literal patterns that did not originate from a
// file, such as the built-in default list or command line exclusions.
// sourceName labels the origin in warnings and rule provenance.
func CompilePatterns(patterns []string, sourceName string) (RuleSet, []types.Warning) {
	return CompileLines(patterns, sourceName, "")
}

// LoadRuleFile reads a pattern source file and compiles it into a rule set
// scoped to scopeDirectory. A missing file yields an empty set and no error;
// read failures are returned for the caller to record as a warning.
func LoadRuleFile(filePath string, scopeDirectory string) (RuleSet, []types.Warning, error) {
	fileContent, readError := os.ReadFile(filePath)
	if readError != nil {
		if os.IsNotExist(readError) {
			return RuleSet{ScopeDirectory: scopeDirectory}, nil, nil
		}
		return RuleSet{ScopeDirectory: scopeDirectory}, nil, readError
	}
	sourceLines := strings.Split(string(normalizeContent(fileContent)), "\n")
	ruleSet, parseWarnings := CompileLines(sourceLines, filePath, scopeDirectory)
	return ruleSet, parseWarnings, nil
}

// normalizeContent strips a UTF-8 byte order mark and converts CRLF and bare
// CR line endings to LF so sources parse identically across platforms.
func normalizeContent(fileContent []byte) []byte {
	for len(fileContent) >= 3 && fileContent[0] == 0xEF && fileContent[1] == 0xBB && fileContent[2] == 0xBF {
		fileContent = fileContent[3:]
	}
	fileContent = bytes.ReplaceAll(fileContent, []byte("\r\n"), []byte("\n"))
	return bytes.ReplaceAll(fileContent, []byte("\r"), []byte("\n"))
}
