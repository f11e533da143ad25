package digest

import (
	"fmt"
	"io"
	"strings"

	"github.com/erayyap/repodigest/internal/types"
	"github.com/erayyap/repodigest/internal/utils"
)

const (
	headerLineFormat    = "[%d lines]\n"
	delimiterLineFormat = "=== %s ===\n"

	binaryPlaceholderFormat   = "[binary content omitted: %s]\n"
	unreadablePlaceholderLine = "[unreadable content omitted]\n"
	oversizePlaceholderFormat = "[content exceeds size limit: %s]\n"
)

// Output is the assembled digest artifact: a total line count and the ordered
// file records that produced it. It is written once and never mutated.
type Output struct {
	TotalLineCount int
	Records        []types.FileRecord
}

// NewOutput assembles an Output from the ordered record sequence. The total
// is the exact sum of per-file line counts; placeholder records contribute
// zero lines.
func NewOutput(fileRecords []types.FileRecord) Output {
	totalLineCount := 0
	for _, fileRecord := range fileRecords {
		totalLineCount += fileRecord.LineCount
	}
	return Output{TotalLineCount: totalLineCount, Records: fileRecords}
}

// Render writes the digest text. The output is a pure function of the record
// sequence and its order: no timestamps, no randomness, byte-stable across
// runs for an unchanged tree.
func (output Output) Render(writer io.Writer) error {
	if _, writeError := fmt.Fprintf(writer, headerLineFormat, output.TotalLineCount); writeError != nil {
		return writeError
	}
	for _, fileRecord := range output.Records {
		if _, writeError := fmt.Fprintf(writer, delimiterLineFormat, fileRecord.RelativePath); writeError != nil {
			return writeError
		}
		if _, writeError := io.WriteString(writer, recordBody(fileRecord)); writeError != nil {
			return writeError
		}
		if _, writeError := fmt.Fprintf(writer, delimiterLineFormat, fileRecord.RelativePath); writeError != nil {
			return writeError
		}
	}
	return nil
}

// RenderString returns the digest text as a single string.
func (output Output) RenderString() string {
	var outputBuilder strings.Builder
	// strings.Builder writes never fail.
	_ = output.Render(&outputBuilder)
	return outputBuilder.String()
}

// recordBody returns the body emitted between a record's delimiter lines:
// the decoded content for text records, a fixed placeholder line otherwise.
// Text content missing a final terminator gains one so the closing delimiter
// stays on its own line; the line count already treats that trailing segment
// as a line.
func recordBody(fileRecord types.FileRecord) string {
	switch fileRecord.Kind {
	case types.RecordKindText:
		if fileRecord.Content != "" && !strings.HasSuffix(fileRecord.Content, "\n") {
			return fileRecord.Content + "\n"
		}
		return fileRecord.Content
	case types.RecordKindBinary:
		return fmt.Sprintf(binaryPlaceholderFormat, utils.FormatFileSize(fileRecord.SizeBytes))
	case types.RecordKindOversize:
		return fmt.Sprintf(oversizePlaceholderFormat, utils.FormatFileSize(fileRecord.SizeBytes))
	default:
		return unreadablePlaceholderLine
	}
}
