// Package reader loads file content for the digest, classifying each file as
// text or binary and counting its lines. Failures are isolated per file: a
// file that cannot be read or decoded yields a placeholder record, never an
// aborted run.
package reader

import (
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/erayyap/repodigest/internal/types"
	"github.com/erayyap/repodigest/internal/utils"
)

// DefaultSizeLimitBytes caps individual file size at 5 MB unless configured
// otherwise. A non-positive limit disables the cap.
const DefaultSizeLimitBytes int64 = 5 * 1024 * 1024

// Reader reads files into FileRecord values.
type Reader struct {
	SizeLimitBytes int64
	Logger         *zap.Logger
}

// New returns a Reader with the provided size limit; zero selects the default.
func New(sizeLimitBytes int64, logger *zap.Logger) Reader {
	if sizeLimitBytes == 0 {
		sizeLimitBytes = DefaultSizeLimitBytes
	}
	return Reader{SizeLimitBytes: sizeLimitBytes, Logger: logger}
}

// Read produces the FileRecord for the file at absolutePath. The returned
// warning is nil for clean text reads; placeholder records carry the warning
// that explains them. Read never returns an error: every failure degrades to
// a placeholder record.
func (fileReader Reader) Read(absolutePath string, relativePath string) (types.FileRecord, *types.Warning) {
	fileHandle, openError := os.Open(absolutePath)
	if openError != nil {
		return fileReader.unreadableRecord(relativePath, 0, openError)
	}
	defer fileHandle.Close()

	fileInformation, statError := fileHandle.Stat()
	if statError != nil {
		return fileReader.unreadableRecord(relativePath, 0, statError)
	}
	fileSize := fileInformation.Size()

	if fileReader.SizeLimitBytes > 0 && fileSize > fileReader.SizeLimitBytes {
		return types.FileRecord{
			RelativePath: relativePath,
			Kind:         types.RecordKindOversize,
			SizeBytes:    fileSize,
		}, nil
	}

	fileContent, readError := io.ReadAll(fileHandle)
	if readError != nil {
		return fileReader.unreadableRecord(relativePath, fileSize, readError)
	}

	sniffLength := len(fileContent)
	if sniffLength > utils.BinarySniffLength {
		sniffLength = utils.BinarySniffLength
		// A multi-byte rune straddling the sniff edge must not read as
		// invalid UTF-8; back off to the previous rune boundary.
		for sniffLength > 0 && !utf8.RuneStart(fileContent[sniffLength]) {
			sniffLength--
		}
	}
	if utils.IsBinary(fileContent[:sniffLength]) {
		return types.FileRecord{
			RelativePath: relativePath,
			Kind:         types.RecordKindBinary,
			SizeBytes:    fileSize,
		}, nil
	}

	if !utf8.Valid(fileContent) {
		// The sniff prefix looked like text but the full content does not
		// decode; degrade to the binary placeholder.
		decodeWarning := &types.Warning{
			Kind:   types.WarningKindDecodeFallback,
			Path:   relativePath,
			Detail: "content is not valid UTF-8",
		}
		if fileReader.Logger != nil {
			fileReader.Logger.Info(decodeWarning.Kind, zap.String("path", relativePath))
		}
		return types.FileRecord{
			RelativePath: relativePath,
			Kind:         types.RecordKindBinary,
			SizeBytes:    fileSize,
		}, decodeWarning
	}

	decodedContent := string(fileContent)
	return types.FileRecord{
		RelativePath: relativePath,
		Kind:         types.RecordKindText,
		Content:      decodedContent,
		LineCount:    CountLines(decodedContent),
		SizeBytes:    fileSize,
	}, nil
}

func (fileReader Reader) unreadableRecord(relativePath string, fileSize int64, cause error) (types.FileRecord, *types.Warning) {
	unreadableWarning := &types.Warning{
		Kind:   types.WarningKindEntryUnreadable,
		Path:   relativePath,
		Detail: cause.Error(),
	}
	if fileReader.Logger != nil {
		fileReader.Logger.Warn(unreadableWarning.Kind, zap.String("path", relativePath), zap.Error(cause))
	}
	return types.FileRecord{
		RelativePath: relativePath,
		Kind:         types.RecordKindUnreadable,
		SizeBytes:    fileSize,
	}, unreadableWarning
}

// CountLines counts line-terminator-delimited segments. Trailing content
// without a final terminator still counts as one line; empty content counts
// as zero.
func CountLines(content string) int {
	if content == "" {
		return 0
	}
	lineCount := strings.Count(content, "\n")
	if !strings.HasSuffix(content, "\n") {
		lineCount++
	}
	return lineCount
}
