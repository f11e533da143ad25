// Package tokenizer estimates token counts for digest content so users can
// budget LLM context before pasting a digest.
package tokenizer

import (
	"fmt"
	"strings"

	"github.com/pkoukk/tiktoken-go"
)

// Counter estimates token counts for text content.
type Counter interface {
	Name() string
	CountString(input string) (int, error)
}

const (
	defaultModel        = "gpt-4o"
	defaultEncodingName = "cl100k_base"
)

// NewCounter returns a Counter for the requested model along with the
// resolved model or encoding name. Unknown models fall back to the default
// encoding rather than failing.
func NewCounter(modelName string) (Counter, string, error) {
	resolvedModel := strings.ToLower(strings.TrimSpace(modelName))
	if resolvedModel == "" {
		resolvedModel = defaultModel
	}

	modelEncoding, encodingError := tiktoken.EncodingForModel(resolvedModel)
	if encodingError == nil && modelEncoding != nil {
		return tiktokenCounter{encoding: modelEncoding, name: resolvedModel}, resolvedModel, nil
	}

	fallbackEncoding, fallbackError := tiktoken.GetEncoding(defaultEncodingName)
	if fallbackError != nil {
		return nil, "", fmt.Errorf("initialize fallback tokenizer: %w", fallbackError)
	}
	return tiktokenCounter{encoding: fallbackEncoding, name: defaultEncodingName}, defaultEncodingName, nil
}

type tiktokenCounter struct {
	encoding *tiktoken.Tiktoken
	name     string
}

func (counter tiktokenCounter) Name() string {
	return counter.name
}

func (counter tiktokenCounter) CountString(input string) (int, error) {
	if counter.encoding == nil {
		return 0, fmt.Errorf("nil tiktoken encoder")
	}
	tokenIdentifiers := counter.encoding.Encode(input, nil, nil)
	return len(tokenIdentifiers), nil
}
