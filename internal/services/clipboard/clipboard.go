// Package clipboard provides access to the system clipboard.
package clipboard

import (
	"github.com/atotto/clipboard"
)

// Copier copies textual data to the system clipboard.
type Copier interface {
	Copy(text string) error
}

// Service implements Copier using github.com/atotto/clipboard.
type Service struct{}

// NewService returns a clipboard-backed Copier.
func NewService() Service {
	return Service{}
}

// Copy writes text to the system clipboard.
func (Service) Copy(text string) error {
	return clipboard.WriteAll(text)
}
