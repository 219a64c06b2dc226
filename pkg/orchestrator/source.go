package orchestrator

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jjfiv/quizdown/pkg/invoker"
)

// Source is one quiz document and the name it is published under.
type Source struct {
	Name string
	Text string
	// Config overrides the orchestrator configuration when non-nil.
	Config invoker.Configuration
}

// NameFromPath derives a quiz name from a file path: the base name without
// its extension.
func NameFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// SourceFromFile reads path, naming the quiz after the file.
func SourceFromFile(path string) (Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Source{}, fmt.Errorf("orchestrator: read source: %w", err)
	}
	return Source{Name: NameFromPath(path), Text: string(data)}, nil
}
