package render

import (
	"context"

	"github.com/jjfiv/quizdown/pkg/quiz"
)

// Renderer converts a parsed quiz into one output format.
type Renderer interface {
	Format() Format
	ContentType() string
	Render(ctx context.Context, doc quiz.Quiz) ([]byte, error)
}
