package orchestrator

import (
	"context"

	"github.com/jjfiv/quizdown/pkg/quiz"
)

// Transformer mutates a parsed quiz before identifiers are assigned.
type Transformer interface {
	Transform(ctx context.Context, q *quiz.Quiz) error
}

// TransformerFunc adapts plain functions to the Transformer interface.
type TransformerFunc func(ctx context.Context, q *quiz.Quiz) error

// Transform executes the wrapped function when non-nil.
func (fn TransformerFunc) Transform(ctx context.Context, q *quiz.Quiz) error {
	if fn == nil {
		return nil
	}
	return fn(ctx, q)
}
