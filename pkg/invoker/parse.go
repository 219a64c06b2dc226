package invoker

import (
	"context"

	"github.com/jjfiv/quizdown/pkg/boundary"
	"github.com/jjfiv/quizdown/pkg/quiz"
	"github.com/jjfiv/quizdown/pkg/render"
)

// ParseQuiz renders input as JSON and decodes it into the quiz model. A
// payload that does not have the quiz shape is an integrity error: the
// native side always emits the full model.
func (inv *Invoker) ParseQuiz(ctx context.Context, input, name string, cfg Configuration) (quiz.Quiz, error) {
	text, err := inv.Render(ctx, input, name, render.FormatJSON, cfg)
	if err != nil {
		return quiz.Quiz{}, err
	}
	doc, err := quiz.Decode([]byte(text))
	if err != nil {
		return quiz.Quiz{}, &boundary.IntegrityError{Op: "decode quiz", Err: err}
	}
	return doc, nil
}
