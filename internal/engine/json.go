package engine

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/jjfiv/quizdown/pkg/quiz"
	"github.com/jjfiv/quizdown/pkg/render"
)

type jsonRenderer struct{}

func (jsonRenderer) Format() render.Format { return render.FormatJSON }

func (jsonRenderer) ContentType() string { return "application/json" }

func (jsonRenderer) Render(_ context.Context, doc quiz.Quiz) ([]byte, error) {
	if doc.Questions == nil {
		doc.Questions = []quiz.Question{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(doc); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
