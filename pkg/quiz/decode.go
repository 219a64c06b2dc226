package quiz

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// DecodeError reports a JSON document that does not have the quiz shape.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("quiz: decode: %v", e.Err)
	}
	return fmt.Sprintf("quiz: decode %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

var errMissing = fmt.Errorf("required field is missing")

type wireOption struct {
	Correct *bool   `json:"correct"`
	Content *string `json:"content"`
	UID     string  `json:"uid"`
}

type wireQuestion struct {
	Prompt  *string       `json:"prompt"`
	Ordered *bool         `json:"ordered"`
	Options *[]wireOption `json:"options"`
	UID     string        `json:"uid"`
}

type wireQuiz struct {
	Name      *string         `json:"name"`
	Questions *[]wireQuestion `json:"questions"`
	UID       string          `json:"uid"`
}

// Decode parses the JSON rendering of a quiz. Every field of the model is
// required; identifiers are optional.
func Decode(data []byte) (Quiz, error) {
	var wire wireQuiz
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&wire); err != nil {
		return Quiz{}, &DecodeError{Err: err}
	}
	if wire.Name == nil {
		return Quiz{}, &DecodeError{Path: "name", Err: errMissing}
	}
	if wire.Questions == nil {
		return Quiz{}, &DecodeError{Path: "questions", Err: errMissing}
	}

	out := Quiz{
		Name:      *wire.Name,
		UID:       wire.UID,
		Questions: make([]Question, 0, len(*wire.Questions)),
	}
	for i, wq := range *wire.Questions {
		question, err := decodeQuestion(wq, fmt.Sprintf("questions[%d]", i))
		if err != nil {
			return Quiz{}, err
		}
		out.Questions = append(out.Questions, question)
	}
	return out, nil
}

func decodeQuestion(wq wireQuestion, path string) (Question, error) {
	switch {
	case wq.Prompt == nil:
		return Question{}, &DecodeError{Path: path + ".prompt", Err: errMissing}
	case wq.Ordered == nil:
		return Question{}, &DecodeError{Path: path + ".ordered", Err: errMissing}
	case wq.Options == nil:
		return Question{}, &DecodeError{Path: path + ".options", Err: errMissing}
	}

	question := Question{
		Prompt:  *wq.Prompt,
		Ordered: *wq.Ordered,
		UID:     wq.UID,
		Options: make([]Option, 0, len(*wq.Options)),
	}
	for j, wo := range *wq.Options {
		optPath := fmt.Sprintf("%s.options[%d]", path, j)
		if wo.Correct == nil {
			return Question{}, &DecodeError{Path: optPath + ".correct", Err: errMissing}
		}
		if wo.Content == nil {
			return Question{}, &DecodeError{Path: optPath + ".content", Err: errMissing}
		}
		question.Options = append(question.Options, Option{
			Correct: *wo.Correct,
			Content: *wo.Content,
			UID:     wo.UID,
		})
	}
	return question, nil
}
