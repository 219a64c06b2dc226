package quiz_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/jjfiv/quizdown/pkg/quiz"
)

func TestDecode(t *testing.T) {
	input := `{
  "name": "colors",
  "questions": [
    {
      "prompt": "<h1>Which is red?</h1>",
      "ordered": false,
      "options": [
        {"correct": true, "content": "red"},
        {"correct": false, "content": "blue"}
      ]
    }
  ]
}`

	got, err := quiz.Decode([]byte(input))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	want := quiz.Quiz{
		Name: "colors",
		Questions: []quiz.Question{
			{
				Prompt: "<h1>Which is red?</h1>",
				Options: []quiz.Option{
					{Correct: true, Content: "red"},
					{Correct: false, Content: "blue"},
				},
			},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("quiz mismatch (-want +got):\n%s", diff)
	}
	if got.OptionCount() != 2 || got.Questions[0].CorrectCount() != 1 {
		t.Fatalf("unexpected counts: options=%d correct=%d", got.OptionCount(), got.Questions[0].CorrectCount())
	}
}

func TestDecode_EmptyQuestions(t *testing.T) {
	got, err := quiz.Decode([]byte(`{"name":"empty","questions":[]}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Name != "empty" || len(got.Questions) != 0 {
		t.Fatalf("unexpected quiz %+v", got)
	}
}

func TestDecode_MissingFields(t *testing.T) {
	cases := []struct {
		name  string
		input string
		path  string
	}{
		{"name", `{"questions":[]}`, "name"},
		{"questions", `{"name":"q"}`, "questions"},
		{"null questions", `{"name":"q","questions":null}`, "questions"},
		{"prompt", `{"name":"q","questions":[{"ordered":false,"options":[]}]}`, "questions[0].prompt"},
		{"ordered", `{"name":"q","questions":[{"prompt":"p","options":[]}]}`, "questions[0].ordered"},
		{"options", `{"name":"q","questions":[{"prompt":"p","ordered":true}]}`, "questions[0].options"},
		{"correct", `{"name":"q","questions":[{"prompt":"p","ordered":true,"options":[{"content":"x"}]}]}`, "questions[0].options[0].correct"},
		{"content", `{"name":"q","questions":[{"prompt":"p","ordered":true,"options":[{"correct":true}]}]}`, "questions[0].options[0].content"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := quiz.Decode([]byte(tc.input))
			var decodeErr *quiz.DecodeError
			if !errors.As(err, &decodeErr) {
				t.Fatalf("expected DecodeError, got %v", err)
			}
			if decodeErr.Path != tc.path {
				t.Fatalf("path = %q, want %q", decodeErr.Path, tc.path)
			}
		})
	}
}

func TestDecode_MalformedJSON(t *testing.T) {
	_, err := quiz.Decode([]byte(`{"name":`))
	var decodeErr *quiz.DecodeError
	if !errors.As(err, &decodeErr) {
		t.Fatalf("expected DecodeError, got %v", err)
	}
	if decodeErr.Path != "" {
		t.Fatalf("unexpected path %q", decodeErr.Path)
	}
}
