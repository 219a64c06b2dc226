package practice

import (
	"context"
	"fmt"
	"math/rand"
	"slices"
	"strings"

	"github.com/jjfiv/quizdown/pkg/quiz"
	"github.com/jjfiv/quizdown/pkg/sanitize"
)

const (
	correctFeedback   = "Correct!"
	incorrectFeedback = "Sorry, that's not correct!"
)

// Option configures a Session.
type Option func(*Session)

// WithPromptDriver overrides the terminal driver.
func WithPromptDriver(driver PromptDriver) Option {
	return func(s *Session) {
		if driver != nil {
			s.driver = driver
		}
	}
}

// WithShuffle shuffles the options of unordered questions using seed.
func WithShuffle(seed int64) Option {
	return func(s *Session) {
		s.rng = rand.New(rand.NewSource(seed))
	}
}

// WithFeedback controls whether each answer is followed by feedback and the
// correct options.
func WithFeedback(enabled bool) Option {
	return func(s *Session) {
		s.feedback = enabled
	}
}

// Session asks the questions of a quiz and scores the answers.
type Session struct {
	driver   PromptDriver
	rng      *rand.Rand
	feedback bool
}

// New builds a session on a survey driver writing to stdout.
func New(opts ...Option) *Session {
	s := &Session{feedback: true}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.driver == nil {
		s.driver = NewSurveyDriver(nil)
	}
	return s
}

// Answer records the response to one question. Selected holds indices into
// the question's options in their original order.
type Answer struct {
	Question int
	Selected []int
	Correct  bool
}

// Result is the outcome of a session.
type Result struct {
	Quiz    string
	Answers []Answer
	Score   int
	Total   int
}

// Percent returns the score as a percentage of the total.
func (r Result) Percent() float64 {
	if r.Total == 0 {
		return 0
	}
	return 100 * float64(r.Score) / float64(r.Total)
}

// Run asks every question of q in order.
func (s *Session) Run(ctx context.Context, q quiz.Quiz) (Result, error) {
	result := Result{Quiz: q.Name, Total: len(q.Questions)}
	for i, question := range q.Questions {
		answer, err := s.ask(ctx, i, question)
		if err != nil {
			return result, err
		}
		if answer.Correct {
			result.Score++
		}
		result.Answers = append(result.Answers, answer)
	}

	summary := fmt.Sprintf("%s: %d/%d correct (%.0f%%)", strings.ReplaceAll(q.Name, "_", " "), result.Score, result.Total, result.Percent())
	if err := s.driver.Info(ctx, summary); err != nil {
		return result, err
	}
	return result, nil
}

func (s *Session) ask(ctx context.Context, index int, question quiz.Question) (Answer, error) {
	order := s.displayOrder(question)
	labels := make([]string, len(order))
	for pos, original := range order {
		labels[pos] = fmt.Sprintf("%c) %s", 'a'+rune(pos%26), sanitize.Text(question.Options[original].Content))
	}

	cfg := SelectConfig{
		Message: fmt.Sprintf("%d. %s", index+1, sanitize.Text(question.Prompt)),
		Options: labels,
	}

	var picked []int
	if question.CorrectCount() == 1 {
		pos, err := s.driver.Select(ctx, cfg)
		if err != nil {
			return Answer{}, err
		}
		if pos >= 0 {
			picked = []int{pos}
		}
	} else {
		cfg.Help = "select all that apply"
		positions, err := s.driver.MultiSelect(ctx, cfg)
		if err != nil {
			return Answer{}, err
		}
		picked = positions
	}

	selected := make([]int, 0, len(picked))
	for _, pos := range picked {
		if pos >= 0 && pos < len(order) {
			selected = append(selected, order[pos])
		}
	}
	slices.Sort(selected)

	answer := Answer{
		Question: index,
		Selected: selected,
		Correct:  slices.Equal(selected, correctIndices(question)),
	}
	if s.feedback {
		if err := s.driver.Info(ctx, feedback(answer, question, order, labels)); err != nil {
			return Answer{}, err
		}
	}
	return answer, nil
}

// displayOrder maps prompt positions to option indices.
func (s *Session) displayOrder(question quiz.Question) []int {
	order := make([]int, len(question.Options))
	for i := range order {
		order[i] = i
	}
	if s.rng != nil && !question.Ordered {
		s.rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })
	}
	return order
}

func correctIndices(question quiz.Question) []int {
	out := []int{}
	for i, opt := range question.Options {
		if opt.Correct {
			out = append(out, i)
		}
	}
	return out
}

func feedback(answer Answer, question quiz.Question, order []int, labels []string) string {
	if answer.Correct {
		return correctFeedback
	}
	var expected []string
	for pos, original := range order {
		if question.Options[original].Correct {
			expected = append(expected, labels[pos])
		}
	}
	if len(expected) == 0 {
		return incorrectFeedback + " None of the options were correct."
	}
	return incorrectFeedback + " Expected: " + strings.Join(expected, ", ")
}
