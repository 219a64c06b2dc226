package qti

import (
	"fmt"
	"strings"

	"github.com/jjfiv/quizdown/pkg/quiz"
	"github.com/jjfiv/quizdown/pkg/sanitize"
)

const (
	singleAnswerType   = "multiple_choice_question"
	multipleAnswerType = "multiple_answers_question"
	questionPoints     = "1.0"
)

type quizRef struct {
	UID   string `json:"uid"`
	Title string `json:"title"`
}

type manifestEntry struct {
	UID            string `json:"uid"`
	Title          string `json:"title"`
	MetaID         string `json:"meta_id"`
	AssessmentPath string `json:"assessment_path"`
	MetaPath       string `json:"meta_path"`
}

type manifestView struct {
	Identifier string          `json:"identifier"`
	Title      string          `json:"title"`
	Quizzes    []manifestEntry `json:"quizzes"`
}

type optionView struct {
	UID     string `json:"uid"`
	Correct bool   `json:"correct"`
	Content string `json:"content"`
}

type questionView struct {
	UID         string       `json:"uid"`
	Title       string       `json:"title"`
	Type        string       `json:"type"`
	Multiple    bool         `json:"multiple"`
	Cardinality string       `json:"cardinality"`
	Points      string       `json:"points"`
	AnswerIDs   string       `json:"answer_ids"`
	Prompt      string       `json:"prompt"`
	Options     []optionView `json:"options"`
}

type assessmentView struct {
	Quiz      quizRef        `json:"quiz"`
	Questions []questionView `json:"questions"`
}

type metaView struct {
	Quiz                 quizRef `json:"quiz"`
	ShuffleAnswers       string  `json:"shuffle_answers"`
	PointsPossible       string  `json:"points_possible"`
	AssignmentIdentifier string  `json:"assignment_identifier"`
}

func (a *Assembler) manifestView(quizzes []quiz.Quiz) manifestView {
	view := manifestView{
		Identifier: a.newID(),
		Title:      a.title,
		Quizzes:    make([]manifestEntry, 0, len(quizzes)),
	}
	for _, q := range quizzes {
		view.Quizzes = append(view.Quizzes, manifestEntry{
			UID:            q.UID,
			Title:          q.Name,
			MetaID:         q.MetaID(),
			AssessmentPath: AssessmentPath(q.UID),
			MetaPath:       MetaPath(q.UID),
		})
	}
	return view
}

func assessmentViewOf(q quiz.Quiz) assessmentView {
	view := assessmentView{
		Quiz:      quizRef{UID: q.UID, Title: q.Name},
		Questions: make([]questionView, 0, len(q.Questions)),
	}
	for i, question := range q.Questions {
		entry := questionView{
			UID:         question.UID,
			Title:       fmt.Sprintf("Question %d", i+1),
			Type:        multipleAnswerType,
			Multiple:    true,
			Cardinality: "Multiple",
			Points:      questionPoints,
			AnswerIDs:   strings.Join(question.OptionUIDs(), ","),
			Prompt:      sanitize.Content(question.Prompt),
			Options:     make([]optionView, 0, len(question.Options)),
		}
		if question.CorrectCount() == 1 {
			entry.Type = singleAnswerType
			entry.Multiple = false
			entry.Cardinality = "Single"
		}
		for _, opt := range question.Options {
			entry.Options = append(entry.Options, optionView{
				UID:     opt.UID,
				Correct: opt.Correct,
				Content: sanitize.Content(opt.Content),
			})
		}
		view.Questions = append(view.Questions, entry)
	}
	return view
}

func (a *Assembler) metaViewOf(q quiz.Quiz) metaView {
	shuffle := "true"
	for _, question := range q.Questions {
		if question.Ordered {
			shuffle = "false"
			break
		}
	}
	return metaView{
		Quiz:                 quizRef{UID: q.UID, Title: q.Name},
		ShuffleAnswers:       shuffle,
		PointsPossible:       fmt.Sprintf("%.1f", float64(len(q.Questions))),
		AssignmentIdentifier: a.newID(),
	}
}
