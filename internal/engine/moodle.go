package engine

import (
	"context"
	"encoding/xml"
	"fmt"
	"strconv"

	"github.com/jjfiv/quizdown/pkg/quiz"
	"github.com/jjfiv/quizdown/pkg/render"
)

const (
	moodleIncorrectFraction = "-100"
	moodleCorrectFeedback   = "Correct!"
	moodleIncorrectFeedback = "Sorry, that's not correct!"
)

type moodleQuiz struct {
	XMLName   xml.Name         `xml:"quiz"`
	Questions []moodleQuestion `xml:"question"`
}

type moodleQuestion struct {
	Type            string         `xml:"type,attr"`
	Category        *moodleText    `xml:"category,omitempty"`
	Name            *moodleText    `xml:"name,omitempty"`
	QuestionText    *moodleRich    `xml:"questiontext,omitempty"`
	DefaultGrade    string         `xml:"defaultgrade,omitempty"`
	Answers         []moodleAnswer `xml:"answer"`
	ShuffleAnswers  string         `xml:"shuffleanswers,omitempty"`
	Single          string         `xml:"single,omitempty"`
	AnswerNumbering string         `xml:"answernumbering,omitempty"`
}

type moodleText struct {
	Text string `xml:"text"`
}

type moodleRich struct {
	Format string `xml:"format,attr"`
	Text   string `xml:"text"`
}

type moodleAnswer struct {
	Fraction string     `xml:"fraction,attr"`
	Format   string     `xml:"format,attr"`
	Text     string     `xml:"text"`
	Feedback moodleText `xml:"feedback"`
}

// moodleRenderer writes a Moodle XML question bank: a category entry named
// after the quiz followed by one multichoice question per question.
type moodleRenderer struct{}

func (moodleRenderer) Format() render.Format { return render.FormatMoodleXML }

func (moodleRenderer) ContentType() string { return "application/xml" }

func (moodleRenderer) Render(_ context.Context, doc quiz.Quiz) ([]byte, error) {
	bank := moodleQuiz{
		Questions: []moodleQuestion{{
			Type:     "category",
			Category: &moodleText{Text: doc.Name},
		}},
	}
	for i, question := range doc.Questions {
		entry, err := moodleMultichoice(doc.Name, i, question)
		if err != nil {
			return nil, err
		}
		bank.Questions = append(bank.Questions, entry)
	}

	body, err := xml.Marshal(bank)
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), body...), nil
}

func moodleMultichoice(bankName string, index int, question quiz.Question) (moodleQuestion, error) {
	if len(question.Options) == 0 {
		return moodleQuestion{}, newError(StageRendering, KindNoOptionsFound, "")
	}
	correct := question.CorrectCount()
	if correct == 0 {
		return moodleQuestion{}, newError(StageRendering, KindMoodleNoCorrectAnswer, "")
	}
	correctFraction := moodleFraction(correct)

	shuffle := "1"
	if question.Ordered {
		shuffle = "0"
	}
	entry := moodleQuestion{
		Type:            "multichoice",
		Name:            &moodleText{Text: bankName + "/" + strconv.Itoa(index)},
		QuestionText:    &moodleRich{Format: "html", Text: question.Prompt},
		DefaultGrade:    "1.0",
		ShuffleAnswers:  shuffle,
		Single:          "false",
		AnswerNumbering: "abc",
	}
	for _, opt := range question.Options {
		answer := moodleAnswer{
			Fraction: moodleIncorrectFraction,
			Format:   "html",
			Text:     opt.Content,
			Feedback: moodleText{Text: moodleIncorrectFeedback},
		}
		if opt.Correct {
			answer.Fraction = correctFraction
			answer.Feedback.Text = moodleCorrectFeedback
		}
		entry.Answers = append(entry.Answers, answer)
	}
	return entry, nil
}

// moodleFraction splits full credit evenly across the correct answers,
// with five decimal places.
func moodleFraction(correct int) string {
	return fmt.Sprintf("%.5f", 100/float64(correct))
}
