package quiz

// Option is one answer choice of a question. UID stays empty until Assign.
type Option struct {
	Correct bool   `json:"correct"`
	Content string `json:"content"`
	UID     string `json:"uid,omitempty"`
}

// Question is a prompt with its ordered options. Ordered marks option order
// as meaningful to the grader.
type Question struct {
	Prompt  string   `json:"prompt"`
	Ordered bool     `json:"ordered"`
	Options []Option `json:"options"`
	UID     string   `json:"uid,omitempty"`
}

// Quiz is a named, ordered list of questions.
type Quiz struct {
	Name      string     `json:"name"`
	Questions []Question `json:"questions"`
	UID       string     `json:"uid,omitempty"`
}

// CorrectCount returns how many options are marked correct.
func (q Question) CorrectCount() int {
	n := 0
	for _, opt := range q.Options {
		if opt.Correct {
			n++
		}
	}
	return n
}

// OptionUIDs returns the assigned option identifiers in order, skipping
// options that have none.
func (q Question) OptionUIDs() []string {
	out := make([]string, 0, len(q.Options))
	for _, opt := range q.Options {
		if opt.UID != "" {
			out = append(out, opt.UID)
		}
	}
	return out
}

// OptionCount returns the number of options across all questions.
func (q Quiz) OptionCount() int {
	n := 0
	for _, question := range q.Questions {
		n += len(question.Options)
	}
	return n
}

// MetaID is the manifest identifier of the quiz metadata resource.
func (q Quiz) MetaID() string {
	return "meta_" + q.UID
}

// Identified reports whether the quiz and every question and option carry
// an identifier.
func (q Quiz) Identified() bool {
	if q.UID == "" {
		return false
	}
	for _, question := range q.Questions {
		if question.UID == "" {
			return false
		}
		for _, opt := range question.Options {
			if opt.UID == "" {
				return false
			}
		}
	}
	return true
}
