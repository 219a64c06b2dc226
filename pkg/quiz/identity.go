package quiz

import "github.com/google/uuid"

// IDGenerator returns a fresh globally unique identifier.
type IDGenerator func() string

// NewID is the default generator, a random UUID.
func NewID() string {
	return uuid.NewString()
}

// Assign identifies q with the default generator. See AssignWith.
func Assign(q *Quiz) {
	AssignWith(q, NewID)
}

// AssignWith sets the quiz identifier to its name and gives every question
// and option a fresh identifier from gen. Calling it again regenerates the
// question and option identifiers, so run it once per assembly.
func AssignWith(q *Quiz, gen IDGenerator) {
	if q == nil {
		return
	}
	if gen == nil {
		gen = NewID
	}
	q.UID = q.Name
	for i := range q.Questions {
		question := &q.Questions[i]
		question.UID = gen()
		for j := range question.Options {
			question.Options[j].UID = gen()
		}
	}
}
