package engine

import (
	"encoding/json"
	"fmt"
)

// Stage names the step that failed. It becomes the "error" field of the
// structured payload.
type Stage string

const (
	StageInput     Stage = "input invalid"
	StageFormat    Stage = "format invalid"
	StageConfig    Stage = "config invalid"
	StageParsing   Stage = "Parsing Error"
	StageRendering Stage = "Rendering Error"
)

// Kind identifies a failure within a stage. It becomes the "context" field.
type Kind string

const (
	KindNoOptionsFound        Kind = "NoOptionsFound"
	KindNestedTaskList        Kind = "NestedTaskList"
	KindTooManyTaskLists      Kind = "TooManyTaskLists"
	KindContentIgnored        Kind = "ContentIgnored"
	KindMissingCheckbox       Kind = "MissingCheckbox"
	KindMissingSyntaxTheme    Kind = "MissingSyntaxTheme"
	KindMoodleNoCorrectAnswer Kind = "MoodleNoCorrectAnswer"
	KindInvalidUTF8           Kind = "InvalidUTF8"
	KindInteriorNul           Kind = "InteriorNul"
	KindMalformed             Kind = "Malformed"
	KindInternal              Kind = "Internal"
)

// Error is a failure reported across the boundary as a structured payload.
type Error struct {
	Stage  Stage
	Kind   Kind
	Detail string
}

func newError(stage Stage, kind Kind, detail string) *Error {
	return &Error{Stage: stage, Kind: kind, Detail: detail}
}

func (e *Error) Error() string {
	return string(e.Stage) + ": " + e.context()
}

func (e *Error) context() string {
	if e.Detail == "" {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

// Payload encodes the error as {"error": stage, "context": kind}.
func (e *Error) Payload() string {
	body, err := json.Marshal(struct {
		Error   string `json:"error"`
		Context string `json:"context"`
	}{string(e.Stage), e.context()})
	if err != nil {
		return e.Error()
	}
	return string(body)
}
