package boundary

import (
	"strings"

	"github.com/tidwall/gjson"
)

// DecodeError interprets an error payload according to its kind. Structured
// payloads holding both "error" and "context" become a composed message;
// anything else, including structured payloads that fail to parse, is kept
// verbatim. Untagged payloads are treated as structured only when they
// contain an opening brace.
func DecodeError(payload string, kind ErrorKind) *ApplicationError {
	switch kind {
	case ErrorKindPlain:
		return &ApplicationError{Message: payload}
	case ErrorKindStructured:
		return decodeStructured(payload)
	default:
		if strings.Contains(payload, "{") {
			return decodeStructured(payload)
		}
		return &ApplicationError{Message: payload}
	}
}

func decodeStructured(payload string) *ApplicationError {
	if !gjson.Valid(payload) {
		return &ApplicationError{Message: payload}
	}
	doc := gjson.Parse(payload)
	if !doc.IsObject() {
		return &ApplicationError{Message: payload}
	}
	msg, ctx := doc.Get("error"), doc.Get("context")
	if !msg.Exists() || !ctx.Exists() {
		return &ApplicationError{Message: payload}
	}
	return &ApplicationError{
		Message:    msg.String(),
		Context:    ctx.String(),
		Structured: true,
	}
}
