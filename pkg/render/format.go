package render

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Format names an output representation of a parsed quiz.
type Format string

const (
	FormatHTMLSnippet Format = "HtmlSnippet"
	FormatHTMLFull    Format = "HtmlFull"
	FormatMoodleXML   Format = "MoodleXml"
	FormatJSON        Format = "JSON"
)

// Formats returns every supported format in a stable order.
func Formats() []Format {
	return []Format{FormatHTMLSnippet, FormatHTMLFull, FormatMoodleXML, FormatJSON}
}

// Valid reports whether f is one of the supported formats.
func (f Format) Valid() bool {
	for _, known := range Formats() {
		if f == known {
			return true
		}
	}
	return false
}

func (f Format) String() string { return string(f) }

// ParseFormat resolves a format name, accepting case-insensitive spellings.
func ParseFormat(name string) (Format, error) {
	trimmed := strings.TrimSpace(name)
	for _, known := range Formats() {
		if strings.EqualFold(trimmed, string(known)) {
			return known, nil
		}
	}
	return "", fmt.Errorf("render: unknown format %q", name)
}

// FormatForExtension guesses a format from an output file extension.
func FormatForExtension(ext string) (Format, bool) {
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "html", "htm":
		return FormatHTMLFull, true
	case "json":
		return FormatJSON, true
	case "moodle", "xml":
		return FormatMoodleXML, true
	default:
		return "", false
	}
}

// EncodeSelector produces the single-key JSON object used to name a format
// across the native boundary, e.g. {"HtmlSnippet":null}.
func EncodeSelector(f Format) ([]byte, error) {
	return json.Marshal(map[string]any{string(f): nil})
}

// DecodeSelector reverses EncodeSelector.
func DecodeSelector(data []byte) (Format, error) {
	var selector map[string]json.RawMessage
	if err := json.Unmarshal(data, &selector); err != nil {
		return "", fmt.Errorf("render: decode format selector: %w", err)
	}
	if len(selector) != 1 {
		return "", fmt.Errorf("render: format selector must have exactly one key, got %d", len(selector))
	}
	for name := range selector {
		f := Format(name)
		if !f.Valid() {
			return "", fmt.Errorf("render: unknown format %q", name)
		}
		return f, nil
	}
	return "", fmt.Errorf("render: empty format selector")
}
