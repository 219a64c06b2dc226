package boundary

// Pointer is an opaque address owned by the native component. The zero value
// is the null pointer.
type Pointer uintptr

// IsNull reports whether p is the null pointer.
func (p Pointer) IsNull() bool { return p == 0 }

// ErrorKind tags the content type of an error payload.
type ErrorKind uint8

const (
	// ErrorKindUnspecified marks payloads from natives that do not tag their
	// errors. The decoder falls back to sniffing for a JSON object.
	ErrorKindUnspecified ErrorKind = iota
	// ErrorKindPlain marks a payload that must be surfaced verbatim.
	ErrorKindPlain
	// ErrorKindStructured marks a JSON object with error/context fields.
	ErrorKindStructured
)

func (k ErrorKind) String() string {
	switch k {
	case ErrorKindPlain:
		return "plain"
	case ErrorKindStructured:
		return "structured"
	default:
		return "unspecified"
	}
}

// RawResult mirrors the native result wrapper. At most one of ErrorMessage
// and Success is expected to be non-null; the wrapper itself must be released
// with Native.FreeResult, and neither payload is released by that call.
type RawResult struct {
	ErrorMessage Pointer
	ErrorKind    ErrorKind
	Success      Pointer
}

// Native lists the entry points exported by the native component. Strings
// returned by AvailableThemes, DefaultConfig and inside a RawResult are owned
// by the native side until FreeString is called on them. FreeString and
// FreeResult must each be called exactly once per allocation.
type Native interface {
	// AvailableThemes returns a tab-separated list of syntax theme names.
	AvailableThemes() Pointer
	// DefaultConfig returns the default render configuration as a JSON object.
	DefaultConfig() Pointer
	// RenderQuiz parses input and renders it in the requested format. format
	// is a single-key JSON object naming the format; config is a JSON object.
	RenderQuiz(input, name, format, config []byte) *RawResult
	// ReadString copies the bytes of a native string up to its terminator.
	ReadString(p Pointer) ([]byte, error)
	// FreeString releases a native string, reporting false when p was not a
	// live allocation.
	FreeString(p Pointer) bool
	// FreeResult releases a result wrapper without touching its payloads.
	FreeResult(r *RawResult)
}
