package boundary_test

import (
	"strings"
	"testing"

	"github.com/jjfiv/quizdown/pkg/boundary"
)

func TestDecodeError(t *testing.T) {
	cases := []struct {
		name           string
		payload        string
		kind           boundary.ErrorKind
		want           string
		wantStructured bool
	}{
		{"structured", `{"error":"E","context":"C"}`, boundary.ErrorKindStructured, "E: C", true},
		{"structured untagged", `{"error":"Parsing Error","context":"NoOptionsFound"}`, boundary.ErrorKindUnspecified, "Parsing Error: NoOptionsFound", true},
		{"plain", "boom", boundary.ErrorKindPlain, "boom", false},
		{"plain untagged", "boom", boundary.ErrorKindUnspecified, "boom", false},
		{"plain with brace", "expected } after {", boundary.ErrorKindPlain, "expected } after {", false},
		{"untagged brace but not json", "bad {thing", boundary.ErrorKindUnspecified, "bad {thing", false},
		{"structured missing context", `{"error":"E"}`, boundary.ErrorKindStructured, `{"error":"E"}`, false},
		{"structured not an object", `["E","C"]`, boundary.ErrorKindStructured, `["E","C"]`, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := boundary.DecodeError(tc.payload, tc.kind)
			if got.Error() != tc.want {
				t.Fatalf("message = %q, want %q", got.Error(), tc.want)
			}
			if got.Structured != tc.wantStructured {
				t.Fatalf("structured = %v, want %v", got.Structured, tc.wantStructured)
			}
		})
	}
}

func TestDecodeError_ComposedMessageContainsBothFields(t *testing.T) {
	got := boundary.DecodeError(`{"error":"E","context":"C"}`, boundary.ErrorKindStructured).Error()
	if !strings.Contains(got, "E") || !strings.Contains(got, "C") {
		t.Fatalf("composed message %q lost a field", got)
	}
}
