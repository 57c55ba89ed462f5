package clierr

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestCategoryOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Category
	}{
		{"usage", &UsageError{Message: "bad flag"}, CategoryUsage},
		{"credential", &CredentialError{}, CategoryCredential},
		{"transport", &TransportError{Message: "timed out"}, CategoryTransport},
		{"api", &APIError{Status: 404, Message: "not found"}, CategoryAPI},
		{"decode", &DecodeError{Message: "bad json"}, CategoryDecode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := CategoryOf(tt.err)
			if !ok {
				t.Fatalf("CategoryOf(%v) not classified", tt.err)
			}
			if got != tt.want {
				t.Fatalf("CategoryOf(%v) = %q, want %q", tt.err, got, tt.want)
			}
		})
	}
}

func TestCategoryOfWrappedError(t *testing.T) {
	err := fmt.Errorf("while listing tasks: %w", &APIError{Status: 500, Message: "boom"})

	got, ok := CategoryOf(err)
	if !ok || got != CategoryAPI {
		t.Fatalf("CategoryOf(wrapped) = %q, %v; want %q, true", got, ok, CategoryAPI)
	}
}

func TestCategoryOfUnknownError(t *testing.T) {
	if _, ok := CategoryOf(errors.New("plain")); ok {
		t.Fatal("plain error should not be classified")
	}
}

func TestAPIErrorRendersStatus(t *testing.T) {
	err := &APIError{Status: 404, Message: "Request: GET https://example.test/api/tasks/999"}

	rendered := err.Error()
	if !strings.Contains(rendered, "Reclaim API returned HTTP 404") {
		t.Fatalf("APIError.Error() = %q, want HTTP status prefix", rendered)
	}
}

func TestFprintTagsCategoryAndHint(t *testing.T) {
	var buf strings.Builder
	Fprint(&buf, &UsageError{Message: "PATCH requires at least one field update.", Hint: "Pass --json or --set."})

	out := buf.String()
	if !strings.HasPrefix(out, "Error (usage): PATCH requires at least one field update.\n") {
		t.Fatalf("Fprint output = %q, want usage-tagged first line", out)
	}
	if !strings.Contains(out, "Hint: Pass --json or --set.\n") {
		t.Fatalf("Fprint output = %q, want hint line", out)
	}
}

func TestFprintPlainErrorHasNoCategory(t *testing.T) {
	var buf strings.Builder
	Fprint(&buf, errors.New("terminal broke"))

	out := buf.String()
	if out != "Error: terminal broke\n" {
		t.Fatalf("Fprint output = %q, want untagged single line", out)
	}
}

func TestCredentialErrorHint(t *testing.T) {
	hint := HintOf(&CredentialError{})
	if !strings.Contains(hint, "RECLAIM_API_KEY") {
		t.Fatalf("credential hint = %q, want RECLAIM_API_KEY mention", hint)
	}
}

func TestTransportErrorUnwrap(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := &TransportError{Message: "Could not connect to the Reclaim API.", Err: cause}

	if !errors.Is(err, cause) {
		t.Fatal("TransportError should unwrap to its cause")
	}
}
