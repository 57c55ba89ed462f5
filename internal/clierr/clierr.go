// Package clierr defines the error taxonomy every command resolves into.
// Each category renders as "Error (<category>): ..." on stderr, optionally
// followed by a recovery hint, so scripts can tell failure classes apart
// without parsing free-form text.
package clierr

import (
	"errors"
	"fmt"
	"io"
)

// ─── Categories ──────────────────────────────────────────────────────────────

// Category labels one class of failure in user-facing output.
type Category string

const (
	// CategoryUsage covers invalid flags, arguments, or malformed local input.
	CategoryUsage Category = "usage"

	// CategoryCredential covers a missing or blank API key.
	CategoryCredential Category = "credential"

	// CategoryTransport covers failures before a usable HTTP response arrived.
	CategoryTransport Category = "transport"

	// CategoryAPI covers non-2xx responses from the Reclaim API.
	CategoryAPI Category = "api"

	// CategoryDecode covers 2xx responses whose body could not be decoded.
	CategoryDecode Category = "decode"
)

// ─── Error types ─────────────────────────────────────────────────────────────

// UsageError reports invalid flags, arguments, or malformed local input such
// as a bad --json value. It never reflects a network round trip.
type UsageError struct {
	Message string
	Hint    string
}

func (e *UsageError) Error() string { return e.Message }

// CredentialError reports that no usable API key was resolved from flags,
// environment, or the config file.
type CredentialError struct{}

func (e *CredentialError) Error() string { return "Missing Reclaim API key." }

func (e *CredentialError) hint() string {
	return "Set RECLAIM_API_KEY or pass --api-key. You can find your key in Reclaim settings."
}

// TransportError reports that the HTTP exchange failed before a usable
// response arrived: DNS, connect, TLS, timeout, or a truncated body.
type TransportError struct {
	Message string
	Hint    string
	Err     error
}

func (e *TransportError) Error() string { return e.Message }

func (e *TransportError) Unwrap() error { return e.Err }

// APIError reports a non-2xx response. Message carries the full request and
// response context block assembled by the API client.
type APIError struct {
	Status  int
	Message string
	Hint    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("Reclaim API returned HTTP %d: %s", e.Status, e.Message)
}

// DecodeError reports a 2xx response whose body did not decode into the
// expected shape.
type DecodeError struct {
	Message string
	Hint    string
	Err     error
}

func (e *DecodeError) Error() string { return e.Message }

func (e *DecodeError) Unwrap() error { return e.Err }

// ─── Classification ──────────────────────────────────────────────────────────

// CategoryOf reports the taxonomy category of err, if it belongs to one.
func CategoryOf(err error) (Category, bool) {
	var usage *UsageError
	if errors.As(err, &usage) {
		return CategoryUsage, true
	}
	var cred *CredentialError
	if errors.As(err, &cred) {
		return CategoryCredential, true
	}
	var transport *TransportError
	if errors.As(err, &transport) {
		return CategoryTransport, true
	}
	var api *APIError
	if errors.As(err, &api) {
		return CategoryAPI, true
	}
	var decode *DecodeError
	if errors.As(err, &decode) {
		return CategoryDecode, true
	}
	return "", false
}

// HintOf returns the recovery hint attached to err, or "" when it has none.
func HintOf(err error) string {
	var usage *UsageError
	if errors.As(err, &usage) {
		return usage.Hint
	}
	var cred *CredentialError
	if errors.As(err, &cred) {
		return cred.hint()
	}
	var transport *TransportError
	if errors.As(err, &transport) {
		return transport.Hint
	}
	var api *APIError
	if errors.As(err, &api) {
		return api.Hint
	}
	var decode *DecodeError
	if errors.As(err, &decode) {
		return decode.Hint
	}
	return ""
}

// Fprint renders err for the terminal: the category-tagged message first,
// then the hint when one exists. Errors outside the taxonomy print untagged.
func Fprint(w io.Writer, err error) {
	if category, ok := CategoryOf(err); ok {
		fmt.Fprintf(w, "Error (%s): %v\n", category, err)
	} else {
		fmt.Fprintf(w, "Error: %v\n", err)
	}
	if hint := HintOf(err); hint != "" {
		fmt.Fprintf(w, "Hint: %s\n", hint)
	}
}
