package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sort"
	"strings"

	"github.com/cruzluna/reclaim-cli/internal/clierr"
)

// Truncation limits for diagnostic text embedded in error messages. Bodies
// get the large limit; one-line summaries get the small one.
const (
	debugBodyLimit    = 8192
	debugSummaryLimit = 512
)

// requestContext is the request side of an exchange, captured before the
// send so failures can report exactly what went over the wire.
type requestContext struct {
	method string
	url    string
	body   string
}

// block renders the shared "Request: ..." tail appended to error messages.
func (r requestContext) block(payloadLimit int) string {
	if r.method == "" {
		return ""
	}
	lines := []string{fmt.Sprintf("Request: %s %s", r.method, r.url)}
	if r.body != "" {
		lines = append(lines, "Request payload: "+truncateText(prettyJSONOrRaw(r.body), payloadLimit))
	}
	return "\n" + strings.Join(lines, "\n")
}

// ─── Transport failures ──────────────────────────────────────────────────────

// mapTransportError classifies a failed send into timeout, connect, or
// other, each with its own recovery hint.
func mapTransportError(err error, reqCtx requestContext) *clierr.TransportError {
	requestBlock := reqCtx.block(debugSummaryLimit)

	if isTimeout(err) {
		return &clierr.TransportError{
			Message: fmt.Sprintf("Request to Reclaim timed out before receiving a response. Source error: %v%s", err, requestBlock),
			Hint:    "Try again or raise --timeout-secs.",
			Err:     err,
		}
	}

	if isConnectFailure(err) {
		return &clierr.TransportError{
			Message: fmt.Sprintf("Could not connect to the Reclaim API. Source error: %v%s", err, requestBlock),
			Hint:    "Check network access and confirm --base-url is correct.",
			Err:     err,
		}
	}

	return &clierr.TransportError{
		Message: fmt.Sprintf("Request failed before receiving a usable API response. Source error: %v%s", err, requestBlock),
		Hint:    "Retry. If this keeps happening, verify your network and API key.",
		Err:     err,
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func isConnectFailure(err error) bool {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}
	var opErr *net.OpError
	return errors.As(err, &opErr) && opErr.Op == "dial"
}

// ─── Non-2xx responses ───────────────────────────────────────────────────────

// newAPIError assembles the full context block for a non-2xx response:
// request line, extracted API message, request id, raw body, and the
// payload that was sent, each truncated to stay terminal-friendly.
func newAPIError(status int, body []byte, responseURL string, header http.Header, reqCtx requestContext) *clierr.APIError {
	trimmed := strings.TrimSpace(string(body))

	var parsed any
	hasJSON := false
	if trimmed != "" && decodeJSON([]byte(trimmed), &parsed) == nil {
		hasJSON = true
	}

	message := ""
	if hasJSON {
		message = extractAPIMessage(parsed)
	}
	if message == "" && trimmed != "" {
		message = truncateText(trimmed, debugSummaryLimit)
	}
	if message == "" {
		message = fmt.Sprintf("Request failed with HTTP %d.", status)
	}

	lines := []string{
		fmt.Sprintf("Request: %s %s", reqCtx.method, reqCtx.url),
		"API message: " + message,
	}
	if responseURL != "" && responseURL != reqCtx.url {
		lines = append(lines, "Response URL: "+responseURL)
	}
	if id := extractRequestID(header); id != "" {
		lines = append(lines, "Reclaim request id: "+id)
	}
	switch {
	case hasJSON:
		lines = append(lines, "Raw response JSON: "+truncateText(prettyJSONOrRaw(trimmed), debugBodyLimit))
	case trimmed == "":
		lines = append(lines, "Raw response body: <empty>")
	default:
		lines = append(lines, "Raw response body: "+truncateText(trimmed, debugBodyLimit))
	}
	if reqCtx.body != "" {
		lines = append(lines, "Request payload: "+truncateText(prettyJSONOrRaw(reqCtx.body), debugBodyLimit))
	}

	return &clierr.APIError{
		Status:  status,
		Message: strings.Join(lines, "\n"),
		Hint:    hintForStatus(status),
	}
}

// newDecodeError reports a 2xx response whose body was not the JSON shape
// the caller asked for.
func newDecodeError(cause error, body []byte, reqCtx requestContext) *clierr.DecodeError {
	lines := []string{
		fmt.Sprintf("Reclaim API returned a non-JSON success response: %v", cause),
		fmt.Sprintf("Request: %s %s", reqCtx.method, reqCtx.url),
	}
	trimmed := strings.TrimSpace(string(body))
	if trimmed != "" {
		lines = append(lines, "Raw response body: "+truncateText(prettyJSONOrRaw(trimmed), debugBodyLimit))
	} else {
		lines = append(lines, "Raw response body: <empty>")
	}
	return &clierr.DecodeError{
		Message: strings.Join(lines, "\n"),
		Hint:    "Keep the raw response body above when reporting this issue.",
		Err:     cause,
	}
}

// extractAPIMessage digs a human-readable summary out of an error payload.
// Reclaim is inconsistent about where it puts the message, so the flat
// fields are tried first, then the nested errors shape.
func extractAPIMessage(value any) string {
	obj, ok := value.(map[string]any)
	if !ok {
		return ""
	}
	for _, field := range []string{"message", "title", "error", "detail"} {
		if text, ok := obj[field].(string); ok {
			if trimmed := strings.TrimSpace(text); trimmed != "" {
				return trimmed
			}
		}
	}
	if nested, ok := obj["errors"]; ok {
		if message := strings.TrimSpace(extractErrorsMessage(nested)); message != "" {
			return message
		}
	}
	return ""
}

// extractErrorsMessage handles the "errors" field shapes seen in the wild:
// a bare string, an array of strings or {message} objects, or an object
// mapping field names to either of those.
func extractErrorsMessage(errs any) string {
	switch value := errs.(type) {
	case string:
		return value
	case []any:
		for _, item := range value {
			if text, ok := item.(string); ok {
				return text
			}
			if obj, ok := item.(map[string]any); ok {
				if text, ok := obj["message"].(string); ok {
					return text
				}
			}
		}
	case map[string]any:
		keys := make([]string, 0, len(value))
		for key := range value {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			switch entry := value[key].(type) {
			case string:
				return key + ": " + entry
			case []any:
				for _, item := range entry {
					if text, ok := item.(string); ok {
						return key + ": " + text
					}
					if obj, ok := item.(map[string]any); ok {
						if text, ok := obj["message"].(string); ok {
							return key + ": " + text
						}
					}
				}
			}
		}
	}
	return ""
}

// extractRequestID pulls the first trace header Reclaim's stack sets.
func extractRequestID(header http.Header) string {
	for _, name := range []string{"x-request-id", "x-correlation-id", "x-amzn-trace-id"} {
		if value := strings.TrimSpace(header.Get(name)); value != "" {
			return value
		}
	}
	return ""
}

func hintForStatus(status int) string {
	switch {
	case status == 400 || status == 422:
		return "Check command arguments and inspect the raw response JSON above for field-level validation details."
	case status == 401 || status == 403:
		return "Set a valid API key with RECLAIM_API_KEY or --api-key, then retry."
	case status == 404:
		return "Verify the task ID exists in your Reclaim account."
	case status == 429:
		return "Rate limited by Reclaim. Wait a few seconds and retry."
	case status >= 500 && status <= 599:
		return "Reclaim returned a 5xx. This can be an outage OR a rejected payload surfaced as internal_error. Compare the request payload above with a known-good request."
	}
	return ""
}

// ─── Shared text helpers ─────────────────────────────────────────────────────

// prettyJSONOrRaw re-indents valid JSON for readability and returns anything
// else untouched.
func prettyJSONOrRaw(input string) string {
	var value any
	if err := decodeJSON([]byte(input), &value); err != nil {
		return input
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(value); err != nil {
		return input
	}
	return strings.TrimRight(buf.String(), "\n")
}

// truncateText caps input at maxChars runes, marking the cut.
func truncateText(input string, maxChars int) string {
	var out strings.Builder
	for count, ch := range []rune(input) {
		if count >= maxChars {
			out.WriteString("... <truncated>")
			return out.String()
		}
		out.WriteRune(ch)
	}
	return out.String()
}

// decodeJSON decodes with number fidelity; integers too large for float64
// survive as json.Number.
func decodeJSON(data []byte, out any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return dec.Decode(out)
}
