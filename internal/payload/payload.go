// Package payload builds request bodies from command-line input: --json
// object arguments, repeated --set KEY=VALUE entries, and the schedule
// action envelopes used by the events commands. Everything here runs before
// any network call, so every failure is a usage error.
package payload

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/cruzluna/reclaim-cli/internal/api"
	"github.com/cruzluna/reclaim-cli/internal/clierr"
)

// RequireExclusiveSource rejects invocations that pass both --json and
// --set. The two express different intents (whole object vs field edits)
// and merging them invites silent overwrites.
func RequireExclusiveSource(jsonArg string, setEntries []string) error {
	if jsonArg != "" && len(setEntries) > 0 {
		return &clierr.UsageError{
			Message: "Pass either --json or --set, not both.",
			Hint:    "Use --json for a complete object, or repeated --set entries for individual fields.",
		}
	}
	return nil
}

// ParseObjectArgument parses a flag value that must be a JSON object.
// flagName is used verbatim in error text, e.g. "--json".
func ParseObjectArgument(raw, flagName string) (map[string]any, error) {
	raw = strings.TrimSpace(raw)
	hint := fmt.Sprintf("Pass %s with a JSON object, e.g. %s '{\"priority\":\"P4\"}'.", flagName, flagName)

	if raw == "" {
		return nil, &clierr.UsageError{
			Message: fmt.Sprintf("Invalid %s value: it cannot be empty.", flagName),
			Hint:    hint,
		}
	}

	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()
	var parsed any
	if err := dec.Decode(&parsed); err != nil {
		return nil, &clierr.UsageError{
			Message: fmt.Sprintf("Invalid %s JSON: %v", flagName, err),
			Hint:    hint,
		}
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, &clierr.UsageError{
			Message: fmt.Sprintf("Invalid %s JSON: unexpected data after the JSON value.", flagName),
			Hint:    hint,
		}
	}

	object, ok := parsed.(map[string]any)
	if !ok {
		return nil, &clierr.UsageError{
			Message: fmt.Sprintf("Invalid %s value: expected a JSON object.", flagName),
			Hint:    hint,
		}
	}
	return object, nil
}

// ParseSetEntries parses repeated --set KEY=VALUE entries. Later entries
// win on duplicate keys.
func ParseSetEntries(entries []string) (map[string]any, error) {
	updates := make(map[string]any, len(entries))
	for _, entry := range entries {
		key, value, err := parseSetEntry(entry)
		if err != nil {
			return nil, err
		}
		updates[key] = value
	}
	return updates, nil
}

func parseSetEntry(entry string) (string, any, error) {
	rawKey, rawValue, found := strings.Cut(entry, "=")
	if !found {
		return "", nil, &clierr.UsageError{
			Message: fmt.Sprintf("Invalid --set value '%s'. Expected KEY=VALUE.", entry),
			Hint:    "Examples: --set priority=P4 --set snoozeUntil=2026-02-25T17:00:00Z",
		}
	}

	key := strings.TrimSpace(rawKey)
	if key == "" {
		return "", nil, &clierr.UsageError{
			Message: fmt.Sprintf("Invalid --set value '%s': key cannot be empty.", entry),
			Hint:    "Use a non-empty key, e.g. --set priority=P4",
		}
	}

	return key, parseSetValue(strings.TrimSpace(rawValue)), nil
}

// parseSetValue interprets the value as a JSON literal when it parses as
// one (true, null, 42, arrays, objects) and as a plain string otherwise,
// so timestamps and enum names need no extra quoting.
func parseSetValue(raw string) any {
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()
	var value any
	if err := dec.Decode(&value); err != nil {
		return raw
	}
	if _, err := dec.Token(); err != io.EOF {
		return raw
	}
	return value
}

// MergeFields copies updates into target, overwriting on key collision.
func MergeFields(target, updates map[string]any) {
	for key, value := range updates {
		target[key] = value
	}
}

// ─── Task bodies ─────────────────────────────────────────────────────────────

// RequirePutSource validates the PUT input flags before anything is
// fetched: exactly one of --json or --set must be present.
func RequirePutSource(jsonArg string, setEntries []string) error {
	if err := RequireExclusiveSource(jsonArg, setEntries); err != nil {
		return err
	}
	if jsonArg == "" && len(setEntries) == 0 {
		return &clierr.UsageError{
			Message: "PUT requires update data. Pass --json or one or more --set entries.",
			Hint:    "Examples: --json '{\"title\":\"Plan sprint\"}' or --set priority=P4",
		}
	}
	return nil
}

// PatchBody builds the PATCH request body from exactly one input source.
func PatchBody(jsonArg string, setEntries []string) (map[string]any, error) {
	if err := RequireExclusiveSource(jsonArg, setEntries); err != nil {
		return nil, err
	}

	var body map[string]any
	switch {
	case jsonArg != "":
		parsed, err := ParseObjectArgument(jsonArg, "--json")
		if err != nil {
			return nil, err
		}
		body = parsed
	default:
		parsed, err := ParseSetEntries(setEntries)
		if err != nil {
			return nil, err
		}
		body = parsed
	}

	if len(body) == 0 {
		return nil, &clierr.UsageError{
			Message: "PATCH requires at least one field update.",
			Hint:    "Pass --json '{\"priority\":\"P4\"}' or one/more --set key=value entries.",
		}
	}
	return body, nil
}

// TaskObject converts a fetched task back into a generic JSON object so
// --set overrides can be applied on top of it for PUT.
func TaskObject(task api.Task) (map[string]any, error) {
	data, err := json.Marshal(task)
	if err != nil {
		return nil, fmt.Errorf("serialize task for PUT: %w", err)
	}
	dec := json.NewDecoder(strings.NewReader(string(data)))
	dec.UseNumber()
	var object map[string]any
	if err := dec.Decode(&object); err != nil {
		return nil, fmt.Errorf("serialize task for PUT: %w", err)
	}
	return object, nil
}

// ApplyBody validates a raw apply-actions payload: a JSON object with a
// non-empty actionsTaken array.
func ApplyBody(jsonArg string) (map[string]any, error) {
	body, err := ParseObjectArgument(jsonArg, "--json")
	if err != nil {
		return nil, err
	}

	actions, ok := body["actionsTaken"].([]any)
	if !ok || len(actions) == 0 {
		return nil, &clierr.UsageError{
			Message: "Invalid --json request: actionsTaken is required and must be a non-empty array.",
			Hint:    "Example: --json '{\"actionsTaken\":[{\"type\":\"CancelEventAction\",...}]}'",
		}
	}
	return body, nil
}
