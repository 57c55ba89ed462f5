// Package format renders command output. Each command has a plain-text
// renderer for terminals and shares one JSON renderer for scripting; both
// write to an io.Writer so tests can capture output directly.
package format

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/cruzluna/reclaim-cli/internal/api"
)

// JSON renders any value as two-space-indented JSON followed by a newline.
// HTML escaping is off so URLs and comparison operators in task notes
// survive verbatim.
func JSON(w io.Writer, v any) error {
	if err := encodeJSON(w, v, true); err != nil {
		return fmt.Errorf("Could not render JSON output: %v", err)
	}
	return nil
}

func encodeJSON(w io.Writer, v any, indent bool) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if indent {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}

func compactJSON(v any) (string, error) {
	var buf bytes.Buffer
	if err := encodeJSON(&buf, v, false); err != nil {
		return "", err
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}

// ─── Tasks ───────────────────────────────────────────────────────────────────

// TaskList renders the task listing. includesAll reflects whether deleted
// and archived tasks were requested, which changes the empty-state wording.
func TaskList(w io.Writer, includesAll bool, filter api.CompletionFilter, tasks []api.Task) {
	if len(tasks) == 0 {
		scope := "No active tasks found"
		if includesAll {
			scope = "No tasks found"
		}
		if text := filter.String(); text != "" {
			fmt.Fprintf(w, "%s with completion status '%s'.\n", scope, text)
		} else {
			fmt.Fprintf(w, "%s.\n", scope)
		}
		return
	}

	for _, task := range tasks {
		fmt.Fprintf(w, "#%-6d [%-11s] %s (due: %s)\n",
			task.ID, task.StatusOr("UNKNOWN"), task.Title, task.DueOr("-"))
	}
	fmt.Fprintf(w, "\nTip: use --format json for machine-readable output.\n")
}

// TaskDetails renders a single task for the get command.
func TaskDetails(w io.Writer, task api.Task) {
	fmt.Fprintf(w, "#%d %s\n", task.ID, task.Title)
	if task.Status != nil {
		fmt.Fprintf(w, "status: %s\n", *task.Status)
	}
	if task.Priority != nil {
		fmt.Fprintf(w, "priority: %s\n", *task.Priority)
	}
	if task.Due != nil {
		fmt.Fprintf(w, "due: %s\n", *task.Due)
	}
	if task.Notes != nil {
		fmt.Fprintf(w, "notes: %s\n", *task.Notes)
	}
}

// CreatedTask confirms a successful create.
func CreatedTask(w io.Writer, task api.Task) {
	fmt.Fprintf(w, "Created task #%d: %s\n", task.ID, task.Title)
	if task.Status != nil {
		fmt.Fprintf(w, "Status: %s\n", *task.Status)
	}
	if task.Due != nil {
		fmt.Fprintf(w, "Due: %s\n", *task.Due)
	}
}

// TaskMutation confirms a PUT or PATCH; prefix names which one ran.
func TaskMutation(w io.Writer, prefix string, task api.Task) {
	fmt.Fprintf(w, "%s task #%d: %s\n", prefix, task.ID, task.Title)
	if task.Status != nil {
		fmt.Fprintf(w, "Status: %s\n", *task.Status)
	}
	if task.Priority != nil {
		fmt.Fprintf(w, "Priority: %s\n", *task.Priority)
	}
	if task.Due != nil {
		fmt.Fprintf(w, "Due: %s\n", *task.Due)
	}
}

// DeleteResult is the delete command's JSON output shape.
type DeleteResult struct {
	TaskID      uint64 `json:"task_id"`
	Deleted     bool   `json:"deleted"`
	APIResponse any    `json:"api_response"`
}

// DeletedTask confirms a delete, echoing whatever body the API returned.
func DeletedTask(w io.Writer, result DeleteResult) error {
	fmt.Fprintf(w, "Deleted task #%d.\n", result.TaskID)
	if result.APIResponse == nil {
		return nil
	}
	fmt.Fprintln(w, "API response:")
	if err := encodeJSON(w, result.APIResponse, true); err != nil {
		return fmt.Errorf("Could not render delete response JSON: %v", err)
	}
	return nil
}

// ─── Events ──────────────────────────────────────────────────────────────────

// Events arrive as untyped JSON because their shape varies by calendar
// provider, so the renderers probe a few known field locations and fall
// back to placeholders.
var (
	eventTitlePointers = []string{"/title"}
	eventKeyPointers   = []string{"/key", "/eventKey"}
	eventStartPointers = []string{"/eventDate/start", "/dateRange/start", "/originalStart"}
	eventEndPointers   = []string{"/eventDate/end", "/dateRange/end", "/originalEnd"}
)

// EventsList renders the events listing.
func EventsList(w io.Writer, events []any) {
	if len(events) == 0 {
		fmt.Fprintln(w, "No events found.")
		return
	}

	for _, event := range events {
		title := textByPointers(event, eventTitlePointers, "<untitled>")
		key := textByPointers(event, eventKeyPointers, "-")
		start := textByPointers(event, eventStartPointers, "-")
		end := textByPointers(event, eventEndPointers, "-")
		fmt.Fprintf(w, "- %s [%s] (%s -> %s)\n", title, key, start, end)
	}
	fmt.Fprintf(w, "\nTip: use --format json for machine-readable output.\n")
}

// EventDetails renders a single event plus its raw payload, since the
// probed fields never cover everything a provider attaches.
func EventDetails(w io.Writer, event any) error {
	fmt.Fprintf(w, "title: %s\n", textByPointers(event, eventTitlePointers, "<untitled>"))
	fmt.Fprintf(w, "key: %s\n", textByPointers(event, eventKeyPointers, "-"))
	fmt.Fprintf(w, "start: %s\n", textByPointers(event, eventStartPointers, "-"))
	fmt.Fprintf(w, "end: %s\n", textByPointers(event, eventEndPointers, "-"))
	fmt.Fprintf(w, "\nRaw event JSON:\n")
	return JSON(w, event)
}

// EventsMutationResult is the JSON output shape for events create, update,
// and delete.
type EventsMutationResult struct {
	Operation  string  `json:"operation"`
	CalendarID uint64  `json:"calendar_id"`
	EventID    *string `json:"event_id,omitempty"`
	Response   any     `json:"response"`
}

// EventsMutation confirms an events create/update/delete and summarizes
// the per-action results.
func EventsMutation(w io.Writer, result EventsMutationResult) error {
	if result.EventID != nil {
		fmt.Fprintf(w, "Applied %s event action for %d/%s.\n", result.Operation, result.CalendarID, *result.EventID)
	} else {
		fmt.Fprintf(w, "Applied %s event action for calendar %d.\n", result.Operation, result.CalendarID)
	}
	return ApplyResults(w, result.Response)
}

// ApplyResults renders an apply-actions response: one line per action
// result when the response carries a results array, raw JSON otherwise.
func ApplyResults(w io.Writer, response any) error {
	object, ok := response.(map[string]any)
	if ok {
		if results, ok := object["results"].([]any); ok {
			if len(results) == 0 {
				fmt.Fprintln(w, "No action results returned.")
				return nil
			}
			for i, item := range results {
				result := textByPointers(item, []string{"/result"}, "UNKNOWN")
				actionType := textByPointers(item, []string{"/action/action/type", "/action/type", "/type"}, "UnknownAction")
				eventKey := textByPointers(item, []string{
					"/action/action/eventKey",
					"/action/eventKey",
					"/action/action/key",
					"/action/key",
				}, "-")
				fmt.Fprintf(w, "%d. %s | %s | %s\n", i+1, result, actionType, eventKey)
			}
			fmt.Fprintf(w, "\nTip: use --format json for full mutation response.\n")
			return nil
		}
	}
	return JSON(w, response)
}

// ─── JSON pointer lookups ────────────────────────────────────────────────────

// textByPointers returns the first non-null value reachable through the
// candidate JSON pointers, rendered as display text.
func textByPointers(value any, pointers []string, fallback string) string {
	for _, pointer := range pointers {
		candidate, ok := lookupPointer(value, pointer)
		if !ok || candidate == nil {
			continue
		}
		switch v := candidate.(type) {
		case string:
			return v
		case bool:
			return strconv.FormatBool(v)
		case json.Number:
			return v.String()
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		default:
			if text, err := compactJSON(v); err == nil {
				return text
			}
		}
	}
	return fallback
}

func lookupPointer(value any, pointer string) (any, bool) {
	if pointer == "" {
		return value, true
	}
	if !strings.HasPrefix(pointer, "/") {
		return nil, false
	}

	current := value
	for _, token := range strings.Split(pointer[1:], "/") {
		token = strings.ReplaceAll(token, "~1", "/")
		token = strings.ReplaceAll(token, "~0", "~")
		switch node := current.(type) {
		case map[string]any:
			next, found := node[token]
			if !found {
				return nil, false
			}
			current = next
		case []any:
			index, err := strconv.Atoi(token)
			if err != nil || index < 0 || index >= len(node) {
				return nil, false
			}
			current = node[index]
		default:
			return nil, false
		}
	}
	return current, true
}
