package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/cruzluna/reclaim-cli/internal/clierr"
)

// ─── Task model ──────────────────────────────────────────────────────────────

// Task models a Reclaim task. Only the fields the CLI renders are typed;
// everything else the API returns is kept verbatim in Extra so JSON output
// round-trips without field loss.
type Task struct {
	ID       uint64
	Title    string
	Status   *string
	Due      *string
	Priority *string
	Notes    *string
	Deleted  bool

	// Extra holds every response field not modeled above. Numbers are
	// json.Number so re-encoding preserves their exact text.
	Extra map[string]any
}

// StatusOr returns the task status or fallback when the API omitted it.
func (t Task) StatusOr(fallback string) string { return strOr(t.Status, fallback) }

// DueOr returns the due timestamp or fallback when the API omitted it.
func (t Task) DueOr(fallback string) string { return strOr(t.Due, fallback) }

// PriorityOr returns the priority or fallback when the API omitted it.
func (t Task) PriorityOr(fallback string) string { return strOr(t.Priority, fallback) }

func strOr(value *string, fallback string) string {
	if value == nil {
		return fallback
	}
	return *value
}

// ─── JSON round trip ─────────────────────────────────────────────────────────

// taskFields lists the typed keys in their output order. Unmarshal strips
// them from Extra; Marshal emits them first, then Extra keys sorted.
var taskFields = []string{"id", "title", "status", "due", "priority", "notes", "deleted"}

func (t *Task) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return err
	}

	id, err := requiredUint(raw, "id")
	if err != nil {
		return err
	}
	title, err := requiredString(raw, "title")
	if err != nil {
		return err
	}

	status, err := optionalString(raw, "status")
	if err != nil {
		return err
	}
	due, err := optionalString(raw, "due")
	if err != nil {
		return err
	}
	priority, err := optionalString(raw, "priority")
	if err != nil {
		return err
	}
	notes, err := optionalString(raw, "notes")
	if err != nil {
		return err
	}
	deleted, err := optionalBool(raw, "deleted")
	if err != nil {
		return err
	}

	extra := make(map[string]any, len(raw))
	for key, value := range raw {
		extra[key] = value
	}
	for _, key := range taskFields {
		delete(extra, key)
	}

	*t = Task{
		ID:       id,
		Title:    title,
		Status:   status,
		Due:      due,
		Priority: priority,
		Notes:    notes,
		Deleted:  deleted,
		Extra:    extra,
	}
	return nil
}

func (t Task) MarshalJSON() ([]byte, error) {
	type field struct {
		key   string
		value any
	}
	fields := []field{
		{"id", t.ID},
		{"title", t.Title},
		{"status", t.Status},
		{"due", t.Due},
		{"priority", t.Priority},
		{"notes", t.Notes},
		{"deleted", t.Deleted},
	}

	extraKeys := make([]string, 0, len(t.Extra))
	for key := range t.Extra {
		extraKeys = append(extraKeys, key)
	}
	sort.Strings(extraKeys)
	for _, key := range extraKeys {
		fields = append(fields, field{key, t.Extra[key]})
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := marshalNoEscape(f.key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		value, err := marshalNoEscape(f.value)
		if err != nil {
			return nil, err
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// marshalNoEscape encodes v as JSON without HTML escaping, matching the
// bytes the API itself sends and receives.
func marshalNoEscape(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func requiredUint(raw map[string]any, key string) (uint64, error) {
	value, ok := raw[key]
	if !ok || value == nil {
		return 0, fmt.Errorf("task object is missing %q", key)
	}
	num, ok := value.(json.Number)
	if !ok {
		return 0, fmt.Errorf("task field %q: expected a number, got %T", key, value)
	}
	parsed, err := strconv.ParseUint(num.String(), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("task field %q: %v", key, err)
	}
	return parsed, nil
}

func requiredString(raw map[string]any, key string) (string, error) {
	value, ok := raw[key]
	if !ok || value == nil {
		return "", fmt.Errorf("task object is missing %q", key)
	}
	text, ok := value.(string)
	if !ok {
		return "", fmt.Errorf("task field %q: expected a string, got %T", key, value)
	}
	return text, nil
}

func optionalString(raw map[string]any, key string) (*string, error) {
	value, ok := raw[key]
	if !ok || value == nil {
		return nil, nil
	}
	text, ok := value.(string)
	if !ok {
		return nil, fmt.Errorf("task field %q: expected a string, got %T", key, value)
	}
	return &text, nil
}

func optionalBool(raw map[string]any, key string) (bool, error) {
	value, ok := raw[key]
	if !ok || value == nil {
		return false, nil
	}
	flag, ok := value.(bool)
	if !ok {
		return false, fmt.Errorf("task field %q: expected a boolean, got %T", key, value)
	}
	return flag, nil
}

// ─── Create request ──────────────────────────────────────────────────────────

// CreateTaskRequest is the POST /tasks body. Optional fields are pointers so
// unset values stay off the wire entirely.
type CreateTaskRequest struct {
	Title              string  `json:"title"`
	Notes              *string `json:"notes,omitempty"`
	Priority           *string `json:"priority,omitempty"`
	Due                *string `json:"due,omitempty"`
	TimeChunksRequired *uint32 `json:"timeChunksRequired,omitempty"`
	MinChunkSize       *uint32 `json:"minChunkSize,omitempty"`
	MaxChunkSize       *uint32 `json:"maxChunkSize,omitempty"`
	EventCategory      *string `json:"eventCategory,omitempty"`
	AlwaysPrivate      *bool   `json:"alwaysPrivate,omitempty"`
}

// ─── Filters ─────────────────────────────────────────────────────────────────

// TaskFilter selects which tasks a listing includes.
type TaskFilter int

const (
	// FilterActive drops deleted, archived, and cancelled tasks.
	FilterActive TaskFilter = iota

	// FilterAll keeps every task the API returns.
	FilterAll
)

// Label is the short name shown in listing headers.
func (f TaskFilter) Label() string {
	if f == FilterAll {
		return "all"
	}
	return "active"
}

// IsActive reports whether the task should appear in a default listing.
func (t Task) IsActive() bool {
	if t.Deleted {
		return false
	}
	status := t.StatusOr("")
	return status != "ARCHIVED" && status != "CANCELLED"
}

// IsCompleted reports whether the task is done. The API surfaces completion
// in several shapes depending on endpoint age, so all of them are checked.
func (t Task) IsCompleted() bool {
	if statusIndicatesCompleted(t.StatusOr("")) {
		return true
	}
	if status, ok := t.Extra["completionStatus"].(string); ok && statusIndicatesCompleted(status) {
		return true
	}
	if done, ok := t.Extra["completed"].(bool); ok {
		return done
	}
	if done, ok := t.Extra["isComplete"].(bool); ok {
		return done
	}
	return false
}

func statusIndicatesCompleted(status string) bool {
	switch strings.ToUpper(status) {
	case "COMPLETED", "COMPLETE", "DONE", "FINISHED":
		return true
	}
	return false
}

// CompletionFilter narrows a listing by completion state.
type CompletionFilter int

const (
	// CompletionAny applies no completion filtering.
	CompletionAny CompletionFilter = iota

	// CompletionOpen keeps tasks that are not completed.
	CompletionOpen

	// CompletionCompleted keeps only completed tasks.
	CompletionCompleted
)

func (f CompletionFilter) String() string {
	switch f {
	case CompletionOpen:
		return "open"
	case CompletionCompleted:
		return "completed"
	default:
		return ""
	}
}

// ParseCompletionFilter maps a --filter flag value onto a CompletionFilter.
// The empty string means no filtering.
func ParseCompletionFilter(value string) (CompletionFilter, error) {
	switch value {
	case "":
		return CompletionAny, nil
	case "open":
		return CompletionOpen, nil
	case "completed":
		return CompletionCompleted, nil
	}
	return CompletionAny, &clierr.UsageError{
		Message: fmt.Sprintf("Invalid --filter value '%s': expected one of open, completed.", value),
		Hint:    "Example: --filter open",
	}
}

// FilterByCompletion returns the tasks matching filter, preserving order.
// The input slice is left untouched so callers can re-filter the same list.
func FilterByCompletion(tasks []Task, filter CompletionFilter) []Task {
	if filter == CompletionAny {
		return tasks
	}
	kept := make([]Task, 0, len(tasks))
	for _, task := range tasks {
		completed := task.IsCompleted()
		if (filter == CompletionCompleted) == completed {
			kept = append(kept, task)
		}
	}
	return kept
}
