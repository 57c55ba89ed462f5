package format

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/cruzluna/reclaim-cli/internal/api"
)

func stringp(v string) *string { return &v }

func TestTaskListRendersAlignedRows(t *testing.T) {
	var buf strings.Builder
	tasks := []api.Task{
		{ID: 7, Title: "Plan sprint", Status: stringp("NEW")},
		{ID: 123456, Title: "Ship release", Status: stringp("IN_PROGRESS"), Due: stringp("2026-02-19T15:00:00Z")},
		{ID: 9, Title: "No status yet"},
	}

	TaskList(&buf, false, api.CompletionAny, tasks)

	want := "#7      [NEW        ] Plan sprint (due: -)\n" +
		"#123456 [IN_PROGRESS] Ship release (due: 2026-02-19T15:00:00Z)\n" +
		"#9      [UNKNOWN    ] No status yet (due: -)\n" +
		"\nTip: use --format json for machine-readable output.\n"
	if got := buf.String(); got != want {
		t.Fatalf("listing = %q, want %q", got, want)
	}
}

func TestTaskListEmptyStates(t *testing.T) {
	tests := []struct {
		name        string
		includesAll bool
		filter      api.CompletionFilter
		want        string
	}{
		{"active no filter", false, api.CompletionAny, "No active tasks found.\n"},
		{"active open", false, api.CompletionOpen, "No active tasks found with completion status 'open'.\n"},
		{"all no filter", true, api.CompletionAny, "No tasks found.\n"},
		{"all completed", true, api.CompletionCompleted, "No tasks found with completion status 'completed'.\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf strings.Builder
			TaskList(&buf, tt.includesAll, tt.filter, nil)
			if got := buf.String(); got != tt.want {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTaskDetailsSkipsAbsentFields(t *testing.T) {
	var buf strings.Builder
	TaskDetails(&buf, api.Task{
		ID:       42,
		Title:    "Write report",
		Status:   stringp("NEW"),
		Priority: stringp("P2"),
	})

	want := "#42 Write report\nstatus: NEW\npriority: P2\n"
	if got := buf.String(); got != want {
		t.Fatalf("details = %q, want %q", got, want)
	}
}

func TestCreatedTask(t *testing.T) {
	var buf strings.Builder
	CreatedTask(&buf, api.Task{
		ID:     9001,
		Title:  "Plan sprint",
		Status: stringp("NEW"),
		Due:    stringp("2026-02-19T15:00:00Z"),
	})

	want := "Created task #9001: Plan sprint\nStatus: NEW\nDue: 2026-02-19T15:00:00Z\n"
	if got := buf.String(); got != want {
		t.Fatalf("output = %q, want %q", got, want)
	}
}

func TestTaskMutationNamesTheVerb(t *testing.T) {
	var buf strings.Builder
	TaskMutation(&buf, "Updated (PATCH)", api.Task{
		ID:       3,
		Title:    "Refine notes",
		Priority: stringp("P4"),
	})

	want := "Updated (PATCH) task #3: Refine notes\nPriority: P4\n"
	if got := buf.String(); got != want {
		t.Fatalf("output = %q, want %q", got, want)
	}
}

func TestDeletedTaskWithoutResponseBody(t *testing.T) {
	var buf strings.Builder
	if err := DeletedTask(&buf, DeleteResult{TaskID: 55, Deleted: true}); err != nil {
		t.Fatalf("DeletedTask: %v", err)
	}
	if got := buf.String(); got != "Deleted task #55.\n" {
		t.Fatalf("output = %q", got)
	}
}

func TestDeletedTaskEchoesResponseBody(t *testing.T) {
	var buf strings.Builder
	err := DeletedTask(&buf, DeleteResult{
		TaskID:      55,
		Deleted:     true,
		APIResponse: map[string]any{"deleted": true},
	})
	if err != nil {
		t.Fatalf("DeletedTask: %v", err)
	}

	want := "Deleted task #55.\nAPI response:\n{\n  \"deleted\": true\n}\n"
	if got := buf.String(); got != want {
		t.Fatalf("output = %q, want %q", got, want)
	}
}

func TestEventsListProbesKnownFieldLocations(t *testing.T) {
	var buf strings.Builder
	events := []any{
		map[string]any{
			"title":     "Team sync",
			"key":       "829105/abc",
			"eventDate": map[string]any{"start": "2026-02-21T18:30:00Z", "end": "2026-02-21T19:00:00Z"},
		},
		map[string]any{
			"eventKey":  "829105/def",
			"dateRange": map[string]any{"start": "2026-02-22T10:00:00Z"},
		},
	}

	EventsList(&buf, events)

	want := "- Team sync [829105/abc] (2026-02-21T18:30:00Z -> 2026-02-21T19:00:00Z)\n" +
		"- <untitled> [829105/def] (2026-02-22T10:00:00Z -> -)\n" +
		"\nTip: use --format json for machine-readable output.\n"
	if got := buf.String(); got != want {
		t.Fatalf("listing = %q, want %q", got, want)
	}
}

func TestEventsListEmpty(t *testing.T) {
	var buf strings.Builder
	EventsList(&buf, nil)
	if got := buf.String(); got != "No events found.\n" {
		t.Fatalf("output = %q", got)
	}
}

func TestEventDetailsIncludesRawJSON(t *testing.T) {
	var buf strings.Builder
	event := map[string]any{"title": "Team sync", "eventKey": "829105/abc"}
	if err := EventDetails(&buf, event); err != nil {
		t.Fatalf("EventDetails: %v", err)
	}

	got := buf.String()
	for _, line := range []string{
		"title: Team sync\n",
		"key: 829105/abc\n",
		"start: -\n",
		"end: -\n",
		"\nRaw event JSON:\n",
		"\"eventKey\": \"829105/abc\"",
	} {
		if !strings.Contains(got, line) {
			t.Fatalf("output missing %q:\n%s", line, got)
		}
	}
}

func TestEventsMutationHeadline(t *testing.T) {
	response := map[string]any{"results": []any{}}

	var buf strings.Builder
	eventID := "abc123"
	err := EventsMutation(&buf, EventsMutationResult{
		Operation:  "update",
		CalendarID: 829105,
		EventID:    &eventID,
		Response:   response,
	})
	if err != nil {
		t.Fatalf("EventsMutation: %v", err)
	}
	want := "Applied update event action for 829105/abc123.\nNo action results returned.\n"
	if got := buf.String(); got != want {
		t.Fatalf("output = %q, want %q", got, want)
	}

	buf.Reset()
	err = EventsMutation(&buf, EventsMutationResult{
		Operation:  "create",
		CalendarID: 829105,
		Response:   response,
	})
	if err != nil {
		t.Fatalf("EventsMutation: %v", err)
	}
	want = "Applied create event action for calendar 829105.\nNo action results returned.\n"
	if got := buf.String(); got != want {
		t.Fatalf("output = %q, want %q", got, want)
	}
}

func TestApplyResultsRendersRows(t *testing.T) {
	response := map[string]any{
		"results": []any{
			map[string]any{
				"result": "APPLIED",
				"action": map[string]any{
					"action": map[string]any{"type": "AddEventAction", "eventKey": "829105/abc"},
				},
			},
			map[string]any{
				"action": map[string]any{"type": "CancelEventAction", "key": "829105/def"},
			},
		},
	}

	var buf strings.Builder
	if err := ApplyResults(&buf, response); err != nil {
		t.Fatalf("ApplyResults: %v", err)
	}

	want := "1. APPLIED | AddEventAction | 829105/abc\n" +
		"2. UNKNOWN | CancelEventAction | 829105/def\n" +
		"\nTip: use --format json for full mutation response.\n"
	if got := buf.String(); got != want {
		t.Fatalf("output = %q, want %q", got, want)
	}
}

func TestApplyResultsFallsBackToRawJSON(t *testing.T) {
	var buf strings.Builder
	if err := ApplyResults(&buf, map[string]any{"ok": true}); err != nil {
		t.Fatalf("ApplyResults: %v", err)
	}
	if got := buf.String(); got != "{\n  \"ok\": true\n}\n" {
		t.Fatalf("output = %q", got)
	}
}

func TestJSONDoesNotEscapeHTML(t *testing.T) {
	var buf strings.Builder
	if err := JSON(&buf, map[string]any{"notes": "a < b & c"}); err != nil {
		t.Fatalf("JSON: %v", err)
	}
	if got := buf.String(); !strings.Contains(got, "a < b & c") {
		t.Fatalf("output escaped HTML characters: %q", got)
	}
}

func TestTextByPointers(t *testing.T) {
	value := map[string]any{
		"title": nil,
		"nested": map[string]any{
			"count": json.Number("1755745200000123"),
			"flag":  true,
		},
		"items": []any{"first", map[string]any{"inner": "x"}},
	}

	tests := []struct {
		name     string
		pointers []string
		want     string
	}{
		{"null then fallback", []string{"/title"}, "fallback"},
		{"number keeps digits", []string{"/nested/count"}, "1755745200000123"},
		{"bool", []string{"/nested/flag"}, "true"},
		{"array index", []string{"/items/0"}, "first"},
		{"object as compact json", []string{"/items/1"}, `{"inner":"x"}`},
		{"first match wins", []string{"/missing", "/nested/flag", "/items/0"}, "true"},
		{"out of range", []string{"/items/9"}, "fallback"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := textByPointers(value, tt.pointers, "fallback"); got != tt.want {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
		})
	}
}
