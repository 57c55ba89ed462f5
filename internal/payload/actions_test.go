package payload

import (
	"reflect"
	"strings"
	"testing"
)

func baseCreateSpec() EventCreateSpec {
	return EventCreateSpec{
		CalendarID:              829105,
		Title:                   "Team sync",
		Start:                   "2026-02-21T18:30:00Z",
		End:                     "2026-02-21T19:00:00Z",
		PolicyID:                DefaultPolicyID,
		Attendees:               []string{"person@example.com"},
		Priority:                "P2",
		GuestsCanInviteOthers:   true,
		GuestsCanSeeOtherGuests: true,
	}
}

func actionOf(t *testing.T, body map[string]any) map[string]any {
	t.Helper()
	actions, ok := body["actionsTaken"].([]any)
	if !ok || len(actions) != 1 {
		t.Fatalf("actionsTaken = %#v, want single action", body["actionsTaken"])
	}
	action, ok := actions[0].(map[string]any)
	if !ok {
		t.Fatalf("action = %#v, want object", actions[0])
	}
	return action
}

func TestEventCreateBodyWrapsAddEventAction(t *testing.T) {
	body, err := EventCreateBody(baseCreateSpec())
	if err != nil {
		t.Fatalf("EventCreateBody: %v", err)
	}
	action := actionOf(t, body)

	if got := action["type"]; got != "AddEventAction" {
		t.Fatalf("type = %v", got)
	}
	if got := action["calendarId"]; got != uint64(829105) {
		t.Fatalf("calendarId = %#v", got)
	}
	if got := action["hash"]; got != "" {
		t.Fatalf("hash = %#v, want empty string", got)
	}
	if got := action["eventKey"]; got != "" {
		t.Fatalf("eventKey = %#v, want empty string", got)
	}
	if got := action["policyId"]; got != "00000000-0000-0000-0000-000000000000" {
		t.Fatalf("policyId = %v", got)
	}

	wantRange := map[string]any{
		"type":  "FixedDateTimeRange",
		"start": "2026-02-21T18:30:00Z",
		"end":   "2026-02-21T19:00:00Z",
	}
	if !reflect.DeepEqual(action["dateRange"], wantRange) {
		t.Fatalf("dateRange = %#v", action["dateRange"])
	}

	wantAttendees := []any{map[string]any{"email": "person@example.com"}}
	if !reflect.DeepEqual(action["attendees"], wantAttendees) {
		t.Fatalf("attendees = %#v", action["attendees"])
	}

	if got := action["guestsCanModify"]; got != false {
		t.Fatalf("guestsCanModify = %v", got)
	}
	if got := action["guestsCanInviteOthers"]; got != true {
		t.Fatalf("guestsCanInviteOthers = %v", got)
	}
	if got := action["priority"]; got != "P2" {
		t.Fatalf("priority = %v", got)
	}
	if _, present := action["description"]; present {
		t.Fatal("description should be absent when flag is omitted")
	}
}

func TestEventCreateBodyRequiresStartAndEnd(t *testing.T) {
	spec := baseCreateSpec()
	spec.End = "   "

	_, err := EventCreateBody(spec)
	if err == nil || !strings.Contains(err.Error(), "--start and --end are required") {
		t.Fatalf("err = %v, want time range complaint", err)
	}
	assertUsage(t, err)
}

func TestEventCreateBodyValidatesPolicyID(t *testing.T) {
	spec := baseCreateSpec()
	spec.PolicyID = "  "
	_, err := EventCreateBody(spec)
	if err == nil || !strings.Contains(err.Error(), "it cannot be empty") {
		t.Fatalf("err = %v, want empty policy complaint", err)
	}

	spec.PolicyID = "not-a-uuid"
	_, err = EventCreateBody(spec)
	if err == nil || !strings.Contains(err.Error(), "not a UUID") {
		t.Fatalf("err = %v, want UUID complaint", err)
	}
}

func TestEventCreateBodyFiltersBlankAttendees(t *testing.T) {
	spec := baseCreateSpec()
	spec.Attendees = []string{"  ", " a@example.com ", ""}

	body, err := EventCreateBody(spec)
	if err != nil {
		t.Fatalf("EventCreateBody: %v", err)
	}
	action := actionOf(t, body)
	want := []any{map[string]any{"email": "a@example.com"}}
	if !reflect.DeepEqual(action["attendees"], want) {
		t.Fatalf("attendees = %#v", action["attendees"])
	}

	spec.Attendees = nil
	body, err = EventCreateBody(spec)
	if err != nil {
		t.Fatalf("EventCreateBody: %v", err)
	}
	action = actionOf(t, body)
	if got, ok := action["attendees"].([]any); !ok || len(got) != 0 {
		t.Fatalf("attendees = %#v, want empty array", action["attendees"])
	}
}

func TestEventCreateBodyMergesSetEntriesOverFlags(t *testing.T) {
	spec := baseCreateSpec()
	spec.Set = []string{"title=Renamed", "reservedStart=2026-02-21T18:00:00Z"}

	body, err := EventCreateBody(spec)
	if err != nil {
		t.Fatalf("EventCreateBody: %v", err)
	}
	action := actionOf(t, body)
	if got := action["title"]; got != "Renamed" {
		t.Fatalf("title = %v, want set entry to win", got)
	}
	if got := action["reservedStart"]; got != "2026-02-21T18:00:00Z" {
		t.Fatalf("reservedStart = %v", got)
	}
}

func TestEventCreateBodyRejectsJSONWithSet(t *testing.T) {
	spec := baseCreateSpec()
	spec.JSON = `{"title":"Override"}`
	spec.Set = []string{"priority=P1"}

	_, err := EventCreateBody(spec)
	if err == nil || !strings.Contains(err.Error(), "not both") {
		t.Fatalf("err = %v, want exclusivity complaint", err)
	}
}

func TestEventUpdateBodyRequiresMutationFields(t *testing.T) {
	spec := EventUpdateSpec{
		CalendarID: 829105,
		EventID:    "abc123",
		PolicyID:   DefaultPolicyID,
	}

	_, err := EventUpdateBody(spec)
	if err == nil || !strings.Contains(err.Error(), "requires at least one field change") {
		t.Fatalf("err = %v, want field-change complaint", err)
	}
	assertUsage(t, err)
}

func TestEventUpdateBodyRequiresPairedRange(t *testing.T) {
	start := "2026-02-21T18:30:00Z"
	spec := EventUpdateSpec{
		CalendarID: 829105,
		EventID:    "abc123",
		PolicyID:   DefaultPolicyID,
		Start:      &start,
	}

	_, err := EventUpdateBody(spec)
	if err == nil || !strings.Contains(err.Error(), "must be passed together") {
		t.Fatalf("err = %v, want paired range complaint", err)
	}

	blank := "   "
	spec.End = &blank
	_, err = EventUpdateBody(spec)
	if err == nil || !strings.Contains(err.Error(), "cannot be empty") {
		t.Fatalf("err = %v, want blank range complaint", err)
	}
}

func TestEventUpdateBodyBuildsDateRange(t *testing.T) {
	start := " 2026-02-21T18:30:00Z "
	end := "2026-02-21T19:00:00Z"
	spec := EventUpdateSpec{
		CalendarID: 829105,
		EventID:    "abc123",
		PolicyID:   DefaultPolicyID,
		Title:      "Renamed sync",
		Start:      &start,
		End:        &end,
	}

	body, err := EventUpdateBody(spec)
	if err != nil {
		t.Fatalf("EventUpdateBody: %v", err)
	}
	action := actionOf(t, body)

	if got := action["type"]; got != "UpdateEventAction" {
		t.Fatalf("type = %v", got)
	}
	if got := action["eventId"]; got != "abc123" {
		t.Fatalf("eventId = %v", got)
	}
	wantRange := map[string]any{
		"type":  "FixedDateTimeRange",
		"start": "2026-02-21T18:30:00Z",
		"end":   "2026-02-21T19:00:00Z",
	}
	if !reflect.DeepEqual(action["dateRange"], wantRange) {
		t.Fatalf("dateRange = %#v", action["dateRange"])
	}
	if got := action["title"]; got != "Renamed sync" {
		t.Fatalf("title = %v", got)
	}
	if _, present := action["eventKey"]; present {
		t.Fatal("eventKey does not belong in update actions")
	}
}

func TestEventUpdateBodyAcceptsSetOnlyMutation(t *testing.T) {
	spec := EventUpdateSpec{
		CalendarID: 829105,
		EventID:    "abc123",
		PolicyID:   DefaultPolicyID,
		Set:        []string{"visibility=PRIVATE"},
	}

	body, err := EventUpdateBody(spec)
	if err != nil {
		t.Fatalf("EventUpdateBody: %v", err)
	}
	action := actionOf(t, body)
	if got := action["visibility"]; got != "PRIVATE" {
		t.Fatalf("visibility = %v", got)
	}
}

func TestEventDeleteBodyBuildsCancelAction(t *testing.T) {
	body, err := EventDeleteBody(EventDeleteSpec{
		CalendarID: 829105,
		EventID:    "abc123",
		PolicyID:   DefaultPolicyID,
		Message:    " Cancelled by assistant ",
	})
	if err != nil {
		t.Fatalf("EventDeleteBody: %v", err)
	}
	action := actionOf(t, body)

	if got := action["type"]; got != "CancelEventAction" {
		t.Fatalf("type = %v", got)
	}
	if got := action["eventKey"]; got != "829105/abc123" {
		t.Fatalf("eventKey = %v", got)
	}
	if got := action["notificationMessage"]; got != "Cancelled by assistant" {
		t.Fatalf("notificationMessage = %v", got)
	}
}

func TestEventDeleteBodySkipsBlankMessage(t *testing.T) {
	body, err := EventDeleteBody(EventDeleteSpec{
		CalendarID: 829105,
		EventID:    "abc123",
		PolicyID:   DefaultPolicyID,
		Message:    "   ",
	})
	if err != nil {
		t.Fatalf("EventDeleteBody: %v", err)
	}
	action := actionOf(t, body)
	if _, present := action["notificationMessage"]; present {
		t.Fatal("blank --message should be dropped")
	}
}
