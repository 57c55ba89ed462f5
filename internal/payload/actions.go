package payload

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/cruzluna/reclaim-cli/internal/clierr"
)

// DefaultPolicyID is the placeholder policy the scheduler accepts for
// ad-hoc actions that are not tied to a real scheduling policy.
var DefaultPolicyID = uuid.Nil.String()

// EventCreateSpec carries the events create flags after cobra parsing.
type EventCreateSpec struct {
	CalendarID              uint64
	Title                   string
	Start                   string
	End                     string
	PolicyID                string
	Description             string
	Location                string
	Priority                string
	Visibility              string
	Transparency            string
	GuestsCanModify         bool
	GuestsCanInviteOthers   bool
	GuestsCanSeeOtherGuests bool
	Attendees               []string
	JSON                    string
	Set                     []string
}

// EventUpdateSpec carries the events update flags. Start and End are
// pointers so a passed-but-empty value can be told apart from an
// omitted flag.
type EventUpdateSpec struct {
	CalendarID   uint64
	EventID      string
	PolicyID     string
	Title        string
	Description  string
	Location     string
	Priority     string
	Visibility   string
	Transparency string
	Start        *string
	End          *string
	JSON         string
	Set          []string
}

// EventDeleteSpec carries the events delete flags.
type EventDeleteSpec struct {
	CalendarID uint64
	EventID    string
	PolicyID   string
	Message    string
}

// EventCreateBody builds an AddEventAction envelope for the apply-actions
// endpoint. Flag-derived fields come first; a --json object or --set
// entries are merged on top and may override any of them.
func EventCreateBody(spec EventCreateSpec) (map[string]any, error) {
	if err := RequireExclusiveSource(spec.JSON, spec.Set); err != nil {
		return nil, err
	}

	start := strings.TrimSpace(spec.Start)
	end := strings.TrimSpace(spec.End)
	if start == "" || end == "" {
		return nil, &clierr.UsageError{
			Message: "Invalid event time range: --start and --end are required.",
			Hint:    "Use ISO 8601 timestamps, e.g. --start 2026-02-21T18:30:00Z --end 2026-02-21T19:00:00Z",
		}
	}

	policyID, err := validatePolicyID(spec.PolicyID)
	if err != nil {
		return nil, err
	}

	action := map[string]any{
		"type":                    "AddEventAction",
		"hash":                    "",
		"policyId":                policyID,
		"eventKey":                "",
		"calendarId":              spec.CalendarID,
		"title":                   spec.Title,
		"dateRange":               fixedDateTimeRange(start, end),
		"guestsCanModify":         spec.GuestsCanModify,
		"guestsCanInviteOthers":   spec.GuestsCanInviteOthers,
		"guestsCanSeeOtherGuests": spec.GuestsCanSeeOtherGuests,
	}

	attendees := []any{}
	for _, email := range spec.Attendees {
		email = strings.TrimSpace(email)
		if email == "" {
			continue
		}
		attendees = append(attendees, map[string]any{"email": email})
	}
	action["attendees"] = attendees

	setIfPresent(action, "description", spec.Description)
	setIfPresent(action, "location", spec.Location)
	setIfPresent(action, "priority", spec.Priority)
	setIfPresent(action, "visibility", spec.Visibility)
	setIfPresent(action, "transparency", spec.Transparency)

	if err := mergeSource(action, spec.JSON, spec.Set); err != nil {
		return nil, err
	}
	return envelope(action), nil
}

// EventUpdateBody builds an UpdateEventAction envelope. At least one field
// beyond the addressing keys must change, whether it comes from flags,
// --json, or --set.
func EventUpdateBody(spec EventUpdateSpec) (map[string]any, error) {
	if err := RequireExclusiveSource(spec.JSON, spec.Set); err != nil {
		return nil, err
	}

	policyID, err := validatePolicyID(spec.PolicyID)
	if err != nil {
		return nil, err
	}

	if (spec.Start != nil) != (spec.End != nil) {
		return nil, &clierr.UsageError{
			Message: "Invalid date range update: --start and --end must be passed together.",
			Hint:    "Pass both --start and --end, or neither. For partial advanced updates, use --json.",
		}
	}

	action := map[string]any{
		"type":       "UpdateEventAction",
		"hash":       "",
		"policyId":   policyID,
		"calendarId": spec.CalendarID,
		"eventId":    spec.EventID,
	}

	setIfPresent(action, "title", spec.Title)
	setIfPresent(action, "description", spec.Description)
	setIfPresent(action, "location", spec.Location)
	setIfPresent(action, "priority", spec.Priority)
	setIfPresent(action, "visibility", spec.Visibility)
	setIfPresent(action, "transparency", spec.Transparency)

	if spec.Start != nil && spec.End != nil {
		start := strings.TrimSpace(*spec.Start)
		end := strings.TrimSpace(*spec.End)
		if start == "" || end == "" {
			return nil, &clierr.UsageError{
				Message: "Invalid date range update: --start and --end cannot be empty.",
				Hint:    "Use ISO 8601 timestamps, e.g. --start 2026-02-21T18:30:00Z --end 2026-02-21T19:00:00Z",
			}
		}
		action["dateRange"] = fixedDateTimeRange(start, end)
	}

	if err := mergeSource(action, spec.JSON, spec.Set); err != nil {
		return nil, err
	}

	if !hasUpdateFields(action) {
		return nil, &clierr.UsageError{
			Message: "Event update requires at least one field change.",
			Hint:    "Pass one of: --title/--description/--location/--priority/--start+--end, or use --json/--set.",
		}
	}
	return envelope(action), nil
}

// EventDeleteBody builds a CancelEventAction envelope. The event is
// addressed by the combined "calendarId/eventId" key.
func EventDeleteBody(spec EventDeleteSpec) (map[string]any, error) {
	policyID, err := validatePolicyID(spec.PolicyID)
	if err != nil {
		return nil, err
	}

	action := map[string]any{
		"type":     "CancelEventAction",
		"hash":     "",
		"policyId": policyID,
		"eventKey": fmt.Sprintf("%d/%s", spec.CalendarID, spec.EventID),
	}
	setIfPresent(action, "notificationMessage", spec.Message)

	return envelope(action), nil
}

func validatePolicyID(raw string) (string, error) {
	policyID := strings.TrimSpace(raw)
	if policyID == "" {
		return "", &clierr.UsageError{
			Message: "Invalid --policy-id value: it cannot be empty.",
			Hint:    "Use a UUID, or omit --policy-id to use 00000000-0000-0000-0000-000000000000.",
		}
	}
	if _, err := uuid.Parse(policyID); err != nil {
		return "", &clierr.UsageError{
			Message: fmt.Sprintf("Invalid --policy-id value '%s': not a UUID.", policyID),
			Hint:    "Use a UUID, or omit --policy-id to use 00000000-0000-0000-0000-000000000000.",
		}
	}
	return policyID, nil
}

func fixedDateTimeRange(start, end string) map[string]any {
	return map[string]any{
		"type":  "FixedDateTimeRange",
		"start": start,
		"end":   end,
	}
}

// setIfPresent stores the trimmed value under key, skipping blanks so
// omitted flags leave no trace in the action.
func setIfPresent(action map[string]any, key, value string) {
	value = strings.TrimSpace(value)
	if value == "" {
		return
	}
	action[key] = value
}

func mergeSource(action map[string]any, jsonArg string, setEntries []string) error {
	if jsonArg != "" {
		updates, err := ParseObjectArgument(jsonArg, "--json")
		if err != nil {
			return err
		}
		MergeFields(action, updates)
	}
	if len(setEntries) > 0 {
		updates, err := ParseSetEntries(setEntries)
		if err != nil {
			return err
		}
		MergeFields(action, updates)
	}
	return nil
}

func hasUpdateFields(action map[string]any) bool {
	for key := range action {
		switch key {
		case "type", "hash", "policyId", "calendarId", "eventId":
		default:
			return true
		}
	}
	return false
}

func envelope(action map[string]any) map[string]any {
	return map[string]any{"actionsTaken": []any{action}}
}
