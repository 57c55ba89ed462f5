package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/cruzluna/reclaim-cli/internal/api"
	"github.com/cruzluna/reclaim-cli/internal/format"
	"github.com/cruzluna/reclaim-cli/internal/payload"
)

var eventsCmd = &cobra.Command{
	Use:     "events",
	Aliases: []string{"event"},
	Short:   "Work with calendar events.",
	Long: `Work with calendar events.

Listing and fetching read the events API directly. Mutations (create,
update, delete, apply) go through Reclaim's schedule-actions endpoint
and report per-action results.`,
}

// ─── events list ─────────────────────────────────────────────────────────────

var (
	eventsListCalendarIDs   []string
	eventsListAllConnected  bool
	eventsListStart         string
	eventsListEnd           string
	eventsListSourceDetails bool
	eventsListThin          bool
)

var eventsListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List calendar events.",
	RunE: func(cmd *cobra.Command, args []string) error {
		calendarIDs, err := parseCalendarIDs(eventsListCalendarIDs)
		if err != nil {
			return err
		}

		client, err := newClient(cmd)
		if err != nil {
			return err
		}

		events, err := client.ListEvents(cmd.Context(), api.EventListQuery{
			CalendarIDs:   calendarIDs,
			AllConnected:  eventsListAllConnected,
			Start:         eventsListStart,
			End:           eventsListEnd,
			SourceDetails: eventsListSourceDetails,
			Thin:          eventsListThin,
		})
		if err != nil {
			return err
		}

		if jsonOutput() {
			return format.JSON(os.Stdout, events)
		}
		format.EventsList(os.Stdout, events)
		return nil
	},
}

// parseCalendarIDs parses the repeatable --calendar-ids values.
func parseCalendarIDs(raw []string) ([]uint64, error) {
	ids := make([]uint64, 0, len(raw))
	for _, arg := range raw {
		id, err := parseCalendarID(arg)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// ─── events get ──────────────────────────────────────────────────────────────

var (
	eventsGetSourceDetails bool
	eventsGetThin          bool
)

var eventsGetCmd = &cobra.Command{
	Use:   "get <calendar-id> <event-id>",
	Short: "Get one event by calendar and event ID.",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		calendarID, err := parseCalendarID(args[0])
		if err != nil {
			return err
		}
		eventID := args[1]

		client, err := newClient(cmd)
		if err != nil {
			return err
		}

		event, err := client.GetEvent(cmd.Context(), calendarID, eventID, eventsGetSourceDetails, eventsGetThin)
		if err != nil {
			return err
		}

		if jsonOutput() {
			return format.JSON(os.Stdout, event)
		}
		return format.EventDetails(os.Stdout, event)
	},
}

// ─── events create ───────────────────────────────────────────────────────────

var (
	eventsCreateCalendarID    uint64
	eventsCreateTitle         string
	eventsCreateStart         string
	eventsCreateEnd           string
	eventsCreatePolicyID      string
	eventsCreateDescription   string
	eventsCreateLocation      string
	eventsCreatePriority      string
	eventsCreateVisibility    string
	eventsCreateTransparency  string
	eventsCreateGuestsModify  bool
	eventsCreateGuestsInvite  bool
	eventsCreateGuestsSeeList bool
	eventsCreateAttendees     []string
	eventsCreateJSON          string
	eventsCreateSet           []string
)

var eventsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a calendar event.",
	RunE: func(cmd *cobra.Command, args []string) error {
		priority, err := payload.ParsePriority(eventsCreatePriority)
		if err != nil {
			return err
		}
		visibility, err := payload.ParseVisibility(eventsCreateVisibility)
		if err != nil {
			return err
		}
		transparency, err := payload.ParseTransparency(eventsCreateTransparency)
		if err != nil {
			return err
		}

		body, err := payload.EventCreateBody(payload.EventCreateSpec{
			CalendarID:              eventsCreateCalendarID,
			Title:                   eventsCreateTitle,
			Start:                   eventsCreateStart,
			End:                     eventsCreateEnd,
			PolicyID:                eventsCreatePolicyID,
			Description:             eventsCreateDescription,
			Location:                eventsCreateLocation,
			Priority:                priority,
			Visibility:              visibility,
			Transparency:            transparency,
			GuestsCanModify:         eventsCreateGuestsModify,
			GuestsCanInviteOthers:   eventsCreateGuestsInvite,
			GuestsCanSeeOtherGuests: eventsCreateGuestsSeeList,
			Attendees:               eventsCreateAttendees,
			JSON:                    eventsCreateJSON,
			Set:                     eventsCreateSet,
		})
		if err != nil {
			return err
		}

		client, err := newClient(cmd)
		if err != nil {
			return err
		}

		response, err := client.ApplyScheduleActions(cmd.Context(), body)
		if err != nil {
			return err
		}

		result := format.EventsMutationResult{
			Operation:  "create",
			CalendarID: eventsCreateCalendarID,
			Response:   response,
		}
		if jsonOutput() {
			return format.JSON(os.Stdout, result)
		}
		return format.EventsMutation(os.Stdout, result)
	},
}

// ─── events update ───────────────────────────────────────────────────────────

var (
	eventsUpdateCalendarID   uint64
	eventsUpdateEventID      string
	eventsUpdatePolicyID     string
	eventsUpdateTitle        string
	eventsUpdateDescription  string
	eventsUpdateLocation     string
	eventsUpdatePriority     string
	eventsUpdateVisibility   string
	eventsUpdateTransparency string
	eventsUpdateStart        string
	eventsUpdateEnd          string
	eventsUpdateJSON         string
	eventsUpdateSet          []string
)

var eventsUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update a calendar event.",
	RunE: func(cmd *cobra.Command, args []string) error {
		priority, err := payload.ParsePriority(eventsUpdatePriority)
		if err != nil {
			return err
		}
		visibility, err := payload.ParseVisibility(eventsUpdateVisibility)
		if err != nil {
			return err
		}
		transparency, err := payload.ParseTransparency(eventsUpdateTransparency)
		if err != nil {
			return err
		}

		spec := payload.EventUpdateSpec{
			CalendarID:   eventsUpdateCalendarID,
			EventID:      eventsUpdateEventID,
			PolicyID:     eventsUpdatePolicyID,
			Title:        eventsUpdateTitle,
			Description:  eventsUpdateDescription,
			Location:     eventsUpdateLocation,
			Priority:     priority,
			Visibility:   visibility,
			Transparency: transparency,
			JSON:         eventsUpdateJSON,
			Set:          eventsUpdateSet,
		}
		flags := cmd.Flags()
		if flags.Changed("start") {
			spec.Start = &eventsUpdateStart
		}
		if flags.Changed("end") {
			spec.End = &eventsUpdateEnd
		}

		body, err := payload.EventUpdateBody(spec)
		if err != nil {
			return err
		}

		client, err := newClient(cmd)
		if err != nil {
			return err
		}

		response, err := client.ApplyScheduleActions(cmd.Context(), body)
		if err != nil {
			return err
		}

		result := format.EventsMutationResult{
			Operation:  "update",
			CalendarID: eventsUpdateCalendarID,
			EventID:    &eventsUpdateEventID,
			Response:   response,
		}
		if jsonOutput() {
			return format.JSON(os.Stdout, result)
		}
		return format.EventsMutation(os.Stdout, result)
	},
}

// ─── events delete ───────────────────────────────────────────────────────────

var (
	eventsDeleteCalendarID uint64
	eventsDeleteEventID    string
	eventsDeletePolicyID   string
	eventsDeleteMessage    string
)

var eventsDeleteCmd = &cobra.Command{
	Use:     "delete",
	Aliases: []string{"del", "rm", "remove"},
	Short:   "Cancel a calendar event.",
	RunE: func(cmd *cobra.Command, args []string) error {
		body, err := payload.EventDeleteBody(payload.EventDeleteSpec{
			CalendarID: eventsDeleteCalendarID,
			EventID:    eventsDeleteEventID,
			PolicyID:   eventsDeletePolicyID,
			Message:    eventsDeleteMessage,
		})
		if err != nil {
			return err
		}

		client, err := newClient(cmd)
		if err != nil {
			return err
		}

		response, err := client.ApplyScheduleActions(cmd.Context(), body)
		if err != nil {
			return err
		}

		result := format.EventsMutationResult{
			Operation:  "delete",
			CalendarID: eventsDeleteCalendarID,
			EventID:    &eventsDeleteEventID,
			Response:   response,
		}
		if jsonOutput() {
			return format.JSON(os.Stdout, result)
		}
		return format.EventsMutation(os.Stdout, result)
	},
}

// ─── events apply ────────────────────────────────────────────────────────────

var eventsApplyJSON string

var eventsApplyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Send a raw schedule-actions payload.",
	Long: `Send a raw schedule-actions payload.

The JSON object must carry an "actionsTaken" array. This is the escape
hatch for action types the create/update/delete commands do not cover.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		body, err := payload.ApplyBody(eventsApplyJSON)
		if err != nil {
			return err
		}

		client, err := newClient(cmd)
		if err != nil {
			return err
		}

		response, err := client.ApplyScheduleActions(cmd.Context(), body)
		if err != nil {
			return err
		}

		if jsonOutput() {
			return format.JSON(os.Stdout, response)
		}
		return format.ApplyResults(os.Stdout, response)
	},
}

// ─── Flag wiring ─────────────────────────────────────────────────────────────

func init() {
	listFlags := eventsListCmd.Flags()
	listFlags.StringSliceVar(&eventsListCalendarIDs, "calendar-ids", nil, "Calendar IDs to include. Repeatable or comma-separated.")
	listFlags.BoolVar(&eventsListAllConnected, "all-connected", false, "Include events from every connected calendar.")
	listFlags.StringVar(&eventsListStart, "start", "", "Range start (ISO 8601 or YYYY-MM-DD).")
	listFlags.StringVar(&eventsListEnd, "end", "", "Range end (ISO 8601 or YYYY-MM-DD).")
	listFlags.BoolVar(&eventsListSourceDetails, "source-details", false, "Include source calendar details in the response.")
	listFlags.BoolVar(&eventsListThin, "thin", false, "Ask the API for thin event payloads.")

	getFlags := eventsGetCmd.Flags()
	getFlags.BoolVar(&eventsGetSourceDetails, "source-details", false, "Include source calendar details in the response.")
	getFlags.BoolVar(&eventsGetThin, "thin", false, "Ask the API for a thin event payload.")

	createFlags := eventsCreateCmd.Flags()
	createFlags.Uint64Var(&eventsCreateCalendarID, "calendar-id", 0, "Target calendar ID (required).")
	createFlags.StringVar(&eventsCreateTitle, "title", "", "Event title (required).")
	createFlags.StringVar(&eventsCreateStart, "start", "", "Event start (ISO 8601, required).")
	createFlags.StringVar(&eventsCreateEnd, "end", "", "Event end (ISO 8601, required).")
	createFlags.StringVar(&eventsCreatePolicyID, "policy-id", payload.DefaultPolicyID, "Scheduling policy UUID.")
	createFlags.StringVar(&eventsCreateDescription, "description", "", "Optional event description.")
	createFlags.StringVar(&eventsCreateLocation, "location", "", "Optional event location.")
	createFlags.StringVar(&eventsCreatePriority, "priority", "", "Optional priority (P1-P4).")
	createFlags.StringVar(&eventsCreateVisibility, "visibility", "", "Optional visibility (DEFAULT, PUBLIC, PRIVATE).")
	createFlags.StringVar(&eventsCreateTransparency, "transparency", "", "Optional transparency (OPAQUE, TRANSPARENT).")
	createFlags.BoolVar(&eventsCreateGuestsModify, "guests-can-modify", false, "Allow guests to modify the event.")
	createFlags.BoolVar(&eventsCreateGuestsInvite, "guests-can-invite-others", false, "Allow guests to invite others.")
	createFlags.BoolVar(&eventsCreateGuestsSeeList, "guests-can-see-other-guests", false, "Allow guests to see the guest list.")
	createFlags.StringArrayVar(&eventsCreateAttendees, "attendees", nil, "Attendee email. Repeatable.")
	createFlags.StringVar(&eventsCreateJSON, "json", "", "Full AddEventAction JSON object. Merged over flag-derived fields.")
	createFlags.StringArrayVar(&eventsCreateSet, "set", nil, "Action field override. Repeatable. Value supports JSON literals (true, null, numbers, arrays, objects).")
	cobra.CheckErr(eventsCreateCmd.MarkFlagRequired("calendar-id"))
	cobra.CheckErr(eventsCreateCmd.MarkFlagRequired("title"))
	cobra.CheckErr(eventsCreateCmd.MarkFlagRequired("start"))
	cobra.CheckErr(eventsCreateCmd.MarkFlagRequired("end"))

	updateFlags := eventsUpdateCmd.Flags()
	updateFlags.Uint64Var(&eventsUpdateCalendarID, "calendar-id", 0, "Target calendar ID (required).")
	updateFlags.StringVar(&eventsUpdateEventID, "event-id", "", "Event ID within the calendar (required).")
	updateFlags.StringVar(&eventsUpdatePolicyID, "policy-id", payload.DefaultPolicyID, "Scheduling policy UUID.")
	updateFlags.StringVar(&eventsUpdateTitle, "title", "", "New event title.")
	updateFlags.StringVar(&eventsUpdateDescription, "description", "", "New event description.")
	updateFlags.StringVar(&eventsUpdateLocation, "location", "", "New event location.")
	updateFlags.StringVar(&eventsUpdatePriority, "priority", "", "New priority (P1-P4).")
	updateFlags.StringVar(&eventsUpdateVisibility, "visibility", "", "New visibility (DEFAULT, PUBLIC, PRIVATE).")
	updateFlags.StringVar(&eventsUpdateTransparency, "transparency", "", "New transparency (OPAQUE, TRANSPARENT).")
	updateFlags.StringVar(&eventsUpdateStart, "start", "", "New range start (pass together with --end).")
	updateFlags.StringVar(&eventsUpdateEnd, "end", "", "New range end (pass together with --start).")
	updateFlags.StringVar(&eventsUpdateJSON, "json", "", "Partial UpdateEventAction JSON object. Merged over flag-derived fields.")
	updateFlags.StringArrayVar(&eventsUpdateSet, "set", nil, "Action field override. Repeatable. Value supports JSON literals (true, null, numbers, arrays, objects).")
	cobra.CheckErr(eventsUpdateCmd.MarkFlagRequired("calendar-id"))
	cobra.CheckErr(eventsUpdateCmd.MarkFlagRequired("event-id"))

	deleteFlags := eventsDeleteCmd.Flags()
	deleteFlags.Uint64Var(&eventsDeleteCalendarID, "calendar-id", 0, "Target calendar ID (required).")
	deleteFlags.StringVar(&eventsDeleteEventID, "event-id", "", "Event ID within the calendar (required).")
	deleteFlags.StringVar(&eventsDeletePolicyID, "policy-id", payload.DefaultPolicyID, "Scheduling policy UUID.")
	deleteFlags.StringVar(&eventsDeleteMessage, "message", "", "Optional cancellation message sent to guests.")
	cobra.CheckErr(eventsDeleteCmd.MarkFlagRequired("calendar-id"))
	cobra.CheckErr(eventsDeleteCmd.MarkFlagRequired("event-id"))

	applyFlags := eventsApplyCmd.Flags()
	applyFlags.StringVar(&eventsApplyJSON, "json", "", "Schedule-actions JSON object with an actionsTaken array (required).")
	cobra.CheckErr(eventsApplyCmd.MarkFlagRequired("json"))

	eventsCmd.AddCommand(eventsListCmd)
	eventsCmd.AddCommand(eventsGetCmd)
	eventsCmd.AddCommand(eventsCreateCmd)
	eventsCmd.AddCommand(eventsUpdateCmd)
	eventsCmd.AddCommand(eventsDeleteCmd)
	eventsCmd.AddCommand(eventsApplyCmd)
}
