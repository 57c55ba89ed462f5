package payload

import (
	"fmt"
	"strings"

	"github.com/cruzluna/reclaim-cli/internal/api"
	"github.com/cruzluna/reclaim-cli/internal/clierr"
)

// ─── Flag enums ──────────────────────────────────────────────────────────────

// ParsePriority validates a --priority value. Empty means unset.
func ParsePriority(value string) (string, error) {
	return parseEnum(value, "--priority", []string{"P1", "P2", "P3", "P4"})
}

// ParseEventCategory validates an --event-category value.
func ParseEventCategory(value string) (string, error) {
	return parseEnum(value, "--event-category", []string{"WORK", "PERSONAL"})
}

// ParseVisibility validates a --visibility value. Empty means unset.
func ParseVisibility(value string) (string, error) {
	return parseEnum(value, "--visibility", []string{"DEFAULT", "PUBLIC", "PRIVATE"})
}

// ParseTransparency validates a --transparency value. Empty means unset.
func ParseTransparency(value string) (string, error) {
	return parseEnum(value, "--transparency", []string{"OPAQUE", "TRANSPARENT"})
}

func parseEnum(value, flagName string, allowed []string) (string, error) {
	if value == "" {
		return "", nil
	}
	for _, candidate := range allowed {
		if value == candidate {
			return value, nil
		}
	}
	return "", &clierr.UsageError{
		Message: fmt.Sprintf("Invalid %s value %q: expected one of %s.", flagName, value, strings.Join(allowed, ", ")),
		Hint:    fmt.Sprintf("Example: %s %s", flagName, allowed[0]),
	}
}

// ─── Create task ─────────────────────────────────────────────────────────────

// CreateTaskSpec carries the create flags after cobra parsing. Pointer and
// empty-string fields distinguish "flag not passed" from an explicit value,
// so the request body holds only what the user actually supplied.
type CreateTaskSpec struct {
	Title              string
	Notes              *string
	Priority           string
	Due                *string
	TimeChunksRequired *uint32
	MinChunkSize       *uint32
	MaxChunkSize       *uint32
	EventCategory      string
	AlwaysPrivate      *bool
}

// CreateTaskBody validates the spec and assembles the POST /tasks request.
// Chunk sizes are in 15-minute increments; when a total is given, min
// defaults to 1 and max to the total, and both must fit inside it.
func CreateTaskBody(spec CreateTaskSpec) (api.CreateTaskRequest, error) {
	if spec.Title == "" {
		return api.CreateTaskRequest{}, &clierr.UsageError{
			Message: "Invalid --title value: it cannot be empty.",
			Hint:    `Example: --title "Plan sprint"`,
		}
	}

	if spec.MinChunkSize != nil && *spec.MinChunkSize == 0 {
		return api.CreateTaskRequest{}, &clierr.UsageError{
			Message: "Invalid --min-chunk-size value: it must be at least 1.",
			Hint:    "Chunk sizes are in 15-minute increments starting at 1.",
		}
	}
	if spec.MaxChunkSize != nil && *spec.MaxChunkSize == 0 {
		return api.CreateTaskRequest{}, &clierr.UsageError{
			Message: "Invalid --max-chunk-size value: it must be at least 1.",
			Hint:    "Chunk sizes are in 15-minute increments starting at 1.",
		}
	}

	if spec.Due != nil && strings.TrimSpace(*spec.Due) == "" {
		return api.CreateTaskRequest{}, &clierr.UsageError{
			Message: "Invalid --due value: it cannot be empty.",
			Hint:    "Use ISO 8601, for example: --due 2026-02-19T15:00:00Z",
		}
	}

	if (spec.MinChunkSize != nil || spec.MaxChunkSize != nil) && spec.TimeChunksRequired == nil {
		return api.CreateTaskRequest{}, &clierr.UsageError{
			Message: "Invalid chunk options: --min-chunk-size/--max-chunk-size require --time-chunks-required.",
			Hint:    "Pass --time-chunks-required with chunk size options, e.g. --time-chunks-required 4 --min-chunk-size 2 --max-chunk-size 4",
		}
	}

	minChunk := spec.MinChunkSize
	maxChunk := spec.MaxChunkSize

	if spec.TimeChunksRequired != nil {
		total := *spec.TimeChunksRequired
		if minChunk == nil {
			one := uint32(1)
			minChunk = &one
		}
		if maxChunk == nil {
			all := total
			maxChunk = &all
		}

		if *minChunk > total {
			return api.CreateTaskRequest{}, &clierr.UsageError{
				Message: fmt.Sprintf("Invalid --min-chunk-size value: %d exceeds --time-chunks-required (%d).", *minChunk, total),
				Hint:    "Use a min chunk size less than or equal to --time-chunks-required.",
			}
		}
		if *maxChunk > total {
			return api.CreateTaskRequest{}, &clierr.UsageError{
				Message: fmt.Sprintf("Invalid --max-chunk-size value: %d exceeds --time-chunks-required (%d).", *maxChunk, total),
				Hint:    "Use a max chunk size less than or equal to --time-chunks-required.",
			}
		}
	}

	if minChunk != nil && maxChunk != nil && *minChunk > *maxChunk {
		return api.CreateTaskRequest{}, &clierr.UsageError{
			Message: fmt.Sprintf("Invalid chunk bounds: --min-chunk-size (%d) cannot exceed --max-chunk-size (%d).", *minChunk, *maxChunk),
			Hint:    "Choose chunk sizes where min <= max.",
		}
	}

	request := api.CreateTaskRequest{
		Title:              spec.Title,
		Notes:              spec.Notes,
		Due:                spec.Due,
		TimeChunksRequired: spec.TimeChunksRequired,
		MinChunkSize:       minChunk,
		MaxChunkSize:       maxChunk,
		AlwaysPrivate:      spec.AlwaysPrivate,
	}
	if spec.Priority != "" {
		request.Priority = &spec.Priority
	}
	if spec.EventCategory != "" {
		request.EventCategory = &spec.EventCategory
	}
	return request, nil
}
