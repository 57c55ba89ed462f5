// Package api is the Reclaim REST client. One Client method maps onto one
// endpoint; every method issues exactly one request, with no retries or
// caching, and translates failures into the clierr taxonomy.
package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cruzluna/reclaim-cli/internal/clierr"
	"github.com/cruzluna/reclaim-cli/internal/config"
)

// UserAgent is stamped on every request. main overwrites it with the
// build version before any command runs.
var UserAgent = "reclaim-cli/dev"

// HTTPDoer is the transport seam. Production uses *http.Client; tests
// substitute a recorder.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client talks to the Reclaim API.
type Client struct {
	http    HTTPDoer
	baseURL *url.URL
	apiKey  string
}

// NewClient validates the settings and builds a Client. A nil doer gets a
// stock http.Client bounded by the configured timeout; nothing else imposes
// deadlines, so a slow API surfaces as a transport timeout from here.
func NewClient(settings config.Settings, doer HTTPDoer) (*Client, error) {
	apiKey := strings.TrimSpace(settings.APIKey)
	if apiKey == "" {
		return nil, &clierr.CredentialError{}
	}

	baseURL, err := normalizeBaseURL(settings.BaseURL)
	if err != nil {
		return nil, err
	}

	if doer == nil {
		timeout := settings.TimeoutSecs
		if timeout < 1 {
			timeout = 1
		}
		doer = &http.Client{Timeout: time.Duration(timeout) * time.Second}
	}

	return &Client{http: doer, baseURL: baseURL, apiKey: apiKey}, nil
}

// normalizeBaseURL parses the API root and guarantees a trailing slash so
// relative joins never clobber the /api prefix.
func normalizeBaseURL(raw string) (*url.URL, error) {
	parsed, err := url.Parse(raw)
	if err != nil || !parsed.IsAbs() || parsed.Host == "" {
		return nil, &clierr.UsageError{
			Message: fmt.Sprintf("Invalid base URL: %s", raw),
			Hint:    "Use a valid URL, e.g. --base-url https://api.app.reclaim.ai/api",
		}
	}
	parsed.Path = strings.TrimRight(parsed.Path, "/") + "/"
	return parsed, nil
}

// ─── Task endpoints ──────────────────────────────────────────────────────────

// ListTasks fetches every task and applies the listing filter locally; the
// API has no server-side equivalent.
func (c *Client) ListTasks(ctx context.Context, filter TaskFilter) ([]Task, error) {
	req, reqCtx, err := c.newRequest(ctx, http.MethodGet, nil, nil, "tasks")
	if err != nil {
		return nil, err
	}

	var tasks []Task
	if err := c.sendJSON(req, reqCtx, &tasks); err != nil {
		return nil, err
	}

	if filter == FilterActive {
		kept := tasks[:0]
		for _, task := range tasks {
			if task.IsActive() {
				kept = append(kept, task)
			}
		}
		tasks = kept
	}
	return tasks, nil
}

// GetTask fetches one task by ID.
func (c *Client) GetTask(ctx context.Context, taskID uint64) (Task, error) {
	req, reqCtx, err := c.newRequest(ctx, http.MethodGet, nil, nil, "tasks", formatID(taskID))
	if err != nil {
		return Task{}, err
	}
	var task Task
	if err := c.sendJSON(req, reqCtx, &task); err != nil {
		return Task{}, err
	}
	return task, nil
}

// CreateTask creates a task and returns the API's view of it.
func (c *Client) CreateTask(ctx context.Context, request CreateTaskRequest) (Task, error) {
	req, reqCtx, err := c.newRequest(ctx, http.MethodPost, nil, request, "tasks")
	if err != nil {
		return Task{}, err
	}
	var task Task
	if err := c.sendJSON(req, reqCtx, &task); err != nil {
		return Task{}, err
	}
	return task, nil
}

// PutTask replaces a task. body must be the full task object.
func (c *Client) PutTask(ctx context.Context, taskID uint64, body map[string]any, notificationKey string) (Task, error) {
	req, reqCtx, err := c.newRequest(ctx, http.MethodPut, notificationQuery(notificationKey), body, "tasks", formatID(taskID))
	if err != nil {
		return Task{}, err
	}
	var task Task
	if err := c.sendJSON(req, reqCtx, &task); err != nil {
		return Task{}, err
	}
	return task, nil
}

// PatchTask partially updates a task.
func (c *Client) PatchTask(ctx context.Context, taskID uint64, body map[string]any, notificationKey string) (Task, error) {
	req, reqCtx, err := c.newRequest(ctx, http.MethodPatch, notificationQuery(notificationKey), body, "tasks", formatID(taskID))
	if err != nil {
		return Task{}, err
	}
	var task Task
	if err := c.sendJSON(req, reqCtx, &task); err != nil {
		return Task{}, err
	}
	return task, nil
}

// DeleteTask deletes a task. The API sometimes answers with a JSON body and
// sometimes with nothing; an empty body comes back as nil.
func (c *Client) DeleteTask(ctx context.Context, taskID uint64, notificationKey string) (any, error) {
	req, reqCtx, err := c.newRequest(ctx, http.MethodDelete, notificationQuery(notificationKey), nil, "tasks", formatID(taskID))
	if err != nil {
		return nil, err
	}
	return c.sendJSONOrNull(req, reqCtx)
}

// ─── Event endpoints ─────────────────────────────────────────────────────────

// EventListQuery is the GET /events parameter set. Zero values stay off the
// query string.
type EventListQuery struct {
	CalendarIDs   []uint64
	AllConnected  bool
	Start         string
	End           string
	SourceDetails bool
	Thin          bool
}

func (q EventListQuery) values() url.Values {
	values := url.Values{}
	for _, id := range q.CalendarIDs {
		values.Add("calendarIds", formatID(id))
	}
	if q.AllConnected {
		values.Set("allConnected", "true")
	}
	if start := strings.TrimSpace(q.Start); start != "" {
		values.Set("start", start)
	}
	if end := strings.TrimSpace(q.End); end != "" {
		values.Set("end", end)
	}
	if q.SourceDetails {
		values.Set("sourceDetails", "true")
	}
	if q.Thin {
		values.Set("thin", "true")
	}
	return values
}

// ListEvents fetches calendar events. Event shapes vary too much across
// calendar providers to type, so elements stay raw JSON values.
func (c *Client) ListEvents(ctx context.Context, query EventListQuery) ([]any, error) {
	req, reqCtx, err := c.newRequest(ctx, http.MethodGet, query.values(), nil, "events")
	if err != nil {
		return nil, err
	}
	var events []any
	if err := c.sendJSON(req, reqCtx, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// GetEvent fetches one event by calendar and event ID.
func (c *Client) GetEvent(ctx context.Context, calendarID uint64, eventID string, sourceDetails, thin bool) (any, error) {
	values := url.Values{}
	if sourceDetails {
		values.Set("sourceDetails", "true")
	}
	if thin {
		values.Set("thin", "true")
	}

	// Event IDs come from external calendars and may contain separators;
	// JoinPath does not escape them.
	req, reqCtx, err := c.newRequest(ctx, http.MethodGet, values, nil, "events", formatID(calendarID), url.PathEscape(eventID))
	if err != nil {
		return nil, err
	}
	var event any
	if err := c.sendJSON(req, reqCtx, &event); err != nil {
		return nil, err
	}
	return event, nil
}

// ApplyScheduleActions posts an actionsTaken batch. Event create, update,
// and delete all go through this endpoint.
func (c *Client) ApplyScheduleActions(ctx context.Context, body map[string]any) (any, error) {
	req, reqCtx, err := c.newRequest(ctx, http.MethodPost, nil, body, "schedule-actions", "apply-actions")
	if err != nil {
		return nil, err
	}
	var response any
	if err := c.sendJSON(req, reqCtx, &response); err != nil {
		return nil, err
	}
	return response, nil
}

// ─── Request plumbing ────────────────────────────────────────────────────────

func formatID(id uint64) string {
	return strconv.FormatUint(id, 10)
}

func notificationQuery(key string) url.Values {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return nil
	}
	return url.Values{"notificationKey": []string{trimmed}}
}

func (c *Client) newRequest(ctx context.Context, method string, query url.Values, body any, segments ...string) (*http.Request, requestContext, error) {
	endpoint := c.baseURL.JoinPath(segments...)
	if encoded := query.Encode(); encoded != "" {
		endpoint.RawQuery = encoded
	}

	reqCtx := requestContext{method: method, url: endpoint.String()}

	var reader io.Reader
	if body != nil {
		payload, err := marshalNoEscape(body)
		if err != nil {
			return nil, reqCtx, fmt.Errorf("encode request body: %w", err)
		}
		reqCtx.body = strings.TrimSpace(string(payload))
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint.String(), reader)
	if err != nil {
		return nil, reqCtx, fmt.Errorf("build %s %s: %w", method, endpoint, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", UserAgent)
	return req, reqCtx, nil
}

// exchange performs the round trip and reads the full body. Transport
// failures (send or read) are classified here; status handling is left to
// the callers.
func (c *Client) exchange(req *http.Request, reqCtx requestContext) (*http.Response, []byte, error) {
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, nil, mapTransportError(err, reqCtx)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, &clierr.TransportError{
			Message: fmt.Sprintf("Could not read Reclaim API response body: %v%s", err, reqCtx.block(debugSummaryLimit)),
			Hint:    "Retry the command. If this repeats, capture the output and file a bug.",
			Err:     err,
		}
	}

	slog.Debug("reclaim api exchange",
		"method", reqCtx.method,
		"url", reqCtx.url,
		"status", resp.StatusCode,
		"elapsed", time.Since(start))
	return resp, body, nil
}

// sendJSON runs the request and decodes a 2xx body into out.
func (c *Client) sendJSON(req *http.Request, reqCtx requestContext, out any) error {
	resp, body, err := c.exchange(req, reqCtx)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newAPIError(resp.StatusCode, body, finalURL(resp, req), resp.Header, reqCtx)
	}
	if err := decodeJSON(body, out); err != nil {
		return newDecodeError(err, body, reqCtx)
	}
	return nil
}

// sendJSONOrNull is sendJSON for endpoints that may answer 2xx with an
// empty body, which decodes to nil.
func (c *Client) sendJSONOrNull(req *http.Request, reqCtx requestContext) (any, error) {
	resp, body, err := c.exchange(req, reqCtx)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newAPIError(resp.StatusCode, body, finalURL(resp, req), resp.Header, reqCtx)
	}

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, nil
	}
	var value any
	if err := decodeJSON(trimmed, &value); err != nil {
		return nil, newDecodeError(err, body, reqCtx)
	}
	return value, nil
}

// finalURL is the URL the response actually came from, after redirects.
func finalURL(resp *http.Response, req *http.Request) string {
	if resp != nil && resp.Request != nil && resp.Request.URL != nil {
		return resp.Request.URL.String()
	}
	if req != nil && req.URL != nil {
		return req.URL.String()
	}
	return ""
}
