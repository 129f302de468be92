package statusclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const userAgent = "migwatch/1"

// Client talks to the status endpoints of one operation URL.
type Client struct {
	operationURL string
	client       *http.Client
}

// New constructs a client for the given operation URL.
func New(operationURL string) *Client {
	return &Client{operationURL: strings.TrimSpace(operationURL), client: &http.Client{}}
}

// NewWithTimeout constructs a client for the given operation URL with a request timeout.
func NewWithTimeout(operationURL string, timeout time.Duration) *Client {
	return &Client{
		operationURL: strings.TrimSpace(operationURL),
		client:       &http.Client{Timeout: timeout},
	}
}

// FetchSummary requests the high-frequency status summary.
func (c *Client) FetchSummary(ctx context.Context) (Summary, error) {
	query := url.Values{}
	query.Set("reqfreq", "high")
	query.Set("output", "json")
	query.Set("status", "status")
	body, err := c.get(ctx, query)
	if err != nil {
		return Summary{}, err
	}
	var wire *summaryWire
	if err := json.Unmarshal(body, &wire); err != nil {
		return Summary{}, fmt.Errorf("decode status summary: %w", err)
	}
	return wire.summary()
}

// summary checks the required fields and converts the payload.
func (w *summaryWire) summary() (Summary, error) {
	switch {
	case w == nil:
		return Summary{}, fmt.Errorf("%w: empty body", ErrInvalidSummary)
	case w.Running == nil:
		return Summary{}, fmt.Errorf("%w: missing running", ErrInvalidSummary)
	case w.FinishedCount == nil:
		return Summary{}, fmt.Errorf("%w: missing finished_count", ErrInvalidSummary)
	case w.StartTime == nil:
		return Summary{}, fmt.Errorf("%w: missing start_time", ErrInvalidSummary)
	case *w.FinishedCount < 0:
		return Summary{}, fmt.Errorf("%w: finished_count %d", ErrInvalidSummary, *w.FinishedCount)
	}
	return Summary{
		Running:        *w.Running,
		StatusList:     w.StatusList,
		InstrumentList: w.InstrumentList,
		ActiveList:     w.ActiveList,
		FinishedCount:  *w.FinishedCount,
		Errors:         w.Errors,
		StartTime:      *w.StartTime,
	}, nil
}

// FetchFinished requests size finished entries starting at index.
func (c *Client) FetchFinished(ctx context.Context, index, size int) ([]string, error) {
	if index < 0 || size <= 0 {
		return nil, fmt.Errorf("invalid finished page bounds index=%d size=%d", index, size)
	}
	query := url.Values{}
	query.Set("output", "json")
	query.Set("status", "finished")
	query.Set("index", strconv.Itoa(index))
	query.Set("size", strconv.Itoa(size))
	body, err := c.get(ctx, query)
	if err != nil {
		return nil, err
	}
	var page FinishedPage
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, fmt.Errorf("decode finished page: %w", err)
	}
	return page.Items, nil
}

// Submit posts an operator action to the operation URL.
func (c *Client) Submit(ctx context.Context, action string) error {
	action = strings.TrimSpace(action)
	if action == "" {
		return fmt.Errorf("action is required")
	}
	form := url.Values{}
	form.Set("action", action)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.operationURL, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	setCommonHeaders(req)
	body, status, err := c.do(req)
	if err != nil {
		return err
	}
	if status < 200 || status >= 300 {
		return decodeHTTPError(status, body)
	}
	return nil
}

func (c *Client) get(ctx context.Context, query url.Values) ([]byte, error) {
	target, err := c.resolve(query)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	setCommonHeaders(req)
	body, status, err := c.do(req)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, decodeHTTPError(status, body)
	}
	return body, nil
}

// resolve merges query parameters into the operation URL, keeping any it already carries.
func (c *Client) resolve(query url.Values) (string, error) {
	parsed, err := url.Parse(c.operationURL)
	if err != nil {
		return "", fmt.Errorf("parse operation url: %w", err)
	}
	merged := parsed.Query()
	for key, values := range query {
		merged[key] = values
	}
	parsed.RawQuery = merged.Encode()
	return parsed.String(), nil
}

func (c *Client) do(req *http.Request) ([]byte, int, error) {
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, err
	}
	return body, resp.StatusCode, nil
}

func setCommonHeaders(req *http.Request) {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("X-Request-ID", uuid.NewString())
}

// HTTPError is returned for non-success responses.
type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("http %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("http %d", e.Status)
}

type errorResponse struct {
	Error string `json:"error"`
}

func decodeHTTPError(status int, body []byte) error {
	var resp errorResponse
	if err := json.Unmarshal(body, &resp); err == nil && resp.Error != "" {
		return &HTTPError{Status: status, Message: resp.Error}
	}
	return &HTTPError{Status: status}
}
