package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/niagara/internal/shared"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

const defaultBaseURL string = "http://localhost:8081"

// APIError is a non-2xx response. It unwraps to the sentinel naming the failed operation.
type APIError struct {
	Op      error
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%v (status %d): %s", e.Op, e.Status, e.Message)
	}
	return fmt.Sprintf("%v: status %d", e.Op, e.Status)
}

func (e *APIError) Unwrap() error { return e.Op }

// ServerMessage returns the message the backend sent with a failed response, or "".
func ServerMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return ""
}

// ClientOpts configures a [Client].
type ClientOpts struct {
	BaseURL    string
	HTTPClient *http.Client
	Timeout    time.Duration
	RateLimit  float64 // requests per second, 0 disables limiting
	Token      string  // optional bearer token
	Logger     *log.Logger
}

// Client performs JSON requests against the events backend.
//
// Every request carries an X-Request-ID and waits on the rate limiter.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *log.Logger
}

// NewClient creates a [Client] from opts.
func NewClient(opts ClientOpts) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = defaultBaseURL
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{}
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}

	base := *opts.HTTPClient
	httpClient := &base
	if opts.Token != "" {
		ctx := context.WithValue(context.Background(), oauth2.HTTPClient, &base)
		httpClient = oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: opts.Token}))
	}
	if opts.Timeout > 0 {
		httpClient.Timeout = opts.Timeout
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if opts.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), 1)
	}

	return &Client{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		httpClient: httpClient,
		limiter:    limiter,
		logger:     shared.WithLogger(opts.Logger, "component", "api"),
	}
}

// BaseURL returns the backend root the client talks to.
func (c *Client) BaseURL() string { return c.baseURL }

// doRequest sends body as JSON (when non-nil) and decodes a 2xx response into result (when non-nil).
//
// Failures wrap op: transport errors additionally wrap [shared.ErrBackendDown], status errors are [*APIError].
func (c *Client) doRequest(ctx context.Context, op error, method, endpoint string, body, result any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: %w", op, err)
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%w: failed to encode request: %w", op, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reader)
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %w", op, err)
	}

	requestID := shared.GenerateID()
	req.Header.Set("X-Request-ID", requestID)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.logger.Debug("request", "method", method, "endpoint", endpoint, "request_id", requestID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w: %v", op, shared.ErrBackendDown, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{Op: op, Status: resp.StatusCode, Message: readErrorMessage(resp.Body)}
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: failed to decode response: %w", op, err)
		}
	}

	return nil
}

// readErrorMessage extracts {"error": ...} or {"message": ...} from an error body.
func readErrorMessage(r io.Reader) string {
	var errResp struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r).Decode(&errResp); err != nil {
		return ""
	}
	if errResp.Error != "" {
		return errResp.Error
	}
	return errResp.Message
}
