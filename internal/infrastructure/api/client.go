// Package api implements the help-desk request API client. All calls
// require an active session; the token source is consulted before any
// network I/O so unauthenticated calls fail fast.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/rbetancur/amg-desk-ai/internal/domain/request"
	apperrors "github.com/rbetancur/amg-desk-ai/internal/shared/errors"
	"github.com/rbetancur/amg-desk-ai/internal/shared/logger"
)

// TokenSource yields the bearer token for the current session, or an
// unauthenticated error when there is none.
type TokenSource interface {
	Token() (string, error)
}

// Client is the request API client.
type Client struct {
	baseURL    string
	tokens     TokenSource
	httpClient *http.Client
	validate   *validator.Validate
	log        *slog.Logger
}

// Option is a function that configures the Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(client *Client) {
		client.httpClient = c
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) Option {
	return func(client *Client) {
		client.httpClient.Timeout = d
	}
}

// WithLogger sets the logger.
func WithLogger(log *slog.Logger) Option {
	return func(client *Client) {
		client.log = log
	}
}

// NewClient creates a new request API client.
func NewClient(baseURL string, tokens TokenSource, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		tokens:  tokens,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		validate: validator.New(validator.WithRequiredStructEnabled()),
		log:      logger.WithComponent("api"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Create submits a new help-desk request. The payload is validated
// client-side before anything goes on the wire; the backend assigns the
// id and all timestamps.
func (c *Client) Create(ctx context.Context, payload CreateRequest) (*request.Request, error) {
	if err := c.validate.Struct(payload); err != nil {
		return nil, validationError(err)
	}

	var created request.Request
	if err := c.do(ctx, http.MethodPost, "/api/requests", payload, &created); err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	return &created, nil
}

// List retrieves a page of the caller's requests. The returned page
// shape is always fully populated even if the server response omitted
// optional fields.
func (c *Client) List(ctx context.Context, limit, offset int) (*ListResult, error) {
	if limit < 1 {
		limit = DefaultLimit
	}
	if offset < 0 {
		offset = 0
	}

	path := fmt.Sprintf("/api/requests?limit=%d&offset=%d", limit, offset)

	var wire listWire
	if err := c.do(ctx, http.MethodGet, path, nil, &wire); err != nil {
		return nil, fmt.Errorf("list requests: %w", err)
	}
	return wire.normalize(limit, offset), nil
}

// GetByID retrieves a single request.
func (c *Client) GetByID(ctx context.Context, id int) (*request.Request, error) {
	var req request.Request
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/requests/%d", id), nil, &req); err != nil {
		return nil, fmt.Errorf("get request %d: %w", id, err)
	}
	return &req, nil
}

// DefaultLimit is the page size used when the caller does not specify one.
const DefaultLimit = 50

// do performs an HTTP request and decodes the response. The session
// token is resolved first; without one no network call is attempted.
func (c *Client) do(ctx context.Context, method, path string, body any, result any) error {
	token, err := c.tokens.Token()
	if err != nil {
		return err
	}

	url := c.baseURL + path

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn("request failed", "method", method, "url", url, "error", err)
		return apperrors.NewNetworkError(
			"Cannot reach the backend.",
			fmt.Sprintf("%s %s: %v", method, url, err),
		)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return apperrors.NewNetworkError(
			"Connection lost while reading the server response.",
			fmt.Sprintf("%s %s: %v", method, url, err),
		)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		httpErr := decodeHTTPError(resp.StatusCode, respBody)
		c.log.Warn("backend returned error",
			"method", method,
			"url", url,
			"status", resp.StatusCode,
			"message", httpErr.Message,
		)
		return httpErr
	}

	if result == nil {
		return nil
	}

	if err := json.Unmarshal(respBody, result); err != nil {
		return apperrors.NewParseError(
			"Could not process the server response.",
			fmt.Sprintf("%s %s: %v", method, url, err),
		)
	}
	return nil
}

// validationError translates validator failures into user messages.
func validationError(err error) error {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		for _, fe := range fieldErrs {
			switch fe.Field() {
			case "Category":
				return apperrors.NewValidationError("You must select a category from the list.")
			case "Description":
				if fe.Tag() == "max" {
					return apperrors.NewValidationError(
						fmt.Sprintf("The description cannot exceed %d characters.", request.MaxDescriptionLength))
				}
				return apperrors.NewValidationError("The problem description is required.")
			}
		}
	}
	return apperrors.NewValidationError("The request is invalid.", err.Error())
}
