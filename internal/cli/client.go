package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/mcoot/charvault/internal/api/request"
	"github.com/mcoot/charvault/internal/api/response"
)

const apiPrefix = "/api/v1"

// Client talks to the charvault JSON API. Each endpoint has a typed method
// returning the server's response type.
type Client struct {
	baseURL        string
	token          string
	sessionExpired bool
	httpClient     *http.Client
	logger         *slog.Logger
}

// NewClient creates an API client. A nil logger disables request logging.
func NewClient(baseURL, token string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
	}
}

// SetToken updates the bearer token sent with each request
func (c *Client) SetToken(token string) {
	c.token = token
	c.sessionExpired = false
}

// markSessionExpired makes 401 responses report the expired saved login
func (c *Client) markSessionExpired() {
	c.sessionExpired = true
}

// APIError is an error envelope returned by the server
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s (%s)", e.Message, e.Code)
}

// Account endpoints

func (c *Client) Join(ctx context.Context, req request.JoinRequest) (response.Account, error) {
	return call[response.Account](ctx, c, http.MethodPost, "/accounts/join", req)
}

func (c *Client) Login(ctx context.Context, req request.LoginRequest) (response.Token, error) {
	return call[response.Token](ctx, c, http.MethodPost, "/accounts/login", req)
}

func (c *Client) Me(ctx context.Context) (response.Account, error) {
	return call[response.Account](ctx, c, http.MethodGet, "/accounts/me", nil)
}

// Character endpoints

func (c *Client) CreateCharacter(ctx context.Context, id string) (response.Character, error) {
	return call[response.Character](ctx, c, http.MethodPost, "/characters", request.CreateCharacterRequest{CharacterID: id})
}

func (c *Client) ListCharacters(ctx context.Context) (response.CharacterList, error) {
	return call[response.CharacterList](ctx, c, http.MethodGet, "/characters", nil)
}

// GetCharacter returns the full view to the owner and the redacted view to anyone else
func (c *Client) GetCharacter(ctx context.Context, id string) (response.Character, error) {
	return call[response.Character](ctx, c, http.MethodGet, characterPath(id), nil)
}

func (c *Client) DeleteCharacter(ctx context.Context, id string) (response.CharacterDeleted, error) {
	return call[response.CharacterDeleted](ctx, c, http.MethodDelete, characterPath(id), nil)
}

// Item endpoints

func (c *Client) CreateItem(ctx context.Context, req request.CreateItemRequest) (response.Item, error) {
	return call[response.Item](ctx, c, http.MethodPost, "/items", req)
}

func (c *Client) ListItems(ctx context.Context) (response.ItemList, error) {
	return call[response.ItemList](ctx, c, http.MethodGet, "/items", nil)
}

func (c *Client) GetItem(ctx context.Context, code int) (response.Item, error) {
	return call[response.Item](ctx, c, http.MethodGet, itemPath(code), nil)
}

func (c *Client) UpdateItem(ctx context.Context, code int, req request.UpdateItemRequest) (response.Item, error) {
	return call[response.Item](ctx, c, http.MethodPatch, itemPath(code), req)
}

func (c *Client) Health(ctx context.Context) (response.Health, error) {
	return call[response.Health](ctx, c, http.MethodGet, "/health", nil)
}

func characterPath(id string) string {
	return "/characters/" + url.PathEscape(id)
}

func itemPath(code int) string {
	return "/items/" + strconv.Itoa(code)
}

func call[T any](ctx context.Context, c *Client, method, path string, body any) (T, error) {
	var result T
	err := c.do(ctx, method, apiPrefix+path, body, &result)
	return result, err
}

// do sends one request. Error envelopes come back as *APIError.
func (c *Client) do(ctx context.Context, method, path string, body, result any) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	c.logger.LogAttrs(ctx, slog.LevelDebug, "api request",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", resp.StatusCode),
		slog.Duration("duration", time.Since(start)),
	)

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return c.responseError(resp.StatusCode, respBody)
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
	}
	return nil
}

func (c *Client) responseError(status int, body []byte) error {
	var envelope struct {
		Error APIError `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || envelope.Error.Code == "" {
		return fmt.Errorf("HTTP %d: %s", status, string(body))
	}

	apiErr := &envelope.Error
	apiErr.Status = status
	if status == http.StatusUnauthorized && c.sessionExpired {
		return fmt.Errorf("%w: %w", ErrSessionExpired, apiErr)
	}
	return apiErr
}
