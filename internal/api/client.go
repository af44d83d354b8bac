package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"fridge-planner/internal/config"
	"fridge-planner/internal/logger"

	"go.uber.org/zap"
)

// TokenSource supplies the bearer credential attached to authenticated
// requests. An error from the source is surfaced as an auth failure without
// touching the network.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// Recorder receives one observation per completed remote call. A status of
// zero means the request never got a response.
type Recorder interface {
	RecordRequest(method, endpoint string, status int, latency time.Duration)
}

// Client talks to the remote pantry/planning backend. It is the only place
// HTTP requests to that backend are built, and every call is bounded by the
// configured timeout.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
	recorder   Recorder
	timeout    time.Duration
}

// NewClient creates a backend client. recorder may be nil.
func NewClient(cfg *config.Config, tokens TokenSource, recorder Recorder) *Client {
	return &Client{
		baseURL:    strings.TrimRight(cfg.APIBaseURL, "/"),
		httpClient: &http.Client{},
		tokens:     tokens,
		recorder:   recorder,
		timeout:    cfg.RequestTimeout,
	}
}

// errorBody is the message envelope the backend uses for failures.
type errorBody struct {
	Message string `json:"message"`
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any, authed bool) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if query != nil {
		req.URL.RawQuery = query.Encode()
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	if authed {
		token, err := c.tokens.Token(ctx)
		if err != nil || token == "" {
			return &Error{Kind: KindAuth, Message: "missing or expired credential"}
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(start)

	if err != nil {
		c.record(method, path, 0, latency)
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return &Error{Kind: KindTimeout, Message: "request timed out"}
		}
		return &Error{Kind: KindConnectivity, Message: err.Error()}
	}
	defer resp.Body.Close()
	c.record(method, path, resp.StatusCode, latency)

	if resp.StatusCode >= 400 {
		return c.errorFromResponse(resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

func (c *Client) record(method, endpoint string, status int, latency time.Duration) {
	if c.recorder != nil {
		c.recorder.RecordRequest(method, endpoint, status, latency)
	}
}

func (c *Client) errorFromResponse(resp *http.Response) *Error {
	var body errorBody
	_ = json.NewDecoder(resp.Body).Decode(&body)
	if body.Message == "" {
		body.Message = http.StatusText(resp.StatusCode)
	}

	kind := KindServer
	switch resp.StatusCode {
	case http.StatusUnauthorized:
		kind = KindAuth
	case http.StatusNotFound:
		kind = KindNotFound
	case http.StatusConflict:
		kind = KindConflict
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		kind = KindValidation
	}
	return &Error{Kind: kind, Status: resp.StatusCode, Message: body.Message}
}

// FetchPantry retrieves the full pantry collection. The backend may serve it
// flat or grouped by category; grouped responses are flattened with the group
// key filling any missing category.
func (c *Client) FetchPantry(ctx context.Context) ([]PantryItem, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/pantry", nil, nil, &raw, true); err != nil {
		return nil, err
	}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var items []PantryItem
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, fmt.Errorf("failed to decode pantry list: %w", err)
		}
		return items, nil
	}

	var grouped map[string][]PantryItem
	if err := json.Unmarshal(trimmed, &grouped); err != nil {
		return nil, fmt.Errorf("failed to decode grouped pantry: %w", err)
	}
	var items []PantryItem
	for category, group := range grouped {
		for _, item := range group {
			if item.Category == "" {
				item.Category = category
			}
			items = append(items, item)
		}
	}
	return items, nil
}

// CreateItem adds a new pantry item.
func (c *Client) CreateItem(ctx context.Context, in NewPantryItem) (*PantryItem, error) {
	var created PantryItem
	if err := c.do(ctx, http.MethodPost, "/pantry", nil, in, &created, true); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateItem applies a partial patch to a pantry item. Only the keys present
// in fields are sent.
func (c *Client) UpdateItem(ctx context.Context, id int64, fields map[string]any) (*PantryItem, error) {
	var updated PantryItem
	path := fmt.Sprintf("/pantry/%d", id)
	if err := c.do(ctx, http.MethodPut, path, nil, fields, &updated, true); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteItem removes a pantry item. A 404 means the item is already gone,
// which is success from the caller's perspective.
func (c *Client) DeleteItem(ctx context.Context, id int64) error {
	path := fmt.Sprintf("/pantry/%d", id)
	err := c.do(ctx, http.MethodDelete, path, nil, nil, nil, true)
	if IsKind(err, KindNotFound) {
		return nil
	}
	return err
}

// SearchIngredients queries the ingredient catalog for autocomplete
// candidates. The endpoint tolerates anonymous access, so no credential is
// attached.
func (c *Client) SearchIngredients(ctx context.Context, query string) ([]Suggestion, error) {
	q := url.Values{"query": []string{query}}
	var suggestions []Suggestion
	if err := c.do(ctx, http.MethodGet, "/ingredients/search", q, nil, &suggestions, false); err != nil {
		return nil, err
	}
	return suggestions, nil
}

// defaultCategories mirrors the backend's canonical category list and serves
// as the fallback when the categories endpoint is unreachable.
var defaultCategories = []string{
	"Dairy", "Eggs", "Meat", "Fish", "Fruit",
	"Vegetables", "Grains", "Seasonings", "Drinks", "Other",
}

// FetchCategories lists the known item categories. Category data is
// best-effort: on failure the built-in default list is returned instead of an
// error.
func (c *Client) FetchCategories(ctx context.Context) []string {
	var categories []string
	if err := c.do(ctx, http.MethodGet, "/categories", nil, nil, &categories, true); err != nil {
		logger.Warn("categories fetch failed, using defaults", zap.Error(err))
		return defaultCategories
	}
	if len(categories) == 0 {
		return defaultCategories
	}
	return categories
}

// FetchPlan retrieves the plan entries whose date falls in [start, end],
// inclusive, both as YYYY-MM-DD keys.
func (c *Client) FetchPlan(ctx context.Context, start, end string) ([]PlanEntry, error) {
	q := url.Values{"start": []string{start}, "end": []string{end}}
	var entries []PlanEntry
	if err := c.do(ctx, http.MethodGet, "/plan", q, nil, &entries, true); err != nil {
		return nil, err
	}
	return entries, nil
}

// CreatePlanEntry assigns a recipe snapshot to a (date, mealType) slot.
func (c *Client) CreatePlanEntry(ctx context.Context, in NewPlanEntry) (*PlanEntry, error) {
	var created PlanEntry
	if err := c.do(ctx, http.MethodPost, "/plan", nil, in, &created, true); err != nil {
		return nil, err
	}
	return &created, nil
}

// DeletePlanEntry removes a plan entry. Like DeleteItem, a 404 is benign.
func (c *Client) DeletePlanEntry(ctx context.Context, id int64) error {
	path := fmt.Sprintf("/plan/%d", id)
	err := c.do(ctx, http.MethodDelete, path, nil, nil, nil, true)
	if IsKind(err, KindNotFound) {
		return nil
	}
	return err
}

// FetchFavorites lists the user's favorited recipes.
func (c *Client) FetchFavorites(ctx context.Context) ([]FavoriteRecipe, error) {
	var favorites []FavoriteRecipe
	if err := c.do(ctx, http.MethodGet, "/favorites", nil, nil, &favorites, true); err != nil {
		return nil, err
	}
	return favorites, nil
}

// ToggleFavorite flips the favorite flag for a recipe on the backend.
func (c *Client) ToggleFavorite(ctx context.Context, recipeID int64) error {
	body := map[string]any{"recipe_id": recipeID}
	return c.do(ctx, http.MethodPost, "/favorites/toggle", nil, body, nil, true)
}
