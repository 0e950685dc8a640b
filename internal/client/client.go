// Package client is the HTTP implementation of the roster and evaluation
// collaborator, for deployments where the session engine runs apart from
// the game API. It satisfies the same interfaces as the local pgx-backed
// service, so the session engine never knows which one it is talking to.
//
// Requests are rate limited with a token bucket and carry the caller's
// context, so a superseded fetch is cancelled cooperatively.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/volleydle/volleydle-data/internal/game"
)

// Client talks to a remote game API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	limiter    *rate.Limiter
	logger     *slog.Logger
}

// New creates a client for the game API at baseURL.
func New(baseURL string, requestsPerMinute int, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	// A non-positive budget disables throttling entirely.
	limit := rate.Inf
	burst := 1
	if requestsPerMinute > 0 {
		limit = rate.Limit(float64(requestsPerMinute) / 60.0)
		burst = requestsPerMinute/4 + 1
	}
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		limiter:    rate.NewLimiter(limit, burst),
		logger:     logger,
	}
}

// Roster fetches the full candidate pool for a mode.
func (c *Client) Roster(ctx context.Context, mode game.Mode) ([]game.Player, error) {
	body, err := c.get(ctx, "/api/players", url.Values{"mode": {string(mode)}})
	if err != nil {
		return nil, err
	}
	var players []game.Player
	if err := json.Unmarshal(body, &players); err != nil {
		return nil, fmt.Errorf("decode roster: %w", err)
	}
	return players, nil
}

// PlayerOfTheDay fetches today's secret player for a mode.
func (c *Client) PlayerOfTheDay(ctx context.Context, mode game.Mode) (game.Player, error) {
	body, err := c.get(ctx, "/api/player-of-the-day", url.Values{"mode": {string(mode)}})
	if err != nil {
		return game.Player{}, err
	}
	var p game.Player
	if err := json.Unmarshal(body, &p); err != nil {
		return game.Player{}, fmt.Errorf("decode daily player: %w", err)
	}
	return p, nil
}

// Evaluate scores a guessed name against the day's secret player.
// A "not found"-style error from the service maps to
// game.ErrPlayerNotFound; any other failure is transient.
func (c *Client) Evaluate(ctx context.Context, name string, mode game.Mode) (game.Evaluation, error) {
	body, err := c.get(ctx, "/api/guess", url.Values{
		"name": {name},
		"mode": {string(mode)},
	})
	if err != nil {
		return game.Evaluation{}, err
	}
	var eval game.Evaluation
	if err := json.Unmarshal(body, &eval); err != nil {
		return game.Evaluation{}, fmt.Errorf("decode evaluation: %w", err)
	}
	if eval.Guess.ID == 0 {
		return game.Evaluation{}, fmt.Errorf("evaluation response missing guess")
	}
	return eval, nil
}

// errorBody is the service's error envelope.
type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// get performs a rate-limited GET and returns the raw body for 200s.
func (c *Client) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request %s: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode == http.StatusOK {
		return body, nil
	}

	var e errorBody
	if json.Unmarshal(body, &e) == nil && isNotFound(resp.StatusCode, e.Error.Code, e.Error.Message) {
		return nil, game.ErrPlayerNotFound
	}
	return nil, fmt.Errorf("game API %s returned %d: %s", path, resp.StatusCode, truncate(body, 200))
}

func isNotFound(status int, code, message string) bool {
	if code == "PLAYER_NOT_FOUND" {
		return true
	}
	return status == http.StatusNotFound &&
		strings.Contains(strings.ToLower(message), "not found")
}

func truncate(b []byte, maxLen int) string {
	if len(b) <= maxLen {
		return string(b)
	}
	return string(b[:maxLen]) + "..."
}
