package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/naveenspark/museum/pkg/domain"
)

const apiPrefix = "/api/v1"

// TokenSource supplies the bearer token for authenticated requests and is
// told which token the backend rejected.
type TokenSource interface {
	Token() string
	Invalidate(token string)
}

// Client is the museum API client.
type Client struct {
	baseURL    string
	token      string
	source     TokenSource
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[struct{}]
	log        zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger sets the request logger.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.log = l }
}

// WithCircuitBreaker stops calling the backend for cooldown once threshold
// consecutive requests failed in transport or with a 5xx. A zero threshold
// disables the breaker.
func WithCircuitBreaker(threshold uint32, cooldown time.Duration) Option {
	return func(c *Client) {
		if threshold == 0 {
			c.breaker = nil
			return
		}
		c.breaker = gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
			Name:    "museum-api",
			Timeout: cooldown,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= threshold
			},
			IsSuccessful: backendHealthy,
			OnStateChange: func(name string, from, to gobreaker.State) {
				c.log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state change")
			},
		})
	}
}

// backendHealthy reports whether err says nothing about backend health.
// Client errors and cancellations are the caller's doing.
func backendHealthy(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return true
	}
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode < 500
	}
	return false
}

// New creates a new API client. token may be empty; Bind supplies a dynamic one.
func New(baseURL, token string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		log: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Bind makes src the token provider for authenticated calls. A 401 on a
// request that carried src's token invalidates src.
func (c *Client) Bind(src TokenSource) {
	c.source = src
}

// BaseURL returns the API root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// --- Auth ---

// Login exchanges credentials for an access token.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	var tok domain.Token
	body := domain.Credentials{Email: email, Password: password}
	if err := c.doWithToken(ctx, http.MethodPost, "/auth/login", "", body, &tok); err != nil {
		return "", fmt.Errorf("client.Login: %w", err)
	}
	if tok.AccessToken == "" {
		return "", fmt.Errorf("client.Login: empty access token")
	}
	return tok.AccessToken, nil
}

// Register creates a new account. It does not log in.
func (c *Client) Register(ctx context.Context, email, password string) error {
	body := domain.Credentials{Email: email, Password: password}
	if err := domain.Validate(body); err != nil {
		return fmt.Errorf("client.Register: %w", err)
	}
	if err := c.doWithToken(ctx, http.MethodPost, "/auth/register", "", body, nil); err != nil {
		return fmt.Errorf("client.Register: %w", err)
	}
	return nil
}

// --- User ---

// GetMe returns the authenticated user's profile.
func (c *Client) GetMe(ctx context.Context) (*domain.User, error) {
	var u domain.User
	if err := c.get(ctx, "/user/me", &u); err != nil {
		return nil, fmt.Errorf("client.GetMe: %w", err)
	}
	return &u, nil
}

// CurrentUser returns the profile belonging to token, independent of any
// bound token source.
func (c *Client) CurrentUser(ctx context.Context, token string) (*domain.User, error) {
	var u domain.User
	if err := c.doWithToken(ctx, http.MethodGet, "/user/me", token, nil, &u); err != nil {
		return nil, fmt.Errorf("client.CurrentUser: %w", err)
	}
	return &u, nil
}

// TrackVisit records that the user entered a room.
func (c *Client) TrackVisit(ctx context.Context, room string) error {
	if !domain.ValidRoom(room) {
		return fmt.Errorf("client.TrackVisit: unknown room %q", room)
	}
	if err := c.post(ctx, "/user/track-visit", map[string]string{"room": room}, nil); err != nil {
		return fmt.Errorf("client.TrackVisit: %w", err)
	}
	return nil
}

// SubmitFeedback posts a rating and message.
func (c *Client) SubmitFeedback(ctx context.Context, in domain.FeedbackInput) (*domain.Feedback, error) {
	if err := domain.Validate(in); err != nil {
		return nil, fmt.Errorf("client.SubmitFeedback: %w", err)
	}
	var fb domain.Feedback
	if err := c.post(ctx, "/user/feedback", in, &fb); err != nil {
		return nil, fmt.Errorf("client.SubmitFeedback: %w", err)
	}
	return &fb, nil
}

// --- Content ---

// ListTemples returns every temple.
func (c *Client) ListTemples(ctx context.Context) ([]domain.Temple, error) {
	var temples []domain.Temple
	if err := c.get(ctx, "/content/temples", &temples); err != nil {
		return nil, fmt.Errorf("client.ListTemples: %w", err)
	}
	return temples, nil
}

// ListWeapons returns every weapon.
func (c *Client) ListWeapons(ctx context.Context) ([]domain.Weapon, error) {
	var weapons []domain.Weapon
	if err := c.get(ctx, "/content/weapons", &weapons); err != nil {
		return nil, fmt.Errorf("client.ListWeapons: %w", err)
	}
	return weapons, nil
}

// ListFossils returns every fossil.
func (c *Client) ListFossils(ctx context.Context) ([]domain.Fossil, error) {
	var fossils []domain.Fossil
	if err := c.get(ctx, "/content/fossils", &fossils); err != nil {
		return nil, fmt.Errorf("client.ListFossils: %w", err)
	}
	return fossils, nil
}

// ListExhibits fetches one collection and projects it to exhibits.
func (c *Client) ListExhibits(ctx context.Context, kind domain.Kind) ([]domain.Exhibit, error) {
	switch kind {
	case domain.KindTemple:
		items, err := c.ListTemples(ctx)
		return project(items, domain.TempleExhibit), err
	case domain.KindWeapon:
		items, err := c.ListWeapons(ctx)
		return project(items, domain.WeaponExhibit), err
	case domain.KindFossil:
		items, err := c.ListFossils(ctx)
		return project(items, domain.FossilExhibit), err
	}
	return nil, fmt.Errorf("client.ListExhibits: unknown kind %q", kind)
}

func project[T any](items []T, fn func(T) domain.Exhibit) []domain.Exhibit {
	if items == nil {
		return nil
	}
	out := make([]domain.Exhibit, len(items))
	for i, it := range items {
		out[i] = fn(it)
	}
	return out
}

// Media types served by the media endpoint.
const (
	MediaImages = "images"
	MediaAudio  = "audio"
)

// MediaURL builds the media endpoint URL for a file. Content listings prefix
// filenames with their category; the prefix is stripped. A non-empty token is
// passed as a query parameter since media is fetched outside the client.
func (c *Client) MediaURL(kind domain.Kind, mediaType, filename, token string) string {
	name := strings.TrimPrefix(filename, string(kind)+"/")
	u := c.baseURL + apiPrefix + "/content/media/" + string(kind) + "/" + mediaType + "/" + url.PathEscape(name)
	if token != "" {
		u += "?token=" + url.QueryEscape(token)
	}
	return u
}

// --- Gamification ---

// Leaderboard returns top scores, optionally filtered by game mode.
func (c *Client) Leaderboard(ctx context.Context, gameMode string, limit int) ([]domain.HighScore, error) {
	params := url.Values{}
	if gameMode != "" {
		params.Set("game_mode", gameMode)
	}
	params.Set("limit", strconv.Itoa(limit))

	var scores []domain.HighScore
	if err := c.get(ctx, "/gamification/leaderboard?"+params.Encode(), &scores); err != nil {
		return nil, fmt.Errorf("client.Leaderboard: %w", err)
	}
	return scores, nil
}

// SubmitScore records a finished game.
func (c *Client) SubmitScore(ctx context.Context, in domain.ScoreInput) (*domain.HighScore, error) {
	if err := domain.Validate(in); err != nil {
		return nil, fmt.Errorf("client.SubmitScore: %w", err)
	}
	var hs domain.HighScore
	if err := c.post(ctx, "/gamification/score", in, &hs); err != nil {
		return nil, fmt.Errorf("client.SubmitScore: %w", err)
	}
	return &hs, nil
}

// MyScores returns the authenticated user's scores across game modes.
func (c *Client) MyScores(ctx context.Context) ([]domain.HighScore, error) {
	var scores []domain.HighScore
	if err := c.get(ctx, "/gamification/my-scores", &scores); err != nil {
		return nil, fmt.Errorf("client.MyScores: %w", err)
	}
	return scores, nil
}

func (c *Client) post(ctx context.Context, path string, body any, out any) error {
	return c.doRequest(ctx, http.MethodPost, path, body, out)
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.doRequest(ctx, http.MethodGet, path, nil, out)
}

// doRequest sends an authenticated request using the bound token source,
// falling back to the static token.
func (c *Client) doRequest(ctx context.Context, method, path string, body any, out any) error {
	token := c.token
	if c.source != nil {
		token = c.source.Token()
	}
	err := c.doWithToken(ctx, method, path, token, body, out)
	if c.source != nil && token != "" && IsStatus(err, http.StatusUnauthorized) {
		c.log.Warn().Str("path", path).Msg("token rejected by backend")
		c.source.Invalidate(token)
	}
	return err
}

func (c *Client) doWithToken(ctx context.Context, method, path, token string, body any, out any) error {
	if c.breaker == nil {
		return c.send(ctx, method, path, token, body, out)
	}
	_, err := c.breaker.Execute(func() (struct{}, error) {
		return struct{}{}, c.send(ctx, method, path, token, body, out)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return err
}

func (c *Client) send(ctx context.Context, method, path, token string, body any, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+apiPrefix+path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // best-effort close

	c.log.Debug().
		Str("request_id", requestID).
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("api request")

	if resp.StatusCode >= 400 {
		respBody, readErr := io.ReadAll(io.LimitReader(resp.Body, 1<<20)) // 1 MB max error body
		if readErr != nil {
			return &HTTPError{StatusCode: resp.StatusCode, Message: fmt.Sprintf("failed to read body: %v", readErr)}
		}
		return &HTTPError{StatusCode: resp.StatusCode, Message: errorMessage(respBody)}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
