// Package client is the CLI's HTTP client for the MindCare API.
//
// Client keeps the current token pair in memory. An authenticated call that
// gets 401 while a refresh token is held is retried once after rotating the
// tokens. Transport failures surface as ErrUnavailable; non-2xx answers
// surface as *APIError, which matches the package's sentinels via errors.Is.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/mindcare/internal/client/models"
	"github.com/dmitrijs2005/mindcare/internal/common"
)

type Client struct {
	baseURL string
	http    *http.Client

	mu     sync.Mutex
	tokens models.TokenPair
}

// New returns a client for the API rooted at baseURL, for example
// "http://127.0.0.1:8080".
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *Client) LoggedIn() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tokens.AccessToken != ""
}

func (c *Client) setTokens(p models.TokenPair) {
	c.mu.Lock()
	c.tokens = p
	c.mu.Unlock()
}

func (c *Client) currentTokens() models.TokenPair {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tokens
}

type errorBody struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields"`
}

func (c *Client) send(ctx context.Context, method, path, token string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set(common.AuthorizationHeader, common.BearerScheme+" "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var eb errorBody
		_ = json.NewDecoder(resp.Body).Decode(&eb)
		if eb.Error == "" {
			eb.Error = http.StatusText(resp.StatusCode)
		}
		return &APIError{Status: resp.StatusCode, Message: eb.Error, Fields: eb.Fields}
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// authed performs an authenticated call, refreshing the tokens once on 401.
func (c *Client) authed(ctx context.Context, method, path string, in, out any) error {
	t := c.currentTokens()
	if t.AccessToken == "" {
		return ErrNotLoggedIn
	}

	err := c.send(ctx, method, path, t.AccessToken, in, out)
	if !errors.Is(err, ErrUnauthorized) || t.RefreshToken == "" {
		return err
	}

	if rerr := c.refresh(ctx, t.RefreshToken); rerr != nil {
		c.setTokens(models.TokenPair{})
		return err
	}
	return c.send(ctx, method, path, c.currentTokens().AccessToken, in, out)
}

func (c *Client) refresh(ctx context.Context, refreshToken string) error {
	var p models.TokenPair
	if err := c.send(ctx, http.MethodPost, "/v1/auth/refresh", "", map[string]string{"refresh_token": refreshToken}, &p); err != nil {
		return err
	}
	c.setTokens(p)
	return nil
}

func (c *Client) Health(ctx context.Context) error {
	return c.send(ctx, http.MethodGet, "/health", "", nil, nil)
}

func (c *Client) Register(ctx context.Context, name, email, phone, password, confirm string) (*models.User, error) {
	var u models.User
	err := c.send(ctx, http.MethodPost, "/v1/auth/register", "", map[string]string{
		"name":             name,
		"email":            email,
		"phone":            phone,
		"password":         password,
		"confirm_password": confirm,
	}, &u)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) Login(ctx context.Context, email, password string) error {
	var p models.TokenPair
	err := c.send(ctx, http.MethodPost, "/v1/auth/login", "", map[string]string{"email": email, "password": password}, &p)
	if err != nil {
		return err
	}
	c.setTokens(p)
	return nil
}

// Logout revokes the refresh token and forgets both tokens. The local
// tokens are dropped even when the server call fails.
func (c *Client) Logout(ctx context.Context) error {
	t := c.currentTokens()
	c.setTokens(models.TokenPair{})
	if t.RefreshToken == "" {
		return nil
	}
	return c.send(ctx, http.MethodPost, "/v1/auth/logout", "", map[string]string{"refresh_token": t.RefreshToken}, nil)
}

func (c *Client) Me(ctx context.Context) (*models.User, error) {
	var u models.User
	if err := c.authed(ctx, http.MethodGet, "/v1/me", nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) Profile(ctx context.Context) (*models.Profile, error) {
	var p models.Profile
	if err := c.authed(ctx, http.MethodGet, "/v1/profile", nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) SaveNutrition(ctx context.Context, n models.NutritionProfile) (*models.Profile, error) {
	var p models.Profile
	if err := c.authed(ctx, http.MethodPut, "/v1/profile/nutrition", n, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) SaveWellness(ctx context.Context, w models.WellnessProfile) (*models.Profile, error) {
	var p models.Profile
	if err := c.authed(ctx, http.MethodPut, "/v1/profile/wellness", w, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) Chat(ctx context.Context, message string) (string, error) {
	var out struct {
		Reply string `json:"reply"`
	}
	if err := c.authed(ctx, http.MethodPost, "/v1/chat", map[string]string{"message": message}, &out); err != nil {
		return "", err
	}
	return out.Reply, nil
}

func (c *Client) ChatHistory(ctx context.Context) ([]models.ChatMessage, error) {
	var out struct {
		Messages []models.ChatMessage `json:"messages"`
	}
	if err := c.authed(ctx, http.MethodGet, "/v1/chat/history", nil, &out); err != nil {
		return nil, err
	}
	return out.Messages, nil
}

func (c *Client) ClearChat(ctx context.Context) error {
	return c.authed(ctx, http.MethodDelete, "/v1/chat/history", nil, nil)
}

func (c *Client) Tips(ctx context.Context) (string, error) {
	var out struct {
		Tips string `json:"tips"`
	}
	if err := c.authed(ctx, http.MethodGet, "/v1/wellness/tips", nil, &out); err != nil {
		return "", err
	}
	return out.Tips, nil
}

func (c *Client) Affirmation(ctx context.Context) (string, error) {
	var out struct {
		Affirmation string `json:"affirmation"`
	}
	if err := c.authed(ctx, http.MethodGet, "/v1/wellness/affirmation", nil, &out); err != nil {
		return "", err
	}
	return out.Affirmation, nil
}

func (c *Client) Breathing(ctx context.Context) (*models.BreathingExercise, error) {
	var b models.BreathingExercise
	if err := c.authed(ctx, http.MethodGet, "/v1/wellness/breathing", nil, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

func (c *Client) CreateJournal(ctx context.Context, e models.JournalEntry) (*models.JournalEntry, error) {
	var out models.JournalEntry
	if err := c.authed(ctx, http.MethodPost, "/v1/journal", e, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Journal(ctx context.Context, limit int) ([]models.JournalEntry, error) {
	var out struct {
		Entries []models.JournalEntry `json:"entries"`
	}
	if err := c.authed(ctx, http.MethodGet, "/v1/journal"+limitQuery("limit", limit), nil, &out); err != nil {
		return nil, err
	}
	return out.Entries, nil
}

func (c *Client) Reflect(ctx context.Context, entryID int64) (string, error) {
	var out struct {
		Reflection string `json:"reflection"`
	}
	path := "/v1/journal/" + strconv.FormatInt(entryID, 10) + "/reflection"
	if err := c.authed(ctx, http.MethodPost, path, nil, &out); err != nil {
		return "", err
	}
	return out.Reflection, nil
}

func (c *Client) CreateMood(ctx context.Context, e models.MoodEntry) (*models.MoodEntry, error) {
	var out models.MoodEntry
	if err := c.authed(ctx, http.MethodPost, "/v1/moods", e, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Moods(ctx context.Context, limit int) ([]models.MoodEntry, error) {
	var out struct {
		Entries []models.MoodEntry `json:"entries"`
	}
	if err := c.authed(ctx, http.MethodGet, "/v1/moods"+limitQuery("limit", limit), nil, &out); err != nil {
		return nil, err
	}
	return out.Entries, nil
}

func (c *Client) Trend(ctx context.Context, n int) ([]models.MoodPoint, error) {
	var out struct {
		Points []models.MoodPoint `json:"points"`
	}
	if err := c.authed(ctx, http.MethodGet, "/v1/moods/trend"+limitQuery("n", n), nil, &out); err != nil {
		return nil, err
	}
	return out.Points, nil
}

func (c *Client) Insights(ctx context.Context) (*models.Insights, error) {
	var out models.Insights
	if err := c.authed(ctx, http.MethodGet, "/v1/moods/insights", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Export(ctx context.Context) (*models.ExportResult, error) {
	var out models.ExportResult
	if err := c.authed(ctx, http.MethodPost, "/v1/export", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func limitQuery(name string, n int) string {
	if n <= 0 {
		return ""
	}
	return "?" + url.Values{name: {strconv.Itoa(n)}}.Encode()
}
