package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/mindcare/internal/common"
	"github.com/dmitrijs2005/mindcare/internal/server/assistant"
	"github.com/dmitrijs2005/mindcare/internal/server/chathistory"
	"github.com/dmitrijs2005/mindcare/internal/server/config"
	"github.com/dmitrijs2005/mindcare/internal/server/observability"
	"github.com/dmitrijs2005/mindcare/internal/server/ratelimit"
	"github.com/dmitrijs2005/mindcare/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/mindcare/internal/server/services"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeExport struct {
	calledFor int64
	err       error
}

func (f *fakeExport) Export(_ context.Context, userID int64) (*services.ExportResult, error) {
	f.calledFor = userID
	if f.err != nil {
		return nil, f.err
	}
	return &services.ExportResult{Key: "exports/k.json", URL: "https://s3.local/exports/k.json"}, nil
}

type testEnv struct {
	router  *gin.Engine
	metrics *observability.Metrics
	export  *fakeExport
	auth    AuthService
}

func newTestEnv(t *testing.T, tweak ...func(*Deps)) *testEnv {
	t.Helper()
	ctx := context.Background()

	db, err := repomanager.OpenDB(ctx, config.DriverSQLite, ":memory:", 0)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	rm, err := repomanager.NewRepositoryManager(config.DriverSQLite)
	require.NoError(t, err)
	require.NoError(t, rm.RunMigrations(ctx, db))

	cfg := &config.Config{
		SecretKey:                    "test-secret",
		AccessTokenValidityDuration:  time.Minute,
		RefreshTokenValidityDuration: time.Hour,
		DatabaseTimeout:              time.Second,
	}

	metrics := observability.NewMetrics()
	asst := assistant.NewClient(assistant.Config{}, assistant.WithRecorder(metrics))
	profiles := services.NewProfileService(db, rm, cfg)
	export := &fakeExport{}

	d := Deps{
		Auth:     services.NewUserService(db, rm, cfg),
		Profiles: profiles,
		Journals: services.NewJournalService(db, rm, asst, cfg),
		Moods:    services.NewMoodService(db, rm, asst, cfg),
		Chat:     services.NewChatService(asst, chathistory.NewMemoryStore(50)),
		Wellness: services.NewWellnessService(profiles, asst),
		Export:   export,
		Metrics:  metrics,
		Ready:    db.PingContext,
	}
	for _, fn := range tweak {
		fn(&d)
	}

	return &testEnv{router: NewRouter(d), metrics: metrics, export: export, auth: d.Auth}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var r io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			r = strings.NewReader(b)
		default:
			buf, err := json.Marshal(b)
			require.NoError(t, err)
			r = bytes.NewReader(buf)
		}
	}

	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set(common.AuthorizationHeader, "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func registerBody(email string) map[string]string {
	return map[string]string{
		"name":             "Sam",
		"email":            email,
		"phone":            "555",
		"password":         "hunter22",
		"confirm_password": "hunter22",
	}
}

// signUp registers and logs in, returning the token pair.
func (e *testEnv) signUp(t *testing.T, email string) tokenResponse {
	t.Helper()
	w := e.do(t, http.MethodPost, "/v1/auth/register", "", registerBody(email))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = e.do(t, http.MethodPost, "/v1/auth/login", "", map[string]string{"email": email, "password": "hunter22"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	return decode[tokenResponse](t, w)
}

func TestHealth(t *testing.T) {
	e := newTestEnv(t)
	w := e.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decode[map[string]string](t, w)["status"])
	assert.NotEmpty(t, w.Header().Get(common.RequestIDHeader))

	e = newTestEnv(t, func(d *Deps) {
		d.Ready = func(context.Context) error { return errors.New("db down") }
	})
	w = e.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestRequestIDIsEchoed(t *testing.T) {
	e := newTestEnv(t)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(common.RequestIDHeader, "abc-123")
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(common.RequestIDHeader))
}

func TestRegister(t *testing.T) {
	e := newTestEnv(t)

	w := e.do(t, http.MethodPost, "/v1/auth/register", "", registerBody("Sam@Example.com"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	u := decode[map[string]any](t, w)
	assert.Equal(t, "sam@example.com", u["email"])
	assert.NotContains(t, w.Body.String(), "password")

	w = e.do(t, http.MethodPost, "/v1/auth/register", "", registerBody("sam@EXAMPLE.com"))
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "account already exists", decode[errorResponse](t, w).Error)

	body := registerBody("other@example.com")
	body["confirm_password"] = "different"
	w = e.do(t, http.MethodPost, "/v1/auth/register", "", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode[errorResponse](t, w).Fields, "confirm_password")

	body = registerBody("not-an-email")
	w = e.do(t, http.MethodPost, "/v1/auth/register", "", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "must be a valid email", decode[errorResponse](t, w).Fields["email"])

	w = e.do(t, http.MethodPost, "/v1/auth/register", "", "{not json")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	m := e.do(t, http.MethodGet, "/metrics", "", nil)
	assert.Contains(t, m.Body.String(), `mindcare_registrations_total{outcome="ok"} 1`)
	assert.Contains(t, m.Body.String(), `mindcare_registrations_total{outcome="duplicate"} 1`)
}

func TestLoginRefreshLogout(t *testing.T) {
	e := newTestEnv(t)
	tokens := e.signUp(t, "flow@example.com")
	assert.Equal(t, "Bearer", tokens.TokenType)

	w := e.do(t, http.MethodPost, "/v1/auth/login", "", map[string]string{"email": "flow@example.com", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = e.do(t, http.MethodPost, "/v1/auth/login", "", map[string]string{"email": "ghost@example.com", "password": "hunter22"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = e.do(t, http.MethodGet, "/v1/me", tokens.AccessToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "flow@example.com", decode[map[string]any](t, w)["email"])

	w = e.do(t, http.MethodPost, "/v1/auth/refresh", "", map[string]string{"refresh_token": tokens.RefreshToken})
	require.Equal(t, http.StatusOK, w.Code)
	rotated := decode[tokenResponse](t, w)
	assert.NotEqual(t, tokens.RefreshToken, rotated.RefreshToken)

	w = e.do(t, http.MethodPost, "/v1/auth/refresh", "", map[string]string{"refresh_token": tokens.RefreshToken})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = e.do(t, http.MethodPost, "/v1/auth/logout", "", map[string]string{"refresh_token": rotated.RefreshToken})
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = e.do(t, http.MethodPost, "/v1/auth/refresh", "", map[string]string{"refresh_token": rotated.RefreshToken})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthentication(t *testing.T) {
	e := newTestEnv(t)

	w := e.do(t, http.MethodGet, "/v1/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = e.do(t, http.MethodGet, "/v1/me", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
	req.Header.Set(common.AuthorizationHeader, "Basic abc")
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestProfileEndpoints(t *testing.T) {
	e := newTestEnv(t)
	tok := e.signUp(t, "prof@example.com").AccessToken

	w := e.do(t, http.MethodGet, "/v1/profile", tok, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = e.do(t, http.MethodPut, "/v1/profile/nutrition", tok, map[string]any{
		"age": 28, "height": 175, "weight": 70, "allergies": "gluten", "health_goal": "Muscle Gain",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = e.do(t, http.MethodPut, "/v1/profile/wellness", tok, map[string]any{
		"occupation":     "designer",
		"activity_level": "student",
		"stress_level":   "medium",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = e.do(t, http.MethodGet, "/v1/profile", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[profileResponse](t, w)

	assert.Equal(t, "wellness", string(resp.Profile.SlotContext))
	require.NotNil(t, resp.Profile.Height)
	assert.Equal(t, 175, *resp.Profile.Height)
	assert.Equal(t, 70, *resp.Profile.Weight)
	assert.Nil(t, resp.Profile.Age)
	require.NotNil(t, resp.Wellness.Occupation)
	assert.Equal(t, "student", *resp.Wellness.Occupation)
	assert.Equal(t, "medium", *resp.Wellness.StressLevel)
	assert.Equal(t, "Mental Wellness", *resp.Wellness.HealthGoal)
	assert.Nil(t, resp.Nutrition.Allergies)

	w = e.do(t, http.MethodPut, "/v1/profile/nutrition", tok, map[string]any{"age": 400})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestJournalEndpoints(t *testing.T) {
	e := newTestEnv(t)
	tok := e.signUp(t, "journal@example.com").AccessToken
	other := e.signUp(t, "journal2@example.com").AccessToken

	w := e.do(t, http.MethodPost, "/v1/journal", tok, map[string]any{"content": "Today was calm.", "mood_rating": 7})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	first := decode[map[string]any](t, w)
	assert.True(t, first["is_private"].(bool))
	assert.True(t, strings.HasPrefix(first["title"].(string), "Journal Entry - "))

	w = e.do(t, http.MethodPost, "/v1/journal", tok, map[string]any{
		"title": "Walk", "content": "Went outside.", "mood_rating": 8, "is_private": false, "entry_date": "2024-05-01",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = e.do(t, http.MethodPost, "/v1/journal", tok, map[string]any{"content": "x", "mood_rating": 11})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = e.do(t, http.MethodPost, "/v1/journal", tok, map[string]any{"content": "x", "mood_rating": 5, "entry_date": "May 1"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = e.do(t, http.MethodGet, "/v1/journal?limit=1", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[struct {
		Entries []map[string]any `json:"entries"`
	}](t, w)
	require.Len(t, list.Entries, 1)
	assert.Equal(t, "Walk", list.Entries[0]["title"])

	w = e.do(t, http.MethodGet, "/v1/journal?limit=abc", tok, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	id := int64(first["id"].(float64))
	path := "/v1/journal/" + jsonInt(id) + "/reflection"

	w = e.do(t, http.MethodPost, path, tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, decode[map[string]string](t, w)["reflection"])

	w = e.do(t, http.MethodPost, path, other, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = e.do(t, http.MethodPost, "/v1/journal/nope/reflection", tok, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func jsonInt(n int64) string {
	b, _ := json.Marshal(n)
	return string(b)
}

func TestMoodEndpoints(t *testing.T) {
	e := newTestEnv(t)
	tok := e.signUp(t, "mood@example.com").AccessToken

	w := e.do(t, http.MethodGet, "/v1/moods/insights", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, assistant.NotEnoughMoodData, decode[map[string]any](t, w)["insights"])

	for i, d := range []string{"2024-02-01", "2024-02-02", "2024-02-03"} {
		w = e.do(t, http.MethodPost, "/v1/moods", tok, map[string]any{
			"mood_scale": 8 + i%2, "energy_level": 7, "anxiety_level": 3, "sleep_quality": 8, "entry_date": d,
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}

	w = e.do(t, http.MethodPost, "/v1/moods", tok, map[string]any{"mood_scale": 5})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = e.do(t, http.MethodGet, "/v1/moods/trend?n=2", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	trend := decode[struct {
		Points []struct {
			EntryDate string `json:"entry_date"`
			MoodScale int    `json:"mood_scale"`
		} `json:"points"`
	}](t, w)
	require.Len(t, trend.Points, 2)
	assert.Equal(t, "2024-02-02", trend.Points[0].EntryDate)
	assert.Equal(t, "2024-02-03", trend.Points[1].EntryDate)

	w = e.do(t, http.MethodGet, "/v1/moods/insights", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	insights := decode[map[string]any](t, w)
	assert.Contains(t, insights["insights"], "positive")

	w = e.do(t, http.MethodGet, "/v1/moods", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[map[string][]any](t, w)["entries"], 3)
}

func TestChatEndpoints(t *testing.T) {
	e := newTestEnv(t)
	tok := e.signUp(t, "chat@example.com").AccessToken

	w := e.do(t, http.MethodPost, "/v1/chat", tok, map[string]string{"message": "I can't sleep"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.NotEmpty(t, decode[map[string]string](t, w)["reply"])

	w = e.do(t, http.MethodPost, "/v1/chat", tok, map[string]string{"message": ""})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = e.do(t, http.MethodGet, "/v1/chat/history", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	hist := decode[map[string][]chathistory.Message](t, w)["messages"]
	require.Len(t, hist, 2)
	assert.Equal(t, chathistory.RoleUser, hist[0].Role)
	assert.Equal(t, "I can't sleep", hist[0].Content)

	w = e.do(t, http.MethodDelete, "/v1/chat/history", tok, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = e.do(t, http.MethodGet, "/v1/chat/history", tok, nil)
	assert.Empty(t, decode[map[string][]chathistory.Message](t, w)["messages"])

	m := e.do(t, http.MethodGet, "/metrics", "", nil)
	assert.Contains(t, m.Body.String(), `mindcare_assistant_calls_total{operation="ask",outcome="offline"} 1`)
}

func TestWellnessEndpoints(t *testing.T) {
	e := newTestEnv(t)
	tok := e.signUp(t, "well@example.com").AccessToken

	w := e.do(t, http.MethodGet, "/v1/wellness/tips", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, decode[map[string]string](t, w)["tips"])

	w = e.do(t, http.MethodGet, "/v1/wellness/affirmation", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, assistant.Affirmations(), decode[map[string]string](t, w)["affirmation"])

	w = e.do(t, http.MethodGet, "/v1/wellness/breathing", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	ex := decode[assistant.BreathingExercise](t, w)
	assert.NotEmpty(t, ex.Name)
	assert.NotEmpty(t, ex.Steps)
}

func TestExportEndpoint(t *testing.T) {
	e := newTestEnv(t)
	tok := e.signUp(t, "export@example.com").AccessToken

	w := e.do(t, http.MethodPost, "/v1/export", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "https://s3.local/exports/k.json", decode[services.ExportResult](t, w).URL)
	assert.Positive(t, e.export.calledFor)

	e.export.err = errors.New("s3 down")
	w = e.do(t, http.MethodPost, "/v1/export", tok, nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "internal server error", decode[errorResponse](t, w).Error)
}

func TestRateLimits(t *testing.T) {
	e := newTestEnv(t, func(d *Deps) {
		d.AuthLimiter = ratelimit.NewPerMinute(1, 2, time.Minute)
		d.ChatLimiter = ratelimit.NewPerMinute(1, 1, time.Minute)
	})

	login := map[string]string{"email": "nobody@example.com", "password": "x"}
	assert.Equal(t, http.StatusUnauthorized, e.do(t, http.MethodPost, "/v1/auth/login", "", login).Code)
	assert.Equal(t, http.StatusUnauthorized, e.do(t, http.MethodPost, "/v1/auth/login", "", login).Code)

	w := e.do(t, http.MethodPost, "/v1/auth/login", "", login)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "too many requests", decode[errorResponse](t, w).Error)

	m := e.do(t, http.MethodGet, "/metrics", "", nil)
	assert.Contains(t, m.Body.String(), `mindcare_rate_limited_total{scope="auth"} 1`)
}

func TestChatRateLimitIsPerUser(t *testing.T) {
	e := newTestEnv(t)
	tokA := e.signUp(t, "a@example.com").AccessToken
	tokB := e.signUp(t, "b@example.com").AccessToken

	limited := NewRouter(Deps{
		Auth:        e.auth,
		Chat:        services.NewChatService(assistant.NewClient(assistant.Config{}), chathistory.NewMemoryStore(10)),
		ChatLimiter: ratelimit.NewPerMinute(1, 1, time.Minute),
	})
	send := func(tok string) int {
		req := httptest.NewRequest(http.MethodPost, "/v1/chat", strings.NewReader(`{"message":"hi"}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set(common.AuthorizationHeader, "Bearer "+tok)
		w := httptest.NewRecorder()
		limited.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, send(tokA))
	assert.Equal(t, http.StatusTooManyRequests, send(tokA))
	assert.Equal(t, http.StatusOK, send(tokB))
}

func TestUnknownRoute(t *testing.T) {
	e := newTestEnv(t)
	w := e.do(t, http.MethodGet, "/v1/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
