package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dmitrijs2005/mindcare/internal/client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func loggedIn(t *testing.T, srv *httptest.Server) *Client {
	t.Helper()
	c := New(srv.URL, time.Second)
	c.setTokens(models.TokenPair{AccessToken: "access-1", RefreshToken: "refresh-1"})
	return c
}

func TestLogin_StoresTokens(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/auth/login", r.URL.Path)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "a@b.c", body["email"])
		assert.Equal(t, "pw", body["password"])
		writeJSON(w, http.StatusOK, map[string]string{"access_token": "A", "refresh_token": "R", "token_type": "Bearer"})
	}))
	defer srv.Close()

	c := New(srv.URL+"/", time.Second)
	require.False(t, c.LoggedIn())
	require.NoError(t, c.Login(context.Background(), "a@b.c", "pw"))
	assert.True(t, c.LoggedIn())
	assert.Equal(t, "A", c.currentTokens().AccessToken)
	assert.Equal(t, "R", c.currentTokens().RefreshToken)
}

func TestLogin_Unauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second)
	err := c.Login(context.Background(), "a@b.c", "bad")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.False(t, c.LoggedIn())

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "unauthorized", apiErr.Message)
}

func TestRegister_ValidationFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error":  "invalid request",
			"fields": map[string]string{"email": "must be a valid email"},
		})
	}))
	defer srv.Close()

	_, err := New(srv.URL, time.Second).Register(context.Background(), "n", "x", "", "p", "p")
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "must be a valid email", apiErr.Fields["email"])
	assert.Contains(t, apiErr.Error(), "email")
}

func TestRegister_Conflict(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "account already exists"})
	}))
	defer srv.Close()

	_, err := New(srv.URL, time.Second).Register(context.Background(), "n", "a@b.c", "", "p", "p")
	assert.ErrorIs(t, err, ErrConflict)
}

func TestAuthed_RequiresLogin(t *testing.T) {
	c := New("http://127.0.0.1:1", time.Second)
	_, err := c.Me(context.Background())
	assert.ErrorIs(t, err, ErrNotLoggedIn)
}

func TestAuthed_SendsBearer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer access-1", r.Header.Get("Authorization"))
		writeJSON(w, http.StatusOK, map[string]any{"id": 7, "name": "N", "email": "a@b.c"})
	}))
	defer srv.Close()

	u, err := loggedIn(t, srv).Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(7), u.ID)
}

func TestAuthed_RefreshesOnceOn401(t *testing.T) {
	var meCalls, refreshCalls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/auth/refresh":
			refreshCalls.Add(1)
			var body map[string]string
			_ = json.NewDecoder(r.Body).Decode(&body)
			assert.Equal(t, "refresh-1", body["refresh_token"])
			writeJSON(w, http.StatusOK, map[string]string{"access_token": "access-2", "refresh_token": "refresh-2"})
		case "/v1/me":
			meCalls.Add(1)
			if r.Header.Get("Authorization") != "Bearer access-2" {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "token expired"})
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{"id": 1})
		}
	}))
	defer srv.Close()

	c := loggedIn(t, srv)
	u, err := c.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), u.ID)
	assert.Equal(t, int32(2), meCalls.Load())
	assert.Equal(t, int32(1), refreshCalls.Load())
	assert.Equal(t, "refresh-2", c.currentTokens().RefreshToken)
}

func TestAuthed_RefreshFailureLogsOut(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/v1/auth/refresh" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "refresh token expired"})
			return
		}
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "token expired"})
	}))
	defer srv.Close()

	c := loggedIn(t, srv)
	_, err := c.Profile(context.Background())
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.False(t, c.LoggedIn())
}

func TestTransportError_Unavailable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	err := New(url, time.Second).Health(context.Background())
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestLogout_ClearsTokensAndPostsRefresh(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		got = body["refresh_token"]
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := loggedIn(t, srv)
	require.NoError(t, c.Logout(context.Background()))
	assert.Equal(t, "refresh-1", got)
	assert.False(t, c.LoggedIn())

	// Already logged out: no request, no error.
	require.NoError(t, c.Logout(context.Background()))
}

func TestContentCalls(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/chat", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"reply": "hello"})
	})
	mux.HandleFunc("GET /v1/chat/history", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"messages": []map[string]string{{"role": "user", "content": "hi"}}})
	})
	mux.HandleFunc("DELETE /v1/chat/history", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("GET /v1/wellness/tips", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"tips": "drink water"})
	})
	mux.HandleFunc("GET /v1/wellness/affirmation", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"affirmation": "you can"})
	})
	mux.HandleFunc("GET /v1/wellness/breathing", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"name": "Box", "steps": []string{"in", "out"}})
	})
	mux.HandleFunc("POST /v1/journal", func(w http.ResponseWriter, r *http.Request) {
		var in map[string]any
		_ = json.NewDecoder(r.Body).Decode(&in)
		_, hasCreated := in["created_at"]
		assert.False(t, hasCreated)
		writeJSON(w, http.StatusCreated, map[string]any{"id": 3, "content": in["content"], "mood_rating": in["mood_rating"]})
	})
	mux.HandleFunc("GET /v1/journal", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "5", r.URL.Query().Get("limit"))
		writeJSON(w, http.StatusOK, map[string]any{"entries": []map[string]any{{"id": 3}}})
	})
	mux.HandleFunc("POST /v1/journal/3/reflection", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"reflection": "deep"})
	})
	mux.HandleFunc("POST /v1/moods", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusCreated, map[string]any{"id": 9, "mood_scale": 6})
	})
	mux.HandleFunc("GET /v1/moods", func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.URL.RawQuery)
		writeJSON(w, http.StatusOK, map[string]any{"entries": []map[string]any{{"id": 9}, {"id": 8}}})
	})
	mux.HandleFunc("GET /v1/moods/trend", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "3", r.URL.Query().Get("n"))
		writeJSON(w, http.StatusOK, map[string]any{"points": []map[string]any{{"entry_date": "2024-01-01", "mood_scale": 4}}})
	})
	mux.HandleFunc("GET /v1/moods/insights", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"insights": "steady", "summary": map[string]any{"entries": 4, "avg_mood": 5.5}})
	})
	mux.HandleFunc("POST /v1/export", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"key": "exports/1/x.json", "url": "http://s3/x"})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	ctx := context.Background()
	c := loggedIn(t, srv)

	reply, err := c.Chat(ctx, "hi")
	require.NoError(t, err)
	assert.Equal(t, "hello", reply)

	msgs, err := c.ChatHistory(ctx)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "user", msgs[0].Role)

	require.NoError(t, c.ClearChat(ctx))

	tips, err := c.Tips(ctx)
	require.NoError(t, err)
	assert.Equal(t, "drink water", tips)

	aff, err := c.Affirmation(ctx)
	require.NoError(t, err)
	assert.Equal(t, "you can", aff)

	b, err := c.Breathing(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"in", "out"}, b.Steps)

	e, err := c.CreateJournal(ctx, models.JournalEntry{Content: "today", MoodRating: 7})
	require.NoError(t, err)
	assert.Equal(t, int64(3), e.ID)
	assert.Equal(t, 7, e.MoodRating)

	entries, err := c.Journal(ctx, 5)
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	refl, err := c.Reflect(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, "deep", refl)

	m, err := c.CreateMood(ctx, models.MoodEntry{MoodScale: 6, EnergyLevel: 5, AnxietyLevel: 3, SleepQuality: 7})
	require.NoError(t, err)
	assert.Equal(t, int64(9), m.ID)

	moods, err := c.Moods(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, moods, 2)

	points, err := c.Trend(ctx, 3)
	require.NoError(t, err)
	require.Len(t, points, 1)
	assert.Equal(t, 4, points[0].MoodScale)

	ins, err := c.Insights(ctx)
	require.NoError(t, err)
	assert.Equal(t, "steady", ins.Insights)
	assert.Equal(t, 4, ins.Summary.Entries)

	res, err := c.Export(ctx)
	require.NoError(t, err)
	assert.Equal(t, "http://s3/x", res.URL)
}

func TestProfileCalls(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPut && r.URL.Path == "/v1/profile/wellness":
			var in map[string]any
			_ = json.NewDecoder(r.Body).Decode(&in)
			_, hasHeight := in["height"]
			assert.False(t, hasHeight)
			assert.Equal(t, "high", in["stress_level"])
			fallthrough
		default:
			writeJSON(w, http.StatusOK, map[string]any{
				"profile":  map[string]any{"slot_context": "wellness"},
				"wellness": map[string]any{"stress_level": "high"},
			})
		}
	}))
	defer srv.Close()

	ctx := context.Background()
	c := loggedIn(t, srv)

	stress := "high"
	p, err := c.SaveWellness(ctx, models.WellnessProfile{StressLevel: &stress})
	require.NoError(t, err)
	assert.Equal(t, "wellness", p.Profile.SlotContext)
	require.NotNil(t, p.Wellness.StressLevel)
	assert.Equal(t, "high", *p.Wellness.StressLevel)

	age := 30
	_, err = c.SaveNutrition(ctx, models.NutritionProfile{Age: &age})
	require.NoError(t, err)

	_, err = c.Profile(ctx)
	require.NoError(t, err)
}

func TestAPIError_Is(t *testing.T) {
	cases := []struct {
		status int
		target error
	}{
		{401, ErrUnauthorized},
		{404, ErrNotFound},
		{409, ErrConflict},
		{429, ErrRateLimited},
		{503, ErrUnavailable},
	}
	for _, tc := range cases {
		err := error(&APIError{Status: tc.status, Message: "x"})
		assert.ErrorIs(t, err, tc.target, "status %d", tc.status)
	}
	assert.NotErrorIs(t, &APIError{Status: 500}, ErrNotFound)
}
