package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/mindcare/internal/server/models"
	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorded struct {
	operation, outcome string
}

type fakeRecorder struct {
	mu     sync.Mutex
	events []recorded
}

func (f *fakeRecorder) AssistantCall(operation, outcome string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, recorded{operation, outcome})
}

type fakeCompleter struct {
	reply string
	err   error
	last  openai.ChatCompletionRequest
}

func (f *fakeCompleter) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	f.last = req
	if f.err != nil {
		return openai.ChatCompletionResponse{}, f.err
	}
	if f.reply == "" {
		return openai.ChatCompletionResponse{}, nil
	}
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{{Message: openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: f.reply}}},
	}, nil
}

func newWithFake(f *fakeCompleter, rec Recorder) *Client {
	c := NewClient(Config{Model: "test-model"}, WithRecorder(rec))
	c.api = f
	return c
}

func TestOfflineClientUsesFallbacks(t *testing.T) {
	rec := &fakeRecorder{}
	c := NewClient(Config{}, WithRecorder(rec))

	require.True(t, c.Offline())
	assert.Equal(t, chatFallback, c.Ask(context.Background(), "hello"))
	assert.Equal(t, tipsFallback, c.WellnessTips(context.Background(), nil))
	assert.Equal(t, reflectionFallback, c.JournalReflection(context.Background(), "today"))
	assert.Equal(t, []recorded{{"ask", OutcomeOffline}, {"tips", OutcomeOffline}, {"reflection", OutcomeOffline}}, rec.events)
}

func TestAsk_Success(t *testing.T) {
	f := &fakeCompleter{reply: "You are not alone."}
	rec := &fakeRecorder{}
	c := newWithFake(f, rec)

	got := c.Ask(context.Background(), "I feel stressed")

	assert.Equal(t, "You are not alone.", got)
	require.Len(t, f.last.Messages, 2)
	assert.Equal(t, "test-model", f.last.Model)
	assert.Equal(t, openai.ChatMessageRoleSystem, f.last.Messages[0].Role)
	assert.Contains(t, f.last.Messages[0].Content, "MindCare AI")
	assert.Contains(t, f.last.Messages[1].Content, "I feel stressed")
	assert.Equal(t, []recorded{{"ask", OutcomeOK}}, rec.events)
}

func TestAsk_ErrorAndEmptyFallBack(t *testing.T) {
	rec := &fakeRecorder{}
	c := newWithFake(&fakeCompleter{err: errors.New("503")}, rec)
	assert.Equal(t, chatFallback, c.Ask(context.Background(), "hi"))

	c = newWithFake(&fakeCompleter{reply: ""}, rec)
	assert.Equal(t, chatFallback, c.Ask(context.Background(), "hi"))

	assert.Equal(t, []recorded{{"ask", OutcomeFallback}, {"ask", OutcomeFallback}}, rec.events)
}

func TestWellnessTips_PersonalisedPrompt(t *testing.T) {
	f := &fakeCompleter{reply: "1. Breathe"}
	c := newWithFake(f, nil)
	c.recorder = nopRecorder{}

	age := 30
	occ := "Nurse"
	got := c.WellnessTips(context.Background(), &models.WellnessProfile{Age: &age, Occupation: &occ})

	assert.Equal(t, "1. Breathe", got)
	prompt := f.last.Messages[1].Content
	assert.Contains(t, prompt, "- Age: 30")
	assert.Contains(t, prompt, "- Occupation: Nurse")
	assert.Contains(t, prompt, "- Stress Level: Not specified")
}

func TestMoodInsights(t *testing.T) {
	f := &fakeCompleter{err: errors.New("down")}
	c := newWithFake(f, &fakeRecorder{})

	assert.Equal(t, NotEnoughMoodData, c.MoodInsights(context.Background(), models.MoodSummary{Entries: 2}))
	assert.Empty(t, f.last.Messages, "no remote call below the threshold")

	s := models.MoodSummary{Entries: 3, MoodScale: 4, SleepQuality: 3, AnxietyLevel: 8}
	assert.Equal(t, FallbackInsights(s), c.MoodInsights(context.Background(), s))
	assert.Contains(t, f.last.Messages[1].Content, "Average Mood: 4.0/10")

	f.err = nil
	f.reply = "Looking good"
	assert.Equal(t, "Looking good", c.MoodInsights(context.Background(), s))
}

func TestFallbackInsights(t *testing.T) {
	tests := []struct {
		name     string
		summary  models.MoodSummary
		contains []string
		excludes []string
	}{
		{
			name:     "positive",
			summary:  models.MoodSummary{MoodScale: 7, SleepQuality: 8, AnxietyLevel: 2},
			contains: []string{"look positive"},
			excludes: []string{"sleep quality", "anxiety levels"},
		},
		{
			name:     "balanced with poor sleep",
			summary:  models.MoodSummary{MoodScale: 5, SleepQuality: 4.9, AnxietyLevel: 7},
			contains: []string{"balanced range", "sleep quality"},
			excludes: []string{"anxiety levels"},
		},
		{
			name:     "low and anxious",
			summary:  models.MoodSummary{MoodScale: 4.9, SleepQuality: 5, AnxietyLevel: 7.1},
			contains: []string{"lower lately", "anxiety levels"},
			excludes: []string{"sleep quality"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FallbackInsights(tt.summary)
			for _, s := range tt.contains {
				assert.Contains(t, got, s)
			}
			for _, s := range tt.excludes {
				assert.NotContains(t, got, s)
			}
			assert.Contains(t, got, "aware of your patterns")
		})
	}
}

func TestAffirmationAndBreathing(t *testing.T) {
	c := NewClient(Config{})
	c.intn = func(n int) int { return n - 1 }

	assert.Equal(t, affirmations[9], c.Affirmation())
	assert.Equal(t, "5-5 Calming Breath", c.Breathing().Name)
	assert.Len(t, Affirmations(), 10)
	assert.Len(t, BreathingExercises(), 3)

	formatted := BreathingExercises()[1].Format()
	assert.Contains(t, formatted, "Box Breathing:\n1. Inhale for 4 counts\n")
}

func TestClient_AgainstHTTPServer(t *testing.T) {
	var gotAuth, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path

		var req openai.ChatCompletionRequest
		_ = json.NewDecoder(r.Body).Decode(&req)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(openai.ChatCompletionResponse{
			ID:     "cmpl-1",
			Object: "chat.completion",
			Model:  req.Model,
			Choices: []openai.ChatCompletionChoice{{
				Index:        0,
				Message:      openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: "reflection from " + req.Model},
				FinishReason: openai.FinishReasonStop,
			}},
		})
	}))
	defer srv.Close()

	c := NewClient(Config{APIKey: "sk-test", BaseURL: srv.URL + "/v1", Model: "gemini-2.0-flash", Timeout: 5 * time.Second})

	got := c.JournalReflection(context.Background(), "I walked today")

	assert.Equal(t, "reflection from gemini-2.0-flash", got)
	assert.Equal(t, "Bearer sk-test", gotAuth)
	assert.Equal(t, "/v1/chat/completions", gotPath)
}

func TestClient_HTTPErrorFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"message":"boom","type":"server_error"}}`))
	}))
	defer srv.Close()

	c := NewClient(Config{APIKey: "k", BaseURL: srv.URL, Model: "m", Timeout: time.Second})
	assert.Equal(t, tipsFallback, c.WellnessTips(context.Background(), nil))
}
