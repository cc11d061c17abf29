// Package assistant talks to an OpenAI-compatible chat completion endpoint
// on behalf of the MindCare features. Every exported operation degrades to
// local content when the remote call fails; none of them return an error.
package assistant

import (
	"context"
	"errors"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/dmitrijs2005/mindcare/internal/logging"
	"github.com/dmitrijs2005/mindcare/internal/server/models"
	"github.com/sashabaranov/go-openai"
)

// Outcomes reported to the Recorder.
const (
	OutcomeOK       = "ok"
	OutcomeFallback = "fallback"
	OutcomeOffline  = "offline"
)

var errEmptyReply = errors.New("assistant returned no content")

type chatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Recorder receives one event per assistant operation.
type Recorder interface {
	AssistantCall(operation, outcome string)
}

type nopRecorder struct{}

func (nopRecorder) AssistantCall(string, string) {}

// Config configures the remote endpoint. An empty APIKey means offline mode.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

type Client struct {
	api      chatCompleter
	model    string
	timeout  time.Duration
	logger   logging.Logger
	recorder Recorder
	intn     func(n int) int
}

type Option func(*Client)

func WithLogger(l logging.Logger) Option {
	return func(c *Client) { c.logger = l }
}

func WithRecorder(r Recorder) Option {
	return func(c *Client) { c.recorder = r }
}

// NewClient builds a Client. Without an API key the client never leaves
// the process.
func NewClient(cfg Config, opts ...Option) *Client {
	c := &Client{
		model:    cfg.Model,
		timeout:  cfg.Timeout,
		logger:   logging.Nop{},
		recorder: nopRecorder{},
		intn:     rand.IntN,
	}

	if cfg.APIKey != "" {
		oc := openai.DefaultConfig(cfg.APIKey)
		if cfg.BaseURL != "" {
			oc.BaseURL = cfg.BaseURL
		}
		c.api = openai.NewClientWithConfig(oc)
	}

	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Offline reports whether the client has no remote endpoint.
func (c *Client) Offline() bool {
	return c.api == nil
}

func (c *Client) complete(ctx context.Context, prompt string) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: persona},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", errEmptyReply
	}
	return resp.Choices[0].Message.Content, nil
}

// run executes prompt and falls back to fallback() on any failure.
func (c *Client) run(ctx context.Context, operation, prompt string, fallback func() string) string {
	if c.api == nil {
		c.recorder.AssistantCall(operation, OutcomeOffline)
		return fallback()
	}

	reply, err := c.complete(ctx, prompt)
	if err != nil {
		c.logger.Warn(ctx, "assistant call failed, using fallback", "operation", operation, "error", err)
		c.recorder.AssistantCall(operation, OutcomeFallback)
		return fallback()
	}

	c.recorder.AssistantCall(operation, OutcomeOK)
	return reply
}

func constant(s string) func() string {
	return func() string { return s }
}

// Ask answers a free-text chat message.
func (c *Client) Ask(ctx context.Context, message string) string {
	return c.run(ctx, "ask", askPrompt(message), constant(chatFallback))
}

// WellnessTips returns daily tips, personalised when p is non-nil.
func (c *Client) WellnessTips(ctx context.Context, p *models.WellnessProfile) string {
	return c.run(ctx, "tips", tipsPrompt(p), constant(tipsFallback))
}

// MoodInsights comments on averaged check-ins. Summaries over fewer than
// MinMoodEntries entries get a fixed encouragement without a remote call.
func (c *Client) MoodInsights(ctx context.Context, s models.MoodSummary) string {
	if s.Entries < MinMoodEntries {
		return NotEnoughMoodData
	}
	return c.run(ctx, "insights", insightsPrompt(s), func() string { return FallbackInsights(s) })
}

// JournalReflection responds to a journal entry.
func (c *Client) JournalReflection(ctx context.Context, entry string) string {
	return c.run(ctx, "reflection", reflectionPrompt(entry), constant(reflectionFallback))
}

// Affirmation picks one of the built-in affirmations.
func (c *Client) Affirmation() string {
	return affirmations[c.intn(len(affirmations))]
}

// Breathing picks one of the built-in breathing exercises.
func (c *Client) Breathing() BreathingExercise {
	return breathingExercises[c.intn(len(breathingExercises))]
}
