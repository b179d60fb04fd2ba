package analyzer

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"github.com/rs/zerolog"

	"journal-api/internal/config"
	"journal-api/internal/domain/insight"
	"journal-api/internal/infrastructure/metrics"
)

const analyzeSystemPrompt = `You are an empathetic journaling companion. Analyze the user's latest message in the context of the conversation history and respond with a single JSON object holding exactly these keys:
- "emotionalTone": string naming the dominant emotional tone
- "insights": string with a warm, supportive reflection on the user's emotional state
- "possibleReasons": array of strings with possible reasons for these emotions
- "suggestions": array of strings with gentle suggestions for addressing them
- "followUpQuestions": array of strings with questions to explore the emotions further
Respond with the JSON object only.`

const topicsSystemPrompt = `Generate 5 conversation starter topics that help someone explore their emotions. Topics must be open-ended, non-judgmental, focused on emotional well-being, and easy to respond to. Respond with a single JSON object: {"topics": [five strings]}.`

// Client calls an OpenAI-compatible chat completion endpoint to produce
// structured journaling insights.
type Client struct {
	api   *openai.Client
	model string
	log   zerolog.Logger
}

// NewClient builds the analyzer from service configuration. A custom base
// URL points it at any OpenAI-compatible provider.
func NewClient(cfg *config.Config, log zerolog.Logger) *Client {
	clientCfg := openai.DefaultConfig(cfg.AnalysisAPIKey)
	if cfg.AnalysisBaseURL != "" {
		clientCfg.BaseURL = cfg.AnalysisBaseURL
	}
	return &Client{
		api:   openai.NewClientWithConfig(clientCfg),
		model: cfg.AnalysisModel,
		log:   log.With().Str("component", "analyzer").Logger(),
	}
}

var _ insight.Provider = (*Client)(nil)

// Analyze sends the message plus the bounded history window and parses the
// structured reply. Any response that does not fit the expected shape is an
// error; the caller owns the degraded path.
func (c *Client) Analyze(ctx context.Context, message string, history []insight.HistoryEntry) (*insight.Result, error) {
	msgs := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: analyzeSystemPrompt},
	}
	if len(history) > 0 {
		msgs = append(msgs, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: "Conversation history:\n" + formatHistory(history),
		})
	}
	msgs = append(msgs, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: message,
	})

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    c.model,
		Messages: msgs,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		metrics.RecordProviderCall("analyze", "error")
		return nil, fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		metrics.RecordProviderCall("analyze", "error")
		return nil, fmt.Errorf("chat completion returned no choices")
	}

	result, err := parseResult(resp.Choices[0].Message.Content)
	if err != nil {
		metrics.RecordProviderCall("analyze", "unparseable")
		c.log.Warn().Err(err).Msg("provider response failed schema validation")
		return nil, err
	}

	metrics.RecordProviderCall("analyze", "ok")
	return result, nil
}

// SuggestTopics asks the provider for journaling starter topics.
func (c *Client) SuggestTopics(ctx context.Context) ([]string, error) {
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: topicsSystemPrompt},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		metrics.RecordProviderCall("topics", "error")
		return nil, fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		metrics.RecordProviderCall("topics", "error")
		return nil, fmt.Errorf("chat completion returned no choices")
	}

	topics, err := parseTopics(resp.Choices[0].Message.Content)
	if err != nil {
		metrics.RecordProviderCall("topics", "unparseable")
		return nil, err
	}

	metrics.RecordProviderCall("topics", "ok")
	return topics, nil
}

// parseResult decodes and validates a provider reply. The parse is strict:
// a shape mismatch is a provider fault, never patched up here.
func parseResult(raw string) (*insight.Result, error) {
	var result insight.Result
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		return nil, fmt.Errorf("decode analysis response: %w", err)
	}
	if strings.TrimSpace(result.EmotionalTone) == "" {
		return nil, fmt.Errorf("analysis response missing emotionalTone")
	}
	if strings.TrimSpace(result.Insights) == "" {
		return nil, fmt.Errorf("analysis response missing insights")
	}
	if result.PossibleReasons == nil {
		result.PossibleReasons = []string{}
	}
	if result.Suggestions == nil {
		result.Suggestions = []string{}
	}
	if result.FollowUpQuestions == nil {
		result.FollowUpQuestions = []string{}
	}
	return &result, nil
}

func parseTopics(raw string) ([]string, error) {
	var payload struct {
		Topics []string `json:"topics"`
	}
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, fmt.Errorf("decode topics response: %w", err)
	}
	topics := make([]string, 0, len(payload.Topics))
	for _, t := range payload.Topics {
		if trimmed := strings.TrimSpace(t); trimmed != "" {
			topics = append(topics, trimmed)
		}
	}
	if len(topics) == 0 {
		return nil, fmt.Errorf("topics response contained no topics")
	}
	return topics, nil
}

func formatHistory(history []insight.HistoryEntry) string {
	var b strings.Builder
	for _, entry := range history {
		b.WriteString(capitalize(entry.Role))
		b.WriteString(": ")
		b.WriteString(entry.Content)
		b.WriteString("\n")
	}
	return b.String()
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
