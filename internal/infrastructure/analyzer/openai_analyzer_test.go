package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"journal-api/internal/domain/insight"
)

func TestParseResult_ValidResponse(t *testing.T) {
	raw := `{
		"emotionalTone": "anxious",
		"insights": "It sounds like a heavy week.",
		"possibleReasons": ["work pressure"],
		"suggestions": ["take a short walk"],
		"followUpQuestions": ["What part feels heaviest?"]
	}`

	result, err := parseResult(raw)
	require.NoError(t, err)

	assert.Equal(t, "anxious", result.EmotionalTone)
	assert.Equal(t, "It sounds like a heavy week.", result.Insights)
	assert.Equal(t, []string{"work pressure"}, result.PossibleReasons)
	assert.Equal(t, []string{"take a short walk"}, result.Suggestions)
	assert.Equal(t, []string{"What part feels heaviest?"}, result.FollowUpQuestions)
}

func TestParseResult_MissingArraysBecomeEmpty(t *testing.T) {
	raw := `{"emotionalTone": "calm", "insights": "All good."}`

	result, err := parseResult(raw)
	require.NoError(t, err)

	assert.NotNil(t, result.PossibleReasons)
	assert.NotNil(t, result.Suggestions)
	assert.NotNil(t, result.FollowUpQuestions)
	assert.Empty(t, result.PossibleReasons)
}

func TestParseResult_ShapeMismatchIsAFault(t *testing.T) {
	cases := map[string]string{
		"not json":            "I feel that you are anxious.",
		"fenced json":         "```json\n{\"emotionalTone\":\"calm\",\"insights\":\"x\"}\n```",
		"missing tone":        `{"insights": "something"}`,
		"missing insights":    `{"emotionalTone": "calm"}`,
		"blank tone":          `{"emotionalTone": "  ", "insights": "x"}`,
		"wrong type for tone": `{"emotionalTone": 3, "insights": "x"}`,
	}

	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := parseResult(raw)
			assert.Error(t, err)
		})
	}
}

func TestParseTopics(t *testing.T) {
	topics, err := parseTopics(`{"topics": ["a", " b ", "", "c"]}`)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, topics)

	_, err = parseTopics(`{"topics": []}`)
	assert.Error(t, err)

	_, err = parseTopics(`five great topics`)
	assert.Error(t, err)
}

func TestFormatHistory(t *testing.T) {
	out := formatHistory([]insight.HistoryEntry{
		{Role: "user", Content: "hello"},
		{Role: "agent", Content: "hi there"},
	})
	assert.Equal(t, "User: hello\nAgent: hi there\n", out)
}
