package insight

import "context"

// Result is the structured outcome of analyzing one user message.
type Result struct {
	EmotionalTone     string   `json:"emotionalTone"`
	Insights          string   `json:"insights"`
	PossibleReasons   []string `json:"possibleReasons"`
	Suggestions       []string `json:"suggestions"`
	FollowUpQuestions []string `json:"followUpQuestions"`
}

// HistoryEntry is one prior turn handed to the provider for context.
type HistoryEntry struct {
	Role    string
	Content string
}

// Provider is the external generative-language capability. Analyze receives
// the new message plus a bounded trailing history window, never the full
// transcript. Any transport error, timeout, or response that does not fit
// the Result shape surfaces as an error; callers decide how to degrade.
type Provider interface {
	Analyze(ctx context.Context, message string, history []HistoryEntry) (*Result, error)
	SuggestTopics(ctx context.Context) ([]string, error)
}
