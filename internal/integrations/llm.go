package integrations

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"kajianhub/backend/internal/broadcast/core"
	"kajianhub/backend/internal/config"

	openai "github.com/sashabaranov/go-openai"
)

// LLMClient is the generative extraction fallback: when the symbolic parser
// gets nothing out of a broadcast, the text can be handed to a language model
// that returns entries in the same schema. The symbolic parser stays the
// primary path; this client is optional and config-gated.
type LLMClient struct {
	client *openai.Client
	model  string
}

const defaultLLMModel = "gpt-4o-mini"

const llmSystemPrompt = `You extract Islamic study event (kajian) announcements from Indonesian community broadcast text.
Return a JSON object {"entries": [...]} where each entry has the string fields:
region, city, venue, address, mapUrl, speaker, topic, time, date, contact.
Use "TBD" for anything the text does not state. Copy field values verbatim from the text; do not translate or correct spelling. Return {"entries": []} if no event is announced.`

type llmExtractionResult struct {
	Entries []*core.Entry `json:"entries"`
}

// NewLLMClient creates the client; returns nil when no API key is
// configured.
func NewLLMClient(cfg config.LLMConfig) *LLMClient {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil
	}
	model := cfg.Model
	if model == "" {
		model = defaultLLMModel
	}
	return &LLMClient{
		client: openai.NewClient(cfg.APIKey),
		model:  model,
	}
}

// ExtractEntries asks the model for entries in the parser's output schema.
func (c *LLMClient) ExtractEntries(ctx context.Context, text string) ([]*core.Entry, error) {
	if c == nil {
		return nil, fmt.Errorf("llm client is not configured")
	}
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("text is empty")
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: 0.1,
		MaxTokens:   2000,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: llmSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("llm extraction: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("llm extraction: empty response")
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")

	var result llmExtractionResult
	if err := json.Unmarshal([]byte(strings.TrimSpace(content)), &result); err != nil {
		return nil, fmt.Errorf("llm extraction: invalid JSON: %w", err)
	}
	entries := make([]*core.Entry, 0, len(result.Entries))
	for _, entry := range result.Entries {
		if entry != nil && entry.HasIdentity() {
			entries = append(entries, entry)
		}
	}
	return entries, nil
}
