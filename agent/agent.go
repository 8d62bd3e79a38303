// Package agent implements the AI assistant behind 'grb assist': given raw
// category labels found in a spreadsheet, it proposes a mapping onto the
// book's fixed target labels.
package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// DefaultModel is the Gemini model used when none is configured.
const DefaultModel = "gemini-2.5-flash"

// Mapper is a chat session that proposes category mappings.
type Mapper struct {
	ModelName string
	chat      *genai.Chat
}

// NewMapper creates a Mapper using the default model.
func NewMapper() *Mapper {
	return &Mapper{ModelName: DefaultModel}
}

const systemPrompt = `You classify budget line labels from research-grant
spreadsheets. For every raw label you receive you must pick exactly one of
the target labels you are given. Answer with a single JSON object mapping
each raw label to its target label, and nothing else.`

// Start creates the underlying chat session.
func (m *Mapper) Start(ctx context.Context, client *genai.Client) error {
	config := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: systemPrompt}},
		},
	}
	chat, err := client.Chats.Create(ctx, m.ModelName, config, nil)
	if err != nil {
		return fmt.Errorf("cannot start mapping session: %w", err)
	}
	m.chat = chat
	return nil
}

// Suggest asks the model to map each raw label onto one of the targets.
func (m *Mapper) Suggest(ctx context.Context, raw, targets []string) (map[string]string, error) {
	if m.chat == nil {
		return nil, fmt.Errorf("mapping session not started")
	}

	question := fmt.Sprintf("Target labels: %s.\nRaw labels: %s.",
		strings.Join(targets, ", "), strings.Join(raw, ", "))
	resp, err := m.chat.Send(ctx, &genai.Part{Text: question})
	if err != nil {
		return nil, fmt.Errorf("mapping request failed: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("no response from model %s", m.ModelName)
	}
	text := resp.Candidates[0].Content.Parts[0].Text

	// Models like to wrap JSON in a fenced block.
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")

	mapping := make(map[string]string)
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &mapping); err != nil {
		return nil, fmt.Errorf("cannot parse mapping answer %q: %w", text, err)
	}
	return mapping, nil
}
