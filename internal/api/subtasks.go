package api

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/SangamNirala/TodoList/internal/decompose"
)

// Compile-time verification that Client implements the generator
// interface the coordinator expects.
var _ decompose.Generator = (*Client)(nil)

// subtaskSystemPrompt frames every decomposition request.
const subtaskSystemPrompt = `You break personal todo items into small, concrete subtasks someone could act on right away. You respond with JSON only.`

// subtaskPromptTemplate carries the task text and the response contract
// ParseSubtasks relies on.
const subtaskPromptTemplate = `Break this todo item into 3-5 short subtasks.

Todo item:
%s

Return ONLY a JSON array of strings (no other text), for example:
["Book flights", "Reserve hotel", "Pack bags"]

Guidelines:
- Each subtask is one short actionable phrase, a few words long
- Order subtasks the way they would naturally be done
- No numbering, no nesting, no commentary`

// maxSubtaskTokens bounds the model response; a handful of short phrases
// fits comfortably.
const maxSubtaskTokens = 1024

// Subtasks asks the model to decompose the task text and returns the
// parsed subtask strings. The client's timeout bounds the whole request;
// a canceled or expired context surfaces as an ordinary error.
func (c *Client) Subtasks(ctx context.Context, text string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.inner.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     c.model,
		MaxTokens: maxSubtaskTokens,
		System: []anthropic.TextBlockParam{
			{Text: subtaskSystemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(fmt.Sprintf(subtaskPromptTemplate, text))),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("anthropic request: %w", err)
	}

	c.tracker.Add(resp.Usage.InputTokens, resp.Usage.OutputTokens)

	var response strings.Builder
	for _, block := range resp.Content {
		if variant, ok := block.AsAny().(anthropic.TextBlock); ok {
			response.WriteString(variant.Text)
		}
	}

	return ParseSubtasks(response.String())
}

// ParseSubtasks extracts the JSON array of subtask strings from a model
// response. The model is told to return only the array, but responses
// sometimes arrive wrapped in prose, so parsing spans from the first '['
// to the last ']'. Blank entries are dropped, and an empty result is an
// error, never a successful decomposition.
func ParseSubtasks(response string) ([]string, error) {
	jsonStart := strings.Index(response, "[")
	jsonEnd := strings.LastIndex(response, "]")
	if jsonStart == -1 || jsonEnd == -1 || jsonEnd <= jsonStart {
		preview := response
		if len(preview) > 200 {
			preview = preview[:200] + "..."
		}
		return nil, fmt.Errorf("no valid JSON array found in response: %q", preview)
	}

	var subtasks []string
	if err := json.Unmarshal([]byte(response[jsonStart:jsonEnd+1]), &subtasks); err != nil {
		return nil, fmt.Errorf("parse subtask array: %w", err)
	}

	cleaned := make([]string, 0, len(subtasks))
	for _, s := range subtasks {
		if s = strings.TrimSpace(s); s != "" {
			cleaned = append(cleaned, s)
		}
	}
	if len(cleaned) == 0 {
		return nil, fmt.Errorf("model returned an empty subtask list")
	}
	return cleaned, nil
}
