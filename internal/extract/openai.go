// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/pdiddy/triplemine/pkg/types"
)

// OpenAIExtractor implements Extractor over the OpenAI chat completions
// API. The model is asked for a strict JSON object matching Response.
type OpenAIExtractor struct {
	client *openai.Client
	model  string
}

// NewOpenAIExtractor builds the production extractor. A missing API key is
// a configuration error, fatal to the run.
func NewOpenAIExtractor(cfg types.ExtractionConfig) (*OpenAIExtractor, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("no extraction capability configured: API key is empty")
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	model := cfg.Model
	if model == "" {
		model = openai.GPT4oMini
	}

	return &OpenAIExtractor{
		client: openai.NewClientWithConfig(clientConfig),
		model:  model,
	}, nil
}

// Extract submits one section and parses the JSON triple list. Malformed
// JSON is returned as an error so the engine's retry loop can resubmit.
func (e *OpenAIExtractor) Extract(ctx context.Context, req Request) (Response, error) {
	chatReq := openai.ChatCompletionRequest{
		Model: e.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: extractionSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: formatRequest(req)},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Temperature: 0,
	}

	resp, err := e.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return Response{}, fmt.Errorf("extraction API: %w", err)
	}
	if len(resp.Choices) == 0 {
		return Response{}, fmt.Errorf("extraction API returned no choices")
	}

	var parsed Response
	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		return Response{}, fmt.Errorf("malformed extraction response: %w", err)
	}
	return parsed, nil
}

// formatRequest prepares a section for the model by combining heading and body.
func formatRequest(req Request) string {
	if req.Section == "" {
		return req.Text
	}
	return fmt.Sprintf("Section: %s\n\n%s", req.Section, req.Text)
}
