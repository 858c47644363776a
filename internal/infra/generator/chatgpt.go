package generator

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/yanqian/mood-engine/internal/domain/mood"
	"github.com/yanqian/mood-engine/internal/infra/llm/chatgpt"
	"github.com/yanqian/mood-engine/pkg/metrics"
)

const systemPrompt = "You analyze biometric data and respond only with JSON matching the provided schema."

// ChatClient is the subset of the ChatGPT client the adapter needs.
type ChatClient interface {
	CreateChatCompletion(ctx context.Context, req chatgpt.ChatCompletionRequest) (chatgpt.ChatCompletionResponse, error)
}

// ChatGPT adapts an OpenAI-compatible chat API to mood.Generator.
type ChatGPT struct {
	client ChatClient
}

// NewChatGPT constructs the adapter.
func NewChatGPT(client ChatClient) *ChatGPT {
	return &ChatGPT{client: client}
}

func (g *ChatGPT) Generate(ctx context.Context, req mood.GenerateRequest) (mood.GenerateResult, error) {
	resp, err := g.client.CreateChatCompletion(ctx, chatgpt.ChatCompletionRequest{
		Model:       req.Model,
		Temperature: req.Temperature,
		Messages: []chatgpt.Message{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: req.Prompt},
		},
		ResponseFormat: &chatgpt.ResponseFormat{
			Type: "json_schema",
			JSONSchema: &chatgpt.JSONSchema{
				Name:   "mood_analysis",
				Strict: true,
				Schema: toJSONSchema(req.Schema),
			},
		},
	})
	if err != nil {
		return mood.GenerateResult{}, classifyChatGPTError(err)
	}

	result := mood.GenerateResult{Model: firstNonEmpty(resp.Model, req.Model)}
	if len(resp.Choices) > 0 {
		result.Text = strings.TrimSpace(resp.Choices[0].Message.Content)
	}
	result.Usage = metrics.TokenUsage{
		PromptTokens:     resp.Usage.PromptTokens,
		CompletionTokens: resp.Usage.CompletionTokens,
		TotalTokens:      resp.Usage.TotalTokens,
	}
	if result.Usage.IsZero() {
		result.Usage = metrics.TokenUsage{
			PromptTokens: metrics.EstimatePromptTokens(req.Model, systemPrompt+"\n"+req.Prompt),
			Estimated:    true,
		}
	}
	return result, nil
}

func classifyChatGPTError(err error) error {
	if errors.Is(err, chatgpt.ErrMalformedResponse) {
		return mood.SchemaError("chatgpt response malformed", err)
	}
	var statusErr *chatgpt.StatusError
	if errors.As(err, &statusErr) {
		switch {
		case statusErr.StatusCode == http.StatusUnauthorized || statusErr.StatusCode == http.StatusForbidden:
			return mood.AuthError("chatgpt rejected credentials", err)
		case statusErr.StatusCode == http.StatusTooManyRequests || statusErr.StatusCode >= http.StatusInternalServerError:
			return mood.TransportError("chatgpt unavailable", mood.Temporary(err))
		default:
			return mood.TransportError("chatgpt rejected request", err)
		}
	}
	if errors.Is(err, context.Canceled) {
		return mood.TransportError("chatgpt request canceled", err)
	}
	return mood.TransportError("chatgpt unreachable", mood.Temporary(err))
}

// toJSONSchema renders the schema in the strict dialect: every object closes
// additionalProperties and lists all of its properties as required.
func toJSONSchema(s *mood.Schema) map[string]any {
	if s == nil {
		return nil
	}
	out := map[string]any{"type": string(s.Type)}
	if s.Description != "" {
		out["description"] = s.Description
	}
	if len(s.Enum) > 0 {
		out["enum"] = s.Enum
	}
	if s.Items != nil {
		out["items"] = toJSONSchema(s.Items)
	}
	if s.Type == mood.TypeObject {
		props := make(map[string]any, len(s.Properties))
		for name, prop := range s.Properties {
			props[name] = toJSONSchema(prop)
		}
		out["properties"] = props
		out["required"] = orderedKeys(s)
		out["additionalProperties"] = false
	}
	return out
}

func orderedKeys(s *mood.Schema) []string {
	keys := make([]string, 0, len(s.Properties))
	seen := make(map[string]struct{}, len(s.Properties))
	for _, name := range s.PropertyOrdering {
		if _, ok := s.Properties[name]; ok {
			keys = append(keys, name)
			seen[name] = struct{}{}
		}
	}
	for _, name := range s.Required {
		if _, ok := seen[name]; !ok {
			keys = append(keys, name)
			seen[name] = struct{}{}
		}
	}
	return keys
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

var _ mood.Generator = (*ChatGPT)(nil)
