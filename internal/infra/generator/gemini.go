package generator

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"google.golang.org/genai"

	"github.com/yanqian/mood-engine/internal/domain/mood"
	"github.com/yanqian/mood-engine/internal/infra/llm/gemini"
	"github.com/yanqian/mood-engine/pkg/metrics"
)

// GeminiContentClient is the subset of the Gemini client the adapter needs.
type GeminiContentClient interface {
	GenerateContent(ctx context.Context, model, prompt string, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Gemini adapts the Gemini client to mood.Generator.
type Gemini struct {
	client GeminiContentClient
}

// NewGemini constructs the adapter.
func NewGemini(client GeminiContentClient) *Gemini {
	return &Gemini{client: client}
}

func (g *Gemini) Generate(ctx context.Context, req mood.GenerateRequest) (mood.GenerateResult, error) {
	temperature := req.Temperature
	config := &genai.GenerateContentConfig{
		Temperature:      &temperature,
		ResponseMIMEType: "application/json",
		ResponseSchema:   toGenaiSchema(req.Schema),
	}

	resp, err := g.client.GenerateContent(ctx, req.Model, req.Prompt, config)
	if err != nil {
		return mood.GenerateResult{}, classifyGeminiError(err)
	}

	result := mood.GenerateResult{
		Text:  gemini.ResponseText(resp),
		Model: req.Model,
	}
	if resp != nil {
		if resp.ModelVersion != "" {
			result.Model = resp.ModelVersion
		}
		if meta := resp.UsageMetadata; meta != nil {
			result.Usage = metrics.TokenUsage{
				PromptTokens:     int(meta.PromptTokenCount),
				CompletionTokens: int(meta.CandidatesTokenCount),
				TotalTokens:      int(meta.TotalTokenCount),
			}
		}
	}
	return result, nil
}

func classifyGeminiError(err error) error {
	if errors.Is(err, gemini.ErrMissingAPIKey) {
		return mood.AuthError("gemini api key missing", err)
	}
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Code == http.StatusUnauthorized || apiErr.Code == http.StatusForbidden:
			return mood.AuthError("gemini rejected credentials", err)
		case apiErr.Code == http.StatusBadRequest && strings.Contains(strings.ToLower(apiErr.Message), "api key"):
			return mood.AuthError("gemini rejected credentials", err)
		case apiErr.Code == http.StatusTooManyRequests || apiErr.Code >= http.StatusInternalServerError:
			return mood.TransportError("gemini unavailable", mood.Temporary(err))
		default:
			return mood.TransportError("gemini rejected request", err)
		}
	}
	if errors.Is(err, context.Canceled) {
		return mood.TransportError("gemini request canceled", err)
	}
	return mood.TransportError("gemini unreachable", mood.Temporary(err))
}

func toGenaiSchema(s *mood.Schema) *genai.Schema {
	if s == nil {
		return nil
	}
	out := &genai.Schema{
		Type:             genaiType(s.Type),
		Description:      s.Description,
		Enum:             s.Enum,
		Required:         s.Required,
		PropertyOrdering: s.PropertyOrdering,
		Items:            toGenaiSchema(s.Items),
	}
	if len(s.Properties) > 0 {
		out.Properties = make(map[string]*genai.Schema, len(s.Properties))
		for name, prop := range s.Properties {
			out.Properties[name] = toGenaiSchema(prop)
		}
	}
	if s.MinItems > 0 {
		v := int64(s.MinItems)
		out.MinItems = &v
	}
	if s.MaxItems > 0 {
		v := int64(s.MaxItems)
		out.MaxItems = &v
	}
	return out
}

func genaiType(t mood.SchemaType) genai.Type {
	switch t {
	case mood.TypeObject:
		return genai.TypeObject
	case mood.TypeArray:
		return genai.TypeArray
	default:
		return genai.TypeString
	}
}

var _ mood.Generator = (*Gemini)(nil)
