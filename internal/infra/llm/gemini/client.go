// Package gemini wraps the Google Gen AI SDK for structured JSON generation.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"google.golang.org/genai"
)

const defaultModel = "gemini-3-flash-preview"

// ErrMissingAPIKey is returned by every call when no API key is configured.
var ErrMissingAPIKey = errors.New("gemini api key is not configured")

// Client lazily creates the SDK client on first use so that a missing key
// fails the call rather than process startup.
type Client struct {
	apiKey string
	logger *slog.Logger

	mu  sync.Mutex
	sdk *genai.Client
}

// NewClient constructs a Gemini client.
func NewClient(apiKey string, logger *slog.Logger) *Client {
	return &Client{
		apiKey: strings.TrimSpace(apiKey),
		logger: logger.With("component", "gemini.client"),
	}
}

// GenerateContent sends a single-turn prompt and returns the raw SDK response.
func (c *Client) GenerateContent(ctx context.Context, model, prompt string, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	sdk, err := c.client(ctx)
	if err != nil {
		return nil, err
	}
	modelName := strings.TrimPrefix(strings.TrimSpace(model), "models/")
	if modelName == "" {
		modelName = defaultModel
	}
	c.logger.Debug("calling gemini", "model", modelName, "prompt_length", len(prompt))
	return sdk.Models.GenerateContent(ctx, modelName, genai.Text(prompt), config)
}

func (c *Client) client(ctx context.Context) (*genai.Client, error) {
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sdk != nil {
		return c.sdk, nil
	}
	sdk, err := genai.NewClient(ctx, &genai.ClientConfig{
		Backend: genai.BackendGeminiAPI,
		APIKey:  c.apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	c.sdk = sdk
	c.logger.Info("gemini client initialised")
	return sdk, nil
}

// ResponseText returns the answer text of the first candidate, skipping
// thought parts. It returns "" when the response carries no content.
func ResponseText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	return resp.Text()
}
