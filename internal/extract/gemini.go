package extract

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// DefaultGeminiModel is the generation model used when none is configured.
const DefaultGeminiModel = "gemini-2.0-flash"

// GeminiGenerator implements TextGenerator on the Google Gemini API.
type GeminiGenerator struct {
	client *genai.Client
	model  string
}

// NewGeminiGenerator creates a Gemini-backed text generator.
func NewGeminiGenerator(ctx context.Context, apiKey, model string) (*GeminiGenerator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	if model == "" {
		model = DefaultGeminiModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return &GeminiGenerator{client: client, model: model}, nil
}

// Generate sends a text-only prompt.
func (g *GeminiGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	contents := []*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)}
	return g.generate(ctx, contents, nil)
}

// GenerateWithDocument sends the prompt with an inline document attachment.
func (g *GeminiGenerator) GenerateWithDocument(ctx context.Context, prompt string, document []byte, mimeType string) (string, error) {
	parts := []*genai.Part{
		genai.NewPartFromBytes(document, mimeType),
		genai.NewPartFromText(prompt),
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}
	return g.generate(ctx, contents, nil)
}

// GenerateWithWebSearch enables Google Search grounding so the model can
// fetch page content on its own.
func (g *GeminiGenerator) GenerateWithWebSearch(ctx context.Context, prompt string) (string, error) {
	cfg := &genai.GenerateContentConfig{
		Tools: []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}},
	}
	contents := []*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)}
	return g.generate(ctx, contents, cfg)
}

func (g *GeminiGenerator) generate(ctx context.Context, contents []*genai.Content, cfg *genai.GenerateContentConfig) (string, error) {
	result, err := g.client.Models.GenerateContent(ctx, g.model, contents, cfg)
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	text := result.Text()
	if text == "" {
		return "", fmt.Errorf("gemini generate: empty response")
	}
	return text, nil
}
