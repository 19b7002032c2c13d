// Package extract turns free-form page or document content into structured
// brand knowledge by delegating to an external text-generation model. The
// model is always injected through TextGenerator so tests can supply canned
// responses.
package extract

import "context"

// TextGenerator is the capability boundary for the external LLM.
type TextGenerator interface {
	// Generate sends a prompt and returns the model's text response.
	Generate(ctx context.Context, prompt string) (string, error)

	// GenerateWithDocument sends a prompt alongside an inline binary
	// document (typically a PDF).
	GenerateWithDocument(ctx context.Context, prompt string, document []byte, mimeType string) (string, error)

	// GenerateWithWebSearch sends a prompt with the model's web-search
	// capability enabled, letting the model retrieve page content itself.
	GenerateWithWebSearch(ctx context.Context, prompt string) (string, error)
}
