package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/espengetz/brandprotocol/internal/domain"
	"github.com/espengetz/brandprotocol/pkg/errors"
)

// Extractor runs the extraction prompts against the injected generator and
// parses the responses. Extraction is best-effort: a malformed model response
// degrades to an empty fragment, never an error.
type Extractor struct {
	gen    TextGenerator
	logger *slog.Logger
}

// NewExtractor creates an extractor.
func NewExtractor(gen TextGenerator, logger *slog.Logger) *Extractor {
	return &Extractor{gen: gen, logger: logger}
}

// ExtractFromText extracts a brand-knowledge fragment from page or document
// text. A model transport failure is returned as an external-service error;
// an unparseable response yields an empty fragment.
func (e *Extractor) ExtractFromText(ctx context.Context, content string) (*domain.BrandKnowledge, error) {
	response, err := e.gen.Generate(ctx, brandExtractionPrompt+content)
	if err != nil {
		return nil, errors.ExternalService("llm", err)
	}
	return e.parseFragment(ctx, response), nil
}

// ExtractFromDocument extracts a fragment from a binary document, sent to
// the model inline.
func (e *Extractor) ExtractFromDocument(ctx context.Context, document []byte, mimeType string) (*domain.BrandKnowledge, error) {
	prompt := brandExtractionPrompt + "[document content provided above]"
	response, err := e.gen.GenerateWithDocument(ctx, prompt, document, mimeType)
	if err != nil {
		return nil, errors.ExternalService("llm", err)
	}
	return e.parseFragment(ctx, response), nil
}

// RetrieveURLContent asks the model to fetch page content itself via web
// search. Used as a fallback when the direct fetch is blocked or fails.
func (e *Extractor) RetrieveURLContent(ctx context.Context, url string) (string, error) {
	content, err := e.gen.GenerateWithWebSearch(ctx, fmt.Sprintf(urlRetrievalPrompt, url))
	if err != nil {
		return "", errors.ExternalService("llm", err)
	}
	return content, nil
}

// recoveredColor is one entry of the hex-recovery response.
type recoveredColor struct {
	Name     string `json:"name"`
	Hex      string `json:"hex"`
	Category string `json:"category"`
}

// RecoverColors issues a second pass focused on hex codes the first pass
// missed and merges new colors into the fragment. A failed recovery pass
// leaves the fragment untouched; it never invalidates the primary result.
func (e *Extractor) RecoverColors(ctx context.Context, content string, fragment *domain.BrandKnowledge) {
	response, err := e.gen.Generate(ctx, colorRecoveryPrompt+content)
	if err != nil {
		e.logger.WarnContext(ctx, "color recovery pass failed", slog.String("error", err.Error()))
		return
	}

	var recovered []recoveredColor
	if err := json.Unmarshal([]byte(extractJSON(response, '[', ']')), &recovered); err != nil {
		e.logger.WarnContext(ctx, "color recovery response not parseable", slog.String("error", err.Error()))
		return
	}

	if fragment.Colors == nil {
		fragment.Colors = map[string][]domain.Color{}
	}

	known := make(map[string]bool)
	for _, colors := range fragment.Colors {
		for _, c := range colors {
			if hex := domain.NormalizeHex(c.Hex); hex != "" {
				known[hex] = true
			}
		}
	}

	added := 0
	for _, rc := range recovered {
		hex := domain.NormalizeHex(rc.Hex)
		if hex == "" || known[hex] {
			continue
		}
		category := rc.Category
		if !domain.IsValidColorCategory(category) {
			category = domain.ColorCategoryPrimary
		}
		fragment.Colors[category] = append(fragment.Colors[category], domain.Color{
			Name: rc.Name,
			Hex:  hex,
		})
		known[hex] = true
		added++
	}

	if added > 0 {
		e.logger.InfoContext(ctx, "recovered additional colors", slog.Int("count", added))
	}
}

// parseFragment parses the model response into a fragment, degrading to an
// empty fragment when no valid JSON object is present.
func (e *Extractor) parseFragment(ctx context.Context, response string) *domain.BrandKnowledge {
	fragment := domain.NewBrandKnowledge()

	raw := extractJSON(response, '{', '}')
	if raw == "" {
		e.logger.WarnContext(ctx, "no JSON object in extraction response")
		return fragment
	}

	if err := json.Unmarshal([]byte(raw), fragment); err != nil {
		e.logger.WarnContext(ctx, "extraction response not parseable", slog.String("error", err.Error()))
		return domain.NewBrandKnowledge()
	}

	// A parsed fragment may omit the colors map or individual categories.
	if fragment.Colors == nil {
		fragment.Colors = map[string][]domain.Color{}
	}
	for _, cat := range domain.ColorCategories() {
		if fragment.Colors[cat] == nil {
			fragment.Colors[cat] = []domain.Color{}
		}
	}
	return fragment
}

// extractJSON returns the outermost opening..closing slice of the response,
// stripping markdown code fences first.
func extractJSON(response string, opening, closing byte) string {
	s := strings.TrimSpace(response)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		if i := strings.LastIndex(s, "```"); i >= 0 {
			s = s[:i]
		}
		s = strings.TrimSpace(s)
	}

	start := strings.IndexByte(s, opening)
	end := strings.LastIndexByte(s, closing)
	if start < 0 || end <= start {
		return ""
	}
	return s[start : end+1]
}
