// Package mcp exposes a brand's merged knowledge to AI assistants through a
// per-brand Model Context Protocol endpoint. All tools are read-only lookups
// over the merged knowledge; the server holds no per-session state.
package mcp

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/espengetz/brandprotocol/internal/domain"
	"github.com/espengetz/brandprotocol/internal/knowledge"
)

const (
	serverName    = "brand-guidelines"
	serverVersion = "1.0.0"
)

// KnowledgeProvider returns the merged knowledge for a brand. Satisfied by
// service.KnowledgeService.
type KnowledgeProvider interface {
	GetKnowledge(ctx context.Context, brandID string) (*domain.BrandKnowledge, error)
}

// Handler serves MCP requests under /mcp/{brandId}. Each request gets a fresh
// stateless server instance bound to the brand in the path.
type Handler struct {
	knowledge KnowledgeProvider
	logger    *slog.Logger
}

// NewHandler creates the MCP handler.
func NewHandler(provider KnowledgeProvider, logger *slog.Logger) *Handler {
	return &Handler{knowledge: provider, logger: logger}
}

// ServeHTTP dispatches to a per-brand MCP server.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	brandID := chi.URLParam(r, "brandId")
	if brandID == "" {
		http.NotFound(w, r)
		return
	}

	srv := h.buildServer(brandID)
	server.NewStreamableHTTPServer(srv, server.WithStateLess(true)).ServeHTTP(w, r)
}

// buildServer assembles the six lookup tools for one brand.
func (h *Handler) buildServer(brandID string) *server.MCPServer {
	srv := server.NewMCPServer(serverName, serverVersion, server.WithToolCapabilities(false))

	srv.AddTool(
		mcplib.NewTool("get_brand_guidelines",
			mcplib.WithDescription("Get the complete brand guidelines: colors, typography, logo usage, voice, and messaging."),
		),
		h.guidelinesTool(brandID),
	)

	srv.AddTool(
		mcplib.NewTool("get_brand_color",
			mcplib.WithDescription("Get the brand colors for a specific category."),
			mcplib.WithString("category",
				mcplib.Required(),
				mcplib.Description("Color category to look up."),
				mcplib.Enum(domain.ColorCategories()...),
			),
		),
		h.colorTool(brandID),
	)

	srv.AddTool(
		mcplib.NewTool("check_brand_compliance",
			mcplib.WithDescription("Check whether a color or font complies with the brand guidelines."),
			mcplib.WithString("type",
				mcplib.Required(),
				mcplib.Description("What to check."),
				mcplib.Enum("color", "font"),
			),
			mcplib.WithString("value",
				mcplib.Required(),
				mcplib.Description("The hex color or font name to check."),
			),
		),
		h.complianceTool(brandID),
	)

	srv.AddTool(
		mcplib.NewTool("get_voice_guidelines",
			mcplib.WithDescription("Get the brand voice and tone guidelines."),
		),
		h.voiceTool(brandID),
	)

	srv.AddTool(
		mcplib.NewTool("get_logo_guidelines",
			mcplib.WithDescription("Get the logo usage guidelines."),
		),
		h.logoTool(brandID),
	)

	srv.AddTool(
		mcplib.NewTool("get_typography",
			mcplib.WithDescription("Get the brand typography: fonts and hierarchy."),
		),
		h.typographyTool(brandID),
	)

	return srv
}

func (h *Handler) lookup(ctx context.Context, brandID string) (*domain.BrandKnowledge, *mcplib.CallToolResult) {
	bk, err := h.knowledge.GetKnowledge(ctx, brandID)
	if err != nil {
		h.logger.ErrorContext(ctx, "mcp knowledge lookup failed",
			slog.String("brand_id", brandID),
			slog.String("error", err.Error()),
		)
		return nil, mcplib.NewToolResultError("failed to load brand knowledge: " + err.Error())
	}
	return bk, nil
}

func (h *Handler) guidelinesTool(brandID string) server.ToolHandlerFunc {
	return func(ctx context.Context, _ mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		bk, errResult := h.lookup(ctx, brandID)
		if errResult != nil {
			return errResult, nil
		}
		return mcplib.NewToolResultText(knowledge.FormatGuidelines(bk)), nil
	}
}

func (h *Handler) colorTool(brandID string) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		category, err := req.RequireString("category")
		if err != nil {
			return mcplib.NewToolResultError(err.Error()), nil
		}
		if !domain.IsValidColorCategory(category) {
			return mcplib.NewToolResultError("unknown color category: " + category), nil
		}

		bk, errResult := h.lookup(ctx, brandID)
		if errResult != nil {
			return errResult, nil
		}
		return mcplib.NewToolResultText(knowledge.FormatColors(bk, category)), nil
	}
}

func (h *Handler) complianceTool(brandID string) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		checkType, err := req.RequireString("type")
		if err != nil {
			return mcplib.NewToolResultError(err.Error()), nil
		}
		value, err := req.RequireString("value")
		if err != nil {
			return mcplib.NewToolResultError(err.Error()), nil
		}

		bk, errResult := h.lookup(ctx, brandID)
		if errResult != nil {
			return errResult, nil
		}

		switch checkType {
		case "color":
			return mcplib.NewToolResultText(knowledge.CheckColorCompliance(bk, value)), nil
		case "font":
			return mcplib.NewToolResultText(knowledge.CheckFontCompliance(bk, value)), nil
		default:
			return mcplib.NewToolResultError("unknown compliance type: " + checkType), nil
		}
	}
}

func (h *Handler) voiceTool(brandID string) server.ToolHandlerFunc {
	return func(ctx context.Context, _ mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		bk, errResult := h.lookup(ctx, brandID)
		if errResult != nil {
			return errResult, nil
		}
		return mcplib.NewToolResultText(knowledge.FormatVoice(bk)), nil
	}
}

func (h *Handler) logoTool(brandID string) server.ToolHandlerFunc {
	return func(ctx context.Context, _ mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		bk, errResult := h.lookup(ctx, brandID)
		if errResult != nil {
			return errResult, nil
		}
		return mcplib.NewToolResultText(knowledge.FormatLogo(bk)), nil
	}
}

func (h *Handler) typographyTool(brandID string) server.ToolHandlerFunc {
	return func(ctx context.Context, _ mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		bk, errResult := h.lookup(ctx, brandID)
		if errResult != nil {
			return errResult, nil
		}
		return mcplib.NewToolResultText(knowledge.FormatTypography(bk)), nil
	}
}
