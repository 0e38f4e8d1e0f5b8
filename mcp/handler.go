package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/foomo/globalcontent-mcp/render"
	"github.com/foomo/globalcontent-mcp/schema"
	"github.com/foomo/globalcontent-mcp/service"
	"github.com/foomo/globalcontent-mcp/service/vo"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"
	"golang.org/x/net/html"
)

const Version = "0.1.0"

type Format string

const (
	FormatJSON     Format = "json"
	FormatHTML     Format = "html"
	FormatMarkdown Format = "markdown"
)

type ValidateRequest struct {
	Payload  string `json:"payload"`  // JSON encoded content object
	FailFast bool   `json:"failFast"` // Report the first failure only
}

type ValidateResponse struct {
	Valid  bool                 `json:"valid"`
	Value  any                  `json:"value,omitempty"`  // The validated value
	Issues []vo.ValidationIssue `json:"issues,omitempty"` // One entry per failure
}

type GetContentRequest struct {
	Format Format `json:"format"` // json, html or markdown
}

type GetContentResponse struct {
	Header   *vo.GlobalPageHeader `json:"header,omitempty"`
	Footer   *vo.GlobalPageFooter `json:"footer,omitempty"`
	Rendered string               `json:"rendered,omitempty"` // HTML or markdown preview
}

// NewServer creates a new MCP server with the validation tools and, when a
// service is given, the tools reading global content from the CMS.
func NewServer(logger *zap.Logger, serviceInstance service.Service) *server.MCPServer {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := server.NewMCPServer(
		"Global Content MCP",
		Version,
		server.WithToolCapabilities(false),
	)

	for kind, description := range map[service.Kind]string{
		service.KindHeader: "Validate a global page header (logo, navItems, cta) given as JSON",
		service.KindFooter: "Validate a global page footer (logo, navItems, socialLinks, text) given as JSON",
		service.KindGlobal: "Validate an object with both header and footer given as JSON",
	} {
		tool := mcp.NewTool(validateToolName(kind),
			mcp.WithDescription(description),
			mcp.WithString("payload",
				mcp.Required(),
				mcp.Description("The JSON encoded content object"),
			),
			mcp.WithBoolean("failFast",
				mcp.Description("Stop at the first failure instead of reporting all of them"),
			),
		)
		s.AddTool(tool, mcp.NewTypedToolHandler(getValidateHandler(kind)))
	}

	if serviceInstance != nil {
		for kind, description := range map[service.Kind]string{
			service.KindHeader: "Get the validated global page header from the CMS",
			service.KindFooter: "Get the validated global page footer from the CMS",
		} {
			tool := mcp.NewTool(getToolName(kind),
				mcp.WithDescription(description),
				mcp.WithString("format",
					mcp.Description("Response format: json (default), html or markdown preview"),
					mcp.Enum(string(FormatJSON), string(FormatHTML), string(FormatMarkdown)),
				),
			)
			s.AddTool(tool, mcp.NewTypedToolHandler(getContentHandler(logger, serviceInstance, kind)))
		}
	}

	return s
}

func validateToolName(kind service.Kind) string {
	return "validate" + capitalize(string(kind))
}

func getToolName(kind service.Kind) string {
	return "getGlobal" + capitalize(string(kind))
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// Validate checks a JSON payload for the given kind. Schema failures are a
// regular response; only undecodable input is an error.
func Validate(kind service.Kind, args ValidateRequest) (*ValidateResponse, error) {
	v, err := schema.Decode(strings.NewReader(args.Payload))
	if err != nil {
		return nil, err
	}
	var opts []schema.Option
	if args.FailFast {
		opts = append(opts, schema.WithFailFast())
	}

	var value any
	switch kind {
	case service.KindHeader:
		value, err = schema.ParseGlobalPageHeader(v, opts...)
	case service.KindFooter:
		value, err = schema.ParseGlobalPageFooter(v, opts...)
	case service.KindGlobal:
		value, err = schema.ParseGlobalPage(v, opts...)
	default:
		return nil, fmt.Errorf("unknown content kind %q", kind)
	}
	if err != nil {
		if !schema.IsValidationError(err) {
			return nil, err
		}
		return &ValidateResponse{Valid: false, Issues: schema.Issues(err)}, nil
	}
	return &ValidateResponse{Valid: true, Value: value}, nil
}

func getValidateHandler(kind service.Kind) func(ctx context.Context, request mcp.CallToolRequest, args ValidateRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest, args ValidateRequest) (*mcp.CallToolResult, error) {
		if args.Payload == "" {
			return mcp.NewToolResultError("payload is required"), nil
		}

		response, err := Validate(kind, args)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to validate %s: %v", kind, err)), nil
		}
		return jsonResult(response)
	}
}

func getContentHandler(logger *zap.Logger, serviceInstance service.Service, kind service.Kind) func(ctx context.Context, request mcp.CallToolRequest, args GetContentRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest, args GetContentRequest) (*mcp.CallToolResult, error) {
		if args.Format == "" {
			args.Format = FormatJSON
		}
		if req, ok := httpRequestFromContext(ctx); ok {
			logger.Debug("tool call over HTTP", zap.String("tool", getToolName(kind)), zap.String("remoteAddr", req.RemoteAddr))
		}

		var (
			response GetContentResponse
			node     *html.Node
		)
		switch kind {
		case service.KindHeader:
			header, err := serviceInstance.GetGlobalHeader(ctx)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("failed to get global header: %v", err)), nil
			}
			response.Header = header
			node = render.HeaderNode(*header)
		case service.KindFooter:
			footer, err := serviceInstance.GetGlobalFooter(ctx)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("failed to get global footer: %v", err)), nil
			}
			response.Footer = footer
			node = render.FooterNode(*footer)
		}

		rendered, err := renderNode(node, args.Format)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		response.Rendered = rendered
		return jsonResult(response)
	}
}

func renderNode(node *html.Node, format Format) (string, error) {
	switch format {
	case FormatJSON:
		return "", nil
	case FormatHTML:
		return render.HTML(node)
	case FormatMarkdown:
		md, err := render.Markdown(node)
		return string(md), err
	}
	return "", fmt.Errorf("unknown format %q", format)
}

func jsonResult(response any) (*mcp.CallToolResult, error) {
	responseBytes, err := json.Marshal(response)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(responseBytes)), nil
}
