package convert

import (
	"context"
	"encoding/json"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hazyhaar/domforge/kit"
)

// RegisterMCP registers conversion tools on an MCP server.
func (p *Pipeline) RegisterMCP(srv *mcp.Server) {
	p.registerConvertTool(srv)
	p.registerRecognizeTool(srv)
	p.registerTargetsTool(srv)
}

func inputSchema(properties map[string]any, required []string) map[string]any {
	s := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		s["required"] = required
	}
	return s
}

// --- convert ---

type convertRequest struct {
	HTML           string `json:"html"`
	Target         string `json:"target"`
	MinConfidence  int    `json:"min_confidence,omitempty"`
	FallbackToHTML *bool  `json:"fallback_to_html,omitempty"`
}

func (p *Pipeline) registerConvertTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "domforge_convert",
		Description: "Convert an HTML page into a page builder's native format. Returns the export payload, component list, fallbacks and stats.",
		InputSchema: inputSchema(map[string]any{
			"html":            map[string]any{"type": "string", "description": "Raw HTML of the page to convert"},
			"target":          map[string]any{"type": "string", "enum": []any{"elementor", "gutenberg", "beaver", "divi", "bricks", "oxygen"}, "description": "Target builder"},
			"min_confidence":  map[string]any{"type": "integer", "description": "Recognition confidence threshold 0-100 (default 70)"},
			"fallback_to_html": map[string]any{"type": "boolean", "description": "Degrade unrecognized nodes to HTML widgets (default true)"},
		}, []string{"html", "target"}),
	}

	endpoint := func(ctx context.Context, req any) (any, error) {
		rr := req.(*convertRequest)
		opts := Options{
			Target:         Target(rr.Target),
			MinConfidence:  rr.MinConfidence,
			FallbackToHTML: true,
		}
		if opts.MinConfidence == 0 {
			opts.MinConfidence = 70
		}
		if rr.FallbackToHTML != nil {
			opts.FallbackToHTML = *rr.FallbackToHTML
		}
		return p.ConvertHTML(ctx, []byte(rr.HTML), opts)
	}

	decode := func(req *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		var rr convertRequest
		if err := json.Unmarshal(req.Params.Arguments, &rr); err != nil {
			return nil, err
		}
		return &kit.MCPDecodeResult{Request: &rr}, nil
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decode)
}

// --- recognize ---

type recognizeRequest struct {
	HTML          string `json:"html"`
	MinConfidence int    `json:"min_confidence,omitempty"`
}

func (p *Pipeline) registerRecognizeTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "domforge_recognize",
		Description: "Classify the components of an HTML page without converting. Returns the recognized tree with confidence scores.",
		InputSchema: inputSchema(map[string]any{
			"html":           map[string]any{"type": "string", "description": "Raw HTML to classify"},
			"min_confidence": map[string]any{"type": "integer", "description": "Confidence threshold 0-100 (default 70)"},
		}, []string{"html"}),
	}

	endpoint := func(ctx context.Context, req any) (any, error) {
		rr := req.(*recognizeRequest)
		min := rr.MinConfidence
		if min == 0 {
			min = 70
		}
		return p.Recognize(ctx, []byte(rr.HTML), min)
	}

	decode := func(req *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		var rr recognizeRequest
		if err := json.Unmarshal(req.Params.Arguments, &rr); err != nil {
			return nil, err
		}
		return &kit.MCPDecodeResult{Request: &rr}, nil
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decode)
}

// --- targets ---

func (p *Pipeline) registerTargetsTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "domforge_targets",
		Description: "List supported page builder targets.",
		InputSchema: inputSchema(map[string]any{}, nil),
	}

	endpoint := func(_ context.Context, _ any) (any, error) {
		return map[string]any{"targets": Targets()}, nil
	}

	decode := func(_ *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		return &kit.MCPDecodeResult{Request: nil}, nil
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decode)
}
