// Command domforge converts captured web pages into page-builder
// export formats.
//
// Usage:
//
//	domforge -in page.html -target elementor          # one-shot, JSON to stdout
//	domforge -in snapshot.json -target gutenberg      # from a page snapshot
//	domforge -serve -listen :8470                     # HTTP conversion service
//	domforge -mcp                                     # MCP tools over stdio
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	_ "modernc.org/sqlite"

	"github.com/hazyhaar/domforge/convert"
	"github.com/hazyhaar/domforge/render"
	"github.com/hazyhaar/domforge/store"
	"github.com/hazyhaar/domforge/validate"
)

func main() {
	configPath := flag.String("config", "", "path to domforge.yaml config file")
	inPath := flag.String("in", "", "input file: raw HTML or a page snapshot (.json)")
	target := flag.String("target", "", "target builder: elementor, gutenberg, beaver, divi, bricks, oxygen")
	minConfidence := flag.Int("min-confidence", -1, "recognition confidence threshold 0-100")
	doValidate := flag.Bool("validate", false, "render and compare original vs converted output")
	dbPath := flag.String("db", "", "record runs in this SQLite database")
	serve := flag.Bool("serve", false, "run the HTTP conversion service")
	mcpMode := flag.Bool("mcp", false, "serve conversion tools over MCP stdio")
	listen := flag.String("listen", "", "listen address for -serve")
	logLevel := flag.String("log-level", "", "log level: debug, info, warn, error")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if *target != "" {
		cfg.Target = *target
	}
	if *minConfidence >= 0 {
		cfg.MinConfidence = *minConfidence
	}
	if *doValidate {
		cfg.Validate.Enabled = true
	}
	if *dbPath != "" {
		cfg.DB = *dbPath
	}
	if *listen != "" {
		cfg.Listen = *listen
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}

	var level slog.Level
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, logger, cfg, *inPath, *serve, *mcpMode); err != nil {
		logger.Error("domforge: fatal", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger, cfg *fileConfig, inPath string, serve, mcpMode bool) error {
	pipeline := convert.NewPipeline(convert.Config{Logger: logger})

	if mcpMode {
		srv := mcp.NewServer(&mcp.Implementation{
			Name:    "domforge",
			Version: "1.0.0",
		}, nil)
		pipeline.RegisterMCP(srv)
		return srv.Run(ctx, &mcp.StdioTransport{})
	}

	var st *store.Store
	if cfg.DB != "" {
		var err error
		st, err = store.Open(cfg.DB)
		if err != nil {
			return fmt.Errorf("open db: %w", err)
		}
		defer st.Close()
	}

	if serve {
		return runServer(ctx, logger, cfg, pipeline, st)
	}

	if inPath == "" {
		fmt.Fprintln(os.Stderr, "usage: domforge -in <file> -target <builder> | domforge -serve | domforge -mcp")
		os.Exit(1)
	}
	return runOnce(ctx, logger, cfg, pipeline, st, inPath)
}

func runOnce(ctx context.Context, logger *slog.Logger, cfg *fileConfig, pipeline *convert.Pipeline, st *store.Store, inPath string) error {
	raw, err := os.ReadFile(inPath)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	opts := cfg.options()
	var res *convert.Result
	if isSnapshot(inPath, raw) {
		res, err = pipeline.ConvertSnapshot(ctx, raw, opts)
	} else {
		res, err = pipeline.ConvertHTML(ctx, raw, opts)
	}
	if err != nil {
		return err
	}

	if cfg.Validate.Enabled {
		res.Validation, err = validateResult(ctx, logger, cfg, string(raw), res)
		if err != nil {
			logger.Warn("domforge: validation unavailable", "error", err)
		}
	}

	if st != nil {
		id, err := st.SaveResult(ctx, "", opts, res)
		if err != nil {
			logger.Warn("domforge: record run failed", "error", err)
		} else {
			logger.Info("domforge: run recorded", "run_id", id)
		}
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}

// validateResult spins up a browser, renders both documents and runs
// the comparison passes.
func validateResult(ctx context.Context, logger *slog.Logger, cfg *fileConfig, original string, res *convert.Result) (*validate.Result, error) {
	mgr := render.NewManager(render.Config{
		RemoteURL: cfg.Validate.RemoteURL,
		Logger:    logger,
	})
	if err := mgr.Start(ctx); err != nil {
		return nil, err
	}
	defer mgr.Close()

	v := validate.New(validate.Config{
		Renderer: render.NewRenderer(mgr),
		Logger:   logger,
	})
	return v.Validate(ctx, original, renderableHTML(res), validate.Options{
		CheckAssets: cfg.Validate.CheckAssets,
		ScanCode:    cfg.Validate.ScanCode,
	})
}

// renderableHTML produces an HTML document from the converted result
// for visual comparison. Gutenberg serializes to markup directly; other
// targets are compared through the source markup kept on each widget.
func renderableHTML(res *convert.Result) string {
	if exp, ok := res.ExportData.(*convert.GutenbergExport); ok {
		return "<html><body>" + exp.Serialized + "</body></html>"
	}
	var sb strings.Builder
	sb.WriteString("<html><body>")
	if res.Hierarchy != nil {
		for _, w := range res.Hierarchy.Widgets() {
			if m, ok := w.Props["markup"].(string); ok {
				sb.WriteString(m)
			} else if h, ok := w.Props["html"].(string); ok {
				sb.WriteString(h)
			}
		}
	}
	sb.WriteString("</body></html>")
	return sb.String()
}

// isSnapshot sniffs whether the input is a JSON page snapshot rather
// than raw HTML.
func isSnapshot(path string, raw []byte) bool {
	if strings.HasSuffix(path, ".json") {
		return true
	}
	trimmed := bytes.TrimLeft(raw, " \t\r\n")
	return len(trimmed) > 0 && trimmed[0] == '{'
}
