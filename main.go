package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/gin-gonic/gin"

	"github.com/mcncl/contentjson/internal/config"
	"github.com/mcncl/contentjson/internal/content"
	"github.com/mcncl/contentjson/internal/errors"
	"github.com/mcncl/contentjson/internal/logging"
	"github.com/mcncl/contentjson/internal/lookup"
	"github.com/mcncl/contentjson/internal/models"
	"github.com/mcncl/contentjson/internal/orchestrator"
	"github.com/mcncl/contentjson/internal/parser"
	"github.com/mcncl/contentjson/internal/renderer"
	"github.com/mcncl/contentjson/internal/server"
)

// CLI defines the command-line interface
var CLI struct {
	Config     string           `help:"Path to config file. Defaults to .contentjson.yml in the current or a parent directory." short:"c" type:"path"`
	ContentDir string           `help:"Directory holding content documents. Overrides the config file." type:"path"`
	Debug      bool             `help:"Enable debug logging." short:"d"`
	Version    kong.VersionFlag `help:"Show version information." short:"v"`

	Render    RenderCmd    `cmd:"" help:"Render a content resource to JSON."`
	Lookup    LookupCmd    `cmd:"" help:"Resolve a path expression against a JSON document."`
	Serve     ServeCmd     `cmd:"" help:"Serve rendered content over HTTP."`
	Renderers RenderersCmd `cmd:"" help:"List the registered rendering strategies."`
}

// Context holds the runtime context shared by all commands
type Context struct {
	Config   *config.Config
	Logger   *slog.Logger
	Registry *renderer.Registry

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Version information
const (
	Version = "0.1.0"
)

func main() {
	// Parse CLI arguments with Kong
	kctx := kong.Parse(&CLI,
		kong.Name("contentjson"),
		kong.Description("Render structured multi-locale content as JSON"),
		kong.UsageOnError(),
		kong.Vars{"version": fmt.Sprintf("contentjson version %s", Version)},
	)

	ctx, err := newContext(CLI.Config, CLI.ContentDir, CLI.Debug, os.Stdin, os.Stdout, os.Stderr)
	if err == nil {
		err = kctx.Run(ctx)
	}
	if err != nil {
		// Use our custom error handling to provide user-friendly error messages
		fmt.Fprintf(os.Stderr, "%s\n", errors.UserFriendlyError(err))
		os.Exit(1)
	}
}

// newContext loads configuration and builds the shared runtime pieces
func newContext(configPath, contentDir string, debug bool, stdin io.Reader, stdout, stderr io.Writer) (*Context, error) {
	if configPath == "" {
		configPath = config.FindConfigFile()
	}
	cfg, err := config.LoadConfigWithCLI(configPath, contentDir, debug)
	if err != nil {
		return nil, errors.NewConfigError("failed to load configuration", err)
	}

	logger, err := logging.New(cfg.Logging, stderr)
	if err != nil {
		return nil, errors.NewConfigError("failed to create logger", err)
	}
	if configPath != "" {
		logger.Debug("configuration loaded", "path", configPath)
	}

	return &Context{
		Config:   cfg,
		Logger:   logger,
		Registry: renderer.NewDefaultRegistry(),
		Stdin:    stdin,
		Stdout:   stdout,
		Stderr:   stderr,
	}, nil
}

func (c *Context) newStore() *content.Store {
	return content.NewStore(c.Config.Content.Dir, c.Config.ContentTypes)
}

func (c *Context) newOrchestrator() *orchestrator.Orchestrator {
	return orchestrator.New(
		orchestrator.WithRegistry(c.Registry),
		orchestrator.WithDiagnostics(c.Logger),
		orchestrator.WithPropertyFilter(c.Config.PropertyAllowed),
		orchestrator.WithBaseURL(c.Config.Server.BaseURL),
	)
}

// RenderCmd renders one resource through the orchestrator
type RenderCmd struct {
	Resource string `arg:"" help:"Resource path under the content directory, e.g. news/a."`
	Locale   string `help:"Locale to render. Without it every locale is rendered together with resource metadata." short:"l"`
	Path     string `help:"Path expression into the rendered locale, e.g. Teaser/0/Headline. Requires --locale." short:"p"`
	Output   string `help:"Path to output JSON file. If not specified, writes to stdout." short:"o" type:"path"`
}

// Run executes the render command
func (cmd *RenderCmd) Run(ctx *Context) error {
	doc, err := ctx.newStore().Open(cmd.Resource)
	if err != nil {
		return err
	}

	params := make(map[string]string)
	if cmd.Locale != "" {
		params[orchestrator.ParamLocale] = cmd.Locale
	}
	if cmd.Path != "" {
		params[orchestrator.ParamPath] = cmd.Path
	}

	res := ctx.newOrchestrator().Render(orchestrator.Request{
		Resource:   cmd.Resource,
		Content:    doc,
		Metadata:   doc,
		Parameters: params,
	})
	if !res.OK() {
		return resultError(res)
	}
	return writeOutput(ctx, cmd.Output, res.Payload)
}

// resultError turns a failed result into the matching application error
func resultError(res orchestrator.Result) error {
	switch res.Status {
	case orchestrator.StatusBadRequest:
		return errors.NewUsageError(res.Message, nil)
	case orchestrator.StatusNotFound:
		return errors.NewNotFoundError(res.Message, nil)
	default:
		return errors.NewRenderError(res.Message, nil)
	}
}

// LookupCmd runs the path resolver over an arbitrary JSON document
type LookupCmd struct {
	Input       string `help:"Path to input JSON file. If not specified, reads from stdin." short:"i" type:"path"`
	Path        string `help:"Path expression, e.g. items[0]/name. Empty returns the whole document." short:"p"`
	Output      string `help:"Path to output JSON file. If not specified, writes to stdout." short:"o" type:"path"`
	Interactive bool   `help:"Run in interactive mode, allowing direct JSON input with Ctrl+D to process." short:"I"`
}

// Run executes the lookup command
func (cmd *LookupCmd) Run(ctx *Context) error {
	// 1. Parse JSON input
	root, err := cmd.parseInput(ctx)
	if err != nil {
		// Error is already wrapped by parseInput
		return err
	}

	// 2. Resolve the path
	value, err := lookup.Resolve(root, cmd.Path)
	if err != nil {
		return err
	}

	// 3. Output the result
	return writeOutput(ctx, cmd.Output, value)
}

// parseInput reads JSON from file or stdin
func (cmd *LookupCmd) parseInput(ctx *Context) (models.JSONValue, error) {
	if cmd.Input != "" {
		// Parse from file
		return parser.ParseFile(cmd.Input)
	}

	// Check if stdin is a terminal
	if f, ok := ctx.Stdin.(*os.File); ok {
		stdinInfo, err := f.Stat()
		if err != nil {
			return nil, errors.NewInputError("failed to access stdin", err)
		}

		if (stdinInfo.Mode() & os.ModeCharDevice) != 0 {
			// Terminal is interactive (not piped)
			if cmd.Interactive {
				return readInteractiveInput(ctx)
			}
			// No data provided on stdin and not in interactive mode
			return nil, errors.NewInputError("no input provided", errors.ErrNoInput)
		}
	}

	// Read from stdin (piped input)
	jsonData, err := io.ReadAll(ctx.Stdin)
	if err != nil {
		return nil, errors.NewInputError("failed to read from stdin", err)
	}

	if len(jsonData) == 0 {
		return nil, errors.NewInputError("empty input received from stdin", errors.ErrEmptyInput)
	}

	return parser.ParseString(string(jsonData))
}

// readInteractiveInput provides an interactive mode for users to paste JSON
// and signal completion with Ctrl+D (EOF)
func readInteractiveInput(ctx *Context) (models.JSONValue, error) {
	fmt.Fprintln(ctx.Stderr, "contentjson Interactive Mode")
	fmt.Fprintln(ctx.Stderr, "Paste your JSON below and press Ctrl+D (or Ctrl+Z on Windows) when done:")

	// Read all input until EOF (Ctrl+D)
	reader := bufio.NewReader(ctx.Stdin)
	var jsonBuilder strings.Builder

	for {
		line, err := reader.ReadString('\n')
		jsonBuilder.WriteString(line)
		if err == io.EOF {
			// End of input
			break
		}
		if err != nil {
			return nil, errors.NewInputError("error reading input", err)
		}
	}

	jsonData := jsonBuilder.String()
	if len(jsonData) == 0 {
		return nil, errors.NewInputError("empty input received", errors.ErrEmptyInput)
	}

	fmt.Fprintln(ctx.Stderr, "\nProcessing JSON...")
	return parser.ParseString(jsonData)
}

// ServeCmd starts the HTTP adapter
type ServeCmd struct {
	Listen  string `help:"Address to listen on. Overrides server.listen." short:"l"`
	BaseURL string `help:"Base URL for absolute links. Overrides server.base_url." name:"base-url"`
}

// Run executes the serve command until interrupted
func (cmd *ServeCmd) Run(ctx *Context) error {
	if cmd.Listen != "" {
		ctx.Config.Server.Listen = cmd.Listen
	}
	if cmd.BaseURL != "" {
		ctx.Config.Server.BaseURL = cmd.BaseURL
	}
	if ctx.Config.Logging.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	store := ctx.newStore()
	router := server.NewRouter(store, ctx.newOrchestrator(), ctx.Registry, ctx.Logger)
	ctx.Logger.Info("serving content", "dir", store.Dir(), "listen", ctx.Config.Server.Listen)

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.Run(sigCtx, ctx.Config.Server.Listen, router, ctx.Logger); err != nil {
		return errors.NewOutputError("server stopped", err)
	}
	return nil
}

// RenderersCmd lists the registered strategies
type RenderersCmd struct {
	Name string `arg:"" optional:"" help:"Only check that this strategy is registered."`
}

// Run executes the renderers command
func (cmd *RenderersCmd) Run(ctx *Context) error {
	names := ctx.Registry.List()
	if cmd.Name != "" {
		if !ctx.Registry.Has(cmd.Name) {
			return errors.NewNotFoundError(fmt.Sprintf("renderer '%s' is not registered", cmd.Name), errors.ErrUnknownRenderer)
		}
		names = []string{cmd.Name}
	}
	for _, name := range names {
		if _, err := fmt.Fprintln(ctx.Stdout, name); err != nil {
			return errors.NewOutputError("failed to write to stdout", err)
		}
	}
	return nil
}

// writeOutput writes indented JSON to a file or stdout
func writeOutput(ctx *Context, output string, value models.JSONValue) error {
	data, err := models.MarshalIndent(value)
	if err != nil {
		return errors.NewOutputError("failed to encode JSON", err)
	}

	if output != "" {
		// Write to file
		err := os.WriteFile(output, append(data, '\n'), 0644)
		if err != nil {
			return errors.NewOutputError(fmt.Sprintf("failed to write to file '%s'", output), err)
		}
		fmt.Fprintf(ctx.Stderr, "JSON written to %s\n", output)
		return nil
	}

	// Write to stdout
	_, err = fmt.Fprintln(ctx.Stdout, strings.TrimSpace(string(data)))
	if err != nil {
		return errors.NewOutputError("failed to write to stdout", err)
	}
	return nil
}
