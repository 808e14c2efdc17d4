package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/hpungsan/fern/internal/brain"
	"github.com/hpungsan/fern/internal/config"
	"github.com/hpungsan/fern/internal/digest"
	"github.com/hpungsan/fern/internal/mcp"
	"github.com/hpungsan/fern/internal/ops"
	"github.com/hpungsan/fern/internal/store"
)

// Version is set via -ldflags at build time.
var Version = "dev"

// cliCommands contains known CLI subcommands.
var cliCommands = map[string]bool{
	"capture": true, "stats": true, "review": true, "actions": true,
	"digest": true, "weekly": true, "fix": true,
	"schedule": true, "web": true,
	"help": true,
}

// isCLIMode determines if we should run CLI vs MCP server.
func isCLIMode() bool {
	if len(os.Args) < 2 {
		return false // No args → MCP server
	}
	arg := os.Args[1]
	// Known subcommand → CLI
	if cliCommands[arg] {
		return true
	}
	// --help or --version → CLI
	if arg == "--help" || arg == "-h" || arg == "--version" || arg == "-v" {
		return true
	}
	return false // Default → MCP server
}

// isHelpOrVersion returns true if the user is requesting help or version info.
func isHelpOrVersion() bool {
	if len(os.Args) < 2 {
		return false
	}
	arg := os.Args[1]
	return arg == "--help" || arg == "-h" || arg == "--version" || arg == "-v" || arg == "help"
}

// isTerminal returns true if stdin is a terminal (not piped).
func isTerminal() bool {
	stat, _ := os.Stdin.Stat()
	return (stat.Mode() & os.ModeCharDevice) != 0
}

// printBanner displays a friendly banner when run interactively without args.
func printBanner() {
	fmt.Println(`
   __
  / _| ___ _ __ _ __
 | |_ / _ \ '__| '_ \
 |  _|  __/ |  | | | |
 |_|  \___|_|  |_| |_|

  Thought inbox: capture, classify, digest

  Usage: fern <command> [options]
         fern --help

  MCP server mode requires piped input.`)
}

// newLogger builds the process logger. Logs go to stderr so CLI JSON output
// stays clean on stdout.
func newLogger() *zap.Logger {
	logger, err := zap.NewProduction()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

// buildDeps wires the store, classifier gateway, and digest generator from
// configuration.
func buildDeps(baseDir string, cfg *config.Config, logger *zap.Logger) (*ops.Deps, *digest.Generator) {
	dataDir := cfg.DataDir
	if dataDir == "" {
		dataDir = filepath.Join(baseDir, "inbox")
	}

	client := brain.NewCLIClient(
		cfg.ClassifierCommand,
		cfg.ClassifierModel,
		time.Duration(cfg.ClassifierTimeoutSecs)*time.Second,
		logger,
	)
	gateway := brain.NewGateway(client, logger)

	deps := ops.NewDeps(store.New(dataDir, logger), cfg, gateway, logger)
	return deps, digest.NewGenerator(deps, gateway, logger)
}

func main() {
	// No args + interactive terminal → show banner and exit
	if len(os.Args) < 2 && isTerminal() {
		printBanner()
		return
	}

	// Handle --help/--version before wiring (no store needed)
	if isHelpOrVersion() {
		app := newCLIApp(nil, nil)
		if err := app.Run(os.Args); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: could not determine home directory: %v\n", err)
		os.Exit(1)
	}

	baseDir := filepath.Join(homeDir, ".fern")

	cfg, err := config.Load(baseDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := newLogger()
	defer func() { _ = logger.Sync() }()

	deps, gen := buildDeps(baseDir, cfg, logger)

	// CLI mode: known subcommand
	if isCLIMode() {
		app := newCLIApp(deps, gen)
		if err := app.Run(os.Args); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	// Unknown argument + terminal → show error (don't start MCP server)
	if len(os.Args) >= 2 && isTerminal() {
		fmt.Fprintf(os.Stderr, "error: unknown command %q\n", os.Args[1])
		fmt.Fprintf(os.Stderr, "Run 'fern --help' for usage.\n")
		os.Exit(1)
	}

	// MCP server mode (default)
	if err := mcp.Run(deps, gen, Version); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
