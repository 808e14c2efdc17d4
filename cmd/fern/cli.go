package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/hpungsan/fern/internal/digest"
	"github.com/hpungsan/fern/internal/document"
	"github.com/hpungsan/fern/internal/errors"
	"github.com/hpungsan/fern/internal/ops"
	"github.com/hpungsan/fern/internal/schedule"
	"github.com/hpungsan/fern/internal/web"
)

// newCLIApp creates the CLI application with all commands.
func newCLIApp(deps *ops.Deps, gen *digest.Generator) *cli.App {
	app := &cli.App{
		Name:    "fern",
		Usage:   "Thought inbox: capture, classify, digest",
		Version: Version,
		Commands: []*cli.Command{
			captureCmd(deps),
			statsCmd(deps),
			reviewCmd(deps),
			actionsCmd(deps),
			digestCmd(gen),
			weeklyCmd(gen),
			fixCmd(deps),
			scheduleCmd(deps, gen),
			webCmd(deps, gen),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// captureCmd creates the capture command.
func captureCmd(deps *ops.Deps) *cli.Command {
	return &cli.Command{
		Name:      "capture",
		Usage:     "Capture a thought (argument or stdin) and file it by classification",
		ArgsUsage: "[thought]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "user", Aliases: []string{"u"}, Usage: "User identifier for the audit log"},
		},
		Action: func(c *cli.Context) error {
			thought := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
			if thought == "" && stdinHasData() {
				text, err := readStdin()
				if err != nil {
					return outputError(errors.NewInternal(err))
				}
				thought = text
			}
			if thought == "" {
				return outputError(errors.NewInvalidRequest("thought is required (argument or stdin)"))
			}

			output, err := ops.Capture(context.Background(), deps, ops.CaptureInput{
				Thought: thought,
				UserID:  c.String("user"),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// statsCmd creates the stats command.
func statsCmd(deps *ops.Deps) *cli.Command {
	return &cli.Command{
		Name:  "stats",
		Usage: "Show inbox statistics",
		Action: func(c *cli.Context) error {
			return outputJSON(ops.Stats(deps))
		},
	}
}

// reviewCmd creates the review command.
func reviewCmd(deps *ops.Deps) *cli.Command {
	return &cli.Command{
		Name:  "review",
		Usage: "List captures waiting in the needs-review holding area",
		Action: func(c *cli.Context) error {
			return outputJSON(map[string]any{
				"items": summarize(ops.NeedsReview(deps)),
			})
		},
	}
}

// actionsCmd creates the actions command.
func actionsCmd(deps *ops.Deps) *cli.Command {
	return &cli.Command{
		Name:  "actions",
		Usage: "Show the top prioritized actionable items",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Usage: "Maximum items to return (default: configured digest limit)"},
		},
		Action: func(c *cli.Context) error {
			return outputJSON(map[string]any{
				"actions": summarize(ops.DailyActions(deps, c.Int("limit"))),
			})
		},
	}
}

// digestCmd creates the digest command.
func digestCmd(gen *digest.Generator) *cli.Command {
	return &cli.Command{
		Name:  "digest",
		Usage: "Generate the daily digest",
		Action: func(c *cli.Context) error {
			fmt.Println(gen.Daily(context.Background()))
			return nil
		},
	}
}

// weeklyCmd creates the weekly command.
func weeklyCmd(gen *digest.Generator) *cli.Command {
	return &cli.Command{
		Name:  "weekly",
		Usage: "Generate the weekly review",
		Action: func(c *cli.Context) error {
			fmt.Println(gen.Weekly(context.Background()))
			return nil
		},
	}
}

// fixCmd creates the fix command.
func fixCmd(deps *ops.Deps) *cli.Command {
	return &cli.Command{
		Name:      "fix",
		Usage:     "Move a capture to a different category",
		ArgsUsage: "<category>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "file", Aliases: []string{"f"}, Usage: "Document filename (default: the user's most recent capture)"},
			&cli.StringFlag{Name: "user", Aliases: []string{"u"}, Usage: "User identifier for audit-log resolution"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return outputError(errors.NewInvalidRequest(
					fmt.Sprintf("category is required; valid categories: %v", document.CategoryNames())))
			}

			output, err := ops.Fix(deps, ops.FixInput{
				NewCategory: c.Args().First(),
				Filename:    c.String("file"),
				UserID:      c.String("user"),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// scheduleCmd creates the schedule command, which runs the digest scheduler
// in the foreground with a stdout notifier.
func scheduleCmd(deps *ops.Deps, gen *digest.Generator) *cli.Command {
	return &cli.Command{
		Name:  "schedule",
		Usage: "Run the daily/weekly digest scheduler in the foreground",
		Action: func(c *cli.Context) error {
			s := schedule.New(deps.Config, gen, stdoutNotifier{}, deps.Logger)
			s.Start()
			defer s.Stop()

			for job, at := range s.NextRuns() {
				fmt.Printf("%s: next run %s\n", job, at.Format(time.RFC1123))
			}

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			<-sigCh
			return nil
		},
	}
}

// webCmd creates the web command.
func webCmd(deps *ops.Deps, gen *digest.Generator) *cli.Command {
	return &cli.Command{
		Name:  "web",
		Usage: "Serve the read-only dashboard",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "bind", Value: "127.0.0.1", Usage: "Bind address"},
			&cli.IntFlag{Name: "port", Aliases: []string{"p"}, Value: 8765, Usage: "Listen port"},
		},
		Action: func(c *cli.Context) error {
			srv := web.NewServer(deps, gen, Version, c.String("bind"), c.Int("port"))
			return web.Run(srv)
		},
	}
}

// stdoutNotifier delivers scheduled digests to standard output.
type stdoutNotifier struct{}

func (stdoutNotifier) Deliver(target, text string) error {
	if target != "" {
		fmt.Printf("[%s]\n", target)
	}
	fmt.Println(text)
	return nil
}

// Helper functions

// docSummary is the CLI JSON shape for a stored document.
type docSummary struct {
	Filename    string  `json:"filename"`
	Category    string  `json:"category"`
	Title       string  `json:"title"`
	Confidence  float64 `json:"confidence"`
	Created     string  `json:"created"`
	NeedsReview bool    `json:"needs_review"`
}

func summarize(docs []document.Document) []docSummary {
	out := make([]docSummary, len(docs))
	for i, doc := range docs {
		out[i] = docSummary{
			Filename:    doc.Filename,
			Category:    string(doc.Category),
			Title:       doc.Title,
			Confidence:  doc.Confidence,
			Created:     doc.Created.Format(time.RFC3339),
			NeedsReview: doc.NeedsReview,
		}
	}
	return out
}

// outputJSON marshals result to stdout as JSON.
func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	if fernErr, ok := err.(*errors.FernError); ok {
		return cli.Exit(fmt.Sprintf("[%s] %s", fernErr.Code, fernErr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}

// stdinHasData returns true if stdin has piped data (not a terminal).
func stdinHasData() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}

// readStdin reads all content from stdin.
func readStdin() (string, error) {
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}
