// Package brain is the gateway to the external reasoning service. It wraps a
// reasoning CLI subprocess behind a small Client interface and exposes two
// operations on top of it: structured classification of a thought, and
// free-form narration for digests. Both signal failure in-band; neither ever
// surfaces a service failure as an error the pipeline has to abort on.
package brain

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Client is a synchronous completion call against the reasoning service.
type Client interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// CLIClient implements Client by executing a reasoning CLI subprocess with
// `-p <prompt> --output-format json` and parsing the JSON envelope.
type CLIClient struct {
	command string
	model   string
	timeout time.Duration
	logger  *zap.Logger
}

// cliResponse is the JSON envelope emitted by the reasoning CLI.
type cliResponse struct {
	Result struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	} `json:"result"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// NewCLIClient creates a reasoning CLI client. Zero values fall back to the
// "claude" executable and a 120s timeout.
func NewCLIClient(command, model string, timeout time.Duration, logger *zap.Logger) *CLIClient {
	if command == "" {
		command = "claude"
	}
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CLIClient{command: command, model: model, timeout: timeout, logger: logger}
}

// Complete sends a prompt to the reasoning CLI and returns the completion text.
func (c *CLIClient) Complete(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	args := []string{"-p", prompt, "--output-format", "json"}
	if c.model != "" {
		args = append(args, "--model", c.model)
	}

	cmd := exec.CommandContext(ctx, c.command, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	c.logger.Debug("reasoning CLI call",
		zap.String("command", c.command),
		zap.Duration("elapsed", time.Since(start)),
		zap.Bool("failed", err != nil))

	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", fmt.Errorf("reasoning CLI timed out after %v: %w", c.timeout, ctx.Err())
		}
		if errors.Is(ctx.Err(), context.Canceled) {
			return "", fmt.Errorf("reasoning CLI call canceled: %w", ctx.Err())
		}
		return "", fmt.Errorf("reasoning CLI failed: %w (stderr: %s)", err, truncate(stderr.String(), 500))
	}

	return parseEnvelope(stdout.Bytes())
}

// parseEnvelope extracts the assistant text from the CLI's JSON envelope.
func parseEnvelope(data []byte) (string, error) {
	if len(data) == 0 {
		return "", errors.New("empty response from reasoning CLI")
	}

	var resp cliResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return "", fmt.Errorf("unmarshal reasoning CLI response: %w (raw: %s)", err, truncate(string(data), 500))
	}

	if resp.Error != nil {
		return "", fmt.Errorf("reasoning CLI error: %s (type: %s)", resp.Error.Message, resp.Error.Type)
	}

	var out strings.Builder
	for _, content := range resp.Result.Content {
		if content.Type == "text" {
			out.WriteString(content.Text)
		}
	}

	text := strings.TrimSpace(out.String())
	if text == "" {
		return "", errors.New("no text content in reasoning CLI response")
	}
	return text, nil
}

// truncate shortens a string to maxLen characters, adding "..." if cut.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
