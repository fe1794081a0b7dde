// Package manim wraps the external Manim CLI renderer.
package manim

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"sceneforge/internal/services"
)

var commandContext = exec.CommandContext

// readyMarker announces the produced media file in Manim's output.
const readyMarker = "File ready at"

// Client invokes the manim binary to render generated scripts.
type Client struct {
	binary     string
	scriptsDir string
	mediaDir   string
	timeout    time.Duration
}

// Option configures the client.
type Option func(*Client)

// WithTimeout bounds a single render invocation.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// New constructs a renderer client.
func New(binary, scriptsDir, mediaDir string, opts ...Option) (*Client, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("manim binary required")
	}
	if strings.TrimSpace(scriptsDir) == "" {
		return nil, errors.New("scripts directory required")
	}
	if strings.TrimSpace(mediaDir) == "" {
		return nil, errors.New("media directory required")
	}
	client := &Client{
		binary:     binary,
		scriptsDir: scriptsDir,
		mediaDir:   mediaDir,
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Render persists sourceCode to a script file named after sceneName and
// runs the renderer on it. Re-rendering the same scene name replaces its
// script. On success the produced media path is returned; a zero exit that
// never announces an output file is still a failure.
func (c *Client) Render(ctx context.Context, sourceCode, sceneName, quality string) (string, error) {
	if strings.TrimSpace(sourceCode) == "" {
		return "", errors.New("source code required")
	}
	if strings.TrimSpace(sceneName) == "" {
		return "", errors.New("scene name required")
	}

	if _, err := exec.LookPath(c.binary); err != nil {
		return "", services.Wrap(services.ErrToolMissing, "render", "manim", fmt.Sprintf("binary %q not found", c.binary), nil)
	}

	if err := os.MkdirAll(c.scriptsDir, 0o755); err != nil {
		return "", fmt.Errorf("create scripts directory: %w", err)
	}
	if err := os.MkdirAll(c.mediaDir, 0o755); err != nil {
		return "", fmt.Errorf("create media directory: %w", err)
	}

	scriptPath := filepath.Join(c.scriptsDir, sceneName+".py")
	if err := os.WriteFile(scriptPath, []byte(sourceCode), 0o644); err != nil {
		return "", fmt.Errorf("write scene script: %w", err)
	}

	qualityFlag, err := qualityFlag(quality)
	if err != nil {
		return "", err
	}

	renderCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		renderCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	args := []string{qualityFlag, "--media_dir", c.mediaDir, scriptPath, sceneName}
	cmd := commandContext(renderCtx, c.binary, args...) //nolint:gosec
	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output

	if err := cmd.Run(); err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return "", services.Wrap(services.ErrToolMissing, "render", "manim", fmt.Sprintf("binary %q not found", c.binary), nil)
		}
		detail := fmt.Sprintf("scene %s: %v\n%s", sceneName, err, tail(output.String(), 2000))
		return "", services.Wrap(services.ErrExternalTool, "render", "manim", detail, err)
	}

	mediaPath, ok := parseReadyPath(output.String())
	if !ok {
		detail := fmt.Sprintf("scene %s: renderer exited cleanly but announced no output file\n%s", sceneName, tail(output.String(), 2000))
		return "", services.Wrap(services.ErrExternalTool, "render", "manim", detail, nil)
	}
	return mediaPath, nil
}

func qualityFlag(quality string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(quality)) {
	case "low", "low_quality", "ql":
		return "-ql", nil
	case "high", "high_quality", "qh":
		return "-qh", nil
	default:
		return "", fmt.Errorf("unknown render quality %q", quality)
	}
}

// parseReadyPath scans renderer output for the ready marker and extracts
// the announced path, trimmed of quoting and whitespace.
func parseReadyPath(output string) (string, bool) {
	for _, line := range strings.Split(output, "\n") {
		idx := strings.Index(line, readyMarker)
		if idx < 0 {
			continue
		}
		path := strings.TrimSpace(line[idx+len(readyMarker):])
		path = strings.Trim(path, `'"`)
		path = strings.TrimSpace(path)
		if path == "" {
			continue
		}
		return filepath.Clean(path), true
	}
	return "", false
}

func tail(s string, max int) string {
	s = strings.TrimSpace(s)
	if len(s) <= max {
		return s
	}
	return "..." + s[len(s)-max:]
}
