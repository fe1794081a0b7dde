// Package ffmpeg wraps the external stream-copy concatenation tool that
// joins per-scene clips into one final video.
package ffmpeg

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"sceneforge/internal/services"
)

var commandContext = exec.CommandContext

// Client invokes ffmpeg for concatenation.
type Client struct {
	binary string
}

// New constructs a combiner client.
func New(binary string) (*Client, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("ffmpeg binary required")
	}
	return &Client{binary: binary}, nil
}

// Concat joins the input files, in order, into outputPath using stream copy
// so source bitstreams are preserved exactly. With a single input no
// external process runs; the input path is returned as the final artifact.
func (c *Client) Concat(ctx context.Context, inputs []string, outputPath string) (string, error) {
	if len(inputs) == 0 {
		return "", errors.New("at least one input required")
	}
	if strings.TrimSpace(outputPath) == "" {
		return "", errors.New("output path required")
	}
	if len(inputs) == 1 {
		// Single-input shortcut: the lone clip is already the final video.
		return inputs[0], nil
	}

	if _, err := exec.LookPath(c.binary); err != nil {
		return "", services.Wrap(services.ErrToolMissing, "combine", "ffmpeg", fmt.Sprintf("binary %q not found", c.binary), nil)
	}

	listPath, err := writeConcatList(inputs, outputPath)
	if err != nil {
		return "", err
	}
	defer os.Remove(listPath)

	args := []string{"-y", "-f", "concat", "-safe", "0", "-i", listPath, "-c", "copy", outputPath}
	cmd := commandContext(ctx, c.binary, args...) //nolint:gosec
	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output

	if err := cmd.Run(); err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return "", services.Wrap(services.ErrToolMissing, "combine", "ffmpeg", fmt.Sprintf("binary %q not found", c.binary), nil)
		}
		detail := fmt.Sprintf("%v\n%s", err, tail(output.String(), 2000))
		return "", services.Wrap(services.ErrExternalTool, "combine", "ffmpeg", detail, err)
	}
	return outputPath, nil
}

// CombineSubtitles appends the subtitle files' contents, in clip order,
// into outputPath. Cue indices and timestamps are not renumbered, so the
// combined timing is only correct when each per-clip file starts at zero.
func CombineSubtitles(paths []string, outputPath string) error {
	if len(paths) == 0 {
		return errors.New("at least one subtitle file required")
	}
	var b strings.Builder
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read subtitle %s: %w", path, err)
		}
		b.Write(bytes.TrimRight(data, "\n"))
		b.WriteString("\n\n")
	}
	if err := os.WriteFile(outputPath, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("write combined subtitles: %w", err)
	}
	return nil
}

func writeConcatList(inputs []string, outputPath string) (string, error) {
	var b strings.Builder
	for _, input := range inputs {
		fmt.Fprintf(&b, "file '%s'\n", escapeConcatPath(input))
	}
	listPath := filepath.Join(filepath.Dir(outputPath), "concat_list.txt")
	if err := os.WriteFile(listPath, []byte(b.String()), 0o644); err != nil {
		return "", fmt.Errorf("write concat list: %w", err)
	}
	return listPath, nil
}

func escapeConcatPath(path string) string {
	return strings.ReplaceAll(path, "'", `'\''`)
}

func tail(s string, max int) string {
	s = strings.TrimSpace(s)
	if len(s) <= max {
		return s
	}
	return "..." + s[len(s)-max:]
}
