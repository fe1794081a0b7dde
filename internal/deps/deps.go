// Package deps verifies the external tools the rendering pipeline shells
// out to.
package deps

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"sceneforge/internal/config"
)

var commandContext = exec.CommandContext

const versionProbeTimeout = 5 * time.Second

// Requirement names one external binary the pipeline needs.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of one requirement.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Detail      string
}

// Requirements lists the binaries needed for the configured pipeline.
// Manim and ffmpeg are mandatory; pdflatex only matters when diagram
// snippets are compiled locally.
func Requirements(cfg *config.Config) []Requirement {
	return []Requirement{
		{
			Name:        "Manim",
			Command:     cfg.Render.ManimBinary,
			Description: "Renders scene scripts into video clips",
		},
		{
			Name:        "FFmpeg",
			Command:     cfg.Render.FFmpegBinary,
			Description: "Concatenates scene clips into the final video",
		},
		{
			Name:        "pdflatex",
			Command:     "pdflatex",
			Description: "Compiles generated TikZ diagrams",
			Optional:    true,
		},
	}
}

// CheckBinaries resolves each requirement on PATH. Available tools carry a
// version line in Detail when the binary reports one.
func CheckBinaries(ctx context.Context, requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		if cmd == "" {
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		resolved, err := exec.LookPath(cmd)
		if err != nil {
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		status.Command = resolved
		status.Available = true
		status.Detail = probeVersion(ctx, resolved)
		results = append(results, status)
	}
	return results
}

// AllRequired reports whether every non-optional requirement is available.
func AllRequired(statuses []Status) bool {
	for _, s := range statuses {
		if !s.Optional && !s.Available {
			return false
		}
	}
	return true
}

// probeVersion asks the binary for its version and returns the first output
// line. A tool that ignores --version just yields an empty detail.
func probeVersion(ctx context.Context, binary string) string {
	probeCtx, cancel := context.WithTimeout(ctx, versionProbeTimeout)
	defer cancel()

	cmd := commandContext(probeCtx, binary, "--version") //nolint:gosec
	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output
	if err := cmd.Run(); err != nil {
		return ""
	}
	line, _, _ := strings.Cut(strings.TrimSpace(output.String()), "\n")
	return strings.TrimSpace(line)
}
