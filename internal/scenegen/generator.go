// Package scenegen converts scene descriptions into Manim script source by
// delegating to a generative text model.
package scenegen

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"sceneforge/internal/manifest"
	"sceneforge/internal/services"
	"sceneforge/internal/services/llm"
)

// Generator produces Manim source for individual scenes.
type Generator struct {
	llm    llm.Completer
	model  string
	preset Preset
	logger *slog.Logger
}

// New constructs a Generator using the given style preset.
func New(completer llm.Completer, model string, preset Preset, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{
		llm:    completer,
		model:  strings.TrimSpace(model),
		preset: preset,
		logger: logger.With(slog.String("component", "scenegen")),
	}
}

// Generate returns the Manim script source for one scene. The model's
// response is expected to carry a single fenced code block; its inner text
// is returned verbatim. A response with no fence is returned whole rather
// than failing the stage. Transport or model errors are logged with the
// scene's class name and returned; the caller treats the scene, and by
// cascade the whole manifest render, as failed.
func (g *Generator) Generate(ctx context.Context, scene manifest.Scene, narration string) (string, error) {
	raw, err := g.llm.Complete(ctx, llm.Request{
		Model:  g.model,
		System: codeSystemPrompt,
		User:   codeUserPrompt(scene, g.preset, narration),
	})
	if err != nil {
		g.logger.Error("code generation failed",
			slog.String("scene", scene.ManimSceneName),
			slog.Any("error", err))
		return "", services.Wrap(services.ErrModel, "scenegen", "generate code", scene.ManimSceneName, err)
	}

	code := llm.ExtractCodeBlock(raw)
	if strings.TrimSpace(code) == "" {
		err := fmt.Errorf("model returned no code for scene %s", scene.ManimSceneName)
		g.logger.Error("code generation failed", slog.String("scene", scene.ManimSceneName), slog.Any("error", err))
		return "", services.Wrap(services.ErrModel, "scenegen", "generate code", scene.ManimSceneName, err)
	}
	return code, nil
}
