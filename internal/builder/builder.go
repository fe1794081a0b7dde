// Package builder derives render manifests from chapter source text using a
// generative content service for scene decomposition.
package builder

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"sceneforge/internal/chapter"
	"sceneforge/internal/manifest"
	"sceneforge/internal/services"
	"sceneforge/internal/services/llm"
	"sceneforge/internal/version"
)

// NarrationDefaults configure the provider/voice stamped into manifests.
type NarrationDefaults struct {
	Provider string
	Voice    string
}

// Generator turns a chapter section into a validated manifest.
type Generator struct {
	llm       llm.Completer
	model     string
	narration NarrationDefaults
	logger    *slog.Logger
	now       func() time.Time
}

// Option customizes the generator.
type Option func(*Generator)

// WithClock overrides the timestamp source (useful for tests).
func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		if now != nil {
			g.now = now
		}
	}
}

// WithModel selects a specific model for scene planning calls.
func WithModel(model string) Option {
	return func(g *Generator) {
		g.model = strings.TrimSpace(model)
	}
}

// New constructs a Generator.
func New(completer llm.Completer, narration NarrationDefaults, logger *slog.Logger, opts ...Option) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	g := &Generator{
		llm:       completer,
		narration: narration,
		logger:    logger.With(slog.String("component", "builder")),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// planResponse mirrors the JSON structure requested from the model. The
// payload is untrusted; the assembled manifest is always re-validated.
type planResponse struct {
	Scenes []struct {
		SceneID              string            `json:"scene_id"`
		Type                 string            `json:"type"`
		ManimSceneName       string            `json:"manim_scene_name"`
		TextContent          string            `json:"text_content"`
		AnimationSuggestions map[string]string `json:"animation_suggestions"`
	} `json:"scenes"`
	Narration map[string]string `json:"narration"`
}

// Generate builds a manifest for one section of a chapter document. The
// chapter path must exist and the section must have content; the model's
// response must decode as the requested JSON structure, and the assembled
// manifest must pass validation.
func (g *Generator) Generate(ctx context.Context, chapterPath, sectionID string) (*manifest.Manifest, error) {
	doc, err := chapter.Load(chapterPath)
	if err != nil {
		return nil, err
	}
	title := doc.Title()
	section, err := doc.Section(sectionID)
	if err != nil {
		return nil, err
	}

	g.logger.Info("planning scenes", slog.String("chapter", chapterPath), slog.String("section", sectionID))

	raw, err := g.llm.Complete(ctx, llm.Request{
		Model:  g.model,
		System: planSystemPrompt,
		User:   planUserPrompt(sectionID, section),
	})
	if err != nil {
		return nil, services.Wrap(services.ErrModel, "builder", "plan scenes", sectionID, err)
	}

	var plan planResponse
	if err := llm.DecodeJSON(raw, &plan); err != nil {
		// No silent fallback to empty scenes: an undecodable plan is fatal.
		return nil, services.Wrap(services.ErrModel, "builder", "decode scene plan", sectionID, err)
	}

	scenes := make([]manifest.Scene, 0, len(plan.Scenes))
	for i, s := range plan.Scenes {
		name := strings.TrimSpace(s.ManimSceneName)
		if !identifierPattern.MatchString(name) {
			name = DeriveSceneName(s.SceneID, i)
		}
		scenes = append(scenes, manifest.Scene{
			SceneID:              strings.TrimSpace(s.SceneID),
			Type:                 strings.TrimSpace(s.Type),
			ManimSceneName:       name,
			TextContent:          s.TextContent,
			AnimationSuggestions: s.AnimationSuggestions,
		})
	}

	m := &manifest.Manifest{
		ManifestID:     uuid.NewString(),
		SourceChapter:  chapterPath,
		ChapterSection: sectionID,
		Title:          title,
		Scenes:         scenes,
		RenderSettings: DefaultRenderSettings(),
		Narration: manifest.Narration{
			Provider:     g.narration.Provider,
			Voice:        g.narration.Voice,
			TextPerScene: plan.Narration,
		},
		Metadata: &manifest.Metadata{
			CreatedBy:   "sceneforge",
			CreatedAt:   g.now().UTC().Format(time.RFC3339),
			ToolVersion: version.Version,
		},
	}

	if err := manifest.Validate(m); err != nil {
		return nil, services.Wrap(services.ErrModel, "builder", "validate scene plan", sectionID, err)
	}
	return m, nil
}

// DefaultRenderSettings returns the standard quality presets.
func DefaultRenderSettings() map[string]manifest.RenderSetting {
	return map[string]manifest.RenderSetting{
		manifest.QualityLow:  {Resolution: "852x480", FPS: 15},
		manifest.QualityHigh: {Resolution: "1920x1080", FPS: 30, Subtitles: "srt"},
	}
}
