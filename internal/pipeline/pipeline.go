// Package pipeline drives one manifest through code generation, rendering,
// and combination into a single final video.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"sceneforge/internal/manifest"
	"sceneforge/internal/services"
	"sceneforge/internal/services/ffmpeg"
)

// SceneCoder produces Manim source for one scene.
type SceneCoder interface {
	Generate(ctx context.Context, scene manifest.Scene, narration string) (string, error)
}

// Renderer turns scene source into a clip on disk.
type Renderer interface {
	Render(ctx context.Context, sourceCode, sceneName, quality string) (string, error)
}

// Combiner joins clips into the final video.
type Combiner interface {
	Concat(ctx context.Context, inputs []string, outputPath string) (string, error)
}

// SceneResult records the artifact produced for one scene.
type SceneResult struct {
	SceneID        string
	ManimSceneName string
	MediaPath      string
}

// Result is the outcome of a full manifest render.
type Result struct {
	VideoPath    string
	SubtitlePath string
	Scenes       []SceneResult
}

// Runner orchestrates the per-scene stages for a manifest. Scenes are
// processed strictly in manifest order and the first failure aborts the
// run; clips from completed scenes are left on disk.
type Runner struct {
	coder    SceneCoder
	renderer Renderer
	combiner Combiner

	outputDir string
	logger    *slog.Logger

	combineSubtitles func(paths []string, outputPath string) error
}

// Option adjusts Runner construction.
type Option func(*Runner)

// WithSubtitleCombiner replaces the subtitle merge step.
func WithSubtitleCombiner(fn func(paths []string, outputPath string) error) Option {
	return func(r *Runner) {
		r.combineSubtitles = fn
	}
}

// NewRunner constructs a Runner writing final artifacts into outputDir.
func NewRunner(coder SceneCoder, renderer Renderer, combiner Combiner, outputDir string, logger *slog.Logger, opts ...Option) (*Runner, error) {
	if coder == nil || renderer == nil || combiner == nil {
		return nil, fmt.Errorf("coder, renderer, and combiner are all required")
	}
	if strings.TrimSpace(outputDir) == "" {
		return nil, fmt.Errorf("output directory required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	r := &Runner{
		coder:            coder,
		renderer:         renderer,
		combiner:         combiner,
		outputDir:        outputDir,
		logger:           logger.With(slog.String("component", "pipeline")),
		combineSubtitles: ffmpeg.CombineSubtitles,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// NormalizeQuality maps CLI-facing tier names onto manifest tier keys.
func NormalizeQuality(quality string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(quality)) {
	case "low", manifest.QualityLow:
		return manifest.QualityLow, nil
	case "high", manifest.QualityHigh:
		return manifest.QualityHigh, nil
	default:
		return "", fmt.Errorf("unknown quality %q (want low or high)", quality)
	}
}

// Render runs every scene of the manifest at the given quality and combines
// the clips into the final video. The returned Result names the final video,
// the combined subtitle file when one was produced, and the per-scene clips.
func (r *Runner) Render(ctx context.Context, m *manifest.Manifest, quality string) (*Result, error) {
	tier, err := NormalizeQuality(quality)
	if err != nil {
		return nil, err
	}
	setting, ok := m.Setting(tier)
	if !ok {
		return nil, services.Wrap(services.ErrValidation, "pipeline", "render",
			fmt.Sprintf("manifest %s has no %s render settings", m.ManifestID, tier), nil)
	}

	if err := os.MkdirAll(r.outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	r.logger.Info("render starting",
		slog.String("manifest", m.ManifestID),
		slog.String("quality", tier),
		slog.Int("scenes", len(m.Scenes)))

	result := &Result{}
	var clips []string
	for i, scene := range m.Scenes {
		log := r.logger.With(
			slog.String("scene", scene.SceneID),
			slog.Int("position", i+1))

		log.Info("generating scene code", slog.String("class", scene.ManimSceneName))
		code, err := r.coder.Generate(ctx, scene, m.NarrationFor(scene.SceneID))
		if err != nil {
			return nil, fmt.Errorf("scene %s code generation: %w", scene.SceneID, err)
		}

		log.Info("rendering scene")
		clip, err := r.renderer.Render(ctx, code, scene.ManimSceneName, tier)
		if err != nil {
			return nil, fmt.Errorf("scene %s render: %w", scene.SceneID, err)
		}
		log.Info("scene rendered", slog.String("clip", clip))

		clips = append(clips, clip)
		result.Scenes = append(result.Scenes, SceneResult{
			SceneID:        scene.SceneID,
			ManimSceneName: scene.ManimSceneName,
			MediaPath:      clip,
		})
	}
	if len(clips) == 0 {
		return nil, services.Wrap(services.ErrValidation, "pipeline", "render",
			fmt.Sprintf("manifest %s has no scenes", m.ManifestID), nil)
	}

	outputPath := filepath.Join(r.outputDir, FinalName(m, tier))
	video, err := r.combiner.Concat(ctx, clips, outputPath)
	if err != nil {
		return nil, fmt.Errorf("combine clips: %w", err)
	}
	result.VideoPath = video
	r.logger.Info("render complete", slog.String("video", video))

	if setting.Subtitles == "srt" {
		subPath, err := r.mergeSubtitles(clips, video)
		if err != nil {
			return nil, err
		}
		result.SubtitlePath = subPath
	}
	return result, nil
}

// mergeSubtitles joins the sibling .srt of each clip, in clip order, next to
// the final video. Scenes without a subtitle file are skipped; when none
// exist the merge is a no-op.
func (r *Runner) mergeSubtitles(clips []string, videoPath string) (string, error) {
	var subs []string
	for _, clip := range clips {
		srt := strings.TrimSuffix(clip, filepath.Ext(clip)) + ".srt"
		if _, err := os.Stat(srt); err == nil {
			subs = append(subs, srt)
		}
	}
	if len(subs) == 0 {
		return "", nil
	}
	outPath := strings.TrimSuffix(videoPath, filepath.Ext(videoPath)) + ".srt"
	if err := r.combineSubtitles(subs, outPath); err != nil {
		return "", fmt.Errorf("combine subtitles: %w", err)
	}
	r.logger.Info("subtitles combined", slog.String("subtitles", outPath))
	return outPath, nil
}

// FinalName derives the combined video's file name from the manifest's
// source chapter, section, and quality tier.
func FinalName(m *manifest.Manifest, tier string) string {
	chapter := strings.TrimSuffix(filepath.Base(m.SourceChapter), filepath.Ext(m.SourceChapter))
	if chapter == "" || chapter == "." {
		chapter = "chapter"
	}
	section := sanitizeComponent(m.ChapterSection)
	if section == "" {
		section = "section"
	}
	return fmt.Sprintf("%s_%s_%s.mp4", sanitizeComponent(chapter), section, tier)
}

func sanitizeComponent(s string) string {
	s = strings.TrimSpace(s)
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ', r == '.':
			b.WriteRune('_')
		}
	}
	return b.String()
}
