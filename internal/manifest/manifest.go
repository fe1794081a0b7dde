// Package manifest defines the persisted job description for producing one
// rendered video from one chapter section, along with its validation rules.
package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"sceneforge/internal/fileutil"
	"sceneforge/internal/services"
)

// Scene type enum values.
const (
	TypeExplanation = "explanation"
	TypeExample     = "example"
	TypeDerivation  = "derivation"
	TypeDiagram     = "diagram"
)

// Quality tier names used in RenderSettings.
const (
	QualityLow  = "low_quality"
	QualityHigh = "high_quality"
)

// Manifest describes one production job for a chapter section. Scene order
// is rendering and concatenation order.
type Manifest struct {
	ManifestID     string                   `json:"manifest_id"`
	SourceChapter  string                   `json:"source_chapter"`
	ChapterSection string                   `json:"chapter_section"`
	Title          string                   `json:"title"`
	Scenes         []Scene                  `json:"scenes"`
	RenderSettings map[string]RenderSetting `json:"render_settings"`
	Narration      Narration                `json:"narration"`
	Metadata       *Metadata                `json:"metadata,omitempty"`
	// ValidationHash is reserved. It is carried through load/save but never
	// computed or verified against the manifest contents.
	ValidationHash string `json:"validation_hash,omitempty"`
}

// Scene is one animation unit, mapped 1:1 to one generated script and one
// rendered clip.
type Scene struct {
	SceneID              string            `json:"scene_id"`
	Type                 string            `json:"type"`
	ManimSceneName       string            `json:"manim_scene_name"`
	TextContent          string            `json:"text_content"`
	AnimationSuggestions map[string]string `json:"animation_suggestions,omitempty"`
}

// RenderSetting configures one quality tier.
type RenderSetting struct {
	Resolution string `json:"resolution"`
	FPS        int    `json:"fps"`
	Subtitles  string `json:"subtitles,omitempty"`
}

// Narration holds the voiceover configuration and per-scene scripts.
type Narration struct {
	Provider     string            `json:"provider,omitempty"`
	Voice        string            `json:"voice,omitempty"`
	TextPerScene map[string]string `json:"text_per_scene,omitempty"`
}

// Metadata records provenance for a generated manifest.
type Metadata struct {
	CreatedBy   string `json:"created_by"`
	CreatedAt   string `json:"created_at"`
	ToolVersion string `json:"tool_version"`
}

// NarrationFor returns the narration text for a scene, or the empty string
// when the scene has none.
func (m *Manifest) NarrationFor(sceneID string) string {
	return m.Narration.TextPerScene[sceneID]
}

// Setting returns the render setting for the named quality tier.
func (m *Manifest) Setting(quality string) (RenderSetting, bool) {
	s, ok := m.RenderSettings[quality]
	return s, ok
}

// Load reads and decodes a manifest file. The result is not validated;
// call Validate separately so callers can distinguish malformed JSON from
// schema violations.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, services.Wrap(services.ErrNotFound, "manifest", "load", path, err)
		}
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, services.Wrap(services.ErrValidation, "manifest", "decode", path, err)
	}
	return &m, nil
}

// Save writes the manifest as indented JSON via an atomic replace.
func Save(m *Manifest, path string) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}
	data = append(data, '\n')
	if err := fileutil.WriteFileAtomic(path, data, 0o644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	return nil
}
