package manifest

import (
	"fmt"
	"regexp"

	"github.com/google/uuid"
)

var sceneTypes = map[string]struct{}{
	TypeExplanation: {},
	TypeExample:     {},
	TypeDerivation:  {},
	TypeDiagram:     {},
}

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidationError reports the first rule a manifest violates.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// Validate checks structural and referential integrity. It reports the
// first violation found and never attempts repair. A nil return means the
// manifest is valid.
func Validate(m *Manifest) error {
	if m == nil {
		return invalid("", "manifest is nil")
	}
	if m.ManifestID == "" {
		return invalid("manifest_id", "required field missing")
	}
	if _, err := uuid.Parse(m.ManifestID); err != nil {
		return invalid("manifest_id", "not a valid UUID: %q", m.ManifestID)
	}
	if m.SourceChapter == "" {
		return invalid("source_chapter", "required field missing")
	}
	if m.ChapterSection == "" {
		return invalid("chapter_section", "required field missing")
	}
	if m.Title == "" {
		return invalid("title", "required field missing")
	}
	if len(m.Scenes) == 0 {
		return invalid("scenes", "at least one scene is required")
	}
	if len(m.RenderSettings) == 0 {
		return invalid("render_settings", "required field missing")
	}

	seen := make(map[string]struct{}, len(m.Scenes))
	for i, scene := range m.Scenes {
		field := fmt.Sprintf("scenes[%d]", i)
		if scene.SceneID == "" {
			return invalid(field+".scene_id", "required field missing")
		}
		if _, dup := seen[scene.SceneID]; dup {
			return invalid(field+".scene_id", "duplicate scene_id %q", scene.SceneID)
		}
		seen[scene.SceneID] = struct{}{}
		if _, ok := sceneTypes[scene.Type]; !ok {
			return invalid(field+".type", "unknown scene type %q", scene.Type)
		}
		if scene.ManimSceneName == "" {
			return invalid(field+".manim_scene_name", "required field missing")
		}
		if !identifierPattern.MatchString(scene.ManimSceneName) {
			return invalid(field+".manim_scene_name", "not a valid class identifier: %q", scene.ManimSceneName)
		}
		if scene.TextContent == "" {
			return invalid(field+".text_content", "required field missing")
		}
	}

	if m.Metadata != nil {
		if m.Metadata.CreatedBy == "" {
			return invalid("metadata.created_by", "required field missing")
		}
		if m.Metadata.CreatedAt == "" {
			return invalid("metadata.created_at", "required field missing")
		}
		if m.Metadata.ToolVersion == "" {
			return invalid("metadata.tool_version", "required field missing")
		}
	}

	// Every narrated scene id must exist; scenes without narration are fine.
	for sceneID := range m.Narration.TextPerScene {
		if _, ok := seen[sceneID]; !ok {
			return invalid("narration.text_per_scene", "scene id %q not found in scenes", sceneID)
		}
	}

	return nil
}
