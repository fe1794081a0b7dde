package manifest

import (
	"strings"
	"testing"
)

func validManifest() *Manifest {
	return &Manifest{
		ManifestID:     "a2f1c7de-9f1b-4c64-a6b4-3f6a1c2d8e90",
		SourceChapter:  "studyguides/final_study_guide.md",
		ChapterSection: "1a",
		Title:          "Karnaugh Maps",
		Scenes: []Scene{
			{SceneID: "scene_1_intro", Type: TypeExplanation, ManimSceneName: "KMapIntroduction", TextContent: "K-Maps provide a graphical method..."},
			{SceneID: "scene_2_example", Type: TypeExample, ManimSceneName: "KMapExample", TextContent: "SoP minimization with don't cares..."},
		},
		RenderSettings: map[string]RenderSetting{
			QualityLow:  {Resolution: "852x480", FPS: 15},
			QualityHigh: {Resolution: "1920x1080", FPS: 30, Subtitles: "srt"},
		},
		Narration: Narration{
			Provider: "google",
			Voice:    "echo",
			TextPerScene: map[string]string{
				"scene_1_intro": "Let's begin with an introduction...",
			},
		},
		Metadata: &Metadata{CreatedBy: "sceneforge", CreatedAt: "2026-08-30T12:00:00Z", ToolVersion: "0.1.0"},
	}
}

func TestValidateAcceptsValidManifest(t *testing.T) {
	if err := Validate(validManifest()); err != nil {
		t.Fatalf("Validate returned error: %v", err)
	}
}

func TestValidateRequiredFields(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Manifest)
		field  string
	}{
		{"missing id", func(m *Manifest) { m.ManifestID = "" }, "manifest_id"},
		{"bad uuid", func(m *Manifest) { m.ManifestID = "not-a-uuid" }, "manifest_id"},
		{"missing source", func(m *Manifest) { m.SourceChapter = "" }, "source_chapter"},
		{"missing section", func(m *Manifest) { m.ChapterSection = "" }, "chapter_section"},
		{"missing title", func(m *Manifest) { m.Title = "" }, "title"},
		{"no scenes", func(m *Manifest) { m.Scenes = nil }, "scenes"},
		{"no render settings", func(m *Manifest) { m.RenderSettings = nil }, "render_settings"},
		{"missing scene id", func(m *Manifest) { m.Scenes[0].SceneID = "" }, "scene_id"},
		{"bad scene type", func(m *Manifest) { m.Scenes[0].Type = "montage" }, "type"},
		{"missing class name", func(m *Manifest) { m.Scenes[0].ManimSceneName = "" }, "manim_scene_name"},
		{"invalid class name", func(m *Manifest) { m.Scenes[0].ManimSceneName = "2Fast" }, "manim_scene_name"},
		{"missing text", func(m *Manifest) { m.Scenes[1].TextContent = "" }, "text_content"},
		{"incomplete metadata", func(m *Manifest) { m.Metadata.ToolVersion = "" }, "tool_version"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m := validManifest()
			tc.mutate(m)
			err := Validate(m)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.field) {
				t.Fatalf("error %q does not mention %q", err, tc.field)
			}
		})
	}
}

func TestValidateDuplicateSceneID(t *testing.T) {
	m := validManifest()
	m.Scenes[1].SceneID = m.Scenes[0].SceneID
	err := Validate(m)
	if err == nil || !strings.Contains(err.Error(), "duplicate") {
		t.Fatalf("expected duplicate scene_id error, got %v", err)
	}
}

func TestValidateOrphanNarrationKey(t *testing.T) {
	m := validManifest()
	m.Narration.TextPerScene["scene_99_ghost"] = "nobody reads this"
	err := Validate(m)
	if err == nil {
		t.Fatal("expected semantic validation error")
	}
	if !strings.Contains(err.Error(), "scene_99_ghost") {
		t.Fatalf("error %q does not name the orphan key", err)
	}
}

func TestValidateSceneWithoutNarrationIsFine(t *testing.T) {
	m := validManifest()
	// scene_2_example has no narration entry; this must be accepted.
	if err := Validate(m); err != nil {
		t.Fatalf("Validate returned error: %v", err)
	}
}

func TestValidateMissingMetadataIsOptional(t *testing.T) {
	m := validManifest()
	m.Metadata = nil
	if err := Validate(m); err != nil {
		t.Fatalf("Validate returned error: %v", err)
	}
}
