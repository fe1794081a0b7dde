package scenegen

import (
	"context"
	"errors"
	"strings"
	"testing"

	"sceneforge/internal/manifest"
	"sceneforge/internal/services"
	"sceneforge/internal/services/llm"
)

type fakeCompleter struct {
	response string
	err      error
	lastReq  llm.Request
}

func (f *fakeCompleter) Complete(_ context.Context, req llm.Request) (string, error) {
	f.lastReq = req
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func testScene() manifest.Scene {
	return manifest.Scene{
		SceneID:        "s1",
		Type:           manifest.TypeExplanation,
		ManimSceneName: "KMapIntroduction",
		TextContent:    "K-Maps simplify Boolean expressions.",
		AnimationSuggestions: map[string]string{
			"layout": "grid of 16 cells",
		},
	}
}

func TestGenerateExtractsFencedBlock(t *testing.T) {
	fake := &fakeCompleter{response: "Here you go:\n```python\nfrom manim import *\n\nclass KMapIntroduction(Scene):\n    pass\n```"}
	gen := New(fake, "code-model", builtinPresets()["chalkboard"], nil)

	code, err := gen.Generate(context.Background(), testScene(), "Let's look at K-Maps.")
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if strings.HasPrefix(code, "```") || strings.HasSuffix(code, "```") {
		t.Fatalf("fence markers not stripped: %q", code)
	}
	if !strings.HasPrefix(code, "from manim import *") {
		t.Fatalf("unexpected code: %q", code)
	}
	if fake.lastReq.Model != "code-model" {
		t.Fatalf("model not forwarded: %q", fake.lastReq.Model)
	}
}

func TestGeneratePromptCarriesSceneDetails(t *testing.T) {
	fake := &fakeCompleter{response: "```python\npass\n```"}
	gen := New(fake, "", builtinPresets()["chalkboard"], nil)
	if _, err := gen.Generate(context.Background(), testScene(), "Narrated text"); err != nil {
		t.Fatal(err)
	}
	prompt := fake.lastReq.User
	for _, want := range []string{"KMapIntroduction", "Narrated text", "grid of 16 cells", "chalkboard"} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("prompt missing %q:\n%s", want, prompt)
		}
	}
}

func TestGenerateNoFenceReturnsWholeResponse(t *testing.T) {
	raw := "from manim import *\nclass KMapIntroduction(Scene): pass"
	fake := &fakeCompleter{response: raw}
	gen := New(fake, "", Preset{Name: "plain"}, nil)
	code, err := gen.Generate(context.Background(), testScene(), "")
	if err != nil {
		t.Fatal(err)
	}
	if code != raw {
		t.Fatalf("unfenced response modified: %q", code)
	}
}

func TestGenerateModelFailure(t *testing.T) {
	fake := &fakeCompleter{err: errors.New("connection reset")}
	gen := New(fake, "", Preset{}, nil)
	_, err := gen.Generate(context.Background(), testScene(), "")
	if !errors.Is(err, services.ErrModel) {
		t.Fatalf("expected model error, got %v", err)
	}
	if !strings.Contains(err.Error(), "KMapIntroduction") {
		t.Fatalf("error does not name the scene class: %v", err)
	}
}
