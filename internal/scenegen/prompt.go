package scenegen

import (
	"fmt"
	"sort"
	"strings"

	"sceneforge/internal/manifest"
)

const codeSystemPrompt = `You are an expert Manim animator. Generate a complete, runnable Manim
Community Edition script for a single scene of an educational video.

Requirements:
- Import everything you need: "from manim import *" plus
  "from manim_voiceover import VoiceoverScene" and
  "from manim_voiceover.services.gtts import GTTSService".
- The scene class must extend VoiceoverScene and call
  self.set_speech_service(GTTSService()) at the top of construct().
- Wrap animations in "with self.voiceover(text=...) as tracker:" blocks and
  pace them with run_time=tracker.duration so visuals stay in sync with the
  narration.
- Keep the layout inside the frame; prefer simple, legible compositions.

Return exactly one fenced code block containing the full script.`

func codeUserPrompt(scene manifest.Scene, preset Preset, narration string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Scene class name: %s\n", scene.ManimSceneName)
	fmt.Fprintf(&b, "Scene type: %s\n\n", scene.Type)

	fmt.Fprintf(&b, "Style preset %q: %s\n", preset.Name, preset.Description)
	if preset.Background != "" {
		fmt.Fprintf(&b, "Background color: %s\n", preset.Background)
	}
	if preset.TextColor != "" {
		fmt.Fprintf(&b, "Text color: %s\n", preset.TextColor)
	}
	b.WriteString("\n")

	if narration != "" {
		fmt.Fprintf(&b, "Narration script (use this as the voiceover text):\n%s\n\n", narration)
	}

	if len(scene.AnimationSuggestions) > 0 {
		b.WriteString("Animation suggestions (advisory):\n")
		keys := make([]string, 0, len(scene.AnimationSuggestions))
		for k := range scene.AnimationSuggestions {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, "- %s: %s\n", k, scene.AnimationSuggestions[k])
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "Content to visualize:\n%s\n", scene.TextContent)
	return b.String()
}
