package builder

import (
	"fmt"
	"strings"
)

const planSystemPrompt = `You are an expert in planning educational animation videos from study-guide text.
Analyze the provided markdown content and break it down into logical scenes
(introduction, example, explanation, derivation, diagram).

For each scene provide:
- a unique "scene_id" (e.g. "scene_1_intro")
- a "type": one of "explanation", "example", "derivation", "diagram"
- a "manim_scene_name": a descriptive class name (e.g. "KMapIntroduction")
- "text_content": the relevant text for the scene

Also provide a concise narration script per scene.

Respond with JSON only, in this exact structure:
{
  "scenes": [
    {"scene_id": "scene_1_intro", "type": "explanation",
     "manim_scene_name": "KMapIntroduction", "text_content": "..."}
  ],
  "narration": {
    "scene_1_intro": "Let's begin with..."
  }
}`

func planUserPrompt(sectionID, sectionContent string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Markdown content for section %q:\n\n", sectionID)
	b.WriteString(sectionContent)
	return b.String()
}
