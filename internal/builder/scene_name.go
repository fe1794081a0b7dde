package builder

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

var titleCaser = cases.Title(language.English)

// DeriveSceneName builds a valid class identifier from a scene id when the
// model's suggestion is unusable. "scene_1_intro" becomes "Scene1Intro";
// with nothing to work from the positional fallback "SceneN" is used.
func DeriveSceneName(sceneID string, index int) string {
	parts := strings.FieldsFunc(sceneID, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	var b strings.Builder
	for _, part := range parts {
		b.WriteString(titleCaser.String(strings.ToLower(part)))
	}
	name := b.String()
	if name == "" || !unicode.IsLetter(rune(name[0])) {
		name = "Scene" + name
	}
	if !identifierPattern.MatchString(name) {
		return fmt.Sprintf("Scene%d", index+1)
	}
	return name
}
