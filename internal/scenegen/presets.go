package scenegen

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Preset describes a visual style applied to every generated scene.
type Preset struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Background  string `yaml:"background"`
	TextColor   string `yaml:"text_color"`
}

func builtinPresets() map[string]Preset {
	return map[string]Preset{
		"chalkboard": {
			Name:        "chalkboard",
			Description: "Dark background with high-contrast white text and pastel accent colors, lecture-board feel.",
			Background:  "#1e1e1e",
			TextColor:   "#ffffff",
		},
		"paper": {
			Name:        "paper",
			Description: "Light cream background with dark ink text, printed-textbook feel.",
			Background:  "#f5f0e6",
			TextColor:   "#222222",
		},
	}
}

// LoadPresets returns the built-in presets, optionally merged with presets
// from a YAML file. File entries override built-ins of the same name.
func LoadPresets(path string) (map[string]Preset, error) {
	presets := builtinPresets()
	if strings.TrimSpace(path) == "" {
		return presets, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read presets file: %w", err)
	}
	var file struct {
		Presets []Preset `yaml:"presets"`
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse presets file: %w", err)
	}
	for _, p := range file.Presets {
		name := strings.TrimSpace(p.Name)
		if name == "" {
			continue
		}
		p.Name = name
		presets[name] = p
	}
	return presets, nil
}

// PresetNames lists the available preset names in sorted order.
func PresetNames(presets map[string]Preset) []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
