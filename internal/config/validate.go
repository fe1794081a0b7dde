package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateLLM(); err != nil {
		return err
	}
	if err := c.validateRender(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.QueueFile) == "" {
		return errors.New("paths.queue_file must be set")
	}
	if strings.TrimSpace(c.Paths.ManifestsDir) == "" {
		return errors.New("paths.manifests_dir must be set")
	}
	return nil
}

func (c *Config) validateLLM() error {
	if c.LLM.BaseURL == "" {
		return errors.New("llm.base_url must be set")
	}
	if c.LLM.Model == "" {
		return errors.New("llm.model must be set")
	}
	return nil
}

func (c *Config) validateRender() error {
	if c.Render.ManimBinary == "" {
		return errors.New("render.manim_binary must be set")
	}
	if c.Render.FFmpegBinary == "" {
		return errors.New("render.ffmpeg_binary must be set")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json", "auto":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}

// RequireAPIKey returns an error directing the user to configure a key when
// none is present. Commands that call the generative model use this; queue
// and validation commands do not need it.
func (c *Config) RequireAPIKey() error {
	if strings.TrimSpace(c.LLM.APIKey) != "" {
		return nil
	}
	defaultPath, err := DefaultConfigPath()
	if err != nil {
		defaultPath = "~/.config/sceneforge/config.toml"
	}
	return fmt.Errorf("llm.api_key is required. Set SCENEFORGE_API_KEY or GEMINI_API_KEY, or edit %s (create with 'sceneforge config init')", defaultPath)
}
