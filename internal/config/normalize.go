package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeLLM(); err != nil {
		return err
	}
	c.normalizeRender()
	c.normalizeNarration()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.ManifestsDir) == "" {
		c.Paths.ManifestsDir = defaultManifestsDir
	}
	if c.Paths.ManifestsDir, err = expandPath(c.Paths.ManifestsDir); err != nil {
		return fmt.Errorf("paths.manifests_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.ScriptsDir) == "" {
		c.Paths.ScriptsDir = defaultScriptsDir
	}
	if c.Paths.ScriptsDir, err = expandPath(c.Paths.ScriptsDir); err != nil {
		return fmt.Errorf("paths.scripts_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.MediaDir) == "" {
		c.Paths.MediaDir = defaultMediaDir
	}
	if c.Paths.MediaDir, err = expandPath(c.Paths.MediaDir); err != nil {
		return fmt.Errorf("paths.media_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.QueueFile) == "" {
		c.Paths.QueueFile = defaultQueueFile
	}
	if c.Paths.QueueFile, err = expandPath(c.Paths.QueueFile); err != nil {
		return fmt.Errorf("paths.queue_file: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.DiagramsFile) == "" {
		c.Paths.DiagramsFile = defaultDiagramsFile
	}
	if c.Paths.DiagramsFile, err = expandPath(c.Paths.DiagramsFile); err != nil {
		return fmt.Errorf("paths.diagrams_file: %w", err)
	}
	return nil
}

func (c *Config) normalizeLLM() error {
	if c.LLM.APIKey == "" {
		if value, ok := os.LookupEnv("SCENEFORGE_API_KEY"); ok {
			c.LLM.APIKey = value
		} else if value, ok := os.LookupEnv("GEMINI_API_KEY"); ok {
			c.LLM.APIKey = value
		}
	}
	c.LLM.BaseURL = strings.TrimSpace(c.LLM.BaseURL)
	if c.LLM.BaseURL == "" {
		c.LLM.BaseURL = defaultLLMBaseURL
	}
	c.LLM.Model = strings.TrimSpace(c.LLM.Model)
	if c.LLM.Model == "" {
		c.LLM.Model = defaultLLMModel
	}
	c.LLM.CodeModel = strings.TrimSpace(c.LLM.CodeModel)
	if c.LLM.CodeModel == "" {
		c.LLM.CodeModel = c.LLM.Model
	}
	if c.LLM.TimeoutSeconds <= 0 {
		c.LLM.TimeoutSeconds = defaultLLMTimeout
	}
	if c.LLM.MaxAttempts <= 0 {
		c.LLM.MaxAttempts = defaultLLMMaxAttempts
	}
	return nil
}

func (c *Config) normalizeRender() {
	c.Render.ManimBinary = strings.TrimSpace(c.Render.ManimBinary)
	if c.Render.ManimBinary == "" {
		c.Render.ManimBinary = defaultManimBinary
	}
	c.Render.FFmpegBinary = strings.TrimSpace(c.Render.FFmpegBinary)
	if c.Render.FFmpegBinary == "" {
		c.Render.FFmpegBinary = defaultFFmpegBinary
	}
	if c.Render.TimeoutSeconds <= 0 {
		c.Render.TimeoutSeconds = defaultRenderTimeout
	}
}

func (c *Config) normalizeNarration() {
	c.Narration.Provider = strings.TrimSpace(c.Narration.Provider)
	if c.Narration.Provider == "" {
		c.Narration.Provider = defaultNarrationProvider
	}
	c.Narration.Voice = strings.TrimSpace(c.Narration.Voice)
	if c.Narration.Voice == "" {
		c.Narration.Voice = defaultNarrationVoice
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	c.Style.Preset = strings.TrimSpace(c.Style.Preset)
	if c.Style.Preset == "" {
		c.Style.Preset = defaultStylePreset
	}
}
