package main

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"

	"sceneforge/internal/config"
	"sceneforge/internal/logging"
	"sceneforge/internal/pipeline"
	"sceneforge/internal/queue"
	"sceneforge/internal/scenegen"
	"sceneforge/internal/services/ffmpeg"
	"sceneforge/internal/services/llm"
	"sceneforge/internal/services/manim"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		// Credentials may live in a project .env file; absence is fine.
		_ = godotenv.Load()

		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		c.logger, c.loggerErr = logging.NewFromConfig(cfg)
	})
	return c.logger, c.loggerErr
}

func (c *commandContext) queueStore() (*queue.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return queue.NewStore(cfg.Paths.QueueFile)
}

// llmClient builds the model client. Commands that talk to the model need a
// key; everything else loads config without one.
func (c *commandContext) llmClient() (*llm.Client, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	if err := cfg.RequireAPIKey(); err != nil {
		return nil, err
	}
	return llm.NewClient(llm.Config{
		APIKey:         cfg.LLM.APIKey,
		BaseURL:        cfg.LLM.BaseURL,
		Model:          cfg.LLM.Model,
		TimeoutSeconds: cfg.LLM.TimeoutSeconds,
		MaxAttempts:    cfg.LLM.MaxAttempts,
	})
}

// pipelineRunner wires the full render stack: scene code generation, the
// manim renderer, and the ffmpeg combiner.
func (c *commandContext) pipelineRunner() (*pipeline.Runner, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, err
	}
	completer, err := c.llmClient()
	if err != nil {
		return nil, err
	}

	preset, err := stylePreset(cfg)
	if err != nil {
		return nil, err
	}
	coder := scenegen.New(completer, cfg.LLM.CodeModel, preset, logger)

	renderer, err := manim.New(cfg.Render.ManimBinary, cfg.Paths.ScriptsDir, cfg.Paths.MediaDir,
		manim.WithTimeout(time.Duration(cfg.Render.TimeoutSeconds)*time.Second))
	if err != nil {
		return nil, err
	}
	combiner, err := ffmpeg.New(cfg.Render.FFmpegBinary)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(coder, renderer, combiner, cfg.Paths.MediaDir, logger)
}

func stylePreset(cfg *config.Config) (scenegen.Preset, error) {
	presets, err := scenegen.LoadPresets(cfg.Style.PresetsFile)
	if err != nil {
		return scenegen.Preset{}, err
	}
	preset, ok := presets[cfg.Style.Preset]
	if !ok {
		return scenegen.Preset{}, fmt.Errorf("unknown style preset %q (available: %s)",
			cfg.Style.Preset, strings.Join(scenegen.PresetNames(presets), ", "))
	}
	return preset, nil
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
