package config

const (
	defaultManifestsDir     = "~/.local/share/sceneforge/manifests"
	defaultScriptsDir       = "~/.local/share/sceneforge/generated_manim_scripts"
	defaultMediaDir         = "~/.local/share/sceneforge/media"
	defaultQueueFile        = "~/.local/share/sceneforge/queue.txt"
	defaultLogDir           = "~/.local/share/sceneforge/logs"
	defaultDiagramsFile     = "~/.local/share/sceneforge/diagrams.json"
	defaultLLMBaseURL       = "https://openrouter.ai/api/v1"
	defaultLLMModel         = "google/gemini-2.5-flash"
	defaultLLMTimeout       = 120
	defaultLLMMaxAttempts   = 3
	defaultManimBinary      = "manim"
	defaultFFmpegBinary     = "ffmpeg"
	defaultRenderTimeout    = 900
	defaultNarrationProvider = "google"
	defaultNarrationVoice   = "echo"
	defaultStylePreset      = "chalkboard"
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			ManifestsDir: defaultManifestsDir,
			ScriptsDir:   defaultScriptsDir,
			MediaDir:     defaultMediaDir,
			QueueFile:    defaultQueueFile,
			LogDir:       defaultLogDir,
			DiagramsFile: defaultDiagramsFile,
		},
		LLM: LLM{
			BaseURL:        defaultLLMBaseURL,
			Model:          defaultLLMModel,
			TimeoutSeconds: defaultLLMTimeout,
			MaxAttempts:    defaultLLMMaxAttempts,
		},
		Render: Render{
			ManimBinary:    defaultManimBinary,
			FFmpegBinary:   defaultFFmpegBinary,
			TimeoutSeconds: defaultRenderTimeout,
		},
		Narration: Narration{
			Provider: defaultNarrationProvider,
			Voice:    defaultNarrationVoice,
		},
		Style: Style{
			Preset: defaultStylePreset,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
