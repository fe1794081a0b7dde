package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"sceneforge/internal/config"
)

func TestLoadDefaultsUsesEnvKeyAndExpandsPaths(t *testing.T) {
	t.Setenv("SCENEFORGE_API_KEY", "test-key")
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	restore := chdir(t, tempHome)
	defer restore()

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantManifests := filepath.Join(tempHome, ".local", "share", "sceneforge", "manifests")
	if cfg.Paths.ManifestsDir != wantManifests {
		t.Fatalf("unexpected manifests dir: got %q want %q", cfg.Paths.ManifestsDir, wantManifests)
	}
	if cfg.Paths.QueueFile != filepath.Join(tempHome, ".local", "share", "sceneforge", "queue.txt") {
		t.Fatalf("unexpected queue file: %q", cfg.Paths.QueueFile)
	}
	if cfg.LLM.APIKey != "test-key" {
		t.Fatalf("expected API key from env, got %q", cfg.LLM.APIKey)
	}
	if cfg.LLM.MaxAttempts != 3 {
		t.Fatalf("expected default max attempts 3, got %d", cfg.LLM.MaxAttempts)
	}
	if cfg.LLM.CodeModel != cfg.LLM.Model {
		t.Fatalf("expected code model to default to model, got %q", cfg.LLM.CodeModel)
	}
	if cfg.Render.ManimBinary != "manim" {
		t.Fatalf("unexpected manim binary: %q", cfg.Render.ManimBinary)
	}
}

func TestLoadReadsProjectFile(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	dir := t.TempDir()
	content := strings.Join([]string{
		"[llm]",
		`api_key = "file-key"`,
		`model = "demo-model"`,
		"",
		"[render]",
		`manim_binary = "/opt/manim/bin/manim"`,
	}, "\n")
	path := filepath.Join(dir, "sceneforge.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to exist")
	}
	if resolved != path {
		t.Fatalf("unexpected resolved path: %q", resolved)
	}
	if cfg.LLM.APIKey != "file-key" {
		t.Fatalf("unexpected api key: %q", cfg.LLM.APIKey)
	}
	if cfg.LLM.Model != "demo-model" {
		t.Fatalf("unexpected model: %q", cfg.LLM.Model)
	}
	if cfg.Render.ManimBinary != "/opt/manim/bin/manim" {
		t.Fatalf("unexpected manim binary: %q", cfg.Render.ManimBinary)
	}
	// Unset render fields keep their defaults.
	if cfg.Render.FFmpegBinary != "ffmpeg" {
		t.Fatalf("unexpected ffmpeg binary: %q", cfg.Render.FFmpegBinary)
	}
}

func TestLoadRejectsBadLogging(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sceneforge.toml")
	if err := os.WriteFile(path, []byte("[logging]\nformat = \"xml\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, _, _, err := config.Load(path); err == nil {
		t.Fatal("expected error for unsupported log format")
	}
}

func TestRequireAPIKey(t *testing.T) {
	cfg := config.Default()
	if err := cfg.RequireAPIKey(); err == nil {
		t.Fatal("expected error when api key missing")
	}
	cfg.LLM.APIKey = "k"
	if err := cfg.RequireAPIKey(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func chdir(t *testing.T, dir string) func() {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	return func() {
		_ = os.Chdir(prev)
	}
}
