package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"sceneforge/internal/version"
)

func TestValidateManifestCommandAcceptsValidFile(t *testing.T) {
	manifestPath := writeValidManifest(t)
	out, err := runCommand(t, "validate-manifest", manifestPath)
	if err != nil {
		t.Fatalf("validate-manifest failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "valid") {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestValidateManifestCommandRejectsBadSchema(t *testing.T) {
	bad := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(bad, []byte(`{"manifest_id": "not-a-uuid", "scenes": []}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := runCommand(t, "validate-manifest", bad); err == nil {
		t.Fatal("expected schema violation to fail the command")
	}
}

func TestValidateManifestCommandMissingFile(t *testing.T) {
	if _, err := runCommand(t, "validate-manifest", filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Fatal("expected missing file to fail the command")
	}
}

func TestManifestFileName(t *testing.T) {
	got := manifestFileName("docs/linear algebra.md", "2.1")
	if got != "linear_algebra_2_1_manifest.json" {
		t.Fatalf("unexpected manifest file name %q", got)
	}
}

func TestConfigInitWritesSample(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.toml")
	out, err := runCommand(t, "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init failed: %v\n%s", err, out)
	}
	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("sample config not written: %v", err)
	}
	if !strings.Contains(string(data), "[llm]") {
		t.Fatalf("sample config missing llm section: %q", data)
	}

	if _, err := runCommand(t, "config", "init", "--path", target); err == nil {
		t.Fatal("expected second init without --overwrite to fail")
	}
	if _, err := runCommand(t, "config", "init", "--path", target, "--overwrite"); err != nil {
		t.Fatalf("init with --overwrite failed: %v", err)
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := runCommand(t, "version")
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if !strings.Contains(out, version.Version) {
		t.Fatalf("version output %q missing %q", out, version.Version)
	}
}

func TestProcessEmptyQueue(t *testing.T) {
	cfgPath := writeTestConfig(t)
	t.Setenv("SCENEFORGE_API_KEY", "test-key")
	out, err := runCommand(t, "--config", cfgPath, "process")
	if err != nil {
		t.Fatalf("process with empty queue failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Queue is empty") {
		t.Fatalf("unexpected output: %q", out)
	}
}
