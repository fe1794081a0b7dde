package ffmpeg

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"sceneforge/internal/services"
)

// TestHelperProcess stands in for the ffmpeg binary.
func TestHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}
	switch os.Getenv("FFMPEG_HELPER_MODE") {
	case "success":
		fmt.Fprintln(os.Stderr, "ffmpeg version 6.1.1")
		os.Exit(0)
	case "fail":
		fmt.Fprintln(os.Stderr, "concat_list.txt: Invalid data found when processing input")
		os.Exit(1)
	}
	os.Exit(2)
}

func overrideCommand(t *testing.T, mode string) *[]string {
	t.Helper()
	var capturedArgs []string
	original := commandContext
	commandContext = func(ctx context.Context, name string, args ...string) *exec.Cmd {
		capturedArgs = append([]string(nil), args...)
		cmd := exec.CommandContext(ctx, os.Args[0], "-test.run=TestHelperProcess")
		cmd.Env = append(os.Environ(), "GO_WANT_HELPER_PROCESS=1", "FFMPEG_HELPER_MODE="+mode)
		return cmd
	}
	t.Cleanup(func() {
		commandContext = original
	})
	return &capturedArgs
}

func TestConcatSingleInputShortcut(t *testing.T) {
	client, err := New("ffmpeg-should-never-run")
	if err != nil {
		t.Fatal(err)
	}
	out, err := client.Concat(context.Background(), []string{"/tmp/only.mp4"}, "/tmp/final.mp4")
	if err != nil {
		t.Fatalf("Concat returned error: %v", err)
	}
	if out != "/tmp/only.mp4" {
		t.Fatalf("expected input path back, got %q", out)
	}
}

func TestConcatRunsFFmpegWithListFile(t *testing.T) {
	args := overrideCommand(t, "success")
	dir := t.TempDir()
	output := filepath.Join(dir, "final.mp4")

	var gotList string
	originalCommand := commandContext
	commandContext = func(ctx context.Context, name string, cmdArgs ...string) *exec.Cmd {
		// The list is removed after the run; snapshot it mid-flight.
		for i, a := range cmdArgs {
			if a == "-i" && i+1 < len(cmdArgs) {
				data, err := os.ReadFile(cmdArgs[i+1])
				if err != nil {
					t.Errorf("concat list unreadable: %v", err)
				}
				gotList = string(data)
			}
		}
		return originalCommand(ctx, name, cmdArgs...)
	}
	t.Cleanup(func() { commandContext = originalCommand })

	client, err := New(os.Args[0])
	if err != nil {
		t.Fatal(err)
	}
	out, err := client.Concat(context.Background(), []string{"/tmp/a.mp4", "/tmp/it's.mp4"}, output)
	if err != nil {
		t.Fatalf("Concat returned error: %v", err)
	}
	if out != output {
		t.Fatalf("unexpected output path: %q", out)
	}

	want := "file '/tmp/a.mp4'\nfile '/tmp/it'\\''s.mp4'\n"
	if gotList != want {
		t.Fatalf("concat list mismatch:\n got %q\nwant %q", gotList, want)
	}

	got := *args
	joined := strings.Join(got, " ")
	for _, flag := range []string{"-y", "-f concat", "-safe 0", "-c copy"} {
		if !strings.Contains(joined, flag) {
			t.Fatalf("missing %q in args %v", flag, got)
		}
	}
	if got[len(got)-1] != output {
		t.Fatalf("expected output path as last arg, got %v", got)
	}

	if _, err := os.Stat(filepath.Join(dir, "concat_list.txt")); !os.IsNotExist(err) {
		t.Fatalf("concat list not cleaned up: %v", err)
	}
}

func TestConcatNonZeroExitCapturesOutput(t *testing.T) {
	overrideCommand(t, "fail")
	dir := t.TempDir()
	client, err := New(os.Args[0])
	if err != nil {
		t.Fatal(err)
	}
	_, err = client.Concat(context.Background(), []string{"/a.mp4", "/b.mp4"}, filepath.Join(dir, "final.mp4"))
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool error, got %v", err)
	}
	if !strings.Contains(err.Error(), "Invalid data") {
		t.Fatalf("captured output missing from error: %v", err)
	}
}

func TestConcatMissingBinary(t *testing.T) {
	client, err := New("definitely-not-ffmpeg-anywhere")
	if err != nil {
		t.Fatal(err)
	}
	dir := t.TempDir()
	_, err = client.Concat(context.Background(), []string{"/a.mp4", "/b.mp4"}, filepath.Join(dir, "final.mp4"))
	if !errors.Is(err, services.ErrToolMissing) {
		t.Fatalf("expected tool-missing error, got %v", err)
	}
}

func TestConcatNoInputs(t *testing.T) {
	client, err := New("ffmpeg")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := client.Concat(context.Background(), nil, "/tmp/final.mp4"); err == nil {
		t.Fatal("expected error for empty inputs")
	}
}

func TestCombineSubtitlesAppendsInOrder(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "a.srt")
	second := filepath.Join(dir, "b.srt")
	if err := os.WriteFile(first, []byte("1\n00:00:00,000 --> 00:00:02,000\nHello\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(second, []byte("1\n00:00:00,000 --> 00:00:03,000\nWorld\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	out := filepath.Join(dir, "combined.srt")
	if err := CombineSubtitles([]string{first, second}, out); err != nil {
		t.Fatalf("CombineSubtitles returned error: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	text := string(data)
	if !strings.Contains(text, "Hello") || !strings.Contains(text, "World") {
		t.Fatalf("combined subtitles missing cues: %q", text)
	}
	if strings.Index(text, "Hello") > strings.Index(text, "World") {
		t.Fatalf("cues out of order: %q", text)
	}
}

func TestCombineSubtitlesMissingFile(t *testing.T) {
	dir := t.TempDir()
	err := CombineSubtitles([]string{filepath.Join(dir, "absent.srt")}, filepath.Join(dir, "out.srt"))
	if err == nil {
		t.Fatal("expected error for missing subtitle file")
	}
}
