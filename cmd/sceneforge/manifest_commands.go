package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"sceneforge/internal/builder"
	"sceneforge/internal/manifest"
	"sceneforge/internal/services"
)

func newGenerateManifestCommand(ctx *commandContext) *cobra.Command {
	var chapterPath string
	var sectionID string
	var outputPath string
	var enqueue bool

	cmd := &cobra.Command{
		Use:   "generate-manifest",
		Short: "Plan scenes for a chapter section and write a manifest",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			completer, err := ctx.llmClient()
			if err != nil {
				return err
			}

			gen := builder.New(completer, builder.NarrationDefaults{
				Provider: cfg.Narration.Provider,
				Voice:    cfg.Narration.Voice,
			}, logger, builder.WithModel(cfg.LLM.Model))

			m, err := gen.Generate(cmd.Context(), chapterPath, sectionID)
			if err != nil {
				return fmt.Errorf("generate manifest: %w (%s)", err, services.Diagnosis(err))
			}

			target := strings.TrimSpace(outputPath)
			if target == "" {
				target = filepath.Join(cfg.Paths.ManifestsDir, manifestFileName(chapterPath, sectionID))
			}
			if err := manifest.Save(m, target); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote manifest %s (%d scenes) to %s\n", m.ManifestID, len(m.Scenes), target)

			if enqueue {
				store, err := ctx.queueStore()
				if err != nil {
					return err
				}
				added, err := store.Add(target)
				if err != nil {
					return err
				}
				if added {
					fmt.Fprintln(out, "Added to render queue")
				} else {
					fmt.Fprintln(out, "Already queued")
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&chapterPath, "chapter", "", "Path to the chapter markdown file")
	cmd.Flags().StringVar(&sectionID, "section", "", "Section identifier within the chapter")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Manifest destination (defaults to the manifests directory)")
	cmd.Flags().BoolVar(&enqueue, "enqueue", false, "Add the manifest to the render queue")
	_ = cmd.MarkFlagRequired("chapter")
	_ = cmd.MarkFlagRequired("section")
	return cmd
}

func newValidateManifestCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "validate-manifest <manifest>",
		Short:       "Validate a manifest file against the schema",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := manifest.Load(args[0])
			if err != nil {
				return fmt.Errorf("%w (%s)", err, services.Diagnosis(err))
			}
			if err := manifest.Validate(m); err != nil {
				return fmt.Errorf("manifest invalid: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Manifest %s valid: %d scenes, title %q\n",
				m.ManifestID, len(m.Scenes), m.Title)
			return nil
		},
	}
}

// manifestFileName derives a stable file name from chapter and section so
// re-generating a section overwrites its previous manifest.
func manifestFileName(chapterPath, sectionID string) string {
	chapter := strings.TrimSuffix(filepath.Base(chapterPath), filepath.Ext(chapterPath))
	sanitize := func(s string) string {
		var b strings.Builder
		for _, r := range strings.TrimSpace(s) {
			switch {
			case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
				b.WriteRune(r)
			default:
				b.WriteRune('_')
			}
		}
		return b.String()
	}
	return fmt.Sprintf("%s_%s_manifest.json", sanitize(chapter), sanitize(sectionID))
}
