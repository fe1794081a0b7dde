package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"sceneforge/internal/manifest"
	"sceneforge/internal/pipeline"
	"sceneforge/internal/services"
)

func newRenderCommand(ctx *commandContext) *cobra.Command {
	var manifestPath string
	var quality string

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a manifest into its final video",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := pipeline.NormalizeQuality(quality); err != nil {
				return err
			}
			m, err := manifest.Load(manifestPath)
			if err != nil {
				return fmt.Errorf("%w (%s)", err, services.Diagnosis(err))
			}
			if err := manifest.Validate(m); err != nil {
				return fmt.Errorf("manifest invalid: %w", err)
			}

			runner, err := ctx.pipelineRunner()
			if err != nil {
				return err
			}
			result, err := runner.Render(cmd.Context(), m, quality)
			if err != nil {
				return fmt.Errorf("render failed: %w (%s)", err, services.Diagnosis(err))
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Rendered %d scene(s)\n", len(result.Scenes))
			fmt.Fprintf(out, "Final video: %s\n", result.VideoPath)
			if result.SubtitlePath != "" {
				fmt.Fprintf(out, "Subtitles:   %s\n", result.SubtitlePath)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&manifestPath, "manifest", "", "Path to the manifest file")
	cmd.Flags().StringVarP(&quality, "quality", "q", "low", "Render quality tier (low or high)")
	_ = cmd.MarkFlagRequired("manifest")
	return cmd
}
