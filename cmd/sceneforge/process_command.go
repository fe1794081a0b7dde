package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"sceneforge/internal/manifest"
	"sceneforge/internal/pipeline"
	"sceneforge/internal/services"
)

func newProcessCommand(ctx *commandContext) *cobra.Command {
	var quality string

	cmd := &cobra.Command{
		Use:   "process",
		Short: "Render queued manifests in order until the queue is empty",
		Long: `Process drains the render queue front to back. Each manifest is
rendered completely before it is removed; a failing manifest stays at the
front of the queue so the failure can be inspected and retried.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := pipeline.NormalizeQuality(quality); err != nil {
				return err
			}
			store, err := ctx.queueStore()
			if err != nil {
				return err
			}
			runner, err := ctx.pipelineRunner()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			processed := 0
			for {
				ref, ok := store.PeekNext()
				if !ok {
					break
				}
				fmt.Fprintf(out, "Processing %s\n", ref)

				m, err := manifest.Load(ref)
				if err != nil {
					return fmt.Errorf("queue entry %s: %w (%s)", ref, err, services.Diagnosis(err))
				}
				if err := manifest.Validate(m); err != nil {
					return fmt.Errorf("queue entry %s invalid: %w", ref, err)
				}
				result, err := runner.Render(cmd.Context(), m, quality)
				if err != nil {
					return fmt.Errorf("render %s: %w (%s)", ref, err, services.Diagnosis(err))
				}
				if _, err := store.Complete(ref); err != nil {
					return fmt.Errorf("complete queue entry %s: %w", ref, err)
				}
				fmt.Fprintf(out, "Finished %s -> %s\n", ref, result.VideoPath)
				processed++
			}

			if processed == 0 {
				fmt.Fprintln(out, "Queue is empty")
			} else {
				fmt.Fprintf(out, "Processed %d manifest(s)\n", processed)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&quality, "quality", "q", "low", "Render quality tier (low or high)")
	return cmd
}
