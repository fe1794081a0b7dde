package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"sceneforge/internal/diagrams"
	"sceneforge/internal/services"
)

func newGenerateDiagramsCommand(ctx *commandContext) *cobra.Command {
	var chapterPath string
	var outputPath string

	cmd := &cobra.Command{
		Use:   "generate-diagrams",
		Short: "Generate TikZ diagrams for every section of a chapter",
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

			gen := diagrams.New(completer, cfg.LLM.Model, logger)
			result, err := gen.GenerateAll(cmd.Context(), chapterPath)
			if err != nil {
				return fmt.Errorf("generate diagrams: %w (%s)", err, services.Diagnosis(err))
			}

			target := strings.TrimSpace(outputPath)
			if target == "" {
				target = cfg.Paths.DiagramsFile
			}
			if err := diagrams.Save(result, target); err != nil {
				return err
			}

			generated := 0
			for _, code := range result {
				if strings.TrimSpace(code) != "" {
					generated++
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d diagram(s) for %d section(s) to %s\n",
				generated, len(result), target)
			return nil
		},
	}

	cmd.Flags().StringVar(&chapterPath, "chapter", "", "Path to the chapter markdown file")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Diagram JSON destination (defaults to the configured diagrams file)")
	_ = cmd.MarkFlagRequired("chapter")
	return cmd
}
