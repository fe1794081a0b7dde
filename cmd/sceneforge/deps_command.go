package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"sceneforge/internal/deps"
)

func newDepsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "deps",
		Short: "Check that required external tools are installed",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			statuses := deps.CheckBinaries(cmd.Context(), deps.Requirements(cfg))
			rows := make([][]string, 0, len(statuses))
			for _, s := range statuses {
				available := "missing"
				if s.Available {
					available = "ok"
				}
				rows = append(rows, []string{s.Name, s.Command, available, yesNo(s.Optional), s.Detail})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Tool", "Command", "Status", "Optional", "Detail"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft},
			))

			if !deps.AllRequired(statuses) {
				return errors.New("required tools are missing")
			}
			return nil
		},
	}
}
