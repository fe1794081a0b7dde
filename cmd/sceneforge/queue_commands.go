package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"sceneforge/internal/manifest"
)

func newQueueCommand(ctx *commandContext) *cobra.Command {
	queueCmd := &cobra.Command{
		Use:   "queue",
		Short: "Inspect and manage the render queue",
	}

	queueCmd.AddCommand(newQueueAddCommand(ctx))
	queueCmd.AddCommand(newQueueGetCommand(ctx))
	queueCmd.AddCommand(newQueueCompleteCommand(ctx))
	queueCmd.AddCommand(newQueueListCommand(ctx))

	return queueCmd
}

func newQueueAddCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "add <manifest>",
		Short: "Add a manifest to the render queue",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// An entry that fails validation would poison the drain loop,
			// so reject it here.
			m, err := manifest.Load(args[0])
			if err != nil {
				return err
			}
			if err := manifest.Validate(m); err != nil {
				return fmt.Errorf("manifest invalid: %w", err)
			}

			store, err := ctx.queueStore()
			if err != nil {
				return err
			}
			added, err := store.Add(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if added {
				fmt.Fprintf(out, "Queued %s\n", args[0])
			} else {
				fmt.Fprintf(out, "%s is already queued\n", args[0])
			}
			return nil
		},
	}
}

func newQueueGetCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "get",
		Short: "Show the next manifest in the queue",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.queueStore()
			if err != nil {
				return err
			}
			next, ok := store.PeekNext()
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "Queue is empty")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), next)
			return nil
		},
	}
}

func newQueueCompleteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "complete <manifest>",
		Short: "Remove a finished manifest from the queue",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.queueStore()
			if err != nil {
				return err
			}
			removed, err := store.Complete(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if removed {
				fmt.Fprintf(out, "Completed %s\n", args[0])
			} else {
				fmt.Fprintf(out, "%s was not queued\n", args[0])
			}
			return nil
		},
	}
}

func newQueueListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List queued manifests in processing order",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.queueStore()
			if err != nil {
				return err
			}
			entries := store.Entries()
			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "Queue is empty")
				return nil
			}
			rows := make([][]string, 0, len(entries))
			for i, entry := range entries {
				rows = append(rows, []string{strconv.Itoa(i + 1), entry})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"#", "Manifest"},
				rows,
				[]columnAlignment{alignRight, alignLeft},
			))
			return nil
		},
	}
}
