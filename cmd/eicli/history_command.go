package main

import (
	"fmt"

	humanize "github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"eicli/internal/history"
)

func init() {
	registerCommand(commandInfo{name: "history", group: groupManage, build: newHistoryCommand})
}

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var (
		limit      int
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:         "history",
		Short:       "List recorded invocations",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openHistory()
			if err != nil {
				return err
			}
			defer store.Close()

			invocations, err := store.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}

			if jsonOutput {
				return writeJSON(cmd, invocations)
			}
			if len(invocations) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No recorded invocations")
				return nil
			}

			rows := make([][]string, 0, len(invocations))
			for _, inv := range invocations {
				detail := inv.Detail
				if inv.Status == history.StatusError {
					detail = truncate(inv.ErrorMessage, 60)
				}
				rows = append(rows, []string{
					humanize.Time(inv.CreatedAt),
					inv.Operation,
					inv.Model,
					inv.Status,
					formatDuration(inv.DurationMS),
					truncate(detail, 60),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"When", "Operation", "Model", "Status", "Duration", "Detail"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
			))
			return nil
		},
	}

	cmd.AddCommand(newHistoryClearCommand(ctx))

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum invocations to list (0 for all)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}

func newHistoryClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:         "clear",
		Short:       "Delete all recorded invocations",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openHistory()
			if err != nil {
				return err
			}
			defer store.Close()

			deleted, err := store.Clear(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d invocations\n", deleted)
			return nil
		},
	}
}
