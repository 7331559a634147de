package history

import (
	"appgate/internal/cmdutil"
	"appgate/internal/service"
	"context"
	"github.com/spf13/cobra"
)

func NewHistoryCmd(f *cmdutil.Factory) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent rule changes",
		Long:  "Show the most recent block, unblock and delete operations recorded in the audit journal",
		Run: func(cmd *cobra.Command, args []string) {
			if limit <= 0 {
				limit = f.Config.HistoryLimit
			}
			if err := Show(cmd.Context(), f.Controller, limit); err != nil {
				cmdutil.PrintE(err.Error())
			}
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Number of entries to show, defaults to history_limit from the config")
	return cmd
}

func Show(ctx context.Context, ctrl service.Controller, limit int) error {
	records, err := ctrl.History(ctx, limit)
	if err != nil {
		return err
	}

	if len(records) == 0 {
		cmdutil.PrintW("No history recorded yet.")
		return nil
	}
	cmdutil.Print("")
	cmdutil.Print(cmdutil.HistoryTable(records))
	return nil
}
