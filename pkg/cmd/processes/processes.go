package processes

import (
	"appgate/internal/cmdutil"
	"appgate/internal/service"
	"context"
	"github.com/spf13/cobra"
	"time"
)

func NewProcessesCmd(f *cmdutil.Factory) *cobra.Command {
	return &cobra.Command{
		Use:     "processes",
		Aliases: []string{"ps"},
		Short:   "List processes with open network sockets",
		Long:    "List every process that owns a TCP or UDP socket, one row per process with its local and remote ports",
		Run: func(cmd *cobra.Command, args []string) {
			if err := Show(cmd.Context(), f.Controller); err != nil {
				cmdutil.PrintE(err.Error())
			}
		},
	}
}

// Show prints the network process table.
func Show(ctx context.Context, ctrl service.Controller) error {
	cmdutil.StartLoading("Reading socket tables...")
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	rows, err := ctrl.Processes(ctx)
	cmdutil.StopLoading()
	if err != nil {
		return err
	}

	if len(rows) == 0 {
		cmdutil.PrintW("No network processes found.")
		return nil
	}
	cmdutil.Print("")
	cmdutil.Print(cmdutil.ProcessTable(rows))
	return nil
}
