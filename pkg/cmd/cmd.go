package cmd

import (
	"appgate/internal/cmdutil"
	"appgate/internal/elevate"
	"appgate/pkg/cmd/apps"
	"appgate/pkg/cmd/block"
	"appgate/pkg/cmd/history"
	"appgate/pkg/cmd/menu"
	"appgate/pkg/cmd/processes"
	"github.com/spf13/cobra"
)

func New(f *cmdutil.Factory) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "appgate",
		Short:         "appgate - per-application network access control",
		Long:          "Block and unblock network access for individual programs with Windows Filtering Platform rules. Without a subcommand an interactive menu is shown. Rules last until they are removed or the program exits",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return f.Bootstrap()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := f.Controller.Initialize(); err != nil {
				return err
			}
			return menu.Run(cmd.Context(), f.Controller, f.Config.HistoryLimit)
		},
	}

	cmd.PersistentFlags().StringVarP(&f.ConfigPath, "config", "c", "", "Path to the YAML config file (default appgate.yml, or $APPGATE_CONFIG)")
	cmd.PersistentFlags().BoolVar(&f.Elevate, elevate.Flag, false, "Re-launch with administrator rights through UAC when not elevated")

	cmd.AddCommand(processes.NewProcessesCmd(f))
	cmd.AddCommand(apps.NewAppsCmd(f))
	cmd.AddCommand(block.NewBlockCmd(f))
	cmd.AddCommand(history.NewHistoryCmd(f))
	return cmd
}
