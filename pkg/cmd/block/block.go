package block

import (
	"appgate/internal/cmdutil"
	"appgate/internal/service"
	"context"
	"fmt"
	"github.com/spf13/cobra"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
)

func NewBlockCmd(f *cmdutil.Factory) *cobra.Command {
	return &cobra.Command{
		Use:     "block <pid|path>...",
		Short:   "Block applications until interrupted",
		Long:    "Block network access for each given PID or executable path, then wait. On Ctrl+C every rule created by this command is removed",
		Example: "appgate block 4242 \"C:\\Program Files\\App\\app.exe\"",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := f.Controller.Initialize(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			blocked := 0
			for _, target := range args {
				if err := Target(ctx, f.Controller, target); err != nil {
					cmdutil.PrintE(fmt.Sprintf("%s: %s", target, err.Error()))
					continue
				}
				blocked++
			}
			if blocked == 0 {
				return fmt.Errorf("nothing was blocked")
			}

			cmdutil.Print("")
			cmdutil.Print(cmdutil.RuleTable(f.Controller.ListRules()))
			cmdutil.PrintW("Press Ctrl+C to remove the rules and exit")

			<-ctx.Done()
			return f.Controller.DeleteAll()
		},
	}
}

// Target blocks input as a PID when it parses as one, otherwise as a path.
func Target(ctx context.Context, ctrl service.Controller, input string) error {
	pid, isPID := ParsePID(input)
	if isPID {
		_, _, err := ctrl.BlockByPID(ctx, pid)
		return err
	}
	_, _, err := ctrl.BlockByPath(input)
	return err
}

// ParsePID reports whether input is a whole positive number.
func ParsePID(input string) (int32, bool) {
	n, err := strconv.ParseInt(strings.TrimSpace(input), 10, 32)
	if err != nil || n <= 0 {
		return 0, false
	}
	return int32(n), true
}
