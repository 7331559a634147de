package apps

import (
	"appgate/internal/cmdutil"
	"appgate/internal/service"
	"appgate/internal/types"
	"context"
	"errors"
	"fmt"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"strconv"
	"strings"
	"time"
)

var ErrInvalidSelection = errors.New("invalid selection")

func NewAppsCmd(f *cmdutil.Factory) *cobra.Command {
	var interactive bool

	cmd := &cobra.Command{
		Use:   "apps",
		Short: "List installed applications",
		Long:  "List applications found in the registry, installed packages, the usual install directories and running processes. With --select a listed application can be blocked or unblocked by number",
		Run: func(cmd *cobra.Command, args []string) {
			if interactive {
				if err := f.Controller.Initialize(); err != nil {
					cmdutil.PrintE(err.Error())
					return
				}
			}
			if err := Browse(cmd.Context(), f.Controller, interactive); err != nil {
				cmdutil.PrintE(err.Error())
			}
		},
	}

	cmd.Flags().BoolVarP(&interactive, "select", "s", false, "Prompt for an application to block or unblock after listing")
	return cmd
}

// Browse lists installed applications and, when interactive, blocks or
// unblocks the one the user picks.
func Browse(ctx context.Context, ctrl service.Controller, interactive bool) error {
	cmdutil.StartLoading("Scanning installed applications...")
	scanCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()
	found, err := ctrl.Applications(scanCtx)
	cmdutil.StopLoading()
	if err != nil {
		return err
	}

	if len(found) == 0 {
		cmdutil.PrintW("No installed applications found.")
		return nil
	}
	cmdutil.Print("")
	cmdutil.Print(cmdutil.AppTable(found))
	if !interactive {
		return nil
	}

	p := promptui.Prompt{
		Label: "Enter number to block (or 'u<number>' to unblock, Enter to skip)",
		Validate: func(s string) error {
			if strings.TrimSpace(s) == "" {
				return nil
			}
			_, _, err := ParseSelection(s, len(found))
			return err
		},
	}
	input, err := p.Run()
	if err != nil {
		return err
	}
	if strings.TrimSpace(input) == "" {
		return nil
	}

	idx, unblock, err := ParseSelection(input, len(found))
	if err != nil {
		return err
	}
	return apply(ctrl, found[idx], unblock)
}

func apply(ctrl service.Controller, app types.ApplicationInfo, unblock bool) error {
	if unblock {
		_, removed, err := ctrl.UnblockByPath(app.ExePath)
		if err != nil {
			return err
		}
		if !removed {
			cmdutil.PrintW(fmt.Sprintf("No rule found for %s", app.ExePath))
		}
		return nil
	}

	_, _, err := ctrl.BlockByPath(app.ExePath)
	return err
}

// ParseSelection reads "3" (block the third application) or "u3" (unblock
// it) and returns the zero-based index.
func ParseSelection(input string, count int) (int, bool, error) {
	s := strings.TrimSpace(input)
	unblock := false
	if len(s) > 1 && (s[0] == 'u' || s[0] == 'U') {
		unblock = true
		s = strings.TrimSpace(s[1:])
	}

	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false, fmt.Errorf("%w: %q is not a number", ErrInvalidSelection, input)
	}
	if n < 1 || n > count {
		return 0, false, fmt.Errorf("%w: choose between 1 and %d", ErrInvalidSelection, count)
	}
	return n - 1, unblock, nil
}
