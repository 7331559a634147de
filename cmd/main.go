package main

import (
	"appgate/internal/cmdutil"
	"appgate/pkg/cmd"
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	os.Exit(run())
}

func run() int {
	f := &cmdutil.Factory{}
	defer f.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()

	appgateCmd := cmd.New(f)
	if err := appgateCmd.ExecuteContext(ctx); err != nil {
		if errors.Is(err, cmdutil.ErrRelaunched) {
			return 0
		}
		cmdutil.PrintE(err.Error())
		return 1
	}
	return 0
}
