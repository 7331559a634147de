package cmdutil

import (
	"fmt"
	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"io"
	"os"
	"time"
)

var (
	loadingSpinner = spinner.New(spinner.CharSets[14], time.Millisecond*100, spinner.WithWriter(os.Stderr))

	// Out receives everything the Print helpers write.
	Out io.Writer = os.Stdout
)

func PrintE(message string) {
	_, _ = fmt.Fprintln(Out)
	_, _ = color.New(color.FgRed).Fprintln(Out, message)
}

func Print(message string) {
	_, _ = fmt.Fprintln(Out, message)
}

func PrintS(message string) {
	_, _ = fmt.Fprintln(Out)
	_, _ = color.New(color.FgGreen).Fprintln(Out, message)
}

func PrintW(message string) {
	_, _ = color.New(color.FgYellow).Fprintln(Out, message)
}

func StartLoading(message string) {
	loadingSpinner.Prefix = message + " "
	loadingSpinner.Start()
}

func StopLoading() {
	loadingSpinner.Stop()
}
