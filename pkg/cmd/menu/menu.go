package menu

import (
	"appgate/internal/cmdutil"
	"appgate/internal/service"
	"appgate/pkg/cmd/apps"
	"appgate/pkg/cmd/block"
	"appgate/pkg/cmd/history"
	"appgate/pkg/cmd/processes"
	"context"
	"errors"
	"fmt"
	"github.com/manifoldco/promptui"
	"strconv"
	"strings"
)

type (
	item struct {
		Key   string
		Label string
		run   func(ctx context.Context, m *menu) error
	}

	menu struct {
		ctrl         service.Controller
		historyLimit int
	}
)

var items = []item{
	{Key: "1", Label: "List network processes", run: func(ctx context.Context, m *menu) error {
		return processes.Show(ctx, m.ctrl)
	}},
	{Key: "2", Label: "List installed applications", run: func(ctx context.Context, m *menu) error {
		return apps.Browse(ctx, m.ctrl, true)
	}},
	{Key: "3", Label: "Block process (PID or path)", run: func(ctx context.Context, m *menu) error {
		return m.block(ctx)
	}},
	{Key: "4", Label: "Unblock process (PID or path)", run: func(ctx context.Context, m *menu) error {
		return m.unblock(ctx)
	}},
	{Key: "5", Label: "Show active rules", run: func(ctx context.Context, m *menu) error {
		return m.showRules(ctx)
	}},
	{Key: "6", Label: "Delete rule by serial", run: func(ctx context.Context, m *menu) error {
		return m.deleteBySerial(ctx)
	}},
	{Key: "7", Label: "Delete all rules", run: func(ctx context.Context, m *menu) error {
		return m.deleteAll(ctx)
	}},
	{Key: "8", Label: "Show history", run: func(ctx context.Context, m *menu) error {
		return history.Show(ctx, m.ctrl, m.historyLimit)
	}},
	{Key: "0", Label: "Exit"},
}

// Run shows the main menu until the user picks Exit or interrupts.
func Run(ctx context.Context, ctrl service.Controller, historyLimit int) error {
	m := &menu{ctrl: ctrl, historyLimit: historyLimit}

	for {
		sel := promptui.Select{
			Label: "AppGate",
			Items: items,
			Size:  len(items),
			Templates: &promptui.SelectTemplates{
				Label:    "{{ . | bold }}",
				Active:   "▸ {{ .Key | cyan }}. {{ .Label | cyan }}",
				Inactive: "  {{ .Key }}. {{ .Label }}",
				Selected: "✔ {{ .Label | green }}",
			},
		}
		idx, _, err := sel.Run()
		if err != nil {
			if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
				return nil
			}
			return err
		}

		chosen := items[idx]
		if chosen.run == nil {
			return nil
		}
		if err := chosen.run(ctx, m); err != nil && !errors.Is(err, promptui.ErrInterrupt) {
			cmdutil.PrintE(err.Error())
		}
	}
}

func (m *menu) block(ctx context.Context) error {
	input, err := ask("Enter PID or process path to block")
	if err != nil {
		return err
	}
	return block.Target(ctx, m.ctrl, input)
}

func (m *menu) unblock(ctx context.Context) error {
	input, err := ask("Enter PID or process path to unblock")
	if err != nil {
		return err
	}

	var removed bool
	if pid, isPID := block.ParsePID(input); isPID {
		_, removed, err = m.ctrl.UnblockByPID(ctx, pid)
	} else {
		_, removed, err = m.ctrl.UnblockByPath(input)
	}
	if err != nil {
		return err
	}
	if !removed {
		cmdutil.PrintW("No rule found for " + strings.TrimSpace(input))
	}
	return nil
}

func (m *menu) showRules(context.Context) error {
	rules := m.ctrl.ListRules()
	if len(rules) == 0 {
		cmdutil.PrintW("No rules found.")
		return nil
	}
	cmdutil.Print("")
	cmdutil.Print(cmdutil.RuleTable(rules))
	return nil
}

func (m *menu) deleteBySerial(context.Context) error {
	if len(m.ctrl.ListRules()) == 0 {
		cmdutil.PrintW("No rules to delete.")
		return nil
	}

	p := promptui.Prompt{
		Label:    "Enter rule serial number to delete",
		Validate: validateSerial,
	}
	input, err := p.Run()
	if err != nil {
		return err
	}

	serial, _ := ParseSerial(input)
	removed, err := m.ctrl.DeleteBySerial(serial)
	if err != nil {
		return err
	}
	if !removed {
		cmdutil.PrintW(fmt.Sprintf("Rule %d not found.", serial))
	}
	return nil
}

func (m *menu) deleteAll(context.Context) error {
	p := promptui.Prompt{
		Label:     "Remove every rule created in this session",
		IsConfirm: true,
	}
	if _, err := p.Run(); err != nil {
		if errors.Is(err, promptui.ErrAbort) {
			return nil
		}
		return err
	}
	return m.ctrl.DeleteAll()
}

func ask(label string) (string, error) {
	p := promptui.Prompt{
		Label: label,
		Validate: func(s string) error {
			if strings.TrimSpace(s) == "" {
				return errors.New("no input")
			}
			return nil
		},
	}
	return p.Run()
}

// ParseSerial accepts a positive rule serial.
func ParseSerial(input string) (int, error) {
	serial, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil || serial <= 0 {
		return 0, fmt.Errorf("%q is not a rule serial", input)
	}
	return serial, nil
}

func validateSerial(s string) error {
	_, err := ParseSerial(s)
	return err
}
