package cmdutil

import (
	"appgate/internal/types"
	"fmt"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/samber/lo"
	"strings"
)

func ProcessTable(rows []types.NetProcRow) string {
	tw := table.NewWriter()
	tw.AppendHeader(table.Row{"PID", "Name", "Path", "Proto", "LocalPorts", "RemotePorts"})
	for _, next := range rows {
		tw.AppendRow(table.Row{
			next.PID,
			next.Name,
			next.Path,
			strings.Join(next.Protocols, ","),
			joinPorts(next.LocalPorts),
			joinPorts(next.RemotePorts),
		})
	}
	return tw.Render()
}

// AppTable numbers applications from 1, the numbers the block prompt accepts.
func AppTable(apps []types.ApplicationInfo) string {
	tw := table.NewWriter()
	tw.AppendHeader(table.Row{"#", "Application", "Executable Path", "Source", "UWP"})
	for i, next := range apps {
		tw.AppendRow(table.Row{
			i + 1,
			next.Name,
			next.ExePath,
			string(next.Source),
			yesNo(next.Packaged),
		})
	}
	return tw.Render()
}

func RuleTable(rules []types.RuleEntry) string {
	tw := table.NewWriter()
	tw.AppendHeader(table.Row{"Serial", "Process Name", "Path", "Direction", "Protocol", "Filter ID"})
	for i, next := range rules {
		if i > 0 && rules[i-1].Serial != next.Serial {
			tw.AppendSeparator()
		}
		tw.AppendRow(table.Row{
			next.Serial,
			next.ProcessName,
			next.ProcessPath,
			next.Layer,
			next.Protocol,
			next.FilterID.String(),
		})
	}
	return tw.Render()
}

func HistoryTable(records []*types.AuditRecord) string {
	tw := table.NewWriter()
	tw.AppendHeader(table.Row{"Time", "Action", "Serial", "Process", "Filters", "Message"})
	for _, next := range records {
		serial := ""
		if next.Serial > 0 {
			serial = fmt.Sprint(next.Serial)
		}
		tw.AppendRow(table.Row{
			next.Timestamp.Local().Format("02-01-2006 15:04:05"),
			string(next.Action),
			serial,
			next.ProcessName,
			next.Filters,
			next.Message,
		})
		tw.AppendSeparator()
	}
	return tw.Render()
}

func joinPorts(ports []uint32) string {
	return strings.Join(lo.Map(ports, func(p uint32, _ int) string {
		return fmt.Sprint(p)
	}), ",")
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}
