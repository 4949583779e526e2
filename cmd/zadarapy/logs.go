package main

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/liliang-cn/zadarapy/pkg/client"
)

func logCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logs",
		Short: "VPSA event log",
	}

	cmd.AddCommand(logList(a))

	return cmd
}

func logList(a *app) *cobra.Command {
	var sort string
	var severity int
	var page client.Page

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List event log messages",
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := client.LogFilter{
				Sort:     strings.ToUpper(sort),
				Severity: changedInt(cmd, "severity", severity),
			}
			return a.call(cmd, "messages", func(ctx context.Context, c *client.Client) (*client.Response, error) {
				return c.ListLogs(ctx, filter, page)
			})
		},
	}

	cmd.Flags().StringVar(&sort, "sort", "DESC", "Order by message time: ASC or DESC")
	cmd.Flags().IntVar(&severity, "severity", 0, "Only show messages of this severity, e.g. 3 for critical")
	addPageFlags(cmd, &page)

	return cmd
}
