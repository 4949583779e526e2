package main

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/liliang-cn/zadarapy/pkg/audit"
	"github.com/liliang-cn/zadarapy/pkg/client"
)

func historyCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Mutating API calls recorded with --audit-db",
	}

	cmd.AddCommand(historyList(a))
	cmd.AddCommand(historyClear(a))

	return cmd
}

func (a *app) openAudit() (*audit.DB, error) {
	if a.opts.auditDB == "" {
		return nil, fmt.Errorf("%w: --audit-db is required", client.ErrInvalidArgument)
	}
	return audit.Open(&audit.Config{Path: a.opts.auditDB}, a.logger)
}

func historyList(a *app) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded calls, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit < 0 {
				return fmt.Errorf("%w: limit must not be negative, got %d", client.ErrInvalidArgument, limit)
			}
			db, err := a.openAudit()
			if err != nil {
				return err
			}
			defer db.Close()

			entries, err := db.List(cmd.Context(), limit)
			if err != nil {
				return err
			}

			p := a.printer()
			if p.json {
				if entries == nil {
					entries = []*audit.Entry{}
				}
				b, err := json.MarshalIndent(entries, "", "  ")
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(a.out, string(b))
				return err
			}
			if len(entries) == 0 {
				_, err := fmt.Fprintln(a.out, msgEmptyResult)
				return err
			}

			records := make([]map[string]any, 0, len(entries))
			for _, e := range entries {
				records = append(records, entryRecord(e))
			}
			return p.printRecords(p.filter(records))
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of entries, 0 for all")

	return cmd
}

func historyClear(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every recorded call",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := a.openAudit()
			if err != nil {
				return err
			}
			defer db.Close()

			n, err := db.Clear(cmd.Context())
			if err != nil {
				return err
			}
			a.logger.Debug("Cleared audit journal",
				zap.String("path", db.Path()),
				zap.Int("entries", n))
			_, err = fmt.Fprintf(a.out, "Removed %d entries\n", n)
			return err
		},
	}

	return cmd
}

func entryRecord(e *audit.Entry) map[string]any {
	return map[string]any{
		"id":         strconv.FormatUint(e.ID, 10),
		"invocation": e.Invocation,
		"method":     e.Method,
		"path":       e.Path,
		"host":       e.Host,
		"status":     strconv.Itoa(e.Status),
		"error":      e.Error,
		"duration":   e.Duration.Round(time.Millisecond).String(),
		"time":       e.Time.Local().Format(time.RFC3339),
	}
}
