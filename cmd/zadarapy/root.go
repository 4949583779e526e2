package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/liliang-cn/zadarapy/pkg/audit"
	"github.com/liliang-cn/zadarapy/pkg/client"
	"github.com/liliang-cn/zadarapy/pkg/config"
	"github.com/liliang-cn/zadarapy/pkg/metrics"
	"github.com/liliang-cn/zadarapy/pkg/util"
)

// options holds the global flags of one invocation.
type options struct {
	configFile      string
	host            string
	key             string
	port            int
	insecure        bool
	json            bool
	returnFields    string
	verbose         bool
	vertical        bool
	interactive     bool
	timeout         int
	logFormat       string
	auditDB         string
	metricsTextfile string
}

// app carries the per-invocation state shared by every command.
type app struct {
	opts   options
	in     io.Reader
	out    io.Writer
	errOut io.Writer
	logger *zap.Logger
}

// apiCall performs the request behind one subcommand.
type apiCall func(ctx context.Context, c *client.Client) (*client.Response, error)

func newRootCommand(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "zadarapy",
		Short:         "Zadara VPSA command line interface",
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger, err := initLogger(a.errOut, a.opts.logFormat, a.opts.verbose)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			a.logger = logger
			return nil
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&a.opts.configFile, "api-configfile", "c", "", "INI configuration file (default ~/.zadarapy)")
	flags.StringVarP(&a.opts.host, config.FlagHost, "H", "", "VPSA hostname or IP address")
	flags.StringVarP(&a.opts.key, config.FlagKey, "k", "", "VPSA API key")
	flags.IntVarP(&a.opts.port, config.FlagPort, "p", 0, "VPSA API port (default 443, or 80 with --insecure)")
	flags.BoolVarP(&a.opts.insecure, config.FlagInsecure, "i", false, "Use HTTP instead of HTTPS")
	flags.BoolVarP(&a.opts.json, "json", "j", false, "Print the raw JSON response")
	flags.StringVarP(&a.opts.returnFields, "return-fields", "r", "", "Comma separated fields to show")
	flags.BoolVarP(&a.opts.verbose, "verbose", "v", false, "Log each API request")
	flags.BoolVarP(&a.opts.vertical, "vertical", "V", false, "Show one key/value table per record")
	flags.BoolVar(&a.opts.interactive, "interactive", false, "Browse list results in a scrollable table")
	flags.IntVarP(&a.opts.timeout, "timeout", "t", int(client.DefaultTimeout/time.Second), "API request timeout in seconds")
	flags.StringVar(&a.opts.logFormat, "log-format", "console", "Log format: console or json")
	flags.StringVar(&a.opts.auditDB, "audit-db", "", "Record mutating API calls in this bbolt file")
	flags.StringVar(&a.opts.metricsTextfile, "metrics-textfile", "", "Write Prometheus metrics to this file after the command")
	rootCmd.SetGlobalNormalizationFunc(normalizeFlag)

	rootCmd.AddCommand(poolCommand(a))
	rootCmd.AddCommand(volumeCommand(a))
	rootCmd.AddCommand(driveCommand(a))
	rootCmd.AddCommand(raidGroupCommand(a))
	rootCmd.AddCommand(serverCommand(a))
	rootCmd.AddCommand(controllerCommand(a))
	rootCmd.AddCommand(snapshotPolicyCommand(a))
	rootCmd.AddCommand(logCommand(a))
	rootCmd.AddCommand(historyCommand(a))

	return rootCmd
}

// normalizeFlag accepts --api-hostname as an alias of --api-host.
func normalizeFlag(_ *pflag.FlagSet, name string) pflag.NormalizedName {
	if name == "api-hostname" {
		name = config.FlagHost
	}
	return pflag.NormalizedName(name)
}

func (a *app) printer() *printer {
	return &printer{
		out:         a.out,
		in:          a.in,
		json:        a.opts.json,
		fields:      parseFields(a.opts.returnFields),
		vertical:    a.opts.vertical,
		interactive: a.opts.interactive,
	}
}

// call resolves the endpoint, performs fn and prints the section of the
// response named by returnKey.
func (a *app) call(cmd *cobra.Command, returnKey string, fn apiCall) (err error) {
	start := time.Now()

	if a.opts.metricsTextfile != "" {
		m, merr := metrics.New(a.logger)
		if merr != nil {
			return merr
		}
		defer func() {
			result := "success"
			if err != nil {
				result = "error"
			}
			m.RecordCommand(cmd.CommandPath(), result, time.Since(start).Seconds())
			if werr := m.WriteTextfile(a.opts.metricsTextfile); werr != nil {
				a.logger.Warn("Failed to write metrics textfile",
					zap.String("path", a.opts.metricsTextfile),
					zap.Error(werr))
			}
		}()
		return a.callWith(cmd, returnKey, fn, client.WithMetrics(m))
	}

	return a.callWith(cmd, returnKey, fn)
}

func (a *app) callWith(cmd *cobra.Command, returnKey string, fn apiCall, extra ...client.Option) error {
	if a.opts.timeout <= 0 {
		return fmt.Errorf("%w: timeout must be a positive number of seconds, got %d", client.ErrInvalidArgument, a.opts.timeout)
	}

	ep, err := config.Resolve(config.Options{
		ConfigFile: a.opts.configFile,
		Flags:      cmd.Flags(),
	})
	if err != nil {
		return err
	}

	opts := []client.Option{
		client.WithTimeout(time.Duration(a.opts.timeout) * time.Second),
		client.WithLogger(a.logger),
	}
	opts = append(opts, extra...)

	if a.opts.auditDB != "" {
		db, err := audit.Open(&audit.Config{Path: a.opts.auditDB}, a.logger)
		if err != nil {
			return err
		}
		defer db.Close()
		opts = append(opts, client.WithJournal(db.Journal(uuid.NewString())))
	}

	c, err := client.New(ep, opts...)
	if err != nil {
		return err
	}

	endpoint := c.Endpoint()
	a.logger.Debug("Resolved VPSA endpoint",
		zap.String("url", endpoint.BaseURL()),
		zap.Duration("timeout", c.Timeout()))

	resp, err := fn(cmd.Context(), c)
	if err != nil {
		return err
	}
	return a.printer().print(resp, returnKey)
}

// addPageFlags registers --start and --limit on a list command.
func addPageFlags(cmd *cobra.Command, page *client.Page) {
	cmd.Flags().IntVar(&page.Start, "start", 0, "Offset of the first record")
	cmd.Flags().IntVar(&page.Limit, "limit", 0, "Maximum number of records")
}

func addIntervalFlag(cmd *cobra.Command, interval *int) {
	cmd.Flags().IntVar(interval, "interval", 1, "Metering interval in minutes")
}

func addDisplayNameFlag(cmd *cobra.Command, name *string) {
	cmd.Flags().StringVar(name, "display-name", "", "New display name (required)")
	_ = cmd.MarkFlagRequired("display-name")
}

func addForceFlag(cmd *cobra.Command, force *string) {
	cmd.Flags().StringVar(force, "force", "NO", "Ignore non-critical warnings: YES or NO")
}

// parseCapacity accepts a plain number of GB or a size with a unit and
// returns whole GB.
func parseCapacity(s string) (int, error) {
	gb, err := util.ParseCapacity(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", client.ErrInvalidArgument, err)
	}
	return gb, nil
}

// changedInt returns a pointer to v when the flag was given on the command
// line, and nil otherwise.
func changedInt(cmd *cobra.Command, name string, v int) *int {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	return &v
}
