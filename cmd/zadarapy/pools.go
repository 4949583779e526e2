package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/liliang-cn/zadarapy/pkg/client"
)

func poolCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pools",
		Short: "Storage pool management",
	}

	cmd.AddCommand(poolCache(a))
	cmd.AddCommand(poolCapacityAlerts(a))
	cmd.AddCommand(poolCowCache(a))
	cmd.AddCommand(poolCreate(a))
	cmd.AddCommand(poolDelete(a))
	cmd.AddCommand(poolExpand(a))
	cmd.AddCommand(poolGet(a))
	cmd.AddCommand(poolList(a))
	cmd.AddCommand(poolListChildren(a, "list-raid-groups", "List the RAID groups in a pool", "raid_groups", (*client.Client).ListPoolRaidGroups))
	cmd.AddCommand(poolListChildren(a, "list-volumes", "List the volumes in a pool", "volumes", (*client.Client).ListPoolVolumes))
	cmd.AddCommand(poolListChildren(a, "list-volumes-mirror", "List the mirror destination volumes in a pool", "volumes", (*client.Client).ListPoolMirrorVolumes))
	cmd.AddCommand(poolListChildren(a, "list-volumes-recycle-bin", "List the volumes in a pool's recycle bin", "volumes", (*client.Client).ListPoolRecycleBin))
	cmd.AddCommand(poolPerformance(a))
	cmd.AddCommand(poolRename(a))

	return cmd
}

func addPoolIDFlag(cmd *cobra.Command, poolID *string) {
	cmd.Flags().StringVar(poolID, "pool-id", "", "Pool name, e.g. pool-00000001 (required)")
	_ = cmd.MarkFlagRequired("pool-id")
}

func poolCache(a *app) *cobra.Command {
	var poolID, cache string

	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Enable or disable the SSD cache of a pool",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.call(cmd, "", func(ctx context.Context, c *client.Client) (*client.Response, error) {
				return c.SetPoolCache(ctx, poolID, cache)
			})
		},
	}

	addPoolIDFlag(cmd, &poolID)
	cmd.Flags().StringVar(&cache, "cache", "", "YES or NO (required)")
	_ = cmd.MarkFlagRequired("cache")

	return cmd
}

func poolCowCache(a *app) *cobra.Command {
	var poolID, cowcache string

	cmd := &cobra.Command{
		Use:   "cowcache",
		Short: "Enable or disable the CoW cache of a pool",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.call(cmd, "", func(ctx context.Context, c *client.Client) (*client.Response, error) {
				return c.SetPoolCowCache(ctx, poolID, cowcache)
			})
		},
	}

	addPoolIDFlag(cmd, &poolID)
	cmd.Flags().StringVar(&cowcache, "cowcache", "", "YES or NO (required)")
	_ = cmd.MarkFlagRequired("cowcache")

	return cmd
}

func poolCapacityAlerts(a *app) *cobra.Command {
	var poolID string
	var history, alert, protected, emergency int

	cmd := &cobra.Command{
		Use:   "capacity-alerts",
		Short: "Update the capacity alert thresholds of a pool",
		RunE: func(cmd *cobra.Command, args []string) error {
			alerts := client.CapacityAlerts{
				CapacityHistory: changedInt(cmd, "capacityhistory", history),
				AlertMode:       changedInt(cmd, "alertmode", alert),
				ProtectedMode:   changedInt(cmd, "protectedmode", protected),
				EmergencyMode:   changedInt(cmd, "emergencymode", emergency),
			}
			return a.call(cmd, "", func(ctx context.Context, c *client.Client) (*client.Response, error) {
				return c.UpdatePoolCapacityAlerts(ctx, poolID, alerts)
			})
		},
	}

	addPoolIDFlag(cmd, &poolID)
	cmd.Flags().IntVar(&history, "capacityhistory", 0, "Minutes of history used to predict exhaustion")
	cmd.Flags().IntVar(&alert, "alertmode", 0, "Alert this many minutes before the pool is full")
	cmd.Flags().IntVar(&protected, "protectedmode", 0, "Block new objects this many minutes before the pool is full")
	cmd.Flags().IntVar(&emergency, "emergencymode", 0, "Delete old snapshots when free space drops below this many GB")

	return cmd
}

func poolCreate(a *app) *cobra.Command {
	var req client.CreatePoolRequest
	var capacity string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new storage pool",
		RunE: func(cmd *cobra.Command, args []string) error {
			gb, err := parseCapacity(capacity)
			if err != nil {
				return err
			}
			req.CapacityGB = gb
			return a.call(cmd, "pool_name", func(ctx context.Context, c *client.Client) (*client.Response, error) {
				return c.CreatePool(ctx, req)
			})
		},
	}

	cmd.Flags().StringVar(&req.DisplayName, "display-name", "", "Pool display name (required)")
	cmd.Flags().StringVar(&req.RaidGroups, "raid-groups", "", "Comma separated RAID groups, e.g. RaidGroup-1,RaidGroup-2 (required)")
	cmd.Flags().StringVar(&capacity, "capacity", "", "Capacity in GB, or with a unit such as 2T (required)")
	cmd.Flags().StringVar(&req.PoolType, "pooltype", "Repository", "Transactional, Repository, Archival, Iops-Optimized, Balanced or Throughput-Optimized")
	cmd.Flags().StringVar(&req.Cache, "cache", "NO", "Enable the SSD cache: YES or NO")
	cmd.Flags().StringVar(&req.CowCache, "cowcache", "YES", "Enable the CoW cache when the SSD cache is on: YES or NO")
	cmd.Flags().StringVar(&req.Mode, "mode", "stripe", "stripe or simple")
	_ = cmd.MarkFlagRequired("display-name")
	_ = cmd.MarkFlagRequired("raid-groups")
	_ = cmd.MarkFlagRequired("capacity")

	return cmd
}

func poolDelete(a *app) *cobra.Command {
	var poolID string

	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete a storage pool",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.call(cmd, "", func(ctx context.Context, c *client.Client) (*client.Response, error) {
				return c.DeletePool(ctx, poolID)
			})
		},
	}

	addPoolIDFlag(cmd, &poolID)

	return cmd
}

func poolExpand(a *app) *cobra.Command {
	var poolID, raidGroups, capacity string

	cmd := &cobra.Command{
		Use:   "expand",
		Short: "Add RAID groups to a storage pool",
		RunE: func(cmd *cobra.Command, args []string) error {
			gb, err := parseCapacity(capacity)
			if err != nil {
				return err
			}
			return a.call(cmd, "", func(ctx context.Context, c *client.Client) (*client.Response, error) {
				return c.ExpandPool(ctx, poolID, raidGroups, gb)
			})
		},
	}

	addPoolIDFlag(cmd, &poolID)
	cmd.Flags().StringVar(&raidGroups, "raid-groups", "", "Comma separated RAID groups to add (required)")
	cmd.Flags().StringVar(&capacity, "capacity", "", "Capacity to add in GB, or with a unit (required)")
	_ = cmd.MarkFlagRequired("raid-groups")
	_ = cmd.MarkFlagRequired("capacity")

	return cmd
}

func poolGet(a *app) *cobra.Command {
	var poolID string

	cmd := &cobra.Command{
		Use:   "get",
		Short: "Show a storage pool",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.call(cmd, "pool", func(ctx context.Context, c *client.Client) (*client.Response, error) {
				return c.GetPool(ctx, poolID)
			})
		},
	}

	addPoolIDFlag(cmd, &poolID)

	return cmd
}

func poolList(a *app) *cobra.Command {
	var page client.Page

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List storage pools",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.call(cmd, "pools", func(ctx context.Context, c *client.Client) (*client.Response, error) {
				return c.ListPools(ctx, page)
			})
		},
	}

	addPageFlags(cmd, &page)

	return cmd
}

// poolListChildren builds the list commands that take a pool and a page.
func poolListChildren(a *app, use, short, returnKey string,
	fn func(*client.Client, context.Context, string, client.Page) (*client.Response, error)) *cobra.Command {
	var poolID string
	var page client.Page

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.call(cmd, returnKey, func(ctx context.Context, c *client.Client) (*client.Response, error) {
				return fn(c, ctx, poolID, page)
			})
		},
	}

	addPoolIDFlag(cmd, &poolID)
	addPageFlags(cmd, &page)

	return cmd
}

func poolPerformance(a *app) *cobra.Command {
	var poolID string
	var interval int

	cmd := &cobra.Command{
		Use:   "performance",
		Short: "Show pool performance metering",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.call(cmd, "usages", func(ctx context.Context, c *client.Client) (*client.Response, error) {
				return c.PoolPerformance(ctx, poolID, interval)
			})
		},
	}

	addPoolIDFlag(cmd, &poolID)
	addIntervalFlag(cmd, &interval)

	return cmd
}

func poolRename(a *app) *cobra.Command {
	var poolID, name string

	cmd := &cobra.Command{
		Use:   "rename",
		Short: "Rename a storage pool",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.call(cmd, "", func(ctx context.Context, c *client.Client) (*client.Response, error) {
				return c.RenamePool(ctx, poolID, name)
			})
		},
	}

	addPoolIDFlag(cmd, &poolID)
	addDisplayNameFlag(cmd, &name)

	return cmd
}
