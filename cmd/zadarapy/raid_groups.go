package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/liliang-cn/zadarapy/pkg/client"
)

func raidGroupCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "raid-groups",
		Short: "RAID group management",
	}

	cmd.AddCommand(raidGroupCreate(a))
	cmd.AddCommand(raidGroupAction(a, "delete", "Delete a RAID group", (*client.Client).DeleteRaidGroup))
	cmd.AddCommand(raidGroupGet(a))
	cmd.AddCommand(raidGroupHotSpareAdd(a))
	cmd.AddCommand(raidGroupAction(a, "hot-spare-remove", "Remove the hot spare of a RAID group", (*client.Client).RemoveHotSpare))
	cmd.AddCommand(raidGroupList(a, "list", "List RAID groups", (*client.Client).ListRaidGroups))
	cmd.AddCommand(raidGroupListDisks(a))
	cmd.AddCommand(raidGroupList(a, "list-free", "List RAID groups not in a pool", (*client.Client).ListFreeRaidGroups))
	cmd.AddCommand(raidGroupAction(a, "media-scan-pause", "Pause the media scan of a RAID group", (*client.Client).PauseMediaScan))
	cmd.AddCommand(raidGroupAction(a, "media-scan-start", "Start a media scan of a RAID group", (*client.Client).StartMediaScan))
	cmd.AddCommand(raidGroupPerformance(a))
	cmd.AddCommand(raidGroupRename(a))
	cmd.AddCommand(raidGroupAction(a, "repair", "Repair a degraded RAID group", (*client.Client).RepairRaidGroup))
	cmd.AddCommand(raidGroupResyncSpeed(a))

	return cmd
}

func addRaidGroupIDFlag(cmd *cobra.Command, raidGroupID *string) {
	cmd.Flags().StringVar(raidGroupID, "raid-group-id", "", "RAID group name, e.g. RaidGroup-1 (required)")
	_ = cmd.MarkFlagRequired("raid-group-id")
}

func raidGroupCreate(a *app) *cobra.Command {
	var req client.CreateRaidGroupRequest

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a RAID group from free drives",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.call(cmd, "raidgroup_name", func(ctx context.Context, c *client.Client) (*client.Response, error) {
				return c.CreateRaidGroup(ctx, req)
			})
		},
	}

	cmd.Flags().StringVar(&req.DisplayName, "display-name", "", "RAID group display name (required)")
	cmd.Flags().StringVar(&req.Protection, "protection", "", "RAID1, RAID5 or RAID6 (required)")
	cmd.Flags().StringVar(&req.Drives, "disk", "", "Comma separated drive names (required)")
	cmd.Flags().IntVar(&req.StripeSize, "stripe-size", 64, "Stripe size in KB for RAID5 and RAID6")
	cmd.Flags().StringVar(&req.HotSpare, "hot-spare", "NO", "Add a hot spare: YES or NO")
	addForceFlag(cmd, &req.Force)
	_ = cmd.MarkFlagRequired("display-name")
	_ = cmd.MarkFlagRequired("protection")
	_ = cmd.MarkFlagRequired("disk")

	return cmd
}

// raidGroupAction builds the commands that only take a RAID group and print
// nothing.
func raidGroupAction(a *app, use, short string,
	fn func(*client.Client, context.Context, string) (*client.Response, error)) *cobra.Command {
	var raidGroupID string

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.call(cmd, "", func(ctx context.Context, c *client.Client) (*client.Response, error) {
				return fn(c, ctx, raidGroupID)
			})
		},
	}

	addRaidGroupIDFlag(cmd, &raidGroupID)

	return cmd
}

func raidGroupGet(a *app) *cobra.Command {
	var raidGroupID string

	cmd := &cobra.Command{
		Use:   "get",
		Short: "Show a RAID group",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.call(cmd, "raid_group", func(ctx context.Context, c *client.Client) (*client.Response, error) {
				return c.GetRaidGroup(ctx, raidGroupID)
			})
		},
	}

	addRaidGroupIDFlag(cmd, &raidGroupID)

	return cmd
}

func raidGroupHotSpareAdd(a *app) *cobra.Command {
	var raidGroupID, driveID, force string

	cmd := &cobra.Command{
		Use:   "hot-spare-add",
		Short: "Add a free drive as hot spare",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.call(cmd, "", func(ctx context.Context, c *client.Client) (*client.Response, error) {
				return c.AddHotSpare(ctx, raidGroupID, driveID, force)
			})
		},
	}

	addRaidGroupIDFlag(cmd, &raidGroupID)
	addDriveIDFlag(cmd, &driveID)
	addForceFlag(cmd, &force)

	return cmd
}

func raidGroupList(a *app, use, short string,
	fn func(*client.Client, context.Context, client.Page) (*client.Response, error)) *cobra.Command {
	var page client.Page

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.call(cmd, "raid_groups", func(ctx context.Context, c *client.Client) (*client.Response, error) {
				return fn(c, ctx, page)
			})
		},
	}

	addPageFlags(cmd, &page)

	return cmd
}

func raidGroupListDisks(a *app) *cobra.Command {
	var raidGroupID string
	var page client.Page

	cmd := &cobra.Command{
		Use:   "list-disks",
		Short: "List the drives of a RAID group",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.call(cmd, "disks", func(ctx context.Context, c *client.Client) (*client.Response, error) {
				return c.ListRaidGroupDrives(ctx, raidGroupID, page)
			})
		},
	}

	addRaidGroupIDFlag(cmd, &raidGroupID)
	addPageFlags(cmd, &page)

	return cmd
}

func raidGroupPerformance(a *app) *cobra.Command {
	var raidGroupID string
	var interval int

	cmd := &cobra.Command{
		Use:   "performance",
		Short: "Show RAID group performance metering",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.call(cmd, "usages", func(ctx context.Context, c *client.Client) (*client.Response, error) {
				return c.RaidGroupPerformance(ctx, raidGroupID, interval)
			})
		},
	}

	addRaidGroupIDFlag(cmd, &raidGroupID)
	addIntervalFlag(cmd, &interval)

	return cmd
}

func raidGroupRename(a *app) *cobra.Command {
	var raidGroupID, name string

	cmd := &cobra.Command{
		Use:   "rename",
		Short: "Rename a RAID group",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.call(cmd, "", func(ctx context.Context, c *client.Client) (*client.Response, error) {
				return c.RenameRaidGroup(ctx, raidGroupID, name)
			})
		},
	}

	addRaidGroupIDFlag(cmd, &raidGroupID)
	addDisplayNameFlag(cmd, &name)

	return cmd
}

func raidGroupResyncSpeed(a *app) *cobra.Command {
	var raidGroupID string
	var minimum, maximum int

	cmd := &cobra.Command{
		Use:   "resync-speed",
		Short: "Set the resync speed limits of a RAID group",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.call(cmd, "", func(ctx context.Context, c *client.Client) (*client.Response, error) {
				return c.SetResyncSpeed(ctx, raidGroupID, minimum, maximum)
			})
		},
	}

	addRaidGroupIDFlag(cmd, &raidGroupID)
	cmd.Flags().IntVar(&minimum, "minimum", 0, "Minimum resync speed in MB/s (required)")
	cmd.Flags().IntVar(&maximum, "maximum", 0, "Maximum resync speed in MB/s (required)")
	_ = cmd.MarkFlagRequired("minimum")
	_ = cmd.MarkFlagRequired("maximum")

	return cmd
}
