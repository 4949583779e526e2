package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/liliang-cn/zadarapy/pkg/client"
)

func driveCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "drives",
		Short: "Drive management",
	}

	cmd.AddCommand(driveGet(a))
	cmd.AddCommand(driveList(a, "list", "List drives", (*client.Client).ListDrives))
	cmd.AddCommand(driveList(a, "list-free", "List drives not in a RAID group", (*client.Client).ListFreeDrives))
	cmd.AddCommand(drivePerformance(a))
	cmd.AddCommand(driveAction(a, "remove", "Remove a drive from the VPSA", (*client.Client).RemoveDrive))
	cmd.AddCommand(driveRename(a))
	cmd.AddCommand(driveReplace(a))
	cmd.AddCommand(driveShred(a))
	cmd.AddCommand(driveAction(a, "shred-cancel", "Cancel a running shred", (*client.Client).CancelShredDrive))

	return cmd
}

func addDriveIDFlag(cmd *cobra.Command, driveID *string) {
	cmd.Flags().StringVar(driveID, "drive-id", "", "Drive name, e.g. volume-00000001 (required)")
	_ = cmd.MarkFlagRequired("drive-id")
}

func driveGet(a *app) *cobra.Command {
	var driveID string

	cmd := &cobra.Command{
		Use:   "get",
		Short: "Show a drive",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.call(cmd, "disk", func(ctx context.Context, c *client.Client) (*client.Response, error) {
				return c.GetDrive(ctx, driveID)
			})
		},
	}

	addDriveIDFlag(cmd, &driveID)

	return cmd
}

func driveList(a *app, use, short string,
	fn func(*client.Client, context.Context, client.Page) (*client.Response, error)) *cobra.Command {
	var page client.Page

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.call(cmd, "disks", func(ctx context.Context, c *client.Client) (*client.Response, error) {
				return fn(c, ctx, page)
			})
		},
	}

	addPageFlags(cmd, &page)

	return cmd
}

// driveAction builds the commands that only take a drive and print nothing.
func driveAction(a *app, use, short string,
	fn func(*client.Client, context.Context, string) (*client.Response, error)) *cobra.Command {
	var driveID string

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.call(cmd, "", func(ctx context.Context, c *client.Client) (*client.Response, error) {
				return fn(c, ctx, driveID)
			})
		},
	}

	addDriveIDFlag(cmd, &driveID)

	return cmd
}

func drivePerformance(a *app) *cobra.Command {
	var driveID string
	var interval int

	cmd := &cobra.Command{
		Use:   "performance",
		Short: "Show drive performance metering",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.call(cmd, "usages", func(ctx context.Context, c *client.Client) (*client.Response, error) {
				return c.DrivePerformance(ctx, driveID, interval)
			})
		},
	}

	addDriveIDFlag(cmd, &driveID)
	addIntervalFlag(cmd, &interval)

	return cmd
}

func driveRename(a *app) *cobra.Command {
	var driveID, name string

	cmd := &cobra.Command{
		Use:   "rename",
		Short: "Rename a drive",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.call(cmd, "", func(ctx context.Context, c *client.Client) (*client.Response, error) {
				return c.RenameDrive(ctx, driveID, name)
			})
		},
	}

	addDriveIDFlag(cmd, &driveID)
	addDisplayNameFlag(cmd, &name)

	return cmd
}

func driveReplace(a *app) *cobra.Command {
	var driveID, toDriveID, force string

	cmd := &cobra.Command{
		Use:   "replace",
		Short: "Replace a drive with a free drive",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.call(cmd, "", func(ctx context.Context, c *client.Client) (*client.Response, error) {
				return c.ReplaceDrive(ctx, driveID, toDriveID, force)
			})
		},
	}

	addDriveIDFlag(cmd, &driveID)
	cmd.Flags().StringVar(&toDriveID, "to-drive-id", "", "Replacement drive name (required)")
	_ = cmd.MarkFlagRequired("to-drive-id")
	addForceFlag(cmd, &force)

	return cmd
}

func driveShred(a *app) *cobra.Command {
	var driveID, force string

	cmd := &cobra.Command{
		Use:   "shred",
		Short: "Securely erase a free drive",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.call(cmd, "", func(ctx context.Context, c *client.Client) (*client.Response, error) {
				return c.ShredDrive(ctx, driveID, force)
			})
		},
	}

	addDriveIDFlag(cmd, &driveID)
	addForceFlag(cmd, &force)

	return cmd
}
