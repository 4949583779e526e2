package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/liliang-cn/zadarapy/pkg/client"
)

func volumeCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "volumes",
		Short: "Block and NAS volume management",
	}

	cmd.AddCommand(volumeAttachSnapshotPolicy(a))
	cmd.AddCommand(volumeClone(a))
	cmd.AddCommand(volumeCreate(a))
	cmd.AddCommand(volumeCreateSnapshot(a))
	cmd.AddCommand(volumeDelete(a))
	cmd.AddCommand(volumeDeleteSnapshot(a))
	cmd.AddCommand(volumeDetachServers(a))
	cmd.AddCommand(volumeDetachSnapshotPolicy(a))
	cmd.AddCommand(volumeExpand(a))
	cmd.AddCommand(volumeExportName(a))
	cmd.AddCommand(volumeGet(a))
	cmd.AddCommand(volumeList(a))
	cmd.AddCommand(volumeListFree(a))
	cmd.AddCommand(volumeListServers(a))
	cmd.AddCommand(volumeListSnapshotPolicies(a))
	cmd.AddCommand(volumeListSnapshots(a))
	cmd.AddCommand(volumePerformance(a))
	cmd.AddCommand(volumeRename(a))
	cmd.AddCommand(volumeUpdateComment(a))

	return cmd
}

func addVolumeIDFlag(cmd *cobra.Command, volumeID *string) {
	cmd.Flags().StringVar(volumeID, "volume-id", "", "Volume name, e.g. volume-00000001 (required)")
	_ = cmd.MarkFlagRequired("volume-id")
}

func addCGIDFlag(cmd *cobra.Command, cgID *string) {
	cmd.Flags().StringVar(cgID, "cg-id", "", "Consistency group name, e.g. cg-00000001 (required)")
	_ = cmd.MarkFlagRequired("cg-id")
}

func volumeAttachSnapshotPolicy(a *app) *cobra.Command {
	var cgID, policyID string

	cmd := &cobra.Command{
		Use:   "attach-snapshot-policy",
		Short: "Attach a snapshot policy to a volume",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.call(cmd, "", func(ctx context.Context, c *client.Client) (*client.Response, error) {
				return c.AttachSnapshotPolicy(ctx, cgID, policyID)
			})
		},
	}

	addCGIDFlag(cmd, &cgID)
	cmd.Flags().StringVar(&policyID, "policy-id", "", "Snapshot policy name, e.g. policy-00000001 (required)")
	_ = cmd.MarkFlagRequired("policy-id")

	return cmd
}

func volumeClone(a *app) *cobra.Command {
	var cgID, name, snapshotID string

	cmd := &cobra.Command{
		Use:   "clone",
		Short: "Clone a volume, optionally from a snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.call(cmd, "", func(ctx context.Context, c *client.Client) (*client.Response, error) {
				return c.CloneVolume(ctx, cgID, name, snapshotID)
			})
		},
	}

	addCGIDFlag(cmd, &cgID)
	addDisplayNameFlag(cmd, &name)
	cmd.Flags().StringVar(&snapshotID, "snapshot-id", "", "Clone from this snapshot instead of the current data")

	return cmd
}

func volumeCreate(a *app) *cobra.Command {
	req := client.CreateVolumeRequest{NAS: client.DefaultNASOptions()}
	var capacity string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a block or NAS volume",
		RunE: func(cmd *cobra.Command, args []string) error {
			gb, err := parseCapacity(capacity)
			if err != nil {
				return err
			}
			req.CapacityGB = gb
			return a.call(cmd, "vol_name", func(ctx context.Context, c *client.Client) (*client.Response, error) {
				return c.CreateVolume(ctx, req)
			})
		},
	}

	f := cmd.Flags()
	addPoolIDFlag(cmd, &req.PoolID)
	f.StringVar(&req.DisplayName, "display-name", "", "Volume display name (required)")
	f.StringVar(&capacity, "capacity", "", "Capacity in GB, or with a unit such as 500GiB (required)")
	f.StringVar(&req.Block, "block", "", "YES for a block volume, NO for a NAS volume (required)")
	f.StringVar(&req.AttachPolicies, "attachpolicies", "YES", "Attach the default snapshot policies: YES or NO")
	f.StringVar(&req.Crypt, "crypt", "NO", "Encrypt at rest: YES or NO")
	f.StringVar(&req.Dedupe, "dedupe", "NO", "Enable deduplication: YES or NO")
	f.StringVar(&req.Compress, "compress", "NO", "Enable compression: YES or NO")
	f.StringVar(&req.NAS.ExportName, "export-name", "", "NFS export name of a NAS volume")
	f.StringVar(&req.NAS.AtimeUpdate, "atimeupdate", req.NAS.AtimeUpdate, "Update access times: YES or NO")
	f.StringVar(&req.NAS.NFSRootSquash, "nfsrootsquash", req.NAS.NFSRootSquash, "Squash NFS root: YES or NO")
	f.IntVar(&req.NAS.ReadAheadKB, "readaheadkb", req.NAS.ReadAheadKB, "Read ahead in KB: 16, 64, 128, 256 or 512")
	f.StringVar(&req.NAS.SMBOnly, "smbonly", req.NAS.SMBOnly, "SMB only share: YES or NO")
	f.StringVar(&req.NAS.SMBGuest, "smbguest", req.NAS.SMBGuest, "Allow SMB guests: YES or NO")
	f.StringVar(&req.NAS.SMBWindowsACL, "smbwindowsacl", req.NAS.SMBWindowsACL, "Use Windows ACLs: YES or NO")
	f.StringVar(&req.NAS.SMBFileCreateMask, "smbfilecreatemask", req.NAS.SMBFileCreateMask, "SMB file create mask")
	f.StringVar(&req.NAS.SMBDirCreateMask, "smbdircreatemask", req.NAS.SMBDirCreateMask, "SMB directory create mask")
	f.StringVar(&req.NAS.SMBMapArchive, "smbmaparchive", req.NAS.SMBMapArchive, "Map the DOS archive bit: YES or NO")
	f.StringVar(&req.NAS.SMBBrowseable, "smbbrowseable", req.NAS.SMBBrowseable, "Show the share when browsing: YES or NO")
	f.StringVar(&req.NAS.SMBHideDotFiles, "hiddenfiles", req.NAS.SMBHideDotFiles, "Hide dot files: YES or NO")
	f.StringVar(&req.NAS.SMBAIOSize, "smbaiosize", req.NAS.SMBAIOSize, "Use SMB asynchronous IO: YES or NO")
	_ = cmd.MarkFlagRequired("display-name")
	_ = cmd.MarkFlagRequired("capacity")
	_ = cmd.MarkFlagRequired("block")

	return cmd
}

func volumeCreateSnapshot(a *app) *cobra.Command {
	var cgID, name string

	cmd := &cobra.Command{
		Use:   "create-snapshot",
		Short: "Take a manual snapshot of a volume",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.call(cmd, "snapshot_name", func(ctx context.Context, c *client.Client) (*client.Response, error) {
				return c.CreateSnapshot(ctx, cgID, name)
			})
		},
	}

	addCGIDFlag(cmd, &cgID)
	addDisplayNameFlag(cmd, &name)

	return cmd
}

func volumeDelete(a *app) *cobra.Command {
	var volumeID, force string

	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete a volume",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.call(cmd, "", func(ctx context.Context, c *client.Client) (*client.Response, error) {
				return c.DeleteVolume(ctx, volumeID, force)
			})
		},
	}

	addVolumeIDFlag(cmd, &volumeID)
	addForceFlag(cmd, &force)

	return cmd
}

func volumeDeleteSnapshot(a *app) *cobra.Command {
	var snapshotID string

	cmd := &cobra.Command{
		Use:   "delete-snapshot",
		Short: "Delete a snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.call(cmd, "", func(ctx context.Context, c *client.Client) (*client.Response, error) {
				return c.DeleteSnapshot(ctx, snapshotID)
			})
		},
	}

	cmd.Flags().StringVar(&snapshotID, "snapshot-id", "", "Snapshot name, e.g. snap-00000001 (required)")
	_ = cmd.MarkFlagRequired("snapshot-id")

	return cmd
}

func volumeDetachServers(a *app) *cobra.Command {
	var volumeID, servers, force string

	cmd := &cobra.Command{
		Use:   "detach-servers",
		Short: "Detach servers from a volume",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.call(cmd, "", func(ctx context.Context, c *client.Client) (*client.Response, error) {
				return c.DetachServers(ctx, volumeID, servers, force)
			})
		},
	}

	addVolumeIDFlag(cmd, &volumeID)
	cmd.Flags().StringVar(&servers, "server-ids", "", "Comma separated server names (required)")
	_ = cmd.MarkFlagRequired("server-ids")
	addForceFlag(cmd, &force)

	return cmd
}

func volumeDetachSnapshotPolicy(a *app) *cobra.Command {
	var rule, deleteSnapshots string

	cmd := &cobra.Command{
		Use:   "detach-snapshot-policy",
		Short: "Detach a snapshot policy from a volume",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.call(cmd, "", func(ctx context.Context, c *client.Client) (*client.Response, error) {
				return c.DetachSnapshotPolicy(ctx, rule, deleteSnapshots)
			})
		},
	}

	cmd.Flags().StringVar(&rule, "snapshot-policy-id", "", "Snapshot rule name as shown by list-snapshot-policies (required)")
	_ = cmd.MarkFlagRequired("snapshot-policy-id")
	cmd.Flags().StringVar(&deleteSnapshots, "delete-snapshots", "NO", "Also delete the snapshots taken by the policy: YES or NO")

	return cmd
}

func volumeExpand(a *app) *cobra.Command {
	var volumeID, capacity string

	cmd := &cobra.Command{
		Use:   "expand",
		Short: "Grow a volume",
		RunE: func(cmd *cobra.Command, args []string) error {
			gb, err := parseCapacity(capacity)
			if err != nil {
				return err
			}
			return a.call(cmd, "", func(ctx context.Context, c *client.Client) (*client.Response, error) {
				return c.ExpandVolume(ctx, volumeID, gb)
			})
		},
	}

	addVolumeIDFlag(cmd, &volumeID)
	cmd.Flags().StringVar(&capacity, "capacity", "", "Capacity to add in GB, or with a unit (required)")
	_ = cmd.MarkFlagRequired("capacity")

	return cmd
}

func volumeExportName(a *app) *cobra.Command {
	var volumeID, exportName string

	cmd := &cobra.Command{
		Use:   "export-name",
		Short: "Change the NFS export name of a NAS volume",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.call(cmd, "", func(ctx context.Context, c *client.Client) (*client.Response, error) {
				return c.SetExportName(ctx, volumeID, exportName)
			})
		},
	}

	addVolumeIDFlag(cmd, &volumeID)
	cmd.Flags().StringVar(&exportName, "export-name", "", "New export name (required)")
	_ = cmd.MarkFlagRequired("export-name")

	return cmd
}

func volumeGet(a *app) *cobra.Command {
	var volumeID string

	cmd := &cobra.Command{
		Use:   "get",
		Short: "Show a volume",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.call(cmd, "volume", func(ctx context.Context, c *client.Client) (*client.Response, error) {
				return c.GetVolume(ctx, volumeID)
			})
		},
	}

	addVolumeIDFlag(cmd, &volumeID)

	return cmd
}

func volumeList(a *app) *cobra.Command {
	var filter client.VolumeFilter
	var page client.Page

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List volumes",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.call(cmd, "volumes", func(ctx context.Context, c *client.Client) (*client.Response, error) {
				return c.ListVolumes(ctx, filter, page)
			})
		},
	}

	cmd.Flags().StringVar(&filter.ShowOnlyBlock, "showonlyblock", "", "Only show block volumes: YES or NO")
	cmd.Flags().StringVar(&filter.ShowOnlyFile, "showonlyfile", "", "Only show NAS volumes: YES or NO")
	cmd.Flags().StringVar(&filter.DisplayName, "display-name", "", "Only show volumes with this display name")
	addPageFlags(cmd, &page)

	return cmd
}

func volumeListFree(a *app) *cobra.Command {
	var page client.Page

	cmd := &cobra.Command{
		Use:   "list-free",
		Short: "List volumes not attached to any server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.call(cmd, "volumes", func(ctx context.Context, c *client.Client) (*client.Response, error) {
				return c.ListFreeVolumes(ctx, page)
			})
		},
	}

	addPageFlags(cmd, &page)

	return cmd
}

func volumeListServers(a *app) *cobra.Command {
	var volumeID string
	var page client.Page

	cmd := &cobra.Command{
		Use:   "list-servers",
		Short: "List the servers a volume is attached to",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.call(cmd, "servers", func(ctx context.Context, c *client.Client) (*client.Response, error) {
				return c.ListVolumeServers(ctx, volumeID, page)
			})
		},
	}

	addVolumeIDFlag(cmd, &volumeID)
	addPageFlags(cmd, &page)

	return cmd
}

func volumeListSnapshotPolicies(a *app) *cobra.Command {
	var cgID string
	var page client.Page

	cmd := &cobra.Command{
		Use:   "list-snapshot-policies",
		Short: "List the snapshot policies attached to a volume",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.call(cmd, "snapshot_policies", func(ctx context.Context, c *client.Client) (*client.Response, error) {
				return c.ListVolumeSnapshotPolicies(ctx, cgID, page)
			})
		},
	}

	addCGIDFlag(cmd, &cgID)
	addPageFlags(cmd, &page)

	return cmd
}

func volumeListSnapshots(a *app) *cobra.Command {
	var cgID, policyID string
	var page client.Page

	cmd := &cobra.Command{
		Use:   "list-snapshots",
		Short: "List the snapshots of a volume",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.call(cmd, "snapshots", func(ctx context.Context, c *client.Client) (*client.Response, error) {
				return c.ListSnapshots(ctx, cgID, policyID, page)
			})
		},
	}

	addCGIDFlag(cmd, &cgID)
	cmd.Flags().StringVar(&policyID, "policy-id", "", "Only show snapshots taken by this policy")
	addPageFlags(cmd, &page)

	return cmd
}

func volumePerformance(a *app) *cobra.Command {
	var volumeID string
	var interval int

	cmd := &cobra.Command{
		Use:   "performance",
		Short: "Show volume performance metering",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.call(cmd, "usages", func(ctx context.Context, c *client.Client) (*client.Response, error) {
				return c.VolumePerformance(ctx, volumeID, interval)
			})
		},
	}

	addVolumeIDFlag(cmd, &volumeID)
	addIntervalFlag(cmd, &interval)

	return cmd
}

func volumeRename(a *app) *cobra.Command {
	var volumeID, name string

	cmd := &cobra.Command{
		Use:   "rename",
		Short: "Rename a volume",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.call(cmd, "", func(ctx context.Context, c *client.Client) (*client.Response, error) {
				return c.RenameVolume(ctx, volumeID, name)
			})
		},
	}

	addVolumeIDFlag(cmd, &volumeID)
	addDisplayNameFlag(cmd, &name)

	return cmd
}

func volumeUpdateComment(a *app) *cobra.Command {
	var volumeID, comment string

	cmd := &cobra.Command{
		Use:   "update-comment",
		Short: "Change the comment of a volume",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.call(cmd, "", func(ctx context.Context, c *client.Client) (*client.Response, error) {
				return c.UpdateVolumeComment(ctx, volumeID, comment)
			})
		},
	}

	addVolumeIDFlag(cmd, &volumeID)
	cmd.Flags().StringVar(&comment, "comment", "", "New comment")

	return cmd
}
