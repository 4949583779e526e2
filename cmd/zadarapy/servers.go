package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/liliang-cn/zadarapy/pkg/client"
)

func serverCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "servers",
		Short: "Server (initiator) management",
	}

	cmd.AddCommand(serverAttachVolume(a))
	cmd.AddCommand(serverCreate(a))
	cmd.AddCommand(serverDelete(a))
	cmd.AddCommand(serverGet(a))
	cmd.AddCommand(serverList(a))
	cmd.AddCommand(serverListAttachedVolumes(a))
	cmd.AddCommand(serverPerformance(a))
	cmd.AddCommand(serverRename(a))

	return cmd
}

func addServerIDFlag(cmd *cobra.Command, serverID *string) {
	cmd.Flags().StringVar(serverID, "server-id", "", "Server name, e.g. srv-00000001 (required)")
	_ = cmd.MarkFlagRequired("server-id")
}

func serverAttachVolume(a *app) *cobra.Command {
	var req client.AttachServersRequest

	cmd := &cobra.Command{
		Use:   "attach-volume",
		Short: "Attach a volume to one or more servers",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.call(cmd, "", func(ctx context.Context, c *client.Client) (*client.Response, error) {
				return c.AttachServers(ctx, req)
			})
		},
	}

	cmd.Flags().StringVar(&req.Servers, "server-ids", "", "Comma separated server names (required)")
	addVolumeIDFlag(cmd, &req.VolumeID)
	cmd.Flags().StringVar(&req.AccessType, "access-type", "", "NFS, SMB or BOTH for NAS volumes")
	cmd.Flags().StringVar(&req.ReadOnly, "readonly", "NO", "Attach read only: YES or NO")
	addForceFlag(cmd, &req.Force)
	_ = cmd.MarkFlagRequired("server-ids")

	return cmd
}

func serverCreate(a *app) *cobra.Command {
	var req client.CreateServerRequest

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a server record",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.call(cmd, "server_name", func(ctx context.Context, c *client.Client) (*client.Response, error) {
				return c.CreateServer(ctx, req)
			})
		},
	}

	f := cmd.Flags()
	f.StringVar(&req.DisplayName, "display-name", "", "Server display name (required)")
	f.StringVar(&req.IPAddress, "ip-address", "", "Server IP address or CIDR block")
	f.StringVar(&req.IQN, "iqn", "", "Server iSCSI IQN")
	f.StringVar(&req.VPSAChapUser, "vpsachapuser", "", "CHAP user the VPSA presents")
	f.StringVar(&req.VPSAChapSecret, "vpsachapsecret", "", "CHAP secret the VPSA presents")
	f.StringVar(&req.HostChapUser, "hostchapuser", "", "CHAP user the server presents")
	f.StringVar(&req.HostChapSecret, "hostchapsecret", "", "CHAP secret the server presents")
	f.StringVar(&req.IPSecISCSI, "ipsec-iscsi", "NO", "Use IPSec for iSCSI: YES or NO")
	f.StringVar(&req.IPSecNFS, "ipsec-nfs", "NO", "Use IPSec for NFS: YES or NO")
	addForceFlag(cmd, &req.Force)
	_ = cmd.MarkFlagRequired("display-name")

	return cmd
}

func serverDelete(a *app) *cobra.Command {
	var serverID string

	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete a server record",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.call(cmd, "", func(ctx context.Context, c *client.Client) (*client.Response, error) {
				return c.DeleteServer(ctx, serverID)
			})
		},
	}

	addServerIDFlag(cmd, &serverID)

	return cmd
}

func serverGet(a *app) *cobra.Command {
	var serverID string

	cmd := &cobra.Command{
		Use:   "get",
		Short: "Show a server record",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.call(cmd, "server", func(ctx context.Context, c *client.Client) (*client.Response, error) {
				return c.GetServer(ctx, serverID)
			})
		},
	}

	addServerIDFlag(cmd, &serverID)

	return cmd
}

func serverList(a *app) *cobra.Command {
	var page client.Page

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List server records",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.call(cmd, "servers", func(ctx context.Context, c *client.Client) (*client.Response, error) {
				return c.ListServers(ctx, page)
			})
		},
	}

	addPageFlags(cmd, &page)

	return cmd
}

func serverListAttachedVolumes(a *app) *cobra.Command {
	var serverID string
	var page client.Page

	cmd := &cobra.Command{
		Use:   "list-attached-volumes",
		Short: "List the volumes attached to a server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.call(cmd, "volumes", func(ctx context.Context, c *client.Client) (*client.Response, error) {
				return c.ListServerVolumes(ctx, serverID, page)
			})
		},
	}

	addServerIDFlag(cmd, &serverID)
	addPageFlags(cmd, &page)

	return cmd
}

func serverPerformance(a *app) *cobra.Command {
	var serverID string
	var interval int

	cmd := &cobra.Command{
		Use:   "performance",
		Short: "Show server performance metering",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.call(cmd, "usages", func(ctx context.Context, c *client.Client) (*client.Response, error) {
				return c.ServerPerformance(ctx, serverID, interval)
			})
		},
	}

	addServerIDFlag(cmd, &serverID)
	addIntervalFlag(cmd, &interval)

	return cmd
}

func serverRename(a *app) *cobra.Command {
	var serverID, name string

	cmd := &cobra.Command{
		Use:   "rename",
		Short: "Rename a server record",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.call(cmd, "", func(ctx context.Context, c *client.Client) (*client.Response, error) {
				return c.RenameServer(ctx, serverID, name)
			})
		},
	}

	addServerIDFlag(cmd, &serverID)
	addDisplayNameFlag(cmd, &name)

	return cmd
}
