package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/liliang-cn/zadarapy/pkg/client"
)

func snapshotPolicyCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot-policies",
		Short: "Snapshot policy management",
	}

	cmd.AddCommand(snapshotPolicyCreate(a))
	cmd.AddCommand(snapshotPolicyDelete(a))
	cmd.AddCommand(snapshotPolicyGet(a))
	cmd.AddCommand(snapshotPolicyList(a))
	cmd.AddCommand(snapshotPolicyRename(a))

	return cmd
}

func addPolicyIDFlag(cmd *cobra.Command, policyID *string) {
	cmd.Flags().StringVar(policyID, "policy-id", "", "Snapshot policy name, e.g. policy-00000001 (required)")
	_ = cmd.MarkFlagRequired("policy-id")
}

func snapshotPolicyCreate(a *app) *cobra.Command {
	var req client.CreateSnapshotPolicyRequest

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a snapshot policy",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.call(cmd, "snapshot_policy_name", func(ctx context.Context, c *client.Client) (*client.Response, error) {
				return c.CreateSnapshotPolicy(ctx, req)
			})
		},
	}

	cmd.Flags().StringVar(&req.DisplayName, "display-name", "", "Policy display name (required)")
	cmd.Flags().StringVar(&req.CreatePolicy, "create-policy", "", `"manual" or a five field cron expression (required)`)
	cmd.Flags().IntVar(&req.LocalDeletePolicy, "local-delete-policy", 0, "Number of snapshots kept locally")
	cmd.Flags().IntVar(&req.RemoteDeletePolicy, "remote-delete-policy", 0, "Number of snapshots kept on a mirror destination")
	cmd.Flags().StringVar(&req.AllowEmpty, "allow-empty", "NO", "Take snapshots when no data changed: YES or NO")
	_ = cmd.MarkFlagRequired("display-name")
	_ = cmd.MarkFlagRequired("create-policy")

	return cmd
}

func snapshotPolicyDelete(a *app) *cobra.Command {
	var policyID string

	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete a snapshot policy",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.call(cmd, "", func(ctx context.Context, c *client.Client) (*client.Response, error) {
				return c.DeleteSnapshotPolicy(ctx, policyID)
			})
		},
	}

	addPolicyIDFlag(cmd, &policyID)

	return cmd
}

func snapshotPolicyGet(a *app) *cobra.Command {
	var policyID string

	cmd := &cobra.Command{
		Use:   "get",
		Short: "Show a snapshot policy",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.call(cmd, "snapshot_policy", func(ctx context.Context, c *client.Client) (*client.Response, error) {
				return c.GetSnapshotPolicy(ctx, policyID)
			})
		},
	}

	addPolicyIDFlag(cmd, &policyID)

	return cmd
}

func snapshotPolicyList(a *app) *cobra.Command {
	var page client.Page

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List snapshot policies",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.call(cmd, "snapshot_policies", func(ctx context.Context, c *client.Client) (*client.Response, error) {
				return c.ListSnapshotPolicies(ctx, page)
			})
		},
	}

	addPageFlags(cmd, &page)

	return cmd
}

func snapshotPolicyRename(a *app) *cobra.Command {
	var policyID, name string

	cmd := &cobra.Command{
		Use:   "rename",
		Short: "Rename a snapshot policy",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.call(cmd, "", func(ctx context.Context, c *client.Client) (*client.Response, error) {
				return c.RenameSnapshotPolicy(ctx, policyID, name)
			})
		},
	}

	addPolicyIDFlag(cmd, &policyID)
	addDisplayNameFlag(cmd, &name)

	return cmd
}
