package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/liliang-cn/zadarapy/pkg/client"
)

func controllerCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "controllers",
		Short: "Virtual controller operations",
	}

	cmd.AddCommand(controllerMetering(a, "cache-performance", "Show SSD cache performance metering", "zcache_usages", (*client.Client).CachePerformance))
	cmd.AddCommand(controllerMetering(a, "cache-stats", "Show cache hit statistics", "usages", (*client.Client).CacheStats))
	cmd.AddCommand(controllerPerformance(a))
	cmd.AddCommand(controllerFailover(a))
	cmd.AddCommand(controllerList(a))

	return cmd
}

func controllerMetering(a *app, use, short, returnKey string,
	fn func(*client.Client, context.Context, int) (*client.Response, error)) *cobra.Command {
	var interval int

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.call(cmd, returnKey, func(ctx context.Context, c *client.Client) (*client.Response, error) {
				return fn(c, ctx, interval)
			})
		},
	}

	addIntervalFlag(cmd, &interval)

	return cmd
}

func controllerPerformance(a *app) *cobra.Command {
	var controllerID string
	var interval int

	cmd := &cobra.Command{
		Use:   "controller-performance",
		Short: "Show virtual controller performance metering",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.call(cmd, "usages", func(ctx context.Context, c *client.Client) (*client.Response, error) {
				return c.ControllerPerformance(ctx, controllerID, interval)
			})
		},
	}

	cmd.Flags().StringVar(&controllerID, "controller-id", "", "Controller name, e.g. vsa-0000001a-vc-0 (required)")
	_ = cmd.MarkFlagRequired("controller-id")
	addIntervalFlag(cmd, &interval)

	return cmd
}

func controllerFailover(a *app) *cobra.Command {
	var force string
	var confirm bool

	cmd := &cobra.Command{
		Use:   "failover",
		Short: "Fail over to the standby controller",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !confirm {
				return fmt.Errorf("%w: failover interrupts IO on the VPSA, pass --confirm to proceed", client.ErrInvalidArgument)
			}
			return a.call(cmd, "", func(ctx context.Context, c *client.Client) (*client.Response, error) {
				return c.FailoverController(ctx, force)
			})
		},
	}

	addForceFlag(cmd, &force)
	cmd.Flags().BoolVar(&confirm, "confirm", false, "Confirm the failover")

	return cmd
}

func controllerList(a *app) *cobra.Command {
	var page client.Page

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List virtual controllers",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.call(cmd, "vcontrollers", func(ctx context.Context, c *client.Client) (*client.Response, error) {
				return c.ListControllers(ctx, page)
			})
		},
	}

	addPageFlags(cmd, &page)

	return cmd
}
