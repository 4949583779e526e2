package client

import (
	"context"
	"fmt"

	"github.com/liliang-cn/zadarapy/pkg/util"
)

// ==================== CONTROLLERS ====================

// ListControllers lists the virtual controllers of the VPSA.
func (c *Client) ListControllers(ctx context.Context, page Page) (*Response, error) {
	return c.list(ctx, "/api/vcontrollers.json", page, nil)
}

// FailoverController fails over to the standby controller. force is YES or NO.
func (c *Client) FailoverController(ctx context.Context, force string) (*Response, error) {
	body := map[string]any{}
	if err := yesNoFields(body, map[string]string{"force": force}); err != nil {
		return nil, err
	}
	return c.Post(ctx, "/api/vcontrollers/failover.json", body)
}

// ControllerPerformance returns metering data for one controller.
func (c *Client) ControllerPerformance(ctx context.Context, controllerID string, interval int) (*Response, error) {
	if err := util.ValidateControllerID(controllerID); err != nil {
		return nil, wrapInvalid(err)
	}
	return c.performance(ctx, fmt.Sprintf("/api/vcontrollers/%s/performance.json", controllerID), interval)
}

// CachePerformance returns SSD cache metering data.
func (c *Client) CachePerformance(ctx context.Context, interval int) (*Response, error) {
	return c.performance(ctx, "/api/vcontrollers/cache_performance.json", interval)
}

// CacheStats returns cache hit statistics.
func (c *Client) CacheStats(ctx context.Context, interval int) (*Response, error) {
	return c.performance(ctx, "/api/vcontrollers/cache_stats.json", interval)
}
