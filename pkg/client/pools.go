package client

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/liliang-cn/zadarapy/pkg/util"
)

// list issues a paged GET request.
func (c *Client) list(ctx context.Context, path string, page Page, params url.Values) (*Response, error) {
	if params == nil {
		params = url.Values{}
	}
	if err := page.apply(params); err != nil {
		return nil, err
	}
	return c.Get(ctx, path, params)
}

// performance fetches metering data averaged over interval seconds.
func (c *Client) performance(ctx context.Context, path string, interval int) (*Response, error) {
	if interval <= 0 {
		return nil, invalid("interval must be positive, got %d", interval)
	}
	return c.Get(ctx, path, url.Values{"interval": {strconv.Itoa(interval)}})
}

func trueFalse(yes string) string {
	return strconv.FormatBool(yes == "YES")
}

// ==================== POOLS ====================

var poolTypes = map[string]string{
	"Transactional":        "Transactional Workloads",
	"Repository":           "Repository Storage",
	"Archival":             "Archival Storage",
	"Iops-Optimized":       "IOPs-Optimized",
	"Balanced":             "Balanced",
	"Throughput-Optimized": "Throughput-Optimized",
}

// CreatePoolRequest describes a new storage pool.
type CreatePoolRequest struct {
	DisplayName string
	RaidGroups  string // comma separated RaidGroup-N names
	CapacityGB  int
	PoolType    string // Transactional, Repository, Archival, ...
	Cache       string // YES or NO
	CowCache    string // YES or NO, only sent when Cache is YES
	Mode        string // stripe or simple
}

func validateRaidGroups(list string) (string, error) {
	out, err := util.ValidateList(list, util.ValidateRaidGroupID)
	return out, wrapInvalid(err)
}

func validateCapacity(gb int) error {
	if gb <= 0 {
		return invalid("capacity must be greater than 0, got %d", gb)
	}
	return nil
}

// ListPools lists all storage pools.
func (c *Client) ListPools(ctx context.Context, page Page) (*Response, error) {
	return c.list(ctx, "/api/pools.json", page, nil)
}

// GetPool returns a single pool.
func (c *Client) GetPool(ctx context.Context, poolID string) (*Response, error) {
	if err := util.ValidatePoolID(poolID, false); err != nil {
		return nil, wrapInvalid(err)
	}
	return c.Get(ctx, fmt.Sprintf("/api/pools/%s.json", poolID), nil)
}

// CreatePool creates a storage pool. A pool built from one RAID group is
// always created in simple mode.
func (c *Client) CreatePool(ctx context.Context, req CreatePoolRequest) (*Response, error) {
	if err := util.ValidateField("display_name", req.DisplayName); err != nil {
		return nil, wrapInvalid(err)
	}
	if req.DisplayName == "" {
		return nil, invalid("display_name is required")
	}
	raidGroups, err := validateRaidGroups(req.RaidGroups)
	if err != nil {
		return nil, err
	}
	if err := validateCapacity(req.CapacityGB); err != nil {
		return nil, err
	}
	pooltype, ok := poolTypes[req.PoolType]
	if !ok {
		return nil, invalid("unknown pool type %q", req.PoolType)
	}
	cache, err := util.YesNo("cache", req.Cache)
	if err != nil {
		return nil, wrapInvalid(err)
	}
	mode := strings.ToLower(req.Mode)
	if mode == "" {
		mode = "stripe"
	}
	if mode != "stripe" && mode != "simple" {
		return nil, invalid("mode must be stripe or simple, got %q", req.Mode)
	}
	if !strings.Contains(raidGroups, ",") {
		mode = "simple"
	}

	body := map[string]any{
		"display_name": req.DisplayName,
		"capacity":     util.FormatCapacity(req.CapacityGB),
		"raid_groups":  raidGroups,
		"cache":        cache,
		"mode":         mode,
		"pooltype":     pooltype,
	}
	if cache == "YES" {
		cow, err := util.YesNo("cowcache", req.CowCache)
		if err != nil {
			return nil, wrapInvalid(err)
		}
		body["cowcache"] = trueFalse(cow)
	}
	return c.Post(ctx, "/api/pools.json", body)
}

// DeletePool deletes a storage pool.
func (c *Client) DeletePool(ctx context.Context, poolID string) (*Response, error) {
	if err := util.ValidatePoolID(poolID, false); err != nil {
		return nil, wrapInvalid(err)
	}
	return c.Delete(ctx, fmt.Sprintf("/api/pools/%s.json", poolID), nil)
}

// RenamePool changes a pool's display name.
func (c *Client) RenamePool(ctx context.Context, poolID, displayName string) (*Response, error) {
	if err := util.ValidatePoolID(poolID, false); err != nil {
		return nil, wrapInvalid(err)
	}
	if err := util.ValidateField("display_name", displayName); err != nil {
		return nil, wrapInvalid(err)
	}
	return c.Post(ctx, fmt.Sprintf("/api/pools/%s/rename.json", poolID), map[string]any{"new_name": displayName})
}

// ExpandPool adds RAID groups and capacity to a pool.
func (c *Client) ExpandPool(ctx context.Context, poolID, raidGroups string, capacityGB int) (*Response, error) {
	if err := util.ValidatePoolID(poolID, false); err != nil {
		return nil, wrapInvalid(err)
	}
	rgs, err := validateRaidGroups(raidGroups)
	if err != nil {
		return nil, err
	}
	if err := validateCapacity(capacityGB); err != nil {
		return nil, err
	}
	return c.Post(ctx, fmt.Sprintf("/api/pools/%s/expand.json", poolID), map[string]any{
		"raid_groups": rgs,
		"capacity":    util.FormatCapacity(capacityGB),
	})
}

// ListPoolRaidGroups lists the RAID groups backing a pool.
func (c *Client) ListPoolRaidGroups(ctx context.Context, poolID string, page Page) (*Response, error) {
	if err := util.ValidatePoolID(poolID, false); err != nil {
		return nil, wrapInvalid(err)
	}
	return c.list(ctx, fmt.Sprintf("/api/pools/%s/raid_groups.json", poolID), page, nil)
}

// ListPoolVolumes lists the volumes in a pool.
func (c *Client) ListPoolVolumes(ctx context.Context, poolID string, page Page) (*Response, error) {
	if err := util.ValidatePoolID(poolID, false); err != nil {
		return nil, wrapInvalid(err)
	}
	return c.list(ctx, fmt.Sprintf("/api/pools/%s/volumes.json", poolID), page, nil)
}

// ListPoolMirrorVolumes lists mirror destination volumes in a pool.
func (c *Client) ListPoolMirrorVolumes(ctx context.Context, poolID string, page Page) (*Response, error) {
	if err := util.ValidatePoolID(poolID, false); err != nil {
		return nil, wrapInvalid(err)
	}
	return c.list(ctx, fmt.Sprintf("/api/pools/%s/destination_volumes.json", poolID), page, nil)
}

// ListPoolRecycleBin lists deleted volumes still held by a pool.
func (c *Client) ListPoolRecycleBin(ctx context.Context, poolID string, page Page) (*Response, error) {
	if err := util.ValidatePoolID(poolID, false); err != nil {
		return nil, wrapInvalid(err)
	}
	return c.list(ctx, fmt.Sprintf("/api/pools/%s/volumes_in_recycle_bin.json", poolID), page, nil)
}

// SetPoolCache turns SSD caching on (YES) or off (NO).
func (c *Client) SetPoolCache(ctx context.Context, poolID, cache string) (*Response, error) {
	if err := util.ValidatePoolID(poolID, false); err != nil {
		return nil, wrapInvalid(err)
	}
	v, err := util.YesNo("cache", cache)
	if err != nil {
		return nil, wrapInvalid(err)
	}
	command := "Disable"
	if v == "YES" {
		command = "Enable"
	}
	return c.Post(ctx, fmt.Sprintf("/api/pools/%s/toggle_cache.json", poolID), map[string]any{"command": command})
}

// SetPoolCowCache turns copy-on-write caching on (YES) or off (NO).
func (c *Client) SetPoolCowCache(ctx context.Context, poolID, cowcache string) (*Response, error) {
	if err := util.ValidatePoolID(poolID, false); err != nil {
		return nil, wrapInvalid(err)
	}
	v, err := util.YesNo("cowcache", cowcache)
	if err != nil {
		return nil, wrapInvalid(err)
	}
	return c.Post(ctx, fmt.Sprintf("/api/pools/%s/cow_cache.json", poolID), map[string]any{"cowcache": trueFalse(v)})
}

// CapacityAlerts holds pool alert thresholds. Nil fields are left unchanged.
type CapacityAlerts struct {
	CapacityHistory *int // minutes of history used to predict exhaustion
	AlertMode       *int // minutes before exhaustion to alert
	ProtectedMode   *int // minutes before exhaustion to block new objects
	EmergencyMode   *int // free GB below which old snapshots are deleted
}

// UpdatePoolCapacityAlerts changes the pool alert thresholds. At least one
// threshold must be set.
func (c *Client) UpdatePoolCapacityAlerts(ctx context.Context, poolID string, alerts CapacityAlerts) (*Response, error) {
	if err := util.ValidatePoolID(poolID, false); err != nil {
		return nil, wrapInvalid(err)
	}
	body := map[string]any{}
	for name, v := range map[string]*int{
		"capacityhistory": alerts.CapacityHistory,
		"alertmode":       alerts.AlertMode,
		"protectedmode":   alerts.ProtectedMode,
		"emergencymode":   alerts.EmergencyMode,
	} {
		if v == nil {
			continue
		}
		if *v < 0 {
			return nil, invalid("%s must not be negative, got %d", name, *v)
		}
		body[name] = *v
	}
	if len(body) == 0 {
		return nil, invalid("at least one of capacityhistory, alertmode, protectedmode or emergencymode must be set")
	}
	return c.Post(ctx, fmt.Sprintf("/api/pools/%s/update_protection.json", poolID), body)
}

// PoolPerformance returns pool metering data.
func (c *Client) PoolPerformance(ctx context.Context, poolID string, interval int) (*Response, error) {
	if err := util.ValidatePoolID(poolID, false); err != nil {
		return nil, wrapInvalid(err)
	}
	return c.performance(ctx, fmt.Sprintf("/api/pools/%s/performance.json", poolID), interval)
}
