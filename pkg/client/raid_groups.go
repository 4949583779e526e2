package client

import (
	"context"
	"fmt"
	"strings"

	"github.com/liliang-cn/zadarapy/pkg/util"
)

// ==================== RAID GROUPS ====================

// raidWidth is the allowed drive count per protection level.
var raidWidth = map[string][2]int{
	"RAID1": {2, 3},
	"RAID5": {3, 5},
	"RAID6": {4, 10},
}

var stripeSizes = map[int]bool{4: true, 16: true, 32: true, 64: true, 128: true, 256: true}

// CreateRaidGroupRequest describes a new RAID group. The protection width is
// the number of drives given.
type CreateRaidGroupRequest struct {
	DisplayName string
	Protection  string // RAID1, RAID5 or RAID6
	Drives      string // comma separated drive names
	StripeSize  int    // KB, ignored for RAID1
	HotSpare    string // YES or NO
	Force       string // YES or NO
}

// ListRaidGroups lists all RAID groups.
func (c *Client) ListRaidGroups(ctx context.Context, page Page) (*Response, error) {
	return c.list(ctx, "/api/raid_groups.json", page, nil)
}

// ListFreeRaidGroups lists RAID groups not assigned to a pool.
func (c *Client) ListFreeRaidGroups(ctx context.Context, page Page) (*Response, error) {
	return c.list(ctx, "/api/raid_groups/free.json", page, nil)
}

// GetRaidGroup returns a single RAID group.
func (c *Client) GetRaidGroup(ctx context.Context, raidGroupID string) (*Response, error) {
	if err := util.ValidateRaidGroupID(raidGroupID); err != nil {
		return nil, wrapInvalid(err)
	}
	return c.Get(ctx, fmt.Sprintf("/api/raid_groups/%s.json", raidGroupID), nil)
}

// CreateRaidGroup creates a RAID group from free drives.
func (c *Client) CreateRaidGroup(ctx context.Context, req CreateRaidGroupRequest) (*Response, error) {
	name := strings.TrimSpace(req.DisplayName)
	if name == "" {
		return nil, invalid("display_name is required")
	}
	if err := util.ValidateField("display_name", name); err != nil {
		return nil, wrapInvalid(err)
	}
	width, ok := raidWidth[req.Protection]
	if !ok {
		return nil, invalid("%q is not a valid RAID type, allowed values are RAID1, RAID5 and RAID6", req.Protection)
	}
	drives, err := util.ValidateList(req.Drives, util.ValidateDriveID)
	if err != nil {
		return nil, wrapInvalid(err)
	}
	count := len(strings.Split(drives, ","))
	if count < width[0] || count > width[1] {
		return nil, invalid("a %s group may only have %d-%d drives, but %d were supplied", req.Protection, width[0], width[1], count)
	}
	if !stripeSizes[req.StripeSize] {
		return nil, invalid("%d is not a valid stripe size, allowed values are 4, 16, 32, 64, 128 and 256", req.StripeSize)
	}

	body := map[string]any{
		"display_name":     name,
		"protection":       req.Protection,
		"disk":             drives,
		"protection_width": count,
	}
	if req.Protection != "RAID1" {
		body["stripe_size"] = req.StripeSize
	}
	if err := yesNoFields(body, map[string]string{"hot_spare": req.HotSpare, "force": req.Force}); err != nil {
		return nil, err
	}
	return c.Post(ctx, "/api/raid_groups.json", body)
}

// DeleteRaidGroup deletes a RAID group.
func (c *Client) DeleteRaidGroup(ctx context.Context, raidGroupID string) (*Response, error) {
	if err := util.ValidateRaidGroupID(raidGroupID); err != nil {
		return nil, wrapInvalid(err)
	}
	return c.Delete(ctx, fmt.Sprintf("/api/raid_groups/%s.json", raidGroupID), nil)
}

// ListRaidGroupDrives lists the member drives of a RAID group.
func (c *Client) ListRaidGroupDrives(ctx context.Context, raidGroupID string, page Page) (*Response, error) {
	if err := util.ValidateRaidGroupID(raidGroupID); err != nil {
		return nil, wrapInvalid(err)
	}
	return c.list(ctx, fmt.Sprintf("/api/raid_groups/%s/disks.json", raidGroupID), page, nil)
}

// RenameRaidGroup changes a RAID group's display name.
func (c *Client) RenameRaidGroup(ctx context.Context, raidGroupID, displayName string) (*Response, error) {
	if err := util.ValidateRaidGroupID(raidGroupID); err != nil {
		return nil, wrapInvalid(err)
	}
	if displayName == "" {
		return nil, invalid("display_name is required")
	}
	if err := util.ValidateField("display_name", displayName); err != nil {
		return nil, wrapInvalid(err)
	}
	return c.Post(ctx, fmt.Sprintf("/api/raid_groups/%s/rename.json", raidGroupID), map[string]any{"newname": displayName})
}

// RepairRaidGroup starts a repair of a degraded RAID group.
func (c *Client) RepairRaidGroup(ctx context.Context, raidGroupID string) (*Response, error) {
	if err := util.ValidateRaidGroupID(raidGroupID); err != nil {
		return nil, wrapInvalid(err)
	}
	return c.Post(ctx, fmt.Sprintf("/api/raid_groups/%s/repair.json", raidGroupID), nil)
}

// SetResyncSpeed sets the resync speed bounds in MB/s.
func (c *Client) SetResyncSpeed(ctx context.Context, raidGroupID string, minimum, maximum int) (*Response, error) {
	if err := util.ValidateRaidGroupID(raidGroupID); err != nil {
		return nil, wrapInvalid(err)
	}
	if minimum < 1 || maximum < 1 {
		return nil, invalid("resync speeds must be positive, got min %d max %d", minimum, maximum)
	}
	if minimum > maximum {
		return nil, invalid("minimum resync speed %d is greater than maximum %d", minimum, maximum)
	}
	return c.Post(ctx, fmt.Sprintf("/api/raid_groups/%s/resync_speed.json", raidGroupID), map[string]any{
		"min": minimum,
		"max": maximum,
	})
}

// StartMediaScan starts a media scan (scrub).
func (c *Client) StartMediaScan(ctx context.Context, raidGroupID string) (*Response, error) {
	if err := util.ValidateRaidGroupID(raidGroupID); err != nil {
		return nil, wrapInvalid(err)
	}
	return c.Post(ctx, fmt.Sprintf("/api/raid_groups/%s/scrub.json", raidGroupID), nil)
}

// PauseMediaScan pauses a running media scan.
func (c *Client) PauseMediaScan(ctx context.Context, raidGroupID string) (*Response, error) {
	if err := util.ValidateRaidGroupID(raidGroupID); err != nil {
		return nil, wrapInvalid(err)
	}
	return c.Post(ctx, fmt.Sprintf("/api/raid_groups/%s/pause_scrub.json", raidGroupID), nil)
}

// AddHotSpare dedicates a free drive as hot spare of a RAID group.
func (c *Client) AddHotSpare(ctx context.Context, raidGroupID, driveID, force string) (*Response, error) {
	if err := util.ValidateRaidGroupID(raidGroupID); err != nil {
		return nil, wrapInvalid(err)
	}
	if err := util.ValidateDriveID(driveID); err != nil {
		return nil, wrapInvalid(err)
	}
	body := map[string]any{"disk": driveID}
	if err := yesNoFields(body, map[string]string{"force": force}); err != nil {
		return nil, err
	}
	return c.Post(ctx, fmt.Sprintf("/api/raid_groups/%s/hot_spares.json", raidGroupID), body)
}

// RemoveHotSpare releases the hot spare of a RAID group.
func (c *Client) RemoveHotSpare(ctx context.Context, raidGroupID string) (*Response, error) {
	if err := util.ValidateRaidGroupID(raidGroupID); err != nil {
		return nil, wrapInvalid(err)
	}
	return c.Post(ctx, fmt.Sprintf("/api/raid_groups/%s/hot_spares/remove.json", raidGroupID), nil)
}

// RaidGroupPerformance returns RAID group metering data.
func (c *Client) RaidGroupPerformance(ctx context.Context, raidGroupID string, interval int) (*Response, error) {
	if err := util.ValidateRaidGroupID(raidGroupID); err != nil {
		return nil, wrapInvalid(err)
	}
	return c.performance(ctx, fmt.Sprintf("/api/raid_groups/%s/performance.json", raidGroupID), interval)
}
