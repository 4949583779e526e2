package client

import (
	"context"
	"fmt"

	"github.com/liliang-cn/zadarapy/pkg/util"
)

// ==================== DRIVES ====================

// ListDrives lists all drives attached to the VPSA.
func (c *Client) ListDrives(ctx context.Context, page Page) (*Response, error) {
	return c.list(ctx, "/api/drives.json", page, nil)
}

// ListFreeDrives lists drives not part of any RAID group.
func (c *Client) ListFreeDrives(ctx context.Context, page Page) (*Response, error) {
	return c.list(ctx, "/api/drives/free.json", page, nil)
}

// GetDrive returns a single drive.
func (c *Client) GetDrive(ctx context.Context, driveID string) (*Response, error) {
	if err := util.ValidateDriveID(driveID); err != nil {
		return nil, wrapInvalid(err)
	}
	return c.Get(ctx, fmt.Sprintf("/api/drives/%s.json", driveID), nil)
}

// RenameDrive changes a drive's display name.
func (c *Client) RenameDrive(ctx context.Context, driveID, displayName string) (*Response, error) {
	if err := util.ValidateDriveID(driveID); err != nil {
		return nil, wrapInvalid(err)
	}
	if displayName == "" {
		return nil, invalid("display_name is required")
	}
	if err := util.ValidateField("display_name", displayName); err != nil {
		return nil, wrapInvalid(err)
	}
	return c.Post(ctx, fmt.Sprintf("/api/drives/%s/rename.json", driveID), map[string]any{"newname": displayName})
}

// RemoveDrive removes an unused drive from the VPSA.
func (c *Client) RemoveDrive(ctx context.Context, driveID string) (*Response, error) {
	if err := util.ValidateDriveID(driveID); err != nil {
		return nil, wrapInvalid(err)
	}
	return c.Post(ctx, fmt.Sprintf("/api/drives/%s/remove.json", driveID), nil)
}

// ReplaceDrive replaces a RAID group member with a free drive.
func (c *Client) ReplaceDrive(ctx context.Context, driveID, toDriveID, force string) (*Response, error) {
	if err := util.ValidateDriveID(driveID); err != nil {
		return nil, wrapInvalid(err)
	}
	if err := util.ValidateDriveID(toDriveID); err != nil {
		return nil, wrapInvalid(err)
	}
	body := map[string]any{"toname": toDriveID}
	if err := yesNoFields(body, map[string]string{"force": force}); err != nil {
		return nil, err
	}
	return c.Post(ctx, fmt.Sprintf("/api/drives/%s/replace.json", driveID), body)
}

// ShredDrive starts a shred of an unused drive.
func (c *Client) ShredDrive(ctx context.Context, driveID, force string) (*Response, error) {
	if err := util.ValidateDriveID(driveID); err != nil {
		return nil, wrapInvalid(err)
	}
	body := map[string]any{}
	if err := yesNoFields(body, map[string]string{"force": force}); err != nil {
		return nil, err
	}
	return c.Post(ctx, fmt.Sprintf("/api/drives/%s/shred.json", driveID), body)
}

// CancelShredDrive stops a running shred.
func (c *Client) CancelShredDrive(ctx context.Context, driveID string) (*Response, error) {
	if err := util.ValidateDriveID(driveID); err != nil {
		return nil, wrapInvalid(err)
	}
	return c.Post(ctx, fmt.Sprintf("/api/drives/%s/cancel_shred.json", driveID), nil)
}

// DrivePerformance returns drive metering data.
func (c *Client) DrivePerformance(ctx context.Context, driveID string, interval int) (*Response, error) {
	if err := util.ValidateDriveID(driveID); err != nil {
		return nil, wrapInvalid(err)
	}
	return c.performance(ctx, fmt.Sprintf("/api/drives/%s/performance.json", driveID), interval)
}
