package client

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/liliang-cn/zadarapy/pkg/util"
)

// ==================== SNAPSHOT POLICIES ====================

// CreateSnapshotPolicyRequest describes a new snapshot policy.
type CreateSnapshotPolicyRequest struct {
	DisplayName        string
	CreatePolicy       string // "manual" or a five field cron expression
	LocalDeletePolicy  int    // snapshots kept locally
	RemoteDeletePolicy int    // snapshots kept on a mirror destination
	AllowEmpty         string // YES or NO
}

// ListSnapshotPolicies lists all snapshot policies.
func (c *Client) ListSnapshotPolicies(ctx context.Context, page Page) (*Response, error) {
	return c.list(ctx, "/api/snapshot_policies.json", page, nil)
}

// GetSnapshotPolicy returns a single snapshot policy.
func (c *Client) GetSnapshotPolicy(ctx context.Context, policyID string) (*Response, error) {
	if err := util.ValidatePolicyID(policyID); err != nil {
		return nil, wrapInvalid(err)
	}
	return c.Get(ctx, fmt.Sprintf("/api/snapshot_policies/%s.json", policyID), nil)
}

// CreateSnapshotPolicy creates a snapshot policy.
func (c *Client) CreateSnapshotPolicy(ctx context.Context, req CreateSnapshotPolicyRequest) (*Response, error) {
	name := strings.TrimSpace(req.DisplayName)
	if name == "" {
		return nil, invalid("display_name is required")
	}
	if err := util.ValidateField("display_name", name); err != nil {
		return nil, wrapInvalid(err)
	}
	if err := util.ValidateSchedule(req.CreatePolicy); err != nil {
		return nil, wrapInvalid(err)
	}
	if req.LocalDeletePolicy < 0 {
		return nil, invalid("local delete policy must not be negative, got %d", req.LocalDeletePolicy)
	}
	if req.RemoteDeletePolicy < 0 {
		return nil, invalid("remote delete policy must not be negative, got %d", req.RemoteDeletePolicy)
	}

	body := map[string]any{
		"name":               name,
		"create_policy":      req.CreatePolicy,
		"delete_policy":      "N" + strconv.Itoa(req.LocalDeletePolicy),
		"destination_policy": "N" + strconv.Itoa(req.RemoteDeletePolicy),
	}
	if err := yesNoFields(body, map[string]string{"empty": req.AllowEmpty}); err != nil {
		return nil, err
	}
	return c.Post(ctx, "/api/snapshot_policies.json", body)
}

// DeleteSnapshotPolicy deletes a snapshot policy.
func (c *Client) DeleteSnapshotPolicy(ctx context.Context, policyID string) (*Response, error) {
	if err := util.ValidatePolicyID(policyID); err != nil {
		return nil, wrapInvalid(err)
	}
	return c.Delete(ctx, fmt.Sprintf("/api/snapshot_policies/%s.json", policyID), nil)
}

// RenameSnapshotPolicy changes a snapshot policy's display name.
func (c *Client) RenameSnapshotPolicy(ctx context.Context, policyID, displayName string) (*Response, error) {
	if err := util.ValidatePolicyID(policyID); err != nil {
		return nil, wrapInvalid(err)
	}
	if displayName == "" {
		return nil, invalid("display_name is required")
	}
	if err := util.ValidateField("display_name", displayName); err != nil {
		return nil, wrapInvalid(err)
	}
	return c.Post(ctx, fmt.Sprintf("/api/snapshot_policies/%s/rename.json", policyID), map[string]any{"new_name": displayName})
}
