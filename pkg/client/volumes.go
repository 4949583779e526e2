package client

import (
	"context"
	"fmt"
	"net/url"
	"regexp"

	"github.com/liliang-cn/zadarapy/pkg/util"
)

// ==================== VOLUMES ====================

var maskRegex = regexp.MustCompile(`^[0-7]{4}$`)

var readAheadKB = map[int]bool{16: true, 64: true, 128: true, 256: true, 512: true}

// VolumeFilter narrows ListVolumes. Empty fields are not sent.
type VolumeFilter struct {
	ShowOnlyBlock string // YES or NO
	ShowOnlyFile  string // YES or NO
	DisplayName   string
}

// NASOptions are the share settings of a file volume.
type NASOptions struct {
	ExportName         string
	AtimeUpdate        string
	NFSRootSquash      string
	ReadAheadKB        int
	SMBOnly            string
	SMBGuest           string
	SMBWindowsACL      string
	SMBFileCreateMask  string
	SMBDirCreateMask   string
	SMBMapArchive      string
	SMBBrowseable      string
	SMBHideUnreadable  string
	SMBHideUnwriteable string
	SMBHideDotFiles    string
	SMBStoreDOSAttrs   string
	SMBEnableOplocks   string
	SMBAIOSize         string
}

// DefaultNASOptions returns the share settings the VPSA UI uses.
func DefaultNASOptions() NASOptions {
	return NASOptions{
		AtimeUpdate:        "NO",
		NFSRootSquash:      "NO",
		ReadAheadKB:        512,
		SMBOnly:            "NO",
		SMBGuest:           "NO",
		SMBWindowsACL:      "NO",
		SMBFileCreateMask:  "0744",
		SMBDirCreateMask:   "0755",
		SMBMapArchive:      "YES",
		SMBBrowseable:      "YES",
		SMBHideUnreadable:  "NO",
		SMBHideUnwriteable: "NO",
		SMBHideDotFiles:    "YES",
		SMBStoreDOSAttrs:   "NO",
		SMBEnableOplocks:   "YES",
		SMBAIOSize:         "NO",
	}
}

func (o NASOptions) body(body map[string]any) error {
	if o.ExportName != "" {
		if err := util.ValidateField("export_name", o.ExportName); err != nil {
			return wrapInvalid(err)
		}
		body["export_name"] = o.ExportName
	}
	if !readAheadKB[o.ReadAheadKB] {
		return invalid("readaheadkb must be one of 16, 64, 128, 256 or 512, got %d", o.ReadAheadKB)
	}
	body["readaheadkb"] = o.ReadAheadKB

	for name, mask := range map[string]string{
		"smbfilecreatemask": o.SMBFileCreateMask,
		"smbdircreatemask":  o.SMBDirCreateMask,
	} {
		if !maskRegex.MatchString(mask) {
			return invalid("%s must be a four digit octal mask, got %q", name, mask)
		}
		body[name] = mask
	}

	for name, v := range map[string]string{
		"atimeupdate":           o.AtimeUpdate,
		"nfsrootsquash":         o.NFSRootSquash,
		"smbonly":               o.SMBOnly,
		"smbguest":              o.SMBGuest,
		"smbwindowsacl":         o.SMBWindowsACL,
		"smbmaparchive":         o.SMBMapArchive,
		"smbbrowseable":         o.SMBBrowseable,
		"smbhideunreadable":     o.SMBHideUnreadable,
		"smbhideunwriteable":    o.SMBHideUnwriteable,
		"smbhidedotfiles":       o.SMBHideDotFiles,
		"smbstoredosattributes": o.SMBStoreDOSAttrs,
		"smbenableoplocks":      o.SMBEnableOplocks,
	} {
		yn, err := util.YesNo(name, v)
		if err != nil {
			return wrapInvalid(err)
		}
		body[name] = yn
	}

	aio, err := util.YesNo("smbaiosize", o.SMBAIOSize)
	if err != nil {
		return wrapInvalid(err)
	}
	body["smbaiosize"] = "1"
	if aio == "YES" {
		body["smbaiosize"] = "16384"
	}
	return nil
}

// CreateVolumeRequest describes a new block or NAS volume.
type CreateVolumeRequest struct {
	PoolID         string
	DisplayName    string
	CapacityGB     int
	Block          string // YES for a block volume, NO for NAS
	AttachPolicies string
	Crypt          string
	Dedupe         string
	Compress       string
	NAS            NASOptions // used when Block is NO
}

func yesNoFields(body map[string]any, fields map[string]string) error {
	for name, v := range fields {
		yn, err := util.YesNo(name, v)
		if err != nil {
			return wrapInvalid(err)
		}
		body[name] = yn
	}
	return nil
}

// ListVolumes lists volumes, optionally filtered.
func (c *Client) ListVolumes(ctx context.Context, filter VolumeFilter, page Page) (*Response, error) {
	params := url.Values{}
	for name, v := range map[string]string{"showonlyblock": filter.ShowOnlyBlock, "showonlyfile": filter.ShowOnlyFile} {
		if v == "" {
			continue
		}
		yn, err := util.YesNo(name, v)
		if err != nil {
			return nil, wrapInvalid(err)
		}
		params.Set(name, yn)
	}
	if filter.DisplayName != "" {
		if err := util.ValidateField("display_name", filter.DisplayName); err != nil {
			return nil, wrapInvalid(err)
		}
		params.Set("display_name", filter.DisplayName)
	}
	return c.list(ctx, "/api/volumes.json", page, params)
}

// ListFreeVolumes lists volumes not attached to any server.
func (c *Client) ListFreeVolumes(ctx context.Context, page Page) (*Response, error) {
	return c.list(ctx, "/api/volumes/free.json", page, nil)
}

// GetVolume returns a single volume.
func (c *Client) GetVolume(ctx context.Context, volumeID string) (*Response, error) {
	if err := util.ValidateVolumeID(volumeID); err != nil {
		return nil, wrapInvalid(err)
	}
	return c.Get(ctx, fmt.Sprintf("/api/volumes/%s.json", volumeID), nil)
}

// CreateVolume creates a volume. Block volumes are always thin provisioned.
func (c *Client) CreateVolume(ctx context.Context, req CreateVolumeRequest) (*Response, error) {
	if err := util.ValidatePoolID(req.PoolID, false); err != nil {
		return nil, wrapInvalid(err)
	}
	if req.DisplayName == "" {
		return nil, invalid("display_name is required")
	}
	if err := util.ValidateField("display_name", req.DisplayName); err != nil {
		return nil, wrapInvalid(err)
	}
	if err := validateCapacity(req.CapacityGB); err != nil {
		return nil, err
	}

	body := map[string]any{
		"pool":     req.PoolID,
		"name":     req.DisplayName,
		"capacity": util.FormatCapacity(req.CapacityGB),
	}
	if err := yesNoFields(body, map[string]string{
		"block":          req.Block,
		"attachpolicies": req.AttachPolicies,
		"crypt":          req.Crypt,
		"dedupe":         req.Dedupe,
		"compress":       req.Compress,
	}); err != nil {
		return nil, err
	}

	if body["block"] == "YES" {
		body["thin"] = "YES"
	} else if err := req.NAS.body(body); err != nil {
		return nil, err
	}
	return c.Post(ctx, "/api/volumes.json", body)
}

// DeleteVolume deletes a volume. force is YES or NO.
func (c *Client) DeleteVolume(ctx context.Context, volumeID, force string) (*Response, error) {
	if err := util.ValidateVolumeID(volumeID); err != nil {
		return nil, wrapInvalid(err)
	}
	body := map[string]any{}
	if err := yesNoFields(body, map[string]string{"force": force}); err != nil {
		return nil, err
	}
	return c.Delete(ctx, fmt.Sprintf("/api/volumes/%s.json", volumeID), body)
}

// RenameVolume changes a volume's display name.
func (c *Client) RenameVolume(ctx context.Context, volumeID, displayName string) (*Response, error) {
	if err := util.ValidateVolumeID(volumeID); err != nil {
		return nil, wrapInvalid(err)
	}
	if err := util.ValidateField("display_name", displayName); err != nil {
		return nil, wrapInvalid(err)
	}
	return c.Post(ctx, fmt.Sprintf("/api/volumes/%s/rename.json", volumeID), map[string]any{"new_name": displayName})
}

// ExpandVolume grows a volume by capacityGB.
func (c *Client) ExpandVolume(ctx context.Context, volumeID string, capacityGB int) (*Response, error) {
	if err := util.ValidateVolumeID(volumeID); err != nil {
		return nil, wrapInvalid(err)
	}
	if err := validateCapacity(capacityGB); err != nil {
		return nil, err
	}
	return c.Post(ctx, fmt.Sprintf("/api/volumes/%s/expand.json", volumeID), map[string]any{"capacity": util.FormatCapacity(capacityGB)})
}

// UpdateVolumeComment replaces the free form comment of a volume.
func (c *Client) UpdateVolumeComment(ctx context.Context, volumeID, comment string) (*Response, error) {
	if err := util.ValidateVolumeID(volumeID); err != nil {
		return nil, wrapInvalid(err)
	}
	if err := util.ValidateField("comment", comment); err != nil {
		return nil, wrapInvalid(err)
	}
	return c.Post(ctx, fmt.Sprintf("/api/volumes/%s/update_comment.json", volumeID), map[string]any{"new_comment": comment})
}

// ListVolumeServers lists servers a volume is attached to.
func (c *Client) ListVolumeServers(ctx context.Context, volumeID string, page Page) (*Response, error) {
	if err := util.ValidateVolumeID(volumeID); err != nil {
		return nil, wrapInvalid(err)
	}
	return c.list(ctx, fmt.Sprintf("/api/volumes/%s/servers.json", volumeID), page, nil)
}

// DetachServers detaches a comma separated list of servers from a volume.
func (c *Client) DetachServers(ctx context.Context, volumeID, servers, force string) (*Response, error) {
	if err := util.ValidateVolumeID(volumeID); err != nil {
		return nil, wrapInvalid(err)
	}
	srvs, err := util.ValidateList(servers, util.ValidateServerID)
	if err != nil {
		return nil, wrapInvalid(err)
	}
	body := map[string]any{"servers": srvs}
	if err := yesNoFields(body, map[string]string{"force": force}); err != nil {
		return nil, err
	}
	return c.Post(ctx, fmt.Sprintf("/api/volumes/%s/detach.json", volumeID), body)
}

// SetExportName changes the NFS export name of a NAS volume.
func (c *Client) SetExportName(ctx context.Context, volumeID, exportName string) (*Response, error) {
	if err := util.ValidateVolumeID(volumeID); err != nil {
		return nil, wrapInvalid(err)
	}
	if exportName == "" {
		return nil, invalid("export name is required")
	}
	if err := util.ValidateField("export_name", exportName); err != nil {
		return nil, wrapInvalid(err)
	}
	return c.Put(ctx, fmt.Sprintf("/api/volumes/%s/export_name.json", volumeID), map[string]any{"exportname": exportName})
}

// ListVolumeSnapshotPolicies lists the snapshot policies attached to a
// volume's consistency group.
func (c *Client) ListVolumeSnapshotPolicies(ctx context.Context, cgID string, page Page) (*Response, error) {
	if err := util.ValidateCGID(cgID); err != nil {
		return nil, wrapInvalid(err)
	}
	return c.list(ctx, fmt.Sprintf("/api/consistency_groups/%s/snapshot_policies.json", cgID), page, nil)
}

// AttachSnapshotPolicy attaches a snapshot policy to a consistency group.
func (c *Client) AttachSnapshotPolicy(ctx context.Context, cgID, policyID string) (*Response, error) {
	if err := util.ValidateCGID(cgID); err != nil {
		return nil, wrapInvalid(err)
	}
	if err := util.ValidatePolicyID(policyID); err != nil {
		return nil, wrapInvalid(err)
	}
	return c.Post(ctx, fmt.Sprintf("/api/consistency_groups/%s/attach_policy.json", cgID), map[string]any{"policy": policyID})
}

// DetachSnapshotPolicy detaches the snapshot rule identified by rule (as
// listed by ListVolumeSnapshotPolicies). deleteSnapshots is YES or NO.
func (c *Client) DetachSnapshotPolicy(ctx context.Context, rule, deleteSnapshots string) (*Response, error) {
	if rule == "" {
		return nil, invalid("snapshot rule name is required")
	}
	if err := util.ValidateField("snapshot rule", rule); err != nil {
		return nil, wrapInvalid(err)
	}
	body := map[string]any{}
	if err := yesNoFields(body, map[string]string{"delete_snapshots": deleteSnapshots}); err != nil {
		return nil, err
	}
	return c.Post(ctx, fmt.Sprintf("/api/consistency_groups/%s/detach_policy.json", url.PathEscape(rule)), body)
}

// ListSnapshots lists snapshots of a consistency group. A non-empty policyID
// restricts the list to snapshots taken by that policy.
func (c *Client) ListSnapshots(ctx context.Context, cgID, policyID string, page Page) (*Response, error) {
	if err := util.ValidateCGID(cgID); err != nil {
		return nil, wrapInvalid(err)
	}
	params := url.Values{}
	if policyID != "" {
		if err := util.ValidatePolicyID(policyID); err != nil {
			return nil, wrapInvalid(err)
		}
		params.Set("jobname", policyID)
		params.Set("application", "user")
	}
	return c.list(ctx, fmt.Sprintf("/api/consistency_groups/%s/snapshots.json", cgID), page, params)
}

// CreateSnapshot takes a manual snapshot of a consistency group.
func (c *Client) CreateSnapshot(ctx context.Context, cgID, displayName string) (*Response, error) {
	if err := util.ValidateCGID(cgID); err != nil {
		return nil, wrapInvalid(err)
	}
	if displayName == "" {
		return nil, invalid("display_name is required")
	}
	if err := util.ValidateField("display_name", displayName); err != nil {
		return nil, wrapInvalid(err)
	}
	return c.Post(ctx, fmt.Sprintf("/api/consistency_groups/%s/snapshots.json", cgID), map[string]any{"display_name": displayName})
}

// DeleteSnapshot deletes a snapshot.
func (c *Client) DeleteSnapshot(ctx context.Context, snapshotID string) (*Response, error) {
	if err := util.ValidateSnapshotID(snapshotID); err != nil {
		return nil, wrapInvalid(err)
	}
	return c.Delete(ctx, fmt.Sprintf("/api/snapshots/%s.json", snapshotID), nil)
}

// CloneVolume clones a consistency group, from snapshotID when set.
func (c *Client) CloneVolume(ctx context.Context, cgID, displayName, snapshotID string) (*Response, error) {
	if err := util.ValidateCGID(cgID); err != nil {
		return nil, wrapInvalid(err)
	}
	if displayName == "" {
		return nil, invalid("display_name is required")
	}
	if err := util.ValidateField("display_name", displayName); err != nil {
		return nil, wrapInvalid(err)
	}
	body := map[string]any{"name": displayName}
	if snapshotID != "" {
		if err := util.ValidateSnapshotID(snapshotID); err != nil {
			return nil, wrapInvalid(err)
		}
		body["snapshot_id"] = snapshotID
	}
	return c.Post(ctx, fmt.Sprintf("/api/consistency_groups/%s/clone.json", cgID), body)
}

// VolumePerformance returns volume metering data.
func (c *Client) VolumePerformance(ctx context.Context, volumeID string, interval int) (*Response, error) {
	if err := util.ValidateVolumeID(volumeID); err != nil {
		return nil, wrapInvalid(err)
	}
	return c.performance(ctx, fmt.Sprintf("/api/volumes/%s/performance.json", volumeID), interval)
}
