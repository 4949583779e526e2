package client

import (
	"context"
	"fmt"
	"net"

	"github.com/liliang-cn/zadarapy/pkg/util"
)

// ==================== SERVERS ====================

// CreateServerRequest describes a new server record. IPAddress or IQN must
// be set.
type CreateServerRequest struct {
	DisplayName    string
	IPAddress      string
	IQN            string
	VPSAChapUser   string
	VPSAChapSecret string
	HostChapUser   string
	HostChapSecret string
	IPSecISCSI     string // YES or NO
	IPSecNFS       string // YES or NO
	Force          string // YES or NO
}

// AttachServersRequest attaches a volume to one or more servers.
type AttachServersRequest struct {
	Servers    string // comma separated server names
	VolumeID   string
	AccessType string // NFS, SMB or BOTH, NAS volumes only
	ReadOnly   string // YES or NO
	Force      string // YES or NO
}

// ListServers lists all servers.
func (c *Client) ListServers(ctx context.Context, page Page) (*Response, error) {
	return c.list(ctx, "/api/servers.json", page, nil)
}

// GetServer returns a single server.
func (c *Client) GetServer(ctx context.Context, serverID string) (*Response, error) {
	if err := util.ValidateServerID(serverID); err != nil {
		return nil, wrapInvalid(err)
	}
	return c.Get(ctx, fmt.Sprintf("/api/servers/%s.json", serverID), nil)
}

// CreateServer registers a server with the VPSA.
func (c *Client) CreateServer(ctx context.Context, req CreateServerRequest) (*Response, error) {
	if req.DisplayName == "" {
		return nil, invalid("display_name is required")
	}
	if req.IPAddress == "" && req.IQN == "" {
		return nil, invalid("either an IP address or an IQN must be defined")
	}

	body := map[string]any{}
	for name, v := range map[string]string{
		"display_name":   req.DisplayName,
		"vpsachapuser":   req.VPSAChapUser,
		"vpsachapsecret": req.VPSAChapSecret,
		"hostchapuser":   req.HostChapUser,
		"hostchapsecret": req.HostChapSecret,
	} {
		if v == "" {
			continue
		}
		if err := util.ValidateField(name, v); err != nil {
			return nil, wrapInvalid(err)
		}
		body[name] = v
	}
	if req.IPAddress != "" {
		if _, _, err := net.ParseCIDR(req.IPAddress); err != nil && net.ParseIP(req.IPAddress) == nil {
			return nil, invalid("%q is not a valid IP address or CIDR", req.IPAddress)
		}
		body["iscsi"] = req.IPAddress
	}
	if req.IQN != "" {
		if err := util.ValidateIQN(req.IQN); err != nil {
			return nil, wrapInvalid(err)
		}
		body["iqn"] = req.IQN
	}
	if err := yesNoFields(body, map[string]string{
		"ipsec_iscsi": req.IPSecISCSI,
		"ipsec_nfs":   req.IPSecNFS,
		"force":       req.Force,
	}); err != nil {
		return nil, err
	}
	return c.Post(ctx, "/api/servers.json", body)
}

// DeleteServer deletes a server record.
func (c *Client) DeleteServer(ctx context.Context, serverID string) (*Response, error) {
	if err := util.ValidateServerID(serverID); err != nil {
		return nil, wrapInvalid(err)
	}
	return c.Delete(ctx, fmt.Sprintf("/api/servers/%s.json", serverID), nil)
}

// RenameServer changes a server's display name.
func (c *Client) RenameServer(ctx context.Context, serverID, displayName string) (*Response, error) {
	if err := util.ValidateServerID(serverID); err != nil {
		return nil, wrapInvalid(err)
	}
	if displayName == "" {
		return nil, invalid("display_name is required")
	}
	if err := util.ValidateField("display_name", displayName); err != nil {
		return nil, wrapInvalid(err)
	}
	return c.Post(ctx, fmt.Sprintf("/api/servers/%s/rename.json", serverID), map[string]any{"new_name": displayName})
}

// ListServerVolumes lists volumes attached to a server.
func (c *Client) ListServerVolumes(ctx context.Context, serverID string, page Page) (*Response, error) {
	if err := util.ValidateServerID(serverID); err != nil {
		return nil, wrapInvalid(err)
	}
	return c.list(ctx, fmt.Sprintf("/api/servers/%s/volumes.json", serverID), page, nil)
}

// AttachServers attaches a volume to the given servers.
func (c *Client) AttachServers(ctx context.Context, req AttachServersRequest) (*Response, error) {
	servers, err := util.ValidateList(req.Servers, util.ValidateServerID)
	if err != nil {
		return nil, wrapInvalid(err)
	}
	if err := util.ValidateVolumeID(req.VolumeID); err != nil {
		return nil, wrapInvalid(err)
	}

	body := map[string]any{"volume_name": req.VolumeID}
	switch req.AccessType {
	case "", "BOTH":
	case "NFS", "SMB":
		body["access_type"] = req.AccessType
	default:
		return nil, invalid("access type must be NFS, SMB or BOTH, got %q", req.AccessType)
	}
	if err := yesNoFields(body, map[string]string{"readonly": req.ReadOnly, "force": req.Force}); err != nil {
		return nil, err
	}
	return c.Post(ctx, fmt.Sprintf("/api/servers/%s/volumes.json", servers), body)
}

// ServerPerformance returns server metering data.
func (c *Client) ServerPerformance(ctx context.Context, serverID string, interval int) (*Response, error) {
	if err := util.ValidateServerID(serverID); err != nil {
		return nil, wrapInvalid(err)
	}
	return c.performance(ctx, fmt.Sprintf("/api/servers/%s/performance.json", serverID), interval)
}
