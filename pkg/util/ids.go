package util

import (
	"errors"
	"fmt"
	"net"
	"regexp"
	"strings"

	"github.com/robfig/cron/v3"
)

// ErrInvalidID is returned when an identifier does not match the format the
// VPSA uses for that kind of object.
var ErrInvalidID = errors.New("invalid identifier")

var (
	poolIDRegex       = regexp.MustCompile(`^pool-[0-9a-f]{8}$`)
	remotePoolIDRegex = regexp.MustCompile(`^(r?pool)-[0-9a-f]{8}$`)
	volumeIDRegex     = regexp.MustCompile(`^volume-[0-9a-f]{8}$`)
	cgIDRegex         = regexp.MustCompile(`^cg-[0-9a-f]{8}$`)
	policyIDRegex     = regexp.MustCompile(`^policy-[0-9a-f]{8}$`)
	snapshotIDRegex   = regexp.MustCompile(`^snap-[0-9a-f]{8}$`)
	serverIDRegex     = regexp.MustCompile(`^srv-[0-9a-f]{8}$`)
	raidGroupIDRegex  = regexp.MustCompile(`^RaidGroup-[0-9]+$`)
	controllerIDRegex = regexp.MustCompile(`^vsa-[0-9a-f]{8}-vc-[0-9]+$`)
	hostLabelRegex    = regexp.MustCompile(`^[A-Za-z\d]([A-Za-z\d-]{0,61}[A-Za-z\d])?$`)
	iqnRegex          = regexp.MustCompile(`^iqn\.\d{4}-\d{2}\.[A-Za-z0-9.-]+(:\S+)?$`)

	cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
)

func matchID(kind string, re *regexp.Regexp, id string) error {
	if !re.MatchString(id) {
		return fmt.Errorf("%w: %q is not a valid %s ID", ErrInvalidID, id, kind)
	}
	return nil
}

// ValidatePoolID checks a pool name such as pool-00000001. Remote pools
// (rpool-) are accepted when allowRemote is set.
func ValidatePoolID(id string, allowRemote bool) error {
	if allowRemote {
		return matchID("pool", remotePoolIDRegex, id)
	}
	return matchID("pool", poolIDRegex, id)
}

// ValidateVolumeID checks a volume name.
func ValidateVolumeID(id string) error { return matchID("volume", volumeIDRegex, id) }

// ValidateDriveID checks a drive name. Drives share the volume- prefix.
func ValidateDriveID(id string) error { return matchID("drive", volumeIDRegex, id) }

func ValidateCGID(id string) error       { return matchID("consistency group", cgIDRegex, id) }
func ValidatePolicyID(id string) error   { return matchID("snapshot policy", policyIDRegex, id) }
func ValidateSnapshotID(id string) error { return matchID("snapshot", snapshotIDRegex, id) }
func ValidateServerID(id string) error   { return matchID("server", serverIDRegex, id) }

func ValidateRaidGroupID(id string) error {
	return matchID("RAID group", raidGroupIDRegex, id)
}

func ValidateControllerID(id string) error {
	return matchID("virtual controller", controllerIDRegex, id)
}

// ValidateList splits a comma separated list, validates every element with
// fn and returns the trimmed elements joined again.
func ValidateList(list string, fn func(string) error) (string, error) {
	parts := strings.Split(list, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if err := fn(p); err != nil {
			return "", err
		}
		out = append(out, p)
	}
	return strings.Join(out, ","), nil
}

// ValidateIQN checks an iSCSI qualified name such as
// iqn.1993-08.org.debian:01:abcdef.
func ValidateIQN(iqn string) error {
	if !iqnRegex.MatchString(iqn) {
		return fmt.Errorf("%w: %q is not a valid iSCSI IQN", ErrInvalidID, iqn)
	}
	return nil
}

// ValidateField rejects free-form values the API cannot store.
func ValidateField(name, value string) error {
	if strings.Contains(value, "'") {
		return fmt.Errorf("%w: %s may not contain a single quote", ErrInvalidID, name)
	}
	return nil
}

// ValidateHost accepts an IP address or an RFC 1123 hostname.
func ValidateHost(host string) error {
	if host == "" {
		return fmt.Errorf("%w: host is empty", ErrInvalidID)
	}
	if net.ParseIP(host) != nil {
		return nil
	}
	if len(host) > 255 {
		return fmt.Errorf("%w: host %q is longer than 255 characters", ErrInvalidID, host)
	}
	for _, label := range strings.Split(strings.TrimSuffix(host, "."), ".") {
		if !hostLabelRegex.MatchString(label) {
			return fmt.Errorf("%w: %q is not a valid hostname", ErrInvalidID, host)
		}
	}
	return nil
}

// ValidatePort checks that port is a usable TCP port.
func ValidatePort(port int) error {
	if port < 1 || port > 65535 {
		return fmt.Errorf("%w: port %d is outside 1-65535", ErrInvalidID, port)
	}
	return nil
}

// ValidateSchedule accepts "manual" or a five field cron expression.
func ValidateSchedule(expr string) error {
	if strings.EqualFold(expr, "manual") {
		return nil
	}
	if _, err := cronParser.Parse(expr); err != nil {
		return fmt.Errorf("%w: schedule %q: %v", ErrInvalidID, expr, err)
	}
	return nil
}

// YesNo normalizes a YES/NO flag value.
func YesNo(name, value string) (string, error) {
	v := strings.ToUpper(strings.TrimSpace(value))
	if v != "YES" && v != "NO" {
		return "", fmt.Errorf("%w: %s must be YES or NO, got %q", ErrInvalidID, name, value)
	}
	return v, nil
}
