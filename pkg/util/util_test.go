package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCapacity(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"100", 100},
		{" 7 ", 7},
		{"1GiB", 1},
		{"1G", 1},
		{"1.5GiB", 2},
		{"1T", 1024},
		{"1TB", 932},
		{"512MiB", 1},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseCapacity(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseCapacityRejects(t *testing.T) {
	for _, in := range []string{"", "0", "-5", "abc", "10XB", "0GiB"} {
		_, err := ParseCapacity(in)
		assert.ErrorIs(t, err, ErrInvalidCapacity, "input %q", in)
	}
}

func TestFormatCapacity(t *testing.T) {
	assert.Equal(t, "250G", FormatCapacity(250))
}

func TestValidateIDs(t *testing.T) {
	assert.NoError(t, ValidatePoolID("pool-0000000a", false))
	assert.Error(t, ValidatePoolID("rpool-0000000a", false))
	assert.NoError(t, ValidatePoolID("rpool-0000000a", true))
	assert.Error(t, ValidatePoolID("pool-0000000A", false))

	assert.NoError(t, ValidateVolumeID("volume-00000001"))
	assert.ErrorIs(t, ValidateVolumeID("volume-1"), ErrInvalidID)
	assert.NoError(t, ValidateDriveID("volume-deadbeef"))
	assert.NoError(t, ValidateCGID("cg-00000001"))
	assert.NoError(t, ValidatePolicyID("policy-00000001"))
	assert.NoError(t, ValidateSnapshotID("snap-00000001"))
	assert.NoError(t, ValidateServerID("srv-00000001"))
	assert.Error(t, ValidateServerID("server-00000001"))
	assert.NoError(t, ValidateRaidGroupID("RaidGroup-12"))
	assert.Error(t, ValidateRaidGroupID("raidgroup-12"))
	assert.NoError(t, ValidateControllerID("vsa-00000001-vc-0"))
}

func TestValidateList(t *testing.T) {
	got, err := ValidateList("srv-00000001, srv-00000002", ValidateServerID)
	require.NoError(t, err)
	assert.Equal(t, "srv-00000001,srv-00000002", got)

	_, err = ValidateList("srv-00000001,bogus", ValidateServerID)
	assert.ErrorIs(t, err, ErrInvalidID)
}

func TestValidateHost(t *testing.T) {
	for _, h := range []string{"vsa-01.zadaravpsa.com", "10.0.0.1", "::1", "localhost", "a"} {
		assert.NoError(t, ValidateHost(h), h)
	}
	for _, h := range []string{"", "-bad.example.com", "bad-.example.com", "under_score.com", "a..b"} {
		assert.Error(t, ValidateHost(h), h)
	}
}

func TestValidatePort(t *testing.T) {
	assert.NoError(t, ValidatePort(1))
	assert.NoError(t, ValidatePort(65535))
	assert.Error(t, ValidatePort(0))
	assert.Error(t, ValidatePort(65536))
}

func TestValidateSchedule(t *testing.T) {
	assert.NoError(t, ValidateSchedule("manual"))
	assert.NoError(t, ValidateSchedule("0 */4 * * *"))
	assert.Error(t, ValidateSchedule("every hour"))
	assert.Error(t, ValidateSchedule("0 0 * * * *"))
}

func TestValidateFieldAndYesNo(t *testing.T) {
	assert.NoError(t, ValidateField("name", "pool one"))
	assert.Error(t, ValidateField("name", "pool'one"))

	v, err := YesNo("cache", "yes")
	require.NoError(t, err)
	assert.Equal(t, "YES", v)
	_, err = YesNo("cache", "maybe")
	assert.Error(t, err)
}
