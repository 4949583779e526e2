package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points HOME at an empty directory and clears the ZADARA_* variables.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	for _, k := range []string{"ZADARA_HOST", "ZADARA_KEY", "ZADARA_PORT", "ZADARA_SECURE"} {
		t.Setenv(k, "")
	}
	return home
}

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, DefaultConfigName)
	require.NoError(t, os.WriteFile(path, []byte(body), 0600))
	return path
}

func newFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String(FlagHost, "", "")
	fs.String(FlagKey, "", "")
	fs.Int(FlagPort, 0, "")
	fs.Bool(FlagInsecure, false, "")
	require.NoError(t, fs.Parse(args))
	return fs
}

func TestResolveDefaultsFromFile(t *testing.T) {
	home := isolate(t)
	writeConfig(t, home, "[DEFAULT]\nhost = vsa.example.com\nkey = FILEKEY\n")

	ep, err := Resolve(Options{})
	require.NoError(t, err)
	assert.Equal(t, "vsa.example.com", ep.Host)
	assert.Equal(t, "FILEKEY", ep.Key)
	assert.True(t, ep.Secure)
	assert.Equal(t, 443, ep.Port)
	assert.Equal(t, "https://vsa.example.com:443", ep.BaseURL())
}

func TestResolvePrecedence(t *testing.T) {
	home := isolate(t)
	writeConfig(t, home, "[DEFAULT]\nhost = file-host\nkey = file-key\nport = 1000\nsecure = true\n")
	t.Setenv("ZADARA_HOST", "env-host")
	t.Setenv("ZADARA_PORT", "2000")

	ep, err := Resolve(Options{})
	require.NoError(t, err)
	assert.Equal(t, "env-host", ep.Host, "env beats file")
	assert.Equal(t, "file-key", ep.Key, "file fills what env leaves unset")
	assert.Equal(t, 2000, ep.Port)

	ep, err = Resolve(Options{Flags: newFlags(t, "--api-host", "flag-host", "--api-port", "3000")})
	require.NoError(t, err)
	assert.Equal(t, "flag-host", ep.Host, "flag beats env")
	assert.Equal(t, 3000, ep.Port)

	ep, err = Resolve(Options{Host: "opt-host", Key: "opt-key", Port: 4000})
	require.NoError(t, err)
	assert.Equal(t, "opt-host", ep.Host)
	assert.Equal(t, "opt-key", ep.Key)
	assert.Equal(t, 4000, ep.Port)
}

func TestResolveUnchangedFlagsDoNotOverride(t *testing.T) {
	isolate(t)
	t.Setenv("ZADARA_HOST", "env-host")
	t.Setenv("ZADARA_KEY", "env-key")

	ep, err := Resolve(Options{Flags: newFlags(t)})
	require.NoError(t, err)
	assert.Equal(t, "env-host", ep.Host)
	assert.Equal(t, "env-key", ep.Key)
}

func TestResolveSecureAndPort(t *testing.T) {
	tests := []struct {
		name     string
		secure   string
		port     string
		insecure bool
		wantSec  bool
		wantPort int
	}{
		{name: "default", wantSec: true, wantPort: 443},
		{name: "false", secure: "false", wantPort: 80},
		{name: "no", secure: "NO", wantPort: 80},
		{name: "off", secure: "off", wantPort: 80},
		{name: "n", secure: "n", wantPort: 80},
		{name: "anything else", secure: "maybe", wantSec: true, wantPort: 443},
		{name: "explicit port", secure: "false", port: "8080", wantPort: 8080},
		{name: "insecure flag", secure: "true", insecure: true, wantPort: 80},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			t.Setenv("ZADARA_HOST", "h")
			t.Setenv("ZADARA_KEY", "k")
			t.Setenv("ZADARA_SECURE", tt.secure)
			t.Setenv("ZADARA_PORT", tt.port)

			ep, err := Resolve(Options{Insecure: tt.insecure})
			require.NoError(t, err)
			assert.Equal(t, tt.wantSec, ep.Secure)
			assert.Equal(t, tt.wantPort, ep.Port)
		})
	}
}

func TestResolveInsecureFlag(t *testing.T) {
	isolate(t)
	ep, err := Resolve(Options{Host: "h", Key: "k", Flags: newFlags(t, "--insecure")})
	require.NoError(t, err)
	assert.False(t, ep.Secure)
	assert.Equal(t, "http://h:80", ep.BaseURL())
}

func TestResolveMissingValues(t *testing.T) {
	isolate(t)

	_, err := Resolve(Options{Key: "k"})
	require.ErrorIs(t, err, ErrConfig)
	assert.Contains(t, err.Error(), "hostname was not defined")

	_, err = Resolve(Options{Host: "h"})
	require.ErrorIs(t, err, ErrConfig)
	assert.Contains(t, err.Error(), "key was not defined")
}

func TestResolveInvalidPort(t *testing.T) {
	isolate(t)
	t.Setenv("ZADARA_PORT", "http")
	_, err := Resolve(Options{Host: "h", Key: "k"})
	assert.ErrorIs(t, err, ErrConfig)

	t.Setenv("ZADARA_PORT", "70000")
	_, err = Resolve(Options{Host: "h", Key: "k"})
	assert.ErrorIs(t, err, ErrConfig)
}

func TestResolveExplicitFile(t *testing.T) {
	home := isolate(t)
	writeConfig(t, home, "[DEFAULT]\nhost = home-host\nkey = home-key\n")

	other := filepath.Join(t.TempDir(), "vpsa.ini")
	require.NoError(t, os.WriteFile(other, []byte("[DEFAULT]\nHost = other-host\nKey = other-key\nSecure = no\n[other]\nhost = ignored\n"), 0600))

	ep, err := Resolve(Options{ConfigFile: other})
	require.NoError(t, err)
	assert.Equal(t, "other-host", ep.Host)
	assert.Equal(t, "other-key", ep.Key)
	assert.False(t, ep.Secure)

	_, err = Resolve(Options{ConfigFile: filepath.Join(t.TempDir(), "missing")})
	assert.ErrorIs(t, err, ErrConfig, "a missing named file is ignored, so host is unset")
}

func TestResolveMixedCaseKeys(t *testing.T) {
	home := isolate(t)
	writeConfig(t, home, "[DEFAULT]\nHOST = vsa.example.com\nKey = FILEKEY\nPort = 8443\n")

	ep, err := Resolve(Options{})
	require.NoError(t, err)
	assert.Equal(t, "vsa.example.com", ep.Host)
	assert.Equal(t, "FILEKEY", ep.Key)
	assert.Equal(t, 8443, ep.Port)
}

func TestResolveSecureAcrossSources(t *testing.T) {
	tests := []struct {
		name     string
		file     string
		env      string
		wantSec  bool
		wantPort int
	}{
		{name: "file false", file: "secure = False\n", wantPort: 80},
		{name: "file true", file: "secure = true\n", wantSec: true, wantPort: 443},
		{name: "file unset", wantSec: true, wantPort: 443},
		{name: "env beats file", file: "secure = false\n", env: "yes", wantSec: true, wantPort: 443},
		{name: "env false beats file", file: "secure = true\n", env: "no", wantPort: 80},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			home := isolate(t)
			writeConfig(t, home, "[DEFAULT]\nhost = h\nkey = k\n"+tt.file)
			t.Setenv("ZADARA_SECURE", tt.env)

			ep, err := Resolve(Options{})
			require.NoError(t, err)
			assert.Equal(t, tt.wantSec, ep.Secure)
			assert.Equal(t, tt.wantPort, ep.Port)
		})
	}
}

func TestResolveMalformedFile(t *testing.T) {
	home := isolate(t)
	writeConfig(t, home, "[DEFAULT\nhost = h\n")

	_, err := Resolve(Options{Host: "h", Key: "k"})
	assert.ErrorIs(t, err, ErrConfig)
}

func TestResolveSkipEnv(t *testing.T) {
	isolate(t)
	t.Setenv("ZADARA_HOST", "env-host")
	t.Setenv("ZADARA_KEY", "env-key")

	_, err := Resolve(Options{SkipEnv: true})
	assert.ErrorIs(t, err, ErrConfig)
}
