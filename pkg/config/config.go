// Package config resolves the VPSA endpoint a command talks to
package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/ini.v1"

	"github.com/liliang-cn/zadarapy/pkg/util"
)

// ErrConfig marks configuration that cannot produce a usable endpoint.
var ErrConfig = errors.New("configuration error")

// DefaultConfigName is the file looked up in the user's home directory.
const DefaultConfigName = ".zadarapy"

// Flag names bound by Resolve when Options.Flags is set.
const (
	FlagHost     = "api-host"
	FlagKey      = "api-key"
	FlagPort     = "api-port"
	FlagInsecure = "insecure"
)

var falseValues = map[string]bool{"false": true, "no": true, "off": true, "n": true, "0": true}

// Endpoint is a fully resolved API endpoint.
type Endpoint struct {
	Host   string
	Port   int
	Key    string
	Secure bool
}

// Scheme returns https for secure endpoints and http otherwise.
func (e *Endpoint) Scheme() string {
	if e.Secure {
		return "https"
	}
	return "http"
}

// BaseURL returns scheme://host:port.
func (e *Endpoint) BaseURL() string {
	return e.Scheme() + "://" + net.JoinHostPort(e.Host, strconv.Itoa(e.Port))
}

// Options holds the explicit inputs to Resolve. Non-zero fields take
// precedence over every other source.
type Options struct {
	ConfigFile string // INI file, defaults to ~/.zadarapy
	Host       string
	Key        string
	Port       int
	Insecure   bool

	// Flags, when set, supplies api-host, api-key, api-port and insecure
	// at the same precedence as the fields above.
	Flags *pflag.FlagSet

	// SkipEnv ignores the ZADARA_* environment variables.
	SkipEnv bool
}

// settings mirrors the keys accepted in every source.
type settings struct {
	Host   string `mapstructure:"host"`
	Key    string `mapstructure:"key"`
	Port   string `mapstructure:"port"`
	Secure string `mapstructure:"secure"`
}

// DefaultConfigFile returns the path of ~/.zadarapy.
func DefaultConfigFile() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate home directory: %w", err)
	}
	return filepath.Join(home, DefaultConfigName), nil
}

// Resolve merges flags, environment, the config file and defaults into an
// Endpoint. Host and key must be set by one of them.
func Resolve(opts Options) (*Endpoint, error) {
	v := viper.New()
	v.SetDefault("secure", "true")

	path := opts.ConfigFile
	if path == "" {
		// Without a home directory there is simply no default file.
		path, _ = DefaultConfigFile()
	}
	if path != "" {
		values, err := readFile(path)
		if err != nil {
			return nil, err
		}
		if err := v.MergeConfigMap(values); err != nil {
			return nil, fmt.Errorf("%w: failed to merge %s: %v", ErrConfig, path, err)
		}
	}

	if !opts.SkipEnv {
		v.SetEnvPrefix("ZADARA")
		for _, key := range []string{"host", "key", "port", "secure"} {
			if err := v.BindEnv(key); err != nil {
				return nil, fmt.Errorf("%w: failed to bind environment: %v", ErrConfig, err)
			}
		}
	}

	if err := bindFlags(v, opts.Flags); err != nil {
		return nil, err
	}

	if opts.Host != "" {
		v.Set("host", opts.Host)
	}
	if opts.Key != "" {
		v.Set("key", opts.Key)
	}
	if opts.Port != 0 {
		v.Set("port", strconv.Itoa(opts.Port))
	}
	if opts.Insecure || insecureFlag(opts.Flags) {
		v.Set("secure", "false")
	}

	var s settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("%w: failed to decode settings: %v", ErrConfig, err)
	}
	return s.endpoint()
}

func (s settings) endpoint() (*Endpoint, error) {
	ep := &Endpoint{
		Host:   strings.TrimSpace(s.Host),
		Key:    strings.TrimSpace(s.Key),
		Secure: parseSecure(s.Secure),
	}
	if ep.Host == "" {
		return nil, fmt.Errorf("%w: the API hostname was not defined", ErrConfig)
	}
	if ep.Key == "" {
		return nil, fmt.Errorf("%w: the API authentication key was not defined", ErrConfig)
	}

	port := strings.TrimSpace(s.Port)
	if port == "" || port == "0" {
		ep.Port = 443
		if !ep.Secure {
			ep.Port = 80
		}
		return ep, nil
	}
	n, err := strconv.Atoi(port)
	if err != nil {
		return nil, fmt.Errorf("%w: port %q is not a number", ErrConfig, port)
	}
	if err := util.ValidatePort(n); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfig, err)
	}
	ep.Port = n
	return ep, nil
}

func parseSecure(value string) bool {
	return !falseValues[strings.ToLower(strings.TrimSpace(value))]
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	if flags == nil {
		return nil
	}
	for key, name := range map[string]string{"host": FlagHost, "key": FlagKey, "port": FlagPort} {
		f := flags.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("%w: failed to bind flag %s: %v", ErrConfig, name, err)
		}
	}
	return nil
}

func insecureFlag(flags *pflag.FlagSet) bool {
	if flags == nil || !flags.Changed(FlagInsecure) {
		return false
	}
	on, err := flags.GetBool(FlagInsecure)
	return err == nil && on
}

// readFile returns the [DEFAULT] section of an INI file. A file that does
// not exist yields no values.
func readFile(path string) (map[string]any, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: failed to stat %s: %v", ErrConfig, path, err)
	}

	f, err := ini.LoadSources(ini.LoadOptions{InsensitiveKeys: true}, path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse %s: %v", ErrConfig, path, err)
	}

	values := make(map[string]any)
	for _, k := range f.Section(ini.DefaultSection).Keys() {
		switch name := strings.ToLower(k.Name()); name {
		case "host", "key", "port", "secure":
			values[name] = k.String()
		}
	}
	return values, nil
}
