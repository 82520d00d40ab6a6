// Package config loads the optional YAML file holding the rendering profile
// and the switches a configuration can be pushed to.
package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/carlosrabelo/unifi2icx/internal/domain/entities"
	"github.com/carlosrabelo/unifi2icx/internal/platform/icx"
)

const (
	defaultPlatform      = "icx"
	defaultTransport     = "telnet"
	defaultSnmpCommunity = "public"
	defaultSnmpPort      = 161
)

// Config defines the global configuration
type Config struct {
	Platform       string                  `yaml:"platform"`
	Transport      string                  `yaml:"transport"`
	Username       string                  `yaml:"username"`
	Password       string                  `yaml:"password"`
	EnablePassword string                  `yaml:"enable_password"`
	SnmpCommunity  string                  `yaml:"snmp_community"`
	SnmpPort       int                     `yaml:"snmp_port"`
	Profile        icx.Profile             `yaml:"profile"`
	Switches       []entities.SwitchConfig `yaml:"switches"`
}

// Default returns the configuration used when no file is found
func Default() *Config {
	return &Config{
		Platform:      defaultPlatform,
		Transport:     defaultTransport,
		SnmpCommunity: defaultSnmpCommunity,
		SnmpPort:      defaultSnmpPort,
		Profile:       icx.DefaultProfile(),
	}
}

// Switch returns the switch entry for target
func (c *Config) Switch(target string) (entities.SwitchConfig, bool) {
	for _, sw := range c.Switches {
		if sw.Target == target {
			return sw, true
		}
	}
	return entities.SwitchConfig{}, false
}

func validatePlatform(platform string) error {
	switch platform {
	case "icx":
		return nil
	default:
		return fmt.Errorf("platform %s is invalid, must be 'icx'", platform)
	}
}

func validateTransport(transport string) error {
	if transport != "telnet" && transport != "ssh" {
		return fmt.Errorf("transport %s is invalid, must be 'telnet' or 'ssh'", transport)
	}
	return nil
}

func validateVLAN(vlan, context string) error {
	vlanNum, err := strconv.Atoi(vlan)
	if err != nil {
		return fmt.Errorf("invalid VLAN number in %s: %s must be a number", context, vlan)
	}
	if vlanNum < 1 || vlanNum > 4094 {
		return fmt.Errorf("invalid VLAN number in %s: %s must be between 1 and 4094", context, vlan)
	}
	return nil
}

// validateAddress checks the "<ipv4> <mask>" form used by "ip address"
func validateAddress(address, context string) error {
	fields := strings.Fields(address)
	if len(fields) != 2 {
		return fmt.Errorf("invalid address in %s: %q must be '<ipv4> <mask>'", context, address)
	}
	if ip := net.ParseIP(fields[0]); ip == nil || ip.To4() == nil {
		return fmt.Errorf("invalid address in %s: %s is not an IPv4 address", context, fields[0])
	}
	mask := net.ParseIP(fields[1])
	if mask == nil || mask.To4() == nil {
		return fmt.Errorf("invalid address in %s: %s is not an IPv4 mask", context, fields[1])
	}
	if _, bits := net.IPMask(mask.To4()).Size(); bits == 0 {
		return fmt.Errorf("invalid address in %s: %s is not a contiguous mask", context, fields[1])
	}
	return nil
}

func validateProfile(p icx.Profile) error {
	if err := validateVLAN(p.DefaultVlan, "profile default_vlan"); err != nil {
		return err
	}
	if err := validateVLAN(p.ManagementVlan, "profile management_vlan"); err != nil {
		return err
	}
	if err := validateVLAN(p.FallbackVlan, "profile fallback_vlan"); err != nil {
		return err
	}
	if strings.TrimSpace(p.Hostname) == "" {
		return fmt.Errorf("profile hostname is required")
	}
	if strings.TrimSpace(p.PortPrefix) == "" {
		return fmt.Errorf("profile port_prefix is required")
	}
	for i, user := range p.Users {
		if strings.TrimSpace(user.Name) == "" {
			return fmt.Errorf("profile users[%d] has no name", i)
		}
		if strings.TrimSpace(user.Password) == "" {
			return fmt.Errorf("profile users[%d] has no password", i)
		}
	}
	if err := validateAddress(p.ManagementAddress, "profile management_address"); err != nil {
		return err
	}
	if err := validateAddress(p.FallbackAddress, "profile fallback_address"); err != nil {
		return err
	}
	if p.ManagementGateway != "" {
		if ip := net.ParseIP(p.ManagementGateway); ip == nil || ip.To4() == nil {
			return fmt.Errorf("profile management_gateway %s is not an IPv4 address", p.ManagementGateway)
		}
	}
	return nil
}

// Load reads the YAML file on top of Default and validates it. target limits
// debug logging to one switch and, when set, must name a configured switch.
func Load(path, target string, write bool, verbosityLevel int, logger zerolog.Logger) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read YAML file %s: %v", path, err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %v", err)
	}
	if err := cfg.normalize(target, write, verbosityLevel, logger); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) normalize(target string, write bool, verbosityLevel int, logger zerolog.Logger) error {
	c.Platform = strings.ToLower(strings.TrimSpace(c.Platform))
	if c.Platform == "" {
		c.Platform = defaultPlatform
	}
	if err := validatePlatform(c.Platform); err != nil {
		return err
	}

	c.Transport = strings.ToLower(strings.TrimSpace(c.Transport))
	if c.Transport == "" {
		c.Transport = defaultTransport
	}
	if err := validateTransport(c.Transport); err != nil {
		return err
	}

	if c.SnmpCommunity == "" {
		c.SnmpCommunity = defaultSnmpCommunity
	}
	if c.SnmpPort == 0 {
		c.SnmpPort = defaultSnmpPort
	}
	if c.SnmpPort < 1 || c.SnmpPort > 65535 {
		return fmt.Errorf("snmp_port %d is invalid, must be between 1 and 65535", c.SnmpPort)
	}

	if err := validateProfile(c.Profile); err != nil {
		return err
	}

	logger.Debug().
		Str("platform", c.Platform).
		Str("transport", c.Transport).
		Str("hostname", c.Profile.Hostname).
		Str("management_vlan", c.Profile.ManagementVlan).
		Msg("global values")

	for i, sw := range c.Switches {
		if sw.Target == "" {
			return fmt.Errorf("target is required for switch %d", i)
		}
		log := logger.With().Str("switch", sw.Target).Logger()
		if target != "" && sw.Target != target {
			log = zerolog.Nop()
		}

		sw.Transport = strings.ToLower(strings.TrimSpace(sw.Transport))
		if sw.Transport == "" {
			sw.Transport = c.Transport
			log.Debug().Str("transport", c.Transport).Msg("no transport defined, using global")
		}
		if err := validateTransport(sw.Transport); err != nil {
			return fmt.Errorf("invalid transport for switch %s: %w", sw.Target, err)
		}

		sw.Platform = strings.ToLower(strings.TrimSpace(sw.Platform))
		if sw.Platform == "" {
			sw.Platform = c.Platform
			log.Debug().Str("platform", c.Platform).Msg("no platform defined, using global")
		}
		if err := validatePlatform(sw.Platform); err != nil {
			return fmt.Errorf("invalid platform for switch %s: %w", sw.Target, err)
		}

		if sw.Username == "" {
			sw.Username = c.Username
		}
		if sw.Password == "" {
			sw.Password = c.Password
		}
		if sw.EnablePassword == "" {
			sw.EnablePassword = c.EnablePassword
		}
		if sw.SnmpCommunity == "" {
			sw.SnmpCommunity = c.SnmpCommunity
		}
		if sw.Username == "" {
			return fmt.Errorf("username is required for switch %s", sw.Target)
		}
		if sw.Password == "" {
			return fmt.Errorf("password is required for switch %s", sw.Target)
		}
		if sw.EnablePassword == "" {
			return fmt.Errorf("enable_password is required for switch %s", sw.Target)
		}

		sw.Sandbox = !write
		sw.VerbosityLevel = verbosityLevel

		log.Debug().
			Str("platform", sw.Platform).
			Str("transport", sw.Transport).
			Bool("sandbox", sw.Sandbox).
			Int("verbosity", sw.VerbosityLevel).
			Msg("final switch configuration")

		c.Switches[i] = sw
	}

	if target != "" {
		if _, ok := c.Switch(target); !ok {
			return fmt.Errorf("switch %s not found in the YAML configuration", target)
		}
	}
	return nil
}
