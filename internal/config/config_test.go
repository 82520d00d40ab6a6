package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carlosrabelo/unifi2icx/internal/platform/icx"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "icx", cfg.Platform)
	assert.Equal(t, "telnet", cfg.Transport)
	assert.Equal(t, "public", cfg.SnmpCommunity)
	assert.Equal(t, 161, cfg.SnmpPort)
	assert.Equal(t, icx.DefaultProfile(), cfg.Profile)
	assert.Empty(t, cfg.Switches)
}

func TestLoad_ProfileOverlay(t *testing.T) {
	path := writeConfig(t, `
profile:
  hostname: CORE-SW1
  management_vlan: "200"
  management_address: 10.0.200.2 255.255.255.0
  management_gateway: 10.0.200.1
  users:
    - name: ops
      password: secret
`)

	cfg, err := Load(path, "", false, 0, zerolog.Nop())
	require.NoError(t, err)

	assert.Equal(t, "CORE-SW1", cfg.Profile.Hostname)
	assert.Equal(t, "200", cfg.Profile.ManagementVlan)
	assert.Equal(t, []icx.User{{Name: "ops", Password: "secret"}}, cfg.Profile.Users)
	// untouched keys keep their defaults
	assert.Equal(t, "WIB-7", cfg.Profile.TimezoneName)
	assert.Equal(t, "1/1/", cfg.Profile.PortPrefix)
	assert.True(t, cfg.Profile.PoE)
}

func TestLoad_SwitchInheritance(t *testing.T) {
	path := writeConfig(t, `
transport: ssh
username: admin
password: pass
enable_password: enable
snmp_community: private
switches:
  - target: 10.0.0.1
  - target: 10.0.0.2
    transport: TELNET
    username: other
`)

	cfg, err := Load(path, "10.0.0.2", true, 3, zerolog.Nop())
	require.NoError(t, err)
	require.Len(t, cfg.Switches, 2)

	first := cfg.Switches[0]
	assert.Equal(t, "ssh", first.Transport)
	assert.Equal(t, "icx", first.Platform)
	assert.Equal(t, "admin", first.Username)
	assert.Equal(t, "pass", first.Password)
	assert.Equal(t, "enable", first.EnablePassword)
	assert.Equal(t, "private", first.SnmpCommunity)
	assert.False(t, first.Sandbox)
	assert.Equal(t, 3, first.VerbosityLevel)

	second, ok := cfg.Switch("10.0.0.2")
	require.True(t, ok)
	assert.Equal(t, "telnet", second.Transport)
	assert.Equal(t, "other", second.Username)
}

func TestLoad_SandboxWithoutWrite(t *testing.T) {
	path := writeConfig(t, `
username: admin
password: pass
enable_password: enable
switches:
  - target: sw1
`)

	cfg, err := Load(path, "sw1", false, 0, zerolog.Nop())
	require.NoError(t, err)

	sw, ok := cfg.Switch("sw1")
	require.True(t, ok)
	assert.True(t, sw.Sandbox)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		target  string
		errMsg  string
	}{
		{
			name:    "invalid yaml",
			content: "profile: [",
			errMsg:  "failed to parse YAML",
		},
		{
			name:    "invalid platform",
			content: "platform: ios",
			errMsg:  "platform ios is invalid",
		},
		{
			name:    "invalid transport",
			content: "transport: http",
			errMsg:  "transport http is invalid",
		},
		{
			name:    "snmp port out of range",
			content: "snmp_port: 70000",
			errMsg:  "snmp_port 70000 is invalid",
		},
		{
			name:    "management vlan not a number",
			content: "profile:\n  management_vlan: mgmt",
			errMsg:  "mgmt must be a number",
		},
		{
			name:    "fallback vlan out of range",
			content: "profile:\n  fallback_vlan: \"4095\"",
			errMsg:  "must be between 1 and 4094",
		},
		{
			name:    "empty hostname",
			content: "profile:\n  hostname: \" \"",
			errMsg:  "profile hostname is required",
		},
		{
			name:    "unnamed user",
			content: "profile:\n  users:\n    - password: x",
			errMsg:  "profile users[0] has no name",
		},
		{
			name:    "user without password",
			content: "profile:\n  users:\n    - name: ops\n      password: \"\"",
			errMsg:  "profile users[0] has no password",
		},
		{
			name:    "default vlan out of range",
			content: "profile:\n  default_vlan: \"0\"",
			errMsg:  "must be between 1 and 4094",
		},
		{
			name:    "empty port prefix",
			content: "profile:\n  port_prefix: \"\"",
			errMsg:  "profile port_prefix is required",
		},
		{
			name:    "address without mask",
			content: "profile:\n  management_address: 10.0.0.1",
			errMsg:  "must be '<ipv4> <mask>'",
		},
		{
			name:    "non contiguous mask",
			content: "profile:\n  fallback_address: 10.0.0.1 255.0.255.0",
			errMsg:  "not a contiguous mask",
		},
		{
			name:    "ipv6 gateway",
			content: "profile:\n  management_gateway: \"fe80::1\"",
			errMsg:  "management_gateway fe80::1 is not an IPv4 address",
		},
		{
			name:    "switch without target",
			content: "username: a\npassword: b\nenable_password: c\nswitches:\n  - transport: ssh",
			errMsg:  "target is required for switch 0",
		},
		{
			name:    "switch without credentials",
			content: "switches:\n  - target: sw1",
			errMsg:  "username is required for switch sw1",
		},
		{
			name:    "switch with invalid transport",
			content: "username: a\npassword: b\nenable_password: c\nswitches:\n  - target: sw1\n    transport: serial",
			errMsg:  "invalid transport for switch sw1",
		},
		{
			name:    "unknown target",
			content: "username: a\npassword: b\nenable_password: c\nswitches:\n  - target: sw1",
			target:  "sw2",
			errMsg:  "switch sw2 not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.content)
			_, err := Load(path, tt.target, false, 0, zerolog.Nop())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), "", false, 0, zerolog.Nop())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read YAML file")
}

func TestResolve(t *testing.T) {
	path := writeConfig(t, "hostname: x\n")

	resolved, err := Resolve(path, true)
	require.NoError(t, err)
	assert.Equal(t, path, resolved)

	_, err = Resolve(filepath.Join(t.TempDir(), "nope.yaml"), true)
	assert.Error(t, err)
}

func TestFind(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, FileName)
	require.NoError(t, os.WriteFile(existing, []byte("{}"), 0o644))

	assert.Equal(t, existing, find([]string{filepath.Join(dir, "missing.yaml"), dir, existing}))
	assert.Empty(t, find([]string{filepath.Join(dir, "missing.yaml")}))
}

func TestSearchPaths_StartWithWorkingDirectory(t *testing.T) {
	paths := SearchPaths()

	require.NotEmpty(t, paths)
	assert.Equal(t, filepath.Join(".", FileName), paths[0])
}
