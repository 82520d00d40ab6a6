package entities

// SwitchConfig defines a target switch the rendered configuration can be pushed to
type SwitchConfig struct {
	Target         string `yaml:"target"`
	Port           int    `yaml:"port"`
	Platform       string `yaml:"platform"`
	Transport      string `yaml:"transport"`
	Username       string `yaml:"username"`
	Password       string `yaml:"password"`
	EnablePassword string `yaml:"enable_password"`
	SnmpCommunity  string `yaml:"snmp_community"`
	Sandbox        bool   `yaml:"-"`
	VerbosityLevel int    `yaml:"-"`
}

// IsDebugEnabled returns true if debug logs are enabled
func (sc SwitchConfig) IsDebugEnabled() bool {
	return sc.VerbosityLevel == 1 || sc.VerbosityLevel == 3
}

// IsRawOutputEnabled returns true if raw switch output is enabled
func (sc SwitchConfig) IsRawOutputEnabled() bool {
	return sc.VerbosityLevel == 2 || sc.VerbosityLevel == 3
}
