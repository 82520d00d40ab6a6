package icx

// User is a local account written to the configuration
type User struct {
	Name     string `yaml:"name"`
	Password string `yaml:"password"`
}

// Profile holds every literal of the generated configuration. The renderer
// takes all hardware names, addresses and accounts from here.
type Profile struct {
	StackUnit         int      `yaml:"stack_unit"`
	Modules           []string `yaml:"modules"`
	PortPrefix        string   `yaml:"port_prefix"`
	DefaultVlan       string   `yaml:"default_vlan"`
	DefaultVlanName   string   `yaml:"default_vlan_name"`
	ManagementVlan    string   `yaml:"management_vlan"`
	ManagementAddress string   `yaml:"management_address"`
	ManagementGateway string   `yaml:"management_gateway"`
	FallbackVlan      string   `yaml:"fallback_vlan"`
	FallbackAddress   string   `yaml:"fallback_address"`
	Hostname          string   `yaml:"hostname"`
	TimezoneName      string   `yaml:"timezone_name"`
	TimezoneOffset    int      `yaml:"timezone_offset"`
	SnmpCommunity     string   `yaml:"snmp_community"`
	NtpServer         string   `yaml:"ntp_server"`
	Users             []User   `yaml:"users"`
	PoE               bool     `yaml:"poe"`
}

// DefaultProfile returns the ICX 7650-48P profile the converter was built for
func DefaultProfile() Profile {
	return Profile{
		StackUnit:         1,
		Modules:           []string{"icx7650-48p-poe-module", "icx7650-8x10g-module"},
		PortPrefix:        "1/1/",
		DefaultVlan:       "1",
		DefaultVlanName:   "DEFAULT-VLAN",
		ManagementVlan:    "1103",
		ManagementAddress: "10.255.103.25 255.255.255.0",
		ManagementGateway: "10.255.103.1",
		FallbackVlan:      "1",
		FallbackAddress:   "192.168.1.100 255.255.255.0",
		Hostname:          "SWITCHIGDLT2",
		TimezoneName:      "WIB-7",
		TimezoneOffset:    7,
		SnmpCommunity:     "public",
		NtpServer:         "172.16.0.2",
		Users: []User{
			{Name: "itikom", Password: "....."},
			{Name: "admin", Password: "....."},
		},
		PoE: true,
	}
}
