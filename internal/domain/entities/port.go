package entities

// PortCount is the number of front panel ports of the supported hardware model
const PortCount = 52

// PortStatus is the administrative state of a port
type PortStatus string

const (
	PortEnabled  PortStatus = "enabled"
	PortDisabled PortStatus = "disabled"
)

// Port holds the per-port settings extracted from the source configuration.
// An empty UntaggedVlan means no untagged VLAN is assigned.
type Port struct {
	Number       int
	Name         string
	Status       PortStatus
	PVID         string
	UntaggedVlan string
	TaggedVlans  []string
}

// IsDisabled reports whether the port is administratively down
func (p Port) IsDisabled() bool {
	return p.Status == PortDisabled
}

// HasTagged reports whether vlan is in the tagged membership of the port
func (p Port) HasTagged(vlan string) bool {
	for _, id := range p.TaggedVlans {
		if id == vlan {
			return true
		}
	}
	return false
}
