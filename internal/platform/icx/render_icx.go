// Package icx renders Ruckus ICX (FastIron) configuration and drives ICX
// switches when a rendered configuration is pushed.
package icx

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/carlosrabelo/unifi2icx/internal/domain/entities"
)

// Renderer turns the VLAN and port tables into an ICX configuration script
type Renderer struct {
	profile Profile
}

// NewRenderer creates a renderer for the given profile
func NewRenderer(profile Profile) *Renderer {
	return &Renderer{profile: profile}
}

// Render renders with DefaultProfile
func Render(vlans []entities.Vlan, ports []entities.Port) string {
	return NewRenderer(DefaultProfile()).Render(vlans, ports)
}

// Profile returns the constants table used by the renderer
func (r *Renderer) Profile() Profile {
	return r.profile
}

// Render produces the configuration text. Output depends only on the inputs
// and the profile.
func (r *Renderer) Render(vlans []entities.Vlan, ports []entities.Port) string {
	p := r.profile
	var b strings.Builder

	b.WriteString("!\n")
	fmt.Fprintf(&b, "stack unit %d\n", p.StackUnit)
	for i, module := range p.Modules {
		fmt.Fprintf(&b, "  module %d %s\n", i+1, module)
	}
	b.WriteString("!\nglobal-stp\n!\n")

	fmt.Fprintf(&b, "vlan %s name %s by port\n!\n", p.DefaultVlan, p.DefaultVlanName)
	for _, vlan := range vlans {
		if vlan.ID == p.DefaultVlan {
			continue
		}
		r.writeVlan(&b, vlan, ports)
	}

	b.WriteString("! Port Configuration\n")
	for _, port := range ports {
		fmt.Fprintf(&b, "interface ethernet %s%d\n", p.PortPrefix, port.Number)
		fmt.Fprintf(&b, " port-name \"%s\"\n", port.Name)
		if port.IsDisabled() {
			b.WriteString(" disable\n")
		}
		b.WriteString("!\n")
	}

	b.WriteString("! Management Interface\n")
	if hasVlan(vlans, p.ManagementVlan) {
		fmt.Fprintf(&b, "interface ve %s\n", p.ManagementVlan)
		fmt.Fprintf(&b, " ip address %s\n", p.ManagementAddress)
		if p.ManagementGateway != "" {
			fmt.Fprintf(&b, " ip gateway %s\n", p.ManagementGateway)
		}
	} else {
		fmt.Fprintf(&b, "interface ve %s\n", p.FallbackVlan)
		fmt.Fprintf(&b, " ip address %s\n", p.FallbackAddress)
	}
	b.WriteString("!\n")

	b.WriteString("! System Configuration\n")
	fmt.Fprintf(&b, "hostname %s\n", p.Hostname)
	fmt.Fprintf(&b, "clock timezone \"%s\" %d\n", p.TimezoneName, p.TimezoneOffset)
	fmt.Fprintf(&b, "snmp-server community %s ro\n", p.SnmpCommunity)
	fmt.Fprintf(&b, "ntp-server %s\n", p.NtpServer)
	b.WriteString("!\n")

	b.WriteString("! User Accounts\n")
	for _, user := range p.Users {
		fmt.Fprintf(&b, "username %s password %s\n", user.Name, user.Password)
	}
	b.WriteString("!\n")

	if p.PoE {
		b.WriteString("! PoE Configuration\npower-over-ethernet enable\n!\n")
	}

	b.WriteString("end\n")
	return b.String()
}

func (r *Renderer) writeVlan(b *strings.Builder, vlan entities.Vlan, ports []entities.Port) {
	fmt.Fprintf(b, "vlan %s name %s by port\n", vlan.ID, strings.ReplaceAll(vlan.Name, " ", "-"))

	var untagged, tagged []int
	for _, port := range ports {
		if port.IsDisabled() {
			continue
		}
		if port.UntaggedVlan == vlan.ID {
			untagged = append(untagged, port.Number)
		}
		if port.HasTagged(vlan.ID) {
			tagged = append(tagged, port.Number)
		}
	}
	if len(untagged) > 0 {
		fmt.Fprintf(b, " untagged %s\n", r.portList(untagged))
	}
	if len(tagged) > 0 {
		fmt.Fprintf(b, " tagged %s\n", r.portList(tagged))
	}
	if vlan.ID == r.profile.ManagementVlan {
		fmt.Fprintf(b, " router-interface ve %s\n", vlan.ID)
	}
	b.WriteString("!\n")
}

// portList joins port numbers through the interface literal, e.g.
// "ethe 1/1/3 ethe 1/1/7".
func (r *Renderer) portList(numbers []int) string {
	parts := make([]string, len(numbers))
	for i, n := range numbers {
		parts[i] = strconv.Itoa(n)
	}
	separator := " ethe " + r.profile.PortPrefix
	return "ethe " + r.profile.PortPrefix + strings.Join(parts, separator)
}

func hasVlan(vlans []entities.Vlan, id string) bool {
	for _, vlan := range vlans {
		if vlan.ID == id {
			return true
		}
	}
	return false
}
