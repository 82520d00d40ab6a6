package unifi

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/rs/zerolog"

	"github.com/carlosrabelo/unifi2icx/internal/domain/entities"
)

const (
	modeUntagged = "untagged"
	modeTagged   = "tagged"
)

var vlanIDRegex = regexp.MustCompile(`switch\.vlan\.(\d+)\.id=(\d+)`)

// Extractor derives the VLAN and port tables from one document
type Extractor struct {
	props *PropertySet
	log   zerolog.Logger
}

// NewExtractor indexes the document's property lines
func NewExtractor(doc *Document, logger zerolog.Logger) *Extractor {
	var lines []string
	if doc != nil {
		lines = doc.ExpectedSystemCfg
	}
	return &Extractor{
		props: NewPropertySet(lines),
		log:   logger,
	}
}

// ExtractVlans returns the enabled VLANs in the order their id lines appear
func (e *Extractor) ExtractVlans() []entities.Vlan {
	vlans := make([]entities.Vlan, 0)
	for _, line := range e.props.Lines() {
		if !strings.HasPrefix(line, "switch.vlan.") || !strings.Contains(line, ".id=") {
			continue
		}
		match := vlanIDRegex.FindStringSubmatch(line)
		if len(match) < 3 {
			continue
		}
		index, id := match[1], match[2]

		name := fmt.Sprintf("VLAN-%s", id)
		if value := e.props.Value(vlanKey(index, "name")); value != "" {
			name = value
		}

		// "enabled" is matched as a substring, not compared
		if status, ok := e.props.Lookup(vlanKey(index, "status")); ok && !strings.Contains(status, "enabled") {
			e.log.Debug().Str("vlan", id).Str("status", status).Msg("skipping disabled VLAN")
			continue
		}

		vlans = append(vlans, entities.Vlan{ID: id, Name: name, Index: index})
	}
	e.log.Debug().Int("count", len(vlans)).Msg("extracted VLANs")
	return vlans
}

// ExtractPortConfigs returns all PortCount ports. Pass one applies defaults
// and per-port keys, pass two applies per-VLAN port modes for the given VLANs.
func (e *Extractor) ExtractPortConfigs(vlans []entities.Vlan) []entities.Port {
	ports := make([]entities.Port, entities.PortCount)
	for i := range ports {
		ports[i] = e.portDefaults(i + 1)
	}

	for _, vlan := range vlans {
		for i := range ports {
			port := &ports[i]
			mode, ok := e.props.Lookup(fmt.Sprintf("switch.vlan.%s.port.%d.mode", vlan.Index, port.Number))
			if !ok || port.IsDisabled() {
				continue
			}
			switch mode {
			case modeUntagged:
				port.UntaggedVlan = vlan.ID
			case modeTagged:
				if !port.HasTagged(vlan.ID) {
					port.TaggedVlans = append(port.TaggedVlans, vlan.ID)
				}
			}
		}
	}

	if e.log.GetLevel() <= zerolog.DebugLevel {
		disabled := 0
		for _, port := range ports {
			if port.IsDisabled() {
				disabled++
			}
		}
		e.log.Debug().Int("ports", len(ports)).Int("disabled", disabled).Msg("extracted port configurations")
	}
	return ports
}

func (e *Extractor) portDefaults(number int) entities.Port {
	port := entities.Port{
		Number: number,
		Name:   fmt.Sprintf("Port-%d", number),
		Status: entities.PortEnabled,
		PVID:   "1",
	}
	if name := e.props.Value(portKey(number, "name")); name != "" {
		port.Name = name
	}
	if status, ok := e.props.Lookup(portKey(number, "status")); ok && strings.Contains(status, "disabled") {
		port.Status = entities.PortDisabled
	}
	if pvid := e.props.Value(portKey(number, "pvid")); pvid != "" {
		port.PVID = pvid
		port.UntaggedVlan = pvid
	}
	return port
}

func vlanKey(index, field string) string {
	return "switch.vlan." + index + "." + field
}

func portKey(number int, field string) string {
	return fmt.Sprintf("switch.port.%d.%s", number, field)
}
