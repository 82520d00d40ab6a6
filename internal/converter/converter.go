// Package converter runs the UniFi to ICX pipeline: parse the export, build
// the VLAN and port tables, render the target configuration.
package converter

import (
	"github.com/rs/zerolog"

	"github.com/carlosrabelo/unifi2icx/internal/domain/entities"
	"github.com/carlosrabelo/unifi2icx/internal/platform/icx"
	"github.com/carlosrabelo/unifi2icx/internal/platform/unifi"
)

// Renderer produces target configuration text from the extracted tables
type Renderer interface {
	Render(vlans []entities.Vlan, ports []entities.Port) string
}

// Result is the model extracted from one input
type Result struct {
	Vlans []entities.Vlan
	Ports []entities.Port
}

// HasVlan reports whether an enabled VLAN with the given id was extracted
func (r *Result) HasVlan(id string) bool {
	for _, vlan := range r.Vlans {
		if vlan.ID == id {
			return true
		}
	}
	return false
}

// DisabledPorts returns the number of administratively disabled ports
func (r *Result) DisabledPorts() int {
	count := 0
	for _, port := range r.Ports {
		if port.IsDisabled() {
			count++
		}
	}
	return count
}

// Converter holds no per-conversion state and is safe for concurrent use
type Converter struct {
	renderer Renderer
	log      zerolog.Logger
}

// New creates a converter around the given renderer
func New(renderer Renderer, logger zerolog.Logger) *Converter {
	return &Converter{
		renderer: renderer,
		log:      logger,
	}
}

// Profile returns the ICX profile when the renderer exposes one
func (c *Converter) Profile() (icx.Profile, bool) {
	if r, ok := c.renderer.(interface{ Profile() icx.Profile }); ok {
		return r.Profile(), true
	}
	return icx.Profile{}, false
}

// Extract parses the input and builds the VLAN and port tables
func (c *Converter) Extract(input any) (*Result, error) {
	doc, err := unifi.Parse(input)
	if err != nil {
		return nil, err
	}
	c.log.Debug().Int("lines", len(doc.ExpectedSystemCfg)).Msg("parsed UniFi export")

	extractor := unifi.NewExtractor(doc, c.log)
	vlans := extractor.ExtractVlans()
	ports := extractor.ExtractPortConfigs(vlans)
	return &Result{Vlans: vlans, Ports: ports}, nil
}

// Render renders an extracted model
func (c *Converter) Render(result *Result) string {
	return c.renderer.Render(result.Vlans, result.Ports)
}

// Convert runs the whole pipeline. On error nothing is rendered.
func (c *Converter) Convert(input any) (string, error) {
	result, err := c.Extract(input)
	if err != nil {
		return "", err
	}
	return c.Render(result), nil
}
