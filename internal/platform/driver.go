// Package platform keeps the registry of target switch platforms a rendered
// configuration can be pushed to.
package platform

import (
	"fmt"
	"strings"

	"github.com/carlosrabelo/unifi2icx/internal/domain/entities"
	"github.com/carlosrabelo/unifi2icx/internal/platform/icx"
)

// Driver defines the behaviour required to push configuration to a platform.
type Driver interface {
	Name() string
	MatchDescription(sysDescr string) bool

	// AuthenticationSequence returns the login sequence for this platform
	AuthenticationSequence(username, password, enablePassword string) []entities.AuthPrompt
	PagerCommand() string

	ConfigCommands(rendered string) []string
	SaveCommands() []string
	IsCommandError(output string) bool
}

var registry = []Driver{
	icx.New(),
}

// Get returns a driver by normalized platform name.
func Get(name string) (Driver, error) {
	normalized := normalizeName(name)
	for _, driver := range registry {
		if driver.Name() == normalized {
			return driver, nil
		}
	}
	return nil, fmt.Errorf("unknown switch platform: %s", name)
}

// Available returns all registered drivers.
func Available() []Driver {
	out := make([]Driver, len(registry))
	copy(out, registry)
	return out
}

// Names returns the identifiers of all registered drivers.
func Names() []string {
	names := make([]string, 0, len(registry))
	for _, driver := range registry {
		names = append(names, driver.Name())
	}
	return names
}

// Detect returns the first driver whose platform matches an SNMP sysDescr.
func Detect(sysDescr string) (Driver, error) {
	for _, driver := range registry {
		if driver.MatchDescription(sysDescr) {
			return driver, nil
		}
	}
	return nil, fmt.Errorf("unable to detect switch platform from %q", sysDescr)
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
