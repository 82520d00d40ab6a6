package icx

import (
	"strings"

	"github.com/carlosrabelo/unifi2icx/internal/domain/entities"
)

const driverName = "icx"

const (
	PromptUsername   = "User Name:"
	PromptPassword   = "Password:"
	PromptEnable     = ">"
	PromptPrivileged = "#"
	PagerCmd         = "skip-page-display"
)

var (
	descriptionHints = []string{"ruckus", "icx", "brocade", "fastiron"}
	cmdErrorHints    = []string{"invalid input", "error -", "incomplete command", "unrecognized command"}
)

// Driver implements the push behaviour for Ruckus ICX switches.
type Driver struct{}

// New creates a new ICX driver instance.
func New() *Driver {
	return &Driver{}
}

// Name returns the canonical platform identifier.
func (d *Driver) Name() string {
	return driverName
}

// MatchDescription reports whether an SNMP sysDescr belongs to an ICX switch.
func (d *Driver) MatchDescription(sysDescr string) bool {
	lower := strings.ToLower(sysDescr)
	for _, hint := range descriptionHints {
		if strings.Contains(lower, hint) {
			return true
		}
	}
	return false
}

// AuthenticationSequence returns the telnet login dialogue of FastIron.
func (d *Driver) AuthenticationSequence(username, password, enablePassword string) []entities.AuthPrompt {
	return []entities.AuthPrompt{
		{WaitFor: PromptUsername, SendCmd: username + "\n"},
		{WaitFor: PromptPassword, SendCmd: password + "\n"},
		{WaitFor: PromptEnable, SendCmd: "enable\n"},
		{WaitFor: PromptPassword, SendCmd: enablePassword + "\n"},
		{WaitFor: PromptPrivileged, SendCmd: PagerCmd + "\n"},
		{WaitFor: PromptPrivileged, SendCmd: ""},
	}
}

// PagerCommand returns the command that disables paged output.
func (d *Driver) PagerCommand() string {
	return PagerCmd
}

// ConfigCommands turns a rendered configuration into the command sequence
// typed at the privileged prompt. Comment and blank lines are dropped; the
// rendered "end" leaves configuration mode.
func (d *Driver) ConfigCommands(rendered string) []string {
	commands := []string{"configure terminal"}
	for _, line := range strings.Split(rendered, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "!") {
			continue
		}
		commands = append(commands, trimmed)
	}
	return commands
}

// SaveCommands returns commands that persist the running configuration.
func (d *Driver) SaveCommands() []string {
	return []string{"write memory"}
}

// IsCommandError reports whether the device rejected a command.
func (d *Driver) IsCommandError(output string) bool {
	lower := strings.ToLower(output)
	for _, keyword := range cmdErrorHints {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}
