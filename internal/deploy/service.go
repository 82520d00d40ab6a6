// Package deploy pushes a rendered configuration to a switch through a
// platform driver.
package deploy

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/carlosrabelo/unifi2icx/internal/domain/entities"
	"github.com/carlosrabelo/unifi2icx/internal/platform"
	"github.com/carlosrabelo/unifi2icx/internal/snmp"
)

// SwitchRepository defines the session used to talk to a switch
type SwitchRepository interface {
	Connect() error
	Disconnect()
	ExecuteCommand(cmd string) (string, error)
	IsConnected() bool
}

// CommandError reports a command the device rejected
type CommandError struct {
	Command string
	Output  string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("switch rejected %q: %s", e.Command, strings.TrimSpace(e.Output))
}

// Service applies rendered configurations to one switch
type Service struct {
	repo   SwitchRepository
	config entities.SwitchConfig
	driver platform.Driver
	out    io.Writer
	log    zerolog.Logger
}

// NewService creates a new deploy service
func NewService(repo SwitchRepository, config entities.SwitchConfig, driver platform.Driver, logger zerolog.Logger) *Service {
	return &Service{
		repo:   repo,
		config: config,
		driver: driver,
		out:    os.Stdout,
		log:    logger.With().Str("switch", config.Target).Str("platform", driver.Name()).Logger(),
	}
}

// SetOutput redirects the progress and sandbox messages
func (s *Service) SetOutput(w io.Writer) {
	s.out = w
}

// Plan returns the commands Apply would send, save commands excluded
func (s *Service) Plan(rendered string) []string {
	return s.driver.ConfigCommands(rendered)
}

// Apply sends the rendered configuration. In sandbox mode the plan is only
// printed. Otherwise the configuration is saved once every command has been
// accepted.
func (s *Service) Apply(rendered string) error {
	commands := s.Plan(rendered)

	if s.config.Sandbox {
		fmt.Fprintf(s.out, "SANDBOX: Simulating configuration of %s (%d commands)\n", s.config.Target, len(commands))
		for _, cmd := range commands {
			fmt.Fprintf(s.out, "  %s\n", cmd)
		}
		for _, cmd := range s.driver.SaveCommands() {
			fmt.Fprintf(s.out, "SANDBOX: Simulating save using '%s'\n", cmd)
		}
		return nil
	}

	if !s.repo.IsConnected() {
		if err := s.repo.Connect(); err != nil {
			return err
		}
	}

	for i, cmd := range commands {
		output, err := s.repo.ExecuteCommand(cmd)
		if err != nil {
			return fmt.Errorf("command %d of %d failed: %w", i+1, len(commands), err)
		}
		if s.driver.IsCommandError(output) {
			return &CommandError{Command: cmd, Output: output}
		}
		s.log.Debug().Int("step", i+1).Str("command", cmd).Msg("applied")
	}
	fmt.Fprintf(s.out, "Applied %d commands to %s\n", len(commands), s.config.Target)

	return s.saveConfiguration()
}

func (s *Service) saveConfiguration() error {
	commands := s.driver.SaveCommands()
	for _, cmd := range commands {
		s.log.Debug().Str("command", cmd).Msg("saving configuration")
		output, err := s.repo.ExecuteCommand(cmd)
		if err == nil && s.driver.IsCommandError(output) {
			err = &CommandError{Command: cmd, Output: output}
		}
		if err != nil {
			s.log.Warn().Err(err).Str("command", cmd).Msg("error saving configuration")
			continue
		}
		fmt.Fprintf(s.out, "Configuration saved using '%s'\n", cmd)
		return nil
	}
	if len(commands) == 0 {
		return nil
	}
	return fmt.Errorf("unable to persist configuration on %s automatically; please save manually", s.config.Target)
}

// CheckPlatform verifies that the probed device looks like the driver's platform
func CheckPlatform(info snmp.SystemInfo, driver platform.Driver) error {
	if driver.MatchDescription(info.Description) {
		return nil
	}
	if detected, err := platform.Detect(info.Description); err == nil {
		return fmt.Errorf("device reports platform %s, configured platform is %s", detected.Name(), driver.Name())
	}
	return fmt.Errorf("device description %q does not match platform %s", info.Description, driver.Name())
}
