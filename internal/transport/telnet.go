package transport

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/ziutek/telnet"

	"github.com/carlosrabelo/unifi2icx/internal/domain/entities"
)

// TelnetClient manages a Telnet connection to a switch
type TelnetClient struct {
	conn         *telnet.Conn
	config       entities.SwitchConfig
	authSequence []entities.AuthPrompt
	pagerCmd     string
	timeout      time.Duration
	log          zerolog.Logger
	rawOut       io.Writer
}

// NewTelnetClient creates a new Telnet client with the given configuration
func NewTelnetClient(cfg entities.SwitchConfig, logger zerolog.Logger) *TelnetClient {
	return &TelnetClient{
		config:   cfg,
		pagerCmd: "skip-page-display",
		timeout:  DefaultTimeout,
		log:      logger.With().Str("switch", cfg.Target).Str("transport", "telnet").Logger(),
		rawOut:   os.Stdout,
	}
}

// SetAuthSequence configures the authentication sequence for this client
func (tc *TelnetClient) SetAuthSequence(prompts []entities.AuthPrompt) {
	tc.authSequence = prompts
}

// SetPagerCommand sets the command sent by the default login sequence
func (tc *TelnetClient) SetPagerCommand(cmd string) {
	tc.pagerCmd = cmd
}

func (tc *TelnetClient) defaultSequence() []entities.AuthPrompt {
	prompts := []entities.AuthPrompt{
		{WaitFor: PromptUsername, SendCmd: tc.config.Username + "\n"},
		{WaitFor: PromptPassword, SendCmd: tc.config.Password + "\n"},
		{WaitFor: PromptEnable, SendCmd: "enable\n"},
		{WaitFor: PromptPassword, SendCmd: tc.config.EnablePassword + "\n"},
	}
	if tc.pagerCmd != "" {
		prompts = append(prompts, entities.AuthPrompt{WaitFor: PromptPrivileged, SendCmd: tc.pagerCmd + "\n"})
	}
	return append(prompts, entities.AuthPrompt{WaitFor: PromptPrivileged})
}

// Connect establishes a Telnet connection and walks the login dialogue
func (tc *TelnetClient) Connect() error {
	if tc.conn != nil {
		return nil
	}
	conn, err := telnet.DialTimeout("tcp", address(tc.config, TelnetPort), tc.timeout)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %v", tc.config.Target, err)
	}
	tc.conn = conn
	tc.conn.SetReadDeadline(time.Now().Add(tc.timeout))
	tc.conn.SetWriteDeadline(time.Now().Add(tc.timeout))
	tc.log.Debug().Msg("connected")

	prompts := tc.authSequence
	if len(prompts) == 0 {
		prompts = tc.defaultSequence()
	}

	for _, p := range prompts {
		output, err := tc.readUntil(p.WaitFor, tc.timeout)
		if err != nil {
			tc.Disconnect()
			return fmt.Errorf("failed to wait for %s: %v, output: %s", p.WaitFor, err, output)
		}
		if p.SendCmd != "" {
			if _, err := tc.conn.Write([]byte(p.SendCmd)); err != nil {
				tc.Disconnect()
				return fmt.Errorf("failed to answer %s: %v", p.WaitFor, err)
			}
			tc.log.Debug().Str("prompt", p.WaitFor).Msg("answered login prompt")
		}
	}
	return nil
}

// readUntil reads from the Telnet connection until the specified pattern is found
func (tc *TelnetClient) readUntil(pattern string, timeout time.Duration) (string, error) {
	return tc.readUntilFunc(func(output string) bool {
		return strings.Contains(output, pattern)
	}, pattern, timeout)
}

// readUntilFunc reads until done accepts the accumulated output
func (tc *TelnetClient) readUntilFunc(done func(string) bool, what string, timeout time.Duration) (string, error) {
	buffer := make([]byte, BufferSize)
	var output strings.Builder
	output.Grow(BufferSize)
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		n, err := tc.conn.Read(buffer)
		if n > 0 {
			output.Write(buffer[:n])
			if tc.config.IsRawOutputEnabled() {
				fmt.Fprintf(tc.rawOut, "Switch output: Read: %s\n", string(buffer[:n]))
			}
			if done(output.String()) {
				return output.String(), nil
			}
		}
		if err != nil {
			return output.String(), fmt.Errorf("read error: %v", err)
		}
	}
	return output.String(), fmt.Errorf("timeout waiting for %s", what)
}

// Disconnect closes the Telnet connection
func (tc *TelnetClient) Disconnect() {
	if tc.conn != nil {
		tc.conn.Close()
		tc.conn = nil
		tc.log.Debug().Msg("disconnected")
	}
}

func (tc *TelnetClient) IsConnected() bool {
	return tc.conn != nil
}

// ExecuteCommand sends a command to the switch and returns its output
func (tc *TelnetClient) ExecuteCommand(cmd string) (string, error) {
	if tc.conn == nil {
		return "", fmt.Errorf("error executing %s: not connected", cmd)
	}
	tc.log.Debug().Str("command", cmd).Msg("executing")
	tc.conn.SetDeadline(time.Now().Add(tc.timeout))
	if _, err := tc.conn.Write([]byte(cmd + "\n")); err != nil {
		return "", fmt.Errorf("failed to send command %s: %v", cmd, err)
	}
	output, err := tc.readUntilFunc(func(out string) bool {
		return commandFinished(out, cmd)
	}, PromptPrivileged, tc.timeout)
	if err != nil {
		return "", fmt.Errorf("error executing %s: %v", cmd, err)
	}
	output = trimEcho(output)
	if tc.config.IsRawOutputEnabled() {
		fmt.Fprintf(tc.rawOut, "Switch output for '%s':\n%s\n", cmd, output)
	}
	return output, nil
}
