package transport

import (
	"bufio"
	"fmt"
	"io"
	"net"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/ssh"

	"github.com/carlosrabelo/unifi2icx/internal/domain/entities"
)

// SSHClient manages an SSH session with a switch. Login happens at the
// protocol level; only privilege elevation is done on the shell.
type SSHClient struct {
	config   entities.SwitchConfig
	client   *ssh.Client
	session  *ssh.Session
	stdin    io.WriteCloser
	reader   *bufio.Reader
	pagerCmd string
	timeout  time.Duration
	log      zerolog.Logger
	rawOut   io.Writer
}

// NewSSHClient creates a new SSH client with the given configuration
func NewSSHClient(cfg entities.SwitchConfig, logger zerolog.Logger) *SSHClient {
	return &SSHClient{
		config:   cfg,
		pagerCmd: "skip-page-display",
		timeout:  DefaultTimeout,
		log:      logger.With().Str("switch", cfg.Target).Str("transport", "ssh").Logger(),
		rawOut:   os.Stdout,
	}
}

// SetPagerCommand sets the command sent once the privileged prompt is reached
func (sc *SSHClient) SetPagerCommand(cmd string) {
	sc.pagerCmd = cmd
}

func (sc *SSHClient) Connect() error {
	if sc.IsConnected() {
		return nil
	}
	addr := address(sc.config, SSHPort)
	sshConfig := &ssh.ClientConfig{
		User: sc.config.Username,
		Auth: []ssh.AuthMethod{
			ssh.Password(sc.config.Password),
			ssh.KeyboardInteractive(sc.keyboardInteractive),
		},
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         sc.timeout,
	}

	dialer := &net.Dialer{Timeout: sc.timeout}
	rawConn, err := dialer.Dial("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to connect to %s via SSH: %v", sc.config.Target, err)
	}

	clientConn, chans, reqs, err := ssh.NewClientConn(rawConn, addr, sshConfig)
	if err != nil {
		rawConn.Close()
		return fmt.Errorf("failed to establish SSH client connection to %s: %v", sc.config.Target, err)
	}
	client := ssh.NewClient(clientConn, chans, reqs)

	session, err := client.NewSession()
	if err != nil {
		client.Close()
		return fmt.Errorf("failed to create SSH session for %s: %v", sc.config.Target, err)
	}

	modes := ssh.TerminalModes{
		ssh.ECHO:          0,
		ssh.TTY_OP_ISPEED: 9600,
		ssh.TTY_OP_OSPEED: 9600,
	}
	if err := session.RequestPty("vt100", 80, 40, modes); err != nil {
		session.Close()
		client.Close()
		return fmt.Errorf("failed to request PTY for %s: %v", sc.config.Target, err)
	}

	stdin, err := session.StdinPipe()
	if err != nil {
		session.Close()
		client.Close()
		return fmt.Errorf("failed to get stdin pipe for %s: %v", sc.config.Target, err)
	}
	stdout, err := session.StdoutPipe()
	if err != nil {
		session.Close()
		client.Close()
		return fmt.Errorf("failed to get stdout pipe for %s: %v", sc.config.Target, err)
	}
	if err := session.Shell(); err != nil {
		session.Close()
		client.Close()
		return fmt.Errorf("failed to start shell for %s: %v", sc.config.Target, err)
	}

	sc.client = client
	sc.session = session
	sc.stdin = stdin
	sc.reader = bufio.NewReader(stdout)
	sc.log.Debug().Msg("connected")

	if err := sc.elevate(); err != nil {
		sc.Disconnect()
		return err
	}
	return nil
}

// keyboardInteractive answers every challenge with the login password
func (sc *SSHClient) keyboardInteractive(_, _ string, questions []string, _ []bool) ([]string, error) {
	answers := make([]string, len(questions))
	for i := range questions {
		answers[i] = sc.config.Password
	}
	return answers, nil
}

func (sc *SSHClient) elevate() error {
	initial, err := sc.readUntilAny([]string{PromptPrivileged, PromptEnable}, sc.timeout)
	if err != nil {
		return err
	}

	if !strings.Contains(initial, PromptPrivileged) {
		sc.log.Debug().Msg("elevating to privileged mode")
		if err := sc.send("enable\n"); err != nil {
			return fmt.Errorf("failed to send enable command to %s: %v", sc.config.Target, err)
		}
		if _, err := sc.readUntil(PromptPassword, sc.timeout); err != nil {
			return err
		}
		if err := sc.send(sc.config.EnablePassword + "\n"); err != nil {
			return fmt.Errorf("failed to send enable password to %s: %v", sc.config.Target, err)
		}
		if _, err := sc.readUntil(PromptPrivileged, sc.timeout); err != nil {
			return err
		}
	} else {
		sc.log.Debug().Msg("already in privileged mode")
	}

	if sc.pagerCmd == "" {
		return nil
	}
	if err := sc.send(sc.pagerCmd + "\n"); err != nil {
		return fmt.Errorf("failed to send pager command to %s: %v", sc.config.Target, err)
	}
	_, err = sc.readUntil(PromptPrivileged, sc.timeout)
	return err
}

func (sc *SSHClient) Disconnect() {
	if sc.session != nil {
		sc.session.Close()
		sc.session = nil
	}
	if sc.client != nil {
		sc.client.Close()
		sc.client = nil
	}
	sc.stdin = nil
	sc.reader = nil
	sc.log.Debug().Msg("disconnected")
}

func (sc *SSHClient) IsConnected() bool {
	return sc.session != nil && sc.client != nil
}

func (sc *SSHClient) ExecuteCommand(cmd string) (string, error) {
	if !sc.IsConnected() {
		return "", fmt.Errorf("error executing %s: not connected", cmd)
	}
	sc.log.Debug().Str("command", cmd).Msg("executing")
	if err := sc.send(cmd + "\n"); err != nil {
		return "", fmt.Errorf("failed to send command %s: %v", cmd, err)
	}

	output, err := sc.readUntilFunc(func(out string) bool {
		return commandFinished(out, cmd)
	}, PromptPrivileged, sc.timeout)
	if err != nil {
		return "", fmt.Errorf("error executing %s: %v", cmd, err)
	}
	output = trimEcho(output)
	if sc.config.IsRawOutputEnabled() {
		fmt.Fprintf(sc.rawOut, "Switch output for '%s':\n%s\n", cmd, output)
	}
	return output, nil
}

func (sc *SSHClient) send(data string) error {
	_, err := sc.stdin.Write([]byte(data))
	return err
}

func (sc *SSHClient) readUntil(pattern string, timeout time.Duration) (string, error) {
	return sc.readUntilAny([]string{pattern}, timeout)
}

// readUntilAny reads until one of the patterns shows up.
func (sc *SSHClient) readUntilAny(patterns []string, timeout time.Duration) (string, error) {
	return sc.readUntilFunc(func(output string) bool {
		for _, pattern := range patterns {
			if strings.Contains(output, pattern) {
				return true
			}
		}
		return false
	}, strings.Join(patterns, ", "), timeout)
}

// readUntilFunc reads until done accepts the accumulated output. On timeout
// the connection is closed to unblock the pending read.
func (sc *SSHClient) readUntilFunc(done func(string) bool, what string, timeout time.Duration) (string, error) {
	buffer := make([]byte, BufferSize)
	var output strings.Builder
	output.Grow(BufferSize)

	var timedOut atomic.Bool
	client := sc.client
	timer := time.AfterFunc(timeout, func() {
		timedOut.Store(true)
		if client != nil {
			client.Close()
		}
	})
	defer timer.Stop()

	for {
		n, err := sc.reader.Read(buffer)
		if n > 0 {
			output.Write(buffer[:n])
			if sc.config.IsRawOutputEnabled() {
				fmt.Fprintf(sc.rawOut, "Switch output: Read: %s\n", string(buffer[:n]))
			}
			if done(output.String()) {
				return output.String(), nil
			}
		}
		if err != nil {
			if timedOut.Load() {
				return output.String(), fmt.Errorf("timeout waiting for prompts %s", what)
			}
			return output.String(), fmt.Errorf("read error: %v", err)
		}
	}
}
