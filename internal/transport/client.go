// Package transport keeps the telnet and SSH sessions used to push a
// rendered configuration to a switch.
package transport

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/carlosrabelo/unifi2icx/internal/domain/entities"
)

const (
	DefaultTimeout   = 60 * time.Second
	BufferSize       = 4096
	PromptUsername   = "User Name:"
	PromptPassword   = "Password:"
	PromptEnable     = ">"
	PromptPrivileged = "#"
	TelnetPort       = 23
	SSHPort          = 22
)

// Client abstracts a switch transport session
type Client interface {
	Connect() error
	Disconnect()
	ExecuteCommand(cmd string) (string, error)
	IsConnected() bool
}

// AuthConfigurable allows setting authentication prompts after client creation
type AuthConfigurable interface {
	SetAuthSequence(prompts []entities.AuthPrompt)
}

// PagerConfigurable allows setting the command that disables paging
type PagerConfigurable interface {
	SetPagerCommand(cmd string)
}

// Prepare applies a platform login dialogue and pager command to the clients
// that support them.
func Prepare(client Client, prompts []entities.AuthPrompt, pagerCmd string) {
	if c, ok := client.(AuthConfigurable); ok && len(prompts) > 0 {
		c.SetAuthSequence(prompts)
	}
	if c, ok := client.(PagerConfigurable); ok {
		c.SetPagerCommand(pagerCmd)
	}
}

var (
	clientCache   = make(map[string]Client)
	clientCacheMu sync.Mutex
)

func cacheKey(cfg entities.SwitchConfig) string {
	keyData := struct {
		Transport      string
		Target         string
		Port           int
		Username       string
		Password       string
		EnablePassword string
	}{
		Transport:      cfg.Transport,
		Target:         cfg.Target,
		Port:           cfg.Port,
		Username:       cfg.Username,
		Password:       cfg.Password,
		EnablePassword: cfg.EnablePassword,
	}
	bytes, _ := json.Marshal(keyData)
	hash := sha256.Sum256(bytes)
	return hex.EncodeToString(hash[:])
}

// Get returns a cached client for the provided configuration or creates a new one
func Get(cfg entities.SwitchConfig, logger zerolog.Logger) Client {
	clientCacheMu.Lock()
	defer clientCacheMu.Unlock()
	key := cacheKey(cfg)
	if client, exists := clientCache[key]; exists {
		return client
	}
	client := newClient(cfg, logger)
	clientCache[key] = client
	return client
}

// CloseAll releases every cached client session
func CloseAll() {
	clientCacheMu.Lock()
	defer clientCacheMu.Unlock()
	for key, client := range clientCache {
		client.Disconnect()
		delete(clientCache, key)
	}
}

func newClient(cfg entities.SwitchConfig, logger zerolog.Logger) Client {
	if cfg.Transport == "ssh" {
		return NewSSHClient(cfg, logger)
	}
	return NewTelnetClient(cfg, logger)
}

func address(cfg entities.SwitchConfig, defaultPort int) string {
	port := cfg.Port
	if port == 0 {
		port = defaultPort
	}
	return net.JoinHostPort(cfg.Target, strconv.Itoa(port))
}

// commandFinished reports whether output holds the whole reply to cmd. The
// echoed command line is skipped, since it may itself contain '#', and only a
// privileged prompt closing the buffer counts.
func commandFinished(output, cmd string) bool {
	rest := strings.TrimLeft(output, "\r\n")
	if strings.HasPrefix(cmd, rest) {
		return false
	}
	if i := strings.IndexByte(rest, '\n'); i >= 0 {
		rest = rest[i+1:]
	} else if strings.HasPrefix(rest, cmd) {
		rest = rest[len(cmd):]
	}
	return strings.HasSuffix(strings.TrimRight(rest, " \r\n"), PromptPrivileged)
}

// trimEcho drops the echoed command line and the trailing prompt line
func trimEcho(output string) string {
	lines := strings.Split(strings.ReplaceAll(output, "\r\n", "\n"), "\n")
	if len(lines) > 1 {
		return strings.Join(lines[1:len(lines)-1], "\n")
	}
	return ""
}
