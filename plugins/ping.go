package plugins

import (
	"fmt"
	"github.com/alexandre-normand/slackrelay"
	"github.com/alexandre-normand/slackrelay/config"
)

const (
	// PingPluginName holds the identifying name for the ping plugin
	PingPluginName = "ping"
)

// Ping holds the plugin data for the ping plugin
type Ping struct {
	basePlugin
}

// NewPing creates a new instance of the ping plugin
func NewPing(c *config.PluginConfig) (p slackrelay.Plugin, err error) {
	ping := new(Ping)
	ping.name = PingPluginName
	ping.help = "`ping` - Replies with a pong to confirm the bot is up"
	ping.patterns = patternsFromConfig(c, []slackrelay.Pattern{{Value: "ping", Kind: slackrelay.LiteralPattern}})

	return ping, nil
}

// Process replies with a pong addressed to the event's sender
func (p *Ping) Process(e *slackrelay.Event, matched string) (a *slackrelay.Answer, err error) {
	return &slackrelay.Answer{Text: fmt.Sprintf("🏓 Pong! <@%s>", e.User)}, nil
}
