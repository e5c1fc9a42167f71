package plugins

import (
	"fmt"
	"github.com/alexandre-normand/slackrelay"
	"github.com/alexandre-normand/slackrelay/config"
	"github.com/slack-go/slack"
	"strings"
)

const (
	// HelpPluginName holds the identifying name for the help plugin
	HelpPluginName = "help"
)

// Help holds the plugin data for the help plugin
type Help struct {
	basePlugin
	source slackrelay.PluginSource
}

// NewHelp creates a new instance of the help plugin
func NewHelp(c *config.PluginConfig) (p slackrelay.Plugin, err error) {
	h := new(Help)
	h.name = HelpPluginName
	h.help = "`help` - Reply with usage instructions"
	h.patterns = patternsFromConfig(c, []slackrelay.Pattern{{Value: "help", Kind: slackrelay.LiteralPattern}, {Value: "commands", Kind: slackrelay.LiteralPattern}})

	return h, nil
}

// SetPluginSource receives the source of loaded plugins to describe. The
// registry injects itself at load time
func (h *Help) SetPluginSource(source slackrelay.PluginSource) {
	h.source = source
}

// Process generates a message listing the usage instructions of every loaded
// plugin. Plugins without a usage description are left out of the list
func (h *Help) Process(e *slackrelay.Event, matched string) (a *slackrelay.Answer, err error) {
	loaded := []slackrelay.Plugin{}
	if h.source != nil {
		loaded = h.source.Plugins()
	}

	var b strings.Builder
	for _, p := range loaded {
		if p.Help() != "" {
			fmt.Fprintf(&b, "• %s\n", p.Help())
		}
	}

	if b.Len() == 0 {
		fmt.Fprintf(&b, "• %s\n", h.help)
	}

	blocks := []slack.Block{
		slack.NewHeaderBlock(slack.NewTextBlockObject(slack.PlainTextType, "🤖 Available commands", true, false)),
		slack.NewDividerBlock(),
		slack.NewSectionBlock(slack.NewTextBlockObject(slack.MarkdownType, b.String(), false, false), nil, nil),
	}

	return &slackrelay.Answer{Text: fmt.Sprintf("Available commands:\n%s", b.String()), ContentBlocks: blocks}, nil
}
