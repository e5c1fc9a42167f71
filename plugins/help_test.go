package plugins_test

import (
	"github.com/alexandre-normand/slackrelay"
	"github.com/alexandre-normand/slackrelay/config"
	"github.com/alexandre-normand/slackrelay/plugins"
	"github.com/alexandre-normand/slackrelay/test/assertanswer"
	"github.com/alexandre-normand/slackrelay/test/assertplugin"
	"github.com/stretchr/testify/assert"
	"testing"
)

type stubPluginSource struct {
	loaded []slackrelay.Plugin
}

func (s stubPluginSource) Plugins() []slackrelay.Plugin {
	return s.loaded
}

func TestHelpAnswersWithOwnUsage(t *testing.T) {
	h, err := plugins.NewHelp(&config.PluginConfig{Name: plugins.HelpPluginName})
	assert.NoError(t, err)

	asserter := assertplugin.New("bot")
	asserter.Answers(t, h, &slackrelay.Event{Type: slackrelay.AppMentionEvent, User: "U123", Channel: "C123", Timestamp: "1000.00", Text: "<@bot> help"}, func(t *testing.T, answers []*slackrelay.Answer) bool {
		return assert.Len(t, answers, 1) &&
			assertanswer.HasTextContaining(t, answers[0], "`help` - Reply with usage instructions") &&
			assertanswer.HasBlocks(t, answers[0], 3)
	})
}

func TestHelpListsAllPluginsFromSource(t *testing.T) {
	h, err := plugins.NewHelp(&config.PluginConfig{Name: plugins.HelpPluginName})
	assert.NoError(t, err)

	ping, err := plugins.NewPing(&config.PluginConfig{Name: plugins.PingPluginName})
	assert.NoError(t, err)

	h.(*plugins.Help).SetPluginSource(stubPluginSource{loaded: []slackrelay.Plugin{ping, h}})

	answer, err := h.Process(&slackrelay.Event{Type: slackrelay.AppMentionEvent, User: "U123", Channel: "C123", Timestamp: "1000.00", Text: "<@bot> help"}, "help")
	assert.NoError(t, err)

	assertanswer.HasTextContaining(t, answer, "`ping` - Replies with a pong to confirm the bot is up")
	assertanswer.HasTextContaining(t, answer, "`help` - Reply with usage instructions")
}

func TestHelpWithoutSourceFallsBackToOwnHelp(t *testing.T) {
	h, err := plugins.NewHelp(&config.PluginConfig{Name: plugins.HelpPluginName})
	assert.NoError(t, err)

	answer, err := h.Process(&slackrelay.Event{Type: slackrelay.AppMentionEvent, User: "U123", Channel: "C123", Timestamp: "1000.00", Text: "<@bot> help"}, "help")
	assert.NoError(t, err)

	assertanswer.HasTextContaining(t, answer, "`help` - Reply with usage instructions")
}
