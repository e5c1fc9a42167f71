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

func TestBannerRendersWordWithDefaultFont(t *testing.T) {
	b, err := plugins.NewBanner(&config.PluginConfig{Name: plugins.BannerPluginName})
	assert.NoError(t, err)

	asserter := assertplugin.New("bot")
	asserter.Answers(t, b, &slackrelay.Event{Type: slackrelay.AppMentionEvent, User: "U123", Channel: "C123", Timestamp: "1000.00", Text: "<@bot> banner hi"}, func(t *testing.T, answers []*slackrelay.Answer) bool {
		return assert.Len(t, answers, 1) &&
			assertanswer.HasTextContaining(t, answers[0], "```") &&
			assert.Greater(t, len(answers[0].Text), len("```\n```"))
	})
}

func TestBannerWrongUsageWithoutWord(t *testing.T) {
	b, err := plugins.NewBanner(&config.PluginConfig{Name: plugins.BannerPluginName, Patterns: []string{"banner"}, PatternType: "literal"})
	assert.NoError(t, err)

	asserter := assertplugin.New("bot")
	asserter.Answers(t, b, &slackrelay.Event{Type: slackrelay.AppMentionEvent, User: "U123", Channel: "C123", Timestamp: "1000.00", Text: "<@bot> banner"}, func(t *testing.T, answers []*slackrelay.Answer) bool {
		return assert.Len(t, answers, 1) && assertanswer.HasText(t, answers[0], "Wrong usage: `banner <word>`")
	})
}

func TestBannerIgnoresTextWithoutCommand(t *testing.T) {
	b, err := plugins.NewBanner(&config.PluginConfig{Name: plugins.BannerPluginName})
	assert.NoError(t, err)

	asserter := assertplugin.New("bot")
	asserter.Answers(t, b, &slackrelay.Event{Type: slackrelay.MessageEvent, User: "U123", Channel: "C123", Timestamp: "1000.00", Text: "nothing to see here"}, func(t *testing.T, answers []*slackrelay.Answer) bool {
		return assert.Empty(t, answers)
	})
}

func TestBannerBadFontPathFailsCreation(t *testing.T) {
	_, err := plugins.NewBanner(&config.PluginConfig{Name: plugins.BannerPluginName, Config: map[string]interface{}{"fontPath": "/does/not/exist"}})

	if assert.Error(t, err) {
		assert.Contains(t, err.Error(), "can't load fonts from")
	}
}
