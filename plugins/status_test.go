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

func TestStatusReportsRuntimeVitals(t *testing.T) {
	s, err := plugins.NewStatus(&config.PluginConfig{Name: plugins.StatusPluginName})
	assert.NoError(t, err)

	asserter := assertplugin.New("bot")
	asserter.Answers(t, s, &slackrelay.Event{Type: slackrelay.AppMentionEvent, User: "U123", Channel: "C123", Timestamp: "1000.00", Text: "<@bot> status"}, func(t *testing.T, answers []*slackrelay.Answer) bool {
		return assert.Len(t, answers, 1) &&
			assertanswer.HasTextContaining(t, answers[0], "All good, I've been up") &&
			assertanswer.HasTextContaining(t, answers[0], slackrelay.VERSION) &&
			assertanswer.HasTextContaining(t, answers[0], "Goroutines")
	})
}

func TestStatusIgnoresUnrelatedText(t *testing.T) {
	s, err := plugins.NewStatus(&config.PluginConfig{Name: plugins.StatusPluginName})
	assert.NoError(t, err)

	asserter := assertplugin.New("bot")
	asserter.Answers(t, s, &slackrelay.Event{Type: slackrelay.MessageEvent, User: "U123", Channel: "C123", Timestamp: "1000.00", Text: "how are things"}, func(t *testing.T, answers []*slackrelay.Answer) bool {
		return assert.Empty(t, answers)
	})
}
