// Package assertplugin provides testing functions to validate a plugin's overall functionality.
// This package is designed to play well but not require the assertanswer package for validation
// of answers
package assertplugin

import (
	"fmt"
	"github.com/alexandre-normand/slackrelay"
	"github.com/stretchr/testify/assert"
	"log"
	"strings"
	"testing"
)

// Asserter represents a plugin driver/asserter and holds the bot identifier that tests are using when
// sending test messages for processing
type Asserter struct {
	botUserID string
	logger    *log.Logger
}

// New creates a new asserter with the given botUserId
// (only include the id without the '@' prefix).
// The botUserId is used in order to strip the bot mention
// from messages formed as <@botUserId> commands
func New(botUserID string, options ...Option) (a *Asserter) {
	a = new(Asserter)
	a.botUserID = botUserID

	for _, option := range options {
		option(a)
	}

	return a
}

// Option defines an option for the Asserter
type Option func(*Asserter)

// OptionLog sets a logger for the asserter such that this logger is attached to the plugin when driven by
// the asserter
func OptionLog(logger *log.Logger) func(*Asserter) {
	return func(a *Asserter) {
		a.logger = logger
	}
}

// ResultValidator is a function to do further validation of the answers resulting from
// a plugin processing of a message. The return value is meant to be true if validation
// is successful and false otherwise (following the testify convention)
type ResultValidator func(t *testing.T, answers []*slackrelay.Answer) bool

// Answers drives a plugin with one event and collects its answers. Once those have
// been collected, it passes handling to a validator to assert the expected answers. It
// follows the style of github.com/stretchr/testify/assert as far as returning true/false
// to indicate success for further nested testing.
//
// Note that this is a simplified version of how slackrelay actually drives plugins and
// aims to provide the minimal processing required to test a plugin's functionality given
// an incoming event. Users should take special care to include <@botUserID> with the same
// botUserID with which the plugin driver has been instantiated in the event text to test
// mention-style commands
func (a *Asserter) Answers(t *testing.T, p slackrelay.Plugin, e *slackrelay.Event, validate ResultValidator) (valid bool) {
	if aware, ok := p.(interface{ SetLogger(slackrelay.SLogger) }); ok {
		aware.SetLogger(slackrelay.NewSLogger(getLogger(a), true))
	}

	if aware, ok := p.(interface{ SetPluginSource(slackrelay.PluginSource) }); ok {
		aware.SetPluginSource(singlePluginSource{p})
	}

	answers, err := a.driveProcess(p, e)
	if !assert.NoError(t, err) {
		return false
	}

	return validate(t, answers)
}

// singlePluginSource is a PluginSource holding only the driven plugin
type singlePluginSource struct {
	plugin slackrelay.Plugin
}

// Plugins returns the single driven plugin
func (s singlePluginSource) Plugins() []slackrelay.Plugin {
	return []slackrelay.Plugin{s.plugin}
}

func getLogger(a *Asserter) (logger *log.Logger) {
	if a.logger != nil {
		return a.logger
	}

	var b strings.Builder
	return log.New(&b, "", 0)
}

// driveProcess matches the event text against the plugin's patterns and invokes
// Process when one of them triggers
func (a *Asserter) driveProcess(p slackrelay.Plugin, e *slackrelay.Event) (answers []*slackrelay.Answer, err error) {
	answers = make([]*slackrelay.Answer, 0)

	botMentionPrefix := fmt.Sprintf("<@%s> ", a.botUserID)
	text := strings.TrimPrefix(e.Text, botMentionPrefix)

	matched, ok := slackrelay.MatchText(p.Patterns(), text, slackrelay.NewSLogger(getLogger(a), true))
	if !ok {
		return answers, nil
	}

	answer, err := p.Process(e, matched)
	if err != nil {
		return answers, err
	}

	if answer != nil {
		answers = append(answers, answer)
	}

	return answers, nil
}
