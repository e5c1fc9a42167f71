package slackrelay_test

import (
	"log"
	"strings"
	"testing"

	"github.com/alexandre-normand/slackrelay"
	"github.com/stretchr/testify/assert"
)

func TestNormalizeText(t *testing.T) {
	tests := map[string]struct {
		text     string
		expected string
	}{
		"mentionPrefix":      {"<@U12345> ping", "ping"},
		"mentionInTheMiddle": {"hey <@UBOT99> status please", "hey status please"},
		"mentionOnly":        {"<@U12345>", ""},
		"whitespaceRuns":     {"ping    server   one", "ping server one"},
		"leadingAndTrailing": {"   ping  ", "ping"},
		"plainText":          {"nothing to normalize", "nothing to normalize"},
		"multipleMentions":   {"<@U1> <@U2> escalate", "escalate"},
		"lowercaseIDStays":   {"<@u12345> ping", "<@u12345> ping"},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.expected, slackrelay.NormalizeText(tc.text))
		})
	}
}

func TestLiteralMatchIsCaseInsensitiveSubstring(t *testing.T) {
	patterns := []slackrelay.Pattern{{Value: "ping", Kind: slackrelay.LiteralPattern}}

	tests := map[string]struct {
		text            string
		expectedMatch   string
		expectedMatched bool
	}{
		"exact":           {"ping", "ping", true},
		"substring":       {"can you ping the server", "ping", true},
		"differentCasing": {"PING ME", "ping", true},
		"noOccurrence":    {"pong", "", false},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			matched, ok := slackrelay.MatchText(patterns, tc.text, newTestLogger())

			assert.Equal(t, tc.expectedMatched, ok)
			assert.Equal(t, tc.expectedMatch, matched)
		})
	}
}

func TestRegexMatchReturnsFullMatchedSpan(t *testing.T) {
	patterns := []slackrelay.Pattern{{Value: "incident (\\d+)", Kind: slackrelay.RegexPattern}}

	matched, ok := slackrelay.MatchText(patterns, "escalate Incident 42 please", newTestLogger())

	assert.True(t, ok)
	assert.Equal(t, "Incident 42", matched)
}

func TestFirstMatchingPatternWinsInDeclarationOrder(t *testing.T) {
	patterns := []slackrelay.Pattern{
		{Value: "status", Kind: slackrelay.LiteralPattern},
		{Value: "stat.*", Kind: slackrelay.RegexPattern},
	}

	matched, ok := slackrelay.MatchText(patterns, "status of the build", newTestLogger())

	assert.True(t, ok)
	assert.Equal(t, "status", matched)
}

func TestInvalidRegexPatternSkippedAndLogged(t *testing.T) {
	var logBuilder strings.Builder
	logger := slackrelay.NewSLogger(log.New(&logBuilder, "", 0), false)

	patterns := []slackrelay.Pattern{
		{Value: "[unclosed", Kind: slackrelay.RegexPattern},
		{Value: "ping", Kind: slackrelay.LiteralPattern},
	}

	matched, ok := slackrelay.MatchText(patterns, "ping", logger)

	assert.True(t, ok)
	assert.Equal(t, "ping", matched)
	assert.Contains(t, logBuilder.String(), "Skipping invalid regex pattern [[unclosed]")
}

func TestEmptyPatternListNeverMatches(t *testing.T) {
	matched, ok := slackrelay.MatchText([]slackrelay.Pattern{}, "anything", newTestLogger())

	assert.False(t, ok)
	assert.Empty(t, matched)
}

func newTestLogger() slackrelay.SLogger {
	var b strings.Builder
	return slackrelay.NewSLogger(log.New(&b, "", 0), false)
}
