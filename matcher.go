package slackrelay

import (
	"regexp"
	"strings"
)

// Pattern kinds. Literal patterns match by case-insensitive substring containment
// while regex patterns match by case-insensitive regular expression search
const (
	LiteralPattern = "literal"
	RegexPattern   = "regex"
)

// Pattern is one configured trigger for a plugin
type Pattern struct {
	Value string
	Kind  string
}

// compiledPattern carries a pattern ready for matching. The regex is nil for literal patterns
type compiledPattern struct {
	pattern Pattern
	regex   *regexp.Regexp
}

var (
	userMentionRegex = regexp.MustCompile("<@[A-Z0-9]+>")
	whitespaceRegex  = regexp.MustCompile(`\s+`)
)

// NormalizeText strips user mention tokens (i.e. "<@U12345>") from the text and collapses
// runs of whitespace so that mention decoration never affects pattern matching
func NormalizeText(text string) string {
	stripped := userMentionRegex.ReplaceAllString(text, "")
	return strings.TrimSpace(whitespaceRegex.ReplaceAllString(stripped, " "))
}

// compilePatterns prepares patterns for matching. Literal patterns compile to themselves.
// A regex pattern that fails to compile is logged and skipped rather than being fatal
func compilePatterns(patterns []Pattern, logger SLogger) (compiled []compiledPattern) {
	compiled = make([]compiledPattern, 0, len(patterns))

	for _, p := range patterns {
		switch p.Kind {
		case RegexPattern:
			r, err := regexp.Compile("(?i)" + p.Value)
			if err != nil {
				logger.Printf("Skipping invalid regex pattern [%s]: %v\n", p.Value, err)
				continue
			}

			compiled = append(compiled, compiledPattern{pattern: p, regex: r})
		default:
			compiled = append(compiled, compiledPattern{pattern: p})
		}
	}

	return compiled
}

// firstMatch tries compiled patterns in declaration order and returns the first matched value.
// For a literal pattern, the matched value is the pattern itself. For a regex pattern, it's
// the full match of the regex against the text. A pattern list of length zero never matches
func firstMatch(compiled []compiledPattern, text string) (matched string, ok bool) {
	lowered := strings.ToLower(text)

	for _, c := range compiled {
		if c.regex != nil {
			if loc := c.regex.FindStringIndex(text); loc != nil {
				return text[loc[0]:loc[1]], true
			}
		} else if strings.Contains(lowered, strings.ToLower(c.pattern.Value)) {
			return c.pattern.Value, true
		}
	}

	return "", false
}

// MatchText compiles patterns and returns the first matched value against text. Registry
// lookups use a pre-compiled form instead but this is convenient for one-off matching
// such as driving a plugin directly in tests
func MatchText(patterns []Pattern, text string, logger SLogger) (matched string, ok bool) {
	return firstMatch(compilePatterns(patterns, logger), text)
}
