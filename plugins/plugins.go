// Package plugins provides a collection of ready-to-use plugins for instances
// of slackrelay
package plugins

import (
	"github.com/alexandre-normand/slackrelay"
	"github.com/alexandre-normand/slackrelay/config"
)

// basePlugin holds the static attributes shared by the bundled plugins along
// with the accessor implementations of the slackrelay.Plugin interface
type basePlugin struct {
	name     string
	patterns []slackrelay.Pattern
	help     string
}

// Name returns the plugin's display name
func (p *basePlugin) Name() string {
	return p.name
}

// Patterns returns the ordered list of patterns triggering the plugin
func (p *basePlugin) Patterns() []slackrelay.Pattern {
	return p.patterns
}

// Help returns the plugin's usage description
func (p *basePlugin) Help() string {
	return p.help
}

// patternsFromConfig builds the plugin's triggering patterns from its
// configuration, falling back to the given defaults when none are configured.
// The configured pattern type applies to all of the entry's patterns
func patternsFromConfig(c *config.PluginConfig, defaults []slackrelay.Pattern) (patterns []slackrelay.Pattern) {
	if len(c.Patterns) == 0 {
		return defaults
	}

	patterns = make([]slackrelay.Pattern, 0, len(c.Patterns))
	for _, value := range c.Patterns {
		patterns = append(patterns, slackrelay.Pattern{Value: value, Kind: c.PatternType})
	}

	return patterns
}

// Factories returns the factory table of all bundled plugins keyed by the name
// each one is configured under
func Factories() map[string]slackrelay.PluginFactory {
	return map[string]slackrelay.PluginFactory{
		PingPluginName:     NewPing,
		HelpPluginName:     NewHelp,
		StatusPluginName:   NewStatus,
		IncidentPluginName: NewIncident,
		BannerPluginName:   NewBanner,
	}
}
