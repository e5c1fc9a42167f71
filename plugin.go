package slackrelay

import (
	"github.com/alexandre-normand/slackrelay/config"
)

// Plugin is implemented by all message handlers. A plugin declares the patterns
// that trigger it and produces an answer when handed an event along with the
// matched span of text. Plugins are independent: no shared mutable state between
// them is permitted
type Plugin interface {
	// Name returns the plugin's display name
	Name() string

	// Patterns returns the ordered list of patterns triggering this plugin
	Patterns() []Pattern

	// Process handles an event that matched one of the plugin's patterns. The matched
	// value is the span of text the winning pattern matched. Returning a nil answer
	// without error means the plugin handled the event but has nothing to say
	Process(e *Event, matched string) (a *Answer, err error)

	// Help returns a short static description of what the plugin does
	Help() string
}

// PluginFactory instantiates a plugin from its configuration. Factories are registered
// in an explicit table (rather than looked up by reflection) and selected by the
// name attribute of each configured plugin
type PluginFactory func(c *config.PluginConfig) (p Plugin, err error)

// PluginSource provides read access to the currently loaded plugins
type PluginSource interface {
	// Plugins returns a snapshot of the loaded plugins in registry order
	Plugins() []Plugin
}

// pluginSourceAware is implemented by plugins that need access to the full plugin list,
// such as the help plugin. The registry injects itself after loading
type pluginSourceAware interface {
	SetPluginSource(source PluginSource)
}

// loggerAware is implemented by plugins wanting the bot's logger injected at load time
type loggerAware interface {
	SetLogger(logger SLogger)
}
