package slackrelay

import (
	"github.com/spf13/viper"
	"io"
)

// Builder holds a slackrelay bot to build
type Builder struct {
	bot *Bot
	err error
}

// NewBot returns a new Builder used to set up a new slackrelay bot
func NewBot(name string, v *viper.Viper, options ...Option) (sb *Builder) {
	sb = new(Builder)
	sb.bot, sb.err = New(name, v, options...)

	return sb
}

// WithFactory registers a named plugin factory with the bot. Only names bound
// to a factory can be referenced by the plugins configuration
func (sb *Builder) WithFactory(name string, factory PluginFactory) *Builder {
	if sb.err != nil {
		return sb
	}

	sb.bot.RegisterPluginFactory(name, factory)

	return sb
}

// WithFactories registers a full table of named plugin factories with the bot
func (sb *Builder) WithFactories(factories map[string]PluginFactory) *Builder {
	if sb.err != nil {
		return sb
	}

	for name, factory := range factories {
		sb.bot.RegisterPluginFactory(name, factory)
	}

	return sb
}

// WithCloser attaches a closer to the bot so that it gets closed when the bot is
func (sb *Builder) WithCloser(closer io.Closer) *Builder {
	if sb.err != nil {
		return sb
	}

	if closer != nil {
		sb.bot.closers = append(sb.bot.closers, closer)
	}

	return sb
}

// Build returns the built slackrelay bot. If there was an error during
// setup, the error is returned along with a nil bot
func (sb *Builder) Build() (b *Bot, err error) {
	if sb.err != nil {
		return nil, sb.err
	}

	return sb.bot, sb.err
}
