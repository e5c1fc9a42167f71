/*
Package slackrelay provides the building blocks of a webhook-driven slack bot backend.

Events come in over HTTP (see the server package), get checked for authenticity and
for duplicate delivery, and are handed to a bounded in-process queue. A consumer pulls
queued events and drives each one through content-level deduplication, plugin resolution
and delivery of the plugin's answer.

Plugins are selected from configuration: each entry names a registered plugin implementation
along with the patterns (literal or regex) that trigger it. The first plugin whose pattern
matches the normalized message text handles it.

Example code:

	package main

	import (
		"github.com/alexandre-normand/slackrelay"
		"github.com/alexandre-normand/slackrelay/config"
		"github.com/alexandre-normand/slackrelay/plugins"
		"github.com/alexandre-normand/slackrelay/server"
		"gopkg.in/alecthomas/kingpin.v2"
	)

	func main() {
		// TODO: Parse command-line and initialize viper with the configuration file

		bot, err := slackrelay.NewBot("relay", v, options...).
			WithFactory(plugins.PingPluginName, plugins.NewPing).
			WithFactory(plugins.IncidentPluginName, plugins.NewIncident).
			Build()
		if err != nil {
			log.Fatal(err)
		}
		defer bot.Close()

		go bot.Run(ctx)

		srv := server.New(bot, v.GetString(config.SigningSecretKey), server.OptionPort(v.GetInt(config.HTTPPortKey)))
		if err = srv.Run(ctx); err != nil {
			log.Fatal(err)
		}
	}
*/
package slackrelay
