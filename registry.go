package slackrelay

import (
	"context"
	"fmt"
	"github.com/alexandre-normand/slackrelay/config"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"log"
	"os"
	"sync"
)

// Registry holds the loaded plugins in declaration order and resolves
// incoming messages to the first plugin with a matching pattern. Descriptor
// names are bound to implementations through an explicit factory table so
// configuration selects behavior without reflection.
type Registry struct {
	name         string
	factories    map[string]PluginFactory
	plugins      []registeredPlugin
	log          SLogger
	instrumenter *instrumenter
	mutex        sync.RWMutex
}

// registeredPlugin pairs a loaded plugin with its compiled patterns
type registeredPlugin struct {
	plugin   Plugin
	patterns []compiledPattern
}

// NewRegistry returns a registry that resolves plugin descriptor names with
// the given factory table. The name is the bot's own name as used in the
// default response to unmatched commands.
func NewRegistry(name string, factories map[string]PluginFactory, logger SLogger) (r *Registry) {
	r = new(Registry)
	r.name = name
	r.factories = factories
	r.log = logger

	if r.factories == nil {
		r.factories = make(map[string]PluginFactory)
	}

	if r.log == nil {
		r.log = NewSLogger(log.New(os.Stdout, "", log.LstdFlags), false)
	}

	return r
}

// RegisterFactory binds a plugin descriptor name to the factory instantiating
// its implementation. This should be done for all implementations prior to
// loading plugins from the configuration
func (r *Registry) RegisterFactory(name string, factory PluginFactory) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.factories[name] = factory
}

// Load reads the ordered plugin descriptors from the configuration and
// instantiates each enabled one through its registered factory. A descriptor
// naming an unknown factory or a factory returning an error is logged and
// skipped so one bad descriptor doesn't prevent the rest from loading. A
// missing or malformed plugins key is a load error. Loading fully replaces
// the previous plugin list.
func (r *Registry) Load(v *viper.Viper) (err error) {
	confs, err := config.GetPluginConfigs(v)
	if err != nil {
		return err
	}

	loaded := make([]registeredPlugin, 0, len(confs))

	for _, pc := range confs {
		if !pc.Enabled {
			r.log.Debugf("Skipping disabled plugin [%s]\n", pc.Name)
			continue
		}

		p, instErr := r.instantiate(&pc)
		if instErr != nil {
			r.log.Printf("Error loading plugin [%s], skipping: %v\n", pc.Name, instErr)
			continue
		}

		loaded = append(loaded, registeredPlugin{plugin: p, patterns: compilePatterns(p.Patterns(), r.log)})
		r.log.Debugf("Loaded plugin [%s] with [%d] patterns\n", p.Name(), len(p.Patterns()))
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.plugins = loaded

	return nil
}

// Reload re-runs Load. There is no partial reload: the new descriptors load
// or get skipped as a whole new generation replacing the previous one.
func (r *Registry) Reload(v *viper.Viper) (err error) {
	return r.Load(v)
}

// instantiate creates the plugin bound to the descriptor's name and injects
// the optional services it declares an interest in
func (r *Registry) instantiate(pc *config.PluginConfig) (p Plugin, err error) {
	factory, ok := r.factories[pc.Name]
	if !ok {
		return nil, errors.Errorf("no factory registered for plugin [%s]", pc.Name)
	}

	p, err = factory(pc)
	if err != nil {
		return nil, errors.Wrapf(err, "error creating plugin [%s]", pc.Name)
	}

	if sourceAware, ok := p.(pluginSourceAware); ok {
		sourceAware.SetPluginSource(r)
	}

	if logAware, ok := p.(loggerAware); ok {
		logAware.SetLogger(r.log)
	}

	return p, nil
}

// Plugins returns a snapshot of the loaded plugins in declaration order
func (r *Registry) Plugins() (plugins []Plugin) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	plugins = make([]Plugin, 0, len(r.plugins))
	for _, rp := range r.plugins {
		plugins = append(plugins, rp.plugin)
	}

	return plugins
}

// FindPluginForMessage resolves the text to the first plugin with a matching
// pattern, trying plugins in declaration order. The text is normalized
// before matching so user mention tokens and whitespace runs never affect
// pattern hits. Returns the plugin with the matched span of text or nil
// when no plugin matches.
func (r *Registry) FindPluginForMessage(text string) (p Plugin, matched string) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	normalized := NormalizeText(text)

	for _, rp := range r.plugins {
		if m, ok := firstMatch(rp.patterns, normalized); ok {
			return rp.plugin, m
		}
	}

	return nil, ""
}

// ProcessMessage resolves the event's text to a plugin and invokes it with
// the matched span. When no plugin matches, the returned answer is the
// default response naming the actor. A plugin returning an error or
// panicking yields a visible error answer instead of propagating. A nil
// answer with no error means the plugin chose not to respond.
func (r *Registry) ProcessMessage(e *Event) (answer *Answer) {
	p, matched := r.FindPluginForMessage(e.Text)

	if p == nil {
		r.log.Debugf("No plugin matched message [%s], sending default response\n", e.Timestamp)
		return &Answer{Text: fmt.Sprintf("Hi <@%s>! I didn't understand that command. Use `@%s help` to see available commands.", e.User, r.name)}
	}

	r.log.Debugf("Processing message [%s] with plugin [%s]\n", e.Timestamp, p.Name())

	var err error
	pd := measure(func() {
		answer, err = safeProcess(p, e, matched)
	})

	if r.instrumenter != nil {
		pm := r.instrumenter.getOrCreatePluginMetrics(p.Name())
		pm.matchCount.Add(context.Background(), 1)
		pm.processingTimeMillis.Record(context.Background(), pd.Milliseconds())
	}

	if err != nil {
		r.log.Printf("Error processing message [%s] with plugin [%s]: %v\n", e.Timestamp, p.Name(), err)
		return &Answer{Text: fmt.Sprintf("⚠️ Error processing command: %s", err.Error())}
	}

	return answer
}

// safeProcess invokes the plugin and converts a panic into an error so one
// misbehaving plugin can't take down message processing
func safeProcess(p Plugin, e *Event, matched string) (answer *Answer, err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			answer = nil
			err = errors.Errorf("plugin [%s] panicked: %v", p.Name(), recovered)
		}
	}()

	return p.Process(e, matched)
}
