package slackrelay

import (
	"context"
	"encoding/json"
	"github.com/alexandre-normand/slackrelay/config"
	"github.com/alexandre-normand/slackrelay/queue"
	"github.com/alexandre-normand/slackrelay/schedule"
	"github.com/alexandre-normand/slackrelay/store"
	"github.com/marcsantiago/gocron"
	"github.com/pkg/errors"
	"github.com/slack-go/slack"
	"github.com/spf13/viper"
	"go.opentelemetry.io/otel/label"
	"go.opentelemetry.io/otel/metric"
	"io"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"
)

// Bot represents a slackrelay bot (mostly, a name, its plugins and the machinery
// taking events from intake to delivery)
type Bot struct {
	name   string
	config *viper.Viper

	registry     *Registry
	guard        *DedupGuard
	contentDedup *ContentDeduper
	eventQueue   *queue.Queue
	dispatch     *dispatcher

	meter        metric.Meter
	slackOptions []slack.Option

	inFlightStorer  store.StringStorer
	completedStorer store.StringStorer
	contentStorer   store.StringStorer

	log       SLogger
	closers   []io.Closer
	startTime time.Time

	*instrumenter
}

// Option defines an option for a Bot
type Option func(*Bot)

// OptionLog sets an alternate logger for the bot to use. Whether or not debug
// logging is emitted on it is still controlled by the debug configuration
func OptionLog(logger *log.Logger) Option {
	return func(b *Bot) {
		b.log = NewSLogger(logger, b.config.GetBool(config.DebugKey))
	}
}

// OptionLogfile sets a file to direct the bot logs to
func OptionLogfile(logFile *os.File) Option {
	return func(b *Bot) {
		b.log = NewSLogger(log.New(logFile, "", log.LstdFlags), b.config.GetBool(config.DebugKey))
	}
}

// OptionWithSlackOption adds a slack.Option to apply on the slack client created
// when the bot runs
func OptionWithSlackOption(opt slack.Option) Option {
	return func(b *Bot) {
		b.slackOptions = append(b.slackOptions, opt)
	}
}

// OptionTelemetry sets the meter recording the bot metrics. Without it, metrics
// are recorded on a no-op meter
func OptionTelemetry(meter metric.Meter) Option {
	return func(b *Bot) {
		b.meter = meter
	}
}

// OptionInFlightStorer overrides the storage backing the in-flight deduplication
// table. Defaults to a process-local in-memory storer
func OptionInFlightStorer(storer store.StringStorer) Option {
	return func(b *Bot) {
		b.inFlightStorer = storer
	}
}

// OptionCompletedStorer overrides the storage backing the completed deduplication
// table. Defaults to a process-local in-memory storer
func OptionCompletedStorer(storer store.StringStorer) Option {
	return func(b *Bot) {
		b.completedStorer = storer
	}
}

// OptionContentStorer overrides the storage backing the content deduplication
// records. Defaults to a process-local in-memory storer
func OptionContentStorer(storer store.StringStorer) Option {
	return func(b *Bot) {
		b.contentStorer = storer
	}
}

// New creates a new Bot with the given name and configuration. Logging,
// telemetry and deduplication storage all have functional defaults that
// options can override
func New(name string, v *viper.Viper, options ...Option) (b *Bot, err error) {
	b = new(Bot)
	b.name = name
	b.config = v
	b.startTime = time.Now()
	b.log = NewSLogger(log.New(os.Stdout, "", log.LstdFlags), v.GetBool(config.DebugKey))
	b.meter = metric.Meter{}

	for _, option := range options {
		option(b)
	}

	b.eventQueue, err = queue.New(v.GetInt(config.MessageProcessingPartitionCount), v.GetInt(config.MessageProcessingBufferedMessageCount), b.log)
	if err != nil {
		return nil, err
	}

	b.instrumenter, err = newInstrumenter(name, b.meter, metric.Int64ObserverFunc(func(ctx context.Context, result metric.Int64ObserverResult) {
		result.Observe(int64(b.eventQueue.Depth()), label.String("name", name))
	}))
	if err != nil {
		return nil, err
	}

	ttl := v.GetDuration(config.MaxAgeHandledMessages)

	guardOptions := []GuardOption{WithGuardTTL(ttl), WithGuardLogger(b.log)}
	if b.inFlightStorer != nil {
		guardOptions = append(guardOptions, WithInFlightStorer(b.inFlightStorer))
	}
	if b.completedStorer != nil {
		guardOptions = append(guardOptions, WithCompletedStorer(b.completedStorer))
	}
	b.guard = NewDedupGuard(guardOptions...)

	contentOptions := []ContentDedupOption{WithContentTTL(ttl), WithContentLogger(b.log)}
	if b.contentStorer != nil {
		contentOptions = append(contentOptions, WithContentStorer(b.contentStorer))
	}
	b.contentDedup = NewContentDeduper(contentOptions...)

	b.registry = NewRegistry(name, make(map[string]PluginFactory), b.log)
	b.registry.instrumenter = b.instrumenter

	return b, nil
}

// RegisterPluginFactory binds a plugin descriptor name to the factory
// instantiating its implementation. All implementations should be registered
// prior to calling Run
func (b *Bot) RegisterPluginFactory(name string, factory PluginFactory) {
	b.registry.RegisterFactory(name, factory)
}

// HandleEvent takes one inbound event, runs the early duplicate-delivery checks
// and hands it off to the processing queue. A nil error means the event is in
// the pipeline (or was a duplicate delivery) and can be acknowledged. An error
// means the event couldn't be queued and should be redelivered later
func (b *Bot) HandleEvent(e *Event) (err error) {
	d := measure(func() {
		err = b.intake(e)
	})

	b.coreMetrics.msgDispatchLatencyMillis.Record(context.Background(), d.Milliseconds())

	return err
}

// intake validates the event, checks it against the deduplication guard and
// enqueues it. An accepted event that can't be queued is released from the
// guard so its redelivery isn't flagged as a duplicate
func (b *Bot) intake(e *Event) (err error) {
	b.coreMetrics.eventsSeen.Add(context.Background(), 1)

	if err = e.Validate(); err != nil {
		b.log.Printf("Dropping invalid event [%s]: %v\n", e, err)
		return nil
	}

	switch b.guard.Check(e) {
	case DuplicateInFlight:
		b.coreMetrics.duplicateCount[inFlightDupStage].Add(context.Background(), 1)
		b.log.Debugf("Duplicate delivery of in-flight event [%s], ignoring\n", e)
		return nil
	case DuplicateCompleted:
		b.coreMetrics.duplicateCount[completedDupStage].Add(context.Background(), 1)
		b.log.Debugf("Duplicate delivery of completed event [%s], ignoring\n", e)
		return nil
	}

	payload, err := json.Marshal(e)
	if err != nil {
		b.guard.Release(e)
		return errors.Wrapf(err, "error serializing event [%s]", e)
	}

	if err = b.eventQueue.TryEnqueue(queue.Item{ID: e.GuardKey(), Payload: payload}); err != nil {
		b.guard.Release(e)
		return errors.Wrapf(err, "error queueing event [%s]", e)
	}

	return nil
}

// Run loads the plugins, connects the outbound slack client, starts the queue
// consumers along with the deduplication sweep scheduler and blocks until the
// context is canceled or a termination signal is received. Queued events are
// drained before returning
func (b *Bot) Run(ctx context.Context) (err error) {
	if err = b.registry.Load(b.config); err != nil {
		return err
	}

	api := slack.New(
		b.config.GetString(config.TokenKey),
		append([]slack.Option{
			slack.OptionDebug(b.config.GetBool(config.DebugKey)),
			slack.OptionLog(log.New(os.Stdout, "slack: ", log.Lshortfile|log.LstdFlags)),
		}, b.slackOptions...)...,
	)

	timeLoc, err := config.GetTimeLocation(b.config)
	if err != nil {
		return err
	}

	msgr := NewmessengerWithTelemetry(api, b.name, b.meter)

	dmOpener, err := NewCachingDMOpener(b.config, msgr, b.log)
	if err != nil {
		return err
	}

	b.dispatch = newDispatcher(b.registry, b.guard, b.contentDedup, msgr, dmOpener, b.log, b.instrumenter)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	go b.startSweepScheduler(timeLoc)
	go b.watchForTerminationSignalToAbort(cancel)

	var consumers sync.WaitGroup
	for i := 0; i < b.eventQueue.PartitionCount(); i++ {
		consumers.Add(1)

		go func(partition int) {
			defer consumers.Done()

			for item := range b.eventQueue.Consume(partition) {
				b.consume(item)
			}
		}(i)
	}

	<-runCtx.Done()

	b.log.Debugf("Stopping, draining the event queue\n")
	b.eventQueue.Close()
	consumers.Wait()

	return nil
}

// consume deserializes a queued item back into an event and dispatches it
func (b *Bot) consume(item queue.Item) {
	var e Event

	if err := json.Unmarshal(item.Payload, &e); err != nil {
		b.log.Printf("Error deserializing queued event [%s]: %v\n", item.ID, err)
		return
	}

	b.dispatch.process(&e)
}

// ReloadPlugins re-reads the configuration and fully replaces the plugin set
// with the new one. The running configuration is kept when the configuration
// isn't file-backed
func (b *Bot) ReloadPlugins() (err error) {
	if err = b.config.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return errors.Wrap(err, "error re-reading configuration")
		}
	}

	return b.registry.Reload(b.config)
}

// Health holds a point-in-time snapshot of the bot's processing state
type Health struct {
	Status      string     `json:"status"`
	Name        string     `json:"name"`
	Version     string     `json:"version"`
	UptimeSecs  int64      `json:"uptimeSecs"`
	PluginCount int        `json:"pluginCount"`
	QueueDepth  int        `json:"queueDepth"`
	Dedup       GuardStats `json:"dedup"`
}

// Health reports the current state of the bot's internals
func (b *Bot) Health() (h Health) {
	h.Status = "ok"
	h.Name = b.name
	h.Version = VERSION
	h.UptimeSecs = int64(time.Since(b.startTime).Seconds())
	h.PluginCount = len(b.registry.Plugins())
	h.QueueDepth = b.eventQueue.Depth()
	h.Dedup = b.guard.Stats()

	return h
}

// Close terminates the processing queue and closes everything attached to the
// bot, deduplication storage included
func (b *Bot) Close() (err error) {
	b.eventQueue.Close()

	for _, c := range b.closers {
		if closeErr := c.Close(); err == nil {
			err = closeErr
		}
	}

	if closeErr := b.guard.Close(); err == nil {
		err = closeErr
	}

	if closeErr := b.contentDedup.Close(); err == nil {
		err = closeErr
	}

	return err
}

// startSweepScheduler schedules the recurring purge of expired deduplication
// records and starts the scheduler. Note that this is meant to run in a go
// routine given that this is blocking
func (b *Bot) startSweepScheduler(timeLoc *time.Location) {
	gocron.ChangeLoc(timeLoc)
	sc := gocron.NewScheduler()

	sweepSchedule := schedule.Definition{Interval: uint64(b.config.GetInt(config.DedupSweepIntervalMinutes)), Unit: schedule.Minutes}

	j, err := schedule.NewJob(sc, sweepSchedule)
	if err != nil {
		b.log.Printf("Error scheduling deduplication sweep [%s]: %v\n", sweepSchedule, err)
		return
	}

	b.log.Debugf("Adding deduplication sweep job [%s] to scheduler\n", sweepSchedule)
	j.Do(b.sweepDedupTables)

	_, t := sc.NextRun()
	b.log.Debugf("Starting scheduler with first sweep scheduled at [%s]\n", t)

	<-sc.Start()
}

// sweepDedupTables purges expired entries from all the deduplication tables
func (b *Bot) sweepDedupTables() {
	b.guard.Purge()
	b.contentDedup.Purge()
}

// watchForTerminationSignalToAbort waits for a SIGTERM or SIGINT and cancels the
// run context to terminate processing cleanly. Note that this is meant to run in
// a go routine given that this is blocking
func (b *Bot) watchForTerminationSignalToAbort(cancel context.CancelFunc) {
	tSignals := make(chan os.Signal, 1)
	// Register to be notified of termination signals so we can abort
	signal.Notify(tSignals, syscall.SIGINT, syscall.SIGTERM)
	sig := <-tSignals

	b.log.Debugf("Received termination signal [%s], shutting down event processing\n", sig)
	cancel()
}
