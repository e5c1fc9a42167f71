package slackrelay

import (
	"go.opentelemetry.io/otel/label"
	"go.opentelemetry.io/otel/metric"
	"sync"
	"time"
)

// Deduplication stages reported on the duplicate counter
const (
	inFlightDupStage  = "inFlight"
	completedDupStage = "completed"
	contentDupStage   = "content"
)

// instrumenter holds data for core instrumentation
type instrumenter struct {
	appName       string
	coreMetrics   coreMetrics
	pluginMetrics map[string]pluginMetrics
	meter         metric.Meter
	mutex         sync.Mutex
}

// coreMetrics holds core slackrelay metrics
type coreMetrics struct {
	eventsSeen               metric.BoundInt64Counter
	duplicateCount           map[string]metric.BoundInt64Counter
	deliveryErrorCount       metric.BoundInt64Counter
	msgDispatchLatencyMillis metric.BoundInt64ValueRecorder
	queueDepth               metric.Int64ValueObserver
}

// pluginMetrics holds metrics specific to a plugin
type pluginMetrics struct {
	processingTimeMillis metric.BoundInt64ValueRecorder
	matchCount           metric.BoundInt64Counter
}

// newInstrumenter creates a new core instrumenter. The queueDepthObserver is
// invoked on metric collection to report the current backlog of queued events
func newInstrumenter(appName string, meter metric.Meter, queueDepthObserver metric.Int64ObserverFunc) (ins *instrumenter, err error) {
	ins = new(instrumenter)
	mt := metric.Must(meter)

	eventsSeen := mt.NewInt64Counter("eventsSeen")
	deliveryErrors := mt.NewInt64Counter("deliveryErrorCount")
	dispatchLatency := mt.NewInt64ValueRecorder("msgDispatchLatencyMillis")

	queueDepth, err := meter.NewInt64ValueObserver("queueDepth", queueDepthObserver)
	if err != nil {
		return nil, err
	}

	defaultLabels := label.String("name", appName)

	ins.coreMetrics = coreMetrics{eventsSeen: eventsSeen.Bind(defaultLabels),
		duplicateCount:           newBoundCounterByDupStage("duplicateCount", appName, meter),
		deliveryErrorCount:       deliveryErrors.Bind(defaultLabels),
		msgDispatchLatencyMillis: dispatchLatency.Bind(defaultLabels),
		queueDepth:               queueDepth}

	ins.appName = appName
	ins.pluginMetrics = make(map[string]pluginMetrics)

	ins.meter = meter
	return ins, nil
}

// newBoundCounterByDupStage creates a set of BoundInt64Counter by deduplication stage
func newBoundCounterByDupStage(counterName string, appName string, meter metric.Meter) (boundCounter map[string]metric.BoundInt64Counter) {
	boundCounter = make(map[string]metric.BoundInt64Counter)

	c := metric.Must(meter).NewInt64Counter(counterName)
	boundCounter[inFlightDupStage] = c.Bind(label.String("name", appName), label.String("stage", inFlightDupStage))
	boundCounter[completedDupStage] = c.Bind(label.String("name", appName), label.String("stage", completedDupStage))
	boundCounter[contentDupStage] = c.Bind(label.String("name", appName), label.String("stage", contentDupStage))

	return boundCounter
}

// getOrCreatePluginMetrics returns an existing pluginMetrics for a plugin or creates a new one, if necessary
func (ins *instrumenter) getOrCreatePluginMetrics(pluginName string) (pm pluginMetrics) {
	ins.mutex.Lock()
	defer ins.mutex.Unlock()

	if _, ok := ins.pluginMetrics[pluginName]; !ok {
		ins.pluginMetrics[pluginName] = newPluginMetrics(ins.appName, pluginName, ins.meter)
	}

	return ins.pluginMetrics[pluginName]
}

// newPluginMetrics returns a new pluginMetrics instance for a plugin
func newPluginMetrics(appName string, pluginName string, meter metric.Meter) (pm pluginMetrics) {
	mt := metric.Must(meter)
	c := mt.NewInt64Counter("matchCount")
	m := mt.NewInt64ValueRecorder("processingTimeMillis")

	pm.matchCount = c.Bind(label.String("name", appName), label.String("plugin", pluginName))
	pm.processingTimeMillis = m.Bind(label.String("name", appName), label.String("plugin", pluginName))

	return pm
}

type timed func()

// measure returns the execution duration of a timed function
func measure(operation timed) (d time.Duration) {
	before := time.Now()

	operation()

	return time.Now().Sub(before)
}
