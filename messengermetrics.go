package slackrelay

// DO NOT EDIT!
// This code is generated with http://github.com/hexdigest/gowrap tool
// using opentelemetry.template template

//go:generate gowrap gen -p github.com/alexandre-normand/slackrelay -i messenger -t opentelemetry.template -o messengermetrics.go

import (
	"context"
	"time"
	"unicode"

	"github.com/slack-go/slack"
	"go.opentelemetry.io/otel/label"
	"go.opentelemetry.io/otel/metric"
)

// messengerWithTelemetry implements messenger interface with all methods wrapped
// with open telemetry metrics
type messengerWithTelemetry struct {
	base                     messenger
	methodCounters           map[string]metric.BoundInt64Counter
	errCounters              map[string]metric.BoundInt64Counter
	methodTimeValueRecorders map[string]metric.BoundInt64ValueRecorder
}

// NewmessengerWithTelemetry returns an instance of the messenger decorated with open telemetry timing and count metrics
func NewmessengerWithTelemetry(base messenger, name string, meter metric.Meter) messengerWithTelemetry {
	return messengerWithTelemetry{
		base:                     base,
		methodCounters:           newmessengerMethodCounters("Calls", name, meter),
		errCounters:              newmessengerMethodCounters("Errors", name, meter),
		methodTimeValueRecorders: newmessengerMethodTimeValueRecorders(name, meter),
	}
}

func newmessengerMethodTimeValueRecorders(appName string, meter metric.Meter) (boundTimeValueRecorders map[string]metric.BoundInt64ValueRecorder) {
	boundTimeValueRecorders = make(map[string]metric.BoundInt64ValueRecorder)
	mt := metric.Must(meter)

	nOpenConversationValRecorder := []rune("messenger_OpenConversation_ProcessingTimeMillis")
	nOpenConversationValRecorder[0] = unicode.ToLower(nOpenConversationValRecorder[0])
	mOpenConversation := mt.NewInt64ValueRecorder(string(nOpenConversationValRecorder))
	boundTimeValueRecorders["OpenConversation"] = mOpenConversation.Bind(label.String("name", appName))

	nPostMessageValRecorder := []rune("messenger_PostMessage_ProcessingTimeMillis")
	nPostMessageValRecorder[0] = unicode.ToLower(nPostMessageValRecorder[0])
	mPostMessage := mt.NewInt64ValueRecorder(string(nPostMessageValRecorder))
	boundTimeValueRecorders["PostMessage"] = mPostMessage.Bind(label.String("name", appName))

	return boundTimeValueRecorders
}

func newmessengerMethodCounters(suffix string, appName string, meter metric.Meter) (boundCounters map[string]metric.BoundInt64Counter) {
	boundCounters = make(map[string]metric.BoundInt64Counter)
	mt := metric.Must(meter)

	nOpenConversationCounter := []rune("messenger_OpenConversation_" + suffix)
	nOpenConversationCounter[0] = unicode.ToLower(nOpenConversationCounter[0])
	cOpenConversation := mt.NewInt64Counter(string(nOpenConversationCounter))
	boundCounters["OpenConversation"] = cOpenConversation.Bind(label.String("name", appName))

	nPostMessageCounter := []rune("messenger_PostMessage_" + suffix)
	nPostMessageCounter[0] = unicode.ToLower(nPostMessageCounter[0])
	cPostMessage := mt.NewInt64Counter(string(nPostMessageCounter))
	boundCounters["PostMessage"] = cPostMessage.Bind(label.String("name", appName))

	return boundCounters
}

// OpenConversation implements messenger
func (_d messengerWithTelemetry) OpenConversation(params *slack.OpenConversationParameters) (c *slack.Channel, noOp bool, alreadyOpen bool, err error) {
	_since := time.Now()
	defer func() {
		if err != nil {
			errCounter := _d.errCounters["OpenConversation"]
			errCounter.Add(context.Background(), 1)
		}

		methodCounter := _d.methodCounters["OpenConversation"]
		methodCounter.Add(context.Background(), 1)

		methodTimeMeasure := _d.methodTimeValueRecorders["OpenConversation"]
		methodTimeMeasure.Record(context.Background(), time.Since(_since).Milliseconds())
	}()
	return _d.base.OpenConversation(params)
}

// PostMessage implements messenger
func (_d messengerWithTelemetry) PostMessage(channelID string, options ...slack.MsgOption) (rChannelID string, rTimestamp string, err error) {
	_since := time.Now()
	defer func() {
		if err != nil {
			errCounter := _d.errCounters["PostMessage"]
			errCounter.Add(context.Background(), 1)
		}

		methodCounter := _d.methodCounters["PostMessage"]
		methodCounter.Add(context.Background(), 1)

		methodTimeMeasure := _d.methodTimeValueRecorders["PostMessage"]
		methodTimeMeasure.Record(context.Background(), time.Since(_since).Milliseconds())
	}()
	return _d.base.PostMessage(channelID, options...)
}
