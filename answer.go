package slackrelay

import (
	"github.com/slack-go/slack"
)

const (
	// ThreadedReplyOpt is the name of the option indicating a threaded-reply answer
	ThreadedReplyOpt = "threadedReply"
	// ThreadTimestamp is the name of the option indicating the explicit timestamp of the thread to reply to
	ThreadTimestamp = "threadTimestamp"
	// DeliveryTypeOpt is the name of the option carrying the answer's delivery type
	DeliveryTypeOpt = "deliveryType"
	// TargetChannelIDOpt is the name of the option carrying the explicit channel ID of an answer
	// delivered with DeliverToChannelID
	TargetChannelIDOpt = "targetChannelID"
)

// Delivery types. The default, when an answer carries no delivery option, is DeliverToChannel
const (
	// DeliverToChannel delivers the answer to the channel the triggering event came from
	DeliverToChannel = "channel"
	// DeliverAsDM delivers the answer to the direct message conversation with the event's user
	DeliverAsDM = "dm"
	// DeliverToChannelID delivers the answer to an explicitly named channel
	DeliverToChannelID = "specific_channel"
	// DeliverNone suppresses delivery entirely
	DeliverNone = "none"
)

// Answer holds a plugin's answer to an event: its text, rich content blocks and the
// options to apply when delivering it. FollowUps are additional answers delivered
// independently after the main one: a failure to deliver one of them doesn't block
// the others
type Answer struct {
	Text string

	// Options to apply when sending the message
	Options []AnswerOption

	// BlockKit content blocks to apply when sending the message
	ContentBlocks []slack.Block

	// FollowUps are additional answers delivered after this one
	FollowUps []*Answer
}

// AnswerOption defines a function applied to Answers
type AnswerOption func(sendOpts map[string]string)

// AnswerAsDM sets the answer to be delivered as a direct message to the event's user
func AnswerAsDM() AnswerOption {
	return func(sendOpts map[string]string) {
		sendOpts[DeliveryTypeOpt] = DeliverAsDM
	}
}

// AnswerInChannelID sets the answer to be delivered to the given channel ID instead
// of the channel the event came from
func AnswerInChannelID(channelID string) AnswerOption {
	return func(sendOpts map[string]string) {
		sendOpts[DeliveryTypeOpt] = DeliverToChannelID
		sendOpts[TargetChannelIDOpt] = channelID
	}
}

// AnswerSuppressed marks the answer as not to be delivered at all. Useful for a plugin
// that wants to acknowledge handling without a user-visible reply
func AnswerSuppressed() AnswerOption {
	return func(sendOpts map[string]string) {
		sendOpts[DeliveryTypeOpt] = DeliverNone
	}
}

// AnswerInExistingThread sets threaded replying with the existing thread timestamp
func AnswerInExistingThread(threadTimestamp string) AnswerOption {
	return func(sendOpts map[string]string) {
		sendOpts[ThreadedReplyOpt] = "true"
		sendOpts[ThreadTimestamp] = threadTimestamp
	}
}

// AnswerWithoutThreading sets an answer to have threading disabled. Without this option,
// answers delivered to the originating channel default to a threaded reply under the
// triggering event
func AnswerWithoutThreading() AnswerOption {
	return func(sendOpts map[string]string) {
		sendOpts[ThreadedReplyOpt] = "false"
	}
}

// ApplyAnswerOpts applies answering options to build the send configuration
func ApplyAnswerOpts(opts ...AnswerOption) (sendOptions map[string]string) {
	sendOptions = make(map[string]string)
	for _, opt := range opts {
		opt(sendOptions)
	}

	return sendOptions
}
