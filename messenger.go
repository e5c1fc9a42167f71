package slackrelay

import (
	"github.com/slack-go/slack"
)

// messagePoster is implemented by any value that has the PostMessage method. The main purpose
// is a slight decoupling of the slack.Client in order for the dispatcher (and tests) to depend
// only on the posting of messages
//
// slack.Client implements this interface
type messagePoster interface {
	PostMessage(channelID string, options ...slack.MsgOption) (rChannelID string, rTimestamp string, err error)
}

// conversationOpener is implemented by any value that has the OpenConversation method used
// to resolve the direct message channel for a user
//
// slack.Client implements this interface
type conversationOpener interface {
	OpenConversation(params *slack.OpenConversationParameters) (c *slack.Channel, noOp bool, alreadyOpen bool, err error)
}

// messenger encompasses the messagePoster and conversationOpener interfaces and is implemented
// by any value that has all methods of those interfaces
type messenger interface {
	messagePoster
	conversationOpener
}
