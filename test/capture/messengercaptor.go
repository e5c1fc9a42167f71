package capture

import (
	"fmt"
	"github.com/slack-go/slack"
	"net/url"
	"sync"
)

// MessengerCaptor holds messages captured from PostMessage calls keyed by
// channel ID along with the direct message conversations requested from it
type MessengerCaptor struct {
	SentMessages  map[string][]string
	SentValues    map[string][]url.Values
	OpenedUserIDs []string

	// PostError and OpenError, when set, are returned by the respective calls
	// instead of capturing anything
	PostError error
	OpenError error

	timestampCounter int
	mutex            sync.Mutex
}

// NewMessenger returns a new initialized MessengerCaptor instance
func NewMessenger() (c *MessengerCaptor) {
	c = new(MessengerCaptor)
	c.SentMessages = make(map[string][]string)
	c.SentValues = make(map[string][]url.Values)
	c.OpenedUserIDs = make([]string, 0)

	return c
}

// PostMessage captures the details of a sent message (the resolved message
// values and the channel it's sent to). The message options are applied so the
// captured values reflect what would go out on the wire. The returned timestamp
// increments on every call
func (c *MessengerCaptor) PostMessage(channelID string, options ...slack.MsgOption) (rChannelID string, rTimestamp string, err error) {
	if c.PostError != nil {
		return "", "", c.PostError
	}

	_, values, err := slack.UnsafeApplyMsgOptions("token", channelID, slack.APIURL, options...)
	if err != nil {
		return "", "", err
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.SentMessages[channelID] = append(c.SentMessages[channelID], values.Get("text"))
	c.SentValues[channelID] = append(c.SentValues[channelID], values)

	c.timestampCounter++
	return channelID, fmt.Sprintf("%d", c.timestampCounter), nil
}

// OpenConversation records the requested user and returns a direct message
// channel identified as "D" followed by the first requested user id
func (c *MessengerCaptor) OpenConversation(params *slack.OpenConversationParameters) (channel *slack.Channel, noOp bool, alreadyOpen bool, err error) {
	if c.OpenError != nil {
		return nil, false, false, c.OpenError
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	userID := ""
	if len(params.Users) > 0 {
		userID = params.Users[0]
	}

	c.OpenedUserIDs = append(c.OpenedUserIDs, userID)

	channel = new(slack.Channel)
	channel.ID = fmt.Sprintf("D%s", userID)

	return channel, false, false, nil
}
