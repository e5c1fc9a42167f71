package slackrelay

import (
	"fmt"
	"strings"

	"github.com/slack-go/slack/slackevents"
)

// Event types handled by the dispatcher. Anything else is rejected at validation
const (
	AppMentionEvent = "app_mention"
	MessageEvent    = "message"
)

// Event is one inbound trigger (a mention, a direct message or a command) as handed over
// by the events webhook. Events are immutable once created: the producer builds one from
// the inbound payload and the dispatcher consumes it exactly once.
//
// The identity used by the early deduplication guard is the (User, Channel, Timestamp)
// triple which uniquely identifies one user message in slack
type Event struct {
	Type      string `json:"type"`
	User      string `json:"user"`
	Channel   string `json:"channel"`
	Text      string `json:"text"`
	Timestamp string `json:"ts"`
	TeamID    string `json:"team_id,omitempty"`
	AppID     string `json:"api_app_id,omitempty"`
}

// NewEventFromCallback maps a parsed events api callback to an Event. It returns
// nil for callbacks the dispatcher doesn't handle: bot echoes, message edits and
// regular messages outside of a direct conversation are all filtered out here so
// they never count against the deduplication tables
func NewEventFromCallback(outer slackevents.EventsAPIEvent) (e *Event) {
	switch ev := outer.InnerEvent.Data.(type) {
	case *slackevents.AppMentionEvent:
		if ev.BotID != "" {
			return nil
		}

		return &Event{Type: AppMentionEvent, User: ev.User, Channel: ev.Channel, Text: ev.Text, Timestamp: ev.TimeStamp, TeamID: outer.TeamID, AppID: outer.APIAppID}
	case *slackevents.MessageEvent:
		if ev.ChannelType != "im" || ev.SubType != "" || ev.BotID != "" {
			return nil
		}

		return &Event{Type: MessageEvent, User: ev.User, Channel: ev.Channel, Text: ev.Text, Timestamp: ev.TimeStamp, TeamID: outer.TeamID, AppID: outer.APIAppID}
	}

	return nil
}

// GuardKey returns the identity key used by the early deduplication guard
func (e *Event) GuardKey() string {
	return fmt.Sprintf("%s_%s_%s", e.User, e.Channel, e.Timestamp)
}

// Validate returns an error naming the missing or unsupported parts of an event.
// An event failing validation is dropped permanently and never retried
func (e *Event) Validate() (err error) {
	if e.Type != AppMentionEvent && e.Type != MessageEvent {
		return fmt.Errorf("unsupported event type [%s]", e.Type)
	}

	missing := make([]string, 0)
	if e.User == "" {
		missing = append(missing, "user")
	}

	if e.Channel == "" {
		missing = append(missing, "channel")
	}

	if e.Timestamp == "" {
		missing = append(missing, "ts")
	}

	if e.Text == "" {
		missing = append(missing, "text")
	}

	if len(missing) > 0 {
		return fmt.Errorf("event [%s] missing required fields [%s]", e.Type, strings.Join(missing, ", "))
	}

	return nil
}

// String renders the event identity for logging
func (e *Event) String() string {
	return fmt.Sprintf("%s from [%s] in [%s] at [%s]", e.Type, e.User, e.Channel, e.Timestamp)
}
