package slackrelay

import (
	"context"
	"fmt"
	"github.com/pkg/errors"
	"github.com/slack-go/slack"
)

// dispatcher runs dequeued events through the processing state machine and relays
// plugin answers to the outbound messenger
type dispatcher struct {
	registry     *Registry
	guard        *DedupGuard
	contentDedup *ContentDeduper
	msgr         messenger
	dmOpener     DMChannelOpener
	log          SLogger

	*instrumenter
}

// newDispatcher assembles a dispatcher from its collaborators
func newDispatcher(registry *Registry, guard *DedupGuard, contentDedup *ContentDeduper, msgr messenger, dmOpener DMChannelOpener, logger SLogger, ins *instrumenter) (d *dispatcher) {
	d = new(dispatcher)
	d.registry = registry
	d.guard = guard
	d.contentDedup = contentDedup
	d.msgr = msgr
	d.dmOpener = dmOpener
	d.log = logger
	d.instrumenter = ins

	return d
}

// process runs one dequeued event through the handling state machine: validated,
// dedup-checked, plugin-resolved, executed, delivered. The event always transitions
// to completed in the guard, whatever the outcome, so a retried delivery arriving
// later is caught by the completed table
func (d *dispatcher) process(e *Event) {
	defer d.guard.MarkCompleted(e)

	if err := e.Validate(); err != nil {
		d.log.Printf("Dropping invalid event [%s]: %v\n", e, err)
		return
	}

	if d.contentDedup.IsDuplicate(e) {
		d.coreMetrics.duplicateCount[contentDupStage].Add(context.Background(), 1)
		d.log.Debugf("Content of event [%s] already processed, skipping\n", e)
		return
	}

	answer := d.registry.ProcessMessage(e)
	if answer == nil {
		d.log.Debugf("No answer for event [%s]\n", e)
		return
	}

	if err := d.deliver(e, answer); err != nil {
		d.log.Printf("Error delivering answer for event [%s]: %v\n", e, err)
		d.notifyError(e, err)
	}
}

// deliver posts the answer and, when the main answer went out, its follow-ups.
// Follow-ups are delivered independently of one another: a failure on one is
// logged and doesn't block the rest
func (d *dispatcher) deliver(e *Event, answer *Answer) (err error) {
	if err = d.send(e, answer); err != nil {
		d.coreMetrics.deliveryErrorCount.Add(context.Background(), 1)
		return err
	}

	for _, followUp := range answer.FollowUps {
		if fuErr := d.send(e, followUp); fuErr != nil {
			d.coreMetrics.deliveryErrorCount.Add(context.Background(), 1)
			d.log.Printf("Error delivering follow-up answer for event [%s]: %v\n", e, fuErr)
		}
	}

	return nil
}

// send resolves the answer's delivery target and posts it
func (d *dispatcher) send(e *Event, answer *Answer) (err error) {
	sendOpts := ApplyAnswerOpts(answer.Options...)

	target, err := d.resolveTarget(e, sendOpts)
	if err != nil {
		return err
	}

	if target == "" {
		d.log.Debugf("Delivery suppressed for event [%s]\n", e)
		return nil
	}

	text := answer.Text
	if text == "" {
		text = "Message processed"
	}

	options := []slack.MsgOption{slack.MsgOptionText(text, false), slack.MsgOptionAsUser(true)}

	if len(answer.ContentBlocks) > 0 {
		options = append(options, slack.MsgOptionBlocks(answer.ContentBlocks...))
	}

	if threadTS := resolveThreadTimestamp(e, target, sendOpts); threadTS != "" {
		options = append(options, slack.MsgOptionTS(threadTS))
	}

	channelID, timestamp, err := d.msgr.PostMessage(target, options...)
	if err != nil {
		return errors.Wrapf(err, "error posting message to channel [%s]", target)
	}

	d.log.Debugf("Posted answer for event [%s] to [%s] at [%s]\n", e, channelID, timestamp)

	return nil
}

// resolveTarget returns the channel id to deliver to or the empty string when
// delivery is suppressed
func (d *dispatcher) resolveTarget(e *Event, sendOpts map[string]string) (target string, err error) {
	switch sendOpts[DeliveryTypeOpt] {
	case DeliverNone:
		return "", nil
	case DeliverAsDM:
		target, err = d.dmOpener.OpenDMChannel(e.User)
		if err != nil {
			return "", errors.Wrapf(err, "error resolving dm channel for user [%s]", e.User)
		}

		return target, nil
	case DeliverToChannelID:
		return sendOpts[TargetChannelIDOpt], nil
	default:
		return e.Channel, nil
	}
}

// resolveThreadTimestamp picks the thread to reply under. An explicit thread
// timestamp on the answer always wins. Otherwise, answers delivered to the channel
// the event came from default to threading under the triggering message. Answers
// sent elsewhere (direct messages, other channels) aren't threaded since the
// triggering message doesn't exist there
func resolveThreadTimestamp(e *Event, target string, sendOpts map[string]string) (threadTS string) {
	if sendOpts[ThreadedReplyOpt] == "false" {
		return ""
	}

	if ts, ok := sendOpts[ThreadTimestamp]; ok && ts != "" {
		return ts
	}

	if target == e.Channel && e.Timestamp != "" {
		return e.Timestamp
	}

	return ""
}

// notifyError makes a best-effort attempt at telling the user their command
// failed. Its own failure is only logged
func (d *dispatcher) notifyError(e *Event, processingErr error) {
	text := fmt.Sprintf("❌ <@%s>, there was an error processing your command: %s", e.User, processingErr.Error())

	if _, _, err := d.msgr.PostMessage(e.Channel, slack.MsgOptionText(text, false), slack.MsgOptionAsUser(true)); err != nil {
		d.log.Printf("Error sending error notification for event [%s]: %v\n", e, err)
	}
}
