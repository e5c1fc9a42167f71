package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/slack-go/slack"
)

const commandList = "*Available commands:*\n" +
	"• `/hello [message]` - Greet the bot\n" +
	"• `/info` - Show bot information\n" +
	"• `/help` - Show this help"

// handleCommand takes one slash command delivery and answers it inline with an
// ephemeral message. Unlike events, commands don't go through the processing
// queue: slack expects the response on the request itself
func (s *Server) handleCommand(w http.ResponseWriter, r *http.Request) {
	sv, err := slack.NewSecretsVerifier(r.Header, s.signingSecret)
	if err != nil {
		s.log.Debugf("Rejecting command with invalid signature headers: %v\n", err)
		http.Error(w, `{"error":"invalid signature"}`, http.StatusUnauthorized)
		return
	}

	r.Body = io.NopCloser(io.TeeReader(r.Body, &sv))

	cmd, err := slack.SlashCommandParse(r)
	if err != nil {
		s.log.Printf("Error parsing slash command: %v\n", err)
		http.Error(w, `{"error":"invalid command payload"}`, http.StatusBadRequest)
		return
	}

	if err = sv.Ensure(); err != nil {
		s.log.Debugf("Rejecting command with signature mismatch: %v\n", err)
		http.Error(w, `{"error":"invalid signature"}`, http.StatusUnauthorized)
		return
	}

	s.log.Debugf("Answering command [%s] from [%s] in [%s]\n", cmd.Command, cmd.UserID, cmd.ChannelID)

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.commandReply(cmd)); err != nil {
		s.log.Printf("Error writing command response: %v\n", err)
	}
}

// commandReply builds the response to a slash command. An unknown command gets
// the help content so a user typing an unregistered command still learns what's
// available
func (s *Server) commandReply(cmd slack.SlashCommand) (reply *slack.Msg) {
	switch cmd.Command {
	case "/hello":
		return s.helloReply(cmd)
	case "/info":
		return s.infoReply()
	case "/help":
		return s.helpReply()
	default:
		reply = s.helpReply()
		reply.Text = fmt.Sprintf("Unknown command `%s`", cmd.Command)
		return reply
	}
}

func (s *Server) helloReply(cmd slack.SlashCommand) (reply *slack.Msg) {
	text := fmt.Sprintf("Hello <@%s>! How are you?", cmd.UserID)
	if cmd.Text != "" {
		text = fmt.Sprintf("Hello! You told me: '%s'", cmd.Text)
	}

	return &slack.Msg{ResponseType: slack.ResponseTypeEphemeral, Text: text}
}

func (s *Server) infoReply() (reply *slack.Msg) {
	health := s.backend.Health()

	fields := []*slack.TextBlockObject{
		slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("*Version:* %s", health.Version), false, false),
		slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("*Uptime:* %s", time.Duration(health.UptimeSecs)*time.Second), false, false),
		slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("*Plugins:* %d", health.PluginCount), false, false),
		slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("*Queued events:* %d", health.QueueDepth), false, false),
	}

	blocks := []slack.Block{
		slack.NewHeaderBlock(slack.NewTextBlockObject(slack.PlainTextType, fmt.Sprintf("Info - %s", health.Name), false, false)),
		slack.NewSectionBlock(nil, fields, nil),
		slack.NewSectionBlock(slack.NewTextBlockObject(slack.MarkdownType, commandList, false, false), nil, nil),
	}

	return &slack.Msg{ResponseType: slack.ResponseTypeEphemeral, Text: fmt.Sprintf("%s %s", health.Name, health.Version), Blocks: slack.Blocks{BlockSet: blocks}}
}

func (s *Server) helpReply() (reply *slack.Msg) {
	blocks := []slack.Block{
		slack.NewHeaderBlock(slack.NewTextBlockObject(slack.PlainTextType, "Help - Bot Commands", false, false)),
		slack.NewSectionBlock(slack.NewTextBlockObject(slack.MarkdownType, commandList, false, false), nil, nil),
		slack.NewDividerBlock(),
		slack.NewSectionBlock(slack.NewTextBlockObject(slack.MarkdownType, "*You can also:*\n• Mention me in any channel I'm in\n• Send me a direct message", false, false), nil, nil),
	}

	return &slack.Msg{ResponseType: slack.ResponseTypeEphemeral, Text: "Available commands: `/hello`, `/info` and `/help`", Blocks: slack.Blocks{BlockSet: blocks}}
}
