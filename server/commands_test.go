package server

import (
	"encoding/json"
	"net/http"
	"net/url"
	"testing"

	"github.com/alexandre-normand/slackrelay"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func slashCommandBody(command string, text string) (body string) {
	form := url.Values{}
	form.Set("command", command)
	form.Set("text", text)
	form.Set("user_id", "U1234")
	form.Set("channel_id", "C1234")
	form.Set("team_id", "T1234")

	return form.Encode()
}

func decodeCommandReply(t *testing.T, body []byte) (responseType string, text string) {
	var reply struct {
		ResponseType string `json:"response_type"`
		Text         string `json:"text"`
	}

	require.NoError(t, json.Unmarshal(body, &reply))
	return reply.ResponseType, reply.Text
}

func TestSlashHelloWithoutText(t *testing.T) {
	w := serve(new(fakeBackend), signedRequest("/slack/commands", slashCommandBody("/hello", ""), "application/x-www-form-urlencoded", testSigningSecret))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	responseType, text := decodeCommandReply(t, w.Body.Bytes())
	assert.Equal(t, "ephemeral", responseType)
	assert.Equal(t, "Hello <@U1234>! How are you?", text)
}

func TestSlashHelloWithText(t *testing.T) {
	w := serve(new(fakeBackend), signedRequest("/slack/commands", slashCommandBody("/hello", "nice to meet you"), "application/x-www-form-urlencoded", testSigningSecret))

	assert.Equal(t, http.StatusOK, w.Code)

	responseType, text := decodeCommandReply(t, w.Body.Bytes())
	assert.Equal(t, "ephemeral", responseType)
	assert.Equal(t, "Hello! You told me: 'nice to meet you'", text)
}

func TestSlashInfoSummarizesBackendHealth(t *testing.T) {
	backend := &fakeBackend{health: slackrelay.Health{Status: "ok", Name: "relay", Version: "1.0.2", UptimeSecs: 90, PluginCount: 3, QueueDepth: 1}}

	w := serve(backend, signedRequest("/slack/commands", slashCommandBody("/info", ""), "application/x-www-form-urlencoded", testSigningSecret))

	assert.Equal(t, http.StatusOK, w.Code)

	responseType, text := decodeCommandReply(t, w.Body.Bytes())
	assert.Equal(t, "ephemeral", responseType)
	assert.Equal(t, "relay 1.0.2", text)
	assert.Contains(t, w.Body.String(), "Info - relay")
	assert.Contains(t, w.Body.String(), "*Version:* 1.0.2")
	assert.Contains(t, w.Body.String(), "1m30s")
}

func TestSlashHelpListsCommands(t *testing.T) {
	w := serve(new(fakeBackend), signedRequest("/slack/commands", slashCommandBody("/help", ""), "application/x-www-form-urlencoded", testSigningSecret))

	assert.Equal(t, http.StatusOK, w.Code)

	responseType, text := decodeCommandReply(t, w.Body.Bytes())
	assert.Equal(t, "ephemeral", responseType)
	assert.Equal(t, "Available commands: `/hello`, `/info` and `/help`", text)
	assert.Contains(t, w.Body.String(), "Help - Bot Commands")
	assert.Contains(t, w.Body.String(), "Send me a direct message")
}

func TestSlashUnknownCommandFallsBackToHelp(t *testing.T) {
	w := serve(new(fakeBackend), signedRequest("/slack/commands", slashCommandBody("/frobnicate", ""), "application/x-www-form-urlencoded", testSigningSecret))

	assert.Equal(t, http.StatusOK, w.Code)

	responseType, text := decodeCommandReply(t, w.Body.Bytes())
	assert.Equal(t, "ephemeral", responseType)
	assert.Equal(t, "Unknown command `/frobnicate`", text)
	assert.Contains(t, w.Body.String(), "Help - Bot Commands")
}

func TestSlashCommandRejectedOnBadSignature(t *testing.T) {
	w := serve(new(fakeBackend), signedRequest("/slack/commands", slashCommandBody("/hello", ""), "application/x-www-form-urlencoded", "wrongSecret"))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
