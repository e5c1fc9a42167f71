package server

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alexandre-normand/slackrelay"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func appMentionCallback(user string, channel string, text string, ts string) (body string) {
	return fmt.Sprintf(`{
		"token": "unused",
		"team_id": "T1234",
		"api_app_id": "A1234",
		"type": "event_callback",
		"event": {
			"type": "app_mention",
			"user": "%s",
			"text": "%s",
			"ts": "%s",
			"channel": "%s",
			"event_ts": "%s"
		},
		"event_id": "Ev1234",
		"event_time": 1715000000
	}`, user, text, ts, channel, ts)
}

func TestAppMentionCallbackAccepted(t *testing.T) {
	backend := new(fakeBackend)
	body := appMentionCallback("U1234", "C1234", "<@UBOT> ping", "1715000000.000100")

	w := serve(backend, signedRequest("/slack/events", body, "application/json", testSigningSecret))

	assert.Equal(t, http.StatusOK, w.Code)
	require.Len(t, backend.events, 1)
	assert.Equal(t, &slackrelay.Event{Type: slackrelay.AppMentionEvent, User: "U1234", Channel: "C1234", Text: "<@UBOT> ping", Timestamp: "1715000000.000100", TeamID: "T1234", AppID: "A1234"}, backend.events[0])
}

func TestDirectMessageCallbackAccepted(t *testing.T) {
	backend := new(fakeBackend)
	body := `{
		"token": "unused",
		"team_id": "T1234",
		"type": "event_callback",
		"event": {
			"type": "message",
			"channel_type": "im",
			"user": "U1234",
			"text": "ping",
			"ts": "1715000000.000200",
			"channel": "D1234"
		}
	}`

	w := serve(backend, signedRequest("/slack/events", body, "application/json", testSigningSecret))

	assert.Equal(t, http.StatusOK, w.Code)
	require.Len(t, backend.events, 1)
	assert.Equal(t, slackrelay.MessageEvent, backend.events[0].Type)
	assert.Equal(t, "D1234", backend.events[0].Channel)
}

func TestURLVerificationChallengeEchoed(t *testing.T) {
	backend := new(fakeBackend)
	body := `{"token": "unused", "challenge": "3eZbrw1aBm2rZgRNFdxV2595E9CY3gmdALWMmHkvFXO7tYXAYM8P", "type": "url_verification"}`

	w := serve(backend, signedRequest("/slack/events", body, "application/json", testSigningSecret))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/plain", w.Header().Get("Content-Type"))
	assert.Equal(t, "3eZbrw1aBm2rZgRNFdxV2595E9CY3gmdALWMmHkvFXO7tYXAYM8P", w.Body.String())
	assert.Empty(t, backend.events)
}

func TestEventRejectedOnBadSignature(t *testing.T) {
	backend := new(fakeBackend)
	body := appMentionCallback("U1234", "C1234", "<@UBOT> ping", "1715000000.000100")

	w := serve(backend, signedRequest("/slack/events", body, "application/json", "wrongSecret"))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Empty(t, backend.events)
}

func TestEventRejectedOnStaleTimestamp(t *testing.T) {
	backend := new(fakeBackend)
	body := appMentionCallback("U1234", "C1234", "<@UBOT> ping", "1715000000.000100")

	r := httptest.NewRequest(http.MethodPost, "/slack/events", strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	signRequest(r, testSigningSecret, body, time.Now().Add(-10*time.Minute))

	w := serve(backend, r)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Empty(t, backend.events)
}

func TestEventNotAcceptedAsksForRedelivery(t *testing.T) {
	backend := &fakeBackend{handleErr: errors.New("queue full")}
	body := appMentionCallback("U1234", "C1234", "<@UBOT> ping", "1715000000.000100")

	w := serve(backend, signedRequest("/slack/events", body, "application/json", testSigningSecret))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "event not accepted")
}

func TestFilteredCallbacksAckedWithoutProcessing(t *testing.T) {
	tests := map[string]struct {
		body string
	}{
		"botEcho": {`{
			"token": "unused",
			"team_id": "T1234",
			"type": "event_callback",
			"event": {"type": "message", "channel_type": "im", "bot_id": "B1234", "text": "pong", "ts": "1715000000.000300", "channel": "D1234"}
		}`},
		"messageEdit": {`{
			"token": "unused",
			"team_id": "T1234",
			"type": "event_callback",
			"event": {"type": "message", "channel_type": "im", "subtype": "message_changed", "user": "U1234", "text": "edited", "ts": "1715000000.000400", "channel": "D1234"}
		}`},
		"channelMessageWithoutMention": {`{
			"token": "unused",
			"team_id": "T1234",
			"type": "event_callback",
			"event": {"type": "message", "channel_type": "channel", "user": "U1234", "text": "just chatting", "ts": "1715000000.000500", "channel": "C1234"}
		}`},
		"reactionAdded": {`{
			"token": "unused",
			"team_id": "T1234",
			"type": "event_callback",
			"event": {"type": "reaction_added", "user": "U1234", "reaction": "thumbsup", "item_user": "U5678", "event_ts": "1715000000.000600"}
		}`},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			backend := new(fakeBackend)

			w := serve(backend, signedRequest("/slack/events", tc.body, "application/json", testSigningSecret))

			assert.Equal(t, http.StatusOK, w.Code)
			assert.Empty(t, backend.events)
		})
	}
}

func TestMalformedEventPayloadRejected(t *testing.T) {
	backend := new(fakeBackend)

	w := serve(backend, signedRequest("/slack/events", "not json at all", "application/json", testSigningSecret))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, backend.events)
}
