package server

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/alexandre-normand/slackrelay"
	"github.com/slack-go/slack"
	"github.com/slack-go/slack/slackevents"
)

// handleEvent takes one events api delivery: authenticate it, answer the
// url_verification challenge during app setup, and hand event callbacks over to
// the backend. A 2xx acknowledges the delivery; anything else makes slack
// redeliver, which is what we want when the event couldn't be queued
func (s *Server) handleEvent(w http.ResponseWriter, r *http.Request) {
	body, ok := s.verifiedBody(w, r)
	if !ok {
		return
	}

	parsed, err := slackevents.ParseEvent(json.RawMessage(body), slackevents.OptionNoVerifyToken())
	if err != nil {
		s.log.Printf("Error parsing event payload: %v\n", err)
		http.Error(w, `{"error":"invalid event payload"}`, http.StatusBadRequest)
		return
	}

	switch parsed.Type {
	case slackevents.URLVerification:
		var challenge slackevents.ChallengeResponse
		if err := json.Unmarshal(body, &challenge); err != nil {
			http.Error(w, `{"error":"invalid challenge"}`, http.StatusBadRequest)
			return
		}

		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte(challenge.Challenge))
	case slackevents.CallbackEvent:
		e := slackrelay.NewEventFromCallback(parsed)
		if e == nil {
			s.log.Debugf("Ignoring callback of type [%s]\n", parsed.InnerEvent.Type)
			w.WriteHeader(http.StatusOK)
			return
		}

		if err := s.backend.HandleEvent(e); err != nil {
			s.log.Printf("Error accepting event [%s]: %v\n", e, err)
			http.Error(w, `{"error":"event not accepted"}`, http.StatusServiceUnavailable)
			return
		}

		w.WriteHeader(http.StatusOK)
	default:
		s.log.Debugf("Ignoring delivery of type [%s]\n", parsed.Type)
		w.WriteHeader(http.StatusOK)
	}
}

// verifiedBody reads the request body and authenticates it against the signing
// secret. When it returns ok false, the rejection status has already been
// written out
func (s *Server) verifiedBody(w http.ResponseWriter, r *http.Request) (body []byte, ok bool) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, `{"error":"error reading body"}`, http.StatusBadRequest)
		return nil, false
	}

	sv, err := slack.NewSecretsVerifier(r.Header, s.signingSecret)
	if err != nil {
		s.log.Debugf("Rejecting request with invalid signature headers: %v\n", err)
		http.Error(w, `{"error":"invalid signature"}`, http.StatusUnauthorized)
		return nil, false
	}

	if _, err = sv.Write(body); err != nil {
		http.Error(w, `{"error":"error verifying signature"}`, http.StatusInternalServerError)
		return nil, false
	}

	if err = sv.Ensure(); err != nil {
		s.log.Debugf("Rejecting request with signature mismatch: %v\n", err)
		http.Error(w, `{"error":"invalid signature"}`, http.StatusUnauthorized)
		return nil, false
	}

	return body, true
}
