// Package assertplugin provides testing functions to validate a plugin's overall functionality.
// This package is designed to play well but not require the assertanswer package for validation
// of answers
//
// Note that assertplugin's driver is a simplified version of how slackrelay actually drives
// plugins and aims to provide the minimal processing required to allow a plugin to test
// functionality given an incoming event. Users should take special care to include <@botUserID>
// with the same botUserID with which the plugin driver has been instantiated in the event text
// to test mention-style commands
//
// Example:
//    func TestPlugin(t *testing.T) {
//        assertplugin := assertplugin.New("bot")
//        yourPlugin := newPlugin()
//
//        assertplugin.Answers(t, yourPlugin, &slackrelay.Event{Type: slackrelay.AppMentionEvent, User: "U1", Channel: "C1", Timestamp: "1000.00", Text: "<@bot> are you up?"}, func(t *testing.T, answers []*slackrelay.Answer) bool {
// 	          return assert.Len(t, answers, 1) && assertanswer.HasText(t, answers[0], "I'm 😴, you?")
//        }))
//    }
package assertplugin // import "github.com/alexandre-normand/slackrelay/test/assertplugin"
