package slackrelay

import (
	"github.com/alexandre-normand/slackrelay/config"
	"github.com/hashicorp/golang-lru"
	"github.com/pkg/errors"
	"github.com/slack-go/slack"
	"github.com/spf13/viper"
)

const (
	dmChannelCacheDisabledValue = 0
)

// DMChannelOpener defines the interface for resolving the direct message channel of a user
type DMChannelOpener interface {
	OpenDMChannel(userID string) (channelID string, err error)
}

// cachingDMOpener holds a cache and a conversationOpener to implement the DMChannelOpener
// loading entries from cache so repeat direct message answers to the same user skip the
// conversations.open call
type cachingDMOpener struct {
	opener         conversationOpener
	logger         SLogger
	dmChannelCache *lru.ARCCache
}

// NewCachingDMOpener creates a new direct message channel opener with caching if enabled
// via dmChannelCacheSize. It requires an implementation of the interface that will do the
// actual conversation opening when not in cache
func NewCachingDMOpener(v *viper.Viper, opener conversationOpener, logger SLogger) (dmo DMChannelOpener, err error) {
	cdo := new(cachingDMOpener)

	cs := v.GetInt(config.DMChannelCacheSizeKey)

	if cs > dmChannelCacheDisabledValue {
		cdo.dmChannelCache, err = lru.NewARC(cs)
		if err != nil {
			return nil, err
		}
	}

	cdo.opener = opener
	cdo.logger = logger

	return cdo, nil
}

// OpenDMChannel resolves the direct message channel id for a user, opening the
// conversation through slack when it isn't cached yet
func (c cachingDMOpener) OpenDMChannel(userID string) (channelID string, err error) {
	if c.dmChannelCache == nil {
		c.logger.Debugf("Cache disabled, opening conversation with [%s] from slack instead\n", userID)

		return c.openChannel(userID)
	}

	if id, exists := c.dmChannelCache.Get(userID); exists {
		c.logger.Debugf("DM channel for [%s] in cache so using that\n", userID)

		channelID, ok := id.(string)
		if !ok {
			return "", errors.Errorf("error converting cached value for user id [%s]", userID)
		}

		return channelID, nil
	}

	c.logger.Debugf("DM channel for [%s] not found in cache, opening conversation and saving\n", userID)
	channelID, err = c.openChannel(userID)
	if err != nil {
		return "", err
	}

	c.dmChannelCache.Add(userID, channelID)

	return channelID, nil
}

// openChannel opens the conversation with the user and returns the channel id of
// the direct message conversation
func (c cachingDMOpener) openChannel(userID string) (channelID string, err error) {
	ch, _, _, err := c.opener.OpenConversation(&slack.OpenConversationParameters{Users: []string{userID}, ReturnIM: true})
	if err != nil {
		return "", errors.Wrapf(err, "error opening conversation with user [%s]", userID)
	}

	return ch.ID, nil
}
