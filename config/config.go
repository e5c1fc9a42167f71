// Package config provides the slackrelay configuration keys along with
// convenience functions to load and access configuration values
package config

import (
	"fmt"
	"github.com/pkg/errors"
	"github.com/spf13/cast"
	"github.com/spf13/viper"
	"time"
)

// Configuration keys. All keys can also be set via environment variables using the
// prefix set on the viper instance by the main command (i.e. SLACKRELAY_DEBUG)
const (
	// DebugKey is the key for the debug mode, boolean value
	DebugKey = "debug"
	// TokenKey is the key for the slack bot API token, string value
	TokenKey = "token"
	// SigningSecretKey is the key for the slack signing secret used to authenticate
	// inbound webhook payloads, string value
	SigningSecretKey = "signingSecret"
	// HTTPPortKey is the key for the HTTP listening port, int value
	HTTPPortKey = "httpPort"
	// TimeLocationKey is the key for the time location of the background job scheduler, string value
	TimeLocationKey = "timeLocation"
	// MaxAgeHandledMessages is the key for the time-to-live of deduplication records, duration value.
	// An event identity or content hash older than this is purged and may be processed again
	MaxAgeHandledMessages = "maxAgeHandledMessages"
	// DMChannelCacheSizeKey is the key for the number of entries to keep in the direct message
	// channel cache, int value. Defaults to no caching
	DMChannelCacheSizeKey = "dmChannelCacheSize"
	// StoragePathKey is the key for the directory holding leveldb-backed deduplication state,
	// string value. Only used when DedupBackendKey is set to leveldb
	StoragePathKey = "storagePath"
	// DedupBackendKey is the key for the deduplication state backend, one of "memory", "leveldb"
	// or "datastore", string value. The default in-memory backend is appropriate for a single
	// instance while datastore allows the deduplication state to be shared by many
	DedupBackendKey = "dedupBackend"
	// GCloudProjectIDKey is the key for the google cloud project id used by the datastore
	// deduplication backend, string value
	GCloudProjectIDKey = "gcloudProjectID"
	// PluginsKey is the key for the ordered list of plugin configurations
	PluginsKey = "plugins"
	// MessageProcessingPartitionCount is the key for the number of concurrent processing
	// partitions of the event queue, int value. Must be a power of two
	MessageProcessingPartitionCount = "advanced.messageProcessingPartitionCount"
	// MessageProcessingBufferedMessageCount is the key for the buffer size of each queue
	// partition, int value
	MessageProcessingBufferedMessageCount = "advanced.messageProcessingBufferedMessageCount"
	// DedupSweepIntervalMinutes is the key for the interval, in minutes, of the background
	// sweep purging expired deduplication records, int value
	DedupSweepIntervalMinutes = "advanced.dedupSweepIntervalMinutes"
)

// Deduplication backend values
const (
	MemoryBackend    = "memory"
	LevelDBBackend   = "leveldb"
	DatastoreBackend = "datastore"
)

// PluginConfig holds the configuration of one plugin entry: the name binding it to a
// registered implementation, its triggering patterns and arbitrary extra configuration
type PluginConfig struct {
	Name        string
	Enabled     bool
	Patterns    []string
	PatternType string
	Config      map[string]interface{}
}

// GetString returns the string value of an extra configuration attribute
func (c *PluginConfig) GetString(key string) string {
	return cast.ToString(c.Config[key])
}

// GetInt returns the int value of an extra configuration attribute
func (c *PluginConfig) GetInt(key string) int {
	return cast.ToInt(c.Config[key])
}

// GetBool returns the boolean value of an extra configuration attribute
func (c *PluginConfig) GetBool(key string) bool {
	return cast.ToBool(c.Config[key])
}

// IsSet returns whether or not an extra configuration attribute is set
func (c *PluginConfig) IsSet(key string) bool {
	_, ok := c.Config[key]
	return ok
}

// NewViperWithDefaults creates a new viper instance with all defaults set
func NewViperWithDefaults() (v *viper.Viper) {
	v = viper.New()
	v = LayerConfigWithDefaults(v)

	return v
}

// LayerConfigWithDefaults layers the default values over the given viper instance leaving
// values already set untouched
func LayerConfigWithDefaults(v *viper.Viper) *viper.Viper {
	v.SetDefault(DebugKey, false)
	v.SetDefault(HTTPPortKey, 8080)
	v.SetDefault(TimeLocationKey, "Local")
	v.SetDefault(MaxAgeHandledMessages, time.Duration(5)*time.Minute)
	v.SetDefault(DMChannelCacheSizeKey, 0)
	v.SetDefault(DedupBackendKey, MemoryBackend)
	v.SetDefault(MessageProcessingPartitionCount, 16)
	v.SetDefault(MessageProcessingBufferedMessageCount, 10)
	v.SetDefault(DedupSweepIntervalMinutes, 1)

	return v
}

// GetTimeLocation parses the TimeLocationKey value and returns the time.Location to use
// when scheduling background jobs
func GetTimeLocation(v *viper.Viper) (timeLoc *time.Location, err error) {
	timeLocationId := v.GetString(TimeLocationKey)

	timeLoc, err = time.LoadLocation(timeLocationId)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid time location [%s]", timeLocationId)
	}

	return timeLoc, nil
}

// GetPluginConfigs returns the ordered list of plugin configurations under PluginsKey.
// The order of the list is significant: the first configured plugin with a matching
// pattern handles a message. A missing or malformed plugins attribute is an error since
// a bot without its plugin list is not functional.
//
// Per-entry defaults follow the declarative source: enabled defaults to true and
// patternType defaults to literal when unset
func GetPluginConfigs(v *viper.Viper) (configs []PluginConfig, err error) {
	if !v.IsSet(PluginsKey) {
		return nil, fmt.Errorf("Missing plugin configurations at key [%s]", PluginsKey)
	}

	raw, err := cast.ToSliceE(v.Get(PluginsKey))
	if err != nil {
		return nil, errors.Wrapf(err, "Invalid plugin configurations at key [%s]", PluginsKey)
	}

	configs = make([]PluginConfig, 0, len(raw))
	for i, entry := range raw {
		m, err := cast.ToStringMapE(entry)
		if err != nil {
			return nil, errors.Wrapf(err, "Invalid plugin configuration at index [%d]", i)
		}

		c := PluginConfig{Name: cast.ToString(m["name"]), Enabled: true, PatternType: "literal"}

		if enabled, ok := m["enabled"]; ok {
			c.Enabled = cast.ToBool(enabled)
		}

		if patternType, ok := m["pattern_type"]; ok {
			c.PatternType = cast.ToString(patternType)
		}

		c.Patterns = cast.ToStringSlice(m["patterns"])
		c.Config = cast.ToStringMap(m["config"])

		configs = append(configs, c)
	}

	return configs, nil
}
