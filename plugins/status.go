package plugins

import (
	"fmt"
	"github.com/alexandre-normand/slackrelay"
	"github.com/alexandre-normand/slackrelay/config"
	"runtime"
	"strings"
	"time"
)

const (
	// StatusPluginName holds the identifying name for the status plugin
	StatusPluginName = "status"
)

// Status holds the plugin data for the status plugin
type Status struct {
	basePlugin
	startTime time.Time
	nowFunc   func() time.Time
}

// NewStatus creates a new instance of the status plugin. The reported uptime
// starts when the plugin is loaded
func NewStatus(c *config.PluginConfig) (p slackrelay.Plugin, err error) {
	s := new(Status)
	s.name = StatusPluginName
	s.help = "`status` - Reply with the bot's uptime and runtime vitals"
	s.patterns = patternsFromConfig(c, []slackrelay.Pattern{{Value: "status", Kind: slackrelay.LiteralPattern}, {Value: "health", Kind: slackrelay.LiteralPattern}})
	s.nowFunc = time.Now
	s.startTime = s.nowFunc()

	return s, nil
}

// Process replies with the bot's version, uptime and runtime vitals
func (s *Status) Process(e *slackrelay.Event, matched string) (a *slackrelay.Answer, err error) {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	uptime := s.nowFunc().Sub(s.startTime).Round(time.Second)

	var b strings.Builder
	fmt.Fprintf(&b, "✅ All good, I've been up `%s`\n", uptime)
	fmt.Fprintf(&b, "• Version: `%s`\n", slackrelay.VERSION)
	fmt.Fprintf(&b, "• Goroutines: `%d`\n", runtime.NumGoroutine())
	fmt.Fprintf(&b, "• Memory in use: `%.1f MiB`\n", float64(memStats.Alloc)/1024.0/1024.0)

	return &slackrelay.Answer{Text: b.String()}, nil
}
