package plugins

import (
	"fmt"
	"github.com/alexandre-normand/slackrelay"
	"github.com/alexandre-normand/slackrelay/config"
	"github.com/slack-go/slack"
	"hash/crc32"
	"regexp"
)

const (
	// IncidentPluginName holds the identifying name for the incident plugin
	IncidentPluginName = "incident"
)

var incidentIDRegex = regexp.MustCompile(`(?i)\b(?:incident|inc)\s+#?(\d+)`)

// Simulated incident attributes. The selection for a given incident id is
// deterministic so that repeated lookups of an incident report the same thing
var (
	incidentStatuses   = []string{"Open", "In Progress", "Resolved", "Closed"}
	incidentPriorities = []string{"Low", "Medium", "High", "Critical"}
	incidentAssignees  = []string{"John Doe", "Jane Smith", "Mike Johnson", "Sarah Wilson"}
)

// Incident holds the plugin data for the incident status plugin
type Incident struct {
	basePlugin
}

// NewIncident creates a new instance of the incident status plugin
func NewIncident(c *config.PluginConfig) (p slackrelay.Plugin, err error) {
	i := new(Incident)
	i.name = IncidentPluginName
	i.help = "`incident <id>` - Reply with the status of an incident"
	i.patterns = patternsFromConfig(c, []slackrelay.Pattern{
		{Value: `incident\s+#?(\d+)`, Kind: slackrelay.RegexPattern},
		{Value: `inc\s+#?(\d+)`, Kind: slackrelay.RegexPattern},
	})

	return i, nil
}

// Process looks up the incident id in the message and reports its status. The
// reported attributes are derived from the id itself so that the same incident
// always reports consistently
func (i *Incident) Process(e *slackrelay.Event, matched string) (a *slackrelay.Answer, err error) {
	parts := incidentIDRegex.FindStringSubmatch(e.Text)
	if len(parts) < 2 {
		return &slackrelay.Answer{Text: "Wrong usage: `incident <id>`"}, nil
	}

	id := parts[1]
	seed := crc32.ChecksumIEEE([]byte(id))

	status := incidentStatuses[seed%uint32(len(incidentStatuses))]
	priority := incidentPriorities[(seed>>2)%uint32(len(incidentPriorities))]
	assignee := incidentAssignees[(seed>>4)%uint32(len(incidentAssignees))]

	fields := []*slack.TextBlockObject{
		slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("*Status*\n%s", status), false, false),
		slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("*Priority*\n%s", priority), false, false),
		slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("*Assignee*\n%s", assignee), false, false),
	}

	blocks := []slack.Block{
		slack.NewHeaderBlock(slack.NewTextBlockObject(slack.PlainTextType, fmt.Sprintf("🚨 Incident #%s", id), true, false)),
		slack.NewSectionBlock(nil, fields, nil),
	}

	return &slackrelay.Answer{Text: fmt.Sprintf("Incident #%s: %s (priority %s, assigned to %s)", id, status, priority, assignee), ContentBlocks: blocks}, nil
}
