package plugins

import (
	"fmt"
	"github.com/alexandre-normand/slackrelay"
	"github.com/alexandre-normand/slackrelay/config"
	"github.com/alexandre-normand/figlet4go"
	"github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
	"regexp"
)

// Configuration keys
const (
	fontPathKey = "fontPath"
	fontNameKey = "fontName"
)

const (
	// BannerPluginName holds the identifying name for the banner plugin
	BannerPluginName = "banner"
)

var bannerWordRegex = regexp.MustCompile(`(?i)banner\s+(\S+)`)

// Banner holds the plugin data for the banner plugin
type Banner struct {
	basePlugin
	renderer *figlet4go.AsciiRender
	options  *figlet4go.RenderOptions
}

// NewBanner creates a new instance of the banner plugin. Without configuration,
// words render with the built-in default font. The fontPath and fontName
// attributes can point the renderer to an alternative figlet font
func NewBanner(c *config.PluginConfig) (p slackrelay.Plugin, err error) {
	b := new(Banner)
	b.name = BannerPluginName
	b.help = "`banner <word>` - Renders a single-word banner in large letters"
	b.patterns = patternsFromConfig(c, []slackrelay.Pattern{{Value: `banner\s+(\S+)`, Kind: slackrelay.RegexPattern}})
	b.renderer = figlet4go.NewAsciiRender()
	b.options = figlet4go.NewRenderOptions()

	if c.IsSet(fontPathKey) {
		fontPath, err := homedir.Expand(c.GetString(fontPathKey))
		if err != nil {
			return nil, errors.Wrapf(err, "[%s] can't expand font path [%s]", BannerPluginName, c.GetString(fontPathKey))
		}

		if err = b.renderer.LoadFont(fontPath); err != nil {
			return nil, errors.Wrapf(err, "[%s] can't load fonts from [%s]", BannerPluginName, fontPath)
		}
	}

	if c.IsSet(fontNameKey) {
		b.options.FontName = c.GetString(fontNameKey)
	}

	return b, nil
}

// Process renders the word following the banner command in large ascii art
func (p *Banner) Process(e *slackrelay.Event, matched string) (a *slackrelay.Answer, err error) {
	parts := bannerWordRegex.FindStringSubmatch(e.Text)
	if len(parts) < 2 {
		return &slackrelay.Answer{Text: "Wrong usage: `banner <word>`"}, nil
	}

	rendered, err := p.renderer.RenderOpts(parts[1], p.options)
	if err != nil {
		return nil, errors.Wrapf(err, "error rendering banner for [%s]", parts[1])
	}

	return &slackrelay.Answer{Text: fmt.Sprintf("```\n%s```", rendered)}, nil
}
