package cli

import (
	"image/color"
	"io"
	"os"

	"charm.land/lipgloss/v2"
	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/x/exp/charmtone"
	"github.com/spf13/pflag"

	"github.com/macropower/pls/pkg/config"
	"github.com/macropower/pls/pkg/format"
)

// ColorSchemeFunc derives the help and error colors from the chroma style set
// in the config, so that they match highlighted output. fang asks for the
// scheme before flags are parsed, so the config path is taken from args with
// [ConfigPathFromArgs].
func ColorSchemeFunc(args []string) fang.ColorSchemeFunc {
	return func(c lipgloss.LightDarkFunc) fang.ColorScheme {
		styleName := format.DefaultStyle

		cl, err := config.NewLoaderFromFile(ConfigPathFromArgs(args))
		if err == nil {
			cfg, err := cl.Load()
			if err == nil {
				styleName = cfg.Output.Style
			}
		}

		return StyleColorScheme(styles.Get(styleName), c)
	}
}

// ConfigPathFromArgs returns the config file named by --config in args, then
// by $PLS_CONFIG, then the default path. Other flags are ignored.
func ConfigPathFromArgs(args []string) string {
	var path string

	fs := pflag.NewFlagSet(cmdName, pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}
	fs.ParseErrorsWhitelist.UnknownFlags = true
	fs.StringVar(&path, "config", "", "")

	_ = fs.Parse(args) //nolint:errcheck // Errors are reported by the real command.

	if path != "" {
		return path
	}
	if env, ok := os.LookupEnv(envName("config")); ok && env != "" {
		return env
	}

	return config.GetPath()
}

// StyleColorScheme builds a [fang.ColorScheme] from a chroma style.
func StyleColorScheme(s *chroma.Style, c lipgloss.LightDarkFunc) fang.ColorScheme {
	pick := func(tt chroma.TokenType, fallback color.Color) color.Color {
		e := s.Get(tt)
		if !e.Colour.IsSet() {
			return fallback
		}

		return lipgloss.Color(e.Colour.String())
	}

	text := pick(chroma.Text, c(charmtone.Charcoal, charmtone.Ash))
	comment := pick(chroma.Comment, charmtone.Squid)
	keyword := pick(chroma.Keyword, charmtone.Charple)
	name := pick(chroma.NameFunction, charmtone.Guac)
	str := pick(chroma.LiteralString, charmtone.Cumin)
	errColor := pick(chroma.GenericDeleted, charmtone.Sriracha)

	return fang.ColorScheme{
		Base:           text,
		Title:          keyword,
		Codeblock:      c(charmtone.Salt, lipgloss.Color("#2F2E36")),
		Program:        name,
		Command:        name,
		DimmedArgument: comment,
		Comment:        comment,
		Flag:           keyword,
		Argument:       text,
		Description:    text,
		FlagDefault:    comment,
		QuotedString:   str,
		ErrorHeader: [2]color.Color{
			charmtone.Butter,
			errColor,
		},
	}
}
