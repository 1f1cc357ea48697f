package cmd

import (
	"strconv"
	"strings"

	"github.com/kicad-go/eda-importers/pkg/schematic"
)

// cLocale parses numeric tokens as plain Go float syntax, the "C"
// locale §9's Open Question settles on as the parser's built-in
// default.
type cLocale struct{}

func (cLocale) ParseFloat(s string) (float64, error) { return strconv.ParseFloat(s, 64) }

// commaLocale accepts a comma decimal separator, for config files
// whose numeric_locale names a European convention instead of "C".
type commaLocale struct{}

func (commaLocale) ParseFloat(s string) (float64, error) {
	return strconv.ParseFloat(strings.Replace(s, ",", ".", 1), 64)
}

// localeFor maps internal/config's NumericLocale string onto a
// schematic.LocaleAdapter; unrecognized names fall back to "C" rather
// than failing the whole command over a config typo.
func localeFor(name string) schematic.LocaleAdapter {
	switch name {
	case "comma", "de", "fr":
		return commaLocale{}
	default:
		return cLocale{}
	}
}
