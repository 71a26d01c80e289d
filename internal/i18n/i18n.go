// Package i18n provides localized printers for CLI output.
package i18n

import (
	"os"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// DefaultLang is the fallback language.
var DefaultLang = language.English

// SupportedLangs are the languages with a message catalog.
var SupportedLangs = []language.Tag{
	language.English,
	language.German,
}

var matcher = language.NewMatcher(SupportedLangs)

// CLI message keys.
const (
	MsgTranslated   = "%d interface(s) translated from %s\n"
	MsgWarnings     = "%d warning(s)\n"
	MsgWarning      = "warning: %s: %s\n"
	MsgFailed       = "translation failed: %v\n"
	MsgCheckOK      = "%s: ok\n"
	MsgMetricsServe = "serving metrics on http://%s/metrics\n"
)

func init() {
	for key, de := range map[string]string{
		MsgTranslated:   "%d Schnittstelle(n) aus %s übersetzt\n",
		MsgWarnings:     "%d Warnung(en)\n",
		MsgWarning:      "Warnung: %s: %s\n",
		MsgFailed:       "Übersetzung fehlgeschlagen: %v\n",
		MsgCheckOK:      "%s: in Ordnung\n",
		MsgMetricsServe: "Metriken unter http://%s/metrics\n",
	} {
		_ = message.SetString(language.German, key, de)
	}
}

// MatchLanguage returns the best supported language for a list of tags in
// Accept-Language or POSIX locale form.
func MatchLanguage(lang string) language.Tag {
	tags, _, _ := language.ParseAcceptLanguage(lang)
	tag, _, _ := matcher.Match(tags...)
	return tag
}

// NewPrinter returns a message printer for the given language.
func NewPrinter(tag language.Tag) *message.Printer {
	return message.NewPrinter(tag)
}

// NewCLIPrinter returns a printer for the locale in LC_ALL, LC_MESSAGES or
// LANG.
func NewCLIPrinter() *message.Printer {
	return message.NewPrinter(localeTag(os.Getenv("LC_ALL"), os.Getenv("LC_MESSAGES"), os.Getenv("LANG")))
}

func localeTag(candidates ...string) language.Tag {
	lang := ""
	for _, c := range candidates {
		if c != "" {
			lang = c
			break
		}
	}
	if lang == "" || lang == "C" || lang == "POSIX" {
		return DefaultLang
	}

	// en_US.UTF-8@euro -> en-US
	if i := strings.IndexAny(lang, ".@"); i != -1 {
		lang = lang[:i]
	}
	lang = strings.ReplaceAll(lang, "_", "-")

	tag, err := language.Parse(lang)
	if err != nil {
		return DefaultLang
	}
	tag, _, _ = matcher.Match(tag)
	return tag
}
