package resconfig

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"

	"github.com/joshuapare/resindex/internal/localecache"
)

// Locale is a language with optional script and region. Language codes keep
// their legacy spelling ("iw", "in", ...) so exact matches can be preferred
// over alias matches.
type Locale struct {
	Language string
	Script   string
	Region   string
}

// ParseLocale parses tags such as "zh-Hant-TW", "en_US" or "sr-Latn".
// The script is completed from likely subtags when absent.
func ParseLocale(s string) (*Locale, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("resconfig: empty locale")
	}
	parts := strings.FieldsFunc(s, func(r rune) bool { return r == '-' || r == '_' })
	l := &Locale{}
	for i, p := range parts {
		switch {
		case i == 0:
			if len(p) < 2 || len(p) > 3 || !isAlpha(p) {
				return nil, fmt.Errorf("resconfig: invalid language %q in %q", p, s)
			}
			l.Language = strings.ToLower(p)
		case len(p) == 4 && isAlpha(p) && l.Script == "" && l.Region == "":
			l.Script = strings.ToUpper(p[:1]) + strings.ToLower(p[1:])
		case (len(p) == 2 && isAlpha(p)) || (len(p) == 3 && isDigit(p)):
			if l.Region != "" {
				return nil, fmt.Errorf("resconfig: duplicate region in %q", s)
			}
			l.Region = strings.ToUpper(p)
		default:
			return nil, fmt.Errorf("resconfig: unexpected subtag %q in %q", p, s)
		}
	}
	return l.Normalize(), nil
}

// MustParseLocale is like ParseLocale but panics on error. Intended for tests
// and static tables.
func MustParseLocale(s string) *Locale {
	l, err := ParseLocale(s)
	if err != nil {
		panic(err)
	}
	return l
}

// NewLocale builds a normalized locale from parts. An empty language yields nil.
func NewLocale(lang, script, region string) *Locale {
	if lang == "" {
		return nil
	}
	return (&Locale{Language: lang, Script: script, Region: region}).Normalize()
}

// Normalize returns l with its script completed from language and region.
// Unknown languages keep an empty script.
func (l *Locale) Normalize() *Locale {
	if l == nil || l.Script != "" || l.Language == "" {
		return l
	}
	key := l.Language + "-" + l.Script + "-" + l.Region
	if e, ok := localecache.Lookup(key); ok {
		return &Locale{Language: e.Language, Script: e.Script, Region: e.Region}
	}
	out := &Locale{Language: l.Language, Script: likelyScript(l.Language, l.Region), Region: l.Region}
	localecache.Store(key, localecache.Entry{Language: out.Language, Script: out.Script, Region: out.Region})
	return out
}

func likelyScript(lang, region string) string {
	tag := lang
	if region != "" {
		tag += "-" + region
	}
	t, err := language.Parse(tag)
	if err != nil {
		return ""
	}
	sc, conf := t.Script()
	if conf == language.No {
		return ""
	}
	s := sc.String()
	if s == "Zzzz" || isPrivateScript(s) {
		return ""
	}
	return s
}

// String renders the BCP 47 form, e.g. "zh-Hans-CN".
func (l *Locale) String() string {
	if l == nil {
		return ""
	}
	parts := []string{l.Language}
	if l.Script != "" {
		parts = append(parts, l.Script)
	}
	if l.Region != "" {
		parts = append(parts, l.Region)
	}
	return strings.Join(parts, "-")
}

// Equal reports field-wise equality; two nil locales are equal.
func (l *Locale) Equal(o *Locale) bool {
	if l == nil || o == nil {
		return l == o
	}
	return *l == *o
}

func isAlpha(s string) bool {
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			return false
		}
	}
	return true
}

func isDigit(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
