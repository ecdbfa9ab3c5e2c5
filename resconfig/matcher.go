package resconfig

import (
	"golang.org/x/text/language"

	"github.com/joshuapare/resindex/internal/localecache"
)

// languageAliases maps legacy codes to their current spelling. Matching
// treats both spellings as one language.
var languageAliases = map[string]string{
	"iw": "he",
	"ji": "yi",
	"jw": "jv",
	"in": "id",
	"tl": "fil",
}

func canonicalLanguage(lang string) string {
	if c, ok := languageAliases[lang]; ok {
		return c
	}
	return lang
}

func sameLanguage(a, b string) bool {
	return a == b || canonicalLanguage(a) == canonicalLanguage(b)
}

// isPrivateScript reports whether s is in the private use range Qaaa..Qabx.
func isPrivateScript(s string) bool {
	return len(s) == 4 && s >= "Qaaa" && s <= "Qabx"
}

func scriptKnown(s string) bool {
	return s != "" && !isPrivateScript(s)
}

// regionParents holds the parent of a region for languages whose regional
// variants fall back to a macro region before the bare language. Keys are
// a language or "language-Script".
var regionParents = map[string]map[string]string{
	"en": expand(map[string][]string{
		"001": {"150", "AG", "AI", "AU", "BB", "BM", "BS", "BW", "BZ", "CA", "CC", "CK", "CM", "CX", "CY",
			"DG", "DM", "ER", "FJ", "FK", "FM", "GB", "GD", "GG", "GH", "GI", "GM", "GY", "HK", "IE",
			"IL", "IM", "IN", "IO", "JE", "JM", "KE", "KI", "KN", "KY", "LC", "LR", "LS", "MG", "MO",
			"MS", "MT", "MU", "MV", "MW", "MY", "NA", "NF", "NG", "NR", "NU", "NZ", "PG", "PK", "PN",
			"PW", "RW", "SB", "SC", "SD", "SG", "SH", "SL", "SS", "SX", "SZ", "TC", "TK", "TO", "TT",
			"TV", "TZ", "UG", "VC", "VG", "VU", "WS", "ZA", "ZM", "ZW"},
		"150": {"AT", "BE", "CH", "DE", "DK", "FI", "NL", "SE", "SI"},
	}),
	"es": expand(map[string][]string{
		"419": {"AR", "BO", "BR", "BZ", "CL", "CO", "CR", "CU", "DO", "EC", "GT", "HN", "MX", "NI",
			"PA", "PE", "PR", "PY", "SV", "US", "UY", "VE"},
	}),
	"pt": expand(map[string][]string{
		"PT": {"AO", "CH", "CV", "GQ", "GW", "LU", "MO", "MZ", "ST", "TL"},
	}),
	"ar": expand(map[string][]string{
		"015": {"DZ", "EH", "LY", "MA", "TN"},
	}),
	"zh-Hant": {"MO": "HK"},
}

func expand(groups map[string][]string) map[string]string {
	out := make(map[string]string)
	for parent, children := range groups {
		for _, c := range children {
			out[c] = parent
		}
	}
	return out
}

func parentTable(l *Locale) map[string]string {
	lang := canonicalLanguage(l.Language)
	if t, ok := regionParents[lang+"-"+l.Script]; ok {
		return t
	}
	return regionParents[lang]
}

// containsRegion reports whether group is a macro region containing region.
func containsRegion(group, region string) bool {
	g, err := language.ParseRegion(group)
	if err != nil || !g.IsGroup() {
		return false
	}
	r, err := language.ParseRegion(region)
	if err != nil {
		return false
	}
	return g.Contains(r)
}

// matchLocale reports whether candidate is usable for request. A nil side
// or a candidate without language matches anything.
func matchLocale(request, candidate *Locale) bool {
	if request == nil || candidate == nil || candidate.Language == "" {
		return true
	}
	if !sameLanguage(request.Language, candidate.Language) {
		return false
	}
	if scriptKnown(request.Script) && scriptKnown(candidate.Script) {
		return request.Script == candidate.Script
	}
	if candidate.Region == "" || candidate.Region == request.Region {
		return true
	}
	return containsRegion(candidate.Region, request.Region)
}

// Region closeness scores, higher is better.
const (
	regionOther     = 0
	regionSibling   = 1
	regionUnset     = 2
	regionContained = 3
	regionAncestor  = 4
	regionParent    = 5
	regionExact     = 6
)

func regionScore(c, req *Locale) int {
	switch {
	case c.Region == "":
		return regionUnset
	case c.Region == req.Region:
		return regionExact
	case req.Region == "":
		return regionOther
	}
	table := parentTable(req)
	if p, ok := table[req.Region]; ok {
		if p == c.Region {
			return regionParent
		}
		for anc, ok := table[p]; ok; anc, ok = table[anc] {
			if anc == c.Region {
				return regionAncestor
			}
		}
	}
	if table == nil && containsRegion(c.Region, req.Region) {
		return regionContained
	}
	if pc, ok := table[c.Region]; ok && pc == table[req.Region] {
		return regionSibling
	}
	return regionOther
}

// regionDepth counts the parents of region in table.
func regionDepth(table map[string]string, region string) int {
	d := 0
	for p, ok := table[region]; ok && d < 8; p, ok = table[p] {
		d++
	}
	return d
}

// siblingPreference orders regions sharing a parent; earlier wins.
var siblingPreference = map[string][]string{
	"en": {"GB", "AU", "NZ", "CA", "IE", "IN", "ZA", "SG"},
	"es": {"US", "MX"},
}

func preferenceRank(lang, region string) int {
	for i, r := range siblingPreference[canonicalLanguage(lang)] {
		if r == region {
			return i
		}
	}
	return len(siblingPreference[canonicalLanguage(lang)])
}

// likelyRegion returns the default region for the request's language and
// script, e.g. "ES" for es-Latn and "TW" for zh-Hant.
func likelyRegion(l *Locale) string {
	key := "region:" + l.Language + "-" + l.Script
	if e, ok := localecache.Lookup(key); ok {
		return e.Region
	}
	tag := l.Language
	if l.Script != "" {
		tag += "-" + l.Script
	}
	region := ""
	if t, err := language.Parse(tag); err == nil {
		if r, conf := t.Region(); conf != language.No {
			region = r.String()
		}
	}
	localecache.Store(key, localecache.Entry{Language: l.Language, Script: l.Script, Region: region})
	return region
}

// compareRegion ranks the regions of two candidates with the same language
// against req. After closeness the order is: shallower in the parent table,
// the language's default region, sibling preference, letter codes over
// numeric area codes, then the smaller code.
func compareRegion(cur, other, req *Locale) int8 {
	if cur.Region == other.Region {
		return 0
	}
	if r := compareInt(regionScore(cur, req), regionScore(other, req)); r != 0 {
		return r
	}
	table := parentTable(req)
	if r := compareInt(regionDepth(table, other.Region), regionDepth(table, cur.Region)); r != 0 {
		return r
	}
	def := likelyRegion(req)
	if r := compareBool(cur.Region == def, other.Region == def); r != 0 {
		return r
	}
	if r := compareInt(preferenceRank(req.Language, other.Region), preferenceRank(req.Language, cur.Region)); r != 0 {
		return r
	}
	if r := compareBool(!isDigit(cur.Region), !isDigit(other.Region)); r != 0 {
		return r
	}
	if cur.Region < other.Region {
		return 1
	}
	return -1
}

// closeToUSEnglish reports whether region uses American English, i.e. it
// does not descend from the world English region.
func closeToUSEnglish(region string) bool {
	if region == "001" {
		return false
	}
	_, ok := regionParents["en"][region]
	return !ok
}

func hasLanguage(l *Locale) bool { return l != nil && l.Language != "" }

func compareInt(a, b int) int8 {
	switch {
	case a > b:
		return 1
	case a < b:
		return -1
	}
	return 0
}

func compareBool(a, b bool) int8 {
	switch {
	case a == b:
		return 0
	case a:
		return 1
	default:
		return -1
	}
}

// localeMoreSuitable ranks two candidate locales against request: 1 when cur
// is better, -1 when other is, 0 on a tie.
func localeMoreSuitable(cur, other, request *Locale) int8 {
	if !hasLanguage(request) {
		return 0
	}
	curHas, otherHas := hasLanguage(cur), hasLanguage(other)
	if curHas != otherHas {
		// Unqualified resources are American English, so for an en-US like
		// request they beat a world English variant.
		if canonicalLanguage(request.Language) == "en" && closeToUSEnglish(request.Region) {
			if curHas {
				return usEnglishRank(cur.Region)
			}
			return -usEnglishRank(other.Region)
		}
		return compareBool(curHas, otherHas)
	}
	if !curHas {
		return 0
	}
	if r := compareBool(cur.Script == request.Script, other.Script == request.Script); r != 0 {
		return r
	}
	if r := compareRegion(cur, other, request); r != 0 {
		return r
	}
	return compareBool(cur.Language == request.Language, other.Language == request.Language)
}

func usEnglishRank(region string) int8 {
	if region == "" || closeToUSEnglish(region) {
		return 1
	}
	return -1
}

// localeMoreSpecific prefers the locale that sets more of language, script
// and region, in that order.
func localeMoreSpecific(cur, other *Locale) int8 {
	if r := compareBool(hasLanguage(cur), hasLanguage(other)); r != 0 || !hasLanguage(cur) {
		return r
	}
	if r := compareBool(cur.Script != "", other.Script != ""); r != 0 {
		return r
	}
	return compareBool(cur.Region != "", other.Region != "")
}
