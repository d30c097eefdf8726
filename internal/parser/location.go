package parser

import (
	"regexp"
	"sort"
	"strings"
)

// Location is the best-effort merchant location inferred from a charge
// description. Location is "City PROVINCE" and is only set when both parts
// resolved; a province with no city, and a fully empty result, are both
// valid outcomes.
type Location struct {
	Location string
	City     string
	Province string
}

const provinceAlternation = `ON|QC|BC|AB|MB|SK|NB|NS|NL|PE|YT|NT|NU`

var provinceCodes = []string{
	"ON", "QC", "BC", "AB", "MB", "SK", "NB", "NS", "NL", "PE", "YT", "NT", "NU",
}

// cityNames is the gazetteer of merchant cities seen on real statements.
// Extend it as new ones show up.
var cityNames = []string{
	// ON
	"NIAGARA FALLS", "RICHMOND HILL", "STONEY CREEK",
	"MISSISSAUGA", "ETOBICOKE", "WOODBRIDGE", "DESERONTO",
	"BRAMPTON", "OTTAWA", "NEPEAN", "TORONTO", "MARKHAM", "KANATA", "ORLEANS",
	// QC
	"SAINT GABRIEL", "MONTREAL", "WAKEFIELD",
	// AB
	"CALGARY",
	// NS
	"HALIFAX",
	// NB
	"FREDERICTON",
}

// gazetteer is cityNames sorted longest-first; gazetteerNoSpace holds the
// same entries with spaces removed, index-aligned, for glued-text matching.
var gazetteer = func() []string {
	cities := append([]string(nil), cityNames...)
	sort.SliceStable(cities, func(i, j int) bool { return len(cities[i]) > len(cities[j]) })
	return cities
}()

var gazetteerNoSpace = func() []string {
	flat := make([]string, len(gazetteer))
	for i, c := range gazetteer {
		flat[i] = strings.ReplaceAll(c, " ", "")
	}
	return flat
}()

// cityStoplist holds brand and noise tokens that look like trailing city
// names but are not. False positives here are worse than false negatives.
var cityStoplist = map[string]bool{
	"STORE": true, "SUPERCENTER": true, "AMAZON": true, "AMAZONCA": true,
	"WWW": true, "HTTPS": true, "HTTP": true, "UBER": true, "UBERCOM": true,
	"GOOGLE": true, "YOUTUBE": true, "G": true, "CO": true, "HELPPAY": true,
	"AIRBNB": true, "WESTJET": true, "INC": true, "LTD": true, "COMP": true,
	"COM": true, "ONLINE": true,
	"SUPERCENTEROTTAWA": true, "SUPERCENTERNEPEAN": true, "COMPMONTREAL": true,
	"INCTORONTO": true, "CKANATA": true,
	"AMAZONCAON": true, "UBERON": true, "HTTPSWWW": true,
}

// joinerWords are second tokens of two-word cities; checked first so that
// "NIAGARA FALLS" is not truncated to "FALLS".
var joinerWords = map[string]bool{"CREEK": true, "FALLS": true, "HILL": true}

// domainHints mark URL/vendor/phone tails whose trailing tokens are
// unreliable for city inference.
var domainHints = []string{
	"WWW", "HTTP", "HTTPS", ".COM", ".CA", "/", "G.CO", "GOOGLE", "AMAZON", "UBER",
}

type locationMode int

const (
	modeNone locationMode = iota
	modeSpace
	modeHyphen
	modeDomain
	modeGluedCity
)

// provinceMatch is the uniform result shape of the four province-detection
// strategies.
type provinceMatch struct {
	matched  bool
	start    int // index in the input where the matched suffix begins
	province string
	mode     locationMode
	fragment string // hyphen mode: truncated city letters glued before the code
}

var (
	spaceProvincePattern = regexp.MustCompile(`\s(` + provinceAlternation + `)\s*$`)
	// Merchant codes truncate the city and glue the province with a dash
	// ("MID-HNS"); up to two leftover city letters may sit between them.
	hyphenProvincePattern = regexp.MustCompile(`-([A-Z]{0,2}?)(` + provinceAlternation + `)\s*$`)
	tailProvincePattern   = regexp.MustCompile(`(` + provinceAlternation + `)\s*$`)

	nonLetterPattern  = regexp.MustCompile(`[^A-Z\s]`)
	lettersRunPattern = regexp.MustCompile(`[^A-Z]`)
	alphaTokenPattern = regexp.MustCompile(`^[A-Z]+$`)

	// Prefixes that stick to city names in flattened URLs
	// ("ONLINEOTTAWA", "HTTPSWWWGOOGLE...").
	degluePattern = regexp.MustCompile(`(HTTPSWWW|HTTPS|HTTP|WWW|G\.?CO/HELPPAY|ONLINE)([A-Z])`)
)

func lettersOnly(s string) string {
	return lettersRunPattern.ReplaceAllString(strings.ToUpper(s), "")
}

// detectProvince runs the ordered detection strategies against an
// upper-cased description; the first match wins.
func detectProvince(u string) provinceMatch {
	// 1) Safe: whitespace before the code.
	if m := spaceProvincePattern.FindStringSubmatchIndex(u); m != nil {
		return provinceMatch{matched: true, start: m[0], province: u[m[2]:m[3]], mode: modeSpace}
	}

	// 2) Hyphen-glued: ...-EON, ...-HNS.
	if m := hyphenProvincePattern.FindStringSubmatchIndex(u); m != nil {
		return provinceMatch{
			matched:  true,
			start:    m[0],
			province: u[m[4]:m[5]],
			mode:     modeHyphen,
			fragment: u[m[2]:m[3]],
		}
	}

	// 3) Domain/brand tails: accept a trailing code but flag the mode so the
	// caller suppresses last-token city guessing.
	for _, hint := range domainHints {
		if strings.Contains(u, hint) {
			if m := tailProvincePattern.FindStringSubmatchIndex(u); m != nil {
				return provinceMatch{matched: true, start: m[0], province: u[m[2]:m[3]], mode: modeDomain}
			}
			break
		}
	}

	// 4) Glued city+province with no separator: "NIAGARA FALLSON".
	for _, prov := range provinceCodes {
		if !strings.HasSuffix(u, prov) {
			continue
		}
		before := strings.TrimRight(u[:len(u)-len(prov)], " ")
		letters := lettersOnly(before)
		for _, cityFlat := range gazetteerNoSpace {
			if strings.HasSuffix(letters, cityFlat) {
				return provinceMatch{matched: true, start: len(before), province: prov, mode: modeGluedCity}
			}
		}
	}

	return provinceMatch{}
}

// pickCityFromTokens applies the last-token heuristics to the alphabetic
// tail preceding the province code.
func pickCityFromTokens(toks []string) string {
	// Two-word joiners first, so two-word cities survive intact.
	if len(toks) >= 2 && joinerWords[toks[len(toks)-1]] && alphaTokenPattern.MatchString(toks[len(toks)-2]) {
		return toks[len(toks)-2] + " " + toks[len(toks)-1]
	}

	if len(toks) == 0 {
		return ""
	}
	last := toks[len(toks)-1]
	if cityStoplist[last] || !alphaTokenPattern.MatchString(last) {
		return ""
	}
	// Single letters and two-letter scraps near domain or phone tails are
	// never cities.
	if len(last) < 3 {
		return ""
	}
	// Repair glued cases like "RESTAURBRAMPTON".
	for i, city := range gazetteer {
		if strings.HasSuffix(last, gazetteerNoSpace[i]) || strings.Contains(last, city) {
			return city
		}
	}
	return last
}

// ExtractLocation infers (location, city, province) from an already
// category-stripped charge description. An empty city next to a valid
// province is acceptable, a wrong city is not.
func ExtractLocation(desc string) Location {
	u := strings.ToUpper(strings.TrimSpace(desc))

	m := detectProvince(u)
	if !m.matched {
		return Location{}
	}

	// Text before the province token, with glued URL prefixes broken off.
	tail := strings.TrimRight(u[:m.start], " ")
	tail = degluePattern.ReplaceAllString(tail, " $2")
	tail = strings.ReplaceAll(tail, "UBERCOM", "UBER COM")
	tail = strings.ReplaceAll(tail, "AMAZON.CA", "AMAZON CA")

	alpha := collapseWhitespace(nonLetterPattern.ReplaceAllString(tail, " "))
	toks := strings.Fields(alpha)

	city := ""
	if m.mode != modeDomain {
		city = pickCityFromTokens(toks)
	}

	// Heuristic came up empty or noisy: scan the whole alphabetic tail for
	// the longest known city.
	if city == "" || cityStoplist[city] {
		for _, known := range gazetteer {
			if strings.Contains(alpha, known) {
				city = known
				break
			}
		}
	}

	// NS merchant codes routinely swallow Halifax; prefer it whenever the
	// tail (or the hyphen-glued fragment) points at it, whatever an earlier
	// heuristic produced.
	if m.province == "NS" {
		if strings.Contains(alpha, "HALIFAX") || (m.fragment != "" && strings.HasPrefix("HALIFAX", m.fragment)) {
			city = "HALIFAX"
		}
	}

	if city == "" || cityStoplist[city] {
		return Location{Province: m.province}
	}

	normalized := titleCase(city)
	return Location{
		Location: normalized + " " + m.province,
		City:     normalized,
		Province: m.province,
	}
}
