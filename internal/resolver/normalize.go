package resolver

import (
	"sort"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

// canonicalTeams is the canonical abbreviation set all providers normalize
// into. Washington is WSH, Jacksonville is JAX, the Raiders are LV.
var canonicalTeams = map[string]struct{}{
	"ARI": {}, "ATL": {}, "BAL": {}, "BUF": {}, "CAR": {}, "CHI": {},
	"CIN": {}, "CLE": {}, "DAL": {}, "DEN": {}, "DET": {}, "GB": {},
	"HOU": {}, "IND": {}, "JAX": {}, "KC": {}, "LAC": {}, "LAR": {},
	"LV": {}, "MIA": {}, "MIN": {}, "NE": {}, "NO": {}, "NYG": {},
	"NYJ": {}, "PHI": {}, "PIT": {}, "SEA": {}, "SF": {}, "TB": {},
	"TEN": {}, "WSH": {},
}

// teamVariants maps spelling drift seen across all providers to canonical
// form. Provider-specific quirks layer on top in providerTeamVariants.
var teamVariants = map[string]string{
	"WAS": "WSH",
	"WFT": "WSH",
	"JAC": "JAX",
	"OAK": "LV",
	"LVR": "LV",
	"SD":  "LAC",
	"STL": "LAR",
	"LA":  "LAR",
	"GNB": "GB",
	"KAN": "KC",
	"NOR": "NO",
	"NWE": "NE",
	"SFO": "SF",
	"TAM": "TB",
	"ARZ": "ARI",
	"CLV": "CLE",
	"HST": "HOU",
	"BLT": "BAL",
}

// providerTeamVariants holds per-provider spellings that differ from the
// shared variant table.
var providerTeamVariants = map[Provider]map[string]string{
	ProviderYahoo: {
		"WAS": "WSH",
		"JAC": "JAX",
	},
	ProviderSleeper: {
		"WAS": "WSH",
	},
	ProviderTank01: {
		// tank01 already uses the canonical set
	},
}

// nicknameGroups lists first-name equivalence classes for the short western
// personal names the providers disagree on.
var nicknameGroups = [][]string{
	{"michael", "mike"},
	{"robert", "rob", "bob", "bobby"},
	{"william", "will", "bill", "billy"},
	{"matthew", "matt"},
	{"christopher", "chris"},
	{"joshua", "josh"},
	{"jacob", "jake"},
	{"daniel", "dan", "danny"},
	{"david", "dave"},
	{"james", "jim", "jimmy"},
	{"thomas", "tom", "tommy"},
	{"anthony", "tony"},
	{"benjamin", "ben"},
	{"zachary", "zach"},
	{"nicholas", "nick"},
	{"alexander", "alex"},
	{"cameron", "cam"},
	{"joseph", "joe", "joey"},
	{"kenneth", "ken", "kenny"},
	{"timothy", "tim"},
	{"jeffrey", "jeff"},
	{"steven", "steve", "stephen"},
	{"gabriel", "gabe"},
	{"samuel", "sam"},
	{"patrick", "pat"},
	{"gregory", "greg"},
	{"jonathan", "jon"},
	{"isaiah", "isiah"},
	{"de'von", "devon"},
}

var nicknameIndex map[string]map[string]struct{}

func init() {
	nicknameIndex = make(map[string]map[string]struct{})
	for _, group := range nicknameGroups {
		for _, name := range group {
			class, ok := nicknameIndex[name]
			if !ok {
				class = make(map[string]struct{})
				nicknameIndex[name] = class
			}
			for _, other := range group {
				class[other] = struct{}{}
			}
		}
	}
}

// Normalizer applies the static normalization tables. The tables themselves
// are immutable; the struct only tracks which unknown abbreviations have
// already been warned about so provider drift is surfaced once per session.
type Normalizer struct {
	logger *logrus.Logger

	mu     sync.Mutex
	warned map[string]struct{}
}

func NewNormalizer(logger *logrus.Logger) *Normalizer {
	return &Normalizer{
		logger: logger,
		warned: make(map[string]struct{}),
	}
}

// NormalizeTeam returns the canonical team abbreviation for a provider's
// spelling. Unknown abbreviations are upper-cased and passed through; the
// first sighting of each unknown value is logged as a soft warning.
func (n *Normalizer) NormalizeTeam(provider Provider, rawAbbr string) string {
	abbr := strings.ToUpper(strings.TrimSpace(rawAbbr))
	if abbr == "" {
		return ""
	}
	if variants, ok := providerTeamVariants[provider]; ok {
		if canonical, ok := variants[abbr]; ok {
			return canonical
		}
	}
	if canonical, ok := teamVariants[abbr]; ok {
		return canonical
	}
	if _, ok := canonicalTeams[abbr]; ok {
		return abbr
	}
	n.warnUnknown(provider, abbr)
	return abbr
}

func (n *Normalizer) warnUnknown(provider Provider, abbr string) {
	key := string(provider) + ":" + abbr
	n.mu.Lock()
	_, seen := n.warned[key]
	if !seen {
		n.warned[key] = struct{}{}
	}
	n.mu.Unlock()
	if !seen && n.logger != nil {
		n.logger.WithFields(logrus.Fields{
			"provider": provider,
			"abbr":     abbr,
		}).Warn("Unknown team abbreviation, passing through")
	}
}

// UnknownAbbrs lists the unrecognized team abbreviations seen from one
// provider this session, sorted.
func (n *Normalizer) UnknownAbbrs(provider Provider) []string {
	prefix := string(provider) + ":"
	n.mu.Lock()
	var abbrs []string
	for key := range n.warned {
		if strings.HasPrefix(key, prefix) {
			abbrs = append(abbrs, strings.TrimPrefix(key, prefix))
		}
	}
	n.mu.Unlock()
	sort.Strings(abbrs)
	return abbrs
}

// NameVariants returns the nickname equivalence class for a first name,
// always including the input itself.
func NameVariants(firstName string) map[string]struct{} {
	name := strings.ToLower(strings.TrimSpace(firstName))
	variants := map[string]struct{}{name: {}}
	if class, ok := nicknameIndex[name]; ok {
		for v := range class {
			variants[v] = struct{}{}
		}
	}
	return variants
}

// nameSuffixes are generational suffixes dropped during name normalization.
var nameSuffixes = map[string]struct{}{
	"jr": {}, "sr": {}, "ii": {}, "iii": {}, "iv": {}, "v": {},
}

var namePunctuation = strings.NewReplacer(".", "", "'", "", "’", "", ",", "")

// NormalizeName lower-cases, strips punctuation and generational suffixes,
// and collapses whitespace.
func NormalizeName(name string) string {
	cleaned := namePunctuation.Replace(strings.ToLower(strings.TrimSpace(name)))
	fields := strings.Fields(cleaned)
	if len(fields) > 1 {
		if _, ok := nameSuffixes[fields[len(fields)-1]]; ok {
			fields = fields[:len(fields)-1]
		}
	}
	return strings.Join(fields, " ")
}

// firstToken returns the first whitespace-separated token of a normalized name.
func firstToken(normalized string) string {
	if i := strings.IndexByte(normalized, ' '); i >= 0 {
		return normalized[:i]
	}
	return normalized
}

// lastToken returns the last whitespace-separated token of a normalized name.
func lastToken(normalized string) string {
	if i := strings.LastIndexByte(normalized, ' '); i >= 0 {
		return normalized[i+1:]
	}
	return normalized
}

// QueryKey computes the canonical cache key for a query: normalized
// (last_name, first_name) plus the canonical team abbreviation.
func (n *Normalizer) QueryKey(q PlayerQuery) CanonicalKey {
	name := NormalizeName(q.DisplayName)
	team := n.NormalizeTeam(q.Source, q.TeamAbbr)
	return CanonicalKey(lastToken(name) + "," + firstToken(name) + ":" + team)
}
