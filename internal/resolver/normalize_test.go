package resolver

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func newTestNormalizer() *Normalizer {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return NewNormalizer(logger)
}

func TestNormalizeTeam(t *testing.T) {
	norm := newTestNormalizer()

	tests := []struct {
		name     string
		provider Provider
		raw      string
		expected string
	}{
		{"yahoo washington variant", ProviderYahoo, "WAS", "WSH"},
		{"yahoo jacksonville variant", ProviderYahoo, "JAC", "JAX"},
		{"sleeper washington variant", ProviderSleeper, "WAS", "WSH"},
		{"tank01 already canonical", ProviderTank01, "WSH", "WSH"},
		{"lowercase input", ProviderYahoo, "was", "WSH"},
		{"whitespace trimmed", ProviderSleeper, " TB ", "TB"},
		{"legacy raiders", ProviderSleeper, "OAK", "LV"},
		{"canonical passthrough", ProviderYahoo, "KC", "KC"},
		{"unknown passthrough uppercased", ProviderYahoo, "xyz", "XYZ"},
		{"empty stays empty", ProviderYahoo, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, norm.NormalizeTeam(tt.provider, tt.raw))
		})
	}
}

func TestNormalizeTeamIdempotent(t *testing.T) {
	norm := newTestNormalizer()

	for _, raw := range []string{"WAS", "JAC", "OAK", "KC", "UNKNOWN", "wsh"} {
		for _, provider := range AllProviders {
			once := norm.NormalizeTeam(provider, raw)
			twice := norm.NormalizeTeam(provider, once)
			assert.Equal(t, once, twice, "normalize(%s, %s) should be idempotent", provider, raw)
		}
	}
}

func TestUnknownTeamWarnedOncePerSession(t *testing.T) {
	logger, hook := newCapturedLogger()
	norm := NewNormalizer(logger)

	norm.NormalizeTeam(ProviderYahoo, "ZZZ")
	norm.NormalizeTeam(ProviderYahoo, "ZZZ")
	norm.NormalizeTeam(ProviderYahoo, "ZZZ")
	assert.Equal(t, 1, hook.count("Unknown team abbreviation, passing through"))

	// Distinct unknown value warns again, distinct provider too.
	norm.NormalizeTeam(ProviderYahoo, "QQQ")
	norm.NormalizeTeam(ProviderSleeper, "ZZZ")
	assert.Equal(t, 3, hook.count("Unknown team abbreviation, passing through"))

	assert.Equal(t, []string{"QQQ", "ZZZ"}, norm.UnknownAbbrs(ProviderYahoo))
	assert.Equal(t, []string{"ZZZ"}, norm.UnknownAbbrs(ProviderSleeper))
	assert.Empty(t, norm.UnknownAbbrs(ProviderTank01))
}

func TestNameVariants(t *testing.T) {
	variants := NameVariants("Mike")
	assert.Contains(t, variants, "mike")
	assert.Contains(t, variants, "michael")

	variants = NameVariants("michael")
	assert.Contains(t, variants, "mike")

	// Unknown names still include themselves.
	variants = NameVariants("Jaylen")
	assert.Len(t, variants, 1)
	assert.Contains(t, variants, "jaylen")
}

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		raw      string
		expected string
	}{
		{"Mike Evans", "mike evans"},
		{"  A.J. Brown ", "aj brown"},
		{"Odell Beckham Jr.", "odell beckham"},
		{"Kenneth Walker III", "kenneth walker"},
		{"D'Andre Swift", "dandre swift"},
		{"Amon-Ra St. Brown", "amon-ra st brown"},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, NormalizeName(tt.raw), "raw=%q", tt.raw)
	}
}

func TestQueryKey(t *testing.T) {
	norm := newTestNormalizer()

	a := norm.QueryKey(PlayerQuery{DisplayName: "Mike Evans", TeamAbbr: "TB", Source: ProviderYahoo})
	b := norm.QueryKey(PlayerQuery{DisplayName: "  mike   EVANS ", TeamAbbr: "tb", Source: ProviderYahoo})
	assert.Equal(t, a, b, "spelling variants of the same query must share a key")

	c := norm.QueryKey(PlayerQuery{DisplayName: "Mike Evans", TeamAbbr: "NO", Source: ProviderYahoo})
	assert.NotEqual(t, a, c, "different teams must not collide")
}

func TestTeamIDTable(t *testing.T) {
	assert.Equal(t, "32", TeamIDTable(ProviderTank01)["WSH"])
	assert.Equal(t, "WSH", TeamIDTable(ProviderSleeper)["WSH"])
	assert.NotEmpty(t, TeamIDTable(ProviderYahoo)["WSH"])
	assert.Nil(t, TeamIDTable(Provider("nope")))

	assert.Equal(t, "Washington", TeamName("WSH"))
	assert.Equal(t, "", TeamName("ZZZ"))
}
