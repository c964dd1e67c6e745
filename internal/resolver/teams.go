package resolver

// teamNames maps canonical abbreviations to the team's location name, used
// when fabricating defense records ("Washington Defense").
var teamNames = map[string]string{
	"ARI": "Arizona",
	"ATL": "Atlanta",
	"BAL": "Baltimore",
	"BUF": "Buffalo",
	"CAR": "Carolina",
	"CHI": "Chicago",
	"CIN": "Cincinnati",
	"CLE": "Cleveland",
	"DAL": "Dallas",
	"DEN": "Denver",
	"DET": "Detroit",
	"GB":  "Green Bay",
	"HOU": "Houston",
	"IND": "Indianapolis",
	"JAX": "Jacksonville",
	"KC":  "Kansas City",
	"LAC": "Los Angeles Chargers",
	"LAR": "Los Angeles Rams",
	"LV":  "Las Vegas",
	"MIA": "Miami",
	"MIN": "Minnesota",
	"NE":  "New England",
	"NO":  "New Orleans",
	"NYG": "New York Giants",
	"NYJ": "New York Jets",
	"PHI": "Philadelphia",
	"PIT": "Pittsburgh",
	"SEA": "Seattle",
	"SF":  "San Francisco",
	"TB":  "Tampa Bay",
	"TEN": "Tennessee",
	"WSH": "Washington",
}

// tank01TeamIDs are the numeric team identifiers tank01 assigns, in its
// alphabetical-by-abbreviation order.
var tank01TeamIDs = map[string]string{
	"ARI": "1", "ATL": "2", "BAL": "3", "BUF": "4", "CAR": "5",
	"CHI": "6", "CIN": "7", "CLE": "8", "DAL": "9", "DEN": "10",
	"DET": "11", "GB": "12", "HOU": "13", "IND": "14", "JAX": "15",
	"KC": "16", "LAC": "17", "LAR": "18", "LV": "19", "MIA": "20",
	"MIN": "21", "NE": "22", "NO": "23", "NYG": "24", "NYJ": "25",
	"PHI": "26", "PIT": "27", "SEA": "28", "SF": "29", "TB": "30",
	"TEN": "31", "WSH": "32",
}

// yahooTeamIDs are Yahoo's numeric franchise ids.
var yahooTeamIDs = map[string]string{
	"ARI": "22", "ATL": "1", "BAL": "33", "BUF": "2", "CAR": "29",
	"CHI": "3", "CIN": "4", "CLE": "5", "DAL": "6", "DEN": "7",
	"DET": "8", "GB": "9", "HOU": "34", "IND": "11", "JAX": "30",
	"KC": "12", "LAC": "24", "LAR": "14", "LV": "13", "MIA": "15",
	"MIN": "16", "NE": "17", "NO": "18", "NYG": "19", "NYJ": "20",
	"PHI": "21", "PIT": "23", "SEA": "26", "SF": "25", "TB": "27",
	"TEN": "10", "WSH": "28",
}

// sleeperTeamIDs: Sleeper keys its defense entities by the team abbreviation
// itself rather than a numeric id.
var sleeperTeamIDs = func() map[string]string {
	ids := make(map[string]string, len(teamNames))
	for abbr := range teamNames {
		ids[abbr] = abbr
	}
	return ids
}()

// TeamIDTable returns the canonical-abbreviation → team-id table for a
// provider. The returned map is shared static data; callers must not mutate it.
func TeamIDTable(provider Provider) map[string]string {
	switch provider {
	case ProviderYahoo:
		return yahooTeamIDs
	case ProviderSleeper:
		return sleeperTeamIDs
	case ProviderTank01:
		return tank01TeamIDs
	}
	return nil
}

// TeamName returns the location name for a canonical abbreviation, or ""
// when the abbreviation is unknown.
func TeamName(canonicalAbbr string) string {
	return teamNames[canonicalAbbr]
}
