package providers

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/birdahonk/fantasy-football-sub001/internal/resolver"
)

// Yahoo's fantasy_content JSON nests every entity in arrays of single-key
// attribute objects. Rather than mirror that shape in structs, the parser
// walks the tree, flattens each "player" entity's attribute groups into one
// map, and lifts out the typed fields the resolver needs. This is the only
// place duck-typed traversal is allowed; nothing past this boundary sees raw
// JSON.

func parseYahooPlayers(raw map[string]interface{}) []resolver.ProviderRecord {
	var flats []map[string]interface{}
	collectYahooEntities(raw, "player", &flats)

	records := make([]resolver.ProviderRecord, 0, len(flats))
	seen := make(map[string]struct{}, len(flats))
	for _, flat := range flats {
		record, ok := yahooRecordFromAttrs(flat)
		if !ok {
			continue
		}
		if _, dup := seen[record.ProviderID]; dup {
			continue
		}
		seen[record.ProviderID] = struct{}{}
		records = append(records, record)
	}
	return records
}

// collectYahooEntities walks the decoded tree, flattening each subtree found
// under the given entity key. Map keys are visited in sorted order (Yahoo
// keys its collections "0", "1", ...) so directory order stays deterministic
// across runs.
func collectYahooEntities(node interface{}, entity string, out *[]map[string]interface{}) {
	switch v := node.(type) {
	case map[string]interface{}:
		keys := make([]string, 0, len(v))
		for key := range v {
			keys = append(keys, key)
		}
		sort.Slice(keys, func(i, j int) bool { return yahooKeyLess(keys[i], keys[j]) })
		for _, key := range keys {
			child := v[key]
			if key == entity {
				flat := make(map[string]interface{})
				flattenYahooAttrs(child, flat)
				if len(flat) > 0 {
					*out = append(*out, flat)
				}
				continue
			}
			collectYahooEntities(child, entity, out)
		}
	case []interface{}:
		for _, child := range v {
			collectYahooEntities(child, entity, out)
		}
	}
}

// yahooKeyLess orders numeric collection keys numerically and everything
// else lexically.
func yahooKeyLess(a, b string) bool {
	ai, aErr := strconv.Atoi(a)
	bi, bErr := strconv.Atoi(b)
	if aErr == nil && bErr == nil {
		return ai < bi
	}
	return a < b
}

// flattenYahooAttrs merges an entity's attribute-group arrays into one map.
// Later duplicates never overwrite: the first (outermost) value wins.
func flattenYahooAttrs(node interface{}, flat map[string]interface{}) {
	switch v := node.(type) {
	case []interface{}:
		for _, child := range v {
			flattenYahooAttrs(child, flat)
		}
	case map[string]interface{}:
		for key, child := range v {
			if _, exists := flat[key]; !exists {
				flat[key] = child
			}
		}
	}
}

func yahooRecordFromAttrs(flat map[string]interface{}) (resolver.ProviderRecord, bool) {
	playerID := yahooString(flat["player_id"])
	if playerID == "" {
		return resolver.ProviderRecord{}, false
	}

	fullName := ""
	if name, ok := flat["name"].(map[string]interface{}); ok {
		fullName = yahooString(name["full"])
	}
	if fullName == "" {
		return resolver.ProviderRecord{}, false
	}

	payload := make(map[string]string)
	if key := yahooString(flat["player_key"]); key != "" {
		payload["player_key"] = key
	}
	if status := yahooString(flat["status"]); status != "" {
		payload[resolver.PayloadInjuryStatus] = status
	}
	if bye, ok := flat["bye_weeks"].(map[string]interface{}); ok {
		if week := yahooString(bye["week"]); week != "" {
			payload[resolver.PayloadByeWeek] = week
		}
	}
	if points, ok := flat["player_projected_points"].(map[string]interface{}); ok {
		if total := yahooString(points["total"]); total != "" {
			payload[resolver.PayloadProjectedPoints] = total
		}
	}

	position := yahooString(flat["display_position"])
	if position == "" {
		position = yahooString(flat["primary_position"])
	}

	return resolver.ProviderRecord{
		ProviderID: playerID,
		FullName:   fullName,
		TeamAbbr:   yahooString(flat["editorial_team_abbr"]),
		Position:   position,
		Payload:    payload,
	}, true
}

// yahooString renders Yahoo's string-or-number scalar values as strings.
func yahooString(v interface{}) string {
	switch value := v.(type) {
	case string:
		return value
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	case int:
		return strconv.Itoa(value)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", value)
	}
}
