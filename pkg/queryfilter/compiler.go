package queryfilter

import (
	"strconv"
	"time"

	"go-console/internal/common/models"
)

// Compile converts active filter entries into a backend filter document,
// consulting the page grid for each entry's column metadata. It is a pure
// function of its inputs: the same entries and grid always produce the
// same document. Entries whose field is not in the grid contribute
// nothing.
func Compile(entries []models.FilterEntry, grid []models.ColumnSpec) models.FilterDocument {
	doc := models.FilterDocument{}

	for _, entry := range entries {
		for i := range grid {
			col := &grid[i]
			if col.Field != entry.ID {
				continue
			}

			switch {
			case col.ModelSelect:
				if list := asList(entry.Value); len(list) > 0 {
					doc[entry.ID] = list
				}
			case col.ArraySelect:
				if list := asList(entry.Value); len(list) > 0 {
					doc = appendArrayContains(doc, entry.ID, list)
				} else {
					doc[entry.ID] = contains(entry.Value)
				}
			default:
				compileTyped(doc, col, entry)
			}
		}
	}

	return doc
}

func compileTyped(doc models.FilterDocument, col *models.ColumnSpec, entry models.FilterEntry) {
	switch col.Type {
	case models.ColumnTypeString:
		if col.StringID {
			doc[entry.ID] = entry.Value
		} else {
			doc[entry.ID] = contains(entry.Value)
		}
	case models.ColumnTypeStringID:
		doc[entry.ID] = entry.Value
	case models.ColumnTypeInteger, models.ColumnTypeNumber, models.ColumnTypeBoolean:
		if col.FilterRange {
			lo, hi := asPair(entry.Value)
			rng := map[string]interface{}{}
			if truthy(lo) {
				rng[">="] = toNumber(lo)
			}
			if truthy(hi) {
				rng["<="] = toNumber(hi)
			}
			if len(rng) > 0 {
				doc[entry.ID] = rng
			}
		} else {
			doc[entry.ID] = toNumber(entry.Value)
		}
	case models.ColumnTypeDate:
		if col.FilterRange {
			// Bounds arrive pre-converted to timestamps by the caller.
			lo, hi := asPair(entry.Value)
			rng := map[string]interface{}{}
			if truthy(lo) {
				rng[">="] = lo
			}
			if truthy(hi) {
				rng["<="] = hi
			}
			if len(rng) > 0 {
				doc[entry.ID] = rng
			}
		} else if truthy(entry.Value) {
			start, end := DayBounds(toInt64(entry.Value))
			doc[entry.ID] = map[string]interface{}{">=": start, "<=": end}
		}
	default:
		doc[entry.ID] = contains(entry.Value)
	}
}

// appendArrayContains models "serialized array field contains id" without
// parsing the array: the stored value is a bracket-delimited, comma-joined
// string, so an id appears as [id] (sole element), ,id] (last), [id,
// (first) or ,id, (middle). One OR-group of four containment clauses per
// selected id, all groups collected under the document's "and" list.
func appendArrayContains(doc models.FilterDocument, field string, ids []interface{}) models.FilterDocument {
	group := map[string]interface{}{"or": orClauses(field, ids)}

	var and []interface{}
	if existing, ok := doc["and"].([]interface{}); ok {
		and = existing
	}
	doc["and"] = append(and, group)
	return doc
}

func orClauses(field string, ids []interface{}) []interface{} {
	clauses := make([]interface{}, 0, len(ids)*4)
	for _, id := range ids {
		s := formatScalar(id)
		for _, pattern := range []string{"[" + s + "]", "," + s + "]", "[" + s + ",", "," + s + ","} {
			clauses = append(clauses, map[string]interface{}{
				field: contains(pattern),
			})
		}
	}
	return clauses
}

func contains(v interface{}) map[string]interface{} {
	return map[string]interface{}{"contains": v}
}

// DayBounds expands a millisecond timestamp to the [start, end] of its UTC
// day, inclusive, so a single-day filter matches the whole day.
func DayBounds(ms int64) (int64, int64) {
	t := time.UnixMilli(ms).UTC()
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	end := start.Add(24*time.Hour - time.Millisecond)
	return start.UnixMilli(), end.UnixMilli()
}

func asList(v interface{}) []interface{} {
	list, _ := v.([]interface{})
	return list
}

// asPair splits a two-element bound array into (lower, upper).
func asPair(v interface{}) (interface{}, interface{}) {
	list := asList(v)
	var lo, hi interface{}
	if len(list) > 0 {
		lo = list[0]
	}
	if len(list) > 1 {
		hi = list[1]
	}
	return lo, hi
}

// truthy mirrors the loose presence check the grid uses for bound values:
// nil, empty string, zero and false all count as absent.
func truthy(v interface{}) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return t != ""
	case bool:
		return t
	case float64:
		return t != 0
	case int:
		return t != 0
	case int64:
		return t != 0
	}
	return true
}

func toNumber(v interface{}) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case int:
		return float64(t)
	case int64:
		return float64(t)
	case bool:
		if t {
			return 1
		}
		return 0
	case string:
		f, _ := strconv.ParseFloat(t, 64)
		return f
	}
	return 0
}

func toInt64(v interface{}) int64 {
	switch t := v.(type) {
	case int64:
		return t
	case int:
		return int64(t)
	case float64:
		return int64(t)
	case string:
		i, _ := strconv.ParseInt(t, 10, 64)
		return i
	}
	return 0
}

// formatScalar renders an id for use inside a serialized-array containment
// pattern. Numeric ids must not carry a decimal point.
func formatScalar(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	}
	return ""
}
