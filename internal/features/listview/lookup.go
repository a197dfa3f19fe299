package listview

import (
	"context"
	"strconv"
	"strings"

	"go-console/internal/common/models"
	"go-console/internal/features/record"
)

// ResolveLookups scans the fetched rows for foreign ids and issues one batch
// lookup call per column that referenced any. The returned maps fully
// replace the previous fetch cycle's lookups.
func ResolveLookups(ctx context.Context, api record.PageAPI, schema *models.PageSchema, rows []map[string]interface{}) (LookupMaps, error) {
	maps := LookupMaps{
		ModelSelect: map[string][]map[string]interface{}{},
		ArraySelect: map[string][]map[string]interface{}{},
	}

	for i := range schema.Grid {
		col := &schema.Grid[i]
		if col.ModelSelectAPI == "" {
			continue
		}

		var ids []interface{}
		switch {
		case col.ModelSelect:
			ids = collectModelIDs(rows, col.Field)
		case col.ArraySelect:
			ids = collectArrayIDs(rows, col.Field)
		default:
			continue
		}
		if len(ids) == 0 {
			continue
		}

		res, err := api.Call(ctx, schema, col.ModelSelectAPI, map[string]interface{}{
			"queryInput": map[string]interface{}{"id": ids},
		})
		if err != nil {
			return maps, err
		}

		if col.ModelSelect {
			maps.ModelSelect[col.Field] = res.Data
		} else {
			maps.ArraySelect[col.Field] = res.Data
		}
	}

	return maps, nil
}

// collectModelIDs gathers the distinct non-falsy ids a single-reference
// column points at, deduplicated by value equality.
func collectModelIDs(rows []map[string]interface{}, field string) []interface{} {
	var ids []interface{}
	for _, row := range rows {
		v, ok := row[field]
		if !ok || isFalsy(v) {
			continue
		}
		if !containsValue(ids, v) {
			ids = append(ids, v)
		}
	}
	return ids
}

// collectArrayIDs gathers ids from serialized-array values. A row's id list
// is appended whole unless it is already a subset of what was accumulated,
// so duplicates across partially-overlapping rows are possible.
func collectArrayIDs(rows []map[string]interface{}, field string) []interface{} {
	var ids []interface{}
	for _, row := range rows {
		rowIDs := ParseArrayIDs(row[field])
		if len(rowIDs) == 0 {
			continue
		}
		if isSubset(rowIDs, ids) {
			continue
		}
		ids = append(ids, rowIDs...)
	}
	return ids
}

// ParseArrayIDs decodes a bracket-delimited comma-joined id array. Values
// that parse as numbers come back as int64, the rest as trimmed strings.
// Native slices pass through element-wise.
func ParseArrayIDs(v interface{}) []interface{} {
	switch val := v.(type) {
	case nil:
		return nil
	case []interface{}:
		return val
	case string:
		s := strings.TrimSpace(val)
		s = strings.TrimPrefix(s, "[")
		s = strings.TrimSuffix(s, "]")
		if s == "" {
			return nil
		}
		var ids []interface{}
		for _, part := range strings.Split(s, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			if n, err := strconv.ParseInt(part, 10, 64); err == nil {
				ids = append(ids, n)
			} else {
				ids = append(ids, strings.Trim(part, `"`))
			}
		}
		return ids
	default:
		return nil
	}
}

func isSubset(sub, super []interface{}) bool {
	for _, v := range sub {
		if !containsValue(super, v) {
			return false
		}
	}
	return true
}

func containsValue(list []interface{}, v interface{}) bool {
	for _, item := range list {
		if looseEqual(item, v) {
			return true
		}
	}
	return false
}

func isFalsy(v interface{}) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return val == ""
	case bool:
		return !val
	case int, int32, int64, float32, float64:
		return asFloat(v) == 0
	}
	return false
}
