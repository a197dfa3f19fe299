package hidexpr

import (
	"fmt"
	"math"

	"github.com/d5/tengo/v2"
)

// Eval runs a button's hideExpression predicate against a row. The row is
// exposed to the script as the "row" variable and the expression itself is
// a boolean expression over it, e.g.
//
//	row.status == 2 || row.locked
//
// An empty expression never hides. Script errors report as errors rather
// than silently showing or hiding the button.
func Eval(expression string, row map[string]interface{}) (bool, error) {
	if expression == "" {
		return false, nil
	}

	script := tengo.NewScript([]byte("hidden := (" + expression + ")"))
	if err := script.Add("row", sanitize(row)); err != nil {
		return false, fmt.Errorf("failed to bind row: %w", err)
	}

	compiled, err := script.Run()
	if err != nil {
		return false, fmt.Errorf("failed to run hide expression: %w", err)
	}

	return compiled.Get("hidden").Bool(), nil
}

// sanitize reduces a row to values tengo can hold: scalars, strings and
// nested maps/slices of the same.
func sanitize(row map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(row))
	for k, v := range row {
		out[k] = sanitizeValue(v)
	}
	return out
}

func sanitizeValue(v interface{}) interface{} {
	switch t := v.(type) {
	case nil, bool, string, int, int64, []byte:
		return t
	case int32:
		return int64(t)
	case float32:
		return sanitizeValue(float64(t))
	case float64:
		// JSON decodes every number as float64; expose whole numbers as
		// ints so `row.status == 2` compares equal.
		if t == math.Trunc(t) && t >= math.MinInt64 && t <= math.MaxInt64 {
			return int64(t)
		}
		return t
	case map[string]interface{}:
		return sanitize(t)
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, el := range t {
			out[i] = sanitizeValue(el)
		}
		return out
	default:
		return fmt.Sprintf("%v", t)
	}
}
