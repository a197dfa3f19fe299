package action

import (
	"strconv"
	"strings"
)

// SubstituteRow fills #key# placeholders with row values in a single pass.
// Used for confirm messages, apiData and modalQuery templates; those carry
// no other placeholder kinds, so a literal $ or @ passes through untouched.
// Substituted content is never re-scanned, so values containing delimiter
// characters cannot spawn new placeholders.
func SubstituteRow(template string, row map[string]interface{}) string {
	var b strings.Builder
	b.Grow(len(template))

	for i := 0; i < len(template); {
		if template[i] != '#' {
			b.WriteByte(template[i])
			i++
			continue
		}
		end := strings.IndexByte(template[i+1:], '#')
		if end < 0 {
			b.WriteString(template[i:])
			break
		}
		b.WriteString(templateValue(row[template[i+1:i+1+end]]))
		i += end + 2
	}
	return b.String()
}

// SubstituteURL fills url placeholders in a single pass: @key@ takes the
// navigation query's value and a bare $ takes the row's id. Row-field
// placeholders do not apply to urls.
func SubstituteURL(template string, row map[string]interface{}, query map[string]string) string {
	var b strings.Builder
	b.Grow(len(template))

	for i := 0; i < len(template); {
		switch template[i] {
		case '@':
			end := strings.IndexByte(template[i+1:], '@')
			if end < 0 {
				b.WriteString(template[i:])
				return b.String()
			}
			b.WriteString(query[template[i+1:i+1+end]])
			i += end + 2
		case '$':
			b.WriteString(templateValue(row["id"]))
			i++
		default:
			b.WriteByte(template[i])
			i++
		}
	}
	return b.String()
}

func templateValue(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case int:
		return strconv.Itoa(val)
	case int32:
		return strconv.FormatInt(int64(val), 10)
	case int64:
		return strconv.FormatInt(val, 10)
	default:
		return ""
	}
}
