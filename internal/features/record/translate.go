package record

import (
	"regexp"

	"go-console/internal/common/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Translate converts a portable filter document into a Mongo filter.
// Shapes handled per field: exact scalar, list membership, substring
// {"contains": s}, bounds {">=": a, "<=": b}, and the top-level "or"/"and"
// groups of nested documents.
func Translate(doc models.FilterDocument) bson.M {
	out := bson.M{}
	for key, val := range doc {
		switch key {
		case "or":
			out["$or"] = translateGroup(val)
		case "and":
			out["$and"] = translateGroup(val)
		default:
			out[key] = translateValue(val)
		}
	}
	return out
}

func translateGroup(val interface{}) []bson.M {
	var group []bson.M
	switch list := val.(type) {
	case []interface{}:
		for _, item := range list {
			if sub, ok := item.(map[string]interface{}); ok {
				group = append(group, Translate(models.FilterDocument(sub)))
			}
		}
	case []map[string]interface{}:
		for _, sub := range list {
			group = append(group, Translate(models.FilterDocument(sub)))
		}
	case []models.FilterDocument:
		for _, sub := range list {
			group = append(group, Translate(sub))
		}
	}
	return group
}

func translateValue(val interface{}) interface{} {
	switch v := val.(type) {
	case map[string]interface{}:
		if s, ok := v["contains"].(string); ok {
			return primitive.Regex{Pattern: regexp.QuoteMeta(s), Options: "i"}
		}
		cond := bson.M{}
		for op, operand := range v {
			switch op {
			case ">=":
				cond["$gte"] = operand
			case "<=":
				cond["$lte"] = operand
			case ">":
				cond["$gt"] = operand
			case "<":
				cond["$lt"] = operand
			case "!=":
				cond["$ne"] = operand
			default:
				cond[op] = operand
			}
		}
		return cond
	case []interface{}:
		return bson.M{"$in": v}
	case []string:
		return bson.M{"$in": v}
	default:
		return val
	}
}
