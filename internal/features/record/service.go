package record

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go-console/internal/common/models"
	"go-console/internal/config"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

type RecordService interface {
	PageAPI
}

type RecordServiceImpl struct {
	Repo        RecordRepository
	MaxPageSize int64
	Logger      *zap.Logger
}

func NewRecordService(repo RecordRepository, cfg *config.Config, logger *zap.Logger) RecordService {
	return &RecordServiceImpl{
		Repo:        repo,
		MaxPageSize: cfg.MaxPageSize,
		Logger:      logger,
	}
}

// Call executes a named operation of the page. Read and lookup operations
// take a query payload; update operations take an id plus the fields to set.
func (s *RecordServiceImpl) Call(ctx context.Context, schema *models.PageSchema, opName string, payload map[string]interface{}) (*CallResult, error) {
	op := schema.OperationRef(opName)
	if op == nil {
		return nil, fmt.Errorf("unknown operation %q on page %q", opName, schema.PageID)
	}

	switch op.Kind {
	case models.OperationUpdate:
		return s.update(ctx, op, payload)
	default:
		q := parseQueryInput(payload)
		rows, count, err := s.query(ctx, schema, op, q)
		if err != nil {
			return nil, err
		}
		return &CallResult{Data: rows, Count: count}, nil
	}
}

// Query runs the page's read operation with an already-typed query input.
func (s *RecordServiceImpl) Query(ctx context.Context, schema *models.PageSchema, q models.QueryInput) ([]map[string]interface{}, int64, error) {
	op := schema.OperationRef(schema.Read)
	if op == nil {
		op = &models.Operation{Kind: models.OperationRead, Collection: schema.Collection}
	}
	return s.query(ctx, schema, op, q)
}

func (s *RecordServiceImpl) query(ctx context.Context, schema *models.PageSchema, op *models.Operation, q models.QueryInput) ([]map[string]interface{}, int64, error) {
	collection := op.Collection
	if collection == "" {
		collection = schema.Collection
	}

	filter := Translate(q.Filter)
	sort := s.buildSort(schema, q.Sort)

	limit := q.Limit
	if limit <= 0 || limit > s.MaxPageSize {
		limit = s.MaxPageSize
	}

	rows, err := s.Repo.Find(ctx, collection, filter, sort, q.Skip, limit)
	if err != nil {
		s.Logger.Error("record query failed",
			zap.String("page", schema.PageID),
			zap.String("collection", collection),
			zap.Error(err))
		return nil, 0, err
	}

	count, err := s.Repo.Count(ctx, collection, filter)
	if err != nil {
		return nil, 0, err
	}

	return rows, count, nil
}

func (s *RecordServiceImpl) update(ctx context.Context, op *models.Operation, payload map[string]interface{}) (*CallResult, error) {
	id, ok := payload["id"]
	if !ok {
		return nil, fmt.Errorf("update operation %q requires an id", op.Name)
	}

	set := bson.M{}
	for k, v := range payload {
		if k == "id" {
			continue
		}
		set[k] = v
	}
	if len(set) == 0 {
		return nil, fmt.Errorf("update operation %q has no fields to set", op.Name)
	}

	if err := s.Repo.UpdateByID(ctx, op.Collection, id, set); err != nil {
		s.Logger.Error("record update failed",
			zap.String("collection", op.Collection),
			zap.Any("id", id),
			zap.Error(err))
		return nil, err
	}

	return &CallResult{Message: "updated"}, nil
}

// buildSort compiles the explicit sort terms, falling back to the page's
// default sort string ("field ASC|DESC").
func (s *RecordServiceImpl) buildSort(schema *models.PageSchema, terms []models.SortField) bson.D {
	if len(terms) == 0 && schema.DefaultSort != "" {
		parts := strings.Fields(schema.DefaultSort)
		term := models.SortField{Field: parts[0], Dir: "asc"}
		if len(parts) > 1 && strings.EqualFold(parts[1], "desc") {
			term.Dir = "desc"
		}
		terms = []models.SortField{term}
	}

	sort := bson.D{}
	for _, t := range terms {
		dir := 1
		if strings.EqualFold(t.Dir, "desc") {
			dir = -1
		}
		sort = append(sort, bson.E{Key: t.Field, Value: dir})
	}
	return sort
}

// parseQueryInput decodes the loosely-typed call payload into a query input.
func parseQueryInput(payload map[string]interface{}) models.QueryInput {
	q := models.QueryInput{}

	if doc, ok := payload["queryInput"].(map[string]interface{}); ok {
		q.Filter = models.FilterDocument(doc)
	}
	if raw, ok := payload["sort"].([]interface{}); ok {
		for _, item := range raw {
			term, ok := item.(map[string]interface{})
			if !ok {
				continue
			}
			field, _ := term["field"].(string)
			dir, _ := term["dir"].(string)
			if field != "" {
				q.Sort = append(q.Sort, models.SortField{Field: field, Dir: dir})
			}
		}
	}
	q.Skip = parseInt64(payload["skip"])
	q.Limit = parseInt64(payload["limit"])

	return q
}

func parseInt64(val interface{}) int64 {
	switch v := val.(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case float64:
		return int64(v)
	case string:
		if i, err := strconv.ParseInt(v, 10, 64); err == nil {
			return i
		}
	}
	return 0
}
