package page

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go-console/internal/common/models"
	"go-console/pkg/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrNotFound covers both a missing page and a page the caller's roles
// cannot see. The two cases are indistinguishable to the client.
var ErrNotFound = errors.New("page not found")

type PageService interface {
	// Resolve loads the schema for a page, applying the role gate.
	Resolve(ctx context.Context, pageID string, roles []string) (*models.PageSchema, error)

	CreatePage(ctx context.Context, schema *models.PageSchema) error
	ListPages(ctx context.Context) ([]models.PageSchema, error)
	UpdatePage(ctx context.Context, schema *models.PageSchema) error
	DeletePage(ctx context.Context, pageID string) error

	AddColumn(ctx context.Context, pageID, field string) (*models.PageSchema, error)
	RemoveColumn(ctx context.Context, pageID, field string) (*models.PageSchema, error)
	MoveColumn(ctx context.Context, pageID, field string, dir int) (*models.PageSchema, error)
	CopyColumn(ctx context.Context, pageID, field string) (*models.PageSchema, error)
}

type PageServiceImpl struct {
	Repo PageRepository
}

func NewPageService(repo PageRepository) PageService {
	return &PageServiceImpl{Repo: repo}
}

func (s *PageServiceImpl) Resolve(ctx context.Context, pageID string, roles []string) (*models.PageSchema, error) {
	schema, err := s.Repo.FindByPageID(ctx, pageID)
	if err != nil {
		return nil, ErrNotFound
	}

	if len(schema.Roles) > 0 && !rolesIntersect(schema.Roles, roles) {
		return nil, ErrNotFound
	}

	// Columns gated by role are stripped before the schema leaves the server.
	visible := make([]models.ColumnSpec, 0, len(schema.Grid))
	for _, col := range schema.Grid {
		if len(col.Roles) > 0 && !rolesIntersect(col.Roles, roles) {
			continue
		}
		visible = append(visible, col)
	}
	schema.Grid = visible

	return schema, nil
}

func (s *PageServiceImpl) CreatePage(ctx context.Context, schema *models.PageSchema) error {
	if schema.Name == "" {
		return errors.New("page name is required")
	}
	if schema.PageID == "" {
		schema.PageID = utils.Slugify(schema.Name)
	}
	if schema.Collection == "" {
		return errors.New("page collection is required")
	}

	if _, err := s.Repo.FindByPageID(ctx, schema.PageID); err == nil {
		return fmt.Errorf("page %q already exists", schema.PageID)
	}

	schema.ID = primitive.NewObjectID()
	schema.CreatedAt = time.Now()
	schema.UpdatedAt = time.Now()

	return s.Repo.Create(ctx, schema)
}

func (s *PageServiceImpl) ListPages(ctx context.Context) ([]models.PageSchema, error) {
	return s.Repo.List(ctx)
}

func (s *PageServiceImpl) UpdatePage(ctx context.Context, schema *models.PageSchema) error {
	existing, err := s.Repo.FindByPageID(ctx, schema.PageID)
	if err != nil {
		return ErrNotFound
	}
	schema.ID = existing.ID
	schema.CreatedAt = existing.CreatedAt
	schema.UpdatedAt = time.Now()

	return s.Repo.Update(ctx, schema)
}

func (s *PageServiceImpl) DeletePage(ctx context.Context, pageID string) error {
	if _, err := s.Repo.FindByPageID(ctx, pageID); err != nil {
		return ErrNotFound
	}
	return s.Repo.Delete(ctx, pageID)
}

func (s *PageServiceImpl) AddColumn(ctx context.Context, pageID, field string) (*models.PageSchema, error) {
	return s.editGrid(ctx, pageID, func(schema *models.PageSchema) error {
		if field == "" {
			return errors.New("field is required")
		}
		if schema.Column(field) != nil {
			return fmt.Errorf("column %q already exists", field)
		}
		schema.Grid = append(schema.Grid, defaultColumn(field))
		return nil
	})
}

func (s *PageServiceImpl) RemoveColumn(ctx context.Context, pageID, field string) (*models.PageSchema, error) {
	return s.editGrid(ctx, pageID, func(schema *models.PageSchema) error {
		idx := columnIndex(schema.Grid, field)
		if idx < 0 {
			return fmt.Errorf("column %q not found", field)
		}
		schema.Grid = append(schema.Grid[:idx], schema.Grid[idx+1:]...)
		return nil
	})
}

func (s *PageServiceImpl) MoveColumn(ctx context.Context, pageID, field string, dir int) (*models.PageSchema, error) {
	return s.editGrid(ctx, pageID, func(schema *models.PageSchema) error {
		idx := columnIndex(schema.Grid, field)
		if idx < 0 {
			return fmt.Errorf("column %q not found", field)
		}
		target := idx + dir
		if target < 0 || target >= len(schema.Grid) {
			// Moves past either end are no-ops.
			return nil
		}
		schema.Grid[idx], schema.Grid[target] = schema.Grid[target], schema.Grid[idx]
		return nil
	})
}

func (s *PageServiceImpl) CopyColumn(ctx context.Context, pageID, field string) (*models.PageSchema, error) {
	return s.editGrid(ctx, pageID, func(schema *models.PageSchema) error {
		idx := columnIndex(schema.Grid, field)
		if idx < 0 {
			return fmt.Errorf("column %q not found", field)
		}
		dup := schema.Grid[idx]
		dup.Field = uniqueField(schema.Grid, dup.Field)
		schema.Grid = append(schema.Grid, dup)
		return nil
	})
}

func (s *PageServiceImpl) editGrid(ctx context.Context, pageID string, edit func(*models.PageSchema) error) (*models.PageSchema, error) {
	schema, err := s.Repo.FindByPageID(ctx, pageID)
	if err != nil {
		return nil, ErrNotFound
	}

	if err := edit(schema); err != nil {
		return nil, err
	}

	schema.UpdatedAt = time.Now()
	if err := s.Repo.Update(ctx, schema); err != nil {
		return nil, err
	}
	return schema, nil
}

func columnIndex(grid []models.ColumnSpec, field string) int {
	for i := range grid {
		if grid[i].Field == field {
			return i
		}
	}
	return -1
}

// uniqueField suffixes a copied field name until it no longer collides.
func uniqueField(grid []models.ColumnSpec, field string) string {
	candidate := field + "_copy"
	for i := 2; columnIndex(grid, candidate) >= 0; i++ {
		candidate = fmt.Sprintf("%s_copy%d", field, i)
	}
	return candidate
}

func rolesIntersect(a, b []string) bool {
	for _, x := range a {
		for _, y := range b {
			if x == y {
				return true
			}
		}
	}
	return false
}
