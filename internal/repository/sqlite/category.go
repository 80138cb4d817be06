package sqlite

import (
	"context"

	"github.com/google/uuid"

	"github.com/noteskit/noteskit/internal/model"
	"github.com/noteskit/noteskit/internal/resource"
)

var categoryTable = table[*model.Category]{
	name:    "categories",
	title:   "category",
	columns: []string{"name", "created_date", "updated_date"},
	values: func(c *model.Category) []any {
		return []any{c.Name, c.CreatedDate, c.UpdatedDate}
	},
	scan: func(row rowScanner) (*model.Category, error) {
		var c model.Category
		var id string
		if err := row.Scan(&id, &c.Name, &c.CreatedDate, &c.UpdatedDate); err != nil {
			return nil, err
		}
		parsed, err := uuid.Parse(id)
		if err != nil {
			return nil, err
		}
		c.ID = parsed
		return &c, nil
	},
	sortColumn:   "updated_date",
	filterColumn: "name",
}

// Categories is the category repository.
type Categories struct {
	db *DB
}

var (
	_ resource.Repository[*model.Category] = (*Categories)(nil)
	_ resource.Sorter[*model.Category]     = (*Categories)(nil)
	_ resource.Filterer[*model.Category]   = (*Categories)(nil)
)

// NewCategories returns the category repository backed by db.
func NewCategories(db *DB) *Categories {
	return &Categories{db: db}
}

func (r *Categories) List(ctx context.Context) ([]*model.Category, error) {
	return categoryTable.list(ctx, r.db.conn)
}

func (r *Categories) Find(ctx context.Context, id uuid.UUID) (*model.Category, error) {
	return categoryTable.find(ctx, r.db.conn, id)
}

func (r *Categories) Insert(ctx context.Context, c *model.Category) error {
	return categoryTable.insert(ctx, r.db.conn, c)
}

func (r *Categories) Update(ctx context.Context, c *model.Category) error {
	return categoryTable.update(ctx, r.db.conn, c)
}

func (r *Categories) Delete(ctx context.Context, id uuid.UUID) (*model.Category, error) {
	return categoryTable.delete(ctx, r.db.conn, id)
}

func (r *Categories) ListSorted(ctx context.Context, ascending bool) ([]*model.Category, error) {
	return categoryTable.listSorted(ctx, r.db.conn, ascending)
}

func (r *Categories) ListFiltered(ctx context.Context, query string, substring bool) ([]*model.Category, error) {
	return categoryTable.listFiltered(ctx, r.db.conn, query, substring)
}
