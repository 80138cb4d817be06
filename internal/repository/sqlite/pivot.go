package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/noteskit/noteskit/internal/apperror"
	"github.com/noteskit/noteskit/internal/model"
	"github.com/noteskit/noteskit/internal/resource"
)

var pivotTable = table[*model.NoteCategoryPivot]{
	name:    "note_categories",
	title:   "note category",
	columns: []string{"note_id", "category_id", "created_date", "updated_date"},
	values: func(p *model.NoteCategoryPivot) []any {
		return []any{p.NoteID.String(), p.CategoryID.String(), p.CreatedDate, p.UpdatedDate}
	},
	scan: func(row rowScanner) (*model.NoteCategoryPivot, error) {
		var p model.NoteCategoryPivot
		var id, noteID, categoryID string
		if err := row.Scan(&id, &noteID, &categoryID, &p.CreatedDate, &p.UpdatedDate); err != nil {
			return nil, err
		}
		parsed, err := uuid.Parse(id)
		if err != nil {
			return nil, err
		}
		note, err := uuid.Parse(noteID)
		if err != nil {
			return nil, err
		}
		category, err := uuid.Parse(categoryID)
		if err != nil {
			return nil, err
		}
		p.ID = parsed
		p.NoteID = note
		p.CategoryID = category
		return &p, nil
	},
	sortColumn:   "updated_date",
	filterColumn: "note_id",
}

// NoteCategories manages the note/category join rows.
type NoteCategories struct {
	db *DB
}

var _ resource.Repository[*model.NoteCategoryPivot] = (*NoteCategories)(nil)

// NewNoteCategories returns the join-row repository backed by db.
func NewNoteCategories(db *DB) *NoteCategories {
	return &NoteCategories{db: db}
}

func (r *NoteCategories) List(ctx context.Context) ([]*model.NoteCategoryPivot, error) {
	return pivotTable.list(ctx, r.db.conn)
}

func (r *NoteCategories) Find(ctx context.Context, id uuid.UUID) (*model.NoteCategoryPivot, error) {
	return pivotTable.find(ctx, r.db.conn, id)
}

func (r *NoteCategories) Insert(ctx context.Context, p *model.NoteCategoryPivot) error {
	return pivotTable.insert(ctx, r.db.conn, p)
}

func (r *NoteCategories) Update(ctx context.Context, p *model.NoteCategoryPivot) error {
	return pivotTable.update(ctx, r.db.conn, p)
}

func (r *NoteCategories) Delete(ctx context.Context, id uuid.UUID) (*model.NoteCategoryPivot, error) {
	return pivotTable.delete(ctx, r.db.conn, id)
}

// Attach creates a join row between a note and a category. The caller is
// expected to have resolved both records already; a dangling id still fails
// on the foreign key constraint.
func (r *NoteCategories) Attach(ctx context.Context, noteID, categoryID uuid.UUID) (*model.NoteCategoryPivot, error) {
	pivot := &model.NoteCategoryPivot{NoteID: noteID, CategoryID: categoryID}
	if err := pivotTable.insert(ctx, r.db.conn, pivot); err != nil {
		return nil, err
	}
	return pivot, nil
}

// Detach removes the join row between a note and a category and returns the
// removed row.
func (r *NoteCategories) Detach(ctx context.Context, noteID, categoryID uuid.UUID) (*model.NoteCategoryPivot, error) {
	row := r.db.conn.QueryRowContext(ctx,
		pivotTable.selectClause()+" WHERE note_id = ? AND category_id = ?",
		noteID.String(), categoryID.String(),
	)
	pivot, err := pivotTable.scan(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("note category", noteID.String())
		}
		return nil, fmt.Errorf("sqlite: getting note category: %w", err)
	}
	if _, err := r.db.conn.ExecContext(ctx, "DELETE FROM note_categories WHERE id = ?", pivot.ID.String()); err != nil {
		return nil, fmt.Errorf("sqlite: deleting note category %s: %w", pivot.ID, err)
	}
	return pivot, nil
}

// CategoriesForNote lists the categories attached to a note, most recently
// attached first.
func (r *NoteCategories) CategoriesForNote(ctx context.Context, noteID uuid.UUID) ([]*model.Category, error) {
	return categoryTable.queryMany(ctx, r.db.conn,
		`SELECT c.id, c.name, c.created_date, c.updated_date
		 FROM categories c
		 JOIN note_categories nc ON nc.category_id = c.id
		 WHERE nc.note_id = ?
		 ORDER BY nc.created_date DESC`,
		noteID.String(),
	)
}
