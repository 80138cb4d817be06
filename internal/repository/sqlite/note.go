package sqlite

import (
	"context"

	"github.com/google/uuid"

	"github.com/noteskit/noteskit/internal/model"
	"github.com/noteskit/noteskit/internal/resource"
)

var noteTable = table[*model.Note]{
	name:    "notes",
	title:   "note",
	columns: []string{"note", "card_color", "user_id", "date"},
	values: func(n *model.Note) []any {
		return []any{n.Note, n.CardColor, n.UserID.String(), n.Date}
	},
	scan: func(row rowScanner) (*model.Note, error) {
		var n model.Note
		var id, userID string
		if err := row.Scan(&id, &n.Note, &n.CardColor, &userID, &n.Date); err != nil {
			return nil, err
		}
		parsed, err := uuid.Parse(id)
		if err != nil {
			return nil, err
		}
		owner, err := uuid.Parse(userID)
		if err != nil {
			return nil, err
		}
		n.ID = parsed
		n.UserID = owner
		return &n, nil
	},
	sortColumn:   "date",
	filterColumn: "note",
}

// Notes is the note repository.
type Notes struct {
	db *DB
}

var (
	_ resource.Repository[*model.Note] = (*Notes)(nil)
	_ resource.Sorter[*model.Note]     = (*Notes)(nil)
	_ resource.Filterer[*model.Note]   = (*Notes)(nil)
)

// NewNotes returns the note repository backed by db.
func NewNotes(db *DB) *Notes {
	return &Notes{db: db}
}

func (r *Notes) List(ctx context.Context) ([]*model.Note, error) {
	return noteTable.list(ctx, r.db.conn)
}

func (r *Notes) Find(ctx context.Context, id uuid.UUID) (*model.Note, error) {
	return noteTable.find(ctx, r.db.conn, id)
}

func (r *Notes) Insert(ctx context.Context, n *model.Note) error {
	return noteTable.insert(ctx, r.db.conn, n)
}

func (r *Notes) Update(ctx context.Context, n *model.Note) error {
	return noteTable.update(ctx, r.db.conn, n)
}

func (r *Notes) Delete(ctx context.Context, id uuid.UUID) (*model.Note, error) {
	return noteTable.delete(ctx, r.db.conn, id)
}

func (r *Notes) ListSorted(ctx context.Context, ascending bool) ([]*model.Note, error) {
	return noteTable.listSorted(ctx, r.db.conn, ascending)
}

func (r *Notes) ListFiltered(ctx context.Context, query string, substring bool) ([]*model.Note, error) {
	return noteTable.listFiltered(ctx, r.db.conn, query, substring)
}

// ForUser lists a user's notes ordered by date, optionally narrowed by a
// note-text filter. substring switches the filter from equality to LIKE.
func (r *Notes) ForUser(ctx context.Context, userID uuid.UUID, ascending bool, query string, substring bool) ([]*model.Note, error) {
	direction := "DESC"
	if ascending {
		direction = "ASC"
	}
	stmt := noteTable.selectClause() + " WHERE user_id = ?"
	args := []any{userID.String()}
	if query != "" {
		if substring {
			stmt += " AND note LIKE ?"
			args = append(args, "%"+query+"%")
		} else {
			stmt += " AND note = ?"
			args = append(args, query)
		}
	}
	stmt += " ORDER BY date " + direction
	return noteTable.queryMany(ctx, r.db.conn, stmt, args...)
}
