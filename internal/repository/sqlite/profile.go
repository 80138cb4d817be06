package sqlite

import (
	"context"

	"github.com/google/uuid"

	"github.com/noteskit/noteskit/internal/model"
	"github.com/noteskit/noteskit/internal/resource"
)

var profileTable = table[*model.Profile]{
	name:    "profiles",
	title:   "profile",
	columns: []string{"profile_name", "profile_image", "created_date", "updated_date"},
	values: func(p *model.Profile) []any {
		return []any{p.ProfileName, p.ProfileImage, p.CreatedDate, p.UpdatedDate}
	},
	scan: func(row rowScanner) (*model.Profile, error) {
		var p model.Profile
		var id string
		if err := row.Scan(&id, &p.ProfileName, &p.ProfileImage, &p.CreatedDate, &p.UpdatedDate); err != nil {
			return nil, err
		}
		parsed, err := uuid.Parse(id)
		if err != nil {
			return nil, err
		}
		p.ID = parsed
		return &p, nil
	},
	sortColumn:   "updated_date",
	filterColumn: "profile_name",
}

// Profiles is the profile repository.
type Profiles struct {
	db *DB
}

var (
	_ resource.Repository[*model.Profile] = (*Profiles)(nil)
	_ resource.Sorter[*model.Profile]     = (*Profiles)(nil)
	_ resource.Filterer[*model.Profile]   = (*Profiles)(nil)
)

// NewProfiles returns the profile repository backed by db.
func NewProfiles(db *DB) *Profiles {
	return &Profiles{db: db}
}

func (r *Profiles) List(ctx context.Context) ([]*model.Profile, error) {
	return profileTable.list(ctx, r.db.conn)
}

func (r *Profiles) Find(ctx context.Context, id uuid.UUID) (*model.Profile, error) {
	return profileTable.find(ctx, r.db.conn, id)
}

func (r *Profiles) Insert(ctx context.Context, p *model.Profile) error {
	return profileTable.insert(ctx, r.db.conn, p)
}

func (r *Profiles) Update(ctx context.Context, p *model.Profile) error {
	return profileTable.update(ctx, r.db.conn, p)
}

func (r *Profiles) Delete(ctx context.Context, id uuid.UUID) (*model.Profile, error) {
	return profileTable.delete(ctx, r.db.conn, id)
}

func (r *Profiles) ListSorted(ctx context.Context, ascending bool) ([]*model.Profile, error) {
	return profileTable.listSorted(ctx, r.db.conn, ascending)
}

func (r *Profiles) ListFiltered(ctx context.Context, query string, substring bool) ([]*model.Profile, error) {
	return profileTable.listFiltered(ctx, r.db.conn, query, substring)
}
