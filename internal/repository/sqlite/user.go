package sqlite

import (
	"context"

	"github.com/google/uuid"

	"github.com/noteskit/noteskit/internal/model"
	"github.com/noteskit/noteskit/internal/resource"
)

var userTable = table[*model.User]{
	name:    "users",
	title:   "user",
	columns: []string{"name", "user_name", "email", "phone", "zipcode", "country_code", "created_date", "updated_date"},
	values: func(u *model.User) []any {
		return []any{u.Name.String(), u.UserName.String(), u.Email.String(), u.Phone.String(), u.ZipCode.String(), u.CountryCode.String(), u.CreatedDate, u.UpdatedDate}
	},
	scan: func(row rowScanner) (*model.User, error) {
		var u model.User
		var id string
		if err := row.Scan(&id, &u.Name, &u.UserName, &u.Email, &u.Phone, &u.ZipCode, &u.CountryCode, &u.CreatedDate, &u.UpdatedDate); err != nil {
			return nil, err
		}
		parsed, err := uuid.Parse(id)
		if err != nil {
			return nil, err
		}
		u.ID = parsed
		return &u, nil
	},
	sortColumn:   "updated_date",
	filterColumn: "user_name",
}

// Users is the user repository.
type Users struct {
	db *DB
}

var (
	_ resource.Repository[*model.User] = (*Users)(nil)
	_ resource.Sorter[*model.User]     = (*Users)(nil)
	_ resource.Filterer[*model.User]   = (*Users)(nil)
)

// NewUsers returns the user repository backed by db.
func NewUsers(db *DB) *Users {
	return &Users{db: db}
}

func (r *Users) List(ctx context.Context) ([]*model.User, error) {
	return userTable.list(ctx, r.db.conn)
}

func (r *Users) Find(ctx context.Context, id uuid.UUID) (*model.User, error) {
	return userTable.find(ctx, r.db.conn, id)
}

func (r *Users) Insert(ctx context.Context, u *model.User) error {
	return userTable.insert(ctx, r.db.conn, u)
}

func (r *Users) Update(ctx context.Context, u *model.User) error {
	return userTable.update(ctx, r.db.conn, u)
}

func (r *Users) Delete(ctx context.Context, id uuid.UUID) (*model.User, error) {
	return userTable.delete(ctx, r.db.conn, id)
}

func (r *Users) ListSorted(ctx context.Context, ascending bool) ([]*model.User, error) {
	return userTable.listSorted(ctx, r.db.conn, ascending)
}

func (r *Users) ListFiltered(ctx context.Context, query string, substring bool) ([]*model.User, error) {
	return userTable.listFiltered(ctx, r.db.conn, query, substring)
}
