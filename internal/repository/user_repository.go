package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/hotel-booking/internal/model"
)

// UserRepo reads accounts.  Registration and credentials live in the
// identity provider that issues our tokens; this service only resolves
// the profile behind a token subject.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// FindByID fetches a user by id, returning model.ErrUserNotFound when
// the row does not exist.
func (r *UserRepo) FindByID(ctx context.Context, id uint64) (*model.User, error) {
	var (
		u     model.User
		phone sql.NullString
	)
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,email,first_name,last_name,phone,role,is_active,created_at,updated_at FROM users WHERE id=? LIMIT 1",
		id).Scan(&u.ID, &u.Email, &u.FirstName, &u.LastName, &phone, &u.Role, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrUserNotFound
		}
		return nil, err
	}
	u.Phone = phone.String
	return &u, nil
}
