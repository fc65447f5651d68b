package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/hotel-booking/internal/model"
)

// ApartmentClassRepo reads the apartment_classes table.  Classes are
// reference data seeded by migrations.
type ApartmentClassRepo struct {
	db *sql.DB
}

// NewApartmentClassRepo returns a repository bound to db.
func NewApartmentClassRepo(db *sql.DB) *ApartmentClassRepo { return &ApartmentClassRepo{db: db} }

const classCols = `id, type, max_capacity, created_at`

func (r *ApartmentClassRepo) one(ctx context.Context, q string, arg any) (*model.ApartmentClass, error) {
	var c model.ApartmentClass
	if err := r.db.QueryRowContext(ctx, q, arg).Scan(&c.ID, &c.Type, &c.MaxCapacity, &c.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrClassNotFound
		}
		return nil, err
	}
	return &c, nil
}

// FindByID returns model.ErrClassNotFound when no row matches.
func (r *ApartmentClassRepo) FindByID(ctx context.Context, id uint64) (*model.ApartmentClass, error) {
	return r.one(ctx, `SELECT `+classCols+` FROM apartment_classes WHERE id = ?`, id)
}

// FindByType looks a class up by its label.  The column uses a
// case-insensitive collation so "suite" matches "Suite".
func (r *ApartmentClassRepo) FindByType(ctx context.Context, label string) (*model.ApartmentClass, error) {
	return r.one(ctx, `SELECT `+classCols+` FROM apartment_classes WHERE type = ? LIMIT 1`, label)
}

// List returns all classes ordered by id.
func (r *ApartmentClassRepo) List(ctx context.Context) ([]model.ApartmentClass, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+classCols+` FROM apartment_classes ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.ApartmentClass
	for rows.Next() {
		var c model.ApartmentClass
		if err := rows.Scan(&c.ID, &c.Type, &c.MaxCapacity, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
