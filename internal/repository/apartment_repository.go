package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"

	"github.com/iliyamo/hotel-booking/internal/model"
)

// ApartmentRepo provides access to the apartments table.
type ApartmentRepo struct {
	db *sql.DB
}

// NewApartmentRepo constructs an ApartmentRepo with the given DB handle.
func NewApartmentRepo(db *sql.DB) *ApartmentRepo { return &ApartmentRepo{db: db} }

const apartmentCols = `id, number, floor, class_id, is_active, created_at, updated_at`

func scanApartment(s rowScanner) (model.Apartment, error) {
	var a model.Apartment
	err := s.Scan(&a.ID, &a.Number, &a.Floor, &a.ClassID, &a.IsActive, &a.CreatedAt, &a.UpdatedAt)
	return a, err
}

func (r *ApartmentRepo) query(ctx context.Context, q string, args ...any) ([]model.Apartment, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Apartment
	for rows.Next() {
		a, err := scanApartment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// FindByID returns model.ErrApartmentNotFound when no row matches.
func (r *ApartmentRepo) FindByID(ctx context.Context, id uint64) (*model.Apartment, error) {
	a, err := scanApartment(r.db.QueryRowContext(ctx, `SELECT `+apartmentCols+` FROM apartments WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrApartmentNotFound
		}
		return nil, err
	}
	return &a, nil
}

// FindActiveByClass lists the active apartments of a class.
func (r *ApartmentRepo) FindActiveByClass(ctx context.Context, classID uint64) ([]model.Apartment, error) {
	return r.query(ctx, `SELECT `+apartmentCols+` FROM apartments WHERE class_id = ? AND is_active = 1 ORDER BY floor, number, id`, classID)
}

// List returns every apartment.
func (r *ApartmentRepo) List(ctx context.Context) ([]model.Apartment, error) {
	return r.query(ctx, `SELECT `+apartmentCols+` FROM apartments ORDER BY floor, number, id`)
}

// Insert creates an apartment and returns its id.
func (r *ApartmentRepo) Insert(ctx context.Context, a *model.Apartment) (uint64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO apartments (number, floor, class_id, is_active) VALUES (?, ?, ?, ?)`,
		a.Number, a.Floor, a.ClassID, a.IsActive)
	if err != nil {
		if isDuplicate(err) {
			return 0, model.ErrApartmentNumberExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// Update writes number, floor and class.  It returns
// model.ErrApartmentNotFound when the row does not exist.
func (r *ApartmentRepo) Update(ctx context.Context, a *model.Apartment) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE apartments SET number = ?, floor = ?, class_id = ? WHERE id = ?`,
		a.Number, a.Floor, a.ClassID, a.ID)
	if err != nil {
		if isDuplicate(err) {
			return model.ErrApartmentNumberExists
		}
		return err
	}
	return r.mustExist(ctx, res, a.ID)
}

// SetActive toggles the is_active flag.
func (r *ApartmentRepo) SetActive(ctx context.Context, id uint64, active bool) error {
	res, err := r.db.ExecContext(ctx, `UPDATE apartments SET is_active = ? WHERE id = ?`, active, id)
	if err != nil {
		return err
	}
	return r.mustExist(ctx, res, id)
}

// mustExist distinguishes "no such row" from "row already had these
// values": MySQL reports zero affected rows for both.
func (r *ApartmentRepo) mustExist(ctx context.Context, res sql.Result, id uint64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	var one int
	err = r.db.QueryRowContext(ctx, `SELECT 1 FROM apartments WHERE id = ?`, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return model.ErrApartmentNotFound
	}
	return err
}

// erDupEntry is the MySQL server error for a unique key violation.
const erDupEntry = 1062

func isDuplicate(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == erDupEntry
}
