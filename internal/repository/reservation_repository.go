package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/hotel-booking/internal/model"
)

// ReservationRepo stores reservations in MySQL.  check_in and check_out
// are DATE columns; with parseTime=true&loc=UTC they scan as UTC
// midnight.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a new ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

const reservationCols = `id, user_id, class_id, apartment_id, check_in, check_out, occupants, status, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReservation(s rowScanner) (model.Reservation, error) {
	var (
		r      model.Reservation
		apt    sql.NullInt64
		status string
	)
	if err := s.Scan(&r.ID, &r.UserID, &r.ClassID, &apt, &r.CheckIn, &r.CheckOut, &r.Occupants, &status, &r.CreatedAt, &r.UpdatedAt); err != nil {
		return r, err
	}
	if apt.Valid {
		id := uint64(apt.Int64)
		r.ApartmentID = &id
	}
	r.Status = model.Status(status)
	return r, nil
}

func (r *ReservationRepo) query(ctx context.Context, q string, args ...any) ([]model.Reservation, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Reservation
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, rows.Err()
}

// Insert stores a new reservation and returns its generated id.
func (r *ReservationRepo) Insert(ctx context.Context, res *model.Reservation) (uint64, error) {
	const q = `INSERT INTO reservations (user_id, class_id, apartment_id, check_in, check_out, occupants, status)
	           VALUES (?, ?, ?, ?, ?, ?, ?)`
	result, err := r.db.ExecContext(ctx, q, res.UserID, res.ClassID, res.ApartmentID,
		res.CheckIn.Format(model.DateLayout), res.CheckOut.Format(model.DateLayout), res.Occupants, string(res.Status))
	if err != nil {
		return 0, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// FindByID returns model.ErrReservationNotFound when no row matches.
func (r *ReservationRepo) FindByID(ctx context.Context, id uint64) (*model.Reservation, error) {
	res, err := scanReservation(r.db.QueryRowContext(ctx, `SELECT `+reservationCols+` FROM reservations WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrReservationNotFound
		}
		return nil, err
	}
	return &res, nil
}

// FindByStatus returns every reservation in the given status ordered by id.
func (r *ReservationRepo) FindByStatus(ctx context.Context, status model.Status) ([]model.Reservation, error) {
	return r.query(ctx, `SELECT `+reservationCols+` FROM reservations WHERE status = ? ORDER BY id`, string(status))
}

// FindByUser returns the user's reservations, newest first.
func (r *ReservationRepo) FindByUser(ctx context.Context, userID uint64) ([]model.Reservation, error) {
	return r.query(ctx, `SELECT `+reservationCols+` FROM reservations WHERE user_id = ? ORDER BY id DESC`, userID)
}

// FindApprovedOverlapping returns approved reservations bound to one of
// apartmentIDs whose half-open stay intersects stay.
func (r *ReservationRepo) FindApprovedOverlapping(ctx context.Context, apartmentIDs []uint64, stay model.Stay) ([]model.Reservation, error) {
	if len(apartmentIDs) == 0 {
		return nil, nil
	}
	args := make([]any, 0, len(apartmentIDs)+3)
	args = append(args, string(model.StatusApproved))
	for _, id := range apartmentIDs {
		args = append(args, id)
	}
	args = append(args, stay.CheckOut.Format(model.DateLayout), stay.CheckIn.Format(model.DateLayout))
	q := `SELECT ` + reservationCols + ` FROM reservations
	      WHERE status = ? AND apartment_id IN (` + placeholders(len(apartmentIDs)) + `)
	        AND check_in < ? AND check_out > ?
	      ORDER BY apartment_id, check_in`
	return r.query(ctx, q, args...)
}

// CountPendingOverlapping counts pending reservations of classID whose
// stay intersects stay.
func (r *ReservationRepo) CountPendingOverlapping(ctx context.Context, classID uint64, stay model.Stay) (int, error) {
	const q = `SELECT COUNT(*) FROM reservations
	           WHERE class_id = ? AND status = ? AND check_in < ? AND check_out > ?`
	var n int
	err := r.db.QueryRowContext(ctx, q, classID, string(model.StatusWaitingForApprove),
		stay.CheckOut.Format(model.DateLayout), stay.CheckIn.Format(model.DateLayout)).Scan(&n)
	return n, err
}

// UpdateStatusAndApartment resolves a pending reservation in a single
// transaction.  The UPDATE is conditional on the row still being
// WAITING_FOR_APPROVE, so exactly one concurrent caller wins and the
// others get false.  When approving, the apartment row is locked with
// SELECT ... FOR UPDATE and re-checked: it must still be active
// (model.ErrApartmentInactive), still belong to the reservation's class
// (model.ErrApartmentClassMismatch) and still be free for the stay
// (model.ErrApartmentTaken).  This keeps approvals and inventory edits
// from separate processes apart even without a shared lock.
func (r *ReservationRepo) UpdateStatusAndApartment(ctx context.Context, id uint64, status model.Status, apartmentID *uint64) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if status == model.StatusApproved && apartmentID != nil {
		var (
			aptClass uint64
			active   bool
		)
		err := tx.QueryRowContext(ctx, `SELECT class_id, is_active FROM apartments WHERE id = ? FOR UPDATE`, *apartmentID).
			Scan(&aptClass, &active)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return false, model.ErrApartmentNotFound
			}
			return false, err
		}
		var resClass uint64
		if err := tx.QueryRowContext(ctx, `SELECT class_id FROM reservations WHERE id = ?`, id).Scan(&resClass); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return false, nil
			}
			return false, err
		}
		if !active {
			return false, model.ErrApartmentInactive
		}
		if aptClass != resClass {
			return false, model.ErrApartmentClassMismatch
		}

		const overlap = `SELECT COUNT(*) FROM reservations r
		                 JOIN reservations p ON p.id = ?
		                 WHERE r.apartment_id = ? AND r.status = ? AND r.id <> p.id
		                   AND r.check_in < p.check_out AND r.check_out > p.check_in`
		var n int
		if err := tx.QueryRowContext(ctx, overlap, id, *apartmentID, string(model.StatusApproved)).Scan(&n); err != nil {
			return false, err
		}
		if n > 0 {
			return false, model.ErrApartmentTaken
		}
	}

	const upd = `UPDATE reservations SET status = ?, apartment_id = ? WHERE id = ? AND status = ?`
	res, err := tx.ExecContext(ctx, upd, string(status), apartmentID, id, string(model.StatusWaitingForApprove))
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if affected != 1 {
		return false, nil
	}
	if err := tx.Commit(); err != nil {
		return false, err
	}
	committed = true
	return true, nil
}

func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}
