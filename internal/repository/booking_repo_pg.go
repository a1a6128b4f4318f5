package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/Domenick1991/travelbooking/internal/domain"
)

type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) error
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	List(ctx context.Context, filter domain.BookingFilter) ([]domain.Booking, error)
	UpdateStatus(ctx context.Context, id string, status domain.BookingStatus) (*domain.Booking, error)
	Delete(ctx context.Context, id string) error
}

type PGBookingRepository struct {
	db DB
}

func NewBookingRepository(db DB) BookingRepository {
	return &PGBookingRepository{db: db}
}

const bookingColumns = `id, user_id, package_id, COALESCE(transaction_id, ''), package_title, full_name, email, phone, address,
	adults, children, travel_date, total_amount, status, notes, created_at, updated_at`

const insertBooking = `INSERT INTO bookings (id, user_id, package_id, transaction_id, package_title, full_name, email, phone, address,
		adults, children, travel_date, total_amount, status, notes)
	VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`

func scanBooking(row interface{ Scan(...any) error }) (*domain.Booking, error) {
	var b domain.Booking
	if err := row.Scan(&b.ID, &b.UserID, &b.PackageID, &b.TransactionID, &b.PackageTitle, &b.FullName, &b.Email, &b.Phone, &b.Address,
		&b.Adults, &b.Children, &b.TravelDate, &b.TotalAmount, &b.Status, &b.Notes, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	return &b, nil
}

func bookingArgs(b *domain.Booking) []any {
	return []any{b.ID, b.UserID, b.PackageID, b.TransactionID, b.PackageTitle, b.FullName, b.Email, b.Phone, b.Address,
		b.Adults, b.Children, b.TravelDate, b.TotalAmount, b.Status, b.Notes}
}

func (r *PGBookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	err := r.db.QueryRow(ctx, insertBooking+` RETURNING created_at, updated_at`, bookingArgs(b)...).
		Scan(&b.CreatedAt, &b.UpdatedAt)
	return mapError(err, "create booking")
}

func (r *PGBookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	b, err := scanBooking(r.db.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id=$1`, id))
	if err != nil {
		return nil, mapError(err, "booking")
	}
	return b, nil
}

func (r *PGBookingRepository) List(ctx context.Context, filter domain.BookingFilter) ([]domain.Booking, error) {
	var (
		conds []string
		args  []any
	)
	if filter.Status != "" {
		args = append(args, filter.Status)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.UserID != "" {
		args = append(args, filter.UserID)
		conds = append(conds, fmt.Sprintf("user_id = $%d", len(args)))
	}
	query := `SELECT ` + bookingColumns + ` FROM bookings`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bookings := make([]domain.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *b)
	}
	return bookings, rows.Err()
}

func (r *PGBookingRepository) UpdateStatus(ctx context.Context, id string, status domain.BookingStatus) (*domain.Booking, error) {
	b, err := scanBooking(r.db.QueryRow(ctx, `UPDATE bookings SET status=$1, updated_at=now() WHERE id=$2 RETURNING `+bookingColumns, status, id))
	if err != nil {
		return nil, mapError(err, "booking")
	}
	return b, nil
}

func (r *PGBookingRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM bookings WHERE id=$1`, id)
	if err != nil {
		return err
	}
	return affected(tag, "booking")
}

var _ BookingRepository = (*PGBookingRepository)(nil)
