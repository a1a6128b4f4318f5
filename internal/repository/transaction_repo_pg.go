package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Domenick1991/travelbooking/internal/domain"
	"github.com/jackc/pgx/v5"
)

type TransactionRepository interface {
	CreateCheckout(ctx context.Context, txn *domain.Transaction, booking *domain.Booking) error
	GetByID(ctx context.Context, id string) (*domain.Transaction, error)
	GetBySessionID(ctx context.Context, sessionID string) (*domain.Transaction, error)
	List(ctx context.Context, status domain.TransactionStatus, userID string) ([]domain.Transaction, error)
	CompletePayment(ctx context.Context, sessionID string, confirm ConfirmFunc) (*domain.Transaction, *domain.Booking, bool, error)
	ExpirePendingBefore(ctx context.Context, deadline time.Time) ([]domain.Transaction, int64, error)
}

// ConfirmFunc builds the confirmed booking of a transaction that has just
// been marked paid.
type ConfirmFunc func(ctx context.Context, txn *domain.Transaction) (*domain.Booking, error)

type PGTransactionRepository struct {
	db DB
}

func NewTransactionRepository(db DB) TransactionRepository {
	return &PGTransactionRepository{db: db}
}

const transactionColumns = `id, session_id, user_id, package_id, booking_id, amount, currency, status, customer_email, paid_at, created_at, updated_at`

func scanTransaction(row interface{ Scan(...any) error }) (*domain.Transaction, error) {
	var t domain.Transaction
	if err := row.Scan(&t.ID, &t.SessionID, &t.UserID, &t.PackageID, &t.BookingID, &t.Amount, &t.Currency,
		&t.Status, &t.CustomerEmail, &t.PaidAt, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}

// CreateCheckout stores a pending transaction together with its pending
// booking in one database transaction.
func (r *PGTransactionRepository) CreateCheckout(ctx context.Context, txn *domain.Transaction, booking *domain.Booking) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := tx.QueryRow(ctx, `INSERT INTO transactions (id, session_id, user_id, package_id, booking_id, amount, currency, status, customer_email)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at`,
		txn.ID, txn.SessionID, txn.UserID, txn.PackageID, txn.BookingID, txn.Amount, txn.Currency, txn.Status, txn.CustomerEmail).
		Scan(&txn.CreatedAt, &txn.UpdatedAt); err != nil {
		return mapError(err, "create transaction")
	}

	if err := tx.QueryRow(ctx, insertBooking+` RETURNING created_at, updated_at`, bookingArgs(booking)...).
		Scan(&booking.CreatedAt, &booking.UpdatedAt); err != nil {
		return mapError(err, "create booking")
	}

	return tx.Commit(ctx)
}

func (r *PGTransactionRepository) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	t, err := scanTransaction(r.db.QueryRow(ctx, `SELECT `+transactionColumns+` FROM transactions WHERE id=$1`, id))
	if err != nil {
		return nil, mapError(err, "transaction")
	}
	return t, nil
}

func (r *PGTransactionRepository) GetBySessionID(ctx context.Context, sessionID string) (*domain.Transaction, error) {
	t, err := scanTransaction(r.db.QueryRow(ctx, `SELECT `+transactionColumns+` FROM transactions WHERE session_id=$1`, sessionID))
	if err != nil {
		return nil, mapError(err, "transaction")
	}
	return t, nil
}

func (r *PGTransactionRepository) List(ctx context.Context, status domain.TransactionStatus, userID string) ([]domain.Transaction, error) {
	rows, err := r.db.Query(ctx, `SELECT `+transactionColumns+` FROM transactions
		WHERE ($1 = '' OR status = $1) AND ($2 = '' OR user_id = $2)
		ORDER BY created_at DESC`, string(status), userID)
	if err != nil {
		return nil, err
	}
	return collectTransactions(rows)
}

// CompletePayment moves the transaction of sessionID to paid and stores the
// booking returned by confirm, both in one database transaction. Pending and
// expired transactions are completed; a paid one is returned unchanged with
// false and confirm is not called.
func (r *PGTransactionRepository) CompletePayment(ctx context.Context, sessionID string, confirm ConfirmFunc) (*domain.Transaction, *domain.Booking, bool, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, nil, false, err
	}
	defer tx.Rollback(ctx)

	current, err := scanTransaction(tx.QueryRow(ctx, `SELECT `+transactionColumns+` FROM transactions WHERE session_id=$1 FOR UPDATE`, sessionID))
	if err != nil {
		return nil, nil, false, mapError(err, "transaction")
	}
	if current.Status == domain.TransactionStatusPaid {
		return current, nil, false, nil
	}

	paid, err := scanTransaction(tx.QueryRow(ctx, `UPDATE transactions SET status=$1, paid_at=now(), updated_at=now()
		WHERE id=$2
		RETURNING `+transactionColumns, domain.TransactionStatusPaid, current.ID))
	if err != nil {
		return nil, nil, false, mapError(err, "mark transaction paid")
	}

	b, err := confirm(ctx, paid)
	if err != nil {
		return nil, nil, false, err
	}
	if b.TransactionID != paid.ID {
		return nil, nil, false, fmt.Errorf("confirm booking: %w: booking does not belong to transaction %s", domain.ErrInvalidInput, paid.ID)
	}

	saved, err := scanBooking(tx.QueryRow(ctx, insertBooking+`
		ON CONFLICT (transaction_id) DO UPDATE SET status = EXCLUDED.status, updated_at = now()
		RETURNING `+bookingColumns, bookingArgs(b)...))
	if err != nil {
		return nil, nil, false, mapError(err, "confirm booking")
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, false, err
	}
	return paid, saved, true, nil
}

// ExpirePendingBefore marks transactions still pending at deadline as expired
// and cancels their pending bookings in the same database transaction. It
// returns the expired transactions and the number of cancelled bookings.
func (r *PGTransactionRepository) ExpirePendingBefore(ctx context.Context, deadline time.Time) ([]domain.Transaction, int64, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, 0, err
	}
	defer tx.Rollback(ctx)

	rows, err := tx.Query(ctx, `UPDATE transactions SET status=$1, updated_at=now()
		WHERE status=$2 AND created_at <= $3
		RETURNING `+transactionColumns, domain.TransactionStatusExpired, domain.TransactionStatusPending, deadline)
	if err != nil {
		return nil, 0, err
	}
	expired, err := collectTransactions(rows)
	if err != nil {
		return nil, 0, err
	}
	if len(expired) == 0 {
		return expired, 0, nil
	}

	ids := make([]string, 0, len(expired))
	for _, t := range expired {
		ids = append(ids, t.ID)
	}
	tag, err := tx.Exec(ctx, `UPDATE bookings SET status=$1, updated_at=now() WHERE transaction_id = ANY($2) AND status=$3`,
		domain.BookingStatusCancelled, ids, domain.BookingStatusPending)
	if err != nil {
		return nil, 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, 0, err
	}
	return expired, tag.RowsAffected(), nil
}

func collectTransactions(rows pgx.Rows) ([]domain.Transaction, error) {
	defer rows.Close()

	txns := make([]domain.Transaction, 0)
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txns = append(txns, *t)
	}
	return txns, rows.Err()
}

var _ TransactionRepository = (*PGTransactionRepository)(nil)
