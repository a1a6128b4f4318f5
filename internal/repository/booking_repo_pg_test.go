package repository

import (
	"context"
	"testing"

	"github.com/Domenick1991/travelbooking/internal/domain"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
)

func TestBookingRepository_Delete(t *testing.T) {
	tests := []struct {
		name    string
		rows    int64
		wantErr error
	}{
		{name: "deleted", rows: 1},
		{name: "missing", rows: 0, wantErr: domain.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := newMock(t)
			mock.ExpectExec("DELETE FROM bookings").
				WithArgs("b-1").
				WillReturnResult(pgxmock.NewResult("DELETE", tt.rows))

			err := NewBookingRepository(mock).Delete(context.Background(), "b-1")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestBookingRepository_GetByID_NotFound(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery("FROM bookings WHERE id").
		WithArgs("missing").
		WillReturnRows(mock.NewRows([]string{"id"}))

	_, err := NewBookingRepository(mock).GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
