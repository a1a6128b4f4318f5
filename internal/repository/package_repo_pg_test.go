package repository

import (
	"context"
	"testing"

	"github.com/Domenick1991/travelbooking/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPackageWhere(t *testing.T) {
	where, args := packageWhere(domain.PackageFilter{})
	assert.Empty(t, where)
	assert.Empty(t, args)

	where, args = packageWhere(domain.PackageFilter{Status: domain.PackageStatusActive, Category: "beach", Search: "bali"})
	assert.Equal(t, " WHERE status = $1 AND category = $2 AND (title ILIKE $3 OR location ILIKE $3)", where)
	assert.Equal(t, []any{domain.PackageStatusActive, "beach", "%bali%"}, args)
}

func TestPackageRepository_List_PagingArgs(t *testing.T) {
	mock := newMock(t)

	mock.ExpectQuery(`SELECT count\(\*\) FROM packages WHERE status = \$1`).
		WithArgs(domain.PackageStatusActive).
		WillReturnRows(mock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`FROM packages WHERE status = \$1 ORDER BY created_at DESC LIMIT \$2 OFFSET \$3`).
		WithArgs(domain.PackageStatusActive, domain.MaxPageLimit, domain.MaxPageLimit).
		WillReturnRows(mock.NewRows([]string{"id"}))

	packages, total, err := NewPackageRepository(mock).List(context.Background(), domain.PackageFilter{
		Status: domain.PackageStatusActive,
		Page:   2,
		Limit:  500,
	})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, packages)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPackageRepository_GetByIDs_Empty(t *testing.T) {
	mock := newMock(t)

	packages, err := NewPackageRepository(mock).GetByIDs(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, packages)
	assert.NoError(t, mock.ExpectationsWereMet())
}
