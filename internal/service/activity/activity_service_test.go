package activity

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/Domenick1991/travelbooking/internal/domain"
	"github.com/Domenick1991/travelbooking/internal/identity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockActivityRepository struct {
	mock.Mock
}

func (m *MockActivityRepository) Create(ctx context.Context, a *domain.Activity) error {
	return m.Called(ctx, a).Error(0)
}

func (m *MockActivityRepository) ListBetween(ctx context.Context, from, to time.Time, limit, offset int) ([]domain.Activity, error) {
	args := m.Called(ctx, from, to, limit, offset)
	return args.Get(0).([]domain.Activity), args.Error(1)
}

func TestAggregate(t *testing.T) {
	day1 := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	day2 := day1.Add(24 * time.Hour)

	report := Aggregate([]domain.Activity{
		{Type: "view", UserID: "u-2", PackageID: "p-1", CreatedAt: day1},
		{Type: "view", UserID: "u-1", PackageID: "p-1", CreatedAt: day1},
		{Type: "wishlist", UserID: "u-1", PackageID: "p-2", CreatedAt: day2},
		{Type: "search", UserID: "u-3", CreatedAt: day2},
	})

	assert.Equal(t, 4, report.Total)
	assert.Equal(t, map[string]int{"view": 2, "wishlist": 1, "search": 1}, report.ByType)
	assert.Equal(t, map[string]int{"2024-03-01": 2, "2024-03-02": 2}, report.ByDay)
	assert.Equal(t, []domain.CountEntry{{Key: "u-1", Count: 2}, {Key: "u-2", Count: 1}, {Key: "u-3", Count: 1}}, report.TopUsers)
	assert.Equal(t, []domain.CountEntry{{Key: "p-1", Count: 2}, {Key: "p-2", Count: 1}}, report.TopPackages)
}

func TestAggregate_TopTen(t *testing.T) {
	var acts []domain.Activity
	for i := 0; i < 15; i++ {
		acts = append(acts, domain.Activity{Type: "view", UserID: fmt.Sprintf("u-%02d", i)})
	}
	report := Aggregate(acts)
	require.Len(t, report.TopUsers, 10)
	assert.Equal(t, "u-00", report.TopUsers[0].Key)
	assert.Equal(t, "u-09", report.TopUsers[9].Key)
	assert.Empty(t, report.TopPackages)
}

func TestActivityService_Analytics_Pages(t *testing.T) {
	repo := &MockActivityRepository{}
	svc := NewActivityService(repo)

	from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 3, 8, 0, 0, 0, 0, time.UTC)
	full := make([]domain.Activity, pageSize)
	for i := range full {
		full[i] = domain.Activity{Type: "view", CreatedAt: from}
	}
	repo.On("ListBetween", mock.Anything, from, to, pageSize, 0).Return(full, nil)
	repo.On("ListBetween", mock.Anything, from, to, pageSize, pageSize).Return([]domain.Activity{{Type: "search", CreatedAt: from}}, nil)

	report, err := svc.Analytics(context.Background(), "2024-03-01", "2024-03-07")
	require.NoError(t, err)
	assert.Equal(t, pageSize+1, report.Total)
	assert.Equal(t, from, report.From)
	assert.Equal(t, to, report.To)
	repo.AssertNumberOfCalls(t, "ListBetween", 2)
}

func TestActivityService_Analytics_DefaultWindow(t *testing.T) {
	repo := &MockActivityRepository{}
	svc := NewActivityService(repo)
	svc.now = func() time.Time { return time.Date(2024, 3, 31, 15, 0, 0, 0, time.UTC) }

	end := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	repo.On("ListBetween", mock.Anything, end.Add(-defaultWindow), end, pageSize, 0).Return([]domain.Activity{}, nil)

	report, err := svc.Analytics(context.Background(), "", "")
	require.NoError(t, err)
	assert.Zero(t, report.Total)
}

func TestActivityService_Analytics_BadInput(t *testing.T) {
	svc := NewActivityService(&MockActivityRepository{})

	_, err := svc.Analytics(context.Background(), "03/01/2024", "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.Analytics(context.Background(), "2024-03-09", "2024-03-01")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestActivityService_Record(t *testing.T) {
	repo := &MockActivityRepository{}
	svc := NewActivityService(repo)
	principal := &identity.Principal{UID: "u-1"}

	repo.On("Create", mock.Anything, mock.MatchedBy(func(a *domain.Activity) bool {
		return a.UserID == "u-1" && a.Type == "view" && a.PackageID == "p-1"
	})).Return(nil)

	_, err := svc.Record(context.Background(), principal, RecordInput{Type: "view", PackageID: "p-1", Metadata: json.RawMessage(`{"src":"home"}`)})
	require.NoError(t, err)

	_, err = svc.Record(context.Background(), principal, RecordInput{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.Record(context.Background(), principal, RecordInput{Type: "view", Metadata: json.RawMessage(`{`)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
