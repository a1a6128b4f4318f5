package activity

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/Domenick1991/travelbooking/internal/domain"
	"github.com/Domenick1991/travelbooking/internal/identity"
	"github.com/Domenick1991/travelbooking/internal/repository"
	"github.com/google/uuid"
)

const (
	pageSize      = 500
	topN          = 10
	defaultWindow = 30 * 24 * time.Hour
	dayLayout     = "2006-01-02"
)

type ActivityUseCase interface {
	Record(ctx context.Context, principal *identity.Principal, input RecordInput) (*domain.Activity, error)
	Analytics(ctx context.Context, from, to string) (*domain.ActivityReport, error)
}

type ActivityService struct {
	activities repository.ActivityRepository
	now        func() time.Time
}

func NewActivityService(activities repository.ActivityRepository) *ActivityService {
	return &ActivityService{activities: activities, now: time.Now}
}

type RecordInput struct {
	Type      string          `json:"type"`
	PackageID string          `json:"packageId"`
	Metadata  json.RawMessage `json:"metadata"`
}

func (s *ActivityService) Record(ctx context.Context, principal *identity.Principal, input RecordInput) (*domain.Activity, error) {
	if strings.TrimSpace(input.Type) == "" {
		return nil, fmt.Errorf("%w: type is required", domain.ErrInvalidInput)
	}
	if len(input.Metadata) > 0 && !json.Valid(input.Metadata) {
		return nil, fmt.Errorf("%w: metadata must be valid JSON", domain.ErrInvalidInput)
	}
	a := &domain.Activity{
		ID:        uuid.NewString(),
		Type:      strings.TrimSpace(input.Type),
		UserID:    principal.UID,
		PackageID: input.PackageID,
		Metadata:  input.Metadata,
	}
	if err := s.activities.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// Analytics aggregates the activities between two calendar days, both
// inclusive. An empty bound defaults to the last 30 days.
func (s *ActivityService) Analytics(ctx context.Context, from, to string) (*domain.ActivityReport, error) {
	start, end, err := s.window(from, to)
	if err != nil {
		return nil, err
	}

	var all []domain.Activity
	for offset := 0; ; offset += pageSize {
		page, err := s.activities.ListBetween(ctx, start, end, pageSize, offset)
		if err != nil {
			return nil, err
		}
		all = append(all, page...)
		if len(page) < pageSize {
			break
		}
	}

	report := Aggregate(all)
	report.From = start
	report.To = end
	return report, nil
}

func (s *ActivityService) window(from, to string) (time.Time, time.Time, error) {
	today := s.now().UTC().Truncate(24 * time.Hour)
	end := today.Add(24 * time.Hour)
	if to != "" {
		t, err := time.Parse(dayLayout, to)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: to must be YYYY-MM-DD", domain.ErrInvalidInput)
		}
		end = t.Add(24 * time.Hour)
	}
	start := end.Add(-defaultWindow)
	if from != "" {
		t, err := time.Parse(dayLayout, from)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: from must be YYYY-MM-DD", domain.ErrInvalidInput)
		}
		start = t
	}
	if !start.Before(end) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: from must not be after to", domain.ErrInvalidInput)
	}
	return start, end, nil
}

// Aggregate counts activities by type and by UTC day, and ranks the ten most
// active users and packages. Ties rank by id.
func Aggregate(activities []domain.Activity) *domain.ActivityReport {
	report := &domain.ActivityReport{
		Total:  len(activities),
		ByType: map[string]int{},
		ByDay:  map[string]int{},
	}
	users := map[string]int{}
	packages := map[string]int{}
	for _, a := range activities {
		report.ByType[a.Type]++
		report.ByDay[a.CreatedAt.UTC().Format(dayLayout)]++
		if a.UserID != "" {
			users[a.UserID]++
		}
		if a.PackageID != "" {
			packages[a.PackageID]++
		}
	}
	report.TopUsers = top(users, topN)
	report.TopPackages = top(packages, topN)
	return report
}

func top(counts map[string]int, n int) []domain.CountEntry {
	entries := make([]domain.CountEntry, 0, len(counts))
	for k, c := range counts {
		entries = append(entries, domain.CountEntry{Key: k, Count: c})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}
		return entries[i].Key < entries[j].Key
	})
	if len(entries) > n {
		entries = entries[:n]
	}
	return entries
}

var _ ActivityUseCase = (*ActivityService)(nil)
