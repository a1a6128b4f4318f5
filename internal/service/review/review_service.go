package review

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/Domenick1991/travelbooking/internal/domain"
	"github.com/Domenick1991/travelbooking/internal/identity"
	"github.com/Domenick1991/travelbooking/internal/repository"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type ReviewUseCase interface {
	PackageSummary(ctx context.Context, packageID string) (*domain.ReviewSummary, error)
	CreateReview(ctx context.Context, principal *identity.Principal, input ReviewInput) (*domain.Review, error)
	UpdateReview(ctx context.Context, principal *identity.Principal, id string, input ReviewInput) (*domain.Review, error)
	DeleteReview(ctx context.Context, principal *identity.Principal, id string) error
	ListMine(ctx context.Context, principal *identity.Principal) ([]domain.Review, error)
	ListAll(ctx context.Context) ([]domain.Review, error)
}

type ReviewService struct {
	reviews  repository.ReviewRepository
	packages repository.PackageRepository
	logger   *zerolog.Logger
}

type ReviewServiceOption func(*ReviewService)

func WithLogger(logger *zerolog.Logger) ReviewServiceOption {
	return func(s *ReviewService) {
		s.logger = logger
	}
}

func NewReviewService(reviews repository.ReviewRepository, packages repository.PackageRepository, opts ...ReviewServiceOption) *ReviewService {
	nop := zerolog.Nop()
	s := &ReviewService{reviews: reviews, packages: packages, logger: &nop}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type ReviewInput struct {
	PackageID string `json:"packageId"`
	UserName  string `json:"userName"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
}

var errDuplicateReview = fmt.Errorf("%w: you have already reviewed this package", domain.ErrConflict)

func validateRating(rating int) error {
	if rating < 1 || rating > 5 {
		return fmt.Errorf("%w: rating must be between 1 and 5", domain.ErrInvalidInput)
	}
	return nil
}

func (s *ReviewService) PackageSummary(ctx context.Context, packageID string) (*domain.ReviewSummary, error) {
	reviews, err := s.reviews.ListByPackage(ctx, packageID)
	if err != nil {
		return nil, err
	}
	return Summarize(reviews), nil
}

// Summarize reports the count and the mean rating rounded to one decimal.
func Summarize(reviews []domain.Review) *domain.ReviewSummary {
	summary := &domain.ReviewSummary{Reviews: reviews, Count: len(reviews)}
	if summary.Reviews == nil {
		summary.Reviews = []domain.Review{}
	}
	if len(reviews) == 0 {
		return summary
	}
	sum := 0
	for _, r := range reviews {
		sum += r.Rating
	}
	summary.AverageRating = math.Round(float64(sum)/float64(len(reviews))*10) / 10
	return summary
}

func (s *ReviewService) CreateReview(ctx context.Context, principal *identity.Principal, input ReviewInput) (*domain.Review, error) {
	if input.PackageID == "" {
		return nil, fmt.Errorf("%w: packageId is required", domain.ErrInvalidInput)
	}
	if err := validateRating(input.Rating); err != nil {
		return nil, err
	}
	if _, err := s.packages.GetByID(ctx, input.PackageID); err != nil {
		return nil, err
	}

	if _, err := s.reviews.FindByUserAndPackage(ctx, principal.UID, input.PackageID); err == nil {
		return nil, errDuplicateReview
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	name := strings.TrimSpace(input.UserName)
	if name == "" {
		name = principal.Email
	}
	rv := &domain.Review{
		ID:        uuid.NewString(),
		UserID:    principal.UID,
		PackageID: input.PackageID,
		UserName:  name,
		Rating:    input.Rating,
		Comment:   strings.TrimSpace(input.Comment),
	}
	if err := s.reviews.Create(ctx, rv); err != nil {
		// concurrent insert lost the race on the unique index
		if errors.Is(err, domain.ErrConflict) {
			return nil, errDuplicateReview
		}
		return nil, err
	}
	s.logger.Info().Str("review_id", rv.ID).Str("package_id", rv.PackageID).Msg("review created")
	return rv, nil
}

func (s *ReviewService) UpdateReview(ctx context.Context, principal *identity.Principal, id string, input ReviewInput) (*domain.Review, error) {
	rv, err := s.reviews.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rv.UserID != principal.UID {
		return nil, fmt.Errorf("%w: review belongs to another user", domain.ErrForbidden)
	}
	if input.Rating != 0 {
		if err := validateRating(input.Rating); err != nil {
			return nil, err
		}
		rv.Rating = input.Rating
	}
	rv.Comment = strings.TrimSpace(input.Comment)
	if err := s.reviews.Update(ctx, rv); err != nil {
		return nil, err
	}
	return rv, nil
}

func (s *ReviewService) DeleteReview(ctx context.Context, principal *identity.Principal, id string) error {
	rv, err := s.reviews.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if rv.UserID != principal.UID && !principal.IsAdmin() {
		return fmt.Errorf("%w: review belongs to another user", domain.ErrForbidden)
	}
	return s.reviews.Delete(ctx, id)
}

func (s *ReviewService) ListMine(ctx context.Context, principal *identity.Principal) ([]domain.Review, error) {
	return s.reviews.ListByUser(ctx, principal.UID)
}

func (s *ReviewService) ListAll(ctx context.Context) ([]domain.Review, error) {
	return s.reviews.ListAll(ctx)
}

var _ ReviewUseCase = (*ReviewService)(nil)
