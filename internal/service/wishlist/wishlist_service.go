package wishlist

import (
	"context"
	"fmt"

	"github.com/Domenick1991/travelbooking/internal/domain"
	"github.com/Domenick1991/travelbooking/internal/repository"
)

type WishlistUseCase interface {
	Get(ctx context.Context, userID string) (*domain.Wishlist, error)
	Add(ctx context.Context, userID, packageID string) (*domain.Wishlist, error)
	Remove(ctx context.Context, userID, packageID string) (*domain.Wishlist, error)
}

type WishlistService struct {
	items    repository.WishlistRepository
	packages repository.PackageRepository
}

func NewWishlistService(items repository.WishlistRepository, packages repository.PackageRepository) *WishlistService {
	return &WishlistService{items: items, packages: packages}
}

func (s *WishlistService) Get(ctx context.Context, userID string) (*domain.Wishlist, error) {
	ids, err := s.items.PackageIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	packages := []domain.Package{}
	if len(ids) > 0 {
		found, err := s.packages.GetByIDs(ctx, ids)
		if err != nil {
			return nil, err
		}
		packages = append(packages, found...)
	}
	return &domain.Wishlist{UserID: userID, Packages: packages}, nil
}

// Add is idempotent: a package already on the list stays there once.
func (s *WishlistService) Add(ctx context.Context, userID, packageID string) (*domain.Wishlist, error) {
	if packageID == "" {
		return nil, fmt.Errorf("%w: packageId is required", domain.ErrInvalidInput)
	}
	if _, err := s.packages.GetByID(ctx, packageID); err != nil {
		return nil, err
	}
	if err := s.items.Add(ctx, userID, packageID); err != nil {
		return nil, err
	}
	return s.Get(ctx, userID)
}

func (s *WishlistService) Remove(ctx context.Context, userID, packageID string) (*domain.Wishlist, error) {
	if err := s.items.Remove(ctx, userID, packageID); err != nil {
		return nil, err
	}
	return s.Get(ctx, userID)
}

var _ WishlistUseCase = (*WishlistService)(nil)
