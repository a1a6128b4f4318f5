package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/Domenick1991/travelbooking/internal/domain"
	"github.com/Domenick1991/travelbooking/internal/repository"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type CatalogUseCase interface {
	ListPackages(ctx context.Context, filter domain.PackageFilter) (*domain.PackagePage, error)
	GetPackage(ctx context.Context, id string) (*domain.Package, error)
	CreatePackage(ctx context.Context, input PackageInput) (*domain.Package, error)
	UpdatePackage(ctx context.Context, id string, input PackageInput) (*domain.Package, error)
	DeletePackage(ctx context.Context, id string) error
}

type Cache interface {
	GetPackagePage(ctx context.Context, filter domain.PackageFilter) (*domain.PackagePage, error)
	SetPackagePage(ctx context.Context, filter domain.PackageFilter, page *domain.PackagePage) error
	InvalidatePackages(ctx context.Context) error
}

type CatalogService struct {
	packages repository.PackageRepository
	cache    Cache
	logger   *zerolog.Logger
}

type CatalogServiceOption func(*CatalogService)

func WithCache(cache Cache) CatalogServiceOption {
	return func(s *CatalogService) {
		s.cache = cache
	}
}

func WithLogger(logger *zerolog.Logger) CatalogServiceOption {
	return func(s *CatalogService) {
		s.logger = logger
	}
}

func NewCatalogService(packages repository.PackageRepository, opts ...CatalogServiceOption) *CatalogService {
	nop := zerolog.Nop()
	s := &CatalogService{packages: packages, logger: &nop}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type PackageInput struct {
	Title        string               `json:"title"`
	Description  string               `json:"description"`
	Location     string               `json:"location"`
	Duration     string               `json:"duration"`
	Category     string               `json:"category"`
	RegularPrice float64              `json:"regularPrice"`
	SalePrice    float64              `json:"salePrice"`
	AdultPrice   float64              `json:"adultPrice"`
	ChildPrice   float64              `json:"childPrice"`
	CouplePrice  float64              `json:"couplePrice"`
	Gallery      []string             `json:"gallery"`
	Status       domain.PackageStatus `json:"status"`
	Featured     bool                 `json:"featured"`
}

func (in PackageInput) validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return fmt.Errorf("%w: title is required", domain.ErrInvalidInput)
	}
	for _, price := range []float64{in.RegularPrice, in.SalePrice, in.AdultPrice, in.ChildPrice, in.CouplePrice} {
		if price < 0 {
			return fmt.Errorf("%w: prices must not be negative", domain.ErrInvalidInput)
		}
	}
	if in.Status != "" && !in.Status.Valid() {
		return fmt.Errorf("%w: unknown status %q", domain.ErrInvalidInput, in.Status)
	}
	return nil
}

func (in PackageInput) apply(p *domain.Package) {
	p.Title = strings.TrimSpace(in.Title)
	p.Description = in.Description
	p.Location = in.Location
	p.Duration = in.Duration
	p.Category = in.Category
	p.RegularPrice = in.RegularPrice
	p.SalePrice = in.SalePrice
	p.AdultPrice = in.AdultPrice
	p.ChildPrice = in.ChildPrice
	p.CouplePrice = in.CouplePrice
	p.Gallery = in.Gallery
	if p.Gallery == nil {
		p.Gallery = []string{}
	}
	p.Status = in.Status
	if p.Status == "" {
		p.Status = domain.PackageStatusPending
	}
	p.Featured = in.Featured
}

func (s *CatalogService) ListPackages(ctx context.Context, filter domain.PackageFilter) (*domain.PackagePage, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidInput, filter.Status)
	}
	filter = filter.Normalize()

	if s.cache != nil {
		page, err := s.cache.GetPackagePage(ctx, filter)
		if err != nil {
			s.logger.Warn().Err(err).Msg("package cache read failed")
		} else if page != nil {
			return page, nil
		}
	}

	packages, total, err := s.packages.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	page := &domain.PackagePage{
		Packages:   packages,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: domain.TotalPages(total, filter.Limit),
	}

	if s.cache != nil {
		if err := s.cache.SetPackagePage(ctx, filter, page); err != nil {
			s.logger.Warn().Err(err).Msg("package cache write failed")
		}
	}
	return page, nil
}

func (s *CatalogService) GetPackage(ctx context.Context, id string) (*domain.Package, error) {
	return s.packages.GetByID(ctx, id)
}

func (s *CatalogService) CreatePackage(ctx context.Context, input PackageInput) (*domain.Package, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}
	pkg := &domain.Package{ID: uuid.NewString()}
	input.apply(pkg)
	if err := s.packages.Create(ctx, pkg); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return pkg, nil
}

func (s *CatalogService) UpdatePackage(ctx context.Context, id string, input PackageInput) (*domain.Package, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}
	pkg := &domain.Package{ID: id}
	input.apply(pkg)
	if err := s.packages.Update(ctx, pkg); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return pkg, nil
}

func (s *CatalogService) DeletePackage(ctx context.Context, id string) error {
	if err := s.packages.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *CatalogService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidatePackages(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("package cache invalidation failed")
	}
}

var _ CatalogUseCase = (*CatalogService)(nil)
