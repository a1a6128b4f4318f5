package content

import (
	"context"
	"fmt"
	"strings"

	"github.com/Domenick1991/travelbooking/internal/domain"
	"github.com/google/uuid"
)

type ProductInput struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	ImageURL    string  `json:"imageUrl"`
	Stock       int     `json:"stock"`
}

func (in ProductInput) apply(p *domain.Product) error {
	if err := required("name", in.Name); err != nil {
		return err
	}
	if in.Price < 0 || in.Stock < 0 {
		return fmt.Errorf("%w: price and stock must not be negative", domain.ErrInvalidInput)
	}
	p.Name = strings.TrimSpace(in.Name)
	p.Description = in.Description
	p.Price = in.Price
	p.ImageURL = in.ImageURL
	p.Stock = in.Stock
	return nil
}

func (s *ContentService) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return s.repos.Products.List(ctx)
}

func (s *ContentService) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	return s.repos.Products.GetByID(ctx, id)
}

func (s *ContentService) CreateProduct(ctx context.Context, input ProductInput) (*domain.Product, error) {
	p := &domain.Product{ID: uuid.NewString()}
	if err := input.apply(p); err != nil {
		return nil, err
	}
	if err := s.repos.Products.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *ContentService) UpdateProduct(ctx context.Context, id string, input ProductInput) (*domain.Product, error) {
	p, err := s.repos.Products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := input.apply(p); err != nil {
		return nil, err
	}
	if err := s.repos.Products.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *ContentService) DeleteProduct(ctx context.Context, id string) error {
	return s.repos.Products.Delete(ctx, id)
}

type CareerInput struct {
	Title          string `json:"title"`
	Department     string `json:"department"`
	Location       string `json:"location"`
	EmploymentType string `json:"employmentType"`
	Description    string `json:"description"`
	Open           *bool  `json:"open"`
}

func (in CareerInput) apply(c *domain.Career) error {
	if err := required("title", in.Title); err != nil {
		return err
	}
	c.Title = strings.TrimSpace(in.Title)
	c.Department = strings.TrimSpace(in.Department)
	c.Location = strings.TrimSpace(in.Location)
	c.EmploymentType = strings.TrimSpace(in.EmploymentType)
	c.Description = in.Description
	if in.Open != nil {
		c.Open = *in.Open
	}
	return nil
}

type ApplicationInput struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	ResumeURL   string `json:"resumeUrl"`
	CoverLetter string `json:"coverLetter"`
}

func (s *ContentService) ListCareers(ctx context.Context, openOnly bool) ([]domain.Career, error) {
	return s.repos.Careers.List(ctx, openOnly)
}

func (s *ContentService) GetCareer(ctx context.Context, id string) (*domain.Career, error) {
	return s.repos.Careers.GetByID(ctx, id)
}

// CreateCareer opens the position unless the input says otherwise.
func (s *ContentService) CreateCareer(ctx context.Context, input CareerInput) (*domain.Career, error) {
	c := &domain.Career{ID: uuid.NewString(), Open: true}
	if err := input.apply(c); err != nil {
		return nil, err
	}
	if err := s.repos.Careers.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *ContentService) UpdateCareer(ctx context.Context, id string, input CareerInput) (*domain.Career, error) {
	c, err := s.repos.Careers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := input.apply(c); err != nil {
		return nil, err
	}
	if err := s.repos.Careers.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *ContentService) DeleteCareer(ctx context.Context, id string) error {
	return s.repos.Careers.Delete(ctx, id)
}

func (s *ContentService) Apply(ctx context.Context, careerID string, input ApplicationInput) (*domain.Application, error) {
	if err := required("name", input.Name); err != nil {
		return nil, err
	}
	if err := validEmail(input.Email); err != nil {
		return nil, err
	}
	c, err := s.repos.Careers.GetByID(ctx, careerID)
	if err != nil {
		return nil, err
	}
	if !c.Open {
		return nil, fmt.Errorf("%w: position is closed", domain.ErrInvalidInput)
	}
	a := &domain.Application{
		ID:          uuid.NewString(),
		CareerID:    careerID,
		Name:        strings.TrimSpace(input.Name),
		Email:       strings.TrimSpace(input.Email),
		Phone:       strings.TrimSpace(input.Phone),
		ResumeURL:   input.ResumeURL,
		CoverLetter: input.CoverLetter,
	}
	if err := s.repos.Careers.CreateApplication(ctx, a); err != nil {
		return nil, err
	}
	s.logger.Info().Str("career_id", careerID).Str("application_id", a.ID).Msg("application received")
	return a, nil
}

func (s *ContentService) ListApplications(ctx context.Context, careerID string) ([]domain.Application, error) {
	if _, err := s.repos.Careers.GetByID(ctx, careerID); err != nil {
		return nil, err
	}
	return s.repos.Careers.ListApplications(ctx, careerID)
}
