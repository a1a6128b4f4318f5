package content

import (
	"context"
	"fmt"
	"strings"

	"github.com/Domenick1991/travelbooking/internal/domain"
	"github.com/google/uuid"
)

type TestimonialInput struct {
	Name        string `json:"name"`
	Designation string `json:"designation"`
	Message     string `json:"message"`
	Rating      int    `json:"rating"`
	PhotoURL    string `json:"photoUrl"`
}

func (s *ContentService) ListTestimonials(ctx context.Context, approvedOnly bool) ([]domain.Testimonial, error) {
	return s.repos.Testimonials.List(ctx, approvedOnly)
}

// CreateTestimonial stores a submission awaiting approval.
func (s *ContentService) CreateTestimonial(ctx context.Context, input TestimonialInput) (*domain.Testimonial, error) {
	if err := required("name", input.Name); err != nil {
		return nil, err
	}
	if err := required("message", input.Message); err != nil {
		return nil, err
	}
	if input.Rating == 0 {
		input.Rating = 5
	}
	if input.Rating < 1 || input.Rating > 5 {
		return nil, fmt.Errorf("%w: rating must be between 1 and 5", domain.ErrInvalidInput)
	}
	t := &domain.Testimonial{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(input.Name),
		Designation: strings.TrimSpace(input.Designation),
		Message:     strings.TrimSpace(input.Message),
		Rating:      input.Rating,
		PhotoURL:    input.PhotoURL,
	}
	if err := s.repos.Testimonials.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *ContentService) ApproveTestimonial(ctx context.Context, id string, approved bool) error {
	return s.repos.Testimonials.SetApproved(ctx, id, approved)
}

func (s *ContentService) DeleteTestimonial(ctx context.Context, id string) error {
	return s.repos.Testimonials.Delete(ctx, id)
}

type ContactInput struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

func (s *ContentService) SubmitContact(ctx context.Context, input ContactInput) (*domain.ContactMessage, error) {
	if err := required("name", input.Name); err != nil {
		return nil, err
	}
	if err := required("message", input.Message); err != nil {
		return nil, err
	}
	if err := validEmail(input.Email); err != nil {
		return nil, err
	}
	m := &domain.ContactMessage{
		ID:      uuid.NewString(),
		Name:    strings.TrimSpace(input.Name),
		Email:   strings.TrimSpace(input.Email),
		Subject: strings.TrimSpace(input.Subject),
		Message: strings.TrimSpace(input.Message),
	}
	if err := s.repos.Contacts.Create(ctx, m); err != nil {
		return nil, err
	}
	s.logger.Info().Str("contact_id", m.ID).Msg("contact message received")
	return m, nil
}

func (s *ContentService) ListContacts(ctx context.Context) ([]domain.ContactMessage, error) {
	return s.repos.Contacts.List(ctx)
}

func (s *ContentService) DeleteContact(ctx context.Context, id string) error {
	return s.repos.Contacts.Delete(ctx, id)
}
