package content

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"github.com/Domenick1991/travelbooking/internal/domain"
	"github.com/Domenick1991/travelbooking/internal/identity"
	"github.com/Domenick1991/travelbooking/internal/repository"
	"github.com/rs/zerolog"
)

// ContentUseCase covers the site content managed next to the catalog:
// blogs and their comments, notifications, testimonials, contact messages,
// products and careers.
type ContentUseCase interface {
	ListBlogs(ctx context.Context, publishedOnly bool) ([]domain.Blog, error)
	GetBlog(ctx context.Context, slug string, includeDrafts bool) (*domain.Blog, error)
	CreateBlog(ctx context.Context, input BlogInput) (*domain.Blog, error)
	UpdateBlog(ctx context.Context, id string, input BlogInput) (*domain.Blog, error)
	DeleteBlog(ctx context.Context, id string) error

	ListComments(ctx context.Context, blogID string) ([]domain.Comment, error)
	CreateComment(ctx context.Context, principal *identity.Principal, input CommentInput) (*domain.Comment, error)
	DeleteComment(ctx context.Context, principal *identity.Principal, id string) error

	ListNotifications(ctx context.Context, principal *identity.Principal) ([]domain.Notification, error)
	CreateNotification(ctx context.Context, input NotificationInput) (*domain.Notification, error)
	MarkNotificationRead(ctx context.Context, principal *identity.Principal, id string) error
	MarkAllNotificationsRead(ctx context.Context, principal *identity.Principal) (int64, error)

	ListTestimonials(ctx context.Context, approvedOnly bool) ([]domain.Testimonial, error)
	CreateTestimonial(ctx context.Context, input TestimonialInput) (*domain.Testimonial, error)
	ApproveTestimonial(ctx context.Context, id string, approved bool) error
	DeleteTestimonial(ctx context.Context, id string) error

	SubmitContact(ctx context.Context, input ContactInput) (*domain.ContactMessage, error)
	ListContacts(ctx context.Context) ([]domain.ContactMessage, error)
	DeleteContact(ctx context.Context, id string) error

	ListProducts(ctx context.Context) ([]domain.Product, error)
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	CreateProduct(ctx context.Context, input ProductInput) (*domain.Product, error)
	UpdateProduct(ctx context.Context, id string, input ProductInput) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id string) error

	ListCareers(ctx context.Context, openOnly bool) ([]domain.Career, error)
	GetCareer(ctx context.Context, id string) (*domain.Career, error)
	CreateCareer(ctx context.Context, input CareerInput) (*domain.Career, error)
	UpdateCareer(ctx context.Context, id string, input CareerInput) (*domain.Career, error)
	DeleteCareer(ctx context.Context, id string) error
	Apply(ctx context.Context, careerID string, input ApplicationInput) (*domain.Application, error)
	ListApplications(ctx context.Context, careerID string) ([]domain.Application, error)
}

type Repositories struct {
	Blogs         repository.BlogRepository
	Comments      repository.CommentRepository
	Notifications repository.NotificationRepository
	Testimonials  repository.TestimonialRepository
	Contacts      repository.ContactRepository
	Products      repository.ProductRepository
	Careers       repository.CareerRepository
}

type ContentService struct {
	repos  Repositories
	logger *zerolog.Logger
}

type ContentServiceOption func(*ContentService)

func WithLogger(logger *zerolog.Logger) ContentServiceOption {
	return func(s *ContentService) {
		s.logger = logger
	}
}

func NewContentService(repos Repositories, opts ...ContentServiceOption) *ContentService {
	nop := zerolog.Nop()
	s := &ContentService{repos: repos, logger: &nop}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%w: %s is required", domain.ErrInvalidInput, field)
	}
	return nil
}

func validEmail(email string) error {
	if _, err := mail.ParseAddress(email); err != nil {
		return fmt.Errorf("%w: invalid email", domain.ErrInvalidInput)
	}
	return nil
}

var _ ContentUseCase = (*ContentService)(nil)
