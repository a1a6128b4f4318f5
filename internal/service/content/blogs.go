package content

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/Domenick1991/travelbooking/internal/domain"
	"github.com/Domenick1991/travelbooking/internal/identity"
	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"
)

const excerptLength = 200

type BlogInput struct {
	Title      string   `json:"title"`
	Slug       string   `json:"slug"`
	Content    string   `json:"content"`
	Excerpt    string   `json:"excerpt"`
	CoverImage string   `json:"coverImage"`
	Author     string   `json:"author"`
	Tags       []string `json:"tags"`
	Published  bool     `json:"published"`
}

func (in BlogInput) apply(b *domain.Blog) error {
	if err := required("title", in.Title); err != nil {
		return err
	}
	b.Title = strings.TrimSpace(in.Title)
	b.Slug = Slugify(in.Slug)
	if b.Slug == "" {
		b.Slug = Slugify(in.Title)
	}
	if b.Slug == "" {
		return fmt.Errorf("%w: title must contain letters or digits", domain.ErrInvalidInput)
	}
	b.Content = in.Content
	b.Excerpt = strings.TrimSpace(in.Excerpt)
	if b.Excerpt == "" {
		b.Excerpt = Excerpt(in.Content, excerptLength)
	}
	b.CoverImage = in.CoverImage
	b.Author = strings.TrimSpace(in.Author)
	b.Tags = in.Tags
	if b.Tags == nil {
		b.Tags = []string{}
	}
	b.Published = in.Published
	return nil
}

// Slugify lowercases s and joins its letter and digit runs with hyphens.
func Slugify(s string) string {
	var sb strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if dash && sb.Len() > 0 {
				sb.WriteByte('-')
			}
			sb.WriteRune(r)
			dash = false
			continue
		}
		dash = true
	}
	return sb.String()
}

// Excerpt returns the first n characters of the visible text of an HTML
// fragment, with whitespace collapsed.
func Excerpt(html string, n int) string {
	text := html
	if doc, err := goquery.NewDocumentFromReader(strings.NewReader(html)); err == nil {
		var parts []string
		collectText(doc.Find("body"), &parts)
		text = strings.Join(parts, " ")
	}
	text = strings.Join(strings.Fields(text), " ")
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return strings.TrimSpace(string(runes[:n]))
}

// collectText walks sel in document order so adjacent block elements do not
// run together.
func collectText(sel *goquery.Selection, parts *[]string) {
	sel.Contents().Each(func(_ int, c *goquery.Selection) {
		switch goquery.NodeName(c) {
		case "#text":
			*parts = append(*parts, c.Text())
		case "script", "style":
		default:
			collectText(c, parts)
		}
	})
}

func (s *ContentService) ListBlogs(ctx context.Context, publishedOnly bool) ([]domain.Blog, error) {
	return s.repos.Blogs.List(ctx, publishedOnly)
}

// GetBlog hides drafts unless includeDrafts is set.
func (s *ContentService) GetBlog(ctx context.Context, slug string, includeDrafts bool) (*domain.Blog, error) {
	b, err := s.repos.Blogs.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !b.Published && !includeDrafts {
		return nil, fmt.Errorf("blog %s: %w", slug, domain.ErrNotFound)
	}
	return b, nil
}

func (s *ContentService) CreateBlog(ctx context.Context, input BlogInput) (*domain.Blog, error) {
	b := &domain.Blog{ID: uuid.NewString()}
	if err := input.apply(b); err != nil {
		return nil, err
	}
	if err := s.repos.Blogs.Create(ctx, b); err != nil {
		return nil, err
	}
	s.logger.Info().Str("blog_id", b.ID).Str("slug", b.Slug).Msg("blog created")
	return b, nil
}

func (s *ContentService) UpdateBlog(ctx context.Context, id string, input BlogInput) (*domain.Blog, error) {
	b, err := s.repos.Blogs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := input.apply(b); err != nil {
		return nil, err
	}
	if err := s.repos.Blogs.Update(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *ContentService) DeleteBlog(ctx context.Context, id string) error {
	return s.repos.Blogs.Delete(ctx, id)
}

type CommentInput struct {
	BlogID   string `json:"blogId"`
	UserName string `json:"userName"`
	Content  string `json:"content"`
}

func (s *ContentService) ListComments(ctx context.Context, blogID string) ([]domain.Comment, error) {
	return s.repos.Comments.ListByBlog(ctx, blogID)
}

func (s *ContentService) CreateComment(ctx context.Context, principal *identity.Principal, input CommentInput) (*domain.Comment, error) {
	if err := required("blogId", input.BlogID); err != nil {
		return nil, err
	}
	if err := required("content", input.Content); err != nil {
		return nil, err
	}
	blog, err := s.repos.Blogs.GetByID(ctx, input.BlogID)
	if err != nil {
		return nil, err
	}
	// drafts are invisible to readers, so they cannot be commented on either
	if !blog.Published && !principal.IsAdmin() {
		return nil, fmt.Errorf("blog %s: %w", input.BlogID, domain.ErrNotFound)
	}

	name := strings.TrimSpace(input.UserName)
	if name == "" {
		name = principal.Email
	}
	c := &domain.Comment{
		ID:       uuid.NewString(),
		BlogID:   input.BlogID,
		UserID:   principal.UID,
		UserName: name,
		Content:  strings.TrimSpace(input.Content),
	}
	if err := s.repos.Comments.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *ContentService) DeleteComment(ctx context.Context, principal *identity.Principal, id string) error {
	c, err := s.repos.Comments.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if c.UserID != principal.UID && !principal.IsAdmin() {
		return fmt.Errorf("%w: comment belongs to another user", domain.ErrForbidden)
	}
	return s.repos.Comments.Delete(ctx, id)
}
