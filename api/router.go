package api

import (
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/Domenick1991/travelbooking/config"
	"github.com/Domenick1991/travelbooking/internal/identity"
	"github.com/Domenick1991/travelbooking/internal/service/account"
	"github.com/Domenick1991/travelbooking/internal/service/activity"
	"github.com/Domenick1991/travelbooking/internal/service/booking"
	"github.com/Domenick1991/travelbooking/internal/service/catalog"
	"github.com/Domenick1991/travelbooking/internal/service/content"
	"github.com/Domenick1991/travelbooking/internal/service/payment"
	"github.com/Domenick1991/travelbooking/internal/service/review"
	"github.com/Domenick1991/travelbooking/internal/service/wishlist"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Services struct {
	Accounts account.AccountUseCase
	Catalog  catalog.CatalogUseCase
	Bookings booking.BookingUseCase
	Payments payment.PaymentUseCase
	Reviews  review.ReviewUseCase
	Wishlist wishlist.WishlistUseCase
	Content  content.ContentUseCase
	Activity activity.ActivityUseCase
	// Uploader may be nil when S3 is not configured.
	Uploader Uploader
}

func NewRouter(cfg config.HTTPConfig, verifier identity.TokenVerifier, svc Services, logger *zerolog.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), RequestLogger(logger), Metrics(), cors.New(corsConfig(cfg.CORSOrigins)))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	registerDocs(router, cfg.SwaggerDir)

	auth := Authenticate(verifier)
	limit := newRateLimiter(cfg.RateLimit).Middleware()

	root := router.Group("/api")

	accounts := NewAccountHandler(svc.Accounts)
	authGroup := root.Group("/auth")
	authGroup.Use(limit)
	accounts.RegisterAuth(authGroup)
	accounts.RegisterUsers(root.Group("/users"), auth)

	NewPackageHandler(svc.Catalog).Register(root.Group("/packages"), auth)
	NewBookingHandler(svc.Bookings).Register(root.Group("/bookings"), auth)
	NewTransactionHandler(svc.Payments).Register(root.Group("/transactions"), auth)
	NewReviewHandler(svc.Reviews).Register(root.Group("/reviews"), auth)
	NewWishlistHandler(svc.Wishlist).Register(root.Group("/wishlist"), auth)
	NewActivityHandler(svc.Activity).Register(root.Group("/activity"), auth)
	NewUploadHandler(svc.Uploader).Register(root.Group("/uploads"), auth)

	contentHandler := NewContentHandler(svc.Content)
	contentHandler.RegisterBlogs(root.Group("/blogs"), auth, OptionalAuthenticate(verifier))
	contentHandler.RegisterComments(root.Group("/comments"), auth)
	contentHandler.RegisterNotifications(root.Group("/notifications"), auth)
	contentHandler.RegisterTestimonials(root.Group("/testimonials"), auth)
	contentHandler.RegisterContact(root.Group("/contact"), auth, limit)
	contentHandler.RegisterProducts(root.Group("/products"), auth)
	contentHandler.RegisterCareers(root.Group("/careers"), auth)

	return router
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
		cfg.AllowCredentials = false
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}

// registerDocs serves openapi.json from dir and the Swagger UI at
// /swagger/index.html.
func registerDocs(router *gin.Engine, dir string) {
	if dir == "" {
		return
	}
	spec := filepath.Join(dir, "openapi.json")
	if _, err := os.Stat(spec); err != nil {
		return
	}
	router.StaticFile("/docs/openapi.json", spec)
	router.GET("/swagger/*any", gin.WrapH(httpSwagger.Handler(httpSwagger.URL("/docs/openapi.json"))))
}
