package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Domenick1991/travelbooking/api"
	"github.com/Domenick1991/travelbooking/config"
	"github.com/Domenick1991/travelbooking/internal/bootstrap"
	"github.com/Domenick1991/travelbooking/internal/cache"
	"github.com/Domenick1991/travelbooking/internal/checkout"
	"github.com/Domenick1991/travelbooking/internal/identity"
	"github.com/Domenick1991/travelbooking/internal/kafka"
	"github.com/Domenick1991/travelbooking/internal/logging"
	"github.com/Domenick1991/travelbooking/internal/metrics"
	"github.com/Domenick1991/travelbooking/internal/repository"
	"github.com/Domenick1991/travelbooking/internal/service/account"
	"github.com/Domenick1991/travelbooking/internal/service/activity"
	"github.com/Domenick1991/travelbooking/internal/service/booking"
	"github.com/Domenick1991/travelbooking/internal/service/catalog"
	"github.com/Domenick1991/travelbooking/internal/service/content"
	"github.com/Domenick1991/travelbooking/internal/service/payment"
	"github.com/Domenick1991/travelbooking/internal/service/review"
	"github.com/Domenick1991/travelbooking/internal/service/wishlist"
	"github.com/Domenick1991/travelbooking/internal/storage"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	logger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	if closer != nil {
		defer closer.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, &logger); err != nil {
		logger.Error().Err(err).Msg("server stopped with error")
		stop()
		os.Exit(1)
	}
	logger.Info().Msg("server stopped")
}

func run(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) error {
	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer pool.Close()

	if err := repository.Migrate(ctx, pool); err != nil {
		return err
	}

	userRepo := repository.NewUserRepository(pool)
	packageRepo := repository.NewPackageRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)
	transactionRepo := repository.NewTransactionRepository(pool)

	catalogOpts := []catalog.CatalogServiceOption{catalog.WithLogger(logger)}
	paymentOpts := []payment.PaymentServiceOption{
		payment.WithPendingTTL(cfg.Worker.PendingTransactionTTL()),
		payment.WithLogger(logger),
	}
	if cfg.Redis.Addr != "" {
		redisCache := cache.NewRedisCache(cfg.Redis)
		defer redisCache.Close()
		if err := redisCache.Ping(ctx); err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		catalogOpts = append(catalogOpts, catalog.WithCache(redisCache))
		paymentOpts = append(paymentOpts, payment.WithDeduper(redisCache))
	} else {
		logger.Warn().Msg("redis not configured, package cache and webhook dedupe disabled")
	}

	var producer booking.Producer
	if len(cfg.Kafka.Brokers) > 0 {
		p := kafka.NewProducer(cfg.Kafka.Brokers, logger)
		defer p.Close()
		checkKafka(ctx, p, logger)
		producer = p
		paymentOpts = append(paymentOpts, payment.WithEvents(p, cfg.Kafka.BookingEventsTopic, cfg.Kafka.NotificationsTopic))
	} else {
		logger.Warn().Msg("kafka not configured, booking events disabled")
	}

	var (
		verifier  identity.TokenVerifier
		directory identity.Directory
	)
	accountOpts := []account.AccountServiceOption{account.WithLogger(logger)}
	switch cfg.Auth.Provider {
	case config.AuthProviderFirebase:
		fb, err := identity.NewFirebase(ctx, cfg.Firebase)
		if err != nil {
			return err
		}
		verifier, directory = fb, fb
	default:
		jwt := identity.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL(), cfg.App.Name)
		verifier, directory = jwt, identity.NewLocalDirectory(userRepo)
		accountOpts = append(accountOpts, account.WithTokenIssuer(jwt))
	}

	var gateway payment.Gateway
	if cfg.Stripe.SecretKey != "" {
		gateway = checkout.NewStripeGateway(cfg.Stripe)
	} else {
		logger.Warn().Msg("stripe not configured, checkout disabled")
	}

	var uploader api.Uploader
	if cfg.S3.Enabled() {
		s3, err := storage.NewS3Uploader(ctx, cfg.S3)
		if err != nil {
			return err
		}
		uploader = s3
	}

	services := api.Services{
		Accounts: account.NewAccountService(userRepo, directory, accountOpts...),
		Catalog:  catalog.NewCatalogService(packageRepo, catalogOpts...),
		Bookings: booking.NewBookingService(bookingRepo, packageRepo, producer, cfg.Kafka.BookingEventsTopic,
			booking.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
			booking.WithLogger(logger),
		),
		Payments: payment.NewPaymentService(transactionRepo, bookingRepo, packageRepo, gateway, cfg.Stripe.Currency, paymentOpts...),
		Reviews:  review.NewReviewService(repository.NewReviewRepository(pool), packageRepo, review.WithLogger(logger)),
		Wishlist: wishlist.NewWishlistService(repository.NewWishlistRepository(pool), packageRepo),
		Content: content.NewContentService(content.Repositories{
			Blogs:         repository.NewBlogRepository(pool),
			Comments:      repository.NewCommentRepository(pool),
			Notifications: repository.NewNotificationRepository(pool),
			Testimonials:  repository.NewTestimonialRepository(pool),
			Contacts:      repository.NewContactRepository(pool),
			Products:      repository.NewProductRepository(pool),
			Careers:       repository.NewCareerRepository(pool),
		}, content.WithLogger(logger)),
		Activity: activity.NewActivityService(repository.NewActivityRepository(pool)),
		Uploader: uploader,
	}

	metrics.Register()
	router := api.NewRouter(cfg.HTTP, verifier, services, logger)

	return bootstrap.Run(ctx, cfg, router, logger)
}

// checkKafka only warns: the writer reconnects on its own once brokers are up.
func checkKafka(ctx context.Context, p *kafka.Producer, logger *zerolog.Logger) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := p.CheckConnection(ctx); err != nil {
		logger.Warn().Err(err).Msg("kafka is not reachable, events will be retried on publish")
	}
}
