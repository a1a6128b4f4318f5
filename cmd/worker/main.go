package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Domenick1991/travelbooking/config"
	"github.com/Domenick1991/travelbooking/internal/email"
	"github.com/Domenick1991/travelbooking/internal/kafka"
	"github.com/Domenick1991/travelbooking/internal/logging"
	"github.com/Domenick1991/travelbooking/internal/repository"
	"github.com/Domenick1991/travelbooking/internal/service/booking"
	"github.com/Domenick1991/travelbooking/internal/service/content"
	"github.com/Domenick1991/travelbooking/internal/service/payment"
	"github.com/Domenick1991/travelbooking/internal/worker"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
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
	logger = logger.With().Str("component", "worker").Logger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, &logger); err != nil {
		logger.Error().Err(err).Msg("worker stopped with error")
		stop()
		os.Exit(1)
	}
	logger.Info().Msg("worker stopped")
}

func run(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) error {
	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer pool.Close()

	bookingRepo := repository.NewBookingRepository(pool)
	packageRepo := repository.NewPackageRepository(pool)

	paymentOpts := []payment.PaymentServiceOption{
		payment.WithPendingTTL(cfg.Worker.PendingTransactionTTL()),
		payment.WithLogger(logger),
	}
	var producer booking.Producer
	if len(cfg.Kafka.Brokers) > 0 {
		p := kafka.NewProducer(cfg.Kafka.Brokers, logger)
		defer p.Close()
		checkKafka(ctx, p, logger)
		producer = p
		paymentOpts = append(paymentOpts, payment.WithEvents(producer, cfg.Kafka.BookingEventsTopic, cfg.Kafka.NotificationsTopic))
	}

	// The sweeper never talks to the payment gateway.
	payments := payment.NewPaymentService(repository.NewTransactionRepository(pool), bookingRepo, packageRepo, nil, cfg.Stripe.Currency, paymentOpts...)
	sweeper := worker.NewSweeper(payments, time.Duration(cfg.Worker.ExpirationSweepMinutes)*time.Minute, logger)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return sweeper.Run(ctx) })

	if len(cfg.Kafka.Brokers) == 0 {
		logger.Warn().Msg("kafka not configured, notifications consumer disabled")
		return g.Wait()
	}

	contentService := content.NewContentService(content.Repositories{
		Notifications: repository.NewNotificationRepository(pool),
	}, content.WithLogger(logger))
	notifier := worker.NewNotifier(contentService, email.NewSender(cfg.SMTP, logger), logger)

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.NotificationsTopic)
	defer consumer.Close()

	g.Go(func() error {
		logger.Info().Str("topic", cfg.Kafka.NotificationsTopic).Msg("consuming booking events")
		return consumer.Consume(ctx, notifier.Handle)
	})

	return g.Wait()
}

func checkKafka(ctx context.Context, p *kafka.Producer, logger *zerolog.Logger) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := p.CheckConnection(ctx); err != nil {
		logger.Warn().Err(err).Msg("kafka is not reachable at startup")
	}
}
