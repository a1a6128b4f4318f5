package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/Domenick1991/travelbooking/config"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

const shutdownTimeout = 5 * time.Second

type Servers struct {
	grpcServer    *grpc.Server
	health        *health.Server
	httpServer    *http.Server
	metricsServer *http.Server
}

// Run starts the HTTP API, the gRPC health service and, when enabled, the
// Prometheus endpoint. It blocks until ctx is canceled or a server fails.
func Run(ctx context.Context, cfg *config.Config, handler http.Handler, logger *zerolog.Logger) error {
	s := newServers(cfg, handler)

	lis, err := net.Listen("tcp", cfg.GRPC.Address)
	if err != nil {
		return fmt.Errorf("listen gRPC %s: %w", cfg.GRPC.Address, err)
	}

	errCh := make(chan error, 3)

	go func() { errCh <- s.grpcServer.Serve(lis) }()
	go func() { errCh <- listen(s.httpServer) }()
	if s.metricsServer != nil {
		go func() { errCh <- listen(s.metricsServer) }()
	}

	s.health.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	logger.Info().
		Str("http", cfg.HTTP.Address).
		Str("grpc", cfg.GRPC.Address).
		Bool("metrics", s.metricsServer != nil).
		Msg("servers started")

	select {
	case err := <-errCh:
		s.shutdown(logger)
		return err
	case <-ctx.Done():
		logger.Info().Msg("shutting down")
		return s.shutdown(logger)
	}
}

func newServers(cfg *config.Config, handler http.Handler) *Servers {
	grpcSrv := grpc.NewServer()
	healthSrv := health.NewServer()
	healthpb.RegisterHealthServer(grpcSrv, healthSrv)

	s := &Servers{
		grpcServer: grpcSrv,
		health:     healthSrv,
		httpServer: &http.Server{
			Addr:              cfg.HTTP.Address,
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}

	if cfg.Monitoring.PrometheusEnabled {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		s.metricsServer = &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Monitoring.PrometheusPort),
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
	}
	return s
}

func listen(srv *http.Server) error {
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve %s: %w", srv.Addr, err)
	}
	return nil
}

func (s *Servers) shutdown(logger *zerolog.Logger) error {
	s.health.Shutdown()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	var errs []error
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("shutdown http server: %w", err))
	}
	if s.metricsServer != nil {
		if err := s.metricsServer.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("shutdown metrics server: %w", err))
		}
	}
	s.grpcServer.GracefulStop()

	err := errors.Join(errs...)
	if err != nil {
		logger.Error().Err(err).Msg("shutdown finished with errors")
	}
	return err
}
