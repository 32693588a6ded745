package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/Domenick1991/seatreserve/config"
	"github.com/Domenick1991/seatreserve/internal/logger"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

const (
	shutdownTimeout = 5 * time.Second
	// ServiceName is the name reported by the gRPC health service.
	ServiceName = "seatreserve.v1.Seats"
)

type Servers struct {
	grpcServer *grpc.Server
	httpServer *http.Server
	health     *health.Server
	log        *logger.Logger
}

func NewServers(cfg *config.Config, handler http.Handler, log *logger.Logger) *Servers {
	if log == nil {
		log = logger.Nop()
	}

	grpcSrv := grpc.NewServer()
	healthSrv := health.NewServer()
	healthpb.RegisterHealthServer(grpcSrv, healthSrv)
	reflection.Register(grpcSrv)

	return &Servers{
		grpcServer: grpcSrv,
		httpServer: &http.Server{
			Addr:              cfg.HTTP.Address,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
		health: healthSrv,
		log:    log,
	}
}

// Run starts the gRPC health server and the HTTP API and blocks until ctx is
// cancelled or a server fails.
func Run(ctx context.Context, cfg *config.Config, handler http.Handler, log *logger.Logger) error {
	s := NewServers(cfg, handler, log)

	lis, err := net.Listen("tcp", cfg.GRPC.Address)
	if err != nil {
		return fmt.Errorf("listen gRPC %s: %w", cfg.GRPC.Address, err)
	}
	return s.Serve(ctx, lis)
}

func (s *Servers) Serve(ctx context.Context, grpcLis net.Listener) error {
	errCh := make(chan error, 2)

	go func() {
		if err := s.grpcServer.Serve(grpcLis); err != nil {
			errCh <- fmt.Errorf("grpc server: %w", err)
		}
	}()
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	s.SetServing(true)
	s.log.Info("servers started", "http", s.httpServer.Addr, "grpc", grpcLis.Addr().String())

	select {
	case err := <-errCh:
		s.SetServing(false)
		s.grpcServer.Stop()
		_ = s.httpServer.Close()
		return err
	case <-ctx.Done():
		s.log.Info("shutting down servers")
		s.SetServing(false)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.grpcServer.GracefulStop()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	}
}

// SetServing flips both the overall and the named service health status.
func (s *Servers) SetServing(serving bool) {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if serving {
		status = healthpb.HealthCheckResponse_SERVING
	}
	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(ServiceName, status)
}

func (s *Servers) GRPCServer() *grpc.Server {
	return s.grpcServer
}
