package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	grpc_logging "github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/logging"
	grpc_recovery "github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/recovery"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/KirkDiggler/not-enough-mana/internal/config"
	"github.com/KirkDiggler/not-enough-mana/internal/errors"
	"github.com/KirkDiggler/not-enough-mana/internal/orchestrators/decay"
	"github.com/KirkDiggler/not-enough-mana/internal/pkg/clock"
	"github.com/KirkDiggler/not-enough-mana/internal/pkg/tracing"
	redisclient "github.com/KirkDiggler/not-enough-mana/internal/redis"
	matchrepo "github.com/KirkDiggler/not-enough-mana/internal/repositories/match"
)

const (
	serviceName = "not-enough-mana"

	// decayServiceName is reported on the health service while the
	// supervisor can reach the store
	decayServiceName = "arena.decay"

	shutdownTimeout = 30 * time.Second
)

var (
	grpcPort      int
	redisEndpoint string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the decay service",
	Long: `Run the decay supervisor against the shared store, with a gRPC health
endpoint that reports whether the store is reachable.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&grpcPort, "port", 0, "gRPC health port (overrides ARENA_GRPC_PORT)")
	serveCmd.Flags().StringVar(&redisEndpoint, "redis", "", "Redis endpoint (overrides ARENA_REDIS_ENDPOINT)")
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if grpcPort != 0 {
		cfg.GRPCPort = grpcPort
	}
	if redisEndpoint != "" {
		cfg.RedisEndpoint = redisEndpoint
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Setup(ctx, serviceName, cfg.OTelEndpoint)
	if err != nil {
		return err
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			slog.Warn("failed to flush traces", "error", err)
		}
	}()

	redisClient, err := redisclient.NewClient(cfg.RedisEndpoint, nil)
	if err != nil {
		return errors.Wrap(err, "failed to create redis client")
	}
	defer func() { _ = redisClient.Close() }()

	realClock := clock.New()
	repo, err := matchrepo.NewRedis(&matchrepo.RedisConfig{
		Client: redisClient,
		Clock:  realClock,
	})
	if err != nil {
		return err
	}

	supervisor, err := decay.NewSupervisor(&decay.SupervisorConfig{
		MatchRepo:      repo,
		Clock:          realClock,
		PollInterval:   cfg.SupervisorInterval,
		DriverInterval: cfg.DecayInterval,
		MaxBackoff:     cfg.DecayMaxBackoff,
	})
	if err != nil {
		return err
	}

	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.GRPCPort))
	if err != nil {
		return errors.Wrapf(err, "failed to listen on port %d", cfg.GRPCPort)
	}

	srv := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			grpc_logging.UnaryServerInterceptor(grpc_logging.LoggerFunc(logFunc)),
			grpc_recovery.UnaryServerInterceptor(),
		),
		grpc.ChainStreamInterceptor(
			grpc_logging.StreamServerInterceptor(grpc_logging.LoggerFunc(logFunc)),
			grpc_recovery.StreamServerInterceptor(),
		),
	)
	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(srv, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	reflection.Register(srv)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.InfoContext(gctx, "grpc server starting", "port", cfg.GRPCPort)
		if err := srv.Serve(lis); err != nil {
			return errors.Wrap(err, "failed to serve")
		}
		return nil
	})

	g.Go(func() error {
		slog.InfoContext(gctx, "decay supervisor starting",
			"interval", cfg.DecayInterval,
			"max_backoff", cfg.DecayMaxBackoff)
		return supervisor.Run(gctx)
	})

	g.Go(func() error {
		watchStore(gctx, redisClient, healthServer, realClock, cfg.SupervisorInterval)
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down")
		healthServer.Shutdown()
		gracefulStop(srv)
		return nil
	})

	return g.Wait()
}

// watchStore flips the decay health status with the store's reachability
func watchStore(
	ctx context.Context,
	client redisclient.Client,
	hs *health.Server,
	clk clock.Clock,
	every time.Duration,
) {
	timer := clk.NewTimer(every)
	defer timer.Stop()

	for {
		status := grpc_health_v1.HealthCheckResponse_SERVING
		if err := client.Ping(ctx).Err(); err != nil && ctx.Err() == nil {
			slog.WarnContext(ctx, "store unreachable", "error", err)
			status = grpc_health_v1.HealthCheckResponse_NOT_SERVING
		}
		hs.SetServingStatus(decayServiceName, status)

		select {
		case <-ctx.Done():
			return
		case <-timer.C():
			timer.Reset(every)
		}
	}
}

func gracefulStop(srv *grpc.Server) {
	stopped := make(chan struct{})
	go func() {
		srv.GracefulStop()
		close(stopped)
	}()

	select {
	case <-time.After(shutdownTimeout):
		slog.Warn("graceful shutdown timeout exceeded, forcing stop")
		srv.Stop()
	case <-stopped:
		slog.Info("server stopped gracefully")
	}
}

func newLogger(cfg *config.Config) (*slog.Logger, error) {
	level, err := config.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.LogFormat == config.LogFormatText {
		return slog.New(slog.NewTextHandler(os.Stderr, opts)), nil
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, opts)), nil
}

// logFunc adapts the middleware logger onto slog; the level values line up
func logFunc(ctx context.Context, level grpc_logging.Level, msg string, fields ...any) {
	slog.Log(ctx, slog.Level(level), msg, fields...)
}
