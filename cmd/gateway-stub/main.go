package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dvloznov/finops-gateway/internal/config"
	"github.com/dvloznov/finops-gateway/internal/gatewaystub"
	"github.com/dvloznov/finops-gateway/internal/logger"
)

func main() {
	cfg, err := config.Load(os.Getenv("FINOPS_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Parse command-line flags; config values are the defaults.
	var (
		port     = flag.Int("port", cfg.StubPort, "HTTP server port")
		grpcAddr = flag.String("grpc-addr", cfg.GRPCAddr, "gRPC health service address (empty disables it)")
		seed     = flag.Uint64("seed", cfg.FakerSeed, "Fixture seed (0 = random)")
		token    = flag.String("token", cfg.GatewayToken, "Bearer token required on API routes (empty disables auth)")
		level    = flag.String("log-level", cfg.LogLevel, "Log level")
	)
	flag.Parse()

	log, err := logger.NewWithLevel(*level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *token == "" {
		log.Warn().Msg("No token configured - API routes are open")
	}

	handler := gatewaystub.NewRouter(gatewaystub.Config{
		Seed:  *seed,
		Token: *token,
	}, gatewaystub.NewStore(), log)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Int("port", *port).Uint64("seed", *seed).Msg("Starting gateway stub")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	grpcServer, healthServer := gatewaystub.NewHealthServer()
	if *grpcAddr != "" {
		lis, err := net.Listen("tcp", *grpcAddr)
		if err != nil {
			log.Fatal().Err(err).Str("addr", *grpcAddr).Msg("Failed to listen for gRPC")
		}
		go func() {
			log.Info().Str("addr", *grpcAddr).Msg("Starting gRPC health service")
			if err := grpcServer.Serve(lis); err != nil {
				log.Error().Err(err).Msg("gRPC server stopped with error")
			}
		}()
	}

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down stub...")
	healthServer.Shutdown()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}
	grpcServer.GracefulStop()

	log.Info().Msg("Stub exited")
}
