package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/mitchelldurbincs/minesweeper/internal/config"
	"github.com/mitchelldurbincs/minesweeper/internal/grpc/gameserver"
	"github.com/mitchelldurbincs/minesweeper/internal/monitoring"
)

func main() {
	// Command line flags
	configPath := flag.String("config", "", "Path to config file")
	env := flag.String("env", os.Getenv("APP_ENV"), "Environment overlay to merge (config.<env>.yaml)")
	port := flag.Int("port", -1, "The server port (-1 to use config default)")
	host := flag.String("host", "", "The server host (empty to use config default)")
	logLevel := flag.String("log-level", "", "Log level (debug, info, warn, error) (empty to use config default)")
	maxGames := flag.Int("max-games", -1, "Maximum concurrent games (-1 to use config default)")
	enableReflection := flag.Bool("enable-reflection", false, "Enable gRPC reflection for debugging")
	flag.Parse()

	// Initialize configuration
	if err := config.Init(*configPath); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize config")
	}
	if *env != "" {
		if err := config.LoadEnvironmentConfig(*env); err != nil {
			log.Fatal().Err(err).Str("env", *env).Msg("Failed to load environment config")
		}
	}

	cfg := config.Get()
	serverCfg := cfg.Server.GRPCServer

	// Use config defaults if not overridden by flags
	if *port == -1 {
		*port = serverCfg.Port
	}
	if *host == "" {
		*host = serverCfg.Host
	}
	if *logLevel == "" {
		*logLevel = serverCfg.LogLevel
	}
	if *maxGames == -1 {
		*maxGames = serverCfg.MaxGames
	}
	// For enableReflection, use config if flag not explicitly set to true
	if !*enableReflection {
		*enableReflection = serverCfg.EnableReflection
	}

	setupLogging(*logLevel)

	log.Info().
		Int("port", *port).
		Str("host", *host).
		Int("max_games", *maxGames).
		Int("max_board_cells", serverCfg.MaxBoardCells).
		Int("session_idle_timeout_s", serverCfg.SessionIdleTimeout).
		Msg("Starting gRPC game server")

	lis, err := net.Listen("tcp", fmt.Sprintf("%s:%d", *host, *port))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to listen")
	}

	grpcServer := grpc.NewServer(gameserver.ServerOptions(log.Logger)...)

	clk := clock.New()
	gameManager := gameserver.NewGameManager(gameserver.ManagerConfig{
		MaxGames:        *maxGames,
		MaxBoardCells:   serverCfg.MaxBoardCells,
		IdleTimeout:     time.Duration(serverCfg.SessionIdleTimeout) * time.Second,
		CleanupInterval: time.Duration(serverCfg.CleanupInterval) * time.Second,
		Clock:           clk,
		Logger:          log.Logger,
	})

	gameService := gameserver.NewServer(gameManager, log.Logger,
		gameserver.WithDebugSnapshots(cfg.Development.ShowMines),
	)
	gameserver.RegisterGameServiceServer(grpcServer, gameService)

	// Register health service
	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(gameserver.ServiceName, grpc_health_v1.HealthCheckResponse_SERVING)

	// Register reflection service for debugging
	if *enableReflection {
		reflection.Register(grpcServer)
		log.Info().Msg("gRPC reflection enabled")
	}

	var monitor *monitoring.Monitor
	if serverCfg.MonitorInterval > 0 {
		monitor = monitoring.NewMonitor(gameManager, time.Duration(serverCfg.MonitorInterval)*time.Second, clk, log.Logger)
		monitor.Start()
	}

	// Only the log level is applied live; everything else needs a restart
	if config.ConfigFilePath() != "" {
		config.WatchConfig(func() {
			level := config.Get().Server.GRPCServer.LogLevel
			zerolog.SetGlobalLevel(parseLevel(level))
			log.Info().Str("log_level", level).Msg("Config reloaded")
		}, func(err error) {
			log.Warn().Err(err).Msg("Ignoring invalid config change")
		})
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		log.Info().Str("signal", sig.String()).Msg("Received shutdown signal")

		healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_NOT_SERVING)
		healthServer.SetServingStatus(gameserver.ServiceName, grpc_health_v1.HealthCheckResponse_NOT_SERVING)

		// Give ongoing requests time to complete
		time.Sleep(time.Duration(serverCfg.GracefulShutdownDelay) * time.Second)

		if monitor != nil {
			monitor.Stop()
		}
		// Closing the sessions ends every WatchGame stream, which GracefulStop waits on
		gameManager.Stop()

		log.Info().Msg("Gracefully stopping gRPC server")
		grpcServer.GracefulStop()
		cancel()
	}()

	log.Info().Str("address", lis.Addr().String()).Msg("gRPC server listening")

	go func() {
		if err := grpcServer.Serve(lis); err != nil {
			log.Fatal().Err(err).Msg("Failed to serve")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Server shutdown complete")
}

func parseLevel(level string) zerolog.Level {
	switch level {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

func setupLogging(level string) {
	zerolog.SetGlobalLevel(parseLevel(level))

	if os.Getenv("APP_ENV") == "production" {
		// JSON output for production
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	} else {
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		})
	}
}
