package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"go.uber.org/zap"

	"github.com/eugenenazirov/bouquets/internal/application"
	"github.com/eugenenazirov/bouquets/internal/config"
	"github.com/eugenenazirov/bouquets/internal/logging"
	"github.com/eugenenazirov/bouquets/internal/session"
)

var signalNotify = signal.Notify

func main() {
	kingpinApp := kingpin.New("bouquets", "Bouquet allocator - builds bouquets from design codes and a shared flower stock")
	configFile := kingpinApp.Flag("config", "Path to YAML configuration file").String()
	envFile := kingpinApp.Flag("env-file", "Path to a dotenv file loaded before reading the environment").String()
	strategy := kingpinApp.Flag("strategy", "Allocation strategy: atomic or fail-fast").String()
	logLevel := kingpinApp.Flag("log-level", "Log level: debug, info, warn or error").String()

	runCmd := kingpinApp.Command("run", "Read designs and flowers, print one bouquet or failure per design").Default()
	inputFile := runCmd.Flag("input", "Read the order from a file (.yaml/.yml or blank-line separated lines) instead of stdin").String()
	showStock := runCmd.Flag("show-stock", "Print the remaining stock after all designs").Bool()

	serveCmd := kingpinApp.Command("serve", "Serve the allocation HTTP API")
	port := serveCmd.Flag("port", "HTTP port exposed by the service").String()
	rateLimitRPSFlag := serveCmd.Flag("rate-limit-rps", "Requests per second allowed (set 0 to disable)").Default("-1").Float64()
	rateLimitBurstFlag := serveCmd.Flag("rate-limit-burst", "Burst capacity for rate limiter (set 0 to disable)").Default("-1").Int()

	command := kingpin.MustParse(kingpinApp.Parse(os.Args[1:]))

	overrides := &config.CLIOverrides{
		ConfigFile:     *configFile,
		EnvFile:        *envFile,
		Strategy:       strategy,
		LogLevel:       logLevel,
		Port:           port,
		RateLimitRPS:   rateLimitRPSFlag,
		RateLimitBurst: rateLimitBurstFlag,
	}

	cfg, err := config.Load(overrides)
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer func() {
		_ = logger.Sync()
	}()

	switch command {
	case runCmd.FullCommand():
		runner := application.NewRunner(cfg, logger)
		if err := runOrder(runner, os.Stdin, os.Stdout, *inputFile, *showStock); err != nil {
			logger.Error("run failed", zap.Error(err))
			_ = logger.Sync()
			os.Exit(1)
		}
	case serveCmd.FullCommand():
		app, err := application.New(cfg, logger)
		if err != nil {
			logger.Fatal("failed to initialize application", zap.Error(err))
		}

		if err := app.Start(); err != nil {
			logger.Fatal("failed to start server", zap.Error(err))
		}

		shutdown(app.Server(), cfg.ShutdownGracePeriod, logger)
	}
}

// runOrder reads one order, allocates it and writes a line per design. Output
// for the designs processed before a fatal error is still written.
func runOrder(runner *session.Runner, in io.Reader, out io.Writer, inputFile string, showStock bool) error {
	var (
		order session.Order
		err   error
	)
	if inputFile != "" {
		order, err = session.LoadOrderFile(inputFile)
	} else {
		order, err = session.ReadOrder(in)
	}
	if err != nil {
		return err
	}

	report, runErr := runner.Run(order)
	if err := session.Render(out, report); err != nil {
		return fmt.Errorf("write results: %w", err)
	}
	if runErr != nil {
		return runErr
	}
	if showStock {
		if err := session.RenderStock(out, report.Stock); err != nil {
			return fmt.Errorf("write stock: %w", err)
		}
	}
	return nil
}

func shutdown(server *http.Server, timeout time.Duration, logger *zap.Logger) {
	quit := make(chan os.Signal, 1)
	signalNotify(quit, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Warn("graceful shutdown failed", zap.Error(err))
		if closeErr := server.Close(); closeErr != nil {
			logger.Error("forced close failed", zap.Error(closeErr))
		}
	}
}
