package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/V4T54L/send-event/internal/adapter/metrics"
	"github.com/V4T54L/send-event/internal/adapter/osenv"
	"github.com/V4T54L/send-event/internal/adapter/pii"
	"github.com/V4T54L/send-event/internal/adapter/release"
	"github.com/V4T54L/send-event/internal/adapter/transport/httptransport"
	"github.com/V4T54L/send-event/internal/adapter/transport/redisstream"
	"github.com/V4T54L/send-event/internal/domain"
	"github.com/V4T54L/send-event/internal/pkg/config"
	"github.com/V4T54L/send-event/internal/pkg/logger"
	"github.com/V4T54L/send-event/internal/usecase"
)

const sdkName = "sentry.go.send-event"

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	os.Exit(run(os.Args, os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	in, err := parseArgs(args[0], args[1:], stderr)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		return 2
	}

	cfg, err := config.Load()
	if err != nil {
		logger.NewWithWriter(stderr, os.Getenv("LOG_LEVEL")).Error("failed to load config", "error", err)
		return 1
	}

	log := logger.NewWithWriter(stderr, cfg.LogLevel)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sdk := sdkInfo()
	m := metrics.NewDispatchMetrics()

	transport, closeTransport, err := newTransport(cfg, sdk, m, log)
	if err != nil {
		log.Error("failed to initialize transport", "error", err)
		return 1
	}
	defer closeTransport()

	assembler := usecase.NewAssembler(
		release.NewDetector(log),
		osenv.UserName{},
		osenv.Environ{},
		pii.NewRedactor(cfg.EnvironRedactKeys, log),
		sdk,
	)
	dispatcher := usecase.NewDispatcher(transport, sdk, log)
	sendEvent := usecase.NewSendEventUseCase(cfg, assembler, dispatcher, stdout, log)

	_, err = sendEvent.Execute(ctx, in)

	if cfg.PushgatewayURL != "" {
		pushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if pushErr := m.Push(pushCtx, cfg.PushgatewayURL); pushErr != nil {
			log.Warn("failed to push metrics", "error", pushErr)
		}
		cancel()
	}

	if err != nil {
		log.Error("failed to send event", "error", err)
		return 1
	}
	return 0
}

func newTransport(cfg *config.Config, sdk domain.SdkInfo, m *metrics.DispatchMetrics, log *slog.Logger) (domain.Transport, func(), error) {
	switch cfg.Transport {
	case config.TransportRedis:
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		t := redisstream.New(redis.NewClient(opts), cfg.RedisStream, m, log)
		return t, func() {
			if err := t.Close(); err != nil {
				log.Warn("failed to close redis client", "error", err)
			}
		}, nil
	default:
		t := httptransport.New(sdk, log,
			httptransport.WithTimeout(cfg.HTTPTimeout),
			httptransport.WithMaxRetries(cfg.HTTPMaxRetries),
			httptransport.WithRateLimit(cfg.SendRateLimit, cfg.SendRateBurst),
			httptransport.WithMetrics(m),
		)
		return t, func() {}, nil
	}
}

func sdkInfo() domain.SdkInfo {
	v := version
	if v == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
			v = info.Main.Version
		}
	}
	return domain.SdkInfo{Name: sdkName, Version: v}
}
