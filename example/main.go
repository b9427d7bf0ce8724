package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/aniladanir/backoff"
	"github.com/aniladanir/backoff/internal/config"
)

func main() {
	os.Exit(realMain())
}

// realMain returns the process exit code so deferred calls, including the
// logger flush, run before os.Exit.
func realMain() int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		return 2
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "create logger: %v\n", err)
		return 2
	}
	defer func() { _ = logger.Sync() }()

	b, err := cfg.Backoff()
	if err != nil {
		logger.Error("create backoff", zap.Error(err))
		return 2
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, logger, b, cfg.URL); err != nil {
		logger.Error("request failed", zap.String("url", cfg.URL), zap.Error(err))
		return 1
	}

	logger.Info("request is successful", zap.String("url", cfg.URL), zap.Uint32("retries", b.AttemptsDone()))

	return 0
}

func run(ctx context.Context, logger *zap.Logger, b *backoff.Context, url string) error {
	client := &http.Client{Timeout: 5 * time.Second}

	for {
		reqErr := get(ctx, client, url)
		if reqErr == nil {
			return nil
		}

		delay, err := nextDelay(logger, b)
		if err != nil {
			return fmt.Errorf("%w: last error: %w", err, reqErr)
		}

		logger.Info("retrying",
			zap.Uint32("attempt", b.AttemptsDone()),
			zap.Uint16("delay_ms", delay),
			zap.Uint16("next_ceiling_ms", b.JitterCeiling()),
			zap.Error(reqErr),
		)

		if err := sleep(ctx, time.Duration(delay)*time.Millisecond); err != nil {
			return err
		}
	}
}

// rngRetries bounds how often a failing random source is asked again.
const rngRetries = 3

func nextDelay(logger *zap.Logger, b *backoff.Context) (uint16, error) {
	for i := 0; ; i++ {
		delay, status := b.NextBackoff()
		if status != backoff.RNGFailure || i == rngRetries {
			return delay, status.Err()
		}
		logger.Warn("random source failed", zap.Uint32("attempt", b.AttemptsDone()))
	}
}

func get(ctx context.Context, client *http.Client, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return errors.New(resp.Status)
	}

	return nil
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("context done: %w", ctx.Err())
	}
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}

	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(lvl)
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return zc.Build()
}
