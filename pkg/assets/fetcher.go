// Package assets fetches the sound and model files a flight needs before the
// loop may start. Every fetch runs through a circuit breaker so a dead asset
// host fails fast instead of stalling startup.
package assets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/opd-ai/go-flightgl/pkg/config"
	"github.com/opd-ai/go-flightgl/pkg/logging"
)

// ErrUnsupportedSource is returned for sources that are neither file paths
// nor http(s) URLs.
var ErrUnsupportedSource = errors.New("unsupported asset source")

// errPermanent marks failures a retry cannot fix.
var errPermanent = errors.New("permanent failure")

const defaultRetryDelay = 250 * time.Millisecond

// FetchOperation is a single attempt at retrieving an asset.
type FetchOperation func(ctx context.Context) error

// Fetcher reads asset sources with retry and circuit breaking.
type Fetcher struct {
	breaker    *gobreaker.CircuitBreaker
	client     *http.Client
	retries    int
	retryDelay time.Duration
	logger     *logging.Logger
}

// NewFetcher creates a Fetcher whose breaker and retry budget come from env.
func NewFetcher(env *config.EnvironmentConfig, logger *logging.Logger) *Fetcher {
	if logger == nil {
		logger = logging.Discard()
	}

	settings := gobreaker.Settings{
		Name:        "flightgl-assets",
		MaxRequests: env.CircuitBreakerMaxRequests,
		Interval:    env.CircuitBreakerInterval,
		Timeout:     env.CircuitBreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= env.CircuitBreakerMaxConsecutiveFails
		},
		IsSuccessful: func(err error) bool {
			// A missing file says nothing about the health of the source.
			return err == nil || errors.Is(err, errPermanent)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Info(context.Background(), "circuit breaker state changed",
				"name", name,
				"from", from,
				"to", to,
			)
		},
	}

	return &Fetcher{
		breaker:    gobreaker.NewCircuitBreaker(settings),
		client:     &http.Client{Timeout: env.AssetTimeout},
		retries:    env.AssetRetries,
		retryDelay: defaultRetryDelay,
		logger:     logger,
	}
}

// Execute runs one attempt through the circuit breaker.
func (f *Fetcher) Execute(ctx context.Context, operation FetchOperation) error {
	_, err := f.breaker.Execute(func() (interface{}, error) {
		return nil, operation(ctx)
	})
	if err != nil {
		f.logger.LogWithContext(ctx, slog.LevelDebug, "asset fetch attempt failed",
			"error", err,
			"state", f.breaker.State(),
		)
		return fmt.Errorf("circuit breaker: %w", err)
	}
	return nil
}

// ExecuteWithRetry runs operation up to retries+1 times with a linear
// backoff. It gives up early when the breaker opens or the failure is
// permanent.
func (f *Fetcher) ExecuteWithRetry(ctx context.Context, operation FetchOperation) error {
	attempts := f.retries + 1

	for attempt := 0; attempt < attempts; attempt++ {
		err := f.Execute(ctx, operation)
		if err == nil {
			return nil
		}

		if errors.Is(err, errPermanent) {
			return err
		}

		if f.breaker.State() == gobreaker.StateOpen {
			f.logger.Warn(ctx, "circuit breaker is open, skipping retries",
				"attempt", attempt+1,
				"max_attempts", attempts,
			)
			return err
		}

		if attempt == attempts-1 {
			return fmt.Errorf("max attempts (%d) exceeded: %w", attempts, err)
		}

		delay := time.Duration(attempt+1) * f.retryDelay
		f.logger.Warn(ctx, "asset fetch failed, retrying",
			"attempt", attempt+1,
			"max_attempts", attempts,
			"delay", delay,
			"error", err,
		)

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return fmt.Errorf("retry cancelled: %w", ctx.Err())
		}
	}

	return fmt.Errorf("unexpected exit from retry loop")
}

// Fetch returns the bytes behind source, which is a file path, a file://
// URL or an http(s) URL.
func (f *Fetcher) Fetch(ctx context.Context, source string) ([]byte, error) {
	var data []byte

	fetch, err := f.operationFor(source, &data)
	if err != nil {
		return nil, err
	}
	if err := f.ExecuteWithRetry(ctx, fetch); err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", source, err)
	}
	return data, nil
}

func (f *Fetcher) operationFor(source string, out *[]byte) (FetchOperation, error) {
	scheme, rest, hasScheme := strings.Cut(source, "://")
	if !hasScheme {
		return func(ctx context.Context) error { return readFile(source, out) }, nil
	}

	switch strings.ToLower(scheme) {
	case "file":
		return func(ctx context.Context) error { return readFile(rest, out) }, nil
	case "http", "https":
		return func(ctx context.Context) error { return f.get(ctx, source, out) }, nil
	default:
		return nil, fmt.Errorf("%s: %w", source, ErrUnsupportedSource)
	}
}

func readFile(path string, out *[]byte) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %w", errPermanent, err)
		}
		return err
	}
	*out = data
	return nil
}

func (f *Fetcher) get(ctx context.Context, url string, out *[]byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("%w: %w", errPermanent, err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s", errPermanent, resp.Status)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return fmt.Errorf("unexpected status %s", resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	*out = data
	return nil
}

// State returns the current state of the circuit breaker.
func (f *Fetcher) State() gobreaker.State {
	return f.breaker.State()
}

// Counts returns the breaker's request counts for the current interval.
func (f *Fetcher) Counts() gobreaker.Counts {
	return f.breaker.Counts()
}
