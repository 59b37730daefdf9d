package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/shelter-data-etl/internal/adapter/httpadapter"
	"github.com/couchcryptid/shelter-data-etl/internal/adapter/jsonfile"
	"github.com/couchcryptid/shelter-data-etl/internal/adapter/kafka"
	"github.com/couchcryptid/shelter-data-etl/internal/adapter/kakao"
	"github.com/couchcryptid/shelter-data-etl/internal/config"
	"github.com/couchcryptid/shelter-data-etl/internal/domain"
	"github.com/couchcryptid/shelter-data-etl/internal/observability"
	"github.com/couchcryptid/shelter-data-etl/internal/parser"
	"github.com/couchcryptid/shelter-data-etl/internal/pipeline"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/joho/godotenv"
)

func main() {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := sharedobs.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	aliases, err := config.LoadAliases(cfg.AliasFile, domain.DefaultAliases())
	if err != nil {
		logger.Error("failed to load aliases", "error", err)
		os.Exit(1)
	}

	// Initialize geocoder (feature-flagged via GEOCODE_ENABLED / KAKAO_REST_API_KEY).
	var geocoder domain.Geocoder
	if cfg.GeocodeEnabled {
		client := kakao.NewClient(cfg.KakaoAPIKey, cfg.GeocodeTimeout, cfg.GeocodeRate, metrics, logger)
		cached, err := kakao.NewCachedGeocoder(client, cfg.GeocodeCacheSize, metrics)
		if err != nil {
			logger.Error("failed to create geocoder", "error", err)
			os.Exit(1)
		}
		geocoder = cached
		metrics.GeocodeEnabled.Set(1)
		logger.Info("kakao geocoding enabled", "cache_size", cfg.GeocodeCacheSize, "timeout", cfg.GeocodeTimeout, "rate", cfg.GeocodeRate)
	} else {
		logger.Info("kakao geocoding disabled")
	}

	saver, closeSaver := newSaver(cfg, logger)
	defer func() {
		if err := closeSaver.Close(); err != nil {
			logger.Error("sink close error", "error", err)
		}
	}()

	p := pipeline.New(
		parser.New(logger),
		domain.NewNormalizer(aliases, logger),
		geocoder,
		logger,
		metrics,
		cfg.ParseWorkers,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.RunOnce {
		if err := runAndSave(ctx, p, saver, cfg.DataDir); err != nil {
			logger.Error("pipeline error", "error", err)
			_ = closeSaver.Close()
			os.Exit(1)
		}
		return
	}

	srv := httpadapter.NewServer(cfg.HTTPAddr, p, p, logger)

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Run the pipeline once; the server keeps serving its result.
	go func() {
		if err := runAndSave(ctx, p, saver, cfg.DataDir); err != nil {
			logger.Error("pipeline error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
}

func runAndSave(ctx context.Context, p *pipeline.Pipeline, saver pipeline.Saver, dir string) error {
	res, err := p.Run(ctx, dir)
	if err != nil {
		return err
	}
	return saver.Save(ctx, res.Shelters)
}

// newSaver builds the configured sink and whatever must be closed with it.
func newSaver(cfg *config.Config, logger *slog.Logger) (pipeline.Saver, io.Closer) {
	switch cfg.Sink {
	case config.SinkKafka:
		w := kafka.NewWriter(cfg, logger)
		logger.Info("sink: kafka", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
		return w, w
	case config.SinkFile:
		logger.Info("sink: file", "path", cfg.OutputPath)
		return jsonfile.NewWriter(cfg.OutputPath, logger), nopCloser{}
	default:
		logger.Info("sink: log")
		return pipeline.NewLogSaver(logger), nopCloser{}
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
