package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"image-publisher/internal/broker"
	kafka_impl "image-publisher/internal/broker/kafka"
	"image-publisher/internal/client/twitter"
	"image-publisher/internal/config"
	"image-publisher/internal/domain"
	publish_h "image-publisher/internal/http-server/handler/publish"
	"image-publisher/internal/http-server/router"
	minio_repo "image-publisher/internal/repository/media/cloud/minio"
	disk_repo "image-publisher/internal/repository/media/disk"
	"image-publisher/internal/usecase/decoder"
	"image-publisher/internal/usecase/generator"
	"image-publisher/internal/usecase/generator/operations"
	"image-publisher/internal/usecase/pipeline"
	"image-publisher/internal/usecase/publisher"
	"image-publisher/internal/usecase/publisher/directpost"
	"image-publisher/internal/usecase/publisher/sharelink"

	"github.com/wb-go/wbf/zlog"
)

type App struct {
	cfg      *config.Config
	server   *http.Server
	logger   *zlog.Zerolog
	producer broker.Producer
}

func NewApp(cfg *config.Config, logger *zlog.Zerolog) (*App, error) {
	presets, err := cfg.ActivePresets()
	if err != nil {
		return nil, fmt.Errorf("failed to parse presets: %w", err)
	}

	var watermarker *operations.Watermarker
	if cfg.Watermark.Enabled {
		watermarker, err = operations.NewWatermarker(cfg.Watermark.Text, cfg.Watermark.Position, cfg.Watermark.Opacity)
		if err != nil {
			return nil, fmt.Errorf("failed to create watermarker: %w", err)
		}
	}

	imageDecoder := decoder.NewDecoder(logger)

	variantGenerator := generator.NewGenerator(generator.Options{
		Quality:       cfg.Pipeline.Quality,
		Workers:       cfg.Pipeline.Workers,
		ResizeTimeout: cfg.Pipeline.ResizeTimeout,
		Watermarker:   watermarker,
	}, logger)

	dispatcher, filesDir, filesPrefix, err := buildDispatcher(cfg, logger)
	if err != nil {
		return nil, err
	}

	var producer broker.Producer
	if len(cfg.Kafka.Brokers) > 0 {
		producer = kafka_impl.NewProducerClient(cfg)
	}

	publishPipeline := pipeline.NewPipeline(imageDecoder, variantGenerator, dispatcher, producer, presets, cfg.DefaultRetryStrategy(), logger)

	publishHandler := publish_h.NewPublishHandler(publishPipeline, logger)

	h := &router.Handler{
		PublishHandler: publishHandler,
		FilesDir:       filesDir,
		FilesPrefix:    filesPrefix,
	}

	mux := router.SetupRouter(h)

	server := &http.Server{
		Addr:         ":" + cfg.Server.Addr,
		Handler:      mux,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return &App{
		cfg:      cfg,
		server:   server,
		logger:   logger,
		producer: producer,
	}, nil
}

// buildDispatcher selects the publish strategy once, at startup. The
// share-link strategy additionally reports the dir and prefix the router
// must serve when artifacts live on local disk.
func buildDispatcher(cfg *config.Config, logger *zlog.Zerolog) (publisher.Dispatcher, string, string, error) {
	switch domain.Strategy(cfg.Publish.Strategy) {
	case domain.StrategyDirectPost:
		client := twitter.NewClient(cfg.Twitter, logger)
		return directpost.New(client, cfg.Publish.Message, cfg.Publish.RequestTimeout, logger), "", "", nil

	case domain.StrategyShareLink:
		switch cfg.Storage.Backend {
		case "minio":
			store, err := minio_repo.NewMinIORepository(cfg.Storage.MinIO, logger)
			if err != nil {
				return nil, "", "", fmt.Errorf("failed to create minio storage: %w", err)
			}
			return sharelink.New(store, cfg.Publish.Message, logger), "", "", nil
		case "disk":
			store, err := disk_repo.NewStorage(cfg.Storage.Disk.Dir, cfg.Storage.Disk.PublicPrefix, logger)
			if err != nil {
				return nil, "", "", fmt.Errorf("failed to create disk storage: %w", err)
			}
			return sharelink.New(store, cfg.Publish.Message, logger), store.Dir(), store.PublicPrefix(), nil
		default:
			return nil, "", "", fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
		}

	default:
		return nil, "", "", fmt.Errorf("unknown publish strategy %q", cfg.Publish.Strategy)
	}
}

func (a *App) Run() error {
	a.logger.Info().
		Str("addr", a.cfg.Server.Addr).
		Str("strategy", a.cfg.Publish.Strategy).
		Msg("Starting server")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go a.handleSignals(cancel)

	serverErr := make(chan error, 1)
	go func() {
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		a.logger.Error().Err(err).Msg("Server error")
		return err
	case <-ctx.Done():
		a.logger.Info().Msg("Shutting down server")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
		defer shutdownCancel()

		if err := a.server.Shutdown(shutdownCtx); err != nil {
			a.logger.Error().Err(err).Msg("Server shutdown failed")
		}

		if a.producer != nil {
			if err := a.producer.Close(); err != nil {
				a.logger.Error().Err(err).Msg("Failed to close producer")
			}
		}

		a.logger.Info().Msg("Server stopped gracefully")
		return nil
	}
}

func (a *App) handleSignals(cancel context.CancelFunc) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigChan
	a.logger.Info().Str("signal", sig.String()).Msg("Received signal")
	cancel()
}
