package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gcbaptista/go-retrieval-engine/api"
	"github.com/gcbaptista/go-retrieval-engine/internal/engine"
	"github.com/gcbaptista/go-retrieval-engine/internal/metrics"
)

// maxRequestBody bounds request bodies; index creation carries whole corpora.
const maxRequestBody = 256 << 20

type serveCommander struct {
	global    *globalFlags
	port      int
	dataDir   string
	stopwords string
}

func newServeCmd(global *globalFlags) *cobra.Command {
	cmder := &serveCommander{global: global}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long:  "Run the HTTP API. Indexes stored in the data directory are loaded on start.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmder.run(cmd)
		},
	}

	cmd.Flags().IntVarP(&cmder.port, "port", "p", 0, "Port to listen on (overrides server.port)")
	cmd.Flags().StringVar(&cmder.dataDir, "data-dir", "", "Directory to store indexes (overrides storage.data_dir)")
	cmd.Flags().StringVar(&cmder.stopwords, "stopwords", "", "Stopword list applied to free-text queries and documents")

	return cmd
}

func (s *serveCommander) run(cmd *cobra.Command) error {
	cfg, log, err := s.global.load()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	if cmd.Flags().Changed("port") {
		cfg.Server.Port = s.port
	}
	if cmd.Flags().Changed("data-dir") {
		cfg.Storage.DataDir = s.dataDir
	}

	analyzer, err := newAnalyzer(s.stopwords)
	if err != nil {
		return err
	}

	log.Info("Starting retrieval engine",
		zap.String("version", version),
		zap.String("data_dir", cfg.Storage.DataDir),
		zap.Int("job_workers", cfg.Jobs.Workers),
	)
	eng := engine.NewEngine(cfg.Storage.DataDir, log, cfg.Jobs.Workers)
	defer eng.Close()

	if cfg.Logging.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(
		gin.Recovery(),
		api.RequestIDMiddleware(),
		api.LoggingMiddleware(log),
		metrics.Middleware(),
		api.CORSMiddleware(),
		api.RequestSizeLimitMiddleware(maxRequestBody),
	)
	api.SetupRoutes(router, eng, analyzer, log)

	server := &http.Server{
		Addr:         ":" + strconv.Itoa(cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSec) * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("HTTP server listening", zap.String("addr", server.Addr))
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownSec)*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
