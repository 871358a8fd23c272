package main

import (
	"context"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/RenatoCabral2022/spirit/internal/batch"
	"github.com/RenatoCabral2022/spirit/internal/catalog"
	"github.com/RenatoCabral2022/spirit/internal/config"
	"github.com/RenatoCabral2022/spirit/internal/handler"
	"github.com/RenatoCabral2022/spirit/internal/middleware"
	"github.com/RenatoCabral2022/spirit/internal/probe"
)

func main() {
	cfg := config.Load()

	logger, _ := zap.NewProduction()
	if cfg.Debug {
		logger, _ = zap.NewDevelopment()
	}
	defer logger.Sync()

	logger.Info("spirit-server starting",
		zap.String("port", cfg.Port),
		zap.String("grpcPort", cfg.GRPCPort),
		zap.String("outputDir", cfg.OutputDir),
		zap.Int("workers", cfg.Workers),
		zap.Int("maxDuration", cfg.MaxDuration),
		zap.Bool("auth", cfg.APIKey != ""),
	)

	h := handler.NewHandlers(catalog.Default(), batch.NewRunner(logger, cfg.Workers), logger, handler.Options{
		OutputDir:       cfg.OutputDir,
		DefaultDuration: cfg.Duration,
		MaxDuration:     cfg.MaxDuration,
	})

	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging(logger))
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposedHeaders:   []string{middleware.RequestIDHeader},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/healthz", h.Health)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Get("/catalog", h.ListCatalog)
		r.Get("/catalog/{command}", h.GetCategory)
		r.Route("/renders", func(r chi.Router) {
			r.With(middleware.APIKey(cfg.APIKey)).Post("/", h.CreateRender)
			r.Route("/{renderId}", func(r chi.Router) {
				r.Get("/", h.GetRender)
				r.With(middleware.APIKey(cfg.APIKey)).Delete("/", h.DeleteRender)
			})
		})
	})

	srv := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     r,
		ReadTimeout: 10 * time.Second,
		// long renders are synchronous
		WriteTimeout: 5 * time.Minute,
	}

	go func() {
		logger.Info("listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	lis, err := net.Listen("tcp", ":"+cfg.GRPCPort)
	if err != nil {
		logger.Fatal("grpc listen failed", zap.Error(err))
	}
	health := probe.New(logger)
	go func() {
		if err := health.Serve(lis); err != nil {
			logger.Error("grpc health failed", zap.Error(err))
		}
	}()
	health.SetServing(true)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	health.SetServing(false)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Warn("shutdown incomplete", zap.Error(err))
	}
	health.Stop()
}
