// README: Entry point; loads config, wires services, starts HTTP server and key watcher.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"roam/internal/ai"
	"roam/internal/config"
	httptransport "roam/internal/http"
	"roam/internal/infra"
	"roam/internal/keys"
	"roam/internal/maps"
	"roam/internal/modules/plan"
	"roam/internal/modules/speech"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var verifier infra.TokenVerifier
	if cfg.Firebase.ProjectID != "" {
		verifier, err = infra.NewFirebaseVerifier(ctx, cfg.Firebase.ProjectID, cfg.Firebase.CredentialsFile)
		if err != nil {
			logger.Fatal("firebase init", zap.Error(err))
		}
	} else {
		logger.Warn("firebase not configured, requests are anonymous")
	}

	dbPool, err := infra.NewDB(ctx, cfg.DB.DSN)
	if err != nil {
		logger.Fatal("postgres init", zap.Error(err))
	}
	defer dbPool.Close()

	redisClient := infra.NewRedis(cfg.Redis.Addr)
	defer func() { _ = redisClient.Close() }()

	keySvc := keys.NewService(cfg.Keys.File)
	go func() {
		if err := keySvc.Watch(ctx, logger); err != nil {
			logger.Warn("key file watch unavailable", zap.Error(err))
		}
	}()

	var generator plan.Generator
	switch cfg.AI.Provider {
	case "gemini":
		gemini, err := ai.NewGeminiProvider(ctx, cfg.AI.GeminiKey)
		if err != nil {
			logger.Fatal("gemini init", zap.Error(err))
		}
		defer gemini.Close()
		generator = gemini
	default:
		generator = ai.NewDashScopeClient(keySvc, cfg.AI.RequestTimeout)
	}

	planStore := plan.NewStore(dbPool)
	planSvc := plan.NewService(planStore, generator, logger, cfg.Store.WriteTimeout)

	var routeSvc *maps.RouteService
	if cfg.Maps.GoogleKey != "" {
		routeSvc, err = maps.NewRouteService(cfg.Maps.GoogleKey)
		if err != nil {
			logger.Fatal("route service init", zap.Error(err))
		}
	}

	handler := httptransport.NewRouter(httptransport.RouterDeps{
		Plans:      planSvc,
		Keys:       keySvc,
		Geo:        maps.NewAmapService(keySvc, redisClient),
		Routes:     routeSvc,
		Speech:     speech.NewRecognizer(keySvc),
		Verifier:   verifier,
		Log:        logger,
		GenTimeout: cfg.AI.RequestTimeout + 30*time.Second,
	})

	server := &http.Server{Addr: cfg.HTTP.Addr, Handler: handler}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	logger.Info("listening", zap.String("addr", cfg.HTTP.Addr))
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server", zap.Error(err))
	}
}
