package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/AngelCh415/terrafedash/internal/config"
	"github.com/AngelCh415/terrafedash/internal/export"
	"github.com/AngelCh415/terrafedash/internal/httpx"
	"github.com/AngelCh415/terrafedash/internal/ingest"
	"github.com/AngelCh415/terrafedash/internal/metrics"
	"github.com/AngelCh415/terrafedash/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config", slog.String("err", err.Error()))
		os.Exit(1)
	}

	logger := cfg.Log.New(os.Stdout)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cl := ingest.NewHTTPClient(cfg.Sources.FetchTimeout)
	etl := ingest.NewETL(cl, logger, cfg.Sources)
	st := store.NewDatasetStore(etl, logger)
	mSvc := metrics.NewService(st)
	sink := export.NewSink(cl, cfg.Sink, logger)

	// A bad first load is not fatal: /readyz stays 503 until a reload succeeds.
	if _, err := st.Current(ctx); err != nil {
		logger.Error("initial load failed", slog.String("err", err.Error()))
	}

	if cfg.Sources.Watch {
		var local []string
		for _, p := range []string{cfg.Sources.Campaigns, cfg.Sources.Orders} {
			if !ingest.IsRemote(p) {
				local = append(local, p)
			}
		}
		if len(local) > 0 {
			w, err := store.NewWatcher(st, local, cfg.Sources.WatchDebounce, logger)
			if err != nil {
				logger.Error("watch disabled", slog.String("err", err.Error()))
			} else {
				go w.Run(ctx)
			}
		}
	}

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(int(cfg.HTTP.Port)),
		Handler:           httpx.NewRouter(logger, st, mSvc, sink),
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown", slog.String("err", err.Error()))
		}
	}()

	logger.Info("starting server", slog.String("addr", srv.Addr), slog.String("env", cfg.Env))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server error", slog.String("err", err.Error()))
		os.Exit(1)
	}
	logger.Info("server stopped")
}
