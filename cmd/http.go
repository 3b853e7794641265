package cmd

import (
	"charity-raffle/common/otel"
	inboundCron "charity-raffle/inbound/cron"
	inboundHttp "charity-raffle/inbound/http"
	"charity-raffle/outbound/sqlgen"
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"time"
)

func runHttpServerCmd(ctx context.Context) {
	cfg := newCfg("env")

	if cfg.GetBool("otel.enabled") {
		shutdown, err := otel.InitTracerProvider(ctx, cfg.GetString("otel.endpoint"))
		if err != nil {
			log.Fatalln("unable to init tracer provider", err)
		}
		defer func() {
			if err := shutdown(context.Background()); err != nil {
				slog.Error("failed to shutdown tracer provider", slog.Any("err", err))
			}
		}()
	}

	validate := newValidate()

	db := newDb(cfg)
	defer db.Close()

	cacheClient := newRedis(cfg)
	defer cacheClient.Close()

	natsConn := newNats(cfg)
	defer natsConn.Close()

	js := newJs(natsConn)
	createStreamWorkQueue(ctx, js)

	querier := sqlgen.New(db)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		slog.DebugContext(r.Context(), "health check")
		w.WriteHeader(http.StatusOK)
	})

	timeoutMiddleware := inboundHttp.TimeoutMiddleware(20 * time.Second)

	inboundHttp.RegisterRifaHttp(mux, cfg, querier)
	inboundHttp.RegisterPaymentHttp(mux, querier, cacheClient, newPix(cfg), js, validate, newBrlPrinter())

	poolCron := &inboundCron.PoolCron{
		Cfg:     cfg,
		Cache:   cacheClient,
		Querier: querier,
	}

	err := poolCron.InitUnavailableCache(ctx)
	if err != nil {
		log.Fatalln("unable to init unavailable numbers cache", err)
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.GetInt("server.port")),
		Handler:           timeoutMiddleware(inboundHttp.CorsMiddleware(mux)),
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalln("unable to start server", err)
		}
	}()

	slog.Info("http server started")

	go func() {
		poolCron.Start(ctx)
	}()

	<-ctx.Done()

	ctxShutDown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctxShutDown); err != nil {
		log.Fatalln("unable to shutdown server", err)
	}

	slog.Info("http server stopped")
}
