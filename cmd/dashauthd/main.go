// Command dashauthd serves the login endpoints and a gated dashboard
// placeholder, with Prometheus metrics on a separate listener.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goSession "github.com/MrEthical07/goSession"
	"github.com/MrEthical07/goSession/metrics/export/prometheus"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

type serverConfig struct {
	HTTPAddr        string        `env:"HTTP_ADDR" envDefault:":3000"`
	MetricsAddr     string        `env:"METRICS_ADDR"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
	RedisAddr       string        `env:"REDIS_ADDR"`
}

func main() {
	if err := run(); err != nil {
		log.Fatalf("dashauthd: %v", err)
	}
}

func run() error {
	// .env is optional.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("dashauthd: .env: %v", err)
	}

	var srvCfg serverConfig
	if err := env.Parse(&srvCfg); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}

	cfg, err := goSession.ConfigFromEnv()
	if err != nil {
		return err
	}
	for _, w := range cfg.Lint() {
		log.Printf("dashauthd: config %s [%s]: %s", w.Code, w.Severity, w.Message)
	}

	builder := goSession.New().WithConfig(cfg)
	if srvCfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: srvCfg.RedisAddr})
		defer rdb.Close()
		builder = builder.WithRedis(rdb)
	}
	if cfg.Audit.Enabled {
		builder = builder.WithAuditSink(goSession.NewJSONWriterSink(os.Stdout))
	}

	engine, err := builder.Build()
	if err != nil {
		return fmt.Errorf("engine build: %w", err)
	}
	defer engine.Close()

	servers := []*http.Server{{
		Addr:              srvCfg.HTTPAddr,
		Handler:           newHandler(engine),
		ReadHeaderTimeout: 5 * time.Second,
	}}
	if srvCfg.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("GET /metrics", prometheus.NewExporter(engine).Handler())
		servers = append(servers, &http.Server{
			Addr:              srvCfg.MetricsAddr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		})
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, len(servers))
	for _, srv := range servers {
		go func(srv *http.Server) {
			log.Printf("dashauthd: listening on %s", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errc <- err
			}
		}(srv)
	}

	select {
	case <-ctx.Done():
	case err = <-errc:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), srvCfg.ShutdownTimeout)
	defer cancel()
	for _, srv := range servers {
		if serr := srv.Shutdown(shutdownCtx); serr != nil {
			log.Printf("dashauthd: shutdown %s: %v", srv.Addr, serr)
		}
	}
	return err
}
