package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"tute/internal/config"
	"tute/internal/sched"
	"tute/internal/server"
)

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		panic(err)
	}
	log, err := newLogger(cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	players := server.NewPlayers()
	var pub server.Publisher = server.NopPublisher{}
	var nc *nats.Conn
	if cfg.NATSURL != "" {
		if nc, err = server.BrokerConnect(cfg.NATSURL, log); err != nil {
			log.Fatal("nats connect", zap.String("url", cfg.NATSURL), zap.Error(err))
		}
		pub = server.NewNATSPublisher(nc, log)
	}
	reg := server.NewRegistry(cfg, players, sched.Real{}, pub, log)
	if nc != nil {
		if _, err := server.ServeTableListing(nc, reg, log); err != nil {
			log.Fatal("nats subscribe", zap.Error(err))
		}
	}

	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	httpSrv := &http.Server{
		Addr:    cfg.Addr,
		Handler: server.NewServer(reg, log).Router(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		log.Info("listening", zap.String("addr", cfg.Addr))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("http server", zap.Error(err))
		}
	}()
	<-ctx.Done()

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Warn("http shutdown", zap.Error(err))
	}
	reg.Close()
	if nc != nil {
		nc.Close()
	}
}

func newLogger(level string) (*zap.Logger, error) {
	if level == "debug" {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}
	return cfg.Build()
}
