package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	_ "github.com/lib/pq"

	"github.com/example/ridesim/internal/config"
	"github.com/example/ridesim/internal/feed"
	"github.com/example/ridesim/internal/httpapi"
	"github.com/example/ridesim/internal/logging"
	"github.com/example/ridesim/internal/sim"
	"github.com/example/ridesim/internal/sink"
	"github.com/example/ridesim/internal/storage"
)

func main() {
	cfg, err := config.LoadSimConfig()
	logger := logging.NewLogger(cfg.LogLevel)
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	// optional migration: apply migrations/001_create_completed_rides.sql if requested
	if cfg.PGDSN != "" && cfg.RunMigrations {
		if db, err := sql.Open("postgres", cfg.PGDSN); err == nil {
			if b, err := os.ReadFile(filepath.Join("migrations", "001_create_completed_rides.sql")); err == nil {
				if _, err := db.Exec(string(b)); err != nil {
					logger.Error("migration exec error", "error", err)
				} else {
					logger.Info("migration applied", "file", "001_create_completed_rides.sql")
				}
			}
			_ = db.Close()
		} else {
			logger.Error("migration db open error", "error", err)
		}
	}

	liveFeed := feed.NewRegistry()
	sinks := []sink.Sink{liveFeed}

	if cfg.OutputDir != "" {
		fs, err := sink.NewFile(cfg.OutputDir)
		if err != nil {
			logger.Error("file sink setup failed", "error", err)
			os.Exit(1)
		}
		sinks = append(sinks, fs)
	}
	if len(cfg.KafkaBrokers) > 0 {
		sinks = append(sinks, sink.NewKafka(cfg.KafkaBrokers, cfg.KafkaRequestTopic, cfg.KafkaUpdateTopic))
	}
	if cfg.RedisAddr != "" {
		sinks = append(sinks, sink.NewRedisMirror(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisGeoKey))
	}
	out := sink.NewMulti(sinks...)
	defer out.Close()

	var store storage.RideStore
	if cfg.PGDSN != "" {
		ps, err := storage.NewPostgresStore(cfg.PGDSN)
		if err != nil {
			logger.Error("postgres store unavailable, rides will not be persisted", "error", err)
		} else {
			store = ps
			defer ps.Close()
		}
	}

	simulation, err := sim.New(cfg, out, store, logger)
	if err != nil {
		logger.Error("simulation setup failed", "error", err)
		os.Exit(1)
	}

	srv := httpapi.NewServer(logger, liveFeed, simulation.Roster())
	go func() {
		logger.Info("http listening", "addr", cfg.HTTPAddr)
		if err := http.ListenAndServe(cfg.HTTPAddr, srv); err != nil {
			logger.Error("http server stopped", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	simulation.Run(ctx, cfg.Duration)
}
