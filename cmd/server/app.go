package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"passpoll/internal/identity"
	"passpoll/internal/passes"
	"passpoll/internal/platform/config"
	platformmetrics "passpoll/internal/platform/metrics"
	"passpoll/internal/platform/postgres"
	platformredis "passpoll/internal/platform/redis"
	pollevents "passpoll/internal/poll/events"
	pollhandler "passpoll/internal/poll/handler"
	pollmetrics "passpoll/internal/poll/metrics"
	pollservice "passpoll/internal/poll/service"
	pollstore "passpoll/internal/poll/store"
	"passpoll/pkg/platform/events/kafka"
	"passpoll/pkg/platform/httputil"
)

// app owns the wired dependencies of one server process.
type app struct {
	cfg      config.Config
	logger   *slog.Logger
	service  *pollservice.Service
	tokens   *identity.TokenService
	handler  *pollhandler.Handler
	gatherer prometheus.Gatherer

	db       *sql.DB
	redis    *platformredis.Client
	producer *kafka.Producer
}

// newApp selects the store, ledger, transaction and publisher from cfg and
// builds the poll service and its HTTP handler.
func newApp(ctx context.Context, cfg config.Config, log *slog.Logger, reg prometheus.Registerer, gatherer prometheus.Gatherer) (*app, error) {
	a := &app{cfg: cfg, logger: log, gatherer: gatherer}
	built := false
	defer func() {
		if !built {
			a.Close()
		}
	}()

	var err error

	opts := []pollservice.Option{
		pollservice.WithLogger(log),
		pollservice.WithMetrics(pollmetrics.NewWithRegisterer(reg)),
		pollservice.WithBatchConcurrency(cfg.Poll.BatchConcurrency),
		pollservice.WithTxTimeout(cfg.Poll.TxTimeout),
	}

	if cfg.UsesPostgres() {
		a.db, err = postgres.Connect(ctx, cfg.Postgres.DSN)
		if err != nil {
			return nil, err
		}
		if err := postgres.Migrate(ctx, a.db); err != nil {
			return nil, err
		}
	}

	var store pollservice.Store
	switch cfg.Storage.Store {
	case config.BackendPostgres:
		store = pollstore.NewPostgres(a.db)
		opts = append(opts, pollservice.WithTx(newPollPostgresTx(a.db, cfg.Poll.TxTimeout)))
	default:
		store = pollstore.NewInMemory()
	}

	var ledger pollservice.Ledger
	switch cfg.Storage.Ledger {
	case config.BackendPostgres:
		ledger = passes.NewPostgres(a.db)
	case config.BackendRedis:
		a.redis, err = platformredis.New(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		ledger = passes.NewRedis(a.redis.Client, passes.WithKeyPrefix(cfg.Redis.KeyPrefix))
	default:
		ledger = passes.NewInMemory()
	}

	if len(cfg.Kafka.Brokers) > 0 {
		a.producer, err = kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		if err != nil {
			return nil, err
		}
		if err := a.producer.EnsureTopic(ctx, cfg.Kafka.Partitions, cfg.Kafka.ReplicationFactor); err != nil {
			return nil, fmt.Errorf("ensure event topic: %w", err)
		}
		opts = append(opts, pollservice.WithPublisher(
			pollevents.NewBrokerPublisher(a.producer, pollevents.WithBrokerLogger(log)),
		))
	}

	a.service, err = pollservice.New(store, ledger, opts...)
	if err != nil {
		return nil, err
	}

	a.tokens = identity.NewTokenService(cfg.Auth.JWTSigningKey, cfg.Auth.JWTIssuer, cfg.Auth.JWTAudience)
	a.handler = pollhandler.New(
		a.service,
		log,
		platformmetrics.NewWithRegisterer(reg),
		identity.NewValidator(a.tokens),
		pollhandler.WithRequestTimeout(cfg.Server.RequestTimeout),
	)
	built = true
	return a, nil
}

// Router mounts the ops endpoints and the poll API.
func (a *app) Router() http.Handler {
	r := chi.NewRouter()
	r.Get("/healthz", a.handleHealth)
	r.Handle("/metrics", promhttp.HandlerFor(a.gatherer, promhttp.HandlerOpts{}))
	a.handler.Register(r)
	return r
}

func (a *app) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	checks := map[string]string{}
	healthy := true
	record := func(name string, err error) {
		if err != nil {
			healthy = false
			checks[name] = err.Error()
			a.logger.WarnContext(ctx, "health check failed", "dependency", name, "error", err)
			return
		}
		checks[name] = "ok"
	}
	if a.db != nil {
		record("postgres", a.db.PingContext(ctx))
	}
	if a.redis != nil {
		record("redis", a.redis.Health(ctx))
	}
	if a.producer != nil {
		record("kafka", a.producer.Ping(ctx))
	}

	status := http.StatusOK
	body := map[string]any{"status": "ok", "checks": checks}
	if !healthy {
		status = http.StatusServiceUnavailable
		body["status"] = "degraded"
	}
	httputil.WriteJSON(w, status, body)
}

// Close releases every external connection that was opened.
func (a *app) Close() {
	if a.producer != nil {
		a.producer.Close()
	}
	if a.redis != nil {
		_ = a.redis.Close()
	}
	if a.db != nil {
		_ = a.db.Close()
	}
}
