package cmd

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"seatmap/catalog"
	"seatmap/common/constant"
	"seatmap/common/otel"
	"seatmap/outbound/cache"
	"seatmap/outbound/eventsource"
	"seatmap/outbound/snapshot"
	"seatmap/seatmap"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
)

func newCfg(name string) *viper.Viper {
	config := viper.New()

	config.SetConfigName(name)
	config.SetConfigType("yaml")
	config.AddConfigPath(".")

	err := config.ReadInConfig()
	if err != nil {
		log.Fatalln(err)
	}

	err = os.Setenv("TZ", config.GetString("server.timezone"))
	if err != nil {
		log.Fatalln(err)
	}

	return config
}

func newDb(cfg *viper.Viper) *pgxpool.Pool {
	username := cfg.GetString("db.user")
	password := cfg.GetString("db.password")
	host := cfg.GetString("db.host")
	port := cfg.GetInt("db.port")
	database := cfg.GetString("db.name")
	maxConn := cfg.GetInt("db.pool.max")
	minConn := cfg.GetInt("db.pool.min")
	timezone := cfg.GetString("server.timezone")

	connString := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?timezone=%s",
		username, password, host, port, database, timezone)

	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		log.Fatalln(err)
	}

	config.MaxConns = int32(maxConn)
	config.MinConns = int32(minConn)
	config.ConnConfig.Tracer = &otel.PgxSnapshotTracer{}

	pool, err := pgxpool.NewWithConfig(context.Background(), config)
	if err != nil {
		log.Fatalln(err)
	}

	err = pool.Ping(context.Background())
	if err != nil {
		log.Fatalln(err)
	}

	return pool
}

func newRedis(cfg *viper.Viper) *redis.Client {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.GetString("redis.addr"),
		Password: cfg.GetString("redis.password"),
		DB:       cfg.GetInt("redis.db"),
	})

	err := rdb.Ping(context.Background()).Err()
	if err != nil {
		log.Fatalln(err)
	}

	return rdb
}

func newNats(viper *viper.Viper) *nats.Conn {
	conn, err := nats.Connect(viper.GetString("nats.addr"))
	if err != nil {
		log.Fatalln(err)
	}

	return conn
}

func newJs(conn *nats.Conn) jetstream.JetStream {
	js, err := jetstream.New(conn)
	if err != nil {
		log.Fatalln(err)
	}

	return js
}

func createStreamWorkQueue(ctx context.Context, js jetstream.JetStream) jetstream.Stream {
	cfg := jetstream.StreamConfig{
		Name:      constant.QueueStreamName,
		Retention: jetstream.WorkQueuePolicy,
		Subjects:  []string{constant.AllWildcard},
		MaxBytes:  -1,
	}

	st, err := js.CreateOrUpdateStream(ctx, cfg)
	if err != nil {
		panic(err)
	}

	return st
}

// newTelemetry installs the OTLP trace and metric exporters when otel.enabled
// is set. The returned func flushes pending data and is safe to call either
// way.
func newTelemetry(ctx context.Context, cfg *viper.Viper) func() {
	if !cfg.GetBool("otel.enabled") {
		return func() {}
	}

	endpoint := cfg.GetString("otel.endpoint")
	serviceName := cfg.GetString("otel.service_name")

	tp, err := otel.NewTracerProvider(ctx, endpoint, serviceName)
	if err != nil {
		log.Fatalln(err)
	}

	mp, err := otel.NewMeterProvider(ctx, endpoint, serviceName, cfg.GetDuration("otel.metric_interval"))
	if err != nil {
		log.Fatalln(err)
	}

	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.GetDuration("otel.shutdown_timeout"))
		defer cancel()

		if err := tp.Shutdown(shutdownCtx); err != nil {
			slog.Error("failed to shutdown tracer provider", slog.Any(constant.LogFieldErr, err))
		}
		if err := mp.Shutdown(shutdownCtx); err != nil {
			slog.Error("failed to shutdown meter provider", slog.Any(constant.LogFieldErr, err))
		}
	}
}

func newEventSource(cfg *viper.Viper) *eventsource.Client {
	httpClient := &http.Client{Timeout: cfg.GetDuration("source.timeout")}

	return eventsource.NewClient(httpClient, cfg.GetString("source.base_url"), cfg.GetString("source.path"))
}

// newCatalog wires the catalog. The snapshot archive is only attached when
// db.enabled is set; the returned func releases whatever was opened.
func newCatalog(ctx context.Context, cfg *viper.Viper, cacheClient *redis.Client) (*catalog.Catalog, func()) {
	store := cache.NewRedisStore(cacheClient, cfg.GetString("cache.prefix"), cfg.GetDuration("cache.ttl"))

	pricePolicy, err := seatmap.ParsePricePolicy(cfg.GetString("seatmap.price_policy"))
	if err != nil {
		log.Fatalln("invalid seatmap.price_policy", err)
	}

	if !cfg.GetBool("db.enabled") {
		eventCatalog := catalog.New(newEventSource(cfg), store, nil)
		eventCatalog.PricePolicy = pricePolicy
		return eventCatalog, func() {}
	}

	db := newDb(cfg)

	repository := snapshot.Repository{Db: db, Keep: cfg.GetInt("db.snapshot.keep")}
	if err := repository.Migrate(ctx); err != nil {
		log.Fatalln("unable to migrate snapshot table", err)
	}

	eventCatalog := catalog.New(newEventSource(cfg), store, repository)
	eventCatalog.PricePolicy = pricePolicy
	return eventCatalog, db.Close
}
