// Option pricing daemon.
// Exposes the Monte Carlo, binomial lattice, and LSM engines over gRPC.
package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"google.golang.org/grpc"

	"net/http"

	"github.com/duskcap/optionengine/internal/engine"
	"github.com/duskcap/optionengine/pkg/batchqueue"
	"github.com/duskcap/optionengine/pkg/config"
	"github.com/duskcap/optionengine/pkg/history"
	"github.com/duskcap/optionengine/pkg/logging"
	"github.com/duskcap/optionengine/pkg/metrics"
	"github.com/duskcap/optionengine/pkg/pricecache"
	"github.com/duskcap/optionengine/pkg/scenario"
)

// PricingServer backs the (not-yet-generated) gRPC option-pricing
// service: one Context per server, a price cache in front of it, a
// batch queue behind it, and a local call history.
type PricingServer struct {
	ctx      *engine.Context
	cache    *pricecache.Cache
	queue    *batchqueue.Queue
	sweeper  *batchqueue.Sweeper
	scenario *scenario.Store
	history  *history.DB
	metrics  *metrics.Collector
	log      *logging.Logger
}

func NewPricingServer(cfg *config.Config, rdb *redis.Client, log *logging.Logger, coll *metrics.Collector) (*PricingServer, error) {
	c := engine.NewContext()
	c.SetSeed(cfg.Engine.DefaultSeed)
	c.SetNumSimulations(cfg.Engine.NumSimulations)
	c.SetBinomialSteps(cfg.Engine.BinomialSteps)

	hist, err := history.Open(cfg.SQLite.Path)
	if err != nil {
		return nil, fmt.Errorf("pricerd: open history: %w", err)
	}

	var scenarioStore *scenario.Store
	if cfg.Postgres.DSN != "" {
		scenarioStore, err = scenario.Open(cfg.Postgres.DSN)
		if err != nil {
			return nil, fmt.Errorf("pricerd: open scenario store: %w", err)
		}
		if err := scenarioStore.Init(context.Background()); err != nil {
			return nil, fmt.Errorf("pricerd: init scenario store: %w", err)
		}
	} else {
		log.Warn("no postgres DSN configured, scenario persistence disabled")
	}

	cache := pricecache.New(rdb, cfg.Redis.CacheTTL)
	queue := batchqueue.New(rdb, 24*time.Hour)

	s := &PricingServer{
		ctx:      c,
		cache:    cache,
		queue:    queue,
		scenario: scenarioStore,
		history:  hist,
		metrics:  coll,
		log:      log,
	}

	s.sweeper = batchqueue.NewSweeper(queue, s.processJob, 10)
	return s, nil
}

func (s *PricingServer) processJob(ctx context.Context, job batchqueue.Job) (float64, error) {
	start := time.Now()
	var price float64
	switch job.Method {
	case "european_call":
		price = s.ctx.EuropeanCall(job.Spot, job.Strike, job.Rate, job.Vol, job.Time)
	case "european_put":
		price = s.ctx.EuropeanPut(job.Spot, job.Strike, job.Rate, job.Vol, job.Time)
	default:
		price = s.ctx.EuropeanCall(job.Spot, job.Strike, job.Rate, job.Vol, job.Time)
	}
	s.metrics.ObservePricing(job.Method, "batch", time.Since(start).Seconds(), nil)

	if s.scenario != nil {
		params := scenario.Params{
			Method: job.Method,
			Spot:   job.Spot,
			Strike: job.Strike,
			Rate:   job.Rate,
			Vol:    job.Vol,
			Time:   job.Time,
		}
		if _, err := s.scenario.Save(ctx, job.ID, "batch-queue", nil, params); err != nil {
			s.log.Error("failed to persist scenario for completed job", err)
		}
	}
	return price, nil
}

func (s *PricingServer) Close() {
	s.history.Close()
	if s.scenario != nil {
		s.scenario.Close()
	}
}

func main() {
	configPath := flag.String("config", "", "path to pricerd.yaml")
	envFile := flag.String("env-file", ".env", "path to .env overlay")
	port := flag.Int("port", 0, "gRPC port (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath, *envFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "pricerd: %v\n", err)
		os.Exit(1)
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}

	log := logging.New(logging.Config{
		Level:      logging.Level(cfg.Logging.Level),
		Format:     logging.Format(cfg.Logging.Format),
		FilePath:   cfg.Logging.FilePath,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAgeDays: cfg.Logging.MaxAgeDays,
	})

	rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, DB: cfg.Redis.CacheDB})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		log.Error("redis unreachable, starting without cache/queue backing", err)
	}

	coll := metrics.NewCollector(prometheus.DefaultRegisterer)

	server, err := NewPricingServer(cfg, rdb, log, coll)
	if err != nil {
		log.Error("failed to initialize pricing server", err)
		os.Exit(1)
	}
	defer server.Close()

	if err := server.sweeper.Start("*/5 * * * * *"); err != nil {
		log.Error("failed to start batch sweeper", err)
	}
	defer server.sweeper.Stop()

	if cfg.Metrics.Enabled {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			http.ListenAndServe(cfg.Metrics.Addr, mux)
		}()
	}

	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.Server.Port))
	if err != nil {
		log.Error("failed to listen", err)
		os.Exit(1)
	}

	grpcServer := grpc.NewServer()
	// RegisterOptionPricingServer(grpcServer, server)

	log.Info(fmt.Sprintf("pricerd starting on port %d", cfg.Server.Port))

	if err := grpcServer.Serve(lis); err != nil {
		log.Error("failed to serve", err)
		os.Exit(1)
	}
}
