package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	borrowerhandler "lendmatch/internal/borrower/handler"
	borrowerservice "lendmatch/internal/borrower/service"
	borrowerstore "lendmatch/internal/borrower/store"
	"lendmatch/internal/evaluator"
	"lendmatch/internal/fields"
	fieldshandler "lendmatch/internal/fields/handler"
	lenderhandler "lendmatch/internal/lender/handler"
	lenderservice "lendmatch/internal/lender/service"
	lenderstore "lendmatch/internal/lender/store"
	matchinghandler "lendmatch/internal/matching/handler"
	matchingmetrics "lendmatch/internal/matching/metrics"
	matchingservice "lendmatch/internal/matching/service"
	matchingstore "lendmatch/internal/matching/store"
	"lendmatch/internal/platform/config"
	"lendmatch/internal/platform/httpserver"
	"lendmatch/internal/platform/logger"
	"lendmatch/internal/platform/metrics"
	"lendmatch/internal/platform/postgres"
	"lendmatch/internal/platform/redis"
	policyhandler "lendmatch/internal/policy/handler"
	policyservice "lendmatch/internal/policy/service"
	policystore "lendmatch/internal/policy/store"
	ratelimitmetrics "lendmatch/internal/ratelimit/metrics"
	ratelimit "lendmatch/internal/ratelimit/middleware"
	ratelimitmodels "lendmatch/internal/ratelimit/models"
	ratelimitstore "lendmatch/internal/ratelimit/store"
	httptransport "lendmatch/internal/transport/http"
	audit "lendmatch/pkg/platform/audit"
	"lendmatch/pkg/platform/audit/publishers/compliance"
	"lendmatch/pkg/platform/audit/relay"
	auditmemory "lendmatch/pkg/platform/audit/store/memory"
	auditpostgres "lendmatch/pkg/platform/audit/store/postgres"
	"lendmatch/pkg/platform/audit/worker"
)

// main wires dependencies, serves the HTTP API and shuts everything down in
// reverse order on SIGINT/SIGTERM. Business logic lives in internal services.
func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.Log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("lendmatch stopped with error", "error", err)
		os.Exit(1)
	}
}

type stores struct {
	policies  policystore.Backend
	lenders   lenderservice.Store
	borrowers borrowerStore
	matches   matchingservice.Store
	audit     audit.Store
	outbox    *auditpostgres.Store
	// tx is nil for in-memory stores; services then run without a transaction.
	tx        lenderservice.Transactor
}

type borrowerStore interface {
	borrowerservice.Store
	matchingservice.BorrowerSource
}

func run(ctx context.Context, cfg config.Server, log *slog.Logger) error {
	registry := fields.Default()
	if cfg.FieldRegistryPath != "" {
		loaded, err := fields.Load(cfg.FieldRegistryPath)
		if err != nil {
			return err
		}
		registry = loaded
	}

	checks := map[string]httptransport.HealthCheck{}

	st, db, err := openStores(ctx, cfg, log)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
		checks["postgres"] = db.PingContext
	}

	rc, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	if rc != nil {
		defer rc.Close()
		checks["redis"] = rc.Health
		st.policies = policystore.NewCachedStore(st.policies, rc.Client,
			policystore.WithCacheTTL(cfg.Redis.CacheTTL),
			policystore.WithCacheLogger(log),
		)
		log.InfoContext(ctx, "policy cache enabled", "ttl", cfg.Redis.CacheTTL.String())
	}

	var buckets ratelimit.BucketStore
	var memBuckets *ratelimitstore.InMemoryBucketStore
	if rc != nil {
		buckets = ratelimitstore.NewRedisBucketStore(rc.Client)
	} else {
		memBuckets = ratelimitstore.NewInMemoryBucketStore()
		buckets = memBuckets
	}
	limiter := ratelimit.New(buckets, log,
		ratelimit.WithDisabled(cfg.RateLimit.Disabled),
		ratelimit.WithMetrics(ratelimitmetrics.New()),
		ratelimit.WithLimit(ratelimitmodels.ClassIntake, ratelimitmodels.Limit{Requests: cfg.RateLimit.IntakePerWindow, Window: cfg.RateLimit.Window}),
		ratelimit.WithLimit(ratelimitmodels.ClassPolicyWrite, ratelimitmodels.Limit{Requests: cfg.RateLimit.PolicyWritesPerWindow, Window: cfg.RateLimit.Window}),
	)

	publisher := compliance.New(st.audit,
		compliance.WithLogger(log),
		compliance.WithMetrics(compliance.NewMetrics()),
	)
	ops := worker.NewWorker(st.audit, worker.WithLogger(log))

	// The lookup instance only reads lenders; it breaks the construction
	// cycle between lender deletion and the policy and match services.
	lenderLookup := lenderservice.New(st.lenders)
	matching := matchingservice.New(st.policies, st.borrowers, st.matches,
		matchingservice.WithLogger(log),
		matchingservice.WithLenderLookup(lenderLookup),
		matchingservice.WithMetrics(matchingmetrics.New()),
		matchingservice.WithOpsTracker(ops),
		matchingservice.WithWorkers(cfg.Matching.Workers),
		matchingservice.WithEvaluatorOptions(evaluator.Options{HighMaxSoftFailures: cfg.Matching.HighMaxSoftFailures}),
	)
	policies := policyservice.New(st.policies, registry,
		policyservice.WithLogger(log),
		policyservice.WithSweepScheduler(matching),
		policyservice.WithLenderLookup(lenderLookup),
		policyservice.WithAuditPublisher(publisher),
		policyservice.WithOpsTracker(ops),
		policyservice.WithTransactor(st.tx),
	)
	lenders := lenderservice.New(st.lenders,
		lenderservice.WithLogger(log),
		lenderservice.WithPolicyResetter(policies),
		lenderservice.WithMatchDiscarder(matching),
		lenderservice.WithAuditPublisher(publisher),
		lenderservice.WithTransactor(st.tx),
	)
	borrowers := borrowerservice.New(st.borrowers, registry, matching,
		borrowerservice.WithLogger(log),
		borrowerservice.WithMatchDiscarder(matching),
		borrowerservice.WithOpsTracker(ops),
	)

	draftSchema, err := policyhandler.NewDraftSchema()
	if err != nil {
		return err
	}

	router := httptransport.NewRouter(httptransport.RouterConfig{
		Logger:    log,
		Metrics:   metrics.New(),
		Checks:    checks,
		RateLimit: limiter,
	},
		fieldshandler.New(registry),
		lenderhandler.New(lenders, log),
		policyhandler.New(policies, draftSchema, log),
		borrowerhandler.New(borrowers, log),
		matchinghandler.New(matching, log),
	)
	srv := httpserver.New(cfg.Addr, router, httpserver.WithTimeouts(cfg.ReadTimeout, cfg.WriteTimeout))

	bgCtx, cancelBackground := context.WithCancel(context.Background())
	defer cancelBackground()
	g, gctx := errgroup.WithContext(ctx)

	go ops.Run(bgCtx)

	if st.outbox != nil && len(cfg.Kafka.Brokers) > 0 {
		client, err := relay.NewClient(cfg.Kafka.Brokers, cfg.Kafka.AuditTopic)
		if err != nil {
			return err
		}
		defer client.Close()
		if err := relay.EnsureTopic(ctx, client, cfg.Kafka.AuditTopic, 1); err != nil {
			log.WarnContext(ctx, "audit topic bootstrap failed", "topic", cfg.Kafka.AuditTopic, "error", err)
		}
		r := relay.New(st.outbox, client, cfg.Kafka.AuditTopic,
			relay.WithInterval(cfg.Kafka.RelayInterval),
			relay.WithBatchSize(cfg.Kafka.RelayBatch),
			relay.WithLogger(log),
		)
		g.Go(func() error {
			r.Run(gctx)
			return nil
		})
		log.InfoContext(ctx, "audit relay enabled", "topic", cfg.Kafka.AuditTopic)
	}

	if memBuckets != nil && cfg.RateLimit.Window > 0 {
		g.Go(func() error {
			ticker := time.NewTicker(cfg.RateLimit.Window)
			defer ticker.Stop()
			for {
				select {
				case <-gctx.Done():
					return nil
				case <-ticker.C:
					memBuckets.Prune()
				}
			}
		})
	}

	g.Go(func() error {
		log.InfoContext(ctx, "starting lendmatch", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		err := srv.Shutdown(shutdownCtx)
		matching.Close()
		if closeErr := ops.Close(shutdownCtx); closeErr != nil {
			log.WarnContext(shutdownCtx, "audit worker did not drain", "dropped", ops.Dropped(), "error", closeErr)
		}
		return err
	})

	err = g.Wait()
	log.Info("lendmatch stopped")
	return err
}

// openStores selects PostgreSQL when DATABASE_URL is set and in-memory stores
// otherwise.
func openStores(ctx context.Context, cfg config.Server, log *slog.Logger) (*stores, *sql.DB, error) {
	if cfg.Database.URL == "" {
		log.WarnContext(ctx, "DATABASE_URL not set, using in-memory stores")
		return &stores{
			policies:  policystore.NewInMemoryStore(),
			lenders:   lenderstore.NewInMemory(),
			borrowers: borrowerstore.NewInMemory(),
			matches:   matchingstore.NewInMemory(),
			audit:     auditmemory.NewInMemoryStore(),
		}, nil, nil
	}

	openCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	db, err := postgres.Open(openCtx, cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	if err := postgres.Migrate(db); err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	outbox := auditpostgres.New(db)
	return &stores{
		policies:  policystore.NewPostgres(db),
		lenders:   lenderstore.NewPostgres(db),
		borrowers: borrowerstore.NewPostgres(db),
		matches:   matchingstore.NewPostgres(db),
		audit:     outbox,
		outbox:    outbox,
		tx:        postgres.NewTransactor(db),
	}, db, nil
}
