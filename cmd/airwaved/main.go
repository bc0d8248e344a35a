// airwaved is the Airwave wireless inventory API server.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/airwave-net/airwave/pkg/apiserver"
	"github.com/airwave-net/airwave/pkg/config"
	"github.com/airwave-net/airwave/pkg/controller"
	"github.com/airwave-net/airwave/pkg/logger"
	"github.com/airwave-net/airwave/pkg/observability"
	storepkg "github.com/airwave-net/airwave/pkg/store"
)

func main() {
	cfgPath := flag.String("config", "", "path to server config YAML")
	addr := flag.String("addr", "", "listen address (overrides config)")
	storeType := flag.String("store-type", "", "state store backend: memory, etcd, or postgres (overrides config)")
	debug := flag.Bool("debug", false, "enable debug logging")
	auditInterval := flag.Duration("audit-interval", 30*time.Second, "reference audit sweep interval")
	flag.Parse()

	cfg, err := config.LoadServer(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	if *addr != "" {
		cfg.ListenAddr = *addr
	}
	if *debug {
		cfg.Debug = true
	}

	// Environment variables take precedence over flags and config so the
	// server is easy to run in a container.
	if envType := os.Getenv("AIRWAVE_STORE_TYPE"); envType != "" {
		cfg.StoreType = envType
	} else if *storeType != "" {
		cfg.StoreType = *storeType
	}
	if envEndpoints := os.Getenv("AIRWAVE_ETCD_ENDPOINTS"); envEndpoints != "" {
		cfg.EtcdEndpoints = strings.Split(envEndpoints, ",")
	}
	if envDSN := os.Getenv("AIRWAVE_POSTGRES_DSN"); envDSN != "" {
		cfg.PostgresDSN = envDSN
	}

	log, err := logger.New(cfg.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// --- State store ---
	var s storepkg.Store
	switch cfg.StoreType {
	case "memory":
		s = storepkg.NewMemoryStore()
	case "etcd":
		etcdStore, err := storepkg.NewEtcdStore(cfg.EtcdEndpoints)
		if err != nil {
			log.Fatal("connect to etcd", zap.Strings("endpoints", cfg.EtcdEndpoints), zap.Error(err))
		}
		log.Info("connected to etcd", zap.Strings("endpoints", cfg.EtcdEndpoints))
		s = etcdStore
	case "postgres":
		pgStore, err := storepkg.NewPostgresStore(cfg.PostgresDSN)
		if err != nil {
			log.Fatal("connect to postgres", zap.Error(err))
		}
		if err := pgStore.Migrate(); err != nil {
			log.Fatal("run migrations", zap.Error(err))
		}
		log.Info("connected to postgres")
		s = pgStore
	default:
		log.Fatal("unsupported store type", zap.String("store_type", cfg.StoreType))
	}

	// --- Metrics ---
	metrics, err := observability.NewCollector(prometheus.DefaultRegisterer)
	if err != nil {
		log.Fatal("init metrics", zap.Error(err))
	}

	// --- API server ---
	opts := apiserver.DefaultServerOptions()
	if len(cfg.APIKeys) > 0 {
		opts.APIKeys = make(map[string]apiserver.APIKeyInfo, len(cfg.APIKeys))
		for token, roleName := range cfg.APIKeys {
			opts.APIKeys[token] = apiserver.APIKeyInfo{
				Role: apiserver.RoleFromString(roleName),
			}
		}
	} else {
		log.Warn("no API keys configured, running unauthenticated")
	}
	srv := apiserver.NewServer(s, metrics, log, opts)

	// --- Reference auditor ---
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	auditor := controller.NewAuditor(s, metrics, log, *auditInterval)
	go auditor.Start(ctx)

	// --- Graceful shutdown ---
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutdown signal received")
		cancel()
		shutCtx, shutCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutCancel()
		if err := srv.GracefulShutdown(shutCtx); err != nil {
			log.Error("graceful shutdown", zap.Error(err))
		}
	}()

	log.Info("starting airwaved",
		zap.String("addr", cfg.ListenAddr),
		zap.String("store", cfg.StoreType))
	if err := srv.ListenAndServe(cfg.ListenAddr); err != nil && err.Error() != "http: Server closed" {
		log.Fatal("server error", zap.Error(err))
	}
}
