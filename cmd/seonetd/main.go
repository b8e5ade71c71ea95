// cmd/seonetd/main.go
//
// Network structure engine – HTTP entry point.
//
// Boot sequence
// -------------
//
//  1. Start the daily rotating logger (tees to console in a TTY).
//
//  2. Load configuration: .env → conf/global.yaml → SEONET_ env overrides,
//     with `vault:` secrets resolved during the load.
//
//  3. Open the MariaDB pool and log live network count as a sanity check.
//
//  4. Wire the core: lock registry, report cache, domain registry,
//     notification correlator, and the mutation protocol.
//
//  5. Mount /api/v1 plus the Prometheus /metrics endpoint, wrapped in
//     request-log and security-header middleware.
//
//  6. Serve with hardened timeouts until SIGINT/SIGTERM, then drain.
//
// Large comment blocks are framed by blank “//” lines; inline comments use
// a single “//”.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/yanizio/seonet/internal/api"
	"github.com/yanizio/seonet/internal/config"
	"github.com/yanizio/seonet/internal/database"
	"github.com/yanizio/seonet/internal/domain"
	"github.com/yanizio/seonet/internal/logger"
	"github.com/yanizio/seonet/internal/middleware"
	"github.com/yanizio/seonet/internal/mutation"
	"github.com/yanizio/seonet/internal/netlock"
	"github.com/yanizio/seonet/internal/notify"
	"github.com/yanizio/seonet/internal/server"
	"github.com/yanizio/seonet/internal/structure"
)

// runningInTTY returns true when stdout is a character device.
func runningInTTY() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

func main() {
	rootDir, _ := os.Getwd()
	logOut, err := logger.New(rootDir, runningInTTY())
	if err != nil {
		log.Fatalf("start logger: %v", err)
	}

	//
	// ── 1.  Configuration ───────────────────────────────────────────────
	//
	cfg, err := config.Load()
	if err != nil {
		logOut.Fatalf("load config: %v", err)
	}

	//
	// ── 2.  Database connect ────────────────────────────────────────────
	//
	// The DSN template carries one %s verb for the password, so the secret
	// never appears in YAML or env dumps.
	dsn := fmt.Sprintf(cfg.Database.DSN, cfg.Database.Password)
	logOut.Infow("connecting to database")
	db, err := database.Open(dsn)
	if err != nil {
		logOut.Fatalf("connect database: %v", err)
	}
	defer db.Close()
	logOut.Infow("database online")

	// Log live network count as an early sanity check.
	var active int
	_ = db.Get(&active, `SELECT COUNT(*) FROM network WHERE deleted_at IS NULL`)
	logOut.Infof("%d live network(s) found", active)

	//
	// ── 3.  Core wiring ─────────────────────────────────────────────────
	//
	locks := netlock.New()
	reports := structure.NewReportCache(db)
	domains := domain.NewRegistry(db)
	corr := &notify.Correlator{HighTierThreshold: cfg.Notify.HighTierThreshold}
	proto := mutation.New(db, locks, reports, domains, corr, mutation.Policy{
		ChangeNoteMin: cfg.Audit.ChangeNoteMin,
		LockWait:      cfg.LockWait(),
	})

	//
	// ── 4.  HTTP surface ────────────────────────────────────────────────
	//
	app := &api.API{DB: db, Reports: reports, Protocol: proto}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/", app.Router())

	handler := middleware.RequestLog(middleware.Security(mux))
	srv := server.New(cfg.HTTP.ListenAddr, handler)

	//
	// ── 5.  Serve and drain ─────────────────────────────────────────────
	//
	errCh := make(chan error, 1)
	go func() {
		logOut.Infof("listening on %s", cfg.HTTP.ListenAddr)
		errCh <- srv.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logOut.Fatalf("http server: %v", err)
		}
	case sig := <-stop:
		logOut.Infow("shutting down", "signal", sig.String())
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logOut.Errorw("shutdown incomplete", "err", err)
		}
	}
}
