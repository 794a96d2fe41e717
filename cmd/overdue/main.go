// Command overdue runs the overdue sweep once and exits. It is meant to
// be triggered by an external scheduler such as cron or a Kubernetes
// CronJob.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	billingapp "github.com/irenerossetti/condominio-backend/internal/application/billing"
	"github.com/irenerossetti/condominio-backend/internal/domain/identity"
	"github.com/irenerossetti/condominio-backend/internal/infrastructure/config"
	"github.com/irenerossetti/condominio-backend/internal/infrastructure/event"
	"github.com/irenerossetti/condominio-backend/internal/infrastructure/logger"
	"github.com/irenerossetti/condominio-backend/internal/infrastructure/persistence"
	"go.uber.org/zap"
)

func main() {
	var (
		asOfFlag string
		timeout  time.Duration
	)
	flag.StringVar(&asOfFlag, "as-of", "", "Sweep as of this date (YYYY-MM-DD); defaults to today")
	flag.DurationVar(&timeout, "timeout", 5*time.Minute, "Abort the sweep after this long")
	flag.Parse()

	var asOf time.Time
	if asOfFlag != "" {
		parsed, err := time.Parse(time.DateOnly, asOfFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid -as-of %q: %v\n", asOfFlag, err)
			os.Exit(2)
		}
		asOf = parsed
	}

	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	db, err := persistence.NewDatabase(&cfg.Database, nil, log)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()

	bus := event.NewInMemoryEventBus(log)
	bus.Subscribe(billingapp.NewLedgerAuditHandler(log))

	svc := billingapp.NewOverdueService(persistence.NewGormFeeRepository(db.DB), log)
	svc.SetEventPublisher(bus)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	result, err := svc.MarkOverdue(ctx, identity.SystemCaller(), asOf)
	if err != nil {
		log.Error("Overdue sweep failed", zap.Error(err))
		os.Exit(1)
	}
	log.Info("Overdue sweep finished",
		zap.String("as_of", result.AsOf),
		zap.Int64("updated", result.Updated),
	)
}
