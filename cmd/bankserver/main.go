// Command bankserver runs the bank's TCP command server.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/withobsrvr/bank-server/internal/auditsink"
	"github.com/withobsrvr/bank-server/internal/bankserver"
	"github.com/withobsrvr/bank-server/internal/broker"
	"github.com/withobsrvr/bank-server/internal/config"
	"github.com/withobsrvr/bank-server/internal/store"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	port := flag.Int("port", 0, "TCP port to listen on (overrides config)")
	dbPath := flag.String("db", "", "path to the account snapshot file (overrides config)")
	flag.Parse()

	logger, err := zap.NewProduction()
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer logger.Sync()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}
	config.ApplyFlags(&cfg, *port, *dbPath)

	logger.Info("starting bank server",
		zap.Int("port", cfg.Server.Port),
		zap.String("dbPath", cfg.Store.DBPath))

	st := store.New(cfg.Store.DBPath, logger)
	applyThresholds(st, cfg, logger)

	br, err := broker.New(cfg.Broker.SpoolPath, logger)
	if err != nil {
		logger.Fatal("failed to initialize approval broker", zap.Error(err))
	}
	defer br.Close()

	metrics := bankserver.NewMetrics()
	approvalTimeout := time.Duration(cfg.Broker.ApprovalTimeoutSeconds) * time.Second

	srv := bankserver.New(st, br, metrics, logger, cfg.Server.Port, approvalTimeout)

	if cfg.Audit.DSN != "" {
		sink, err := auditsink.New(cfg.Audit.DSN, logger)
		if err != nil {
			logger.Warn("audit sink disabled: failed to connect", zap.Error(err))
		} else {
			srv.SetAuditSink(sink)
			defer sink.Close()
		}
	}

	if err := srv.Start(); err != nil {
		logger.Fatal("failed to start server", zap.Error(err))
	}

	health := srv.StartHealthServer(cfg.Service.HealthPort)

	fmt.Println("Bank server running. Press Enter to stop...")
	bufio.NewReader(os.Stdin).ReadString('\n')

	if err := srv.Stop(); err != nil {
		logger.Error("error during shutdown", zap.Error(err))
	}
	if err := health.Stop(); err != nil {
		logger.Error("error stopping health server", zap.Error(err))
	}
	fmt.Println("Server stopped.")
}

// applyThresholds overlays the configured large-operation/loan thresholds
// onto the store's settings, leaving the interest rates (which operators
// adjust at runtime via SET_RATES) untouched.
func applyThresholds(st *store.Store, cfg config.Config, logger *zap.Logger) {
	settings := st.GetSettings()
	settings.LargeOperationThreshold = cfg.Broker.LargeOperationThreshold
	settings.LargeLoanThreshold = cfg.Broker.LargeLoanThreshold
	if err := st.SaveSettings(settings); err != nil {
		logger.Fatal("failed to apply configured thresholds", zap.Error(err))
	}
}
