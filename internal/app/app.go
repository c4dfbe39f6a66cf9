// Package app wires configuration, storage and services into a runnable
// core shared by cmd/tally and the tests.
package app

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bobmcallan/tally/internal/common"
	"github.com/bobmcallan/tally/internal/interfaces"
	"github.com/bobmcallan/tally/internal/services/debt"
	"github.com/bobmcallan/tally/internal/services/ledger"
	"github.com/bobmcallan/tally/internal/services/networth"
	"github.com/bobmcallan/tally/internal/storage"
)

// App holds all initialized services and storage.
type App struct {
	Config          *common.Config
	Logger          *common.Logger
	Storage         interfaces.StorageManager
	Ledger          interfaces.LedgerService
	DebtService     interfaces.DebtService
	NetWorthService interfaces.NetWorthService
	StartupTime     time.Time
}

// getBinaryDir returns the directory containing the executable.
func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// NewApp initializes configuration, storage and services. configPath may
// be empty, in which case the default resolution logic is used.
func NewApp(configPath string) (*App, error) {
	startupStart := time.Now()

	binDir := getBinaryDir()

	// Load configuration - check provided path, TALLY_CONFIG, then binary
	// dir, then fallback for development
	if configPath == "" {
		configPath = os.Getenv("TALLY_CONFIG")
	}
	if configPath == "" {
		configPath = filepath.Join(binDir, "tally.toml")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			configPath = "config/tally.toml"
		}
	}

	config, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger := common.NewLoggerFromConfig(config.Logging)

	storageManager, err := storage.NewStorageManager(logger, config)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	ledgerService := ledger.NewService(storageManager, logger)
	debtService := debt.NewService(ledgerService, logger)
	netWorthService := networth.NewService(ledgerService, logger)

	a := &App{
		Config:          config,
		Logger:          logger,
		Storage:         storageManager,
		Ledger:          ledgerService,
		DebtService:     debtService,
		NetWorthService: netWorthService,
		StartupTime:     startupStart,
	}

	logger.Info().Dur("startup", time.Since(startupStart)).Msg("App initialized")

	return a, nil
}

// Close releases all resources held by the App.
func (a *App) Close() {
	if a.Storage != nil {
		a.Storage.Close()
		a.Storage = nil
	}
}
