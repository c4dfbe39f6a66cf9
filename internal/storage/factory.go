// Package storage selects and constructs the store backend.
package storage

import (
	"fmt"

	"github.com/bobmcallan/tally/internal/common"
	"github.com/bobmcallan/tally/internal/interfaces"
	"github.com/bobmcallan/tally/internal/storage/memory"
	"github.com/bobmcallan/tally/internal/storage/surrealdb"
)

// Driver constants.
const (
	DriverMemory  = "memory"
	DriverSurreal = "surrealdb"
)

// NewStorageManager creates a storage manager based on the configuration.
// Supported drivers: "memory" (default), "surrealdb".
func NewStorageManager(logger *common.Logger, config *common.Config) (interfaces.StorageManager, error) {
	driver := config.Storage.Driver
	if driver == "" {
		driver = DriverMemory
	}

	switch driver {
	case DriverMemory:
		return memory.NewManager(logger), nil

	case DriverSurreal:
		return surrealdb.NewManager(logger, config)

	default:
		return nil, fmt.Errorf("unknown storage driver: %s (supported: memory, surrealdb)", driver)
	}
}
