package store

import (
	"context"
	"fmt"

	"recipebox/config"
)

// Open returns the store selected by cfg.Driver.
func Open(ctx context.Context, cfg config.StorageConfig) (RecipeStore, error) {
	switch cfg.Driver {
	case config.DriverFirestore:
		return OpenFirestore(ctx, cfg.ProjectID, cfg.CredentialsFile, cfg.Collection)
	case config.DriverSQLite:
		return OpenSQLite(ctx, cfg.SQLitePath)
	case config.DriverMemory:
		return NewMemory(), nil
	}
	return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
}
