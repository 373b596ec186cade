// Package backend opens the session log implementation selected in the config.
package backend

import (
	"fmt"

	"camstation/internal/config"
	"camstation/internal/logger"
	"camstation/internal/repository"
	"camstation/internal/repository/jsonfile"
	"camstation/internal/repository/sqlite"
)

// Open returns the store for cfg.LogBackend: the JSON document at
// cfg.LogFile, or the SQLite database at cfg.DatabasePath.
func Open(cfg *config.Config, log *logger.Logger) (repository.SessionLogStore, error) {
	switch cfg.LogBackend {
	case config.BackendSQLite:
		db, err := sqlite.New(cfg.DatabasePath)
		if err != nil {
			return nil, err
		}
		return sqlite.NewCaptureRepository(db, log), nil
	case config.BackendJSON, "":
		return jsonfile.New(cfg.LogFile, log)
	default:
		return nil, fmt.Errorf("unknown log backend %q", cfg.LogBackend)
	}
}

// Target returns the file the selected backend writes to.
func Target(cfg *config.Config) string {
	if cfg.LogBackend == config.BackendSQLite {
		return cfg.DatabasePath
	}
	return cfg.LogFile
}
