package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/leengari/colmodel/internal/domain/schema"
)

// Database is a directory of table metadata
type Database struct {
	Name   string
	Path   string
	Tables []schema.TableSchema // sorted by table name
}

// LoadDatabase loads every table's metadata from the given directory path.
// A database meta.json is optional; without one the directory name is used,
// and when it lists tables only those directories are loaded.
//
// A table that fails to load does not stop the others: the returned
// Database holds every table that loaded, and the error joins the
// per-table failures. A nil Database means the directory itself was unusable.
func LoadDatabase(ctx context.Context, dbPath string, logger *slog.Logger) (*Database, error) {
	ctx, span := tracer.Start(ctx, "storage.LoadDatabase")
	defer span.End()

	db := &Database{
		Name: filepath.Base(dbPath),
		Path: dbPath,
	}

	var meta DatabaseMeta
	metaPath := filepath.Join(dbPath, "meta.json")
	if data, err := os.ReadFile(metaPath); err == nil {
		if err := json.Unmarshal(data, &meta); err != nil {
			return nil, fmt.Errorf("failed to parse database meta: %w", err)
		}
		if meta.Name != "" {
			db.Name = meta.Name
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read database meta: %w", err)
	}

	tableDirs := meta.Tables
	if len(tableDirs) == 0 {
		// Read all entries in the database directory
		entries, err := os.ReadDir(dbPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read database directory: %w", err)
		}
		for _, entry := range entries {
			if entry.IsDir() {
				tableDirs = append(tableDirs, entry.Name())
			}
		}
	}

	var errs []error
	for _, dir := range tableDirs {
		tablePath := filepath.Join(dbPath, dir)
		ts, err := LoadTable(ctx, tablePath, db.Name, logger)
		if err != nil {
			logger.Error("failed to load table metadata",
				slog.String("table", dir),
				slog.Any("error", err),
			)
			errs = append(errs, fmt.Errorf("failed to load table %s: %w", dir, err))
			continue
		}
		db.Tables = append(db.Tables, ts)
	}

	sort.Slice(db.Tables, func(i, j int) bool {
		return db.Tables[i].TableName < db.Tables[j].TableName
	})

	logger.Info("Database metadata loaded",
		slog.String("name", db.Name),
		slog.String("path", dbPath),
		slog.Int("table_count", len(db.Tables)),
		slog.Int("failed_count", len(errs)),
	)

	return db, errors.Join(errs...)
}
