package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"gopkg.in/yaml.v3"

	"github.com/leengari/colmodel/internal/domain/schema"
)

var tracer = otel.Tracer("github.com/leengari/colmodel/internal/storage")

// Metadata file names probed in a table directory, in order
var tableMetaFiles = []string{"meta.json", "meta.yaml", "meta.yml"}

// ErrNoTableMeta is returned when a table directory holds no metadata file
var ErrNoTableMeta = errors.New("no table metadata file")

// LoadTable reads a table directory's metadata into a TableSchema
func LoadTable(ctx context.Context, path, dbName string, logger *slog.Logger) (schema.TableSchema, error) {
	_, span := tracer.Start(ctx, "storage.LoadTable")
	defer span.End()
	span.SetAttributes(attribute.String("table.path", path))

	metaPath, err := findTableMeta(path)
	if err != nil {
		span.RecordError(err)
		return schema.TableSchema{}, err
	}

	metaBytes, err := os.ReadFile(metaPath)
	if err != nil {
		span.RecordError(err)
		return schema.TableSchema{}, err
	}

	meta, err := DecodeTableMeta(metaPath, metaBytes)
	if err != nil {
		span.RecordError(err)
		return schema.TableSchema{}, fmt.Errorf("failed to parse %s: %w", metaPath, err)
	}

	ts := meta.toTableSchema(dbName)
	span.SetAttributes(
		attribute.String("table.name", ts.UniqueName()),
		attribute.Int("table.columns", len(ts.Columns)),
	)

	logger.Info("table metadata loaded",
		slog.String("table", ts.UniqueName()),
		slog.Int("columns", len(ts.Columns)),
	)

	return ts, nil
}

// DecodeTableMeta decodes JSON or YAML metadata, chosen by file extension
func DecodeTableMeta(name string, data []byte) (TableMeta, error) {
	var meta TableMeta
	switch filepath.Ext(name) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &meta); err != nil {
			return TableMeta{}, err
		}
	default:
		if err := json.Unmarshal(data, &meta); err != nil {
			return TableMeta{}, err
		}
	}
	if meta.Name == "" {
		meta.Name = filepath.Base(filepath.Dir(name))
	}
	return meta, nil
}

func findTableMeta(dir string) (string, error) {
	for _, name := range tableMetaFiles {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", fmt.Errorf("%s: %w", dir, ErrNoTableMeta)
}
