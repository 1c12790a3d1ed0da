package schema

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	domainErrors "github.com/leengari/colmodel/internal/domain/errors"
)

// PropertyBlockSize is the table property holding the block size in MB
const PropertyBlockSize = "table_blocksize"

// DefaultBlockSizeMB is used when the table does not declare a block size
const DefaultBlockSizeMB = 1024

// TableSchema represents table metadata (from meta.json / meta.yaml)
type TableSchema struct {
	DatabaseName string
	TableName    string
	TableID      string
	Columns      []ColumnDescriptor
	Properties   map[string]string
	LastUpdated  time.Time

	// Aggregates are pre-aggregated tables derived from this fact table.
	// Each resolves with its own counters.
	Aggregates []TableSchema
}

// UniqueName returns the database qualified table name
func (ts TableSchema) UniqueName() string {
	if ts.DatabaseName == "" {
		return ts.TableName
	}
	return ts.DatabaseName + "_" + ts.TableName
}

// Property returns a table property by case-insensitive key
func (ts TableSchema) Property(key string) (string, bool) {
	if v, ok := ts.Properties[key]; ok {
		return v, true
	}
	for k, v := range ts.Properties {
		if strings.EqualFold(k, key) {
			return v, true
		}
	}
	return "", false
}

// BlockSizeMB returns the declared block size.
// A missing or unparseable value yields DefaultBlockSizeMB together with a
// non-fatal ConfigFallbackError describing why.
func (ts TableSchema) BlockSizeMB() (int, error) {
	raw, ok := ts.Property(PropertyBlockSize)
	if !ok {
		return DefaultBlockSizeMB, &domainErrors.ConfigFallbackError{
			Table:    ts.UniqueName(),
			Property: PropertyBlockSize,
			Default:  strconv.Itoa(DefaultBlockSizeMB),
			Reason:   "not specified",
		}
	}

	size, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || size <= 0 {
		return DefaultBlockSizeMB, &domainErrors.ConfigFallbackError{
			Table:    ts.UniqueName(),
			Property: PropertyBlockSize,
			Value:    raw,
			Default:  strconv.Itoa(DefaultBlockSizeMB),
			Reason:   fmt.Sprintf("not a positive integer: %q", raw),
		}
	}
	return size, nil
}
