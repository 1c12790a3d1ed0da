package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrSchemaCorruption is matched by every *SchemaCorruptionError via errors.Is
var ErrSchemaCorruption = errors.New("schema corruption")

// ErrConfigFallback is matched by every *ConfigFallbackError via errors.Is
var ErrConfigFallback = errors.New("config fallback")

// SchemaCorruptionError represents persisted column metadata that cannot be
// resolved into a column model (truncated complex run, invalid ordinal, ...).
// The whole table fails; no partial model is produced.
type SchemaCorruptionError struct {
	Table    string // table unique name
	Column   string // offending column (empty if table-level)
	Position int    // index in the descriptor list (-1 if unknown)
	Reason   string // human-readable explanation
}

func (e *SchemaCorruptionError) Error() string {
	var parts []string

	parts = append(parts, fmt.Sprintf("schema corruption in table %s", e.Table))

	if e.Column != "" {
		parts = append(parts, fmt.Sprintf("column %s", e.Column))
	}

	if e.Position >= 0 {
		parts = append(parts, fmt.Sprintf("at descriptor %d", e.Position))
	}

	if e.Reason != "" {
		parts = append(parts, e.Reason)
	}

	return strings.Join(parts, " - ")
}

func (e *SchemaCorruptionError) Is(target error) bool {
	return target == ErrSchemaCorruption
}

func NewTruncatedChildren(table, column string, position, declared, remaining int) *SchemaCorruptionError {
	return &SchemaCorruptionError{
		Table:    table,
		Column:   column,
		Position: position,
		Reason: fmt.Sprintf("declares %d children but only %d descriptors remain",
			declared, remaining),
	}
}

func NewInvalidOrdinal(table, column string, position, ordinal int) *SchemaCorruptionError {
	return &SchemaCorruptionError{
		Table:    table,
		Column:   column,
		Position: position,
		Reason:   fmt.Sprintf("invalid schema ordinal %d", ordinal),
	}
}

func NewNonDimensionChild(table, column, parent string, position int) *SchemaCorruptionError {
	return &SchemaCorruptionError{
		Table:    table,
		Column:   column,
		Position: position,
		Reason:   fmt.Sprintf("measure nested under complex dimension %s", parent),
	}
}

func NewMissingName(table string, position int) *SchemaCorruptionError {
	return &SchemaCorruptionError{
		Table:    table,
		Position: position,
		Reason:   "column name is empty; the metadata loader must name every descriptor",
	}
}

// ConfigFallbackError is a non-fatal notice: a table property was missing or
// unparseable and a default value was used instead.
type ConfigFallbackError struct {
	Table    string
	Property string
	Value    string // raw value (empty if missing)
	Default  string
	Reason   string
}

func (e *ConfigFallbackError) Error() string {
	return fmt.Sprintf("table %s: property %s %s, using default %s",
		e.Table, e.Property, e.Reason, e.Default)
}

func (e *ConfigFallbackError) Is(target error) bool {
	return target == ErrConfigFallback
}

// TableNotFoundError is returned by registry operations that require a
// published table.
type TableNotFoundError struct {
	TableName string
}

func (e *TableNotFoundError) Error() string {
	return fmt.Sprintf("table '%s' not found", e.TableName)
}
