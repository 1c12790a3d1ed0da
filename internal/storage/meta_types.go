package storage

import (
	"time"

	"github.com/google/uuid"

	"github.com/leengari/colmodel/internal/domain/schema"
)

type DatabaseMeta struct {
	Name    string   `json:"name" yaml:"name"`
	Version int      `json:"version" yaml:"version"`
	Tables  []string `json:"tables,omitempty" yaml:"tables,omitempty"`
}

type TableMeta struct {
	Name        string            `json:"name" yaml:"name"`
	TableID     string            `json:"table_id,omitempty" yaml:"table_id,omitempty"`
	Columns     []ColumnMeta      `json:"columns" yaml:"columns"`
	Properties  map[string]string `json:"properties,omitempty" yaml:"properties,omitempty"`
	LastUpdated int64             `json:"last_updated,omitempty" yaml:"last_updated,omitempty"` // Unix millis
	Aggregates  []TableMeta       `json:"aggregates,omitempty" yaml:"aggregates,omitempty"`
}

type ColumnMeta struct {
	ColumnID      string   `json:"column_id,omitempty" yaml:"column_id,omitempty"`
	Name          string   `json:"name" yaml:"name"`
	DataType      string   `json:"data_type,omitempty" yaml:"data_type,omitempty"`
	Dimension     bool     `json:"dimension" yaml:"dimension"`
	Children      int      `json:"children,omitempty" yaml:"children,omitempty"`
	SchemaOrdinal int      `json:"schema_ordinal" yaml:"schema_ordinal"`
	Encodings     []string `json:"encodings,omitempty" yaml:"encodings,omitempty"`
	ColumnGroupID *int     `json:"column_group_id,omitempty" yaml:"column_group_id,omitempty"` // absent = ungrouped
	SortColumn    bool     `json:"sort_column,omitempty" yaml:"sort_column,omitempty"`
	Invisible     bool     `json:"invisible,omitempty" yaml:"invisible,omitempty"`
}

// toTableSchema converts persisted metadata into the resolver's input.
// Columns without a persisted id get one derived from the table and column
// name, so reloading the same metadata yields the same ids.
func (meta TableMeta) toTableSchema(dbName string) schema.TableSchema {
	ts := schema.TableSchema{
		DatabaseName: dbName,
		TableName:    meta.Name,
		TableID:      meta.TableID,
		Columns:      make([]schema.ColumnDescriptor, 0, len(meta.Columns)),
		Properties:   meta.Properties,
	}
	if meta.LastUpdated > 0 {
		ts.LastUpdated = time.UnixMilli(meta.LastUpdated).UTC()
	}
	if ts.TableID == "" {
		ts.TableID = derivedID(ts.UniqueName())
	}

	for _, c := range meta.Columns {
		col := schema.ColumnDescriptor{
			ColumnID:         c.ColumnID,
			Name:             c.Name,
			DataType:         c.DataType,
			IsDimension:      c.Dimension,
			NumberOfChildren: c.Children,
			SchemaOrdinal:    c.SchemaOrdinal,
			ColumnGroupID:    schema.NoColumnGroup,
			IsSortColumn:     c.SortColumn,
			IsInvisible:      c.Invisible,
		}
		if c.ColumnGroupID != nil {
			col.ColumnGroupID = *c.ColumnGroupID
		}
		for _, e := range c.Encodings {
			col.Encodings = append(col.Encodings, schema.Encoding(e))
		}
		if col.ColumnID == "" {
			col.ColumnID = derivedID(ts.UniqueName() + "/" + c.Name)
		}
		ts.Columns = append(ts.Columns, col)
	}

	for _, agg := range meta.Aggregates {
		ts.Aggregates = append(ts.Aggregates, agg.toTableSchema(dbName))
	}

	return ts
}

func derivedID(name string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(name)).String()
}
