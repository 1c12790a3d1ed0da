package testutil

import "github.com/leengari/colmodel/internal/domain/schema"

// ColumnOption adjusts a test descriptor
type ColumnOption func(*schema.ColumnDescriptor)

// Invisible hides the column
func Invisible() ColumnOption {
	return func(c *schema.ColumnDescriptor) { c.IsInvisible = true }
}

// Sort marks the column as a sort column
func Sort() ColumnOption {
	return func(c *schema.ColumnDescriptor) { c.IsSortColumn = true }
}

// Dict adds the DICTIONARY encoding
func Dict() ColumnOption {
	return func(c *schema.ColumnDescriptor) {
		c.Encodings = append(c.Encodings, schema.EncodingDictionary)
	}
}

// Group places the column in a column group (implies Dict)
func Group(id int) ColumnOption {
	return func(c *schema.ColumnDescriptor) {
		c.Encodings = append(c.Encodings, schema.EncodingDictionary)
		c.ColumnGroupID = id
	}
}

// Dim creates a leaf dimension descriptor (no dictionary by default)
func Dim(name string, schemaOrdinal int, opts ...ColumnOption) schema.ColumnDescriptor {
	c := schema.ColumnDescriptor{
		Name:          name,
		DataType:      "STRING",
		IsDimension:   true,
		SchemaOrdinal: schemaOrdinal,
		ColumnGroupID: schema.NoColumnGroup,
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// Struct creates a complex dimension descriptor with the given child count
func Struct(name string, schemaOrdinal, children int, opts ...ColumnOption) schema.ColumnDescriptor {
	c := Dim(name, schemaOrdinal, opts...)
	c.DataType = "STRUCT"
	c.NumberOfChildren = children
	return c
}

// Measure creates a measure descriptor
func Measure(name string, schemaOrdinal int, opts ...ColumnOption) schema.ColumnDescriptor {
	c := schema.ColumnDescriptor{
		Name:          name,
		DataType:      "DOUBLE",
		SchemaOrdinal: schemaOrdinal,
		ColumnGroupID: schema.NoColumnGroup,
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// Table wraps descriptors into a TableSchema
func Table(name string, cols ...schema.ColumnDescriptor) schema.TableSchema {
	return schema.TableSchema{
		DatabaseName: "testdb",
		TableName:    name,
		Columns:      cols,
		Properties:   map[string]string{schema.PropertyBlockSize: "256"},
	}
}

// StructExample is [struct S(children=2), leaf A(dictionary), leaf B(no-dictionary), measure M]
func StructExample() schema.TableSchema {
	return Table("example",
		Struct("S", 0, 2),
		Dim("A", 1, Dict()),
		Dim("B", 2),
		Measure("M", 3),
	)
}

// SalesTable mixes top-level leaves, column groups, nested structs,
// invisible columns and measures
func SalesTable() schema.TableSchema {
	return Table("sales",
		Dim("country", 0, Dict(), Sort()),
		Dim("region", 1, Group(1)),
		Dim("city", 2, Group(1)),
		Dim("notes", 3, Sort()),
		Struct("address", 4, 3),
		Dim("street", 5),
		Struct("geo", 6, 2),
		Dim("lat", 7),
		Dim("lon", 8, Dict()),
		Dim("zip", 9, Dict()),
		Measure("revenue", 12),
		Dim("store", 10, Group(2)),
		Dim("shelf", 11, Group(1), Invisible()),
		Measure("quantity", 13),
		Measure("cost", 14, Invisible()),
		Struct("tags", 15, 1),
		Dim("tag", 16),
	)
}
