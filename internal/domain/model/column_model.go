package model

import (
	"cmp"
	"slices"
	"strings"
	"time"
)

// Parts carries the resolved pieces of a table from which a ColumnModel
// and its derived views are assembled.
type Parts struct {
	DatabaseName string
	TableName    string
	UniqueName   string
	TableID      string
	LastUpdated  time.Time
	BlockSizeMB  int

	NumberOfSortColumns       int
	NumberOfNoDictSortColumns int

	Roots               []*Dimension // top-level dimensions in list order
	AllDimensions       []*Dimension // every real dimension, pre-order
	AllMeasures         []*Measure
	ImplicitDimensions  []*Dimension
	PrimitiveDimensions []*Dimension // every leaf, nested ones included
	Aggregates          []*ColumnModel
}

// ColumnModel is the resolved, immutable column structure of one table.
// It is safe for concurrent readers once built.
type ColumnModel struct {
	databaseName string
	tableName    string
	uniqueName   string
	tableID      string
	lastUpdated  time.Time
	blockSizeMB  int

	numberOfSortColumns       int
	numberOfNoDictSortColumns int

	roots               []*Dimension
	allDimensions       []*Dimension
	allMeasures         []*Measure
	visibleDimensions   []*Dimension
	visibleMeasures     []*Measure
	implicitDimensions  []*Dimension
	primitiveDimensions []*Dimension
	createOrderColumns  []Column
	aggregates          []*ColumnModel

	index nameIndex
}

// New assembles a ColumnModel and builds its filtered and create-order views
func New(p Parts) *ColumnModel {
	m := &ColumnModel{
		databaseName:              p.DatabaseName,
		tableName:                 p.TableName,
		uniqueName:                p.UniqueName,
		tableID:                   p.TableID,
		lastUpdated:               p.LastUpdated,
		blockSizeMB:               p.BlockSizeMB,
		numberOfSortColumns:       p.NumberOfSortColumns,
		numberOfNoDictSortColumns: p.NumberOfNoDictSortColumns,
		roots:                     p.Roots,
		allDimensions:             p.AllDimensions,
		allMeasures:               p.AllMeasures,
		implicitDimensions:        p.ImplicitDimensions,
		primitiveDimensions:       p.PrimitiveDimensions,
		aggregates:                p.Aggregates,
	}

	m.visibleDimensions = visible(m.allDimensions)
	m.visibleMeasures = visible(m.allMeasures)
	m.createOrderColumns = createOrder(m.allDimensions, m.allMeasures)
	m.index = buildNameIndex(m)

	return m
}

// visible keeps the relative order of the unfiltered list
func visible[C Column](cols []C) []C {
	out := make([]C, 0, len(cols))
	for _, c := range cols {
		if !c.IsInvisible() {
			out = append(out, c)
		}
	}
	return out
}

// createOrder merges dimensions and measures back into user-declared order
func createOrder(dims []*Dimension, msrs []*Measure) []Column {
	cols := make([]Column, 0, len(dims)+len(msrs))
	for _, d := range dims {
		cols = append(cols, d)
	}
	for _, m := range msrs {
		cols = append(cols, m)
	}
	slices.SortStableFunc(cols, func(a, b Column) int {
		return cmp.Compare(a.SchemaOrdinal(), b.SchemaOrdinal())
	})
	return cols
}

func (m *ColumnModel) DatabaseName() string   { return m.databaseName }
func (m *ColumnModel) TableName() string      { return m.tableName }
func (m *ColumnModel) UniqueName() string     { return m.uniqueName }
func (m *ColumnModel) TableID() string        { return m.tableID }
func (m *ColumnModel) LastUpdated() time.Time { return m.lastUpdated }

// BlockSizeMB is the table block size in megabytes
func (m *ColumnModel) BlockSizeMB() int { return m.blockSizeMB }

// NumberOfSortColumns counts visible sort columns, nested leaves included
func (m *ColumnModel) NumberOfSortColumns() int { return m.numberOfSortColumns }

// NumberOfNoDictSortColumns counts visible sort columns without dictionary encoding
func (m *ColumnModel) NumberOfNoDictSortColumns() int { return m.numberOfNoDictSortColumns }

// Roots returns the top-level dimension forest
func (m *ColumnModel) Roots() []*Dimension { return slices.Clone(m.roots) }

// AllDimensions returns every real dimension in resolution (pre-)order
func (m *ColumnModel) AllDimensions() []*Dimension { return slices.Clone(m.allDimensions) }

func (m *ColumnModel) AllMeasures() []*Measure { return slices.Clone(m.allMeasures) }

func (m *ColumnModel) VisibleDimensions() []*Dimension { return slices.Clone(m.visibleDimensions) }

func (m *ColumnModel) VisibleMeasures() []*Measure { return slices.Clone(m.visibleMeasures) }

// ImplicitDimensions returns the positionId and tupleId dimensions
func (m *ColumnModel) ImplicitDimensions() []*Dimension { return slices.Clone(m.implicitDimensions) }

// PrimitiveDimensions returns every leaf dimension, nested ones included
func (m *ColumnModel) PrimitiveDimensions() []*Dimension {
	return slices.Clone(m.primitiveDimensions)
}

// CreateOrderColumns returns dimensions and measures in user-declared order
func (m *ColumnModel) CreateOrderColumns() []Column { return slices.Clone(m.createOrderColumns) }

// AggregateTableNames returns the aggregate table names in declaration order
func (m *ColumnModel) AggregateTableNames() []string {
	names := make([]string, len(m.aggregates))
	for i, a := range m.aggregates {
		names[i] = a.TableName()
	}
	return names
}

// Aggregate returns the resolved model of an aggregate table, by exact name
func (m *ColumnModel) Aggregate(name string) (*ColumnModel, bool) {
	for _, a := range m.aggregates {
		if a.TableName() == name {
			return a, true
		}
	}
	return nil, false
}

// NumberOfDimensions is the count of visible dimensions
func (m *ColumnModel) NumberOfDimensions() int { return len(m.visibleDimensions) }

// NumberOfMeasures is the count of visible measures
func (m *ColumnModel) NumberOfMeasures() int { return len(m.visibleMeasures) }

// nameIndex maps folded names to the first hit of each lookup's scan order
type nameIndex struct {
	dimensions map[string]*Dimension
	measures   map[string]*Measure
	columns    map[string]Column
	primitives map[string]*Dimension
}

func foldName(name string) string {
	return strings.ToLower(name)
}

func buildNameIndex(m *ColumnModel) nameIndex {
	idx := nameIndex{
		dimensions: make(map[string]*Dimension, len(m.visibleDimensions)+len(m.implicitDimensions)),
		measures:   make(map[string]*Measure, len(m.visibleMeasures)),
		columns:    make(map[string]Column, len(m.createOrderColumns)),
		primitives: make(map[string]*Dimension, len(m.primitiveDimensions)),
	}

	for _, d := range m.visibleDimensions {
		putFirst(idx.dimensions, d.Name(), d)
	}
	for _, d := range m.implicitDimensions {
		putFirst(idx.dimensions, d.Name(), d)
	}
	for _, ms := range m.visibleMeasures {
		putFirst(idx.measures, ms.Name(), ms)
	}
	for _, c := range m.createOrderColumns {
		putFirst(idx.columns, c.Name(), c)
	}
	for _, d := range m.primitiveDimensions {
		if !d.IsInvisible() {
			putFirst(idx.primitives, d.Name(), d)
		}
	}
	return idx
}

func putFirst[V any](dst map[string]V, name string, v V) {
	key := foldName(name)
	if _, exists := dst[key]; !exists {
		dst[key] = v
	}
}
