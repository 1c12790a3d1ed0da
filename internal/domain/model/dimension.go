package model

import (
	"slices"

	"github.com/leengari/colmodel/internal/domain/schema"
)

// Names of the two implicit dimensions every table carries
const (
	ImplicitPositionID = "positionId"
	ImplicitTupleID    = "tupleId"
)

// NoSchemaOrdinal is reported by implicit dimensions, which the user never declared
const NoSchemaOrdinal = -1

// Dimension is a key column, possibly complex.
// A complex dimension exclusively owns its children.
type Dimension struct {
	desc               schema.ColumnDescriptor
	dimensionOrdinal   int
	keyOrdinal         Ordinal
	columnGroupOrdinal Ordinal
	complexTypeOrdinal Ordinal
	children           []*Dimension
	implicit           bool
}

// NewDimension wraps a dimension descriptor with its resolved ordinals
func NewDimension(desc schema.ColumnDescriptor, dimensionOrdinal int, keyOrdinal, columnGroupOrdinal Ordinal) *Dimension {
	return &Dimension{
		desc:               desc,
		dimensionOrdinal:   dimensionOrdinal,
		keyOrdinal:         keyOrdinal,
		columnGroupOrdinal: columnGroupOrdinal,
	}
}

// NewImplicitDimension creates a synthetic dimension such as positionId
func NewImplicitDimension(name, columnID string, dimensionOrdinal int) *Dimension {
	return &Dimension{
		desc: schema.ColumnDescriptor{
			ColumnID:      columnID,
			Name:          name,
			DataType:      "STRING",
			IsDimension:   true,
			SchemaOrdinal: NoSchemaOrdinal,
			ColumnGroupID: schema.NoColumnGroup,
		},
		dimensionOrdinal: dimensionOrdinal,
		implicit:         true,
	}
}

// AddChild appends a child while the tree is being resolved.
// Must not be called once the owning model is published.
func (d *Dimension) AddChild(child *Dimension) {
	d.children = append(d.children, child)
}

// SetComplexTypeOrdinal is used by the complex-ordinal pass only
func (d *Dimension) SetComplexTypeOrdinal(n int) {
	d.complexTypeOrdinal = Some(n)
}

func (d *Dimension) Name() string                        { return d.desc.Name }
func (d *Dimension) ColumnID() string                    { return d.desc.ColumnID }
func (d *Dimension) DataType() string                    { return d.desc.DataType }
func (d *Dimension) SchemaOrdinal() int                  { return d.desc.SchemaOrdinal }
func (d *Dimension) IsDimension() bool                   { return true }
func (d *Dimension) IsInvisible() bool                   { return d.desc.IsInvisible }
func (d *Dimension) IsSortColumn() bool                  { return d.desc.IsSortColumn }
func (d *Dimension) IsDictionary() bool                  { return d.desc.IsDictionary() }
func (d *Dimension) ColumnGroupID() int                  { return d.desc.ColumnGroupID }
func (d *Dimension) Descriptor() schema.ColumnDescriptor { return d.desc }

// IsImplicit reports whether this is a system-added dimension
func (d *Dimension) IsImplicit() bool { return d.implicit }

// IsComplex reports whether the dimension has nested children
func (d *Dimension) IsComplex() bool { return d.desc.IsComplex() }

// NumberOfChildren is the declared child count
func (d *Dimension) NumberOfChildren() int { return d.desc.NumberOfChildren }

// DimensionOrdinal is the global assignment order within the table
func (d *Dimension) DimensionOrdinal() int { return d.dimensionOrdinal }

// KeyOrdinal is the position in the dictionary key space
func (d *Dimension) KeyOrdinal() Ordinal { return d.keyOrdinal }

// ColumnGroupOrdinal is the position within the column group
func (d *Dimension) ColumnGroupOrdinal() Ordinal { return d.columnGroupOrdinal }

// ComplexTypeOrdinal is the position in the complex-type space
func (d *Dimension) ComplexTypeOrdinal() Ordinal { return d.complexTypeOrdinal }

// Children returns the immediate children, in declaration order
func (d *Dimension) Children() []*Dimension {
	return slices.Clone(d.children)
}
