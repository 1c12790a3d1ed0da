package model

import "github.com/leengari/colmodel/internal/domain/schema"

// Column is the behaviour shared by dimensions and measures
type Column interface {
	Name() string
	ColumnID() string
	SchemaOrdinal() int
	IsDimension() bool
	IsInvisible() bool
	Descriptor() schema.ColumnDescriptor
}

// Measure is an aggregatable column
type Measure struct {
	desc           schema.ColumnDescriptor
	measureOrdinal int
}

// NewMeasure wraps a measure descriptor
func NewMeasure(desc schema.ColumnDescriptor, measureOrdinal int) *Measure {
	return &Measure{desc: desc, measureOrdinal: measureOrdinal}
}

func (m *Measure) Name() string                        { return m.desc.Name }
func (m *Measure) ColumnID() string                    { return m.desc.ColumnID }
func (m *Measure) DataType() string                    { return m.desc.DataType }
func (m *Measure) SchemaOrdinal() int                  { return m.desc.SchemaOrdinal }
func (m *Measure) IsDimension() bool                   { return false }
func (m *Measure) IsInvisible() bool                   { return m.desc.IsInvisible }
func (m *Measure) Descriptor() schema.ColumnDescriptor { return m.desc }

// MeasureOrdinal is the position among the table's measures
func (m *Measure) MeasureOrdinal() int { return m.measureOrdinal }
