package model

// DimensionByName finds a visible or implicit dimension, ignoring case.
// Visible dimensions win over implicit ones.
func (m *ColumnModel) DimensionByName(name string) (*Dimension, bool) {
	d, ok := m.index.dimensions[foldName(name)]
	return d, ok
}

// MeasureByName finds a visible measure, ignoring case
func (m *ColumnModel) MeasureByName(name string) (*Measure, bool) {
	ms, ok := m.index.measures[foldName(name)]
	return ms, ok
}

// ColumnByName finds any dimension or measure, ignoring case
func (m *ColumnModel) ColumnByName(name string) (Column, bool) {
	c, ok := m.index.columns[foldName(name)]
	return c, ok
}

// PrimitiveDimensionByName finds a visible leaf dimension, ignoring case.
// Leaves nested under complex dimensions are reachable this way.
func (m *ColumnModel) PrimitiveDimensionByName(name string) (*Dimension, bool) {
	d, ok := m.index.primitives[foldName(name)]
	return d, ok
}

// DimensionByOrdinal finds a real or implicit dimension by dimension ordinal
func (m *ColumnModel) DimensionByOrdinal(ordinal int) (*Dimension, bool) {
	for _, d := range m.allDimensions {
		if d.DimensionOrdinal() == ordinal {
			return d, true
		}
	}
	for _, d := range m.implicitDimensions {
		if d.DimensionOrdinal() == ordinal {
			return d, true
		}
	}
	return nil, false
}

// Children returns the immediate children of the first dimension named
// name, searching the whole forest depth-first in declaration order, then
// each aggregate table's forest in turn.
// A matching leaf yields an empty list.
func (m *ColumnModel) Children(name string) ([]*Dimension, bool) {
	if children, ok := m.ownChildren(name); ok {
		return children, true
	}
	for _, a := range m.aggregates {
		if children, ok := a.Children(name); ok {
			return children, true
		}
	}
	return nil, false
}

func (m *ColumnModel) ownChildren(name string) ([]*Dimension, bool) {
	// explicit stack keeps deep nesting off the call stack
	stack := make([]*Dimension, 0, len(m.roots))
	for i := len(m.roots) - 1; i >= 0; i-- {
		stack = append(stack, m.roots[i])
	}

	for len(stack) > 0 {
		d := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if d.Name() == name {
			if len(d.children) == 0 {
				return []*Dimension{}, true
			}
			return d.Children(), true
		}

		for i := len(d.children) - 1; i >= 0; i-- {
			stack = append(stack, d.children[i])
		}
	}
	return nil, false
}
