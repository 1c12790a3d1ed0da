// Package resolver turns a table's flat, persisted column descriptor list into
// a ColumnModel: dimensions and measures, rebuilt complex-column trees, and
// the dimension, key, column-group, complex-type and measure ordinals that
// the storage layer encodes against.
package resolver

import (
	"github.com/google/uuid"

	domainErrors "github.com/leengari/colmodel/internal/domain/errors"
	"github.com/leengari/colmodel/internal/domain/model"
	"github.com/leengari/colmodel/internal/domain/schema"
)

// NoticeHandler receives non-fatal notices raised while resolving,
// such as a *errors.ConfigFallbackError for a defaulted block size
type NoticeHandler func(notice error)

type options struct {
	notice NoticeHandler
}

// Option configures Resolve
type Option func(*options)

// WithNoticeHandler registers a receiver for non-fatal notices
func WithNoticeHandler(h NoticeHandler) Option {
	return func(o *options) {
		o.notice = h
	}
}

// buildContext holds every running counter of one Resolve call.
// It never outlives the call, so no state leaks between tables.
type buildContext struct {
	table   string
	columns []schema.ColumnDescriptor

	dimensionOrdinal      int
	measureOrdinal        int
	keyOrdinal            int
	columnGroupOrdinal    int
	previousColumnGroupID int
	sortColumns           int
	noDictSortColumns     int

	roots        []*model.Dimension
	dimensions   []*model.Dimension
	measures     []*model.Measure
	primitives   []*model.Dimension
	complexRoots []*model.Dimension
}

func newBuildContext(ts schema.TableSchema) *buildContext {
	return &buildContext{
		table:                 ts.UniqueName(),
		columns:               ts.Columns,
		columnGroupOrdinal:    -1,
		previousColumnGroupID: schema.NoColumnGroup,
		roots:                 make([]*model.Dimension, 0, len(ts.Columns)),
		dimensions:            make([]*model.Dimension, 0, len(ts.Columns)),
		primitives:            make([]*model.Dimension, 0, len(ts.Columns)),
	}
}

// Resolve builds the column model of one table.
// It is pure: the result depends only on ts, and on error nothing is returned.
func Resolve(ts schema.TableSchema, opts ...Option) (*model.ColumnModel, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	b := newBuildContext(ts)

	// 1. Flatten pass
	for cursor := 0; cursor < len(b.columns); {
		next, err := b.readColumn(cursor)
		if err != nil {
			return nil, err
		}
		cursor = next
	}

	// 2. Complex-type ordinals over the whole forest
	assignComplexOrdinals(b.complexRoots)

	// 3. Implicit dimensions take the two highest dimension ordinals
	implicit := implicitDimensions(b.table, b.dimensionOrdinal)

	blockSize, notice := ts.BlockSizeMB()
	if notice != nil && o.notice != nil {
		o.notice(notice)
	}

	// Aggregate tables resolve independently; any failure fails the fact table
	aggregates := make([]*model.ColumnModel, 0, len(ts.Aggregates))
	for _, agg := range ts.Aggregates {
		if agg.DatabaseName == "" {
			agg.DatabaseName = ts.DatabaseName
		}
		am, err := Resolve(agg, opts...)
		if err != nil {
			return nil, err
		}
		aggregates = append(aggregates, am)
	}

	// 4. Views
	return model.New(model.Parts{
		DatabaseName:              ts.DatabaseName,
		TableName:                 ts.TableName,
		UniqueName:                b.table,
		TableID:                   ts.TableID,
		LastUpdated:               ts.LastUpdated,
		BlockSizeMB:               blockSize,
		NumberOfSortColumns:       b.sortColumns,
		NumberOfNoDictSortColumns: b.noDictSortColumns,
		Roots:                     b.roots,
		AllDimensions:             b.dimensions,
		AllMeasures:               b.measures,
		ImplicitDimensions:        implicit,
		PrimitiveDimensions:       b.primitives,
		Aggregates:                aggregates,
	}), nil
}

// readColumn consumes the top-level column at cursor (and, for a complex
// column, its whole flattened subtree) and returns the next cursor.
func (b *buildContext) readColumn(cursor int) (int, error) {
	col := b.columns[cursor]
	if col.Name == "" {
		return 0, domainErrors.NewMissingName(b.table, cursor)
	}

	if !col.IsDimension {
		b.measures = append(b.measures, model.NewMeasure(col, b.measureOrdinal))
		b.measureOrdinal++
		return cursor + 1, nil
	}

	if col.SchemaOrdinal < 0 {
		return 0, domainErrors.NewInvalidOrdinal(b.table, col.Name, cursor, col.SchemaOrdinal)
	}

	if col.IsComplex() {
		if err := b.checkChildCount(col, cursor); err != nil {
			return 0, err
		}
		parent := b.newDimension(col, model.None, model.None)
		b.roots = append(b.roots, parent)
		b.complexRoots = append(b.complexRoots, parent)
		return b.readChildren(parent, cursor)
	}

	dim := b.newLeaf(col)
	b.roots = append(b.roots, dim)
	b.primitives = append(b.primitives, dim)
	return cursor + 1, nil
}

// readChildren consumes exactly parent.NumberOfChildren() descriptors
// following parentPos, depth-first, and returns the cursor past the subtree.
func (b *buildContext) readChildren(parent *model.Dimension, parentPos int) (int, error) {
	cursor := parentPos + 1
	declared := parent.NumberOfChildren()

	for i := 0; i < declared; i++ {
		if cursor >= len(b.columns) {
			return 0, domainErrors.NewTruncatedChildren(b.table, parent.Name(), parentPos,
				declared, len(b.columns)-parentPos-1)
		}

		col := b.columns[cursor]
		switch {
		case col.Name == "":
			return 0, domainErrors.NewMissingName(b.table, cursor)
		case !col.IsDimension:
			return 0, domainErrors.NewNonDimensionChild(b.table, col.Name, parent.Name(), cursor)
		case col.SchemaOrdinal < 0:
			return 0, domainErrors.NewInvalidOrdinal(b.table, col.Name, cursor, col.SchemaOrdinal)
		}

		if col.IsComplex() {
			if err := b.checkChildCount(col, cursor); err != nil {
				return 0, err
			}
			child := b.newDimension(col, model.None, model.None)
			parent.AddChild(child)
			next, err := b.readChildren(child, cursor)
			if err != nil {
				return 0, err
			}
			cursor = next
			continue
		}

		child := b.newLeaf(col)
		parent.AddChild(child)
		b.primitives = append(b.primitives, child)
		cursor++
	}
	return cursor, nil
}

// checkChildCount rejects a complex column declaring more children than
// descriptors follow it, before any node is built for it
func (b *buildContext) checkChildCount(col schema.ColumnDescriptor, pos int) error {
	remaining := len(b.columns) - pos - 1
	if col.NumberOfChildren > remaining {
		return domainErrors.NewTruncatedChildren(b.table, col.Name, pos, col.NumberOfChildren, remaining)
	}
	return nil
}

// newLeaf classifies a leaf dimension by its encoding and column group and
// updates the sort-column tallies
func (b *buildContext) newLeaf(col schema.ColumnDescriptor) *model.Dimension {
	visibleSort := col.IsSortColumn && !col.IsInvisible
	if visibleSort {
		b.sortColumns++
	}

	switch {
	case !col.IsDictionary():
		if visibleSort {
			b.noDictSortColumns++
		}
		return b.newDimension(col, model.None, model.None)
	case !col.IsGrouped():
		return b.newDimension(col, b.nextKeyOrdinal(), model.None)
	default:
		if b.previousColumnGroupID == col.ColumnGroupID {
			b.columnGroupOrdinal++
		} else {
			b.columnGroupOrdinal = 0
		}
		b.previousColumnGroupID = col.ColumnGroupID
		return b.newDimension(col, b.nextKeyOrdinal(), model.Some(b.columnGroupOrdinal))
	}
}

// newDimension assigns the next dimension ordinal and records the
// dimension in resolution order
func (b *buildContext) newDimension(col schema.ColumnDescriptor, key, group model.Ordinal) *model.Dimension {
	dim := model.NewDimension(col, b.dimensionOrdinal, key, group)
	b.dimensionOrdinal++
	b.dimensions = append(b.dimensions, dim)
	return dim
}

func (b *buildContext) nextKeyOrdinal() model.Ordinal {
	key := model.Some(b.keyOrdinal)
	b.keyOrdinal++
	return key
}

// assignComplexOrdinals numbers every complex root and every descendant in
// one pre-order walk. A root takes the next value after the previous root's
// last descendant.
func assignComplexOrdinals(roots []*model.Dimension) {
	counter := -1

	stack := make([]*model.Dimension, 0, len(roots))
	for i := len(roots) - 1; i >= 0; i-- {
		stack = append(stack, roots[i])
	}

	for len(stack) > 0 {
		d := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		counter++
		d.SetComplexTypeOrdinal(counter)

		children := d.Children()
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, children[i])
		}
	}
}

// implicitDimensions creates positionId and tupleId after the real dimensions.
// Their column ids derive from the table name so repeated resolves agree.
func implicitDimensions(table string, nextOrdinal int) []*model.Dimension {
	return []*model.Dimension{
		model.NewImplicitDimension(model.ImplicitPositionID, implicitColumnID(table, model.ImplicitPositionID), nextOrdinal),
		model.NewImplicitDimension(model.ImplicitTupleID, implicitColumnID(table, model.ImplicitTupleID), nextOrdinal+1),
	}
}

func implicitColumnID(table, name string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(table+"/"+name)).String()
}
