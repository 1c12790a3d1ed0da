package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/leengari/colmodel/internal/domain/model"
)

type dimensionRow struct {
	Name               string        `json:"name" yaml:"name"`
	Depth              int           `json:"depth" yaml:"depth"`
	SchemaOrdinal      int           `json:"schema_ordinal" yaml:"schema_ordinal"`
	DimensionOrdinal   int           `json:"dimension_ordinal" yaml:"dimension_ordinal"`
	KeyOrdinal         model.Ordinal `json:"key_ordinal" yaml:"key_ordinal"`
	ColumnGroupOrdinal model.Ordinal `json:"column_group_ordinal" yaml:"column_group_ordinal"`
	ComplexTypeOrdinal model.Ordinal `json:"complex_type_ordinal" yaml:"complex_type_ordinal"`
	Invisible          bool          `json:"invisible,omitempty" yaml:"invisible,omitempty"`
	Implicit           bool          `json:"implicit,omitempty" yaml:"implicit,omitempty"`
}

type measureRow struct {
	Name           string `json:"name" yaml:"name"`
	SchemaOrdinal  int    `json:"schema_ordinal" yaml:"schema_ordinal"`
	MeasureOrdinal int    `json:"measure_ordinal" yaml:"measure_ordinal"`
	Invisible      bool   `json:"invisible,omitempty" yaml:"invisible,omitempty"`
}

type modelReport struct {
	Table                     string         `json:"table" yaml:"table"`
	BlockSizeMB               int            `json:"block_size_mb" yaml:"block_size_mb"`
	NumberOfSortColumns       int            `json:"sort_columns" yaml:"sort_columns"`
	NumberOfNoDictSortColumns int            `json:"no_dict_sort_columns" yaml:"no_dict_sort_columns"`
	Dimensions                []dimensionRow `json:"dimensions" yaml:"dimensions"`
	Implicit                  []dimensionRow `json:"implicit_dimensions" yaml:"implicit_dimensions"`
	Measures                  []measureRow   `json:"measures" yaml:"measures"`
	CreateOrder               []string       `json:"create_order" yaml:"create_order"`
	Aggregates                []modelReport  `json:"aggregates,omitempty" yaml:"aggregates,omitempty"`
}

func newModelReport(m *model.ColumnModel) modelReport {
	r := modelReport{
		Table:                     m.UniqueName(),
		BlockSizeMB:               m.BlockSizeMB(),
		NumberOfSortColumns:       m.NumberOfSortColumns(),
		NumberOfNoDictSortColumns: m.NumberOfNoDictSortColumns(),
		Implicit:                  dimensionRows(m.ImplicitDimensions()),
		Measures:                  measureRows(m.AllMeasures()),
	}

	var walk func(d *model.Dimension, depth int)
	walk = func(d *model.Dimension, depth int) {
		row := newDimensionRow(d)
		row.Depth = depth
		r.Dimensions = append(r.Dimensions, row)
		for _, c := range d.Children() {
			walk(c, depth+1)
		}
	}
	for _, d := range m.Roots() {
		walk(d, 0)
	}

	for _, c := range m.CreateOrderColumns() {
		r.CreateOrder = append(r.CreateOrder, c.Name())
	}

	for _, name := range m.AggregateTableNames() {
		agg, _ := m.Aggregate(name)
		r.Aggregates = append(r.Aggregates, newModelReport(agg))
	}
	return r
}

func newDimensionRow(d *model.Dimension) dimensionRow {
	return dimensionRow{
		Name:               d.Name(),
		SchemaOrdinal:      d.SchemaOrdinal(),
		DimensionOrdinal:   d.DimensionOrdinal(),
		KeyOrdinal:         d.KeyOrdinal(),
		ColumnGroupOrdinal: d.ColumnGroupOrdinal(),
		ComplexTypeOrdinal: d.ComplexTypeOrdinal(),
		Invisible:          d.IsInvisible(),
		Implicit:           d.IsImplicit(),
	}
}

func dimensionRows(dims []*model.Dimension) []dimensionRow {
	rows := make([]dimensionRow, 0, len(dims))
	for _, d := range dims {
		rows = append(rows, newDimensionRow(d))
	}
	return rows
}

func measureRows(msrs []*model.Measure) []measureRow {
	rows := make([]measureRow, 0, len(msrs))
	for _, m := range msrs {
		rows = append(rows, measureRow{
			Name:           m.Name(),
			SchemaOrdinal:  m.SchemaOrdinal(),
			MeasureOrdinal: m.MeasureOrdinal(),
			Invisible:      m.IsInvisible(),
		})
	}
	return rows
}

func writeReport(w io.Writer, format string, v interface{}) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return enc.Encode(v)
	case "text":
		return writeText(w, v)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

func writeText(w io.Writer, v interface{}) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	switch r := v.(type) {
	case modelReport:
		writeModelText(tw, r)
	case []dimensionRow:
		writeDimensionTable(tw, r)
	case []measureRow:
		writeMeasureTable(tw, r)
	default:
		return fmt.Errorf("cannot render %T as text", v)
	}

	return tw.Flush()
}

func writeModelText(w io.Writer, r modelReport) {
	fmt.Fprintf(w, "table\t%s\nblock size (MB)\t%d\nsort columns\t%d (no-dict %d)\n\n",
		r.Table, r.BlockSizeMB, r.NumberOfSortColumns, r.NumberOfNoDictSortColumns)
	writeDimensionTable(w, append(r.Dimensions, r.Implicit...))
	fmt.Fprintln(w)
	writeMeasureTable(w, r.Measures)
	fmt.Fprintf(w, "\ncreate order\t%s\n", strings.Join(r.CreateOrder, ", "))
	for _, agg := range r.Aggregates {
		fmt.Fprintln(w)
		writeModelText(w, agg)
	}
}

func writeDimensionTable(w io.Writer, rows []dimensionRow) {
	fmt.Fprintln(w, "DIMENSION\tSCHEMA\tDIM\tKEY\tGROUP\tCOMPLEX\tFLAGS")
	for _, row := range rows {
		var flags []string
		if row.Invisible {
			flags = append(flags, "invisible")
		}
		if row.Implicit {
			flags = append(flags, "implicit")
		}
		fmt.Fprintf(w, "%s%s\t%d\t%d\t%s\t%s\t%s\t%s\n",
			strings.Repeat("  ", row.Depth), row.Name, row.SchemaOrdinal, row.DimensionOrdinal,
			row.KeyOrdinal, row.ColumnGroupOrdinal, row.ComplexTypeOrdinal, strings.Join(flags, ","))
	}
}

func writeMeasureTable(w io.Writer, rows []measureRow) {
	fmt.Fprintln(w, "MEASURE\tSCHEMA\tMSR\tFLAGS")
	for _, row := range rows {
		flags := ""
		if row.Invisible {
			flags = "invisible"
		}
		fmt.Fprintf(w, "%s\t%d\t%d\t%s\n", row.Name, row.SchemaOrdinal, row.MeasureOrdinal, flags)
	}
}
