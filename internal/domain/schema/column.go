package schema

// Encoding is a storage encoding tag attached to a column
type Encoding string

const (
	EncodingDictionary       Encoding = "DICTIONARY"
	EncodingDirectDictionary Encoding = "DIRECT_DICTIONARY"
	EncodingRLE              Encoding = "RLE"
	EncodingInverted         Encoding = "INVERTED_INDEX"
	EncodingDelta            Encoding = "DELTA"
)

// NoColumnGroup marks a column that is not part of any column group
const NoColumnGroup = -1

// ColumnDescriptor is one persisted column record.
// Complex columns are followed by their NumberOfChildren descendants,
// flattened depth-first.
type ColumnDescriptor struct {
	ColumnID         string
	Name             string
	DataType         string
	IsDimension      bool
	NumberOfChildren int
	SchemaOrdinal    int
	Encodings        []Encoding
	ColumnGroupID    int
	IsSortColumn     bool
	IsInvisible      bool
}

// HasEncoding reports whether the column carries the given encoding tag
func (c ColumnDescriptor) HasEncoding(enc Encoding) bool {
	for _, e := range c.Encodings {
		if e == enc {
			return true
		}
	}
	return false
}

// IsDictionary reports whether the column is dictionary encoded
func (c ColumnDescriptor) IsDictionary() bool {
	return c.HasEncoding(EncodingDictionary)
}

// IsComplex reports whether the column has nested children
func (c ColumnDescriptor) IsComplex() bool {
	return c.NumberOfChildren > 0
}

// IsGrouped reports whether the column belongs to a column group
func (c ColumnDescriptor) IsGrouped() bool {
	return c.ColumnGroupID != NoColumnGroup
}
