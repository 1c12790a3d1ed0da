package testutil

import (
	"testing"

	"github.com/leengari/colmodel/internal/domain/model"
)

// AssertOrdinal checks an optional ordinal against want (-1 meaning absent)
func AssertOrdinal(t *testing.T, got model.Ordinal, want int, context string) {
	t.Helper()
	v, ok := got.Get()
	if want < 0 {
		if ok {
			t.Errorf("%s: expected no ordinal, got %d", context, v)
		}
		return
	}
	if !ok {
		t.Errorf("%s: expected ordinal %d, got none", context, want)
		return
	}
	if v != want {
		t.Errorf("%s: expected ordinal %d, got %d", context, want, v)
	}
}

// DimensionNames returns the names of dims in order
func DimensionNames(dims []*model.Dimension) []string {
	names := make([]string, len(dims))
	for i, d := range dims {
		names[i] = d.Name()
	}
	return names
}

// ColumnNames returns the names of cols in order
func ColumnNames(cols []model.Column) []string {
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.Name()
	}
	return names
}
