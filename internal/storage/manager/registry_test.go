package manager

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"gotest.tools/v3/assert"

	domainErrors "github.com/leengari/colmodel/internal/domain/errors"
	"github.com/leengari/colmodel/internal/resolver"
	"github.com/leengari/colmodel/internal/testutil"
)

// MockObserver is a test observer that records events
type MockObserver struct {
	mu     sync.Mutex
	Events []Event
}

func (m *MockObserver) OnEvent(event Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, event)
}

func newTestRegistry() *Registry {
	return NewRegistry(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestResolveAndGet(t *testing.T) {
	reg := newTestRegistry()

	m, err := reg.Resolve(context.Background(), testutil.SalesTable())
	assert.NilError(t, err)

	got, ok := reg.Get("sales")
	assert.Assert(t, ok)
	assert.Assert(t, got == m)

	_, ok = reg.Get("missing")
	assert.Assert(t, !ok)

	_, err = reg.MustGet("missing")
	var notFound *domainErrors.TableNotFoundError
	assert.Assert(t, errors.As(err, &notFound))
}

func TestFailedResolveKeepsPublishedModels(t *testing.T) {
	reg := newTestRegistry()

	sales, err := reg.Resolve(context.Background(), testutil.SalesTable())
	assert.NilError(t, err)
	example, err := reg.Resolve(context.Background(), testutil.StructExample())
	assert.NilError(t, err)

	// a corrupt version of "example" must not replace the good one
	corrupt := testutil.Table("example",
		testutil.Struct("S", 0, 3),
		testutil.Dim("A", 1),
	)
	m, err := reg.Resolve(context.Background(), corrupt)
	assert.ErrorIs(t, err, domainErrors.ErrSchemaCorruption)
	assert.Assert(t, m == nil)

	got, ok := reg.Get("example")
	assert.Assert(t, ok)
	assert.Assert(t, got == example)

	got, ok = reg.Get("sales")
	assert.Assert(t, ok)
	assert.Assert(t, got == sales)

	// a corrupt new table is never published
	_, err = reg.Resolve(context.Background(), testutil.Table("fresh", testutil.Dim("x", -1)))
	assert.ErrorIs(t, err, domainErrors.ErrSchemaCorruption)
	_, ok = reg.Get("fresh")
	assert.Assert(t, !ok)
	assert.Equal(t, reg.Len(), 2)
}

func TestRepublishReplacesModel(t *testing.T) {
	reg := newTestRegistry()
	observer := &MockObserver{}
	reg.AddObserver(observer)

	first, err := reg.Resolve(context.Background(), testutil.StructExample())
	assert.NilError(t, err)

	changed := testutil.StructExample()
	changed.Columns = append(changed.Columns, testutil.Measure("M2", 4))
	second, err := reg.Resolve(context.Background(), changed)
	assert.NilError(t, err)

	got, _ := reg.Get("example")
	assert.Assert(t, got == second)
	assert.Equal(t, len(first.AllMeasures()), 1)
	assert.Equal(t, len(second.AllMeasures()), 2)

	assert.Equal(t, len(observer.Events), 2)
	assert.Equal(t, observer.Events[0].Type, EventPublished)
	assert.Equal(t, observer.Events[1].Type, EventReplaced)
	assert.Assert(t, observer.Events[0].LoadID != observer.Events[1].LoadID)
	assert.Assert(t, !observer.Events[1].Timestamp.IsZero())
}

func TestObserverEvents(t *testing.T) {
	reg := newTestRegistry()
	observer := &MockObserver{}
	reg.AddObserver(observer)

	_, err := reg.Resolve(context.Background(), testutil.Table("bad", testutil.Struct("s", 0, 1)))
	assert.Assert(t, err != nil)

	_, err = reg.Resolve(context.Background(), testutil.SalesTable())
	assert.NilError(t, err)

	assert.Assert(t, reg.Drop("sales"))
	assert.Assert(t, !reg.Drop("sales"))

	assert.Equal(t, len(observer.Events), 3)
	assert.Equal(t, observer.Events[0].Type, EventResolveFailed)
	assert.ErrorIs(t, observer.Events[0].Err, domainErrors.ErrSchemaCorruption)
	assert.Equal(t, observer.Events[1].Type, EventPublished)
	assert.Equal(t, observer.Events[2].Type, EventDropped)

	reg.RemoveObserver(observer)
	_, err = reg.Resolve(context.Background(), testutil.StructExample())
	assert.NilError(t, err)
	assert.Equal(t, len(observer.Events), 3)
}

func TestPublish(t *testing.T) {
	reg := newTestRegistry()
	observer := &MockObserver{}
	reg.AddObserver(observer)

	m, err := resolver.Resolve(testutil.StructExample())
	assert.NilError(t, err)
	reg.Publish(m)

	got, ok := reg.Get("example")
	assert.Assert(t, ok)
	assert.Assert(t, got == m)
	assert.Equal(t, len(observer.Events), 1)
	assert.Equal(t, observer.Events[0].Type, EventPublished)
	assert.Assert(t, observer.Events[0].LoadID != "")
}

func TestListIsSorted(t *testing.T) {
	reg := newTestRegistry()
	for _, name := range []string{"zeta", "alpha", "mid"} {
		_, err := reg.Resolve(context.Background(), testutil.Table(name, testutil.Dim("a", 0)))
		assert.NilError(t, err)
	}
	assert.DeepEqual(t, reg.List(), []string{"testdb_alpha", "testdb_mid", "testdb_zeta"})
}

func TestLoadDatabasePublishesGoodTables(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "shop")
	write := func(rel, content string) {
		p := filepath.Join(dbPath, rel)
		assert.NilError(t, os.MkdirAll(filepath.Dir(p), 0755))
		assert.NilError(t, os.WriteFile(p, []byte(content), 0644))
	}
	write("good/meta.json", `{"name": "good", "columns": [
		{"name": "a", "dimension": true, "schema_ordinal": 0, "encodings": ["DICTIONARY"]},
		{"name": "m", "dimension": false, "schema_ordinal": 1}
	]}`)
	write("bad/meta.json", `{"name": "bad", "columns": [
		{"name": "s", "dimension": true, "schema_ordinal": 0, "children": 2},
		{"name": "a", "dimension": true, "schema_ordinal": 1}
	]}`)

	reg := newTestRegistry()
	published, err := reg.LoadDatabase(context.Background(), dbPath)
	assert.ErrorIs(t, err, domainErrors.ErrSchemaCorruption)
	assert.Equal(t, published, 1)
	assert.DeepEqual(t, reg.List(), []string{"shop_good"})

	m, _ := reg.Get("good")
	assert.Equal(t, m.UniqueName(), "shop_good")
	assert.Equal(t, m.BlockSizeMB(), 1024)
}

func TestLoadDatabaseWithMalformedTable(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "shop")
	write := func(rel, content string) {
		p := filepath.Join(dbPath, rel)
		assert.NilError(t, os.MkdirAll(filepath.Dir(p), 0755))
		assert.NilError(t, os.WriteFile(p, []byte(content), 0644))
	}
	write("good/meta.json", `{"name": "good", "columns": [
		{"name": "a", "dimension": true, "schema_ordinal": 0}
	]}`)
	write("bad/meta.json", `{"name":`)

	reg := newTestRegistry()
	published, err := reg.LoadDatabase(context.Background(), dbPath)
	assert.ErrorContains(t, err, "failed to load table bad")
	assert.Equal(t, published, 1)
	assert.DeepEqual(t, reg.List(), []string{"shop_good"})
}

func TestSameTableNameInTwoDatabases(t *testing.T) {
	reg := newTestRegistry()

	east := testutil.Table("orders", testutil.Dim("a", 0))
	east.DatabaseName = "east"
	west := testutil.Table("orders", testutil.Dim("b", 0))
	west.DatabaseName = "west"

	eastModel, err := reg.Resolve(context.Background(), east)
	assert.NilError(t, err)

	// unambiguous bare name
	got, ok := reg.Get("orders")
	assert.Assert(t, ok)
	assert.Assert(t, got == eastModel)

	westModel, err := reg.Resolve(context.Background(), west)
	assert.NilError(t, err)
	assert.DeepEqual(t, reg.List(), []string{"east_orders", "west_orders"})

	_, ok = reg.Get("orders")
	assert.Assert(t, !ok, "Expected ambiguous bare name to miss")

	got, ok = reg.Get("west_orders")
	assert.Assert(t, ok)
	assert.Assert(t, got == westModel)

	assert.Assert(t, reg.Drop("east_orders"))
	got, ok = reg.Get("orders")
	assert.Assert(t, ok)
	assert.Assert(t, got == westModel)
}

func TestConcurrentPublishAndRead(t *testing.T) {
	reg := newTestRegistry()
	_, err := reg.Resolve(context.Background(), testutil.SalesTable())
	assert.NilError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				m, ok := reg.Get("sales")
				if !ok {
					t.Error("Expected sales to stay published")
					return
				}
				if _, ok := m.DimensionByName("country"); !ok {
					t.Error("Expected country dimension")
				}
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				if _, err := reg.Resolve(context.Background(), testutil.SalesTable()); err != nil {
					t.Errorf("Expected no error, got %v", err)
				}
			}
		}()
	}
	wg.Wait()
}
