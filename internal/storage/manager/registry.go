package manager

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	domainErrors "github.com/leengari/colmodel/internal/domain/errors"
	"github.com/leengari/colmodel/internal/domain/model"
	"github.com/leengari/colmodel/internal/domain/schema"
	"github.com/leengari/colmodel/internal/resolver"
	"github.com/leengari/colmodel/internal/storage"
)

var tracer = otel.Tracer("github.com/leengari/colmodel/internal/storage/manager")

// Registry maps table unique names (database_table) to published column
// models, so same-named tables of different databases coexist.
// Models are immutable, so a model returned by Get may be read without
// further locking; republishing swaps the pointer and never mutates it.
type Registry struct {
	mu        sync.RWMutex
	models    map[string]*model.ColumnModel
	observers []Observer
	logger    *slog.Logger
}

// NewRegistry creates an empty registry
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		models:    make(map[string]*model.ColumnModel),
		observers: make([]Observer, 0),
		logger:    logger,
	}
}

// AddObserver registers an observer for registry events
func (r *Registry) AddObserver(observer Observer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.observers = append(r.observers, observer)
}

// RemoveObserver unregisters an observer
func (r *Registry) RemoveObserver(observer Observer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, o := range r.observers {
		if o == observer {
			r.observers = append(r.observers[:i], r.observers[i+1:]...)
			return
		}
	}
}

// notify sends an event to all registered observers.
// Must be called without holding r.mu.
func (r *Registry) notify(event Event) {
	event.Timestamp = time.Now()

	r.mu.RLock()
	observers := make([]Observer, len(r.observers))
	copy(observers, r.observers)
	r.mu.RUnlock()

	for _, observer := range observers {
		observer.OnEvent(event)
	}
}

// Publish makes m visible under its unique name, replacing any earlier model
func (r *Registry) Publish(m *model.ColumnModel) {
	r.publish(m, uuid.NewString())
}

func (r *Registry) publish(m *model.ColumnModel, loadID string) {
	r.mu.Lock()
	_, replaced := r.models[m.UniqueName()]
	r.models[m.UniqueName()] = m
	r.mu.Unlock()

	eventType := EventPublished
	if replaced {
		eventType = EventReplaced
	}
	r.notify(Event{Type: eventType, Table: m.UniqueName(), LoadID: loadID})
}

// Resolve resolves ts and publishes the result.
// On failure nothing is published and any earlier model for the table stays.
func (r *Registry) Resolve(ctx context.Context, ts schema.TableSchema) (*model.ColumnModel, error) {
	_, span := tracer.Start(ctx, "registry.Resolve")
	defer span.End()
	span.SetAttributes(
		attribute.String("table.name", ts.UniqueName()),
		attribute.Int("table.columns", len(ts.Columns)),
	)

	loadID := uuid.NewString()
	logger := r.logger.With(slog.String("table", ts.UniqueName()), slog.String("load_id", loadID))

	m, err := resolver.Resolve(ts, resolver.WithNoticeHandler(func(notice error) {
		logger.Info("using default table property", slog.Any("notice", notice))
	}))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "resolve failed")
		logger.Error("failed to resolve column model", slog.Any("error", err))
		r.notify(Event{Type: EventResolveFailed, Table: ts.UniqueName(), LoadID: loadID, Err: err})
		return nil, fmt.Errorf("resolve table %s: %w", ts.UniqueName(), err)
	}

	logger.Debug("column model resolved",
		slog.Int("dimensions", len(m.AllDimensions())),
		slog.Int("measures", len(m.AllMeasures())),
		slog.Int("block_size_mb", m.BlockSizeMB()),
	)

	r.publish(m, loadID)
	return m, nil
}

// LoadDatabase loads every table under dbPath and publishes each one that
// resolves. Tables that fail are reported together; the rest stay published.
func (r *Registry) LoadDatabase(ctx context.Context, dbPath string) (int, error) {
	ctx, span := tracer.Start(ctx, "registry.LoadDatabase")
	defer span.End()

	db, loadErr := storage.LoadDatabase(ctx, dbPath, r.logger)
	if db == nil {
		return 0, loadErr
	}

	errs := []error{loadErr}
	published := 0
	for _, ts := range db.Tables {
		if _, err := r.Resolve(ctx, ts); err != nil {
			errs = append(errs, err)
			continue
		}
		published++
	}

	span.SetAttributes(attribute.Int("tables.published", published))
	return published, errors.Join(errs...)
}

// Get returns the published model for a table. name is a unique name, or a
// bare table name when exactly one database publishes that table.
func (r *Registry) Get(name string) (*model.ColumnModel, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	key, ok := r.keyFor(name)
	if !ok {
		return nil, false
	}
	return r.models[key], true
}

// keyFor resolves name to a map key. Must be called with r.mu held.
func (r *Registry) keyFor(name string) (string, bool) {
	if _, ok := r.models[name]; ok {
		return name, true
	}
	key, matches := "", 0
	for k, m := range r.models {
		if m.TableName() == name {
			key = k
			matches++
		}
	}
	return key, matches == 1
}

// MustGet returns the published model or a *TableNotFoundError
func (r *Registry) MustGet(name string) (*model.ColumnModel, error) {
	m, ok := r.Get(name)
	if !ok {
		return nil, &domainErrors.TableNotFoundError{TableName: name}
	}
	return m, nil
}

// Drop unpublishes a table, named as for Get; it reports whether one was published
func (r *Registry) Drop(name string) bool {
	r.mu.Lock()
	key, ok := r.keyFor(name)
	if ok {
		delete(r.models, key)
	}
	r.mu.Unlock()

	if ok {
		r.notify(Event{Type: EventDropped, Table: key})
	}
	return ok
}

// List returns the published unique names, sorted
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.models))
	for name := range r.models {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of published tables
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.models)
}
