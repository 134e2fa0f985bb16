package schema

import (
	"context"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/goliatone/go-router"
	"github.com/google/uuid"
)

// ChangePublisher receives out-of-process change notifications (websocket
// hubs, message buses) whenever the registered schema set changes.
type ChangePublisher interface {
	Notify(ctx context.Context, userID uuid.UUID, metadata map[string]any)
}

// Listener is an in-process subscriber invoked with a fresh Snapshot after
// every registration.
type Listener func(context.Context, Snapshot)

// Snapshot is a point-in-time export of the aggregated schema document.
type Snapshot struct {
	GeneratedAt   time.Time
	ResourceNames []string
	Document      map[string]any
}

// Registry collects controller metadata from the CRUD surfaces (report
// preferences and the activity resources) and serves them as one OpenAPI
// document for admin tooling.
type Registry struct {
	mu sync.RWMutex

	providers map[string]router.MetadataProvider
	listeners []Listener
	publisher ChangePublisher

	info router.OpenAPIInfo
	tags []string
}

// Option customizes registry construction.
type Option func(*Registry)

// NewRegistry builds an empty registry.
func NewRegistry(opts ...Option) *Registry {
	reg := &Registry{
		providers: make(map[string]router.MetadataProvider),
		info: router.OpenAPIInfo{
			Title:   "Admin Schemas",
			Version: "1.0.0",
		},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(reg)
		}
	}
	return reg
}

// WithInfo replaces the default OpenAPI info block. Empty fields keep their
// defaults.
func WithInfo(info router.OpenAPIInfo) Option {
	return func(r *Registry) {
		if info.Title != "" {
			r.info.Title = info.Title
		}
		if info.Version != "" {
			r.info.Version = info.Version
		}
		if info.Description != "" {
			r.info.Description = info.Description
		}
	}
}

// WithTags sets the global tags stamped on every generated document.
func WithTags(tags ...string) Option {
	return func(r *Registry) {
		if len(tags) > 0 {
			r.tags = append([]string(nil), tags...)
		}
	}
}

// WithPublisher wires an external change publisher.
func WithPublisher(publisher ChangePublisher) Option {
	return func(r *Registry) {
		r.publisher = publisher
	}
}

// Register stores a provider under its resource name, replacing any earlier
// registration for the same resource, then notifies subscribers.
func (r *Registry) Register(provider router.MetadataProvider) {
	if provider == nil {
		return
	}
	metadata := provider.GetMetadata()
	if metadata.Name == "" {
		return
	}

	r.mu.Lock()
	r.providers[metadata.Name] = frozenProvider{metadata: metadata}
	inputs := r.documentInputsLocked()
	listeners := append([]Listener(nil), r.listeners...)
	publisher := r.publisher
	r.mu.Unlock()

	r.broadcast(context.Background(), inputs, listeners, publisher)
}

// Subscribe attaches an in-process listener. Nil listeners are ignored.
func (r *Registry) Subscribe(listener Listener) {
	if listener == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listeners = append(r.listeners, listener)
}

// Document compiles the registered providers into a single OpenAPI document,
// or nil when nothing is registered.
func (r *Registry) Document() map[string]any {
	r.mu.RLock()
	inputs := r.documentInputsLocked()
	r.mu.RUnlock()
	return compileDocument(inputs)
}

// Handler serves the aggregated document, responding 204 while the registry
// is still empty.
func (r *Registry) Handler() router.HandlerFunc {
	return func(ctx router.Context) error {
		doc := r.Document()
		if len(doc) == 0 {
			return ctx.NoContent(http.StatusNoContent)
		}
		return ctx.JSON(http.StatusOK, doc)
	}
}

// documentInputs carries everything compileDocument needs, copied out under
// the lock so compilation runs lock-free.
type documentInputs struct {
	providers []router.MetadataProvider
	names     []string
	info      router.OpenAPIInfo
	tags      []string
}

func (r *Registry) documentInputsLocked() documentInputs {
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	sort.Strings(names)

	providers := make([]router.MetadataProvider, 0, len(names))
	for _, name := range names {
		providers = append(providers, r.providers[name])
	}
	return documentInputs{
		providers: providers,
		names:     names,
		info:      r.info,
		tags:      append([]string(nil), r.tags...),
	}
}

func (r *Registry) broadcast(ctx context.Context, inputs documentInputs, listeners []Listener, publisher ChangePublisher) {
	if len(listeners) == 0 && publisher == nil {
		return
	}
	doc := compileDocument(inputs)
	if len(doc) == 0 {
		return
	}
	snap := Snapshot{
		GeneratedAt:   time.Now().UTC(),
		ResourceNames: append([]string(nil), inputs.names...),
		Document:      doc,
	}
	for _, listener := range listeners {
		listener(ctx, snap)
	}
	if publisher != nil {
		publisher.Notify(ctx, uuid.Nil, map[string]any{
			"event":     "schemas.registry.updated",
			"version":   inputs.info.Version,
			"resources": snap.ResourceNames,
		})
	}
}

func compileDocument(inputs documentInputs) map[string]any {
	if len(inputs.providers) == 0 {
		return nil
	}
	aggregator := router.NewMetadataAggregator()
	if len(inputs.tags) > 0 {
		aggregator.SetTags(inputs.tags)
	}
	if inputs.info.Title != "" {
		aggregator.SetInfo(inputs.info)
	}
	aggregator.AddProviders(inputs.providers...)
	aggregator.Compile()
	return aggregator.GenerateOpenAPI()
}

// frozenProvider pins the metadata captured at registration time so later
// mutations by the originating controller don't leak into snapshots.
type frozenProvider struct {
	metadata router.ResourceMetadata
}

func (p frozenProvider) GetMetadata() router.ResourceMetadata {
	return p.metadata
}
