package bootkit

import (
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Interceptor hooks into session-level work performed by the runtime built
// on top of the factory. Its behavioral surface lives with that runtime;
// the pipeline only carries at most one interceptor through to the
// artifact.
type Interceptor interface {
	// Name identifies the interceptor in logs and diagnostics.
	Name() string
}

// FactoryObserver is notified of session factory lifecycle events, in the
// order observers were registered.
type FactoryObserver interface {
	// FactoryCreated is invoked once, immediately after the factory is built.
	FactoryCreated(f *SessionFactory)

	// FactoryClosed is invoked once, when the factory is closed.
	FactoryClosed(f *SessionFactory)
}

// SessionFactoryBuilder is the mutable staging object for the terminal
// pipeline artifact. It is seeded from a Metadata snapshot and consumed
// exactly once by Build; any call after Build fails with
// BuilderConsumedError.
//
// The builder is not safe for concurrent use.
type SessionFactoryBuilder struct {
	metadata *Metadata

	interceptor     Interceptor
	observers       []FactoryObserver
	externalContext any

	consumed bool
	building bool
}

// NewSessionFactoryBuilder returns a builder over the metadata snapshot.
// Metadata.SessionFactoryBuilder is the usual entry point.
func NewSessionFactoryBuilder(metadata *Metadata) *SessionFactoryBuilder {
	return &SessionFactoryBuilder{metadata: metadata}
}

// Metadata returns the snapshot the builder was seeded from.
func (b *SessionFactoryBuilder) Metadata() *Metadata {
	return b.metadata
}

// ApplyInterceptor sets the factory interceptor. At most one is carried;
// the last call wins.
func (b *SessionFactoryBuilder) ApplyInterceptor(interceptor Interceptor) error {
	if b.consumed {
		return BuilderConsumedError{Builder: "SessionFactoryBuilder", Op: "ApplyInterceptor"}
	}
	b.interceptor = interceptor
	return nil
}

// AddObservers appends lifecycle observers. Registration order is preserved
// and is the notification order for every lifecycle event.
func (b *SessionFactoryBuilder) AddObservers(observers ...FactoryObserver) error {
	if b.consumed {
		return BuilderConsumedError{Builder: "SessionFactoryBuilder", Op: "AddObservers"}
	}
	for _, o := range observers {
		if o == nil {
			return ErrHookNil
		}
		b.observers = append(b.observers, o)
	}
	return nil
}

// ApplyExternalContext attaches an opaque external context (a bean-manager
// equivalent) carried on the artifact for collaborators to retrieve.
func (b *SessionFactoryBuilder) ApplyExternalContext(ctx any) error {
	if b.consumed {
		return BuilderConsumedError{Builder: "SessionFactoryBuilder", Op: "ApplyExternalContext"}
	}
	b.externalContext = ctx
	return nil
}

// Build runs the artifact-build hook pass, freezes the artifact, and
// notifies observers that the factory was created. The builder is spent
// afterwards.
func (b *SessionFactoryBuilder) Build() (*SessionFactory, error) {
	if b.consumed || b.building {
		return nil, BuilderConsumedError{Builder: "SessionFactoryBuilder", Op: "Build"}
	}
	b.building = true

	container := b.metadata.Container()

	hooks, err := Resolve[*HookSet](container)
	if err != nil {
		b.consumed = true
		return nil, err
	}
	for _, hook := range hooks.FactoryInitializers() {
		if err := hook.InitializeFactory(b); err != nil {
			b.consumed = true
			return nil, HookError{Kind: "factory-initializer", Cause: err}
		}
	}
	b.consumed = true

	observers := make([]FactoryObserver, len(b.observers))
	copy(observers, b.observers)

	f := &SessionFactory{
		id:              uuid.NewString(),
		metadata:        b.metadata,
		container:       container,
		interceptor:     b.interceptor,
		observers:       observers,
		externalContext: b.externalContext,
	}

	container.Logger().Info("session factory built",
		zap.String("factory", f.id),
		zap.String("container", container.ID()),
		zap.Int("entities", b.metadata.Len()),
	)

	for _, o := range observers {
		o.FactoryCreated(f)
	}

	return f, nil
}

// SessionFactory is the terminal, long-lived artifact of the pipeline. It
// is immutable and safe for unsynchronized concurrent reads; it retains the
// Metadata snapshot and the standard container it was built with.
type SessionFactory struct {
	id              string
	metadata        *Metadata
	container       *StandardContainer
	interceptor     Interceptor
	observers       []FactoryObserver
	externalContext any

	closeOnce sync.Once
	closed    bool
	closedMu  sync.RWMutex
}

// ID returns the factory's unique id.
func (f *SessionFactory) ID() string { return f.id }

// Metadata returns the model snapshot the factory was built from.
func (f *SessionFactory) Metadata() *Metadata { return f.metadata }

// Container returns the standard container backing the factory.
func (f *SessionFactory) Container() *StandardContainer { return f.container }

// Interceptor returns the configured interceptor, or nil.
func (f *SessionFactory) Interceptor() Interceptor { return f.interceptor }

// ExternalContext returns the attached external context, or nil.
func (f *SessionFactory) ExternalContext() any { return f.externalContext }

// Close marks the factory closed and notifies observers in registration
// order. It is idempotent; only the first call notifies.
func (f *SessionFactory) Close() error {
	f.closeOnce.Do(func() {
		f.closedMu.Lock()
		f.closed = true
		f.closedMu.Unlock()

		f.container.Logger().Info("session factory closed",
			zap.String("factory", f.id),
		)

		for _, o := range f.observers {
			o.FactoryClosed(f)
		}
	})
	return nil
}

// IsClosed reports whether Close has been called.
func (f *SessionFactory) IsClosed() bool {
	f.closedMu.RLock()
	defer f.closedMu.RUnlock()
	return f.closed
}
