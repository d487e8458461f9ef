package bootkit

import (
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

// ============================================================================
// Shared Test Types
// ============================================================================

// TLoader is a basic service contract for testing.
type TLoader interface {
	LoaderID() string
}

type tLoader struct {
	id string
}

func (l *tLoader) LoaderID() string { return l.id }

// TCache is a second contract used for dependency wiring tests.
type TCache interface {
	CacheID() string
}

type tCache struct {
	id     string
	loader TLoader
}

func (c *tCache) CacheID() string { return c.id }

// TDialect is a contract with no default binding anywhere.
type TDialect interface {
	DialectName() string
}

// countedInitiator returns an initiator producing TLoader instances and an
// atomic counter of how many times it actually ran.
func countedInitiator(id string) (Initiator, *atomic.Int32) {
	var calls atomic.Int32
	init := NewInitiator(func(Registry) (TLoader, error) {
		calls.Add(1)
		return &tLoader{id: id}, nil
	})
	return init, &calls
}

// ============================================================================
// Recording Hooks and Observers
// ============================================================================

// recorder collects event labels in invocation order, safely.
type recorder struct {
	mu     sync.Mutex
	events []string
}

func (r *recorder) record(event string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recorder) Events() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	copy(out, r.events)
	return out
}

type recordingIntegrator struct {
	name string
	rec  *recorder
	fn   func(*StandardContainer, *ServiceRegistrar) error
}

func (h *recordingIntegrator) Integrate(c *StandardContainer, reg *ServiceRegistrar) error {
	h.rec.record("integrate:" + h.name)
	if h.fn != nil {
		return h.fn(c, reg)
	}
	return nil
}

type recordingSourceContributor struct {
	name string
	rec  *recorder
	fn   func(*SourceCollector) error
}

func (h *recordingSourceContributor) ContributeSources(sc *SourceCollector) error {
	h.rec.record("sources:" + h.name)
	if h.fn != nil {
		return h.fn(sc)
	}
	return nil
}

type recordingMetadataContributor struct {
	name string
	rec  *recorder
	fn   func(*MetadataBuilder) error
}

func (h *recordingMetadataContributor) ContributeMetadata(mb *MetadataBuilder) error {
	h.rec.record("metadata:" + h.name)
	if h.fn != nil {
		return h.fn(mb)
	}
	return nil
}

type recordingFactoryInitializer struct {
	name string
	rec  *recorder
	fn   func(*SessionFactoryBuilder) error
}

func (h *recordingFactoryInitializer) InitializeFactory(b *SessionFactoryBuilder) error {
	h.rec.record("factory:" + h.name)
	if h.fn != nil {
		return h.fn(b)
	}
	return nil
}

type recordingObserver struct {
	name string
	rec  *recorder
}

func (o *recordingObserver) FactoryCreated(*SessionFactory) { o.rec.record("created:" + o.name) }
func (o *recordingObserver) FactoryClosed(*SessionFactory)  { o.rec.record("closed:" + o.name) }

type namedInterceptor struct {
	name string
}

func (i namedInterceptor) Name() string { return i.name }

// ============================================================================
// Builders and Fixtures
// ============================================================================

// newTestStandard builds a standard container over a fresh default
// bootstrap, failing the test on error.
func newTestStandard(t *testing.T) *StandardContainer {
	t.Helper()

	b, err := NewStandardBuilder()
	require.NoError(t, err)

	c, err := b.Build()
	require.NoError(t, err)
	return c
}

// writeFixture writes content under a temp dir and returns its path.
func writeFixture(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}
