package bootkit

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// multiHook implements every hook kind, recording each invocation.
type multiHook struct {
	name string
	rec  *recorder
}

func (h *multiHook) Integrate(*StandardContainer, *ServiceRegistrar) error {
	h.rec.record("integrate:" + h.name)
	return nil
}

func (h *multiHook) ContributeSources(*SourceCollector) error {
	h.rec.record("sources:" + h.name)
	return nil
}

func (h *multiHook) ContributeMetadata(*MetadataBuilder) error {
	h.rec.record("metadata:" + h.name)
	return nil
}

func (h *multiHook) InitializeFactory(*SessionFactoryBuilder) error {
	h.rec.record("factory:" + h.name)
	return nil
}

func TestHookSet_Ordering(t *testing.T) {
	t.Parallel()

	rec := &recorder{}

	hooks := NewHookSet(
		func() []any { return []any{&recordingIntegrator{name: "m1", rec: rec}} },
		func() []any { return []any{&recordingIntegrator{name: "m2", rec: rec}} },
	)
	hooks.RegisterIntegrator(&recordingIntegrator{name: "e1", rec: rec})
	hooks.RegisterIntegrator(&recordingIntegrator{name: "e2", rec: rec})

	// Explicit registrations run before discovered ones, each in
	// registration order.
	for _, hook := range hooks.Integrators() {
		require.NoError(t, hook.Integrate(nil, nil))
	}
	assert.Equal(t, []string{"integrate:e1", "integrate:e2", "integrate:m1", "integrate:m2"}, rec.Events())
}

func TestHookSet_ScanOnce(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	hooks := NewHookSet(func() []any {
		calls.Add(1)
		return []any{&recordingIntegrator{name: "a", rec: &recorder{}}}
	})

	hooks.Integrators()
	hooks.SourceContributors()
	hooks.Integrators()

	assert.Equal(t, int32(1), calls.Load())
}

func TestHookSet_Manifests(t *testing.T) {
	t.Parallel()

	t.Run("entry lands in every matching bucket", func(t *testing.T) {
		t.Parallel()

		hooks := NewHookSet(func() []any {
			return []any{&multiHook{name: "all", rec: &recorder{}}}
		})

		assert.Len(t, hooks.Integrators(), 1)
		assert.Len(t, hooks.SourceContributors(), 1)
		assert.Len(t, hooks.MetadataContributors(), 1)
		assert.Len(t, hooks.FactoryInitializers(), 1)
	})

	t.Run("entries implementing no kind are ignored", func(t *testing.T) {
		t.Parallel()

		hooks := NewHookSet(func() []any { return []any{"not a hook", 42, nil} })

		assert.Empty(t, hooks.Integrators())
		assert.Empty(t, hooks.SourceContributors())
		assert.Empty(t, hooks.MetadataContributors())
		assert.Empty(t, hooks.FactoryInitializers())
	})

	t.Run("nil manifest skipped", func(t *testing.T) {
		t.Parallel()

		hooks := NewHookSet(nil, func() []any {
			return []any{&recordingIntegrator{name: "a", rec: &recorder{}}}
		})
		assert.Len(t, hooks.Integrators(), 1)
	})
}

// A manifest registered on the bootstrap builder feeds the full pipeline:
// its hooks fire at container build, metadata build, and factory build.
func TestHookManifest_AcrossPipeline(t *testing.T) {
	t.Parallel()

	rec := &recorder{}

	bb := NewBootstrapBuilder()
	require.NoError(t, bb.AddHookManifest(func() []any {
		return []any{&multiHook{name: "ext", rec: rec}}
	}))

	bootstrap, err := bb.Build()
	require.NoError(t, err)

	sb := NewStandardBuilderFrom(bootstrap)
	c, err := sb.Build()
	require.NoError(t, err)
	assert.Equal(t, []string{"integrate:ext"}, rec.Events())

	metadata, err := NewMetadataBuilder(c, NewSourceCollector()).Build()
	require.NoError(t, err)
	assert.Equal(t, []string{"integrate:ext", "sources:ext", "metadata:ext"}, rec.Events())

	_, err = metadata.SessionFactoryBuilder().Build()
	require.NoError(t, err)
	assert.Equal(t, []string{"integrate:ext", "sources:ext", "metadata:ext", "factory:ext"}, rec.Events())
}

// Each container resolves its own HookSet, so two standard containers over
// the same bootstrap each scan the manifests once.
func TestHookSet_PerContainerScan(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32

	bb := NewBootstrapBuilder()
	require.NoError(t, bb.AddHookManifest(func() []any {
		calls.Add(1)
		return nil
	}))

	bootstrap, err := bb.Build()
	require.NoError(t, err)

	c1, err := NewStandardBuilderFrom(bootstrap).Build()
	require.NoError(t, err)
	c2, err := NewStandardBuilderFrom(bootstrap).Build()
	require.NoError(t, err)

	require.NotEqual(t, c1.ID(), c2.ID())
	assert.Equal(t, int32(2), calls.Load())
}
