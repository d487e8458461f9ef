package bootkit

import "sync"

// The pipeline exposes four fixed hook points. Each hook kind is a small
// interface; extensions implement whichever kinds they need and are invoked
// at the matching pipeline boundary. Discovery is explicit: hooks are either
// registered on a builder or contributed through a static HookManifest, no
// scanning involved.

// Integrator is invoked once when a standard container is finalized. It
// receives the container and a mutable registration surface through which it
// may contribute additional service bindings before the container is
// published.
type Integrator interface {
	Integrate(c *StandardContainer, reg *ServiceRegistrar) error
}

// SourceContributor is invoked when a source collector is finalized by a
// metadata build, and may add further mapping sources.
type SourceContributor interface {
	ContributeSources(sc *SourceCollector) error
}

// MetadataContributor is invoked with the MetadataBuilder before its Build
// freezes the model, and may apply further configuration.
type MetadataContributor interface {
	ContributeMetadata(mb *MetadataBuilder) error
}

// FactoryInitializer is invoked with the SessionFactoryBuilder before the
// final artifact is frozen.
type FactoryInitializer interface {
	InitializeFactory(b *SessionFactoryBuilder) error
}

// HookManifest is a static list of hook objects contributed as a unit,
// typically by a third-party integration package. Each entry must implement
// at least one of the four hook-kind interfaces; entries implementing none
// are ignored.
type HookManifest func() []any

// HookSet is the extension hook service. It holds explicitly registered
// hooks and the manifests to discover more from. Invocation order is
// deterministic: explicit registrations in registration order first, then
// manifest entries in manifest order.
//
// The manifest scan runs at most once per HookSet, triggered by the first
// accessor call. Since each container resolves its own HookSet instance,
// this means at most one scan per container.
type HookSet struct {
	mu        sync.Mutex
	manifests []HookManifest
	scanOnce  sync.Once

	integrators          []Integrator
	sourceContributors   []SourceContributor
	metadataContributors []MetadataContributor
	factoryInitializers  []FactoryInitializer

	discoveredIntegrators          []Integrator
	discoveredSourceContributors   []SourceContributor
	discoveredMetadataContributors []MetadataContributor
	discoveredFactoryInitializers  []FactoryInitializer
}

// NewHookSet returns a hook set that will scan the given manifests.
func NewHookSet(manifests ...HookManifest) *HookSet {
	return &HookSet{manifests: manifests}
}

// RegisterIntegrator appends an integrator to the explicit list.
func (h *HookSet) RegisterIntegrator(hook Integrator) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.integrators = append(h.integrators, hook)
}

// RegisterSourceContributor appends a source contributor to the explicit list.
func (h *HookSet) RegisterSourceContributor(hook SourceContributor) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.sourceContributors = append(h.sourceContributors, hook)
}

// RegisterMetadataContributor appends a metadata contributor to the explicit list.
func (h *HookSet) RegisterMetadataContributor(hook MetadataContributor) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.metadataContributors = append(h.metadataContributors, hook)
}

// RegisterFactoryInitializer appends a factory initializer to the explicit list.
func (h *HookSet) RegisterFactoryInitializer(hook FactoryInitializer) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.factoryInitializers = append(h.factoryInitializers, hook)
}

// scan sorts manifest entries into their hook-kind buckets. A single entry
// may implement several kinds and lands in every matching bucket.
func (h *HookSet) scan() {
	h.scanOnce.Do(func() {
		for _, manifest := range h.manifests {
			if manifest == nil {
				continue
			}
			for _, entry := range manifest() {
				if hook, ok := entry.(Integrator); ok {
					h.discoveredIntegrators = append(h.discoveredIntegrators, hook)
				}
				if hook, ok := entry.(SourceContributor); ok {
					h.discoveredSourceContributors = append(h.discoveredSourceContributors, hook)
				}
				if hook, ok := entry.(MetadataContributor); ok {
					h.discoveredMetadataContributors = append(h.discoveredMetadataContributors, hook)
				}
				if hook, ok := entry.(FactoryInitializer); ok {
					h.discoveredFactoryInitializers = append(h.discoveredFactoryInitializers, hook)
				}
			}
		}
	})
}

// Integrators returns all integrators, explicit first, then discovered.
func (h *HookSet) Integrators() []Integrator {
	h.scan()
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]Integrator, 0, len(h.integrators)+len(h.discoveredIntegrators))
	out = append(out, h.integrators...)
	out = append(out, h.discoveredIntegrators...)
	return out
}

// SourceContributors returns all source contributors, explicit first, then discovered.
func (h *HookSet) SourceContributors() []SourceContributor {
	h.scan()
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]SourceContributor, 0, len(h.sourceContributors)+len(h.discoveredSourceContributors))
	out = append(out, h.sourceContributors...)
	out = append(out, h.discoveredSourceContributors...)
	return out
}

// MetadataContributors returns all metadata contributors, explicit first, then discovered.
func (h *HookSet) MetadataContributors() []MetadataContributor {
	h.scan()
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]MetadataContributor, 0, len(h.metadataContributors)+len(h.discoveredMetadataContributors))
	out = append(out, h.metadataContributors...)
	out = append(out, h.discoveredMetadataContributors...)
	return out
}

// FactoryInitializers returns all factory initializers, explicit first, then discovered.
func (h *HookSet) FactoryInitializers() []FactoryInitializer {
	h.scan()
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]FactoryInitializer, 0, len(h.factoryInitializers)+len(h.discoveredFactoryInitializers))
	out = append(out, h.factoryInitializers...)
	out = append(out, h.discoveredFactoryInitializers...)
	return out
}

// newHookSetInitiator builds the bootstrap default initiator for *HookSet,
// closing over the manifests registered on the bootstrap builder. Each
// container that resolves the contract gets its own HookSet, so each
// container scans at most once.
func newHookSetInitiator(manifests []HookManifest) Initiator {
	copied := make([]HookManifest, len(manifests))
	copy(copied, manifests)
	return NewInitiator(func(Registry) (*HookSet, error) {
		return NewHookSet(copied...), nil
	})
}
