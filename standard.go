package bootkit

import (
	"reflect"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// StandardBuilder assembles the extensible runtime container on top of a
// bootstrap container. It merges settings from explicit calls, properties
// files, and structured config sources (last write wins, in call order),
// and lets callers override the bootstrap's default bindings.
//
// The builder is single-use and not safe for concurrent use.
type StandardBuilder struct {
	logger    *zap.Logger
	bootstrap *BootstrapContainer

	settings  map[string]string
	overrides map[reflect.Type]Initiator
	explicit  map[reflect.Type]any

	propertiesSource SettingsSource
	configSource     SettingsSource

	integrators          []Integrator
	sourceContributors   []SourceContributor
	metadataContributors []MetadataContributor
	factoryInitializers  []FactoryInitializer

	consumed bool
}

// NewStandardBuilder returns a builder over a freshly built default
// bootstrap container. This is the documented fallback for callers that do
// not need bootstrap customization; options that target the bootstrap
// builder (WithHookManifest) are forwarded to it.
func NewStandardBuilder(opts ...Option) (*StandardBuilder, error) {
	bootstrap, err := NewBootstrapBuilder(opts...).Build()
	if err != nil {
		return nil, err
	}
	return NewStandardBuilderFrom(bootstrap, opts...), nil
}

// NewStandardBuilderFrom returns a builder over an existing bootstrap
// container. The builder inherits the bootstrap's logger unless WithLogger
// is given.
func NewStandardBuilderFrom(bootstrap *BootstrapContainer, opts ...Option) *StandardBuilder {
	o := newBuilderOptions(opts)
	if o.logger == nil {
		o.logger = bootstrap.Logger()
	}

	return &StandardBuilder{
		logger:           o.logger,
		bootstrap:        bootstrap,
		settings:         make(map[string]string),
		overrides:        make(map[reflect.Type]Initiator),
		explicit:         make(map[reflect.Type]any),
		propertiesSource: o.propertiesSource,
		configSource:     o.configSource,
	}
}

// ApplySetting merges a single key/value pair, overwriting any earlier
// value for the key.
func (b *StandardBuilder) ApplySetting(key, value string) error {
	if b.consumed {
		return BuilderConsumedError{Builder: "StandardBuilder", Op: "ApplySetting"}
	}
	if key == "" {
		return ErrSettingKeyEmpty
	}

	b.settings[key] = value
	return nil
}

// LoadProperties loads a properties file through the properties collaborator
// and merges it into the pending settings. Keys loaded here overwrite
// earlier values and are overwritten by later ones, whatever their origin.
func (b *StandardBuilder) LoadProperties(locator string) error {
	if b.consumed {
		return BuilderConsumedError{Builder: "StandardBuilder", Op: "LoadProperties"}
	}
	return b.mergeFrom(b.properties(), locator)
}

// Configure loads a structured config source and merges it with the same
// semantics as LoadProperties.
func (b *StandardBuilder) Configure(locator string) error {
	if b.consumed {
		return BuilderConsumedError{Builder: "StandardBuilder", Op: "Configure"}
	}
	return b.mergeFrom(b.config(), locator)
}

func (b *StandardBuilder) mergeFrom(source SettingsSource, locator string) error {
	if locator == "" {
		return SettingsLoadError{Locator: locator, Cause: ErrLocatorEmpty}
	}

	values, err := source.Load(locator)
	if err != nil {
		return SettingsLoadError{Locator: locator, Cause: err}
	}

	for k, v := range values {
		b.settings[k] = v
	}

	b.logger.Debug("settings merged",
		zap.String("locator", locator),
		zap.Int("keys", len(values)),
	)
	return nil
}

func (b *StandardBuilder) properties() SettingsSource {
	if b.propertiesSource != nil {
		return b.propertiesSource
	}
	return EnvFileSource{Loader: b.bootstrapLoader()}
}

func (b *StandardBuilder) config() SettingsSource {
	if b.configSource != nil {
		return b.configSource
	}
	return YAMLSource{Loader: b.bootstrapLoader()}
}

// bootstrapLoader resolves the foundational ResourceLoader for settings
// loading. Settings are still being collected at this point, so the
// bootstrap's loader (working-directory based) is the only one available.
func (b *StandardBuilder) bootstrapLoader() ResourceLoader {
	return MustResolve[ResourceLoader](b.bootstrap)
}

// AddInitiator registers an initiator that overrides the bootstrap default
// for its contract. Later calls for the same contract replace earlier ones;
// an explicit AddService instance beats any initiator regardless of order.
func (b *StandardBuilder) AddInitiator(initiator Initiator) error {
	if b.consumed {
		return BuilderConsumedError{Builder: "StandardBuilder", Op: "AddInitiator"}
	}
	if initiator == nil {
		return ErrInitiatorNil
	}

	b.overrides[initiator.Contract()] = initiator
	return nil
}

// AddService registers an eager explicit instance for contract, bypassing
// lazy construction. Explicit instances take precedence over every
// initiator, whatever the registration order.
func (b *StandardBuilder) AddService(contract reflect.Type, instance any) error {
	if b.consumed {
		return BuilderConsumedError{Builder: "StandardBuilder", Op: "AddService"}
	}
	if contract == nil {
		return ErrContractNil
	}
	if instance == nil {
		return ErrServiceNil
	}

	b.explicit[contract] = instance
	return nil
}

// AddIntegrator registers an integration hook invoked when Build finalizes
// the container. Explicit hooks run before manifest-discovered ones, in
// registration order.
func (b *StandardBuilder) AddIntegrator(hook Integrator) error {
	if b.consumed {
		return BuilderConsumedError{Builder: "StandardBuilder", Op: "AddIntegrator"}
	}
	if hook == nil {
		return ErrHookNil
	}
	b.integrators = append(b.integrators, hook)
	return nil
}

// AddSourceContributor registers a source-contribution hook carried into the
// container's hook set.
func (b *StandardBuilder) AddSourceContributor(hook SourceContributor) error {
	if b.consumed {
		return BuilderConsumedError{Builder: "StandardBuilder", Op: "AddSourceContributor"}
	}
	if hook == nil {
		return ErrHookNil
	}
	b.sourceContributors = append(b.sourceContributors, hook)
	return nil
}

// AddMetadataContributor registers a metadata-build hook carried into the
// container's hook set.
func (b *StandardBuilder) AddMetadataContributor(hook MetadataContributor) error {
	if b.consumed {
		return BuilderConsumedError{Builder: "StandardBuilder", Op: "AddMetadataContributor"}
	}
	if hook == nil {
		return ErrHookNil
	}
	b.metadataContributors = append(b.metadataContributors, hook)
	return nil
}

// AddFactoryInitializer registers an artifact-build hook carried into the
// container's hook set.
func (b *StandardBuilder) AddFactoryInitializer(hook FactoryInitializer) error {
	if b.consumed {
		return BuilderConsumedError{Builder: "StandardBuilder", Op: "AddFactoryInitializer"}
	}
	if hook == nil {
		return ErrHookNil
	}
	b.factoryInitializers = append(b.factoryInitializers, hook)
	return nil
}

// Build freezes the settings snapshot, materializes the binding table, runs
// the integration hooks, and returns the container. The builder is spent
// afterwards.
//
// Binding precedence, the core invariant of this container: explicit
// instance > override initiator > inherited bootstrap default. Inherited
// initiators are copied into fresh bindings, so every standard container
// keeps an independent cache and inherited initiators see this container's
// settings and overrides when they run.
func (b *StandardBuilder) Build() (*StandardContainer, error) {
	if b.consumed {
		return nil, BuilderConsumedError{Builder: "StandardBuilder", Op: "Build"}
	}
	b.consumed = true

	bindings := make(map[reflect.Type]*binding, len(b.bootstrap.core.bindings)+len(b.overrides)+len(b.explicit))

	for contract, bound := range b.bootstrap.core.bindings {
		if bound.initiator != nil {
			bindings[contract] = newInitiatorBinding(bound.initiator)
			continue
		}
		// Explicit bootstrap instances are already constructed; share them.
		bindings[contract] = bound
	}

	for contract, initiator := range b.overrides {
		bindings[contract] = newInitiatorBinding(initiator)
	}

	for contract, instance := range b.explicit {
		bindings[contract] = newInstanceBinding(contract, instance)
	}

	c := &StandardContainer{
		core: &resolverCore{
			id:       uuid.NewString(),
			logger:   b.logger,
			settings: newSettings(b.settings),
			bindings: bindings,
		},
		bootstrap: b.bootstrap,
	}

	hooks, err := Resolve[*HookSet](c)
	if err != nil {
		return nil, err
	}
	for _, hook := range b.integrators {
		hooks.RegisterIntegrator(hook)
	}
	for _, hook := range b.sourceContributors {
		hooks.RegisterSourceContributor(hook)
	}
	for _, hook := range b.metadataContributors {
		hooks.RegisterMetadataContributor(hook)
	}
	for _, hook := range b.factoryInitializers {
		hooks.RegisterFactoryInitializer(hook)
	}

	registrar := &ServiceRegistrar{container: c}
	for _, hook := range hooks.Integrators() {
		if err := hook.Integrate(c, registrar); err != nil {
			return nil, HookError{Kind: "integrator", Cause: err}
		}
	}
	registrar.closed = true

	b.logger.Debug("standard container built",
		zap.String("container", c.core.id),
		zap.String("bootstrap", b.bootstrap.ID()),
		zap.Int("contracts", len(c.core.bindings)),
		zap.Int("settings", c.core.settings.Len()),
	)

	return c, nil
}

// StandardContainer is the extensible runtime container. Its shape is frozen
// once Build returns: the settings snapshot and binding table never change,
// while per-contract resolution stays lazy, memoized, and safe for
// concurrent use.
type StandardContainer struct {
	core      *resolverCore
	bootstrap *BootstrapContainer
}

var _ Registry = (*StandardContainer)(nil)

// ID returns the container's unique id.
func (c *StandardContainer) ID() string { return c.core.id }

// Settings returns the frozen settings snapshot.
func (c *StandardContainer) Settings() Settings { return c.core.settings }

// Logger returns the container's logger.
func (c *StandardContainer) Logger() *zap.Logger { return c.core.logger }

// Bootstrap returns the bootstrap container this container was built from.
func (c *StandardContainer) Bootstrap() *BootstrapContainer { return c.bootstrap }

// Contains reports whether contract is bound, in this container or inherited
// from the bootstrap.
func (c *StandardContainer) Contains(contract reflect.Type) bool {
	return c.core.contains(contract)
}

// Resolve returns the instance bound to contract following the precedence
// explicit instance > override initiator > inherited default. Construction
// happens at most once per contract, even under concurrent first access.
func (c *StandardContainer) Resolve(contract reflect.Type) (any, error) {
	return c.core.resolveRoot(c, contract)
}

// ServiceRegistrar is the mutable registration surface handed to
// integration hooks while a standard container is being finalized. It
// closes when integration ends; later registrations fail.
type ServiceRegistrar struct {
	container *StandardContainer
	closed    bool
}

// AddInitiator contributes an initiator binding. It replaces an inherited or
// overridden initiator for the same contract, but never displaces an
// explicit instance binding.
func (r *ServiceRegistrar) AddInitiator(initiator Initiator) error {
	if r.closed {
		return ErrRegistrarClosed
	}
	if initiator == nil {
		return ErrInitiatorNil
	}

	contract := initiator.Contract()
	if existing, ok := r.container.core.bindings[contract]; ok && existing.initiator == nil {
		// Explicit instances keep precedence over initiators.
		return nil
	}

	r.container.core.bindings[contract] = newInitiatorBinding(initiator)
	return nil
}

// AddService contributes an explicit instance binding, replacing whatever
// binding the contract had.
func (r *ServiceRegistrar) AddService(contract reflect.Type, instance any) error {
	if r.closed {
		return ErrRegistrarClosed
	}
	if contract == nil {
		return ErrContractNil
	}
	if instance == nil {
		return ErrServiceNil
	}

	r.container.core.bindings[contract] = newInstanceBinding(contract, instance)
	return nil
}
