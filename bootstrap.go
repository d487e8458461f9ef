package bootkit

import (
	"reflect"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BootstrapBuilder assembles the immutable, non-extensible bootstrap
// container. The builder pre-registers the foundational service initiators
// (ResourceLoader, StrategySelector, HookSet); none of its bindings, the
// built-ins included, can ever be overridden. A conflicting registration
// fails with IllegalOverrideError.
//
// The builder is single-use and not safe for concurrent use.
type BootstrapBuilder struct {
	logger    *zap.Logger
	manifests []HookManifest
	bindings  map[reflect.Type]*binding
	consumed  bool
}

// NewBootstrapBuilder returns a builder with the foundational default
// initiators registered.
func NewBootstrapBuilder(opts ...Option) *BootstrapBuilder {
	o := newBuilderOptions(opts)
	if o.logger == nil {
		o.logger = zap.NewNop()
	}

	b := &BootstrapBuilder{
		logger:    o.logger,
		manifests: o.manifests,
		bindings:  make(map[reflect.Type]*binding),
	}

	b.bindings[resourceLoaderInitiator.Contract()] = newInitiatorBinding(resourceLoaderInitiator)
	b.bindings[strategySelectorInitiator.Contract()] = newInitiatorBinding(strategySelectorInitiator)
	b.bindings[sourceParserInitiator.Contract()] = newInitiatorBinding(sourceParserInitiator)

	return b
}

// AddInitiator registers a default initiator for its contract. Registering
// a contract that already has a binding fails with IllegalOverrideError.
func (b *BootstrapBuilder) AddInitiator(initiator Initiator) error {
	if b.consumed {
		return BuilderConsumedError{Builder: "BootstrapBuilder", Op: "AddInitiator"}
	}
	if initiator == nil {
		return ErrInitiatorNil
	}

	contract := initiator.Contract()
	if b.isBound(contract) {
		return IllegalOverrideError{Contract: contract}
	}

	b.bindings[contract] = newInitiatorBinding(initiator)
	return nil
}

// AddService registers an explicit instance for contract. Registering a
// contract that already has a binding fails with IllegalOverrideError.
func (b *BootstrapBuilder) AddService(contract reflect.Type, instance any) error {
	if b.consumed {
		return BuilderConsumedError{Builder: "BootstrapBuilder", Op: "AddService"}
	}
	if contract == nil {
		return ErrContractNil
	}
	if instance == nil {
		return ErrServiceNil
	}
	if b.isBound(contract) {
		return IllegalOverrideError{Contract: contract}
	}

	b.bindings[contract] = newInstanceBinding(contract, instance)
	return nil
}

// AddHookManifest adds a static hook manifest, equivalent to the
// WithHookManifest option.
func (b *BootstrapBuilder) AddHookManifest(manifest HookManifest) error {
	if b.consumed {
		return BuilderConsumedError{Builder: "BootstrapBuilder", Op: "AddHookManifest"}
	}
	if manifest == nil {
		return ErrHookNil
	}

	b.manifests = append(b.manifests, manifest)
	return nil
}

func (b *BootstrapBuilder) isBound(contract reflect.Type) bool {
	if _, ok := b.bindings[contract]; ok {
		return true
	}
	// The hook set binding is created at Build, but its contract is reserved
	// from the start.
	return contract == ContractOf[*HookSet]()
}

// Build freezes the contract set and returns the container. The builder is
// spent afterwards.
func (b *BootstrapBuilder) Build() (*BootstrapContainer, error) {
	if b.consumed {
		return nil, BuilderConsumedError{Builder: "BootstrapBuilder", Op: "Build"}
	}
	b.consumed = true

	hookInitiator := newHookSetInitiator(b.manifests)
	b.bindings[hookInitiator.Contract()] = newInitiatorBinding(hookInitiator)

	c := &BootstrapContainer{
		core: &resolverCore{
			id:       uuid.NewString(),
			logger:   b.logger,
			settings: newSettings(nil),
			bindings: b.bindings,
		},
	}
	b.bindings = nil

	c.core.logger.Debug("bootstrap container built",
		zap.String("container", c.core.id),
		zap.Int("contracts", len(c.core.bindings)),
	)

	return c, nil
}

// BootstrapContainer is the frozen foundational container. Its contract set
// is fixed; resolution is lazy, memoized, and safe for concurrent use.
type BootstrapContainer struct {
	core *resolverCore
}

var _ Registry = (*BootstrapContainer)(nil)

// ID returns the container's unique id.
func (c *BootstrapContainer) ID() string { return c.core.id }

// Settings returns the empty settings snapshot; bootstrap containers carry
// no configuration.
func (c *BootstrapContainer) Settings() Settings { return c.core.settings }

// Logger returns the container's logger.
func (c *BootstrapContainer) Logger() *zap.Logger { return c.core.logger }

// Contains reports whether contract is bound.
func (c *BootstrapContainer) Contains(contract reflect.Type) bool {
	return c.core.contains(contract)
}

// Resolve returns the instance bound to contract, constructing it on first
// access. Construction happens at most once per contract, even under
// concurrent first access.
func (c *BootstrapContainer) Resolve(contract reflect.Type) (any, error) {
	return c.core.resolveRoot(c, contract)
}
