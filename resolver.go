package bootkit

import (
	"fmt"
	"reflect"
	"sync"

	"go.uber.org/zap"

	"github.com/ormkit/bootkit/internal/depgraph"
)

// binding associates a contract with either an explicit instance or an
// initiator. Initiator-backed bindings are resolved lazily, exactly once,
// even under racing concurrent resolve calls; the outcome (instance or
// error) is cached for the lifetime of the owning container.
type binding struct {
	contract  reflect.Type
	initiator Initiator // nil when an explicit instance was registered

	once     sync.Once
	instance any
	err      error
}

func newInstanceBinding(contract reflect.Type, instance any) *binding {
	return &binding{contract: contract, instance: instance}
}

func newInitiatorBinding(initiator Initiator) *binding {
	return &binding{contract: initiator.Contract(), initiator: initiator}
}

// resolve returns the bound instance, running the initiator on first access.
// A panicking initiator is converted into an InitiationError; the failure is
// cached and the initiator is never retried.
func (b *binding) resolve(r Registry) (any, error) {
	if b.initiator == nil {
		return b.instance, nil
	}

	b.once.Do(func() {
		defer func() {
			if rec := recover(); rec != nil {
				b.err = InitiationError{Contract: b.contract, Cause: fmt.Errorf("initiator panicked: %v", rec)}
			}
		}()

		instance, err := b.initiator.Initiate(r)
		if err != nil {
			b.err = InitiationError{Contract: b.contract, Cause: err}
			return
		}
		if instance == nil {
			b.err = InitiationError{Contract: b.contract, Cause: ErrServiceNil}
			return
		}

		b.instance = instance
	})

	return b.instance, b.err
}

// resolverCore holds the frozen binding table shared by both container
// implementations. The table itself is never mutated after the owning
// builder's Build returns; per-binding state carries its own guard.
type resolverCore struct {
	id       string
	logger   *zap.Logger
	settings Settings
	bindings map[reflect.Type]*binding
}

func (c *resolverCore) contains(contract reflect.Type) bool {
	_, ok := c.bindings[contract]
	return ok
}

// resolutionScope is the Registry handed to initiators. It carries the
// resolution path so that nested resolves performed by an initiator are
// cycle-checked against the contracts already being initiated.
type resolutionScope struct {
	owner Registry // the public container, for identity and settings
	core  *resolverCore
	stack *depgraph.Stack
}

var _ Registry = resolutionScope{}

func (s resolutionScope) ID() string          { return s.owner.ID() }
func (s resolutionScope) Settings() Settings  { return s.owner.Settings() }
func (s resolutionScope) Logger() *zap.Logger { return s.owner.Logger() }

func (s resolutionScope) Contains(t reflect.Type) bool {
	return s.owner.Contains(t)
}

func (s resolutionScope) Resolve(contract reflect.Type) (any, error) {
	if contract == nil {
		return nil, ErrContractNil
	}

	b, ok := s.core.bindings[contract]
	if !ok {
		return nil, UnknownContractError{Contract: contract, Container: s.core.id}
	}

	// Cycle detection covers one resolution path. A cycle whose edges are
	// split across goroutines racing first access of mutually dependent
	// initiators blocks on the bindings' once guards instead of reporting
	// CircularDependencyError; initiator graphs must be acyclic.
	next, err := s.stack.Push(contract)
	if err != nil {
		return nil, err
	}

	instance, err := b.resolve(resolutionScope{owner: s.owner, core: s.core, stack: next})
	if err != nil {
		return nil, err
	}

	s.core.logger.Debug("service resolved",
		zap.String("container", s.core.id),
		zap.String("contract", formatContract(contract)),
	)

	return instance, nil
}

// resolveRoot starts a fresh resolution with an empty path.
func (c *resolverCore) resolveRoot(owner Registry, contract reflect.Type) (any, error) {
	scope := resolutionScope{owner: owner, core: c, stack: depgraph.NewStack()}
	return scope.Resolve(contract)
}
