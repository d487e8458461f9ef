package bootkit

import (
	"reflect"
	"sync"
)

// StrategySelector maps (contract, short name) pairs to implementation
// factories. It backs short-name strategy selection (naming strategies,
// named mapping contributions) for both container resolution and extension
// discovery.
//
// Lookup precedence follows the container rule: an explicit Register wins
// over the built-in default for the same pair, and within each tier the
// last registration wins.
//
// A StrategySelector is itself a service: every bootstrap container
// registers a default initiator for it, so standard containers can override
// the whole selector or extend the shared one from an Integrator.
type StrategySelector struct {
	mu        sync.RWMutex
	defaults  map[strategyKey]func() any
	overrides map[strategyKey]func() any
}

type strategyKey struct {
	contract reflect.Type
	name     string
}

// NewStrategySelector returns a selector with the built-in strategies
// registered as defaults.
func NewStrategySelector() *StrategySelector {
	s := &StrategySelector{
		defaults:  make(map[strategyKey]func() any),
		overrides: make(map[strategyKey]func() any),
	}
	registerBuiltinNamingStrategies(s)
	return s
}

// RegisterDefault binds a factory in the default tier. Built-in strategies
// live here; later calls for the same (contract, name) replace earlier ones.
func (s *StrategySelector) RegisterDefault(contract reflect.Type, name string, factory func() any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.defaults[strategyKey{contract: contract, name: name}] = factory
}

// Register binds a factory in the override tier, shadowing any default for
// the same (contract, name). Later calls replace earlier ones.
func (s *StrategySelector) Register(contract reflect.Type, name string, factory func() any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overrides[strategyKey{contract: contract, name: name}] = factory
}

// Resolve returns a fresh instance for the named strategy, consulting the
// override tier before the defaults.
func (s *StrategySelector) Resolve(contract reflect.Type, name string) (any, error) {
	s.mu.RLock()
	key := strategyKey{contract: contract, name: name}
	factory, ok := s.overrides[key]
	if !ok {
		factory, ok = s.defaults[key]
	}
	s.mu.RUnlock()

	if !ok {
		return nil, UnknownStrategyError{Contract: contract, Name: name}
	}
	return factory(), nil
}

// ResolveDefault is like Resolve but invokes fallback instead of failing
// when neither tier has a binding for (contract, name).
func (s *StrategySelector) ResolveDefault(contract reflect.Type, name string, fallback func() any) any {
	instance, err := s.Resolve(contract, name)
	if err != nil {
		return fallback()
	}
	return instance
}

// Contains reports whether any tier has a binding for (contract, name).
func (s *StrategySelector) Contains(contract reflect.Type, name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	key := strategyKey{contract: contract, name: name}
	if _, ok := s.overrides[key]; ok {
		return true
	}
	_, ok := s.defaults[key]
	return ok
}

// SelectStrategy resolves the named strategy for contract T and asserts its
// type.
//
//	naming, err := bootkit.SelectStrategy[NamingStrategy](selector, "snake")
func SelectStrategy[T any](s *StrategySelector, name string) (T, error) {
	var zero T

	instance, err := s.Resolve(ContractOf[T](), name)
	if err != nil {
		return zero, err
	}

	typed, ok := instance.(T)
	if !ok {
		return zero, TypeMismatchError{Expected: ContractOf[T](), Actual: reflect.TypeOf(instance)}
	}
	return typed, nil
}

// strategySelectorInitiator is the bootstrap default for *StrategySelector.
var strategySelectorInitiator = NewInitiator(func(Registry) (*StrategySelector, error) {
	return NewStrategySelector(), nil
})
