package bootkit

import (
	"reflect"

	"go.uber.org/zap"
)

// Registry is the read-only resolution surface shared by both container
// tiers. A contract resolves to at most one live instance per container;
// resolution is lazy and memoized, and is safe for concurrent use once the
// container has been built.
//
// Initiators receive a Registry so they can resolve the services they depend
// on; the chain of nested resolutions is cycle-checked.
type Registry interface {
	// ID returns the unique id of the container, used in logs and errors.
	ID() string

	// Resolve returns the live instance bound to contract, constructing it
	// via its initiator on first access. It fails with UnknownContractError
	// if no binding exists anywhere in the container chain.
	Resolve(contract reflect.Type) (any, error)

	// Contains reports whether a binding exists for contract.
	Contains(contract reflect.Type) bool

	// Settings returns the container's frozen settings snapshot.
	// Bootstrap containers carry an empty snapshot.
	Settings() Settings

	// Logger returns the container's logger. Never nil; defaults to a nop
	// logger.
	Logger() *zap.Logger
}

// ContractOf returns the contract identity for T.
//
// Contracts are reflect.Type tags: an interface type, or a pointer type for
// concrete services.
//
//	loaderContract := bootkit.ContractOf[ResourceLoader]()
func ContractOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// Resolve resolves the service bound to the contract T and asserts it to T.
//
//	loader, err := bootkit.Resolve[ResourceLoader](container)
func Resolve[T any](r Registry) (T, error) {
	var zero T

	if r == nil {
		return zero, ErrRegistryNil
	}

	instance, err := r.Resolve(ContractOf[T]())
	if err != nil {
		return zero, err
	}

	typed, ok := instance.(T)
	if !ok {
		return zero, TypeMismatchError{
			Expected: ContractOf[T](),
			Actual:   reflect.TypeOf(instance),
		}
	}

	return typed, nil
}

// MustResolve is like Resolve but panics on error. Intended for bootstrap
// code paths where a missing foundational service is unrecoverable.
func MustResolve[T any](r Registry) T {
	v, err := Resolve[T](r)
	if err != nil {
		panic(err)
	}
	return v
}
