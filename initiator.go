package bootkit

import "reflect"

// Initiator is a factory that produces the default implementation for a
// contract. Initiators are registered per contract and invoked at most once
// per container, on the first resolution of their contract.
//
// The Registry handed to Initiate is scoped to the enclosing container: the
// initiator can read the container's settings and resolve other services
// from it. Cycles between initiators are detected and reported as
// CircularDependencyError.
type Initiator interface {
	// Contract returns the contract this initiator produces.
	Contract() reflect.Type

	// Initiate constructs the service instance.
	Initiate(r Registry) (any, error)
}

// NewInitiator adapts a constructor function into an Initiator for the
// contract T.
//
//	loaderInitiator := bootkit.NewInitiator(func(r bootkit.Registry) (ResourceLoader, error) {
//	    base := r.Settings().GetDefault(SettingResourceBase, "")
//	    return NewFileResourceLoader(base), nil
//	})
func NewInitiator[T any](fn func(r Registry) (T, error)) Initiator {
	return initiatorFunc[T]{fn: fn}
}

type initiatorFunc[T any] struct {
	fn func(r Registry) (T, error)
}

func (i initiatorFunc[T]) Contract() reflect.Type {
	return ContractOf[T]()
}

func (i initiatorFunc[T]) Initiate(r Registry) (any, error) {
	v, err := i.fn(r)
	if err != nil {
		return nil, err
	}
	return v, nil
}
