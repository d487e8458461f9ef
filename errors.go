package bootkit

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/ormkit/bootkit/internal/depgraph"
)

// ========================================
// Core Error Values (Sentinel Errors)
// ========================================
// These are base errors that should be wrapped in typed errors when returned.
// Never return these directly to users - always wrap them with context.

var (
	// Container errors.
	ErrUnknownContract = errors.New("no service registered for contract")
	ErrContractNil     = errors.New("service contract cannot be nil")
	ErrRegistryNil     = errors.New("registry cannot be nil")
	ErrInitiatorNil    = errors.New("initiator cannot be nil")
	ErrServiceNil      = errors.New("service instance cannot be nil")

	// Builder lifecycle errors.
	ErrBuilderConsumed = errors.New("builder has already been consumed")

	// Settings and source shape errors.
	ErrSettingKeyEmpty = errors.New("setting key cannot be empty")
	ErrLocatorEmpty    = errors.New("locator cannot be empty")
	ErrSourceNameEmpty = errors.New("source name cannot be empty")
	ErrSourceRefNil    = errors.New("source reference cannot be nil")

	// Hook errors.
	ErrHookNil = errors.New("hook cannot be nil")

	// Integration surface errors.
	ErrRegistrarClosed = errors.New("service registrar is no longer open for registration")
)

var (
	_ error = UnknownContractError{}
	_ error = IllegalOverrideError{}
	_ error = BuilderConsumedError{}
	_ error = InitiationError{}
	_ error = SettingsLoadError{}
	_ error = SourceParseError{}
	_ error = DuplicateMappingError{}
	_ error = MetadataBuildError{}
	_ error = HookError{}
	_ error = TypeMismatchError{}
	_ error = UnknownStrategyError{}
)

// CircularDependencyError is re-exported from the depgraph package so callers
// can match it without importing an internal package.
type CircularDependencyError = depgraph.CircularDependencyError

// ========================================
// Typed Errors for Rich Context
// ========================================

// UnknownContractError indicates a resolve call for a contract that has no
// binding anywhere in the container chain. It is fatal to that resolve call
// only, never to the container.
type UnknownContractError struct {
	Contract  reflect.Type
	Container string // container id, for diagnostics
}

func (e UnknownContractError) Error() string {
	if e.Container != "" {
		return fmt.Sprintf("no service registered for contract %s (container %s)", formatContract(e.Contract), e.Container)
	}
	return fmt.Sprintf("no service registered for contract %s", formatContract(e.Contract))
}

func (e UnknownContractError) Unwrap() error {
	return ErrUnknownContract
}

// IllegalOverrideError indicates an attempt to rebind a contract that the
// bootstrap container does not allow to be overridden.
type IllegalOverrideError struct {
	Contract reflect.Type
}

func (e IllegalOverrideError) Error() string {
	return fmt.Sprintf("contract %s is already bound in the bootstrap container and cannot be overridden", formatContract(e.Contract))
}

// BuilderConsumedError indicates reuse of a spent single-use builder.
// Builders hand off their state exactly once; any mutator or Build call
// after that is a programmer error.
type BuilderConsumedError struct {
	Builder string // "BootstrapBuilder", "MetadataBuilder", ...
	Op      string // the method that was called
}

func (e BuilderConsumedError) Error() string {
	return fmt.Sprintf("%s.%s called after Build: %v", e.Builder, e.Op, ErrBuilderConsumed)
}

func (e BuilderConsumedError) Unwrap() error {
	return ErrBuilderConsumed
}

// InitiationError wraps a failure (or panic) inside a service initiator.
// The failure is cached with the binding: a failed initiator is never retried.
type InitiationError struct {
	Contract reflect.Type
	Cause    error
}

func (e InitiationError) Error() string {
	return fmt.Sprintf("failed to initiate service %s: %v", formatContract(e.Contract), e.Cause)
}

func (e InitiationError) Unwrap() error {
	return e.Cause
}

// SettingsLoadError wraps a failure to load a settings source.
type SettingsLoadError struct {
	Locator string
	Cause   error
}

func (e SettingsLoadError) Error() string {
	return fmt.Sprintf("failed to load settings from %q: %v", e.Locator, e.Cause)
}

func (e SettingsLoadError) Unwrap() error {
	return e.Cause
}

// SourceParseError wraps a failure to resolve or parse a single mapping
// source. Metadata build aggregates these instead of failing on the first.
type SourceParseError struct {
	Source SourceDescriptor
	Cause  error
}

func (e SourceParseError) Error() string {
	return fmt.Sprintf("failed to parse mapping source %s: %v", e.Source, e.Cause)
}

func (e SourceParseError) Unwrap() error {
	return e.Cause
}

// DuplicateMappingError indicates that two or more sources contributed a
// mapping for the same logical entity. All conflicting source locators are
// named; the build never silently picks one.
type DuplicateMappingError struct {
	Entity  string   // normalized entity identity
	Sources []string // locators of every conflicting source, in collection order
}

func (e DuplicateMappingError) Error() string {
	return fmt.Sprintf("duplicate mapping for entity %q contributed by [%s]", e.Entity, strings.Join(e.Sources, ", "))
}

// MetadataBuildError aggregates every failure of a single metadata build
// pass: all source parse errors and all duplicate mappings. Build is
// all-or-nothing; no partial Metadata accompanies this error.
type MetadataBuildError struct {
	ParseErrors []SourceParseError
	Duplicates  []DuplicateMappingError
}

func (e MetadataBuildError) Error() string {
	total := len(e.ParseErrors) + len(e.Duplicates)
	var b strings.Builder
	fmt.Fprintf(&b, "metadata build failed with %d error(s):", total)
	n := 0
	for _, pe := range e.ParseErrors {
		n++
		fmt.Fprintf(&b, "\n  %d. %v", n, pe)
	}
	for _, de := range e.Duplicates {
		n++
		fmt.Fprintf(&b, "\n  %d. %v", n, de)
	}
	return b.String()
}

// Unwrap exposes the individual failures to errors.Is and errors.As.
func (e MetadataBuildError) Unwrap() []error {
	out := make([]error, 0, len(e.ParseErrors)+len(e.Duplicates))
	for _, pe := range e.ParseErrors {
		out = append(out, pe)
	}
	for _, de := range e.Duplicates {
		out = append(out, de)
	}
	return out
}

// UnknownStrategyError indicates a short-name strategy lookup found no
// binding in either selector tier.
type UnknownStrategyError struct {
	Contract reflect.Type
	Name     string
}

func (e UnknownStrategyError) Error() string {
	return fmt.Sprintf("no strategy named %q registered for contract %s", e.Name, formatContract(e.Contract))
}

// TypeMismatchError indicates a resolved instance did not satisfy the
// requested contract type.
type TypeMismatchError struct {
	Expected reflect.Type
	Actual   reflect.Type
}

func (e TypeMismatchError) Error() string {
	return fmt.Sprintf("resolved service does not satisfy contract: expected %s, got %s", formatContract(e.Expected), formatContract(e.Actual))
}

// HookError wraps a failure raised by an extension hook, aborting the
// enclosing build step.
type HookError struct {
	Kind  string // "integrator", "source-contributor", ...
	Cause error
}

func (e HookError) Error() string {
	return fmt.Sprintf("%s hook failed: %v", e.Kind, e.Cause)
}

func (e HookError) Unwrap() error {
	return e.Cause
}

// formatContract formats a contract type for error messages.
func formatContract(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}

	switch t.Kind() {
	case reflect.Pointer:
		elem := t.Elem()
		if elem.PkgPath() != "" && elem.Name() != "" {
			return "*" + elem.Name()
		}
		return t.String()
	case reflect.Interface, reflect.Struct:
		if t.Name() != "" {
			return t.Name()
		}
		return t.String()
	default:
		if t.Name() != "" {
			return t.Name()
		}
		return t.String()
	}
}
