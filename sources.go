package bootkit

import "fmt"

// SourceKind tags the three ways a mapping source can be described.
type SourceKind int

const (
	// SourceDirect carries an in-memory reference to mapping data.
	SourceDirect SourceKind = iota

	// SourceName refers to a named contribution registered with the
	// StrategySelector; resolution is deferred to metadata build.
	SourceName

	// SourceResource refers to an external resource locator, opened and
	// parsed at metadata build.
	SourceResource
)

func (k SourceKind) String() string {
	switch k {
	case SourceDirect:
		return "direct"
	case SourceName:
		return "name"
	case SourceResource:
		return "resource"
	default:
		return fmt.Sprintf("Unknown(%d)", int(k))
	}
}

// SourceDescriptor records one mapping source without resolving it. Exactly
// one of Ref, Name, Locator is populated, matching Kind.
type SourceDescriptor struct {
	Kind    SourceKind
	Name    string // SourceName
	Locator string // SourceResource
	Ref     any    // SourceDirect
}

// String identifies the descriptor in errors and logs.
func (d SourceDescriptor) String() string {
	switch d.Kind {
	case SourceDirect:
		return fmt.Sprintf("direct(%T)", d.Ref)
	case SourceName:
		return fmt.Sprintf("name %q", d.Name)
	case SourceResource:
		return fmt.Sprintf("resource %q", d.Locator)
	default:
		return d.Kind.String()
	}
}

// location is the stable identity used when naming conflicting sources.
func (d SourceDescriptor) location() string {
	switch d.Kind {
	case SourceName:
		return d.Name
	case SourceResource:
		return d.Locator
	default:
		return d.String()
	}
}

// SourceCollector accumulates mapping sources in collection order without
// parsing them. Nothing is validated here beyond basic shape (non-empty
// name/locator, non-nil reference); shape violations are recorded and
// reported by the metadata build that consumes the collector, never
// silently dropped.
//
// All mutators return the collector for fluent chaining:
//
//	sources := bootkit.NewSourceCollector().
//	    AddDirect(&userMapping).
//	    AddByName("orders").
//	    AddResource("mappings/billing.yaml")
type SourceCollector struct {
	descriptors []SourceDescriptor
	shapeErrs   []SourceParseError
}

// NewSourceCollector returns an empty collector.
func NewSourceCollector() *SourceCollector {
	return &SourceCollector{}
}

// AddDirect records an in-memory mapping reference.
func (c *SourceCollector) AddDirect(ref any) *SourceCollector {
	d := SourceDescriptor{Kind: SourceDirect, Ref: ref}
	if ref == nil {
		c.shapeErrs = append(c.shapeErrs, SourceParseError{Source: d, Cause: ErrSourceRefNil})
		return c
	}
	c.descriptors = append(c.descriptors, d)
	return c
}

// AddByName records a named contribution to be resolved at metadata build.
func (c *SourceCollector) AddByName(name string) *SourceCollector {
	d := SourceDescriptor{Kind: SourceName, Name: name}
	if name == "" {
		c.shapeErrs = append(c.shapeErrs, SourceParseError{Source: d, Cause: ErrSourceNameEmpty})
		return c
	}
	c.descriptors = append(c.descriptors, d)
	return c
}

// AddResource records a resource locator to be opened at metadata build.
func (c *SourceCollector) AddResource(locator string) *SourceCollector {
	d := SourceDescriptor{Kind: SourceResource, Locator: locator}
	if locator == "" {
		c.shapeErrs = append(c.shapeErrs, SourceParseError{Source: d, Cause: ErrLocatorEmpty})
		return c
	}
	c.descriptors = append(c.descriptors, d)
	return c
}

// Descriptors returns a copy of the collected descriptors in collection
// order.
func (c *SourceCollector) Descriptors() []SourceDescriptor {
	out := make([]SourceDescriptor, len(c.descriptors))
	copy(out, c.descriptors)
	return out
}

// Len returns the number of collected descriptors.
func (c *SourceCollector) Len() int {
	return len(c.descriptors)
}

// shapeErrors returns the recorded shape violations.
func (c *SourceCollector) shapeErrors() []SourceParseError {
	out := make([]SourceParseError, len(c.shapeErrs))
	copy(out, c.shapeErrs)
	return out
}
