package bootkit

import (
	"sort"
	"strings"

	"go.uber.org/zap"
)

// MetadataBuilder is the mutable staging object between collected sources
// and the immutable Metadata snapshot. It is seeded from a standard
// container and a source collector, configured through Apply* calls, and
// consumed exactly once by Build. Any call after Build fails with
// BuilderConsumedError.
//
// The builder is not safe for concurrent use.
type MetadataBuilder struct {
	container *StandardContainer
	sources   *SourceCollector

	naming        NamingStrategy
	defaultSchema string
	schemaSet     bool

	consumed bool
	building bool
}

// NewMetadataBuilder returns a builder over the container and the collected
// sources. The collector stays open: source-contribution hooks may still
// append to it when Build runs.
func NewMetadataBuilder(container *StandardContainer, sources *SourceCollector) *MetadataBuilder {
	if sources == nil {
		sources = NewSourceCollector()
	}
	return &MetadataBuilder{container: container, sources: sources}
}

// Sources returns the collector this builder consumes.
func (b *MetadataBuilder) Sources() *SourceCollector {
	return b.sources
}

// Container returns the owning standard container.
func (b *MetadataBuilder) Container() *StandardContainer {
	return b.container
}

// ApplyNamingStrategy sets the naming strategy applied at Build. When none
// is applied, the strategy named by SettingNamingStrategy (default
// "implicit") is resolved through the StrategySelector.
func (b *MetadataBuilder) ApplyNamingStrategy(strategy NamingStrategy) error {
	if b.consumed {
		return BuilderConsumedError{Builder: "MetadataBuilder", Op: "ApplyNamingStrategy"}
	}
	b.naming = strategy
	return nil
}

// ApplyDefaultSchema sets the schema applied to entities that declare none,
// overriding SettingDefaultSchema.
func (b *MetadataBuilder) ApplyDefaultSchema(schema string) error {
	if b.consumed {
		return BuilderConsumedError{Builder: "MetadataBuilder", Op: "ApplyDefaultSchema"}
	}
	b.defaultSchema = schema
	b.schemaSet = true
	return nil
}

// ApplyContributor invokes fn with the builder, letting an extension object
// mutate it in place before Build.
func (b *MetadataBuilder) ApplyContributor(fn func(*MetadataBuilder) error) error {
	if b.consumed {
		return BuilderConsumedError{Builder: "MetadataBuilder", Op: "ApplyContributor"}
	}
	if fn == nil {
		return ErrHookNil
	}
	return fn(b)
}

// Build resolves every deferred source, applies the configured strategies,
// merges the contributions into one normalized model, and returns an
// immutable Metadata.
//
// The pass is all-or-nothing: every source parse failure and every
// duplicate entity identity found in the pass is aggregated into a single
// MetadataBuildError, and no partial Metadata is ever returned. The builder
// is spent afterwards, whether the pass succeeded or not.
func (b *MetadataBuilder) Build() (*Metadata, error) {
	if b.consumed || b.building {
		return nil, BuilderConsumedError{Builder: "MetadataBuilder", Op: "Build"}
	}
	b.building = true

	// Hook passes run while the builder is still mutable.
	hooks, err := Resolve[*HookSet](b.container)
	if err != nil {
		b.consumed = true
		return nil, err
	}
	for _, hook := range hooks.SourceContributors() {
		if err := hook.ContributeSources(b.sources); err != nil {
			b.consumed = true
			return nil, HookError{Kind: "source-contributor", Cause: err}
		}
	}
	for _, hook := range hooks.MetadataContributors() {
		if err := hook.ContributeMetadata(b); err != nil {
			b.consumed = true
			return nil, HookError{Kind: "metadata-contributor", Cause: err}
		}
	}
	b.consumed = true

	parser, err := Resolve[SourceParser](b.container)
	if err != nil {
		return nil, err
	}

	naming, err := b.resolveNaming()
	if err != nil {
		return nil, err
	}

	schema := b.defaultSchema
	if !b.schemaSet {
		schema = b.container.Settings().GetDefault(SettingDefaultSchema, "")
	}

	parseErrs := b.sources.shapeErrors()

	// Parse every source before reporting anything, so one pass surfaces
	// all failures.
	var entities []EntityMapping
	for _, desc := range b.sources.Descriptors() {
		contribution, err := parser.Parse(desc, b.container)
		if err != nil {
			parseErrs = append(parseErrs, SourceParseError{Source: desc, Cause: err})
			continue
		}
		entities = append(entities, contribution.Entities...)
	}

	normalized := make([]EntityMapping, 0, len(entities))
	contributors := make(map[string][]string) // identity -> source locators, collection order
	byName := make(map[string]EntityMapping, len(entities))

	for _, e := range entities {
		if e.Table == "" {
			e.Table = naming.TableName(e.Name)
		}
		if e.Schema == "" {
			e.Schema = schema
		}

		attrs := make(map[string]string, len(e.Attributes))
		for attr, typ := range e.Attributes {
			attrs[naming.ColumnName(attr)] = typ
		}
		e.Attributes = attrs

		identity := strings.ToLower(e.Name)
		contributors[identity] = append(contributors[identity], e.Source)
		normalized = append(normalized, e)
		byName[identity] = e
	}

	var duplicates []DuplicateMappingError
	seen := make(map[string]bool)
	for _, e := range normalized {
		identity := strings.ToLower(e.Name)
		if seen[identity] {
			continue
		}
		seen[identity] = true
		if sources := contributors[identity]; len(sources) > 1 {
			duplicates = append(duplicates, DuplicateMappingError{Entity: identity, Sources: sources})
		}
	}

	if len(parseErrs) > 0 || len(duplicates) > 0 {
		return nil, MetadataBuildError{ParseErrors: parseErrs, Duplicates: duplicates}
	}

	sort.Slice(normalized, func(i, j int) bool { return normalized[i].Name < normalized[j].Name })

	b.container.Logger().Debug("metadata built",
		zap.String("container", b.container.ID()),
		zap.Int("entities", len(normalized)),
	)

	return &Metadata{
		entities:  normalized,
		byName:    byName,
		container: b.container,
	}, nil
}

// resolveNaming returns the applied strategy, or resolves the configured
// short name through the container's StrategySelector.
func (b *MetadataBuilder) resolveNaming() (NamingStrategy, error) {
	if b.naming != nil {
		return b.naming, nil
	}

	selector, err := Resolve[*StrategySelector](b.container)
	if err != nil {
		return nil, err
	}

	name := b.container.Settings().GetDefault(SettingNamingStrategy, NamingImplicit)
	return SelectStrategy[NamingStrategy](selector, name)
}

// Metadata is the immutable normalized model snapshot. It owns nothing
// mutable and is safe to share across goroutines. It retains the standard
// container it was built with.
type Metadata struct {
	entities  []EntityMapping
	byName    map[string]EntityMapping
	container *StandardContainer
}

// Entities returns the normalized entities sorted by name.
func (m *Metadata) Entities() []EntityMapping {
	out := make([]EntityMapping, len(m.entities))
	for i, e := range m.entities {
		out[i] = e.clone()
	}
	return out
}

// Entity looks up an entity by logical name, case-insensitively.
func (m *Metadata) Entity(name string) (EntityMapping, bool) {
	e, ok := m.byName[strings.ToLower(name)]
	if !ok {
		return EntityMapping{}, false
	}
	return e.clone(), true
}

// Len returns the number of mapped entities.
func (m *Metadata) Len() int {
	return len(m.entities)
}

// Container returns the standard container the metadata was built with.
func (m *Metadata) Container() *StandardContainer {
	return m.container
}

// Settings returns the container's frozen settings.
func (m *Metadata) Settings() Settings {
	return m.container.Settings()
}

// SessionFactoryBuilder starts the final pipeline stage from this snapshot.
func (m *Metadata) SessionFactoryBuilder() *SessionFactoryBuilder {
	return NewSessionFactoryBuilder(m)
}
