// Package bootkit provides a hierarchical service container and a staged,
// immutable-builder configuration pipeline for assembling a session factory.
//
// # Overview
//
// bootkit models one bootstrap sequence as a chain of one-way construction
// steps:
//
//	BootstrapContainer -> StandardContainer -> MetadataBuilder -> Metadata -> SessionFactoryBuilder -> SessionFactory
//
// Each stage is mutable while it is being configured and becomes immutable
// once advanced to the next stage; no step ever mutates backward. The
// library provides:
//   - A two-tier service registry: a frozen bootstrap container of
//     foundational services, and an extensible standard container whose
//     default bindings can be overridden
//   - Lazy, at-most-once service construction with dependency resolution
//     between services and cycle detection
//   - Deterministic settings merging from explicit calls, properties files,
//     and structured config sources (last write wins)
//   - Deferred mapping-source collection and an all-or-nothing metadata
//     build that reports every conflict in one pass
//   - Four fixed extension hook points, explicitly registered or discovered
//     through static manifests
//
// # Basic Usage
//
// Build the containers, collect sources, and advance stage by stage:
//
//	builder, err := bootkit.NewStandardBuilder()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	builder.ApplySetting(bootkit.SettingNamingStrategy, bootkit.NamingSnake)
//	builder.LoadProperties("app.properties")
//
//	container, err := builder.Build()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	sources := bootkit.NewSourceCollector().
//	    AddDirect(&userMapping).
//	    AddResource("mappings/orders.yaml")
//
//	metadata, err := bootkit.NewMetadataBuilder(container, sources).Build()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	factory, err := metadata.SessionFactoryBuilder().Build()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer factory.Close()
//
// # Containers
//
// A contract is a reflect.Type tag obtained with ContractOf. The bootstrap
// container is built once and frozen: its bindings, including the built-in
// ResourceLoader, StrategySelector, SourceParser, and HookSet services,
// can never be overridden. The standard container is built on top of a
// bootstrap container and resolves with a strict three-tier precedence:
// explicit instance, then overriding initiator, then inherited bootstrap
// default.
//
// Service construction is lazy and memoized: resolving the same contract
// twice from one container returns the identical instance, and first
// access is safe under concurrent resolve calls.
//
// # Settings
//
// Settings merge deterministically, last write wins, whether a value
// arrives via ApplySetting, a godotenv properties file (LoadProperties),
// or a YAML document (Configure). The snapshot handed to the standard
// container is immutable.
//
// # Single-use builders
//
// Every builder in the pipeline is consumed by its Build call. Calling a
// mutator, or Build again, on a spent builder fails with
// BuilderConsumedError rather than corrupting the already-published
// snapshot.
//
// # Extension hooks
//
// Third parties extend the pipeline without modifying it through four hook
// kinds: Integrator (standard container finalized), SourceContributor
// (source collector finalized), MetadataContributor (before metadata
// freeze), and FactoryInitializer (before artifact freeze). Hooks run in
// deterministic order: explicit registrations first, then manifest
// discoveries.
package bootkit
