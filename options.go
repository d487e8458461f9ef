package bootkit

import "go.uber.org/zap"

// Option configures a container builder at construction time. Options that
// a builder does not use are ignored: WithPropertiesSource and
// WithConfigSource only affect standard builders, WithHookManifest only
// affects bootstrap builders.
type Option func(*builderOptions)

type builderOptions struct {
	logger           *zap.Logger
	manifests        []HookManifest
	propertiesSource SettingsSource
	configSource     SettingsSource
}

func newBuilderOptions(opts []Option) builderOptions {
	var o builderOptions
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

// WithLogger sets the logger used by the builder and the container it
// builds. Defaults to a nop logger.
func WithLogger(logger *zap.Logger) Option {
	return func(o *builderOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithHookManifest adds a static hook manifest to the bootstrap container.
// Manifest entries are discovered after explicitly registered hooks, in the
// order the manifests were added.
func WithHookManifest(manifest HookManifest) Option {
	return func(o *builderOptions) {
		if manifest != nil {
			o.manifests = append(o.manifests, manifest)
		}
	}
}

// WithPropertiesSource replaces the properties collaborator behind
// StandardBuilder.LoadProperties. Defaults to an EnvFileSource over the
// container's ResourceLoader.
func WithPropertiesSource(source SettingsSource) Option {
	return func(o *builderOptions) {
		o.propertiesSource = source
	}
}

// WithConfigSource replaces the structured-config collaborator behind
// StandardBuilder.Configure. Defaults to a YAMLSource over the container's
// ResourceLoader.
func WithConfigSource(source SettingsSource) Option {
	return func(o *builderOptions) {
		o.configSource = source
	}
}
