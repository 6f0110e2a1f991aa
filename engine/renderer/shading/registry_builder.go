package shading

// RegistryBuilderOption is a function that configures a registry during construction.
type RegistryBuilderOption func(*registry)

// WithKindOptions forwards descriptor options to the constructor of one kind. The index
// is always set by the registry and cannot be overridden.
//
// Parameters:
//   - kind: the shading kind to configure
//   - options: the descriptor options
//
// Returns:
//   - RegistryBuilderOption: a function that applies the options to a registry
func WithKindOptions(kind Kind, options ...ShadingBuilderOption) RegistryBuilderOption {
	return func(r *registry) {
		r.kindOptions[kind] = append(r.kindOptions[kind], options...)
	}
}
