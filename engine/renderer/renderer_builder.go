package renderer

import (
	"log/slog"

	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/shading"
)

// RendererBuilderOption is a functional option applied to a renderer during construction via NewRenderer.
type RendererBuilderOption func(*renderer)

// WithRegistry sets the shading descriptors the renderer compiles programs from.
//
// Parameters:
//   - registry: the shading registry
//
// Returns:
//   - RendererBuilderOption: a function that applies the registry option to a renderer
func WithRegistry(registry shading.Registry) RendererBuilderOption {
	return func(r *renderer) {
		r.registry = registry
	}
}

// WithLogger sets the logger used for compile failures and context loss. Defaults to slog.Default().
//
// Parameters:
//   - logger: the logger
//
// Returns:
//   - RendererBuilderOption: a function that applies the logger option to a renderer
func WithLogger(logger *slog.Logger) RendererBuilderOption {
	return func(r *renderer) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithClearColor sets the RGBA color BeginFrame clears to. Defaults to opaque black.
//
// Parameters:
//   - color: the clear color, components in [0, 1]
//
// Returns:
//   - RendererBuilderOption: a function that applies the clear color option to a renderer
func WithClearColor(color [4]float32) RendererBuilderOption {
	return func(r *renderer) {
		r.clearColor = color
	}
}

// WithBackend records which graphics API the context belongs to. It only labels log output.
func WithBackend(backendType BackendType) RendererBuilderOption {
	return func(r *renderer) {
		r.backendType = backendType
	}
}
