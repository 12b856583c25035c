// Package registry maps benchmark categories to the providers that produce
// their results. Providers are registered in code at start-up; nothing is
// discovered or loaded from disk at runtime.
package registry

import (
	"errors"
	"fmt"
	"slices"

	"github.com/daryltucker/bee-pagoda/internal/config"
	"github.com/daryltucker/bee-pagoda/internal/model"
	"github.com/daryltucker/bee-pagoda/internal/store"
)

// ErrDuplicateProvider is returned when a category is registered twice.
var ErrDuplicateProvider = errors.New("registry: provider already registered")

// KnownCategories are the categories registered by Default, in report order.
var KnownCategories = []string{"cpu", "gpu_compute", "gpu_game", "ai", "memory", "disk"}

// Provider produces the result of one category.
type Provider interface {
	Name() string
	Run(cfg *config.Config) (model.CategoryResult, error)
}

// Registry holds providers in registration order.
type Registry struct {
	providers map[string]Provider
	order     []string
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{providers: make(map[string]Provider)}
}

// Default returns a registry with an artifact provider for every known
// category.
func Default() *Registry {
	r := New()
	for _, name := range KnownCategories {
		if err := r.Register(ArtifactProvider(name)); err != nil {
			panic(err)
		}
	}
	return r
}

// Register adds p under p.Name().
func (r *Registry) Register(p Provider) error {
	name := p.Name()
	if name == "" {
		return fmt.Errorf("registry: provider has empty name")
	}
	if _, exists := r.providers[name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateProvider, name)
	}
	r.providers[name] = p
	r.order = append(r.order, name)
	return nil
}

// Lookup returns the provider registered for name.
func (r *Registry) Lookup(name string) (Provider, bool) {
	p, ok := r.providers[name]
	return p, ok
}

// Resolve returns the registered provider for name, or an artifact provider
// for categories nobody registered.
func (r *Registry) Resolve(name string) Provider {
	if p, ok := r.Lookup(name); ok {
		return p
	}
	return ArtifactProvider(name)
}

// Names returns the registered categories in registration order.
func (r *Registry) Names() []string {
	return slices.Clone(r.order)
}

// artifactProvider reports a category from the raw artifact its probe wrote.
type artifactProvider struct {
	name string
}

// ArtifactProvider returns a provider that reads raw/<name>.json from the
// configured run directory.
func ArtifactProvider(name string) Provider {
	return artifactProvider{name: name}
}

func (p artifactProvider) Name() string { return p.name }

func (p artifactProvider) Run(cfg *config.Config) (model.CategoryResult, error) {
	return store.New(cfg.RunDir, cfg.RawDir).LoadCategory(p.name)
}
