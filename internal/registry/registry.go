// Package registry owns the lifecycle of the assistant's modules: it
// checks declared dependencies, orders modules so dependencies come first,
// and drives Init/Start/Stop. Optional modules that fail are disabled
// instead of aborting startup.
package registry

import (
	"context"
	"fmt"
	"sync"

	"github.com/MattTPin/movie-reccomendation-agent/pkg/plugin"
	"go.uber.org/zap"
)

var _ plugin.PluginResolver = (*Registry)(nil)

// Registry tracks registered modules in registration order.
type Registry struct {
	mu       sync.RWMutex
	names    []string // registration order
	plugins  map[string]plugin.Plugin
	infos    map[string]plugin.PluginInfo
	order    []string // dependency order, set by Validate
	disabled map[string]bool
	logger   *zap.Logger
}

// New creates an empty registry.
func New(logger *zap.Logger) *Registry {
	return &Registry{
		plugins:  make(map[string]plugin.Plugin),
		infos:    make(map[string]plugin.PluginInfo),
		disabled: make(map[string]bool),
		logger:   logger,
	}
}

// Register adds a module. Names must be unique and non-empty.
func (r *Registry) Register(p plugin.Plugin) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	info := p.Info()
	if info.Name == "" {
		return fmt.Errorf("plugin has empty name")
	}
	if _, exists := r.plugins[info.Name]; exists {
		return fmt.Errorf("plugin %q already registered", info.Name)
	}

	r.names = append(r.names, info.Name)
	r.plugins[info.Name] = p
	r.infos[info.Name] = info
	r.logger.Info("plugin registered",
		zap.String("name", info.Name),
		zap.String("version", info.Version),
	)
	return nil
}

// Validate checks API versions and dependencies, disables optional modules
// whose requirements are not met (cascading to their dependents), and
// computes the start order.
func (r *Registry) Validate() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, name := range r.names {
		info := r.infos[name]
		if info.APIVersion < plugin.APIVersionMin || info.APIVersion > plugin.APIVersionCurrent {
			err := fmt.Errorf("plugin %q targets API v%d, supported range is v%d..v%d",
				name, info.APIVersion, plugin.APIVersionMin, plugin.APIVersionCurrent)
			if err := r.disableLocked(name, err); err != nil {
				return err
			}
		}
	}

	// Repeat until stable so a disabled dependency cascades to its dependents.
	for changed := true; changed; {
		changed = false
		for _, name := range r.names {
			if r.disabled[name] {
				continue
			}
			for _, dep := range r.infos[name].Dependencies {
				var reason error
				switch {
				case r.plugins[dep] == nil:
					reason = fmt.Errorf("plugin %q depends on %q which is not registered", name, dep)
				case r.disabled[dep]:
					reason = fmt.Errorf("plugin %q depends on %q which is disabled", name, dep)
				}
				if reason == nil {
					continue
				}
				if err := r.disableLocked(name, reason); err != nil {
					return err
				}
				changed = true
				break
			}
		}
	}

	order, err := r.sortLocked()
	if err != nil {
		return err
	}
	r.order = order

	r.logger.Info("plugin dependency resolution complete",
		zap.Strings("start_order", r.order),
		zap.Int("disabled", len(r.disabled)),
	)
	return nil
}

// InitAll initializes modules in dependency order. depsFn builds the
// dependencies for each module.
func (r *Registry) InitAll(ctx context.Context, depsFn func(name string) plugin.Dependencies) error {
	return r.each(false, "initializing", func(p plugin.Plugin) error {
		return p.Init(ctx, depsFn(p.Info().Name))
	})
}

// StartAll starts modules in dependency order.
func (r *Registry) StartAll(ctx context.Context) error {
	return r.each(false, "starting", func(p plugin.Plugin) error {
		return p.Start(ctx)
	})
}

// StopAll stops modules in reverse dependency order. Errors are logged and
// never prevent the remaining modules from stopping.
func (r *Registry) StopAll(ctx context.Context) {
	_ = r.each(true, "stopping", func(p plugin.Plugin) error {
		if err := p.Stop(ctx); err != nil {
			r.logger.Error("failed to stop plugin", zap.String("name", p.Info().Name), zap.Error(err))
		}
		return nil
	})
}

// each runs fn over the active modules. A failing or panicking optional
// module is disabled; a failing required module aborts the walk.
func (r *Registry) each(reverse bool, verb string, fn func(plugin.Plugin) error) error {
	r.mu.RLock()
	order := make([]string, len(r.order))
	copy(order, r.order)
	r.mu.RUnlock()

	if reverse {
		for i, j := 0, len(order)-1; i < j; i, j = i+1, j-1 {
			order[i], order[j] = order[j], order[i]
		}
	}

	for _, name := range order {
		if r.IsDisabled(name) {
			continue
		}
		r.logger.Info(verb+" plugin", zap.String("name", name))
		if err := safeRun(name, fn, r.plugins[name]); err != nil {
			r.mu.Lock()
			disableErr := r.disableLocked(name, fmt.Errorf("%s %q: %w", verb, name, err))
			r.mu.Unlock()
			if disableErr != nil {
				return disableErr
			}
		}
	}
	return nil
}

func safeRun(name string, fn func(plugin.Plugin) error, p plugin.Plugin) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("plugin %q panicked: %v", name, rec)
		}
	}()
	return fn(p)
}

// disableLocked disables an optional module or returns reason for a
// required one. Caller holds r.mu.
func (r *Registry) disableLocked(name string, reason error) error {
	if r.infos[name].Required {
		return reason
	}
	r.logger.Warn("disabling plugin", zap.String("name", name), zap.Error(reason))
	r.disabled[name] = true
	return nil
}

// sortLocked orders active modules so each appears after its
// dependencies, breaking ties by registration order.
func (r *Registry) sortLocked() ([]string, error) {
	const (
		unvisited = iota
		visiting
		done
	)
	state := make(map[string]int, len(r.names))
	order := make([]string, 0, len(r.names))

	var visit func(name string, path []string) error
	visit = func(name string, path []string) error {
		switch state[name] {
		case done:
			return nil
		case visiting:
			return fmt.Errorf("dependency cycle detected among plugins: %v", append(path, name))
		}
		state[name] = visiting
		for _, dep := range r.infos[name].Dependencies {
			if r.disabled[dep] || r.plugins[dep] == nil {
				continue
			}
			if err := visit(dep, append(path, name)); err != nil {
				return err
			}
		}
		state[name] = done
		order = append(order, name)
		return nil
	}

	for _, name := range r.names {
		if r.disabled[name] {
			continue
		}
		if err := visit(name, nil); err != nil {
			return nil, err
		}
	}
	return order, nil
}

// Get returns an active module by name.
func (r *Registry) Get(name string) (plugin.Plugin, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.plugins[name]
	if !ok || r.disabled[name] {
		return nil, false
	}
	return p, true
}

// Resolve implements plugin.PluginResolver.
func (r *Registry) Resolve(name string) (plugin.Plugin, bool) {
	return r.Get(name)
}

// ResolveByRole returns active modules declaring role, in start order.
func (r *Registry) ResolveByRole(role string) []plugin.Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []plugin.Plugin
	for _, name := range r.order {
		if r.disabled[name] {
			continue
		}
		for _, have := range r.infos[name].Roles {
			if have == role {
				out = append(out, r.plugins[name])
				break
			}
		}
	}
	return out
}

// All returns active modules in start order.
func (r *Registry) All() []plugin.Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]plugin.Plugin, 0, len(r.order))
	for _, name := range r.order {
		if !r.disabled[name] {
			out = append(out, r.plugins[name])
		}
	}
	return out
}

// AllRoutes collects HTTP routes keyed by module name.
func (r *Registry) AllRoutes() map[string][]plugin.Route {
	out := make(map[string][]plugin.Route)
	for _, p := range r.All() {
		hp, ok := p.(plugin.HTTPProvider)
		if !ok {
			continue
		}
		if routes := hp.Routes(); len(routes) > 0 {
			out[p.Info().Name] = routes
		}
	}
	return out
}

// IsDisabled reports whether a module was disabled.
func (r *Registry) IsDisabled(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.disabled[name]
}
