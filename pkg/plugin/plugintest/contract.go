// Package plugintest provides shared contract tests for plugin.Plugin
// implementations. Every module's test file calls TestPluginContract.
package plugintest

import (
	"context"
	"testing"

	"github.com/MattTPin/movie-reccomendation-agent/pkg/plugin"
	"go.uber.org/zap"
)

// DepsFunc builds the dependencies handed to Init. Modules that need a
// resolver or config pass their own; nil means logger-only deps.
type DepsFunc func(name string) plugin.Dependencies

// TestPluginContract runs behavioral contract tests against any module:
//
//	func TestContract(t *testing.T) {
//	    plugintest.TestPluginContract(t, func() plugin.Plugin { return tmdb.New() }, nil)
//	}
func TestPluginContract(t *testing.T, factory func() plugin.Plugin, deps DepsFunc) {
	t.Helper()
	if deps == nil {
		deps = loggerOnly
	}

	t.Run("Info_returns_valid_metadata", func(t *testing.T) {
		info := factory().Info()
		if info.Name == "" {
			t.Error("Info().Name must not be empty")
		}
		if info.Version == "" {
			t.Error("Info().Version must not be empty")
		}
		if info.APIVersion < plugin.APIVersionMin || info.APIVersion > plugin.APIVersionCurrent {
			t.Errorf("Info().APIVersion = %d, outside [%d, %d]",
				info.APIVersion, plugin.APIVersionMin, plugin.APIVersionCurrent)
		}
	})

	t.Run("Init_Start_Stop", func(t *testing.T) {
		p := factory()
		ctx := context.Background()
		if err := p.Init(ctx, deps(p.Info().Name)); err != nil {
			t.Fatalf("Init() error = %v", err)
		}
		if err := p.Start(ctx); err != nil {
			t.Fatalf("Start() error = %v", err)
		}
		if err := p.Stop(ctx); err != nil {
			t.Fatalf("Stop() error = %v", err)
		}
	})

	t.Run("Stop_without_Start", func(t *testing.T) {
		p := factory()
		if err := p.Init(context.Background(), deps(p.Info().Name)); err != nil {
			t.Fatalf("Init() error = %v", err)
		}
		if err := p.Stop(context.Background()); err != nil {
			t.Fatalf("Stop() without Start error = %v", err)
		}
	})

	t.Run("Info_is_idempotent", func(t *testing.T) {
		p := factory()
		a, b := p.Info(), p.Info()
		if a.Name != b.Name || a.Version != b.Version {
			t.Error("Info() must return consistent results")
		}
	})
}

func loggerOnly(name string) plugin.Dependencies {
	return plugin.Dependencies{Logger: zap.NewNop().Named(name)}
}
