package plugin_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/R3E-Network/modulith/internal/config"
	"github.com/R3E-Network/modulith/internal/plugin"
	"github.com/R3E-Network/modulith/pkg/logger"
	"github.com/R3E-Network/modulith/pkg/testutil"
)

func newRegistry(factories ...plugin.Factory) *plugin.Registry {
	return plugin.NewRegistry(factories...).WithLogger(logger.NewNop())
}

func TestRegistryLoadsEveryModuleOnceInOrder(t *testing.T) {
	journal := &testutil.Journal{}
	a := testutil.NewRecordingModule("alpha", journal)
	b := testutil.NewRecordingModule("beta", journal)
	c := testutil.NewRecordingModule("gamma", journal)

	services := plugin.NewServices()
	modules, err := newRegistry(a.Factory(), b.Factory(), c.Factory()).Load(services, &config.Config{})
	require.NoError(t, err)
	require.Len(t, modules, 3)

	router := mux.NewRouter()
	plugin.MapEndpoints(router, modules)

	for _, m := range []*testutil.RecordingModule{a, b, c} {
		assert.Equal(t, 1, m.RegisterCalls(), m.Name())
		assert.Equal(t, 1, m.MapCalls(), m.Name())
		assert.True(t, services.Has(m.Name()+".marker"))
	}
	assert.Equal(t, []string{
		"register:alpha", "register:beta", "register:gamma",
		"map:alpha", "map:beta", "map:gamma",
	}, journal.Entries())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/beta/ping", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	assert.Equal(t, []plugin.Info{{Name: "alpha"}, {Name: "beta"}, {Name: "gamma"}}, plugin.Describe(modules))
}

func TestRegistrySkipsDisabledModules(t *testing.T) {
	disabled := false
	cfg := &config.Config{Modules: &config.ModulesConfig{Modules: map[string]*config.ModuleSettings{
		"beta": {Enabled: &disabled},
	}}}
	a := testutil.NewRecordingModule("alpha", nil)
	b := testutil.NewRecordingModule("beta", nil)

	modules, err := newRegistry(a.Factory(), b.Factory()).Load(plugin.NewServices(), cfg)
	require.NoError(t, err)
	require.Len(t, modules, 1)
	assert.Equal(t, "alpha", modules[0].Name())
	assert.Equal(t, 0, b.RegisterCalls())
}

func TestRegistryStartupErrors(t *testing.T) {
	failing := testutil.NewRecordingModule("broken", nil)
	failing.RegisterErr = errors.New("boom")

	tests := []struct {
		name      string
		factories []plugin.Factory
		target    error
	}{
		{"nil factory", []plugin.Factory{nil}, plugin.ErrInvalidModule},
		{"nil module", []plugin.Factory{func() plugin.Module { return nil }}, plugin.ErrInvalidModule},
		{"panicking constructor", []plugin.Factory{func() plugin.Module { panic("no default constructor") }}, plugin.ErrInvalidModule},
		{"empty name", []plugin.Factory{testutil.NewRecordingModule(" ", nil).Factory()}, plugin.ErrInvalidModule},
		{"duplicate", []plugin.Factory{
			testutil.NewRecordingModule("alpha", nil).Factory(),
			testutil.NewRecordingModule("ALPHA", nil).Factory(),
		}, plugin.ErrDuplicateModule},
		{"register failure", []plugin.Factory{failing.Factory()}, failing.RegisterErr},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			modules, err := newRegistry(tc.factories...).Load(plugin.NewServices(), &config.Config{})
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.target)
			assert.Nil(t, modules)
		})
	}
}

func TestRegistryStopsAtFirstFailure(t *testing.T) {
	first := testutil.NewRecordingModule("first", nil)
	first.RegisterErr = errors.New("boom")
	second := testutil.NewRecordingModule("second", nil)

	_, err := newRegistry(first.Factory(), second.Factory()).Load(plugin.NewServices(), &config.Config{})
	require.Error(t, err)
	assert.Equal(t, 0, second.RegisterCalls())
}

func TestMapEndpointsTwiceDoubleRegisters(t *testing.T) {
	m := testutil.NewRecordingModule("alpha", nil)
	router := mux.NewRouter()
	plugin.MapEndpoints(router, []plugin.Module{m})
	plugin.MapEndpoints(router, []plugin.Module{m})
	assert.Equal(t, 2, m.MapCalls())
}
