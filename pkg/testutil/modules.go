// Package testutil provides test doubles shared by package tests.
package testutil

import (
	"net/http"
	"sync"

	"github.com/gorilla/mux"

	"github.com/R3E-Network/modulith/internal/config"
	"github.com/R3E-Network/modulith/internal/plugin"
)

// Journal records the order in which module hooks ran, across modules.
type Journal struct {
	mu      sync.Mutex
	entries []string
}

// Add appends an entry.
func (j *Journal) Add(entry string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.entries = append(j.entries, entry)
}

// Entries returns a copy of the recorded entries.
func (j *Journal) Entries() []string {
	j.mu.Lock()
	defer j.mu.Unlock()
	out := make([]string, len(j.entries))
	copy(out, j.entries)
	return out
}

// RecordingModule is a plugin.Module that counts its hook calls.
type RecordingModule struct {
	ModuleName  string
	RegisterErr error
	Journal     *Journal

	mu            sync.Mutex
	registerCalls int
	mapCalls      int
}

var _ plugin.Module = (*RecordingModule)(nil)

// NewRecordingModule creates a module writing to journal (which may be nil).
func NewRecordingModule(name string, journal *Journal) *RecordingModule {
	return &RecordingModule{ModuleName: name, Journal: journal}
}

// Factory returns a plugin.Factory that always yields m.
func (m *RecordingModule) Factory() plugin.Factory {
	return func() plugin.Module { return m }
}

func (m *RecordingModule) Name() string { return m.ModuleName }

func (m *RecordingModule) Register(services *plugin.Services, _ *config.Config) error {
	m.mu.Lock()
	m.registerCalls++
	m.mu.Unlock()
	if m.Journal != nil {
		m.Journal.Add("register:" + m.ModuleName)
	}
	if m.RegisterErr != nil {
		return m.RegisterErr
	}
	return plugin.Provide(services, m.ModuleName+".marker", m.ModuleName)
}

func (m *RecordingModule) MapEndpoints(router *mux.Router) {
	m.mu.Lock()
	m.mapCalls++
	m.mu.Unlock()
	if m.Journal != nil {
		m.Journal.Add("map:" + m.ModuleName)
	}
	router.HandleFunc("/"+m.ModuleName+"/ping", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}).Methods(http.MethodGet)
}

// RegisterCalls returns how many times Register ran.
func (m *RecordingModule) RegisterCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.registerCalls
}

// MapCalls returns how many times MapEndpoints ran.
func (m *RecordingModule) MapCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mapCalls
}
