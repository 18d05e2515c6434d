package system

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recording(name string, journal *[]string, startErr error) ServiceFunc {
	return ServiceFunc{
		ServiceName: name,
		StartFunc: func(context.Context) error {
			*journal = append(*journal, "start "+name)
			return startErr
		},
		StopFunc: func(context.Context) error {
			*journal = append(*journal, "stop "+name)
			return nil
		},
	}
}

func TestManagerStartsInOrderAndStopsInReverse(t *testing.T) {
	var journal []string
	m := NewManager()
	require.NoError(t, m.Register(recording("a", &journal, nil)))
	require.NoError(t, m.Register(recording("b", &journal, nil)))

	require.NoError(t, m.Start(context.Background()))
	require.NoError(t, m.Stop(context.Background()))

	assert.Equal(t, []string{"start a", "start b", "stop b", "stop a"}, journal)
	assert.Equal(t, []string{"a", "b"}, m.Names())
}

func TestManagerRollsBackOnStartFailure(t *testing.T) {
	var journal []string
	boom := errors.New("boom")
	m := NewManager()
	require.NoError(t, m.Register(recording("a", &journal, nil)))
	require.NoError(t, m.Register(recording("b", &journal, boom)))
	require.NoError(t, m.Register(recording("c", &journal, nil)))

	err := m.Start(context.Background())
	require.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"start a", "start b", "stop a"}, journal)
}

func TestManagerRegistrationRules(t *testing.T) {
	m := NewManager()
	if err := m.Register(nil); err == nil {
		t.Fatalf("expected error for nil service")
	}
	if err := m.Register(ServiceFunc{}); err == nil {
		t.Fatalf("expected error for unnamed service")
	}
	require.NoError(t, m.Register(ServiceFunc{ServiceName: "x"}))
	if err := m.Register(ServiceFunc{ServiceName: "x"}); err == nil {
		t.Fatalf("expected duplicate name error")
	}

	require.NoError(t, m.Start(context.Background()))
	if err := m.Register(ServiceFunc{ServiceName: "late"}); err == nil {
		t.Fatalf("expected error registering after start")
	}
	require.NoError(t, m.Stop(context.Background()))
}
