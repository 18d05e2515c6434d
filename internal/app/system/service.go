// Package system manages the lifecycle of long-running host components.
package system

import "context"

// Service represents a lifecycle-managed component. The manager starts
// services in registration order and stops them in reverse.
type Service interface {
	Name() string
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

// ServiceFunc adapts plain functions to Service. Nil functions are no-ops.
type ServiceFunc struct {
	ServiceName string
	StartFunc   func(ctx context.Context) error
	StopFunc    func(ctx context.Context) error
}

func (s ServiceFunc) Name() string { return s.ServiceName }

func (s ServiceFunc) Start(ctx context.Context) error {
	if s.StartFunc == nil {
		return nil
	}
	return s.StartFunc(ctx)
}

func (s ServiceFunc) Stop(ctx context.Context) error {
	if s.StopFunc == nil {
		return nil
	}
	return s.StopFunc(ctx)
}
