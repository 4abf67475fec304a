package mocks

import (
	"context"

	"m3u-guardian/core/reconcile"

	"github.com/stretchr/testify/mock"
)

// Prober is a mock implementation of reconcile.Prober
type Prober struct {
	mock.Mock
}

func (m *Prober) Probe(ctx context.Context, url string) reconcile.ProbeResult {
	args := m.Called(ctx, url)
	return args.Get(0).(reconcile.ProbeResult)
}

// Publisher is a mock implementation of reconcile.Publisher
type Publisher struct {
	mock.Mock
}

func (m *Publisher) Publish(ctx context.Context, content []byte, summary string) error {
	args := m.Called(ctx, content, summary)
	return args.Error(0)
}

// Notifier is a mock implementation of reconcile.Notifier
type Notifier struct {
	mock.Mock
}

func (m *Notifier) Notify(ctx context.Context, text string) error {
	args := m.Called(ctx, text)
	return args.Error(0)
}
