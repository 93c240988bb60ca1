package application

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/agentstation/deskbridge/internal/snapshot"
	"github.com/agentstation/deskbridge/pkg/sync"
)

// Mock provides a mock implementation of Application for testing.
// Each method can be customized by setting the corresponding function field.
// If a function field is nil, the method returns a default/zero value.
//
// Example Usage:
//
//	mock := &application.Mock{
//	    SyncerFunc: func(string, ...sync.Option) (*sync.Syncer, error) {
//	        return sync.New(fetcher, store), nil
//	    },
//	}
//	cmd := synccmd.NewCommand(mock)
type Mock struct {
	SyncerFunc        func(subdomain string, opts ...sync.Option) (*sync.Syncer, error)
	OpenSnapshotsFunc func(ctx context.Context, dsn string) (snapshot.Store, error)
	LoggerFunc        func() *zerolog.Logger
	OutputFormatFunc  func() string
	VersionFunc       func() string
	CommitFunc        func() string
	DateFunc          func() string
	BuiltByFunc       func() string
}

// Syncer returns a syncer using the mock function or nil.
func (m *Mock) Syncer(subdomain string, opts ...sync.Option) (*sync.Syncer, error) {
	if m.SyncerFunc != nil {
		return m.SyncerFunc(subdomain, opts...)
	}
	return nil, nil
}

// OpenSnapshots returns a store using the mock function or nil.
func (m *Mock) OpenSnapshots(ctx context.Context, dsn string) (snapshot.Store, error) {
	if m.OpenSnapshotsFunc != nil {
		return m.OpenSnapshotsFunc(ctx, dsn)
	}
	return nil, nil
}

// Logger returns a logger using the mock function or a no-op logger.
func (m *Mock) Logger() *zerolog.Logger {
	if m.LoggerFunc != nil {
		return m.LoggerFunc()
	}
	logger := zerolog.Nop()
	return &logger
}

// OutputFormat returns output format using the mock function or "text".
func (m *Mock) OutputFormat() string {
	if m.OutputFormatFunc != nil {
		return m.OutputFormatFunc()
	}
	return "text"
}

// Version returns version using the mock function or "dev".
func (m *Mock) Version() string {
	if m.VersionFunc != nil {
		return m.VersionFunc()
	}
	return "dev"
}

// Commit returns commit using the mock function or "unknown".
func (m *Mock) Commit() string {
	if m.CommitFunc != nil {
		return m.CommitFunc()
	}
	return "unknown"
}

// Date returns date using the mock function or "unknown".
func (m *Mock) Date() string {
	if m.DateFunc != nil {
		return m.DateFunc()
	}
	return "unknown"
}

// BuiltBy returns builder using the mock function or "unknown".
func (m *Mock) BuiltBy() string {
	if m.BuiltByFunc != nil {
		return m.BuiltByFunc()
	}
	return "unknown"
}

var _ Application = (*Mock)(nil)
