package snapshotcmd

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/deskbridge/internal/cmd/application"
	"github.com/agentstation/deskbridge/internal/snapshot"
	"github.com/agentstation/deskbridge/pkg/errors"
)

func run(t *testing.T, app application.Application, args ...string) (string, error) {
	t.Helper()
	cmd := NewCommand(app)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	cmd.SetContext(context.Background())
	err := cmd.Execute()
	return out.String(), err
}

func withStore(store snapshot.Store, format string) *application.Mock {
	return &application.Mock{
		OpenSnapshotsFunc: func(context.Context, string) (snapshot.Store, error) { return store, nil },
		OutputFormatFunc:  func() string { return format },
	}
}

func TestSnapshotGet(t *testing.T) {
	store := snapshot.NewMemory()
	require.NoError(t, store.Upsert(context.Background(), snapshot.Snapshot{Login: "octo", Name: "Octo", CreatedAt: "2011"}))

	out, err := run(t, withStore(store, "json"), "get", "octo")
	require.NoError(t, err)
	assert.JSONEq(t, `{"login":"octo","name":"Octo","created_at":"2011"}`, out)

	out, err = run(t, withStore(store, "yaml"), "get", "octo")
	require.NoError(t, err)
	assert.Contains(t, out, "login: octo")
}

func TestSnapshotGetMissing(t *testing.T) {
	_, err := run(t, withStore(snapshot.NewMemory(), ""), "get", "ghost")
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestSnapshotGetUnconfigured(t *testing.T) {
	_, err := run(t, withStore(nil, ""), "get", "octo")
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrMissingConfig)
}

func TestSnapshotGetPassesDSN(t *testing.T) {
	var got string
	app := &application.Mock{
		OpenSnapshotsFunc: func(_ context.Context, dsn string) (snapshot.Store, error) {
			got = dsn
			return snapshot.NewMemory(), nil
		},
	}
	_, _ = run(t, app, "get", "octo", "--snapshot-dsn", "memory://")
	assert.Equal(t, "memory://", got)
}
