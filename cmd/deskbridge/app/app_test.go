package app

import (
	"bytes"
	"context"
	"net/http"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/deskbridge/internal/snapshot"
	"github.com/agentstation/deskbridge/internal/transport/transporttest"
	"github.com/agentstation/deskbridge/pkg/errors"
)

const (
	githubURL = "https://api.github.test"
	deskURL   = "https://acme.freshdesk.test/api/v2"
)

// newTestApp builds an App whose remote calls go to tr.
func newTestApp(t *testing.T, tr *transporttest.Scripted) (*App, *bytes.Buffer) {
	t.Helper()
	t.Setenv("GITHUB_TOKEN", "ghp_test")
	t.Setenv("FRESHDESK_TOKEN", "fd_test")
	t.Setenv("GITHUB_API_URL", githubURL)
	t.Setenv("FRESHDESK_HOST", "freshdesk.test")
	t.Setenv("FRESHDESK_SUBDOMAIN", "")
	t.Setenv("FRESHDESK_BASE_URL", "")
	t.Setenv("SNAPSHOT_DSN", "")
	t.Setenv("LOG_OUTPUT", "discard")

	var out bytes.Buffer
	app, err := New("1.0.0", "abc123", "2024-01-01", "test", WithTransport(tr), WithOutput(&out))
	require.NoError(t, err)
	return app, &out
}

// TestApp_New verifies app initialization.
func TestApp_New(t *testing.T) {
	app, _ := newTestApp(t, transporttest.New())

	if app.Version() != "1.0.0" {
		t.Errorf("Version() = %s, want 1.0.0", app.Version())
	}
	if app.Commit() != "abc123" {
		t.Errorf("Commit() = %s, want abc123", app.Commit())
	}
	if app.Date() != "2024-01-01" {
		t.Errorf("Date() = %s, want 2024-01-01", app.Date())
	}
	if app.BuiltBy() != "test" {
		t.Errorf("BuiltBy() = %s, want test", app.BuiltBy())
	}
	if app.Logger() == nil {
		t.Error("Logger() returned nil")
	}
	if app.Config() == nil {
		t.Error("Config() returned nil")
	}
}

func TestApp_SyncCreates(t *testing.T) {
	tr := transporttest.New().
		JSON(http.MethodGet, githubURL+"/users/octo", 200, `{"login":"octo","name":null,"created_at":"2011-01-25T18:44:36Z"}`).
		JSON(http.MethodGet, deskURL+"/contacts?", 200, `[]`).
		JSON(http.MethodGet, deskURL+"/search/contacts?", 200, `{"results":[]}`).
		JSON(http.MethodPost, deskURL+"/contacts", 201, `{"id":4242}`)
	app, out := newTestApp(t, tr)

	err := app.Execute(context.Background(), []string{"sync", "--user", "octo", "--subdomain", "acme"})
	require.NoError(t, err)
	assert.Equal(t, "Created contact #4242 for octo\n", out.String())

	gh := tr.CallsTo(http.MethodGet, githubURL)
	require.Len(t, gh, 1)
	assert.Equal(t, "token ghp_test", gh[0].Headers["Authorization"])

	posts := tr.CallsTo(http.MethodPost, deskURL)
	require.Len(t, posts, 1)
	assert.JSONEq(t, `{"unique_external_id":"github:octo","name":"octo"}`, string(posts[0].Body))
}

func TestApp_SyncUpdatesAndRecordsSnapshot(t *testing.T) {
	tr := transporttest.New().
		JSON(http.MethodGet, githubURL+"/users/octo", 200, `{"login":"octo","name":"Octo"}`).
		JSON(http.MethodGet, deskURL+"/contacts?", 200, `[{"id":777,"unique_external_id":"github:octo"}]`).
		JSON(http.MethodPut, deskURL+"/contacts/777", 200, `{"id":777}`)
	app, out := newTestApp(t, tr)

	dsn := filepath.Join(t.TempDir(), "snap.db")
	err := app.Execute(context.Background(), []string{"sync", "--user", "octo", "--subdomain", "acme", "--snapshot-dsn", dsn})
	require.NoError(t, err)
	assert.Equal(t, "Updated contact #777 for octo\n", out.String())

	store, err := snapshot.Open(context.Background(), dsn)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()
	got, err := store.Find(context.Background(), "octo")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Octo", got.Name)
}

func TestApp_SyncMissingTokens(t *testing.T) {
	tr := transporttest.New()
	app, _ := newTestApp(t, tr)

	t.Setenv("GITHUB_TOKEN", "")
	err := app.Execute(context.Background(), []string{"sync", "--user", "octo", "--subdomain", "acme"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing env: GITHUB_TOKEN")

	t.Setenv("GITHUB_TOKEN", "ghp_test")
	t.Setenv("FRESHDESK_TOKEN", "")
	err = app.Execute(context.Background(), []string{"sync", "--user", "octo", "--subdomain", "acme"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing env: FRESHDESK_TOKEN")

	assert.Empty(t, tr.Calls())
}

func TestApp_SyncRequiresSubdomain(t *testing.T) {
	tr := transporttest.New()
	app, _ := newTestApp(t, tr)

	err := app.Execute(context.Background(), []string{"sync", "--user", "octo"})
	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))
	assert.Empty(t, tr.Calls())
}

func TestApp_SyncDuplicateFails(t *testing.T) {
	tr := transporttest.New().
		JSON(http.MethodGet, githubURL+"/users/octo", 200, `{"login":"octo"}`).
		JSON(http.MethodGet, deskURL+"/contacts?", 200, `[]`).
		JSON(http.MethodGet, deskURL+"/search/contacts?", 400, `{}`).
		JSON(http.MethodPost, deskURL+"/contacts", 422, `{"error":"duplicate"}`)
	app, out := newTestApp(t, tr)

	err := app.Execute(context.Background(), []string{"sync", "--user", "octo", "--subdomain", "acme"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "422")
	assert.Contains(t, err.Error(), "duplicate")
	assert.Empty(t, out.String())
}

func TestApp_Version(t *testing.T) {
	app, out := newTestApp(t, transporttest.New())

	require.NoError(t, app.Execute(context.Background(), []string{"version"}))
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 6 {
		t.Fatalf("expected 6 lines, got %d:\n%s", len(lines), out.String())
	}
	assert.Equal(t, "deskbridge version 1.0.0", lines[0])
	assert.Equal(t, "commit: abc123", lines[1])
}

func TestApp_OpenSnapshotsDisabled(t *testing.T) {
	app, _ := newTestApp(t, transporttest.New())

	store, err := app.OpenSnapshots(context.Background(), "")
	require.NoError(t, err)
	assert.Nil(t, store)
}

func TestApp_Shutdown(t *testing.T) {
	app, _ := newTestApp(t, transporttest.New())
	assert.NoError(t, app.Shutdown(context.Background()))
}
