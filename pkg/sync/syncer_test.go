package sync

import (
	"context"
	stderrors "errors"
	"net/http"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/deskbridge/internal/freshdesk"
	"github.com/agentstation/deskbridge/internal/github"
	"github.com/agentstation/deskbridge/internal/snapshot"
	"github.com/agentstation/deskbridge/internal/transport/transporttest"
	"github.com/agentstation/deskbridge/pkg/errors"
	"github.com/agentstation/deskbridge/pkg/logging"
)

// fakeFetcher returns canned profiles.
type fakeFetcher struct {
	users map[string]*github.User
	err   error
}

func (f *fakeFetcher) GetUser(_ context.Context, login string) (*github.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	if u, ok := f.users[login]; ok {
		return u, nil
	}
	return nil, errors.NewNotFoundError("github user", login)
}

// memoryDesk is an in-memory ContactStore that records writes.
type memoryDesk struct {
	nextID   int64
	contacts map[string]freshdesk.Contact
	creates  []*freshdesk.Contact
	updates  map[string]*freshdesk.Contact
	findErr  error
	writeErr error
}

func newMemoryDesk() *memoryDesk {
	return &memoryDesk{nextID: 1000, contacts: map[string]freshdesk.Contact{}, updates: map[string]*freshdesk.Contact{}}
}

func (m *memoryDesk) FindByExternalID(_ context.Context, key string) (*freshdesk.Contact, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	if c, ok := m.contacts[key]; ok {
		return &c, nil
	}
	return nil, nil
}

func (m *memoryDesk) Create(_ context.Context, contact *freshdesk.Contact) (string, error) {
	m.creates = append(m.creates, contact)
	if m.writeErr != nil {
		return "", m.writeErr
	}
	m.nextID++
	stored := *contact
	stored.ID = m.nextID
	m.contacts[contact.UniqueExternalID] = stored
	return strconv.FormatInt(stored.ID, 10), nil
}

func (m *memoryDesk) Update(_ context.Context, id string, contact *freshdesk.Contact) (string, error) {
	m.updates[id] = contact
	if m.writeErr != nil {
		return "", m.writeErr
	}
	stored := *contact
	stored.ID, _ = strconv.ParseInt(id, 10, 64)
	m.contacts[contact.UniqueExternalID] = stored
	return id, nil
}

func octoFetcher(name string) *fakeFetcher {
	return &fakeFetcher{users: map[string]*github.User{
		"octo": {Login: "octo", Name: name, CreatedAt: "2011-01-25T18:44:36Z"},
	}}
}

func TestRunCreatesWhenAbsent(t *testing.T) {
	desk := newMemoryDesk()

	result, err := New(octoFetcher("The Octocat"), desk).Run(context.Background(), "octo")
	require.NoError(t, err)

	require.Len(t, desk.creates, 1)
	assert.Equal(t, "github:octo", desk.creates[0].UniqueExternalID)
	assert.Equal(t, "The Octocat", desk.creates[0].Name)
	assert.Empty(t, desk.updates)

	assert.Equal(t, &Result{
		Login:      "octo",
		ExternalID: "github:octo",
		ContactID:  "1001",
		Action:     ActionCreated,
	}, result)
	assert.Equal(t, "Created contact #1001 for octo", result.Summary())
}

func TestRunUpdatesWhenPresent(t *testing.T) {
	desk := newMemoryDesk()
	desk.contacts["github:octo"] = freshdesk.Contact{ID: 777, UniqueExternalID: "github:octo", Name: "old"}

	result, err := New(octoFetcher("The Octocat"), desk).Run(context.Background(), "octo")
	require.NoError(t, err)

	assert.Empty(t, desk.creates)
	require.Contains(t, desk.updates, "777")
	assert.Equal(t, "The Octocat", desk.updates["777"].Name)

	assert.Equal(t, ActionUpdated, result.Action)
	assert.Equal(t, "777", result.ContactID)
	assert.Equal(t, "Updated contact #777 for octo", result.Summary())
}

func TestRunBlankNameFallsBackToLogin(t *testing.T) {
	desk := newMemoryDesk()

	_, err := New(octoFetcher("  "), desk).Run(context.Background(), "octo")
	require.NoError(t, err)

	require.Len(t, desk.creates, 1)
	assert.Equal(t, "octo", desk.creates[0].Name)
}

func TestRunCreateThenFind(t *testing.T) {
	desk := newMemoryDesk()
	syncer := New(octoFetcher("Octo"), desk)

	first, err := syncer.Run(context.Background(), "octo")
	require.NoError(t, err)
	assert.Equal(t, ActionCreated, first.Action)

	second, err := syncer.Run(context.Background(), "octo")
	require.NoError(t, err)
	assert.Equal(t, ActionUpdated, second.Action)
	assert.Equal(t, first.ContactID, second.ContactID)
	assert.Len(t, desk.creates, 1)
}

func TestRunFailures(t *testing.T) {
	tests := []struct {
		name      string
		fetcher   *fakeFetcher
		setup     func(*memoryDesk)
		login     string
		wantState State
		check     func(t *testing.T, err error)
	}{
		{
			name:      "unknown login",
			fetcher:   octoFetcher("Octo"),
			login:     "ghost",
			wantState: StateFetching,
			check: func(t *testing.T, err error) {
				assert.True(t, errors.IsNotFound(err))
			},
		},
		{
			name:      "fetch transport failure",
			fetcher:   &fakeFetcher{err: errors.NewTransportError(http.MethodGet, "u", stderrors.New("dial"))},
			login:     "octo",
			wantState: StateFetching,
			check: func(t *testing.T, err error) {
				assert.True(t, errors.IsTransport(err))
			},
		},
		{
			name:      "lookup failure",
			fetcher:   octoFetcher("Octo"),
			setup:     func(d *memoryDesk) { d.findErr = errors.NewTransportError(http.MethodGet, "u", stderrors.New("reset")) },
			login:     "octo",
			wantState: StateLookingUp,
			check: func(t *testing.T, err error) {
				assert.True(t, errors.IsTransport(err))
			},
		},
		{
			name:      "create failure",
			fetcher:   octoFetcher("Octo"),
			setup:     func(d *memoryDesk) { d.writeErr = errors.NewRemoteError("freshdesk", "create", 500, "boom") },
			login:     "octo",
			wantState: StateCreating,
			check: func(t *testing.T, err error) {
				assert.True(t, errors.IsServiceUnavailable(err))
			},
		},
		{
			name:    "update failure",
			fetcher: octoFetcher("Octo"),
			setup: func(d *memoryDesk) {
				d.contacts["github:octo"] = freshdesk.Contact{ID: 5, UniqueExternalID: "github:octo"}
				d.writeErr = errors.NewRemoteError("freshdesk", "update", 404, "gone")
			},
			login:     "octo",
			wantState: StateUpdating,
			check: func(t *testing.T, err error) {
				assert.True(t, errors.IsRemote(err))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			desk := newMemoryDesk()
			if tt.setup != nil {
				tt.setup(desk)
			}

			result, err := New(tt.fetcher, desk).Run(context.Background(), tt.login)
			require.Error(t, err)
			assert.Nil(t, result)

			var se *errors.SyncError
			require.ErrorAs(t, err, &se)
			assert.Equal(t, tt.login, se.Login)
			assert.Equal(t, string(tt.wantState), se.State)
			tt.check(t, err)
		})
	}
}

func TestRunDuplicateCreateAgainstFreshdesk(t *testing.T) {
	base := "https://acme.freshdesk.com/api/v2"
	tr := transporttest.New().
		JSON(http.MethodGet, base+"/contacts?", 200, "[]").
		JSON(http.MethodGet, base+"/search/contacts?", 200, `{"results":[]}`).
		JSON(http.MethodPost, base+"/contacts", 422, `{"error":"duplicate"}`)

	desk, err := freshdesk.NewClient(freshdesk.Options{Transport: tr, Subdomain: "acme", APIToken: "abc"})
	require.NoError(t, err)

	_, err = New(octoFetcher("Octo"), desk).Run(context.Background(), "octo")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "422")
	assert.Contains(t, err.Error(), "duplicate")
	assert.Empty(t, tr.CallsTo(http.MethodPut, base))
}

func TestRunAgainstFreshdeskUpdatesExisting(t *testing.T) {
	base := "https://acme.freshdesk.com/api/v2"
	tr := transporttest.New().
		JSON(http.MethodGet, base+"/contacts?", 200, `[{"id":777,"unique_external_id":"github:octo","name":"old"}]`).
		JSON(http.MethodPut, base+"/contacts/777", 200, `{"id":777}`)

	desk, err := freshdesk.NewClient(freshdesk.Options{Transport: tr, Subdomain: "acme", APIToken: "abc"})
	require.NoError(t, err)

	result, err := New(octoFetcher("Octo"), desk).Run(context.Background(), "octo")
	require.NoError(t, err)
	assert.Equal(t, "777", result.ContactID)
	assert.Empty(t, tr.CallsTo(http.MethodPost, base))
	assert.Len(t, tr.CallsTo(http.MethodPut, base+"/contacts/777"), 1)
}

func TestRunDryRun(t *testing.T) {
	t.Run("create", func(t *testing.T) {
		desk := newMemoryDesk()
		result, err := New(octoFetcher("Octo"), desk, WithDryRun(true)).Run(context.Background(), "octo")
		require.NoError(t, err)

		assert.Empty(t, desk.creates)
		assert.True(t, result.DryRun)
		assert.Equal(t, ActionCreated, result.Action)
		assert.Empty(t, result.ContactID)
		assert.Equal(t, "Would create contact for octo", result.Summary())
	})

	t.Run("update", func(t *testing.T) {
		desk := newMemoryDesk()
		desk.contacts["github:octo"] = freshdesk.Contact{ID: 42, UniqueExternalID: "github:octo"}
		result, err := New(octoFetcher("Octo"), desk, WithDryRun(true)).Run(context.Background(), "octo")
		require.NoError(t, err)

		assert.Empty(t, desk.updates)
		assert.Equal(t, ActionUpdated, result.Action)
		assert.Equal(t, "42", result.ContactID)
		assert.Equal(t, "Would update contact #42 for octo", result.Summary())
	})
}

func TestRunRecordsSnapshot(t *testing.T) {
	store := snapshot.NewMemory()
	desk := newMemoryDesk()

	_, err := New(octoFetcher("Octo"), desk, WithSnapshots(store)).Run(context.Background(), "octo")
	require.NoError(t, err)

	got, err := store.Find(context.Background(), "octo")
	require.NoError(t, err)
	assert.Equal(t, &snapshot.Snapshot{Login: "octo", Name: "Octo", CreatedAt: "2011-01-25T18:44:36Z"}, got)
}

// failingSnapshots rejects every write.
type failingSnapshots struct{ snapshot.Store }

func (failingSnapshots) Upsert(context.Context, snapshot.Snapshot) error {
	return errors.WrapResource("upsert", "snapshot", "octo", stderrors.New("disk full"))
}

func TestRunSnapshotFailureIsFatal(t *testing.T) {
	desk := newMemoryDesk()

	_, err := New(octoFetcher("Octo"), desk, WithSnapshots(failingSnapshots{})).Run(context.Background(), "octo")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.Empty(t, desk.creates)
}

func TestRunLogsStates(t *testing.T) {
	logs := logging.NewTestLogger(t)
	ctx := logging.WithLogger(context.Background(), logs.Logger)

	_, err := New(octoFetcher("Octo"), newMemoryDesk()).Run(ctx, "octo")
	require.NoError(t, err)

	for _, state := range []State{StateFetching, StateMapping, StateLookingUp, StateCreating, StateDone} {
		logs.AssertContains(t, `"state":"`+string(state)+`"`)
	}
	logs.AssertContains(t, `"login":"octo"`)
	logs.AssertNotContains(t, `"state":"failed"`)
}
