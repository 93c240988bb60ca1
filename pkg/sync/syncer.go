package sync

import (
	"context"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/agentstation/deskbridge/internal/freshdesk"
	"github.com/agentstation/deskbridge/internal/github"
	"github.com/agentstation/deskbridge/internal/mapper"
	"github.com/agentstation/deskbridge/internal/snapshot"
	"github.com/agentstation/deskbridge/pkg/errors"
	"github.com/agentstation/deskbridge/pkg/logging"
)

// ProfileFetcher returns the GitHub profile for a login.
type ProfileFetcher interface {
	GetUser(ctx context.Context, login string) (*github.User, error)
}

// ContactStore finds and writes Freshdesk contacts.
type ContactStore interface {
	FindByExternalID(ctx context.Context, key string) (*freshdesk.Contact, error)
	Create(ctx context.Context, contact *freshdesk.Contact) (string, error)
	Update(ctx context.Context, id string, contact *freshdesk.Contact) (string, error)
}

// Syncer runs fetch, map, lookup and write for a single login.
type Syncer struct {
	fetcher ProfileFetcher
	store   ContactStore
	options *Options
}

// New creates a Syncer.
func New(fetcher ProfileFetcher, store ContactStore, opts ...Option) *Syncer {
	return &Syncer{
		fetcher: fetcher,
		store:   store,
		options: Defaults().Apply(opts...),
	}
}

// run tracks the state of one invocation of Run.
type run struct {
	login  string
	state  State
	logger *zerolog.Logger
}

func (r *run) enter(state State) {
	r.state = state
	r.logger.Debug().Str("state", string(state)).Msg("Sync state")
}

func (r *run) fail(err error) error {
	failed := r.state
	r.enter(StateFailed)
	return errors.NewSyncError(r.login, string(failed), err)
}

// Run syncs login. Any failure ends the run and is returned as a SyncError
// naming the state it happened in.
func (s *Syncer) Run(ctx context.Context, login string) (*Result, error) {
	ctx = logging.WithLogin(ctx, login)
	r := &run{login: login, logger: logging.FromContext(ctx)}

	r.enter(StateFetching)
	user, err := s.fetcher.GetUser(ctx, login)
	if err != nil {
		return nil, r.fail(err)
	}
	if s.options.Snapshots != nil {
		if err := s.options.Snapshots.Upsert(ctx, snapshot.FromUser(user)); err != nil {
			return nil, r.fail(err)
		}
	}

	r.enter(StateMapping)
	contact := mapper.Map(user)
	result := &Result{
		Login:      login,
		ExternalID: contact.UniqueExternalID,
		DryRun:     s.options.DryRun,
	}

	r.enter(StateLookingUp)
	existing, err := s.store.FindByExternalID(ctx, contact.UniqueExternalID)
	if err != nil {
		return nil, r.fail(err)
	}

	if existing == nil {
		result.Action = ActionCreated
		r.enter(StateCreating)
		if !s.options.DryRun {
			if result.ContactID, err = s.store.Create(ctx, contact); err != nil {
				return nil, r.fail(err)
			}
		}
	} else {
		result.Action = ActionUpdated
		id := strconv.FormatInt(existing.ID, 10)
		result.ContactID = id
		r.enter(StateUpdating)
		if !s.options.DryRun {
			if result.ContactID, err = s.store.Update(ctx, id, contact); err != nil {
				return nil, r.fail(err)
			}
		}
	}

	r.enter(StateDone)
	r.logger.Info().
		Str("action", string(result.Action)).
		Str("contact_id", result.ContactID).
		Bool("dry_run", result.DryRun).
		Msg("Contact synced")
	return result, nil
}
