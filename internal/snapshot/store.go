// Package snapshot mirrors fetched GitHub profiles into a local table keyed by
// login. The mirror is write-mostly: sync runs upsert into it and never read
// it back to decide anything.
package snapshot

import (
	"context"

	"github.com/agentstation/deskbridge/internal/github"
)

// Snapshot is one row of the github_users table.
type Snapshot struct {
	Login     string `json:"login" yaml:"login"`
	Name      string `json:"name,omitempty" yaml:"name,omitempty"`
	CreatedAt string `json:"created_at,omitempty" yaml:"created_at,omitempty"`
}

// FromUser captures the mirrored fields of user.
func FromUser(user *github.User) Snapshot {
	return Snapshot{
		Login:     user.Login,
		Name:      user.Name,
		CreatedAt: user.CreatedAt,
	}
}

// Store persists snapshots.
type Store interface {
	// Upsert inserts s or replaces the row with the same login.
	Upsert(ctx context.Context, s Snapshot) error
	// Find returns the snapshot for login, or nil when there is none.
	Find(ctx context.Context, login string) (*Snapshot, error)
	Close() error
}
