package sync

import "fmt"

// Action is what a sync run did, or would do in a dry run, to the contact.
type Action string

// Actions.
const (
	ActionCreated Action = "created"
	ActionUpdated Action = "updated"
)

// Result is the outcome of a successful run.
type Result struct {
	Login      string `json:"login" yaml:"login"`
	ExternalID string `json:"unique_external_id" yaml:"unique_external_id"`
	ContactID  string `json:"contact_id,omitempty" yaml:"contact_id,omitempty"`
	Action     Action `json:"action" yaml:"action"`
	DryRun     bool   `json:"dry_run" yaml:"dry_run"`
}

// Summary returns the one-line report printed by the CLI.
func (r *Result) Summary() string {
	if r.DryRun {
		switch r.Action {
		case ActionCreated:
			return fmt.Sprintf("Would create contact for %s", r.Login)
		default:
			return fmt.Sprintf("Would update contact #%s for %s", r.ContactID, r.Login)
		}
	}
	switch r.Action {
	case ActionCreated:
		return fmt.Sprintf("Created contact #%s for %s", r.ContactID, r.Login)
	default:
		return fmt.Sprintf("Updated contact #%s for %s", r.ContactID, r.Login)
	}
}
