// Package mapper derives Freshdesk contacts from GitHub profiles.
package mapper

import (
	"strings"

	"github.com/agentstation/deskbridge/internal/freshdesk"
	"github.com/agentstation/deskbridge/internal/github"
)

// ExternalIDPrefix tags external ids with the system they came from.
const ExternalIDPrefix = "github:"

// ExternalID returns the unique_external_id used to join a GitHub login to a
// Freshdesk contact.
func ExternalID(login string) string {
	return ExternalIDPrefix + login
}

// Map builds the contact for user. Blank optional fields stay empty so they
// are left out of the outbound payload; a blank name falls back to the login.
func Map(user *github.User) *freshdesk.Contact {
	contact := &freshdesk.Contact{
		UniqueExternalID: ExternalID(user.Login),
		Name:             user.Login,
	}
	if !isBlank(user.Name) {
		contact.Name = user.Name
	}
	if !isBlank(user.Email) {
		contact.Email = user.Email
	}
	if !isBlank(user.Location) {
		contact.Address = user.Location
	}
	if !isBlank(user.TwitterUsername) {
		contact.TwitterID = user.TwitterUsername
	}
	return contact
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
