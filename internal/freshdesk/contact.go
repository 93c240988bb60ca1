package freshdesk

import (
	"encoding/json"
	"strconv"
)

// Contact is a Freshdesk contact. ID is zero until the store assigns one.
type Contact struct {
	ID               int64  `json:"id,omitempty" yaml:"id,omitempty"`
	UniqueExternalID string `json:"unique_external_id" yaml:"unique_external_id"`
	Name             string `json:"name" yaml:"name"`
	Email            string `json:"email,omitempty" yaml:"email,omitempty"`
	Address          string `json:"address,omitempty" yaml:"address,omitempty"`
	TwitterID        string `json:"twitter_id,omitempty" yaml:"twitter_id,omitempty"`
}

// UnmarshalJSON accepts the id as a JSON number or as a quoted number.
func (c *Contact) UnmarshalJSON(data []byte) error {
	type plain Contact
	aux := struct {
		ID json.Number `json:"id"`
		*plain
	}{plain: (*plain)(c)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if aux.ID == "" {
		c.ID = 0
		return nil
	}
	id, err := strconv.ParseInt(aux.ID.String(), 10, 64)
	if err != nil {
		return err
	}
	c.ID = id
	return nil
}

// payload is the body sent on create and update. Optional fields are omitted
// rather than sent empty so an update never clears a value on the store side.
type payload struct {
	UniqueExternalID string `json:"unique_external_id"`
	Name             string `json:"name"`
	Email            string `json:"email,omitempty"`
	Address          string `json:"address,omitempty"`
	TwitterID        string `json:"twitter_id,omitempty"`
}

func newPayload(c *Contact) payload {
	return payload{
		UniqueExternalID: c.UniqueExternalID,
		Name:             c.Name,
		Email:            c.Email,
		Address:          c.Address,
		TwitterID:        c.TwitterID,
	}
}
