package handler

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/snnyvrz/shelfshare/apps/library-api/internal/model"
)

// NullableID separates an explicit null from an absent field in partial
// updates, so a PATCH can clear an optional reference.
type NullableID struct {
	Set bool
	ID  *uuid.UUID
}

func (n *NullableID) UnmarshalJSON(b []byte) error {
	n.Set = true
	if string(b) == "null" {
		n.ID = nil
		return nil
	}

	var id uuid.UUID
	if err := json.Unmarshal(b, &id); err != nil {
		return err
	}
	n.ID = &id
	return nil
}

type NullableDate struct {
	Set  bool
	Date *model.Date
}

func (n *NullableDate) UnmarshalJSON(b []byte) error {
	n.Set = true
	if string(b) == "null" {
		n.Date = nil
		return nil
	}

	var d model.Date
	if err := json.Unmarshal(b, &d); err != nil {
		return err
	}
	n.Date = &d
	return nil
}
