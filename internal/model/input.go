package model

import (
	"fmt"
	"math"
	"time"
)

// Update modes.
const (
	ModeContinue = "continue"
	ModeReset    = "reset"
)

// ItemInput describes one requested item-kind in a create or update call.
// ID is empty for new item-kinds; on update, a non-empty ID targets the
// stored item-kind to reconcile against.
type ItemInput struct {
	ID            string  `json:"id,omitempty"`
	Name          string  `json:"name"`
	Unit          string  `json:"unit"`
	PerPortion    float64 `json:"quantity_per_portion"`
	TotalQuantity float64 `json:"total_quantity"`
}

// CreateListInput is the payload for creating a list.
type CreateListInput struct {
	Location    string      `json:"location"`
	EventDate   string      `json:"event_date"`
	Description string      `json:"description"`
	Items       []ItemInput `json:"items"`
}

// UpdateListInput is the payload for editing a list. Location is absent on
// purpose: it is immutable after creation. An empty EventDate leaves the
// stored date unchanged; a nil Description leaves the description unchanged.
type UpdateListInput struct {
	EventDate   string      `json:"event_date,omitempty"`
	Description *string     `json:"description,omitempty"`
	Mode        string      `json:"mode"`
	Items       []ItemInput `json:"items"`
}

// ParseEventDate parses an event timestamp from a request.
func ParseEventDate(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}

func positiveFinite(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}

func validateItems(ve *ValidationError, items []ItemInput) {
	if len(items) == 0 {
		ve.Add("items", "at least one item is required")
		return
	}
	for i, it := range items {
		prefix := fmt.Sprintf("items[%d]", i)
		if it.Name == "" {
			ve.Add(prefix+".name", "item name is required")
		}
		if it.Unit == "" {
			ve.Add(prefix+".unit", "unit is required")
		}
		if !positiveFinite(it.PerPortion) {
			ve.Add(prefix+".quantity_per_portion", "must be a positive number")
		}
		if !positiveFinite(it.TotalQuantity) {
			ve.Add(prefix+".total_quantity", "must be a positive number")
		}
	}
}

// Validate checks every field and reports all violations at once.
// Returns the parsed event date on success.
func (in CreateListInput) Validate() (time.Time, error) {
	ve := &ValidationError{}

	if len(in.Location) < 3 {
		ve.Add("location", "location must be at least 3 characters")
	}

	var eventDate time.Time
	if in.EventDate == "" {
		ve.Add("event_date", "event date is required")
	} else {
		var err error
		eventDate, err = ParseEventDate(in.EventDate)
		if err != nil {
			ve.Add("event_date", "must be an RFC 3339 timestamp")
		}
	}

	validateItems(ve, in.Items)

	if err := ve.OrNil(); err != nil {
		return time.Time{}, err
	}
	return eventDate, nil
}

// Validate checks every field and reports all violations at once.
// Returns the parsed event date (zero if the date is not being changed).
func (in UpdateListInput) Validate() (time.Time, error) {
	ve := &ValidationError{}

	var eventDate time.Time
	if in.EventDate != "" {
		var err error
		eventDate, err = ParseEventDate(in.EventDate)
		if err != nil {
			ve.Add("event_date", "must be an RFC 3339 timestamp")
		}
	}

	if in.Mode != ModeContinue && in.Mode != ModeReset {
		ve.Add("mode", `must be "continue" or "reset"`)
	}

	validateItems(ve, in.Items)

	// Each stored item-kind may be targeted at most once; a second entry
	// would reconcile against stale parcel state.
	seen := make(map[string]bool)
	for i, it := range in.Items {
		if it.ID == "" {
			continue
		}
		if seen[it.ID] {
			ve.Add(fmt.Sprintf("items[%d].id", i), "duplicate item id")
		}
		seen[it.ID] = true
	}

	if err := ve.OrNil(); err != nil {
		return time.Time{}, err
	}
	return eventDate, nil
}
