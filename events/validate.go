package events

import (
	"errors"
	"strings"
	"time"
)

// EventDraft is the client-submitted event form, shared by create and
// update.
type EventDraft struct {
	Title              string  `json:"title"`
	Description        string  `json:"description"`
	LocationAddress    string  `json:"location_address"`
	UseCurrentLocation bool    `json:"use_current_location"`
	CurrentLat         float64 `json:"current_lat"`
	CurrentLng         float64 `json:"current_lng"`
	StartDateTime      string  `json:"start_datetime"`
	EndDateTime        string  `json:"end_datetime"`
	Category           string  `json:"category"`
	Price              float64 `json:"price"`
	MinAge             int     `json:"min_age"`
}

const draftTimeLayout = "2006-01-02T15:04"

var errEndBeforeStart = errors.New("End date/time must be after start date/time")

// Validate returns the display names of every missing required field.
// An empty slice means the draft passes.
func (d *EventDraft) Validate() []string {
	var missing []string
	if strings.TrimSpace(d.Title) == "" {
		missing = append(missing, "Event Title")
	}
	if strings.TrimSpace(d.Description) == "" {
		missing = append(missing, "Description")
	}
	if strings.TrimSpace(d.LocationAddress) == "" && !d.UseCurrentLocation {
		missing = append(missing, "Location")
	}
	if strings.TrimSpace(d.StartDateTime) == "" {
		missing = append(missing, "Start Date & Time")
	}
	return missing
}

// Times parses the draft's start and end. An absent end defaults to
// sixty minutes after start; an end at or before start is rejected.
func (d *EventDraft) Times() (start, end time.Time, err error) {
	start, err = parseDraftTime(d.StartDateTime)
	if err != nil {
		return time.Time{}, time.Time{}, errors.New("invalid start date/time")
	}

	if strings.TrimSpace(d.EndDateTime) == "" {
		return start, start.Add(60 * time.Minute), nil
	}

	end, err = parseDraftTime(d.EndDateTime)
	if err != nil {
		return time.Time{}, time.Time{}, errors.New("invalid end date/time")
	}
	if !end.After(start) {
		return time.Time{}, time.Time{}, errEndBeforeStart
	}
	return start, end, nil
}

func parseDraftTime(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse(draftTimeLayout, raw)
}
