package feed

import (
	"sync"

	"mapmeet/models"
)

// Marker is one map pin for an event in the current feed.
type Marker struct {
	EventID string  `json:"eventId"`
	Title   string  `json:"title"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Icon    string  `json:"icon"`
}

const defaultIcon = "http://maps.google.com/mapfiles/ms/icons/red-dot.png"

var categoryIcons = map[string]string{
	"recruiting":        "http://maps.google.com/mapfiles/ms/icons/red-dot.png",
	"freebies":          "http://maps.google.com/mapfiles/ms/icons/green-dot.png",
	"concerts":          "http://maps.google.com/mapfiles/ms/icons/purple-dot.png",
	"company_events":    "http://maps.google.com/mapfiles/ms/icons/red-dot.png",
	"parties":           "http://maps.google.com/mapfiles/ms/icons/pink-dot.png",
	"hobbyist_events":   "http://maps.google.com/mapfiles/ms/icons/orange-dot.png",
	"festivals":         "http://maps.google.com/mapfiles/ms/icons/purple-dot.png",
	"product_promotion": "http://maps.google.com/mapfiles/ms/icons/yellow-dot.png",
}

// IconFor returns the pin icon for a category, falling back to the
// default for anything unrecognized.
func IconFor(category string) string {
	if icon, ok := categoryIcons[category]; ok {
		return icon
	}
	return defaultIcon
}

// MarkerSets keeps one diff baseline per map client. Each viewer has
// its own map, so one client's filter change must never shift the
// removed/added sets another client sees.
type MarkerSets struct {
	mu   sync.Mutex
	sets map[string]*MarkerSet
}

func NewMarkerSets() *MarkerSets {
	return &MarkerSets{sets: make(map[string]*MarkerSet)}
}

// For returns the marker baseline for one client, creating it on
// first use.
func (r *MarkerSets) For(clientKey string) *MarkerSet {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sets[clientKey]
	if !ok {
		s = NewMarkerSet()
		r.sets[clientKey] = s
	}
	return s
}

// MarkerSet tracks the markers currently on the map so successive
// filter changes never leak stale pins.
type MarkerSet struct {
	mu      sync.Mutex
	current map[string]Marker
}

func NewMarkerSet() *MarkerSet {
	return &MarkerSet{current: make(map[string]Marker)}
}

// Sync diffs the filtered feed against the markers already placed.
// Removed IDs must be cleared from the map before the added markers
// are drawn.
func (s *MarkerSet) Sync(events []models.Event) (removed []string, added []Marker) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make(map[string]Marker, len(events))
	for _, ev := range events {
		next[ev.EventID] = Marker{
			EventID: ev.EventID,
			Title:   ev.Title,
			Lat:     ev.Coords.Lat,
			Lng:     ev.Coords.Lng,
			Icon:    IconFor(ev.Category),
		}
	}

	for id := range s.current {
		if _, ok := next[id]; !ok {
			removed = append(removed, id)
		}
	}
	for _, ev := range events {
		if _, ok := s.current[ev.EventID]; !ok {
			added = append(added, next[ev.EventID])
		}
	}

	s.current = next
	return removed, added
}
