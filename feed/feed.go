package feed

import (
	"time"

	"mapmeet/models"
)

type PriceFilter string

const (
	PriceAll  PriceFilter = "all"
	PriceFree PriceFilter = "free"
	PricePaid PriceFilter = "paid"
)

// Filter narrows a feed to events still worth showing. A zero Filter
// keeps everything that has not ended yet.
type Filter struct {
	Date  *time.Time
	Types []string
	Price PriceFilter
}

// FilterEvents applies every active rule as a conjunction and
// preserves the input order. Events that already ended are never
// returned no matter what the other rules say.
func FilterEvents(all []models.Event, f Filter, now time.Time) []models.Event {
	out := make([]models.Event, 0, len(all))
	for _, ev := range all {
		if !ev.EndDateTime.After(now) {
			continue
		}
		if f.Date != nil && !sameDay(ev.StartDateTime, *f.Date) {
			continue
		}
		if len(f.Types) > 0 && !containsType(f.Types, ev.Category) {
			continue
		}
		if f.Price == PriceFree && ev.Price > 0 {
			continue
		}
		if f.Price == PricePaid && ev.Price == 0 {
			continue
		}
		out = append(out, ev)
	}
	return out
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func containsType(types []string, category string) bool {
	for _, t := range types {
		if t == category {
			return true
		}
	}
	return false
}
