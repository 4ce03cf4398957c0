package feed

import (
	"net/http"
	"strings"
	"time"

	"github.com/julienschmidt/httprouter"

	"mapmeet/globals"
	"mapmeet/models"
	"mapmeet/utils"
)

type Handler struct {
	Events  models.EventStore
	Markers *MarkerSets
	Now     func() time.Time
}

func NewHandler(events models.EventStore) *Handler {
	return &Handler{Events: events, Markers: NewMarkerSets(), Now: time.Now}
}

// GetFeed handles GET /api/feed/events?date=2025-07-04&types=parties,concerts&price=free
func (h *Handler) GetFeed(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	filter, err := parseFilter(r)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	all, err := h.Events.List(r.Context())
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to load events")
		return
	}

	filtered := FilterEvents(all, filter, h.Now())

	// The diff baseline is per viewer. Anonymous requests without a
	// client key get a fresh map: everything added, nothing removed.
	markers := NewMarkerSet()
	if key := clientKey(r); key != "" {
		markers = h.Markers.For(key)
	}
	removed, added := markers.Sync(filtered)

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"events": filtered,
		"markers": utils.M{
			"removed": removed,
			"added":   added,
		},
	})
}

// clientKey identifies the map view owning the marker baseline: the
// authenticated user when present, else an explicit client id.
func clientKey(r *http.Request) string {
	if id, ok := r.Context().Value(globals.UserIDKey).(string); ok && id != "" {
		return id
	}
	return r.URL.Query().Get("client")
}

func parseFilter(r *http.Request) (Filter, error) {
	q := r.URL.Query()
	filter := Filter{Price: PriceAll}

	if raw := q.Get("date"); raw != "" {
		day, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return Filter{}, err
		}
		filter.Date = &day
	}

	if raw := q.Get("types"); raw != "" {
		for _, t := range strings.Split(raw, ",") {
			if t = strings.TrimSpace(t); t != "" {
				filter.Types = append(filter.Types, t)
			}
		}
	}

	switch PriceFilter(q.Get("price")) {
	case PriceFree:
		filter.Price = PriceFree
	case PricePaid:
		filter.Price = PricePaid
	case PriceAll, "":
		filter.Price = PriceAll
	}

	return filter, nil
}
