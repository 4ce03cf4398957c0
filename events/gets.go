package events

import (
	"log"
	"net/http"
	"regexp"
	"strconv"

	"github.com/julienschmidt/httprouter"

	"mapmeet/utils"
)

// coordsPattern matches addresses that are really raw "lat, lng" pairs
// saved by clients that used the device location.
var coordsPattern = regexp.MustCompile(`^-?\d+\.?\d*,\s*-?\d+\.?\d*$`)

// GetEvents handles GET /api/events/events?page=&limit=. Store order
// is preserved. Coordinate-looking addresses are reverse geocoded on
// the way out so the feed shows something readable; failures leave the
// raw pair in place.
func (h *Handler) GetEvents(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	all, err := h.Events.List(r.Context())
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to load events")
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 || limit > 100 {
		limit = 20
	}

	startIdx := (page - 1) * limit
	if startIdx > len(all) {
		startIdx = len(all)
	}
	endIdx := startIdx + limit
	if endIdx > len(all) {
		endIdx = len(all)
	}
	pageEvents := all[startIdx:endIdx]

	for i := range pageEvents {
		if !coordsPattern.MatchString(pageEvents[i].LocationAddress) {
			continue
		}
		addr, gerr := h.Geo.ReverseGeocode(r.Context(), pageEvents[i].Coords.Lat, pageEvents[i].Coords.Lng)
		if gerr != nil {
			log.Printf("reverse geocode failed for %s: %v", pageEvents[i].EventID, gerr)
			continue
		}
		pageEvents[i].LocationAddress = addr
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"events": pageEvents,
		"page":   page,
		"limit":  limit,
		"total":  len(all),
	})
}

// GetEvent handles GET /api/events/event/:eventid.
func (h *Handler) GetEvent(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	event, err := h.Events.Get(r.Context(), ps.ByName("eventid"))
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "event not found")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, event)
}

// SuggestLocations handles GET /api/events/locations?q=. It proxies
// the autocomplete service for the event form.
func (h *Handler) SuggestLocations(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	input := r.URL.Query().Get("q")
	if len(input) < 3 {
		utils.RespondWithJSON(w, http.StatusOK, utils.M{"suggestions": []any{}})
		return
	}

	suggestions, err := h.Geo.Suggest(r.Context(), input)
	if err != nil {
		log.Printf("location suggest failed: %v", err)
		utils.RespondWithJSON(w, http.StatusOK, utils.M{"suggestions": []any{}})
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"suggestions": suggestions})
}
