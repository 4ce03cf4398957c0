package events

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"mapmeet/filemgr"
	"mapmeet/globals"
	"mapmeet/models"
	"mapmeet/mq"
	"mapmeet/utils"
)

// EditEvent handles PUT /api/events/event/:eventid. Only the organizer
// may edit. The location is re-geocoded only when its text actually
// changed; tags are recomputed on every edit since the description may
// have drifted.
func (h *Handler) EditEvent(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID, ok := r.Context().Value(globals.UserIDKey).(string)
	if !ok || userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	event, err := h.Events.Get(r.Context(), ps.ByName("eventid"))
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "event not found")
		return
	}
	if event.OrganizerID != userID {
		utils.RespondWithError(w, http.StatusForbidden, "only the organizer can edit this event")
		return
	}

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid form data")
		return
	}

	var draft EventDraft
	if err := json.Unmarshal([]byte(r.FormValue("event")), &draft); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid event payload")
		return
	}

	if missing := draft.Validate(); len(missing) > 0 {
		utils.RespondWithJSON(w, http.StatusBadRequest, utils.M{
			"error":          "missing required fields",
			"missing_fields": missing,
		})
		return
	}

	start, end, err := draft.Times()
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	if draft.Category != "" && !models.IsValidCategory(draft.Category) {
		utils.RespondWithError(w, http.StatusBadRequest, "unknown event category")
		return
	}

	if file, header, ferr := r.FormFile("photo"); ferr == nil {
		photoURL, thumbURL, perr := h.Photos.SavePhoto(file, header, filemgr.EntityEvent)
		if perr != nil {
			utils.RespondWithError(w, http.StatusBadRequest, "photo upload failed: "+perr.Error())
			return
		}
		event.PhotoURL = photoURL
		event.ThumbURL = thumbURL
	}

	locationChanged := draft.LocationAddress != event.LocationAddress
	if draft.UseCurrentLocation {
		event.Coords = models.Coordinates{Lat: draft.CurrentLat, Lng: draft.CurrentLng}
	} else if locationChanged {
		coords, gerr := h.Geo.Geocode(r.Context(), draft.LocationAddress)
		if gerr != nil {
			utils.RespondWithError(w, http.StatusBadGateway, "could not resolve event location")
			return
		}
		event.Coords = coords
	}

	var warnings []string

	tags, terr := h.Tagger.Tags(r.Context(), draft.Description)
	if terr != nil {
		log.Printf("event tagging failed: %v", terr)
		tags = event.Tags
		warnings = append(warnings, "automatic tagging unavailable")
	}

	event.Title = draft.Title
	event.Description = draft.Description
	event.LocationAddress = draft.LocationAddress
	event.StartDateTime = start
	event.EndDateTime = end
	event.Category = draft.Category
	event.Price = draft.Price
	event.MinAge = draft.MinAge
	event.Tags = tags
	event.UpdatedAt = h.now()

	if err := h.Events.Update(r.Context(), event); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to save event")
		return
	}

	mq.Emit(r.Context(), "event-updated", mq.Index{EntityType: "event", Method: "PUT", EntityId: event.EventID})
	h.broadcastUpdated(&event)

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"event":    event,
		"warnings": warnings,
	})
}
