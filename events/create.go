package events

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"

	"mapmeet/calendar"
	"mapmeet/filemgr"
	"mapmeet/globals"
	"mapmeet/models"
	"mapmeet/mq"
	"mapmeet/utils"
)

// CreateEvent handles POST /api/events/event. The form carries the
// draft as an "event" JSON part plus an optional "photo" file.
//
// Photo upload, geocoding and the insert itself are hard steps: any
// failure aborts with nothing persisted. Tagging, the organizer's
// auto-RSVP, the calendar invite and the counter bumps are soft steps
// reported back as warnings.
func (h *Handler) CreateEvent(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID, ok := r.Context().Value(globals.UserIDKey).(string)
	if !ok || userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
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

	var photoURL, thumbURL string
	if file, header, ferr := r.FormFile("photo"); ferr == nil {
		photoURL, thumbURL, err = h.Photos.SavePhoto(file, header, filemgr.EntityEvent)
		if err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, "photo upload failed: "+err.Error())
			return
		}
	}

	coords := models.Coordinates{Lat: draft.CurrentLat, Lng: draft.CurrentLng}
	if !draft.UseCurrentLocation {
		coords, err = h.Geo.Geocode(r.Context(), draft.LocationAddress)
		if err != nil {
			utils.RespondWithError(w, http.StatusBadGateway, "could not resolve event location")
			return
		}
	}

	var warnings []string

	tags, terr := h.Tagger.Tags(r.Context(), draft.Description)
	if terr != nil {
		log.Printf("event tagging failed: %v", terr)
		tags = []string{}
		warnings = append(warnings, "automatic tagging unavailable")
	}

	now := h.now()
	event := models.Event{
		EventID:         utils.GenerateID(14),
		Title:           draft.Title,
		Description:     draft.Description,
		LocationAddress: draft.LocationAddress,
		Coords:          coords,
		StartDateTime:   start,
		EndDateTime:     end,
		Category:        draft.Category,
		OrganizerID:     userID,
		Price:           draft.Price,
		MinAge:          draft.MinAge,
		PhotoURL:        photoURL,
		ThumbURL:        thumbURL,
		Tags:            tags,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := h.Events.Insert(r.Context(), event); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to save event")
		return
	}

	attendedDelta := 0
	rsvp := models.RSVP{
		RSVPID:        utils.GenerateID(14),
		UserID:        userID,
		EventID:       event.EventID,
		RSVPAt:        now,
		CalendarAdded: true,
	}
	if err := h.RSVPs.Insert(r.Context(), rsvp); err != nil {
		log.Printf("organizer auto-rsvp failed: %v", err)
		warnings = append(warnings, "could not RSVP you to your own event")
	} else {
		attendedDelta = 1
	}

	duration := event.EndDateTime.Sub(event.StartDateTime)
	if err := h.Calendar.CreateEntry(r.Context(), calendar.Invite{
		Summary:         event.Title,
		Description:     event.Description,
		Location:        event.LocationAddress,
		Start:           event.StartDateTime,
		DurationHours:   int(duration / time.Hour),
		DurationMinutes: int(duration % time.Hour / time.Minute),
	}); err != nil {
		log.Printf("calendar invite failed: %v", err)
		warnings = append(warnings, "calendar invite could not be created")
	}

	if err := h.Users.AdjustCounters(r.Context(), userID, 1, attendedDelta); err != nil {
		log.Printf("organizer counter update failed: %v", err)
		warnings = append(warnings, "profile counters not updated")
	}

	mq.Emit(r.Context(), "event-created", mq.Index{EntityType: "event", Method: "POST", EntityId: event.EventID})
	h.broadcastCreated(&event)

	utils.RespondWithJSON(w, http.StatusCreated, utils.M{
		"event":    event,
		"warnings": warnings,
	})
}
