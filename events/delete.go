package events

import (
	"fmt"
	"log"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"mapmeet/globals"
	"mapmeet/mq"
	"mapmeet/utils"
)

// DeleteEvent handles DELETE /api/events/event/:eventid. Only the
// organizer may delete. Every RSVP holder is notified by email; each
// notification runs independently so one bad address never blocks the
// others or the deletion itself. The response carries the delivery
// report.
func (h *Handler) DeleteEvent(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
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
		utils.RespondWithError(w, http.StatusForbidden, "only the organizer can delete this event")
		return
	}

	rsvps, err := h.RSVPs.ListByEvent(r.Context(), event.EventID)
	if err != nil {
		log.Printf("rsvp lookup for delete notice failed: %v", err)
		rsvps = nil
	}

	var recipients []string
	for _, rsvp := range rsvps {
		user, uerr := h.Users.Get(r.Context(), rsvp.UserID)
		if uerr != nil {
			log.Printf("recipient lookup failed for %s: %v", rsvp.UserID, uerr)
			continue
		}
		if user.Email != "" {
			recipients = append(recipients, user.Email)
		}
	}

	subject := fmt.Sprintf("Event cancelled: %s", event.Title)
	body := fmt.Sprintf("<p>The event <strong>%s</strong> scheduled for %s has been cancelled by the organizer.</p>",
		event.Title, event.StartDateTime.Format("Jan 2, 2006 at 3:04 PM"))
	report := mq.FanOut(r.Context(), h.Mail, recipients, subject, body)

	if err := h.Events.Delete(r.Context(), event.EventID); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to delete event")
		return
	}

	for _, rsvp := range rsvps {
		if err := h.RSVPs.Delete(r.Context(), rsvp.RSVPID); err != nil {
			log.Printf("rsvp cleanup failed for %s: %v", rsvp.RSVPID, err)
		}
	}

	if err := h.Users.AdjustCounters(r.Context(), userID, -1, 0); err != nil {
		log.Printf("organizer counter update failed: %v", err)
	}

	mq.Emit(r.Context(), "event-deleted", mq.Index{EntityType: "event", Method: "DELETE", EntityId: event.EventID})
	h.broadcastDeleted(event.EventID)

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"deleted":       event.EventID,
		"notifications": report,
	})
}
