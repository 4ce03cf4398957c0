package rsvp

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"

	"mapmeet/calendar"
	"mapmeet/globals"
	"mapmeet/mailer"
	"mapmeet/models"
	"mapmeet/utils"
)

type Handler struct {
	RSVPs    models.RSVPStore
	Events   models.EventStore
	Users    models.UserStore
	Mail     mailer.Mailer
	Calendar calendar.Inviter
	Now      func() time.Time
}

func (h *Handler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

// Toggle handles POST /api/rsvp/event/:eventid. An existing RSVP is
// removed, a missing one is created. The lookup is indexed on
// (event, user). Everything after the store write is best effort:
// emails, the calendar invite and the counters never fail the toggle.
func (h *Handler) Toggle(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
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

	existing, err := h.RSVPs.Find(r.Context(), event.EventID, userID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to look up RSVP")
		return
	}

	user, uerr := h.Users.Get(r.Context(), userID)
	if uerr != nil {
		log.Printf("rsvp user lookup failed: %v", uerr)
	}

	if existing != nil {
		if err := h.RSVPs.Delete(r.Context(), existing.RSVPID); err != nil {
			utils.RespondWithError(w, http.StatusInternalServerError, "failed to cancel RSVP")
			return
		}

		if err := h.Users.AdjustCounters(r.Context(), userID, 0, -1); err != nil {
			log.Printf("attendance counter update failed: %v", err)
		}
		if user.Email != "" {
			subject := fmt.Sprintf("RSVP cancelled: %s", event.Title)
			body := fmt.Sprintf("<p>Your RSVP for <strong>%s</strong> has been cancelled.</p>", event.Title)
			if err := h.Mail.Send(user.Email, subject, body); err != nil {
				log.Printf("cancellation email failed: %v", err)
			}
		}

		utils.RespondWithJSON(w, http.StatusOK, utils.M{"attending": false, "eventId": event.EventID})
		return
	}

	record := models.RSVP{
		RSVPID:        utils.GenerateID(14),
		UserID:        userID,
		EventID:       event.EventID,
		RSVPAt:        h.now(),
		CalendarAdded: true,
	}
	if err := h.RSVPs.Insert(r.Context(), record); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to save RSVP")
		return
	}

	var warnings []string

	if user.Email != "" {
		subject := fmt.Sprintf("You're going: %s", event.Title)
		body := fmt.Sprintf("<p>You are confirmed for <strong>%s</strong> on %s at %s.</p>",
			event.Title, event.StartDateTime.Format("Jan 2, 2006 at 3:04 PM"), event.LocationAddress)
		if err := h.Mail.Send(user.Email, subject, body); err != nil {
			log.Printf("confirmation email failed: %v", err)
			warnings = append(warnings, "confirmation email could not be sent")
		}
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

	if err := h.Users.AdjustCounters(r.Context(), userID, 0, 1); err != nil {
		log.Printf("attendance counter update failed: %v", err)
		warnings = append(warnings, "profile counters not updated")
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"attending": true,
		"eventId":   event.EventID,
		"rsvp":      record,
		"warnings":  warnings,
	})
}

// ListMine handles GET /api/rsvp/mine.
func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID, ok := r.Context().Value(globals.UserIDKey).(string)
	if !ok || userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	rsvps, err := h.RSVPs.ListByUser(r.Context(), userID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to load RSVPs")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"rsvps": rsvps})
}
