package events

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/julienschmidt/httprouter"

	"mapmeet/globals"
	"mapmeet/mocks"
	"mapmeet/models"
	"mapmeet/mq"
)

func newDeleteHandler() (*Handler, *mocks.MockEventStore, *mocks.MockRSVPStore, *mocks.MockMailer) {
	start := time.Date(2025, 7, 10, 18, 0, 0, 0, time.UTC)
	eventStore := &mocks.MockEventStore{Items: []models.Event{{
		EventID:       "ev1",
		Title:         "Summer Picnic",
		OrganizerID:   "organizer",
		StartDateTime: start,
		EndDateTime:   start.Add(time.Hour),
	}}}
	rsvpStore := &mocks.MockRSVPStore{Items: []models.RSVP{
		{RSVPID: "r1", EventID: "ev1", UserID: "u1"},
		{RSVPID: "r2", EventID: "ev1", UserID: "u2"},
		{RSVPID: "r3", EventID: "ev1", UserID: "u3"},
	}}
	userStore := &mocks.MockUserStore{Users: map[string]models.User{
		"organizer": {UserID: "organizer", Email: "org@example.com", EventsHosted: 1},
		"u1":        {UserID: "u1", Email: "u1@example.com"},
		"u2":        {UserID: "u2", Email: "u2@example.com"},
		"u3":        {UserID: "u3", Email: "u3@example.com"},
	}}
	mail := &mocks.MockMailer{}

	h := &Handler{
		Events: eventStore,
		Users:  userStore,
		RSVPs:  rsvpStore,
		Mail:   mail,
		Live:   &mocks.MockBroadcaster{},
	}
	return h, eventStore, rsvpStore, mail
}

func deleteEvent(h *Handler, userID string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodDelete, "/api/events/event/ev1", nil)
	req = req.WithContext(context.WithValue(req.Context(), globals.UserIDKey, userID))
	rec := httptest.NewRecorder()
	h.DeleteEvent(rec, req, httprouter.Params{{Key: "eventid", Value: "ev1"}})
	return rec
}

func TestDeleteEventOrganizerOnly(t *testing.T) {
	h, eventStore, _, _ := newDeleteHandler()

	rec := deleteEvent(h, "u1")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
	if len(eventStore.Items) != 1 {
		t.Fatalf("event must survive a forbidden delete")
	}
}

func TestDeleteEventNotifiesAllRecipientsIndependently(t *testing.T) {
	h, eventStore, rsvpStore, mail := newDeleteHandler()
	mail.FailFor = map[string]bool{"u2@example.com": true}

	rec := deleteEvent(h, "organizer")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	if len(eventStore.Items) != 0 {
		t.Fatalf("event should be deleted despite one failed email")
	}
	if len(rsvpStore.Items) != 0 {
		t.Fatalf("rsvps should be cleaned up")
	}
	if len(mail.Sent) != 2 {
		t.Fatalf("one failure must not block the others, sent=%v", mail.Sent)
	}

	var resp struct {
		Notifications mq.Report `json:"notifications"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Notifications.Sent) != 2 {
		t.Fatalf("report should list 2 sent, got %v", resp.Notifications.Sent)
	}
	if _, ok := resp.Notifications.Failed["u2@example.com"]; !ok {
		t.Fatalf("report should name the failed recipient: %v", resp.Notifications.Failed)
	}
}
