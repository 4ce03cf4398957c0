package rsvp

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/julienschmidt/httprouter"

	"mapmeet/globals"
	"mapmeet/mocks"
	"mapmeet/models"
)

func newToggleHandler() (*Handler, *mocks.MockRSVPStore, *mocks.MockUserStore, *mocks.MockMailer) {
	start := time.Date(2025, 7, 10, 18, 0, 0, 0, time.UTC)
	rsvpStore := &mocks.MockRSVPStore{}
	userStore := &mocks.MockUserStore{Users: map[string]models.User{
		"u1": {UserID: "u1", Email: "u1@example.com", EventsAttended: 3},
	}}
	mail := &mocks.MockMailer{}

	h := &Handler{
		RSVPs: rsvpStore,
		Events: &mocks.MockEventStore{Items: []models.Event{{
			EventID:       "ev1",
			Title:         "Summer Picnic",
			StartDateTime: start,
			EndDateTime:   start.Add(time.Hour),
		}}},
		Users:    userStore,
		Mail:     mail,
		Calendar: &mocks.MockInviter{},
		Now:      func() time.Time { return start.Add(-24 * time.Hour) },
	}
	return h, rsvpStore, userStore, mail
}

func toggle(h *Handler, userID string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/rsvp/event/ev1", nil)
	req = req.WithContext(context.WithValue(req.Context(), globals.UserIDKey, userID))
	rec := httptest.NewRecorder()
	h.Toggle(rec, req, httprouter.Params{{Key: "eventid", Value: "ev1"}})
	return rec
}

func TestToggleCreatesThenRemoves(t *testing.T) {
	h, rsvpStore, userStore, mail := newToggleHandler()

	rec := toggle(h, "u1")
	if rec.Code != http.StatusOK {
		t.Fatalf("first toggle: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if len(rsvpStore.Items) != 1 {
		t.Fatalf("first toggle should insert an RSVP")
	}
	if !rsvpStore.Items[0].CalendarAdded {
		t.Fatalf("stored RSVP should carry the calendar-sync flag")
	}
	if userStore.Users["u1"].EventsAttended != 4 {
		t.Fatalf("attended counter should bump to 4, got %d", userStore.Users["u1"].EventsAttended)
	}

	rec = toggle(h, "u1")
	if rec.Code != http.StatusOK {
		t.Fatalf("second toggle: expected 200, got %d", rec.Code)
	}
	if len(rsvpStore.Items) != 0 {
		t.Fatalf("double toggle should leave zero RSVP records")
	}
	if userStore.Users["u1"].EventsAttended != 3 {
		t.Fatalf("attended counter should return to 3, got %d", userStore.Users["u1"].EventsAttended)
	}
	if len(mail.Sent) != 2 {
		t.Fatalf("expected confirmation then cancellation email, got %v", mail.Sent)
	}
}

func TestToggleEmailFailureIsSoft(t *testing.T) {
	h, rsvpStore, _, mail := newToggleHandler()
	mail.FailFor = map[string]bool{"u1@example.com": true}

	rec := toggle(h, "u1")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 despite email failure, got %d", rec.Code)
	}
	if len(rsvpStore.Items) != 1 {
		t.Fatalf("RSVP should still be stored")
	}
}

func TestToggleUnknownEvent(t *testing.T) {
	h, _, _, _ := newToggleHandler()

	req := httptest.NewRequest(http.MethodPost, "/api/rsvp/event/missing", nil)
	req = req.WithContext(context.WithValue(req.Context(), globals.UserIDKey, "u1"))
	rec := httptest.NewRecorder()
	h.Toggle(rec, req, httprouter.Params{{Key: "eventid", Value: "missing"}})

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
