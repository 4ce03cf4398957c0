package events

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"mapmeet/globals"
	"mapmeet/mocks"
	"mapmeet/models"
)

func newCreateHandler() (*Handler, *mocks.MockEventStore, *mocks.MockUserStore, *mocks.MockRSVPStore, *mocks.MockTagger) {
	eventStore := &mocks.MockEventStore{}
	userStore := &mocks.MockUserStore{Users: map[string]models.User{
		"organizer": {UserID: "organizer", Username: "org", Email: "org@example.com"},
	}}
	rsvpStore := &mocks.MockRSVPStore{}
	tag := &mocks.MockTagger{Result: []string{"outdoors", "social"}}

	h := &Handler{
		Events:   eventStore,
		Users:    userStore,
		RSVPs:    rsvpStore,
		Geo:      &mocks.MockGeocoder{Coords: models.Coordinates{Lat: 35.6, Lng: 139.7}},
		Tagger:   tag,
		Mail:     &mocks.MockMailer{},
		Calendar: &mocks.MockInviter{},
		Photos:   &mocks.MockSaver{PhotoURL: "/uploads/event/photo/x.jpg", ThumbURL: "/uploads/event/thumb/x.jpg"},
		Live:     &mocks.MockBroadcaster{},
		Now:      func() time.Time { return time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC) },
	}
	return h, eventStore, userStore, rsvpStore, tag
}

func multipartDraft(t *testing.T, draft EventDraft) (*bytes.Buffer, string) {
	t.Helper()
	payload, err := json.Marshal(draft)
	if err != nil {
		t.Fatalf("marshal draft: %v", err)
	}
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	if err := mw.WriteField("event", string(payload)); err != nil {
		t.Fatalf("write field: %v", err)
	}
	mw.Close()
	return body, mw.FormDataContentType()
}

func postDraft(t *testing.T, h *Handler, draft EventDraft) *httptest.ResponseRecorder {
	t.Helper()
	body, contentType := multipartDraft(t, draft)
	req := httptest.NewRequest(http.MethodPost, "/api/events/event", body)
	req.Header.Set("Content-Type", contentType)
	req = req.WithContext(context.WithValue(req.Context(), globals.UserIDKey, "organizer"))

	rec := httptest.NewRecorder()
	h.CreateEvent(rec, req, nil)
	return rec
}

func validDraft() EventDraft {
	return EventDraft{
		Title:           "Summer Picnic",
		Description:     "Bring snacks",
		LocationAddress: "Yoyogi Park",
		StartDateTime:   "2025-07-10T18:00",
		Category:        "parties",
	}
}

func TestCreateEventHappyPath(t *testing.T) {
	h, eventStore, userStore, rsvpStore, _ := newCreateHandler()

	rec := postDraft(t, h, validDraft())

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if len(eventStore.Items) != 1 {
		t.Fatalf("event not persisted")
	}
	saved := eventStore.Items[0]
	if saved.Coords.Lat != 35.6 || saved.Coords.Lng != 139.7 {
		t.Fatalf("geocoded coords not stored: %+v", saved.Coords)
	}
	if saved.EndDateTime.Sub(saved.StartDateTime) != 60*time.Minute {
		t.Fatalf("missing end should default to start+60m")
	}
	if len(saved.Tags) != 2 {
		t.Fatalf("tags not applied: %v", saved.Tags)
	}
	if len(rsvpStore.Items) != 1 || rsvpStore.Items[0].UserID != "organizer" {
		t.Fatalf("organizer should be auto-RSVPed")
	}
	if !rsvpStore.Items[0].CalendarAdded {
		t.Fatalf("auto-RSVP should carry the calendar-sync flag")
	}
	org := userStore.Users["organizer"]
	if org.EventsHosted != 1 || org.EventsAttended != 1 {
		t.Fatalf("counters wrong: hosted=%d attended=%d", org.EventsHosted, org.EventsAttended)
	}
}

func TestCreateEventRejectsBadDatesWithoutPersisting(t *testing.T) {
	h, eventStore, _, _, _ := newCreateHandler()

	draft := validDraft()
	draft.StartDateTime = "2024-06-01T20:00"
	draft.EndDateTime = "2024-06-01T19:00"
	rec := postDraft(t, h, draft)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if len(eventStore.Items) != 0 {
		t.Fatalf("store must not be touched on validation failure")
	}
}

func TestCreateEventGeocodeFailureIsHard(t *testing.T) {
	h, eventStore, _, _, _ := newCreateHandler()
	h.Geo = &mocks.MockGeocoder{Fail: true}

	rec := postDraft(t, h, validDraft())

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rec.Code)
	}
	if len(eventStore.Items) != 0 {
		t.Fatalf("nothing should be persisted when geocoding fails")
	}
}

func TestCreateEventTaggingFailureIsSoft(t *testing.T) {
	h, eventStore, _, _, tag := newCreateHandler()
	tag.Fail = true

	rec := postDraft(t, h, validDraft())

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 despite tagger failure, got %d", rec.Code)
	}
	if len(eventStore.Items) != 1 {
		t.Fatalf("event should still be persisted")
	}
	if len(eventStore.Items[0].Tags) != 0 {
		t.Fatalf("tags should be empty on tagger failure, got %v", eventStore.Items[0].Tags)
	}

	var resp struct {
		Warnings []string `json:"warnings"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Warnings) == 0 {
		t.Fatalf("tagger failure should surface a warning")
	}
}

func TestCreateEventInsertFailureIsHard(t *testing.T) {
	h, eventStore, _, rsvpStore, _ := newCreateHandler()
	eventStore.FailInsert = true

	rec := postDraft(t, h, validDraft())

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if len(rsvpStore.Items) != 0 {
		t.Fatalf("no RSVP should exist when the insert failed")
	}
}

func TestCreateEventUsesCurrentLocation(t *testing.T) {
	h, eventStore, _, _, _ := newCreateHandler()
	h.Geo = &mocks.MockGeocoder{Fail: true} // must not be called

	draft := validDraft()
	draft.LocationAddress = ""
	draft.UseCurrentLocation = true
	draft.CurrentLat = 51.5
	draft.CurrentLng = -0.12
	rec := postDraft(t, h, draft)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	saved := eventStore.Items[0]
	if saved.Coords.Lat != 51.5 || saved.Coords.Lng != -0.12 {
		t.Fatalf("current location coords not used: %+v", saved.Coords)
	}
}
