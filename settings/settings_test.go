package settings

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"mapmeet/globals"
	"mapmeet/mocks"
	"mapmeet/models"
)

func newSettingsHandler() (*Handler, *mocks.MockUserStore) {
	users := &mocks.MockUserStore{Users: map[string]models.User{
		"u1": {UserID: "u1", Notifications: models.DefaultNotificationSettings()},
	}}
	h := &Handler{
		Users: users,
		Now:   func() time.Time { return time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC) },
	}
	return h, users
}

func TestUpdatePreferencesRejectsUnknownCategory(t *testing.T) {
	h, users := newSettingsHandler()

	req := httptest.NewRequest(http.MethodPut, "/api/settings/preferences",
		strings.NewReader(`{"event_preference":["parties","skydiving"]}`))
	req = req.WithContext(context.WithValue(req.Context(), globals.UserIDKey, "u1"))
	rec := httptest.NewRecorder()
	h.UpdatePreferences(rec, req, nil)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if len(users.Users["u1"].EventPreferences) != 0 {
		t.Fatalf("preferences must not change on rejection")
	}
}

func TestUpdatePreferencesStoresValidCategories(t *testing.T) {
	h, users := newSettingsHandler()

	req := httptest.NewRequest(http.MethodPut, "/api/settings/preferences",
		strings.NewReader(`{"event_preference":["parties","concerts"]}`))
	req = req.WithContext(context.WithValue(req.Context(), globals.UserIDKey, "u1"))
	rec := httptest.NewRecorder()
	h.UpdatePreferences(rec, req, nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	prefs := users.Users["u1"].EventPreferences
	if len(prefs) != 2 || prefs[0] != "parties" || prefs[1] != "concerts" {
		t.Fatalf("preferences not stored: %v", prefs)
	}
}

func TestUpdateNotifications(t *testing.T) {
	h, users := newSettingsHandler()

	req := httptest.NewRequest(http.MethodPut, "/api/settings/notifications",
		strings.NewReader(`{"weekly_summary":false,"event_created":true,"event_cancelled":false}`))
	req = req.WithContext(context.WithValue(req.Context(), globals.UserIDKey, "u1"))
	rec := httptest.NewRecorder()
	h.UpdateNotifications(rec, req, nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	got := users.Users["u1"].Notifications
	if got.WeeklySummary || !got.EventCreated || got.EventCancelled {
		t.Fatalf("notification settings not stored: %+v", got)
	}
}
