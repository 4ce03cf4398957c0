package settings

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"

	"mapmeet/globals"
	"mapmeet/models"
	"mapmeet/utils"
)

type Handler struct {
	Users models.UserStore
	Now   func() time.Time
}

func (h *Handler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

// GetSettings handles GET /api/settings.
func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID, ok := r.Context().Value(globals.UserIDKey).(string)
	if !ok || userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	user, err := h.Users.Get(r.Context(), userID)
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "account not found")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"event_preference":     user.EventPreferences,
		"notification_setting": user.Notifications,
	})
}

// UpdatePreferences handles PUT /api/settings/preferences. Unknown
// categories are rejected.
func (h *Handler) UpdatePreferences(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID, ok := r.Context().Value(globals.UserIDKey).(string)
	if !ok || userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var payload struct {
		EventPreferences []string `json:"event_preference"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	for _, category := range payload.EventPreferences {
		if !models.IsValidCategory(category) {
			utils.RespondWithError(w, http.StatusBadRequest, "unknown event category: "+category)
			return
		}
	}

	user, err := h.Users.Get(r.Context(), userID)
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "account not found")
		return
	}

	user.EventPreferences = payload.EventPreferences
	user.UpdatedAt = h.now()
	if err := h.Users.Update(r.Context(), user); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to save preferences")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"event_preference": user.EventPreferences})
}

// UpdateNotifications handles PUT /api/settings/notifications.
func (h *Handler) UpdateNotifications(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID, ok := r.Context().Value(globals.UserIDKey).(string)
	if !ok || userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var payload models.NotificationSettings
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.Users.Get(r.Context(), userID)
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "account not found")
		return
	}

	user.Notifications = payload
	user.UpdatedAt = h.now()
	if err := h.Users.Update(r.Context(), user); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to save notification settings")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"notification_setting": user.Notifications})
}
