package friends

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/julienschmidt/httprouter"

	"mapmeet/globals"
	"mapmeet/models"
	"mapmeet/utils"
)

type Handler struct {
	Friendships models.FriendshipStore
	Users       models.UserStore
	RSVPs       models.RSVPStore
	Now         func() time.Time
}

func (h *Handler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

// Request handles POST /api/friends/request. The target is identified
// by email. An unknown email is informational, not an error. A pending
// or accepted link in either direction blocks a new request.
func (h *Handler) Request(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID, ok := r.Context().Value(globals.UserIDKey).(string)
	if !ok || userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var payload struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	payload.Email = strings.TrimSpace(strings.ToLower(payload.Email))
	if payload.Email == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "email is required")
		return
	}

	target, err := h.Users.GetByEmail(r.Context(), payload.Email)
	if err != nil {
		utils.RespondWithJSON(w, http.StatusOK, utils.M{
			"sent":    false,
			"message": "No user found with that email",
		})
		return
	}
	if target.UserID == userID {
		utils.RespondWithError(w, http.StatusBadRequest, "you cannot befriend yourself")
		return
	}

	existing, err := h.Friendships.FindBetween(r.Context(), userID, target.UserID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to check friendship")
		return
	}
	if existing != nil {
		msg := "You are already friends"
		if existing.Status == models.FriendshipPending {
			msg = "A friend request between you is already pending"
		}
		utils.RespondWithJSON(w, http.StatusConflict, utils.M{"sent": false, "message": msg})
		return
	}

	now := h.now()
	friendship := models.Friendship{
		FriendshipID: utils.GenerateID(14),
		RequesterID:  userID,
		RecipientID:  target.UserID,
		Status:       models.FriendshipPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := h.Friendships.Insert(r.Context(), friendship); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to save friend request")
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, utils.M{"sent": true, "friendship": friendship})
}

// Accept handles POST /api/friends/:friendshipid/accept. Only the
// recipient of the request may accept.
func (h *Handler) Accept(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID, ok := r.Context().Value(globals.UserIDKey).(string)
	if !ok || userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	friendship, err := h.Friendships.Get(r.Context(), ps.ByName("friendshipid"))
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "friend request not found")
		return
	}
	if friendship.RecipientID != userID {
		utils.RespondWithError(w, http.StatusForbidden, "this request is not addressed to you")
		return
	}
	if friendship.Status != models.FriendshipPending {
		utils.RespondWithError(w, http.StatusConflict, "request is not pending")
		return
	}

	friendship.Status = models.FriendshipAccepted
	friendship.UpdatedAt = h.now()
	if err := h.Friendships.Update(r.Context(), friendship); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to accept request")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, friendship)
}

// Remove handles DELETE /api/friends/:friendshipid. It serves both the
// decline-request and unfriend flows; either side may remove the link.
func (h *Handler) Remove(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID, ok := r.Context().Value(globals.UserIDKey).(string)
	if !ok || userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	friendship, err := h.Friendships.Get(r.Context(), ps.ByName("friendshipid"))
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "friendship not found")
		return
	}
	if friendship.RequesterID != userID && friendship.RecipientID != userID {
		utils.RespondWithError(w, http.StatusForbidden, "not your friendship")
		return
	}

	if err := h.Friendships.Delete(r.Context(), friendship.FriendshipID); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to remove friendship")
		return
	}

	utils.SendResponse(w, http.StatusOK, nil, "friendship removed", nil)
}

// List handles GET /api/friends. Accepted links appear once under
// "friends" no matter which side requested; pending ones are split by
// direction.
func (h *Handler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID, ok := r.Context().Value(globals.UserIDKey).(string)
	if !ok || userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	all, err := h.Friendships.ListForUser(r.Context(), userID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to load friendships")
		return
	}

	friends := []utils.M{}
	incoming := []models.Friendship{}
	outgoing := []models.Friendship{}
	for _, f := range all {
		switch f.Status {
		case models.FriendshipAccepted:
			otherID := f.RequesterID
			if otherID == userID {
				otherID = f.RecipientID
			}
			entry := utils.M{"friendshipId": f.FriendshipID, "userId": otherID}
			if other, uerr := h.Users.Get(r.Context(), otherID); uerr == nil {
				entry["username"] = other.Username
				entry["email"] = other.Email
			}
			friends = append(friends, entry)
		case models.FriendshipPending:
			if f.RecipientID == userID {
				incoming = append(incoming, f)
			} else {
				outgoing = append(outgoing, f)
			}
		}
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"friends":  friends,
		"incoming": incoming,
		"outgoing": outgoing,
	})
}

// FriendsGoing handles GET /api/friends/going/:eventid. It lists which
// of the caller's accepted friends hold an RSVP for the event.
func (h *Handler) FriendsGoing(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID, ok := r.Context().Value(globals.UserIDKey).(string)
	if !ok || userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	eventID := ps.ByName("eventid")

	all, err := h.Friendships.ListForUser(r.Context(), userID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to load friendships")
		return
	}

	var friendIDs []string
	for _, f := range all {
		if f.Status != models.FriendshipAccepted {
			continue
		}
		otherID := f.RequesterID
		if otherID == userID {
			otherID = f.RecipientID
		}
		friendIDs = append(friendIDs, otherID)
	}

	going := []utils.M{}
	if len(friendIDs) > 0 {
		rsvps, rerr := h.RSVPs.ListByUsers(r.Context(), friendIDs)
		if rerr != nil {
			utils.RespondWithError(w, http.StatusInternalServerError, "failed to load RSVPs")
			return
		}
		for _, rsvp := range rsvps {
			if rsvp.EventID != eventID {
				continue
			}
			entry := utils.M{"userId": rsvp.UserID}
			if friend, uerr := h.Users.Get(r.Context(), rsvp.UserID); uerr == nil {
				entry["username"] = friend.Username
			}
			going = append(going, entry)
		}
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"eventId": eventID, "going": going})
}
