package comments

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
	Comments models.CommentStore
	Events   models.EventStore
	Now      func() time.Time
}

func NewHandler(comments models.CommentStore, events models.EventStore) *Handler {
	return &Handler{Comments: comments, Events: events, Now: time.Now}
}

type commentPayload struct {
	Content  string `json:"content"`
	ParentID string `json:"parent_id,omitempty"`
}

// CreateComment handles POST /api/comments/event/:eventid. A parent_id
// must point at a top-level comment on the same event; deeper nesting
// is rejected.
func (h *Handler) CreateComment(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID, ok := r.Context().Value(globals.UserIDKey).(string)
	if !ok || userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	eventID := ps.ByName("eventid")

	var payload commentPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	payload.Content = strings.TrimSpace(payload.Content)
	if payload.Content == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "comment content is required")
		return
	}

	if _, err := h.Events.Get(r.Context(), eventID); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "event not found")
		return
	}

	if payload.ParentID != "" {
		parent, err := h.Comments.Get(r.Context(), payload.ParentID)
		if err != nil {
			utils.RespondWithError(w, http.StatusNotFound, "parent comment not found")
			return
		}
		if parent.EventID != eventID {
			utils.RespondWithError(w, http.StatusBadRequest, "parent comment belongs to a different event")
			return
		}
		if parentRef(parent) != "" {
			utils.RespondWithError(w, http.StatusBadRequest, "replies to replies are not supported")
			return
		}
	}

	now := h.Now()
	comment := models.Comment{
		CommentID: utils.GenerateID(14),
		EventID:   eventID,
		UserID:    userID,
		Content:   payload.Content,
		ParentID:  payload.ParentID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := h.Comments.Insert(r.Context(), comment); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to save comment")
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, comment)
}

// GetThreads handles GET /api/comments/event/:eventid.
func (h *Handler) GetThreads(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	eventID := ps.ByName("eventid")

	all, err := h.Comments.ListByEvent(r.Context(), eventID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to load comments")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, BuildThreads(all))
}

// UpdateComment handles PUT /api/comments/comment/:commentid. Only the author
// may edit, and only the text changes.
func (h *Handler) UpdateComment(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID, ok := r.Context().Value(globals.UserIDKey).(string)
	if !ok || userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	comment, err := h.Comments.Get(r.Context(), ps.ByName("commentid"))
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "comment not found")
		return
	}
	if comment.UserID != userID {
		utils.RespondWithError(w, http.StatusForbidden, "not your comment")
		return
	}

	var payload commentPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	payload.Content = strings.TrimSpace(payload.Content)
	if payload.Content == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "comment content is required")
		return
	}

	comment.Content = payload.Content
	comment.UpdatedAt = h.Now()
	if err := h.Comments.Update(r.Context(), comment); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to update comment")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, comment)
}

// DeleteComment handles DELETE /api/comments/comment/:commentid.
func (h *Handler) DeleteComment(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID, ok := r.Context().Value(globals.UserIDKey).(string)
	if !ok || userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	comment, err := h.Comments.Get(r.Context(), ps.ByName("commentid"))
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "comment not found")
		return
	}
	if comment.UserID != userID {
		utils.RespondWithError(w, http.StatusForbidden, "not your comment")
		return
	}

	if err := h.Comments.Delete(r.Context(), comment.CommentID); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to delete comment")
		return
	}

	utils.SendResponse(w, http.StatusOK, nil, "comment deleted", nil)
}
