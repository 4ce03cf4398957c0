package share

import (
	"net/http"
	"os"
	"strings"

	"github.com/julienschmidt/httprouter"
	qrcode "github.com/skip2/go-qrcode"

	"mapmeet/models"
	"mapmeet/utils"
)

// BuildLink constructs the shareable deep link for an event.
func BuildLink(origin, eventID string) string {
	return strings.TrimRight(origin, "/") + "?event=" + eventID
}

// OriginFromRequest prefers the configured public base URL and falls
// back to the request's own host.
func OriginFromRequest(r *http.Request) string {
	if base := os.Getenv("PUBLIC_BASE_URL"); base != "" {
		return base
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}

type Handler struct {
	Events models.EventStore
}

func NewHandler(events models.EventStore) *Handler {
	return &Handler{Events: events}
}

// Resolve handles GET /api/share/resolve?event=<id>. An unknown id is
// informational, not an error, so clients can strip the parameter and
// show a notice.
func (h *Handler) Resolve(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	eventID := r.URL.Query().Get("event")
	if eventID == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "event parameter is required")
		return
	}

	event, err := h.Events.Get(r.Context(), eventID)
	if err != nil {
		utils.RespondWithJSON(w, http.StatusOK, utils.M{
			"found":   false,
			"message": "This event is no longer available",
		})
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"found": true,
		"event": event,
		"link":  BuildLink(OriginFromRequest(r), event.EventID),
	})
}

// QR handles GET /api/share/event/:eventid/qr and returns a PNG
// encoding of the share link.
func (h *Handler) QR(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	event, err := h.Events.Get(r.Context(), ps.ByName("eventid"))
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "event not found")
		return
	}

	png, err := qrcode.Encode(BuildLink(OriginFromRequest(r), event.EventID), qrcode.Medium, 256)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to generate QR code")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}
