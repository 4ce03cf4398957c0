package events

import (
	"time"

	"mapmeet/calendar"
	"mapmeet/filemgr"
	"mapmeet/geo"
	"mapmeet/mailer"
	"mapmeet/models"
	"mapmeet/tagger"
)

// Broadcaster pushes event change notifications to connected clients.
// The live hub satisfies it; tests swap in a recorder.
type Broadcaster interface {
	EventCreated(*models.Event)
	EventUpdated(*models.Event)
	EventDeleted(eventID string)
}

// Handler owns the event mutation workflows. Every collaborator is an
// interface so the workflows can be exercised without the real
// services.
type Handler struct {
	Events   models.EventStore
	Users    models.UserStore
	RSVPs    models.RSVPStore
	Geo      geo.Geocoder
	Tagger   tagger.Tagger
	Mail     mailer.Mailer
	Calendar calendar.Inviter
	Photos   filemgr.Saver
	Live     Broadcaster
	Now      func() time.Time
}

func (h *Handler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

func (h *Handler) broadcastCreated(ev *models.Event) {
	if h.Live != nil {
		h.Live.EventCreated(ev)
	}
}

func (h *Handler) broadcastUpdated(ev *models.Event) {
	if h.Live != nil {
		h.Live.EventUpdated(ev)
	}
}

func (h *Handler) broadcastDeleted(eventID string) {
	if h.Live != nil {
		h.Live.EventDeleted(eventID)
	}
}
