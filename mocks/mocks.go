package mocks

import (
	"context"
	"errors"
	"mime/multipart"
	"sync"

	"mapmeet/calendar"
	"mapmeet/filemgr"
	"mapmeet/geo"
	"mapmeet/models"
)

var ErrNotFound = errors.New("not found")

// Slice-backed fakes keep insertion order, which the feed and thread
// logic depend on.

type MockEventStore struct {
	Items      []models.Event
	FailInsert bool
}

func (m *MockEventStore) List(_ context.Context) ([]models.Event, error) {
	out := make([]models.Event, len(m.Items))
	copy(out, m.Items)
	return out, nil
}

func (m *MockEventStore) Get(_ context.Context, eventID string) (models.Event, error) {
	for _, e := range m.Items {
		if e.EventID == eventID {
			return e, nil
		}
	}
	return models.Event{}, ErrNotFound
}

func (m *MockEventStore) Insert(_ context.Context, e models.Event) error {
	if m.FailInsert {
		return errors.New("insert refused")
	}
	m.Items = append(m.Items, e)
	return nil
}

func (m *MockEventStore) Update(_ context.Context, e models.Event) error {
	for i := range m.Items {
		if m.Items[i].EventID == e.EventID {
			m.Items[i] = e
			return nil
		}
	}
	return ErrNotFound
}

func (m *MockEventStore) Delete(_ context.Context, eventID string) error {
	for i := range m.Items {
		if m.Items[i].EventID == eventID {
			m.Items = append(m.Items[:i], m.Items[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

type MockUserStore struct {
	Users map[string]models.User // keyed by user id
}

func (m *MockUserStore) Get(_ context.Context, userID string) (models.User, error) {
	u, ok := m.Users[userID]
	if !ok {
		return models.User{}, ErrNotFound
	}
	return u, nil
}

func (m *MockUserStore) GetByEmail(_ context.Context, email string) (models.User, error) {
	for _, u := range m.Users {
		if u.Email == email {
			return u, nil
		}
	}
	return models.User{}, ErrNotFound
}

func (m *MockUserStore) Insert(_ context.Context, u models.User) error {
	if m.Users == nil {
		m.Users = map[string]models.User{}
	}
	m.Users[u.UserID] = u
	return nil
}

func (m *MockUserStore) Update(_ context.Context, u models.User) error {
	if _, ok := m.Users[u.UserID]; !ok {
		return ErrNotFound
	}
	m.Users[u.UserID] = u
	return nil
}

func (m *MockUserStore) AdjustCounters(_ context.Context, userID string, hostedDelta, attendedDelta int) error {
	u, ok := m.Users[userID]
	if !ok {
		return ErrNotFound
	}
	u.EventsHosted += hostedDelta
	u.EventsAttended += attendedDelta
	if u.EventsAttended < 0 {
		u.EventsAttended = 0
	}
	m.Users[userID] = u
	return nil
}

type MockRSVPStore struct {
	Items []models.RSVP
}

func (m *MockRSVPStore) Find(_ context.Context, eventID, userID string) (*models.RSVP, error) {
	for _, r := range m.Items {
		if r.EventID == eventID && r.UserID == userID {
			found := r
			return &found, nil
		}
	}
	return nil, nil
}

func (m *MockRSVPStore) ListByEvent(_ context.Context, eventID string) ([]models.RSVP, error) {
	var out []models.RSVP
	for _, r := range m.Items {
		if r.EventID == eventID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *MockRSVPStore) ListByUser(_ context.Context, userID string) ([]models.RSVP, error) {
	var out []models.RSVP
	for _, r := range m.Items {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *MockRSVPStore) ListByUsers(_ context.Context, userIDs []string) ([]models.RSVP, error) {
	ids := map[string]bool{}
	for _, id := range userIDs {
		ids[id] = true
	}
	var out []models.RSVP
	for _, r := range m.Items {
		if ids[r.UserID] {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *MockRSVPStore) Insert(_ context.Context, r models.RSVP) error {
	m.Items = append(m.Items, r)
	return nil
}

func (m *MockRSVPStore) Delete(_ context.Context, rsvpID string) error {
	for i := range m.Items {
		if m.Items[i].RSVPID == rsvpID {
			m.Items = append(m.Items[:i], m.Items[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

type MockFriendshipStore struct {
	Items []models.Friendship
}

func (m *MockFriendshipStore) FindBetween(_ context.Context, userA, userB string) (*models.Friendship, error) {
	for _, f := range m.Items {
		if (f.RequesterID == userA && f.RecipientID == userB) ||
			(f.RequesterID == userB && f.RecipientID == userA) {
			found := f
			return &found, nil
		}
	}
	return nil, nil
}

func (m *MockFriendshipStore) ListForUser(_ context.Context, userID string) ([]models.Friendship, error) {
	var out []models.Friendship
	for _, f := range m.Items {
		if f.RequesterID == userID || f.RecipientID == userID {
			out = append(out, f)
		}
	}
	return out, nil
}

func (m *MockFriendshipStore) Get(_ context.Context, friendshipID string) (models.Friendship, error) {
	for _, f := range m.Items {
		if f.FriendshipID == friendshipID {
			return f, nil
		}
	}
	return models.Friendship{}, ErrNotFound
}

func (m *MockFriendshipStore) Insert(_ context.Context, f models.Friendship) error {
	m.Items = append(m.Items, f)
	return nil
}

func (m *MockFriendshipStore) Update(_ context.Context, f models.Friendship) error {
	for i := range m.Items {
		if m.Items[i].FriendshipID == f.FriendshipID {
			m.Items[i] = f
			return nil
		}
	}
	return ErrNotFound
}

func (m *MockFriendshipStore) Delete(_ context.Context, friendshipID string) error {
	for i := range m.Items {
		if m.Items[i].FriendshipID == friendshipID {
			m.Items = append(m.Items[:i], m.Items[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

type MockCommentStore struct {
	Items []models.Comment
}

func (m *MockCommentStore) ListByEvent(_ context.Context, eventID string) ([]models.Comment, error) {
	var out []models.Comment
	for _, c := range m.Items {
		if c.EventID == eventID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *MockCommentStore) Get(_ context.Context, commentID string) (models.Comment, error) {
	for _, c := range m.Items {
		if c.CommentID == commentID {
			return c, nil
		}
	}
	return models.Comment{}, ErrNotFound
}

func (m *MockCommentStore) Insert(_ context.Context, c models.Comment) error {
	m.Items = append(m.Items, c)
	return nil
}

func (m *MockCommentStore) Update(_ context.Context, c models.Comment) error {
	for i := range m.Items {
		if m.Items[i].CommentID == c.CommentID {
			m.Items[i] = c
			return nil
		}
	}
	return ErrNotFound
}

func (m *MockCommentStore) Delete(_ context.Context, commentID string) error {
	for i := range m.Items {
		if m.Items[i].CommentID == commentID {
			m.Items = append(m.Items[:i], m.Items[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

// MockMailer records sends and can fail selected recipients.
type MockMailer struct {
	mu      sync.Mutex
	Sent    []string
	FailFor map[string]bool
}

func (m *MockMailer) Send(to, subject, htmlBody string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailFor[to] {
		return errors.New("smtp refused " + to)
	}
	m.Sent = append(m.Sent, to)
	return nil
}

type MockInviter struct {
	Entries int
	Fail    bool
}

func (m *MockInviter) CreateEntry(_ context.Context, _ calendar.Invite) error {
	if m.Fail {
		return errors.New("calendar unavailable")
	}
	m.Entries++
	return nil
}

type MockGeocoder struct {
	Coords  models.Coordinates
	Address string
	Fail    bool
}

func (m *MockGeocoder) Geocode(_ context.Context, _ string) (models.Coordinates, error) {
	if m.Fail {
		return models.Coordinates{}, errors.New("geocoder down")
	}
	return m.Coords, nil
}

func (m *MockGeocoder) ReverseGeocode(_ context.Context, _, _ float64) (string, error) {
	if m.Fail {
		return "", errors.New("geocoder down")
	}
	return m.Address, nil
}

func (m *MockGeocoder) Suggest(_ context.Context, input string) ([]geo.Suggestion, error) {
	if m.Fail {
		return nil, errors.New("geocoder down")
	}
	return []geo.Suggestion{{Description: m.Address, PlaceID: "mock-place"}}, nil
}

type MockTagger struct {
	Result []string
	Fail   bool
}

func (m *MockTagger) Tags(_ context.Context, _ string) ([]string, error) {
	if m.Fail {
		return nil, errors.New("tagger down")
	}
	return m.Result, nil
}

// MockSaver returns fixed URLs without touching disk.
type MockSaver struct {
	PhotoURL string
	ThumbURL string
	Fail     bool
}

func (m *MockSaver) SavePhoto(file multipart.File, _ *multipart.FileHeader, _ filemgr.EntityType) (string, string, error) {
	defer file.Close()
	if m.Fail {
		return "", "", errors.New("disk full")
	}
	return m.PhotoURL, m.ThumbURL, nil
}

// MockBroadcaster records what would have been pushed to clients.
type MockBroadcaster struct {
	Created []string
	Updated []string
	Deleted []string
}

func (m *MockBroadcaster) EventCreated(e *models.Event) { m.Created = append(m.Created, e.EventID) }
func (m *MockBroadcaster) EventUpdated(e *models.Event) { m.Updated = append(m.Updated, e.EventID) }
func (m *MockBroadcaster) EventDeleted(id string)       { m.Deleted = append(m.Deleted, id) }
