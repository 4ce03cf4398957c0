package friends

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/julienschmidt/httprouter"

	"mapmeet/globals"
	"mapmeet/mocks"
	"mapmeet/models"
)

func newFriendHandler() (*Handler, *mocks.MockFriendshipStore) {
	friendships := &mocks.MockFriendshipStore{}
	users := &mocks.MockUserStore{Users: map[string]models.User{
		"alice": {UserID: "alice", Username: "alice", Email: "alice@example.com"},
		"bob":   {UserID: "bob", Username: "bob", Email: "bob@example.com"},
	}}
	h := &Handler{
		Friendships: friendships,
		Users:       users,
		RSVPs:       &mocks.MockRSVPStore{},
		Now:         func() time.Time { return time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC) },
	}
	return h, friendships
}

func sendRequest(h *Handler, from, toEmail string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/friends/request",
		strings.NewReader(`{"email":"`+toEmail+`"}`))
	req = req.WithContext(context.WithValue(req.Context(), globals.UserIDKey, from))
	rec := httptest.NewRecorder()
	h.Request(rec, req, nil)
	return rec
}

func TestPendingRequestBlocksReverseRequest(t *testing.T) {
	h, friendships := newFriendHandler()

	if rec := sendRequest(h, "alice", "bob@example.com"); rec.Code != http.StatusCreated {
		t.Fatalf("first request: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	rec := sendRequest(h, "bob", "alice@example.com")
	if rec.Code != http.StatusConflict {
		t.Fatalf("reverse request should conflict, got %d", rec.Code)
	}
	if len(friendships.Items) != 1 {
		t.Fatalf("only one friendship record may exist, got %d", len(friendships.Items))
	}
}

func TestUnknownEmailIsInformational(t *testing.T) {
	h, friendships := newFriendHandler()

	rec := sendRequest(h, "alice", "nobody@example.com")
	if rec.Code != http.StatusOK {
		t.Fatalf("unknown email should be a 200 notice, got %d", rec.Code)
	}
	if len(friendships.Items) != 0 {
		t.Fatalf("nothing should be stored for an unknown email")
	}
}

func TestSelfRequestRejected(t *testing.T) {
	h, _ := newFriendHandler()

	rec := sendRequest(h, "alice", "alice@example.com")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for self request, got %d", rec.Code)
	}
}

func TestAcceptedFriendListedOnceForBothSides(t *testing.T) {
	h, friendships := newFriendHandler()
	friendships.Items = []models.Friendship{{
		FriendshipID: "f1",
		RequesterID:  "alice",
		RecipientID:  "bob",
		Status:       models.FriendshipPending,
	}}

	// Bob accepts.
	req := httptest.NewRequest(http.MethodPost, "/api/friends/accept/f1", nil)
	req = req.WithContext(context.WithValue(req.Context(), globals.UserIDKey, "bob"))
	rec := httptest.NewRecorder()
	h.Accept(rec, req, httprouter.Params{{Key: "friendshipid", Value: "f1"}})
	if rec.Code != http.StatusOK {
		t.Fatalf("accept: expected 200, got %d", rec.Code)
	}

	for _, userID := range []string{"alice", "bob"} {
		listReq := httptest.NewRequest(http.MethodGet, "/api/friends", nil)
		listReq = listReq.WithContext(context.WithValue(listReq.Context(), globals.UserIDKey, userID))
		listRec := httptest.NewRecorder()
		h.List(listRec, listReq, nil)

		var resp struct {
			Friends  []map[string]any    `json:"friends"`
			Incoming []models.Friendship `json:"incoming"`
			Outgoing []models.Friendship `json:"outgoing"`
		}
		if err := json.Unmarshal(listRec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode list for %s: %v", userID, err)
		}
		if len(resp.Friends) != 1 {
			t.Fatalf("%s should see exactly one friend, got %d", userID, len(resp.Friends))
		}
		if len(resp.Incoming) != 0 || len(resp.Outgoing) != 0 {
			t.Fatalf("%s should have no pending entries after accept", userID)
		}
	}
}

func TestAcceptOnlyByRecipient(t *testing.T) {
	h, friendships := newFriendHandler()
	friendships.Items = []models.Friendship{{
		FriendshipID: "f1",
		RequesterID:  "alice",
		RecipientID:  "bob",
		Status:       models.FriendshipPending,
	}}

	req := httptest.NewRequest(http.MethodPost, "/api/friends/accept/f1", nil)
	req = req.WithContext(context.WithValue(req.Context(), globals.UserIDKey, "alice"))
	rec := httptest.NewRecorder()
	h.Accept(rec, req, httprouter.Params{{Key: "friendshipid", Value: "f1"}})

	if rec.Code != http.StatusForbidden {
		t.Fatalf("requester must not accept their own request, got %d", rec.Code)
	}
}

func TestFriendsGoing(t *testing.T) {
	h, friendships := newFriendHandler()
	friendships.Items = []models.Friendship{{
		FriendshipID: "f1",
		RequesterID:  "alice",
		RecipientID:  "bob",
		Status:       models.FriendshipAccepted,
	}}
	h.RSVPs = &mocks.MockRSVPStore{Items: []models.RSVP{
		{RSVPID: "r1", EventID: "ev1", UserID: "bob"},
		{RSVPID: "r2", EventID: "ev2", UserID: "bob"},
	}}

	req := httptest.NewRequest(http.MethodGet, "/api/friends/going/ev1", nil)
	req = req.WithContext(context.WithValue(req.Context(), globals.UserIDKey, "alice"))
	rec := httptest.NewRecorder()
	h.FriendsGoing(rec, req, httprouter.Params{{Key: "eventid", Value: "ev1"}})

	var resp struct {
		Going []map[string]any `json:"going"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Going) != 1 || resp.Going[0]["userId"] != "bob" {
		t.Fatalf("expected bob going to ev1, got %v", resp.Going)
	}
}
