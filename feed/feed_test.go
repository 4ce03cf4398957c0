package feed

import (
	"testing"
	"time"

	"mapmeet/models"
)

var testNow = time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)

func makeEvent(id, category string, price float64, start, end time.Time) models.Event {
	return models.Event{
		EventID:       id,
		Title:         "Event " + id,
		Category:      category,
		Price:         price,
		StartDateTime: start,
		EndDateTime:   end,
	}
}

func TestFilterExcludesEndedEvents(t *testing.T) {
	past := makeEvent("past", "parties", 0, testNow.Add(-3*time.Hour), testNow.Add(-time.Hour))
	endingNow := makeEvent("ending", "parties", 0, testNow.Add(-time.Hour), testNow)
	upcoming := makeEvent("up", "parties", 0, testNow.Add(time.Hour), testNow.Add(2*time.Hour))

	got := FilterEvents([]models.Event{past, endingNow, upcoming}, Filter{}, testNow)

	if len(got) != 1 || got[0].EventID != "up" {
		t.Fatalf("expected only the upcoming event, got %v", got)
	}
}

func TestFilterByDateMatchesCalendarDay(t *testing.T) {
	sameDayLate := makeEvent("a", "parties", 0,
		time.Date(2025, 7, 2, 23, 30, 0, 0, time.UTC),
		time.Date(2025, 7, 3, 1, 0, 0, 0, time.UTC))
	nextDay := makeEvent("b", "parties", 0,
		time.Date(2025, 7, 3, 10, 0, 0, 0, time.UTC),
		time.Date(2025, 7, 3, 12, 0, 0, 0, time.UTC))

	day := time.Date(2025, 7, 2, 0, 0, 0, 0, time.UTC)
	got := FilterEvents([]models.Event{sameDayLate, nextDay}, Filter{Date: &day}, testNow)

	if len(got) != 1 || got[0].EventID != "a" {
		t.Fatalf("expected only event a, got %v", got)
	}
}

func TestFilterByTypeAndPrice(t *testing.T) {
	free := makeEvent("free", "concerts", 0, testNow.Add(time.Hour), testNow.Add(2*time.Hour))
	paid := makeEvent("paid", "concerts", 25, testNow.Add(time.Hour), testNow.Add(2*time.Hour))
	party := makeEvent("party", "parties", 10, testNow.Add(time.Hour), testNow.Add(2*time.Hour))

	all := []models.Event{free, paid, party}

	got := FilterEvents(all, Filter{Types: []string{"concerts"}, Price: PriceFree}, testNow)
	if len(got) != 1 || got[0].EventID != "free" {
		t.Fatalf("free concerts: expected [free], got %v", got)
	}

	got = FilterEvents(all, Filter{Price: PricePaid}, testNow)
	if len(got) != 2 || got[0].EventID != "paid" || got[1].EventID != "party" {
		t.Fatalf("paid: expected [paid party] in order, got %v", got)
	}
}

func TestFilterIsPureAndOrderPreserving(t *testing.T) {
	events := []models.Event{
		makeEvent("c", "parties", 0, testNow.Add(3*time.Hour), testNow.Add(4*time.Hour)),
		makeEvent("a", "parties", 0, testNow.Add(time.Hour), testNow.Add(2*time.Hour)),
		makeEvent("b", "parties", 0, testNow.Add(2*time.Hour), testNow.Add(3*time.Hour)),
	}
	filter := Filter{Types: []string{"parties"}}

	first := FilterEvents(events, filter, testNow)
	second := FilterEvents(events, filter, testNow)

	if len(first) != 3 || len(second) != 3 {
		t.Fatalf("expected all three events, got %d and %d", len(first), len(second))
	}
	for i := range first {
		if first[i].EventID != events[i].EventID || second[i].EventID != events[i].EventID {
			t.Fatalf("order not preserved at %d: %s vs %s", i, first[i].EventID, events[i].EventID)
		}
	}
}
