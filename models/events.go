package models

import "time"

type Coordinates struct {
	Lat float64 `json:"lat" bson:"lat"`
	Lng float64 `json:"lng" bson:"lng"`
}

type Event struct {
	EventID         string      `json:"eventid" bson:"eventid"`
	Title           string      `json:"title" bson:"title"`
	Description     string      `json:"description" bson:"description"`
	LocationAddress string      `json:"location_address" bson:"location_address"`
	Coords          Coordinates `json:"coords" bson:"coords"`
	StartDateTime   time.Time   `json:"start_datetime" bson:"start_datetime"`
	EndDateTime     time.Time   `json:"end_datetime" bson:"end_datetime"`
	Category        string      `json:"category" bson:"category"`
	OrganizerID     string      `json:"organizer_id" bson:"organizer_id"`
	Price           float64     `json:"price" bson:"price"`
	MinAge          int         `json:"min_age" bson:"min_age"`
	PhotoURL        string      `json:"photo_url,omitempty" bson:"photo_url,omitempty"`
	ThumbURL        string      `json:"thumb_url,omitempty" bson:"thumb_url,omitempty"`
	Tags            []string    `json:"tags" bson:"tags"`
	IsPopular       bool        `json:"is_popular" bson:"is_popular"`
	CreatedAt       time.Time   `json:"created_at" bson:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at" bson:"updated_at"`
}

// Categories is the fixed set of event categories.
var Categories = []string{
	"recruiting",
	"freebies",
	"product_promotion",
	"concerts",
	"parties",
	"festivals",
	"company_events",
	"hobbyist_events",
}

func IsValidCategory(category string) bool {
	for _, c := range Categories {
		if c == category {
			return true
		}
	}
	return false
}
