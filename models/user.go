package models

import "time"

// NotificationSettings holds the per-user email notification switches.
type NotificationSettings struct {
	WeeklySummary  bool `json:"weekly_summary" bson:"weekly_summary"`
	EventCreated   bool `json:"event_created" bson:"event_created"`
	EventCancelled bool `json:"event_cancelled" bson:"event_cancelled"`
}

type User struct {
	UserID           string               `json:"userid" bson:"userid"`
	Username         string               `json:"username" bson:"username"`
	Email            string               `json:"email" bson:"email"`
	PasswordHash     string               `json:"-" bson:"password_hash"`
	EventPreferences []string             `json:"event_preference" bson:"event_preference"`
	Notifications    NotificationSettings `json:"notification_setting" bson:"notification_setting"`
	EventsHosted     int                  `json:"events_hosted_count" bson:"events_hosted_count"`
	EventsAttended   int                  `json:"events_attended_count" bson:"events_attended_count"`
	CurrentLatitude  float64              `json:"current_latitude,omitempty" bson:"current_latitude,omitempty"`
	CurrentLongitude float64              `json:"current_longitude,omitempty" bson:"current_longitude,omitempty"`
	CreatedAt        time.Time            `json:"created_at" bson:"created_at"`
	UpdatedAt        time.Time            `json:"updated_at" bson:"updated_at"`
	LastLogin        time.Time            `json:"last_login" bson:"last_login"`
	RefreshHash      string               `json:"-" bson:"refresh_hash,omitempty"`
	RefreshExpiry    time.Time            `json:"-" bson:"refresh_expiry,omitempty"`
}

func DefaultNotificationSettings() NotificationSettings {
	return NotificationSettings{
		WeeklySummary:  true,
		EventCreated:   true,
		EventCancelled: true,
	}
}
