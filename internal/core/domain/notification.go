package domain

import "time"

// Notification is a clinic-wide message. Classification fields are optional.
type Notification struct {
	ID      string    `json:"_id,omitempty"     bson:"_id,omitempty"`
	Message string    `json:"message"           bson:"message"`
	Date    time.Time `json:"date"              bson:"date"`
	Type    string    `json:"type,omitempty"    bson:"type,omitempty"`
	Title   string    `json:"title,omitempty"   bson:"title,omitempty"`
	Channel string    `json:"channel,omitempty" bson:"channel,omitempty"`
	Status  string    `json:"status,omitempty"  bson:"status,omitempty"`
	Patient string    `json:"patient,omitempty" bson:"patient,omitempty"`
}

// Result is the wrapper returned by deletes and action endpoints.
type Result struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// Email is the body of the send-email action.
type Email struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}
