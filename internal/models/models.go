package models

import "time"

// Kajian is one stored schedule record. Text fields keep whatever spelling
// the broadcast author used; canonicalization happens through merge
// suggestions, never at write time.
type Kajian struct {
	ID        int64     `json:"id"`
	Region    string    `json:"region,omitempty"`
	City      string    `json:"city"`
	Venue     string    `json:"venue"`
	Address   string    `json:"address,omitempty"`
	MapURL    string    `json:"mapUrl,omitempty"`
	Speaker   string    `json:"speaker"`
	Topic     string    `json:"topic"`
	TimeLabel string    `json:"time"`
	DateLabel string    `json:"date"`
	Contact   string    `json:"contact,omitempty"`
	Source    string    `json:"source,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
