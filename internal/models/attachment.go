package models

import "time"

type Attachment struct {
	ID           string `json:"id"`
	TicketID     string `json:"ticketId"`
	UploaderID   string `json:"uploaderId"`
	UploaderName string `json:"uploaderName,omitempty"`
	FileName     string `json:"fileName"`
	Size         int64  `json:"fileSize"`
	StorageKey   string `json:"-"`
	// FileURL is a short-lived download URL resolved from StorageKey at read
	// time; it is never persisted.
	FileURL   string    `json:"fileUrl,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
