package models

import "time"

type Comment struct {
	ID         string    `json:"id"`
	TicketID   string    `json:"ticketId"`
	AuthorID   string    `json:"authorId"`
	AuthorName string    `json:"authorName,omitempty"`
	Content    string    `json:"content"`
	Internal   bool      `json:"internal"`
	CreatedAt  time.Time `json:"createdAt"`
}
