package models

import "time"

const (
	NotifTicketCreated       = "ticket_created"
	NotifCommentAdded        = "comment_added"
	NotifInternalNoteAdded   = "internal_note_added"
	NotifTicketAssigned      = "ticket_assigned"
	NotifTicketStatusChanged = "ticket_status_changed"
)

type Notification struct {
	ID          string    `json:"id"`
	RecipientID string    `json:"recipientId"`
	Type        string    `json:"type"`
	Title       string    `json:"title"`
	Message     string    `json:"message"`
	// TicketID is a soft reference: the ticket may have been deleted since
	// the notification was emitted.
	TicketID  string    `json:"ticketId,omitempty"`
	ActorID   string    `json:"actorId,omitempty"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"createdAt"`
}
