package repository

// TicketFilter describes a ticket listing. OwnerID is the role-scoping
// predicate: when set, it is joined with every other condition so that a
// requester can never observe tickets (or counts) outside their own set.
type TicketFilter struct {
	OwnerID  string // hard scope, set by the service layer for "user" roles
	Q        string // case-insensitive substring over title/description
	Status   string
	Priority string
	Assignee string
	Limit    int
	Offset   int
	Sort     string // created_at, updated_at, priority
	Order    string // asc|desc
}
