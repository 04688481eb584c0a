package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SankThomas/helpdesk/internal/models"
	"github.com/SankThomas/helpdesk/internal/repository"
)

func strPtr(s string) *string { return &s }

func TestTicketCreateRoundTrip(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	created, err := f.ticketSvc.Create(ctx, f.owner, CreateTicketInput{
		Title:       "X",
		Description: "Y",
		Priority:    models.PriorityHigh,
	}, time.Now())
	require.NoError(t, err)

	got, err := f.ticketSvc.Get(ctx, f.owner, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "X", got.Title)
	assert.Equal(t, "Y", got.Description)
	assert.Equal(t, models.PriorityHigh, got.Priority)
	assert.Equal(t, models.StatusOpen, got.Status)
	assert.Equal(t, f.owner.ID, got.OwnerID)
	assert.Empty(t, got.AssigneeID)
}

func TestTicketCreateValidation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.ticketSvc.Create(ctx, f.owner, CreateTicketInput{Title: "  ", Description: "d"}, time.Now())
	assert.ErrorIs(t, err, ErrInvalid)

	_, err = f.ticketSvc.Create(ctx, f.owner, CreateTicketInput{Title: "t", Description: "d", Priority: "asap"}, time.Now())
	assert.ErrorIs(t, err, ErrInvalid)

	created, err := f.ticketSvc.Create(ctx, f.owner, CreateTicketInput{Title: "t", Description: "d"}, time.Now())
	require.NoError(t, err)
	assert.Equal(t, models.PriorityMedium, created.Priority, "priority defaults to medium")
}

func TestTicketListRoleScoping(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	mine := f.newTicket(t, f.owner)
	theirs := f.newTicket(t, f.other)

	t.Run("user sees only their own tickets and totals", func(t *testing.T) {
		items, total, err := f.ticketSvc.List(ctx, f.owner, repository.TicketFilter{})
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, mine.ID, items[0].ID)
		assert.Equal(t, 1, total)
	})

	t.Run("scoping survives extra filters", func(t *testing.T) {
		// both tickets are open; the status filter must not widen the scope
		items, total, err := f.ticketSvc.List(ctx, f.owner, repository.TicketFilter{Status: models.StatusOpen})
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, mine.ID, items[0].ID)
		assert.Equal(t, 1, total)

		// a filter matching nothing of theirs yields nothing, count included
		items, total, err = f.ticketSvc.List(ctx, f.owner, repository.TicketFilter{Assignee: f.agent.ID})
		require.NoError(t, err)
		assert.Empty(t, items)
		assert.Zero(t, total)
	})

	t.Run("staff see the unscoped set", func(t *testing.T) {
		items, total, err := f.ticketSvc.List(ctx, f.agent, repository.TicketFilter{})
		require.NoError(t, err)
		assert.Len(t, items, 2)
		assert.Equal(t, 2, total)
		_ = theirs
	})

	t.Run("user cannot read another user's ticket", func(t *testing.T) {
		_, err := f.ticketSvc.Get(ctx, f.owner, theirs.ID)
		assert.ErrorIs(t, err, ErrForbidden)
	})
}

func TestTicketSearchScoped(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.ticketSvc.Create(ctx, f.owner, CreateTicketInput{Title: "Printer broken", Description: "Won't turn on"}, time.Now())
	require.NoError(t, err)
	_, err = f.ticketSvc.Create(ctx, f.other, CreateTicketInput{Title: "Printer jammed", Description: "paper stuck"}, time.Now())
	require.NoError(t, err)

	items, total, err := f.ticketSvc.List(ctx, f.owner, repository.TicketFilter{Q: "printer"})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Printer broken", items[0].Title)
	assert.Equal(t, 1, total)

	items, _, err = f.ticketSvc.List(ctx, f.agent, repository.TicketFilter{Q: "PRINTER"})
	require.NoError(t, err)
	assert.Len(t, items, 2, "search is case-insensitive and unscoped for staff")
}

func TestTicketUpdateMatrix(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	t.Run("owner edits own title and description", func(t *testing.T) {
		f := newFixture(t)
		tk := f.newTicket(t, f.owner)
		got, err := f.ticketSvc.Update(ctx, f.owner, tk.ID, TicketUpdate{
			Title:       strPtr("New title"),
			Description: strPtr("New description"),
		}, now.Add(time.Minute))
		require.NoError(t, err)
		assert.Equal(t, "New title", got.Title)
		assert.Equal(t, "New description", got.Description)
		assert.True(t, got.UpdatedAt.After(tk.UpdatedAt))
	})

	t.Run("owner cannot triage", func(t *testing.T) {
		f := newFixture(t)
		tk := f.newTicket(t, f.owner)
		for _, upd := range []TicketUpdate{
			{Status: strPtr(models.StatusResolved)},
			{Priority: strPtr(models.PriorityUrgent)},
			{Assignee: strPtr(f.agent.ID)},
		} {
			_, err := f.ticketSvc.Update(ctx, f.owner, tk.ID, upd, now)
			assert.ErrorIs(t, err, ErrForbidden)
		}
	})

	t.Run("user cannot edit someone else's ticket", func(t *testing.T) {
		f := newFixture(t)
		tk := f.newTicket(t, f.owner)
		_, err := f.ticketSvc.Update(ctx, f.other, tk.ID, TicketUpdate{Title: strPtr("hijack")}, now)
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("agent can triage any ticket", func(t *testing.T) {
		f := newFixture(t)
		tk := f.newTicket(t, f.owner)
		got, err := f.ticketSvc.Update(ctx, f.agent, tk.ID, TicketUpdate{
			Status:   strPtr(models.StatusPending),
			Priority: strPtr(models.PriorityUrgent),
			Assignee: strPtr(f.agent.ID),
		}, now)
		require.NoError(t, err)
		assert.Equal(t, models.StatusPending, got.Status)
		assert.Equal(t, models.PriorityUrgent, got.Priority)
		assert.Equal(t, f.agent.ID, got.AssigneeID)
	})

	t.Run("unknown status or priority rejected", func(t *testing.T) {
		f := newFixture(t)
		tk := f.newTicket(t, f.owner)
		_, err := f.ticketSvc.Update(ctx, f.agent, tk.ID, TicketUpdate{Status: strPtr("parked")}, now)
		assert.ErrorIs(t, err, ErrInvalid)
		_, err = f.ticketSvc.Update(ctx, f.agent, tk.ID, TicketUpdate{Priority: strPtr("whenever")}, now)
		assert.ErrorIs(t, err, ErrInvalid)
	})

	t.Run("status is free-form between known values", func(t *testing.T) {
		f := newFixture(t)
		tk := f.newTicket(t, f.owner)
		// closed straight from open, then back again
		_, err := f.ticketSvc.Update(ctx, f.agent, tk.ID, TicketUpdate{Status: strPtr(models.StatusClosed)}, now)
		require.NoError(t, err)
		got, err := f.ticketSvc.Update(ctx, f.agent, tk.ID, TicketUpdate{Status: strPtr(models.StatusOpen)}, now)
		require.NoError(t, err)
		assert.Equal(t, models.StatusOpen, got.Status)
	})

	t.Run("empty assignee clears, absent assignee keeps", func(t *testing.T) {
		f := newFixture(t)
		tk := f.newTicket(t, f.owner)

		got, err := f.ticketSvc.Update(ctx, f.agent, tk.ID, TicketUpdate{Assignee: strPtr(f.agent.ID)}, now)
		require.NoError(t, err)
		require.Equal(t, f.agent.ID, got.AssigneeID)

		// update without the assignee field leaves the assignment alone
		got, err = f.ticketSvc.Update(ctx, f.agent, tk.ID, TicketUpdate{Priority: strPtr(models.PriorityLow)}, now)
		require.NoError(t, err)
		assert.Equal(t, f.agent.ID, got.AssigneeID)

		// the explicit empty sentinel unassigns
		got, err = f.ticketSvc.Update(ctx, f.agent, tk.ID, TicketUpdate{Assignee: strPtr("")}, now)
		require.NoError(t, err)
		assert.Empty(t, got.AssigneeID)
	})

	t.Run("unknown assignee rejected", func(t *testing.T) {
		f := newFixture(t)
		tk := f.newTicket(t, f.owner)
		_, err := f.ticketSvc.Update(ctx, f.agent, tk.ID, TicketUpdate{Assignee: strPtr("nobody")}, now)
		assert.ErrorIs(t, err, ErrInvalid)
	})
}

func TestTicketUpdateNotifications(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	t.Run("assignment notifies the new assignee", func(t *testing.T) {
		f := newFixture(t)
		tk := f.newTicket(t, f.owner)
		_, err := f.ticketSvc.Update(ctx, f.admin, tk.ID, TicketUpdate{Assignee: strPtr(f.agent.ID)}, now)
		require.NoError(t, err)

		got := notificationsOfType(f.notifs.All(), models.NotifTicketAssigned)
		require.Len(t, got, 1)
		assert.Equal(t, f.agent.ID, got[0].RecipientID)
	})

	t.Run("self-assignment stays silent", func(t *testing.T) {
		f := newFixture(t)
		tk := f.newTicket(t, f.owner)
		_, err := f.ticketSvc.Update(ctx, f.agent, tk.ID, TicketUpdate{Assignee: strPtr(f.agent.ID)}, now)
		require.NoError(t, err)
		assert.Empty(t, notificationsOfType(f.notifs.All(), models.NotifTicketAssigned))
	})

	t.Run("status change notifies the owner", func(t *testing.T) {
		f := newFixture(t)
		tk := f.newTicket(t, f.owner)
		_, err := f.ticketSvc.Update(ctx, f.agent, tk.ID, TicketUpdate{Status: strPtr(models.StatusResolved)}, now)
		require.NoError(t, err)

		got := notificationsOfType(f.notifs.All(), models.NotifTicketStatusChanged)
		require.Len(t, got, 1)
		assert.Equal(t, f.owner.ID, got[0].RecipientID)
		assert.Contains(t, got[0].Message, models.StatusResolved)
	})

	t.Run("setting the same status again stays silent", func(t *testing.T) {
		f := newFixture(t)
		tk := f.newTicket(t, f.owner)
		_, err := f.ticketSvc.Update(ctx, f.agent, tk.ID, TicketUpdate{Status: strPtr(models.StatusOpen)}, now)
		require.NoError(t, err)
		assert.Empty(t, notificationsOfType(f.notifs.All(), models.NotifTicketStatusChanged))
	})
}

func TestTicketDelete(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	tk := f.newTicket(t, f.owner)

	assert.ErrorIs(t, f.ticketSvc.Delete(ctx, f.owner, tk.ID), ErrForbidden)
	assert.ErrorIs(t, f.ticketSvc.Delete(ctx, f.agent, tk.ID), ErrForbidden)

	notifsBefore := len(f.notifs.All())
	require.NoError(t, f.ticketSvc.Delete(ctx, f.admin, tk.ID))

	_, err := f.ticketSvc.Get(ctx, f.admin, tk.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	// notifications referencing the ticket are kept
	assert.Equal(t, notifsBefore, len(f.notifs.All()))

	assert.ErrorIs(t, f.ticketSvc.Delete(ctx, f.admin, tk.ID), ErrNotFound)
}

// End-to-end: file a ticket, triage it, leave an internal note, and check
// what each role can see along the way.
func TestTicketLifecycleEndToEnd(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	now := time.Now()

	tk, err := f.ticketSvc.Create(ctx, f.owner, CreateTicketInput{
		Title:       "Printer broken",
		Description: "Won't turn on",
		Priority:    models.PriorityMedium,
	}, now)
	require.NoError(t, err)

	items, _, err := f.ticketSvc.List(ctx, f.owner, repository.TicketFilter{})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, models.StatusOpen, items[0].Status)

	_, err = f.ticketSvc.Update(ctx, f.agent, tk.ID, TicketUpdate{
		Assignee: strPtr(f.agent.ID),
		Status:   strPtr(models.StatusPending),
	}, now.Add(time.Minute))
	require.NoError(t, err)

	items, _, err = f.ticketSvc.List(ctx, f.owner, repository.TicketFilter{})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, models.StatusPending, items[0].Status)
	assert.Equal(t, f.agent.ID, items[0].AssigneeID)

	_, err = f.commentSvc.Add(ctx, f.agent, tk.ID, "hardware looks dead, ordering a replacement", true, now.Add(2*time.Minute))
	require.NoError(t, err)

	ownerView, err := f.commentSvc.ListForTicket(ctx, f.owner, tk.ID)
	require.NoError(t, err)
	assert.Empty(t, ownerView, "internal note is hidden from the owner")

	adminView, err := f.commentSvc.ListForTicket(ctx, f.admin, tk.ID)
	require.NoError(t, err)
	require.Len(t, adminView, 1)
	assert.True(t, adminView[0].Internal)
}
