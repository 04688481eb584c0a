package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SankThomas/helpdesk/internal/models"
	"github.com/SankThomas/helpdesk/internal/repository/memory"
)

type fixture struct {
	users    *memory.UserRepo
	tickets  *memory.TicketRepo
	comments *memory.CommentRepo
	notifs   *memory.NotificationRepo

	notifSvc   *NotificationService
	ticketSvc  *TicketService
	commentSvc *CommentService

	owner *models.User
	agent *models.User
	admin *models.User
	other *models.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{}
	f.users = memory.NewUserRepo()
	f.tickets = memory.NewTicketRepo(f.users)
	f.comments = memory.NewCommentRepo(f.users)
	f.notifs = memory.NewNotificationRepo()

	f.notifSvc = NewNotificationService(f.notifs, f.users, nil, zerolog.Nop())
	f.ticketSvc = NewTicketService(f.tickets, f.users, f.notifSvc)
	f.commentSvc = NewCommentService(f.comments, f.tickets, f.notifSvc)

	ctx := context.Background()
	var err error
	f.owner, err = f.users.Create(ctx, "owner@example.com", "Olive Owner", models.RoleUser, "")
	require.NoError(t, err)
	f.agent, err = f.users.Create(ctx, "agent@example.com", "Avery Agent", models.RoleAgent, "")
	require.NoError(t, err)
	f.admin, err = f.users.Create(ctx, "admin@example.com", "Ada Admin", models.RoleAdmin, "")
	require.NoError(t, err)
	f.other, err = f.users.Create(ctx, "other@example.com", "Oscar Other", models.RoleUser, "")
	require.NoError(t, err)
	return f
}

func (f *fixture) newTicket(t *testing.T, owner *models.User) *models.Ticket {
	t.Helper()
	tk, err := f.ticketSvc.Create(context.Background(), owner, CreateTicketInput{
		Title:       "Printer broken",
		Description: "Won't turn on",
		Priority:    models.PriorityMedium,
	}, time.Now())
	require.NoError(t, err)
	return tk
}

func TestVisibleComments(t *testing.T) {
	comments := []models.Comment{
		{ID: "1", Content: "public one"},
		{ID: "2", Content: "internal", Internal: true},
		{ID: "3", Content: "public two"},
		{ID: "4", Content: "another note", Internal: true},
	}

	t.Run("user role never sees internal notes", func(t *testing.T) {
		got := VisibleComments(comments, models.RoleUser)
		require.Len(t, got, 2)
		assert.Equal(t, "1", got[0].ID)
		assert.Equal(t, "3", got[1].ID)
		for _, c := range got {
			assert.False(t, c.Internal)
		}
		// input untouched
		assert.Len(t, comments, 4)
		assert.True(t, comments[1].Internal)
	})

	t.Run("staff roles see everything unchanged", func(t *testing.T) {
		assert.Equal(t, comments, VisibleComments(comments, models.RoleAgent))
		assert.Equal(t, comments, VisibleComments(comments, models.RoleAdmin))
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, VisibleComments(nil, models.RoleUser))
	})
}

func TestCommentAdd(t *testing.T) {
	ctx := context.Background()

	t.Run("internal notes are staff-only", func(t *testing.T) {
		f := newFixture(t)
		tk := f.newTicket(t, f.owner)
		_, err := f.commentSvc.Add(ctx, f.owner, tk.ID, "sneaky", true, time.Now())
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("non-participant user cannot comment", func(t *testing.T) {
		f := newFixture(t)
		tk := f.newTicket(t, f.owner)
		_, err := f.commentSvc.Add(ctx, f.other, tk.ID, "hello", false, time.Now())
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("content is sanitized", func(t *testing.T) {
		f := newFixture(t)
		tk := f.newTicket(t, f.owner)
		c, err := f.commentSvc.Add(ctx, f.owner, tk.ID, `<p>help</p><script>alert(1)</script>`, false, time.Now())
		require.NoError(t, err)
		assert.NotContains(t, c.Content, "<script")
		assert.Contains(t, c.Content, "help")
	})

	t.Run("empty content rejected", func(t *testing.T) {
		f := newFixture(t)
		tk := f.newTicket(t, f.owner)
		_, err := f.commentSvc.Add(ctx, f.owner, tk.ID, "  <script>only</script>  ", false, time.Now())
		assert.ErrorIs(t, err, ErrInvalid)
	})

	t.Run("comment bumps ticket updatedAt", func(t *testing.T) {
		f := newFixture(t)
		tk := f.newTicket(t, f.owner)
		later := time.Now().Add(time.Hour)
		_, err := f.commentSvc.Add(ctx, f.agent, tk.ID, "looking into it", false, later)
		require.NoError(t, err)

		got, err := f.tickets.Get(ctx, tk.ID)
		require.NoError(t, err)
		assert.True(t, got.UpdatedAt.Equal(later))
	})
}

func TestCommentListVisibility(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	tk := f.newTicket(t, f.owner)

	_, err := f.commentSvc.Add(ctx, f.owner, tk.ID, "it still does not work", false, time.Now())
	require.NoError(t, err)
	_, err = f.commentSvc.Add(ctx, f.agent, tk.ID, "customer sounds annoyed", true, time.Now())
	require.NoError(t, err)
	_, err = f.commentSvc.Add(ctx, f.agent, tk.ID, "we are on it", false, time.Now())
	require.NoError(t, err)

	ownerView, err := f.commentSvc.ListForTicket(ctx, f.owner, tk.ID)
	require.NoError(t, err)
	require.Len(t, ownerView, 2)
	assert.Equal(t, "it still does not work", ownerView[0].Content)
	assert.Equal(t, "we are on it", ownerView[1].Content)

	adminView, err := f.commentSvc.ListForTicket(ctx, f.admin, tk.ID)
	require.NoError(t, err)
	assert.Len(t, adminView, 3)

	// a user who does not own the ticket gets nothing at all
	_, err = f.commentSvc.ListForTicket(ctx, f.other, tk.ID)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestCommentDelete(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	tk := f.newTicket(t, f.owner)
	c, err := f.commentSvc.Add(ctx, f.owner, tk.ID, "typo, please remove", false, time.Now())
	require.NoError(t, err)

	assert.ErrorIs(t, f.commentSvc.Delete(ctx, f.owner, c.ID), ErrForbidden)
	assert.ErrorIs(t, f.commentSvc.Delete(ctx, f.agent, c.ID), ErrForbidden)
	assert.NoError(t, f.commentSvc.Delete(ctx, f.admin, c.ID))
	assert.ErrorIs(t, f.commentSvc.Delete(ctx, f.admin, c.ID), ErrNotFound)
}
