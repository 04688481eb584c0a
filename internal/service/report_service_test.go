package service

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SankThomas/helpdesk/internal/models"
)

func TestCSVRecord(t *testing.T) {
	created := time.Date(2026, 3, 7, 10, 0, 0, 0, time.UTC)

	t.Run("short id stays, long id keeps last 8 uppercased", func(t *testing.T) {
		rec := csvRecord(models.Ticket{
			ID:        "tk-a1b2c3d4e5f6",
			Title:     "VPN down",
			Status:    models.StatusOpen,
			Priority:  models.PriorityHigh,
			CreatedAt: created,
		})
		assert.Equal(t, []string{"3/7/2026", "C3D4E5F6", "VPN down", "open", "high", "Unassigned"}, rec)

		rec = csvRecord(models.Ticket{ID: "abc", CreatedAt: created})
		assert.Equal(t, "ABC", rec[1])
	})

	t.Run("assignee name when assigned", func(t *testing.T) {
		rec := csvRecord(models.Ticket{ID: "x", CreatedAt: created, AssigneeName: "Avery Agent"})
		assert.Equal(t, "Avery Agent", rec[5])
	})
}

func TestExportCSV(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)

	old := models.Ticket{
		Title: "ancient", Description: "d", Status: models.StatusClosed,
		Priority: models.PriorityLow, OwnerID: f.owner.ID,
		CreatedAt: now.Add(-40 * 24 * time.Hour), UpdatedAt: now.Add(-40 * 24 * time.Hour),
	}
	require.NoError(t, f.tickets.Create(ctx, &old))

	recent := models.Ticket{
		Title: `Server says "disk full", can't save`, Description: "d",
		Status: models.StatusOpen, Priority: models.PriorityUrgent,
		OwnerID: f.owner.ID, AssigneeID: f.agent.ID,
		CreatedAt: now.Add(-2 * 24 * time.Hour), UpdatedAt: now.Add(-2 * 24 * time.Hour),
	}
	require.NoError(t, f.tickets.Create(ctx, &recent))

	reportSvc := NewReportService(f.tickets)
	var buf bytes.Buffer
	require.NoError(t, reportSvc.ExportCSV(ctx, &buf, now.Add(-30*24*time.Hour)))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2, "header plus the one recent ticket")
	assert.Equal(t, "Date,Ticket ID,Title,Status,Priority,Assigned To", lines[0])

	// commas and quotes inside the title stay inside one quoted field
	assert.Contains(t, lines[1], `"Server says ""disk full"", can't save"`)
	assert.Contains(t, lines[1], "Avery Agent")
	assert.NotContains(t, buf.String(), "ancient")
}

func TestReportSummary(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	now := time.Now()

	mk := func(status, priority string, updated time.Time) {
		tk := models.Ticket{
			Title: "t", Description: "d", Status: status, Priority: priority,
			OwnerID: f.owner.ID, CreatedAt: updated, UpdatedAt: updated,
		}
		require.NoError(t, f.tickets.Create(ctx, &tk))
	}

	mk(models.StatusOpen, models.PriorityLow, now)
	mk(models.StatusPending, models.PriorityHigh, now)
	mk(models.StatusOpen, models.PriorityUrgent, now)
	mk(models.StatusResolved, models.PriorityHigh, now.Add(-2*24*time.Hour))
	mk(models.StatusResolved, models.PriorityHigh, now.Add(-10*24*time.Hour))
	mk(models.StatusClosed, models.PriorityLow, now)

	reportSvc := NewReportService(f.tickets)
	sum, err := reportSvc.Summary(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, 3, sum.Open)
	assert.Equal(t, 2, sum.Resolved7d, "resolved within the window, incl. closed today")
	assert.Equal(t, 2, sum.HighUrgentOpen)
}
