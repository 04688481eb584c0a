package service

import (
	"context"
	"encoding/csv"
	"io"
	"strings"
	"time"

	"github.com/SankThomas/helpdesk/internal/models"
	"github.com/SankThomas/helpdesk/internal/repository"
)

type ReportService struct {
	tickets repository.TicketRepository
}

func NewReportService(tickets repository.TicketRepository) *ReportService {
	return &ReportService{tickets: tickets}
}

type Summary struct {
	Open           int `json:"open"`
	Resolved7d     int `json:"resolved7d"`
	HighUrgentOpen int `json:"highUrgentOpen"`
}

func (s *ReportService) Summary(ctx context.Context, now time.Time) (*Summary, error) {
	open, err := s.tickets.CountOpen(ctx)
	if err != nil {
		return nil, err
	}
	resolved7d, err := s.tickets.CountResolvedSince(ctx, now.Add(-7*24*time.Hour))
	if err != nil {
		return nil, err
	}
	highUrgent, err := s.tickets.CountOpenByPriorities(ctx, []string{models.PriorityHigh, models.PriorityUrgent})
	if err != nil {
		return nil, err
	}
	return &Summary{Open: open, Resolved7d: resolved7d, HighUrgentOpen: highUrgent}, nil
}

var csvHeader = []string{"Date", "Ticket ID", "Title", "Status", "Priority", "Assigned To"}

// csvRecord renders one export row. The ticket id is shortened to its last
// 8 characters, uppercased.
func csvRecord(t models.Ticket) []string {
	id := t.ID
	if len(id) > 8 {
		id = id[len(id)-8:]
	}
	assigned := t.AssigneeName
	if assigned == "" {
		assigned = "Unassigned"
	}
	return []string{
		t.CreatedAt.Format("1/2/2006"),
		strings.ToUpper(id),
		t.Title,
		t.Status,
		t.Priority,
		assigned,
	}
}

// ExportCSV writes tickets created since the cutoff as CSV. Fields holding
// delimiters are quoted by the writer.
func (s *ReportService) ExportCSV(ctx context.Context, w io.Writer, since time.Time) error {
	tickets, err := s.tickets.ListCreatedSince(ctx, since)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, t := range tickets {
		if err := cw.Write(csvRecord(t)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
