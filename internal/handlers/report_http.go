package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/SankThomas/helpdesk/internal/service"
	"github.com/SankThomas/helpdesk/internal/utils"
)

type ReportHTTP struct {
	svc *service.ReportService
}

func NewReportHTTP(svc *service.ReportService) *ReportHTTP { return &ReportHTTP{svc: svc} }

// GET /api/reports/summary
func (h *ReportHTTP) Summary() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := h.svc.Summary(r.Context(), time.Now())
		if err != nil {
			respondErr(w, err)
			return
		}
		utils.JSON(w, http.StatusOK, s)
	}
}

// GET /api/reports/export?days=N
func (h *ReportHTTP) Export() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		days := utils.QueryInt(r.URL.Query(), "days", 30)
		if days <= 0 || days > 365 {
			days = 30
		}
		since := time.Now().AddDate(0, 0, -days)

		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition",
			fmt.Sprintf(`attachment; filename="helpdesk-report-%ddays.csv"`, days))

		if err := h.svc.ExportCSV(r.Context(), w, since); err != nil {
			// Headers may already be out; nothing sensible left to send.
			return
		}
	}
}
