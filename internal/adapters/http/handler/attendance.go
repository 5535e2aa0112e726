package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ogurasousui/codex-pointage-clean-arch/internal/core/attendance"
	"github.com/ogurasousui/codex-pointage-clean-arch/internal/platform/metrics"
)

// AttendanceHandler は打刻 API の HTTP ハンドラーです。
type AttendanceHandler struct {
	svc     attendance.UseCase
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// NewAttendanceHandler は AttendanceHandler を生成します。
func NewAttendanceHandler(svc attendance.UseCase, logger *slog.Logger, m *metrics.Metrics) *AttendanceHandler {
	return &AttendanceHandler{svc: svc, logger: logger, metrics: m}
}

// Register は打刻ルートを登録します。
func (h *AttendanceHandler) Register(r chi.Router) {
	r.Route("/api/pointage", func(r chi.Router) {
		r.Get("/last/{cin}", h.handleGetLast)
		r.Get("/resume/{cin}", h.handleGetDailySummary)
		r.Post("/{cin}", h.handleRecord)
		r.Get("/{cin}", h.handleGetForPeriod)
	})
}

type recordCheckInRequest struct {
	Type string `json:"type"`
}

type checkInResponse struct {
	ID             string    `json:"id"`
	Type           string    `json:"type"`
	OccurredAt     time.Time `json:"occurred_at"`
	CollaboratorID string    `json:"collaborator_id"`
}

type dailySummaryResponse struct {
	Date           string            `json:"date"`
	ArrivalCount   int               `json:"arrival_count"`
	DepartureCount int               `json:"departure_count"`
	Events         []checkInResponse `json:"events"`
}

func (h *AttendanceHandler) handleRecord(w http.ResponseWriter, r *http.Request) {
	var req recordCheckInRequest
	if err := decodeJSON(r, &req, true); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	var kind attendance.Kind
	if req.Type != "" {
		parsed, err := attendance.ParseKind(req.Type)
		if err != nil {
			writeError(w, r, h.logger, fmt.Errorf("%w: %q", err, req.Type))
			return
		}
		kind = parsed
	}

	event, err := h.svc.RecordCheckIn(r.Context(), attendance.RecordCheckInInput{
		CIN:  chi.URLParam(r, "cin"),
		Kind: kind,
	})
	if err != nil {
		if errors.Is(err, attendance.ErrBusinessRuleViolation) {
			h.metrics.IncrementCheckInRejected(attendance.ViolationReason(err))
		}
		writeError(w, r, h.logger, err)
		return
	}

	h.metrics.IncrementCheckInRecorded(string(event.Kind))
	writeJSON(w, http.StatusCreated, toCheckInResponse(event))
}

func (h *AttendanceHandler) handleGetLast(w http.ResponseWriter, r *http.Request) {
	event, err := h.svc.GetLastCheckIn(r.Context(), attendance.GetLastCheckInInput{
		CIN: chi.URLParam(r, "cin"),
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	if event == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, toCheckInResponse(event))
}

func (h *AttendanceHandler) handleGetDailySummary(w http.ResponseWriter, r *http.Request) {
	in := attendance.GetDailySummaryInput{CIN: chi.URLParam(r, "cin")}
	if raw := r.URL.Query().Get("date"); raw != "" {
		date, err := parseDate(raw)
		if err != nil {
			writeError(w, r, h.logger, err)
			return
		}
		in.Date = &date
	}

	summary, err := h.svc.GetDailySummary(r.Context(), in)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dailySummaryResponse{
		Date:           summary.Date.Format(dateLayout),
		ArrivalCount:   summary.ArrivalCount,
		DepartureCount: summary.DepartureCount,
		Events:         toCheckInResponses(summary.Events),
	})
}

func (h *AttendanceHandler) handleGetForPeriod(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	month, err := parseOptionalInt(query.Get("month"))
	if err != nil {
		writeError(w, r, h.logger, fmt.Errorf("%w: month", attendance.ErrInvalidPeriod))
		return
	}
	year, err := parseOptionalInt(query.Get("year"))
	if err != nil {
		writeError(w, r, h.logger, fmt.Errorf("%w: year", attendance.ErrInvalidPeriod))
		return
	}

	events, err := h.svc.GetEventsForPeriod(r.Context(), attendance.GetEventsForPeriodInput{
		CIN:   chi.URLParam(r, "cin"),
		Month: month,
		Year:  year,
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, toCheckInResponses(events))
}

func parseOptionalInt(raw string) (*int, error) {
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func toCheckInResponse(e *attendance.CheckInEvent) checkInResponse {
	return checkInResponse{
		ID:             e.ID,
		Type:           string(e.Kind),
		OccurredAt:     e.OccurredAt,
		CollaboratorID: e.CollaboratorID,
	}
}

func toCheckInResponses(events []*attendance.CheckInEvent) []checkInResponse {
	out := make([]checkInResponse, 0, len(events))
	for _, e := range events {
		out = append(out, toCheckInResponse(e))
	}
	return out
}
