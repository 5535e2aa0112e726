package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ogurasousui/codex-pointage-clean-arch/internal/core/collaborator"
)

// CollaboratorHandler は協力者 API の HTTP ハンドラーです。
type CollaboratorHandler struct {
	svc    collaborator.UseCase
	logger *slog.Logger
}

// NewCollaboratorHandler は CollaboratorHandler を生成します。
func NewCollaboratorHandler(svc collaborator.UseCase, logger *slog.Logger) *CollaboratorHandler {
	return &CollaboratorHandler{svc: svc, logger: logger}
}

// Register は協力者ルートを登録します。
func (h *CollaboratorHandler) Register(r chi.Router) {
	r.Route("/api/collaborateurs", func(r chi.Router) {
		r.Post("/", h.handleCreate)
		r.Get("/", h.handleList)
		r.Get("/{id}", h.handleGet)
		r.Patch("/{id}", h.handleUpdate)
		r.Delete("/{id}", h.handleDelete)
	})
}

type createCollaboratorRequest struct {
	CIN        string  `json:"cin"`
	LastName   string  `json:"last_name"`
	FirstName  string  `json:"first_name"`
	BirthDate  string  `json:"birth_date"`
	BirthPlace string  `json:"birth_place"`
	Address    string  `json:"address"`
	CNSS       *string `json:"cnss"`
	Specialty  *string `json:"specialty"`
	HiredAt    *string `json:"hired_at"`
	Status     *string `json:"status"`
}

type updateCollaboratorRequest struct {
	CIN        *string        `json:"cin"`
	LastName   *string        `json:"last_name"`
	FirstName  *string        `json:"first_name"`
	BirthDate  *string        `json:"birth_date"`
	BirthPlace *string        `json:"birth_place"`
	Address    *string        `json:"address"`
	CNSS       optionalString `json:"cnss"`
	Specialty  optionalString `json:"specialty"`
	HiredAt    optionalString `json:"hired_at"`
	Status     *string        `json:"status"`
}

type collaboratorResponse struct {
	ID         string    `json:"id"`
	CIN        string    `json:"cin"`
	LastName   string    `json:"last_name"`
	FirstName  string    `json:"first_name"`
	BirthDate  string    `json:"birth_date"`
	BirthPlace string    `json:"birth_place"`
	Address    string    `json:"address"`
	CNSS       *string   `json:"cnss"`
	Specialty  *string   `json:"specialty"`
	HiredAt    *string   `json:"hired_at"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type listCollaboratorsResponse struct {
	Collaborators []collaboratorResponse `json:"collaborators"`
	NextPageToken string                 `json:"next_page_token,omitempty"`
}

func (h *CollaboratorHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createCollaboratorRequest
	if err := decodeJSON(r, &req, false); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	if req.BirthDate == "" {
		writeError(w, r, h.logger, collaborator.ErrInvalidBirthDate)
		return
	}
	birthDate, err := parseDate(req.BirthDate)
	if err != nil {
		writeError(w, r, h.logger, fmt.Errorf("birth_date: %w", err))
		return
	}
	hiredAt, err := parseOptionalDate(req.HiredAt)
	if err != nil {
		writeError(w, r, h.logger, fmt.Errorf("hired_at: %w", err))
		return
	}

	created, err := h.svc.CreateCollaborator(r.Context(), collaborator.CreateCollaboratorInput{
		CIN:        req.CIN,
		LastName:   req.LastName,
		FirstName:  req.FirstName,
		BirthDate:  birthDate,
		BirthPlace: req.BirthPlace,
		Address:    req.Address,
		CNSS:       req.CNSS,
		Specialty:  req.Specialty,
		HiredAt:    hiredAt,
		Status:     toStatusPtr(req.Status),
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	w.Header().Set("Location", "/api/collaborateurs/"+created.ID)
	writeJSON(w, http.StatusCreated, toCollaboratorResponse(created))
}

func (h *CollaboratorHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	found, err := h.svc.GetCollaborator(r.Context(), collaborator.GetCollaboratorInput{
		ID: chi.URLParam(r, "id"),
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toCollaboratorResponse(found))
}

// handleList は cin クエリがあれば単一検索、なければページング一覧を返します。
func (h *CollaboratorHandler) handleList(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	if cin := query.Get("cin"); cin != "" {
		found, err := h.svc.GetCollaboratorByCIN(r.Context(), collaborator.GetCollaboratorByCINInput{CIN: cin})
		if err != nil {
			writeError(w, r, h.logger, err)
			return
		}
		writeJSON(w, http.StatusOK, toCollaboratorResponse(found))
		return
	}

	in := collaborator.ListCollaboratorsInput{PageToken: query.Get("page_token")}
	if raw := query.Get("page_size"); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, r, h.logger, collaborator.ErrInvalidPageSize)
			return
		}
		in.PageSize = size
	}
	if raw := query.Get("status"); raw != "" {
		status := collaborator.Status(raw)
		in.Status = &status
	}

	result, err := h.svc.ListCollaborators(r.Context(), in)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	resp := listCollaboratorsResponse{
		Collaborators: make([]collaboratorResponse, 0, len(result.Collaborators)),
		NextPageToken: result.NextPageToken,
	}
	for _, c := range result.Collaborators {
		resp.Collaborators = append(resp.Collaborators, toCollaboratorResponse(c))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *CollaboratorHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var req updateCollaboratorRequest
	if err := decodeJSON(r, &req, false); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	birthDate, err := parseOptionalDate(req.BirthDate)
	if err != nil {
		writeError(w, r, h.logger, fmt.Errorf("birth_date: %w", err))
		return
	}
	hiredAt, err := parseOptionalDate(req.HiredAt.Value)
	if err != nil {
		writeError(w, r, h.logger, fmt.Errorf("hired_at: %w", err))
		return
	}

	updated, err := h.svc.UpdateCollaborator(r.Context(), collaborator.UpdateCollaboratorInput{
		ID:           chi.URLParam(r, "id"),
		CIN:          req.CIN,
		LastName:     req.LastName,
		FirstName:    req.FirstName,
		BirthDate:    birthDate,
		BirthPlace:   req.BirthPlace,
		Address:      req.Address,
		CNSS:         req.CNSS.Value,
		CNSSSet:      req.CNSS.Set,
		Specialty:    req.Specialty.Value,
		SpecialtySet: req.Specialty.Set,
		HiredAt:      hiredAt,
		HiredAtSet:   req.HiredAt.Set,
		Status:       toStatusPtr(req.Status),
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toCollaboratorResponse(updated))
}

func (h *CollaboratorHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteCollaborator(r.Context(), collaborator.DeleteCollaboratorInput{
		ID: chi.URLParam(r, "id"),
	}); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func toStatusPtr(raw *string) *collaborator.Status {
	if raw == nil {
		return nil
	}
	status := collaborator.Status(*raw)
	return &status
}

func toCollaboratorResponse(c *collaborator.Collaborator) collaboratorResponse {
	return collaboratorResponse{
		ID:         c.ID,
		CIN:        c.CIN,
		LastName:   c.LastName,
		FirstName:  c.FirstName,
		BirthDate:  c.BirthDate.Format(dateLayout),
		BirthPlace: c.BirthPlace,
		Address:    c.Address,
		CNSS:       c.CNSS,
		Specialty:  c.Specialty,
		HiredAt:    formatDate(c.HiredAt),
		Status:     string(c.Status),
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}
}
